package state

// RequestID is a client-local identifier pairing a request frame with its
// server reply (spec.md §3, §GLOSSARY).
type RequestID uint32

type requestStatus struct {
	finished bool
	success  bool
	err      error
	// forGet marks a basic.get request: "empty" is a distinct success
	// case from "found", so IsFinishedGetResult can tell them apart
	// (spec.md §4.2's finished_get_result).
	forGet bool
	empty  bool
	waiter chan struct{}
	// result carries a method-specific payload (e.g. *method.QueueDeclareOk)
	// for callers that need more than success/failure, fetched via Result.
	result interface{}
}

// requestRegistry maps RequestID to request status, populated when a
// request frame is enqueued and resolved when its matching response
// arrives (spec.md §3).
type requestRegistry struct {
	next     uint32
	requests map[RequestID]*requestStatus
}

func newRequestRegistry() *requestRegistry {
	return &requestRegistry{requests: map[RequestID]*requestStatus{}}
}

func (r *requestRegistry) allocate() RequestID {
	r.next++
	id := RequestID(r.next)
	r.requests[id] = &requestStatus{waiter: make(chan struct{})}
	return id
}

func (r *requestRegistry) resolve(id RequestID, success bool, err error) {
	st, ok := r.requests[id]
	if !ok || st.finished {
		return
	}
	st.finished = true
	st.success = success
	st.err = err
	close(st.waiter)
}

// resolveWithResult resolves id successfully and attaches result, fetched
// later via Result (spec.md §4.2's typed *-ok replies: queue.declare-ok's
// message/consumer counts, queue.purge-ok's message count, and so on).
func (r *requestRegistry) resolveWithResult(id RequestID, result interface{}) {
	st, ok := r.requests[id]
	if !ok || st.finished {
		return
	}
	st.finished = true
	st.success = true
	st.result = result
	close(st.waiter)
}

// Result returns the payload attached by resolveWithResult, or nil.
func (r *requestRegistry) Result(id RequestID) interface{} {
	st, ok := r.requests[id]
	if !ok {
		return nil
	}
	return st.result
}

func (r *requestRegistry) resolveGet(id RequestID, empty bool) {
	st, ok := r.requests[id]
	if !ok || st.finished {
		return
	}
	st.finished = true
	st.success = true
	st.forGet = true
	st.empty = empty
	close(st.waiter)
}

// IsFinished reports done=false while id is pending, and otherwise the
// terminal (success, err) pair; an unknown id reports done with no error
// (spec.md §4.2's is_finished).
func (r *requestRegistry) IsFinished(id RequestID) (done bool, success bool, err error) {
	st, ok := r.requests[id]
	if !ok {
		return true, false, nil
	}
	return st.finished, st.success, st.err
}

// IsFinishedGetResult specializes IsFinished for basic.get, where "empty"
// is a distinct success case (spec.md §4.2's finished_get_result).
func (r *requestRegistry) IsFinishedGetResult(id RequestID) (done bool, empty bool, err error) {
	st, ok := r.requests[id]
	if !ok {
		return true, false, nil
	}
	if !st.finished {
		return false, false, nil
	}
	if st.err != nil {
		return true, false, st.err
	}
	return true, st.empty, nil
}

// Wait returns a channel closed once id resolves.
func (r *requestRegistry) Wait(id RequestID) <-chan struct{} {
	st, ok := r.requests[id]
	if !ok {
		return closedChan
	}
	return st.waiter
}

// failAll resolves every still-pending request with err — used for
// connection-wide errors (spec.md §7).
func (r *requestRegistry) failAll(err error) {
	for id, st := range r.requests {
		if !st.finished {
			r.resolve(id, false, err)
		}
		_ = id
	}
}
