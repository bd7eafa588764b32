// Package transport is the Transport of spec.md §4.3: it owns the
// net.Conn and the read/write byte buffers, and drives internal/state's
// Machine by feeding it decoded frames and draining its outbound queue.
// It is the only package in this module that performs I/O.
package transport

import (
	"net"
	"sync"
	"time"

	"github.com/hazelrun/goamqp091/internal/debug"
	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/state"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// readChunk is the size of each read(2) call into the connection.
const readChunk = 4096

// Transport pairs a net.Conn with a Machine and the mutex that makes the
// pairing safe to drive from two goroutines (a reader and a writer) plus
// any number of application goroutines calling into the Machine (spec.md
// §5's "shared mutable transport" design note).
type Transport struct {
	conn net.Conn

	mu      sync.Mutex
	machine *state.Machine
	in      wire.Buffer

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

// New wraps conn and m. m should already have Connect() called, or the
// caller should call m.Connect() immediately after New and before
// starting the mux (PollSend won't have anything to send otherwise).
func New(conn net.Conn, m *state.Machine) *Transport {
	return &Transport{
		conn:    conn,
		machine: m,
		closed:  make(chan struct{}),
	}
}

// Machine returns the underlying state machine, for callers that need to
// issue operations under the Transport's lock via Locked.
func (t *Transport) Machine() *state.Machine { return t.machine }

// Locked runs fn with the Transport's mutex held, the same critical
// section PollRecv/PollSend run in. Every Machine method that mutates
// state (operations, HandleFrame) must be called this way.
func (t *Transport) Locked(fn func(m *state.Machine)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.machine)
}

// PollRecv reads and decodes as many whole frames as are available
// without blocking longer than readTimeout, feeding each to the Machine.
// It returns the decoded frames' count and any fatal error (spec.md §4.3).
func (t *Transport) PollRecv(readTimeout time.Duration) (int, error) {
	if readTimeout > 0 {
		_ = t.conn.SetReadDeadline(timeNow().Add(readTimeout))
	} else {
		_ = t.conn.SetReadDeadline(time.Time{})
	}

	buf := make([]byte, readChunk)
	n, err := t.conn.Read(buf)
	if n > 0 {
		t.mu.Lock()
		t.in.Append(buf[:n])
		count := 0
		for {
			f, ok, decErr := frame.Decode(&t.in)
			if decErr != nil {
				t.mu.Unlock()
				t.fail(decErr)
				return count, decErr
			}
			if !ok {
				break
			}
			debug.Log(3, "RX (transport): %+v", f)
			if herr := t.machine.HandleFrame(f); herr != nil {
				t.mu.Unlock()
				t.fail(herr)
				return count, herr
			}
			count++
		}
		t.mu.Unlock()
		return count, nil
	}
	if isTimeout(err) {
		return 0, nil
	}
	if err != nil {
		t.fail(err)
	}
	return 0, err
}

// PollSend drains and writes every frame currently queued by the
// Machine, returning the count written and any fatal error.
func (t *Transport) PollSend() (int, error) {
	t.mu.Lock()
	var out wire.Buffer
	count := 0
	for {
		f, ok := t.machine.NextFrame()
		if !ok {
			break
		}
		if err := frame.Encode(&out, f); err != nil {
			t.mu.Unlock()
			t.fail(err)
			return count, err
		}
		debug.Log(3, "TX (transport): %+v", f)
		count++
	}
	t.mu.Unlock()

	if count == 0 {
		return 0, nil
	}
	if _, err := t.conn.Write(out.Detach()); err != nil {
		t.fail(err)
		return count, err
	}
	return count, nil
}

// Poll is PollSend followed by a PollRecv bounded by readTimeout; it is
// the loop body a mux goroutine calls repeatedly (spec.md §4.3, §5).
func (t *Transport) Poll(readTimeout time.Duration) error {
	if _, err := t.PollSend(); err != nil {
		return err
	}
	_, err := t.PollRecv(readTimeout)
	return err
}

// SendHeartbeat enqueues a heartbeat frame and flushes it immediately.
// The core never calls this itself (spec.md §5 defers heartbeat timing
// to "a companion timer not specified here"); this is the seam such a
// timer calls into.
func (t *Transport) SendHeartbeat() error {
	t.Locked(func(m *state.Machine) {
		m.EnqueueHeartbeat()
	})
	_, err := t.PollSend()
	return err
}

// Done returns a channel closed once the transport has failed or been
// closed, and Err returns the reason.
func (t *Transport) Done() <-chan struct{} { return t.closed }
func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeErr
}

func (t *Transport) fail(err error) {
	t.mu.Lock()
	if t.closeErr == nil {
		t.closeErr = err
	}
	t.machine.Fail(err)
	t.mu.Unlock()
	t.closeOnce.Do(func() { close(t.closed) })
}

// Close closes the underlying connection and marks the transport done.
func (t *Transport) Close() error {
	err := t.conn.Close()
	t.closeOnce.Do(func() { close(t.closed) })
	return err
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// timeNow is a seam so tests could fake the clock; production always
// uses time.Now.
var timeNow = time.Now
