package state

import "fmt"

// ProtocolError is returned when the broker rejects a method with a
// channel.close or connection.close carrying a reply code (spec.md §7).
type ProtocolError struct {
	Code     uint16
	Reason   string
	ClassID  uint16
	MethodID uint16
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("amqp: protocol error %d: %s (class %d, method %d)", e.Code, e.Reason, e.ClassID, e.MethodID)
}

// ConnectionClosedError is resolved onto every outstanding request when
// either peer closes the connection (spec.md §7).
type ConnectionClosedError struct {
	Code   uint16
	Reason string
}

func (e *ConnectionClosedError) Error() string {
	return fmt.Sprintf("amqp: connection closed: %d %s", e.Code, e.Reason)
}

// InvalidStateError is returned synchronously (never stored in the
// registry) when application code issues a method against a channel that
// is not Open, or a connection that is not Connected (spec.md §7).
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return "amqp: invalid state: " + e.Reason }

// BasicGetEmptyError is the distinguished "no message available" outcome
// of a basic.get on an empty queue (spec.md §8's end-to-end scenario).
type BasicGetEmptyError struct{}

func (*BasicGetEmptyError) Error() string { return "amqp: basic.get: queue empty" }
