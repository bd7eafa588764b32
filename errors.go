package amqp

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/state"
)

// The error types application code can type-assert against (spec.md §7),
// together with IoError below. Each aliases the internal/state or
// internal/frame type of the same shape; application code never imports
// internal/*, so these aliases are the only names it sees. There is no
// MutexPoisoned kind.
type (
	// ParseError means the byte stream does not hold a well-formed frame.
	ParseError = frame.ParseError
	// SerializeError is returned when the core refuses to encode a value
	// (e.g. a string too long for a short-string field).
	SerializeError = frame.SerializeError
	// ProtocolError is returned when the broker rejects a method with a
	// channel.close or connection.close carrying a reply code.
	ProtocolError = state.ProtocolError
	// ConnectionClosedError is resolved onto every outstanding request
	// when either peer closes the connection.
	ConnectionClosedError = state.ConnectionClosedError
	// InvalidStateError is returned synchronously when application code
	// issues an operation against a channel that is not Open, or a
	// connection that is not Connected.
	InvalidStateError = state.InvalidStateError
	// ErrEmpty is returned by Channel.Get when the queue has no message
	// available (spec.md §8's basic.get-empty scenario).
	ErrEmpty = state.BasicGetEmptyError
)

// IoError wraps a failure to dial the broker with a stack trace taken
// where Dial saw it (spec.md §7's IoError kind). Only Dial returns it:
// read and write failures on an established connection are returned as
// the transport reports them, without this wrapper. internal/transport
// never imports github.com/pkg/errors itself.
type IoError struct {
	inner error
}

func (e *IoError) Error() string { return "amqp: i/o error: " + e.inner.Error() }
func (e *IoError) Unwrap() error { return e.inner }

func wrapIoError(err error) error {
	if err == nil {
		return nil
	}
	return &IoError{inner: pkgerrors.WithStack(err)}
}

// ErrConnectionClosed is returned by Connection/Channel operations once
// Connection.Close has completed gracefully.
var ErrConnectionClosed = errors.New("amqp: connection closed")

// ErrChannelClosed is returned by Confirmation.Wait, Channel.Get and
// Consumer.Next when the connection has no record of the channel. A
// closed or failed channel keeps its record; operations issued on a
// channel that is not Open return an InvalidStateError instead.
var ErrChannelClosed = errors.New("amqp: channel closed")

// ErrConsumerCancelled is returned by Consumer.Next once the broker or
// client has cancelled the consumer and its delivery queue has drained.
var ErrConsumerCancelled = errors.New("amqp: consumer cancelled")
