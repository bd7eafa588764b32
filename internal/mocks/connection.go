// Package mocks provides a fake net.Conn driven by a responder callback,
// for exercising internal/transport and internal/state without a real
// broker (spec.md §8's end-to-end scenarios).
package mocks

import (
	"errors"
	"net"
	"os"
	"time"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// NewConnection creates a new instance of MockConnection. Responder is
// invoked by Write whenever a whole frame has been decoded from the
// bytes written to the connection. Return a nil slice/nil error to
// swallow the frame; return a non-nil error to simulate a write error.
func NewConnection(resp func(frame.Frame) ([]byte, error)) *MockConnection {
	return &MockConnection{
		resp: resp,
		// readData is buffered so shutdown doesn't block on a writer with
		// no reader left to drain it (the mux's reader and writer close
		// independently).
		readData:  make(chan []byte, 16),
		readClose: make(chan struct{}),
	}
}

// MockConnection is a mock connection satisfying the net.Conn interface.
type MockConnection struct {
	resp      func(frame.Frame) ([]byte, error)
	readDL    *time.Timer
	readData  chan []byte
	readClose chan struct{}
	closed    bool
	inbuf     wire.Buffer
}

// Read is invoked by the Transport's reader to receive frame data. It
// blocks until Write or Close are called, or the read deadline expires.
func (m *MockConnection) Read(b []byte) (n int, err error) {
	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	default:
	}

	var deadline <-chan time.Time
	if m.readDL != nil {
		deadline = m.readDL.C
	}
	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	case rd := <-m.readData:
		return copy(b, rd), nil
	case <-deadline:
		return 0, os.ErrDeadlineExceeded
	}
}

// Write is invoked by the Transport's writer. Bytes are accumulated
// across calls and decoded frame-by-frame (a caller may split a frame
// across multiple Write calls, as a real net.Conn can); each complete
// frame invokes the responder callback.
func (m *MockConnection) Write(b []byte) (n int, err error) {
	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	default:
	}

	m.inbuf.Append(b)
	for {
		f, ok, err := frame.Decode(&m.inbuf)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		resp, err := m.resp(f)
		if err != nil {
			return 0, err
		}
		if resp != nil {
			m.readData <- resp
		}
	}
	return len(b), nil
}

// PushRead delivers b to the next Read call(s), for simulating broker-
// initiated frames that aren't a direct reply to anything the test wrote
// (basic.deliver, basic.return, an unsolicited connection.close).
func (m *MockConnection) PushRead(b []byte) {
	m.readData <- b
}

// Close is called when the Transport's mux unwinds.
func (m *MockConnection) Close() error {
	if m.closed {
		return errors.New("double close")
	}
	m.closed = true
	close(m.readClose)
	return nil
}

func (m *MockConnection) LocalAddr() net.Addr  { return &net.IPAddr{IP: net.IPv4(127, 0, 0, 2)} }
func (m *MockConnection) RemoteAddr() net.Addr { return &net.IPAddr{IP: net.IPv4(127, 0, 0, 2)} }

func (m *MockConnection) SetDeadline(t time.Time) error { return errors.New("not used") }

func (m *MockConnection) SetReadDeadline(t time.Time) error {
	if m.readDL != nil && !m.readDL.Stop() {
		select {
		case <-m.readDL.C:
		default:
		}
	}
	if t.IsZero() {
		return nil
	}
	m.readDL = time.NewTimer(time.Until(t))
	return nil
}

func (m *MockConnection) SetWriteDeadline(t time.Time) error { return nil }

// ProtoHeader encodes the literal 8-byte AMQP 0-9-1 greeting.
func ProtoHeader() []byte {
	return append([]byte(nil), frame.ProtocolHeaderBytes[:]...)
}

// EncodeMethod encodes a single method frame on channel, for use as a
// responder's canned reply.
func EncodeMethod(channel uint16, m method.Method) ([]byte, error) {
	buf := &wire.Buffer{}
	err := frame.Encode(buf, frame.Frame{Kind: frame.KindMethod, Channel: channel, Method: m})
	return buf.Detach(), err
}

// EncodeContent encodes a header frame followed by as many body frames as
// needed to carry payload, mirroring internal/state.SendContentFrames'
// chunking (tests pick a chunkSize smaller than len(payload) to exercise
// multi-frame assembly).
func EncodeContent(channel uint16, classID uint16, props method.Properties, payload []byte, chunkSize int) ([]byte, error) {
	buf := &wire.Buffer{}
	if err := frame.Encode(buf, frame.Frame{
		Kind: frame.KindHeader, Channel: channel, ClassID: classID,
		BodySize: uint64(len(payload)), Properties: props,
	}); err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = len(payload)
		if chunkSize == 0 {
			chunkSize = 1
		}
	}
	for off := 0; off < len(payload); off += chunkSize {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := frame.Encode(buf, frame.Frame{Kind: frame.KindBody, Channel: channel, Body: payload[off:end]}); err != nil {
			return nil, err
		}
	}
	return buf.Detach(), nil
}

// Concat joins the byte slices produced by ProtoHeader/EncodeMethod/
// EncodeContent into one responder reply.
func Concat(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
