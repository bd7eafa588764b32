package transport_test

import (
	"net"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/state"
	"github.com/hazelrun/goamqp091/internal/transport"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// pump mimics the root package's Connection.run loop: call Poll until the
// transport is done. Used to exercise the goroutine lifecycle leaktest
// checks for (spec.md §4.3, §5).
func pump(t *transport.Transport) {
	for {
		if err := t.Poll(50 * time.Millisecond); err != nil {
			return
		}
		select {
		case <-t.Done():
			return
		default:
		}
	}
}

func TestPollSendWritesQueuedFrames(t *testing.T) {
	defer leaktest.Check(t)()

	client, server := net.Pipe()
	defer server.Close()

	m := state.New()
	tr := transport.New(client, m)
	defer tr.Close()

	tr.Locked(func(m *state.Machine) { m.EnqueueHeartbeat() })

	readDone := make(chan struct{})
	var decoded frame.Frame
	go func() {
		defer close(readDone)
		buf := make([]byte, 256)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		b := wire.New(buf[:n])
		f, ok, derr := frame.Decode(b)
		if derr == nil && ok {
			decoded = f
		}
	}()

	n, err := tr.PollSend()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	select {
	case <-readDone:
	case <-time.After(time.Second):
		t.Fatal("server side never observed the heartbeat frame")
	}
	require.Equal(t, frame.KindHeartbeat, decoded.Kind)
}

func TestTransportCloseStopsPump(t *testing.T) {
	defer leaktest.Check(t)()

	client, server := net.Pipe()
	defer server.Close()

	m := state.New()
	tr := transport.New(client, m)

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		pump(tr)
	}()

	require.NoError(t, tr.Close())

	select {
	case <-pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("pump goroutine did not exit after Transport.Close")
	}
}

func TestPollRecvTimeoutIsNotFatal(t *testing.T) {
	defer leaktest.Check(t)()

	client, server := net.Pipe()
	defer server.Close()
	defer client.Close()

	m := state.New()
	tr := transport.New(client, m)
	defer tr.Close()

	n, err := tr.PollRecv(20 * time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	select {
	case <-tr.Done():
		t.Fatal("a read timeout must not mark the transport done")
	default:
	}
}
