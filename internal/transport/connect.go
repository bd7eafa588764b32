package transport

import (
	"context"
	"net"
	"time"

	"github.com/hazelrun/goamqp091/internal/state"
)

// Options configures the handshake Connect drives (spec.md §6's
// ConnectionOptions).
type Options struct {
	Username   string
	Password   string
	Vhost      string
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

// Connect builds a Transport around conn, drives the AMQP 0-9-1
// handshake to completion (or ctx's cancellation / a connection-level
// error), and returns the ready Transport (spec.md §4.2, §4.3).
func Connect(ctx context.Context, conn net.Conn, opts Options) (*Transport, error) {
	m := state.New()
	if opts.Username != "" {
		m.SetCredentials(opts.Username, opts.Password)
	}
	if opts.Vhost != "" {
		m.SetVhost(opts.Vhost)
	}
	m.SetChannelMax(opts.ChannelMax)
	m.SetFrameMax(opts.FrameMax)
	m.SetHeartbeat(opts.Heartbeat)

	t := New(conn, m)
	t.Locked(func(m *state.Machine) { m.Connect() })

	for {
		if m.State() == state.StateConnected {
			return t, nil
		}
		if m.State() == state.StateError || m.State() == state.StateClosed {
			return nil, m.ConnError()
		}

		select {
		case <-ctx.Done():
			_ = t.Close()
			return nil, ctx.Err()
		default:
		}

		if err := t.Poll(200 * time.Millisecond); err != nil {
			return nil, err
		}
	}
}
