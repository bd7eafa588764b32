package amqp

import (
	"context"
	"net"
	"time"

	"github.com/hazelrun/goamqp091/internal/debug"
	"github.com/hazelrun/goamqp091/internal/state"
	"github.com/hazelrun/goamqp091/internal/transport"
)

// pollInterval bounds how long a single PollRecv waits for bytes before
// looping back to check for outbound work and ctx cancellation (spec.md
// §4.3's poll_recv re-entrancy note).
const pollInterval = 200 * time.Millisecond

// Connection is a single AMQP 0-9-1 connection: one net.Conn, one
// Transport, and a background goroutine that pumps it (spec.md §4.3,
// §5). All Channel/Consumer handles created from it share this pump,
// the same "shared mutable transport behind one coarse mutex" design
// streadway/amqp's reader goroutine and demux loop use (see DESIGN.md).
type Connection struct {
	transport *transport.Transport
	done      chan struct{}
}

// Dial connects to addr (host:port) and completes the AMQP 0-9-1
// handshake (spec.md §4.2, §6). The background pump starts once the
// handshake succeeds.
func Dial(ctx context.Context, addr string, opts ConnectionOptions) (*Connection, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, wrapIoError(err)
	}
	return newConnection(ctx, conn, opts)
}

func newConnection(ctx context.Context, conn net.Conn, opts ConnectionOptions) (*Connection, error) {
	t, err := transport.Connect(ctx, conn, transport.Options{
		Username:   opts.Username,
		Password:   opts.Password,
		Vhost:      opts.Vhost,
		ChannelMax: opts.ChannelMax,
		FrameMax:   opts.FrameMax,
		Heartbeat:  opts.Heartbeat,
	})
	if err != nil {
		return nil, err
	}
	c := &Connection{transport: t, done: make(chan struct{})}
	go c.run()
	return c, nil
}

// run pumps the Transport until it fails or is closed (spec.md §4.3's
// poll()). It wakes no one itself: Channel/Consumer waiters are woken by
// the Machine when a received frame advances the state they wait on.
func (c *Connection) run() {
	defer close(c.done)
	for {
		select {
		case <-c.transport.Done():
			return
		default:
		}
		if err := c.transport.Poll(pollInterval); err != nil {
			debug.Log(2, "amqp: connection pump stopped: %v", err)
			return
		}
	}
}

// Channel opens a new Channel on this connection (spec.md §4.2's
// channel.open, §4.4).
func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	m := c.transport.Machine()

	var id uint16
	var reqID state.RequestID
	var err error
	c.transport.Locked(func(m *state.Machine) {
		id, reqID, err = m.OpenChannel()
	})
	if err != nil {
		return nil, err
	}

	if err := c.waitRequest(ctx, reqID); err != nil {
		return nil, err
	}
	return &Channel{conn: c, id: id, m: m}, nil
}

// Close sends connection.close and waits for the broker's close-ok (or
// ctx's cancellation), then stops the pump (spec.md §4.2).
func (c *Connection) Close(ctx context.Context) error {
	m := c.transport.Machine()
	var wait <-chan struct{}
	c.transport.Locked(func(m *state.Machine) {
		m.Enqueue0Close(200, "connection closed by application")
		wait = m.ConnWaitClosed()
	})
	select {
	case <-wait:
	case <-c.transport.Done():
	case <-ctx.Done():
		_ = c.transport.Close()
		return ctx.Err()
	}
	return c.transport.Close()
}

// Done returns a channel closed once the connection's pump has stopped.
func (c *Connection) Done() <-chan struct{} { return c.done }

// waitRequest blocks until id resolves, ctx is cancelled, or the
// connection dies, matching spec.md §4.4's "thin adapter" Channel
// operation shape: lock -> call -> unlock -> await.
func (c *Connection) waitRequest(ctx context.Context, id state.RequestID) error {
	for {
		var done, success bool
		var err error
		var wait <-chan struct{}
		c.transport.Locked(func(m *state.Machine) {
			done, success, err = m.IsFinished(id)
			if !done {
				wait = m.Wait(id)
			}
		})
		if done {
			if !success {
				return err
			}
			return nil
		}
		select {
		case <-wait:
		case <-c.transport.Done():
			if err := c.transport.Err(); err != nil {
				return err
			}
			return ErrConnectionClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
