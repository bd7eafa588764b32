package amqp

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/state"
)

// Channel is a handle to one open AMQP channel, sharing its parent
// Connection's Transport and background pump (spec.md §4.4). All methods
// are thin adapters: acquire the transport lock, call the matching
// Machine operation, release the lock, then await the returned request
// id (or return immediately for fire-and-forget operations).
type Channel struct {
	conn *Connection
	id   uint16
	m    *state.Machine
}

var consumerTagSeq uint64

// nextConsumerTag generates a client-side consumer tag, since
// basic.deliver never repeats the queue name and the tag must be known
// before the first delivery can arrive under it (spec.md §4.1, §4.2).
func nextConsumerTag() string {
	n := atomic.AddUint64(&consumerTagSeq, 1)
	return fmt.Sprintf("ctag-%d-%d", os.Getpid(), n)
}

func (c *Channel) machine() *state.Machine { return c.m }

// ID returns the channel's numeric id.
func (c *Channel) ID() uint16 { return c.id }

func (c *Channel) wait(ctx context.Context, id state.RequestID) error {
	return c.conn.waitRequest(ctx, id)
}

// ExchangeDeclare declares an exchange (spec.md §4.2, §6).
func (c *Channel) ExchangeDeclare(ctx context.Context, name, kind string, opts ExchangeDeclareOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.ExchangeDeclare(c.id, name, kind, opts.Passive, opts.Durable, opts.AutoDelete, opts.Internal, opts.NoWait, opts.Args)
	})
	if err != nil {
		return err
	}
	if opts.NoWait {
		return nil
	}
	return c.wait(ctx, id)
}

// ExchangeDelete deletes an exchange.
func (c *Channel) ExchangeDelete(ctx context.Context, name string, opts ExchangeDeleteOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.ExchangeDelete(c.id, name, opts.IfUnused, opts.NoWait)
	})
	if err != nil {
		return err
	}
	if opts.NoWait {
		return nil
	}
	return c.wait(ctx, id)
}

// ExchangeBind binds one exchange to another.
func (c *Channel) ExchangeBind(ctx context.Context, destination, source, routingKey string, opts ExchangeBindOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.ExchangeBind(c.id, destination, source, routingKey, opts.NoWait, opts.Args)
	})
	if err != nil {
		return err
	}
	if opts.NoWait {
		return nil
	}
	return c.wait(ctx, id)
}

// ExchangeUnbind removes an exchange-to-exchange binding.
func (c *Channel) ExchangeUnbind(ctx context.Context, destination, source, routingKey string, opts ExchangeBindOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.ExchangeUnbind(c.id, destination, source, routingKey, opts.NoWait, opts.Args)
	})
	if err != nil {
		return err
	}
	if opts.NoWait {
		return nil
	}
	return c.wait(ctx, id)
}

// QueueInfo is the declare/purge/delete result spec.md §6's QueueDeclare,
// QueuePurge and QueueDelete option groups imply (message/consumer
// counts echoed by the broker).
type QueueInfo struct {
	Name          string
	MessageCount  uint32
	ConsumerCount uint32
}

// QueueDeclare declares a queue.
func (c *Channel) QueueDeclare(ctx context.Context, name string, opts QueueDeclareOptions) (QueueInfo, error) {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.QueueDeclare(c.id, name, opts.Passive, opts.Durable, opts.Exclusive, opts.AutoDelete, opts.NoWait, opts.Args)
	})
	if err != nil {
		return QueueInfo{}, err
	}
	if opts.NoWait {
		return QueueInfo{Name: name}, nil
	}
	if err := c.wait(ctx, id); err != nil {
		return QueueInfo{}, err
	}
	var result interface{}
	c.conn.transport.Locked(func(m *state.Machine) { result = m.Result(id) })
	if res, ok := result.(*method.QueueDeclareOk); ok {
		return QueueInfo{Name: res.Queue, MessageCount: res.MessageCount, ConsumerCount: res.ConsumerCount}, nil
	}
	return QueueInfo{Name: name}, nil
}

// QueueBind binds a queue to an exchange.
func (c *Channel) QueueBind(ctx context.Context, queue, exchange, routingKey string, opts QueueBindOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.QueueBind(c.id, queue, exchange, routingKey, opts.NoWait, opts.Args)
	})
	if err != nil {
		return err
	}
	if opts.NoWait {
		return nil
	}
	return c.wait(ctx, id)
}

// QueueUnbind removes a queue-to-exchange binding (queue.unbind has no
// nowait flag in the AMQP 0-9-1 spec, so this always awaits the reply).
func (c *Channel) QueueUnbind(ctx context.Context, queue, exchange, routingKey string, opts QueueUnbindOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.QueueUnbind(c.id, queue, exchange, routingKey, opts.Args)
	})
	if err != nil {
		return err
	}
	return c.wait(ctx, id)
}

// QueuePurge purges all messages from a queue, returning the count
// purged.
func (c *Channel) QueuePurge(ctx context.Context, queue string, opts QueuePurgeOptions) (uint32, error) {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.QueuePurge(c.id, queue, opts.NoWait)
	})
	if err != nil {
		return 0, err
	}
	if opts.NoWait {
		return 0, nil
	}
	if err := c.wait(ctx, id); err != nil {
		return 0, err
	}
	var result interface{}
	c.conn.transport.Locked(func(m *state.Machine) { result = m.Result(id) })
	if res, ok := result.(*method.QueuePurgeOk); ok {
		return res.MessageCount, nil
	}
	return 0, nil
}

// QueueDelete deletes a queue, returning the count of messages it held.
func (c *Channel) QueueDelete(ctx context.Context, queue string, opts QueueDeleteOptions) (uint32, error) {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.QueueDelete(c.id, queue, opts.IfUnused, opts.IfEmpty, opts.NoWait)
	})
	if err != nil {
		return 0, err
	}
	if opts.NoWait {
		return 0, nil
	}
	if err := c.wait(ctx, id); err != nil {
		return 0, err
	}
	var result interface{}
	c.conn.transport.Locked(func(m *state.Machine) { result = m.Result(id) })
	if res, ok := result.(*method.QueueDeleteOk); ok {
		return res.MessageCount, nil
	}
	return 0, nil
}

// Qos sets the channel's prefetch limits (spec.md §4.2's basic.qos).
func (c *Channel) Qos(ctx context.Context, opts QosOptions) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.BasicQos(c.id, opts.PrefetchSize, opts.PrefetchCount, opts.Global)
	})
	if err != nil {
		return err
	}
	return c.wait(ctx, id)
}

// ConfirmSelect switches the channel into publisher-confirm mode
// (spec.md §4.2's Publisher confirms paragraph).
func (c *Channel) ConfirmSelect(ctx context.Context, noWait bool) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.ConfirmSelect(c.id, noWait)
	})
	if err != nil {
		return err
	}
	if noWait {
		return nil
	}
	return c.wait(ctx, id)
}

// Confirmation is the pending outcome of one publish on a confirm-mode
// channel (spec.md §4.4's "basic_publish returns Option<bool>" note,
// expressed in Go as a separate awaitable rather than a nilable bool so
// callers can choose whether and when to wait).
type Confirmation struct {
	ch  *Channel
	tag uint64
}

// Wait blocks until the broker acks or nacks this publish, or ctx is
// cancelled.
func (p *Confirmation) Wait(ctx context.Context) (ack bool, err error) {
	outcome := func() (ack, resolved, chFound bool) {
		p.ch.conn.transport.Locked(func(m *state.Machine) {
			ch, ok := m.Channel(p.ch.id)
			if !ok {
				return
			}
			chFound = true
			ack, resolved = ch.ConfirmOutcome(p.tag)
		})
		return
	}
	waitChan := func() (waitCh <-chan struct{}, chFound bool) {
		p.ch.conn.transport.Locked(func(m *state.Machine) {
			ch, ok := m.Channel(p.ch.id)
			if !ok {
				return
			}
			chFound = true
			waitCh = ch.WaitConfirm(p.tag)
		})
		return
	}

	for {
		a, resolved, chFound := outcome()
		if !chFound {
			return false, ErrChannelClosed
		}
		if resolved {
			return a, nil
		}
		waitCh, chFound := waitChan()
		if !chFound {
			return false, ErrChannelClosed
		}
		select {
		case <-waitCh:
			// loop and re-check the outcome under the lock.
		case <-p.ch.conn.transport.Done():
			return false, ErrChannelClosed
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// Publish sends a message, enqueuing the method, header and body frames
// in one critical section so they can never be interleaved with another
// publish on the same channel (spec.md §4.4). On a confirm-mode channel
// it returns a Confirmation to await; otherwise it returns nil.
func (c *Channel) Publish(ctx context.Context, exchange, routingKey string, body []byte, props Properties, opts PublishOptions) (*Confirmation, error) {
	var tag uint64
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		tag, err = m.BasicPublish(c.id, exchange, routingKey, opts.Mandatory, opts.Immediate)
		if err == nil {
			m.SendContentFrames(c.id, method.ClassBasic, body, props.toState())
		}
	})
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	return &Confirmation{ch: c, tag: tag}, nil
}

// Get performs a basic.get: it first awaits the broker's get-ok/get-empty
// reply, then (on get-ok) awaits the content assembly completing (spec.md
// §4.4's two-phase future). ErrEmpty is returned when the queue had no
// message available.
func (c *Channel) Get(ctx context.Context, queue string, opts GetOptions) (Delivery, error) {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.BasicGet(c.id, queue, opts.NoAck)
	})
	if err != nil {
		return Delivery{}, err
	}

	for {
		var done, empty bool
		var gerr error
		var wait <-chan struct{}
		c.conn.transport.Locked(func(m *state.Machine) {
			done, empty, gerr = m.IsFinishedGetResult(id)
			if !done {
				wait = m.Wait(id)
			}
		})
		if done {
			if gerr != nil {
				return Delivery{}, gerr
			}
			if empty {
				return Delivery{}, &ErrEmpty{}
			}
			break
		}
		select {
		case <-wait:
		case <-c.conn.transport.Done():
			return Delivery{}, ErrConnectionClosed
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		}
	}

	for {
		var d *state.Delivery
		c.conn.transport.Locked(func(m *state.Machine) {
			d = m.NextBasicGetMessage(c.id, queue)
		})
		if d != nil {
			return deliveryFromState(c, *d), nil
		}
		var waitCh <-chan struct{}
		var ch *state.Channel
		c.conn.transport.Locked(func(m *state.Machine) {
			ch, _ = m.Channel(c.id)
			if ch != nil {
				waitCh = ch.Wait()
			}
		})
		if waitCh == nil {
			return Delivery{}, ErrChannelClosed
		}
		select {
		case <-waitCh:
		case <-c.conn.transport.Done():
			return Delivery{}, ErrConnectionClosed
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		}
	}
}

// Consume starts a consumer and returns a handle that yields deliveries
// (spec.md §4.4).
func (c *Channel) Consume(ctx context.Context, queue string, opts ConsumeOptions) (*Consumer, error) {
	tag := opts.ConsumerTag
	if tag == "" {
		tag = nextConsumerTag()
	}

	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, tag, err = m.BasicConsume(c.id, queue, tag, opts.NoLocal, opts.NoAck, opts.Exclusive, opts.NoWait, opts.Args)
	})
	if err != nil {
		return nil, err
	}
	if !opts.NoWait {
		if err := c.wait(ctx, id); err != nil {
			return nil, err
		}
	}
	return &Consumer{ch: c, queue: queue, tag: tag}, nil
}

// Cancel stops a consumer (spec.md §4.2's basic.cancel).
func (c *Channel) Cancel(ctx context.Context, tag string, noWait bool) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.BasicCancel(c.id, tag, noWait)
	})
	if err != nil {
		return err
	}
	if noWait {
		return nil
	}
	return c.wait(ctx, id)
}

// Ack acknowledges one or more deliveries by tag (spec.md §4.2's
// basic.ack); prefer Delivery.Ack when a Delivery value is in hand.
func (c *Channel) Ack(deliveryTag uint64, multiple bool) error {
	var err error
	c.conn.transport.Locked(func(m *state.Machine) { err = m.BasicAck(c.id, deliveryTag, multiple) })
	return err
}

// Nack negatively acknowledges one or more deliveries (a RabbitMQ
// extension, spec.md §6's capability table).
func (c *Channel) Nack(deliveryTag uint64, multiple, requeue bool) error {
	var err error
	c.conn.transport.Locked(func(m *state.Machine) { err = m.BasicNack(c.id, deliveryTag, multiple, requeue) })
	return err
}

// Reject rejects a single delivery (spec.md §4.2's basic.reject).
func (c *Channel) Reject(deliveryTag uint64, requeue bool) error {
	var err error
	c.conn.transport.Locked(func(m *state.Machine) { err = m.BasicReject(c.id, deliveryTag, requeue) })
	return err
}

// Recover asks the broker to redeliver unacked messages on this channel.
func (c *Channel) Recover(ctx context.Context, requeue bool) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) { id, err = m.BasicRecover(c.id, requeue) })
	if err != nil {
		return err
	}
	return c.wait(ctx, id)
}

// Return pops one pending mandatory/immediate publish failure
// (basic.return), or nil if none are queued.
func (c *Channel) Return() *Delivery {
	var sd *state.Delivery
	c.conn.transport.Locked(func(m *state.Machine) {
		if ch, ok := m.Channel(c.id); ok {
			sd = ch.PopReturn()
		}
	})
	if sd == nil {
		return nil
	}
	d := deliveryFromState(c, *sd)
	return &d
}

// Close sends channel.close and waits for the broker's close-ok (or
// ctx's cancellation), per spec.md §4.2.
func (c *Channel) Close(ctx context.Context, code uint16, reason string) error {
	var id state.RequestID
	var err error
	c.conn.transport.Locked(func(m *state.Machine) {
		id, err = m.CloseChannel(c.id, code, reason)
	})
	if err != nil {
		return err
	}
	return c.wait(ctx, id)
}
