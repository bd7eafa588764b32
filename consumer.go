package amqp

import (
	"context"

	"github.com/hazelrun/goamqp091/internal/state"
)

// Consumer is a handle to one basic.consume registration: a lazy,
// restartable, potentially-infinite sequence of Delivery values (spec.md
// §4.4). Next drives the shared transport, popping one delivery from the
// consumer's FIFO when available and blocking on the channel's waker
// otherwise. The sequence ends once the broker or client cancels the
// consumer, or the channel/connection dies.
type Consumer struct {
	ch    *Channel
	queue string
	tag   string
}

// Tag returns the consumer tag this handle was registered under, either
// the caller-supplied one or the client-generated one.
func (co *Consumer) Tag() string { return co.tag }

// Next blocks until a delivery is available, the consumer is cancelled,
// or ctx is cancelled.
func (co *Consumer) Next(ctx context.Context) (Delivery, error) {
	for {
		var d *state.Delivery
		var cancelled, chFound bool
		var waitCh <-chan struct{}
		co.ch.conn.transport.Locked(func(m *state.Machine) {
			d = m.NextDelivery(co.ch.id, co.queue, co.tag)
			if d != nil {
				return
			}
			ch, ok := m.Channel(co.ch.id)
			if !ok {
				return
			}
			chFound = true
			if cons, ok := ch.FindConsumer(co.tag); ok {
				cancelled = cons.Cancelled()
			}
			waitCh = ch.Wait()
		})
		if d != nil {
			return deliveryFromState(co.ch, *d), nil
		}
		if !chFound {
			return Delivery{}, ErrChannelClosed
		}
		if cancelled {
			return Delivery{}, ErrConsumerCancelled
		}
		select {
		case <-waitCh:
		case <-co.ch.conn.transport.Done():
			return Delivery{}, ErrConnectionClosed
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		}
	}
}

// Cancel stops this consumer (spec.md §4.2's basic.cancel), equivalent
// to Channel.Cancel(ctx, co.Tag(), noWait).
func (co *Consumer) Cancel(ctx context.Context, noWait bool) error {
	return co.ch.Cancel(ctx, co.tag, noWait)
}
