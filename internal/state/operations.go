package state

import (
	"fmt"

	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// The operations below take the option-group fields of spec.md §6 as plain
// parameters and copy them into the corresponding method argument struct;
// the root package unpacks its typed Options structs into these calls.

// ExchangeDeclare enqueues exchange.declare (spec.md §4.2).
func (m *Machine) ExchangeDeclare(channelID uint16, name, kind string, passive, durable, autoDelete, internal, noWait bool, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	meth := &method.ExchangeDeclare{
		Exchange: name, Type: kind, Passive: passive, Durable: durable,
		AutoDelete: autoDelete, Internal: internal, NoWait: noWait, Arguments: args,
	}
	return m.send(ch, meth)
}

// ExchangeDelete enqueues exchange.delete.
func (m *Machine) ExchangeDelete(channelID uint16, name string, ifUnused, noWait bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.ExchangeDelete{Exchange: name, IfUnused: ifUnused, NoWait: noWait})
}

// ExchangeBind enqueues exchange.bind.
func (m *Machine) ExchangeBind(channelID uint16, destination, source, routingKey string, noWait bool, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.ExchangeBind{Destination: destination, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
}

// ExchangeUnbind enqueues exchange.unbind.
func (m *Machine) ExchangeUnbind(channelID uint16, destination, source, routingKey string, noWait bool, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.ExchangeUnbind{Destination: destination, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
}

// QueueDeclare enqueues queue.declare.
func (m *Machine) QueueDeclare(channelID uint16, name string, passive, durable, exclusive, autoDelete, noWait bool, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.QueueDeclare{
		Queue: name, Passive: passive, Durable: durable, Exclusive: exclusive,
		AutoDelete: autoDelete, NoWait: noWait, Arguments: args,
	})
}

// QueueBind enqueues queue.bind.
func (m *Machine) QueueBind(channelID uint16, queueName, exchange, routingKey string, noWait bool, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.QueueBind{Queue: queueName, Exchange: exchange, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
}

// QueueUnbind enqueues queue.unbind (always expects a reply: it has no
// nowait flag in the AMQP 0-9-1 spec).
func (m *Machine) QueueUnbind(channelID uint16, queueName, exchange, routingKey string, args wire.Table) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.QueueUnbind{Queue: queueName, Exchange: exchange, RoutingKey: routingKey, Arguments: args})
}

// QueuePurge enqueues queue.purge.
func (m *Machine) QueuePurge(channelID uint16, queueName string, noWait bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.QueuePurge{Queue: queueName, NoWait: noWait})
}

// QueueDelete enqueues queue.delete.
func (m *Machine) QueueDelete(channelID uint16, queueName string, ifUnused, ifEmpty, noWait bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.QueueDelete{Queue: queueName, IfUnused: ifUnused, IfEmpty: ifEmpty, NoWait: noWait})
}

// BasicQos enqueues basic.qos.
func (m *Machine) BasicQos(channelID uint16, prefetchSize uint32, prefetchCount uint16, global bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.BasicQos{PrefetchSize: prefetchSize, PrefetchCount: prefetchCount, Global: global})
}

// BasicConsume enqueues basic.consume and pre-registers the Consumer
// under tag (generated by the caller when the application didn't supply
// one), since basic.deliver never repeats the queue name (spec.md §4.1,
// §4.2).
func (m *Machine) BasicConsume(channelID uint16, queueName, tag string, noLocal, noAck, exclusive, noWait bool, args wire.Table) (RequestID, string, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, "", err
	}
	ch.registerConsumer(queueName, tag)
	id, err := m.send(ch, &method.BasicConsume{
		Queue: queueName, ConsumerTag: tag, NoLocal: noLocal, NoAck: noAck,
		Exclusive: exclusive, NoWait: noWait, Arguments: args,
	})
	return id, tag, err
}

// BasicCancel enqueues basic.cancel.
func (m *Machine) BasicCancel(channelID uint16, tag string, noWait bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.BasicCancel{ConsumerTag: tag, NoWait: noWait})
}

// BasicPublish enqueues basic.publish (content frames follow via
// SendContentFrames in the same critical section the caller holds).
// When the channel is in confirm mode it returns the allocated delivery
// tag (spec.md §4.2's Publisher confirms paragraph).
func (m *Machine) BasicPublish(channelID uint16, exchange, routingKey string, mandatory, immediate bool) (confirmTag uint64, err error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	m.enqueueMethod(channelID, &method.BasicPublish{Exchange: exchange, RoutingKey: routingKey, Mandatory: mandatory, Immediate: immediate})
	if ch.Confirm {
		tag := ch.nextPublishTag()
		ch.addUnacked(tag)
		return tag, nil
	}
	return 0, nil
}

// BasicGet enqueues basic.get. The queue name is remembered against the
// request id so the eventual basic.get-ok/get-empty can be routed and
// resolved correctly (spec.md §4.2).
func (m *Machine) BasicGet(channelID uint16, queueName string, noAck bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	id := m.requests.allocate()
	ch.pushPendingGet(id, queueName)
	m.enqueueMethod(channelID, &method.BasicGet{Queue: queueName, NoAck: noAck})
	return id, nil
}

// BasicAck enqueues basic.ack (fire-and-forget, spec.md §4.2).
func (m *Machine) BasicAck(channelID uint16, deliveryTag uint64, multiple bool) error {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return err
	}
	m.enqueueMethod(channelID, &method.BasicAck{DeliveryTag: deliveryTag, Multiple: multiple})
	_ = ch
	return nil
}

// BasicReject enqueues basic.reject.
func (m *Machine) BasicReject(channelID uint16, deliveryTag uint64, requeue bool) error {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return err
	}
	m.enqueueMethod(channelID, &method.BasicReject{DeliveryTag: deliveryTag, Requeue: requeue})
	_ = ch
	return nil
}

// BasicNack enqueues basic.nack (a RabbitMQ extension, capability-flagged
// in connection.start-ok's client-properties table).
func (m *Machine) BasicNack(channelID uint16, deliveryTag uint64, multiple, requeue bool) error {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return err
	}
	m.enqueueMethod(channelID, &method.BasicNack{DeliveryTag: deliveryTag, Multiple: multiple, Requeue: requeue})
	_ = ch
	return nil
}

// BasicRecover enqueues basic.recover.
func (m *Machine) BasicRecover(channelID uint16, requeue bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	return m.send(ch, &method.BasicRecover{Requeue: requeue})
}

// ConfirmSelect enqueues confirm.select, switching the channel into
// publisher-confirm mode once it resolves (spec.md §4.2).
func (m *Machine) ConfirmSelect(channelID uint16, noWait bool) (RequestID, error) {
	ch, err := m.requireOpen(channelID)
	if err != nil {
		return 0, err
	}
	if noWait {
		// no confirm.select-ok will arrive to switch the mode on.
		ch.Confirm = true
	}
	return m.send(ch, &method.ConfirmSelect{NoWait: noWait})
}

// OpenChannel allocates a channel id and enqueues channel.open
// (spec.md §4.2).
func (m *Machine) OpenChannel() (uint16, RequestID, error) {
	if m.state != StateConnected {
		return 0, 0, &InvalidStateError{Reason: "connection is not Connected"}
	}
	id, err := m.CreateChannel()
	if err != nil {
		return 0, 0, err
	}
	ch := m.channels[id]
	ch.State = ChannelOpening
	reqID, err := m.send(ch, &method.ChannelOpen{})
	return id, reqID, err
}

// CloseChannel enqueues channel.close.
func (m *Machine) CloseChannel(channelID uint16, code uint16, reason string) (RequestID, error) {
	ch, ok := m.channels[channelID]
	if !ok {
		return 0, &InvalidStateError{Reason: fmt.Sprintf("no such channel %d", channelID)}
	}
	ch.State = ChannelClosing
	return m.send(ch, &method.ChannelClose{ReplyCode: code, ReplyText: reason})
}

// requireOpen validates that the connection is Connected and the channel
// is Open, per spec.md §7's InvalidState rule (checked synchronously,
// never stored in the request registry).
func (m *Machine) requireOpen(channelID uint16) (*Channel, error) {
	if m.state != StateConnected {
		return nil, &InvalidStateError{Reason: "connection is not Connected"}
	}
	ch, ok := m.channels[channelID]
	if !ok {
		return nil, &InvalidStateError{Reason: fmt.Sprintf("no such channel %d", channelID)}
	}
	if ch.State != ChannelOpen {
		return nil, &InvalidStateError{Reason: fmt.Sprintf("channel %d is not Open", channelID)}
	}
	return ch, nil
}

// send enqueues meth on ch and, if it expects a reply, allocates and
// tracks a RequestID for it (spec.md §4.2's operation table contract).
func (m *Machine) send(ch *Channel, meth method.Method) (RequestID, error) {
	m.enqueueMethod(ch.ID, meth)
	if !method.ExpectsReply(meth) {
		return 0, nil
	}
	id := m.requests.allocate()
	ch.pushPending(id)
	return id, nil
}
