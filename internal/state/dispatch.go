package state

import (
	"github.com/hazelrun/goamqp091/internal/debug"
	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
)

// handleChannelFrame dispatches a method/header/body frame addressed to
// an open (or opening) channel (spec.md §4.2).
func (m *Machine) handleChannelFrame(ch *Channel, f frame.Frame) error {
	switch f.Kind {
	case frame.KindMethod:
		return m.handleChannelMethod(ch, f.Method)
	case frame.KindHeader:
		return m.handleContentHeader(ch, f)
	case frame.KindBody:
		return m.handleContentBody(ch, f)
	default:
		return nil
	}
}

func (m *Machine) handleChannelMethod(ch *Channel, meth method.Method) error {
	switch v := meth.(type) {
	case *method.ChannelOpenOk:
		ch.State = ChannelOpen
		m.resolvePending(ch, nil)
	case *method.ChannelFlow:
		ch.SendFlow = v.Active
		m.enqueueMethod(ch.ID, &method.ChannelFlowOk{Active: v.Active})
	case *method.ChannelClose:
		m.enqueueMethod(ch.ID, &method.ChannelCloseOk{})
		m.failChannel(ch, &ProtocolError{Code: v.ReplyCode, Reason: v.ReplyText, ClassID: v.ClassID_, MethodID: v.MethodID_})
	case *method.ChannelCloseOk:
		m.resolvePending(ch, nil)
		m.failChannel(ch, &ProtocolError{Reason: "channel closed"})
		ch.State = ChannelClosed

	case *method.ExchangeDeclareOk, *method.ExchangeDeleteOk, *method.ExchangeBindOk, *method.ExchangeUnbindOk:
		m.resolvePending(ch, nil)

	case *method.QueueDeclareOk:
		m.resolvePendingResult(ch, v)
	case *method.QueueBindOk, *method.QueueUnbindOk:
		m.resolvePending(ch, nil)
	case *method.QueuePurgeOk:
		m.resolvePendingResult(ch, v)
	case *method.QueueDeleteOk:
		m.resolvePendingResult(ch, v)

	case *method.BasicQosOk:
		m.resolvePending(ch, nil)
	case *method.BasicConsumeOk:
		m.resolvePendingResult(ch, v)
	case *method.BasicCancelOk:
		if cons := ch.findConsumer(v.ConsumerTag); cons != nil {
			cons.cancelled = true
		}
		m.resolvePending(ch, nil)
	case *method.BasicCancel:
		if cons := ch.findConsumer(v.ConsumerTag); cons != nil {
			cons.cancelled = true
		}
		if !v.NoWait {
			m.enqueueMethod(ch.ID, &method.BasicCancelOk{ConsumerTag: v.ConsumerTag})
		}
		ch.notifyWakers()
	case *method.BasicRecoverOk:
		m.resolvePending(ch, nil)

	case *method.BasicDeliver:
		ch.assembling = &assemblingMessage{kind: assemblyDeliver, delivery: Delivery{
			DeliveryTag: v.DeliveryTag,
			Redelivered: v.Redelivered,
			Exchange:    v.Exchange,
			RoutingKey:  v.RoutingKey,
			ConsumerTag: v.ConsumerTag,
		}}
	case *method.BasicGetOk:
		p, _ := ch.popPending()
		ch.assembling = &assemblingMessage{kind: assemblyGet, getQueue: p.getQueue, getReqID: p.id, delivery: Delivery{
			DeliveryTag:  v.DeliveryTag,
			Redelivered:  v.Redelivered,
			Exchange:     v.Exchange,
			RoutingKey:   v.RoutingKey,
			MessageCount: v.MessageCount,
		}}
	case *method.BasicGetEmpty:
		m.resolveGetPending(ch, true)
	case *method.BasicReturn:
		ch.assembling = &assemblingMessage{kind: assemblyReturn, delivery: Delivery{
			Exchange:   v.Exchange,
			RoutingKey: v.RoutingKey,
		}}
	case *method.BasicAck:
		ch.resolveAck(v.DeliveryTag, v.Multiple, true)
	case *method.BasicNack:
		ch.resolveAck(v.DeliveryTag, v.Multiple, false)

	case *method.ConfirmSelectOk:
		ch.Confirm = true
		m.resolvePending(ch, nil)

	default:
		debug.Log(1, "amqp: unexpected channel method %T on channel %d", v, ch.ID)
	}
	return nil
}

// resolvePending resolves the oldest outstanding request on ch with err
// (nil for success).
func (m *Machine) resolvePending(ch *Channel, err error) {
	p, ok := ch.popPending()
	if !ok {
		return
	}
	m.requests.resolve(p.id, err == nil, err)
	ch.notifyWakers()
}

func (m *Machine) resolvePendingResult(ch *Channel, result interface{}) {
	p, ok := ch.popPending()
	if !ok {
		return
	}
	m.requests.resolveWithResult(p.id, result)
	ch.notifyWakers()
}

func (m *Machine) resolveGetPending(ch *Channel, empty bool) {
	p, ok := ch.popPending()
	if !ok {
		return
	}
	m.requests.resolveGet(p.id, empty)
	ch.notifyWakers()
}

// failChannel resolves every request pending on ch and marks it errored
// (spec.md §7).
func (m *Machine) failChannel(ch *Channel, err error) {
	ch.State = ChannelError
	ch.lastErr = err
	for {
		p, ok := ch.popPending()
		if !ok {
			break
		}
		m.requests.resolve(p.id, false, err)
	}
	for _, cons := range ch.consumersByTag {
		cons.cancelled = true
	}
	ch.notifyWakers()
}

func (m *Machine) handleContentHeader(ch *Channel, f frame.Frame) error {
	if ch.assembling == nil {
		return &ProtocolError{Reason: "header frame with no pending content method"}
	}
	ch.assembling.delivery.Properties = f.Properties
	ch.assembling.bodySize = f.BodySize
	ch.assembling.remaining = f.BodySize
	ch.assembling.haveHeader = true
	if ch.assembling.bodySize == 0 {
		m.completeAssembly(ch)
	}
	return nil
}

func (m *Machine) handleContentBody(ch *Channel, f frame.Frame) error {
	a := ch.assembling
	if a == nil || !a.haveHeader {
		return &ProtocolError{Reason: "body frame with no pending header"}
	}
	if uint64(len(f.Body)) > a.remaining {
		return &ProtocolError{Reason: "body frame exceeds declared body size"}
	}
	a.delivery.Payload = append(a.delivery.Payload, f.Body...)
	a.remaining -= uint64(len(f.Body))
	if a.remaining == 0 {
		m.completeAssembly(ch)
	}
	return nil
}

// completeAssembly routes a fully-assembled Delivery to its destination
// and clears the scratch slot (spec.md §3, §4.2).
func (m *Machine) completeAssembly(ch *Channel) {
	a := ch.assembling
	ch.assembling = nil
	switch a.kind {
	case assemblyReturn:
		ch.returns.Enqueue(a.delivery)
	case assemblyGet:
		ch.queueFor(a.getQueue).getMessages.Enqueue(a.delivery)
		m.requests.resolveGet(a.getReqID, false)
		ch.notifyWakers()
	default:
		if cons := ch.findConsumer(a.delivery.ConsumerTag); cons != nil {
			cons.deliveries.Enqueue(a.delivery)
			ch.notifyWakers()
		} else {
			debug.Log(1, "amqp: basic.deliver for unknown consumer tag %q", a.delivery.ConsumerTag)
		}
	}
}
