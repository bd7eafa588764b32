package state

import (
	"github.com/hazelrun/goamqp091/internal/debug"
	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// negotiate applies the element-wise min rule of spec.md §4.2's tuning
// step: zero means "no limit, use the peer's value" on either side.
func negotiateU16(client, server uint16) uint16 {
	switch {
	case client == 0:
		return server
	case server == 0:
		return client
	case client < server:
		return client
	default:
		return server
	}
}

func negotiateU32(client, server uint32) uint32 {
	switch {
	case client == 0:
		return server
	case server == 0:
		return client
	case client < server:
		return client
	default:
		return server
	}
}

// handleChannel0 advances the handshake and handles connection-wide
// control methods (spec.md §4.2).
func (m *Machine) handleChannel0(f frame.Frame) error {
	if f.Kind == frame.KindHeartbeat {
		debug.Log(3, "amqp: RX heartbeat")
		return nil
	}
	if f.Kind != frame.KindMethod {
		return &ProtocolError{Reason: "non-method frame on channel 0"}
	}

	switch meth := f.Method.(type) {
	case *method.ConnectionStart:
		return m.handleStart(meth)
	case *method.ConnectionTune:
		return m.handleTune(meth)
	case *method.ConnectionOpenOk:
		m.stage = stageReceivedOpenOk
		m.state = StateConnected
		m.wakeConnWaiters()
		return nil
	case *method.ConnectionClose:
		m.enqueueMethod(0, &method.ConnectionCloseOk{})
		err := &ConnectionClosedError{Code: meth.ReplyCode, Reason: meth.ReplyText}
		m.state = StateClosed
		m.failConnection(err)
		return nil
	case *method.ConnectionCloseOk:
		m.state = StateClosed
		m.failConnection(&ConnectionClosedError{Reason: "connection closed"})
		return nil
	case *method.ConnectionBlocked, *method.ConnectionUnblocked:
		debug.Log(2, "amqp: RX %T", meth)
		return nil
	default:
		debug.Log(1, "amqp: unexpected channel-0 method %T", meth)
		return nil
	}
}

func (m *Machine) handleStart(meth *method.ConnectionStart) error {
	m.stage = stageReceivedStart
	m.serverProperties = meth.ServerProperties

	response := "\x00" + m.cfg.Username + "\x00" + m.cfg.Password
	m.enqueueMethod(0, &method.ConnectionStartOk{
		ClientProperties: clientProperties(),
		Mechanism:        "PLAIN",
		Response:         response,
		Locale:           "en_US",
	})
	m.stage = stageSentStartOk
	return nil
}

func (m *Machine) handleTune(meth *method.ConnectionTune) error {
	m.stage = stageReceivedTune

	m.cfg.ChannelMax = negotiateU16(m.cfg.ChannelMax, meth.ChannelMax)
	m.cfg.FrameMax = negotiateU32(m.cfg.FrameMax, meth.FrameMax)
	m.cfg.Heartbeat = negotiateU16(m.cfg.Heartbeat, meth.Heartbeat)

	m.enqueueMethod(0, &method.ConnectionTuneOk{
		ChannelMax: m.cfg.ChannelMax,
		FrameMax:   m.cfg.FrameMax,
		Heartbeat:  m.cfg.Heartbeat,
	})
	m.stage = stageSentTuneOk

	m.enqueueMethod(0, &method.ConnectionOpen{VirtualHost: m.cfg.Vhost})
	m.stage = stageSentOpen
	return nil
}

// clientProperties is the client-identification table sent with
// connection.start-ok (spec.md §6).
func clientProperties() wire.Table {
	return wire.Table{
		"product":  "goamqp091",
		"version":  "1.0",
		"platform": "Go",
		"capabilities": wire.Table{
			"publisher_confirms":           true,
			"consumer_cancel_notify":       true,
			"exchange_exchange_bindings":   true,
			"basic.nack":                   true,
			"connection.blocked":           true,
			"authentication_failure_close": true,
		},
	}
}
