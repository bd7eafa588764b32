package amqp

import "github.com/hazelrun/goamqp091/internal/wire"

// Table is an AMQP field table: the argument type accepted by Declare/
// Bind/Consume's Arguments field and by a message's Headers property.
type Table = wire.Table

// ConnectionOptions configures Dial (spec.md §6's Connection options).
// The zero value dials guest/guest against vhost "/" and proposes no
// frame_max/channel_max/heartbeat limit, letting the server's values win
// (spec.md §4.2's negotiation rule: zero means "no limit, use the peer's
// value").
type ConnectionOptions struct {
	Username   string
	Password   string
	Vhost      string
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

// ExchangeDeclareOptions mirrors the exchange.declare argument set
// (spec.md §6). The deprecated AMQP "ticket" field is not exposed: every
// broker in current use requires it to be zero (see DESIGN.md).
type ExchangeDeclareOptions struct {
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Args       Table
}

// ExchangeDeleteOptions mirrors exchange.delete.
type ExchangeDeleteOptions struct {
	IfUnused bool
	NoWait   bool
}

// ExchangeBindOptions mirrors exchange.bind and exchange.unbind, which
// share one argument shape (spec.md §6).
type ExchangeBindOptions struct {
	NoWait bool
	Args   Table
}

// QueueDeclareOptions mirrors queue.declare.
type QueueDeclareOptions struct {
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Args       Table
}

// QueueBindOptions mirrors queue.bind.
type QueueBindOptions struct {
	NoWait bool
	Args   Table
}

// QueueUnbindOptions mirrors queue.unbind, which carries no nowait flag
// in the AMQP 0-9-1 spec (spec.md §6).
type QueueUnbindOptions struct {
	Args Table
}

// QueuePurgeOptions mirrors queue.purge.
type QueuePurgeOptions struct {
	NoWait bool
}

// QueueDeleteOptions mirrors queue.delete.
type QueueDeleteOptions struct {
	IfUnused bool
	IfEmpty  bool
	NoWait   bool
}

// QosOptions mirrors basic.qos.
type QosOptions struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

// PublishOptions mirrors basic.publish, minus exchange/routingKey/body/
// properties, which Channel.Publish takes as direct arguments.
type PublishOptions struct {
	Mandatory bool
	Immediate bool
}

// ConsumeOptions mirrors basic.consume. ConsumerTag is left empty to let
// Channel.Consume generate one client-side (spec.md §4.1's note that
// basic.deliver never repeats the queue name, so the tag must already be
// known to the client before the first delivery can arrive).
type ConsumeOptions struct {
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Args        Table
}

// GetOptions mirrors basic.get.
type GetOptions struct {
	NoAck bool
}
