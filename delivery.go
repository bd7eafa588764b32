package amqp

import (
	"time"

	"github.com/hazelrun/goamqp091/internal/state"
)

// Properties is the standard AMQP 0-9-1 basic properties header carried
// on every Delivery and passed to Channel.Publish (spec.md §3).
type Properties struct {
	ContentType     string
	ContentEncoding string
	Headers         Table
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID       string
}

// Delivery is an assembled message flowing broker -> client, whether from
// a Consumer, a Channel.Get call, or a returned (undeliverable) publish
// (spec.md §3).
type Delivery struct {
	DeliveryTag  uint64
	Exchange     string
	RoutingKey   string
	Redelivered  bool
	Properties   Properties
	Body         []byte
	ConsumerTag  string
	MessageCount uint32

	channel *Channel
}

// Ack acknowledges this delivery (spec.md §4.2's basic.ack). multiple
// acknowledges every unacked delivery up to and including this one.
func (d Delivery) Ack(multiple bool) error {
	return d.channel.Ack(d.DeliveryTag, multiple)
}

// Nack negatively acknowledges this delivery (a RabbitMQ extension,
// spec.md §6's capability table).
func (d Delivery) Nack(multiple, requeue bool) error {
	return d.channel.Nack(d.DeliveryTag, multiple, requeue)
}

// Reject rejects this delivery (spec.md §4.2's basic.reject).
func (d Delivery) Reject(requeue bool) error {
	return d.channel.Reject(d.DeliveryTag, requeue)
}

func deliveryFromState(ch *Channel, sd state.Delivery) Delivery {
	return Delivery{
		DeliveryTag:  sd.DeliveryTag,
		Exchange:     sd.Exchange,
		RoutingKey:   sd.RoutingKey,
		Redelivered:  sd.Redelivered,
		Properties:   propertiesFromState(sd.Properties),
		Body:         sd.Payload,
		ConsumerTag:  sd.ConsumerTag,
		MessageCount: sd.MessageCount,
		channel:      ch,
	}
}
