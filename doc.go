// Package amqp is an async AMQP 0-9-1 client. It speaks the wire protocol
// RabbitMQ and other 0-9-1 brokers implement: connection and channel
// lifecycle, exchange/queue topology, publishing (with optional publisher
// confirms), consuming, and basic.get.
//
// A Connection dials a broker and runs its own background goroutine that
// drives the wire protocol; every Channel and Consumer obtained from it
// shares that goroutine and is safe to use concurrently from multiple
// goroutines of the caller's own.
//
//	conn, err := amqp.Dial(ctx, "localhost:5672", amqp.ConnectionOptions{})
//	ch, err := conn.Channel(ctx)
//	err = ch.ExchangeDeclare(ctx, "events", "topic", amqp.ExchangeDeclareOptions{Durable: true})
//	confirm, err := ch.Publish(ctx, "events", "orders.created", body, amqp.Properties{}, amqp.PublishOptions{})
package amqp
