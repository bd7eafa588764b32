package amqp

import (
	"context"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/mocks"
)

func TestExchangeAndQueueTopology(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind != frame.KindMethod {
			return nil, nil
		}
		switch f.Method.(type) {
		case *method.ExchangeDeclare:
			return mocks.EncodeMethod(f.Channel, &method.ExchangeDeclareOk{})
		case *method.QueueDeclare:
			return mocks.EncodeMethod(f.Channel, &method.QueueDeclareOk{
				Queue: "orders", MessageCount: 3, ConsumerCount: 1,
			})
		case *method.QueueBind:
			return mocks.EncodeMethod(f.Channel, &method.QueueBindOk{})
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, ch.ExchangeDeclare(ctx, "events", "topic", ExchangeDeclareOptions{Durable: true}))

	info, err := ch.QueueDeclare(ctx, "orders", QueueDeclareOptions{Durable: true})
	require.NoError(t, err)
	require.Equal(t, "orders", info.Name)
	require.EqualValues(t, 3, info.MessageCount)
	require.EqualValues(t, 1, info.ConsumerCount)

	require.NoError(t, ch.QueueBind(ctx, "orders", "events", "orders.*", QueueBindOptions{}))
}

func TestQos(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			if _, ok := f.Method.(*method.BasicQos); ok {
				return mocks.EncodeMethod(f.Channel, &method.BasicQosOk{})
			}
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	err := ch.Qos(context.Background(), QosOptions{PrefetchCount: 10})
	require.NoError(t, err)
}

func TestPublishWithConfirm(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			switch f.Method.(type) {
			case *method.ConfirmSelect:
				return mocks.EncodeMethod(f.Channel, &method.ConfirmSelectOk{})
			case *method.BasicPublish:
				return mocks.EncodeMethod(f.Channel, &method.BasicAck{DeliveryTag: 1})
			}
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, ch.ConfirmSelect(ctx, false))

	confirm, err := ch.Publish(ctx, "events", "orders.created", []byte("payload"), Properties{ContentType: "text/plain"}, PublishOptions{})
	require.NoError(t, err)
	require.NotNil(t, confirm)

	ack, err := confirm.Wait(ctx)
	require.NoError(t, err)
	require.True(t, ack)
}

func TestPublishWithoutConfirmModeReturnsNilConfirmation(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, nil)
	defer c.Close(context.Background())

	confirm, err := ch.Publish(context.Background(), "events", "orders.created", []byte("payload"), Properties{}, PublishOptions{})
	require.NoError(t, err)
	require.Nil(t, confirm)
}
