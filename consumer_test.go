package amqp

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/mocks"
)

func TestConsumeAndDeliver(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, mc := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind != frame.KindMethod {
			return nil, nil
		}
		if bc, ok := f.Method.(*method.BasicConsume); ok {
			return mocks.EncodeMethod(f.Channel, &method.BasicConsumeOk{ConsumerTag: bc.ConsumerTag})
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	ctx := context.Background()
	cons, err := ch.Consume(ctx, "orders", ConsumeOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, cons.Tag())

	deliverFrames := mocks.Concat(
		mustEncodeMethod(t, ch.ID(), &method.BasicDeliver{
			ConsumerTag: cons.Tag(), DeliveryTag: 1, Exchange: "events", RoutingKey: "orders.created",
		}),
		mustEncodeContent(t, ch.ID(), []byte("payload")),
	)
	// Deliveries are unsolicited: the broker writes them without the
	// client having sent anything first, so push them straight into the
	// mock connection rather than through the responder.
	mc.PushRead(deliverFrames)

	ctxWait, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	d, err := cons.Next(ctxWait)
	require.NoError(t, err)
	require.Equal(t, uint64(1), d.DeliveryTag)
	require.Equal(t, "orders.created", d.RoutingKey)
	require.Equal(t, []byte("payload"), d.Body)
}

func TestConsumerCancelled(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind != frame.KindMethod {
			return nil, nil
		}
		switch v := f.Method.(type) {
		case *method.BasicConsume:
			return mocks.EncodeMethod(f.Channel, &method.BasicConsumeOk{ConsumerTag: v.ConsumerTag})
		case *method.BasicCancel:
			return mocks.EncodeMethod(f.Channel, &method.BasicCancelOk{ConsumerTag: v.ConsumerTag})
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	ctx := context.Background()
	cons, err := ch.Consume(ctx, "orders", ConsumeOptions{})
	require.NoError(t, err)

	require.NoError(t, cons.Cancel(ctx, false))

	_, err = cons.Next(ctx)
	require.ErrorIs(t, err, ErrConsumerCancelled)
}
