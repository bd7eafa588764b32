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

func TestGetReturnsMessage(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind != frame.KindMethod {
			return nil, nil
		}
		if _, ok := f.Method.(*method.BasicGet); ok {
			reply := mocks.Concat(
				mustEncodeMethod(t, f.Channel, &method.BasicGetOk{
					DeliveryTag: 7, Exchange: "events", RoutingKey: "orders.created", MessageCount: 0,
				}),
				mustEncodeContent(t, f.Channel, []byte("hello")),
			)
			return reply, nil
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	d, err := ch.Get(context.Background(), "orders", GetOptions{})
	require.NoError(t, err)
	require.Equal(t, uint64(7), d.DeliveryTag)
	require.Equal(t, []byte("hello"), d.Body)
}

func TestGetEmpty(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			if _, ok := f.Method.(*method.BasicGet); ok {
				return mocks.EncodeMethod(f.Channel, &method.BasicGetEmpty{})
			}
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	_, err := ch.Get(context.Background(), "orders", GetOptions{})
	require.Error(t, err)
	var empty *ErrEmpty
	require.ErrorAs(t, err, &empty)
}
