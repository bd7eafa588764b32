package amqp

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
)

func TestBrokerInitiatedChannelCloseFailsPendingOps(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, mc := dialAndOpenChannel(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			if _, ok := f.Method.(*method.ExchangeDeclare); ok {
				// Never reply to exchange.declare; the broker-initiated
				// channel.close below is what resolves it.
				return nil, nil
			}
		}
		return nil, nil
	})
	defer c.Close(context.Background())

	ctx := context.Background()
	errCh := make(chan error, 1)
	go func() {
		errCh <- ch.ExchangeDeclare(ctx, "events", "topic", ExchangeDeclareOptions{})
	}()

	// give the declare a moment to be in flight, then have the broker
	// close the channel out from under it.
	time.Sleep(20 * time.Millisecond)
	mc.PushRead(mustEncodeMethod(t, ch.ID(), &method.ChannelClose{
		ReplyCode: 406, ReplyText: "PRECONDITION_FAILED",
	}))

	select {
	case err := <-errCh:
		require.Error(t, err)
		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
		require.EqualValues(t, 406, protoErr.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("ExchangeDeclare did not resolve after channel.close")
	}

	err := ch.Qos(ctx, QosOptions{})
	require.Error(t, err)
}

func TestInvalidStateBeforeChannelOpen(t *testing.T) {
	defer leaktest.Check(t)()

	c, _ := dialMock(t, nil)
	defer c.Close(context.Background())

	ch := &Channel{conn: c, id: 99, m: c.transport.Machine()}
	err := ch.Qos(context.Background(), QosOptions{})
	require.Error(t, err)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}
