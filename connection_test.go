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

func TestDialCompletesHandshake(t *testing.T) {
	defer leaktest.Check(t)()

	c, _ := dialMock(t, nil)
	defer c.Close(context.Background())

	require.NotNil(t, c)
	select {
	case <-c.Done():
		t.Fatal("pump stopped immediately after a successful handshake")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestChannelOpen(t *testing.T) {
	defer leaktest.Check(t)()

	c, ch, _ := dialAndOpenChannel(t, nil)
	defer c.Close(context.Background())

	require.Equal(t, uint16(1), ch.ID())
}

func TestConnectionCloseGraceful(t *testing.T) {
	defer leaktest.Check(t)()

	c, _ := dialMock(t, func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			if _, ok := f.Method.(*method.ConnectionClose); ok {
				return mocks.EncodeMethod(0, &method.ConnectionCloseOk{})
			}
		}
		return nil, nil
	})

	err := c.Close(context.Background())
	require.NoError(t, err)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after Close")
	}
}
