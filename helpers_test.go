package amqp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/mocks"
)

// handshakeResponder wraps extra, a test's own responder for whatever it
// cares about beyond the handshake, and completes connection.start/tune/
// open automatically so every other test can start from a Connected
// connection without repeating the same four exchanges. It also answers
// connection.close with close-ok, so a deferred Connection.Close returns.
func handshakeResponder(extra func(f frame.Frame) ([]byte, error)) func(frame.Frame) ([]byte, error) {
	return func(f frame.Frame) ([]byte, error) {
		switch f.Kind {
		case frame.KindProtocolHeader:
			return mocks.EncodeMethod(0, &method.ConnectionStart{
				VersionMajor: 0, VersionMinor: 9,
				Mechanisms: "PLAIN", Locales: "en_US",
			})
		case frame.KindMethod:
			switch f.Method.(type) {
			case *method.ConnectionStartOk:
				return mocks.EncodeMethod(0, &method.ConnectionTune{
					ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60,
				})
			case *method.ConnectionTuneOk:
				return nil, nil
			case *method.ConnectionOpen:
				return mocks.EncodeMethod(0, &method.ConnectionOpenOk{})
			case *method.ConnectionClose:
				return mocks.EncodeMethod(0, &method.ConnectionCloseOk{})
			}
		}
		if extra != nil {
			return extra(f)
		}
		return nil, nil
	}
}

// dialMock drives newConnection against a mocks.MockConnection, completing
// the handshake via handshakeResponder and leaving extra to answer
// whatever channel-level exchange the test is exercising. It returns the
// mock too, so a test can push unsolicited frames (basic.deliver and the
// like) via mc.PushRead.
func dialMock(t *testing.T, extra func(f frame.Frame) ([]byte, error)) (*Connection, *mocks.MockConnection) {
	t.Helper()
	mc := mocks.NewConnection(handshakeResponder(extra))
	c, err := newConnection(context.Background(), mc, ConnectionOptions{})
	if err != nil {
		t.Fatalf("newConnection: %v", err)
	}
	return c, mc
}

// channelOpenResponder wraps extra with an automatic channel.open-ok, so
// tests that only care about what happens after the channel is open don't
// each have to answer channel.open themselves.
func channelOpenResponder(extra func(f frame.Frame) ([]byte, error)) func(f frame.Frame) ([]byte, error) {
	return func(f frame.Frame) ([]byte, error) {
		if f.Kind == frame.KindMethod {
			if _, ok := f.Method.(*method.ChannelOpen); ok {
				return mocks.EncodeMethod(f.Channel, &method.ChannelOpenOk{})
			}
		}
		if extra != nil {
			return extra(f)
		}
		return nil, nil
	}
}

// dialAndOpenChannel dials and opens channel 1 in one call, for tests
// whose interesting behavior starts after the channel is Open.
func dialAndOpenChannel(t *testing.T, extra func(f frame.Frame) ([]byte, error)) (*Connection, *Channel, *mocks.MockConnection) {
	t.Helper()
	c, mc := dialMock(t, channelOpenResponder(extra))
	ch, err := c.Channel(context.Background())
	require.NoError(t, err)
	return c, ch, mc
}

// mustEncodeMethod encodes a single method frame, failing the test on
// error (every method in these tests is well-formed by construction).
func mustEncodeMethod(t *testing.T, channel uint16, m method.Method) []byte {
	t.Helper()
	b, err := mocks.EncodeMethod(channel, m)
	require.NoError(t, err)
	return b
}

// mustEncodeContent encodes a basic-class header+body for payload as one
// chunk, failing the test on error.
func mustEncodeContent(t *testing.T, channel uint16, payload []byte) []byte {
	t.Helper()
	b, err := mocks.EncodeContent(channel, method.ClassBasic, method.Properties{}, payload, 0)
	require.NoError(t, err)
	return b
}
