package frame_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/wire"
)

func roundTrip(t *testing.T, f frame.Frame) frame.Frame {
	t.Helper()
	buf := &wire.Buffer{}
	require.NoError(t, frame.Encode(buf, f))

	decoded, ok, err := frame.Decode(buf)
	require.NoError(t, err)
	require.True(t, ok, "Decode reported an incomplete frame for a buffer Encode just filled")
	require.Zero(t, buf.Len(), "Decode left unread bytes behind")
	return decoded
}

func TestProtocolHeaderRoundTrip(t *testing.T) {
	got := roundTrip(t, frame.Frame{Kind: frame.KindProtocolHeader})
	require.Equal(t, frame.KindProtocolHeader, got.Kind)
}

func TestHeartbeatRoundTrip(t *testing.T) {
	got := roundTrip(t, frame.Frame{Kind: frame.KindHeartbeat, Channel: 0})
	require.Equal(t, frame.KindHeartbeat, got.Kind)
}

func TestMethodFrameRoundTrip(t *testing.T) {
	want := frame.Frame{
		Kind:    frame.KindMethod,
		Channel: 3,
		Method: &method.BasicPublish{
			Exchange:   "events",
			RoutingKey: "orders.created",
			Mandatory:  true,
		},
	}
	got := roundTrip(t, want)

	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(method.Properties{})); diff != "" {
		t.Fatalf("method frame round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderFrameRoundTrip(t *testing.T) {
	want := frame.Frame{
		Kind:     frame.KindHeader,
		Channel:  3,
		ClassID:  method.ClassBasic,
		BodySize: 42,
		Properties: method.Properties{
			ContentType:   "application/json",
			DeliveryMode:  2,
			CorrelationID: "req-1",
			Headers:       wire.Table{"x-retry": int32(2)},
			Timestamp:     time.Unix(1700000000, 0).UTC(),
		},
	}
	got := roundTrip(t, want)

	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(method.Properties{})); diff != "" {
		t.Fatalf("header frame round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyFrameRoundTrip(t *testing.T) {
	want := frame.Frame{Kind: frame.KindBody, Channel: 3, Body: []byte("payload")}
	got := roundTrip(t, want)

	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(method.Properties{})); diff != "" {
		t.Fatalf("body frame round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeIncompleteFrameLeavesBufferUntouched(t *testing.T) {
	buf := &wire.Buffer{}
	require.NoError(t, frame.Encode(buf, frame.Frame{Kind: frame.KindBody, Channel: 1, Body: []byte("hello")}))
	full := append([]byte(nil), buf.Bytes()...)

	partial := wire.New(full[:len(full)-2])
	_, ok, err := frame.Decode(partial)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, len(full)-2, partial.Len(), "Decode consumed bytes of an incomplete frame")
}

func TestDecodeMissingFrameEndIsParseError(t *testing.T) {
	buf := &wire.Buffer{}
	require.NoError(t, frame.Encode(buf, frame.Frame{Kind: frame.KindBody, Channel: 1, Body: []byte("hi")}))
	corrupt := append([]byte(nil), buf.Bytes()...)
	corrupt[len(corrupt)-1] = 0x00

	_, _, err := frame.Decode(wire.New(corrupt))
	require.Error(t, err)
	var parseErr *frame.ParseError
	require.ErrorAs(t, err, &parseErr)
}
