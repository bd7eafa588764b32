// Package frame implements the AMQP 0-9-1 frame codec (spec.md §4.1): a
// pure, stateless function pair translating between the wire byte stream
// and typed Frame values. It never performs I/O and never blocks.
package frame

import (
	"fmt"

	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/wire"
)

// Frame type octets, per the AMQP 0-9-1 frame envelope.
const (
	TypeMethod    uint8 = 1
	TypeHeader    uint8 = 2
	TypeBody      uint8 = 3
	TypeHeartbeat uint8 = 8
)

// FrameEnd is the single-octet frame terminator.
const FrameEnd = 0xCE

// ProtocolHeaderBytes is the literal 8-byte greeting sent first, per
// spec.md §3 and §6.
var ProtocolHeaderBytes = [8]byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1}

// overhead bytes of a frame beyond its payload: type(1) + channel(2) +
// size(4) + frame-end(1).
const Overhead = 8

// Kind discriminates the Frame tagged union.
type Kind uint8

const (
	KindProtocolHeader Kind = iota
	KindHeartbeat
	KindMethod
	KindHeader
	KindBody
)

// Frame is the tagged union spec.md §3 describes. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Frame struct {
	Kind    Kind
	Channel uint16

	// KindMethod
	Method method.Method

	// KindHeader
	ClassID    uint16
	BodySize   uint64
	Properties method.Properties

	// KindBody
	Body []byte
}

// ParseError is fatal to the connection (spec.md §7): the byte stream does
// not contain a well-formed AMQP frame sequence.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "amqp: parse error: " + e.Reason }

// Decode consumes at most one whole frame from the front of buf. It
// returns the frame, true, nil when a whole frame was consumed; the zero
// Frame, false, nil when buf holds only a partial frame (buf is left
// untouched in that case); or a ParseError when buf holds structurally
// invalid bytes.
//
// The caller is expected to loop: call Decode repeatedly until it reports
// "incomplete", feed more bytes, and resume.
func Decode(buf *wire.Buffer) (Frame, bool, error) {
	if buf.Len() >= 8 && hasProtocolHeader(buf.Bytes()) {
		buf.Skip(8)
		return Frame{Kind: KindProtocolHeader}, true, nil
	}

	if buf.Len() < Overhead {
		return Frame{}, false, nil
	}

	header := buf.Bytes()[:7]
	typ := header[0]
	channel := uint16(header[1])<<8 | uint16(header[2])
	size := uint32(header[3])<<24 | uint32(header[4])<<16 | uint32(header[5])<<8 | uint32(header[6])

	total := Overhead + int(size)
	if buf.Len() < total {
		return Frame{}, false, nil
	}

	buf.Skip(7)
	payload, _ := buf.Next(int64(size))
	end, _ := buf.Next(1)
	if len(end) != 1 || end[0] != FrameEnd {
		return Frame{}, false, &ParseError{Reason: "missing frame-end octet"}
	}

	switch typ {
	case TypeHeartbeat:
		return Frame{Kind: KindHeartbeat, Channel: channel}, true, nil
	case TypeMethod:
		m, err := method.Decode(wire.New(payload))
		if err != nil {
			return Frame{}, false, &ParseError{Reason: err.Error()}
		}
		return Frame{Kind: KindMethod, Channel: channel, Method: m}, true, nil
	case TypeHeader:
		classID, bodySize, props, err := decodeHeader(payload)
		if err != nil {
			return Frame{}, false, &ParseError{Reason: err.Error()}
		}
		return Frame{Kind: KindHeader, Channel: channel, ClassID: classID, BodySize: bodySize, Properties: props}, true, nil
	case TypeBody:
		return Frame{Kind: KindBody, Channel: channel, Body: append([]byte(nil), payload...)}, true, nil
	default:
		return Frame{}, false, &ParseError{Reason: fmt.Sprintf("unknown frame type %d", typ)}
	}
}

func hasProtocolHeader(b []byte) bool {
	for i := 0; i < 8; i++ {
		if b[i] != ProtocolHeaderBytes[i] {
			return false
		}
	}
	return true
}

func decodeHeader(payload []byte) (classID uint16, bodySize uint64, props method.Properties, err error) {
	buf := wire.New(payload)
	classID, err = wire.ReadShort(buf)
	if err != nil {
		return
	}
	if _, err = wire.ReadShort(buf); err != nil { // weight, always 0
		return
	}
	bodySize, err = wire.ReadLongLong(buf)
	if err != nil {
		return
	}
	props, err = method.DecodeProperties(buf)
	return
}

// SerializeError is returned by Encode when the generator refuses the
// frame outright (not a "grow and retry" case). Fatal to the specific
// operation, not the connection (spec.md §7).
type SerializeError struct {
	Reason string
}

func (e *SerializeError) Error() string { return "amqp: serialize error: " + e.Reason }

// Encode appends exactly one serialized frame to buf, growing buf itself
// as needed, so it never fails for lack of room and the caller has
// nothing to retry. The only failure is a SerializeError for a field
// value of the wrong shape (e.g. a string too long for a short-string
// field).
func Encode(buf *wire.Buffer, f Frame) error {
	switch f.Kind {
	case KindProtocolHeader:
		buf.Append(ProtocolHeaderBytes[:])
		return nil
	case KindHeartbeat:
		return encodeEnvelope(buf, TypeHeartbeat, f.Channel, nil)
	case KindMethod:
		payload := &wire.Buffer{}
		if err := method.Encode(payload, f.Method); err != nil {
			return &SerializeError{Reason: err.Error()}
		}
		return encodeEnvelope(buf, TypeMethod, f.Channel, payload.Detach())
	case KindHeader:
		payload := &wire.Buffer{}
		wire.WriteShort(payload, f.ClassID)
		wire.WriteShort(payload, 0) // weight
		wire.WriteLongLong(payload, f.BodySize)
		if err := method.EncodeProperties(payload, f.Properties); err != nil {
			return &SerializeError{Reason: err.Error()}
		}
		return encodeEnvelope(buf, TypeHeader, f.Channel, payload.Detach())
	case KindBody:
		return encodeEnvelope(buf, TypeBody, f.Channel, f.Body)
	default:
		return &SerializeError{Reason: fmt.Sprintf("unknown frame kind %d", f.Kind)}
	}
}

func encodeEnvelope(buf *wire.Buffer, typ uint8, channel uint16, payload []byte) error {
	buf.Grow(Overhead + len(payload))
	buf.AppendByte(typ)
	wire.WriteShort(buf, channel)
	wire.WriteLong(buf, uint32(len(payload)))
	buf.Append(payload)
	buf.AppendByte(FrameEnd)
	return nil
}
