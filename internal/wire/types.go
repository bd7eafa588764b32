package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientData signals that a value's encoding runs past the end of
// the buffer it is read from. frame.Decode only parses the payload of a
// frame it already holds whole, so there it is reported as a ParseError.
var ErrInsufficientData = errors.New("wire: insufficient data")

// Table is an AMQP 0-9-1 field table: a set of named, typed values. It
// backs client properties, queue/exchange arguments, and message headers.
type Table map[string]interface{}

// Decimal is the AMQP 0-9-1 scaled decimal type: value * 10^-scale.
type Decimal struct {
	Scale uint8
	Value int32
}

func ReadOctet(buf *Buffer) (uint8, error) {
	b, ok := buf.Next(1)
	if !ok || len(b) < 1 {
		return 0, ErrInsufficientData
	}
	return b[0], nil
}

func WriteOctet(buf *Buffer, v uint8) {
	buf.AppendByte(v)
}

func ReadShort(buf *Buffer) (uint16, error) {
	b, ok := buf.Next(2)
	if !ok || len(b) < 2 {
		return 0, ErrInsufficientData
	}
	return binary.BigEndian.Uint16(b), nil
}

func WriteShort(buf *Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Append(b[:])
}

func ReadLong(buf *Buffer) (uint32, error) {
	b, ok := buf.Next(4)
	if !ok || len(b) < 4 {
		return 0, ErrInsufficientData
	}
	return binary.BigEndian.Uint32(b), nil
}

func WriteLong(buf *Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Append(b[:])
}

func ReadLongLong(buf *Buffer) (uint64, error) {
	b, ok := buf.Next(8)
	if !ok || len(b) < 8 {
		return 0, ErrInsufficientData
	}
	return binary.BigEndian.Uint64(b), nil
}

func WriteLongLong(buf *Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Append(b[:])
}

// ReadShortString reads a short string: 1-byte length prefix + bytes.
func ReadShortString(buf *Buffer) (string, error) {
	n, err := ReadOctet(buf)
	if err != nil {
		return "", err
	}
	b, ok := buf.Next(int64(n))
	if !ok || len(b) < int(n) {
		return "", ErrInsufficientData
	}
	return string(b), nil
}

func WriteShortString(buf *Buffer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("wire: short string exceeds 255 bytes: %d", len(s))
	}
	WriteOctet(buf, uint8(len(s)))
	buf.Append([]byte(s))
	return nil
}

// ReadLongString reads a long string: 4-byte length prefix + bytes. Field
// tables, message bodies' out-of-band companions, and binary blobs use
// this shape too.
func ReadLongString(buf *Buffer) ([]byte, error) {
	n, err := ReadLong(buf)
	if err != nil {
		return nil, err
	}
	b, ok := buf.Next(int64(n))
	if !ok || len(b) < int(n) {
		return nil, ErrInsufficientData
	}
	return append([]byte(nil), b...), nil
}

func WriteLongString(buf *Buffer, s []byte) {
	WriteLong(buf, uint32(len(s)))
	buf.Append(s)
}

func ReadTimestamp(buf *Buffer) (time.Time, error) {
	secs, err := ReadLongLong(buf)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

func WriteTimestamp(buf *Buffer, t time.Time) {
	WriteLongLong(buf, uint64(t.Unix()))
}

// field table value type tags, per the RabbitMQ-compatible AMQP 0-9-1
// field-value grammar (a superset of the bare spec that every broker in
// the wild, and every client in the pack, actually implements).
const (
	tagBoolean     = 't'
	tagShortShort  = 'b'
	tagShortShortU = 'B'
	tagShortU      = 'u'
	tagShortInt    = 'U'
	tagLongU       = 'i'
	tagLongInt     = 'I'
	tagLongLongU   = 'L'
	tagLongLongInt = 'l'
	tagFloat       = 'f'
	tagDouble      = 'd'
	tagDecimal     = 'D'
	tagShortStr    = 's'
	tagLongStr     = 'S'
	tagFieldArray  = 'A'
	tagTimestamp   = 'T'
	tagFieldTable  = 'F'
	tagVoid        = 'V'
)

// ReadTable reads a field table: a long-string-framed sequence of
// (short-string key, tagged value) pairs.
func ReadTable(buf *Buffer) (Table, error) {
	raw, err := ReadLongString(buf)
	if err != nil {
		return nil, err
	}
	inner := New(raw)
	t := Table{}
	for inner.Len() > 0 {
		key, err := ReadShortString(inner)
		if err != nil {
			return nil, err
		}
		val, err := readFieldValue(inner)
		if err != nil {
			return nil, err
		}
		t[key] = val
	}
	return t, nil
}

func readFieldValue(buf *Buffer) (interface{}, error) {
	tag, err := ReadOctet(buf)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBoolean:
		v, err := ReadOctet(buf)
		return v != 0, err
	case tagShortShort:
		v, err := ReadOctet(buf)
		return int8(v), err
	case tagShortShortU:
		return ReadOctet(buf)
	case tagShortInt:
		v, err := ReadShort(buf)
		return int16(v), err
	case tagShortU:
		return ReadShort(buf)
	case tagLongInt:
		v, err := ReadLong(buf)
		return int32(v), err
	case tagLongU:
		return ReadLong(buf)
	case tagLongLongInt:
		v, err := ReadLongLong(buf)
		return int64(v), err
	case tagLongLongU:
		return ReadLongLong(buf)
	case tagFloat:
		v, err := ReadLong(buf)
		return v, err
	case tagDouble:
		v, err := ReadLongLong(buf)
		return v, err
	case tagDecimal:
		scale, err := ReadOctet(buf)
		if err != nil {
			return nil, err
		}
		val, err := ReadLong(buf)
		if err != nil {
			return nil, err
		}
		return Decimal{Scale: scale, Value: int32(val)}, nil
	case tagShortStr:
		return ReadShortString(buf)
	case tagLongStr:
		v, err := ReadLongString(buf)
		return string(v), err
	case tagFieldArray:
		return readFieldArray(buf)
	case tagTimestamp:
		return ReadTimestamp(buf)
	case tagFieldTable:
		return ReadTable(buf)
	case tagVoid:
		return nil, nil
	default:
		return nil, fmt.Errorf("wire: unknown field value tag %q", tag)
	}
}

func readFieldArray(buf *Buffer) ([]interface{}, error) {
	raw, err := ReadLongString(buf)
	if err != nil {
		return nil, err
	}
	inner := New(raw)
	var out []interface{}
	for inner.Len() > 0 {
		v, err := readFieldValue(inner)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteTable writes a field table in the same framed shape ReadTable reads.
func WriteTable(buf *Buffer, t Table) error {
	inner := &Buffer{}
	for k, v := range t {
		if err := WriteShortString(inner, k); err != nil {
			return err
		}
		if err := writeFieldValue(inner, v); err != nil {
			return err
		}
	}
	WriteLongString(buf, inner.Detach())
	return nil
}

func writeFieldValue(buf *Buffer, v interface{}) error {
	switch val := v.(type) {
	case bool:
		WriteOctet(buf, tagBoolean)
		if val {
			WriteOctet(buf, 1)
		} else {
			WriteOctet(buf, 0)
		}
	case uint8:
		WriteOctet(buf, tagShortShortU)
		WriteOctet(buf, val)
	case int8:
		WriteOctet(buf, tagShortShort)
		WriteOctet(buf, uint8(val))
	case uint16:
		WriteOctet(buf, tagShortU)
		WriteShort(buf, val)
	case int16:
		WriteOctet(buf, tagShortInt)
		WriteShort(buf, uint16(val))
	case uint32:
		WriteOctet(buf, tagLongU)
		WriteLong(buf, val)
	case int32:
		WriteOctet(buf, tagLongInt)
		WriteLong(buf, uint32(val))
	case int:
		WriteOctet(buf, tagLongInt)
		WriteLong(buf, uint32(val))
	case uint64:
		WriteOctet(buf, tagLongLongU)
		WriteLongLong(buf, val)
	case int64:
		WriteOctet(buf, tagLongLongInt)
		WriteLongLong(buf, uint64(val))
	case Decimal:
		WriteOctet(buf, tagDecimal)
		WriteOctet(buf, val.Scale)
		WriteLong(buf, uint32(val.Value))
	case string:
		WriteOctet(buf, tagLongStr)
		WriteLongString(buf, []byte(val))
	case []byte:
		WriteOctet(buf, tagLongStr)
		WriteLongString(buf, val)
	case time.Time:
		WriteOctet(buf, tagTimestamp)
		WriteTimestamp(buf, val)
	case Table:
		WriteOctet(buf, tagFieldTable)
		return WriteTable(buf, val)
	case []interface{}:
		WriteOctet(buf, tagFieldArray)
		inner := &Buffer{}
		for _, e := range val {
			if err := writeFieldValue(inner, e); err != nil {
				return err
			}
		}
		WriteLongString(buf, inner.Detach())
	case nil:
		WriteOctet(buf, tagVoid)
	default:
		return fmt.Errorf("wire: unsupported field value type %T", v)
	}
	return nil
}
