package method

import (
	"time"

	"github.com/hazelrun/goamqp091/internal/wire"
)

// Properties is the standard AMQP 0-9-1 basic properties header (spec.md
// §3's Delivery.properties field), carried on every Header frame.
type Properties struct {
	ContentType     string
	ContentEncoding string
	Headers         wire.Table
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID       string

	// flags records which fields were actually present on the wire, so a
	// round trip through Decode/Encode doesn't spuriously invent zero
	// values for omitted properties.
	flags uint16
}

const (
	flagContentType = 1 << 15
	flagContentEnc  = 1 << 14
	flagHeaders     = 1 << 13
	flagDeliveryMod = 1 << 12
	flagPriority    = 1 << 11
	flagCorrelation = 1 << 10
	flagReplyTo     = 1 << 9
	flagExpiration  = 1 << 8
	flagMessageID   = 1 << 7
	flagTimestamp   = 1 << 6
	flagType        = 1 << 5
	flagUserID      = 1 << 4
	flagAppID       = 1 << 3
	flagClusterID   = 1 << 2
)

// computeFlags derives the property-presence bitmask from which fields of
// p are non-zero, used when the caller hasn't tracked flags explicitly
// (e.g. a properties struct built by application code rather than decoded
// off the wire).
func (p Properties) computeFlags() uint16 {
	if p.flags != 0 {
		return p.flags
	}
	var f uint16
	if p.ContentType != "" {
		f |= flagContentType
	}
	if p.ContentEncoding != "" {
		f |= flagContentEnc
	}
	if p.Headers != nil {
		f |= flagHeaders
	}
	if p.DeliveryMode != 0 {
		f |= flagDeliveryMod
	}
	if p.Priority != 0 {
		f |= flagPriority
	}
	if p.CorrelationID != "" {
		f |= flagCorrelation
	}
	if p.ReplyTo != "" {
		f |= flagReplyTo
	}
	if p.Expiration != "" {
		f |= flagExpiration
	}
	if p.MessageID != "" {
		f |= flagMessageID
	}
	if !p.Timestamp.IsZero() {
		f |= flagTimestamp
	}
	if p.Type != "" {
		f |= flagType
	}
	if p.UserID != "" {
		f |= flagUserID
	}
	if p.AppID != "" {
		f |= flagAppID
	}
	if p.ClusterID != "" {
		f |= flagClusterID
	}
	return f
}

// DecodeProperties reads the flags word and the present properties, in
// the fixed field order the AMQP 0-9-1 spec defines.
func DecodeProperties(buf *buffer) (Properties, error) {
	var p Properties
	flags, err := wire.ReadShort(buf)
	if err != nil {
		return p, err
	}
	p.flags = flags

	if flags&flagContentType != 0 {
		if p.ContentType, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagContentEnc != 0 {
		if p.ContentEncoding, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagHeaders != 0 {
		if p.Headers, err = wire.ReadTable(buf); err != nil {
			return p, err
		}
	}
	if flags&flagDeliveryMod != 0 {
		if p.DeliveryMode, err = wire.ReadOctet(buf); err != nil {
			return p, err
		}
	}
	if flags&flagPriority != 0 {
		if p.Priority, err = wire.ReadOctet(buf); err != nil {
			return p, err
		}
	}
	if flags&flagCorrelation != 0 {
		if p.CorrelationID, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagReplyTo != 0 {
		if p.ReplyTo, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagExpiration != 0 {
		if p.Expiration, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagMessageID != 0 {
		if p.MessageID, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagTimestamp != 0 {
		if p.Timestamp, err = wire.ReadTimestamp(buf); err != nil {
			return p, err
		}
	}
	if flags&flagType != 0 {
		if p.Type, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagUserID != 0 {
		if p.UserID, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagAppID != 0 {
		if p.AppID, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	if flags&flagClusterID != 0 {
		if p.ClusterID, err = wire.ReadShortString(buf); err != nil {
			return p, err
		}
	}
	return p, nil
}

// EncodeProperties writes the flags word and the present properties.
func EncodeProperties(buf *buffer, p Properties) error {
	flags := p.computeFlags()
	wire.WriteShort(buf, flags)

	if flags&flagContentType != 0 {
		if err := wire.WriteShortString(buf, p.ContentType); err != nil {
			return err
		}
	}
	if flags&flagContentEnc != 0 {
		if err := wire.WriteShortString(buf, p.ContentEncoding); err != nil {
			return err
		}
	}
	if flags&flagHeaders != 0 {
		if err := wire.WriteTable(buf, p.Headers); err != nil {
			return err
		}
	}
	if flags&flagDeliveryMod != 0 {
		wire.WriteOctet(buf, p.DeliveryMode)
	}
	if flags&flagPriority != 0 {
		wire.WriteOctet(buf, p.Priority)
	}
	if flags&flagCorrelation != 0 {
		if err := wire.WriteShortString(buf, p.CorrelationID); err != nil {
			return err
		}
	}
	if flags&flagReplyTo != 0 {
		if err := wire.WriteShortString(buf, p.ReplyTo); err != nil {
			return err
		}
	}
	if flags&flagExpiration != 0 {
		if err := wire.WriteShortString(buf, p.Expiration); err != nil {
			return err
		}
	}
	if flags&flagMessageID != 0 {
		if err := wire.WriteShortString(buf, p.MessageID); err != nil {
			return err
		}
	}
	if flags&flagTimestamp != 0 {
		wire.WriteTimestamp(buf, p.Timestamp)
	}
	if flags&flagType != 0 {
		if err := wire.WriteShortString(buf, p.Type); err != nil {
			return err
		}
	}
	if flags&flagUserID != 0 {
		if err := wire.WriteShortString(buf, p.UserID); err != nil {
			return err
		}
	}
	if flags&flagAppID != 0 {
		if err := wire.WriteShortString(buf, p.AppID); err != nil {
			return err
		}
	}
	if flags&flagClusterID != 0 {
		if err := wire.WriteShortString(buf, p.ClusterID); err != nil {
			return err
		}
	}
	return nil
}
