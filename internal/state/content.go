package state

import (
	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
)

// defaultFrameMax is used to size body chunks before frame_max has been
// negotiated (e.g. nothing publishes before the handshake completes in
// practice, but a generous default keeps the chunker total).
const defaultFrameMax = 131072

// SendContentFrames enqueues the Header and Body frames that must follow
// a content-bearing method (basic.publish), chunked so that no frame
// exceeds the negotiated frame_max (spec.md §4.2).
func (m *Machine) SendContentFrames(channelID uint16, classID uint16, payload []byte, props method.Properties) {
	m.enqueue(channelID, frame.Frame{
		Kind:       frame.KindHeader,
		ClassID:    classID,
		BodySize:   uint64(len(payload)),
		Properties: props,
	})

	max := int(m.cfg.FrameMax)
	if max <= frame.Overhead {
		max = defaultFrameMax
	}
	chunkSize := max - frame.Overhead

	for off := 0; off < len(payload); off += chunkSize {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		m.enqueue(channelID, frame.Frame{Kind: frame.KindBody, Body: payload[off:end]})
	}
	if len(payload) == 0 {
		// still a well-formed zero-body message; no Body frame needed.
	}
}
