// Package wire implements the AMQP 0-9-1 primitive wire encodings: the
// octet/short/long/longlong integers, short and long strings, field tables,
// and the growable buffer the frame codec reads and writes through.
package wire

// Buffer is a growable byte buffer used by both the frame codec and the
// per-method encoders. It plays the same role the teacher's internal/buffer
// package plays for sender.go: Reset/Len/Next/Detach around a plain []byte.
type Buffer struct {
	b   []byte
	off int
}

// New wraps an existing slice for reading.
func New(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Reset discards any buffered data, retaining the underlying storage.
func (buf *Buffer) Reset() {
	buf.b = buf.b[:0]
	buf.off = 0
}

// Len returns the number of unread bytes.
func (buf *Buffer) Len() int {
	return len(buf.b) - buf.off
}

// Bytes returns the unread portion of the buffer without consuming it.
func (buf *Buffer) Bytes() []byte {
	return buf.b[buf.off:]
}

// Detach returns the unread bytes and leaves the buffer empty.
func (buf *Buffer) Detach() []byte {
	out := buf.b[buf.off:]
	buf.b = nil
	buf.off = 0
	return out
}

// Next consumes and returns up to n unread bytes.
func (buf *Buffer) Next(n int64) ([]byte, bool) {
	if int64(buf.Len()) < n {
		n = int64(buf.Len())
	}
	out := buf.b[buf.off : buf.off+int(n)]
	buf.off += int(n)
	return out, true
}

// Skip discards n unread bytes.
func (buf *Buffer) Skip(n int) {
	if n > buf.Len() {
		n = buf.Len()
	}
	buf.off += n
}

// Append appends raw bytes to the write end of the buffer.
func (buf *Buffer) Append(p []byte) {
	buf.b = append(buf.b, p...)
}

// AppendByte appends a single byte.
func (buf *Buffer) AppendByte(b byte) {
	buf.b = append(buf.b, b)
}

// Grow ensures at least n more bytes of capacity are available without a
// reallocation, matching the codec's "buffer too small by N, grow and
// retry" contract (spec.md §4.1).
func (buf *Buffer) Grow(n int) {
	if cap(buf.b)-len(buf.b) >= n {
		return
	}
	grown := make([]byte, len(buf.b), len(buf.b)+n)
	copy(grown, buf.b)
	buf.b = grown
}
