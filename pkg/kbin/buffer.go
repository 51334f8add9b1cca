// Package kbin implements the Kafka wire codec: a growable byte buffer and
// the typed Writer/Reader pair that encode and decode the Kafka wire
// vocabulary against it (fixed-width integers, ZigZag varints,
// length-prefixed and compact length-prefixed strings/bytes/arrays, UUIDs,
// and tagged-field blocks).
package kbin

import "errors"

// ErrNotEnoughData is returned by Reader methods when the underlying slice
// does not hold enough bytes to satisfy the read, and also when a length
// prefix is not valid for the field being read.
var ErrNotEnoughData = errors.New("kbin: not enough data to read this field")

// ErrInvalidLength marks a negative frame size prefix; the connection
// engine reports it while splitting responses into frames. Reader methods
// do not return it.
var ErrInvalidLength = errors.New("kbin: invalid length prefix")

// ErrInvalidUUID is not returned by this package: Writer.AppendUUID panics
// on a string that does not parse, and Reader.UUID accepts any 16 bytes.
var ErrInvalidUUID = errors.New("kbin: invalid uuid encoding")

// Buffer is a growable, append-only byte sequence with an independent read
// cursor, corresponding to component (A) of the wire codec: appends never
// invalidate outstanding read positions, and reads never advance the append
// cursor. Consume discards a prefix of the buffer, invalidating any slice
// view into that prefix.
//
// The zero value is a ready-to-use, empty Buffer.
type Buffer struct {
	buf  []byte
	rpos int
}

// NewBuffer returns a Buffer whose initial content is buf. The Buffer takes
// ownership of buf; callers must not mutate it afterward.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

// Append appends p to the buffer and returns the number of bytes appended.
// It never fails: growth is amortized O(1) via the append builtin.
func (b *Buffer) Append(p []byte) int {
	b.buf = append(b.buf, p...)
	return len(p)
}

// Len returns the number of unread bytes: Len() == Bytes() length.
func (b *Buffer) Len() int {
	return len(b.buf) - b.rpos
}

// Cap returns the number of bytes the buffer holds, read or not. Consume
// reclaims read bytes, so Cap can shrink.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Bytes returns a zero-copy view of the unread portion of the buffer. The
// returned slice is only valid until the next Consume call that overlaps it.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.rpos:]
}

// Peek returns a zero-copy view of the first n unread bytes, or the full
// unread region if fewer than n bytes remain.
func (b *Buffer) Peek(n int) []byte {
	avail := b.Len()
	if n > avail {
		n = avail
	}
	return b.buf[b.rpos : b.rpos+n]
}

// Consume discards the first n unread bytes, advancing the read cursor.
// Consuming more than Len() bytes is a programming error and panics, mirroring
// the invariant that read_cursor <= length must always hold.
func (b *Buffer) Consume(n int) {
	if n < 0 || n > b.Len() {
		panic("kbin: Consume out of range")
	}
	b.rpos += n
	// Reclaim space once the unread region is small relative to the
	// total buffer so long-lived accumulators (the connection engine's
	// response accumulator) don't grow unbounded.
	if b.rpos > 0 && b.rpos == len(b.buf) {
		b.buf = b.buf[:0]
		b.rpos = 0
	} else if b.rpos > 4096 && b.rpos*2 > len(b.buf) {
		remaining := b.Len()
		copy(b.buf, b.buf[b.rpos:])
		b.buf = b.buf[:remaining]
		b.rpos = 0
	}
}

// Reset discards all content, read or not.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.rpos = 0
}
