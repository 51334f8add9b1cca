package kbin

import "github.com/google/uuid"

// Reader decodes the Kafka wire vocabulary from a contiguous byte slice. All
// read operations consume bytes from the front of Src; Skip is the only
// explicit positional move. Reading past the end of Src sets Err and returns zero values for
// the remainder of the Reader's life — callers should check Complete (or
// Err) once after a batch of reads rather than after every call.
type Reader struct {
	Src []byte
	Err error
}

// NewReader wraps src for decoding. src is not copied; the Reader holds a
// zero-copy view into it.
func NewReader(src []byte) *Reader {
	return &Reader{Src: src}
}

// Complete returns ErrNotEnoughData if the Reader ever failed a read, else
// nil. Trailing unconsumed bytes (e.g. unread tagged fields skipped by
// policy) are not an error.
func (r *Reader) Complete() error {
	return r.Err
}

func (r *Reader) fail() {
	r.Src = nil
	if r.Err == nil {
		r.Err = ErrNotEnoughData
	}
}

func (r *Reader) take(n int) []byte {
	if r.Err != nil || n < 0 || len(r.Src) < n {
		r.fail()
		return nil
	}
	b := r.Src[:n]
	r.Src = r.Src[n:]
	return b
}

func (r *Reader) Int8() int8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int8(b[0])
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

func (r *Reader) Uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func (r *Reader) Bool() bool {
	return r.Uint8() != 0
}

// UnsignedVarInt reads a 7-bit-per-byte varint up to 5 bytes wide.
func (r *Reader) UnsignedVarInt() uint32 {
	var v uint32
	for shift := uint(0); shift < 35; shift += 7 {
		if r.Err != nil || len(r.Src) == 0 {
			r.fail()
			return 0
		}
		b := r.Src[0]
		r.Src = r.Src[1:]
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v
		}
	}
	r.fail()
	return 0
}

// VarInt reads a ZigZag-encoded varint.
func (r *Reader) VarInt() int32 {
	v := r.UnsignedVarInt()
	return int32(v>>1) ^ -int32(v&1)
}

// UnsignedVarLong is the 64-bit analog of UnsignedVarInt.
func (r *Reader) UnsignedVarLong() uint64 {
	var v uint64
	for shift := uint(0); shift < 70; shift += 7 {
		if r.Err != nil || len(r.Src) == 0 {
			r.fail()
			return 0
		}
		b := r.Src[0]
		r.Src = r.Src[1:]
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v
		}
	}
	r.fail()
	return 0
}

// VarLong reads a ZigZag-encoded varlong.
func (r *Reader) VarLong() int64 {
	v := r.UnsignedVarLong()
	return int64(v>>1) ^ -int64(v&1)
}

// UUID reads 16 raw bytes and formats them as a canonical hyphenated hex
// string.
func (r *Reader) UUID() string {
	b := r.take(16)
	if b == nil {
		return ""
	}
	var raw [16]byte
	copy(raw[:], b)
	return uuid.UUID(raw).String()
}

// String reads a string with an int16 length prefix. A length of -1 is
// invalid here (use NullableString) and sets Err.
func (r *Reader) String() string {
	n := r.Int16()
	if r.Err != nil {
		return ""
	}
	if n < 0 {
		r.fail()
		return ""
	}
	b := r.take(int(n))
	return string(b)
}

// CompactString reads a string with a compact (count+1) length prefix. A
// decoded prefix of 0 is invalid here (use CompactNullableString).
func (r *Reader) CompactString() string {
	n := r.UnsignedVarInt()
	if r.Err != nil {
		return ""
	}
	if n == 0 {
		r.fail()
		return ""
	}
	b := r.take(int(n - 1))
	return string(b)
}

// NullableString reads a string that may be null (-1 legacy / 0 compact).
func (r *Reader) NullableString(compact bool) *string {
	if compact {
		n := r.UnsignedVarInt()
		if r.Err != nil {
			return nil
		}
		if n == 0 {
			return nil
		}
		b := r.take(int(n - 1))
		if r.Err != nil {
			return nil
		}
		s := string(b)
		return &s
	}
	n := r.Int16()
	if r.Err != nil {
		return nil
	}
	if n < 0 {
		return nil
	}
	b := r.take(int(n))
	if r.Err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// Bytes reads a byte slice with an int32 length prefix.
func (r *Reader) Bytes() []byte {
	n := r.Int32()
	if r.Err != nil {
		return nil
	}
	if n < 0 {
		r.fail()
		return nil
	}
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// CompactBytes reads a byte slice with a compact (count+1) length prefix.
func (r *Reader) CompactBytes() []byte {
	n := r.UnsignedVarInt()
	if r.Err != nil {
		return nil
	}
	if n == 0 {
		r.fail()
		return nil
	}
	b := r.take(int(n - 1))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// NullableBytes reads a byte slice that may be null (-1 legacy / 0 compact).
func (r *Reader) NullableBytes(compact bool) []byte {
	if compact {
		n := r.UnsignedVarInt()
		if r.Err != nil || n == 0 {
			return nil
		}
		b := r.take(int(n - 1))
		if b == nil {
			return nil
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	n := r.Int32()
	if r.Err != nil || n < 0 {
		return nil
	}
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// ArrayLen reads an array length prefix. When nullable is true, a compact
// prefix of 0 (or legacy -1) yields -1 to signal "null"; a compact prefix of
// 1 (or legacy 0) yields 0, the empty-but-present array. When nullable is
// false, a 0 prefix is the empty array and null is not representable.
func (r *Reader) ArrayLen(compact, nullable bool) int {
	if compact {
		n := r.UnsignedVarInt()
		if r.Err != nil {
			return 0
		}
		if n == 0 {
			if nullable {
				return -1
			}
			return 0
		}
		return int(n - 1)
	}
	n := r.Int32()
	if r.Err != nil {
		return 0
	}
	if n < -1 || (n == -1 && !nullable) {
		r.fail()
		return 0
	}
	return int(n)
}

// Skip discards n bytes without interpreting them.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Span returns the next n raw bytes as a zero-copy slice, consuming them
// from Src.
func (r *Reader) Span(n int) []byte {
	return r.take(n)
}

// ReadTaggedFields reads the tag-count varint and, for each tag, the tag id
// and a length-prefixed opaque blob, discarding the blob. Unknown tags are
// silently skipped, per the tagged-fields forward-compatibility policy.
func (r *Reader) ReadTaggedFields() {
	n := r.UnsignedVarInt()
	for ; n > 0 && r.Err == nil; n-- {
		r.UnsignedVarInt() // tag id, unused
		size := r.UnsignedVarInt()
		r.Skip(int(size))
	}
}
