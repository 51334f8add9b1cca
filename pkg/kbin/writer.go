package kbin

import "github.com/google/uuid"

// Writer encodes the Kafka wire vocabulary into a Buffer. Every Append*
// method returns the Writer itself so calls can be chained. A Writer is
// single-use: once its bytes have been handed to a connection for writing,
// it must not be reused for another request.
type Writer struct {
	buf *Buffer

	// NoResponse signals that the request this Writer is encoding expects
	// no broker reply (e.g. produce with acks=0). The connection engine
	// consults this after encoding to decide whether to park a response
	// waiter.
	NoResponse bool
}

// NewWriter returns a Writer appending into a fresh Buffer.
func NewWriter() *Writer {
	return &Writer{buf: &Buffer{}}
}

// Bytes returns the encoded bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) AppendInt8(v int8) *Writer {
	w.buf.Append([]byte{byte(v)})
	return w
}

func (w *Writer) AppendUint8(v uint8) *Writer {
	w.buf.Append([]byte{v})
	return w
}

func (w *Writer) AppendInt16(v int16) *Writer {
	return w.AppendUint16(uint16(v))
}

func (w *Writer) AppendUint16(v uint16) *Writer {
	w.buf.Append([]byte{byte(v >> 8), byte(v)})
	return w
}

func (w *Writer) AppendInt32(v int32) *Writer {
	return w.AppendUint32(uint32(v))
}

func (w *Writer) AppendUint32(v uint32) *Writer {
	w.buf.Append([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	return w
}

func (w *Writer) AppendInt64(v int64) *Writer {
	return w.AppendUint64(uint64(v))
}

func (w *Writer) AppendUint64(v uint64) *Writer {
	w.buf.Append([]byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	})
	return w
}

// AppendRaw appends p verbatim, with no length prefix of any kind. Used to
// splice together bytes already encoded by another Writer (e.g. stitching a
// request header's bytes to an API descriptor's body bytes before framing).
func (w *Writer) AppendRaw(p []byte) *Writer {
	w.buf.Append(p)
	return w
}

func (w *Writer) AppendBool(v bool) *Writer {
	if v {
		return w.AppendUint8(1)
	}
	return w.AppendUint8(0)
}

// AppendUnsignedVarInt appends v as a base-128, 7-bit-per-byte varint, least
// significant group first, with the continuation bit (0x80) set on every
// byte but the last.
func (w *Writer) AppendUnsignedVarInt(v uint32) *Writer {
	var scratch [5]byte
	n := 0
	for v >= 0x80 {
		scratch[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	scratch[n] = byte(v)
	n++
	w.buf.Append(scratch[:n])
	return w
}

// AppendVarInt ZigZag-encodes v and appends it as an unsigned varint.
func (w *Writer) AppendVarInt(v int32) *Writer {
	return w.AppendUnsignedVarInt(uint32(v)<<1 ^ uint32(v>>31))
}

// AppendUnsignedVarLong is the 64-bit analog of AppendUnsignedVarInt, used
// by AppendVarLong. Compact length prefixes go through AppendUnsignedVarInt.
func (w *Writer) AppendUnsignedVarLong(v uint64) *Writer {
	var scratch [10]byte
	n := 0
	for v >= 0x80 {
		scratch[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	scratch[n] = byte(v)
	n++
	w.buf.Append(scratch[:n])
	return w
}

// AppendVarLong ZigZag-encodes v and appends it as an unsigned varlong.
func (w *Writer) AppendVarLong(v int64) *Writer {
	return w.AppendUnsignedVarLong(uint64(v)<<1 ^ uint64(v>>63))
}

// AppendUUID appends the 16 raw bytes of a canonical hyphenated-hex UUID
// string. An all-zero UUID is a legal value. Parsing failures are a
// programming error (the caller supplied a malformed literal) and panic,
// consistent with the Writer's "encoding cannot fail" contract.
func (w *Writer) AppendUUID(s string) *Writer {
	id, err := uuid.Parse(s)
	if err != nil {
		panic("kbin: invalid uuid passed to AppendUUID: " + err.Error())
	}
	raw := id[:]
	w.buf.Append(raw)
	return w
}

// AppendUUIDBytes appends the 16 raw bytes of an already-parsed UUID.
func (w *Writer) AppendUUIDBytes(raw [16]byte) *Writer {
	w.buf.Append(raw[:])
	return w
}

// AppendString appends value using an int16 length prefix (-1 is reserved
// for null and must not be reached through this method; use
// AppendNullableString for nullable fields).
func (w *Writer) AppendString(value string) *Writer {
	w.AppendInt16(int16(len(value)))
	w.buf.Append([]byte(value))
	return w
}

// AppendCompactString appends value using a compact (unsigned-varint,
// count+1) length prefix.
func (w *Writer) AppendCompactString(value string) *Writer {
	w.AppendUnsignedVarInt(uint32(len(value)) + 1)
	w.buf.Append([]byte(value))
	return w
}

// AppendNullableString appends value, or a null marker if value is nil.
// The compact flag selects the compact (0 = null) or legacy (-1 = null)
// length convention.
func (w *Writer) AppendNullableString(value *string, compact bool) *Writer {
	if value == nil {
		if compact {
			w.AppendUnsignedVarInt(0)
		} else {
			w.AppendInt16(-1)
		}
		return w
	}
	if compact {
		return w.AppendCompactString(*value)
	}
	return w.AppendString(*value)
}

// AppendBytes appends value using an int32 length prefix.
func (w *Writer) AppendBytes(value []byte) *Writer {
	w.AppendInt32(int32(len(value)))
	w.buf.Append(value)
	return w
}

// AppendCompactBytes appends value using a compact (count+1) length prefix.
func (w *Writer) AppendCompactBytes(value []byte) *Writer {
	w.AppendUnsignedVarInt(uint32(len(value)) + 1)
	w.buf.Append(value)
	return w
}

// AppendNullableBytes appends value, or a null marker if value is nil.
func (w *Writer) AppendNullableBytes(value []byte, compact bool) *Writer {
	if value == nil {
		if compact {
			w.AppendUnsignedVarInt(0)
		} else {
			w.AppendInt32(-1)
		}
		return w
	}
	if compact {
		return w.AppendCompactBytes(value)
	}
	return w.AppendBytes(value)
}

// AppendArrayLen writes just the length prefix for an array of n items
// that is known to be present (never null): compact length is n+1, legacy
// length is n.
func (w *Writer) AppendArrayLen(n int, compact bool) *Writer {
	if compact {
		w.AppendUnsignedVarInt(uint32(n) + 1)
	} else {
		w.AppendInt32(int32(n))
	}
	return w
}

// AppendNullableArrayLen writes the length prefix for an array that may be
// null or empty, observing Kafka's distinction between the two: null
// encodes as 0 (compact) / -1 (legacy), empty encodes as 1 (compact) / 0
// (legacy).
func (w *Writer) AppendNullableArrayLen(n int, isNil, compact bool) *Writer {
	if isNil {
		if compact {
			w.AppendUnsignedVarInt(0)
		} else {
			w.AppendInt32(-1)
		}
		return w
	}
	return w.AppendArrayLen(n, compact)
}

// AppendTaggedFieldsEmpty writes an empty tag buffer: a single 0 byte,
// signifying that no tagged fields follow. Tagged-field handling here is
// opaque pass-through.
func (w *Writer) AppendTaggedFieldsEmpty() *Writer {
	return w.AppendUnsignedVarInt(0)
}

// PrependLength computes the writer's current byte length and inserts it as
// a big-endian int32 at the very front of the buffer. This is used exactly
// once, just before a framed payload leaves the connection engine.
func (w *Writer) PrependLength() *Writer {
	body := w.buf.Bytes()
	framed := make([]byte, 4+len(body))
	n := uint32(len(body))
	framed[0] = byte(n >> 24)
	framed[1] = byte(n >> 16)
	framed[2] = byte(n >> 8)
	framed[3] = byte(n)
	copy(framed[4:], body)
	w.buf = NewBuffer(framed)
	return w
}
