package kbin

import (
	"math"
	"testing"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	w := NewWriter()
	w.AppendInt8(-5).AppendInt16(-1234).AppendInt32(math.MinInt32).AppendInt64(math.MaxInt64).AppendBool(true).AppendBool(false)

	r := NewReader(w.Bytes())
	if got := r.Int8(); got != -5 {
		t.Fatalf("Int8 = %d, want -5", got)
	}
	if got := r.Int16(); got != -1234 {
		t.Fatalf("Int16 = %d, want -1234", got)
	}
	if got := r.Int32(); got != math.MinInt32 {
		t.Fatalf("Int32 = %d, want %d", got, math.MinInt32)
	}
	if got := r.Int64(); got != math.MaxInt64 {
		t.Fatalf("Int64 = %d, want %d", got, int64(math.MaxInt64))
	}
	if got := r.Bool(); got != true {
		t.Fatalf("Bool = %v, want true", got)
	}
	if got := r.Bool(); got != false {
		t.Fatalf("Bool = %v, want false", got)
	}
	if err := r.Complete(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 63, -64, 64, -65, math.MaxInt32, math.MinInt32, 1 << 20, -(1 << 20)}
	for _, v := range values {
		w := NewWriter()
		w.AppendVarInt(v)
		r := NewReader(w.Bytes())
		got := r.VarInt()
		if err := r.Complete(); err != nil {
			t.Fatalf("VarInt(%d): unexpected error: %v", v, err)
		}
		if got != v {
			t.Fatalf("VarInt round trip = %d, want %d", got, v)
		}
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 1 << 40, -(1 << 40)}
	for _, v := range values {
		w := NewWriter()
		w.AppendVarLong(v)
		r := NewReader(w.Bytes())
		got := r.VarLong()
		if err := r.Complete(); err != nil {
			t.Fatalf("VarLong(%d): unexpected error: %v", v, err)
		}
		if got != v {
			t.Fatalf("VarLong round trip = %d, want %d", got, v)
		}
	}
}

func TestUnsignedVarIntWireForm(t *testing.T) {
	// 300 should encode as two bytes: 0xAC 0x02 (300 = 0b1_0010_1100).
	w := NewWriter()
	w.AppendUnsignedVarInt(300)
	got := w.Bytes()
	want := []byte{0xAC, 0x02}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("encoded bytes = %x, want %x", got, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "unicode: héllo wörld 日本語"} {
		w := NewWriter()
		w.AppendString(s)
		r := NewReader(w.Bytes())
		got := r.String()
		if err := r.Complete(); err != nil {
			t.Fatalf("String(%q): unexpected error: %v", s, err)
		}
		if got != s {
			t.Fatalf("String round trip = %q, want %q", got, s)
		}
	}
}

func TestCompactStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hi", "日本語"} {
		w := NewWriter()
		w.AppendCompactString(s)
		r := NewReader(w.Bytes())
		got := r.CompactString()
		if err := r.Complete(); err != nil {
			t.Fatalf("CompactString(%q): unexpected error: %v", s, err)
		}
		if got != s {
			t.Fatalf("CompactString round trip = %q, want %q", got, s)
		}
	}
}

func TestNullableStringNullEncoding(t *testing.T) {
	// Compact null is a single 0 byte.
	w := NewWriter()
	w.AppendNullableString(nil, true)
	if got := w.Bytes(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("compact null encoding = %x, want [0x00]", got)
	}
	r := NewReader(w.Bytes())
	if got := r.NullableString(true); got != nil {
		t.Fatalf("decoded compact null = %v, want nil", got)
	}

	// Legacy null is int16(-1).
	w = NewWriter()
	w.AppendNullableString(nil, false)
	if got := w.Bytes(); len(got) != 2 || got[0] != 0xFF || got[1] != 0xFF {
		t.Fatalf("legacy null encoding = %x, want [0xff,0xff]", got)
	}
	r = NewReader(w.Bytes())
	if got := r.NullableString(false); got != nil {
		t.Fatalf("decoded legacy null = %v, want nil", got)
	}
}

func TestNullableStringNonNullRoundTrip(t *testing.T) {
	for _, compact := range []bool{true, false} {
		s := "present"
		w := NewWriter()
		w.AppendNullableString(&s, compact)
		r := NewReader(w.Bytes())
		got := r.NullableString(compact)
		if got == nil || *got != s {
			t.Fatalf("compact=%v: NullableString round trip = %v, want %q", compact, got, s)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, b := range [][]byte{{}, {1, 2, 3}, nil} {
		w := NewWriter()
		w.AppendBytes(b)
		r := NewReader(w.Bytes())
		got := r.Bytes()
		if err := r.Complete(); err != nil {
			t.Fatalf("Bytes(%v): unexpected error: %v", b, err)
		}
		if len(got) != len(b) {
			t.Fatalf("Bytes round trip len = %d, want %d", len(got), len(b))
		}
	}
}

func TestNullableBytesDistinguishesNilFromEmpty(t *testing.T) {
	w := NewWriter()
	w.AppendNullableBytes(nil, true)
	w.AppendNullableBytes([]byte{}, true)

	r := NewReader(w.Bytes())
	if got := r.NullableBytes(true); got != nil {
		t.Fatalf("first value = %v, want nil", got)
	}
	if got := r.NullableBytes(true); got == nil || len(got) != 0 {
		t.Fatalf("second value = %v, want non-nil empty slice", got)
	}
}

func TestArrayNullVsEmptyDistinguishable(t *testing.T) {
	for _, compact := range []bool{true, false} {
		wNull := NewWriter()
		wNull.AppendNullableArrayLen(0, true, compact)
		wEmpty := NewWriter()
		wEmpty.AppendNullableArrayLen(0, false, compact)

		if string(wNull.Bytes()) == string(wEmpty.Bytes()) {
			t.Fatalf("compact=%v: null and empty array encodings must differ, got %x for both", compact, wNull.Bytes())
		}

		rNull := NewReader(wNull.Bytes())
		if got := rNull.ArrayLen(compact, true); got != -1 {
			t.Fatalf("compact=%v: null array length = %d, want -1", compact, got)
		}
		rEmpty := NewReader(wEmpty.Bytes())
		if got := rEmpty.ArrayLen(compact, true); got != 0 {
			t.Fatalf("compact=%v: empty array length = %d, want 0", compact, got)
		}
	}
}

func TestArrayNonNullableRejectsNull(t *testing.T) {
	w := NewWriter()
	w.AppendInt32(-1) // legacy null, illegal for a non-nullable array
	r := NewReader(w.Bytes())
	r.ArrayLen(false, false)
	if r.Complete() == nil {
		t.Fatal("expected error reading null length for non-nullable array")
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	cases := []string{
		"00000000-0000-0000-0000-000000000000",
		"f47ac10b-58cc-4372-a567-0e02b2c3d479",
	}
	for _, u := range cases {
		w := NewWriter()
		w.AppendUUID(u)
		r := NewReader(w.Bytes())
		got := r.UUID()
		if err := r.Complete(); err != nil {
			t.Fatalf("UUID(%s): unexpected error: %v", u, err)
		}
		if got != u {
			t.Fatalf("UUID round trip = %s, want %s", got, u)
		}
	}
}

func TestTaggedFieldsEmptyIsSingleZeroByte(t *testing.T) {
	w := NewWriter()
	w.AppendTaggedFieldsEmpty()
	if got := w.Bytes(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("empty tagged fields encoding = %x, want [0x00]", got)
	}
}

func TestReadTaggedFieldsSkipsUnknown(t *testing.T) {
	w := NewWriter()
	w.AppendUnsignedVarInt(2) // two tags
	w.AppendUnsignedVarInt(5) // tag id 5
	w.AppendUnsignedVarInt(3)
	w.buf.Append([]byte{1, 2, 3})
	w.AppendUnsignedVarInt(9) // tag id 9
	w.AppendUnsignedVarInt(0)
	w.AppendString("trailer")

	r := NewReader(w.Bytes())
	r.ReadTaggedFields()
	if err := r.Complete(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.String(); got != "trailer" {
		t.Fatalf("trailing data after skipped tags = %q, want %q", got, "trailer")
	}
}

func TestReadPastEndIsError(t *testing.T) {
	r := NewReader([]byte{0, 1})
	r.Int32()
	if r.Complete() == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestBufferConsumeInvariant(t *testing.T) {
	b := NewBuffer(nil)
	b.Append([]byte("hello world"))
	if b.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", b.Len())
	}
	b.Consume(6)
	if b.Len() != 5 {
		t.Fatalf("Len() after consume = %d, want 5", b.Len())
	}
	if string(b.Bytes()) != "world" {
		t.Fatalf("Bytes() after consume = %q, want %q", b.Bytes(), "world")
	}
}

func TestPrependLength(t *testing.T) {
	w := NewWriter()
	w.AppendString("abc")
	w.PrependLength()
	got := w.Bytes()
	if len(got) != 4+2+3 {
		t.Fatalf("framed length = %d, want %d", len(got), 4+2+3)
	}
	r := NewReader(got)
	length := r.Int32()
	if int(length) != len(got)-4 {
		t.Fatalf("prepended length = %d, want %d", length, len(got)-4)
	}
}
