// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildPayload hand-assembles a wire buffer so Decode is tested
// against independently constructed bytes, not against Encode.
type payloadBuilder struct {
	w byteWriter
}

func (b *payloadBuilder) header(listCount, padding uint32) *payloadBuilder {
	b.w.u32(parMagic)
	b.w.u32(parVersion)
	b.w.u32(listCount)
	b.w.u32(padding)
	return b
}

func (b *payloadBuilder) list(unknown1, unknown2, entryCount uint32) *payloadBuilder {
	b.w.u32(unknown1)
	b.w.u32(unknown2)
	b.w.u32(entryCount)
	return b
}

func (b *payloadBuilder) bytes() []byte {
	return b.w.buf.Bytes()
}

// fullEntry writes one entry exercising all eight wire types.
func (b *payloadBuilder) fullEntry(name string) *payloadBuilder {
	w := &b.w
	w.delphiString(name)
	w.u8(1)        // unknown byte
	w.u16(8)       // field count
	w.u16(0xBEEF)  // u16a
	w.u16(0xCAFE)  // u16b
	for id := 0; id < 8; id++ {
		w.u8(uint8(id))
	}
	w.u32(uint32(int32(66066)))       // int32
	w.u32(0x3FC00000)                 // float32 1.5
	w.u32(7)                          // uint32
	w.delphiString(name + ".vdf")     // string
	w.u32(2)                          // int32[] count
	w.u32(uint32(int32(1)))
	negTwo := int32(-2)
	w.u32(uint32(negTwo))
	w.u32(1)                          // float32[] count
	w.u32(0x3F000000)                 // 0.5
	w.u32(0)                          // uint32[] count (empty)
	w.u32(2)                          // string[] count
	w.delphiString("a")
	w.delphiString("bc")
	return b
}

func TestDecodeFullEntry(t *testing.T) {
	b := new(payloadBuilder).header(1, 0).list(0x11, 0x22, 1).fullEntry("sword_01")
	raw := b.bytes()

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Lists) != 1 {
		t.Fatalf("got %d lists, want 1", len(doc.Lists))
	}
	l := doc.Lists[0]
	if l.Unknown1 != 0x11 || l.Unknown2 != 0x22 {
		t.Errorf("list unknowns = 0x%X/0x%X, want 0x11/0x22", l.Unknown1, l.Unknown2)
	}
	if len(l.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(l.Entries))
	}

	e := l.Entries[0]
	if e.Name != "sword_01" {
		t.Errorf("name = %q", e.Name)
	}
	if e.Unknown != 1 || e.U16A != 0xBEEF || e.U16B != 0xCAFE {
		t.Errorf("opaque values = %d/0x%X/0x%X", e.Unknown, e.U16A, e.U16B)
	}
	if e.FieldCount() != 8 {
		t.Fatalf("field count = %d, want 8", e.FieldCount())
	}
	for i, id := range e.TypeIDs() {
		if id != Type(i) {
			t.Errorf("type ID %d = %s, want %s", i, id, Type(i))
		}
	}
	if got := e.Fields[0].Int32(); got != 66066 {
		t.Errorf("int32 field = %d, want 66066", got)
	}
	if got := e.Fields[1].Float32(); got != 1.5 {
		t.Errorf("float32 field = %v, want 1.5", got)
	}
	if got := e.Fields[2].Uint32(); got != 7 {
		t.Errorf("uint32 field = %d, want 7", got)
	}
	if got := e.Fields[3].Text(); got != "sword_01.vdf" {
		t.Errorf("string field = %q", got)
	}
	if diff := cmp.Diff([]int32{1, -2}, e.Fields[4].Int32Array()); diff != "" {
		t.Errorf("int32[] mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0.5}, e.Fields[5].Float32Array()); diff != "" {
		t.Errorf("float32[] mismatch (-want +got):\n%s", diff)
	}
	if got := e.Fields[6].Len(); got != 0 {
		t.Errorf("uint32[] length = %d, want 0", got)
	}
	if diff := cmp.Diff([]string{"a", "bc"}, e.Fields[7].StringArray()); diff != "" {
		t.Errorf("string[] mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripBytes(t *testing.T) {
	b := new(payloadBuilder).header(2, 0).
		list(0x11, 0x22, 2).fullEntry("sword_01").fullEntry("axe_02").
		list(0x33, 0x44, 1).fullEntry("wolf_07")
	raw := b.bytes()

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("round trip not byte-identical: %d in, %d out", len(raw), len(out))
	}
}

func TestRoundTripIdempotent(t *testing.T) {
	raw := new(payloadBuilder).header(1, 0).list(9, 8, 1).fullEntry("imp_3").bytes()

	first, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	enc, err := Encode(first)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Decode(enc)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if diff := cmp.Diff(first, second, cmpValues); diff != "" {
		t.Errorf("documents differ after re-decode (-first +second):\n%s", diff)
	}
}

func TestEmptyListRoundTrip(t *testing.T) {
	raw := new(payloadBuilder).header(1, 0).list(0, 0, 0).bytes()
	if len(raw) != headerSize+12 {
		t.Fatalf("test buffer is %d bytes, want %d", len(raw), headerSize+12)
	}

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Lists) != 1 || len(doc.Lists[0].Entries) != 0 {
		t.Fatalf("got %d lists / %d entries, want 1 empty list",
			len(doc.Lists), len(doc.Lists[0].Entries))
	}

	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("empty-list round trip not byte-identical")
	}
}

func TestTrailingDataPreserved(t *testing.T) {
	raw := new(payloadBuilder).header(1, 0).list(0, 0, 0).bytes()
	raw = append(raw, 0xDE, 0xAD, 0xBE, 0xEF)

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(doc.Trailing, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("trailing = % X", doc.Trailing)
	}
	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("trailing bytes lost in round trip")
	}
}

func TestPaddingPreserved(t *testing.T) {
	raw := new(payloadBuilder).header(0, 0x1234).bytes()

	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Padding != 0x1234 {
		t.Fatalf("padding = 0x%X, want 0x1234", doc.Padding)
	}
	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("nonzero padding not preserved")
	}
}

func TestArrayCountRecomputed(t *testing.T) {
	raw := new(payloadBuilder).header(1, 0).list(0, 0, 1).fullEntry("imp_3").bytes()
	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Grow the int32[] field from 2 to 5 elements and re-encode; the
	// emitted count must follow the data.
	e := doc.Lists[0].Entries[0]
	e.Fields[4] = Int32ArrayValue([]int32{1, 2, 3, 4, 5})

	enc, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := Decode(enc)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	got := again.Lists[0].Entries[0].Fields[4].Int32Array()
	if diff := cmp.Diff([]int32{1, 2, 3, 4, 5}, got); diff != "" {
		t.Errorf("array after mutation round trip (-want +got):\n%s", diff)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	raw := new(payloadBuilder).header(0, 0).bytes()
	raw[0] = 'X'
	if _, err := Decode(raw); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestDecodeBadVersion(t *testing.T) {
	raw := new(payloadBuilder).header(0, 0).bytes()
	raw[4] = 0x07 // version 0x607
	if _, err := Decode(raw); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	raw := new(payloadBuilder).header(1, 0).list(0, 0, 1).fullEntry("imp_3").bytes()
	for _, cut := range []int{3, headerSize - 1, headerSize + 5, len(raw) - 1} {
		if _, err := Decode(raw[:cut]); !errors.Is(err, ErrTruncated) && !errors.Is(err, ErrFormat) {
			t.Errorf("cut at %d: err = %v, want ErrTruncated", cut, err)
		}
	}
}

func TestDecodeTruncatedStringLength(t *testing.T) {
	// Entry whose name claims 1000 bytes but the buffer ends first.
	b := new(payloadBuilder).header(1, 0).list(0, 0, 1)
	b.w.u32(1000)
	b.w.bytes([]byte("short"))
	if _, err := Decode(b.bytes()); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestDecodeUnknownTypeID(t *testing.T) {
	b := new(payloadBuilder).header(1, 0).list(0, 0, 1)
	w := &b.w
	w.delphiString("bad")
	w.u8(0)
	w.u16(1) // one field
	w.u16(0)
	w.u16(0)
	w.u8(0x2A) // undeclared tag; no fallback width exists
	w.u32(0)
	if _, err := Decode(b.bytes()); !errors.Is(err, ErrUnknownTypeID) {
		t.Fatalf("err = %v, want ErrUnknownTypeID", err)
	}
}

func TestDecodeAbsurdCounts(t *testing.T) {
	// A corrupt count larger than the buffer must fail cleanly, not
	// attempt the allocation.
	raw := new(payloadBuilder).header(0xFFFFFF, 0).bytes()
	if _, err := Decode(raw); !errors.Is(err, ErrTruncated) {
		t.Fatalf("list count: err = %v, want ErrTruncated", err)
	}

	raw = new(payloadBuilder).header(1, 0).list(0, 0, 0xFFFFFF).bytes()
	if _, err := Decode(raw); !errors.Is(err, ErrTruncated) {
		t.Fatalf("entry count: err = %v, want ErrTruncated", err)
	}
}
