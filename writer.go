// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// byteWriter accumulates the little-endian wire form of a document.
type byteWriter struct {
	buf bytes.Buffer
}

func (w *byteWriter) bytes(b []byte) {
	w.buf.Write(b)
}

func (w *byteWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *byteWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *byteWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *byteWriter) delphiString(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// Encode serializes a Document back to PAR payload bytes.
//
// It is the structural inverse of Decode. Every count on the wire --
// list count, entry count, field count, array and string lengths -- is
// re-derived from the in-memory sequences rather than trusted from any
// cached value, which is what keeps the output correct after mutation.
// For an unmodified document the output is byte-identical to the
// decoded input.
func Encode(doc *Document) ([]byte, error) {
	w := &byteWriter{}

	w.u32(parMagic)
	w.u32(doc.Version)
	w.u32(uint32(len(doc.Lists)))
	w.u32(doc.Padding)

	for li, l := range doc.Lists {
		w.u32(l.Unknown1)
		w.u32(l.Unknown2)
		w.u32(uint32(len(l.Entries)))

		for _, e := range l.Entries {
			if err := writeEntry(w, e); err != nil {
				return nil, fmt.Errorf("list %d: %w", li, err)
			}
		}
	}

	w.bytes(doc.Trailing)
	return w.buf.Bytes(), nil
}

func writeEntry(w *byteWriter, e *Entry) error {
	if len(e.Fields) > math.MaxUint16 {
		return fmt.Errorf("entry %q: %d fields exceed the 16-bit field count", e.Name, len(e.Fields))
	}

	w.delphiString(e.Name)
	w.u8(uint8(e.Unknown))
	w.u16(uint16(len(e.Fields)))
	w.u16(e.U16A)
	w.u16(e.U16B)

	for _, f := range e.Fields {
		w.u8(uint8(f.Type()))
	}
	for _, f := range e.Fields {
		writeValue(w, f)
	}
	return nil
}

func writeValue(w *byteWriter, v Value) {
	switch v.typ {
	case TypeInt32, TypeFloat32, TypeUint32:
		w.u32(v.num)
	case TypeString:
		w.delphiString(v.str)
	case TypeStringArray:
		w.u32(uint32(len(v.strs)))
		for _, s := range v.strs {
			w.delphiString(s)
		}
	default: // numeric arrays
		w.u32(uint32(len(v.nums)))
		for _, n := range v.nums {
			w.u32(n)
		}
	}
}
