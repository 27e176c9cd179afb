// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"encoding/binary"
	"fmt"
)

// byteReader walks a decompressed PAR payload strictly front to back.
// Every read is bounds-checked; running past the end is ErrTruncated
// with the offending offset.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *byteReader) need(n int) error {
	if r.remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset 0x%X, have %d",
			ErrTruncated, n, r.pos, r.remaining())
	}
	return nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *byteReader) i8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *byteReader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *byteReader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// delphiString reads a u32 length prefix followed by that many raw
// ASCII bytes, no terminator.
func (r *byteReader) delphiString() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if int(n) > r.remaining() {
		return "", fmt.Errorf("%w: string of %d bytes at offset 0x%X exceeds remaining %d",
			ErrTruncated, n, r.pos, r.remaining())
	}
	b, _ := r.bytes(int(n))
	return string(b), nil
}

// readSeq reads a u32 element count followed by that many elements.
// elemMin is the smallest possible wire size of one element; the count
// is validated against it up front so a corrupt length fails cleanly
// instead of attempting a huge allocation.
func readSeq[T any](r *byteReader, elemMin int, elem func(*byteReader) (T, error)) ([]T, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int(n) > r.remaining()/elemMin {
		return nil, fmt.Errorf("%w: array of %d elements at offset 0x%X exceeds remaining %d bytes",
			ErrTruncated, n, r.pos, r.remaining())
	}
	out := make([]T, n)
	for i := range out {
		if out[i], err = elem(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode parses a decompressed PAR payload into a Document.
//
// Decoding is strictly sequential and little-endian. Any failure is
// fatal to the whole call: no partial document is returned, because a
// single misread length desynchronizes every later offset. The
// resulting document satisfies Encode(Decode(b)) == b byte for byte.
func Decode(data []byte) (*Document, error) {
	r := &byteReader{data: data}

	magic, err := r.u32()
	if err != nil {
		return nil, err
	}
	if magic != parMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrFormat, magic)
	}

	doc := &Document{}
	if doc.Version, err = r.u32(); err != nil {
		return nil, err
	}
	if doc.Version != parVersion {
		return nil, fmt.Errorf("%w: version 0x%X, only 0x%X is supported",
			ErrFormat, doc.Version, uint32(parVersion))
	}

	listCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	if doc.Padding, err = r.u32(); err != nil {
		return nil, err
	}

	// Guard against an absurd list count before allocating. Each list
	// needs at least 12 bytes on the wire.
	if int(listCount) > r.remaining()/12 {
		return nil, fmt.Errorf("%w: %d lists at offset 0x%X exceed remaining %d bytes",
			ErrTruncated, listCount, r.pos, r.remaining())
	}

	doc.Lists = make([]*List, 0, listCount)
	for li := uint32(0); li < listCount; li++ {
		l, err := readList(r)
		if err != nil {
			return nil, fmt.Errorf("list %d: %w", li, err)
		}
		doc.Lists = append(doc.Lists, l)
	}

	// Some shipped files carry bytes past the last list. Keep them for
	// the round-trip guarantee.
	if r.remaining() > 0 {
		doc.Trailing = make([]byte, r.remaining())
		copy(doc.Trailing, r.data[r.pos:])
	}

	return doc, nil
}

func readList(r *byteReader) (*List, error) {
	l := &List{}
	var err error
	if l.Unknown1, err = r.u32(); err != nil {
		return nil, err
	}
	if l.Unknown2, err = r.u32(); err != nil {
		return nil, err
	}

	entryCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	// A wire entry is at least 11 bytes: empty name (4), unknown byte,
	// field count and the two opaque u16 values.
	if int(entryCount) > r.remaining()/11 {
		return nil, fmt.Errorf("%w: %d entries at offset 0x%X exceed remaining %d bytes",
			ErrTruncated, entryCount, r.pos, r.remaining())
	}

	l.Entries = make([]*Entry, 0, entryCount)
	for ei := uint32(0); ei < entryCount; ei++ {
		e, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", ei, err)
		}
		l.Entries = append(l.Entries, e)
	}
	return l, nil
}

func readEntry(r *byteReader) (*Entry, error) {
	e := &Entry{}
	var err error
	if e.Name, err = r.delphiString(); err != nil {
		return nil, err
	}
	if e.Unknown, err = r.i8(); err != nil {
		return nil, err
	}

	fieldCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	if e.U16A, err = r.u16(); err != nil {
		return nil, err
	}
	if e.U16B, err = r.u16(); err != nil {
		return nil, err
	}

	// The type-ID list defines the entry's schema; values follow
	// strictly in type-ID order.
	ids, err := r.bytes(int(fieldCount))
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !Type(id).Valid() {
			return nil, fmt.Errorf("%w: 0x%02X in entry %q", ErrUnknownTypeID, id, e.Name)
		}
	}

	e.Fields = make([]Value, 0, fieldCount)
	for i, id := range ids {
		v, err := readValue(r, Type(id))
		if err != nil {
			return nil, fmt.Errorf("entry %q field %d (%s): %w", e.Name, i, Type(id), err)
		}
		e.Fields = append(e.Fields, v)
	}
	return e, nil
}

func readValue(r *byteReader, t Type) (Value, error) {
	switch t {
	case TypeInt32, TypeFloat32, TypeUint32:
		bits, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, num: bits}, nil

	case TypeString:
		s, err := r.delphiString()
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, str: s}, nil

	case TypeStringArray:
		strs, err := readSeq(r, 4, (*byteReader).delphiString)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, strs: strs}, nil

	default: // numeric arrays
		nums, err := readSeq(r, 4, (*byteReader).u32)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, nums: nums}, nil
	}
}
