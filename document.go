// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

// Document is the in-memory form of one PAR container: an ordered
// sequence of lists. List order is positional storage in the engine,
// not a lookup structure, so it is preserved exactly.
//
// A Document is built by Decode or NewDocument, mutated in place by the
// editor and merge operations, and read by Encode and Compare. It is
// not safe for concurrent mutation; callers serialize access.
type Document struct {
	// Version is the container version word. Decode only accepts
	// parVersion; the field exists so Encode re-emits it unchanged.
	Version uint32

	// Padding is the fourth header word. Always zero in known files;
	// preserved verbatim when it is not.
	Padding uint32

	Lists []*List

	// Trailing holds any bytes after the last decoded list. Some
	// shipped files carry extra data there; it is re-emitted verbatim.
	Trailing []byte
}

// List is one positional group of entries plus two opaque 32-bit
// values with no recovered semantics. The on-disk entry count is a
// serialization detail recomputed on encode.
type List struct {
	Unknown1 uint32
	Unknown2 uint32
	Entries  []*Entry
}

// Entry is one named object definition. Unknown, U16A and U16B are
// opaque and carried byte-for-byte; they are never recomputed or
// defaulted. The type-ID sequence is derived from the field values, so
// len(typeIDs) == len(fields) holds by construction.
type Entry struct {
	Name    string
	Unknown int8
	U16A    uint16
	U16B    uint16
	Fields  []Value
}

// EntryRef locates an entry by list and position within the list.
type EntryRef struct {
	List  int
	Index int
}

// noRef marks the absent side of a one-sided diff.
var noRef = EntryRef{List: -1, Index: -1}

// NewDocument returns an empty document with the fixed header values.
func NewDocument() *Document {
	return &Document{Version: parVersion, Padding: parPadding}
}

// EntryCount returns the total number of entries across all lists.
func (d *Document) EntryCount() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l.Entries)
	}
	return n
}

// Entry resolves a reference. It returns nil when the reference does
// not point inside the document.
func (d *Document) Entry(ref EntryRef) *Entry {
	if ref.List < 0 || ref.List >= len(d.Lists) {
		return nil
	}
	l := d.Lists[ref.List]
	if ref.Index < 0 || ref.Index >= len(l.Entries) {
		return nil
	}
	return l.Entries[ref.Index]
}

// Find locates the first entry with the given name in document order.
// Names are unique within a list in practice but the format does not
// enforce it; on a cross-list collision the earliest occurrence wins.
func (d *Document) Find(name string) (EntryRef, bool) {
	for li, l := range d.Lists {
		for ei, e := range l.Entries {
			if e.Name == name {
				return EntryRef{List: li, Index: ei}, true
			}
		}
	}
	return noRef, false
}

// nameIndex builds a name -> location map for one comparison pass.
// Built fresh per call: documents mutate between compares and a stale
// index would corrupt matching.
func (d *Document) nameIndex() map[string]EntryRef {
	idx := make(map[string]EntryRef, d.EntryCount())
	for li, l := range d.Lists {
		for ei, e := range l.Entries {
			if _, ok := idx[e.Name]; !ok {
				idx[e.Name] = EntryRef{List: li, Index: ei}
			}
		}
	}
	return idx
}

// hasName reports whether any entry in the document carries name.
func (d *Document) hasName(name string) bool {
	_, ok := d.Find(name)
	return ok
}

// Clone returns a deep copy. No list, entry or value is ever shared
// between two documents.
func (d *Document) Clone() *Document {
	c := &Document{Version: d.Version, Padding: d.Padding}
	c.Lists = make([]*List, len(d.Lists))
	for i, l := range d.Lists {
		c.Lists[i] = l.Clone()
	}
	if d.Trailing != nil {
		c.Trailing = make([]byte, len(d.Trailing))
		copy(c.Trailing, d.Trailing)
	}
	return c
}

// Clone returns a deep copy of the list and its entries.
func (l *List) Clone() *List {
	c := &List{Unknown1: l.Unknown1, Unknown2: l.Unknown2}
	c.Entries = make([]*Entry, len(l.Entries))
	for i, e := range l.Entries {
		c.Entries[i] = e.Clone()
	}
	return c
}

// FieldCount returns the number of fields. Entries with the same field
// count form one schema category; downstream consumers (label lookup,
// blank-entry creation, merge placement) key off this value.
func (e *Entry) FieldCount() int {
	return len(e.Fields)
}

// TypeIDs returns the entry's type-ID sequence, one tag per field in
// field order.
func (e *Entry) TypeIDs() []Type {
	ids := make([]Type, len(e.Fields))
	for i, f := range e.Fields {
		ids[i] = f.Type()
	}
	return ids
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := &Entry{Name: e.Name, Unknown: e.Unknown, U16A: e.U16A, U16B: e.U16B}
	c.Fields = make([]Value, len(e.Fields))
	for i, f := range e.Fields {
		c.Fields[i] = f.Clone()
	}
	return c
}
