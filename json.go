// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// JSON projection: a lossless, order-preserving text rendering of the
// decoded model. This is a surface format for humans and external
// tools, not a storage format; the binary codec remains the source of
// truth for fidelity.

// FieldJSON is one field of the projection. Label is populated from a
// label table when one is supplied and known, omitted otherwise.
type FieldJSON struct {
	Index int    `json:"index"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// EntryJSON is the projection of one entry.
type EntryJSON struct {
	Name   string      `json:"name"`
	Fields []FieldJSON `json:"fields"`
}

type entryFullJSON struct {
	Name    string      `json:"name"`
	Unknown int8        `json:"_unknown_byte"`
	U16A    uint16      `json:"_unknown_u16a"`
	U16B    uint16      `json:"_unknown_u16b"`
	Fields  []FieldJSON `json:"fields"`
}

type listJSON struct {
	Index      int             `json:"_index"`
	Unknown1   uint32          `json:"_unknown1"`
	Unknown2   uint32          `json:"_unknown2"`
	EntryCount int             `json:"_entry_count"`
	Entries    []entryFullJSON `json:"entries"`
}

type documentJSON struct {
	Format   string     `json:"_format"`
	Version  uint32     `json:"_version"`
	Padding  uint32     `json:"_padding,omitempty"`
	Lists    []listJSON `json:"lists"`
	Trailing string     `json:"_trailing_data,omitempty"`
}

const jsonFormatTag = "TW1_PAR"

// MarshalEntry renders one entry as {name, fields:[{index, label?,
// type, value}]}. labels may be nil.
func MarshalEntry(e *Entry, labels *LabelTable) ([]byte, error) {
	out := EntryJSON{
		Name:   e.Name,
		Fields: fieldsJSON(e, labels),
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalEntryInto overwrites e in place from a projection produced
// by MarshalEntry. The document's field types are part of the entry's
// identity, so the projection must carry exactly the target's type-ID
// sequence: a missing or extra field fails with ErrStructureConflict
// and a differing type tag with ErrTypeMismatch. On any error e is
// left unmodified.
func UnmarshalEntryInto(data []byte, e *Entry) error {
	var in struct {
		Name   string `json:"name"`
		Fields []struct {
			Index int             `json:"index"`
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse entry JSON: %w", err)
	}

	if len(in.Fields) != e.FieldCount() {
		return fmt.Errorf("%w: JSON has %d fields, entry %q has %d",
			ErrStructureConflict, len(in.Fields), e.Name, e.FieldCount())
	}

	fields := make([]Value, e.FieldCount())
	seen := make([]bool, e.FieldCount())
	for _, f := range in.Fields {
		if f.Index < 0 || f.Index >= e.FieldCount() || seen[f.Index] {
			return fmt.Errorf("%w: bad or repeated field index %d", ErrStructureConflict, f.Index)
		}
		seen[f.Index] = true

		t, ok := TypeFromName(f.Type)
		if !ok {
			return fmt.Errorf("%w: unknown type tag %q at index %d", ErrTypeMismatch, f.Type, f.Index)
		}
		if want := e.Fields[f.Index].Type(); t != want {
			return fmt.Errorf("%w: field %d is %s, JSON says %s", ErrTypeMismatch, f.Index, want, t)
		}

		v, err := valueFromJSON(t, f.Value)
		if err != nil {
			return fmt.Errorf("field %d: %w", f.Index, err)
		}
		fields[f.Index] = v
	}

	e.Name = in.Name
	e.Fields = fields
	return nil
}

// MarshalDocument renders the whole document, including the opaque
// header words, unknown per-entry values and any trailing bytes, so
// that UnmarshalDocument reconstructs an equivalent document. labels
// may be nil.
func MarshalDocument(d *Document, labels *LabelTable) ([]byte, error) {
	out := documentJSON{
		Format:  jsonFormatTag,
		Version: d.Version,
		Padding: d.Padding,
		Lists:   make([]listJSON, len(d.Lists)),
	}
	if d.Trailing != nil {
		out.Trailing = base64.StdEncoding.EncodeToString(d.Trailing)
	}

	for li, l := range d.Lists {
		lj := listJSON{
			Index:      li,
			Unknown1:   l.Unknown1,
			Unknown2:   l.Unknown2,
			EntryCount: len(l.Entries),
			Entries:    make([]entryFullJSON, len(l.Entries)),
		}
		for ei, e := range l.Entries {
			lj.Entries[ei] = entryFullJSON{
				Name:    e.Name,
				Unknown: e.Unknown,
				U16A:    e.U16A,
				U16B:    e.U16B,
				Fields:  fieldsJSON(e, labels),
			}
		}
		out.Lists[li] = lj
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalDocument reconstructs a document from MarshalDocument
// output. Field types come from the per-field type tags.
func UnmarshalDocument(data []byte) (*Document, error) {
	var in struct {
		Format   string `json:"_format"`
		Version  uint32 `json:"_version"`
		Padding  uint32 `json:"_padding"`
		Trailing string `json:"_trailing_data"`
		Lists    []struct {
			Unknown1 uint32 `json:"_unknown1"`
			Unknown2 uint32 `json:"_unknown2"`
			Entries  []struct {
				Name    string `json:"name"`
				Unknown int8   `json:"_unknown_byte"`
				U16A    uint16 `json:"_unknown_u16a"`
				U16B    uint16 `json:"_unknown_u16b"`
				Fields  []struct {
					Type  string          `json:"type"`
					Value json.RawMessage `json:"value"`
				} `json:"fields"`
			} `json:"entries"`
		} `json:"lists"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse document JSON: %w", err)
	}
	if in.Format != jsonFormatTag {
		return nil, fmt.Errorf("%w: JSON format tag %q", ErrFormat, in.Format)
	}

	d := &Document{Version: in.Version, Padding: in.Padding}
	if in.Version == 0 {
		d.Version = parVersion
	}
	if in.Trailing != "" {
		t, err := base64.StdEncoding.DecodeString(in.Trailing)
		if err != nil {
			return nil, fmt.Errorf("decode trailing data: %w", err)
		}
		d.Trailing = t
	}

	for li, lj := range in.Lists {
		l := &List{Unknown1: lj.Unknown1, Unknown2: lj.Unknown2}
		for ei, ej := range lj.Entries {
			e := &Entry{
				Name:    ej.Name,
				Unknown: ej.Unknown,
				U16A:    ej.U16A,
				U16B:    ej.U16B,
				Fields:  make([]Value, len(ej.Fields)),
			}
			for fi, fj := range ej.Fields {
				t, ok := TypeFromName(fj.Type)
				if !ok {
					return nil, fmt.Errorf("%w: list %d entry %d field %d: type tag %q",
						ErrTypeMismatch, li, ei, fi, fj.Type)
				}
				v, err := valueFromJSON(t, fj.Value)
				if err != nil {
					return nil, fmt.Errorf("list %d entry %q field %d: %w", li, ej.Name, fi, err)
				}
				e.Fields[fi] = v
			}
			l.Entries = append(l.Entries, e)
		}
		d.Lists = append(d.Lists, l)
	}
	return d, nil
}

func fieldsJSON(e *Entry, labels *LabelTable) []FieldJSON {
	count := e.FieldCount()
	out := make([]FieldJSON, count)
	for i, f := range e.Fields {
		fj := FieldJSON{
			Index: i,
			Type:  f.Type().String(),
			Value: valueToJSON(f),
		}
		if labels != nil {
			if l, ok := labels.Get(count, i); ok {
				fj.Label = l.Name
			}
		}
		out[i] = fj
	}
	return out
}

func valueToJSON(v Value) any {
	switch v.Type() {
	case TypeInt32:
		return v.Int32()
	case TypeFloat32:
		return v.Float32()
	case TypeUint32:
		return v.Uint32()
	case TypeString:
		return v.Text()
	case TypeInt32Array:
		return v.Int32Array()
	case TypeFloat32Array:
		return v.Float32Array()
	case TypeUint32Array:
		return v.Uint32Array()
	default:
		return v.StringArray()
	}
}

func valueFromJSON(t Type, raw json.RawMessage) (Value, error) {
	switch t {
	case TypeInt32:
		var v int32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Int32Value(v), nil
	case TypeFloat32:
		var v float32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Float32Value(v), nil
	case TypeUint32:
		var v uint32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Uint32Value(v), nil
	case TypeString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return StringValue(v), nil
	case TypeInt32Array:
		var v []int32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Int32ArrayValue(v), nil
	case TypeFloat32Array:
		var v []float32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Float32ArrayValue(v), nil
	case TypeUint32Array:
		var v []uint32
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return Uint32ArrayValue(v), nil
	default:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Value{}, err
		}
		return StringArrayValue(v), nil
	}
}
