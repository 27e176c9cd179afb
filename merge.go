// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import "fmt"

// Selection names the diffs (by ID) a merge should apply. For a
// DiffChanged entry the value may list a subset of the changed field
// indices; an empty or nil slice selects every change of that diff.
// Other diff kinds must be selected whole (no field list).
type Selection map[int][]int

// SelectAll returns a selection covering every mergeable diff in the
// result: all changed-field diffs, all added entries and all structure
// conflicts. OnlyInSource diffs carry nothing to merge and are left
// out.
func SelectAll(diffs []EntryDiff) Selection {
	sel := make(Selection, len(diffs))
	for _, d := range diffs {
		if d.Kind == DiffOnlyInSource {
			continue
		}
		sel[d.ID] = nil
	}
	return sel
}

// Merge applies the selected diffs onto target and returns it.
//
// Added entries are deep-copied into the target list whose entries
// share the new entry's field count; when no list matches, a new list
// bucket is created with the input list's opaque words. Changed-field
// diffs overwrite only the selected field indices of the matching
// target entry; unselected fields stay untouched. Structure conflicts
// replace the target entry wholesale, since per-index alignment across
// mismatched schemas cannot be trusted. Merge never deletes entries.
//
// The call is all-or-nothing: every selected diff is validated against
// the target before the first mutation, so a failed merge leaves
// target unmodified. A selected field whose declared type disagrees
// with the incoming value fails with ErrTypeMismatch rather than
// reinterpreting bytes.
func Merge(target *Document, diffs []EntryDiff, selected Selection) (*Document, error) {
	byID := make(map[int]*EntryDiff, len(diffs))
	for i := range diffs {
		byID[diffs[i].ID] = &diffs[i]
	}
	for id := range selected {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("merge: selection references unknown diff %d", id)
		}
	}

	// Validation pass: nothing is written until every selected diff is
	// known to apply cleanly.
	for _, d := range diffs {
		fields, ok := selected[d.ID]
		if !ok {
			continue
		}
		switch d.Kind {
		case DiffOnlyInSource, DiffAddedInInput:
			// Nothing to check against the target. An added entry whose
			// name meanwhile exists in the target is skipped on apply.

		case DiffStructureConflict:
			if len(fields) > 0 {
				return nil, fmt.Errorf("%w: %q requires whole-entry replacement, not field selection",
					ErrStructureConflict, d.Name)
			}
			if _, ok := target.Find(d.Name); !ok {
				return nil, fmt.Errorf("merge: entry %q not found in target", d.Name)
			}

		case DiffChanged:
			ref, ok := target.Find(d.Name)
			if !ok {
				return nil, fmt.Errorf("merge: entry %q not found in target", d.Name)
			}
			e := target.Entry(ref)
			for _, c := range selectedChanges(&d, fields) {
				if c == nil {
					return nil, fmt.Errorf("merge: %q has no recorded change for a selected field", d.Name)
				}
				if c.Index >= e.FieldCount() {
					return nil, fmt.Errorf("%w: %q has %d fields, change targets index %d",
						ErrStructureConflict, d.Name, e.FieldCount(), c.Index)
				}
				if e.Fields[c.Index].Type() != c.Input.Type() {
					return nil, fmt.Errorf("%w: %q field %d is %s, incoming value is %s",
						ErrTypeMismatch, d.Name, c.Index,
						e.Fields[c.Index].Type(), c.Input.Type())
				}
			}
		}
	}

	// Apply pass.
	for _, d := range diffs {
		fields, ok := selected[d.ID]
		if !ok {
			continue
		}
		switch d.Kind {
		case DiffAddedInInput:
			if target.hasName(d.Name) {
				continue
			}
			placeEntry(target, d.Entry.Clone(), d.ListUnknown1, d.ListUnknown2)

		case DiffStructureConflict:
			ref, _ := target.Find(d.Name)
			e := target.Entry(ref)
			repl := d.Entry.Clone()
			e.Unknown = repl.Unknown
			e.U16A = repl.U16A
			e.U16B = repl.U16B
			e.Fields = repl.Fields

		case DiffChanged:
			ref, _ := target.Find(d.Name)
			e := target.Entry(ref)
			for _, c := range selectedChanges(&d, fields) {
				e.Fields[c.Index] = c.Input.Clone()
			}
		}
	}

	return target, nil
}

// selectedChanges resolves a field-index selection against the diff's
// recorded changes. A nil/empty selection means all of them; a field
// index with no recorded change yields a nil slot for the validator to
// reject.
func selectedChanges(d *EntryDiff, fields []int) []*FieldChange {
	if len(fields) == 0 {
		out := make([]*FieldChange, len(d.Changes))
		for i := range d.Changes {
			out[i] = &d.Changes[i]
		}
		return out
	}
	out := make([]*FieldChange, 0, len(fields))
	for _, fi := range fields {
		var found *FieldChange
		for i := range d.Changes {
			if d.Changes[i].Index == fi {
				found = &d.Changes[i]
				break
			}
		}
		out = append(out, found)
	}
	return out
}

// placeEntry appends e to the target list whose entries share e's
// field count, creating a new list bucket when none matches. List
// identity in the format is positional, so field count is the only
// structural signal available for placement.
func placeEntry(d *Document, e *Entry, unknown1, unknown2 uint32) {
	for _, l := range d.Lists {
		if len(l.Entries) > 0 && l.Entries[0].FieldCount() == e.FieldCount() {
			l.Entries = append(l.Entries, e)
			return
		}
	}
	d.Lists = append(d.Lists, &List{
		Unknown1: unknown1,
		Unknown2: unknown2,
		Entries:  []*Entry{e},
	})
}
