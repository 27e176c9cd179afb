// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import "sort"

// DiffKind classifies one entry-level comparison result.
type DiffKind uint8

const (
	// DiffChanged: the entry exists on both sides with matching field
	// counts and at least one field value differs.
	DiffChanged DiffKind = iota

	// DiffAddedInInput: the entry exists only in the input document.
	DiffAddedInInput

	// DiffOnlyInSource: the entry exists only in the source document;
	// there is nothing to merge.
	DiffOnlyInSource

	// DiffStructureConflict: the entry exists on both sides with
	// different field counts. Field-by-field comparison across
	// mismatched schemas is meaningless, so the difference is reported
	// whole-entry.
	DiffStructureConflict
)

var diffKindNames = [...]string{
	DiffChanged:           "changed",
	DiffAddedInInput:      "added-in-input",
	DiffOnlyInSource:      "only-in-source",
	DiffStructureConflict: "structure-conflict",
}

func (k DiffKind) String() string {
	if int(k) < len(diffKindNames) {
		return diffKindNames[k]
	}
	return "unknown"
}

// FieldChange records one differing field index with the value on each
// side. Original carries the three-way baseline when a baseline
// document was supplied and holds this entry, nil otherwise.
type FieldChange struct {
	Index    int
	Source   Value
	Input    Value
	Original *Value
}

// EntryDiff is one entry-level difference between two documents.
//
// Diffs are self-contained: AddedInInput and StructureConflict carry a
// deep copy of the input entry (plus its owning list's opaque words),
// so Merge needs only the target document and the diffs. Source and
// Input locate the entry in the compared documents at comparison time;
// either side is {-1,-1} when absent.
type EntryDiff struct {
	// ID is the diff's identifier within one Compare result, used by
	// Merge selections. IDs are assigned in result order.
	ID int

	Name string
	Kind DiffKind

	Source EntryRef
	Input  EntryRef

	// SourceFields and InputFields are the field counts on each side,
	// -1 for an absent side. They differ only for StructureConflict.
	SourceFields int
	InputFields  int

	// Changes holds the differing fields of a DiffChanged entry,
	// ordered by field index.
	Changes []FieldChange

	// Entry is a deep copy of the input entry for DiffAddedInInput and
	// DiffStructureConflict, nil otherwise.
	Entry *Entry

	// ListUnknown1 and ListUnknown2 mirror the opaque words of the
	// input entry's owning list, used when merging has to create a new
	// list bucket.
	ListUnknown1 uint32
	ListUnknown2 uint32
}

// Compare computes the entry-level differences between source and
// input. All three documents are read-only to this call.
//
// Entries match by name alone, independent of list membership and
// position: an entry that moved between lists still matches. On a
// cross-list name collision the first occurrence in document order is
// the one compared. Entries with zero differing fields never appear in
// the result. When original is non-nil its values are attached to each
// change as the three-way baseline.
//
// The result is ordered by entry name, so compare(A,B) and
// compare(B,A) report the same entries with the sides swapped.
func Compare(source, input, original *Document) []EntryDiff {
	srcIdx := source.nameIndex()
	inpIdx := input.nameIndex()

	var origIdx map[string]EntryRef
	if original != nil {
		origIdx = original.nameIndex()
	}

	names := make([]string, 0, len(srcIdx)+len(inpIdx))
	for name := range srcIdx {
		names = append(names, name)
	}
	for name := range inpIdx {
		if _, ok := srcIdx[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var diffs []EntryDiff
	for _, name := range names {
		sRef, inSrc := srcIdx[name]
		iRef, inInp := inpIdx[name]

		switch {
		case inInp && !inSrc:
			e := input.Entry(iRef)
			l := input.Lists[iRef.List]
			diffs = append(diffs, EntryDiff{
				Name:         name,
				Kind:         DiffAddedInInput,
				Source:       noRef,
				Input:        iRef,
				SourceFields: -1,
				InputFields:  e.FieldCount(),
				Entry:        e.Clone(),
				ListUnknown1: l.Unknown1,
				ListUnknown2: l.Unknown2,
			})

		case inSrc && !inInp:
			e := source.Entry(sRef)
			diffs = append(diffs, EntryDiff{
				Name:         name,
				Kind:         DiffOnlyInSource,
				Source:       sRef,
				Input:        noRef,
				SourceFields: e.FieldCount(),
				InputFields:  -1,
			})

		default:
			se := source.Entry(sRef)
			ie := input.Entry(iRef)

			if se.FieldCount() != ie.FieldCount() {
				l := input.Lists[iRef.List]
				diffs = append(diffs, EntryDiff{
					Name:         name,
					Kind:         DiffStructureConflict,
					Source:       sRef,
					Input:        iRef,
					SourceFields: se.FieldCount(),
					InputFields:  ie.FieldCount(),
					Entry:        ie.Clone(),
					ListUnknown1: l.Unknown1,
					ListUnknown2: l.Unknown2,
				})
				continue
			}

			// Identical entries are the overwhelmingly common case;
			// one digest each avoids the field walk for them.
			if se.Fingerprint() == ie.Fingerprint() {
				continue
			}

			var oe *Entry
			if origIdx != nil {
				if oRef, ok := origIdx[name]; ok {
					oe = original.Entry(oRef)
				}
			}

			changes := compareFields(se, ie, oe)
			if len(changes) == 0 {
				continue
			}
			diffs = append(diffs, EntryDiff{
				Name:         name,
				Kind:         DiffChanged,
				Source:       sRef,
				Input:        iRef,
				SourceFields: se.FieldCount(),
				InputFields:  ie.FieldCount(),
				Changes:      changes,
			})
		}
	}

	for i := range diffs {
		diffs[i].ID = i
	}
	return diffs
}

func compareFields(se, ie, oe *Entry) []FieldChange {
	var changes []FieldChange
	for i := range se.Fields {
		if se.Fields[i].Equal(ie.Fields[i]) {
			continue
		}
		c := FieldChange{
			Index:  i,
			Source: se.Fields[i].Clone(),
			Input:  ie.Fields[i].Clone(),
		}
		if oe != nil && i < oe.FieldCount() {
			base := oe.Fields[i].Clone()
			c.Original = &base
		}
		changes = append(changes, c)
	}
	return changes
}
