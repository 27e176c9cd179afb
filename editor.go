// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"fmt"
	"strings"
)

// Structural entry operations. Each call either completes fully or
// leaves the document untouched; there is no partial application.

// NextName derives a copy name by incrementing the trailing run of
// decimal digits, preserving its width and leading zeros:
// "arrow_07" -> "arrow_08", "wolf2" -> "wolf3". A name without
// trailing digits fails with ErrNameGeneration; the caller supplies an
// explicit name instead of the editor guessing one.
func NextName(name string) (string, error) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return "", fmt.Errorf("%w: %q has no trailing digits", ErrNameGeneration, name)
	}

	digits := name[i:]
	carry := true
	out := []byte(digits)
	for j := len(out) - 1; j >= 0 && carry; j-- {
		if out[j] == '9' {
			out[j] = '0'
		} else {
			out[j]++
			carry = false
		}
	}
	if carry {
		// 999 -> 1000: the run grows by one digit.
		out = append([]byte{'1'}, out...)
	}
	return name[:i] + string(out), nil
}

// Duplicate deep-copies the entry at ref and inserts the copy directly
// after it. newName names the copy; when empty, the name is derived
// with NextName. The copy's string fields (and string-array elements)
// that embed the source entry's name are rewritten to the new name,
// since mesh and sound paths conventionally carry the entry's own
// name. Fails with ErrDuplicateName when the target name exists
// anywhere in the document.
func (d *Document) Duplicate(ref EntryRef, newName string) (EntryRef, error) {
	src := d.Entry(ref)
	if src == nil {
		return noRef, fmt.Errorf("duplicate: no entry at list %d index %d", ref.List, ref.Index)
	}

	if newName == "" {
		var err error
		if newName, err = NextName(src.Name); err != nil {
			return noRef, err
		}
	}
	if d.hasName(newName) {
		return noRef, fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	dup := src.Clone()
	dup.Name = newName
	rewriteNameRefs(dup, src.Name, newName)

	l := d.Lists[ref.List]
	l.Entries = append(l.Entries, nil)
	copy(l.Entries[ref.Index+2:], l.Entries[ref.Index+1:])
	l.Entries[ref.Index+1] = dup

	return EntryRef{List: ref.List, Index: ref.Index + 1}, nil
}

// Rename sets the entry's name and rewrites its own string fields that
// embed the old name. The rewrite is a plain substring replacement, a
// best-effort convenience for self-referencing paths; it never touches
// other entries and never fuzzy-matches.
func (d *Document) Rename(ref EntryRef, newName string) error {
	e := d.Entry(ref)
	if e == nil {
		return fmt.Errorf("rename: no entry at list %d index %d", ref.List, ref.Index)
	}
	oldName := e.Name
	e.Name = newName
	rewriteNameRefs(e, oldName, newName)
	return nil
}

// Delete removes the entry at ref from its owning list. Reference
// fields of other entries are left alone; resolving them is outside
// this package.
func (d *Document) Delete(ref EntryRef) error {
	if d.Entry(ref) == nil {
		return fmt.Errorf("delete: no entry at list %d index %d", ref.List, ref.Index)
	}
	l := d.Lists[ref.List]
	l.Entries = append(l.Entries[:ref.Index], l.Entries[ref.Index+1:]...)
	return nil
}

// AddBlank appends a new entry to the list, copying the type-ID
// sequence and opaque values of the list's first entry and zeroing
// every field per its type. The format carries no schema of its own,
// so an empty list gives nothing to infer from: ErrEmptyList.
func (l *List) AddBlank(name string) (*Entry, error) {
	if len(l.Entries) == 0 {
		return nil, ErrEmptyList
	}
	tmpl := l.Entries[0]

	e := &Entry{
		Name:    name,
		Unknown: tmpl.Unknown,
		U16A:    tmpl.U16A,
		U16B:    tmpl.U16B,
		Fields:  make([]Value, len(tmpl.Fields)),
	}
	for i, f := range tmpl.Fields {
		e.Fields[i] = zeroValue(f.Type())
	}
	l.Entries = append(l.Entries, e)
	return e, nil
}

// rewriteNameRefs replaces the first occurrence of oldName in each of
// the entry's string fields and string-array elements with newName.
// Matching is case-insensitive (engine paths mix cases freely) but the
// replacement preserves all surrounding bytes.
func rewriteNameRefs(e *Entry, oldName, newName string) {
	if oldName == "" || oldName == newName {
		return
	}
	for i, f := range e.Fields {
		switch f.Type() {
		case TypeString:
			if s, ok := replaceName(f.str, oldName, newName); ok {
				e.Fields[i] = StringValue(s)
			}
		case TypeStringArray:
			changed := false
			strs := f.StringArray()
			for j, s := range strs {
				if r, ok := replaceName(s, oldName, newName); ok {
					strs[j] = r
					changed = true
				}
			}
			if changed {
				e.Fields[i] = StringArrayValue(strs)
			}
		}
	}
}

func replaceName(s, oldName, newName string) (string, bool) {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(oldName))
	if idx < 0 {
		return s, false
	}
	return s[:idx] + newName + s[idx+len(oldName):], true
}
