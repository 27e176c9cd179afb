// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"github.com/google/go-cmp/cmp"
)

// cmpValues lets go-cmp look inside Value's unexported storage.
var cmpValues = cmp.AllowUnexported(Value{})

func makeEntry(name string, fields ...Value) *Entry {
	return &Entry{
		Name:    name,
		Unknown: 1,
		U16A:    0xBEEF,
		U16B:    0xCAFE,
		Fields:  fields,
	}
}

func makeList(entries ...*Entry) *List {
	return &List{Unknown1: 0x11, Unknown2: 0x22, Entries: entries}
}

func makeDoc(lists ...*List) *Document {
	d := NewDocument()
	d.Lists = lists
	return d
}

// unitEntry builds the 3-field unit shape used by the diff and merge
// tests: classID, mesh path, hit points.
func unitEntry(name string, classID int32, mesh string, hp int32) *Entry {
	return makeEntry(name,
		Int32Value(classID),
		StringValue(mesh),
		Int32Value(hp),
	)
}
