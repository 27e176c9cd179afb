// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarshalEntryLabels(t *testing.T) {
	labels := NewLabelTable()
	labels.Set(3, 1, Label{Name: "mesh"})

	e := unitEntry("orc_01", 66066, "X.vdf", 80)
	data, err := MarshalEntry(e, labels)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"label": "mesh"`) {
		t.Errorf("labeled field missing its label:\n%s", s)
	}
	// Unlabeled slots omit the key entirely.
	if strings.Count(s, `"label"`) != 1 {
		t.Errorf("unlabeled fields emitted label keys:\n%s", s)
	}

	// nil table is fine.
	if _, err := MarshalEntry(e, nil); err != nil {
		t.Fatalf("marshal without labels: %v", err)
	}
}

func TestEntryJSONRoundTrip(t *testing.T) {
	e := makeEntry("sword_01",
		Int32Value(-5),
		Float32Value(1.5),
		Uint32Value(0xFFFFFFFF),
		StringValue("models\\sword.vdf"),
		Int32ArrayValue([]int32{1, -2}),
		Float32ArrayValue([]float32{0.5}),
		Uint32ArrayValue(nil),
		StringArrayValue([]string{"a", "bc"}),
	)

	data, err := MarshalEntry(e, nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	target := e.Clone()
	// Scramble the values; the import must restore them all.
	target.Fields[0] = Int32Value(0)
	target.Fields[3] = StringValue("x")
	if err := UnmarshalEntryInto(data, target); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(e, target, cmpValues); diff != "" {
		t.Errorf("entry after round trip (-want +got):\n%s", diff)
	}
}

func TestUnmarshalEntryRejectsShapeDrift(t *testing.T) {
	e := unitEntry("orc_01", 1, "a.vdf", 10)
	data, err := MarshalEntry(e, nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Field count drifted.
	short := makeEntry("orc_01", Int32Value(1))
	if err := UnmarshalEntryInto(data, short); !errors.Is(err, ErrStructureConflict) {
		t.Errorf("count mismatch: err = %v, want ErrStructureConflict", err)
	}

	// Type drifted: field 1 is now an int32, JSON says string.
	drifted := makeEntry("orc_01", Int32Value(1), Int32Value(2), Int32Value(10))
	before := drifted.Clone()
	if err := UnmarshalEntryInto(data, drifted); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("type mismatch: err = %v, want ErrTypeMismatch", err)
	}
	// The failed import must not have applied the fields that did match.
	if diff := cmp.Diff(before, drifted, cmpValues); diff != "" {
		t.Errorf("failed import modified the entry (-before +after):\n%s", diff)
	}
}

func TestUnmarshalEntryRepeatedIndex(t *testing.T) {
	e := makeEntry("x_1", Int32Value(1), Int32Value(2))
	bad := `{"name":"x_1","fields":[
	  {"index":0,"type":"int32","value":9},
	  {"index":0,"type":"int32","value":8}]}`
	if err := UnmarshalEntryInto([]byte(bad), e); !errors.Is(err, ErrStructureConflict) {
		t.Fatalf("err = %v, want ErrStructureConflict", err)
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	d := makeDoc(
		makeList(
			makeEntry("sword_01",
				Int32Value(7),
				StringValue("models\\sword.vdf"),
				Float32ArrayValue([]float32{0.25, -1}),
			),
			makeEntry("axe_02", Int32Value(9), StringValue("models\\axe.vdf"), Float32ArrayValue(nil)),
		),
		makeList(makeEntry("snd_01", Uint32Value(3))),
	)
	d.Padding = 0x1234
	d.Trailing = []byte{0xDE, 0xAD}
	d.Lists[1].Unknown1 = 0x99

	data, err := MarshalDocument(d, nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(d, got, cmpValues); diff != "" {
		t.Errorf("document after round trip (-want +got):\n%s", diff)
	}
}

func TestUnmarshalDocumentBadFormatTag(t *testing.T) {
	if _, err := UnmarshalDocument([]byte(`{"_format":"NOT_PAR","lists":[]}`)); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestUnmarshalDocumentDefaultVersion(t *testing.T) {
	d, err := UnmarshalDocument([]byte(`{"_format":"TW1_PAR","lists":[]}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Version != parVersion {
		t.Errorf("version = 0x%X, want 0x%X", d.Version, parVersion)
	}
}
