// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/jsonc"
)

// Label is the human-facing name and description of one field slot.
type Label struct {
	Name        string
	Description string
}

// LabelTable maps (field-count category, field index) to a label.
//
// The format itself records no field semantics; entries sharing a
// field count share one layout, and the labels for that layout come
// from external files (extracted from the game SDK's spreadsheet).
// The table is passed explicitly to the consumers that want it -- it
// is never required for decode or encode correctness, only for
// human-facing output.
type LabelTable struct {
	byCount map[int]map[int]Label
}

// NewLabelTable returns an empty table.
func NewLabelTable() *LabelTable {
	return &LabelTable{byCount: make(map[int]map[int]Label)}
}

// DefaultLabels returns a table seeded with the handful of well-known
// slots (sound cues and the NPC stat block). Loaded files layer on
// top: SDK tables first, user overrides last.
func DefaultLabels() *LabelTable {
	t := NewLabelTable()
	for count, names := range map[int]map[int]string{
		6: {
			0: "soundCue", 1: "volume", 2: "distanceMinA",
			3: "distanceMaxA", 4: "soundFlags", 5: "playPriority",
		},
		65: {
			0: "classID", 1: "mesh",
			15: "moveWalkSpeed", 16: "moveRunSpeed",
			34: "initParamHP", 35: "initParamDamage",
			36: "initParamAttack", 37: "initParamDefence",
		},
	} {
		for idx, name := range names {
			t.Set(count, idx, Label{Name: name})
		}
	}
	return t
}

// Get returns the label for a field slot, if one is known.
func (t *LabelTable) Get(fieldCount, index int) (Label, bool) {
	l, ok := t.byCount[fieldCount][index]
	return l, ok
}

// Set records a label, replacing any previous one for the slot.
func (t *LabelTable) Set(fieldCount, index int, l Label) {
	slots, ok := t.byCount[fieldCount]
	if !ok {
		slots = make(map[int]Label)
		t.byCount[fieldCount] = slots
	}
	slots[index] = l
}

// LoadNames merges a name table into t, overriding existing names but
// keeping descriptions. The file maps field-count category to field
// index to display name, with both keys as decimal strings:
//
//	{
//	  // NPC stat block
//	  "65": {"0": "classID", "1": "mesh"}
//	}
//
// Comments and trailing commas are tolerated; the tables are meant to
// be hand-edited.
func (t *LabelTable) LoadNames(data []byte) error {
	return t.load(data, func(l *Label, s string) { l.Name = s })
}

// LoadDescriptions merges a description table, same file shape as
// LoadNames.
func (t *LabelTable) LoadDescriptions(data []byte) error {
	return t.load(data, func(l *Label, s string) { l.Description = s })
}

func (t *LabelTable) load(data []byte, assign func(*Label, string)) error {
	var raw map[string]map[string]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return fmt.Errorf("parse label table: %w", err)
	}
	for countKey, slots := range raw {
		count, err := strconv.Atoi(countKey)
		if err != nil {
			return fmt.Errorf("label table: field-count key %q is not a number", countKey)
		}
		for idxKey, text := range slots {
			idx, err := strconv.Atoi(idxKey)
			if err != nil {
				return fmt.Errorf("label table: field-index key %q is not a number", idxKey)
			}
			l, _ := t.Get(count, idx)
			assign(&l, text)
			t.Set(count, idx, l)
		}
	}
	return nil
}
