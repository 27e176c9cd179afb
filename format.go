// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

// PAR format constants
const (
	// Magic signature "PAR\x00" in little-endian
	parMagic = 0x00524150

	// The only supported container version (Two Worlds 1).
	parVersion = 0x00000600

	// Header padding word. Observed as zero in every known file; a
	// different value is preserved for round-tripping but never acted on.
	parPadding = 0

	// CMF byte that opens a raw zlib stream.
	zlibHeaderByte = 0x78

	// Fixed header size: magic, version, list count, padding.
	headerSize = 16
)

// Type identifies the wire type of a field value. The tag is assigned
// from the entry's type-ID list at decode time and never changes for
// the lifetime of the value.
type Type uint8

const (
	TypeInt32 Type = iota
	TypeFloat32
	TypeUint32
	TypeString
	TypeInt32Array
	TypeFloat32Array
	TypeUint32Array
	TypeStringArray

	typeCount
)

var typeNames = [typeCount]string{
	TypeInt32:        "int32",
	TypeFloat32:      "float32",
	TypeUint32:       "uint32",
	TypeString:       "string",
	TypeInt32Array:   "int32[]",
	TypeFloat32Array: "float32[]",
	TypeUint32Array:  "uint32[]",
	TypeStringArray:  "string[]",
}

// Valid reports whether t is one of the eight defined wire types.
func (t Type) Valid() bool {
	return t < typeCount
}

// IsArray reports whether t is one of the counted-sequence types (4-7).
func (t Type) IsArray() bool {
	return t >= TypeInt32Array && t <= TypeStringArray
}

// Elem returns the scalar element type of an array type.
// For scalar types it returns the type itself.
func (t Type) Elem() Type {
	if t.IsArray() {
		return t - TypeInt32Array
	}
	return t
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return "unknown"
}

// TypeFromName maps a display name like "float32[]" back to its tag.
// It is the inverse of [Type.String] and is used by the JSON import path.
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return Type(t), true
		}
	}
	return 0, false
}
