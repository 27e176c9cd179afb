// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import "errors"

// Sentinel errors for the failure taxonomy. Errors returned by this
// package wrap one of these, so callers classify with errors.Is and
// still get offsets and names in the message.
var (
	// ErrWrapper reports a bad or missing compressed stream around the
	// PAR payload.
	ErrWrapper = errors.New("bad compressed wrapper")

	// ErrFormat reports a magic or version mismatch. Fatal to the whole
	// decode; no partial document is returned.
	ErrFormat = errors.New("not a supported PAR file")

	// ErrTruncated reports a length-prefixed read that would run past
	// the end of the buffer.
	ErrTruncated = errors.New("unexpected end of data")

	// ErrUnknownTypeID reports a type-ID byte outside the eight defined
	// values. The format records no width for undeclared tags, so any
	// attempt to skip one would desynchronize every later offset.
	ErrUnknownTypeID = errors.New("unknown field type ID")

	// ErrDuplicateName reports that a generated or requested entry name
	// already exists somewhere in the document.
	ErrDuplicateName = errors.New("entry name already exists")

	// ErrNameGeneration reports that no new name could be derived
	// because the source name has no trailing digits to increment.
	ErrNameGeneration = errors.New("cannot derive a new entry name")

	// ErrEmptyList reports an add-blank on a list with no entries to
	// copy a schema from.
	ErrEmptyList = errors.New("list has no entries to infer a schema from")

	// ErrTypeMismatch reports an attempted write of a value whose tag
	// disagrees with the field's declared type.
	ErrTypeMismatch = errors.New("value type does not match field type")

	// ErrStructureConflict reports a diff or merge between entries with
	// different field counts, where index alignment cannot be trusted.
	ErrStructureConflict = errors.New("entry structures do not match")
)
