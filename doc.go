// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

/*
Package par reads, writes, edits and merges Two Worlds 1 .par parameter
containers.

A .par file holds every gameplay object definition the engine knows
about -- units, weapons, spells, meshes, sounds -- as lists of named
entries with schema-less typed fields. The format is proprietary and
undocumented; this package implements the layout recovered by the
modding community, with a byte-identical round-trip guarantee: decoding
a valid file and re-encoding it reproduces the input bit for bit.

# Reading and writing

On disk a .par file is usually two concatenated zlib streams (a small
configuration blob, then the payload), sometimes one stream, sometimes
bare. Unwrap normalizes all three shapes and remembers which one it
saw:

	wrapped, err := par.Unwrap(raw)
	if err != nil {
		log.Fatal(err)
	}
	doc, err := par.Decode(wrapped.Payload)
	if err != nil {
		log.Fatal(err)
	}

	// ... mutate doc ...

	payload, err := par.Encode(doc)
	if err != nil {
		log.Fatal(err)
	}
	out, err := wrapped.Rewrap(payload)

# Editing

Documents are edited structurally: Duplicate, Rename, Delete and
AddBlank preserve the per-entry type-list invariants, and a field's
declared type can never change once decoded. Each operation is
all-or-nothing and leaves the document untouched on error.

# Comparing and merging

Compare matches entries across two documents by name alone, so an
entry that moved between lists still lines up. Merge applies a chosen
subset of the resulting diffs onto a target document, down to single
field granularity.

All operations are synchronous and deterministic. A Document has one
logical owner at a time; callers needing concurrency serialize access
themselves.

The meaning of field values (damage, HP, mesh paths) is outside this
package. Human-readable field names live in external label tables, see
LabelTable.
*/
package par
