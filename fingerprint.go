// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import "github.com/zeebo/blake3"

// Fingerprint digests the entry's schema and field values in canonical
// wire order. Two entries with equal fingerprints carry identical
// type-ID sequences and identical field bytes; the name and the opaque
// header values are deliberately excluded so a renamed but otherwise
// untouched entry keeps its fingerprint.
//
// Compare uses fingerprints to skip the field-by-field walk for
// unchanged entries, and the CLI surfaces them for quick eyeballing.
func (e *Entry) Fingerprint() [32]byte {
	w := &byteWriter{}
	for _, f := range e.Fields {
		w.u8(uint8(f.Type()))
	}
	for _, f := range e.Fields {
		writeValue(w, f)
	}
	return blake3.Sum256(w.buf.Bytes())
}
