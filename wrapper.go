// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

package par

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Wrapped is the result of splitting a .par file read from disk.
//
// On-disk files come in three shapes: a bare PAR payload, a single
// zlib stream containing the payload, or two concatenated zlib streams
// where stream 1 is a small configuration/GUID blob and stream 2 is
// the payload. The wrapper's presence is a property of the load and is
// carried here so a save can reproduce the same shape.
type Wrapped struct {
	// Payload is the decompressed PAR payload.
	Payload []byte

	// Header is stream 1's decoded content, nil when the file had no
	// wrapper stream. It is opaque to this package; it is kept only so
	// Rewrap can emit it again.
	Header []byte

	// Compressed records whether the input was zlib-wrapped at all.
	Compressed bool
}

// Unwrap splits raw file bytes into the decompressed PAR payload.
//
// Input starting with the PAR magic is returned as-is. Input starting
// with a zlib header is decompressed; the bytes left over after the
// first stream are decompressed again as an independent second stream.
// Everything else, and any stream whose payload does not begin with
// the PAR magic, fails with ErrWrapper.
func Unwrap(raw []byte) (*Wrapped, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrWrapper, len(raw))
	}
	if isParPayload(raw) {
		return &Wrapped{Payload: raw}, nil
	}
	if raw[0] != zlibHeaderByte {
		return nil, fmt.Errorf("%w: neither PAR payload nor zlib stream (starts 0x%02X)",
			ErrWrapper, raw[0])
	}

	first, rest, err := inflate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: stream 1: %v", ErrWrapper, err)
	}

	if len(rest) == 0 {
		// A single stream is acceptable only when it holds the payload
		// itself (no configuration blob was written).
		if isParPayload(first) {
			return &Wrapped{Payload: first, Compressed: true}, nil
		}
		return nil, fmt.Errorf("%w: single stream without PAR payload", ErrWrapper)
	}

	payload, _, err := inflate(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: stream 2: %v", ErrWrapper, err)
	}
	if !isParPayload(payload) {
		return nil, fmt.Errorf("%w: stream 2 does not contain a PAR payload", ErrWrapper)
	}

	return &Wrapped{Payload: payload, Header: first, Compressed: true}, nil
}

// Rewrap produces the on-disk bytes for a (possibly re-encoded)
// payload, reproducing the shape the original file was read in:
// verbatim when it was uncompressed, one stream when there was no
// configuration blob, two streams when there was.
func (w *Wrapped) Rewrap(payload []byte) ([]byte, error) {
	if !w.Compressed {
		return payload, nil
	}

	var buf bytes.Buffer
	if w.Header != nil {
		if err := deflate(&buf, w.Header); err != nil {
			return nil, fmt.Errorf("%w: compress stream 1: %v", ErrWrapper, err)
		}
	}
	if err := deflate(&buf, payload); err != nil {
		return nil, fmt.Errorf("%w: compress payload: %v", ErrWrapper, err)
	}
	return buf.Bytes(), nil
}

func isParPayload(b []byte) bool {
	return len(b) >= 4 &&
		b[0] == 'P' && b[1] == 'A' && b[2] == 'R' && b[3] == 0
}

// inflate decompresses one zlib stream from the front of data and
// returns the decoded bytes plus whatever input the stream did not
// consume. bytes.Reader satisfies flate's byte reader interface, so
// the decompressor stops exactly at the stream boundary and the
// leftover is well defined.
func inflate(data []byte) (decoded, rest []byte, err error) {
	br := bytes.NewReader(data)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, nil, err
	}
	decoded, err = io.ReadAll(zr)
	if err != nil {
		return nil, nil, err
	}
	if err := zr.Close(); err != nil {
		return nil, nil, err
	}
	return decoded, data[len(data)-br.Len():], nil
}

func deflate(buf *bytes.Buffer, data []byte) error {
	zw := zlib.NewWriter(buf)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}
