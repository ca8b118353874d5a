// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package tilemap implements the game's 2D tilemap formats.
//
// A 2D tilemap is a row-major grid of 16-bit tile words. Three on-disk forms
// exist, matching the original tooling:
//
//   - Raw: big-endian words with externally supplied dimensions.
//   - RLE: a self-describing dual-pass run-length form. The first pass codes
//     runs of the five attribute bits; the second codes tile indices with
//     four command classes (literal, fill, fill-last, increment).
//   - LZ77: the raw form passed through the byte-level LZSS codec
//     (package lz77), dimensions again supplied by the caller.
package tilemap

import (
	"github.com/lordmir/lscompress/internal/errors"
	"github.com/lordmir/lscompress/lz77"
)

// Tilemap2D is a width x height grid of tiles in row-major order.
type Tilemap2D struct {
	Width  int
	Height int
	Tiles  []Tile
}

// New constructs an empty tilemap of the given dimensions. Dimensions must
// fit in a byte for the RLE form to be expressible.
func New(width, height int) (*Tilemap2D, error) {
	if width < 1 || width > 0xFF || height < 1 || height > 0xFF {
		return nil, errors.Newf(errors.InvalidConfig, "tilemap", "dimensions %dx%d do not fit in a byte", width, height)
	}
	return &Tilemap2D{Width: width, Height: height, Tiles: make([]Tile, width*height)}, nil
}

// At returns the tile at (x, y).
func (m *Tilemap2D) At(x, y int) Tile { return m.Tiles[y*m.Width+x] }

// Set replaces the tile at (x, y).
func (m *Tilemap2D) Set(x, y int, t Tile) { m.Tiles[y*m.Width+x] = t }

// check validates the invariants needed to encode the map.
func (m *Tilemap2D) check() error {
	if m.Width < 1 || m.Width > 0xFF || m.Height < 1 || m.Height > 0xFF {
		return errors.Newf(errors.InvalidConfig, "tilemap", "dimensions %dx%d do not fit in a byte", m.Width, m.Height)
	}
	if len(m.Tiles) != m.Width*m.Height {
		return errors.Newf(errors.InvalidConfig, "tilemap", "tile count %d does not match %dx%d", len(m.Tiles), m.Width, m.Height)
	}
	for _, t := range m.Tiles {
		if t.Index() == Sentinel {
			return errors.New(errors.InvalidConfig, "tilemap", "tile index collides with the terminator sentinel")
		}
	}
	return nil
}

// DecodeRaw reads width*height big-endian words.
func DecodeRaw(b []byte, width, height int) (*Tilemap2D, error) {
	m, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(b) < 2*len(m.Tiles) {
		return nil, errors.New(errors.Truncated, "tilemap", "not enough bytes for raw tilemap")
	}
	for i := range m.Tiles {
		m.Tiles[i] = Tile(b[2*i])<<8 | Tile(b[2*i+1])
	}
	return m, nil
}

// EncodeRaw writes the tilemap as big-endian words.
func (m *Tilemap2D) EncodeRaw() ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2*len(m.Tiles))
	for _, t := range m.Tiles {
		out = append(out, byte(t>>8), byte(t))
	}
	return out, nil
}

// DecompressLZ77 expands an LZ77-compressed raw tilemap.
func DecompressLZ77(b []byte, width, height int) (*Tilemap2D, error) {
	raw := make([]byte, 2*width*height)
	n, err := lz77.Decode(raw, b)
	if err != nil {
		return nil, err
	}
	if n != len(raw) {
		return nil, errors.Newf(errors.Corrupted, "tilemap", "lz77 payload is %d bytes, want %d", n, len(raw))
	}
	return DecodeRaw(raw, width, height)
}

// CompressLZ77 encodes the raw form through the LZ77 codec.
func (m *Tilemap2D) CompressLZ77() ([]byte, error) {
	raw, err := m.EncodeRaw()
	if err != nil {
		return nil, err
	}
	return lz77.Encode(raw), nil
}
