// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package tilemap

import "github.com/lordmir/lscompress/internal/errors"

// Tile is one 16-bit tilemap entry:
//
//	PCCVHIII IIIIIIII
//
// where P is the priority bit, CC the palette line, V and H the flips, and
// the low 11 bits the tile index. Index 0x7FF is reserved as the stream
// terminator sentinel and never names a real tile.
type Tile uint16

const (
	// MaxIndex is the largest usable tile index.
	MaxIndex = 0x7FE

	// Sentinel is the reserved index terminating 2D RLE streams.
	Sentinel = 0x7FF

	attrMask  = 0xF800
	indexMask = 0x07FF

	priorityBit = 0x8000
	vflipBit    = 0x1000
	hflipBit    = 0x0800
	palShift    = 13
)

// NewTile assembles a tile word, validating that the palette line is within
// [0,3] and the index does not collide with the terminator sentinel.
func NewTile(index uint16, hflip, vflip, priority bool, pal uint8) (Tile, error) {
	if pal > 3 {
		return 0, errors.Newf(errors.InvalidConfig, "tilemap", "bad palette ID %d", pal)
	}
	if index > MaxIndex {
		return 0, errors.Newf(errors.InvalidConfig, "tilemap", "bad tile index %#03x", index)
	}
	t := Tile(index) | Tile(pal)<<palShift
	if hflip {
		t |= hflipBit
	}
	if vflip {
		t |= vflipBit
	}
	if priority {
		t |= priorityBit
	}
	return t, nil
}

// Index returns the low 11 bits.
func (t Tile) Index() uint16 { return uint16(t) & indexMask }

// SetIndex replaces the low 11 bits, preserving the attribute bits.
func (t *Tile) SetIndex(index uint16) {
	*t = *t&attrMask | Tile(index&indexMask)
}

// Attrs returns only the attribute bits (the top five).
func (t Tile) Attrs() uint16 { return uint16(t) & attrMask }

// Palette returns the palette line, 0..3.
func (t Tile) Palette() uint8 { return uint8(t>>palShift) & 3 }

// HFlip reports the horizontal flip bit.
func (t Tile) HFlip() bool { return t&hflipBit != 0 }

// VFlip reports the vertical flip bit.
func (t Tile) VFlip() bool { return t&vflipBit != 0 }

// Priority reports the priority bit.
func (t Tile) Priority() bool { return t&priorityBit != 0 }
