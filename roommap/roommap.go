// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package roommap implements the 3D room map codec.
//
// A room map couples two tile layers (foreground and background) with a
// collision heightmap. On disk the layers are a single bit stream in two
// interleaved stages over one working buffer of width*height*2 cells,
// foreground first:
//
// Stage one lays down a sparse LZ77 skeleton. Each record is a coded-number
// address step, a 3-bit (or 5-bit extended) index into a 14-slot back-offset
// dictionary, and an optional vertical descriptor that repeats the chosen
// offset down successive rows, alternating between straight-down and
// down-right stepping. Slot 0 holds the sentinel 0xFFFF, marking cells that
// will be filled by literal operands instead of copies. Slots 1..5 are
// hard-wired to 1, 2, width, 2*width and width+1; slots 6..13 are learned by
// the encoder and carried in the header as 12-bit values.
//
// Stage two sweeps the buffer. Cells holding a back-offset copy from that
// distance, extending while following cells are untouched; sentinel cells
// consume 2-bit tile operands that either read a literal of a counter-derived
// width or emit and bump one of two incrementing counters seeded from the
// 10-bit tile dictionary in the header.
//
// A byte-aligned heightmap tail follows: two dimension bytes, then
// (pattern, run) pairs where the run length accumulates 0xFF continuation
// bytes before a final remainder byte.
package roommap

import (
	"github.com/lordmir/lscompress/internal/bitio"
	"github.com/lordmir/lscompress/internal/errors"
)

// noCopy is the offset-dictionary sentinel marking a literal run.
const noCopy = 0xFFFF

// RoomTilemap is a decoded 3D room: two equally sized tile layers plus the
// heightmap grid. Width runs 1..256 and height 1..128; the stored height
// byte is pre-doubled (the encoder writes 2*height-1).
type RoomTilemap struct {
	Left   uint8
	Top    uint8
	Width  int
	Height int

	Foreground []uint16
	Background []uint16

	HMWidth   int
	HMHeight  int
	Heightmap []uint16
}

// New constructs an empty room of the given dimensions.
func New(width, height, hmWidth, hmHeight int) (*RoomTilemap, error) {
	rt := &RoomTilemap{
		Width: width, Height: height,
		HMWidth: hmWidth, HMHeight: hmHeight,
	}
	if err := rt.check(); err != nil {
		return nil, err
	}
	rt.Foreground = make([]uint16, width*height)
	rt.Background = make([]uint16, width*height)
	rt.Heightmap = make([]uint16, hmWidth*hmHeight)
	return rt, nil
}

func (rt *RoomTilemap) check() error {
	if rt.Width < 1 || rt.Width > 256 || rt.Height < 1 || rt.Height > 128 {
		return errors.Newf(errors.InvalidConfig, "roommap", "dimensions %dx%d out of range", rt.Width, rt.Height)
	}
	if rt.HMWidth < 0 || rt.HMWidth > 255 || rt.HMHeight < 0 || rt.HMHeight > 255 {
		return errors.Newf(errors.InvalidConfig, "roommap", "heightmap dimensions %dx%d out of range", rt.HMWidth, rt.HMHeight)
	}
	return nil
}

// checkContent extends check with the layer and heightmap length invariants
// needed to encode.
func (rt *RoomTilemap) checkContent() error {
	if err := rt.check(); err != nil {
		return err
	}
	cells := rt.Width * rt.Height
	if len(rt.Foreground) != cells || len(rt.Background) != cells {
		return errors.Newf(errors.InvalidConfig, "roommap", "layer lengths %d/%d do not match %dx%d",
			len(rt.Foreground), len(rt.Background), rt.Width, rt.Height)
	}
	if len(rt.Heightmap) != rt.HMWidth*rt.HMHeight {
		return errors.Newf(errors.InvalidConfig, "roommap", "heightmap length %d does not match %dx%d",
			len(rt.Heightmap), rt.HMWidth, rt.HMHeight)
	}
	for _, v := range append(append([]uint16(nil), rt.Foreground...), rt.Background...) {
		if v > 0x3FF {
			return errors.Newf(errors.InvalidConfig, "roommap", "tile value %#04x does not fit ten bits", v)
		}
	}
	return nil
}

// ilog2 returns the position of the highest set bit plus one, and zero for a
// zero input.
func ilog2(v int) uint {
	var n uint
	for v > 0 {
		v >>= 1
		n++
	}
	return n
}

// readCodedNumber reads the unary-exponent, binary-mantissa integer form:
// e leading zero bits, a one bit, then e tail bits giving 1<<e + tail. A
// lone one bit stands for zero.
func readCodedNumber(br *bitio.Reader) int {
	exp := uint(0)
	for !br.ReadBit() {
		exp++
		if exp > 17 {
			errors.Panic(errors.Corrupted, "roommap", "coded number exponent out of range")
		}
	}
	if exp == 0 {
		return 0
	}
	return 1<<exp + int(br.ReadBits(exp))
}

func writeCodedNumber(bw *bitio.Writer, v int) {
	exp := ilog2(v) - 1
	for i := uint(0); i < exp; i++ {
		bw.WriteBit(false)
	}
	bw.WriteBit(true)
	if exp > 0 {
		bw.WriteBits(uint(v-1<<exp), exp)
	}
}

// Decompress expands one room map and reports the number of bytes consumed.
func Decompress(src []byte) (rt *RoomTilemap, n int, err error) {
	defer errors.Recover(&err)

	br := bitio.NewReader(src)
	rt = &RoomTilemap{}
	rt.Left = byte(br.ReadBits(8))
	rt.Top = byte(br.ReadBits(8))
	rt.Width = int(br.ReadBits(8)) + 1
	rt.Height = (int(br.ReadBits(8)) + 1) / 2
	if rt.Height == 0 {
		errors.Panic(errors.Corrupted, "roommap", "zero height in header")
	}
	t := rt.Width * rt.Height * 2

	var tileDict [2]uint16
	tileDict[1] = uint16(br.ReadBits(10))
	tileDict[0] = uint16(br.ReadBits(10))

	offsetDict := [14]uint16{noCopy, 1, 2,
		uint16(rt.Width), uint16(rt.Width * 2), uint16(rt.Width + 1)}
	for i := 6; i < 14; i++ {
		offsetDict[i] = uint16(br.ReadBits(12))
	}

	// Stage one: sparse skeleton of back-offsets and literal markers.
	buffer := make([]uint16, t)
	addr := -1
	for {
		step := readCodedNumber(br)
		if step == 0 {
			step = 1
		}
		addr += step
		if addr >= t {
			break
		}
		cmd := br.ReadBits(3)
		if cmd > 5 {
			cmd = 6 + ((cmd&1)<<2 | br.ReadBits(2))
		}
		buffer[addr] = offsetDict[cmd]

		if br.ReadBit() {
			row := addr
			right := br.ReadBit()
			for {
				for {
					row += rt.Width
					if right {
						row++
					}
					if row >= t {
						errors.Panic(errors.Corrupted, "roommap", "vertical run escapes the tile buffer")
					}
					buffer[row] = offsetDict[cmd]
					if !br.ReadBit() {
						break
					}
				}
				right = !right
				if !br.ReadBit() {
					break
				}
			}
		}
	}

	// Stage two: resolve copies and literal operands.
	counters := [2]uint16{tileDict[0], tileDict[1]}
	for addr = 0; addr < t; {
		if operand := buffer[addr]; operand != noCopy {
			dist := int(operand)
			if dist == 0 || dist > addr {
				errors.Panic(errors.Corrupted, "roommap", "copy reaches before the start of the tile buffer")
			}
			src := addr - dist
			for {
				buffer[addr] = buffer[src]
				addr++
				src++
				if addr >= t || buffer[addr] != 0 {
					break
				}
			}
		} else {
			for {
				var value uint16
				switch br.ReadBits(2) {
				case 0:
					if counters[0] != 0 {
						value = uint16(br.ReadBits(ilog2(int(counters[0]))))
					}
				case 1:
					if counters[1] != tileDict[1] {
						value = uint16(br.ReadBits(ilog2(int(counters[1] - tileDict[1]))))
					}
					value += tileDict[1]
				case 2:
					value = counters[0]
					counters[0]++
				case 3:
					value = counters[1]
					counters[1]++
				}
				buffer[addr] = value
				addr++
				if addr >= t || buffer[addr] != 0 {
					break
				}
			}
		}
	}

	rt.Foreground = append([]uint16(nil), buffer[:t/2]...)
	rt.Background = append([]uint16(nil), buffer[t/2:]...)

	// Heightmap tail.
	br.AlignToByte()
	rt.HMWidth = int(br.ReadBits(8))
	rt.HMHeight = int(br.ReadBits(8))
	rt.Heightmap = make([]uint16, rt.HMWidth*rt.HMHeight)
	var pattern uint16
	count := 0
	for i := range rt.Heightmap {
		if count == 0 {
			pattern = br.ReadUint16()
			for {
				rc := br.ReadByte()
				count += int(rc)
				if rc != 0xFF {
					break
				}
			}
			count++ // A run covers its length byte plus one cells.
		}
		rt.Heightmap[i] = pattern
		count--
	}

	return rt, br.BytesRead(), nil
}
