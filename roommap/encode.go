// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package roommap

import (
	"sort"

	"github.com/lordmir/lscompress/internal/bitio"
	"github.com/lordmir/lscompress/internal/errors"
)

// lzWindow bounds the back-distance search.
const lzWindow = 4095

// lzEntry is one stage-one record before emission. offsetIdx 0 marks a
// literal run; -1 marks an entry absorbed into an earlier record's vertical
// descriptor.
type lzEntry struct {
	runLength int
	offsetIdx int
	index     int
	vertical  []verticalRun
}

type verticalRun struct {
	right bool
	count int
}

// tileOp is one stage-two operand. Codes 0 and 1 carry nbits of literal
// data; codes 2 and 3 bump a counter.
type tileOp struct {
	code  uint
	data  uint16
	nbits uint
}

// Compress encodes the room and returns the produced bytes. The encoded
// form reproduces the room exactly on decode, but because the offset and
// tile dictionaries are learned by search it need not match the original
// compressed bytes bit for bit.
func (rt *RoomTilemap) Compress() ([]byte, error) {
	if err := rt.checkContent(); err != nil {
		return nil, err
	}

	tiles := make([]uint16, 0, 2*len(rt.Foreground))
	tiles = append(tiles, rt.Foreground...)
	tiles = append(tiles, rt.Background...)

	offsets := rt.learnOffsets(tiles)
	entries, compressed := buildSkeleton(tiles, offsets)
	coalesceVertical(entries, tiles, rt.Width)
	entries = dropAbsorbed(entries)
	dict, ops := buildTileOps(tiles, compressed)

	bw := bitio.NewWriter()
	bw.WriteByte(rt.Left)
	bw.WriteByte(rt.Top)
	bw.WriteByte(byte(rt.Width - 1))
	bw.WriteByte(byte(rt.Height*2 - 1))
	bw.WriteBits(uint(dict[0]), 10)
	bw.WriteBits(uint(dict[1]), 10)
	for i := 6; i < 14; i++ {
		bw.WriteBits(uint(offsets[i]), 12)
	}

	lastIdx := -1
	for _, e := range entries {
		writeCodedNumber(bw, e.index-lastIdx)
		lastIdx = e.index
		if e.offsetIdx < 6 {
			bw.WriteBits(uint(e.offsetIdx), 3)
		} else {
			bw.WriteBits(3, 2)
			bw.WriteBits(uint(e.offsetIdx-6), 3)
		}
		if len(e.vertical) > 0 {
			bw.WriteBit(true)
			for gi, v := range e.vertical {
				if gi == 0 {
					bw.WriteBit(v.right)
				} else {
					bw.WriteBit(true)
				}
				for k := 1; k < v.count; k++ {
					bw.WriteBit(true)
				}
				bw.WriteBit(false)
			}
			bw.WriteBit(false)
		} else {
			bw.WriteBit(false)
		}
	}
	writeCodedNumber(bw, len(tiles)-lastIdx+1)

	for _, op := range ops {
		bw.WriteBits(op.code, 2)
		if op.nbits > 0 {
			bw.WriteBits(uint(op.data), op.nbits)
		}
	}

	bw.AlignToByte()
	bw.WriteByte(byte(rt.HMWidth))
	bw.WriteByte(byte(rt.HMHeight))
	for i := 0; i < len(rt.Heightmap); {
		pattern := rt.Heightmap[i]
		run := 0
		for i+run+1 < len(rt.Heightmap) && rt.Heightmap[i+run+1] == pattern {
			run++
		}
		i += run + 1
		bw.WriteUint16(pattern)
		for run >= 0xFF {
			bw.WriteByte(0xFF)
			run -= 0xFF
		}
		bw.WriteByte(byte(run))
	}

	return bw.Bytes(), nil
}

// CompressTo encodes the room into the caller's buffer, failing with
// OutputOverflow if it does not fit.
func (rt *RoomTilemap) CompressTo(dst []byte) (int, error) {
	out, err := rt.Compress()
	if err != nil {
		return 0, err
	}
	if len(out) > len(dst) {
		return 0, errors.New(errors.OutputOverflow, "roommap", "output buffer not large enough to hold result")
	}
	return copy(dst, out), nil
}

// matchLen counts how far tiles[at:] repeats tiles[at-dist:].
func matchLen(tiles []uint16, at, dist int) int {
	run := 0
	for at+run < len(tiles) && tiles[at-dist+run] == tiles[at+run] {
		run++
	}
	return run
}

// learnOffsets scans the combined layers for repeated material and fills
// dictionary slots 6..13 with the eight back-distances that cover the most
// cells, skipping distances already hard-wired into slots 1..5. Unused slots
// stay zero.
func (rt *RoomTilemap) learnOffsets(tiles []uint16) []uint16 {
	freq := make(map[int]int)
	for idx := 1; idx < len(tiles); {
		run := bestMatchFrequency(tiles, idx, freq)
		if run == 0 {
			idx++
		} else {
			idx += run
		}
	}

	type distCount struct {
		dist  int
		count int
	}
	counts := make([]distCount, 0, len(freq))
	for d, c := range freq {
		counts = append(counts, distCount{d, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].dist < counts[j].dist
	})

	offsets := []uint16{0, 1, 2,
		uint16(rt.Width), uint16(rt.Width * 2), uint16(rt.Width + 1)}
	for _, dc := range counts {
		if len(offsets) == 14 {
			break
		}
		known := false
		for _, o := range offsets[1:] {
			if int(o) == dc.dist {
				known = true
				break
			}
		}
		if !known {
			offsets = append(offsets, uint16(dc.dist))
		}
	}
	for len(offsets) < 14 {
		offsets = append(offsets, 0)
	}
	return offsets
}

// bestMatchFrequency finds the longest match for tiles[idx:] within the
// window and credits every distance achieving it. Matches under two cells
// are ignored.
func bestMatchFrequency(tiles []uint16, idx int, freq map[int]int) int {
	window := idx
	if window > lzWindow {
		window = lzWindow
	}
	best := 0
	for d := 1; d <= window; d++ {
		if run := matchLen(tiles, idx, d); run > best {
			best = run
		}
	}
	if best < 2 {
		return 0
	}
	for d := 1; d <= window; d++ {
		if matchLen(tiles, idx, d) == best {
			freq[d] += best
		}
	}
	return best
}

// findDictMatch returns the dictionary slot and run of the longest match at
// idx among the usable offsets, or (0, 1) to signal a literal cell.
func findDictMatch(tiles []uint16, idx int, offsets []uint16) (slot, run int) {
	window := idx
	if window > lzWindow {
		window = lzWindow
	}
	for i, o := range offsets {
		d := int(o)
		if d == 0 || d > window {
			continue
		}
		if r := matchLen(tiles, idx, d); r > run {
			slot, run = i, r
		}
	}
	if run == 0 {
		return 0, 1
	}
	return slot, run
}

// buildSkeleton runs the dictionary-restricted LZ77 pass. It returns the
// record list and a per-cell flag marking cells covered by copies.
func buildSkeleton(tiles []uint16, offsets []uint16) ([]lzEntry, []bool) {
	compressed := make([]bool, len(tiles))
	entries := []lzEntry{{runLength: 1, offsetIdx: 0, index: 0}}
	for idx := 1; idx < len(tiles); {
		slot, run := findDictMatch(tiles, idx, offsets)
		if slot != 0 || entries[len(entries)-1].offsetIdx != 0 {
			entries = append(entries, lzEntry{runLength: run, offsetIdx: slot, index: idx})
		} else {
			entries[len(entries)-1].runLength++
		}
		if last := &entries[len(entries)-1]; last.offsetIdx == 0 {
			idx++
		} else {
			for i := idx; i < idx+last.runLength; i++ {
				compressed[i] = true
			}
			idx += last.runLength
		}
	}
	return entries, compressed
}

// coalesceVertical folds records that sit directly below (or below-right of)
// an earlier record with the same offset into that record's vertical
// descriptor, alternating probe direction the way the decoder replays it.
func coalesceVertical(entries []lzEntry, tiles []uint16, width int) {
	for i := range entries {
		e := &entries[i]
		if e.offsetIdx == -1 {
			continue
		}
		count := 0
		right := false
		begin := true
		next := e.index
		prev := next
		for next < len(tiles) {
			next += width
			if right {
				next++
			}
			if j := findEntryAt(entries, i+1, next, e.offsetIdx); j >= 0 {
				count++
				entries[j].offsetIdx = -1
				prev = next
			} else {
				if count > 0 {
					e.vertical = append(e.vertical, verticalRun{right, count})
					count = 0
				} else if !begin {
					break
				}
				begin = false
				right = !right
				next = prev
			}
		}
		if count > 0 {
			e.vertical = append(e.vertical, verticalRun{right, count})
		}
	}
}

func findEntryAt(entries []lzEntry, from, index, offsetIdx int) int {
	for j := from; j < len(entries); j++ {
		if entries[j].index == index && entries[j].offsetIdx == offsetIdx {
			return j
		}
	}
	return -1
}

func dropAbsorbed(entries []lzEntry) []lzEntry {
	kept := entries[:0]
	for _, e := range entries {
		if e.offsetIdx != -1 {
			kept = append(kept, e)
		}
	}
	return kept
}

// buildTileOps selects the tile dictionary and emits one operand per
// uncovered cell, testing codes in the order 3, 2, 1, 0. Literal widths are
// computed against the live counters exactly as the decoder will read them.
func buildTileOps(tiles []uint16, compressed []bool) (dict [2]uint16, ops []tileOp) {
	// Count incrementing-sequence starts and in-range reuse per tile value.
	inc := make(map[int]int)
	ranged := make(map[int]int)
	var bases []int
	for i, t := range tiles {
		if compressed[i] {
			continue
		}
		v := int(t)
		for _, base := range bases {
			c := inc[base]
			if v == base+c {
				c++
				inc[base] = c
			}
			if v >= base && v < base+c {
				ranged[v]++
			}
		}
		if _, ok := inc[v]; !ok {
			inc[v] = 1
			bases = append(bases, v)
		}
	}

	maxTile := 0
	for _, base := range bases {
		if base > maxTile {
			maxTile = base
		}
	}
	minDictEntry := 0
	if maxTile > 0 {
		minDictEntry = 1 << (ilog2(maxTile) - 1)
	}

	// dict[1] seeds the literal/increment counter pair read by operands 0
	// and 2: the smallest observed sequence start at or above half the top
	// tile's power of two, so that every literal fits its width.
	sort.Ints(bases)
	d1 := -1
	for _, base := range bases {
		if base >= minDictEntry {
			d1 = base
			break
		}
	}
	if d1 < 0 {
		d1 = minDictEntry
	}

	// dict[0] seeds the counter pair read by operands 1 and 3: the most
	// frequent sequence start, smallest value on ties.
	d0 := 0
	bestCount := -1
	for _, base := range bases {
		if inc[base] > bestCount {
			d0, bestCount = base, inc[base]
		}
	}

	dict[0] = uint16(d0)
	dict[1] = uint16(d1)

	inc0, inc1 := 0, 0
	for i, t := range tiles {
		if compressed[i] {
			continue
		}
		v := int(t)
		switch {
		case v == d0+inc0:
			inc0++
			ops = append(ops, tileOp{code: 3})
		case v == d1+inc1:
			inc1++
			ops = append(ops, tileOp{code: 2})
		case v >= d0 && v < d0+inc0:
			ops = append(ops, tileOp{code: 1, data: uint16(v - d0), nbits: ilog2(inc0)})
		default:
			ops = append(ops, tileOp{code: 0, data: uint16(v), nbits: ilog2(d1 + inc1)})
		}
	}
	return dict, ops
}
