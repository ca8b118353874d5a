// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lz77 implements the sliding-window LZSS scheme used by the game's
// raw graphics assets and by LZ77-compressed 2D tilemaps.
//
// The stream is a sequence of bit-flagged commands, packed MSB-first:
//
//	1 llllllll            literal: emit the 8-bit value
//	0 dddddddddddd nnnn   back-reference: copy n+3 bytes from d bytes back
//	0 000000000000        end of stream
//
// Distances run from 1 to 4095; a distance of zero terminates the stream,
// after which the stream is padded out to a byte boundary. Lengths run from
// 3 to 18. A copy may overlap its own output, which the decoder reproduces
// byte by byte.
package lz77

import (
	"github.com/lordmir/lscompress/internal/bitio"
	"github.com/lordmir/lscompress/internal/errors"
)

const (
	minLength = 3
	maxLength = minLength + 15
	maxDist   = 4095
)

// Decode decompresses src into dst and returns the number of bytes produced.
// It fails with Truncated if src ends mid-command, Corrupted if a command
// references data before the start of the output, and OutputOverflow if dst
// is too small for the decompressed data.
func Decode(dst, src []byte) (n int, err error) {
	defer errors.Recover(&err)

	br := bitio.NewReader(src)
	for {
		if br.ReadBit() {
			if n >= len(dst) {
				errors.Panic(errors.OutputOverflow, "lz77", "destination buffer too small")
			}
			dst[n] = br.ReadByte()
			n++
			continue
		}
		dist := int(br.ReadBits(12))
		if dist == 0 {
			break
		}
		length := int(br.ReadBits(4)) + minLength
		if dist > n {
			errors.Panic(errors.Corrupted, "lz77", "back-reference before start of output")
		}
		if n+length > len(dst) {
			errors.Panic(errors.OutputOverflow, "lz77", "destination buffer too small")
		}
		for i := 0; i < length; i++ {
			dst[n] = dst[n-dist]
			n++
		}
	}
	return n, nil
}

// Encode compresses src and returns the compressed bytes. The encoder is a
// greedy longest-match search over the 4095-byte window.
func Encode(src []byte) []byte {
	bw := bitio.NewWriter()
	pos := 0
	for pos < len(src) {
		dist, length := findMatch(src, pos)
		if length >= minLength {
			bw.WriteBit(false)
			bw.WriteBits(uint(dist), 12)
			bw.WriteBits(uint(length-minLength), 4)
			pos += length
		} else {
			bw.WriteBit(true)
			bw.WriteByte(src[pos])
			pos++
		}
	}
	bw.WriteBit(false)
	bw.WriteBits(0, 12)
	bw.AlignToByte()
	return bw.Bytes()
}

// findMatch returns the longest match for src[pos:] within the window,
// preferring the smallest distance on ties.
func findMatch(src []byte, pos int) (dist, length int) {
	window := pos
	if window > maxDist {
		window = maxDist
	}
	limit := len(src) - pos
	if limit > maxLength {
		limit = maxLength
	}
	for d := 1; d <= window; d++ {
		run := 0
		for run < limit && src[pos-d+run] == src[pos+run] {
			run++
		}
		if run > length {
			dist, length = d, run
			if length == limit {
				break
			}
		}
	}
	return dist, length
}
