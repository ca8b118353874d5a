// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the game codecs against general-purpose compressors
// with respect to encode speed, decode speed, and ratio. The working unit is
// a raw 2D tilemap image: width and height followed by big-endian tile
// words, which every registered codec must reproduce exactly.
package bench

import (
	"hash/crc32"
	"runtime"
	"testing"

	"github.com/dsnet/golib/hashutil"

	"github.com/lordmir/lscompress/internal/testutil"
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// RawTilemap is the uncompressed working unit: dimensions plus big-endian
// tile words.
type RawTilemap struct {
	Width  int
	Height int
	Data   []byte
}

// Encoder compresses a raw tilemap. Decoder must reverse it given the
// original dimensions.
type (
	Encoder func(RawTilemap) ([]byte, error)
	Decoder func(b []byte, width, height int) (RawTilemap, error)
)

var (
	Encoders = make(map[string]Encoder)
	Decoders = make(map[string]Decoder)
)

func RegisterEncoder(name string, enc Encoder) { Encoders[name] = enc }
func RegisterDecoder(name string, dec Decoder) { Decoders[name] = dec }

// GenerateTilemap synthesises a compressible tilemap image: runs of repeated
// and incrementing tile indices under a handful of attribute blocks, the
// texture real room graphics have.
func GenerateTilemap(seed, width, height int) RawTilemap {
	r := testutil.NewRand(seed)
	words := make([]uint16, width*height)
	var attrs uint16
	idx := uint16(0)
	for i := 0; i < len(words); {
		if r.Intn(8) == 0 {
			attrs = uint16(r.Intn(32)) << 11
		}
		run := 1 + r.Intn(12)
		switch r.Intn(3) {
		case 0: // Repeat one tile.
			idx = uint16(r.Intn(0x400))
			for j := 0; j < run && i < len(words); j++ {
				words[i] = attrs | idx
				i++
			}
		case 1: // Incrementing strip.
			for j := 0; j < run && i < len(words); j++ {
				idx = (idx + 1) & 0x3FF
				words[i] = attrs | idx
				i++
			}
		default: // Noise.
			words[i] = attrs | uint16(r.Intn(0x400))
			i++
		}
	}
	data := make([]byte, 0, 2*len(words))
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return RawTilemap{Width: width, Height: height, Data: data}
}

// Checksum produces the corpus integrity check. Per-chunk checksums combine
// with CombineChecksums, so chunked and whole-corpus runs verify against the
// same value.
func Checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// CombineChecksums folds the checksum of a later chunk of length n into an
// accumulated checksum.
func CombineChecksums(crc1, crc2 uint32, n int64) uint32 {
	return hashutil.CombineCRC32(crc32.IEEE, crc1, crc2, n)
}

// BenchmarkEncoder measures one encoder over the input.
func BenchmarkEncoder(input RawTilemap, enc Encoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			if _, err := enc(input); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input.Data)))
		}
	})
}

// BenchmarkDecoder measures one decoder over pre-compressed input.
func BenchmarkDecoder(input []byte, width, height, rawLen int, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			if _, err := dec(input, width, height); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(rawLen))
		}
	})
}
