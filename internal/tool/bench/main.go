// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore
// +build ignore

// Benchmark tool to compare the game codecs against general-purpose
// compressors. Individual implementations are referred to as codecs.
//
// Example usage:
//
//	$ go build -o benchmark main.go
//	$ ./benchmark -codecs rle,lz77,fl,xz -sizes 32x32,64x64 -tests encRate,decRate,ratio
//
//	BENCHMARK: ratio
//		benchmark         rle ratio    lz77 ratio      fl ratio      xz ratio
//		map:32x32              3.42          2.96          4.11          4.37
//		map:64x64              3.61          3.10          4.52          4.95
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lordmir/lscompress/internal/tool/bench"
)

var (
	codecs = flag.String("codecs", "rle,lz77,fl,xz", "comma-separated list of codecs to run")
	sizes  = flag.String("sizes", "16x16,32x32,64x64", "comma-separated list of WxH map sizes")
	tests  = flag.String("tests", "encRate,decRate,ratio", "comma-separated list of tests to run")
	seed   = flag.Int("seed", 1, "corpus generator seed")
)

func main() {
	flag.Parse()

	var maps []bench.RawTilemap
	var names []string
	for _, s := range strings.Split(*sizes, ",") {
		var w, h int
		if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
			fmt.Fprintf(os.Stderr, "bad size %q\n", s)
			os.Exit(1)
		}
		maps = append(maps, bench.GenerateTilemap(*seed, w, h))
		names = append(names, "map:"+s)
	}

	codecList := strings.Split(*codecs, ",")
	for _, test := range strings.Split(*tests, ",") {
		fmt.Printf("BENCHMARK: %s\n", test)
		fmt.Printf("\t%-16s", "benchmark")
		for _, c := range codecList {
			fmt.Printf("%14s", c+" "+unit(test))
		}
		fmt.Println()
		for mi, raw := range maps {
			fmt.Printf("\t%-16s", names[mi])
			for _, c := range codecList {
				fmt.Printf("%14.2f", run(test, c, raw))
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

func unit(test string) string {
	if test == "ratio" {
		return "ratio"
	}
	return "MB/s"
}

func run(test, codec string, raw bench.RawTilemap) float64 {
	enc, ok := bench.Encoders[codec]
	if !ok {
		return 0
	}
	dec := bench.Decoders[codec]
	comp, err := enc(raw)
	if err != nil {
		return 0
	}

	// Verify the round trip chunk-wise, the way a streaming caller would.
	out, err := dec(comp, raw.Width, raw.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: decode failed: %v\n", codec, err)
		return 0
	}
	half := len(out.Data) / 2
	crc := bench.Checksum(out.Data[:half])
	crc = bench.CombineChecksums(crc, bench.Checksum(out.Data[half:]), int64(len(out.Data)-half))
	if crc != bench.Checksum(raw.Data) {
		fmt.Fprintf(os.Stderr, "%s: round-trip mismatch\n", codec)
		return 0
	}

	switch test {
	case "ratio":
		return float64(len(raw.Data)) / float64(len(comp))
	case "encRate":
		r := bench.BenchmarkEncoder(raw, enc)
		return rate(r.Bytes, r.N, r.T.Nanoseconds())
	case "decRate":
		r := bench.BenchmarkDecoder(comp, raw.Width, raw.Height, len(raw.Data), dec)
		return rate(r.Bytes, r.N, r.T.Nanoseconds())
	}
	return 0
}

func rate(bytes int64, n int, ns int64) float64 {
	if ns == 0 || n == 0 {
		return 0
	}
	return float64(bytes) * float64(n) / (float64(ns) / 1e3)
}
