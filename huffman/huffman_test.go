// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lordmir/lscompress/internal/errors"
)

// terminated appends the terminator to a symbol stream.
func terminated(syms ...byte) []byte {
	return append(syms, Terminator)
}

func TestHandPackedForest(t *testing.T) {
	// Context 0 holds a two-level tree: bit 0 is symbol 0x01, bits 10 are
	// 0x02, bits 11 are the terminator. Contexts 0x01 and 0x02 hold
	// single-symbol trees straight to the terminator.
	var offsets [2 * NumContexts]byte
	for i := range offsets {
		offsets[i] = 0xFF
	}
	put := func(ctx int, off uint16) {
		offsets[2*ctx] = byte(off >> 8)
		offsets[2*ctx+1] = byte(off)
	}
	put(0x00, 0)
	put(0x01, 4)
	put(0x02, 6)
	blob := []byte{
		0x81, 0x01, // node 0: leaf 0x01, node 1
		0x82, 0x80 | Terminator, // node 1: leaf 0x02, leaf terminator
		0x80 | Terminator, 0x80 | Terminator,
		0x80 | Terminator, 0x80 | Terminator,
	}

	f, err := New(offsets[:], blob, NumContexts)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}

	vectors := []struct {
		syms []byte
		data []byte
	}{
		// 0 (0x01 in ctx 0) then 0 (terminator in ctx 1): 00______
		{terminated(0x01), []byte{0x00}},
		// 10 then 0: 100_____
		{terminated(0x02), []byte{0x80}},
		// 11: terminator straight away.
		{terminated(), []byte{0xC0}},
	}
	for i, v := range vectors {
		data, err := f.Compress(v.syms)
		if err != nil {
			t.Errorf("vector %d: unexpected Compress error: %v", i, err)
			continue
		}
		if !bytes.Equal(data, v.data) {
			t.Errorf("vector %d: Compress() = %x, want %x", i, data, v.data)
		}
		syms, err := f.Decompress(v.data)
		if err != nil {
			t.Errorf("vector %d: unexpected Decompress error: %v", i, err)
			continue
		}
		if !bytes.Equal(syms, v.syms) {
			t.Errorf("vector %d: Decompress() = %x, want %x", i, syms, v.syms)
		}
	}
}

func TestUnusedContext(t *testing.T) {
	f := NewEmpty()
	if _, err := f.Decompress([]byte{0x00}); !errors.IsKind(err, errors.Corrupted) {
		t.Errorf("decode in empty context: got %v, want Corrupted", err)
	}
	if _, err := f.Compress(terminated()); err == nil {
		t.Errorf("compress in empty context: got nil error")
	}
}

func TestTruncatedStream(t *testing.T) {
	fr := NewFrequencies()
	fr.AddString(terminated(0x01, 0x02, 0x01))
	f := NewEmpty()
	if err := f.Rebuild(fr); err != nil {
		t.Fatalf("unexpected Rebuild error: %v", err)
	}
	if _, err := f.Decompress(nil); !errors.IsKind(err, errors.Truncated) {
		t.Errorf("empty payload: got %v, want Truncated", err)
	}
}

func TestRebuildRoundTrip(t *testing.T) {
	corpus := [][]byte{
		terminated(0x10, 0x11, 0x12, 0x10, 0x11, 0x10),
		terminated(0x10, 0x10, 0x10),
		terminated(0x20, 0x21, 0x22, 0x23, 0x24, 0x25),
		terminated(),
	}
	f := NewEmpty()
	if err := f.RecalculateTrees(corpus); err != nil {
		t.Fatalf("unexpected RecalculateTrees error: %v", err)
	}
	for i, syms := range corpus {
		data, err := f.Compress(syms)
		if err != nil {
			t.Fatalf("string %d: unexpected Compress error: %v", i, err)
		}
		got, err := f.Decompress(data)
		if err != nil {
			t.Fatalf("string %d: unexpected Decompress error: %v", i, err)
		}
		if diff := cmp.Diff(syms, got); diff != "" {
			t.Errorf("string %d: round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRebuildDeterministic(t *testing.T) {
	corpus := [][]byte{terminated(0x01, 0x02, 0x03, 0x01, 0x02, 0x01)}
	f1, f2 := NewEmpty(), NewEmpty()
	if err := f1.RecalculateTrees(corpus); err != nil {
		t.Fatalf("unexpected RecalculateTrees error: %v", err)
	}
	if err := f2.RecalculateTrees(corpus); err != nil {
		t.Fatalf("unexpected RecalculateTrees error: %v", err)
	}
	off1, blob1 := f1.EncodeTrees()
	off2, blob2 := f2.EncodeTrees()
	if !bytes.Equal(off1, off2) || !bytes.Equal(blob1, blob2) {
		t.Errorf("two rebuilds of the same corpus differ")
	}
}

func TestEncodeTreesRoundTrip(t *testing.T) {
	corpus := [][]byte{
		terminated(0x05, 0x06, 0x07, 0x05),
		terminated(0x05, 0x05),
	}
	f := NewEmpty()
	if err := f.RecalculateTrees(corpus); err != nil {
		t.Fatalf("unexpected RecalculateTrees error: %v", err)
	}
	offsets, blob := f.EncodeTrees()
	f2, err := New(offsets, blob, NumContexts)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for i, syms := range corpus {
		data, err := f.Compress(syms)
		if err != nil {
			t.Fatalf("string %d: unexpected Compress error: %v", i, err)
		}
		got, err := f2.Decompress(data)
		if err != nil {
			t.Fatalf("string %d: unexpected Decompress error: %v", i, err)
		}
		if !bytes.Equal(syms, got) {
			t.Errorf("string %d: reloaded forest decoded %x, want %x", i, got, syms)
		}
	}
}

func TestTerminatorAlignment(t *testing.T) {
	// Streams ending exactly on a byte boundary and mid-byte must both
	// decode; trailing pad bits are never consumed.
	corpus := [][]byte{
		terminated(),
		terminated(0x01),
		terminated(0x01, 0x02),
		terminated(0x01, 0x02, 0x03),
		terminated(0x01, 0x02, 0x03, 0x04),
		terminated(0x01, 0x02, 0x03, 0x04, 0x05),
	}
	f := NewEmpty()
	if err := f.RecalculateTrees(corpus); err != nil {
		t.Fatalf("unexpected RecalculateTrees error: %v", err)
	}
	for n, syms := range corpus {
		data, err := f.Compress(syms)
		if err != nil {
			t.Fatalf("length %d: unexpected Compress error: %v", n, err)
		}
		got, err := f.Decompress(data)
		if err != nil {
			t.Fatalf("length %d: unexpected Decompress error: %v", n, err)
		}
		if !bytes.Equal(syms, got) {
			t.Errorf("length %d: round trip mismatch", n)
		}
	}
}

func TestRejectsWideSymbols(t *testing.T) {
	fr := NewFrequencies()
	fr.Add(0x00, 0x90)
	f := NewEmpty()
	if err := f.Rebuild(fr); !errors.IsKind(err, errors.InvalidConfig) {
		t.Errorf("got %v, want InvalidConfig", err)
	}
}
