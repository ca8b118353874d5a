// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package roommap

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lordmir/lscompress/internal/errors"
	"github.com/lordmir/lscompress/internal/testutil"
)

func roundTrip(t *testing.T, rt *RoomTilemap) {
	t.Helper()
	b, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	d, n, err := Decompress(b)
	if err != nil {
		t.Fatalf("unexpected Decompress error: %v", err)
	}
	if n != len(b) {
		t.Errorf("Decompress consumed %d of %d bytes", n, len(b))
	}
	if diff := cmp.Diff(rt, d); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTrivialRoom(t *testing.T) {
	rt, err := New(1, 1, 1, 1)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	b, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	// Header: left 0, top 0, width-1, 2*height-1.
	if want := []byte{0x00, 0x00, 0x00, 0x01}; !bytes.Equal(b[:4], want) {
		t.Errorf("header = %x, want %x", b[:4], want)
	}
	roundTrip(t, rt)
}

func TestOffsetsAndPosition(t *testing.T) {
	rt, err := New(4, 2, 2, 2)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	rt.Left, rt.Top = 0x12, 0x34
	for i := range rt.Foreground {
		rt.Foreground[i] = uint16(i)
		rt.Background[i] = uint16(0x40 + i)
	}
	b, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	if b[0] != 0x12 || b[1] != 0x34 || b[2] != 3 || b[3] != 3 {
		t.Errorf("header = %x, want 12340303", b[:4])
	}
	roundTrip(t, rt)
}

func TestWidthOne(t *testing.T) {
	rt, err := New(1, 8, 1, 8)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for i := range rt.Foreground {
		rt.Foreground[i] = uint16(0x100 + i%3)
		rt.Background[i] = 0x0A
		rt.Heightmap[i] = uint16(0x4000 | i)
	}
	roundTrip(t, rt)
}

func TestColumnStructure(t *testing.T) {
	// Vertical stripes with per-row breaks: rows repeat at distance width,
	// with a changing left column that keeps each row start as its own
	// record. This drives the vertical coalescing path.
	rt, err := New(8, 8, 4, 4)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint16(0x200 + x)
			if x == 0 {
				v = uint16(0x300 + y)
			}
			rt.Foreground[y*8+x] = v
			rt.Background[y*8+x] = uint16(0x10 + x%2)
		}
	}
	roundTrip(t, rt)
}

func TestHeightmapLongRun(t *testing.T) {
	rt, err := New(2, 2, 20, 20)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for i := range rt.Heightmap {
		rt.Heightmap[i] = 0x8F40
	}
	// 400 cells in one run forces a 0xFF continuation byte.
	b, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	tail := b[len(b)-5:]
	want := []byte{0x8F, 0x40, 0xFF, 0x90}
	if !bytes.Equal(tail[1:], want) {
		t.Errorf("heightmap tail = %x, want %x", tail[1:], want)
	}
	roundTrip(t, rt)
}

func TestDictOverlap(t *testing.T) {
	// Both dictionary entries land on the same value when one incrementing
	// start dominates.
	rt, err := New(4, 4, 1, 1)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for i := range rt.Foreground {
		rt.Foreground[i] = uint16(0x80 + i)
		rt.Background[i] = uint16(0x80 + i)
	}
	roundTrip(t, rt)
}

func TestRandomRooms(t *testing.T) {
	rand := testutil.NewRand(11)
	for trial := 0; trial < 12; trial++ {
		width := 1 + rand.Intn(16)
		height := 1 + rand.Intn(16)
		rt, err := New(width, height, 1+rand.Intn(8), 1+rand.Intn(8))
		if err != nil {
			t.Fatalf("trial %d: unexpected New error: %v", trial, err)
		}
		rt.Left = uint8(rand.Intn(256))
		rt.Top = uint8(rand.Intn(256))

		fill := func(layer []uint16) {
			idx := uint16(0)
			for i := 0; i < len(layer); {
				run := 1 + rand.Intn(10)
				switch rand.Intn(4) {
				case 0: // Repeat.
					idx = uint16(rand.Intn(0x400))
					for j := 0; j < run && i < len(layer); j++ {
						layer[i] = idx
						i++
					}
				case 1: // Increment.
					for j := 0; j < run && i < len(layer); j++ {
						idx = (idx + 1) & 0x3FF
						layer[i] = idx
						i++
					}
				case 2: // Copy the row above.
					if i >= width {
						for j := 0; j < run && i < len(layer); j++ {
							layer[i] = layer[i-width]
							i++
						}
						break
					}
					fallthrough
				default: // Noise.
					layer[i] = uint16(rand.Intn(0x400))
					i++
				}
			}
		}
		fill(rt.Foreground)
		fill(rt.Background)
		for i := range rt.Heightmap {
			if rand.Intn(4) > 0 && i > 0 {
				rt.Heightmap[i] = rt.Heightmap[i-1]
			} else {
				rt.Heightmap[i] = uint16(rand.Intn(0x10000))
			}
		}
		roundTrip(t, rt)
	}
}

func TestDecompressTruncated(t *testing.T) {
	rt, err := New(2, 2, 2, 2)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	for i := range rt.Foreground {
		rt.Foreground[i] = uint16(i)
		rt.Background[i] = uint16(i)
		rt.Heightmap[i] = uint16(i)
	}
	b, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}
	for n := 0; n < len(b); n++ {
		if _, _, err := Decompress(b[:n]); err == nil {
			t.Errorf("prefix of %d bytes decoded without error", n)
		}
	}
}

func TestCompressTo(t *testing.T) {
	rt, err := New(2, 2, 1, 1)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	out, err := rt.Compress()
	if err != nil {
		t.Fatalf("unexpected Compress error: %v", err)
	}

	dst := make([]byte, len(out))
	n, err := rt.CompressTo(dst)
	if err != nil || n != len(out) {
		t.Fatalf("CompressTo: n=%d err=%v", n, err)
	}
	if !bytes.Equal(dst, out) {
		t.Errorf("CompressTo produced %x, want %x", dst, out)
	}

	if _, err := rt.CompressTo(make([]byte, len(out)-1)); !errors.IsKind(err, errors.OutputOverflow) {
		t.Errorf("short buffer: got %v, want OutputOverflow", err)
	}
}

func TestCompressRejectsBadShapes(t *testing.T) {
	rt := &RoomTilemap{Width: 2, Height: 2,
		Foreground: make([]uint16, 3), Background: make([]uint16, 4)}
	if _, err := rt.Compress(); !errors.IsKind(err, errors.InvalidConfig) {
		t.Errorf("layer mismatch: got %v, want InvalidConfig", err)
	}

	rt, err := New(2, 2, 1, 1)
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	rt.Foreground[0] = 0x400
	if _, err := rt.Compress(); !errors.IsKind(err, errors.InvalidConfig) {
		t.Errorf("wide tile: got %v, want InvalidConfig", err)
	}
}
