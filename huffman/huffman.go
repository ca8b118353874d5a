// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffman implements the per-prefix Huffman forest used by the
// game's main text bank.
//
// The forest holds one binary tree per prefix context, where the context is
// the previously decoded symbol byte. On disk the forest is two blocks: a
// big-endian u16 offset table mapping context to a byte offset within the
// tree blob (0xFFFF marks a context with no tree), and the blob itself, a
// concatenation of packed trees. Each internal node is two bytes, left child
// then right child; a child byte with the high bit set is a leaf carrying the
// symbol in its low seven bits, otherwise it is the index of another node
// within the same tree. The root of every tree is node zero at the tree's
// offset.
//
// Decoding a symbol walks the current context's tree one bit per edge (clear
// bit left, set bit right) until a leaf is reached; the emitted symbol
// becomes the next context. Both compression and decompression start in
// context zero.
package huffman

import (
	"github.com/lordmir/lscompress/internal/bitio"
	"github.com/lordmir/lscompress/internal/errors"
)

// Terminator ends every compressed string. It takes part in frequency counts
// like any other symbol.
const Terminator = 0x55

// NumContexts is the number of prefix contexts in the game's forest.
const NumContexts = 256

// noTree marks an offset-table slot with no tree behind it.
const noTree = 0xFFFF

// Forest is a set of per-prefix Huffman trees. Compress and Decompress do not
// change the trees, so a Forest may be shared across string instances; Compress
// does fill a per-context code-table cache, so a Forest is not safe for
// concurrent use. Rebuild replaces its contents wholesale.
type Forest struct {
	offsets []uint16
	blob    []byte

	// codes caches the symbol -> bit path table per context, built lazily
	// from the blob on first compression in that context.
	codes []map[byte][]byte
}

// New constructs a Forest from its on-disk blocks: a big-endian u16 offset
// table of contexts entries and the concatenated tree blob.
func New(offsetTable, treeData []byte, contexts int) (*Forest, error) {
	if len(offsetTable) < 2*contexts {
		return nil, errors.New(errors.Truncated, "huffman", "offset table too short for context count")
	}
	f := &Forest{
		offsets: make([]uint16, contexts),
		blob:    append([]byte(nil), treeData...),
		codes:   make([]map[byte][]byte, contexts),
	}
	for i := 0; i < contexts; i++ {
		off := uint16(offsetTable[2*i])<<8 | uint16(offsetTable[2*i+1])
		if off != noTree && int(off) >= len(treeData) {
			return nil, errors.Newf(errors.Corrupted, "huffman", "tree offset %#04x beyond blob for context %#02x", off, i)
		}
		f.offsets[i] = off
	}
	return f, nil
}

// NewEmpty constructs a Forest with no trees, ready for Rebuild.
func NewEmpty() *Forest {
	f := &Forest{
		offsets: make([]uint16, NumContexts),
		codes:   make([]map[byte][]byte, NumContexts),
	}
	for i := range f.offsets {
		f.offsets[i] = noTree
	}
	return f
}

// EncodeTrees serialises the forest back into its on-disk blocks.
func (f *Forest) EncodeTrees() (offsetTable, treeData []byte) {
	offsetTable = make([]byte, 0, 2*len(f.offsets))
	for _, off := range f.offsets {
		offsetTable = append(offsetTable, byte(off>>8), byte(off))
	}
	return offsetTable, append([]byte(nil), f.blob...)
}

// Decompress expands data until the terminator symbol is produced and
// returns the symbol stream, terminator included. It fails with Corrupted if
// a walk enters a context with no tree or escapes the blob, and Truncated if
// the bits run out first.
func (f *Forest) Decompress(data []byte) (syms []byte, err error) {
	defer errors.Recover(&err)

	br := bitio.NewReader(data)
	ctx := byte(0)
	for {
		sym := f.decodeSym(br, ctx)
		syms = append(syms, sym)
		if sym == Terminator {
			return syms, nil
		}
		ctx = sym
	}
}

// Compress packs the symbol stream into a bit stream, padding the final byte
// with zero bits. The stream should end with the terminator symbol so that
// Decompress can find its end.
func (f *Forest) Compress(syms []byte) (data []byte, err error) {
	defer errors.Recover(&err)

	bw := bitio.NewWriter()
	ctx := byte(0)
	for _, sym := range syms {
		path, ok := f.codeTable(ctx)[sym]
		if !ok {
			return nil, errors.Newf(errors.Corrupted, "huffman", "symbol %#02x not present in tree for context %#02x", sym, ctx)
		}
		for _, bit := range path {
			bw.WriteBit(bit != 0)
		}
		ctx = sym
	}
	bw.AlignToByte()
	return bw.Bytes(), nil
}

// decodeSym walks one tree. It panics on structural errors; Decompress
// recovers them.
func (f *Forest) decodeSym(br *bitio.Reader, ctx byte) byte {
	tree := f.tree(ctx)
	node := 0
	for {
		slot := 2 * node
		if br.ReadBit() {
			slot++
		}
		if slot >= len(tree) {
			errors.Panic(errors.Corrupted, "huffman", "tree walk escaped blob")
		}
		b := tree[slot]
		if b&0x80 != 0 {
			return b & 0x7F
		}
		next := int(b)
		if next <= node {
			errors.Panic(errors.Corrupted, "huffman", "tree walk does not advance")
		}
		node = next
	}
}

// tree returns the packed node records for ctx, panicking if the context has
// no tree.
func (f *Forest) tree(ctx byte) []byte {
	if int(ctx) >= len(f.offsets) || f.offsets[ctx] == noTree {
		errors.Panic(errors.Corrupted, "huffman", "no tree for context")
	}
	return f.blob[f.offsets[ctx]:]
}

// codeTable returns the symbol -> path table for ctx, deriving it from the
// packed tree on first use.
func (f *Forest) codeTable(ctx byte) map[byte][]byte {
	tree := f.tree(ctx)
	if f.codes[ctx] != nil {
		return f.codes[ctx]
	}
	table := make(map[byte][]byte)
	var walk func(node int, path []byte)
	walk = func(node int, path []byte) {
		for bit := 0; bit < 2; bit++ {
			slot := 2*node + bit
			if slot >= len(tree) {
				errors.Panic(errors.Corrupted, "huffman", "tree walk escaped blob")
			}
			b := tree[slot]
			next := append(append([]byte(nil), path...), byte(bit))
			if b&0x80 != 0 {
				if _, ok := table[b&0x7F]; !ok {
					table[b&0x7F] = next
				}
			} else if int(b) > node {
				walk(int(b), next)
			} else {
				errors.Panic(errors.Corrupted, "huffman", "tree walk does not advance")
			}
		}
	}
	walk(0, nil)
	f.codes[ctx] = table
	return table
}
