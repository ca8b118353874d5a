// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"sort"

	"github.com/lordmir/lscompress/internal/errors"
)

// Frequencies is the two-level symbol occurrence count used to rebuild the
// forest: prev symbol -> next symbol -> count.
type Frequencies map[byte]map[byte]int

// NewFrequencies returns an empty count table.
func NewFrequencies() Frequencies {
	return make(Frequencies)
}

// Add records one occurrence of sym following prev.
func (fr Frequencies) Add(prev, sym byte) {
	m := fr[prev]
	if m == nil {
		m = make(map[byte]int)
		fr[prev] = m
	}
	m[sym]++
}

// AddString accumulates the transitions of one symbol stream, starting from
// context zero. The stream should include its terminator symbol so that the
// rebuilt trees can encode it.
func (fr Frequencies) AddString(syms []byte) {
	prev := byte(0)
	for _, sym := range syms {
		fr.Add(prev, sym)
		prev = sym
	}
}

// Rebuild replaces the forest's trees with canonical Huffman trees derived
// from the counts. Prefixes with no observations get no tree (offset
// 0xFFFF). Ties during merging break on the smallest symbol in each subtree,
// making the result deterministic. The packed node form carries symbols in
// seven bits, so counts for symbols above 0x7F are rejected.
func (f *Forest) Rebuild(fr Frequencies) error {
	for prev, m := range fr {
		for sym := range m {
			if sym > 0x7F {
				return errors.Newf(errors.InvalidConfig, "huffman", "symbol %#02x in context %#02x does not fit the 7-bit leaf form", sym, prev)
			}
		}
	}
	f.offsets = make([]uint16, NumContexts)
	f.blob = f.blob[:0]
	f.codes = make([]map[byte][]byte, NumContexts)
	for ctx := 0; ctx < NumContexts; ctx++ {
		counts := fr[byte(ctx)]
		if len(counts) == 0 {
			f.offsets[ctx] = noTree
			continue
		}
		if len(f.blob) >= noTree {
			return errors.New(errors.Overflow, "huffman", "tree blob exceeds the 16-bit offset space")
		}
		f.offsets[ctx] = uint16(len(f.blob))
		f.blob = append(f.blob, packTree(buildTree(counts))...)
	}
	return nil
}

// RecalculateTrees rebuilds the forest from an already-decoded corpus of
// symbol streams.
func (f *Forest) RecalculateTrees(corpus [][]byte) error {
	fr := NewFrequencies()
	for _, syms := range corpus {
		fr.AddString(syms)
	}
	return f.Rebuild(fr)
}

// treeNode is an unpacked tree node. Leaves have no children; min tracks the
// smallest symbol beneath a node for deterministic tie breaking.
type treeNode struct {
	count       int
	sym         byte
	min         byte
	left, right *treeNode
}

func (n *treeNode) leaf() bool { return n.left == nil }

// buildTree runs the standard repeated-merge construction over the (symbol,
// count) pairs. A context observed with a single distinct symbol still gets
// an internal root, with both children mapped to that symbol, so that every
// code occupies at least one bit.
func buildTree(counts map[byte]int) *treeNode {
	nodes := make([]*treeNode, 0, len(counts))
	for sym, count := range counts {
		nodes = append(nodes, &treeNode{count: count, sym: sym, min: sym})
	}
	sortNodes(nodes)
	if len(nodes) == 1 {
		only := nodes[0]
		return &treeNode{count: only.count * 2, min: only.min, left: only, right: only}
	}
	for len(nodes) > 1 {
		a, b := nodes[0], nodes[1]
		merged := &treeNode{count: a.count + b.count, min: a.min, left: a, right: b}
		if b.min < merged.min {
			merged.min = b.min
		}
		nodes = append(nodes[2:], merged)
		sortNodes(nodes)
	}
	return nodes[0]
}

func sortNodes(nodes []*treeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].count != nodes[j].count {
			return nodes[i].count < nodes[j].count
		}
		return nodes[i].min < nodes[j].min
	})
}

// packTree serialises a tree into its two-byte-node form. Internal nodes are
// numbered in preorder so that child indices always point forward.
func packTree(root *treeNode) []byte {
	index := make(map[*treeNode]int)
	var number func(n *treeNode)
	number = func(n *treeNode) {
		if n.leaf() {
			return
		}
		index[n] = len(index)
		number(n.left)
		if n.right != n.left {
			number(n.right)
		}
	}
	number(root)

	packed := make([]byte, 2*len(index))
	var fill func(n *treeNode)
	fill = func(n *treeNode) {
		if n.leaf() {
			return
		}
		slot := 2 * index[n]
		packed[slot] = childByte(n.left, index)
		packed[slot+1] = childByte(n.right, index)
		fill(n.left)
		if n.right != n.left {
			fill(n.right)
		}
	}
	fill(root)
	return packed
}

func childByte(n *treeNode, index map[*treeNode]int) byte {
	if n.leaf() {
		return 0x80 | n.sym
	}
	return byte(index[n])
}
