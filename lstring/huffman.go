// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lstring

import (
	"github.com/lordmir/lscompress/huffman"
	"github.com/lordmir/lscompress/internal/errors"
)

// Huffman is a main-text string: the plain charset compressed against the
// shared per-prefix Huffman forest. Decode and Encode do not change the
// forest's trees, so it may be shared across instances.
type Huffman struct {
	Text  string
	trees *huffman.Forest
}

var _ String = (*Huffman)(nil)

// NewHuffman constructs an empty Huffman string bound to a forest.
func NewHuffman(trees *huffman.Forest) *Huffman {
	return &Huffman{trees: trees}
}

// Decode reads the total length byte, decompresses the payload against the
// forest, and decodes the symbols up to the 0x55 terminator.
func (s *Huffman) Decode(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, errors.New(errors.Truncated, "lstring", "missing length byte")
	}
	total := int(b[0])
	if total == 0 || total > len(b) {
		return 0, errors.New(errors.Truncated, "lstring", "not enough data in buffer to decode string")
	}
	syms, err := s.trees.Decompress(b[1:total])
	if err != nil {
		return 0, err
	}
	s.Text = ""
	for _, c := range syms {
		if c == huffman.Terminator {
			break
		}
		s.Text += mainCharmap.decodeByte(c)
	}
	return total, nil
}

// Encode encodes the text to charset symbols, appends the terminator,
// compresses against the forest, and prepends the total length byte.
func (s *Huffman) Encode() ([]byte, error) {
	syms, err := mainCharmap.encodeString(nil, s.Text)
	if err != nil {
		return nil, err
	}
	syms = append(syms, huffman.Terminator)
	comp, err := s.trees.Compress(syms)
	if err != nil {
		return nil, err
	}
	if len(comp)+1 > 0xFF {
		return nil, errors.Newf(errors.Overflow, "lstring", "compressed string is too long: %d bytes", len(comp)+1)
	}
	out := make([]byte, 0, 1+len(comp))
	out = append(out, byte(len(comp)+1))
	return append(out, comp...), nil
}

// Symbols returns the terminated charset-symbol form of the text, the unit
// over which Huffman frequencies are counted.
func (s *Huffman) Symbols() ([]byte, error) {
	syms, err := mainCharmap.encodeString(nil, s.Text)
	if err != nil {
		return nil, err
	}
	return append(syms, huffman.Terminator), nil
}

// AddFrequencyCounts accumulates this string's symbol transitions into fr,
// for a later forest rebuild.
func (s *Huffman) AddFrequencyCounts(fr huffman.Frequencies) error {
	syms, err := s.Symbols()
	if err != nil {
		return err
	}
	fr.AddString(syms)
	return nil
}

func (s *Huffman) Serialise() string { return s.Text }

func (s *Huffman) Deserialise(in string) error {
	s.Text = in
	return nil
}

func (s *Huffman) HeaderRow() string { return "String" }

func (s *Huffman) EncodedFileExt() string { return ".huf" }
