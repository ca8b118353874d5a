// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lstring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lordmir/lscompress/huffman"
)

// rebuildForest builds a forest covering the given texts.
func rebuildForest(t *testing.T, texts []string) *huffman.Forest {
	t.Helper()
	fr := huffman.NewFrequencies()
	for _, text := range texts {
		s := &Huffman{Text: text}
		assert.Nil(t, s.AddFrequencyCounts(fr))
	}
	f := huffman.NewEmpty()
	assert.Nil(t, f.Rebuild(fr))
	return f
}

func TestHuffmanRoundTrip(t *testing.T) {
	corpus := []string{
		"WELCOME TO THE SHOP!",
		"WILL YOU BUY SOMETHING?",
		"THANK YOU! COME AGAIN!",
	}
	f := rebuildForest(t, corpus)

	for _, text := range corpus {
		s := NewHuffman(f)
		s.Text = text
		b, err := s.Encode()
		assert.Nil(t, err)
		assert.Equal(t, int(b[0]), len(b), "length byte covers itself and the payload")

		d := NewHuffman(f)
		n, err := d.Decode(b)
		assert.Nil(t, err)
		assert.Equal(t, len(b), n)
		assert.Equal(t, text, d.Text)
	}
}

func TestHuffmanTable(t *testing.T) {
	corpus := []string{"NOLE", "KAYLA", "FRIDAY", "MASSAN GREENMAZE"}
	f := rebuildForest(t, corpus)

	// Encode all strings into one table, then walk it back.
	var table []byte
	for _, text := range corpus {
		s := NewHuffman(f)
		s.Text = text
		b, err := s.Encode()
		assert.Nil(t, err)
		table = append(table, b...)
	}
	off := 0
	for i, want := range corpus {
		d := NewHuffman(f)
		n, err := d.Decode(table[off:])
		assert.Nil(t, err, "string %d", i)
		assert.Equal(t, want, d.Text, "string %d", i)
		off += n
	}
	assert.Equal(t, len(table), off)
}

func TestHuffmanReserialisedForest(t *testing.T) {
	corpus := []string{"ABC ABC CAB", "AAAA BBBB"}
	f := rebuildForest(t, corpus)

	// The forest must survive its own on-disk form.
	offsets, blob := f.EncodeTrees()
	f2, err := huffman.New(offsets, blob, huffman.NumContexts)
	assert.Nil(t, err)

	for _, text := range corpus {
		s := NewHuffman(f)
		s.Text = text
		b, err := s.Encode()
		assert.Nil(t, err)

		d := NewHuffman(f2)
		_, err = d.Decode(b)
		assert.Nil(t, err)
		assert.Equal(t, text, d.Text)
	}
}

func TestHuffmanUncoveredSymbol(t *testing.T) {
	f := rebuildForest(t, []string{"AAA"})
	s := NewHuffman(f)
	s.Text = "Z"
	_, err := s.Encode()
	assert.NotNil(t, err, "symbol outside the corpus has no code")
}

func TestHuffmanSerialise(t *testing.T) {
	s := &Huffman{Text: "HELLO"}
	assert.Equal(t, "HELLO", s.Serialise())
	assert.Equal(t, ".huf", s.EncodedFileExt())

	var d Huffman
	assert.Nil(t, d.Deserialise("HELLO"))
	assert.Equal(t, "HELLO", d.Text)
}
