// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lstring implements the game's four string table formats.
//
// All variants share a table-driven character map layer: each encoded byte
// maps to a printable glyph, bytes without a mapping round-trip through the
// {HH} escape, and control codes appear as named macros like {K1}. The
// variants differ in framing:
//
//   - Plain: a length byte followed by that many charset bytes.
//   - Intro: five big-endian u16 display parameters, then a two-line payload
//     terminated by 0xFF.
//   - EndCredit: a variable-length graphics-parameter prefix, a (height,
//     column) byte pair, then a payload terminated by 0x00.
//   - Huffman: a length byte followed by a bit stream compressed against the
//     per-prefix Huffman forest (package huffman).
//
// Decode methods report the number of bytes consumed so that callers can walk
// concatenated string tables. Serialise and Deserialise convert to and from
// one line of a tab-separated table.
package lstring

import (
	"fmt"

	"github.com/lordmir/lscompress/internal/errors"
)

// String is the capability set common to all four variants.
type String interface {
	// Decode consumes one encoded string from the front of b and reports the
	// number of bytes consumed.
	Decode(b []byte) (int, error)

	// Encode produces the encoded byte form.
	Encode() ([]byte, error)

	// Serialise renders one line of the tab-separated textual table.
	Serialise() string

	// Deserialise is the inverse of Serialise.
	Deserialise(s string) error

	// HeaderRow returns the column headings for the textual table.
	HeaderRow() string

	// EncodedFileExt returns the conventional file extension for the encoded
	// form.
	EncodedFileExt() string
}

// Plain is a length-prefixed string over the main 85-entry charset, used for
// character and item names.
type Plain struct {
	Text string
}

var _ String = (*Plain)(nil)

// Decode reads a length byte and that many charset bytes.
func (s *Plain) Decode(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, errors.New(errors.Truncated, "lstring", "missing length byte")
	}
	n := int(b[0])
	if n > len(b)-1 {
		return 0, errors.New(errors.Truncated, "lstring", "not enough bytes in buffer to decode string")
	}
	s.Text = ""
	for _, c := range b[1 : 1+n] {
		s.Text += mainCharmap.decodeByte(c)
	}
	return 1 + n, nil
}

// Encode writes the length byte followed by the charset bytes. Strings that
// encode to more than 255 bytes fail with Overflow.
func (s *Plain) Encode() ([]byte, error) {
	body, err := mainCharmap.encodeString(nil, s.Text)
	if err != nil {
		return nil, err
	}
	if len(body) > 0xFF {
		return nil, errors.Newf(errors.Overflow, "lstring", "string is too long: %d bytes", len(body))
	}
	out := make([]byte, 0, 1+len(body))
	out = append(out, byte(len(body)))
	return append(out, body...), nil
}

func (s *Plain) Serialise() string { return s.Text }

func (s *Plain) Deserialise(in string) error {
	s.Text = in
	return nil
}

func (s *Plain) HeaderRow() string { return "String" }

func (s *Plain) EncodedFileExt() string { return ".bin" }

func (s *Plain) String() string { return fmt.Sprintf("%q", s.Text) }
