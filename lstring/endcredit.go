// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lstring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lordmir/lscompress/internal/errors"
)

// EndCredit is one entry of the end-credit roll: an optional run of graphics
// parameter bytes, a (height, column) pair, and a 0x00-terminated payload
// over the end-credit charset. A height of -1 marks the table terminator and
// carries no payload.
type EndCredit struct {
	GfxParams []byte
	Height    int8
	Column    int8
	Text      string
}

var _ String = (*EndCredit)(nil)

// Terminal reports whether this entry terminates the credit table.
func (s *EndCredit) Terminal() bool { return s.Height == -1 }

// Decode reads one credit entry. Graphics parameters are all <= 0xF0 and
// accumulate while the byte after the cursor is also still <= 0xF0: the
// region ends at the height byte, which is either 0xFF (terminator) or the
// byte preceding the column byte, which is always > 0xF0 in non-terminal
// entries (columns are stored negated, in [-15,-1]).
func (s *EndCredit) Decode(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, errors.New(errors.Truncated, "lstring", "not enough bytes to decode string")
	}
	i := 0
	s.GfxParams = nil
	for b[i] <= 0xF0 && b[i+1] <= 0xF0 {
		s.GfxParams = append(s.GfxParams, b[i])
		i++
		if i+1 >= len(b) {
			return 0, errors.New(errors.Truncated, "lstring", "not enough bytes to decode string")
		}
	}
	s.Height = int8(b[i])
	s.Column = int8(b[i+1])
	i += 2
	s.Text = ""
	if s.Terminal() {
		return i, nil
	}
	for {
		if i >= len(b) {
			return 0, errors.New(errors.Truncated, "lstring", "not enough bytes in buffer to decode string")
		}
		c := b[i]
		i++
		if c == 0x00 {
			return i, nil
		}
		s.Text += creditsCharmap.decodeByte(c)
	}
}

// Encode reverses Decode exactly.
func (s *EndCredit) Encode() ([]byte, error) {
	out := append([]byte(nil), s.GfxParams...)
	out = append(out, byte(s.Height), byte(s.Column))
	if s.Terminal() {
		return out, nil
	}
	out, err := creditsCharmap.encodeString(out, s.Text)
	if err != nil {
		return nil, err
	}
	return append(out, 0x00), nil
}

// Serialise renders the columns gfx-params (comma separated), height,
// negated column, and string. The column sign flip is historical: the
// textual tables store columns negated.
func (s *EndCredit) Serialise() string {
	params := make([]string, len(s.GfxParams))
	for i, p := range s.GfxParams {
		params[i] = strconv.Itoa(int(p))
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s",
		strings.Join(params, ","), s.Height, -int(s.Column), s.Text)
}

func (s *EndCredit) Deserialise(in string) error {
	cells := strings.Split(in, "\t")
	if len(cells) < 4 {
		return errors.Newf(errors.InvalidConfig, "lstring", "expected 4 columns in credit string row, got %d", len(cells))
	}
	s.GfxParams = nil
	if cells[0] != "" {
		for _, cell := range strings.Split(cells[0], ",") {
			v, err := strconv.ParseUint(cell, 10, 8)
			if err != nil {
				return errors.Newf(errors.InvalidConfig, "lstring", "bad graphics parameter %q in credit string row", cell)
			}
			s.GfxParams = append(s.GfxParams, byte(v))
		}
	}
	h, err := strconv.ParseInt(cells[1], 10, 8)
	if err != nil {
		return errors.Newf(errors.InvalidConfig, "lstring", "bad height %q in credit string row", cells[1])
	}
	c, err := strconv.ParseInt(cells[2], 10, 16)
	if err != nil {
		return errors.Newf(errors.InvalidConfig, "lstring", "bad column %q in credit string row", cells[2])
	}
	s.Height = int8(h)
	s.Column = int8(-c)
	s.Text = cells[3]
	return nil
}

func (s *EndCredit) HeaderRow() string {
	return "Graphics Data\tHeight\tColumn\tString"
}

func (s *EndCredit) EncodedFileExt() string { return ".bin" }
