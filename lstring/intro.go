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

// introLineLen is the byte length of the first line's slot in the payload.
// Decoded bytes past this position belong to line 2.
const introLineLen = 16

// Intro is an intro-sequence caption: five big-endian display parameters
// followed by up to two lines over the 30-entry intro charset, terminated by
// 0xFF.
type Intro struct {
	Line1Y      uint16
	Line1X      uint16
	Line2Y      uint16
	Line2X      uint16
	DisplayTime uint16
	Line1       string
	Line2       string
}

var _ String = (*Intro)(nil)

// Decode reads the five parameter words and the 0xFF-terminated payload.
func (s *Intro) Decode(b []byte) (int, error) {
	if len(b) < 10 {
		return 0, errors.New(errors.Truncated, "lstring", "not enough bytes in buffer to decode string params")
	}
	s.Line1Y = uint16(b[0])<<8 | uint16(b[1])
	s.Line1X = uint16(b[2])<<8 | uint16(b[3])
	s.Line2Y = uint16(b[4])<<8 | uint16(b[5])
	s.Line2X = uint16(b[6])<<8 | uint16(b[7])
	s.DisplayTime = uint16(b[8])<<8 | uint16(b[9])
	s.Line1, s.Line2 = "", ""
	i := 10
	for {
		if i >= len(b) {
			return 0, errors.New(errors.Truncated, "lstring", "not enough bytes in buffer to decode string")
		}
		c := b[i]
		if c == 0xFF {
			return i + 1, nil
		}
		if i-10 < introLineLen {
			s.Line1 += introCharmap.decodeByte(c)
		} else {
			s.Line2 += introCharmap.decodeByte(c)
		}
		i++
	}
}

// Encode writes the parameter words and payload. When line 2 is non-empty,
// line 1 is padded out to its 16-byte slot with the space glyph.
func (s *Intro) Encode() ([]byte, error) {
	out := []byte{
		byte(s.Line1Y >> 8), byte(s.Line1Y),
		byte(s.Line1X >> 8), byte(s.Line1X),
		byte(s.Line2Y >> 8), byte(s.Line2Y),
		byte(s.Line2X >> 8), byte(s.Line2X),
		byte(s.DisplayTime >> 8), byte(s.DisplayTime),
	}
	body, err := introCharmap.encodeString(nil, s.Line1)
	if err != nil {
		return nil, err
	}
	if s.Line2 != "" {
		for len(body) < introLineLen {
			body = append(body, 0x00)
		}
		body, err = introCharmap.encodeString(body, s.Line2)
		if err != nil {
			return nil, err
		}
	}
	out = append(out, body...)
	return append(out, 0xFF), nil
}

// Serialise renders the columns Line1_X, Line1_Y, Line2_X, Line2_Y,
// DisplayTime, Line1, Line2.
func (s *Intro) Serialise() string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%s\t%s",
		s.Line1X, s.Line1Y, s.Line2X, s.Line2Y, s.DisplayTime, s.Line1, s.Line2)
}

func (s *Intro) Deserialise(in string) error {
	cells := strings.Split(in, "\t")
	if len(cells) < 7 {
		return errors.Newf(errors.InvalidConfig, "lstring", "expected 7 columns in intro string row, got %d", len(cells))
	}
	nums := make([]uint16, 5)
	for i := range nums {
		v, err := strconv.ParseUint(cells[i], 10, 16)
		if err != nil {
			return errors.Newf(errors.InvalidConfig, "lstring", "bad numeric cell %q in intro string row", cells[i])
		}
		nums[i] = uint16(v)
	}
	s.Line1X, s.Line1Y, s.Line2X, s.Line2Y, s.DisplayTime = nums[0], nums[1], nums[2], nums[3], nums[4]
	s.Line1 = cells[5]
	s.Line2 = cells[6]
	return nil
}

func (s *Intro) HeaderRow() string {
	return "Line1_X\tLine1_Y\tLine2_X\tLine2_Y\tDisplayTime\tLine1\tLine2"
}

func (s *Intro) EncodedFileExt() string { return ".bin" }
