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

// A charmap is a finite, ordered mapping from encoded bytes to glyph strings.
// Decoding a byte outside the map yields the escape {HH}; encoding walks the
// table in order and consumes the first glyph that prefixes the remaining
// input, so charmaps must not contain prefix-ambiguous entries.
type charmap struct {
	entries []charmapEntry
	dec     [256]string
}

type charmapEntry struct {
	code  byte
	glyph string
}

func newCharmap(entries []charmapEntry) *charmap {
	m := &charmap{entries: entries}
	for _, e := range entries {
		m.dec[e.code] = e.glyph
	}
	return m
}

// decodeByte returns the glyph for code, or the {HH} escape if the charmap
// has no entry for it.
func (m *charmap) decodeByte(code byte) string {
	if g := m.dec[code]; g != "" {
		return g
	}
	return fmt.Sprintf("{%02X}", code)
}

// encodeNext encodes the next glyph of s. It returns the encoded byte and the
// number of input characters consumed.
func (m *charmap) encodeNext(s string) (code byte, n int, err error) {
	for _, e := range m.entries {
		if strings.HasPrefix(s, e.glyph) {
			return e.code, len(e.glyph), nil
		}
	}
	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, errors.New(errors.InvalidGlyph, "lstring", "unterminated escape in string")
		}
		v, perr := strconv.ParseUint(s[1:end], 16, 64)
		if perr != nil || v > 0xFF {
			return 0, 0, errors.Newf(errors.InvalidGlyph, "lstring", "bad character number %q in string", s[1:end])
		}
		return byte(v), end + 1, nil
	}
	return 0, 0, errors.Newf(errors.InvalidGlyph, "lstring", "bad character %q in string", s[0])
}

// encodeString encodes all of s into out, returning the appended slice.
func (m *charmap) encodeString(out []byte, s string) ([]byte, error) {
	for len(s) > 0 {
		code, n, err := m.encodeNext(s)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
		s = s[n:]
	}
	return out, nil
}
