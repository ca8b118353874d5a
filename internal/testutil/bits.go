// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"errors"
	"strconv"
	"strings"
)

// DecodeBits assembles a byte string from a bit script, easing the manual
// authoring of expected codec output. Every format in this library packs
// MSB-first, so the script is big-endian only. Tokens are separated by white
// space; a '#' comments out the rest of its line. Token forms:
//
//	0110        bit group, written left to right
//	D10:300     decimal value in a 10-bit field
//	H12:fff     hexadecimal value in a 12-bit field
//	X:deadcafe  literal bytes; only legal at a byte boundary
//
// Any token may carry a *N suffix repeating it N times. A stream that ends
// off a byte edge is zero-padded to the next byte.
func DecodeBits(s string) ([]byte, error) {
	var toks []string
	for _, line := range strings.Split(s, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		toks = append(toks, strings.Fields(line)...)
	}

	var buf []byte
	nbits := uint(0)
	writeBit := func(bit bool) {
		if nbits == 0 {
			buf = append(buf, 0)
		}
		if bit {
			buf[len(buf)-1] |= 0x80 >> nbits
		}
		nbits = (nbits + 1) & 7
	}

	for _, t := range toks {
		rep := 1
		if i := strings.LastIndexByte(t, '*'); i >= 0 {
			n, err := strconv.Atoi(t[i+1:])
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = t[:i], n
		}

		for ; rep > 0; rep-- {
			switch {
			case strings.Trim(t, "01") == "" && t != "":
				for _, c := range t {
					writeBit(c == '1')
				}
			case strings.HasPrefix(t, "D") || strings.HasPrefix(t, "H"):
				i := strings.IndexByte(t, ':')
				if i < 0 {
					return nil, errors.New("testutil: invalid numeric token: " + t)
				}
				base := 10
				if t[0] == 'H' {
					base = 16
				}
				width, err1 := strconv.Atoi(t[1:i])
				v, err2 := strconv.ParseUint(t[i+1:], base, 64)
				if err1 != nil || err2 != nil || width < 1 || width > 64 || v>>uint(width-1)>>1 != 0 {
					return nil, errors.New("testutil: invalid numeric token: " + t)
				}
				for b := width - 1; b >= 0; b-- {
					writeBit(v&(1<<uint(b)) != 0)
				}
			case strings.HasPrefix(t, "X:"):
				if nbits != 0 {
					return nil, errors.New("testutil: byte token off byte boundary: " + t)
				}
				buf = append(buf, MustDecodeHex(t[2:])...)
			default:
				return nil, errors.New("testutil: invalid token: " + t)
			}
		}
	}
	return buf, nil
}

// MustDecodeBits must decode a bit script or else panics.
func MustDecodeBits(s string) []byte {
	b, err := DecodeBits(s)
	if err != nil {
		panic(err)
	}
	return b
}
