// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ls_lib
// +build !no_ls_lib

package bench

import (
	"github.com/lordmir/lscompress/lz77"
	"github.com/lordmir/lscompress/tilemap"
)

func init() {
	RegisterEncoder("rle",
		func(raw RawTilemap) ([]byte, error) {
			m, err := tilemap.DecodeRaw(raw.Data, raw.Width, raw.Height)
			if err != nil {
				return nil, err
			}
			return m.CompressRLE()
		})
	RegisterDecoder("rle",
		func(b []byte, width, height int) (RawTilemap, error) {
			m, err := tilemap.DecompressRLE(b)
			if err != nil {
				return RawTilemap{}, err
			}
			data, err := m.EncodeRaw()
			if err != nil {
				return RawTilemap{}, err
			}
			return RawTilemap{Width: m.Width, Height: m.Height, Data: data}, nil
		})
	RegisterEncoder("lz77",
		func(raw RawTilemap) ([]byte, error) {
			return lz77.Encode(raw.Data), nil
		})
	RegisterDecoder("lz77",
		func(b []byte, width, height int) (RawTilemap, error) {
			data := make([]byte, 2*width*height)
			n, err := lz77.Decode(data, b)
			if err != nil {
				return RawTilemap{}, err
			}
			return RawTilemap{Width: width, Height: height, Data: data[:n]}, nil
		})
}
