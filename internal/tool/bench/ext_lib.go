// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ext_lib
// +build !no_ext_lib

package bench

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz"
)

func init() {
	RegisterEncoder("fl",
		func(raw RawTilemap) ([]byte, error) {
			var buf bytes.Buffer
			zw, err := flate.NewWriter(&buf, 6)
			if err != nil {
				return nil, err
			}
			if _, err := zw.Write(raw.Data); err != nil {
				return nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		})
	RegisterDecoder("fl",
		func(b []byte, width, height int) (RawTilemap, error) {
			zr := flate.NewReader(bytes.NewReader(b))
			defer zr.Close()
			data, err := io.ReadAll(zr)
			if err != nil {
				return RawTilemap{}, err
			}
			return RawTilemap{Width: width, Height: height, Data: data}, nil
		})
	RegisterEncoder("xz",
		func(raw RawTilemap) ([]byte, error) {
			var buf bytes.Buffer
			zw, err := xz.NewWriter(&buf)
			if err != nil {
				return nil, err
			}
			if _, err := zw.Write(raw.Data); err != nil {
				return nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		})
	RegisterDecoder("xz",
		func(b []byte, width, height int) (RawTilemap, error) {
			zr, err := xz.NewReader(bytes.NewReader(b))
			if err != nil {
				return RawTilemap{}, err
			}
			data, err := io.ReadAll(zr)
			if err != nil {
				return RawTilemap{}, err
			}
			return RawTilemap{Width: width, Height: height, Data: data}, nil
		})
}
