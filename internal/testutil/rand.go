// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand is a deterministic pseudo-random number generator whose output stays
// consistent across Go versions, so tests built on it keep their exact
// corpora.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func NewRand(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

func (r *Rand) Int() (x int) {
	r.Encrypt(r.blk[:], r.blk[:])
	for i := uint(0); i < 7; i++ {
		x |= int(r.blk[i]) << (8 * i)
	}
	x |= int(r.blk[7]&0x3f) << 56
	return x
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Uint16n returns n values below max, the shape of a tile-word corpus.
func (r *Rand) Uint16n(n int, max uint16) []uint16 {
	vals := make([]uint16, n)
	for i := range vals {
		vals[i] = uint16(r.Intn(int(max)))
	}
	return vals
}

func (r *Rand) Bytes(n int) []byte {
	b := make([]byte, n)
	bb := b
	for len(bb) > 0 {
		r.Encrypt(r.blk[:], r.blk[:])
		bb = bb[copy(bb, r.blk[:]):]
	}
	return b
}
