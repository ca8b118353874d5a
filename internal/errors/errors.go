// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements the tagged error type shared by every codec in
// this library.
//
// Codec internals are written in a panic style for simplicity: bit readers
// and stream walkers panic with an *Error when they hit a structural problem,
// and every exported codec function converts the panic back into an ordinary
// error return with Recover. A runtime.Error is never swallowed.
package errors

import (
	"fmt"
	"runtime"
)

// Kind classifies a codec failure.
type Kind int

const (
	// Unknown is the zero Kind and should not be constructed directly.
	Unknown Kind = iota

	// Truncated indicates the end of the input buffer was reached before a
	// complete record could be read.
	Truncated

	// Corrupted indicates a structurally impossible encoding: a bad command
	// code, an unused Huffman context, an overlong run, a missing terminator.
	Corrupted

	// OutputOverflow indicates a caller-supplied output buffer was smaller
	// than the produced output.
	OutputOverflow

	// InvalidGlyph indicates a source character with no charmap entry and no
	// valid {HH} escape during string encoding.
	InvalidGlyph

	// Overflow indicates an encoded string no longer fits its length byte.
	Overflow

	// InvalidConfig indicates an operation whose preconditions fail, such as
	// a palette index above 3.
	InvalidConfig
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated input"
	case Corrupted:
		return "corrupted stream"
	case OutputOverflow:
		return "output overflow"
	case InvalidGlyph:
		return "invalid glyph"
	case Overflow:
		return "overflow"
	case InvalidConfig:
		return "invalid configuration"
	}
	return "unknown error"
}

// Error is the error type returned by all packages in this library.
type Error struct {
	Kind Kind
	Pkg  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Pkg + ": " + e.Kind.String()
	}
	return e.Pkg + ": " + e.Msg
}

// New constructs an *Error for the given package.
func New(k Kind, pkg, msg string) *Error {
	return &Error{Kind: k, Pkg: pkg, Msg: msg}
}

// Newf constructs an *Error with a formatted message.
func Newf(k Kind, pkg, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Pkg: pkg, Msg: fmt.Sprintf(format, args...)}
}

// Panic panics with an *Error; the matching Recover at the API boundary
// converts it into an error return.
func Panic(k Kind, pkg, msg string) {
	panic(New(k, pkg, msg))
}

// Recover converts a panicking *Error into an error return value. It must be
// installed with defer. Any other error value is recovered the same way;
// runtime errors and panic values that are not errors propagate.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case *Error:
		*err = ex
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
