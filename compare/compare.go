// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package compare provides total orders over byte-string keys.
package compare

import "bytes"

// Func is a three-way comparison: negative when a < b, zero when equal,
// positive when a > b. It must be a total order.
type Func func(a, b []byte) int

// Compare calls f. It lets a Func serve as a keyrange.Comparer.
func (f Func) Compare(a, b []byte) int {
	return f(a, b)
}

// Bytes orders keys lexicographically, the native order of every
// backend in this module.
var Bytes Func = bytes.Compare

// Reverse returns the inverse order of f.
func Reverse(f Func) Func {
	return func(a, b []byte) int {
		return f(b, a)
	}
}

// Numeric orders keys as big-endian unsigned integers of any width.
// Leading zero bytes are insignificant, so "\x00\x05" equals "\x05".
// For keys of one fixed width it agrees with Bytes.
func Numeric(a, b []byte) int {
	a, b = trimZeros(a), trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

func trimZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

// Provenance tells where the order used for range checks comes from.
type Provenance uint8

const (
	// Intrinsic is the store's own physical order.
	Intrinsic Provenance = iota
	// Bounds is a host order used only for range checks; the store keeps
	// its native order. Both must agree.
	Bounds
	// Storage is a host order that the store was opened with and uses to
	// place keys.
	Storage
)

func (p Provenance) String() string {
	switch p {
	case Intrinsic:
		return "intrinsic"
	case Bounds:
		return "bounds"
	case Storage:
		return "storage"
	}
	return "unknown"
}
