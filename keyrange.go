// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package keyrange defines the collaborator interfaces of a range-bounded
// cursor iteration engine over ordered key-value stores.
//
// A range is described by package span, walked by package cursor, and
// served by any store whose cursors satisfy iterator.Cursor.
package keyrange

// Liveness reports whether the transaction or store that owns a cursor
// is still open. Once Alive returns false, the memory behind any key or
// value read from the cursor must be considered invalid.
type Liveness interface {
	Alive() bool
}

// Comparer exposes a total order over keys.
//
// Compare returns a negative number when a < b, zero when a == b and a
// positive number when a > b. A store that implements Comparer reports
// the order it physically places keys in.
type Comparer interface {
	Compare(a, b []byte) int
}
