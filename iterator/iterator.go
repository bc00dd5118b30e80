// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package iterator defines the cursor contract a store must offer to be
// walked by package cursor. No iteration logic lives here.
package iterator

// Iterator represents a cursor over a sorted key-value dataset.
// The iterator maintains a current position and can be moved forward or backward
// through the dataset in the store's key order.
//
// Usage:
//
//	for iter.SeekFirst(); iter.Valid(); iter.Next() {
//	    key, val := iter.Key(), iter.Val()
//	    // process key, val
//	}
//	if err := iter.Error(); err != nil {
//	    // handle error
//	}
type Iterator interface {
	// Valid returns true if positioned at a valid key-value pair.
	// Returns false when not positioned; check Error() to distinguish the cause.
	Valid() bool

	// Error returns any error that occurred during operations.
	// Returns nil when not positioned due to normal conditions (initial state,
	// boundary reached, empty dataset). Returns non-nil for storage failures.
	Error() error

	// Key returns the key at the current iterator position.
	// The returned slice is valid only until the next iterator operation
	// or the end of the owning transaction.
	Key() []byte

	// Val returns the value at the current iterator position.
	// The returned slice is valid only until the next iterator operation
	// or the end of the owning transaction.
	Val() []byte

	// Next advances to the next key-value pair. Returns false past the end.
	Next() bool

	// Prev moves to the previous key-value pair. Returns false before the beginning.
	Prev() bool

	// SeekFirst positions at the first (smallest) key.
	// Returns false if the dataset is empty.
	SeekFirst() bool

	// SeekLast positions at the last (largest) key.
	// Returns false if the dataset is empty.
	SeekLast() bool

	// Seek positions at the first key that is greater than or equal
	// to the given key. Returns false if there is no such key.
	Seek(key []byte) bool
}

// Cursor is an Iterator holding a store resource that must be released.
type Cursor interface {
	Iterator
	// Close releases the cursor. It is safe to call more than once.
	Close() error
}

// Deleter is implemented by cursors of writable transactions.
type Deleter interface {
	// Delete removes the key under the cursor. It is only valid while the
	// cursor is positioned; afterwards Next and Prev move on from the
	// deleted key's position.
	Delete() error
}
