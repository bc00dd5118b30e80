// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package db defines the store and transaction contract shared by the
// backends under it. A Txn satisfies cursor.Source, so ranges can be
// walked over any backend the same way.
package db

import (
	"errors"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/iterator"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrTxnDone       = errors.New("transaction done")
	ErrNotPositioned = errors.New("cursor not positioned")
)

// Store represents an ordered key-value store.
type Store interface {
	Writer
	Get(key []byte) ([]byte, error)
	// Begin starts a transaction. A read transaction sees a consistent
	// view; a writable one additionally hands out cursors that can delete.
	Begin(writable bool) (Txn, error)
	Close() error
}

type Writer interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Txn is a transaction. It must end with Commit or Rollback; cursors it
// handed out are released then, and Alive reports false from that point
// or from the moment the store is closed.
type Txn interface {
	keyrange.Liveness
	keyrange.Comparer
	Writer
	Writable() bool
	// Provenance tells whether the store order is its native one or a
	// host comparator it was opened with.
	Provenance() compare.Provenance
	// Cursor opens a cursor on the transaction's view. Cursors of
	// writable transactions implement iterator.Deleter.
	Cursor() (iterator.Cursor, error)
	Commit() error
	Rollback() error
}
