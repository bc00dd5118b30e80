// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package leveldb is a goleveldb-backed store.
//
// Read transactions run on a snapshot. Writable transactions read from a
// snapshot too, and buffer their writes in a batch applied atomically on
// Commit, so a traversal never observes its own removals.
package leveldb

import (
	"errors"
	"sync"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"go.uber.org/atomic"
)

// DB is a goleveldb store. It is safe for concurrent use.
type DB struct {
	ldb    *leveldb.DB
	mem    storage.Storage
	cmp    compare.Func
	prov   compare.Provenance
	logger hclog.Logger
	closed atomic.Bool

	mu   sync.Mutex
	txns map[*Txn]struct{}
}

var _ db.Store = (*DB)(nil)

// Compare orders keys the way the store does.
func (store *DB) Compare(a, b []byte) int {
	return store.cmp(a, b)
}

// Get returns the value stored under key.
func (store *DB) Get(key []byte) ([]byte, error) {
	if store.closed.Load() {
		return nil, keyrange.ErrClosed
	}
	val, err := store.ldb.Get(key, nil)
	return val, convert(err)
}

func (store *DB) Put(key, val []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	return convert(store.ldb.Put(key, val, nil))
}

func (store *DB) Delete(key []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	return convert(store.ldb.Delete(key, nil))
}

// Close ends every open transaction, discarding uncommitted writes, and
// closes the database.
func (store *DB) Close() error {
	if !store.closed.CompareAndSwap(false, true) {
		return nil
	}

	store.mu.Lock()
	txns := store.txns
	store.txns = nil
	store.mu.Unlock()

	var result *multierror.Error
	for txn := range txns {
		result = multierror.Append(result, txn.discard())
	}
	if len(txns) > 0 {
		store.logger.Warn("closed with open transactions", "count", len(txns))
	}
	result = multierror.Append(result, store.ldb.Close())
	if store.mem != nil {
		result = multierror.Append(result, store.mem.Close())
	}
	return result.ErrorOrNil()
}

func (store *DB) track(txn *Txn) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.txns == nil {
		return false
	}
	store.txns[txn] = struct{}{}
	return true
}

func (store *DB) untrack(txn *Txn) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.txns, txn)
}

func convert(err error) error {
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return db.ErrNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return keyrange.ErrClosed
	}
	return err
}
