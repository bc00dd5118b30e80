// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package mem is an in-memory ordered store built on btree.
//
// Transactions are serialized the classic way: many readers or one
// writer. Writes are applied in place and undone on Rollback.
package mem

import (
	"bytes"
	"slices"
	"sync"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/btree"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/atomic"
)

type option struct {
	cmp    compare.Func
	logger hclog.Logger
}

// Option configures a DB.
type Option func(*option)

// WithComparator installs cmp as the physical key order.
func WithComparator(cmp compare.Func) Option {
	return func(opt *option) {
		opt.cmp = cmp
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(opt *option) {
		opt.logger = logger
	}
}

// DB is an in-memory store. It is safe for concurrent use.
type DB struct {
	rw     sync.RWMutex
	tree   *btree.BTree
	prov   compare.Provenance
	logger hclog.Logger
	closed atomic.Bool
}

var _ db.Store = (*DB)(nil)

// Open returns an empty store.
func Open(opts ...Option) *DB {
	var opt option
	for _, o := range opts {
		o(&opt)
	}
	if opt.logger == nil {
		opt.logger = hclog.NewNullLogger()
	}

	store := &DB{
		tree:   btree.New(opt.cmp),
		logger: opt.logger,
	}
	if opt.cmp != nil {
		store.prov = compare.Storage
	}
	store.logger.Debug("mem store opened", "order", store.prov)
	return store
}

// Compare orders keys the way the store does.
func (store *DB) Compare(a, b []byte) int {
	return store.tree.Compare(a, b)
}

// Get returns a copy of the value stored under key.
func (store *DB) Get(key []byte) ([]byte, error) {
	if store.closed.Load() {
		return nil, keyrange.ErrClosed
	}
	store.rw.RLock()
	defer store.rw.RUnlock()

	val, found := store.tree.Get(key)
	if !found {
		return nil, db.ErrNotFound
	}
	return bytes.Clone(val), nil
}

// Put stores copies of key and val.
func (store *DB) Put(key, val []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	store.rw.Lock()
	defer store.rw.Unlock()

	store.tree.Set(clone(key), clone(val))
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (store *DB) Delete(key []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	store.rw.Lock()
	defer store.rw.Unlock()

	store.tree.Delete(key)
	return nil
}

// Len returns the number of keys.
func (store *DB) Len() int {
	store.rw.RLock()
	defer store.rw.RUnlock()
	return store.tree.Len()
}

// Keys returns copies of all keys in store order.
func (store *DB) Keys() [][]byte {
	store.rw.RLock()
	defer store.rw.RUnlock()

	keys := make([][]byte, 0, store.tree.Len())
	for key := range store.tree.Items {
		keys = append(keys, slices.Clone(key))
	}
	return keys
}

// Close marks the store closed. Transactions still open report Alive
// false from now on but must still be ended to release their lock.
func (store *DB) Close() error {
	if store.closed.CompareAndSwap(false, true) {
		store.logger.Debug("mem store closed")
	}
	return nil
}

// clone copies b, keeping an empty value distinct from nil.
func clone(b []byte) []byte {
	return append(make([]byte, 0, len(b)), b...)
}
