// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package pebble is a pebble-backed store.
//
// Transactions work as in package leveldb: a snapshot to read from and,
// when writable, a batch committed atomically.
package pebble

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
)

// DB is a pebble store. It is safe for concurrent use.
type DB struct {
	pdb    *pebble.DB
	cmp    compare.Func
	prov   compare.Provenance
	wo     *pebble.WriteOptions
	logger hclog.Logger
	closed atomic.Bool

	mu   sync.Mutex
	txns map[*Txn]struct{}
}

var _ db.Store = (*DB)(nil)

// Open opens the store in the directory path, creating it if missing.
// An empty path opens it on an in-memory filesystem.
func Open(path string, opts ...Option) (*DB, error) {
	opt := option{cacheSize: DefaultCacheSize}
	for _, o := range opts {
		o(&opt)
	}
	if opt.logger == nil {
		opt.logger = hclog.NewNullLogger()
	}
	log := opt.logger.Named("pebble")

	cache := pebble.NewCache(opt.cacheSize)
	defer cache.Unref()

	options := &pebble.Options{
		Cache:  cache,
		Logger: logger{log},
	}
	if path == "" {
		options.FS = vfs.NewMem()
	}
	store := &DB{
		cmp:    compare.Bytes,
		wo:     pebble.Sync,
		logger: log,
		txns:   make(map[*Txn]struct{}),
	}
	if opt.noSync {
		store.wo = pebble.NoSync
	}
	if opt.cmp != nil {
		options.Comparer = comparer(opt.name, opt.cmp)
		store.cmp = opt.cmp
		store.prov = compare.Storage
	}

	log.Info("pebble",
		"path", path,
		"CacheSize", fmt.Sprintf("%d Mib", opt.cacheSize>>20),
		"NoSync", opt.noSync,
		"Comparer", opt.name,
	)

	pdb, err := pebble.Open(path, options)
	if err != nil {
		return nil, fmt.Errorf("open pebble %q: %w", path, err)
	}
	store.pdb = pdb
	return store, nil
}

// comparer derives a pebble comparer from cmp. Keys are never shortened
// and abbreviated keys always tie, leaving every decision to cmp.
func comparer(name string, cmp compare.Func) *pebble.Comparer {
	c := *pebble.DefaultComparer
	c.Name = name
	c.Compare = pebble.Compare(cmp)
	c.Equal = func(a, b []byte) bool {
		return cmp(a, b) == 0
	}
	c.AbbreviatedKey = func(key []byte) uint64 {
		return 0
	}
	c.Separator = func(dst, a, b []byte) []byte {
		return append(dst, a...)
	}
	c.Successor = func(dst, b []byte) []byte {
		return append(dst, b...)
	}
	return &c
}

func (store *DB) Compare(a, b []byte) int {
	return store.cmp(a, b)
}

// Get returns a copy of the value stored under key.
func (store *DB) Get(key []byte) ([]byte, error) {
	if store.closed.Load() {
		return nil, keyrange.ErrClosed
	}
	val, closer, err := store.pdb.Get(key)
	if err != nil {
		return nil, convert(err)
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (store *DB) Put(key, val []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	return store.pdb.Set(key, val, store.wo)
}

func (store *DB) Delete(key []byte) error {
	if store.closed.Load() {
		return keyrange.ErrClosed
	}
	return store.pdb.Delete(key, store.wo)
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
	result = multierror.Append(result, store.pdb.Close())
	return result.ErrorOrNil()
}

func (store *DB) untrack(txn *Txn) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.txns, txn)
}

func convert(err error) error {
	if errors.Is(err, pebble.ErrNotFound) {
		return db.ErrNotFound
	}
	return err
}
