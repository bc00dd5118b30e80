// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package leveldb

import (
	"fmt"
	"sync"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/iterator"
	"github.com/hashicorp/go-multierror"
	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/atomic"
)

// Txn is a snapshot of the store, plus a write batch when writable.
type Txn struct {
	store   *DB
	snap    *leveldb.Snapshot
	batch   *leveldb.Batch
	done    atomic.Bool

	// mu serializes the snapshot, the batch and the cursors against
	// Store.Close running on another goroutine.
	mu      sync.Mutex
	cursors []*Cursor
}

var _ db.Txn = (*Txn)(nil)

// Begin starts a transaction on a fresh snapshot.
func (store *DB) Begin(writable bool) (db.Txn, error) {
	if store.closed.Load() {
		return nil, keyrange.ErrClosed
	}
	snap, err := store.ldb.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("leveldb snapshot: %w", convert(err))
	}
	txn := &Txn{store: store, snap: snap}
	if writable {
		txn.batch = new(leveldb.Batch)
	}
	if !store.track(txn) {
		snap.Release()
		return nil, keyrange.ErrClosed
	}
	return txn, nil
}

// Alive reports whether the transaction and its store are open.
func (txn *Txn) Alive() bool {
	return !txn.done.Load() && !txn.store.closed.Load()
}

func (txn *Txn) Compare(a, b []byte) int {
	return txn.store.cmp(a, b)
}

func (txn *Txn) Provenance() compare.Provenance {
	return txn.store.prov
}

func (txn *Txn) Writable() bool {
	return txn.batch != nil
}

func (txn *Txn) check(write bool) error {
	switch {
	case txn.done.Load():
		return db.ErrTxnDone
	case txn.store.closed.Load():
		return keyrange.ErrClosed
	case write && txn.batch == nil:
		return keyrange.ErrReadOnly
	}
	return nil
}

// Cursor opens an iterator on the snapshot.
func (txn *Txn) Cursor() (iterator.Cursor, error) {
	txn.mu.Lock()
	defer txn.mu.Unlock()
	if err := txn.check(false); err != nil {
		return nil, err
	}
	c := &Cursor{txn: txn, iter: txn.snap.NewIterator(nil, nil)}
	txn.cursors = append(txn.cursors, c)
	if txn.batch != nil {
		return &WriteCursor{c}, nil
	}
	return c, nil
}

// Put buffers a write until Commit.
func (txn *Txn) Put(key, val []byte) error {
	txn.mu.Lock()
	defer txn.mu.Unlock()
	if err := txn.check(true); err != nil {
		return err
	}
	txn.batch.Put(key, val)
	return nil
}

// Delete buffers a deletion until Commit.
func (txn *Txn) Delete(key []byte) error {
	txn.mu.Lock()
	defer txn.mu.Unlock()
	return txn.delete(key)
}

func (txn *Txn) delete(key []byte) error {
	if err := txn.check(true); err != nil {
		return err
	}
	txn.batch.Delete(key)
	return nil
}

// Commit applies the batch atomically and ends the transaction.
func (txn *Txn) Commit() error {
	txn.mu.Lock()
	if err := txn.check(false); err != nil {
		txn.mu.Unlock()
		return err
	}
	err := txn.flush()
	txn.mu.Unlock()
	return multierror.Append(err, txn.end()).ErrorOrNil()
}

func (txn *Txn) flush() error {
	if txn.batch == nil || txn.batch.Len() == 0 {
		return nil
	}
	return convert(txn.store.ldb.Write(txn.batch, nil))
}

// Rollback discards the batch. Rolling back a finished transaction is
// a no-op.
func (txn *Txn) Rollback() error {
	return txn.end()
}

func (txn *Txn) end() error {
	err := txn.discard()
	txn.store.untrack(txn)
	return err
}

// discard ends the transaction. It waits for a cursor operation running
// on another goroutine to return.
func (txn *Txn) discard() error {
	txn.mu.Lock()
	defer txn.mu.Unlock()
	txn.release()
	return nil
}

// release frees the snapshot and every cursor. txn.mu must be held.
func (txn *Txn) release() {
	if !txn.done.CompareAndSwap(false, true) {
		return
	}
	for _, c := range txn.cursors {
		c.release()
	}
	txn.cursors = nil
	if txn.batch != nil {
		txn.batch.Reset()
	}
	txn.snap.Release()
}
