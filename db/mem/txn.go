// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package mem

import (
	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/iterator"
	"go.uber.org/atomic"
)

// Txn is a transaction over a DB. A read Txn holds the store's read
// lock and a writable Txn its write lock until Commit or Rollback.
type Txn struct {
	store    *DB
	writable bool
	done     atomic.Bool
	undo     []change
	cursors  []*Cursor
}

// change records what a key looked like before a write.
type change struct {
	key, val []byte
	existed  bool
}

var _ db.Txn = (*Txn)(nil)

// Begin starts a transaction. It blocks while a conflicting transaction
// is open.
func (store *DB) Begin(writable bool) (db.Txn, error) {
	if store.closed.Load() {
		return nil, keyrange.ErrClosed
	}
	if writable {
		store.rw.Lock()
	} else {
		store.rw.RLock()
	}
	return &Txn{store: store, writable: writable}, nil
}

// Alive reports whether the transaction and its store are open.
func (txn *Txn) Alive() bool {
	return !txn.done.Load() && !txn.store.closed.Load()
}

func (txn *Txn) Compare(a, b []byte) int {
	return txn.store.tree.Compare(a, b)
}

func (txn *Txn) Provenance() compare.Provenance {
	return txn.store.prov
}

func (txn *Txn) Writable() bool {
	return txn.writable
}

func (txn *Txn) check(write bool) error {
	switch {
	case txn.done.Load():
		return db.ErrTxnDone
	case txn.store.closed.Load():
		return keyrange.ErrClosed
	case write && !txn.writable:
		return keyrange.ErrReadOnly
	}
	return nil
}

// Cursor opens a cursor on the live tree. Cursors of a writable
// transaction can delete.
func (txn *Txn) Cursor() (iterator.Cursor, error) {
	if err := txn.check(false); err != nil {
		return nil, err
	}
	c := &Cursor{txn: txn, iter: txn.store.tree.Iter()}
	txn.cursors = append(txn.cursors, c)
	if txn.writable {
		return &WriteCursor{c}, nil
	}
	return c, nil
}

func (txn *Txn) Put(key, val []byte) error {
	if err := txn.check(true); err != nil {
		return err
	}
	key = clone(key)
	txn.remember(key)
	txn.store.tree.Set(key, clone(val))
	return nil
}

func (txn *Txn) Delete(key []byte) error {
	if err := txn.check(true); err != nil {
		return err
	}
	txn.remember(clone(key))
	txn.store.tree.Delete(key)
	return nil
}

func (txn *Txn) remember(key []byte) {
	val, found := txn.store.tree.Get(key)
	txn.undo = append(txn.undo, change{key: key, val: val, existed: found})
}

// Commit keeps the transaction's writes.
func (txn *Txn) Commit() error {
	if !txn.done.CompareAndSwap(false, true) {
		return db.ErrTxnDone
	}
	txn.undo = nil
	txn.release()
	return nil
}

// Rollback undoes the transaction's writes. Rolling back a finished
// transaction is a no-op.
func (txn *Txn) Rollback() error {
	if !txn.done.CompareAndSwap(false, true) {
		return nil
	}
	for i := len(txn.undo) - 1; i >= 0; i-- {
		c := &txn.undo[i]
		if c.existed {
			txn.store.tree.Set(c.key, c.val)
		} else {
			txn.store.tree.Delete(c.key)
		}
	}
	txn.undo = nil
	txn.release()
	return nil
}

func (txn *Txn) release() {
	for _, c := range txn.cursors {
		c.Close()
	}
	txn.cursors = nil
	if txn.writable {
		txn.store.rw.Unlock()
	} else {
		txn.store.rw.RUnlock()
	}
}
