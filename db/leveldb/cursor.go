// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package leveldb

import (
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/iterator"
	ldbiter "github.com/syndtr/goleveldb/leveldb/iterator"
)

// Cursor walks a snapshot. Each call holds the transaction lock, so a
// store closed from another goroutine never releases the iterator under
// a running call. Once released the cursor reports no position.
type Cursor struct {
	txn    *Txn
	iter   ldbiter.Iterator
	closed bool
}

var _ iterator.Cursor = (*Cursor)(nil)

// WriteCursor is a Cursor of a writable transaction. Deletions go to the
// transaction's batch and leave the snapshot untouched.
type WriteCursor struct {
	*Cursor
}

var _ iterator.Deleter = (*WriteCursor)(nil)

func (c *Cursor) move(step func() bool) bool {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	return !c.closed && step()
}

func (c *Cursor) Next() bool      { return c.move(c.iter.Next) }
func (c *Cursor) Prev() bool      { return c.move(c.iter.Prev) }
func (c *Cursor) SeekFirst() bool { return c.move(c.iter.First) }
func (c *Cursor) SeekLast() bool  { return c.move(c.iter.Last) }

func (c *Cursor) Seek(key []byte) bool {
	return c.move(func() bool { return c.iter.Seek(key) })
}

func (c *Cursor) Valid() bool {
	return c.move(c.iter.Valid)
}

func (c *Cursor) Error() error {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.iter.Error()
}

func (c *Cursor) Key() []byte {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.iter.Key()
}

func (c *Cursor) Val() []byte {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.iter.Value()
}

// Close releases the iterator. Closing twice is harmless.
func (c *Cursor) Close() error {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	c.release()
	return nil
}

// release frees the iterator. txn.mu must be held.
func (c *Cursor) release() {
	if c.closed {
		return
	}
	c.closed = true
	c.iter.Release()
}

func (c *WriteCursor) Delete() error {
	c.txn.mu.Lock()
	defer c.txn.mu.Unlock()
	if err := c.txn.check(true); err != nil {
		return err
	}
	if c.closed || !c.iter.Valid() {
		return db.ErrNotPositioned
	}
	return c.txn.delete(c.iter.Key())
}
