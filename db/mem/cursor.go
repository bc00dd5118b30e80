// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package mem

import (
	"github.com/dacapoday/keyrange/btree"
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/iterator"
)

// Cursor walks the live keys of a DB, stepping over tombstones.
type Cursor struct {
	txn    *Txn
	iter   *btree.Iter
	closed bool
}

var _ iterator.Cursor = (*Cursor)(nil)

// WriteCursor is a Cursor of a writable transaction.
type WriteCursor struct {
	*Cursor
}

var _ iterator.Deleter = (*WriteCursor)(nil)

func (c *Cursor) live(ok bool, step func() bool) bool {
	for ok && c.iter.Deleted() {
		ok = step()
	}
	return ok
}

func (c *Cursor) Valid() bool  { return !c.closed && c.iter.Valid() }
func (c *Cursor) Error() error { return nil }
func (c *Cursor) Key() []byte  { return c.iter.Key() }
func (c *Cursor) Val() []byte  { return c.iter.Val() }

func (c *Cursor) Next() bool {
	return !c.closed && c.live(c.iter.Next(), c.iter.Next)
}

func (c *Cursor) Prev() bool {
	return !c.closed && c.live(c.iter.Prev(), c.iter.Prev)
}

func (c *Cursor) SeekFirst() bool {
	return !c.closed && c.live(c.iter.SeekFirst(), c.iter.Next)
}

func (c *Cursor) SeekLast() bool {
	return !c.closed && c.live(c.iter.SeekLast(), c.iter.Prev)
}

func (c *Cursor) Seek(key []byte) bool {
	return !c.closed && c.live(c.iter.Seek(key), c.iter.Next)
}

// Close releases the cursor. The transaction closes any cursor left open
// when it ends.
func (c *Cursor) Close() error {
	c.closed = true
	return nil
}

// Delete removes the key under the cursor. The cursor stays on the
// removed key's position.
func (c *WriteCursor) Delete() error {
	if err := c.txn.check(true); err != nil {
		return err
	}
	if c.closed || !c.iter.Valid() {
		return db.ErrNotPositioned
	}
	return c.txn.Delete(c.iter.Key())
}
