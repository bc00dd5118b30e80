// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package btree

import (
	"slices"

	"github.com/dacapoday/keyrange/iterator"
)

// Iter creates an iterator that stays synchronized with the BTree (not a snapshot).
// Call SeekFirst, SeekLast, or Seek to position it before use.
//
// Iter visits tombstones; check Deleted to skip them.
func (btree *BTree) Iter() *Iter {
	return &Iter{tree: btree, version: btree.version}
}

// Iter is a positioned walk over a BTree.
type Iter struct {
	tree    *BTree
	path    []frame
	key     []byte
	version uint64
	valid   bool
}

// frame is one level of the path from the root. On the last frame, i is
// the current item; on the others, i is the child the path descends into.
type frame struct {
	n *node
	i int
}

var _ iterator.Iterator = (*Iter)(nil)

// Clone creates an independent copy of the iterator at its current position.
func (it *Iter) Clone() *Iter {
	clone := *it
	clone.path = slices.Clone(it.path)
	return &clone
}

// sync re-seeks the current key after the tree changed shape.
// Keys are never removed except by Reset, so the position survives.
func (it *Iter) sync() {
	if it.version == it.tree.version {
		return
	}
	if !it.valid {
		it.reset()
		return
	}
	it.seek(it.key)
}

func (it *Iter) reset() {
	it.version = it.tree.version
	it.path = it.path[:0]
}

func (it *Iter) item() *item {
	f := &it.path[len(it.path)-1]
	return &f.n.items[f.i]
}

func (it *Iter) settle(ok bool) bool {
	it.valid = ok
	if ok {
		it.key = it.item().key
	} else {
		it.key = nil
		it.path = it.path[:0]
	}
	return ok
}

func (it *Iter) descendLeft(n *node) {
	for {
		it.path = append(it.path, frame{n, 0})
		if n.leaf() {
			return
		}
		n = n.children[0]
	}
}

func (it *Iter) descendRight(n *node) {
	for !n.leaf() {
		it.path = append(it.path, frame{n, len(n.items)})
		n = n.children[len(n.items)]
	}
	it.path = append(it.path, frame{n, len(n.items) - 1})
}

// Valid returns true if positioned at a key, live or deleted.
func (it *Iter) Valid() bool {
	it.sync()
	return it.valid
}

// Error exists for Iterator interface compatibility.
func (it *Iter) Error() error {
	return nil
}

// Key returns the current key, or nil if invalid.
func (it *Iter) Key() []byte {
	return it.key
}

// Val returns the current value, or nil if invalid or deleted.
func (it *Iter) Val() []byte {
	it.sync()
	if !it.valid {
		return nil
	}
	return it.item().val
}

// Deleted reports whether the current key is a tombstone.
func (it *Iter) Deleted() bool {
	it.sync()
	return it.valid && it.item().dead
}

// Next advances to the next key. Returns false if no more items.
func (it *Iter) Next() bool {
	it.sync()
	if !it.valid {
		return false
	}

	f := &it.path[len(it.path)-1]
	if !f.n.leaf() {
		f.i++
		it.descendLeft(f.n.children[f.i])
		return it.settle(true)
	}
	if f.i++; f.i < len(f.n.items) {
		return it.settle(true)
	}
	for it.path = it.path[:len(it.path)-1]; len(it.path) > 0; it.path = it.path[:len(it.path)-1] {
		if f = &it.path[len(it.path)-1]; f.i < len(f.n.items) {
			return it.settle(true)
		}
	}
	return it.settle(false)
}

// Prev moves to the previous key. Returns false if no more items.
func (it *Iter) Prev() bool {
	it.sync()
	if !it.valid {
		return false
	}

	f := &it.path[len(it.path)-1]
	if !f.n.leaf() {
		it.descendRight(f.n.children[f.i])
		return it.settle(true)
	}
	if f.i > 0 {
		f.i--
		return it.settle(true)
	}
	for it.path = it.path[:len(it.path)-1]; len(it.path) > 0; it.path = it.path[:len(it.path)-1] {
		if f = &it.path[len(it.path)-1]; f.i > 0 {
			f.i--
			return it.settle(true)
		}
	}
	return it.settle(false)
}

// SeekFirst positions the iterator at the first key. Returns false if BTree is empty.
func (it *Iter) SeekFirst() bool {
	it.reset()
	if it.tree.root == nil {
		return it.settle(false)
	}
	it.descendLeft(it.tree.root)
	return it.settle(true)
}

// SeekLast positions the iterator at the last key. Returns false if BTree is empty.
func (it *Iter) SeekLast() bool {
	it.reset()
	if it.tree.root == nil {
		return it.settle(false)
	}
	it.descendRight(it.tree.root)
	return it.settle(true)
}

// Seek positions the iterator at the first key >= the given key.
// Returns false if no such key exists.
func (it *Iter) Seek(key []byte) bool {
	return it.seek(key)
}

func (it *Iter) seek(key []byte) bool {
	it.reset()
	n := it.tree.root
	if n == nil {
		return it.settle(false)
	}
	for {
		i, found := n.search(key, it.tree.Compare)
		it.path = append(it.path, frame{n, i})
		if found {
			return it.settle(true)
		}
		if !n.leaf() {
			n = n.children[i]
			continue
		}
		if i < len(n.items) {
			return it.settle(true)
		}
		for it.path = it.path[:len(it.path)-1]; len(it.path) > 0; it.path = it.path[:len(it.path)-1] {
			if f := &it.path[len(it.path)-1]; f.i < len(f.n.items) {
				return it.settle(true)
			}
		}
		return it.settle(false)
	}
}
