// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package btree provides an in-memory B-tree with a pluggable key order,
// tombstone deletion and iterator support.
package btree

import "bytes"

// BTree stores key-value pairs in the order of its comparison function.
// Not thread-safe.
//
// Deletion leaves a tombstone: the key keeps its slot, is skipped by Get
// and Items, and is reported by Iter.Deleted. Setting a deleted key
// revives it. Keys therefore never move once inserted, which keeps
// positioned iterators stable across deletions.
//
// Important: BTree stores references to key/val byte slices, not copies.
// Do not modify the underlying arrays after calling Set.
//
// Example usage:
//
//	btree := New(nil) // bytes.Compare
//	btree.Set([]byte("key"), []byte("value"))
//	val, found := btree.Get([]byte("key"))  // val == "value", found == true
//
//	for key, val := range btree.Items {
//		fmt.Printf("Item: %s = %s\n", key, val)
//	}
type BTree struct {
	root    *node
	cmp     func(a, b []byte) int
	live    int
	version uint64
}

// New returns an empty tree ordered by cmp; nil means bytes.Compare.
// The zero BTree is also ready to use with bytes.Compare.
func New(cmp func(a, b []byte) int) *BTree {
	return &BTree{cmp: cmp}
}

// Compare orders two keys the way the tree does.
func (btree *BTree) Compare(a, b []byte) int {
	if btree.cmp == nil {
		return bytes.Compare(a, b)
	}
	return btree.cmp(a, b)
}

// Reset clears all data, tombstones included.
func (btree *BTree) Reset() {
	btree.root = nil
	btree.live = 0
	btree.version++
}

// Len returns the number of live keys.
func (btree *BTree) Len() int {
	return btree.live
}

// Empty returns true if BTree has no live keys.
func (btree *BTree) Empty() bool {
	return btree.live == 0
}

// Set updates the value for a key, inserting it if absent and reviving
// it if deleted.
func (btree *BTree) Set(key, val []byte) {
	if n, i, found := btree.find(key); found {
		it := &n.items[i]
		if it.dead {
			it.dead = false
			btree.live++
		}
		it.val = val
		return
	}

	if btree.root == nil {
		btree.root = new(node)
	} else if btree.root.full() {
		root := &node{children: []*node{btree.root}}
		root.split(0)
		btree.root = root
	}
	btree.root.insert(item{key: key, val: val}, btree.Compare)
	btree.live++
	btree.version++
}

// Get retrieves the value for a live key.
func (btree *BTree) Get(key []byte) (val []byte, found bool) {
	n, i, found := btree.find(key)
	if !found || n.items[i].dead {
		return nil, false
	}
	return n.items[i].val, true
}

// Delete tombstones a key. It reports whether the key was live.
func (btree *BTree) Delete(key []byte) bool {
	n, i, found := btree.find(key)
	if !found || n.items[i].dead {
		return false
	}
	n.items[i].dead = true
	n.items[i].val = nil
	btree.live--
	return true
}

// Items implements iter.Seq2[[]byte, []byte], iterating live key-value
// pairs in order. Returned slices are valid only within the yield call.
func (btree *BTree) Items(yield func(key, val []byte) bool) {
	if btree.root != nil {
		btree.root.walk(yield)
	}
}

func (btree *BTree) find(key []byte) (*node, int, bool) {
	n := btree.root
	for n != nil {
		i, found := n.search(key, btree.Compare)
		if found {
			return n, i, true
		}
		if n.leaf() {
			break
		}
		n = n.children[i]
	}
	return nil, 0, false
}
