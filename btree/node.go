// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package btree

import (
	"slices"
	"sort"
)

const order = 6 // min: 2
const maxItems = 2*order - 1

type item struct {
	key, val []byte
	dead     bool
}

// node holds sorted items; an inner node has len(items)+1 children, and
// children[i] holds the keys between items[i-1] and items[i].
type node struct {
	items    []item
	children []*node
}

func (n *node) leaf() bool {
	return len(n.children) == 0
}

func (n *node) full() bool {
	return len(n.items) == maxItems
}

// search returns the index of the first item >= key.
func (n *node) search(key []byte, cmp func(a, b []byte) int) (int, bool) {
	i := sort.Search(len(n.items), func(i int) bool {
		return cmp(n.items[i].key, key) >= 0
	})
	return i, i < len(n.items) && cmp(n.items[i].key, key) == 0
}

// split moves the upper half of the full child i into a new sibling and
// lifts the median into n.
func (n *node) split(i int) {
	child := n.children[i]
	median := child.items[order-1]

	sibling := &node{items: slices.Clone(child.items[order:])}
	if !child.leaf() {
		sibling.children = slices.Clone(child.children[order:])
		clear(child.children[order:])
		child.children = child.children[:order]
	}
	clear(child.items[order-1:])
	child.items = child.items[:order-1]

	n.items = slices.Insert(n.items, i, median)
	n.children = slices.Insert(n.children, i+1, sibling)
}

// insert places a key known to be absent. n must not be full.
func (n *node) insert(it item, cmp func(a, b []byte) int) {
	for {
		i, _ := n.search(it.key, cmp)
		if n.leaf() {
			n.items = slices.Insert(n.items, i, it)
			return
		}
		if n.children[i].full() {
			n.split(i)
			if cmp(it.key, n.items[i].key) > 0 {
				i++
			}
		}
		n = n.children[i]
	}
}

func (n *node) walk(yield func(key, val []byte) bool) bool {
	for i := range n.items {
		if !n.leaf() && !n.children[i].walk(yield) {
			return false
		}
		if it := &n.items[i]; !it.dead && !yield(it.key, it.val) {
			return false
		}
	}
	if !n.leaf() {
		return n.children[len(n.items)].walk(yield)
	}
	return true
}
