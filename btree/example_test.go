// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package btree

import (
	"fmt"

	"github.com/dacapoday/keyrange/compare"
)

func Example() {
	var btree BTree

	// Set some key-value pairs
	btree.Set([]byte("apple"), []byte("red"))
	btree.Set([]byte("banana"), []byte("yellow"))
	btree.Set([]byte("cherry"), []byte("red"))

	// Get a value
	val, found := btree.Get([]byte("banana"))
	fmt.Printf("banana: %s (found: %v)\n", val, found)

	// Delete leaves a tombstone
	btree.Delete([]byte("banana"))
	val, found = btree.Get([]byte("banana"))
	fmt.Printf("banana after delete: %v (found: %v)\n", val, found)
	fmt.Printf("Len: %d\n", btree.Len())

	// Reset clears all data
	btree.Reset()
	fmt.Printf("Empty after reset: %v\n", btree.Empty())

	// Output:
	// banana: yellow (found: true)
	// banana after delete: [] (found: false)
	// Len: 2
	// Empty after reset: true
}

func ExampleBTree_Iter() {
	btree := New(compare.Reverse(compare.Bytes))
	btree.Set([]byte("apple"), []byte("red"))
	btree.Set([]byte("banana"), []byte("yellow"))
	btree.Set([]byte("cherry"), []byte("red"))

	// Forward iteration in the tree's own order
	iter := btree.Iter()
	for iter.SeekFirst(); iter.Valid(); iter.Next() {
		fmt.Printf("%s: %s\n", iter.Key(), iter.Val())
	}

	// Output:
	// cherry: red
	// banana: yellow
	// apple: red
}

func ExampleBTree_Items() {
	var btree BTree
	btree.Set([]byte("apple"), []byte("red"))
	btree.Set([]byte("banana"), []byte("yellow"))
	btree.Set([]byte("cherry"), []byte("red"))
	btree.Delete([]byte("banana"))

	// Iterate using range; tombstones are skipped
	for key, val := range btree.Items {
		fmt.Printf("%s: %s\n", key, val)
	}

	// Output:
	// apple: red
	// cherry: red
}
