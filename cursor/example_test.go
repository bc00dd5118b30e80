// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor_test

import (
	"fmt"

	"github.com/dacapoday/keyrange/cursor"
	"github.com/dacapoday/keyrange/db/mem"
	"github.com/dacapoday/keyrange/span"
)

func Example() {
	store := mem.Open()
	for _, k := range []string{"apple", "banana", "cherry", "date"} {
		store.Put([]byte(k), []byte(k[:1]))
	}

	txn, _ := store.Begin(false)
	defer txn.Rollback()

	q, _ := cursor.Open(txn, span.Backward.OpenClosed([]byte("cherry"), []byte("apple")))
	it, _ := q.Iter()
	defer it.Close()

	for key, val := range it.All() {
		fmt.Printf("%s=%s\n", key, val)
	}
	// Output:
	// banana=b
	// apple=a
}

func ExampleScan() {
	store := mem.Open()
	for _, k := range []string{"a1", "a2", "b1", "b2"} {
		store.Put([]byte(k), nil)
	}

	txn, _ := store.Begin(true)
	err := cursor.Scan(txn, span.Forward.ClosedOpen([]byte("a"), []byte("b")), func(key, val []byte) error {
		fmt.Printf("deleting %s\n", key)
		return txn.Delete(key)
	})
	fmt.Println(err, txn.Commit())
	fmt.Println(store.Keys())
	// Output:
	// deleting a1
	// deleting a2
	// <nil> <nil>
	// [[98 49] [98 50]]
}
