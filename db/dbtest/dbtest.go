// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package dbtest checks that a db.Store backend serves range traversals
// correctly. Each backend's tests call Run with a function opening an
// empty store.
package dbtest

import (
	"errors"
	"slices"
	"testing"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/cursor"
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener opens an empty store. A nil cmp keeps the store's native
// order; otherwise the store places keys by cmp. The store is closed
// by the test.
type Opener func(t *testing.T, cmp compare.Func) db.Store

// Keys of the reference store. Each key k maps to the value k+1.
var Keys = []byte{2, 4, 6, 8}

// Run runs the conformance suite against a backend.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, open Opener)
	}{
		{name: "store_operations", fn: testStoreOperations},
		{name: "transaction_lifecycle", fn: testTransactionLifecycle},
		{name: "closed_store", fn: testClosedStore},
		{name: "all_ranges_match_filter", fn: testAllRangesMatchFilter},
		{name: "reference_cases", fn: testReferenceCases},
		{name: "empty_ranges", fn: testEmptyRanges},
		{name: "single_use", fn: testSingleUse},
		{name: "exhausted_advance", fn: testExhaustedAdvance},
		{name: "remove_during_traversal", fn: testRemoveDuringTraversal},
		{name: "remove_sequence", fn: testRemoveSequence},
		{name: "remove_unsupported", fn: testRemoveUnsupported},
		{name: "closed_mid_traversal", fn: testClosedMidTraversal},
		{name: "closed_by_another_goroutine", fn: testClosedByAnotherGoroutine},
		{name: "comparator_provenance", fn: testComparatorProvenance},
		{name: "storage_order", fn: testStorageOrder},
		{name: "scan", fn: testScan},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open)
		})
	}
}

// Fill opens a store holding the reference keys.
func Fill(t *testing.T, open Opener, cmp compare.Func) db.Store {
	store := open(t, cmp)
	for _, k := range Keys {
		require.NoError(t, store.Put([]byte{k}, []byte{k + 1}))
	}
	return store
}

// Collect walks rng in a fresh read transaction and returns the first
// byte of every key emitted. Values are checked against the reference
// mapping on the way.
func Collect(t *testing.T, store db.Store, rng span.Range, opts ...cursor.Option) []byte {
	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	got := []byte{}
	err = cursor.Scan(txn, rng, func(key, val []byte) error {
		require.Len(t, key, 1)
		require.Equal(t, []byte{key[0] + 1}, val, "value of %d", key[0])
		got = append(got, key[0])
		return nil
	}, opts...)
	require.NoError(t, err, rng.String())
	return got
}

// Expect filters keys through rng without a cursor and orders the result
// the way rng walks.
func Expect(keys []byte, rng span.Range, cmp compare.Func) []byte {
	if cmp == nil {
		cmp = compare.Bytes
	}
	lo, loBound, hi, hiBound := rng.Start(), rng.StartBound(), rng.Stop(), rng.StopBound()
	if rng.Direction() == span.Backward {
		lo, loBound, hi, hiBound = hi, hiBound, lo, loBound
	}
	admits := func(k []byte) bool {
		if loBound != span.Unbounded {
			if c := cmp(k, lo); c < 0 || c == 0 && loBound == span.Exclusive {
				return false
			}
		}
		if hiBound != span.Unbounded {
			if c := cmp(k, hi); c > 0 || c == 0 && hiBound == span.Exclusive {
				return false
			}
		}
		return true
	}

	want := []byte{}
	for _, k := range keys {
		if admits([]byte{k}) {
			want = append(want, k)
		}
	}
	slices.SortFunc(want, func(a, b byte) int {
		return cmp([]byte{a}, []byte{b})
	})
	if rng.Direction() == span.Backward {
		slices.Reverse(want)
	}
	return want
}

// Ranges enumerates every shape in both directions with endpoints drawn
// from 1 through 9, covering each bound below, on, between and above
// the reference keys.
func Ranges() []span.Range {
	var ranges []span.Range
	for _, dir := range []span.Direction{span.Forward, span.Backward} {
		for _, shape := range span.Shapes() {
			starts, stops := endpoints(shape.Bounds())
			for _, start := range starts {
				for _, stop := range stops {
					r, err := span.New(dir, shape, start, stop)
					if err != nil {
						panic(err)
					}
					ranges = append(ranges, r)
				}
			}
		}
	}
	return ranges
}

func endpoints(start, stop span.Bound) (starts, stops [][]byte) {
	values := func(b span.Bound) [][]byte {
		if b == span.Unbounded {
			return [][]byte{nil}
		}
		var keys [][]byte
		for k := byte(1); k <= 9; k++ {
			keys = append(keys, []byte{k})
		}
		return keys
	}
	return values(start), values(stop)
}

func testStoreOperations(t *testing.T, open Opener) {
	store := open(t, nil)

	_, err := store.Get([]byte("missing"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, store.Put([]byte("key"), []byte("value")))
	val, err := store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	require.NoError(t, store.Put([]byte("key"), []byte("other")))
	val, err = store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), val)

	require.NoError(t, store.Delete([]byte("key")))
	_, err = store.Get([]byte("key"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	require.NoError(t, store.Delete([]byte("key")))
}

func testTransactionLifecycle(t *testing.T, open Opener) {
	store := Fill(t, open, nil)

	ro, err := store.Begin(false)
	require.NoError(t, err)
	assert.False(t, ro.Writable())
	assert.True(t, ro.Alive())
	assert.Equal(t, compare.Intrinsic, ro.Provenance())
	assert.ErrorIs(t, ro.Put([]byte{1}, []byte{2}), keyrange.ErrReadOnly)
	assert.ErrorIs(t, ro.Delete([]byte{2}), keyrange.ErrReadOnly)
	require.NoError(t, ro.Commit())
	assert.False(t, ro.Alive())
	assert.ErrorIs(t, ro.Commit(), db.ErrTxnDone)
	_, err = ro.Cursor()
	assert.ErrorIs(t, err, db.ErrTxnDone)
	assert.NoError(t, ro.Rollback())

	rw, err := store.Begin(true)
	require.NoError(t, err)
	assert.True(t, rw.Writable())
	require.NoError(t, rw.Put([]byte{5}, []byte{6}))
	require.NoError(t, rw.Delete([]byte{2}))
	require.NoError(t, rw.Rollback())
	assert.Equal(t, Keys, Collect(t, store, span.Forward.All()))

	rw, err = store.Begin(true)
	require.NoError(t, err)
	require.NoError(t, rw.Put([]byte{5}, []byte{6}))
	require.NoError(t, rw.Delete([]byte{2}))
	require.NoError(t, rw.Commit())
	assert.ErrorIs(t, rw.Put([]byte{7}, []byte{8}), db.ErrTxnDone)
	assert.Equal(t, []byte{4, 5, 6, 8}, Collect(t, store, span.Forward.All()))
}

func testClosedStore(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.Get([]byte{2})
	assert.ErrorIs(t, err, keyrange.ErrClosed)
	assert.ErrorIs(t, store.Put([]byte{1}, []byte{2}), keyrange.ErrClosed)
	assert.ErrorIs(t, store.Delete([]byte{2}), keyrange.ErrClosed)
	_, err = store.Begin(false)
	assert.ErrorIs(t, err, keyrange.ErrClosed)
}

func testAllRangesMatchFilter(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	for _, rng := range Ranges() {
		assert.Equal(t, Expect(Keys, rng, nil), Collect(t, store, rng), rng.String())
	}
}

func testReferenceCases(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	tests := []struct {
		rng  span.Range
		want []byte
	}{
		{span.Forward.All(), []byte{2, 4, 6, 8}},
		{span.Backward.All(), []byte{8, 6, 4, 2}},
		{span.Forward.AtLeast([]byte{5}), []byte{6, 8}},
		{span.Forward.ClosedOpen([]byte{3}, []byte{8}), []byte{4, 6}},
		{span.Backward.OpenClosed([]byte{7}, []byte{2}), []byte{6, 4, 2}},
		{span.Forward.Open([]byte{2}, []byte{8}), []byte{4, 6}},
		{span.Backward.AtMost([]byte{5}), []byte{8, 6}},
		{span.Backward.LessThan([]byte{6}), []byte{8}},
		{span.Backward.AtLeast([]byte{100}), []byte{8, 6, 4, 2}},
		{span.Backward.GreaterThan([]byte{8}), []byte{6, 4, 2}},
		{span.Forward.GreaterThan([]byte{8}), []byte{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Collect(t, store, tc.rng), tc.rng.String())
	}
}

func testEmptyRanges(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	for _, rng := range []span.Range{
		span.Forward.AtLeast([]byte{100}),
		span.Backward.AtMost([]byte{100}),
		span.Forward.LessThan([]byte{2}),
		span.Backward.GreaterThan([]byte{2}),
		span.Forward.Open([]byte{4}, []byte{6}),
		span.Forward.Closed([]byte{6}, []byte{4}),
	} {
		txn, err := store.Begin(false)
		require.NoError(t, err)

		q, err := cursor.Open(txn, rng)
		require.NoError(t, err)
		it, err := q.Iter()
		require.NoError(t, err)

		ok, err := it.HasNext()
		require.NoError(t, err)
		assert.False(t, ok, rng.String())
		_, _, err = it.Next()
		assert.ErrorIs(t, err, keyrange.ErrExhausted, rng.String())

		require.NoError(t, it.Close())
		require.NoError(t, txn.Rollback())
	}

	empty := open(t, nil)
	assert.Empty(t, Collect(t, empty, span.Forward.All()))
	assert.Empty(t, Collect(t, empty, span.Backward.AtLeast([]byte{5})))
}

func testSingleUse(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	q, err := cursor.Open(txn, span.Forward.All())
	require.NoError(t, err)
	it, err := q.Iter()
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	_, err = q.Iter()
	assert.ErrorIs(t, err, keyrange.ErrAlreadyIterating)
	_, err = q.Iter()
	assert.ErrorIs(t, err, keyrange.ErrAlreadyIterating)

	key, _, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, key)
}

func testExhaustedAdvance(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	q, err := cursor.Open(txn, span.Backward.Closed([]byte{4}, []byte{2}))
	require.NoError(t, err)
	it, err := q.Iter()
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	for _, want := range []byte{4, 2} {
		key, val, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte{want}, key)
		assert.Equal(t, []byte{want + 1}, val)
	}
	for range 2 {
		ok, err := it.HasNext()
		require.NoError(t, err)
		assert.False(t, ok)
		_, _, err = it.Next()
		assert.ErrorIs(t, err, keyrange.ErrExhausted)
	}
	assert.NoError(t, it.Err())
}

func testRemoveDuringTraversal(t *testing.T, open Opener) {
	for _, rng := range []span.Range{span.Forward.All(), span.Backward.All()} {
		t.Run(rng.Direction().String(), func(t *testing.T) {
			store := Fill(t, open, nil)
			txn, err := store.Begin(true)
			require.NoError(t, err)

			q, err := cursor.Open(txn, rng)
			require.NoError(t, err)
			it, err := q.Iter()
			require.NoError(t, err)

			var seen []byte
			for i := 0; ; i++ {
				key, _, err := it.Next()
				if err != nil {
					require.ErrorIs(t, err, keyrange.ErrExhausted)
					break
				}
				seen = append(seen, key[0])
				if i%2 == 0 {
					require.NoError(t, it.Remove())
				}
			}
			require.NoError(t, it.Close())
			require.NoError(t, txn.Commit())

			assert.Equal(t, Expect(Keys, rng, nil), seen)
			want := []byte{4, 8}
			if rng.Direction() == span.Backward {
				want = []byte{2, 6}
			}
			assert.Equal(t, want, Collect(t, store, span.Forward.All()))
		})
	}
}

func testRemoveSequence(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	txn, err := store.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	q, err := cursor.Open(txn, span.Forward.AtLeast([]byte{4}))
	require.NoError(t, err)
	it, err := q.Iter()
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)

	ok, err := it.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)

	key, _, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, key)
	require.NoError(t, it.Remove())
	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)

	ok, err = it.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)

	key, _, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{6}, key)
}

func testRemoveUnsupported(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	q, err := cursor.Open(txn, span.Forward.All())
	require.NoError(t, err)
	it, err := q.Iter()
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveUnsupported)
	_, _, err = it.Next()
	require.NoError(t, err)
	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveUnsupported)
}

func testClosedMidTraversal(t *testing.T, open Opener) {
	for _, writable := range []bool{false, true} {
		store := Fill(t, open, nil)
		txn, err := store.Begin(writable)
		require.NoError(t, err)

		q, err := cursor.Open(txn, span.Forward.All())
		require.NoError(t, err)
		it, err := q.Iter()
		require.NoError(t, err)

		key, _, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte{2}, key)

		require.NoError(t, store.Close())
		assert.False(t, txn.Alive())

		_, err = it.HasNext()
		assert.ErrorIs(t, err, keyrange.ErrClosed)
		_, _, err = it.Next()
		assert.ErrorIs(t, err, keyrange.ErrClosed)
		assert.ErrorIs(t, it.Remove(), keyrange.ErrClosed)
		assert.ErrorIs(t, it.Err(), keyrange.ErrClosed)

		assert.NoError(t, it.Close())
		assert.NoError(t, txn.Rollback())
	}
}

// testClosedByAnotherGoroutine closes the store while a traversal runs.
// Run with -race.
func testClosedByAnotherGoroutine(t *testing.T, open Opener) {
	for _, writable := range []bool{false, true} {
		store := open(t, nil)
		for i := 0; i < 2000; i++ {
			k := []byte{byte(i >> 8), byte(i)}
			require.NoError(t, store.Put(k, k))
		}

		txn, err := store.Begin(writable)
		require.NoError(t, err)
		q, err := cursor.Open(txn, span.Forward.All())
		require.NoError(t, err)
		it, err := q.Iter()
		require.NoError(t, err)

		_, _, err = it.Next()
		require.NoError(t, err)

		var closeErr error
		done := make(chan struct{})
		go func() {
			defer close(done)
			closeErr = store.Close()
		}()

		n := 1
		for {
			if _, _, err = it.Next(); err != nil {
				break
			}
			n++
		}
		if !errors.Is(err, keyrange.ErrExhausted) {
			require.ErrorIs(t, err, keyrange.ErrClosed)
		}
		assert.LessOrEqual(t, n, 2000)

		<-done
		require.NoError(t, closeErr)
		_, _, err = it.Next()
		assert.ErrorIs(t, err, keyrange.ErrClosed)
		assert.ErrorIs(t, it.Remove(), keyrange.ErrClosed)

		assert.NoError(t, it.Close())
		assert.NoError(t, txn.Rollback())
	}
}

func testComparatorProvenance(t *testing.T, open Opener) {
	intrinsic := Fill(t, open, nil)
	storage := Fill(t, open, compare.Bytes)

	provenance := func(store db.Store, opts ...cursor.Option) compare.Provenance {
		txn, err := store.Begin(false)
		require.NoError(t, err)
		defer txn.Rollback() //nolint:errcheck
		q, err := cursor.Open(txn, span.Forward.All(), opts...)
		require.NoError(t, err)
		defer q.Close() //nolint:errcheck
		return q.Provenance()
	}
	assert.Equal(t, compare.Intrinsic, provenance(intrinsic))
	assert.Equal(t, compare.Bounds, provenance(intrinsic, cursor.WithComparator(compare.Bytes)))
	assert.Equal(t, compare.Storage, provenance(storage))

	for _, rng := range Ranges() {
		want := Collect(t, intrinsic, rng)
		assert.Equal(t, want, Collect(t, intrinsic, rng, cursor.WithComparator(compare.Bytes)), rng.String())
		assert.Equal(t, want, Collect(t, storage, rng), rng.String())
	}
}

func testStorageOrder(t *testing.T, open Opener) {
	reverse := compare.Reverse(compare.Bytes)
	store := Fill(t, open, reverse)

	assert.Equal(t, []byte{8, 6, 4, 2}, Collect(t, store, span.Forward.All()))
	assert.Equal(t, []byte{4, 2}, Collect(t, store, span.Forward.AtLeast([]byte{5})))
	assert.Equal(t, []byte{2, 4}, Collect(t, store, span.Backward.AtMost([]byte{5})))
	for _, rng := range Ranges() {
		assert.Equal(t, Expect(Keys, rng, reverse), Collect(t, store, rng), rng.String())
	}
}

func testScan(t *testing.T, open Opener) {
	store := Fill(t, open, nil)
	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	var got []byte
	err = cursor.Scan(txn, span.Backward.All(), func(key, val []byte) error {
		got = append(got, key[0])
		if len(got) == 2 {
			return cursor.ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{8, 6}, got)

	require.NoError(t, txn.Commit())
	err = cursor.Scan(txn, span.Forward.All(), func(key, val []byte) error {
		return nil
	})
	assert.ErrorIs(t, err, db.ErrTxnDone)
}
