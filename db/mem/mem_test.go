// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package mem

import (
	"testing"

	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/db/dbtest"
	"github.com/dacapoday/keyrange/iterator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, cmp compare.Func) db.Store {
	var opts []Option
	if cmp != nil {
		opts = append(opts, WithComparator(cmp))
	}
	store := Open(opts...)
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

func TestConformance(t *testing.T) {
	dbtest.Run(t, open)
}

func TestPutCopies(t *testing.T) {
	store := Open()
	key, val := []byte("key"), []byte("value")
	require.NoError(t, store.Put(key, val))
	key[0], val[0] = 'x', 'x'

	got, err := store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	got[0] = 'y'
	got, err = store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestRollbackRestores(t *testing.T) {
	store := Open()
	require.NoError(t, store.Put([]byte("a"), []byte("1")))
	require.NoError(t, store.Put([]byte("b"), []byte("2")))

	txn, err := store.Begin(true)
	require.NoError(t, err)
	require.NoError(t, txn.Put([]byte("a"), []byte("10")))
	require.NoError(t, txn.Put([]byte("a"), []byte("100")))
	require.NoError(t, txn.Delete([]byte("b")))
	require.NoError(t, txn.Put([]byte("b"), []byte("20")))
	require.NoError(t, txn.Put([]byte("c"), []byte("3")))
	require.NoError(t, txn.Rollback())

	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, store.Keys())
	val, err := store.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	val, err = store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
	assert.Equal(t, 2, store.Len())
}

func TestCursorSkipsTombstones(t *testing.T) {
	store := Open()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Put([]byte(k), []byte(k)))
	}
	require.NoError(t, store.Delete([]byte("a")))
	require.NoError(t, store.Delete([]byte("c")))
	require.NoError(t, store.Delete([]byte("d")))

	txn, err := store.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback() //nolint:errcheck

	cur, err := txn.Cursor()
	require.NoError(t, err)
	_, ok := cur.(iterator.Deleter)
	assert.False(t, ok)

	require.True(t, cur.SeekFirst())
	assert.Equal(t, []byte("b"), cur.Key())
	assert.False(t, cur.Next())

	require.True(t, cur.SeekLast())
	assert.Equal(t, []byte("b"), cur.Key())
	assert.False(t, cur.Prev())

	require.True(t, cur.Seek([]byte("a")))
	assert.Equal(t, []byte("b"), cur.Key())
	assert.False(t, cur.Seek([]byte("c")))

	require.NoError(t, cur.Close())
	assert.False(t, cur.SeekFirst())
}

func TestWriteCursorDelete(t *testing.T) {
	store := Open()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put([]byte(k), []byte(k)))
	}

	txn, err := store.Begin(true)
	require.NoError(t, err)
	cur, err := txn.Cursor()
	require.NoError(t, err)
	d, ok := cur.(iterator.Deleter)
	require.True(t, ok)

	assert.ErrorIs(t, d.Delete(), db.ErrNotPositioned)
	require.True(t, cur.Seek([]byte("b")))
	require.NoError(t, d.Delete())
	require.True(t, cur.Next())
	assert.Equal(t, []byte("c"), cur.Key())
	require.True(t, cur.Prev())
	assert.Equal(t, []byte("a"), cur.Key())
	require.NoError(t, txn.Commit())

	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, store.Keys())
}
