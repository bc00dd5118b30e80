// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"errors"
	"testing"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/span"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStorage = errors.New("storage failure")

func collect(t *testing.T, it *Iter) []byte {
	var got []byte
	for key := range it.All() {
		got = append(got, key[0])
	}
	require.NoError(t, it.Err())
	return got
}

func TestLazyPositioning(t *testing.T) {
	f := newFake(2, 4, 6, 8)
	q := New(f, span.Forward.ClosedOpen([]byte{3}, []byte{8}))
	it, err := q.Iter()
	require.NoError(t, err)
	assert.Empty(t, f.ops)

	ok, err := it.HasNext()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"seek"}, f.ops)

	ok, err = it.HasNext()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"seek"}, f.ops)

	assert.Equal(t, []byte{4, 6}, collect(t, it))
	assert.Equal(t, []string{"seek", "next", "next"}, f.ops)
}

func TestInitialOperations(t *testing.T) {
	tests := []struct {
		rng  span.Range
		ops  []string
		want []byte
	}{
		{span.Forward.All(), []string{"first"}, []byte{2}},
		{span.Backward.All(), []string{"last"}, []byte{8}},
		{span.Forward.AtMost([]byte{5}), []string{"first"}, []byte{2}},
		{span.Backward.AtMost([]byte{5}), []string{"last"}, []byte{8}},
		{span.Backward.LessThan([]byte{6}), []string{"last"}, []byte{8}},
		{span.Backward.AtLeast([]byte{5}), []string{"seek", "prev"}, []byte{4}},
		{span.Backward.AtLeast([]byte{9}), []string{"seek", "last"}, []byte{8}},
		{span.Backward.GreaterThan([]byte{6}), []string{"seek", "prev"}, []byte{4}},
		{span.Forward.GreaterThan([]byte{4}), []string{"seek", "next"}, []byte{6}},
	}
	for _, tc := range tests {
		t.Run(tc.rng.String(), func(t *testing.T) {
			f := newFake(2, 4, 6, 8)
			it, err := New(f, tc.rng).Iter()
			require.NoError(t, err)

			key, _, err := it.Next()
			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
			assert.Equal(t, tc.ops, f.ops)
		})
	}
}

func TestExclusionOnlyBeforeFirstEmit(t *testing.T) {
	f := newFake(2, 4, 4, 6)
	it, err := New(f, span.Forward.GreaterThan([]byte{2})).Iter()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 4, 6}, collect(t, it))

	// Under the reversed order every key after 6 lies above the start
	// bound, yet none is skipped once the first key was emitted.
	f = newFake(2, 4, 6, 8)
	it, err = New(f, span.Backward.AtLeast([]byte{5}), WithComparator(compare.Reverse(compare.Bytes))).Iter()
	require.NoError(t, err)
	assert.Equal(t, []byte{6, 4, 2}, collect(t, it))
}

func TestCloseDuringAll(t *testing.T) {
	f := newFake(2, 4, 6, 8)
	it, err := New(f, span.Forward.All()).Iter()
	require.NoError(t, err)

	var got []byte
	for key := range it.All() {
		got = append(got, key[0])
		if key[0] == 4 {
			require.NoError(t, it.Close())
		}
	}
	assert.Equal(t, []byte{2, 4}, got)
	assert.ErrorIs(t, it.Err(), keyrange.ErrClosed)
}

func TestCloseKeepsEarlierError(t *testing.T) {
	f := newFake(2, 4)
	f.failAt = 2
	it, err := New(f, span.Forward.All()).Iter()
	require.NoError(t, err)

	for range it.All() {
	}
	require.NoError(t, it.Close())
	assert.ErrorIs(t, it.Err(), errStorage)
}

func TestStorageErrorEndsTraversal(t *testing.T) {
	f := newFake(2, 4, 6, 8)
	f.failAt = 3
	it, err := New(f, span.Forward.All()).Iter()
	require.NoError(t, err)

	for _, want := range []byte{2, 4} {
		key, _, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte{want}, key)
	}
	ok, err := it.HasNext()
	assert.False(t, ok)
	assert.ErrorIs(t, err, errStorage)
	_, _, err = it.Next()
	assert.ErrorIs(t, err, errStorage)
	assert.ErrorIs(t, it.Err(), errStorage)
}

func TestSeekErrorSkipsFallback(t *testing.T) {
	f := newFake(2, 4)
	f.failAt = 1
	it, err := New(f, span.Backward.AtLeast([]byte{9})).Iter()
	require.NoError(t, err)

	_, err = it.HasNext()
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, []string{"seek"}, f.ops)
}

func TestLiveness(t *testing.T) {
	src := &source{switchable: true, cur: newFake(2, 4, 6)}
	q, err := Open(src, span.Forward.All())
	require.NoError(t, err)
	it, err := q.Iter()
	require.NoError(t, err)

	_, _, err = it.Next()
	require.NoError(t, err)

	src.switchable = false
	_, err = it.HasNext()
	assert.ErrorIs(t, err, keyrange.ErrClosed)

	src.switchable = true
	_, _, err = it.Next()
	assert.ErrorIs(t, err, keyrange.ErrClosed)
	assert.ErrorIs(t, it.Remove(), keyrange.ErrClosed)
}

func TestClosedIter(t *testing.T) {
	f := newFake(2, 4)
	it, err := New(f, span.Forward.All()).Iter()
	require.NoError(t, err)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
	assert.Equal(t, 1, f.closed)
	assert.Empty(t, f.ops)
	assert.ErrorIs(t, it.Err(), keyrange.ErrClosed)

	_, err = it.HasNext()
	assert.ErrorIs(t, err, keyrange.ErrClosed)
	_, _, err = it.Next()
	assert.ErrorIs(t, err, keyrange.ErrClosed)
}

func TestQueryClose(t *testing.T) {
	f := newFake(2)
	q := New(f, span.Forward.All())
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.Equal(t, 1, f.closed)

	_, err := q.Iter()
	assert.ErrorIs(t, err, keyrange.ErrClosed)

	f = newFake(2)
	q = New(f, span.Forward.All())
	it, err := q.Iter()
	require.NoError(t, err)
	require.NoError(t, q.Close())
	assert.Zero(t, f.closed)
	require.NoError(t, it.Close())
	assert.Equal(t, 1, f.closed)
}

func TestRemove(t *testing.T) {
	d := &deleter{fake: newFake(2, 4, 6, 8)}
	it, err := New(d, span.Backward.OpenClosed([]byte{8}, []byte{2})).Iter()
	require.NoError(t, err)

	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)
	for i := 0; ; i++ {
		_, _, err := it.Next()
		if errors.Is(err, keyrange.ErrExhausted) {
			break
		}
		require.NoError(t, err)
		if i != 1 {
			require.NoError(t, it.Remove())
		}
	}
	assert.ErrorIs(t, it.Remove(), keyrange.ErrRemoveOutOfSequence)
	assert.Equal(t, [][]byte{{6}, {2}}, d.deleted)
}

func TestOrderResolution(t *testing.T) {
	f := newFake(2)
	q := New(f, span.Forward.All())
	assert.Equal(t, compare.Intrinsic, q.Provenance())

	q = New(f, span.Forward.All(), WithComparator(compare.Numeric))
	assert.Equal(t, compare.Bounds, q.Provenance())
	assert.Equal(t, span.Forward.All(), q.Range())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test", "backend", "fake")

	d := &deleter{fake: newFake(2, 4, 6, 8)}
	it, err := New(d, span.Forward.Open([]byte{2}, []byte{8}), WithMetrics(m)).Iter()
	require.NoError(t, err)
	for range it.All() {
		require.NoError(t, it.Remove())
	}
	require.NoError(t, it.Err())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.emitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.removed))

	count, err := testutil.GatherAndCount(reg, "test_cursor_emitted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Panics(t, func() { NewMetrics(prometheus.NewRegistry(), "test", "odd") })
}

func TestScan(t *testing.T) {
	src := &source{switchable: true, cur: newFake(2, 4, 6, 8)}
	var got []byte
	err := Scan(src, span.Forward.All(), func(key, val []byte) error {
		got = append(got, key[0])
		if key[0] == 4 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 4}, got)
	assert.Equal(t, 1, src.cur.(*fake).closed)

	errCallback := errors.New("callback")
	errClose := errors.New("close")
	f := newFake(2, 4)
	f.closeFn = func() error { return errClose }
	src = &source{switchable: true, cur: f}
	err = Scan(src, span.Forward.All(), func(key, val []byte) error {
		return errCallback
	})
	assert.ErrorIs(t, err, errCallback)
	assert.ErrorIs(t, err, errClose)

	src = &source{switchable: true, err: errStorage}
	err = Scan(src, span.Forward.All(), func(key, val []byte) error { return nil })
	assert.ErrorIs(t, err, errStorage)
}
