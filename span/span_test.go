// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package span

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChecksBounds(t *testing.T) {
	k := []byte("k")

	_, err := New(Forward, All, nil, nil)
	require.NoError(t, err)

	_, err = New(Forward, All, k, nil)
	require.ErrorIs(t, err, ErrUnexpectedBound)

	_, err = New(Backward, AtMost, nil, nil)
	require.ErrorIs(t, err, ErrMissingBound)

	_, err = New(Forward, ClosedOpen, k, nil)
	require.ErrorIs(t, err, ErrMissingBound)

	_, err = New(Forward, Shape(42), nil, nil)
	require.ErrorIs(t, err, ErrUnknownShape)

	_, err = New(Direction(7), All, nil, nil)
	require.ErrorIs(t, err, ErrUnknownDirection)

	r, err := New(Backward, OpenClosed, []byte{7}, []byte{2})
	require.NoError(t, err)
	require.Equal(t, Backward.OpenClosed([]byte{7}, []byte{2}), r)
}

func TestConstructorsMatchTable(t *testing.T) {
	a, b := []byte("a"), []byte("b")
	for _, dir := range []Direction{Forward, Backward} {
		ranges := []Range{
			dir.All(),
			dir.AtLeast(a),
			dir.AtMost(b),
			dir.Closed(a, b),
			dir.ClosedOpen(a, b),
			dir.GreaterThan(a),
			dir.LessThan(b),
			dir.Open(a, b),
			dir.OpenClosed(a, b),
		}
		for i, r := range ranges {
			shape := Shape(i)
			require.Equal(t, shape, r.Shape())
			require.Equal(t, dir, r.Direction())

			start, stop := shape.Bounds()
			require.Equal(t, start, r.StartBound(), shape.String())
			require.Equal(t, stop, r.StopBound(), shape.String())
			require.Equal(t, start == Unbounded, r.Start() == nil, shape.String())
			require.Equal(t, stop == Unbounded, r.Stop() == nil, shape.String())

			_, err := New(dir, shape, r.Start(), r.Stop())
			require.NoError(t, err, shape.String())
		}
	}
}

func TestNilKeyIsEmptyKey(t *testing.T) {
	r := Forward.AtLeast(nil)
	require.NotNil(t, r.Start())
	require.Empty(t, r.Start())
}

func TestInitialAndStep(t *testing.T) {
	tests := []struct {
		shape    Shape
		forward  Op
		backward Op
	}{
		{All, OpFirst, OpLast},
		{AtLeast, OpSeek, OpSeekElseLast},
		{AtMost, OpFirst, OpLast},
		{Closed, OpSeek, OpSeekElseLast},
		{ClosedOpen, OpSeek, OpSeekElseLast},
		{GreaterThan, OpSeek, OpSeekElseLast},
		{LessThan, OpFirst, OpLast},
		{Open, OpSeek, OpSeekElseLast},
		{OpenClosed, OpSeek, OpSeekElseLast},
	}
	for _, tc := range tests {
		t.Run(tc.shape.String(), func(t *testing.T) {
			start, stop := tc.shape.Bounds()
			fwd, err := Of(Forward, start, []byte{1}, stop, []byte{9})
			require.NoError(t, err)
			require.Equal(t, tc.forward, fwd.Initial())
			require.Equal(t, OpNext, fwd.Step())

			bwd, err := Of(Backward, start, []byte{9}, stop, []byte{1})
			require.NoError(t, err)
			require.Equal(t, tc.backward, bwd.Initial())
			require.Equal(t, OpPrev, bwd.Step())
		})
	}
}

func TestClassify(t *testing.T) {
	cmp := bytes.Compare
	k := func(b byte) []byte { return []byte{b} }

	tests := []struct {
		name string
		r    Range
		key  byte
		want Verdict
	}{
		{"all", Forward.All(), 5, Emit},
		{"forward inclusive start", Forward.AtLeast(k(4)), 4, Emit},
		{"forward exclusive start equal", Forward.GreaterThan(k(4)), 4, Skip},
		{"forward exclusive start above", Forward.GreaterThan(k(4)), 5, Emit},
		{"forward inclusive stop equal", Forward.AtMost(k(6)), 6, Emit},
		{"forward inclusive stop above", Forward.AtMost(k(6)), 7, Stop},
		{"forward exclusive stop equal", Forward.LessThan(k(6)), 6, Stop},
		{"forward exclusive stop below", Forward.LessThan(k(6)), 5, Emit},
		{"backward inclusive start above", Backward.AtLeast(k(5)), 6, Skip},
		{"backward inclusive start equal", Backward.AtLeast(k(5)), 5, Emit},
		{"backward exclusive start equal", Backward.GreaterThan(k(5)), 5, Skip},
		{"backward exclusive start below", Backward.GreaterThan(k(5)), 4, Emit},
		{"backward inclusive stop equal", Backward.AtMost(k(2)), 2, Emit},
		{"backward inclusive stop below", Backward.AtMost(k(2)), 1, Stop},
		{"backward exclusive stop equal", Backward.LessThan(k(2)), 2, Stop},
		{"open both equal", Forward.Open(k(3), k(3)), 3, Skip},
		{"closed inverted", Forward.Closed(k(7), k(3)), 8, Stop},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.r.Classify(cmp, k(tc.key)))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		notation string
		want     Range
	}{
		{"[,]", Forward.All()},
		{"(,)", Forward.All()},
		{"[a,]", Forward.AtLeast([]byte("a"))},
		{"(a,]", Forward.GreaterThan([]byte("a"))},
		{"[,z]", Forward.AtMost([]byte("z"))},
		{"[,z)", Forward.LessThan([]byte("z"))},
		{"[a,z]", Forward.Closed([]byte("a"), []byte("z"))},
		{"[a,z)", Forward.ClosedOpen([]byte("a"), []byte("z"))},
		{"(a,z)", Forward.Open([]byte("a"), []byte("z"))},
		{" (a,z] ", Forward.OpenClosed([]byte("a"), []byte("z"))},
	}
	for _, tc := range tests {
		got, err := Parse(Forward, tc.notation, nil)
		require.NoError(t, err, tc.notation)
		require.Equal(t, tc.want, got, tc.notation)
	}

	got, err := Parse(Backward, "(07,02]", hex.DecodeString)
	require.NoError(t, err)
	require.Equal(t, Backward.OpenClosed([]byte{7}, []byte{2}), got)

	for _, bad := range []string{"", "[]", "[a]", "{a,b}", "a,b", "[a,b"} {
		_, err := Parse(Forward, bad, nil)
		require.ErrorIs(t, err, ErrBadNotation, bad)
	}

	_, err = Parse(Forward, "[zz,]", hex.DecodeString)
	require.Error(t, err)
}

func TestString(t *testing.T) {
	require.Equal(t, `[,] forward`, Forward.All().String())
	require.Equal(t, `["a","m") forward`, Forward.ClosedOpen([]byte("a"), []byte("m")).String())
	require.Equal(t, `("7","2"] backward`, Backward.OpenClosed([]byte("7"), []byte("2")).String())
	require.Equal(t, "open-closed", OpenClosed.String())
	require.Equal(t, "unknown", Shape(99).String())
	require.Len(t, Shapes(), 9)
}
