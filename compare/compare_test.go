// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte{5}, []byte{5}, 0},
		{[]byte{0, 5}, []byte{5}, 0},
		{[]byte{4}, []byte{5}, -1},
		{[]byte{1, 0}, []byte{0xff}, 1},
		{nil, []byte{0}, 0},
		{nil, []byte{1}, -1},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Numeric(tc.a, tc.b), "Numeric(%x, %x)", tc.a, tc.b)
		require.Equal(t, -tc.want, Numeric(tc.b, tc.a), "Numeric(%x, %x)", tc.b, tc.a)
	}
}

func TestReverse(t *testing.T) {
	rev := Reverse(Bytes)
	require.Equal(t, 1, rev([]byte("a"), []byte("b")))
	require.Equal(t, -1, rev([]byte("b"), []byte("a")))
	require.Equal(t, 0, rev([]byte("a"), []byte("a")))
	require.Equal(t, Bytes([]byte("a"), []byte("b")), Reverse(rev).Compare([]byte("a"), []byte("b")))
}

func TestProvenanceString(t *testing.T) {
	require.Equal(t, "intrinsic", Intrinsic.String())
	require.Equal(t, "bounds", Bounds.String())
	require.Equal(t, "storage", Storage.String())
	require.Equal(t, "unknown", Provenance(9).String())
}
