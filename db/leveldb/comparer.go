// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package leveldb

import "github.com/dacapoday/keyrange/compare"

// comparer adapts a compare.Func to goleveldb's comparer.Comparer.
// It never shortens index keys, which is valid for any total order.
type comparer struct {
	name string
	cmp  compare.Func
}

func (c *comparer) Compare(a, b []byte) int {
	return c.cmp(a, b)
}

func (c *comparer) Name() string {
	return c.name
}

func (c *comparer) Separator(dst, a, b []byte) []byte {
	return nil
}

func (c *comparer) Successor(dst, b []byte) []byte {
	return nil
}
