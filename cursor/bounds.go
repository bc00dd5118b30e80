// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/iterator"
	"github.com/dacapoday/keyrange/span"
)

// bounds answers, for the key under the cursor, whether it falls before
// the start of the range or beyond its end.
type bounds struct {
	rng span.Range
	cmp compare.Func
	cur iterator.Iterator
}

func (b *bounds) excluded() bool {
	return b.rng.Excluded(b.cmp, b.cur.Key())
}

func (b *bounds) passed() bool {
	return b.rng.Passed(b.cmp, b.cur.Key())
}

// classify decides the fate of the current key. The start bound can only
// reject keys until the first one is emitted.
func (b *bounds) classify(started bool) span.Verdict {
	if !started && b.excluded() {
		return span.Skip
	}
	if b.passed() {
		return span.Stop
	}
	return span.Emit
}

// position applies the range's initial operation.
func (b *bounds) position() bool {
	switch b.rng.Initial() {
	case span.OpFirst:
		return b.cur.SeekFirst()
	case span.OpLast:
		return b.cur.SeekLast()
	case span.OpSeek:
		return b.cur.Seek(b.rng.Start())
	default:
		if b.cur.Seek(b.rng.Start()) {
			return true
		}
		return b.cur.Error() == nil && b.cur.SeekLast()
	}
}

// step applies the range's step operation.
func (b *bounds) step() bool {
	if b.rng.Step() == span.OpPrev {
		return b.cur.Prev()
	}
	return b.cur.Next()
}
