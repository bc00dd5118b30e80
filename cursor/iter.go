// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"iter"

	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/iterator"
	"github.com/dacapoday/keyrange/span"
	"github.com/hashicorp/go-hclog"
)

type state uint8

const (
	// stateInit: no cursor call made yet.
	stateInit state = iota
	// stateReady: the key under the cursor was classified emit and not
	// yet handed out.
	stateReady
	// stateEmitted: the key under the cursor was handed out by Next.
	stateEmitted
	stateExhausted
	stateClosed
)

// Iter is a single-use traversal of a range. Not thread-safe.
type Iter struct {
	bounds
	cur      iterator.Cursor
	live     keyrange.Liveness
	logger   hclog.Logger
	metrics  *Metrics
	state    state
	started  bool
	removed  bool
	released bool
	err      error
}

func (it *Iter) check() error {
	if it.state == stateClosed {
		return keyrange.ErrClosed
	}
	if it.live != nil && !it.live.Alive() {
		it.logger.Warn("store closed during traversal", "range", it.rng)
		it.state = stateClosed
		it.err = keyrange.ErrClosed
		return keyrange.ErrClosed
	}
	return nil
}

// HasNext reports whether Next will return a key. The first call
// positions the cursor; after a Next it steps the cursor on.
func (it *Iter) HasNext() (bool, error) {
	if err := it.check(); err != nil {
		return false, err
	}
	switch it.state {
	case stateInit:
		counterInc(it.metrics.scans)
		it.logger.Trace("positioning", "range", it.rng, "op", it.rng.Initial())
		it.settle(it.position())
	case stateEmitted:
		it.settle(it.step())
	}
	return it.state == stateReady, it.err
}

// settle classifies keys until one is emitted or the range ends.
func (it *Iter) settle(ok bool) {
	for ok {
		switch it.classify(it.started) {
		case span.Skip:
			counterInc(it.metrics.skipped)
			ok = it.step()
		case span.Stop:
			it.exhaust()
			return
		default:
			it.started = true
			it.state = stateReady
			return
		}
	}
	it.err = it.cur.Error()
	it.exhaust()
}

func (it *Iter) exhaust() {
	it.state = stateExhausted
	if it.err != nil {
		it.logger.Error("traversal failed", "range", it.rng, "error", it.err)
		return
	}
	it.logger.Trace("exhausted", "range", it.rng)
}

// Next returns the next key and value in the range. Both are views into
// the store, valid until the next call on the Iter or the end of the
// transaction; copy them to keep them. After the last key it fails with
// keyrange.ErrExhausted.
func (it *Iter) Next() (key, val []byte, err error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, keyrange.ErrExhausted
	}
	it.state = stateEmitted
	it.removed = false
	counterInc(it.metrics.emitted)
	return it.cur.Key(), it.cur.Val(), nil
}

// Remove deletes the key last returned by Next. It must come before any
// further HasNext or Next, and at most once per key. The traversal then
// continues from the removed key's position.
func (it *Iter) Remove() error {
	if err := it.check(); err != nil {
		return err
	}
	d, ok := it.cur.(iterator.Deleter)
	if !ok {
		return keyrange.ErrRemoveUnsupported
	}
	if it.state != stateEmitted || it.removed {
		return keyrange.ErrRemoveOutOfSequence
	}
	if err := d.Delete(); err != nil {
		return err
	}
	it.removed = true
	counterInc(it.metrics.removed)
	return nil
}

// All ranges over the remaining keys. It stops at the end of the range
// or at the first failure; check Err afterwards.
func (it *Iter) All() iter.Seq2[[]byte, []byte] {
	return func(yield func(key, val []byte) bool) {
		for {
			key, val, err := it.Next()
			if err != nil || !yield(key, val) {
				return
			}
		}
	}
}

// Err returns the storage or liveness failure that ended the traversal,
// or keyrange.ErrClosed once the Iter is closed.
func (it *Iter) Err() error {
	return it.err
}

// Close releases the cursor. Any later call fails with keyrange.ErrClosed,
// and Err reports it unless an earlier failure ended the traversal.
func (it *Iter) Close() error {
	it.state = stateClosed
	if it.err == nil {
		it.err = keyrange.ErrClosed
	}
	if it.released {
		return nil
	}
	it.released = true
	return it.cur.Close()
}
