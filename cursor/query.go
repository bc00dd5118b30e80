// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package cursor walks a span.Range over an iterator.Cursor.
//
// A Query binds a range to a cursor and hands out a single Iter. The Iter
// positions the cursor lazily, classifies each key as skip, stop or emit,
// and checks before every call that the owning transaction is still open.
//
//	q, err := cursor.Open(txn, span.Forward.ClosedOpen(from, to))
//	if err != nil {
//		return err
//	}
//	it, _ := q.Iter()
//	defer it.Close()
//	for key, val := range it.All() {
//		// key and val are valid until the next iteration
//	}
//	return it.Err()
package cursor

import (
	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/dacapoday/keyrange/iterator"
	"github.com/dacapoday/keyrange/span"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/atomic"
)

// Source opens cursors within one transaction.
type Source interface {
	keyrange.Liveness
	Cursor() (iterator.Cursor, error)
}

// provenancer is implemented by stores that know where their order
// comes from.
type provenancer interface {
	Provenance() compare.Provenance
}

const (
	queryIdle uint32 = iota
	queryTaken
	queryClosed
)

// Query is one range query over one cursor. It produces at most one Iter.
type Query struct {
	rng   span.Range
	cur   iterator.Cursor
	opt   option
	prov  compare.Provenance
	state atomic.Uint32
}

// New binds rng to cur. The query owns cur from now on: it is released
// by the Iter, or by Query.Close if no Iter is ever taken.
func New(cur iterator.Cursor, rng span.Range, opts ...Option) *Query {
	q := &Query{rng: rng, cur: cur}
	for _, opt := range opts {
		opt(&q.opt)
	}
	if q.opt.logger == nil {
		q.opt.logger = hclog.NewNullLogger()
	}
	if q.opt.metrics == nil {
		q.opt.metrics = NilMetrics()
	}
	if q.opt.liveness == nil {
		if l, ok := cur.(keyrange.Liveness); ok {
			q.opt.liveness = l
		}
	}
	q.resolveOrder()
	return q
}

// Open opens a cursor from src and binds rng to it. src serves as the
// liveness check and, unless WithComparator is given, as the order.
func Open(src Source, rng span.Range, opts ...Option) (*Query, error) {
	cur, err := src.Cursor()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithLiveness(src)}, opts...)
	return New(cur, rng, opts...), nil
}

func (q *Query) resolveOrder() {
	if q.opt.cmp != nil {
		q.prov = compare.Bounds
		return
	}
	for _, c := range []any{q.opt.liveness, q.cur} {
		if c, ok := c.(keyrange.Comparer); ok {
			q.opt.cmp = c.Compare
			if p, ok := c.(provenancer); ok {
				q.prov = p.Provenance()
			}
			return
		}
	}
	q.opt.cmp = compare.Bytes
	q.prov = compare.Intrinsic
}

// Range returns the range the query walks.
func (q *Query) Range() span.Range {
	return q.rng
}

// Provenance reports where the order used for range checks comes from.
func (q *Query) Provenance() compare.Provenance {
	return q.prov
}

// Iter hands out the traversal. It succeeds once; later calls fail with
// keyrange.ErrAlreadyIterating, or keyrange.ErrClosed after Close.
func (q *Query) Iter() (*Iter, error) {
	if !q.state.CompareAndSwap(queryIdle, queryTaken) {
		if q.state.Load() == queryClosed {
			return nil, keyrange.ErrClosed
		}
		return nil, keyrange.ErrAlreadyIterating
	}
	return &Iter{
		bounds:  bounds{rng: q.rng, cmp: q.opt.cmp, cur: q.cur},
		cur:     q.cur,
		live:    q.opt.liveness,
		logger:  q.opt.logger,
		metrics: q.opt.metrics,
	}, nil
}

// Close releases the cursor if no Iter was taken. Once an Iter exists,
// releasing is its job and Close does nothing.
func (q *Query) Close() error {
	if !q.state.CompareAndSwap(queryIdle, queryClosed) {
		return nil
	}
	return q.cur.Close()
}
