// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"bytes"

	"github.com/dacapoday/keyrange/iterator"
)

// fake is a cursor over a sorted key list that records every call.
type fake struct {
	keys    [][]byte
	pos     int
	ops     []string
	failAt  int // fail the nth positioning call; zero never fails
	err     error
	closed  int
	closeFn func() error
}

var _ iterator.Cursor = (*fake)(nil)

func newFake(keys ...byte) *fake {
	f := &fake{pos: -1}
	for _, k := range keys {
		f.keys = append(f.keys, []byte{k})
	}
	return f
}

func (f *fake) move(op string, pos int) bool {
	f.ops = append(f.ops, op)
	if f.failAt > 0 && len(f.ops) == f.failAt {
		f.err = errStorage
		f.pos = -1
		return false
	}
	if pos < 0 || pos >= len(f.keys) {
		f.pos = -1
		return false
	}
	f.pos = pos
	return true
}

func (f *fake) Valid() bool  { return f.pos >= 0 }
func (f *fake) Error() error { return f.err }
func (f *fake) Key() []byte  { return f.keys[f.pos] }
func (f *fake) Val() []byte  { return []byte{f.keys[f.pos][0] + 1} }

func (f *fake) Next() bool      { return f.move("next", f.pos+1) }
func (f *fake) Prev() bool      { return f.move("prev", f.pos-1) }
func (f *fake) SeekFirst() bool { return f.move("first", 0) }
func (f *fake) SeekLast() bool  { return f.move("last", len(f.keys)-1) }

func (f *fake) Seek(key []byte) bool {
	for i, k := range f.keys {
		if bytes.Compare(k, key) >= 0 {
			return f.move("seek", i)
		}
	}
	return f.move("seek", -1)
}

func (f *fake) Close() error {
	f.closed++
	if f.closeFn != nil {
		return f.closeFn()
	}
	return nil
}

// deleter is a fake that supports removal.
type deleter struct {
	*fake
	deleted [][]byte
}

func (d *deleter) Delete() error {
	d.deleted = append(d.deleted, d.Key())
	return nil
}

// switchable is a liveness flag.
type switchable bool

func (s *switchable) Alive() bool { return bool(*s) }

// source hands out one prepared cursor.
type source struct {
	switchable
	cur iterator.Cursor
	err error
}

func (s *source) Cursor() (iterator.Cursor, error) {
	return s.cur, s.err
}
