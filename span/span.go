// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package span describes key ranges over an ordered store.
//
// A Range is one of 18 variants: nine bound shapes walked in one of two
// directions. For a backward range the start bound is the upper end and
// the stop bound the lower end, so Backward.Closed(8, 2) covers 8 down
// to 2.
//
//	r := span.Forward.ClosedOpen([]byte("a"), []byte("m"))
//	r := span.Backward.AtLeast([]byte("k")) // keys <= "k", descending
package span

import (
	"fmt"
	"strconv"
)

// Direction is the traversal order relative to the store's order.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Bound tells whether an endpoint is present and, if so, whether the
// endpoint key itself belongs to the range.
type Bound uint8

const (
	Unbounded Bound = iota
	Inclusive
	Exclusive
)

func (b Bound) String() string {
	switch b {
	case Inclusive:
		return "inclusive"
	case Exclusive:
		return "exclusive"
	}
	return "unbounded"
}

// Range is an immutable range description. The zero value is Forward.All().
type Range struct {
	shape Shape
	dir   Direction
	start []byte
	stop  []byte
}

// New builds a range from its parts. A shape that declares no start must
// come with a nil start, and a shape that declares one must not; the same
// holds for stop.
func New(dir Direction, shape Shape, start, stop []byte) (r Range, err error) {
	if shape >= shapeCount {
		err = fmt.Errorf("shape %d: %w", shape, ErrUnknownShape)
		return
	}
	if dir > Backward {
		err = fmt.Errorf("direction %d: %w", dir, ErrUnknownDirection)
		return
	}
	v := &variants[shape]
	if err = checkBound("start", v.start, start); err != nil {
		return
	}
	if err = checkBound("stop", v.stop, stop); err != nil {
		return
	}
	r = Range{shape, dir, start, stop}
	return
}

func checkBound(name string, b Bound, key []byte) error {
	switch {
	case b == Unbounded && key != nil:
		return fmt.Errorf("%s: %w", name, ErrUnexpectedBound)
	case b != Unbounded && key == nil:
		return fmt.Errorf("%s: %w", name, ErrMissingBound)
	}
	return nil
}

// Of resolves the shape from the kind of each endpoint. Keys of
// unbounded endpoints are ignored.
func Of(dir Direction, startBound Bound, start []byte, stopBound Bound, stop []byte) (Range, error) {
	shape, ok := lookup(startBound, stopBound)
	if !ok {
		return Range{}, fmt.Errorf("start %s, stop %s: %w", startBound, stopBound, ErrUnknownShape)
	}
	if startBound == Unbounded {
		start = nil
	} else if start == nil {
		start = []byte{}
	}
	if stopBound == Unbounded {
		stop = nil
	} else if stop == nil {
		stop = []byte{}
	}
	return New(dir, shape, start, stop)
}

func (r Range) Shape() Shape         { return r.shape }
func (r Range) Direction() Direction { return r.dir }
func (r Range) StartBound() Bound    { return variants[r.shape].start }
func (r Range) StopBound() Bound     { return variants[r.shape].stop }

// Start returns the start key, nil when the shape has no start bound.
// The returned slice must not be modified.
func (r Range) Start() []byte { return r.start }

// Stop returns the stop key, nil when the shape has no stop bound.
// The returned slice must not be modified.
func (r Range) Stop() []byte { return r.stop }

// String renders the range in interval notation followed by its
// direction, for example `["a","m") forward`.
func (r Range) String() string {
	v := &variants[r.shape]
	lo, hi := "[", "]"
	if v.start == Exclusive {
		lo = "("
	}
	if v.stop == Exclusive {
		hi = ")"
	}
	var start, stop string
	if v.start != Unbounded {
		start = strconv.Quote(string(r.start))
	}
	if v.stop != Unbounded {
		stop = strconv.Quote(string(r.stop))
	}
	return lo + start + "," + stop + hi + " " + r.dir.String()
}

// key normalizes a constructor argument: a present bound is never nil.
func key(k []byte) []byte {
	if k == nil {
		return []byte{}
	}
	return k
}

// All covers every key.
func (d Direction) All() Range { return Range{shape: All, dir: d} }

// AtLeast covers keys from start inclusive to the end of the direction.
func (d Direction) AtLeast(start []byte) Range {
	return Range{shape: AtLeast, dir: d, start: key(start)}
}

// AtMost covers keys from the beginning of the direction to stop inclusive.
func (d Direction) AtMost(stop []byte) Range {
	return Range{shape: AtMost, dir: d, stop: key(stop)}
}

// Closed covers start to stop, both inclusive.
func (d Direction) Closed(start, stop []byte) Range {
	return Range{shape: Closed, dir: d, start: key(start), stop: key(stop)}
}

// ClosedOpen covers start inclusive to stop exclusive.
func (d Direction) ClosedOpen(start, stop []byte) Range {
	return Range{shape: ClosedOpen, dir: d, start: key(start), stop: key(stop)}
}

// GreaterThan covers keys past start exclusive to the end of the direction.
func (d Direction) GreaterThan(start []byte) Range {
	return Range{shape: GreaterThan, dir: d, start: key(start)}
}

// LessThan covers keys from the beginning of the direction to stop exclusive.
func (d Direction) LessThan(stop []byte) Range {
	return Range{shape: LessThan, dir: d, stop: key(stop)}
}

// Open covers start to stop, both exclusive.
func (d Direction) Open(start, stop []byte) Range {
	return Range{shape: Open, dir: d, start: key(start), stop: key(stop)}
}

// OpenClosed covers start exclusive to stop inclusive.
func (d Direction) OpenClosed(start, stop []byte) Range {
	return Range{shape: OpenClosed, dir: d, start: key(start), stop: key(stop)}
}
