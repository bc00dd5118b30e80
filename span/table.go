// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package span

// Shape is the bound shape of a range, independent of direction.
type Shape uint8

const (
	All Shape = iota
	AtLeast
	AtMost
	Closed
	ClosedOpen
	GreaterThan
	LessThan
	Open
	OpenClosed
	shapeCount
)

// variants fixes, per shape, the presence and inclusivity of each bound.
// Everything else about a range is derived from this table.
var variants = [shapeCount]struct {
	name        string
	start, stop Bound
}{
	All:         {"all", Unbounded, Unbounded},
	AtLeast:     {"at-least", Inclusive, Unbounded},
	AtMost:      {"at-most", Unbounded, Inclusive},
	Closed:      {"closed", Inclusive, Inclusive},
	ClosedOpen:  {"closed-open", Inclusive, Exclusive},
	GreaterThan: {"greater-than", Exclusive, Unbounded},
	LessThan:    {"less-than", Unbounded, Exclusive},
	Open:        {"open", Exclusive, Exclusive},
	OpenClosed:  {"open-closed", Exclusive, Inclusive},
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	shapes := make([]Shape, shapeCount)
	for i := range shapes {
		shapes[i] = Shape(i)
	}
	return shapes
}

func (s Shape) String() string {
	if s >= shapeCount {
		return "unknown"
	}
	return variants[s].name
}

// Bounds returns the start and stop bound kinds of the shape.
func (s Shape) Bounds() (start, stop Bound) {
	v := &variants[s]
	return v.start, v.stop
}

func lookup(start, stop Bound) (Shape, bool) {
	for s := range variants {
		if variants[s].start == start && variants[s].stop == stop {
			return Shape(s), true
		}
	}
	return 0, false
}

// Op is a primitive cursor operation.
type Op uint8

const (
	OpFirst Op = iota
	OpLast
	// OpSeek positions at the smallest key >= the start key.
	OpSeek
	// OpSeekElseLast is OpSeek falling back to OpLast when no key is >=
	// the start key.
	OpSeekElseLast
	OpNext
	OpPrev
)

func (op Op) String() string {
	switch op {
	case OpFirst:
		return "first"
	case OpLast:
		return "last"
	case OpSeek:
		return "seek"
	case OpSeekElseLast:
		return "seek-else-last"
	case OpNext:
		return "next"
	case OpPrev:
		return "prev"
	}
	return "unknown"
}

// Initial returns the operation that positions a cursor on the first
// candidate key of the range.
func (r Range) Initial() Op {
	hasStart := variants[r.shape].start != Unbounded
	switch {
	case r.dir == Forward && hasStart:
		return OpSeek
	case r.dir == Forward:
		return OpFirst
	case hasStart:
		return OpSeekElseLast
	}
	return OpLast
}

// Step returns the operation that moves a cursor to the next candidate.
func (r Range) Step() Op {
	if r.dir == Backward {
		return OpPrev
	}
	return OpNext
}
