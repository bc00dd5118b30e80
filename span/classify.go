// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package span

// Verdict is the decision taken for the key under the cursor.
type Verdict uint8

const (
	// Emit hands the key to the consumer.
	Emit Verdict = iota
	// Skip steps over the key without emitting it.
	Skip
	// Stop ends the traversal before the key.
	Stop
)

func (v Verdict) String() string {
	switch v {
	case Emit:
		return "emit"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// Excluded reports whether key lies before the start bound in the
// range's direction. It can only hold for the key the initial operation
// lands on: forward, the seek may land exactly on an exclusive start;
// backward, it may land past the start.
func (r Range) Excluded(cmp func(a, b []byte) int, key []byte) bool {
	b := variants[r.shape].start
	if b == Unbounded {
		return false
	}
	c := cmp(key, r.start)
	if r.dir == Backward {
		return c > 0 || c == 0 && b == Exclusive
	}
	return c == 0 && b == Exclusive
}

// Passed reports whether key lies beyond the stop bound in the range's
// direction, which ends the traversal.
func (r Range) Passed(cmp func(a, b []byte) int, key []byte) bool {
	b := variants[r.shape].stop
	if b == Unbounded {
		return false
	}
	c := cmp(key, r.stop)
	if r.dir == Backward {
		c = -c
	}
	return c > 0 || c == 0 && b == Exclusive
}

// Classify combines Excluded and Passed. The start check goes first so a
// key equal to both an exclusive start and the stop is skipped.
func (r Range) Classify(cmp func(a, b []byte) int, key []byte) Verdict {
	if r.Excluded(cmp, key) {
		return Skip
	}
	if r.Passed(cmp, key) {
		return Stop
	}
	return Emit
}
