// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package span

import (
	"fmt"
	"strings"
)

// Parse reads a range in interval notation: a bracket, an optional start,
// a comma, an optional stop and a closing bracket. '[' and ']' mark
// inclusive bounds, '(' and ')' exclusive ones, and an empty side is
// unbounded:
//
//	[a,m)   closed-open
//	(a,]    greater-than
//	[,]     all
//
// For backward ranges the start is still written first: "(7,2]" walked
// backward yields keys below 7 down to 2. decode turns endpoint text
// into a key; nil means the raw bytes of the text.
func Parse(dir Direction, notation string, decode func(string) ([]byte, error)) (Range, error) {
	s := strings.TrimSpace(notation)
	if len(s) < 3 {
		return Range{}, fmt.Errorf("%q: %w", notation, ErrBadNotation)
	}
	lo, hi := s[0], s[len(s)-1]
	startText, stopText, ok := strings.Cut(s[1:len(s)-1], ",")
	if !ok || (lo != '[' && lo != '(') || (hi != ']' && hi != ')') {
		return Range{}, fmt.Errorf("%q: %w", notation, ErrBadNotation)
	}
	if decode == nil {
		decode = func(text string) ([]byte, error) { return []byte(text), nil }
	}

	startBound, start, err := endpoint(startText, lo == '(', decode)
	if err != nil {
		return Range{}, fmt.Errorf("start %q: %w", startText, err)
	}
	stopBound, stop, err := endpoint(stopText, hi == ')', decode)
	if err != nil {
		return Range{}, fmt.Errorf("stop %q: %w", stopText, err)
	}
	return Of(dir, startBound, start, stopBound, stop)
}

func endpoint(text string, exclusive bool, decode func(string) ([]byte, error)) (Bound, []byte, error) {
	if text == "" {
		return Unbounded, nil, nil
	}
	key, err := decode(text)
	if err != nil {
		return Unbounded, nil, err
	}
	if exclusive {
		return Exclusive, key, nil
	}
	return Inclusive, key, nil
}
