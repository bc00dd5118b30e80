// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package span

import "errors"

var (
	ErrMissingBound     = errors.New("missing bound")
	ErrUnexpectedBound  = errors.New("unexpected bound")
	ErrUnknownShape     = errors.New("unknown shape")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrBadNotation      = errors.New("bad interval notation")
)
