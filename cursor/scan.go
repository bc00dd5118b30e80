// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"errors"

	"github.com/dacapoday/keyrange/span"
	"github.com/hashicorp/go-multierror"
)

// ErrStop can be returned by a Scan callback to end the scan early
// without an error.
var ErrStop = errors.New("stop scan")

// Scan walks rng inside src, calling fn for each key. The cursor is
// released on every path; a release failure is reported together with
// any callback or storage error.
func Scan(src Source, rng span.Range, fn func(key, val []byte) error, opts ...Option) (err error) {
	q, err := Open(src, rng, opts...)
	if err != nil {
		return err
	}
	it, err := q.Iter()
	if err != nil {
		return multierror.Append(err, q.Close()).ErrorOrNil()
	}
	defer func() {
		if cerr := it.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	for key, val := range it.All() {
		if err = fn(key, val); err != nil {
			if errors.Is(err, ErrStop) {
				err = nil
			}
			return
		}
	}
	return it.Err()
}
