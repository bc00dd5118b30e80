// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package keyrange

import "errors"

var (
	ErrAlreadyIterating    = errors.New("already iterating")
	ErrExhausted           = errors.New("iteration exhausted")
	ErrRemoveUnsupported   = errors.New("remove not supported")
	ErrRemoveOutOfSequence = errors.New("remove out of sequence")
	ErrClosed              = errors.New("closed")
	ErrReadOnly            = errors.New("read-only")
)
