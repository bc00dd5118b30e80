// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"github.com/dacapoday/keyrange"
	"github.com/dacapoday/keyrange/compare"
	"github.com/hashicorp/go-hclog"
)

type option struct {
	cmp      compare.Func
	liveness keyrange.Liveness
	logger   hclog.Logger
	metrics  *Metrics
}

// Option configures a Query.
type Option func(*option)

// WithComparator sets the order used for range checks. It must agree
// with the order the store places keys in. Without it the query uses
// the store's own order when the cursor or source exposes one, and
// bytewise order otherwise.
func WithComparator(cmp compare.Func) Option {
	return func(opt *option) {
		opt.cmp = cmp
	}
}

// WithLiveness sets the check consulted before every cursor operation.
// Open sets it to the source.
func WithLiveness(l keyrange.Liveness) Option {
	return func(opt *option) {
		opt.liveness = l
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(opt *option) {
		opt.logger = logger
	}
}

// WithMetrics sets the counters updated by the traversal.
func WithMetrics(m *Metrics) Option {
	return func(opt *option) {
		opt.metrics = m
	}
}
