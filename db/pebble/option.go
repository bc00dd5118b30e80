// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"github.com/dacapoday/keyrange/compare"
	"github.com/hashicorp/go-hclog"
)

const DefaultCacheSize = 64 << 20 // 64 MiB

type option struct {
	cacheSize int64
	noSync    bool
	name      string
	cmp       compare.Func
	logger    hclog.Logger
}

// Option configures a DB.
type Option func(*option)

// WithCacheSize sets the block cache size in bytes.
func WithCacheSize(size int64) Option {
	return func(opt *option) {
		opt.cacheSize = size
	}
}

// WithNoSync commits without waiting for the WAL to reach disk.
func WithNoSync(noSync bool) Option {
	return func(opt *option) {
		opt.noSync = noSync
	}
}

// WithComparator installs cmp as the physical key order. name is
// persisted and checked when the store is reopened.
func WithComparator(name string, cmp compare.Func) Option {
	return func(opt *option) {
		opt.name = name
		opt.cmp = cmp
	}
}

// WithLogger sets the logger pebble and the store report to.
func WithLogger(logger hclog.Logger) Option {
	return func(opt *option) {
		opt.logger = logger
	}
}
