// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package leveldb

import (
	"fmt"

	"github.com/dacapoday/keyrange/compare"
	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	// minCache is the minimum memory in MiB given to the block cache
	minCache = 8
	// minHandles is the minimum number of open file handles
	minHandles = 16

	DefaultCache        = 64  // MiB
	DefaultHandles      = 128 // open file handles
	DefaultBloomKeyBits = 10  // bloom filter bits per key
	DefaultNoSync       = false
)

// Builder configures and opens a DB.
type Builder interface {
	// set block cache size in MiB
	SetCacheSize(int) Builder

	// set open file handles
	SetHandles(int) Builder

	// set bloom filter bits per key
	SetBloomKeyBits(int) Builder

	// set no sync
	SetNoSync(bool) Builder

	// install a custom key order; name is persisted and checked on reopen.
	// Bloom filters hash raw key bytes, so Build drops the filter for
	// a custom order, which may treat distinct bytes as equal keys.
	SetComparer(name string, cmp compare.Func) Builder

	// open the store
	Build() (*DB, error)
}

type builder struct {
	logger  hclog.Logger
	path    string
	cmp     compare.Func
	options *opt.Options
}

func (b *builder) SetCacheSize(cacheSize int) Builder {
	cacheSize = max(cacheSize, minCache)

	b.options.BlockCacheCapacity = cacheSize * opt.MiB

	b.logger.Info("leveldb",
		"BlockCacheCapacity", fmt.Sprintf("%d Mib", cacheSize),
	)

	return b
}

func (b *builder) SetHandles(handles int) Builder {
	b.options.OpenFilesCacheCapacity = max(handles, minHandles)

	b.logger.Info("leveldb",
		"OpenFilesCacheCapacity", b.options.OpenFilesCacheCapacity,
	)

	return b
}

func (b *builder) SetBloomKeyBits(bloomKeyBits int) Builder {
	b.options.Filter = filter.NewBloomFilter(bloomKeyBits)

	b.logger.Info("leveldb",
		"BloomFilter bits", bloomKeyBits,
	)

	return b
}

func (b *builder) SetNoSync(noSync bool) Builder {
	b.options.NoSync = noSync

	b.logger.Info("leveldb",
		"NoSync", noSync,
	)

	return b
}

func (b *builder) SetComparer(name string, cmp compare.Func) Builder {
	b.cmp = cmp
	b.options.Comparer = &comparer{name: name, cmp: cmp}
	b.logger.Info("leveldb",
		"Comparer", name,
	)

	return b
}

// Build opens the store. An empty path opens it on memory storage.
func (b *builder) Build() (*DB, error) {
	if b.cmp != nil && b.options.Filter != nil {
		b.options.Filter = nil
		b.logger.Info("leveldb",
			"BloomFilter", "disabled by custom comparer",
		)
	}

	var (
		ldb *leveldb.DB
		mem storage.Storage
		err error
	)
	if b.path == "" {
		mem = storage.NewMemStorage()
		ldb, err = leveldb.Open(mem, b.options)
	} else {
		ldb, err = leveldb.OpenFile(b.path, b.options)
	}
	if err != nil {
		if mem != nil {
			mem.Close()
		}
		return nil, fmt.Errorf("open leveldb %q: %w", b.path, err)
	}

	store := &DB{
		ldb:    ldb,
		mem:    mem,
		cmp:    b.cmp,
		logger: b.logger,
		txns:   make(map[*Txn]struct{}),
	}
	if store.cmp == nil {
		store.cmp = compare.Bytes
	} else {
		store.prov = compare.Storage
	}
	return store, nil
}

// NewBuilder creates a builder for a store at path. A nil logger
// discards everything.
func NewBuilder(logger hclog.Logger, path string) Builder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &builder{
		logger: logger.Named("leveldb"),
		path:   path,
		options: &opt.Options{
			OpenFilesCacheCapacity: DefaultHandles,
			BlockCacheCapacity:     DefaultCache * opt.MiB,
			Filter:                 filter.NewBloomFilter(DefaultBloomKeyBits),
			NoSync:                 DefaultNoSync,
		},
	}
}
