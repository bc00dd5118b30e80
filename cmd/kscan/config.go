// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dacapoday/keyrange/db"
	"github.com/dacapoday/keyrange/db/leveldb"
	"github.com/dacapoday/keyrange/db/pebble"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl"
	"github.com/spf13/cobra"
)

const (
	configFlag   = "config"
	backendFlag  = "backend"
	pathFlag     = "path"
	logLevelFlag = "log-level"
	cacheFlag    = "cache-mb"
)

var errNoPath = errors.New("no store path given")

// config holds the settings shared by all subcommands.
type config struct {
	Backend  string `hcl:"backend" json:"backend"`
	Path     string `hcl:"path" json:"path"`
	LogLevel string `hcl:"log_level" json:"log_level"`
	CacheMB  int    `hcl:"cache_mb" json:"cache_mb"`
}

func defaultConfig() config {
	return config{
		Backend:  "leveldb",
		LogLevel: "WARN",
		CacheMB:  leveldb.DefaultCache,
	}
}

// readConfigFile decodes an HCL or JSON file.
func readConfigFile(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := hcl.Decode(&cfg, string(data)); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

func setFlags(cmd *cobra.Command, cfg *config) {
	defaults := defaultConfig()
	flags := cmd.PersistentFlags()

	flags.String(configFlag, "", "the path to the CLI config. Supports .json and .hcl")
	flags.StringVar(&cfg.Backend, backendFlag, defaults.Backend, "the storage engine: leveldb or pebble")
	flags.StringVar(&cfg.Path, pathFlag, defaults.Path, "the store directory")
	flags.StringVar(&cfg.LogLevel, logLevelFlag, defaults.LogLevel, "the log level for console output")
	flags.IntVar(&cfg.CacheMB, cacheFlag, defaults.CacheMB, "the block cache size in MiB")
}

// overlay fills every setting not given on the command line from the
// config file, if one was named.
func overlay(cmd *cobra.Command, cfg *config) error {
	flags := cmd.Flags()
	if !flags.Changed(configFlag) {
		return nil
	}
	path, _ := flags.GetString(configFlag)
	file, err := readConfigFile(path)
	if err != nil {
		return err
	}

	if !flags.Changed(backendFlag) && file.Backend != "" {
		cfg.Backend = file.Backend
	}
	if !flags.Changed(pathFlag) && file.Path != "" {
		cfg.Path = file.Path
	}
	if !flags.Changed(logLevelFlag) && file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if !flags.Changed(cacheFlag) && file.CacheMB != 0 {
		cfg.CacheMB = file.CacheMB
	}
	return nil
}

func (cfg *config) logger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "kscan",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: cmd.ErrOrStderr(),
	})
}

// open opens the configured store.
func (cfg *config) open(logger hclog.Logger) (db.Store, error) {
	if cfg.Path == "" {
		return nil, errNoPath
	}
	switch cfg.Backend {
	case "leveldb":
		return leveldb.NewBuilder(logger, cfg.Path).
			SetCacheSize(cfg.CacheMB).
			Build()
	case "pebble":
		return pebble.Open(cfg.Path,
			pebble.WithCacheSize(int64(cfg.CacheMB)<<20),
			pebble.WithLogger(logger),
		)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
