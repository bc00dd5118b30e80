// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var errBadPair = errors.New("expected KEY=VAL")

func putCommand(cfg *config) *cobra.Command {
	var hexPairs bool
	putCmd := &cobra.Command{
		Use:   "put KEY=VAL...",
		Short: "Stores key-value pairs in one transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(cmd, cfg, args, hexPairs)
		},
	}

	putCmd.Flags().BoolVar(&hexPairs, "hex", false, "keys and values are hex")

	return putCmd
}

func splitPair(arg string, hexPairs bool) (key, val []byte, err error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		return nil, nil, fmt.Errorf("%q: %w", arg, errBadPair)
	}
	if !hexPairs {
		return []byte(k), []byte(v), nil
	}
	if key, err = hex.DecodeString(k); err != nil {
		return nil, nil, fmt.Errorf("key %q: %w", k, err)
	}
	if val, err = hex.DecodeString(v); err != nil {
		return nil, nil, fmt.Errorf("value %q: %w", v, err)
	}
	return key, val, nil
}

func runPut(cmd *cobra.Command, cfg *config, args []string, hexPairs bool) (err error) {
	logger := cfg.logger(cmd)
	store, err := cfg.open(logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	txn, err := store.Begin(true)
	if err != nil {
		return err
	}
	for _, arg := range args {
		key, val, err := splitPair(arg, hexPairs)
		if err == nil {
			err = txn.Put(key, val)
		}
		if err != nil {
			return multierror.Append(err, txn.Rollback()).ErrorOrNil()
		}
	}
	if err = txn.Commit(); err != nil {
		return err
	}
	logger.Info("stored", "count", len(args))
	return nil
}
