// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	cfg := new(config)
	rootCmd := &cobra.Command{
		Use:           "kscan",
		Short:         "Walks key ranges of leveldb and pebble stores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return overlay(cmd, cfg)
		},
	}

	setFlags(rootCmd, cfg)

	rootCmd.AddCommand(
		scanCommand(cfg),
		putCommand(cfg),
	)

	return rootCmd
}
