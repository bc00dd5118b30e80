// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/dacapoday/keyrange/cursor"
	"github.com/dacapoday/keyrange/span"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

type scanParams struct {
	notation string
	reverse  bool
	limit    int
	hex      bool
	delete   bool
}

func scanCommand(cfg *config) *cobra.Command {
	params := new(scanParams)
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Prints, and optionally deletes, the keys of a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, cfg, params)
		},
	}

	flags := scanCmd.Flags()
	flags.StringVarP(&params.notation, "range", "r", "(,)", "the range in interval notation, such as [a,m)")
	flags.BoolVar(&params.reverse, "reverse", false, "walk from the upper end down")
	flags.IntVarP(&params.limit, "limit", "n", 0, "stop after this many keys (0 = all)")
	flags.BoolVar(&params.hex, "hex", false, "range endpoints are hex and keys are printed as hex")
	flags.BoolVar(&params.delete, "delete", false, "delete every key printed")

	return scanCmd
}

// parse reads the range. For --reverse the notation still reads low to
// high, so the endpoints swap roles.
func (p *scanParams) parse() (span.Range, error) {
	var decode func(string) ([]byte, error)
	if p.hex {
		decode = hex.DecodeString
	}
	rng, err := span.Parse(span.Forward, p.notation, decode)
	if err != nil || !p.reverse {
		return rng, err
	}
	return span.Of(span.Backward, rng.StopBound(), rng.Stop(), rng.StartBound(), rng.Start())
}

func runScan(cmd *cobra.Command, cfg *config, params *scanParams) (err error) {
	rng, err := params.parse()
	if err != nil {
		return err
	}

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

	txn, err := store.Begin(params.delete)
	if err != nil {
		return err
	}

	q, err := cursor.Open(txn, rng, cursor.WithLogger(logger))
	if err != nil {
		return multierror.Append(err, txn.Rollback()).ErrorOrNil()
	}
	it, err := q.Iter()
	if err != nil {
		return multierror.Append(err, q.Close(), txn.Rollback()).ErrorOrNil()
	}

	out := cmd.OutOrStdout()
	n := 0
	for key, val := range it.All() {
		if params.hex {
			fmt.Fprintf(out, "%x: %x\n", key, val)
		} else {
			fmt.Fprintf(out, "%s: %s\n", display(key, 40), display(val, 60))
		}
		if params.delete {
			if err = it.Remove(); err != nil {
				break
			}
		}
		if n++; params.limit > 0 && n >= params.limit {
			break
		}
	}
	if err == nil {
		err = it.Err()
	}
	err = multierror.Append(err, it.Close()).ErrorOrNil()

	if err != nil || !params.delete {
		return multierror.Append(err, txn.Rollback()).ErrorOrNil()
	}
	if err = txn.Commit(); err != nil {
		return err
	}
	logger.Info("deleted", "count", n, "range", rng)
	return nil
}
