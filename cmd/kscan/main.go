// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// kscan walks key ranges of leveldb and pebble directories.
//
// Usage:
//
//	kscan put --path DIR k1=v1 k2=v2        # load keys
//	kscan scan --path DIR --range '[a,m)'   # print a range
//	kscan scan --path DIR --reverse -n 10   # last ten keys
//	kscan scan --path DIR --range '(k,' --delete
//
// Ranges use interval notation: '[' and ']' include an endpoint, '(' and
// ')' exclude it, and an empty endpoint leaves that side unbounded.
// Settings can also come from an HCL or JSON file given by --config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
