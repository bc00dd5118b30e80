// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/hashicorp/go-hclog"
)

// logger forwards pebble's printf-style events to hclog.
type logger struct {
	hclog.Logger
}

var _ pebble.Logger = logger{}

func (l logger) Infof(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l logger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.Error(msg)
	panic(msg)
}
