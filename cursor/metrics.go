// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package cursor

import "github.com/prometheus/client_golang/prometheus"

const subsystem = "cursor"

// Metrics counts traversal work. A nil counter is skipped, so the zero
// value records nothing.
type Metrics struct {
	// Traversals started
	scans prometheus.Counter
	// Keys handed to the consumer
	emitted prometheus.Counter
	// Keys stepped over at the start bound
	skipped prometheus.Counter
	// Keys removed through a traversal
	removed prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string, labelsWithValues ...string) *Metrics {
	constLabels := parseLabels(labelsWithValues...)
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	m := &Metrics{
		scans:   counter("scans_total", "range traversals started"),
		emitted: counter("emitted_total", "keys emitted by range traversals"),
		skipped: counter("skipped_total", "keys skipped at an exclusive start bound"),
		removed: counter("removed_total", "keys removed through range traversals"),
	}

	reg.MustRegister(
		m.scans,
		m.emitted,
		m.skipped,
		m.removed,
	)

	return m
}

// NilMetrics returns metrics that record nothing.
func NilMetrics() *Metrics {
	return &Metrics{}
}

func parseLabels(labelsWithValues ...string) prometheus.Labels {
	if len(labelsWithValues)%2 != 0 {
		panic("invalid labels")
	}
	constLabels := prometheus.Labels{}
	for i := 1; i < len(labelsWithValues); i += 2 {
		constLabels[labelsWithValues[i-1]] = labelsWithValues[i]
	}
	return constLabels
}

func counterInc(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}
