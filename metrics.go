// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes presentation counters for one swap chain.
type Metrics struct {
	// Presents counts completed present calls.
	Presents prometheus.Counter

	// VsyncWaits counts presents that blocked on a hardware vblank.
	VsyncWaits prometheus.Counter

	// FPS is the most recent frames-per-second sample, updated on the
	// same 1.5 second cadence as the fps log channel.
	FPS prometheus.Gauge
}

// newMetrics registers presentation metrics with reg. A nil registerer
// disables metrics; every accessor on the returned value is nil-safe at
// the call sites in this package.
func newMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		Presents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "present_frames_total",
			Help: "Total number of completed present calls",
		}),
		VsyncWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "present_vsync_waits_total",
			Help: "Total number of presents that waited for a vblank",
		}),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "present_fps",
			Help: "Most recent frames-per-second sample",
		}),
	}
	reg.MustRegister(m.Presents, m.VsyncWaits, m.FPS)
	return m
}
