// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vsync paces presentation to the display's vertical-blank cadence.
//
// The Pacer sits on top of an optional hardware primitive, modeled by the
// Source interface: a monotonically increasing vblank counter plus a wait
// call that blocks until the counter reaches a requested phase. One Pace
// call is issued per presented frame; if the application has already
// fallen behind the requested interval, the pacer resynchronizes to the
// observed counter instead of waiting, so missed vblanks never accumulate
// into an unbounded stall.
package vsync

import (
	"go.uber.org/zap"
)

// Interval selects how many vblanks separate two presented frames.
type Interval uint8

const (
	// IntervalDefault presents at most once per vblank, like IntervalOne.
	IntervalDefault Interval = iota

	// IntervalImmediate presents without waiting for a vblank.
	IntervalImmediate

	// IntervalOne presents at most once per vblank.
	IntervalOne

	// IntervalTwo presents at most once per two vblanks.
	IntervalTwo

	// IntervalThree presents at most once per three vblanks.
	IntervalThree

	// IntervalFour presents at most once per four vblanks.
	IntervalFour
)

// String returns the interval name.
func (i Interval) String() string {
	switch i {
	case IntervalDefault:
		return "default"
	case IntervalImmediate:
		return "immediate"
	case IntervalOne:
		return "one"
	case IntervalTwo:
		return "two"
	case IntervalThree:
		return "three"
	case IntervalFour:
		return "four"
	}
	return "unknown"
}

// Source is the hardware vblank primitive.
//
// Counter returns the current vblank count. Wait blocks until the vblank
// count m satisfies m > current and m % divisor == remainder, then returns
// the new count. Both calls map onto counter-based video sync extensions
// such as GLX_SGI_video_sync.
type Source interface {
	Counter() (uint32, error)
	Wait(divisor, remainder uint32) (uint32, error)
}

// Pacer throttles presents against a Source.
//
// Pacer is not safe for concurrent use; it is owned by a single swap chain
// whose presents are already caller-serialized.
type Pacer struct {
	src Source
	log *zap.Logger

	// counter is the last vblank count this pacer observed, either from
	// a direct query or as the output of a wait.
	counter uint32
}

// NewPacer returns a pacer over src. A nil logger disables diagnostics.
func NewPacer(src Source, log *zap.Logger) *Pacer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pacer{src: src, log: log}
}

// Counter returns the last vblank count the pacer observed.
func (p *Pacer) Counter() uint32 {
	return p.counter
}

// Pace blocks until the next present is allowed under the given interval.
// It reports whether a hardware wait was issued.
//
// Primitive failures are diagnostic-only: they are logged and Pace returns
// as if no wait were needed. An unrecognized interval is likewise logged
// and skipped.
func (p *Pacer) Pace(interval Interval) bool {
	if interval == IntervalImmediate {
		return false
	}

	sync, err := p.src.Counter()
	if err != nil {
		p.log.Error("vblank counter query failed", zap.Error(err))
		return false
	}

	var frames uint32
	switch interval {
	case IntervalDefault, IntervalOne:
		frames = 1
	case IntervalTwo:
		frames = 2
	case IntervalThree:
		frames = 3
	case IntervalFour:
		frames = 4
	default:
		p.log.Warn("unknown presentation interval", zap.Uint8("interval", uint8(interval)))
		return false
	}

	if sync <= p.counter+(frames-1) {
		next, err := p.src.Wait(frames, p.counter%frames)
		if err != nil {
			p.log.Error("vblank wait failed", zap.Error(err))
			return false
		}
		p.counter = next
		return true
	}

	// We already missed the target vblank. Adopt the observed counter
	// so the next frame does not inherit the backlog.
	p.counter = sync
	return false
}
