// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import "github.com/gogpu/present/vsync"

// SwapEffect is the negotiated contract for back-buffer content after a
// present.
type SwapEffect uint8

const (
	// SwapEffectDiscard leaves the back-buffer content undefined after
	// a present.
	SwapEffectDiscard SwapEffect = iota

	// SwapEffectFlip exchanges the physical buffers; back-buffer copies
	// in other locations become stale.
	SwapEffectFlip

	// SwapEffectCopy preserves the back-buffer content across a
	// present.
	SwapEffectCopy
)

// String returns the swap effect name.
func (e SwapEffect) String() string {
	switch e {
	case SwapEffectDiscard:
		return "discard"
	case SwapEffectFlip:
		return "flip"
	case SwapEffectCopy:
		return "copy"
	}
	return "unknown"
}

// Params are the negotiated presentation parameters of a swap chain. They
// are immutable for the swap chain's whole life; changing them means
// creating a new swap chain.
type Params struct {
	// Windowed selects windowed (true) or fullscreen presentation.
	Windowed bool

	// SwapEffect is the back-buffer content contract.
	SwapEffect SwapEffect

	// BackBufferCount is the number of logical back buffers (>= 1).
	// Buffers beyond the first are software-managed slots; the
	// buffer-swap primitive only ever exchanges one front/back pair.
	BackBufferCount int

	// Interval paces presents against the display refresh.
	Interval vsync.Interval

	// DiscardDepthStencil marks the attached depth/stencil target as
	// discarded after every present.
	DiscardDepthStencil bool

	// AutoRestoreDisplayMode restores the original display mode when a
	// fullscreen swap chain is destroyed.
	AutoRestoreDisplayMode bool
}

// PresentFlags modify a single present call. No flags are currently
// defined; the field exists so the call contract is stable.
type PresentFlags uint32
