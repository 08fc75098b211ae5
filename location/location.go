// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package location tracks which physical storage locations hold a valid
// copy of a surface's pixel data.
//
// A presented surface can have up to three coexisting copies: one in
// system memory, one in a GPU texture, and one in the on-screen drawable.
// The presentation pipeline invalidates and revalidates these copies as
// frames move toward the screen; consumers check the mask before reading
// a copy and reload from a valid location when theirs is stale.
//
// Mask is deliberately a small named type with explicit transition
// operations instead of a raw bit field, so call sites read as intent
// (MarkValid, SetOnly) rather than bit arithmetic.
package location

import "strings"

// Location identifies one physical storage location of a surface.
type Location uint8

const (
	// SystemMemory is the CPU-side pixel copy.
	SystemMemory Location = 1 << iota

	// Texture is the GPU texture copy.
	Texture

	// Drawable is the on-screen drawable (window client area) copy.
	Drawable
)

// String returns the location name.
func (l Location) String() string {
	switch l {
	case SystemMemory:
		return "sysmem"
	case Texture:
		return "texture"
	case Drawable:
		return "drawable"
	}
	return "unknown"
}

// Mask is the set of locations currently holding valid pixel data for one
// surface. The zero value is the empty set (no valid copy anywhere, which
// is only legal for a surface without meaningful content yet).
//
// Mask is not safe for concurrent mutation; the owning surface serializes
// access the same way it serializes access to the pixel data itself.
type Mask struct {
	bits Location
}

// NewMask returns a mask with the given locations valid.
func NewMask(locs ...Location) Mask {
	var m Mask
	for _, l := range locs {
		m.MarkValid(l)
	}
	return m
}

// IsValid reports whether loc currently holds valid pixel data.
func (m *Mask) IsValid(loc Location) bool {
	return m.bits&loc != 0
}

// MarkValid records that loc holds valid pixel data. Other locations keep
// their validity: use this when the copy was produced without disturbing
// the others (for example after an in-place content swap).
func (m *Mask) MarkValid(loc Location) {
	m.bits |= loc
}

// MarkInvalid records that loc no longer holds valid pixel data.
func (m *Mask) MarkInvalid(loc Location) {
	m.bits &^= loc
}

// SetOnly records that loc is now the only location holding valid pixel
// data. Every other copy becomes stale and must be reloaded from loc
// before its next use.
func (m *Mask) SetOnly(loc Location) {
	m.bits = loc
}

// Any reports whether at least one location holds valid pixel data.
func (m *Mask) Any() bool {
	return m.bits != 0
}

// Equal reports whether two masks describe the same set of valid locations.
func (m *Mask) Equal(other Mask) bool {
	return m.bits == other.bits
}

// String returns the valid locations as a "+"-joined list, or "none".
func (m *Mask) String() string {
	if m.bits == 0 {
		return "none"
	}
	var names []string
	for _, l := range []Location{SystemMemory, Texture, Drawable} {
		if m.IsValid(l) {
			names = append(names, l.String())
		}
	}
	return strings.Join(names, "+")
}
