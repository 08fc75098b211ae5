// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package softsurface is a CPU-backed implementation of the present
// package's Surface collaborator.
//
// Pixel data lives in an *image.RGBA; stretch blits go through the
// golang.org/x/image/draw scalers, nearest-neighbor when source and
// destination sizes match and bilinear otherwise. The package backs
// software presentation paths and the present test suite; GPU backends
// provide their own Surface implementations.
package softsurface

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/present"
	"github.com/gogpu/present/location"
)

// Errors.
var (
	// ErrLocked is returned when locking an already locked surface.
	ErrLocked = errors.New("softsurface: surface already locked")

	// ErrNotLocked is returned when unlocking a surface that is not
	// locked.
	ErrNotLocked = errors.New("softsurface: surface not locked")
)

// UnsupportedSourceError indicates a blit source this surface cannot read
// pixels from.
type UnsupportedSourceError struct {
	Source present.BlitSource
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("softsurface: cannot read pixels from %T", e.Source)
}

// Surface is a presentable buffer stored in system memory.
//
// A fresh surface starts with a single ownership reference and a valid
// system-memory location. Surface is not safe for concurrent use; like
// all surfaces it is serialized by its owner.
type Surface struct {
	img    *image.RGBA
	format gputypes.TextureFormat
	mask   location.Mask

	refs        int
	discardHint bool
	discarded   bool

	locked   bool
	lockMode present.LockMode
}

// New creates a width x height surface with valid system-memory content
// (all zero pixels).
func New(width, height int) *Surface {
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		format: gputypes.TextureFormatRGBA8Unorm,
		mask:   location.NewMask(location.SystemMemory),
		refs:   1,
	}
}

// Size implements present.BlitSource.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Format implements present.BlitSource.
func (s *Surface) Format() gputypes.TextureFormat {
	return s.format
}

// ByteSize implements present.Surface.
func (s *Surface) ByteSize() int {
	return len(s.img.Pix)
}

// Pitch implements present.Surface.
func (s *Surface) Pitch() int {
	return s.img.Stride
}

// Locations implements present.Surface.
func (s *Surface) Locations() *location.Mask {
	return &s.mask
}

// RGBA returns the backing image. The caller shares storage with the
// surface; location bookkeeping is bypassed.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Lock implements present.Surface.
func (s *Surface) Lock(mode present.LockMode) (present.LockedRect, error) {
	if s.locked {
		return present.LockedRect{}, ErrLocked
	}
	s.locked = true
	s.lockMode = mode
	return present.LockedRect{Pitch: s.img.Stride, Bits: s.img.Pix}, nil
}

// Unlock implements present.Surface. Unlocking after a discard lock makes
// system memory the only valid location: the caller rewrote the content
// and every other copy is stale.
func (s *Surface) Unlock() error {
	if !s.locked {
		return ErrNotLocked
	}
	s.locked = false
	if s.lockMode == present.LockDiscard {
		s.mask.SetOnly(location.SystemMemory)
	}
	return nil
}

// Blit implements present.Surface. With a color key, fully transparent
// source pixels leave the destination untouched.
func (s *Surface) Blit(dstRect image.Rectangle, src present.BlitSource, srcRect image.Rectangle, opts present.BlitOptions) error {
	simg, ok := rgbaOf(src)
	if !ok {
		return &UnsupportedSourceError{Source: src}
	}

	op := xdraw.Src
	if opts.ColorKey {
		op = xdraw.Over
	}

	if dstRect.Dx() == srcRect.Dx() && dstRect.Dy() == srcRect.Dy() {
		xdraw.Copy(s.img, dstRect.Min, simg, srcRect, op, nil)
	} else {
		scaler := scalerFor(opts.Filter)
		scaler.Scale(s.img, dstRect, simg, srcRect, op, nil)
	}
	s.mask.SetOnly(location.SystemMemory)
	return nil
}

// BlitFast implements present.Surface.
func (s *Surface) BlitFast(x, y int, src present.BlitSource, colorKey bool) error {
	simg, ok := rgbaOf(src)
	if !ok {
		return &UnsupportedSourceError{Source: src}
	}
	op := xdraw.Src
	if colorKey {
		op = xdraw.Over
	}
	xdraw.Copy(s.img, image.Pt(x, y), simg, simg.Bounds(), op, nil)
	s.mask.SetOnly(location.SystemMemory)
	return nil
}

// SwapContent implements present.Surface: the two surfaces exchange their
// pixel storage and location masks in place.
func (s *Surface) SwapContent(other present.Surface) error {
	o, ok := other.(*Surface)
	if !ok {
		return fmt.Errorf("softsurface: cannot swap content with %T", other)
	}
	if len(s.img.Pix) != len(o.img.Pix) {
		return fmt.Errorf("softsurface: content size mismatch: %d != %d",
			len(s.img.Pix), len(o.img.Pix))
	}
	s.img, o.img = o.img, s.img
	s.mask, o.mask = o.mask, s.mask
	return nil
}

// SetDiscardHint marks the surface as created with a discard hint.
func (s *Surface) SetDiscardHint(on bool) {
	s.discardHint = on
}

// DiscardHint implements present.Surface.
func (s *Surface) DiscardHint() bool {
	return s.discardHint
}

// MarkDiscarded implements present.Surface.
func (s *Surface) MarkDiscarded() {
	s.discarded = true
}

// Discarded reports whether the content was discarded after a present.
func (s *Surface) Discarded() bool {
	return s.discarded
}

// AddRef adds an ownership reference.
func (s *Surface) AddRef() {
	s.refs++
}

// Release implements present.Surface.
func (s *Surface) Release() int {
	s.refs--
	return s.refs
}

// rgbaOf extracts readable pixels from a blit source: another Surface, a
// TextureView wrapping a pixel-readable texture, or anything exposing an
// RGBA image.
func rgbaOf(src present.BlitSource) (*image.RGBA, bool) {
	switch v := src.(type) {
	case *Surface:
		return v.img, true
	case *present.TextureView:
		if p, ok := v.Texture.(interface{ RGBA() *image.RGBA }); ok {
			return p.RGBA(), true
		}
	case interface{ RGBA() *image.RGBA }:
		return v.RGBA(), true
	}
	return nil, false
}

// scalerFor maps a blit filter onto an x/image scaler.
func scalerFor(f present.Filter) xdraw.Scaler {
	if f == present.FilterBilinear {
		return xdraw.BiLinear
	}
	return xdraw.NearestNeighbor
}

// Surface satisfies the present collaborator interface.
var _ present.Surface = (*Surface)(nil)
