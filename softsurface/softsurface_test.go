// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softsurface

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/present"
	"github.com/gogpu/present/location"
)

func fill(s *Surface, c color.RGBA) {
	b := s.RGBA().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.RGBA().SetRGBA(x, y, c)
		}
	}
}

// TestNewSurface tests initial state.
func TestNewSurface(t *testing.T) {
	s := New(8, 4)

	w, h := s.Size()
	if w != 8 || h != 4 {
		t.Errorf("Size() = %dx%d, want 8x4", w, h)
	}
	if !s.Locations().IsValid(location.SystemMemory) {
		t.Error("new surface should have a valid system-memory copy")
	}
	if s.Pitch() != s.RGBA().Stride {
		t.Error("Pitch must match the image stride")
	}
	if s.ByteSize() != len(s.RGBA().Pix) {
		t.Error("ByteSize must cover the whole pixel buffer")
	}
}

// TestLockUnlock tests lock bookkeeping and the discard transition.
func TestLockUnlock(t *testing.T) {
	s := New(4, 4)
	s.Locations().MarkValid(location.Texture)

	r, err := s.Lock(present.LockReadOnly)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if r.Pitch != s.Pitch() || len(r.Bits) != s.ByteSize() {
		t.Error("locked rect must expose the full buffer")
	}
	if _, err := s.Lock(present.LockReadOnly); err != ErrLocked {
		t.Errorf("double Lock = %v, want ErrLocked", err)
	}
	if err := s.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if !s.Locations().IsValid(location.Texture) {
		t.Error("read-only unlock must not invalidate other locations")
	}

	if _, err := s.Lock(present.LockDiscard); err != nil {
		t.Fatalf("Lock discard: %v", err)
	}
	if err := s.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if s.Locations().IsValid(location.Texture) {
		t.Error("discard unlock must leave system memory as the only valid location")
	}
	if !s.Locations().IsValid(location.SystemMemory) {
		t.Error("system memory must be valid after a discard unlock")
	}

	if err := s.Unlock(); err != ErrNotLocked {
		t.Errorf("Unlock without Lock = %v, want ErrNotLocked", err)
	}
}

// TestBlitCopy tests a same-size blit.
func TestBlitCopy(t *testing.T) {
	dst := New(4, 4)
	src := New(4, 4)
	fill(src, color.RGBA{R: 255, A: 255})

	err := dst.Blit(image.Rect(0, 0, 4, 4), src, image.Rect(0, 0, 4, 4), present.BlitOptions{})
	if err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if got := dst.RGBA().RGBAAt(2, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel = %v, want solid red", got)
	}
}

// TestBlitScaled tests a stretch blit.
func TestBlitScaled(t *testing.T) {
	dst := New(8, 8)
	src := New(4, 4)
	fill(src, color.RGBA{G: 255, A: 255})

	err := dst.Blit(image.Rect(0, 0, 8, 8), src, image.Rect(0, 0, 4, 4),
		present.BlitOptions{Filter: present.FilterNearest})
	if err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if got := dst.RGBA().RGBAAt(7, 7); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel = %v, want solid green", got)
	}
}

// TestBlitColorKey tests that transparent source pixels leave the
// destination untouched.
func TestBlitColorKey(t *testing.T) {
	dst := New(2, 1)
	fill(dst, color.RGBA{B: 255, A: 255})

	src := New(2, 1)
	src.RGBA().SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	// (1, 0) stays fully transparent: the keyed pixel.

	err := dst.Blit(image.Rect(0, 0, 2, 1), src, image.Rect(0, 0, 2, 1),
		present.BlitOptions{ColorKey: true})
	if err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if got := dst.RGBA().RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("opaque pixel = %v, want red", got)
	}
	if got := dst.RGBA().RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("keyed pixel = %v, want untouched blue", got)
	}
}

// TestBlitFast tests the unscaled corner blit used for the logo.
func TestBlitFast(t *testing.T) {
	dst := New(4, 4)
	src := New(2, 2)
	fill(src, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	if err := dst.BlitFast(0, 0, src, true); err != nil {
		t.Fatalf("BlitFast: %v", err)
	}
	if got := dst.RGBA().RGBAAt(1, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v, want logo color", got)
	}
	if got := dst.RGBA().RGBAAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("pixel outside the logo = %v, want untouched", got)
	}
}

// TestBlitTextureView tests reading pixels through a non-owning view.
func TestBlitTextureView(t *testing.T) {
	dst := New(2, 2)
	tex := New(2, 2)
	fill(tex, color.RGBA{R: 9, A: 255})

	view := &present.TextureView{
		Texture: tex,
		Width:   2,
		Height:  2,
		Rect:    image.Rect(0, 0, 2, 2),
	}
	err := dst.Blit(image.Rect(0, 0, 2, 2), view, view.Rect, present.BlitOptions{})
	if err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if got := dst.RGBA().RGBAAt(0, 0); got != (color.RGBA{R: 9, A: 255}) {
		t.Errorf("pixel = %v, want view content", got)
	}
}

// TestBlitUnsupportedSource tests the typed error for opaque sources.
func TestBlitUnsupportedSource(t *testing.T) {
	dst := New(2, 2)
	view := &present.TextureView{Texture: struct{}{}, Width: 2, Height: 2}

	err := dst.Blit(image.Rect(0, 0, 2, 2), view, image.Rect(0, 0, 2, 2), present.BlitOptions{})
	if _, ok := err.(*UnsupportedSourceError); !ok {
		t.Errorf("err = %v, want *UnsupportedSourceError", err)
	}
}

// TestSwapContent tests the in-place content and mask exchange.
func TestSwapContent(t *testing.T) {
	a := New(2, 2)
	b := New(2, 2)
	fill(a, color.RGBA{R: 255, A: 255})
	fill(b, color.RGBA{B: 255, A: 255})
	a.Locations().MarkValid(location.Texture)

	if err := a.SwapContent(b); err != nil {
		t.Fatalf("SwapContent: %v", err)
	}
	if got := a.RGBA().RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("a pixel = %v, want b's blue", got)
	}
	if got := b.RGBA().RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("b pixel = %v, want a's red", got)
	}
	if a.Locations().IsValid(location.Texture) {
		t.Error("masks must travel with the content")
	}
	if !b.Locations().IsValid(location.Texture) {
		t.Error("b should have inherited a's texture validity")
	}
}

// TestSwapContentMismatch tests the size guard.
func TestSwapContentMismatch(t *testing.T) {
	a := New(2, 2)
	b := New(4, 4)

	if err := a.SwapContent(b); err == nil {
		t.Error("SwapContent with mismatched sizes should fail")
	}
}

// TestRelease tests reference bookkeeping.
func TestRelease(t *testing.T) {
	s := New(1, 1)
	s.AddRef()

	if refs := s.Release(); refs != 1 {
		t.Errorf("refs = %d, want 1", refs)
	}
	if refs := s.Release(); refs != 0 {
		t.Errorf("refs = %d, want 0", refs)
	}
}

// TestDiscard tests the discard marker.
func TestDiscard(t *testing.T) {
	s := New(1, 1)
	if s.DiscardHint() || s.Discarded() {
		t.Fatal("fresh surface must not be discarded")
	}
	s.SetDiscardHint(true)
	if !s.DiscardHint() {
		t.Error("discard hint should stick")
	}
	s.MarkDiscarded()
	if !s.Discarded() {
		t.Error("discard marker should stick")
	}
}
