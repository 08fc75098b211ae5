// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/gogpu/present/frametrace"
	"github.com/gogpu/present/location"
	"github.com/gogpu/present/vsync"
)

// fpsSampleWindow is how much time must pass between two fps reports.
const fpsSampleWindow = 1500 * time.Millisecond

// PresentOptions modify a single Present call. The zero value (or a nil
// pointer) is a full-surface present to the current window.
type PresentOptions struct {
	// SourceRect restricts the presented region of the back buffer.
	// Accepted but not implemented precisely: a diagnostic is emitted
	// and the full surface is presented.
	SourceRect *image.Rectangle

	// DestRect restricts the destination region. Same caveat as
	// SourceRect.
	DestRect *image.Rectangle

	// DestWindowOverride presents into a different window, retargeting
	// the swap chain first when it differs from the current window.
	DestWindowOverride Window

	// DirtyRegion hints at the changed region. Unused.
	DirtyRegion []image.Rectangle

	// Flags are reserved.
	Flags PresentFlags
}

// Present moves the finished back buffer to the screen: overlay
// composition (cursor, logo), the off-screen resolve when needed, one
// buffer swap, location bookkeeping per the negotiated swap effect,
// depth-stencil discard and vsync pacing, in that order.
//
// Context acquisition failure is the only hard failure; everything else
// is best-effort and diagnostic-only. Presents on one swap chain must be
// serialized by the caller.
func (sc *SwapChain) Present(opts *PresentOptions) error {
	if sc.destroyed {
		return ErrDestroyed
	}
	if opts == nil {
		opts = &PresentOptions{}
	}

	ctx, err := sc.ctxmgr.Acquire(sc.back[0], UsageResourceLoad)
	if err != nil {
		return fmt.Errorf("present: acquire context: %w", err)
	}
	defer sc.ctxmgr.Release(ctx)

	sc.composeCursor()
	sc.composeLogo()

	if opts.SourceRect != nil || opts.DestRect != nil {
		sc.log.Warn("partial present rectangles are not supported, presenting the full surface",
			zap.Any("source", opts.SourceRect), zap.Any("dest", opts.DestRect))
	}

	if opts.DestWindowOverride != nil && opts.DestWindowOverride != sc.win {
		if err := sc.SetDestWindow(opts.DestWindowOverride); err != nil {
			sc.log.Warn("destination window override failed", zap.Error(err))
		}
	}

	if sc.offscreen {
		// A back-buffer/window size mismatch cannot happen fullscreen
		// and partial rectangles need the copy effect, so this path
		// belongs to the copy and discard effects. A flip chain that
		// ended up off-screen has no physical pair to exchange.
		if sc.params.SwapEffect == SwapEffectFlip {
			sc.log.Warn("off-screen rendering with flip swap effect is unsupported")
		}
		sc.blitToDrawable(ctx)
	}

	if err := sc.presenter.SwapBuffers(sc.primaryContext().Drawable()); err != nil {
		sc.log.Warn("buffer swap failed", zap.Error(err))
	}

	sc.countFrame()
	sc.applySwapEffect()
	sc.discardDepthStencil()

	if sc.pacer != nil && sc.params.Interval != vsync.IntervalImmediate {
		if sc.pacer.Pace(sc.params.Interval) && sc.meters != nil {
			sc.meters.VsyncWaits.Inc()
		}
	}

	if sc.meters != nil {
		sc.meters.Presents.Inc()
	}
	sc.seq++
	sc.hook.FramePresented(frametrace.Frame{Seq: sc.seq, When: time.Now()})
	return nil
}

// composeCursor blits the hardware cursor onto back buffer 0 at its
// screen position, adjusted into client coordinates when windowed. The
// cursor texture is wrapped in a transient non-owning view so the regular
// blit path can consume it without a full surface object.
func (sc *SwapChain) composeCursor() {
	cur, visible := sc.device.Cursor()
	if !visible || cur.Texture == nil {
		return
	}

	view := &TextureView{
		Texture:     cur.Texture,
		PixelFormat: gputypes.TextureFormatBGRA8Unorm,
		Width:       cur.Width,
		Height:      cur.Height,
		Rect:        image.Rect(0, 0, cur.Width, cur.Height),
	}
	dst := image.Rect(
		cur.X-cur.HotspotX,
		cur.Y-cur.HotspotY,
		cur.X+cur.Width-cur.HotspotX,
		cur.Y+cur.Height-cur.HotspotY,
	)
	if sc.params.Windowed {
		dst = image.Rectangle{
			Min: sc.win.MapFromScreen(dst.Min),
			Max: sc.win.MapFromScreen(dst.Max),
		}
	}

	// The color key turns transparent cursor pixels into holes, which
	// is exactly what a cursor blit needs.
	err := sc.back[0].Blit(dst, view, view.Rect, BlitOptions{ColorKey: true, Filter: FilterNearest})
	if err != nil {
		sc.log.Warn("cursor composition failed", zap.Error(err))
	}
}

// composeLogo blits the configured branding image into the top-left
// corner of back buffer 0.
func (sc *SwapChain) composeLogo() {
	logo := sc.device.Logo()
	if logo == nil {
		return
	}
	if err := sc.back[0].BlitFast(0, 0, logo, true); err != nil {
		sc.log.Warn("logo composition failed", zap.Error(err))
	}
}

// blitToDrawable resolves the off-screen render target into the on-screen
// drawable, scaled to the window's client area. A framebuffer-blit
// capability on the acquired context is the fast path; otherwise the
// resolve is drawn as a textured quad through a dedicated blit context.
func (sc *SwapChain) blitToDrawable(ctx Context) {
	back := sc.back[0]
	w, h := back.Size()
	cw, ch := sc.win.ClientSize()

	filter := FilterBilinear
	if w == cw && h == ch {
		filter = FilterNearest
	}

	if fb, ok := ctx.(FramebufferBlitter); ok {
		err := fb.BlitFramebuffer(back, image.Rect(0, 0, w, h), image.Rect(0, 0, cw, ch), filter)
		if err != nil {
			sc.log.Warn("framebuffer blit failed", zap.Error(err))
			return
		}
		// The blit path disables scissor testing on the raw context.
		sc.device.MarkRenderStateDirty(StateScissorTest)
		return
	}

	blitCtx, err := sc.ctxmgr.Acquire(back, UsageBlit)
	if err != nil {
		sc.log.Warn("acquire blit context failed", zap.Error(err))
		return
	}
	defer sc.ctxmgr.Release(blitCtx)

	qb, ok := blitCtx.(QuadBlitter)
	if !ok {
		sc.log.Warn("blit context cannot draw textured quads")
		return
	}
	if err := qb.DrawTexturedQuad(back, image.Rect(0, 0, cw, ch)); err != nil {
		sc.log.Warn("quad blit failed", zap.Error(err))
	}
}

// countFrame advances the fps accounting and reports a sample when the
// window has elapsed.
func (sc *SwapChain) countFrame() {
	sc.frames++
	elapsed := time.Since(sc.prevTime)
	if elapsed < fpsSampleWindow {
		return
	}
	fps := float64(sc.frames) / elapsed.Seconds()
	sc.fpsLog.Debug("frame rate sample", zap.Float64("fps", fps))
	if sc.meters != nil {
		sc.meters.FPS.Set(fps)
	}
	sc.prevTime = time.Now()
	sc.frames = 0
}

// applySwapEffect updates surface location validity after the buffer swap.
//
// Without off-screen rendering, front and back buffers whose
// system-memory copies are both valid and of equal size get their stored
// content exchanged in place, which keeps every other location copy
// usable; mismatched copies instead force a reload by making the drawable
// the only valid location of both buffers. With off-screen rendering only
// the front buffer reloads from the drawable, except under the flip
// effect, where the physical buffers were exchanged and back buffer 0's
// other copies are stale too. Discard leaves the back buffer undefined
// and copy preserves it, so neither needs the forced reload.
func (sc *SwapChain) applySwapEffect() {
	fl := sc.front.Locations()
	bl := sc.back[0].Locations()

	if !sc.offscreen {
		frontMem := fl.IsValid(location.SystemMemory)
		backMem := bl.IsValid(location.SystemMemory)

		if frontMem && backMem && sc.front.ByteSize() == sc.back[0].ByteSize() {
			if err := sc.front.SwapContent(sc.back[0]); err != nil {
				sc.log.Warn("front/back content swap failed", zap.Error(err))
				fl.SetOnly(location.Drawable)
				bl.SetOnly(location.Drawable)
				return
			}
			// The swap exchanged the masks along with the content,
			// so the other locations stayed coherent; only the
			// drawable copy of the front buffer gained new content.
			fl.MarkValid(location.Drawable)
			return
		}
		if frontMem || backMem {
			// A system-memory copy exists but the pair cannot be
			// swapped in place. Both buffers reload every other
			// location from the drawable.
			fl.SetOnly(location.Drawable)
			bl.SetOnly(location.Drawable)
			return
		}
	}

	fl.SetOnly(location.Drawable)
	if sc.params.SwapEffect == SwapEffectFlip {
		// The physical buffers were exchanged, so back buffer 0's
		// texture and system-memory copies are stale. Discard leaves
		// the back buffer undefined and copy preserves it; neither
		// needs the forced reload.
		bl.SetOnly(location.Drawable)
	}
}

// discardDepthStencil marks the attached depth/stencil target discarded
// when the chain's parameters request it or the target itself carries a
// discard hint.
func (sc *SwapChain) discardDepthStencil() {
	ds := sc.device.DepthStencil()
	if ds == nil {
		return
	}
	if sc.params.DiscardDepthStencil || ds.DiscardHint() {
		ds.MarkDiscarded()
	}
}
