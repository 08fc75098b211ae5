// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gogpu/present/frametrace"
	"github.com/gogpu/present/vsync"
)

// Options configures swap chain creation. Device, Contexts, Presenter,
// Window, FrontBuffer and at least one back buffer are required; the rest
// default to disabled.
type Options struct {
	// Device is the device collaborator.
	Device Device

	// Contexts is the context collaborator.
	Contexts ContextManager

	// Presenter is the buffer-swap primitive.
	Presenter Presenter

	// Window is the destination window.
	Window Window

	// FrontBuffer is the surface mapped to the on-screen drawable.
	FrontBuffer Surface

	// BackBuffers are the render targets, ordered; BackBuffers[0] is
	// the buffer presents read from. Its length must match
	// Params.BackBufferCount.
	BackBuffers []Surface

	// Params are the negotiated presentation parameters.
	Params Params

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger

	// VsyncSource is the hardware vblank primitive. Nil disables
	// hardware pacing regardless of Params.Interval.
	VsyncSource vsync.Source

	// Hook is invoked once per completed present. Defaults to a no-op.
	Hook frametrace.Hook

	// Metrics registers presentation metrics when non-nil.
	Metrics prometheus.Registerer
}

// SwapChain owns one front buffer, one or more back buffers and the
// rendering contexts bound to them, and moves completed frames to the
// screen.
//
// A swap chain assumes its presents are serialized by the caller: there is
// exactly one front buffer, so two concurrent Present calls on the same
// chain have no meaningful outcome. Context creation for additional
// threads is the one operation that is internally synchronized.
type SwapChain struct {
	device    Device
	ctxmgr    ContextManager
	presenter Presenter
	win       Window
	front     Surface
	back      []Surface
	params    Params

	log    *zap.Logger
	fpsLog *zap.Logger
	hook   frametrace.Hook
	pacer  *vsync.Pacer
	meters *Metrics

	// Snapshots taken at construction, restored on Destroy.
	origMode  DisplayMode
	origGamma GammaRamp

	// offscreen records whether rendering goes to an off-screen target
	// that must be resolved into the drawable before the buffer swap.
	offscreen bool

	// mu guards the contexts slice. Growth is append-only; contexts[0]
	// is the primary context for this chain.
	mu       sync.Mutex
	contexts []Context

	frames   int
	prevTime time.Time
	seq      uint64

	destroyed bool
}

// New creates a swap chain for an established presentation target. The
// primary rendering context is created immediately; contexts for other
// threads are created on demand via CreateContextForThread.
func New(opts Options) (*SwapChain, error) {
	switch {
	case opts.Device == nil:
		return nil, &MissingCollaboratorError{Name: "Device"}
	case opts.Contexts == nil:
		return nil, &MissingCollaboratorError{Name: "Contexts"}
	case opts.Presenter == nil:
		return nil, &MissingCollaboratorError{Name: "Presenter"}
	case opts.Window == nil:
		return nil, &MissingCollaboratorError{Name: "Window"}
	case opts.FrontBuffer == nil:
		return nil, &MissingCollaboratorError{Name: "FrontBuffer"}
	}
	if len(opts.BackBuffers) == 0 {
		return nil, ErrNoBackBuffers
	}
	if opts.Params.BackBufferCount != len(opts.BackBuffers) {
		return nil, fmt.Errorf("present: params declare %d back buffers, %d supplied",
			opts.Params.BackBufferCount, len(opts.BackBuffers))
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	hook := opts.Hook
	if hook == nil {
		hook = frametrace.Nop()
	}

	sc := &SwapChain{
		device:    opts.Device,
		ctxmgr:    opts.Contexts,
		presenter: opts.Presenter,
		win:       opts.Window,
		front:     opts.FrontBuffer,
		back:      append([]Surface(nil), opts.BackBuffers...),
		params:    opts.Params,
		log:       log,
		fpsLog:    log.Named("fps"),
		hook:      hook,
		meters:    newMetrics(opts.Metrics),
		prevTime:  time.Now(),
	}
	if opts.VsyncSource != nil {
		sc.pacer = vsync.NewPacer(opts.VsyncSource, log)
	}

	// Snapshot what Destroy restores. Failures leave zero values and
	// are diagnostic only: a device without mode switching simply has
	// nothing to restore.
	var err error
	if sc.origMode, err = sc.device.DisplayMode(); err != nil {
		log.Warn("display mode snapshot failed", zap.Error(err))
	}
	if sc.origGamma, err = sc.device.GammaRamp(); err != nil {
		log.Warn("gamma ramp snapshot failed", zap.Error(err))
	}

	ctx, err := sc.ctxmgr.Create(sc.front, sc.win, false, sc.params)
	if err != nil {
		return nil, fmt.Errorf("present: create primary context: %w", err)
	}
	sc.contexts = []Context{ctx}
	return sc, nil
}

// Window returns the swap chain's current destination window.
func (sc *SwapChain) Window() Window {
	return sc.win
}

// Parameters returns the negotiated presentation parameters.
func (sc *SwapChain) Parameters() Params {
	return sc.params
}

// FrontBuffer returns the surface mapped to the on-screen drawable.
func (sc *SwapChain) FrontBuffer() Surface {
	return sc.front
}

// BackBuffer returns back buffer i.
func (sc *SwapChain) BackBuffer(i int) (Surface, error) {
	if i < 0 || i >= len(sc.back) {
		return nil, fmt.Errorf("present: back buffer %d of %d", i, len(sc.back))
	}
	return sc.back[i], nil
}

// SetOffscreenRendering switches the swap chain between direct and
// off-screen rendering. With off-screen rendering active, Present resolves
// the off-screen target into the drawable before swapping buffers.
func (sc *SwapChain) SetOffscreenRendering(on bool) {
	sc.offscreen = on
}

// OffscreenRendering reports whether off-screen rendering is active.
func (sc *SwapChain) OffscreenRendering() bool {
	return sc.offscreen
}

// DrawableSize returns the drawable size for a context rendering to an
// on-screen target. The drawable of an on-screen target is the window
// itself, and the render target is created in window size, so the surface
// size is authoritative.
func DrawableSize(ctx Context) (width, height int) {
	return ctx.CurrentRenderTarget().Size()
}

// Destroy releases everything the swap chain owns. The gamma ramp is
// restored first; back buffers are released before the front buffer
// because context lookup by drawable depends on the front buffer existing
// until the other buffers are gone; the original display mode is restored
// last when the chain was fullscreen with auto-restore.
func (sc *SwapChain) Destroy() {
	if sc.destroyed {
		return
	}
	sc.destroyed = true

	if err := sc.device.SetGammaRamp(sc.origGamma); err != nil {
		sc.log.Warn("gamma ramp restore failed", zap.Error(err))
	}

	for i := len(sc.back) - 1; i >= 0; i-- {
		if refs := sc.back[i].Release(); refs != 0 {
			sc.log.Warn("something still holds a back buffer",
				zap.Int("buffer", i), zap.Int("refs", refs))
		}
	}
	sc.back = nil
	if refs := sc.front.Release(); refs != 0 {
		sc.log.Warn("something still holds the front buffer", zap.Int("refs", refs))
	}
	sc.front = nil

	sc.mu.Lock()
	contexts := sc.contexts
	sc.contexts = nil
	sc.mu.Unlock()
	for _, ctx := range contexts {
		sc.ctxmgr.Destroy(ctx)
	}

	if !sc.params.Windowed && sc.params.AutoRestoreDisplayMode {
		mode := sc.origMode
		mode.RefreshRate = 0
		if err := sc.device.SetDisplayMode(mode); err != nil {
			sc.log.Warn("display mode restore failed", zap.Error(err))
		}
	}
}
