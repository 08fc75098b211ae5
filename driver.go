// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/present/location"
)

// Drawable is the opaque native handle of an on-screen destination. It is
// produced by the context collaborator and consumed only by the Presenter;
// this package never inspects it.
type Drawable any

// Window is the native window a swap chain presents into.
//
// Implementations must be comparable (typically a pointer type): the swap
// chain decides whether a destination override actually changes the target
// by comparing Window values.
type Window interface {
	// ClientSize returns the size of the window's client area in pixels.
	ClientSize() (width, height int)

	// MapFromScreen converts a point from screen coordinates into this
	// window's client-area coordinates.
	MapFromScreen(pt image.Point) image.Point
}

// LockMode selects how surface pixel data is locked for CPU access.
type LockMode uint8

const (
	// LockReadOnly locks for reading; the caller must not modify Bits.
	LockReadOnly LockMode = iota

	// LockDiscard locks for writing and tells the surface that the
	// previous content does not need to be preserved.
	LockDiscard
)

// LockedRect describes locked surface memory. Bits covers at least
// Pitch * height bytes; rows are Pitch bytes apart, which may exceed
// width * bytes-per-pixel when rows are padded.
type LockedRect struct {
	Pitch int
	Bits  []byte
}

// Filter specifies the interpolation mode for stretch blits.
type Filter uint8

const (
	// FilterNearest uses nearest-neighbor interpolation.
	FilterNearest Filter = iota

	// FilterBilinear uses bilinear interpolation.
	FilterBilinear
)

// BlitOptions configures a surface blit.
type BlitOptions struct {
	// ColorKey skips fully transparent source pixels instead of
	// copying them, so the destination shows through.
	ColorKey bool

	// Filter is the interpolation mode when source and destination
	// rectangles differ in size.
	Filter Filter
}

// BlitSource is anything surface blit operations can read from: a full
// Surface or a non-owning TextureView.
type BlitSource interface {
	// Size returns the source dimensions in pixels.
	Size() (width, height int)

	// Format returns the source pixel format.
	Format() gputypes.TextureFormat
}

// Surface is the surface collaborator: one presentable buffer plus the
// bookkeeping this package mutates. The swap chain never changes a
// surface's format or allocation, only its content and location validity.
type Surface interface {
	BlitSource

	// ByteSize returns the total byte size of the surface's pixel data.
	ByteSize() int

	// Pitch returns the row pitch in bytes of the locked pixel data.
	Pitch() int

	// Locations returns the surface's location-validity mask. The
	// returned pointer stays attached to the surface; mutations through
	// it are visible to every holder.
	Locations() *location.Mask

	// Lock maps the system-memory pixel copy for CPU access.
	Lock(mode LockMode) (LockedRect, error)

	// Unlock releases a previous Lock.
	Unlock() error

	// Blit copies src's srcRect into dstRect of this surface, scaling
	// when the rectangles differ in size.
	Blit(dstRect image.Rectangle, src BlitSource, srcRect image.Rectangle, opts BlitOptions) error

	// BlitFast copies src unscaled with its top-left corner at (x, y).
	// With colorKey set, fully transparent source pixels are skipped.
	BlitFast(x, y int, src BlitSource, colorKey bool) error

	// SwapContent exchanges the stored pixel content and location masks
	// of this surface and other. Both surfaces must have equal byte
	// sizes and compatible storage.
	SwapContent(other Surface) error

	// DiscardHint reports whether the surface was created with a
	// discard hint, allowing its content to be thrown away after a
	// present.
	DiscardHint() bool

	// MarkDiscarded records that the surface content has been
	// discarded and must be regenerated before its next use.
	MarkDiscarded()

	// Release drops the swap chain's ownership reference and returns
	// the number of references still outstanding.
	Release() int
}

// TextureView is a non-owning descriptor wrapping an existing GPU texture
// so it can be fed to blit operations without constructing a full surface.
//
// A view carries only what the blit path reads. It never enters location
// tracking and is not reference counted; the texture's owner must keep it
// alive for the duration of the blit.
type TextureView struct {
	// Texture is the wrapped texture handle, typically a
	// gpucontext.Texture. Software surfaces may understand other
	// pixel-readable handles.
	Texture any

	// PixelFormat is the texture's pixel format.
	PixelFormat gputypes.TextureFormat

	// Width and Height are the texture dimensions in pixels.
	Width, Height int

	// Rect is the region of the texture the blit reads.
	Rect image.Rectangle
}

// Size implements BlitSource.
func (v *TextureView) Size() (width, height int) {
	return v.Width, v.Height
}

// Format implements BlitSource.
func (v *TextureView) Format() gputypes.TextureFormat {
	return v.PixelFormat
}

// ContextUsage tells the context collaborator what the caller is about to
// do with an acquired context.
type ContextUsage uint8

const (
	// UsageResourceLoad acquires a context suitable for uploading
	// resources to the target surface.
	UsageResourceLoad ContextUsage = iota

	// UsageBlit acquires a context set up for blit drawing.
	UsageBlit
)

// Context is one rendering context owned by a swap chain. It is bound to
// a single window and render target for its whole life.
type Context interface {
	// Window returns the window this context renders into.
	Window() Window

	// Drawable returns the native drawable handle presents go to.
	Drawable() Drawable

	// IsPrimary reports whether this is the process-wide primary
	// context that owns all GPU-side resource objects. Destroying a
	// primary context implies a device-wide resource reload.
	IsPrimary() bool

	// CurrentRenderTarget returns the surface currently associated
	// with the context.
	CurrentRenderTarget() Surface
}

// FramebufferBlitter is an optional Context capability: a direct
// framebuffer-to-drawable blit. The swap chain prefers it over the
// textured-quad fallback. Implementations may disable scissor testing;
// the swap chain notifies the device afterwards so dependent render state
// is revalidated.
type FramebufferBlitter interface {
	BlitFramebuffer(src Surface, srcRect, dstRect image.Rectangle, filter Filter) error
}

// QuadBlitter is an optional Context capability: resolving a surface to
// the drawable by drawing a textured full-viewport quad. Implementations
// must preserve and restore viewport and projection state around the draw.
type QuadBlitter interface {
	DrawTexturedQuad(src Surface, dstRect image.Rectangle) error
}

// ContextManager is the context collaborator. Acquire may block when the
// underlying context is current on another thread; that policy belongs to
// the collaborator, not to this package.
type ContextManager interface {
	// Acquire makes a context current that can operate on target with
	// the given usage.
	Acquire(target Surface, usage ContextUsage) (Context, error)

	// Release releases a context obtained from Acquire.
	Release(ctx Context)

	// Create creates a context rendering to front through win.
	Create(front Surface, win Window, offscreen bool, params Params) (Context, error)

	// Destroy destroys a context created by Create.
	Destroy(ctx Context)

	// DestroyDeviceContexts tears down every rendering context of the
	// owning device, downloading GPU resources first. Used on the
	// heavy window-retarget path before the window handle changes.
	DestroyDeviceContexts(sc *SwapChain) error

	// RecreatePrimaryContext rebuilds the primary context against the
	// swap chain's current window and reloads device resources.
	RecreatePrimaryContext(sc *SwapChain) (Context, error)
}

// RenderState identifies a piece of device render state.
type RenderState uint16

const (
	// StateScissorTest is the scissor-test enable state.
	StateScissorTest RenderState = iota
)

// Cursor describes the hardware cursor as exposed by the device.
type Cursor struct {
	// Texture is the cursor texture handle, typically a
	// gpucontext.Texture.
	Texture any

	// Width and Height are the cursor dimensions in pixels.
	Width, Height int

	// HotspotX and HotspotY are the click point inside the cursor.
	HotspotX, HotspotY int

	// X and Y are the cursor position in screen coordinates.
	X, Y int
}

// DisplayMode describes one display configuration.
type DisplayMode struct {
	Width       int
	Height      int
	RefreshRate int
	Format      gputypes.TextureFormat
}

// GammaRamp holds one gamma lookup table per channel.
type GammaRamp struct {
	Red, Green, Blue [256]uint16
}

// Device is the device collaborator. It embeds gpucontext.DeviceProvider:
// the host application owns the GPU device and hands it down, this package
// never creates one.
type Device interface {
	gpucontext.DeviceProvider

	// DisplayMode returns the current display mode.
	DisplayMode() (DisplayMode, error)

	// SetDisplayMode changes the display mode. Used to restore the
	// original mode when a fullscreen swap chain is destroyed.
	SetDisplayMode(mode DisplayMode) error

	// GammaRamp returns the current gamma ramp.
	GammaRamp() (GammaRamp, error)

	// SetGammaRamp replaces the gamma ramp.
	SetGammaRamp(ramp GammaRamp) error

	// Cursor returns the hardware cursor state and whether the cursor
	// is currently visible.
	Cursor() (Cursor, bool)

	// Logo returns the startup/branding image blitted into the corner
	// of every presented frame, or nil when none is configured.
	Logo() Surface

	// DepthStencil returns the attached depth/stencil target, or nil.
	DepthStencil() Surface

	// MarkRenderStateDirty tells the device that a piece of render
	// state was changed behind its back and must be reapplied.
	MarkRenderStateDirty(state RenderState)
}

// Presenter is the buffer-swap primitive: an opaque "present this
// drawable" call. The swap chain invokes it exactly once per present,
// regardless of how many logical back buffers exist.
type Presenter interface {
	SwapBuffers(d Drawable) error
}

// NullDeviceProvider provides nil GPU device accessors for hosts that run
// without a GPU. Device implementations can embed it.
type NullDeviceProvider struct{}

// Device returns nil for the null provider.
func (NullDeviceProvider) Device() gpucontext.Device { return nil }

// Queue returns nil for the null provider.
func (NullDeviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null provider.
func (NullDeviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null provider.
func (NullDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns unknown adapter info for the null provider.
func (NullDeviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDeviceProvider satisfies the embedded provider interface.
var _ gpucontext.DeviceProvider = NullDeviceProvider{}
