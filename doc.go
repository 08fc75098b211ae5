// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present moves finished frames from a rendering surface group to
// the screen.
//
// A SwapChain ties together one front buffer, one or more back buffers
// and the rendering contexts bound to them, all aimed at a single window.
// It does not decide what to render; it decides how a completed back
// buffer reaches the screen, how the CPU, texture and drawable copies of
// each surface stay coherent while it does, and how presentation is paced
// against the display refresh.
//
// # Collaborators
//
// The swap chain coordinates but does not own the rendering machinery.
// Everything it needs is handed in through small interfaces: a Device for
// display mode, gamma, cursor and depth/stencil access (embedding
// gpucontext.DeviceProvider, since the host owns the GPU device and this
// package never creates one), a ContextManager for context lifecycle, Surfaces
// for the buffers themselves, and a Presenter for the raw buffer-swap
// primitive. The softsurface package provides a CPU-backed Surface; GPU
// backends supply their own.
//
// # Presenting
//
//	sc, err := present.New(present.Options{
//	    Device:      device,
//	    Contexts:    contexts,
//	    Presenter:   presenter,
//	    Window:      window,
//	    FrontBuffer: front,
//	    BackBuffers: []present.Surface{back},
//	    Params: present.Params{
//	        Windowed:        true,
//	        SwapEffect:      present.SwapEffectDiscard,
//	        BackBufferCount: 1,
//	        Interval:        vsync.IntervalOne,
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer sc.Destroy()
//
//	// render into back, then:
//	err = sc.Present(nil)
//
// # Threading
//
// Rendering is one context per thread, not one context behind a lock.
// The first time a thread works against a swap chain it calls
// CreateContextForThread; the registry only ever grows and the append is
// the one internally synchronized operation. Present calls themselves
// must be serialized by the caller: a swap chain has exactly one front
// buffer, and two concurrent presents against it have no defined outcome.
package present
