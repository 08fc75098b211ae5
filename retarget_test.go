// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/present"
	"github.com/gogpu/present/softsurface"
)

// lockTrackingSurface counts lock acquisitions and can fail them.
type lockTrackingSurface struct {
	*softsurface.Surface
	locks   int
	modes   []present.LockMode
	lockErr error
}

func (s *lockTrackingSurface) Lock(mode present.LockMode) (present.LockedRect, error) {
	if s.lockErr != nil {
		return present.LockedRect{}, s.lockErr
	}
	s.locks++
	s.modes = append(s.modes, mode)
	return s.Surface.Lock(mode)
}

func newRetargetChain(t *testing.T, primary bool, back present.Surface) (*present.SwapChain, *fakeContextManager, *lockTrackingSurface) {
	t.Helper()

	tracked, ok := back.(*lockTrackingSurface)
	if !ok {
		tracked = &lockTrackingSurface{Surface: softsurface.New(8, 8)}
		back = tracked
	}

	mgr := &fakeContextManager{nextPrimary: primary}
	sc, err := present.New(present.Options{
		Device:      &fakeDevice{},
		Contexts:    mgr,
		Presenter:   &fakePresenter{},
		Window:      &fakeWindow{w: 8, h: 8},
		FrontBuffer: softsurface.New(8, 8),
		BackBuffers: []present.Surface{back},
		Params:      present.Params{Windowed: true, BackBufferCount: 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sc, mgr, tracked
}

// TestRetargetNilWindow tests the nil-window rejection.
func TestRetargetNilWindow(t *testing.T) {
	sc, _, _ := newRetargetChain(t, false, nil)
	if err := sc.SetDestWindow(nil); err != present.ErrNilWindow {
		t.Errorf("SetDestWindow(nil) = %v, want ErrNilWindow", err)
	}
}

// TestRetargetSameWindow tests that retargeting to the current window is
// a complete no-op: no context operations, no buffer locks.
func TestRetargetSameWindow(t *testing.T) {
	sc, mgr, back := newRetargetChain(t, false, nil)
	createdBefore := len(mgr.created)

	if err := sc.SetDestWindow(sc.Window()); err != nil {
		t.Fatalf("SetDestWindow: %v", err)
	}
	if len(mgr.created) != createdBefore || len(mgr.destroyed) != 0 {
		t.Error("retargeting to the current window must not touch contexts")
	}
	if back.locks != 0 {
		t.Error("retargeting to the current window must not lock buffers")
	}
}

// TestRetargetSecondary tests the lightweight retarget: back buffer 0
// survives byte for byte, the old context is replaced and released.
func TestRetargetSecondary(t *testing.T) {
	sc, mgr, back := newRetargetChain(t, false, nil)
	back.RGBA().SetRGBA(3, 4, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	oldCtx := sc.Contexts()[0]
	newWin := &fakeWindow{w: 8, h: 8}

	if err := sc.SetDestWindow(newWin); err != nil {
		t.Fatalf("SetDestWindow: %v", err)
	}

	if sc.Window() != newWin {
		t.Error("swap chain must adopt the new window")
	}
	if got := back.RGBA().RGBAAt(3, 4); got != (color.RGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("back buffer content = %v, want preserved bytes", got)
	}
	if back.locks != 2 || back.modes[0] != present.LockReadOnly || back.modes[1] != present.LockDiscard {
		t.Errorf("lock sequence = %v, want read-only then discard", back.modes)
	}
	if len(mgr.destroyed) != 1 || mgr.destroyed[0] != oldCtx {
		t.Error("the old context must be destroyed")
	}
	newCtx := sc.Contexts()[0]
	if newCtx == oldCtx {
		t.Error("the primary slot must hold the recreated context")
	}
	if len(mgr.released) == 0 || mgr.released[len(mgr.released)-1] != newCtx {
		t.Error("the recreated context must be created released")
	}
	if mgr.deviceDestroys != 0 {
		t.Error("a secondary retarget must not tear down device contexts")
	}
}

// TestRetargetSecondaryReadBackFailure tests that a failed read-back
// leaves the swap chain untouched.
func TestRetargetSecondaryReadBackFailure(t *testing.T) {
	back := &lockTrackingSurface{
		Surface: softsurface.New(8, 8),
		lockErr: errors.New("busy"),
	}
	sc, mgr, _ := newRetargetChain(t, false, back)
	oldWin := sc.Window()
	oldCtx := sc.Contexts()[0]

	if err := sc.SetDestWindow(&fakeWindow{w: 8, h: 8}); err == nil {
		t.Fatal("SetDestWindow should fail when the back buffer cannot be read")
	}
	if sc.Window() != oldWin {
		t.Error("a failed retarget must leave the window unchanged")
	}
	if len(mgr.destroyed) != 0 || sc.Contexts()[0] != oldCtx {
		t.Error("a failed retarget must leave the contexts unchanged")
	}
}

// TestRetargetPrimary tests the device-wide teardown path: all contexts
// die before the window changes, the primary is recreated against the new
// window and the registry holds exactly the recreated context.
func TestRetargetPrimary(t *testing.T) {
	sc, mgr, back := newRetargetChain(t, true, nil)
	oldWin := sc.Window()
	if _, err := sc.CreateContextForThread(); err != nil {
		t.Fatalf("CreateContextForThread: %v", err)
	}
	newWin := &fakeWindow{w: 8, h: 8}

	if err := sc.SetDestWindow(newWin); err != nil {
		t.Fatalf("SetDestWindow: %v", err)
	}

	if mgr.deviceDestroys != 1 {
		t.Fatalf("device context teardowns = %d, want 1", mgr.deviceDestroys)
	}
	if mgr.winAtDeviceDestroy != oldWin {
		t.Error("the teardown must happen before the window changes")
	}
	if mgr.recreates != 1 || mgr.winAtRecreate != newWin {
		t.Error("the primary context must be recreated against the new window")
	}
	ctxs := sc.Contexts()
	if len(ctxs) != 1 {
		t.Fatalf("registered contexts = %d, want only the recreated primary", len(ctxs))
	}
	if !ctxs[0].IsPrimary() {
		t.Error("the registry must be seeded with the recreated primary context")
	}
	if back.locks != 0 {
		t.Error("a primary retarget must not lock buffers")
	}
}

// TestRetargetPrimaryTeardownFailure tests that a failed teardown aborts
// before the window changes.
func TestRetargetPrimaryTeardownFailure(t *testing.T) {
	sc, mgr, _ := newRetargetChain(t, true, nil)
	mgr.deviceDestroyErr = errors.New("device busy")
	oldWin := sc.Window()

	if err := sc.SetDestWindow(&fakeWindow{w: 8, h: 8}); err == nil {
		t.Fatal("SetDestWindow should fail when the teardown fails")
	}
	if sc.Window() != oldWin {
		t.Error("a failed teardown must leave the window unchanged")
	}
}

// TestRetargetDestroyed tests the destroyed-chain rejection.
func TestRetargetDestroyed(t *testing.T) {
	sc, _, _ := newRetargetChain(t, false, nil)
	sc.Destroy()
	if err := sc.SetDestWindow(&fakeWindow{w: 8, h: 8}); err != present.ErrDestroyed {
		t.Errorf("SetDestWindow = %v, want ErrDestroyed", err)
	}
}
