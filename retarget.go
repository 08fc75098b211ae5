// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"

	"go.uber.org/zap"
)

// SetDestWindow rebinds the swap chain to a new destination window. It is
// a no-op when win is already the current window.
//
// When context[0] is the process-wide primary context, every context of
// the owning device has to go: the primary context owns all GPU-side
// resource objects, so the collaborator downloads and reloads them around
// the teardown. The window handle changes only after the teardown is
// complete and before the primary context is recreated against it.
//
// Any other context is cheap to replace. The back buffer's pixel content
// is read out first, the context is swapped, and the content is written
// back under a discard lock, so the buffer survives the move byte for
// byte. The read-back happens before any state changes: a failure leaves
// the swap chain exactly as it was.
func (sc *SwapChain) SetDestWindow(win Window) error {
	if win == nil {
		return ErrNilWindow
	}
	if sc.destroyed {
		return ErrDestroyed
	}
	if win == sc.win {
		return nil
	}

	sc.log.Debug("retargeting swap chain", zap.Bool("primary", sc.primaryContext().IsPrimary()))

	if sc.primaryContext().IsPrimary() {
		if err := sc.ctxmgr.DestroyDeviceContexts(sc); err != nil {
			return fmt.Errorf("present: destroy device contexts: %w", err)
		}
		sc.win = win
		ctx, err := sc.ctxmgr.RecreatePrimaryContext(sc)
		if err != nil {
			return fmt.Errorf("present: recreate primary context: %w", err)
		}
		// Secondary contexts of this chain died with the device-wide
		// teardown; threads recreate theirs on demand.
		sc.resetContexts(ctx)
		return nil
	}

	// A plain lock - switch context - unlock would do in theory, but a
	// lock must not be held across the context swap, so the content
	// takes a round trip through a temporary buffer instead. The copy
	// is pitch * height: rows may be padded beyond width * bpp.
	back := sc.back[0]
	_, h := back.Size()

	r, err := back.Lock(LockReadOnly)
	if err != nil {
		return fmt.Errorf("present: read back buffer: %w", err)
	}
	saved := make([]byte, r.Pitch*h)
	copy(saved, r.Bits[:len(saved)])
	if err := back.Unlock(); err != nil {
		return fmt.Errorf("present: unlock back buffer: %w", err)
	}

	sc.win = win

	old := sc.primaryContext()
	sc.ctxmgr.Destroy(old)
	ctx, err := sc.ctxmgr.Create(sc.front, sc.win, false, sc.params)
	if err != nil {
		return fmt.Errorf("present: recreate context: %w", err)
	}
	sc.ctxmgr.Release(ctx)
	sc.setPrimaryContext(ctx)

	r, err = back.Lock(LockDiscard)
	if err != nil {
		return fmt.Errorf("present: restore back buffer: %w", err)
	}
	copy(r.Bits[:len(saved)], saved)
	if err := back.Unlock(); err != nil {
		return fmt.Errorf("present: unlock back buffer: %w", err)
	}
	return nil
}
