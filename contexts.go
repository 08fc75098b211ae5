// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"

	"go.uber.org/zap"
)

// Rendering-context registry. Each thread that renders against a swap
// chain gets a private context instead of sharing one behind a lock; the
// registry only ever grows, and growth happens once per thread lifetime,
// so a single mutex around the append is enough.

// CreateContextForThread creates an additional rendering context bound to
// this swap chain's window, registers it and returns it. The context is
// created released (not held current); the caller's thread makes it
// current through the context collaborator when it starts rendering.
func (sc *SwapChain) CreateContextForThread() (Context, error) {
	if sc.destroyed {
		return nil, ErrDestroyed
	}

	ctx, err := sc.ctxmgr.Create(sc.front, sc.win, false, sc.params)
	if err != nil {
		return nil, fmt.Errorf("present: create thread context: %w", err)
	}
	sc.ctxmgr.Release(ctx)

	sc.mu.Lock()
	sc.contexts = append(sc.contexts, ctx)
	n := len(sc.contexts)
	sc.mu.Unlock()

	sc.log.Debug("created thread context", zap.Int("contexts", n))
	return ctx, nil
}

// Contexts returns a snapshot of the registered contexts. contexts[0] is
// the primary context for this swap chain.
func (sc *SwapChain) Contexts() []Context {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return append([]Context(nil), sc.contexts...)
}

// primaryContext returns the chain's context[0].
func (sc *SwapChain) primaryContext() Context {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.contexts[0]
}

// setPrimaryContext replaces context[0] after a retarget.
func (sc *SwapChain) setPrimaryContext(ctx Context) {
	sc.mu.Lock()
	sc.contexts[0] = ctx
	sc.mu.Unlock()
}

// resetContexts empties the registry after a device-wide context teardown
// and seeds it with the recreated primary context.
func (sc *SwapChain) resetContexts(primary Context) {
	sc.mu.Lock()
	sc.contexts = []Context{primary}
	sc.mu.Unlock()
}
