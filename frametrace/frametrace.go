// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frametrace is the per-present diagnostics hook of the present
// package.
//
// The swap chain invokes its Hook exactly once per completed present.
// The default hook does nothing and costs nothing; diagnostic builds can
// inject a LogHook, and FileToggle turns any hook on and off at runtime
// by creating or deleting a marker file, so a frame trace can be enabled
// on a live process without restarting it.
package frametrace

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Frame describes one completed present.
type Frame struct {
	// Seq is the running present count of the swap chain, starting
	// at 1.
	Seq uint64

	// When is the completion time of the present.
	When time.Time
}

// Hook receives one callback per completed present. Implementations must
// be cheap: they run on the presenting thread, inside the frame.
type Hook interface {
	FramePresented(f Frame)
}

type nopHook struct{}

func (nopHook) FramePresented(Frame) {}

// Nop returns the do-nothing hook.
func Nop() Hook {
	return nopHook{}
}

// LogHook logs every presented frame.
type LogHook struct {
	Log *zap.Logger
}

// FramePresented implements Hook.
func (h *LogHook) FramePresented(f Frame) {
	h.Log.Debug("frame presented", zap.Uint64("seq", f.Seq), zap.Time("when", f.When))
}

// FileToggle forwards to a wrapped hook only while a marker file exists.
//
// The marker is watched, not polled: creating the file enables the
// wrapped hook from the next frame on, deleting it disables it again.
type FileToggle struct {
	path string
	hook Hook
	log  *zap.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	enabled bool
	closed  bool
}

// NewFileToggle wraps hook behind the marker file at path. The marker's
// directory must exist; the marker itself may appear and disappear at any
// time. A nil logger disables diagnostics.
func NewFileToggle(path string, hook Hook, log *zap.Logger) (*FileToggle, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	t := &FileToggle{
		path:    path,
		hook:    hook,
		log:     log,
		watcher: w,
		done:    make(chan struct{}),
	}
	// The marker may predate the watch.
	if _, err := os.Stat(path); err == nil {
		t.setEnabled(true)
	}
	go t.watch()
	return t, nil
}

// FramePresented implements Hook.
func (t *FileToggle) FramePresented(f Frame) {
	t.mu.Lock()
	on := t.enabled
	t.mu.Unlock()
	if on {
		t.hook.FramePresented(f)
	}
}

// Enabled reports whether the marker file currently enables the hook.
func (t *FileToggle) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Close stops watching the marker file. The toggle keeps its last state.
func (t *FileToggle) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := t.watcher.Close()
	<-t.done
	return err
}

func (t *FileToggle) setEnabled(on bool) {
	t.mu.Lock()
	changed := t.enabled != on
	t.enabled = on
	t.mu.Unlock()
	if changed {
		t.log.Info("frame trace toggled", zap.Bool("enabled", on), zap.String("marker", t.path))
	}
}

func (t *FileToggle) watch() {
	defer close(t.done)
	for {
		select {
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handle(ev)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Warn("frame trace watcher error", zap.Error(err))
		}
	}
}

// handle applies one filesystem event to the toggle state.
func (t *FileToggle) handle(ev fsnotify.Event) {
	if ev.Name != t.path {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create):
		t.setEnabled(true)
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		t.setEnabled(false)
	}
}
