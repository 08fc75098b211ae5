// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import "errors"

// Errors.
var (
	// ErrNoBackBuffers is returned when a swap chain is created without
	// at least one back buffer.
	ErrNoBackBuffers = errors.New("present: at least one back buffer is required")

	// ErrDestroyed is returned when a destroyed swap chain is used.
	ErrDestroyed = errors.New("present: swap chain destroyed")

	// ErrNilWindow is returned when a retarget names no window.
	ErrNilWindow = errors.New("present: retarget window is nil")
)

// MissingCollaboratorError indicates that a required collaborator was not
// supplied in Options.
type MissingCollaboratorError struct {
	Name string
}

func (e *MissingCollaboratorError) Error() string {
	return "present: missing collaborator: " + e.Name
}
