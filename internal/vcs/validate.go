// pattern: Functional Core

package vcs

import (
	"context"
	"path/filepath"
	"strings"

	"gitfinder/internal/logging"
)

// Validator confirms a candidate is the top-level root of a working tree.
type Validator struct {
	backend Backend
	logger  *logging.ScopedLogger
}

// NewValidator creates a Validator over backend.
func NewValidator(backend Backend, logger *logging.ScopedLogger) *Validator {
	return &Validator{backend: backend, logger: logger}
}

// Validate reports whether path is inside a working tree whose root is path
// itself. Every failure counts as invalid.
func (v *Validator) Validate(ctx context.Context, path string) bool {
	top, err := v.backend.TopLevel(ctx, path)
	if err != nil {
		v.logger.Debug("candidate rejected", "path", path, "error", err.Error())
		return false
	}
	if !SamePath(top, path) {
		v.logger.Debug("candidate is not a working tree root", "path", path, "toplevel", top)
		return false
	}
	return true
}

// ChangeDetector reports whether a repository has uncommitted changes.
type ChangeDetector struct {
	backend Backend
	logger  *logging.ScopedLogger
}

// NewChangeDetector creates a ChangeDetector over backend.
func NewChangeDetector(backend Backend, logger *logging.ScopedLogger) *ChangeDetector {
	return &ChangeDetector{backend: backend, logger: logger}
}

// HasChanges is true iff the status query succeeds with non-empty output.
// Failures report false; change state is advisory.
func (d *ChangeDetector) HasChanges(ctx context.Context, path string) bool {
	out, err := d.backend.Status(ctx, path, false)
	if err != nil {
		d.logger.Debug("status query failed", "path", path, "error", err.Error())
		return false
	}
	return strings.TrimSpace(out) != ""
}

// SamePath compares two directory paths, resolving symlinks when the
// cleaned spellings differ.
func SamePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false
	}
	return ra == rb
}
