// pattern: Functional Core

package discovery

import "path/filepath"

// Repository is a validated git working tree root.
type Repository struct {
	Path       string // Absolute path to the working tree root
	HasChanges bool   // Whether `status --short` reported anything
}

// Name returns the final path element, used as a display label.
func (r Repository) Name() string {
	return filepath.Base(r.Path)
}

// Glyph marks the change state: 🔴 modified, ✅ clean.
func (r Repository) Glyph() string {
	if r.HasChanges {
		return "🔴"
	}
	return "✅"
}

// StatusLabel is the change state as printed by --list.
func (r Repository) StatusLabel() string {
	if r.HasChanges {
		return "🔴 MODIFIED"
	}
	return "✅ CLEAN"
}

// Request describes one scan.
type Request struct {
	Roots    []string // Absolute directories to search
	Ignore   []string // Regular expressions matched against full paths
	MaxDepth int      // 0 means unlimited
}

// ScanResult holds raw candidates, before validation.
type ScanResult struct {
	Paths    []string // Sorted, de-duplicated candidate directories
	Strategy string   // Name of the strategy that produced Paths
}
