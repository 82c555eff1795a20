// pattern: Imperative Shell

package discovery

import (
	"context"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"gitfinder/internal/config"
	"gitfinder/internal/logging"
)

// Validator decides whether a candidate is a working tree root.
type Validator interface {
	Validate(ctx context.Context, path string) bool
}

// ChangeDetector reports whether a repository has uncommitted changes.
type ChangeDetector interface {
	HasChanges(ctx context.Context, path string) bool
}

// Finder runs the whole discovery pipeline: scan, validate, classify, rank.
type Finder struct {
	scanner   *Scanner
	validator Validator
	detector  ChangeDetector
	workers   int
	logger    *logging.ScopedLogger
}

// NewFinder creates a Finder with a worker pool of min(8, NumCPU).
func NewFinder(scanner *Scanner, validator Validator, detector ChangeDetector, logger *logging.ScopedLogger) *Finder {
	return &Finder{
		scanner:   scanner,
		validator: validator,
		detector:  detector,
		workers:   min(8, runtime.NumCPU()),
		logger:    logger,
	}
}

// Find returns the ranked repositories under cfg's search paths.
func (f *Finder) Find(ctx context.Context, cfg config.Config) []Repository {
	scan := f.scanner.Scan(ctx, Request{
		Roots:    cfg.SearchPaths,
		Ignore:   cfg.IgnorePatterns,
		MaxDepth: cfg.MaxDepth,
	})
	candidates := dedupeResolved(scan.Paths)

	found := make([]*Repository, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, f.workers))
	for i, path := range candidates {
		g.Go(func() error {
			if !f.validator.Validate(gctx, path) {
				return nil
			}
			found[i] = &Repository{Path: path, HasChanges: f.detector.HasChanges(gctx, path)}
			return nil
		})
	}
	_ = g.Wait()

	repos := make([]Repository, 0, len(found))
	for _, r := range found {
		if r != nil {
			repos = append(repos, *r)
		}
	}

	if len(repos) == 0 {
		f.logger.Warn("no git repositories found", "candidates", len(candidates), "strategy", scan.Strategy)
	} else {
		f.logger.Info("repositories found", "count", len(repos), "candidates", len(candidates), "strategy", scan.Strategy)
	}
	return Rank(repos)
}

// dedupeResolved collapses paths that resolve to the same directory, keeping
// the lexicographically smallest spelling of each.
func dedupeResolved(paths []string) []string {
	best := make(map[string]string, len(paths))
	for _, p := range paths {
		key := p
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			key = resolved
		}
		if cur, ok := best[key]; !ok || p < cur {
			best[key] = p
		}
	}

	out := make([]string, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
