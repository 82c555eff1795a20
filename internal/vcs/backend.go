// pattern: Imperative Shell

// Package vcs answers the two questions discovery asks about a directory:
// is it the root of a git working tree, and does that tree have changes.
package vcs

import (
	"context"
	"errors"
	"time"

	"gitfinder/internal/fallback"
	"gitfinder/internal/logging"
	"gitfinder/internal/tools"
)

// QueryTimeout bounds every single-repository query.
const QueryTimeout = 5 * time.Second

// ErrNotWorkTree is returned when a path is not inside a working tree.
var ErrNotWorkTree = errors.New("not inside a git working tree")

// Backend performs repository queries.
type Backend interface {
	Name() string
	// TopLevel returns the root of the working tree containing path.
	TopLevel(ctx context.Context, path string) (string, error)
	// Status returns short-form status output; empty means clean.
	Status(ctx context.Context, path string, color bool) (string, error)
}

// ToolResolver is the part of tools.Resolver the package needs.
type ToolResolver interface {
	Resolve(ctx context.Context, name string) tools.Handle
}

// Select prefers a working git executable and falls back to the
// in-process go-git implementation.
func Select(ctx context.Context, resolver ToolResolver, logger *logging.ScopedLogger) Backend {
	chain := fallback.New(logger,
		fallback.Provider[struct{}, Backend]{
			Name: "git",
			Run: func(ctx context.Context, _ struct{}) (Backend, error) {
				h := resolver.Resolve(ctx, tools.Git)
				if !h.Available() {
					return nil, fallback.Unavailable("git executable not found")
				}
				return NewCLIBackend(h.Invocation), nil
			},
		},
		fallback.Provider[struct{}, Backend]{
			Name: "go-git",
			Run: func(context.Context, struct{}) (Backend, error) {
				return NewGoGitBackend(), nil
			},
		},
	)

	backend, name, err := chain.Run(ctx, struct{}{})
	if err != nil {
		return NewGoGitBackend()
	}
	logger.Debug("vcs backend selected", "backend", name)
	return backend
}
