// pattern: Imperative Shell

package vcs

import (
	"context"
	"fmt"
	"strings"

	"gitfinder/internal/process"
)

// CLIBackend runs the git executable.
type CLIBackend struct {
	git  string
	exec process.Executor
}

// NewCLIBackend creates a backend using the given git invocation.
func NewCLIBackend(git string) *CLIBackend {
	return NewCLIBackendWithExecutor(git, process.Run)
}

// NewCLIBackendWithExecutor creates a CLIBackend with a custom executor for testing.
func NewCLIBackendWithExecutor(git string, exec process.Executor) *CLIBackend {
	return &CLIBackend{git: git, exec: exec}
}

func (b *CLIBackend) Name() string { return "git" }

func (b *CLIBackend) run(ctx context.Context, args ...string) (string, error) {
	res, err := b.exec(ctx, process.Command{
		Name:    b.git,
		Args:    args,
		Timeout: QueryTimeout,
	})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// TopLevel asks git whether path is inside a working tree and, if so, for
// the tree's root.
func (b *CLIBackend) TopLevel(ctx context.Context, path string) (string, error) {
	out, err := b.run(ctx, "-C", path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return "", fmt.Errorf("rev-parse --is-inside-work-tree: %w", err)
	}
	if strings.TrimSpace(out) != "true" {
		return "", ErrNotWorkTree
	}

	out, err = b.run(ctx, "-C", path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("rev-parse --show-toplevel: %w", err)
	}
	top := strings.TrimSpace(out)
	if top == "" {
		return "", ErrNotWorkTree
	}
	return top, nil
}

// Status returns `git status --short`, colorized when color is set.
func (b *CLIBackend) Status(ctx context.Context, path string, color bool) (string, error) {
	args := []string{"-C", path}
	if color {
		args = append(args, "-c", "color.status=always")
	}
	args = append(args, "status", "--short")
	return b.run(ctx, args...)
}
