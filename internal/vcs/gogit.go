// pattern: Imperative Shell

package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GoGitBackend answers queries in-process, so discovery keeps working on
// machines without a git executable.
type GoGitBackend struct{}

// NewGoGitBackend creates a go-git backed Backend.
func NewGoGitBackend() *GoGitBackend {
	return &GoGitBackend{}
}

func (b *GoGitBackend) Name() string { return "go-git" }

func openWorktree(path string) (*git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotWorkTree
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, ErrNotWorkTree
		}
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return wt, nil
}

// TopLevel returns the root of the worktree found by walking up from path.
func (b *GoGitBackend) TopLevel(ctx context.Context, path string) (string, error) {
	return bounded(ctx, func() (string, error) {
		wt, err := openWorktree(path)
		if err != nil {
			return "", err
		}
		return wt.Filesystem.Root(), nil
	})
}

// Status renders go-git's short-form status. Output is never colorized.
func (b *GoGitBackend) Status(ctx context.Context, path string, _ bool) (string, error) {
	return bounded(ctx, func() (string, error) {
		wt, err := openWorktree(path)
		if err != nil {
			return "", err
		}
		st, err := wt.Status()
		if err != nil {
			return "", fmt.Errorf("worktree status: %w", err)
		}
		if st.IsClean() {
			return "", nil
		}
		return st.String(), nil
	})
}

// bounded runs fn under QueryTimeout. go-git has no cancellation hooks, so on
// timeout fn keeps running in the background and its result is discarded.
func bounded[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
