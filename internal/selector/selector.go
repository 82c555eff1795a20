// pattern: Imperative Shell

// Package selector lets the user pick one repository, preferring fzf, then
// the built-in picker, then a numbered prompt.
package selector

import (
	"context"
	"fmt"
	"io"

	"gitfinder/internal/discovery"
	"gitfinder/internal/fallback"
	"gitfinder/internal/logging"
	"gitfinder/internal/process"
	"gitfinder/internal/tools"
)

// Status tells whether the user picked a repository.
type Status int

const (
	Selected Status = iota
	Cancelled
)

func (s Status) String() string {
	if s == Selected {
		return "selected"
	}
	return "cancelled"
}

// Result is the outcome of a selection. Cancellation is a result, not an error.
type Result struct {
	Path   string
	Status Status
}

func cancelled() Result {
	return Result{Status: Cancelled}
}

// ToolResolver is the part of tools.Resolver the selector needs.
type ToolResolver interface {
	Resolve(ctx context.Context, name string) tools.Handle
}

// Picker runs the built-in picker and returns the chosen path, if any.
type Picker func(ctx context.Context, repos []discovery.Repository) (string, bool, error)

// Options configures a Selector.
type Options struct {
	ShowPreview   bool
	Self          string // Executable fzf runs to render previews
	ConfigPath    string // Config file handed to the preview command
	ModifiedColor string // lipgloss color for modified labels
	CleanColor    string
	In            io.Reader // Prompt input
	Out           io.Writer // Prompts and diagnostics
	Picker        Picker
	Interactive   func() bool // Whether the built-in picker can take over the terminal
}

// Selector chooses one repository.
type Selector struct {
	resolver ToolResolver
	exec     process.Executor
	opts     Options
	logger   *logging.ScopedLogger
	chain    *fallback.Chain[[]discovery.Repository, Result]
}

// NewSelector creates a Selector that runs fzf through process.Run.
func NewSelector(resolver ToolResolver, opts Options, logger *logging.ScopedLogger) *Selector {
	return NewSelectorWithExecutor(resolver, process.Run, opts, logger)
}

// NewSelectorWithExecutor creates a Selector with a custom executor for testing.
func NewSelectorWithExecutor(resolver ToolResolver, exec process.Executor, opts Options, logger *logging.ScopedLogger) *Selector {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	s := &Selector{resolver: resolver, exec: exec, opts: opts, logger: logger}
	s.chain = fallback.New(logger,
		fallback.Provider[[]discovery.Repository, Result]{Name: tools.Fzf, Run: s.selectFzf},
		fallback.Provider[[]discovery.Repository, Result]{Name: "tui", Run: s.selectTUI},
		fallback.Provider[[]discovery.Repository, Result]{Name: "manual", Run: s.selectManual},
	)
	return s
}

// Select asks the user for one of repos, which are shown in the given order.
func (s *Selector) Select(ctx context.Context, repos []discovery.Repository) Result {
	if len(repos) == 0 {
		fmt.Fprintln(s.opts.Out, "No git repositories found")
		return cancelled()
	}

	res, tier, err := s.chain.Run(ctx, repos)
	if err != nil {
		s.logger.Error("selection failed", "error", err.Error())
		return cancelled()
	}
	s.logger.Info("selection finished", "picker", tier, "status", res.Status.String(), "path", res.Path)
	return res
}

func (s *Selector) selectTUI(ctx context.Context, repos []discovery.Repository) (Result, error) {
	if !s.opts.ShowPreview {
		return Result{}, fallback.Unavailable("preview disabled")
	}
	if s.opts.Picker == nil {
		return Result{}, fallback.Unavailable("no built-in picker")
	}
	if s.opts.Interactive == nil || !s.opts.Interactive() {
		return Result{}, fallback.Unavailable("not a terminal")
	}

	path, ok, err := s.opts.Picker(ctx, repos)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return cancelled(), nil
	}
	return Result{Path: path, Status: Selected}, nil
}
