// pattern: Imperative Shell

package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gitfinder/internal/fallback"
	"gitfinder/internal/logging"
	"gitfinder/internal/process"
	"gitfinder/internal/tools"
)

// FdTimeout bounds the single fd invocation.
const FdTimeout = 30 * time.Second

// Strategy names reported in ScanResult.
const (
	StrategyFd   = "fd"
	StrategyWalk = "walk"
)

// ToolResolver is the part of tools.Resolver the scanner needs.
type ToolResolver interface {
	Resolve(ctx context.Context, name string) tools.Handle
}

// Scanner finds repository candidates under the configured roots.
type Scanner struct {
	resolver ToolResolver
	exec     process.Executor
	logger   *logging.ScopedLogger
}

// NewScanner creates a scanner that runs fd through process.Run.
func NewScanner(resolver ToolResolver, logger *logging.ScopedLogger) *Scanner {
	return NewScannerWithExecutor(resolver, process.Run, logger)
}

// NewScannerWithExecutor creates a Scanner with a custom executor for testing.
func NewScannerWithExecutor(resolver ToolResolver, exec process.Executor, logger *logging.ScopedLogger) *Scanner {
	return &Scanner{resolver: resolver, exec: exec, logger: logger}
}

type scanInput struct {
	roots    []string
	ignore   *Matcher
	patterns []string
	maxDepth int
}

// Scan tries fd and falls back to walking the filesystem. It never fails;
// problems are logged and yield fewer candidates.
func (s *Scanner) Scan(ctx context.Context, req Request) ScanResult {
	matcher, invalid := NewMatcher(req.Ignore)
	for _, p := range invalid {
		s.logger.Warn("skipping invalid ignore pattern", "pattern", p)
	}

	roots := make([]string, 0, len(req.Roots))
	for _, r := range req.Roots {
		roots = append(roots, filepath.Clean(r))
	}
	in := scanInput{roots: roots, ignore: matcher, patterns: req.Ignore, maxDepth: req.MaxDepth}

	chain := fallback.New(s.logger,
		fallback.Provider[scanInput, []string]{Name: StrategyFd, Run: s.scanFd},
		fallback.Provider[scanInput, []string]{Name: StrategyWalk, Run: s.scanWalk},
	)
	paths, strategy, err := chain.Run(ctx, in)
	if err != nil {
		s.logger.Warn("repository scan failed", "error", err.Error())
		return ScanResult{}
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)
	if len(paths) == 0 {
		s.logger.Warn("no repository candidates found", "roots", strings.Join(roots, ","))
	}
	s.logger.Debug("scan complete", "strategy", strategy, "candidates", len(paths))
	return ScanResult{Paths: paths, Strategy: strategy}
}

func (s *Scanner) scanWalk(ctx context.Context, in scanInput) ([]string, error) {
	var paths []string
	for _, root := range in.roots {
		for dir := range Walk(root, in.ignore, in.maxDepth) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			paths = append(paths, dir)
		}
	}
	return paths, nil
}

func (s *Scanner) scanFd(ctx context.Context, in scanInput) ([]string, error) {
	h := s.resolver.Resolve(ctx, tools.Fd)
	if !h.Available() {
		return nil, fallback.Unavailable("fd not found")
	}

	var roots []string
	for _, r := range in.roots {
		if info, err := os.Stat(r); err == nil && info.IsDir() {
			roots = append(roots, r)
		}
	}
	if len(roots) == 0 {
		return nil, nil
	}

	res, err := s.exec(ctx, process.Command{
		Name:    h.Invocation,
		Args:    fdArgs(roots, in.patterns, in.maxDepth),
		Timeout: FdTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("run fd: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		gitDir := filepath.Clean(line)
		if filepath.Base(gitDir) != gitDirName {
			continue
		}
		dir := filepath.Dir(gitDir)
		if acceptFdResult(roots, in.ignore, in.maxDepth, dir) {
			paths = append(paths, dir)
		}
	}
	return paths, nil
}

func fdArgs(roots, patterns []string, maxDepth int) []string {
	args := []string{"--type", "d", "--hidden", "--no-ignore", "--absolute-path"}
	if maxDepth > 0 {
		args = append(args, "--max-depth", strconv.Itoa(maxDepth))
	}
	for _, p := range patterns {
		if literalName.MatchString(p) {
			args = append(args, "--exclude", p)
		}
	}
	args = append(args, `^\.git$`)
	return append(args, roots...)
}

// acceptFdResult applies the walk's depth and ignore rules to a repository
// reported by fd, so both strategies yield the same set.
func acceptFdResult(roots []string, ignore *Matcher, maxDepth int, dir string) bool {
	for _, root := range roots {
		depth, ok := within(root, dir)
		if !ok || !depthAllowed(depth, maxDepth) {
			continue
		}
		if ignore.MatchBelow(root, filepath.Join(dir, gitDirName)) {
			continue
		}
		return true
	}
	return false
}
