// pattern: Imperative Shell

// Package tools finds working invocations for the optional helper programs.
package tools

import (
	"context"
	"sync"
	"time"

	"gitfinder/internal/logging"
	"gitfinder/internal/process"
)

// Logical tool names.
const (
	Fd  = "fd"
	Fzf = "fzf"
	Eza = "eza"
	Ls  = "ls"
	Git = "git"
)

// Known lists every optional tool in the order --check-deps reports them.
var Known = []string{Fd, Fzf, Eza, Ls, Git}

// fallbacks describes what replaces each tool when it is missing.
var fallbacks = map[string]string{
	Fd:  "directory walk (slower)",
	Fzf: "built-in picker or numbered prompt",
	Eza: "ls",
	Ls:  "native listing",
	Git: "in-process go-git",
}

// FallbackFor describes the strategy used when name is unavailable.
func FallbackFor(name string) string {
	return fallbacks[name]
}

// ProbeTimeout bounds each liveness probe.
const ProbeTimeout = 5 * time.Second

var installDirs = []string{"/usr/bin", "/usr/local/bin", "/bin"}

// alternates lists renamed binaries some distributions ship.
var alternates = map[string][]string{
	Fd: {"fdfind", "/usr/bin/fdfind"},
}

// Handle is the result of resolving a tool. The zero value is unavailable.
type Handle struct {
	Name       string
	Invocation string
}

// Available reports whether a working invocation was found.
func (h Handle) Available() bool {
	return h.Invocation != ""
}

// Resolver probes candidate invocations and caches the outcome per tool.
// It is safe for concurrent use.
type Resolver struct {
	exec    process.Executor
	timeout time.Duration
	logger  *logging.ScopedLogger

	mu    sync.Mutex
	cache map[string]Handle
}

// NewResolver creates a Resolver that probes with process.Run.
func NewResolver(logger *logging.ScopedLogger) *Resolver {
	return NewResolverWithExecutor(process.Run, logger)
}

// NewResolverWithExecutor creates a Resolver with a custom executor for testing.
func NewResolverWithExecutor(exec process.Executor, logger *logging.ScopedLogger) *Resolver {
	return &Resolver{
		exec:    exec,
		timeout: ProbeTimeout,
		logger:  logger,
		cache:   make(map[string]Handle),
	}
}

// Candidates returns the invocations tried for name, in order.
func Candidates(name string) []string {
	candidates := []string{name}
	for _, dir := range installDirs {
		candidates = append(candidates, dir+"/"+name)
	}
	return append(candidates, alternates[name]...)
}

// Resolve returns the first candidate whose "--version" probe exits zero.
// It never fails; an unavailable Handle is returned instead.
func (r *Resolver) Resolve(ctx context.Context, name string) Handle {
	r.mu.Lock()
	if h, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return h
	}
	r.mu.Unlock()

	h := r.probe(ctx, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[name]; ok {
		return cached
	}
	// A cancelled caller says nothing about the environment.
	if ctx.Err() == nil {
		r.cache[name] = h
	}
	return h
}

func (r *Resolver) probe(ctx context.Context, name string) Handle {
	for _, candidate := range Candidates(name) {
		if ctx.Err() != nil {
			break
		}
		_, err := r.exec(ctx, process.Command{
			Name:    candidate,
			Args:    []string{"--version"},
			Timeout: r.timeout,
		})
		if err == nil {
			r.logger.Debug("tool resolved", "tool", name, "invocation", candidate)
			return Handle{Name: name, Invocation: candidate}
		}
		r.logger.Debug("tool candidate rejected", "tool", name, "candidate", candidate, "error", err.Error())
	}
	r.logger.Info("tool unavailable", "tool", name)
	return Handle{Name: name}
}

// Report resolves each named tool in order.
func (r *Resolver) Report(ctx context.Context, names ...string) []Handle {
	handles := make([]Handle, len(names))
	for i, name := range names {
		handles[i] = r.Resolve(ctx, name)
	}
	return handles
}
