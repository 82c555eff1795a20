// pattern: Imperative Shell

// Package preview renders the status and contents of a repository for the
// picker's preview pane.
package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitfinder/internal/fallback"
	"gitfinder/internal/logging"
	"gitfinder/internal/process"
	"gitfinder/internal/term"
	"gitfinder/internal/tools"
	"gitfinder/internal/vcs"
)

// ListTimeout bounds each external listing command.
const ListTimeout = 5 * time.Second

const (
	statusHeader   = "󰊢 Git Status:"
	contentsHeader = "📁 Contents:"
	noChanges      = "No modifications"
	statusFailed   = "Error getting status"
	listFailed     = "Error listing directory"
)

// ToolResolver is the part of tools.Resolver the renderer needs.
type ToolResolver interface {
	Resolve(ctx context.Context, name string) tools.Handle
}

// Renderer produces preview text. It never fails; every problem degrades to
// a placeholder line.
type Renderer struct {
	resolver ToolResolver
	exec     process.Executor
	backend  vcs.Backend
	logger   *logging.ScopedLogger
	header   lipgloss.Style
	listing  *fallback.Chain[string, string]
}

// NewRenderer creates a Renderer that lists with process.Run.
func NewRenderer(resolver ToolResolver, backend vcs.Backend, logger *logging.ScopedLogger) *Renderer {
	return NewRendererWithExecutor(resolver, backend, process.Run, logger)
}

// NewRendererWithExecutor creates a Renderer with a custom executor for testing.
func NewRendererWithExecutor(resolver ToolResolver, backend vcs.Backend, exec process.Executor, logger *logging.ScopedLogger) *Renderer {
	r := &Renderer{
		resolver: resolver,
		exec:     exec,
		backend:  backend,
		logger:   logger,
		header:   term.ForcedRenderer(termenv.ANSI).NewStyle().Foreground(lipgloss.Color("2")),
	}
	r.listing = fallback.New(logger,
		fallback.Provider[string, string]{Name: tools.Eza, Run: r.external(tools.Eza, "--color=always", "-l")},
		fallback.Provider[string, string]{Name: tools.Ls, Run: r.external(tools.Ls, "-la", "--color=always")},
		fallback.Provider[string, string]{Name: "native", Run: func(_ context.Context, path string) (string, error) {
			return NativeListing(path), nil
		}},
	)
	return r
}

// Render returns the status section followed by the directory listing.
func (r *Renderer) Render(ctx context.Context, path string) string {
	var b strings.Builder
	b.WriteString(r.header.Render(statusHeader))
	b.WriteByte('\n')
	b.WriteString(r.Status(ctx, path))
	b.WriteString("\n\n")
	b.WriteString(contentsHeader)
	b.WriteByte('\n')
	b.WriteString(r.Listing(ctx, path))
	return b.String()
}

// Status returns colorized short status, or a placeholder when the tree is
// clean or the query fails.
func (r *Renderer) Status(ctx context.Context, path string) string {
	out, err := r.backend.Status(ctx, path, true)
	if err != nil {
		r.logger.Debug("preview status failed", "path", path, "error", err.Error())
		return statusFailed
	}
	out = strings.TrimRight(out, "\r\n")
	if strings.TrimSpace(out) == "" {
		return noChanges
	}
	return out
}

// Listing returns the first listing any tier can produce.
func (r *Renderer) Listing(ctx context.Context, path string) string {
	out, _, err := r.listing.Run(ctx, path)
	if err != nil {
		return listFailed
	}
	return strings.TrimRight(out, "\n")
}

func (r *Renderer) external(tool string, flags ...string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, path string) (string, error) {
		h := r.resolver.Resolve(ctx, tool)
		if !h.Available() {
			return "", fallback.Unavailable(tool + " not found")
		}
		res, err := r.exec(ctx, process.Command{
			Name:    h.Invocation,
			Args:    append(append([]string(nil), flags...), path),
			Timeout: ListTimeout,
		})
		if err != nil {
			return "", err
		}
		return res.Stdout, nil
	}
}

// NativeListing lists path without external tools: one line per entry in
// name order, hidden entries included.
func NativeListing(path string) string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return listFailed
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(path, e.Name()))
		if err != nil {
			lines = append(lines, "????????? "+e.Name())
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %8d %s %s",
			info.Mode(), info.Size(), info.ModTime().Format("Jan 02 15:04"), e.Name()))
	}
	return strings.Join(lines, "\n")
}
