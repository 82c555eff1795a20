// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitfinder/internal/config"
	"gitfinder/internal/discovery"
	"gitfinder/internal/process"
	"gitfinder/internal/selector"
	"gitfinder/internal/tools"
	"gitfinder/internal/tui"
)

func (a *App) createConfig(rt *runtime) int {
	path := rt.store.Path()
	created, err := rt.store.CreateIfAbsent(rt.cfg)
	if err != nil {
		fmt.Fprintf(a.Err, "Error: cannot write config %s: %v\n", path, err)
		return 1
	}
	if !created {
		fmt.Fprintf(a.Out, "Config already exists at %s (left unchanged)\n", path)
		return 0
	}
	fmt.Fprintf(a.Out, "Created default config at %s\n", path)
	return 0
}

func (a *App) checkDeps(ctx context.Context, rt *runtime) int {
	fmt.Fprintln(a.Out, "Helper tools:")
	for _, h := range rt.resolver.Report(ctx, tools.Known...) {
		if h.Available() {
			fmt.Fprintf(a.Out, "✅ %-4s %s\n", h.Name, h.Invocation)
			continue
		}
		fmt.Fprintf(a.Out, "❌ %-4s not found, using %s\n", h.Name, tools.FallbackFor(h.Name))
	}
	fmt.Fprintf(a.Out, "\nConfig: %s\n", rt.store.Path())
	return 0
}

func (a *App) preview(ctx context.Context, rt *runtime, path string) int {
	path = strings.TrimSpace(path)
	fmt.Fprintln(a.Out, a.newPreviewRenderer(ctx, rt).Render(ctx, path))
	return 0
}

func (a *App) list(ctx context.Context, rt *runtime) int {
	repos := a.newFinder(ctx, rt).Find(ctx, rt.cfg)
	if len(repos) == 0 {
		fmt.Fprintln(a.Err, "No git repositories found")
		return 0
	}

	fmt.Fprintf(a.Out, "Found %d repositories:\n", len(repos))
	for _, r := range repos {
		fmt.Fprintf(a.Out, "%-15s %s\n", r.StatusLabel(), r.Path)
	}
	return 0
}

func (a *App) selectRepository(ctx context.Context, rt *runtime) int {
	repos := a.newFinder(ctx, rt).Find(ctx, rt.cfg)

	flavor := rt.cfg.Flavor()
	modified, _ := config.ResolveColor(rt.cfg.ColorModified, flavor)
	clean, _ := config.ResolveColor(rt.cfg.ColorClean, flavor)
	renderer := a.newPreviewRenderer(ctx, rt)

	picker := func(ctx context.Context, repos []discovery.Repository) (string, bool, error) {
		styles := tui.NewStyles(lipgloss.NewRenderer(a.Err), flavor, modified, clean)
		return tui.Run(ctx, repos, tui.Options{
			In:      a.In,
			Out:     a.Err,
			Styles:  styles,
			Preview: renderer.Render,
			Logger:  rt.logs.For("tui"),
		})
	}

	sel := selector.NewSelectorWithExecutor(rt.resolver, a.Exec, selector.Options{
		ShowPreview:   rt.cfg.ShowPreview,
		Self:          a.Self,
		ConfigPath:    rt.store.Path(),
		ModifiedColor: modified,
		CleanColor:    clean,
		In:            a.In,
		Out:           a.Err,
		Picker:        picker,
		Interactive:   a.IsTTY,
	}, rt.logs.For("selector"))

	res := sel.Select(ctx, repos)
	if res.Status == selector.Selected {
		fmt.Fprintln(a.Out, CdCommand(res.Path))
	}
	return 0
}

// CdCommand renders the shell command that changes into path.
func CdCommand(path string) string {
	return "cd " + process.ShellQuote(path)
}
