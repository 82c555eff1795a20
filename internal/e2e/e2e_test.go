//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	catppuccin "github.com/catppuccin/go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"gitfinder/internal/cli"
	"gitfinder/internal/config"
	"gitfinder/internal/discovery"
	"gitfinder/internal/logging"
	"gitfinder/internal/preview"
	"gitfinder/internal/process"
	"gitfinder/internal/term"
	"gitfinder/internal/tools"
	"gitfinder/internal/tui"
	"gitfinder/internal/vcs"
)

// noTools resolves nothing, forcing every self-contained fallback.
type noTools struct{}

func (noTools) Resolve(_ context.Context, name string) tools.Handle {
	return tools.Handle{Name: name}
}

func treeConfig(tree TestTree, maxDepth int) config.Config {
	cfg := config.Defaults(tree.Root)
	cfg.IgnorePatterns = []string{"node_modules"}
	cfg.MaxDepth = maxDepth
	return cfg
}

func TestScan_FdMatchesWalk(t *testing.T) {
	SkipIfToolMissing(t, tools.Fd)
	SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	logMgr := TestLogManager(t)
	resolver := tools.NewResolver(logMgr.For("tools"))

	for _, depth := range []int{0, 1, 2, 3, 4, 5} {
		req := discovery.Request{Roots: []string{tree.Root}, Ignore: []string{"node_modules"}, MaxDepth: depth}

		fd := discovery.NewScanner(resolver, logMgr.For("scanner")).Scan(context.Background(), req)
		walk := discovery.NewScanner(noTools{}, logMgr.For("scanner")).Scan(context.Background(), req)

		if fd.Strategy != discovery.StrategyFd {
			t.Fatalf("depth %d: strategy = %q, want fd", depth, fd.Strategy)
		}
		if walk.Strategy != discovery.StrategyWalk {
			t.Fatalf("depth %d: strategy = %q, want walk", depth, walk.Strategy)
		}
		if !slices.Equal(fd.Paths, walk.Paths) {
			t.Errorf("depth %d: fd = %v\nwalk = %v", depth, fd.Paths, walk.Paths)
		}
	}
}

func TestBackends_Agree(t *testing.T) {
	git := SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	nop := logging.NopLogger()
	backends := []vcs.Backend{vcs.NewCLIBackend(git.Invocation), vcs.NewGoGitBackend()}

	candidates := slices.Concat(tree.Modified, tree.Clean, tree.Ignored, []string{tree.Nested, tree.Root})
	for _, path := range candidates {
		var valid, changed []bool
		for _, b := range backends {
			valid = append(valid, vcs.NewValidator(b, nop).Validate(context.Background(), path))
			changed = append(changed, vcs.NewChangeDetector(b, nop).HasChanges(context.Background(), path))
		}
		if valid[0] != valid[1] {
			t.Errorf("%s: git valid = %v, go-git valid = %v", path, valid[0], valid[1])
		}
		if valid[0] && changed[0] != changed[1] {
			t.Errorf("%s: git changes = %v, go-git changes = %v", path, changed[0], changed[1])
		}
	}

	if vcs.NewValidator(backends[0], nop).Validate(context.Background(), tree.Nested) {
		t.Errorf("stray .git inside a repository accepted: %s", tree.Nested)
	}
}

func TestFinder_RealTools(t *testing.T) {
	SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	logMgr := TestLogManager(t)
	resolver := tools.NewResolver(logMgr.For("tools"))
	backend := vcs.Select(context.Background(), resolver, logMgr.For("vcs"))
	finder := discovery.NewFinder(
		discovery.NewScanner(resolver, logMgr.For("scanner")),
		vcs.NewValidator(backend, logMgr.For("validator")),
		vcs.NewChangeDetector(backend, logMgr.For("changes")),
		logMgr.For("finder"),
	)

	tests := []struct {
		maxDepth int
		want     []discovery.Repository
	}{
		{
			maxDepth: 0,
			want: []discovery.Repository{
				{Path: filepath.Join(tree.Root, "personal/deep/er/notes"), HasChanges: true},
				{Path: filepath.Join(tree.Root, "work/api"), HasChanges: true},
				{Path: filepath.Join(tree.Root, "personal/dotfiles")},
				{Path: filepath.Join(tree.Root, "work/web")},
			},
		},
		{
			maxDepth: 3,
			want: []discovery.Repository{
				{Path: filepath.Join(tree.Root, "work/api"), HasChanges: true},
				{Path: filepath.Join(tree.Root, "personal/dotfiles")},
				{Path: filepath.Join(tree.Root, "work/web")},
			},
		},
	}

	for _, tt := range tests {
		got := finder.Find(context.Background(), treeConfig(tree, tt.maxDepth))
		if !slices.Equal(got, tt.want) {
			t.Errorf("max_depth %d: Find() = %+v\nwant %+v", tt.maxDepth, got, tt.want)
		}
	}
}

func TestPreview_RealTools(t *testing.T) {
	SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	logMgr := TestLogManager(t)
	resolver := tools.NewResolver(logMgr.For("tools"))
	renderer := preview.NewRenderer(resolver, vcs.Select(context.Background(), resolver, logMgr.For("vcs")), logMgr.For("preview"))

	out := ansi.Strip(renderer.Render(context.Background(), tree.Modified[0]))
	for _, want := range []string{"Git Status:", "M README.md", "Contents:", "vendor"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}

	clean := ansi.Strip(renderer.Render(context.Background(), tree.Clean[0]))
	if !strings.Contains(clean, "No modifications") {
		t.Errorf("clean preview:\n%s", clean)
	}
}

func TestPicker_RealPreview(t *testing.T) {
	SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	logMgr := TestLogManager(t)
	resolver := tools.NewResolver(logMgr.For("tools"))
	renderer := preview.NewRenderer(resolver, vcs.Select(context.Background(), resolver, logMgr.For("vcs")), logMgr.For("preview"))

	repos := []discovery.Repository{
		{Path: tree.Modified[0], HasChanges: true},
		{Path: tree.Clean[0]},
	}
	styles := tui.NewStyles(term.ForcedRenderer(termenv.ANSI256), catppuccin.Mocha, "#f38ba8", "#cdd6f4")
	runner := NewTUITestRunner(t, tui.NewModel(repos, styles, renderer.Render, logMgr.For("tui")))

	runner.SendWindowSize(140, 40)
	runner.Init()
	if view := ansi.Strip(runner.Model().View()); !strings.Contains(view, "M README.md") {
		t.Errorf("preview of the first repository not shown:\n%s", view)
	}

	runner.PressSpecialKey(tea.KeyDown)
	if view := ansi.Strip(runner.Model().View()); !strings.Contains(view, "No modifications") {
		t.Errorf("preview did not follow the highlight:\n%s", view)
	}

	runner.PressSpecialKey(tea.KeyEnter)
	if path, ok := runner.Model().Chosen(); !ok || path != tree.Clean[0] {
		t.Errorf("Chosen() = %q, %v; want %q", path, ok, tree.Clean[0])
	}
}

func TestCLI_RealTools(t *testing.T) {
	SkipIfToolMissing(t, tools.Git)

	tree := NewTestTree(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))

	cfgPath := filepath.Join(home, "config.yaml")
	body := "search_paths:\n  - " + tree.Root + "\nignore_patterns:\n  - node_modules\nshow_preview: false\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(stdin string, args ...string) (string, string) {
		var out, errOut bytes.Buffer
		app := cli.NewApp("e2e")
		app.In = strings.NewReader(stdin)
		app.Out = &out
		app.Err = &errOut
		app.Exec = process.Run
		app.IsTTY = func() bool { return false }
		if code := app.Run(context.Background(), args); code != 0 {
			t.Fatalf("gitfinder %v exited %d: %s", args, code, errOut.String())
		}
		return out.String(), errOut.String()
	}

	out, _ := run("", "--list", "-c", cfgPath)
	if !strings.HasPrefix(out, "Found 4 repositories:\n") {
		t.Errorf("--list output:\n%s", out)
	}

	out, prompt := run("2\n", "-c", cfgPath)
	if want := cli.CdCommand(tree.Modified[0]) + "\n"; out != want {
		t.Errorf("selection output = %q, want %q", out, want)
	}
	if !strings.Contains(prompt, "Select a number") {
		t.Errorf("prompt = %q", prompt)
	}
}
