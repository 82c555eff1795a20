//go:build e2e
// +build e2e

// Package e2e exercises gitfinder against the real helper tools installed on
// the machine. Run with: go test -tags e2e ./internal/e2e/
package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitfinder/internal/logging"
	"gitfinder/internal/tools"
	"gitfinder/internal/tui"
)

// SkipIfToolMissing skips the test if the specified tool is not available.
func SkipIfToolMissing(t *testing.T, name string) tools.Handle {
	t.Helper()
	h := tools.NewResolver(logging.NopLogger()).Resolve(context.Background(), name)
	if !h.Available() {
		t.Skipf("Skipping test: %s not found", name)
	}
	return h
}

// TestLogManager returns a log manager whose entries tests can inspect.
func TestLogManager(t *testing.T) *logging.TestLogManager {
	t.Helper()
	lm := logging.NewTestLogManager()
	t.Cleanup(func() { _ = lm.Close() })
	return lm
}

// gitRun runs git in dir with a fixed identity.
func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=e2e", "GIT_AUTHOR_EMAIL=e2e@example.com",
		"GIT_COMMITTER_NAME=e2e", "GIT_COMMITTER_EMAIL=e2e@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v in %s: %v\n%s", args, dir, err, out)
	}
}

// TestTree is a directory tree of real repositories.
type TestTree struct {
	Root     string
	Modified []string // Repositories with uncommitted changes
	Clean    []string
	Ignored  []string // Repositories under node_modules
	Nested   string   // Stray .git directory inside a modified repository
}

// NewTestTree creates committed repositories with git, modifies some of
// them, and adds the cases discovery has to reject.
func NewTestTree(t *testing.T) TestTree {
	t.Helper()

	root := t.TempDir()
	tree := TestTree{Root: root}

	repo := func(rel string, modified bool) string {
		dir := filepath.Join(root, rel)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		gitRun(t, dir, "init", "-q")
		if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# "+rel+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		gitRun(t, dir, "add", "README.md")
		gitRun(t, dir, "commit", "-q", "-m", "init")
		if modified {
			if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		return dir
	}

	tree.Modified = append(tree.Modified, repo("work/api", true))
	tree.Clean = append(tree.Clean, repo("work/web", false))
	tree.Clean = append(tree.Clean, repo("personal/dotfiles", false))
	tree.Modified = append(tree.Modified, repo("personal/deep/er/notes", true))
	tree.Ignored = append(tree.Ignored, repo("cache/node_modules/pkg", false))

	tree.Nested = filepath.Join(tree.Modified[0], "vendor", "lib")
	if err := os.MkdirAll(filepath.Join(tree.Nested, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return tree
}

// TUITestRunner helps drive the picker through Update() calls for testing.
type TUITestRunner struct {
	t     *testing.T
	model tui.Model
}

// NewTUITestRunner creates a new test runner with the given model.
func NewTUITestRunner(t *testing.T, model tui.Model) *TUITestRunner {
	return &TUITestRunner{
		t:     t,
		model: model,
	}
}

// Model returns the current model state.
func (r *TUITestRunner) Model() tui.Model {
	return r.model
}

// Init runs the Init command and processes results.
func (r *TUITestRunner) Init() {
	r.t.Helper()
	cmd := r.model.Init()
	r.runCmd(cmd)
}

// PressSpecialKey simulates pressing a special key like Enter or Down.
func (r *TUITestRunner) PressSpecialKey(keyType tea.KeyType) {
	r.t.Helper()
	msg := tea.KeyMsg{Type: keyType}
	model, cmd := r.model.Update(msg)
	r.model = model.(tui.Model)
	r.runCmd(cmd)
}

// SendWindowSize sends a window size message.
func (r *TUITestRunner) SendWindowSize(width, height int) {
	r.t.Helper()
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	model, cmd := r.model.Update(msg)
	r.model = model.(tui.Model)
	r.runCmd(cmd)
}

// runCmd executes a Bubbletea command and processes its result.
func (r *TUITestRunner) runCmd(cmd tea.Cmd) {
	r.runCmdWithDepth(cmd, 0)
}

// runCmdWithDepth executes a command with depth tracking to prevent infinite recursion.
func (r *TUITestRunner) runCmdWithDepth(cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 10 {
		return
	}

	msg := cmd()
	if msg == nil {
		return
	}

	// Handle batch messages (result of tea.Batch)
	if batchMsg, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batchMsg {
			if c != nil {
				r.runCmdWithDepth(c, depth+1)
			}
		}
		return
	}

	// Skip quit messages
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}

	model, nextCmd := r.model.Update(msg)
	r.model = model.(tui.Model)

	r.runCmdWithDepth(nextCmd, depth+1)
}
