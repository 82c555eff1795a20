package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	catppuccin "github.com/catppuccin/go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"gitfinder/internal/discovery"
	"gitfinder/internal/logging"
	"gitfinder/internal/term"
)

var testRepos = []discovery.Repository{
	{Path: "/r/alpha", HasChanges: true},
	{Path: "/r/beta"},
	{Path: "/r/gamma"},
}

func testStyles() *Styles {
	return NewStyles(term.ForcedRenderer(termenv.Ascii), catppuccin.Mocha, "#f38ba8", "#cdd6f4")
}

func fakePreview(_ context.Context, path string) string {
	return "preview of " + path
}

// newTestModel returns a sized picker over testRepos.
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(testRepos, testStyles(), fakePreview, logging.NopLogger())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewModel(t *testing.T) {
	m := NewModel(testRepos, testStyles(), fakePreview, logging.NopLogger())

	if m.modified != 1 {
		t.Errorf("modified = %d, want 1", m.modified)
	}
	if len(m.repoList.Items()) != 3 {
		t.Errorf("items = %d, want 3", len(m.repoList.Items()))
	}
	if _, ok := m.Chosen(); ok {
		t.Error("fresh model reports a choice")
	}
}

func TestInit_RendersFirstPreview(t *testing.T) {
	m := NewModel(testRepos, testStyles(), fakePreview, logging.NopLogger())

	msgs := runCmd(m.Init())
	if len(msgs) != 1 {
		t.Fatalf("Init produced %d messages, want 1", len(msgs))
	}
	pm, ok := msgs[0].(previewMsg)
	if !ok {
		t.Fatalf("Init produced %T, want previewMsg", msgs[0])
	}
	if pm.path != "/r/alpha" || pm.content != "preview of /r/alpha" {
		t.Errorf("previewMsg = %+v", pm)
	}
}

func TestInit_EmptyList(t *testing.T) {
	m := NewModel(nil, testStyles(), fakePreview, logging.NopLogger())
	if cmd := m.Init(); cmd != nil {
		t.Error("Init on empty list should not render a preview")
	}
}

func TestRun_NoRepositories(t *testing.T) {
	_, _, err := Run(context.Background(), nil, Options{Styles: testStyles(), Logger: logging.NopLogger()})
	if !errors.Is(err, ErrNoRepositories) {
		t.Errorf("Run(nil) error = %v, want ErrNoRepositories", err)
	}
}

func TestRun_EnterSelectsFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out strings.Builder
	path, ok, err := Run(ctx, testRepos, Options{
		In:      strings.NewReader("\r"),
		Out:     &out,
		Styles:  testStyles(),
		Preview: fakePreview,
		Logger:  logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if !ok || path != "/r/alpha" {
		t.Errorf("Run = %q, %v; want /r/alpha, true", path, ok)
	}
}
