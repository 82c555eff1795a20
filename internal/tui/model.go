package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gitfinder/internal/discovery"
	"gitfinder/internal/logging"
)

// previewTimeout bounds one asynchronous preview render.
const previewTimeout = 10 * time.Second

// PreviewFunc renders the preview pane for a repository path.
type PreviewFunc func(ctx context.Context, path string) string

// Model is the repository picker.
type Model struct {
	width  int
	height int
	styles *Styles
	logger *logging.ScopedLogger

	repos    []discovery.Repository
	modified int
	repoList list.Model

	preview        viewport.Model
	previewReady   bool
	previewFor     string // Path the pane shows or is rendering
	previewContent string // Last render for previewFor, empty while pending
	render         PreviewFunc

	chosen    string
	cancelled bool
}

// NewModel creates a picker over repos, which are shown in the given order.
func NewModel(repos []discovery.Repository, styles *Styles, render PreviewFunc, logger *logging.ScopedLogger) Model {
	repoList := list.New(toListItems(repos), newRepoDelegate(styles), 0, 0)
	repoList.SetShowTitle(false)
	repoList.SetShowStatusBar(false)
	repoList.SetShowHelp(false)
	repoList.SetFilteringEnabled(true)
	repoList.KeyMap.Quit.SetEnabled(false)
	repoList.KeyMap.ForceQuit.SetEnabled(false)

	modified := 0
	for _, r := range repos {
		if r.HasChanges {
			modified++
		}
	}

	m := Model{
		styles:   styles,
		logger:   logger,
		repos:    repos,
		modified: modified,
		repoList: repoList,
		render:   render,
	}
	if len(repos) > 0 {
		m.previewFor = repos[0].Path
	}
	return m
}

// Init requests the preview for the initially highlighted repository.
func (m Model) Init() tea.Cmd {
	if m.previewFor == "" {
		return nil
	}
	return m.renderPreview(m.previewFor)
}

// Chosen returns the selected path, or false if the picker was cancelled.
func (m Model) Chosen() (string, bool) {
	if m.cancelled || m.chosen == "" {
		return "", false
	}
	return m.chosen, true
}

// highlighted returns the repository under the cursor, if any.
func (m Model) highlighted() (discovery.Repository, bool) {
	item, ok := m.repoList.SelectedItem().(repoItem)
	if !ok {
		return discovery.Repository{}, false
	}
	return item.repo, true
}

// renderPreview returns a command rendering path off the UI goroutine.
func (m Model) renderPreview(path string) tea.Cmd {
	render := m.render
	if render == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		return previewMsg{path: path, content: render(ctx, path)}
	}
}
