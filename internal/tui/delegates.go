// pattern: Imperative Shell

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"gitfinder/internal/discovery"
)

// repoItem wraps a repository for display in a list.
type repoItem struct {
	repo discovery.Repository
}

func (i repoItem) Title() string {
	return i.repo.Path
}

func (i repoItem) Description() string {
	if i.repo.HasChanges {
		return "modified"
	}
	return "clean"
}

// FilterValue is the full path, so any path segment can be fuzzy-matched.
func (i repoItem) FilterValue() string {
	return i.repo.Path
}

// repoDelegate renders one repository per line.
type repoDelegate struct {
	styles *Styles
}

func newRepoDelegate(styles *Styles) repoDelegate {
	return repoDelegate{styles: styles}
}

func (d repoDelegate) Height() int {
	return 1
}

func (d repoDelegate) Spacing() int {
	return 0
}

func (d repoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d repoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(repoItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	indicator := "  "
	pathStyle := d.styles.PathStyle(ri.repo.HasChanges)
	if isSelected {
		indicator = d.styles.AccentStyle().Render("▸ ")
		pathStyle = d.styles.SelectedPathStyle(ri.repo.HasChanges)
	}

	// indicator (2) + glyph (2) + space (1)
	path := ri.repo.Path
	if width := m.Width() - 5; width > 0 {
		path = ansi.Truncate(path, width, "…")
	}

	_, _ = fmt.Fprintf(w, "%s%s %s", indicator, ri.repo.Glyph(), pathStyle.Render(path))
}

// toListItems converts repositories to list items.
func toListItems(repos []discovery.Repository) []list.Item {
	items := make([]list.Item, len(repos))
	for i, r := range repos {
		items[i] = repoItem{repo: r}
	}
	return items
}
