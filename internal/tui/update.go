// pattern: Imperative Shell

package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewMsg delivers a rendered preview.
type previewMsg struct {
	path    string
	content string
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		layout := ComputeLayout(m.width, m.height)
		listWidth, listHeight := layout.List.Inner()
		m.repoList.SetSize(listWidth, listHeight)

		previewWidth, previewHeight := layout.Preview.Inner()
		if !m.previewReady {
			m.preview = viewport.New(previewWidth, previewHeight)
			m.preview.SetContent(m.previewContent)
			m.previewReady = true
		} else {
			m.preview.Width = previewWidth
			m.preview.Height = previewHeight
		}
		return m, nil

	case previewMsg:
		// A newer highlight may have superseded this render.
		if msg.path != m.previewFor {
			return m, nil
		}
		m.previewContent = msg.content
		if m.previewReady {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		m.logger.Debug("key pressed", "key", msg.String(), "filter", m.repoList.FilterState().String())

		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, tea.Quit
		}

		// While the filter input has focus every key belongs to it.
		if m.repoList.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter":
				if repo, ok := m.highlighted(); ok {
					m.chosen = repo.Path
					return m, tea.Quit
				}
				return m, nil
			case "q":
				m.cancelled = true
				return m, tea.Quit
			case "esc":
				// First esc clears an applied filter, the next one cancels.
				if m.repoList.FilterState() != list.FilterApplied {
					m.cancelled = true
					return m, tea.Quit
				}
			case "pgdown", "ctrl+d":
				m.preview.HalfPageDown()
				return m, nil
			case "pgup", "ctrl+u":
				m.preview.HalfPageUp()
				return m, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.repoList, cmd = m.repoList.Update(msg)
	cmds = append(cmds, cmd)

	if repo, ok := m.highlighted(); ok && repo.Path != m.previewFor {
		m.previewFor = repo.Path
		m.previewContent = ""
		cmds = append(cmds, m.renderPreview(repo.Path))
	}

	return m, tea.Batch(cmds...)
}
