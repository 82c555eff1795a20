// pattern: Imperative Shell

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const helpText = "↑/↓ move · / filter · enter select · pgup/pgdn scroll preview · esc cancel"

// View renders the picker.
func (m Model) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	layout := ComputeLayout(m.width, m.height)

	title := m.styles.TitleStyle().Render("Git repositories")
	subtitle := m.styles.SubtitleStyle().Render(
		fmt.Sprintf("%d found, %d modified", len(m.repos), m.modified))
	header := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")

	listWidth, listHeight := layout.List.Inner()
	listBox := m.styles.BoxStyle().
		Width(listWidth + boxPadding).
		Height(listHeight).
		Render(m.repoList.View())

	previewWidth, previewHeight := layout.Preview.Inner()
	previewBody := "Loading preview..."
	if m.previewReady && m.previewContent != "" {
		previewBody = m.preview.View()
	}
	previewBox := m.styles.BoxStyle().
		Width(previewWidth + boxPadding).
		Height(previewHeight).
		MaxHeight(layout.Preview.Height).
		Render(previewBody)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listBox, previewBox)
	help := m.styles.HelpStyle().Width(layout.Help.Width).Render(helpText)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, help)
}
