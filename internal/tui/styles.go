package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles derives every style from one renderer, so colors follow the
// terminal the picker actually draws on rather than stdout.
type Styles struct {
	r        *lipgloss.Renderer
	flavor   catppuccin.Flavor
	modified lipgloss.Color
	clean    lipgloss.Color
}

// NewStyles creates styles for flavor. modified and clean are lipgloss color
// strings for repository paths.
func NewStyles(r *lipgloss.Renderer, flavor catppuccin.Flavor, modified, clean string) *Styles {
	return &Styles{
		r:        r,
		flavor:   flavor,
		modified: lipgloss.Color(modified),
		clean:    lipgloss.Color(clean),
	}
}

func (s *Styles) TitleStyle() lipgloss.Style {
	return s.r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(s.flavor.Mauve().Hex))
}

func (s *Styles) SubtitleStyle() lipgloss.Style {
	return s.r.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Subtext0().Hex))
}

func (s *Styles) HelpStyle() lipgloss.Style {
	return s.r.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
}

func (s *Styles) BoxStyle() lipgloss.Style {
	return s.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(s.flavor.Surface1().Hex)).
		Padding(0, 1)
}

func (s *Styles) AccentStyle() lipgloss.Style {
	return s.r.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Mauve().Hex))
}

// PathStyle colors a repository path by its change state.
func (s *Styles) PathStyle(hasChanges bool) lipgloss.Style {
	if hasChanges {
		return s.r.NewStyle().Foreground(s.modified)
	}
	return s.r.NewStyle().Foreground(s.clean)
}

func (s *Styles) SelectedPathStyle(hasChanges bool) lipgloss.Style {
	return s.PathStyle(hasChanges).Bold(true)
}
