// Package term holds terminal detection and color rendering shared by the
// picker, the preview and the list output.
package term

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ForcedRenderer returns a lipgloss renderer that always emits escape codes
// for profile. Output consumed by fzf --ansi or a preview pane is never a
// terminal, so automatic detection would strip every color.
func ForcedRenderer(profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(true)
	return r
}
