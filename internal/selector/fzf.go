package selector

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"gitfinder/internal/discovery"
	"gitfinder/internal/fallback"
	"gitfinder/internal/process"
	"gitfinder/internal/term"
	"gitfinder/internal/tools"
)

// fzf exit statuses that mean the user backed out.
const (
	fzfNoMatch     = 1
	fzfInterrupted = 130
)

func (s *Selector) selectFzf(ctx context.Context, repos []discovery.Repository) (Result, error) {
	if !s.opts.ShowPreview {
		return Result{}, fallback.Unavailable("preview disabled")
	}
	fzf := s.resolver.Resolve(ctx, tools.Fzf)
	if !fzf.Available() {
		return Result{}, fallback.Unavailable("fzf not installed")
	}

	res, err := s.exec(ctx, process.Command{
		Name:   fzf.Invocation,
		Args:   fzfArgs(s.opts.Self, s.opts.ConfigPath),
		Stdin:  strings.NewReader(s.fzfInput(repos)),
		Stderr: s.opts.Out,
	})
	if err != nil {
		if code, ok := process.ExitCode(err); ok && (code == fzfNoMatch || code == fzfInterrupted) {
			return cancelled(), nil
		}
		return Result{}, fmt.Errorf("fzf: %w", err)
	}

	path, ok := parseFzfSelection(res.Stdout)
	if !ok {
		return cancelled(), nil
	}
	return Result{Path: path, Status: Selected}, nil
}

// fzfArgs builds the fzf command line. The preview command reruns self with
// the same config file so previews follow the session's settings.
func fzfArgs(self, configPath string) []string {
	preview := process.ShellQuote(self)
	if configPath != "" {
		preview += " --config " + process.ShellQuote(configPath)
	}
	return []string{
		"--ansi",
		"--delimiter=\t",
		"--with-nth=3",
		"--preview", preview + " --preview {2}",
	}
}

// fzfInput renders one line per repository: rank, path, colored label.
func (s *Selector) fzfInput(repos []discovery.Repository) string {
	r := term.ForcedRenderer(termenv.TrueColor)
	modified := r.NewStyle().Foreground(lipgloss.Color(s.opts.ModifiedColor))
	clean := r.NewStyle().Foreground(lipgloss.Color(s.opts.CleanColor))

	var b strings.Builder
	for _, repo := range repos {
		rank, style := "2", clean
		if repo.HasChanges {
			rank, style = "1", modified
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", rank, repo.Path, style.Render(repo.Path))
	}
	return b.String()
}

// parseFzfSelection extracts the path field from fzf's output line.
func parseFzfSelection(out string) (string, bool) {
	line := strings.TrimRight(out, "\r\n")
	if line == "" {
		return "", false
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return "", false
	}
	path := ansi.Strip(fields[1])
	return path, path != ""
}
