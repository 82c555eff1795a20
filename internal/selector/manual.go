package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gitfinder/internal/discovery"
)

// selectManual prints a numbered list and reads one choice. It never fails.
func (s *Selector) selectManual(_ context.Context, repos []discovery.Repository) (Result, error) {
	out := s.opts.Out
	fmt.Fprintln(out, "Git repositories found:")
	for i, repo := range repos {
		fmt.Fprintf(out, "%2d. %s %s\n", i+1, repo.Glyph(), repo.Path)
	}
	fmt.Fprint(out, "\nSelect a number (Enter to cancel): ")

	if s.opts.In == nil {
		fmt.Fprintln(out)
		return cancelled(), nil
	}
	line, err := bufio.NewReader(s.opts.In).ReadString('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("reading selection failed", "error", err.Error())
		return cancelled(), nil
	}

	choice := strings.TrimSpace(line)
	if choice == "" {
		return cancelled(), nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil {
		fmt.Fprintln(out, "Invalid input")
		return cancelled(), nil
	}
	if n < 1 || n > len(repos) {
		fmt.Fprintln(out, "Invalid number")
		return cancelled(), nil
	}
	return Result{Path: repos[n-1].Path, Status: Selected}, nil
}
