// pattern: Imperative Shell

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"gitfinder/internal/discovery"
	"gitfinder/internal/logging"
)

// ErrNoRepositories is returned by Run when there is nothing to pick from.
var ErrNoRepositories = errors.New("no repositories to pick from")

// Options configures one picker session.
type Options struct {
	In      io.Reader
	Out     io.Writer // The picker draws here; stdout stays clean for the chosen path
	Styles  *Styles
	Preview PreviewFunc
	Logger  *logging.ScopedLogger
}

// Run shows the picker on the alternate screen and blocks until the user
// selects or cancels. It returns the chosen path and whether one was chosen.
func Run(ctx context.Context, repos []discovery.Repository, opts Options) (string, bool, error) {
	if len(repos) == 0 {
		return "", false, ErrNoRepositories
	}

	m := NewModel(repos, opts.Styles, opts.Preview, opts.Logger)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("run picker: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return "", false, fmt.Errorf("run picker: unexpected model %T", final)
	}
	path, chosen := fm.Chosen()
	return path, chosen, nil
}
