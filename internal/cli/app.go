// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"gitfinder/internal/process"
	"gitfinder/internal/term"
)

// Options holds the parsed command line.
type Options struct {
	List         bool
	ConfigPath   string
	CreateConfig bool
	CheckDeps    bool
	Preview      string // Repository to render a preview for; set by fzf
	Version      bool
}

// ErrUsage reports a command line that could not be parsed.
var ErrUsage = errors.New("invalid usage")

// ParseArgs parses args (without the program name). Help requests return
// flag.ErrHelp after printing usage to stderr.
func ParseArgs(args []string, stderr io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("gitfinder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&opts.List, "list", "l", false, "list repositories and exit")
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: ~/.config/gitfinder/config.json)")
	fs.BoolVar(&opts.CreateConfig, "create-config", false, "write the default config if none exists and exit")
	fs.BoolVar(&opts.CheckDeps, "check-deps", false, "report which helper tools are available and exit")
	fs.StringVar(&opts.Preview, "preview", "", "print the preview for a repository")
	fs.BoolVar(&opts.Version, "version", false, "print version and exit")
	_ = fs.MarkHidden("preview")

	fs.Usage = func() {
		PrintHelp(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return opts, nil
}

// PrintHelp prints the top-level help text.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: gitfinder [options]\n\n")
	fmt.Fprintf(w, "Find git repositories and pick one to change into.\n")
	fmt.Fprintf(w, "On selection prints a cd command; use it as: eval \"$(gitfinder)\"\n\n")
	fmt.Fprintf(w, "Options:\n")
}

// App runs one gitfinder invocation.
type App struct {
	Version string
	In      io.Reader // Prompt and picker input
	Out     io.Writer // Command output only
	Err     io.Writer // Diagnostics, prompts and the picker UI
	Exec    process.Executor
	Self    string      // Executable fzf calls back for previews
	Home    string      // Used for default search paths and "~" expansion
	HomeErr error       // Why Home is empty, reported as a warning
	IsTTY   func() bool // Whether the built-in picker may take over the terminal
}

// NewApp creates an App bound to the process's standard streams.
func NewApp(version string) *App {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}
	home, homeErr := os.UserHomeDir()
	return &App{
		Version: version,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Exec:    process.Run,
		Self:    self,
		Home:    home,
		HomeErr: homeErr,
		IsTTY: func() bool {
			return term.IsTerminal(os.Stdin) && term.IsTerminal(os.Stderr)
		},
	}
}

// Run executes the command line and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	opts, err := ParseArgs(args, a.Err)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(a.Err, "Error: %v\n", err)
		return 1
	}

	if opts.Version {
		fmt.Fprintf(a.Out, "gitfinder %s\n", a.Version)
		return 0
	}

	rt := a.newRuntime(opts)
	defer rt.close()

	switch {
	case opts.CreateConfig:
		return a.createConfig(rt)
	case opts.CheckDeps:
		return a.checkDeps(ctx, rt)
	case opts.Preview != "":
		return a.preview(ctx, rt, opts.Preview)
	case opts.List:
		return a.list(ctx, rt)
	default:
		return a.selectRepository(ctx, rt)
	}
}
