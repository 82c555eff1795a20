// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitfinder/internal/config"
	"gitfinder/internal/discovery"
	"gitfinder/internal/logging"
	"gitfinder/internal/preview"
	"gitfinder/internal/tools"
	"gitfinder/internal/vcs"
)

// LogFileName is the rotating log file inside config.StateDir.
const LogFileName = "gitfinder.log"

// runtime holds what every mode shares: configuration, logging and the tool
// resolver. Loggers are scoped per component.
type runtime struct {
	cfg      config.Config
	store    *config.Store
	logs     logging.LoggerProvider
	closeLog func()
	resolver *tools.Resolver
	backend  vcs.Backend
}

func (a *App) newRuntime(opts Options) *runtime {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	home, homeErr := a.searchHome()
	defaults := config.Defaults(home)
	store := config.NewStore(path, home, defaults)
	if opts.Preview != "" {
		// fzf runs one preview per highlight; none of them may write files.
		store = store.ReadOnly()
	}

	// --create-config must see whether a file already exists, so it skips Load.
	cfg, info, loadErr := defaults, config.LoadInfo{Path: path}, error(nil)
	if !opts.CreateConfig {
		cfg, info, loadErr = store.Load()
	}

	// fzf shows the preview command's stderr, so only errors go there.
	consoleLevel := "warn"
	if opts.Preview != "" {
		consoleLevel = "error"
	}

	logCfg := logging.Config{
		FilePath:     filepath.Join(config.StateDir(), LogFileName),
		MaxSizeMB:    5,
		MaxBackups:   3,
		MaxAgeDays:   14,
		Level:        cfg.LogLevel,
		Console:      a.Err,
		ConsoleLevel: consoleLevel,
	}
	logFile := logCfg.FilePath
	manager, fileErr := logging.NewManager(logCfg)
	if fileErr != nil {
		logCfg.FilePath = ""
		manager, _ = logging.NewManager(logCfg)
	}

	rt := &runtime{cfg: cfg, store: store, logs: manager, closeLog: func() { _ = manager.Close() }}

	if fileErr != nil {
		rt.logs.For("logging").Warn("log file disabled, diagnostics go to stderr only", "path", logFile, "error", fileErr.Error())
	}
	if homeErr != nil {
		rt.logs.For("config").Warn("home directory unknown, defaults search the working directory", "dir", home, "error", homeErr.Error())
	}

	logger := rt.logs.For("config")
	if loadErr != nil {
		logger.Warn("config unusable, using defaults", "path", path, "error", loadErr.Error())
	}
	if info.Created {
		logger.Info("default config written", "path", path)
	}
	for _, w := range info.Warnings {
		logger.Warn("config value ignored", "path", path, "detail", w)
	}

	rt.resolver = tools.NewResolverWithExecutor(a.Exec, rt.logs.For("tools"))
	return rt
}

// searchHome returns the directory default search paths start from. Without
// a home directory the working directory is used and the error is returned
// for reporting.
func (a *App) searchHome() (string, error) {
	if a.Home != "" {
		return a.Home, nil
	}
	err := a.HomeErr
	if err == nil {
		err = errors.New("home directory not set")
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return string(filepath.Separator), fmt.Errorf("%w; working directory: %v", err, wdErr)
	}
	return wd, err
}

func (rt *runtime) close() {
	rt.closeLog()
}

// vcsBackend picks the repository backend on first use.
func (rt *runtime) vcsBackend(ctx context.Context) vcs.Backend {
	if rt.backend == nil {
		rt.backend = vcs.Select(ctx, rt.resolver, rt.logs.For("vcs"))
	}
	return rt.backend
}

func (a *App) newFinder(ctx context.Context, rt *runtime) *discovery.Finder {
	backend := rt.vcsBackend(ctx)
	scanner := discovery.NewScannerWithExecutor(rt.resolver, a.Exec, rt.logs.For("scanner"))
	return discovery.NewFinder(scanner,
		vcs.NewValidator(backend, rt.logs.For("validator")),
		vcs.NewChangeDetector(backend, rt.logs.For("changes")),
		rt.logs.For("finder"),
	)
}

func (a *App) newPreviewRenderer(ctx context.Context, rt *runtime) *preview.Renderer {
	return preview.NewRendererWithExecutor(rt.resolver, rt.vcsBackend(ctx), a.Exec, rt.logs.For("preview"))
}
