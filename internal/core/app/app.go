// Package app wires the lint runner, baseline store and reporters into the
// single-run and watch workflows.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"unusedargs/internal/core/config"
	"unusedargs/internal/core/errors"
	"unusedargs/internal/core/watcher"
	"unusedargs/internal/data/baseline"
	"unusedargs/internal/engine/lint"
	"unusedargs/internal/engine/parser"
	"unusedargs/internal/engine/unusedargs"
	"unusedargs/internal/ui/report/formats"
)

// baselineRunsKept bounds how many baseline runs the store keeps.
const baselineRunsKept = 10

type App struct {
	Config  *config.Config
	Options unusedargs.Options
	// Root is the project root; report paths and baseline fingerprints are
	// relative to it.
	Root string

	runner   *lint.Runner
	reporter formats.Reporter
	out      io.Writer
	store    *baseline.Store

	// watch-mode state, keyed by file path
	stateMu  sync.Mutex
	findings map[string][]lint.Finding
	skipped  map[string]lint.Skipped

	activeWatcher *watcher.Watcher
}

// New builds an App. out receives reports when no output path is configured.
func New(cfg *config.Config, opts unusedargs.Options, root string, out io.Writer) (*App, error) {
	loader, err := parser.NewGrammarLoader(parser.DefaultLanguageRegistry())
	if err != nil {
		return nil, err
	}
	runner, err := lint.NewRunner(parser.NewParser(loader), opts, lint.Settings{
		Jobs:         cfg.Jobs,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
	})
	if err != nil {
		return nil, err
	}
	reporter, err := formats.New(cfg.Output.Format, cfg.Output.Color)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "build reporter"), errors.CtxOption, "output.format")
	}

	return &App{
		Config:   cfg,
		Options:  opts,
		Root:     root,
		runner:   runner,
		reporter: reporter,
		out:      out,
		findings: make(map[string][]lint.Finding),
		skipped:  make(map[string]lint.Skipped),
	}, nil
}

// Baseline opens the configured baseline store on first use.
func (a *App) Baseline() (*baseline.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := config.ResolveRelative(a.Root, a.Config.Baseline.Path)
	store, err := baseline.Open(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "open baseline"), errors.CtxPath, path)
	}
	slog.Debug("baseline opened", "path", path)
	a.store = store
	return store, nil
}

func (a *App) Close() error {
	var firstErr error
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			firstErr = fmt.Errorf("close watcher: %w", err)
		}
		a.activeWatcher = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close baseline: %w", err)
		}
		a.store = nil
	}
	return firstErr
}
