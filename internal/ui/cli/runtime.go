// Package cli implements the unusedargs command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"unusedargs/internal/core/app"
	"unusedargs/internal/core/config"
	domainerrors "unusedargs/internal/core/errors"
)

// Run executes the command line and returns the process exit code:
// 0 when nothing is reported, 1 when findings are reported and 2 on errors.
func Run(args []string, stdout, stderr io.Writer) int {
	code := exitClean
	opts := &cliOptions{}
	cmd := newRootCommand(opts, func(cmd *cobra.Command) error {
		var err error
		code, err = execute(cmd, opts, stdout, stderr)
		return err
	})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "unusedargs: %v\n", err)
		return exitError
	}
	return code
}

func execute(cmd *cobra.Command, opts *cliOptions, stdout, stderr io.Writer) (int, error) {
	configureLogging(stderr, opts.verbose)

	cfg, cfgDir, err := loadConfig(cmd, opts)
	if err != nil {
		return exitError, err
	}
	ruleOpts := applyFlags(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return exitError, err
	}

	paths := opts.args
	if len(paths) == 0 {
		paths = make([]string, 0, len(cfg.Paths))
		for _, p := range cfg.Paths {
			paths = append(paths, config.ResolveRelative(cfgDir, p))
		}
	}

	root, err := config.DetectProjectRoot(paths)
	if err != nil {
		return exitError, domainerrors.Wrap(err, domainerrors.CodeInternal, "detect project root")
	}
	slog.Debug("configuration resolved", "root", root, "paths", paths, "format", cfg.Output.Format, "rules", cfg.Rules)

	a, err := app.New(cfg, ruleOpts, root, stdout)
	if err != nil {
		return exitError, err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cfg.Metrics.Address; addr != "" {
		server := NewObservabilityServer(addr)
		if err := server.Start(ctx); err != nil {
			return exitError, domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeInternal, "start metrics server"),
				domainerrors.CtxOption, "metrics.address",
			)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	if opts.writeBaseline {
		outcome, id, err := a.WriteBaseline(ctx, paths)
		if err != nil {
			return exitError, err
		}
		slog.Info("baseline updated", "run", id, "files", outcome.Files, "skipped", outcome.Skipped)
		return exitClean, nil
	}

	outcome, err := a.LintOnce(ctx, paths)
	if err != nil {
		return exitError, err
	}

	if !opts.watch {
		if outcome.Reported > 0 {
			return exitFindings, nil
		}
		return exitClean, nil
	}

	if err := a.StartWatcher(ctx, paths); err != nil {
		return exitError, domainerrors.Wrap(err, domainerrors.CodeInternal, "start watcher")
	}
	slog.Info("watching for changes", "paths", paths, "debounce", cfg.Watch.Debounce)
	<-ctx.Done()
	slog.Info("watch stopped")
	return exitClean, nil
}

// loadConfig reads --config when given. Otherwise it looks for the default
// file in the working directory and falls back to built-in defaults. The
// returned directory anchors relative paths from the config file.
func loadConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "detect working directory")
	}

	path := opts.configPath
	if !cmd.Flags().Changed("config") {
		path = filepath.Join(cwd, config.DefaultFile)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			slog.Debug("no config file found, using defaults", "path", path)
			return config.DefaultConfig(), cwd, nil
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve config path")
	}
	slog.Debug("config loaded", "path", abs)
	return cfg, filepath.Dir(abs), nil
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
