package app

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"unusedargs/internal/core/watcher"
	"unusedargs/internal/engine/lint"
	"unusedargs/internal/shared/observability"
)

// StartWatcher watches paths and re-reports after each debounced batch of
// changes. The initial report must come from LintOnce.
func (a *App) StartWatcher(ctx context.Context, paths []string) error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.runner, func(changed []string) {
		if _, err := a.HandleChanges(ctx, changed); err != nil {
			slog.Error("re-lint failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	a.activeWatcher = w
	return w.Watch(paths)
}

// HandleChanges re-lints changed files, forgets removed ones and writes a
// report covering every known file.
func (a *App) HandleChanges(ctx context.Context, paths []string) (Outcome, error) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	existing := make([]string, 0, len(paths))
	removed := make([]string, 0)
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			removed = append(removed, path)
			continue
		}
		existing = append(existing, path)
	}

	report, err := a.runner.LintFiles(ctx, existing)
	if err != nil {
		return Outcome{}, err
	}

	a.stateMu.Lock()
	for _, path := range removed {
		delete(a.findings, path)
		delete(a.skipped, path)
	}
	for _, path := range existing {
		a.findings[path] = nil
		delete(a.skipped, path)
	}
	for _, f := range report.Findings {
		a.findings[f.Path] = append(a.findings[f.Path], f)
	}
	for _, s := range report.Skipped {
		delete(a.findings, s.Path)
		a.skipped[s.Path] = s
	}
	findings, skipped, files := a.snapshot()
	a.stateMu.Unlock()

	outcome, err := a.emit(findings, skipped, files)
	observability.AnalysisDuration.WithLabelValues("watch_update").Observe(time.Since(start).Seconds())
	return outcome, err
}

// snapshot flattens watch state in path order. Callers hold stateMu.
func (a *App) snapshot() ([]lint.Finding, []lint.Skipped, int) {
	paths := make([]string, 0, len(a.findings)+len(a.skipped))
	for path := range a.findings {
		paths = append(paths, path)
	}
	for path := range a.skipped {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var findings []lint.Finding
	var skipped []lint.Skipped
	for _, path := range paths {
		if s, ok := a.skipped[path]; ok {
			skipped = append(skipped, s)
			continue
		}
		findings = append(findings, a.findings[path]...)
	}
	return findings, skipped, len(paths)
}
