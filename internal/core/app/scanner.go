package app

import (
	"context"
	"log/slog"

	"unusedargs/internal/core/errors"
	"unusedargs/internal/data/baseline"
	"unusedargs/internal/engine/lint"
	"unusedargs/internal/shared/version"
)

// Outcome summarises one reported run.
type Outcome struct {
	Reported   int
	Suppressed int
	Skipped    int
	Files      int
}

// LintOnce lints paths, filters the result through the baseline when enabled,
// and writes one report.
func (a *App) LintOnce(ctx context.Context, paths []string) (Outcome, error) {
	report, err := a.runner.LintPaths(ctx, paths)
	if err != nil {
		return Outcome{}, err
	}
	a.stateMu.Lock()
	a.replaceState(report)
	a.stateMu.Unlock()
	return a.emit(report.Findings, report.Skipped, len(report.Files))
}

// WriteBaseline lints paths and records every finding as the new baseline.
func (a *App) WriteBaseline(ctx context.Context, paths []string) (Outcome, string, error) {
	report, err := a.runner.LintPaths(ctx, paths)
	if err != nil {
		return Outcome{}, "", err
	}
	store, err := a.Baseline()
	if err != nil {
		return Outcome{}, "", err
	}

	entries := make([]baseline.Entry, 0, len(report.Findings))
	for _, f := range report.Findings {
		entries = append(entries, a.entryFor(f))
	}
	id, err := store.SaveRun(entries, version.Version, baselineRunsKept)
	if err != nil {
		return Outcome{}, "", errors.AddContext(errors.Wrap(err, errors.CodeInternal, "save baseline"), errors.CtxPath, store.Path())
	}
	slog.Info("baseline written", "run", id, "findings", len(entries), "path", store.Path())
	return Outcome{Files: len(report.Files), Skipped: len(report.Skipped)}, id, nil
}

func (a *App) replaceState(report *lint.Report) {
	a.findings = make(map[string][]lint.Finding, len(report.Files))
	a.skipped = make(map[string]lint.Skipped, len(report.Skipped))
	for _, s := range report.Skipped {
		a.skipped[s.Path] = s
	}
	for _, path := range report.Files {
		if _, ok := a.skipped[path]; !ok {
			a.findings[path] = nil
		}
	}
	for _, f := range report.Findings {
		a.findings[f.Path] = append(a.findings[f.Path], f)
	}
}
