package app

import (
	"bytes"
	"path/filepath"

	"unusedargs/internal/core/errors"
	"unusedargs/internal/data/baseline"
	"unusedargs/internal/engine/lint"
	"unusedargs/internal/shared/observability"
	"unusedargs/internal/shared/util"
	"unusedargs/internal/ui/report/formats"
)

func (a *App) entryFor(f lint.Finding) baseline.Entry {
	path := f.Path
	if a.Root != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(a.Root, abs); err == nil {
				path = rel
			}
		}
	}
	return baseline.Entry{
		Path:     filepath.ToSlash(path),
		Function: f.Function,
		Argument: f.Argument,
		Code:     string(f.Code),
		Line:     f.Line,
		Column:   f.Column,
	}
}

// filterBaseline drops findings recorded in the active baseline.
func (a *App) filterBaseline(findings []lint.Finding) ([]lint.Finding, int, error) {
	if !a.Config.Baseline.Enabled {
		return findings, 0, nil
	}
	store, err := a.Baseline()
	if err != nil {
		return nil, 0, err
	}
	set, err := store.Load()
	if err != nil {
		return nil, 0, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "load baseline"), errors.CtxPath, store.Path())
	}

	matcher := set.Matcher()
	kept := make([]lint.Finding, 0, len(findings))
	suppressed := 0
	for _, f := range findings {
		if matcher.Match(a.entryFor(f)) {
			suppressed++
			continue
		}
		kept = append(kept, f)
	}
	observability.BaselineSuppressedTotal.Add(float64(suppressed))
	return kept, suppressed, nil
}

func (a *App) emit(findings []lint.Finding, skipped []lint.Skipped, files int) (Outcome, error) {
	kept, suppressed, err := a.filterBaseline(findings)
	if err != nil {
		return Outcome{}, err
	}

	in := formats.Input{
		Root:               a.Root,
		Findings:           kept,
		Skipped:            skipped,
		FilesChecked:       files,
		BaselineSuppressed: suppressed,
	}
	if err := a.write(in); err != nil {
		return Outcome{}, err
	}
	return Outcome{Reported: len(kept), Suppressed: suppressed, Skipped: len(skipped), Files: files}, nil
}

func (a *App) write(in formats.Input) error {
	path := a.Config.Output.Path
	if path == "" {
		if err := a.reporter.Write(a.out, in); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write report")
		}
		return nil
	}

	var buf bytes.Buffer
	if err := a.reporter.Write(&buf, in); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "render report")
	}
	target := path
	if !filepath.IsAbs(target) && a.Root != "" {
		target = filepath.Join(a.Root, target)
	}
	if err := util.WriteFileWithDirs(target, buf.Bytes(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write report"), errors.CtxPath, target)
	}
	return nil
}
