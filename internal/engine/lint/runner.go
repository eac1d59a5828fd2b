// Package lint discovers Python files and runs the unused-argument rule over
// them concurrently.
package lint

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"unusedargs/internal/core/errors"
	"unusedargs/internal/engine/parser"
	"unusedargs/internal/engine/unusedargs"
	"unusedargs/internal/shared/observability"
	"unusedargs/internal/shared/util"
)

const (
	SkipSyntaxError = "syntax_error"
	SkipUnsupported = "unsupported"
)

type Settings struct {
	Jobs         int // 0 uses GOMAXPROCS
	ExcludeDirs  []string
	ExcludeFiles []string
}

// Finding is a rule result tied to the file it was reported in.
type Finding struct {
	Path string
	unusedargs.Result
}

// Skipped records a file the rule did not run on.
type Skipped struct {
	Path   string
	Reason string
	Err    error
}

type Report struct {
	Files    []string
	Findings []Finding
	Skipped  []Skipped
	Duration time.Duration
}

type Runner struct {
	parser       *parser.Parser
	opts         unusedargs.Options
	jobs         int
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewRunner(p *parser.Parser, opts unusedargs.Options, settings Settings) (*Runner, error) {
	r := &Runner{parser: p, opts: opts, jobs: settings.Jobs}
	if r.jobs <= 0 {
		r.jobs = runtime.GOMAXPROCS(0)
	}

	for _, pattern := range settings.ExcludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude dir pattern %q", pattern)),
				errors.CtxOption, "exclude.dirs",
			)
		}
		r.excludeDirs = append(r.excludeDirs, g)
	}
	for _, pattern := range settings.ExcludeFiles {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude file pattern %q", pattern)),
				errors.CtxOption, "exclude.files",
			)
		}
		r.excludeFiles = append(r.excludeFiles, g)
	}
	return r, nil
}

func (r *Runner) Options() unusedargs.Options {
	return r.opts
}

// Excluded reports whether path, found under root, is filtered out by the
// exclude patterns or is not a Python source file. Only directories below
// root are matched against the directory patterns.
func (r *Runner) Excluded(root, path string) bool {
	if !r.parser.IsSupportedPath(path) || r.excludedFile(path) {
		return true
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != ".." && r.excludedDir(part) {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory with this base name is excluded.
func (r *Runner) SkipDir(name string) bool {
	return r.excludedDir(name)
}

func (r *Runner) excludedDir(base string) bool {
	for _, g := range r.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (r *Runner) excludedFile(path string) bool {
	base := filepath.Base(path)
	slashed := util.NormalizePatternPath(path)
	for _, g := range r.excludeFiles {
		if g.Match(base) || g.Match(slashed) {
			return true
		}
	}
	return false
}

// Discover expands paths into a sorted, de-duplicated list of Python files.
// Files named explicitly are kept even when an exclude pattern matches them.
func (r *Runner) Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "path not found"), errors.CtxPath, root)
			}
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "stat path"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if r.parser.IsSupportedPath(root) {
				add(root)
			} else {
				slog.Debug("ignoring non-python file", "path", root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && r.excludedDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !r.parser.IsSupportedPath(path) || r.excludedFile(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "walk directory"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LintPaths discovers files under paths and lints them.
func (r *Runner) LintPaths(ctx context.Context, paths []string) (*Report, error) {
	files, err := r.Discover(paths)
	if err != nil {
		return nil, err
	}
	return r.LintFiles(ctx, files)
}

// LintFiles lints files concurrently. Findings are ordered by the position of
// their file in files, then by rule emission order.
func (r *Runner) LintFiles(ctx context.Context, files []string) (*Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "lint.LintFiles",
		trace.WithAttributes(attribute.Int("files", len(files)), attribute.Int("jobs", r.jobs)))
	defer span.End()

	start := time.Now()
	perFile := make([][]unusedargs.Result, len(files))
	skipped := make([]*Skipped, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results, skip, err := r.lintPath(gctx, path)
			if err != nil {
				return err
			}
			perFile[i] = results
			skipped[i] = skip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	report := &Report{Files: files}
	for i, path := range files {
		if skipped[i] != nil {
			report.Skipped = append(report.Skipped, *skipped[i])
			continue
		}
		for _, res := range perFile[i] {
			report.Findings = append(report.Findings, Finding{Path: path, Result: res})
		}
	}
	report.Duration = time.Since(start)
	observability.AnalysisDuration.WithLabelValues("lint").Observe(report.Duration.Seconds())
	span.SetAttributes(attribute.Int("findings", len(report.Findings)), attribute.Int("skipped", len(report.Skipped)))

	slog.Debug("lint finished",
		"files", len(files),
		"findings", len(report.Findings),
		"skipped", len(report.Skipped),
		"duration", report.Duration,
	)
	return report, nil
}

func (r *Runner) lintPath(ctx context.Context, path string) ([]unusedargs.Result, *Skipped, error) {
	_, span := observability.Tracer.Start(ctx, "lint.file", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "file not found"), errors.CtxPath, path)
		}
		return nil, nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read file"), errors.CtxPath, path)
	}

	results, err := r.LintFile(path, content)
	if err != nil {
		if errors.IsCode(err, errors.CodeSyntaxError) {
			span.SetStatus(codes.Error, "syntax error")
			return nil, &Skipped{Path: path, Reason: SkipSyntaxError, Err: err}, nil
		}
		if errors.IsCode(err, errors.CodeNotSupported) {
			return nil, &Skipped{Path: path, Reason: SkipUnsupported, Err: err}, nil
		}
		return nil, nil, err
	}
	return results, nil, nil
}

// LintFile parses content and returns every finding for it. Files with
// syntax errors return the SYNTAX_ERROR error and no findings.
func (r *Runner) LintFile(path string, content []byte) ([]unusedargs.Result, error) {
	unit, err := r.parser.Parse(path, content)
	if err != nil {
		if errors.IsCode(err, errors.CodeSyntaxError) || errors.IsCode(err, errors.CodeNotSupported) {
			reason := SkipSyntaxError
			if errors.IsCode(err, errors.CodeNotSupported) {
				reason = SkipUnsupported
			}
			attrs := []any{"path", path, "reason", reason, "error", err}
			if line, col, ok := errors.Position(err); ok {
				attrs = append(attrs, "line", line, "column", col)
			}
			slog.Warn("skipping file", attrs...)
			observability.FilesSkippedTotal.WithLabelValues(reason).Inc()
		}
		return nil, err
	}
	defer unit.Close()

	plugin := unusedargs.New(unit.Root(), unit.Source, r.opts)
	var results []unusedargs.Result
	for res := range plugin.Run() {
		observability.FindingsTotal.WithLabelValues(string(res.Code)).Inc()
		results = append(results, res)
	}
	observability.FilesLintedTotal.Inc()
	return results, nil
}
