package app

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"litscan/internal/core/errors"
	"litscan/internal/engine/fix"
	"litscan/internal/engine/literal"
	"litscan/internal/engine/translate"
	"litscan/internal/shared/observability"
	"litscan/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// FileReport is the outcome of linting one file.
type FileReport struct {
	Path       string
	Language   string
	Violations []literal.Violation
	// Fixed marks, per violation, whether its rewrite was written back.
	Fixed        []bool
	FixesApplied int
	Skipped      int
	Jobs         []*translate.Job
}

// Remaining lists the violations still present in the file on disk.
func (r FileReport) Remaining() []literal.Violation {
	out := make([]literal.Violation, 0, len(r.Violations))
	for i, v := range r.Violations {
		if i < len(r.Fixed) && r.Fixed[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Report aggregates one run. Files are sorted by path.
type Report struct {
	Files    []FileReport
	Warnings []string
}

func (r Report) Totals() (violations, remaining, applied, jobs int) {
	for _, f := range r.Files {
		violations += len(f.Violations)
		remaining += len(f.Remaining())
		applied += f.FixesApplied
		jobs += len(f.Jobs)
	}
	return
}

// LintFile checks one file. With fix set, non-overlapping rewrites are
// written back and one translation job per rewrite is scheduled; the jobs
// run in the background and LintFile does not wait for them.
func (a *App) LintFile(ctx context.Context, path string, fixFile bool) (FileReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.LintFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	report := FileReport{Path: path}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if err := literal.CheckPath(path); err != nil {
		return report, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return report, errors.AddContext(errors.Wrap(err, errors.CodeIO, "stat source"), errors.CtxPath, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return report, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read source"), errors.CtxPath, path)
	}

	start := time.Now()
	file, err := a.parser.Parse(path, src)
	if err != nil {
		return report, err
	}
	report.Language = file.Language
	violations, err := a.Rule().Check(file)
	observability.LintDuration.WithLabelValues(file.Language).Observe(time.Since(start).Seconds())
	observability.FilesLintedTotal.Inc()
	if err != nil {
		return report, err
	}
	report.Violations = violations
	report.Fixed = make([]bool, len(violations))
	observability.LiteralsFlaggedTotal.Add(float64(len(violations)))
	span.SetAttributes(attribute.Int("violations", len(violations)))

	if !fixFile || len(violations) == 0 {
		return report, nil
	}

	var edits []fix.Edit
	var owners []int
	for i, v := range violations {
		if v.Fix == nil {
			continue
		}
		edits = append(edits, fix.Edit{Start: v.Fix.Start, End: v.Fix.End, Text: v.Fix.Replacement()})
		owners = append(owners, i)
	}
	if len(edits) == 0 {
		return report, nil
	}

	res := fix.Apply(src, edits)
	report.Skipped = len(res.Skipped)
	observability.FixesSkippedTotal.Add(float64(len(res.Skipped)))
	for _, s := range res.Skipped {
		a.logger.Debug("fix skipped", "path", path, "key", violations[owners[s.Index]].Fix.Key, "reason", s.Reason)
	}
	if !res.Changed() {
		return report, nil
	}
	if err := util.WriteFileAtomic(path, res.Content, info.Mode().Perm()); err != nil {
		return report, errors.AddContext(errors.Wrap(err, errors.CodeIO, "write fixed source"), errors.CtxPath, path)
	}
	report.FixesApplied = len(res.Applied)
	observability.FixesAppliedTotal.Add(float64(len(res.Applied)))

	// Jobs start only once the rewrite is on disk.
	for _, idx := range res.Applied {
		vi := owners[idx]
		report.Fixed[vi] = true
		f := violations[vi].Fix
		if job := a.pipeline.Schedule(f.Key, f.Namespace); job != nil {
			report.Jobs = append(report.Jobs, job)
		}
	}
	a.logger.Info("fixed literals", "path", path, "applied", len(res.Applied), "skipped", len(res.Skipped))
	return report, nil
}

// Run lints every file under paths (the configured roots when empty) with
// up to Config.Jobs files in flight. Per-file failures become warnings; only
// discovery failures and cancellation abort the run.
func (a *App) Run(ctx context.Context, paths []string, fixFiles bool) (Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	if len(paths) == 0 {
		paths = a.Config.Paths
	}
	files, err := a.filter.Walk(paths)
	if err != nil {
		return Report{}, errors.AddContext(err, errors.CtxOperation, "discover")
	}
	return a.lintFiles(ctx, files, fixFiles)
}

func (a *App) lintFiles(ctx context.Context, files []string, fixFiles bool) (Report, error) {
	var (
		mu     sync.Mutex
		report Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Jobs, 1))
	for _, path := range files {
		g.Go(func() error {
			fr, err := a.LintFile(gctx, path, fixFiles)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				a.logger.Warn("lint failed", "path", path, "error", err)
				report.Warnings = append(report.Warnings, err.Error())
				return nil
			}
			report.Files = append(report.Files, fr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Path < report.Files[j].Path })
	sort.Strings(report.Warnings)
	return report, nil
}
