// Package app wires the literal rule, the fix applier and the translation
// pipeline into lint runs over the configured source roots.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"litscan/internal/core/config"
	"litscan/internal/core/discover"
	"litscan/internal/core/errors"
	"litscan/internal/core/ports"
	"litscan/internal/core/watcher"
	"litscan/internal/data/catalog"
	"litscan/internal/data/journal"
	"litscan/internal/engine/literal"
	"litscan/internal/engine/syntax"
	"litscan/internal/engine/translate"
	"litscan/internal/shared/util"
)

type App struct {
	Config *config.Config

	parser   ports.SourceParser
	rule     atomic.Pointer[literal.Rule]
	filter   *discover.Filter
	store    *catalog.Store
	pipeline *translate.Pipeline
	journal  *journal.Journal
	logger   *slog.Logger

	watchMu       sync.Mutex
	activeWatcher *watcher.Watcher
	configWatcher *config.Watcher
}

var _ ports.SourceParser = (*syntax.Parser)(nil)

type Option func(*options)

type options struct {
	translator ports.Translator
	logger     *slog.Logger
}

// WithTranslator replaces the provider named in the config.
func WithTranslator(t ports.Translator) Option {
	return func(o *options) { o.translator = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	rule, err := literal.NewRule(cfg.RuleOptions())
	if err != nil {
		return nil, err
	}
	p := syntax.NewParser()
	filter, err := discover.NewFilter(cfg.Exclude.Dirs, cfg.Exclude.Files, p.SupportedExtensions())
	if err != nil {
		return nil, err
	}

	translator := o.translator
	if translator == nil {
		limiter := util.NewLimiter(cfg.Translation.RatePerSecond, cfg.Translation.Burst)
		translator, err = translate.NewTranslator(cfg.Translation.Provider, cfg.Translation.Timeout, limiter)
		if err != nil {
			return nil, err
		}
	}

	a := &App{
		Config: cfg,
		parser: p,
		filter: filter,
		store:  catalog.NewStore(),
		logger: o.logger,
	}
	a.rule.Store(rule)

	pipelineOpts := []translate.Option{translate.WithLogger(o.logger)}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "open journal"), errors.CtxPath, cfg.Journal.Path)
		}
		a.journal = j
		pipelineOpts = append(pipelineOpts, translate.WithRecorder(j))
		o.logger.Debug("translation journal opened", "path", cfg.Journal.Path, "run", j.RunID())
	}
	a.pipeline, err = translate.NewPipeline(cfg.PipelineConfig(), translator, a.store, pipelineOpts...)
	if err != nil {
		_ = a.journal.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Rule() *literal.Rule { return a.rule.Load() }

// SetRule swaps the rule used by later lint calls. In-flight calls finish
// with the rule they started with.
func (a *App) SetRule(r *literal.Rule) {
	if r != nil {
		a.rule.Store(r)
	}
}

func (a *App) Pipeline() *translate.Pipeline { return a.pipeline }

// WaitJobs blocks until every scheduled translation job has finished.
func (a *App) WaitJobs(ctx context.Context) error {
	return a.pipeline.Wait(ctx)
}

// TaskSummary counts translation task outcomes of this run. It needs the
// journal; without one it returns nil.
func (a *App) TaskSummary(ctx context.Context) (map[ports.TaskStatus]int, error) {
	if a.journal == nil {
		return nil, nil
	}
	return a.journal.Summary(ctx)
}

// RecentTasks returns up to limit task outcomes of this run, newest first.
// Without a journal it returns nil.
func (a *App) RecentTasks(ctx context.Context, limit int) ([]ports.TaskOutcome, error) {
	if a.journal == nil {
		return nil, nil
	}
	return a.journal.Recent(ctx, limit)
}

// RunID identifies this run's rows in the journal, or "" without one.
func (a *App) RunID() string {
	if a.journal == nil {
		return ""
	}
	return a.journal.RunID()
}

// Close stops watchers, drains the pipeline and closes the journal.
func (a *App) Close(ctx context.Context) error {
	a.StopWatching()
	err := a.pipeline.Close(ctx)
	if a.journal != nil {
		if cerr := a.journal.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
