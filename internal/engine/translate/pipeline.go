// Package translate runs the background work behind every applied fix:
// translating the literal into each configured locale and persisting the
// results into locale catalogs.
package translate

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"litscan/internal/core/errors"
	"litscan/internal/core/ports"
	"litscan/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config is the translation section of the run configuration.
type Config struct {
	FilePath      string
	SourceLocale  string
	Locales       []string
	Fallback      string
	MaxConcurrent int
}

// keyChecker is implemented by catalog stores that can answer whether a key
// exists without writing. Known keys skip the translator call.
type keyChecker interface {
	Contains(path, key string) (bool, error)
}

type Option func(*Pipeline)

func WithRecorder(r ports.OutcomeRecorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline schedules fire-and-forget translation jobs. Schedule never blocks
// on translation or I/O; Wait drains whatever is in flight.
type Pipeline struct {
	cfg        Config
	translator ports.Translator
	store      ports.CatalogWriter
	recorder   ports.OutcomeRecorder
	logger     *slog.Logger

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	// mu orders wg.Add in Schedule against the closing Wait.
	mu     sync.RWMutex
	closed bool
	jobs   atomic.Int64
}

func NewPipeline(cfg Config, translator ports.Translator, store ports.CatalogWriter, opts ...Option) (*Pipeline, error) {
	if translator == nil || store == nil {
		return nil, errors.New(errors.CodeValidationError, "pipeline needs a translator and a catalog store")
	}
	if cfg.FilePath == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "catalog file path is required"),
			errors.CtxOption, "translation.i18n_file_path")
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		cfg:        cfg,
		translator: translator,
		store:      store,
		logger:     slog.Default(),
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Schedule starts a job for key and returns at once. After Close it returns
// nil.
func (p *Pipeline) Schedule(key, namespace string) *Job {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("translation pipeline closed, job dropped", "key", key)
		return nil
	}
	job := newJob(uuid.NewString(), key, namespace, ResolvePaths(p.cfg.FilePath, p.cfg.Locales, namespace))

	p.wg.Add(1)
	p.jobs.Add(1)
	observability.JobsInFlight.Inc()
	go func() {
		defer p.wg.Done()
		defer observability.JobsInFlight.Dec()
		defer close(job.done)
		p.run(job)
	}()
	return job
}

// Scheduled reports how many jobs were started over the pipeline's life.
func (p *Pipeline) Scheduled() int64 { return p.jobs.Load() }

func (p *Pipeline) run(job *Job) {
	ctx, span := observability.Tracer.Start(p.ctx, "translate.job", trace.WithAttributes(
		attribute.String("key", job.Key),
		attribute.String("namespace", job.Namespace),
	))
	defer span.End()

	// The source catalog is written first, inside the job itself.
	var others []Target
	for _, t := range job.Targets {
		if t.Locale == p.cfg.SourceLocale {
			p.finish(ctx, job, t, p.persist(t, job.Key, job.Key, ports.TaskStored))
			continue
		}
		others = append(others, t)
	}

	var wg sync.WaitGroup
	for _, t := range others {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			p.finish(ctx, job, t, p.translateTask(ctx, job, t))
		}(t)
	}
	wg.Wait()
}

func (p *Pipeline) translateTask(ctx context.Context, job *Job, t Target) taskResult {
	if kc, ok := p.store.(keyChecker); ok {
		if exists, err := kc.Contains(t.Path, job.Key); err == nil && exists {
			return taskResult{status: ports.TaskSkipped}
		}
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return taskResult{status: ports.TaskError, err: ctx.Err()}
	}
	start := time.Now()
	text, err := p.translator.Translate(ctx, job.Key, p.cfg.SourceLocale, t.Locale)
	<-p.sem
	observability.TranslationDuration.WithLabelValues(t.Locale).Observe(time.Since(start).Seconds())

	status := ports.TaskStored
	if err != nil {
		p.logger.Warn("translation failed, storing fallback",
			"key", job.Key, "locale", t.Locale, "error", err)
		text = p.cfg.Fallback
		status = ports.TaskFallback
	}
	res := p.persist(t, job.Key, text, status)
	if err != nil && res.err == nil {
		res.err = err
	}
	return res
}

type taskResult struct {
	status ports.TaskStatus
	err    error
}

func (p *Pipeline) persist(t Target, key, value string, status ports.TaskStatus) taskResult {
	inserted, err := p.store.Insert(t.Path, key, value)
	if err != nil {
		p.logger.Warn("catalog write failed", "path", t.Path, "locale", t.Locale, "key", key, "error", err)
		return taskResult{status: ports.TaskError, err: err}
	}
	if !inserted {
		return taskResult{status: ports.TaskSkipped}
	}
	return taskResult{status: status}
}

func (p *Pipeline) finish(ctx context.Context, job *Job, t Target, res taskResult) {
	outcome := ports.TaskOutcome{
		JobID:     job.ID,
		Key:       job.Key,
		Namespace: job.Namespace,
		Locale:    t.Locale,
		Path:      t.Path,
		Status:    res.status,
		At:        time.Now().UTC(),
	}
	if res.err != nil {
		outcome.Err = res.err.Error()
	}
	job.add(outcome)
	observability.TranslationTasksTotal.WithLabelValues(string(res.status)).Inc()
	p.logger.Debug("translation task finished",
		"key", job.Key, "locale", t.Locale, "path", t.Path, "status", res.status)

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, outcome); err != nil {
			p.logger.Warn("journal write failed", "job", job.ID, "error", err)
		}
	}
}

// Wait blocks until every scheduled job has finished or ctx is done.
func (p *Pipeline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CodeInternal, "waiting for translation jobs")
	}
}

// Close stops accepting jobs and drains the running ones. If ctx expires
// first, in-flight translator calls are cancelled.
func (p *Pipeline) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	err := p.Wait(ctx)
	p.cancel()
	return err
}
