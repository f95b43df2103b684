package cli

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"litscan/internal/core/app"
	"litscan/internal/core/config"
	"litscan/internal/core/errors"
	"litscan/internal/shared/observability"
	"litscan/internal/shared/version"

	"github.com/fatih/color"
)

// recentTaskLimit caps the failed tasks listed with -verbose.
const recentTaskLimit = 50

var errConflictingFixFlags = stderrors.New("-fix and -no-fix are mutually exclusive")

// Run executes the command line and returns the process exit code: 0 when
// no violations remain, 1 when some do or setup failed, 2 on usage errors.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if !stderrors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "litscan %s\n", version.String())
		return 0
	}
	if opts.noColor {
		color.NoColor = true
	}
	configureLogging(stderr, opts.verbose)

	waitFor, err := time.ParseDuration(opts.wait)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -wait %q: %v\n", opts.wait, err)
		return 2
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	fixFiles := cfg.Rule.AutoFixEnabled()
	switch {
	case opts.fix:
		enabled := true
		cfg.Rule.AutoFix = &enabled
		fixFiles = true
	case opts.noFix:
		fixFiles = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if endpoint := cfg.Observability.OTLPEndpoint; endpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, endpoint)
		if err != nil {
			slog.Warn("tracing disabled", "endpoint", endpoint, "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			slog.Warn("shutdown incomplete, some translations were abandoned", "error", err)
		}
	}()

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := NewObservabilityServer(addr, app.NewHealthService(a))
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() { _ = srv.Stop(context.Background()) }()
	}

	out := newPrinter(stdout)
	start := time.Now()
	report, err := a.Run(ctx, opts.args, fixFiles)
	if err != nil {
		slog.Error("lint run failed", "error", err)
		return 1
	}
	out.Report(report)

	if opts.watch {
		return watchLoop(ctx, a, cfgPath, fixFiles, out)
	}

	waitCtx, cancel := context.WithTimeout(ctx, waitFor)
	defer cancel()
	if err := a.WaitJobs(waitCtx); err != nil {
		slog.Warn("stopped waiting for translations", "error", err)
	}
	out.Summary(report, time.Since(start))
	counts, err := a.TaskSummary(ctx)
	if err != nil {
		slog.Warn("journal summary unavailable", "error", err)
	}
	if counts == nil {
		counts = collectOutcomes(report)
	}
	out.Tasks(counts)
	if opts.verbose {
		recent, err := a.RecentTasks(ctx, recentTaskLimit)
		if err != nil {
			slog.Warn("journal rows unavailable", "error", err)
		}
		out.TaskFailures(a.RunID(), recent)
	}

	if _, remaining, _, _ := report.Totals(); remaining > 0 {
		return 1
	}
	return 0
}

func watchLoop(ctx context.Context, a *app.App, cfgPath string, fixFiles bool, out *printer) int {
	if err := a.StartWatcher(ctx, fixFiles, out.Report); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	if cfgPath != "" {
		if err := a.WatchConfig(ctx, cfgPath); err != nil {
			slog.Warn("config file will not be reloaded", "path", cfgPath, "error", err)
		}
	}
	slog.Info("watching for changes", "paths", a.Config.Paths)
	<-ctx.Done()
	return 0
}

// loadConfig reads path, or ./litscan.toml when path is empty and the file
// exists, or falls back to defaults. The returned path is "" for defaults.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err != nil {
			slog.Debug("no config file, using defaults")
			// Parse validates env overrides on top of the defaults.
			cfg, err := config.Parse(nil)
			if err != nil {
				return nil, "", errors.AddContext(err, errors.CtxOperation, "load_config")
			}
			return cfg, "", nil
		}
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", errors.AddContext(err, errors.CtxOperation, "load_config")
	}
	return cfg, path, nil
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
