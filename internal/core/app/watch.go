package app

import (
	"context"
	"sort"

	"litscan/internal/core/config"
	"litscan/internal/core/watcher"
	"litscan/internal/engine/literal"
)

// StartWatcher re-lints changed files under the configured roots until
// StopWatching. Each batch is linted with the current rule and handed to
// onReport.
func (a *App) StartWatcher(ctx context.Context, fixFiles bool, onReport func(Report)) error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.filter, func(paths []string) {
		sort.Strings(paths)
		report, err := a.lintFiles(ctx, paths, fixFiles)
		if err != nil {
			a.logger.Warn("re-lint aborted", "error", err)
			return
		}
		if onReport != nil {
			onReport(report)
		}
	})
	if err != nil {
		return err
	}
	if err := w.Watch(a.Config.Paths); err != nil {
		_ = w.Close()
		return err
	}

	a.watchMu.Lock()
	a.activeWatcher = w
	a.watchMu.Unlock()
	return nil
}

// WatchConfig rebuilds the rule whenever the config file at path changes.
// Only [rule] changes take effect; the rest needs a restart.
func (a *App) WatchConfig(ctx context.Context, path string) error {
	cw := config.NewWatcher(path, func(cfg *config.Config) {
		rule, err := literal.NewRule(cfg.RuleOptions())
		if err != nil {
			a.logger.Warn("reloaded rule is invalid, keeping previous rule", "error", err)
			return
		}
		a.SetRule(rule)
		a.logger.Info("rule options reloaded", "path", path)
	})
	if err := cw.Start(ctx); err != nil {
		return err
	}
	a.watchMu.Lock()
	a.configWatcher = cw
	a.watchMu.Unlock()
	return nil
}

func (a *App) StopWatching() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			a.logger.Warn("closing file watcher", "error", err)
		}
		a.activeWatcher = nil
	}
	if a.configWatcher != nil {
		a.configWatcher.Stop()
		a.configWatcher = nil
	}
}
