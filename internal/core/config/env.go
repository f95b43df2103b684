package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: LITSCAN_[SECTION]_[KEY] (e.g., LITSCAN_TRANSLATION_PROVIDER).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Jobs, "LITSCAN_JOBS")
	setEnvList(&cfg.Paths, "LITSCAN_PATHS")

	// Rule
	setEnvString(&cfg.Rule.UseCallee, "LITSCAN_RULE_USE_CALLEE")
	setEnvBoolPtr(&cfg.Rule.AutoFix, "LITSCAN_RULE_AUTO_FIX")
	setEnvBool(&cfg.Rule.MarkupOnly, "LITSCAN_RULE_MARKUP_ONLY")
	setEnvBool(&cfg.Rule.ValidateTemplate, "LITSCAN_RULE_VALIDATE_TEMPLATE")

	// Translation
	setEnvString(&cfg.Translation.I18nFilePath, "LITSCAN_TRANSLATION_I18N_FILE_PATH")
	setEnvString(&cfg.Translation.SourceLocale, "LITSCAN_TRANSLATION_SOURCE_LOCALE")
	setEnvList(&cfg.Translation.Locales, "LITSCAN_TRANSLATION_LOCALES")
	setEnvString(&cfg.Translation.Fallback, "LITSCAN_TRANSLATION_FALLBACK")
	setEnvString(&cfg.Translation.Provider, "LITSCAN_TRANSLATION_PROVIDER")
	setEnvDuration(&cfg.Translation.Timeout, "LITSCAN_TRANSLATION_TIMEOUT")
	setEnvInt(&cfg.Translation.MaxConcurrent, "LITSCAN_TRANSLATION_MAX_CONCURRENT")
	setEnvFloat64(&cfg.Translation.RatePerSecond, "LITSCAN_TRANSLATION_RATE_PER_SECOND")

	// Journal
	setEnvBool(&cfg.Journal.Enabled, "LITSCAN_JOURNAL_ENABLED")
	setEnvString(&cfg.Journal.Path, "LITSCAN_JOURNAL_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "LITSCAN_WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "LITSCAN_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "LITSCAN_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
