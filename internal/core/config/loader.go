package config

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"litscan/internal/core/errors"
	"litscan/internal/engine/literal"
	"litscan/internal/engine/translate"

	"github.com/BurntSushi/toml"
)

// Load reads the TOML file at path, applies LITSCAN_* environment overrides
// and defaults, then validates. Relative paths in the file are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read config"), errors.CtxPath, path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	cfg.ResolveRelativeTo(baseDir(path))
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	normalize(&cfg)
	return &cfg
}

func finish(cfg *Config) error {
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	normalize(cfg)
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Wrap(stderrors.Join(errs...), errors.CodeValidationError, "invalid configuration")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 4
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build", "coverage"}
	}
	if cfg.Exclude.Files == nil {
		cfg.Exclude.Files = []string{"*.d.ts", "*.min.js"}
	}

	if cfg.Rule.IgnoreConstructors == nil {
		cfg.Rule.IgnoreConstructors = []string{"Error"}
	}
	if len(cfg.Rule.TemplateTags) == 0 {
		cfg.Rule.TemplateTags = []string{literal.DefaultOpen, literal.DefaultClose}
	}
	if strings.TrimSpace(cfg.Rule.UseCallee) == "" {
		cfg.Rule.UseCallee = literal.DefaultCallee
	}
	if cfg.Rule.AutoFix == nil {
		enabled := true
		cfg.Rule.AutoFix = &enabled
	}

	t := &cfg.Translation
	if strings.TrimSpace(t.I18nFilePath) == "" {
		t.I18nFilePath = "locales"
	}
	if strings.TrimSpace(t.SourceLocale) == "" {
		t.SourceLocale = "zh-CN"
	}
	if len(t.Locales) == 0 {
		t.Locales = []string{"zh-CN", "en-US"}
	}
	if strings.TrimSpace(t.Provider) == "" {
		t.Provider = translate.ProviderGoogle
	}
	if t.Timeout <= 0 {
		t.Timeout = 10 * time.Second
	}
	if t.MaxConcurrent == 0 {
		t.MaxConcurrent = 4
	}
	if t.RatePerSecond == 0 {
		t.RatePerSecond = 5
	}
	if t.Burst <= 0 {
		t.Burst = 5
	}

	if strings.TrimSpace(cfg.Journal.Path) == "" {
		cfg.Journal.Path = "data/state/litscan.db"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

func normalize(cfg *Config) {
	cfg.Paths = trimAll(cfg.Paths)
	cfg.Exclude.Dirs = trimAll(cfg.Exclude.Dirs)
	cfg.Exclude.Files = trimAll(cfg.Exclude.Files)
	cfg.Rule.UseCallee = strings.TrimSpace(cfg.Rule.UseCallee)
	cfg.Rule.IgnoreAttribute = trimAll(cfg.Rule.IgnoreAttribute)
	cfg.Rule.IgnoreComponent = trimAll(cfg.Rule.IgnoreComponent)
	cfg.Rule.IgnoreProperty = trimAll(cfg.Rule.IgnoreProperty)
	cfg.Rule.OnlyAttribute = trimAll(cfg.Rule.OnlyAttribute)

	t := &cfg.Translation
	t.I18nFilePath = strings.TrimSpace(t.I18nFilePath)
	t.SourceLocale = strings.TrimSpace(t.SourceLocale)
	t.Locales = dedupe(trimAll(t.Locales))
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	cfg.Journal.Path = strings.TrimSpace(cfg.Journal.Path)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
