package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"litscan/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1
paths = ["./src"]
jobs = 2

[exclude]
dirs = ["node_modules"]
files = ["*.spec.ts"]

[rule]
ignore_callee = ["logger\\.\\w+"]
only_attribute = ["title"]
validate_template = true
template_tags = ["{{", "}}"]
use_callee = "i18n.t"
auto_fix = false

[translation]
i18n_file_path = "i18n/{locale}.json"
source_locale = "zh-CN"
locales = ["zh-CN", "en-US", "en-US", "ja"]
fallback = "MISSING"
provider = "none"
timeout = "3s"
max_concurrent = 8

[journal]
enabled = true
path = "state/journal.db"

[watch]
debounce = "1s"

[observability]
metrics_addr = "127.0.0.1:9464"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	dir := filepath.Dir(path)

	if len(cfg.Paths) != 1 || cfg.Paths[0] != filepath.Join(dir, "src") {
		t.Errorf("paths not resolved against config dir: %v", cfg.Paths)
	}
	if cfg.Jobs != 2 {
		t.Errorf("expected jobs 2, got %d", cfg.Jobs)
	}
	if cfg.Rule.AutoFixEnabled() {
		t.Error("expected auto_fix off")
	}
	if cfg.Translation.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Translation.Timeout)
	}
	if got := strings.Join(cfg.Translation.Locales, ","); got != "zh-CN,en-US,ja" {
		t.Errorf("locales not deduplicated: %s", got)
	}
	if cfg.Translation.I18nFilePath != filepath.Join(dir, "i18n", "{locale}.json") {
		t.Errorf("unexpected catalog path %q", cfg.Translation.I18nFilePath)
	}
	if cfg.Journal.Path != filepath.Join(dir, "state", "journal.db") {
		t.Errorf("unexpected journal path %q", cfg.Journal.Path)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}

	opts := cfg.RuleOptions()
	if opts.TemplateTags != [2]string{"{{", "}}"} {
		t.Errorf("template tags not converted: %v", opts.TemplateTags)
	}
	if opts.UseCallee != "i18n.t" || opts.AutoFix || !opts.ValidateTemplate {
		t.Errorf("unexpected rule options: %+v", opts)
	}

	pc := cfg.PipelineConfig()
	if pc.Fallback != "MISSING" || pc.MaxConcurrent != 8 || pc.SourceLocale != "zh-CN" {
		t.Errorf("unexpected pipeline config: %+v", pc)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != 1 || cfg.Jobs != 4 {
		t.Errorf("unexpected defaults: version=%d jobs=%d", cfg.Version, cfg.Jobs)
	}
	if !cfg.Rule.AutoFixEnabled() {
		t.Error("auto_fix should default to on")
	}
	if cfg.Rule.UseCallee != "lang.t" {
		t.Errorf("expected default callee lang.t, got %q", cfg.Rule.UseCallee)
	}
	if cfg.Translation.SourceLocale != "zh-CN" || len(cfg.Translation.Locales) != 2 {
		t.Errorf("unexpected translation defaults: %+v", cfg.Translation)
	}
	if cfg.Translation.Fallback != "" {
		t.Errorf("fallback should default to empty, got %q", cfg.Translation.Fallback)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("defaults should validate, got %v", errs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "paths = ["))
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestParse_ReportsAllProblems(t *testing.T) {
	_, err := Parse([]byte(`
[rule]
template_tags = ["{"]
ignore = ["("]

[translation]
locales = ["en-US"]
provider = "deepl"
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"template_tags", "rule.ignore", "must include source_locale", "translation.provider"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LITSCAN_TRANSLATION_PROVIDER", "none")
	t.Setenv("LITSCAN_TRANSLATION_LOCALES", "zh-CN, fr")
	t.Setenv("LITSCAN_RULE_AUTO_FIX", "false")
	t.Setenv("LITSCAN_JOBS", "not-a-number")

	cfg, err := Parse([]byte(`jobs = 3`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Translation.Provider != "none" {
		t.Errorf("provider override not applied: %q", cfg.Translation.Provider)
	}
	if got := strings.Join(cfg.Translation.Locales, ","); got != "zh-CN,fr" {
		t.Errorf("locales override not applied: %s", got)
	}
	if cfg.Rule.AutoFixEnabled() {
		t.Error("auto_fix override not applied")
	}
	if cfg.Jobs != 3 {
		t.Errorf("unparsable override should be ignored, got jobs=%d", cfg.Jobs)
	}
}
