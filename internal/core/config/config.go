// Package config loads litscan.toml: which sources to lint, how the literal
// rule behaves, and where translations are written.
package config

import (
	"time"

	"litscan/internal/engine/literal"
	"litscan/internal/engine/translate"
)

const DefaultFile = "litscan.toml"

type Config struct {
	Version       int           `toml:"version"`
	Paths         []string      `toml:"paths"`
	Jobs          int           `toml:"jobs"`
	Exclude       Exclude       `toml:"exclude"`
	Rule          Rule          `toml:"rule"`
	Translation   Translation   `toml:"translation"`
	Journal       Journal       `toml:"journal"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"` // glob patterns, matched against the base name and the slash path
}

type Rule struct {
	Ignore             []string `toml:"ignore"`
	IgnoreAttribute    []string `toml:"ignore_attribute"`
	IgnoreCallee       []string `toml:"ignore_callee"`
	IgnoreProperty     []string `toml:"ignore_property"`
	IgnoreComponent    []string `toml:"ignore_component"`
	IgnoreConstructors []string `toml:"ignore_constructors"`
	OnlyAttribute      []string `toml:"only_attribute"`
	MarkupOnly         bool     `toml:"markup_only"`
	ValidateTemplate   bool     `toml:"validate_template"`
	TemplateTags       []string `toml:"template_tags"`
	UseCallee          string   `toml:"use_callee"`
	AutoFix            *bool    `toml:"auto_fix"`
}

type Translation struct {
	I18nFilePath  string        `toml:"i18n_file_path"`
	SourceLocale  string        `toml:"source_locale"`
	Locales       []string      `toml:"locales"`
	Fallback      string        `toml:"fallback"`
	Provider      string        `toml:"provider"`
	Timeout       time.Duration `toml:"timeout"`
	MaxConcurrent int           `toml:"max_concurrent"`
	RatePerSecond float64       `toml:"rate_per_second"`
	Burst         int           `toml:"burst"`
}

type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func (r Rule) AutoFixEnabled() bool {
	return r.AutoFix == nil || *r.AutoFix
}

// RuleOptions converts the [rule] section into literal rule options.
func (c *Config) RuleOptions() literal.Options {
	r := c.Rule
	opts := literal.Options{
		Ignore:             r.Ignore,
		IgnoreAttribute:    r.IgnoreAttribute,
		IgnoreCallee:       r.IgnoreCallee,
		IgnoreProperty:     r.IgnoreProperty,
		IgnoreComponent:    r.IgnoreComponent,
		IgnoreConstructors: r.IgnoreConstructors,
		OnlyAttribute:      r.OnlyAttribute,
		MarkupOnly:         r.MarkupOnly,
		ValidateTemplate:   r.ValidateTemplate,
		UseCallee:          r.UseCallee,
		AutoFix:            r.AutoFixEnabled(),
	}
	if len(r.TemplateTags) == 2 {
		opts.TemplateTags = [2]string{r.TemplateTags[0], r.TemplateTags[1]}
	}
	return opts
}

func (c *Config) PipelineConfig() translate.Config {
	t := c.Translation
	return translate.Config{
		FilePath:      t.I18nFilePath,
		SourceLocale:  t.SourceLocale,
		Locales:       t.Locales,
		Fallback:      t.Fallback,
		MaxConcurrent: t.MaxConcurrent,
	}
}
