package config

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strings"
	"unicode"

	"litscan/internal/core/errors"
	"litscan/internal/engine/literal"
	"litscan/internal/engine/translate"

	"github.com/gobwas/glob"
	"golang.org/x/text/language"
)

// Validate returns every problem found, so a broken file is reported in one go.
func Validate(cfg *Config) []error {
	var errs []error

	if err := validateVersion(cfg); err != nil {
		errs = append(errs, err)
	}
	if cfg.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be >= 1, got %d", cfg.Jobs))
	}
	errs = append(errs, validateExclude(cfg)...)
	errs = append(errs, validateRule(cfg)...)
	errs = append(errs, validateTranslation(cfg)...)
	if err := validateJournal(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateObservability(cfg); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateExclude(cfg *Config) []error {
	var errs []error
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("exclude.files[%d] %q is not a valid glob: %w", i, pattern, err))
		}
	}
	for i, dir := range cfg.Exclude.Dirs {
		if strings.ContainsAny(dir, `/\`) {
			errs = append(errs, fmt.Errorf("exclude.dirs[%d] %q must be a directory name, not a path", i, dir))
		}
	}
	return errs
}

func validateRule(cfg *Config) []error {
	var errs []error
	tags := cfg.Rule.TemplateTags
	if len(tags) != 2 || strings.TrimSpace(tags[0]) == "" || strings.TrimSpace(tags[1]) == "" {
		errs = append(errs, fmt.Errorf("rule.template_tags must hold exactly two non-empty entries, got %q", tags))
	}
	if cfg.Rule.UseCallee == "" {
		errs = append(errs, fmt.Errorf("rule.use_callee must not be empty"))
	}
	// Regex sources are compiled the same way the rule compiles them.
	if _, err := literal.NewAllowRuleSet(cfg.RuleOptions()); err != nil {
		errs = append(errs, fmt.Errorf("rule.%s: %w", optionKey(err), err))
	}
	return errs
}

func validateTranslation(cfg *Config) []error {
	var errs []error
	t := cfg.Translation
	if t.I18nFilePath == "" {
		errs = append(errs, fmt.Errorf("translation.i18n_file_path must not be empty"))
	}
	if _, err := language.Parse(t.SourceLocale); err != nil {
		errs = append(errs, fmt.Errorf("translation.source_locale %q is not a BCP 47 tag: %w", t.SourceLocale, err))
	}
	hasSource := false
	for i, locale := range t.Locales {
		if _, err := language.Parse(locale); err != nil {
			errs = append(errs, fmt.Errorf("translation.locales[%d] %q is not a BCP 47 tag: %w", i, locale, err))
		}
		if locale == t.SourceLocale {
			hasSource = true
		}
	}
	if !hasSource {
		errs = append(errs, fmt.Errorf("translation.locales must include source_locale %q", t.SourceLocale))
	}
	switch t.Provider {
	case translate.ProviderGoogle, translate.ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("translation.provider must be one of: google, none; got %q", t.Provider))
	}
	if t.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("translation.max_concurrent must be >= 1, got %d", t.MaxConcurrent))
	}
	return errs
}

func validateJournal(cfg *Config) error {
	if !cfg.Journal.Enabled {
		return nil
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path must not be empty when the journal is enabled")
	}
	if info, err := os.Stat(cfg.Journal.Path); err == nil && info.IsDir() {
		return fmt.Errorf("journal.path %q is a directory", cfg.Journal.Path)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := cfg.Observability.MetricsAddr
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("observability.metrics_addr %q must be host:port: %w", addr, err)
	}
	return nil
}

// optionKey maps the rule option named in err (ignoreCallee) onto its TOML
// key (ignore_callee).
func optionKey(err error) string {
	var de *errors.DomainError
	if !stderrors.As(err, &de) {
		return "patterns"
	}
	name, _ := de.Context[errors.CtxOption].(string)
	if name == "" {
		return "patterns"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
