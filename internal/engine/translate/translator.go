package translate

import (
	"context"
	"strings"
	"time"

	"litscan/internal/core/errors"
	"litscan/internal/core/ports"
	"litscan/internal/shared/util"

	"github.com/bregydoc/gtranslate"
	"golang.org/x/text/language"
)

const (
	ProviderGoogle = "google"
	ProviderNone   = "none"
)

// NewTranslator builds the translator named by provider.
func NewTranslator(provider string, timeout time.Duration, limiter *util.Limiter) (ports.Translator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGoogle, "":
		return NewGoogleTranslator(timeout, limiter), nil
	case ProviderNone:
		return OfflineTranslator{}, nil
	default:
		return nil, errors.AddContext(
			errors.Newf(errors.CodeValidationError, "unknown translation provider %q", provider),
			errors.CtxOption, "translation.provider")
	}
}

// GoogleTranslator calls the public Google Translate endpoint through
// gtranslate. The library has no context support, so each call runs in its
// own goroutine and is abandoned when the timeout or ctx fires.
type GoogleTranslator struct {
	timeout time.Duration
	limiter *util.Limiter
	call    func(text, from, to string) (string, error)
}

func NewGoogleTranslator(timeout time.Duration, limiter *util.Limiter) *GoogleTranslator {
	return &GoogleTranslator{
		timeout: timeout,
		limiter: limiter,
		call: func(text, from, to string) (string, error) {
			return gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{From: from, To: to})
		},
	}
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if err := g.limiter.Wait(ctx, 1); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "rate limit wait")
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := g.call(text, GoogleLanguage(from), GoogleLanguage(to))
		ch <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return "", errors.AddContext(errors.Wrap(ctx.Err(), errors.CodeInternal, "translation timed out"), errors.CtxLocale, to)
	case r := <-ch:
		if r.err != nil {
			return "", errors.AddContext(errors.Wrap(r.err, errors.CodeInternal, "translation failed"), errors.CtxLocale, to)
		}
		if strings.TrimSpace(r.text) == "" {
			return "", errors.AddContext(errors.New(errors.CodeInternal, "empty translation"), errors.CtxLocale, to)
		}
		return r.text, nil
	}
}

// GoogleLanguage maps a BCP 47 locale onto the code the endpoint expects:
// the bare language, except Chinese which keeps its script region.
func GoogleLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	if base.String() != "zh" {
		return base.String()
	}
	if script, _ := tag.Script(); script.String() == "Hant" {
		return "zh-TW"
	}
	switch region, _ := tag.Region(); region.String() {
	case "TW", "HK", "MO":
		return "zh-TW"
	}
	return "zh-CN"
}

// OfflineTranslator never translates; every target locale gets the fallback.
type OfflineTranslator struct{}

func (OfflineTranslator) Translate(_ context.Context, _, _, to string) (string, error) {
	return "", errors.AddContext(
		errors.New(errors.CodeNotSupported, "translation provider disabled"),
		errors.CtxLocale, to)
}
