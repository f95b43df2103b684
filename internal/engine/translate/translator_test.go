package translate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	domainerrors "litscan/internal/core/errors"
	"litscan/internal/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US":   "en",
		"ja-JP":   "ja",
		"zh-CN":   "zh-CN",
		"zh-TW":   "zh-TW",
		"zh-Hant": "zh-TW",
		"zh":      "zh-CN",
	}
	for in, want := range cases {
		assert.Equal(t, want, GoogleLanguage(in), in)
	}
}

func TestGoogleTranslator_UsesMappedCodes(t *testing.T) {
	g := NewGoogleTranslator(time.Second, util.NewLimiter(0, 0))
	var gotFrom, gotTo string
	g.call = func(text, from, to string) (string, error) {
		gotFrom, gotTo = from, to
		return "Hello", nil
	}
	out, err := g.Translate(context.Background(), "你好", "zh-CN", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
	assert.Equal(t, "zh-CN", gotFrom)
	assert.Equal(t, "en", gotTo)
}

func TestGoogleTranslator_TimeoutIsFailure(t *testing.T) {
	g := NewGoogleTranslator(20*time.Millisecond, nil)
	block := make(chan struct{})
	defer close(block)
	g.call = func(text, from, to string) (string, error) {
		<-block
		return "late", nil
	}
	_, err := g.Translate(context.Background(), "你好", "zh-CN", "en-US")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGoogleTranslator_EmptyResultIsFailure(t *testing.T) {
	g := NewGoogleTranslator(time.Second, nil)
	g.call = func(text, from, to string) (string, error) { return "  ", nil }
	_, err := g.Translate(context.Background(), "你好", "zh-CN", "en-US")
	assert.Error(t, err)
}

func TestNewTranslator(t *testing.T) {
	tr, err := NewTranslator("none", time.Second, nil)
	require.NoError(t, err)
	_, err = tr.Translate(context.Background(), "a", "zh-CN", "en-US")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotSupported))

	tr, err = NewTranslator("Google", time.Second, nil)
	require.NoError(t, err)
	assert.IsType(t, &GoogleTranslator{}, tr)

	_, err = NewTranslator("deepl", time.Second, nil)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
}

func TestResolvePaths(t *testing.T) {
	locales := []string{"zh-CN", "en-US"}
	cases := []struct {
		name      string
		filePath  string
		namespace string
		want      []string
	}{
		{"directory", "locales", "", []string{"locales/zh-CN.json", "locales/en-US.json"}},
		{"directory with namespace", "locales", "orders", []string{"locales/zh-CN/orders.json", "locales/en-US/orders.json"}},
		{"template", "i18n/{locale}.json", "", []string{"i18n/zh-CN.json", "i18n/en-US.json"}},
		{"template with namespace", "i18n/{locale}.json", "orders", []string{"i18n/zh-CN/orders.json", "i18n/en-US/orders.json"}},
		{"ns token", "i18n/{locale}/{ns}.json", "", []string{"i18n/zh-CN/translation.json", "i18n/en-US/translation.json"}},
		{"ns token with namespace", "i18n/{ns}/{locale}.json", "cart", []string{"i18n/cart/zh-CN.json", "i18n/cart/en-US.json"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			targets := ResolvePaths(tc.filePath, locales, tc.namespace)
			require.Len(t, targets, len(tc.want))
			for i, target := range targets {
				assert.Equal(t, locales[i], target.Locale)
				assert.Equal(t, filepath.FromSlash(tc.want[i]), target.Path)
			}
		})
	}
}
