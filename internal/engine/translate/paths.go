package translate

import (
	"path/filepath"
	"strings"
)

const (
	LocaleToken = "{locale}"
	NSToken     = "{ns}"
	// DefaultNamespace fills {ns} when a file carries no namespace tag.
	DefaultNamespace = "translation"
)

// Target is one catalog file a job writes to.
type Target struct {
	Locale string
	Path   string
}

// ResolvePaths maps every locale onto its catalog file. filePath is either a
// template containing {locale} (and optionally {ns}), or a directory holding
// <locale>.json files. With a namespace and no {ns} token the namespace file
// is nested under the locale: <dir>/<locale>/<ns>.json.
func ResolvePaths(filePath string, locales []string, namespace string) []Target {
	out := make([]Target, 0, len(locales))
	for _, locale := range locales {
		out = append(out, Target{Locale: locale, Path: resolvePath(filePath, locale, namespace)})
	}
	return out
}

func resolvePath(filePath, locale, namespace string) string {
	var p string
	if strings.Contains(filePath, LocaleToken) {
		p = strings.ReplaceAll(filePath, LocaleToken, locale)
	} else {
		p = filepath.Join(filePath, locale+".json")
	}

	if strings.Contains(p, NSToken) {
		ns := namespace
		if ns == "" {
			ns = DefaultNamespace
		}
		return filepath.Clean(strings.ReplaceAll(p, NSToken, ns))
	}
	if namespace == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(strings.TrimSuffix(p, filepath.Ext(p)), namespace+".json")
}
