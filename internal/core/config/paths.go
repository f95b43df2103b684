package config

import (
	"path/filepath"
	"strings"
)

// ResolveRelativeTo rewrites the relative paths in cfg (source roots, the
// catalog path and the journal) against base, usually the config file's
// directory.
func (c *Config) ResolveRelativeTo(base string) {
	for i, p := range c.Paths {
		c.Paths[i] = ResolveRelative(base, p)
	}
	c.Translation.I18nFilePath = ResolveRelative(base, c.Translation.I18nFilePath)
	c.Journal.Path = ResolveRelative(base, c.Journal.Path)
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

func baseDir(configPath string) string {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return filepath.Dir(configPath)
	}
	return filepath.Dir(abs)
}
