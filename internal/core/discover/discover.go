// Package discover decides which files under the configured roots are
// linted: supported extensions only, minus excluded directories and files.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"litscan/internal/core/errors"
	"litscan/internal/shared/util"

	"github.com/gobwas/glob"
)

type pattern struct {
	g glob.Glob
	// nested is set for patterns with a separator; it matches the pattern
	// at any depth of the slash path.
	nested glob.Glob
}

// Filter is safe for concurrent use once built.
type Filter struct {
	dirs  []glob.Glob
	files []pattern
	exts  map[string]bool
}

// NewFilter compiles the exclude globs. Directory globs match a directory's
// base name; file globs match the base name, or the slash path when they
// contain a separator.
func NewFilter(excludeDirs, excludeFiles, extensions []string) (*Filter, error) {
	f := &Filter{exts: make(map[string]bool, len(extensions))}
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid exclude dir pattern"), errors.CtxOption, p)
		}
		f.dirs = append(f.dirs, g)
	}
	for _, p := range excludeFiles {
		norm := util.NormalizePatternPath(p)
		g, err := glob.Compile(norm, '/')
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid exclude file pattern"), errors.CtxOption, p)
		}
		pat := pattern{g: g}
		if util.ContainsPathSeparator(norm) {
			pat.nested = glob.MustCompile("**/"+strings.TrimPrefix(norm, "/"), '/')
		}
		f.files = append(f.files, pat)
	}
	for _, ext := range extensions {
		f.exts[strings.ToLower(ext)] = true
	}
	return f, nil
}

func (f *Filter) ExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Include reports whether path is a lintable file that no exclude matches.
func (f *Filter) Include(path string) bool {
	if !f.exts[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	base := filepath.Base(path)
	slash := util.NormalizePatternPath(path)
	for _, p := range f.files {
		if p.g.Match(base) {
			return false
		}
		if p.nested != nil && (p.g.Match(slash) || p.nested.Match(slash)) {
			return false
		}
	}
	return true
}

// Walk expands roots (directories or single files) into the sorted, unique
// list of included files.
func (f *Filter) Walk(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "stat source root"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			// An explicitly named file skips the extension check so that
			// unsupported kinds are reported rather than silently dropped.
			seen[filepath.Clean(root)] = true
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && f.ExcludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if f.Include(path) {
				seen[filepath.Clean(path)] = true
			}
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "walk source root"), errors.CtxPath, root)
		}
	}
	return util.SortedStringKeys(seen), nil
}
