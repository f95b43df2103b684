package literal

import (
	"regexp"
	"strings"

	"litscan/internal/engine/syntax"
)

var (
	namespaceTag   = regexp.MustCompile(`i18n-ns:\s*(\S+)`)
	namespaceValue = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ResolveNamespace reads the file's leading comments, those before the first
// top-level node other than a comment or a directive like "use strict", and
// returns the first valid `i18n-ns:` tag value, or "" when there is none.
func ResolveNamespace(f *syntax.File) string {
	if f == nil || f.Root == nil {
		return ""
	}
	for _, n := range f.Root.Children {
		if isDirective(n) {
			continue
		}
		if n.Kind != syntax.KindComment {
			break
		}
		if ns := namespaceIn(n.Text(f.Source)); ns != "" {
			return ns
		}
	}
	return ""
}

// isDirective matches a prologue statement made of a single string literal.
func isDirective(n *syntax.Node) bool {
	if n.Type != "expression_statement" {
		return false
	}
	var str *syntax.Node
	for _, ch := range n.Children {
		switch {
		case ch.Kind == syntax.KindComment:
		case ch.Kind == syntax.KindString && str == nil:
			str = ch
		default:
			return false
		}
	}
	return str != nil
}

func namespaceIn(comment string) string {
	body := stripCommentDelims(comment)
	for _, m := range namespaceTag.FindAllStringSubmatch(body, -1) {
		if namespaceValue.MatchString(m[1]) {
			return m[1]
		}
	}
	return ""
}

func stripCommentDelims(c string) string {
	c = strings.TrimSpace(c)
	switch {
	case strings.HasPrefix(c, "/*"):
		c = strings.TrimSuffix(strings.TrimPrefix(c, "/*"), "*/")
	case strings.HasPrefix(c, "<!--"):
		c = strings.TrimSuffix(strings.TrimPrefix(c, "<!--"), "-->")
	case strings.HasPrefix(c, "//"):
		c = strings.TrimPrefix(c, "//")
	}
	return c
}
