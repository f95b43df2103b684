package literal

import (
	"fmt"
	"strings"
	"sync"

	"litscan/internal/engine/syntax"
)

// Fix replaces source bytes [Start, End) with Replacement(). Key is the
// catalog key the replacement looks up.
type Fix struct {
	Start     int
	End       int
	Key       string
	Namespace string

	once  sync.Once
	build func() string
	text  string
}

// Replacement renders the new text on first use and caches it.
func (f *Fix) Replacement() string {
	f.once.Do(func() {
		if f.build != nil {
			f.text = f.build()
			f.build = nil
		}
	})
	return f.text
}

// NormalizeKey drops line breaks and surrounding whitespace.
func NormalizeKey(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", "")
	return strings.TrimSpace(text)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\r", `\r`, "\n", `\n`)

func quote(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}

// FixGenerator renders the four replacement shapes. It never re-parses; every
// fix is a text transform over the node's original range.
type FixGenerator struct {
	callee string
	open   string
	close  string
}

func NewFixGenerator(opts Options) FixGenerator {
	opts = opts.normalized()
	return FixGenerator{callee: opts.UseCallee, open: opts.TemplateTags[0], close: opts.TemplateTags[1]}
}

func (g FixGenerator) call(key, ns string, args []string) string {
	if ns != "" {
		args = append(args, "ns: "+quote(ns))
	}
	if len(args) == 0 {
		return fmt.Sprintf("%s(%s)", g.callee, quote(key))
	}
	return fmt.Sprintf("%s(%s, { %s })", g.callee, quote(key), strings.Join(args, ", "))
}

// Generic replaces the whole literal, quotes included.
func (g FixGenerator) Generic(n *syntax.Node, ns string) *Fix {
	key := NormalizeKey(n.Value)
	return &Fix{
		Start: n.Start, End: n.End, Key: key, Namespace: ns,
		build: func() string { return g.call(key, ns, nil) },
	}
}

// Attribute wraps the call in an expression container, since a bare
// attribute value cannot hold a call.
func (g FixGenerator) Attribute(n *syntax.Node, ns string) *Fix {
	f := g.Generic(n, ns)
	key := f.Key
	f.build = func() string { return "{" + g.call(key, ns, nil) + "}" }
	return f
}

// MarkupText replaces only the trimmed text, leaving surrounding whitespace
// bytes in place.
func (g FixGenerator) MarkupText(n *syntax.Node, delims syntax.Delims, ns string) *Fix {
	trimmed := strings.TrimSpace(n.Value)
	start := n.Start + strings.Index(n.Value, trimmed)
	key := NormalizeKey(trimmed)
	return &Fix{
		Start: start, End: start + len(trimmed), Key: key, Namespace: ns,
		build: func() string { return delims.Open + g.call(key, ns, nil) + delims.Close },
	}
}

// Template turns `Hello ${name}` into callee('Hello {name}', { name: name }).
// Bare identifiers keep their name as placeholder; other expressions become
// value, or valueN when there are several.
func (g FixGenerator) Template(n *syntax.Node, src []byte, ns string) *Fix {
	segments, subs := TemplateParts(n, src)

	names := make([]string, len(subs))
	exprs := make([]string, len(subs))
	for i, s := range subs {
		expr := substitutionExpr(s)
		exprs[i] = strings.TrimSpace(expr.Text(src))
		if expr == s {
			exprs[i] = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(exprs[i], "${"), "}"))
		}
		switch {
		case expr.Kind == syntax.KindIdentifier:
			names[i] = expr.Name
		case len(subs) > 1:
			names[i] = fmt.Sprintf("value%d", i)
		default:
			names[i] = "value"
		}
	}

	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(seg)
		if i < len(names) {
			sb.WriteString(g.open + names[i] + g.close)
		}
	}
	key := NormalizeKey(sb.String())

	return &Fix{
		Start: n.Start, End: n.End, Key: key, Namespace: ns,
		build: func() string {
			args := make([]string, 0, len(names))
			for i, name := range names {
				args = append(args, name+": "+exprs[i])
			}
			return g.call(key, ns, args)
		},
	}
}

// substitutionExpr returns the expression inside ${ }.
func substitutionExpr(s *syntax.Node) *syntax.Node {
	for _, ch := range s.Children {
		if ch.Kind != syntax.KindComment {
			return ch
		}
	}
	return s
}
