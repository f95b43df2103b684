package literal

import (
	"path/filepath"
	"strings"

	"litscan/internal/core/errors"
	"litscan/internal/engine/syntax"
)

const Message = "disallow literal string"

// dataFormats are extensions the rule refuses outright: they hold data, not
// code, so every string in them would be a false positive.
var dataFormats = map[string]bool{
	".json": true, ".json5": true, ".jsonc": true,
	".yaml": true, ".yml": true, ".toml": true,
	".csv": true, ".xml": true, ".ini": true, ".properties": true,
}

// Violation is one flagged literal. Fix is nil when autofix is off.
type Violation struct {
	Path    string
	Start   int
	End     int
	Line    int
	Column  int
	Text    string
	Message string
	Route   Route
	Fix     *Fix
}

// Rule is a compiled configuration. It holds no per-file state and is safe
// for concurrent Check calls.
type Rule struct {
	opts       Options
	rules      *AllowRuleSet
	classifier *Classifier
	fixes      FixGenerator
}

func NewRule(opts Options) (*Rule, error) {
	opts = opts.normalized()
	if opts.TemplateTags[0] == "" || opts.TemplateTags[1] == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "template tags need both an opening and a closing delimiter"),
			errors.CtxOption, "templateTags")
	}
	rules, err := NewAllowRuleSet(opts)
	if err != nil {
		return nil, err
	}
	return &Rule{
		opts:       opts,
		rules:      rules,
		classifier: NewClassifier(rules, opts),
		fixes:      NewFixGenerator(opts),
	}, nil
}

func (r *Rule) Options() Options { return r.opts }

// CheckPath refuses data-format files before any parsing happens.
func CheckPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if dataFormats[ext] {
		return errors.AddContext(
			errors.Newf(errors.CodeNotSupported, "refusing to lint %s data file", ext),
			errors.CtxPath, path)
	}
	return nil
}

// Check walks f once and returns its violations in source order.
func (r *Rule) Check(f *syntax.File) ([]Violation, error) {
	if err := CheckPath(f.Path); err != nil {
		return nil, err
	}
	c := &checker{
		rule:      r,
		file:      f,
		stack:     NewScopeStack(r.rules),
		namespace: ResolveNamespace(f),
	}
	if err := syntax.Walk(f.Root, c); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, f.Path)
	}
	return c.violations, nil
}

// checker is the per-file visitor.
type checker struct {
	rule       *Rule
	file       *syntax.File
	stack      *ScopeStack
	namespace  string
	violations []Violation
}

func (c *checker) Enter(n *syntax.Node) error {
	c.stack.Enter(n)

	switch n.Kind {
	case syntax.KindString, syntax.KindTemplate, syntax.KindMarkupText:
	default:
		return nil
	}
	d := c.rule.classifier.Classify(n, c.file.Source, c.stack)
	if d.Verdict != Report {
		return nil
	}
	c.report(n, d.Route)
	return nil
}

func (c *checker) Exit(n *syntax.Node) error {
	return c.stack.Exit(n)
}

func (c *checker) report(n *syntax.Node, route Route) {
	v := Violation{
		Path:  c.file.Path,
		Start: n.Start,
		End:   n.End,
		Route: route,
	}
	if route == RouteMarkupText {
		v.Text = strings.TrimSpace(n.Value)
		v.Start = n.Start + strings.Index(n.Value, v.Text)
		v.End = v.Start + len(v.Text)
	} else {
		v.Text = n.Text(c.file.Source)
	}
	v.Line, v.Column = c.file.Position(v.Start)
	v.Message = Message + ": " + v.Text

	if c.rule.opts.AutoFix {
		v.Fix = c.fix(n, route)
	}
	c.violations = append(c.violations, v)
}

func (c *checker) fix(n *syntax.Node, route Route) *Fix {
	g := c.rule.fixes
	switch route {
	case RouteAttribute:
		return g.Attribute(n, c.namespace)
	case RouteMarkupText:
		return g.MarkupText(n, c.file.Markup, c.namespace)
	case RouteTemplate:
		return g.Template(n, c.file.Source, c.namespace)
	default:
		return g.Generic(n, c.namespace)
	}
}
