package literal

import (
	"strings"

	"litscan/internal/engine/syntax"
)

// Route names the shape a flagged literal is rewritten with.
type Route uint8

const (
	RouteGeneric Route = iota
	// RouteAttribute is a bare attribute value: the call needs braces.
	RouteAttribute
	// RouteContainer is a literal directly inside an expression container.
	RouteContainer
	RouteMarkupText
	RouteTemplate
)

func (r Route) String() string {
	switch r {
	case RouteAttribute:
		return "attribute"
	case RouteContainer:
		return "container"
	case RouteMarkupText:
		return "markup_text"
	case RouteTemplate:
		return "template"
	default:
		return "generic"
	}
}

type Verdict uint8

const (
	// Skip means the node is not evaluated at all under the current options.
	Skip Verdict = iota
	Exempt
	Report
)

type Decision struct {
	Verdict Verdict
	Route   Route
}

// keyParents are grammar parents whose name field holds a member key rather
// than a value. Destructuring keys count: `const { "a b": v } = o`.
var keyParents = map[string]string{
	"pair":                      "key",
	"pair_pattern":              "key",
	"property_signature":        "name",
	"method_definition":         "name",
	"method_signature":          "name",
	"abstract_method_signature": "name",
	"public_field_definition":   "name",
	"field_definition":          "property",
	"enum_assignment":           "name",
}

// Classifier combines scope exemption with the text whitelist.
type Classifier struct {
	rules            *AllowRuleSet
	markupOnly       bool
	validateTemplate bool
}

func NewClassifier(rules *AllowRuleSet, opts Options) *Classifier {
	opts = opts.normalized()
	return &Classifier{
		rules:            rules,
		markupOnly:       opts.MarkupOnly,
		validateTemplate: opts.ValidateTemplate,
	}
}

// IsValidText reports whether text may stay untranslated: blank after
// trimming, or whitelisted.
func (c *Classifier) IsValidText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	return c.rules.Whitelisted(trimmed)
}

// Classify decides the fate of one literal node given the live scope.
// Non-literal kinds are skipped.
func (c *Classifier) Classify(n *syntax.Node, src []byte, stack *ScopeStack) Decision {
	switch n.Kind {
	case syntax.KindMarkupText:
		return c.decide(RouteMarkupText, stack, c.IsValidText(n.Value))

	case syntax.KindString:
		if IsDirectKey(n) {
			return Decision{Verdict: Exempt, Route: RouteGeneric}
		}
		switch n.ParentKind() {
		case syntax.KindAttribute:
			return c.decide(RouteAttribute, stack, c.IsValidText(n.Value))
		case syntax.KindExpressionContainer:
			return c.decide(RouteContainer, stack, c.IsValidText(n.Value))
		}
		if c.markupOnly {
			return Decision{Verdict: Skip, Route: RouteGeneric}
		}
		return c.decide(RouteGeneric, stack, c.IsValidText(n.Value))

	case syntax.KindTemplate:
		if !c.validateTemplate || c.markupOnly {
			return Decision{Verdict: Skip, Route: RouteTemplate}
		}
		return c.decide(RouteTemplate, stack, c.templateIsValid(n, src))
	}
	return Decision{Verdict: Skip}
}

func (c *Classifier) decide(route Route, stack *ScopeStack, validText bool) Decision {
	if stack.IsExempt() || validText {
		return Decision{Verdict: Exempt, Route: route}
	}
	return Decision{Verdict: Report, Route: route}
}

// templateIsValid is false as soon as one literal segment needs translation;
// later segments are not looked at.
func (c *Classifier) templateIsValid(n *syntax.Node, src []byte) bool {
	segments, _ := TemplateParts(n, src)
	for _, seg := range segments {
		if !c.IsValidText(seg) {
			return false
		}
	}
	return true
}

// IsDirectKey reports whether a string literal names a member instead of
// holding a value: `{ "a b": 1 }`, `class C { "x" = 1 }`.
func IsDirectKey(n *syntax.Node) bool {
	if n.Parent == nil {
		return false
	}
	field, ok := keyParents[n.Parent.Type]
	return ok && n.Field == field
}

// TemplateParts splits a template literal into its cooked literal segments
// and the substitutions between them. There is always one more segment than
// substitutions.
func TemplateParts(n *syntax.Node, src []byte) ([]string, []*syntax.Node) {
	var subs []*syntax.Node
	for _, ch := range n.Children {
		if ch.Kind == syntax.KindSubstitution {
			subs = append(subs, ch)
		}
	}

	// Skip the backticks.
	pos := n.Start + 1
	end := n.End - 1
	segments := make([]string, 0, len(subs)+1)
	for _, s := range subs {
		segments = append(segments, syntax.Unescape(string(src[pos:s.Start])))
		pos = s.End
	}
	if pos > end {
		pos = end
	}
	segments = append(segments, syntax.Unescape(string(src[pos:end])))
	return segments, subs
}
