package literal

import (
	"fmt"
	"regexp"
	"strings"

	"litscan/internal/core/errors"
)

// AllowRule matches text either exactly or by regular expression.
type AllowRule struct {
	literal string
	pattern *regexp.Regexp
}

func LiteralRule(s string) AllowRule { return AllowRule{literal: s} }

func PatternRule(re *regexp.Regexp) AllowRule { return AllowRule{pattern: re} }

func (r AllowRule) Matches(text string) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(text)
	}
	return r.literal == text
}

func (r AllowRule) String() string {
	if r.pattern != nil {
		return "/" + r.pattern.String() + "/"
	}
	return fmt.Sprintf("%q", r.literal)
}

type ruleList []AllowRule

func (l ruleList) match(text string) bool {
	for _, r := range l {
		if r.Matches(text) {
			return true
		}
	}
	return false
}

func literals(names ...[]string) ruleList {
	var out ruleList
	for _, list := range names {
		for _, n := range list {
			out = append(out, LiteralRule(n))
		}
	}
	return out
}

// defaultWhitelist matches text made only of ASCII digits and punctuation.
const defaultWhitelist = "^[0-9!-/:-@\\[-`{-~]+$"

var (
	builtinCalleePatterns = []*regexp.Regexp{regexp.MustCompile(`^i18n(ext)?$`)}
	builtinCallees        = []string{
		"t",
		"require",
		"addEventListener",
		"removeEventListener",
		"postMessage",
		"getElementById",
		// vuex
		"dispatch",
		"commit",
		"includes",
		"indexOf",
		"endsWith",
		"startsWith",
	}
	builtinAttributes  = []string{"className", "styleName", "style", "type", "key", "id", "width", "height"}
	builtinComponents  = []string{"Trans"}
	builtinClassFields = []string{"displayName"}
	// Plain markup attributes that always carry readable text.
	textAttributes = map[string]bool{"placeholder": true, "alt": true, "aria-label": true, "value": true}
)

// AllowRuleSet is the compiled, immutable form of the exemption options.
type AllowRuleSet struct {
	callees       ruleList
	attributes    ruleList
	onlyAttribute ruleList
	components    ruleList
	constructors  ruleList
	properties    ruleList
	classFields   ruleList
	whitelist     ruleList
}

// NewAllowRuleSet compiles opts once. A pattern that does not compile is a
// validation error naming the offending option.
func NewAllowRuleSet(opts Options) (*AllowRuleSet, error) {
	opts = opts.normalized()
	rs := &AllowRuleSet{
		attributes:    literals(builtinAttributes, opts.IgnoreAttribute),
		onlyAttribute: literals(opts.OnlyAttribute),
		components:    literals(builtinComponents, opts.IgnoreComponent),
		constructors:  literals(opts.IgnoreConstructors),
		properties:    literals(opts.IgnoreProperty),
		classFields:   literals(builtinClassFields),
	}

	for _, re := range builtinCalleePatterns {
		rs.callees = append(rs.callees, PatternRule(re))
	}
	for _, src := range append(append([]string{}, builtinCallees...), opts.IgnoreCallee...) {
		re, err := compile("ignoreCallee", calleeSource(src))
		if err != nil {
			return nil, err
		}
		rs.callees = append(rs.callees, PatternRule(re))
	}

	for _, src := range append([]string{defaultWhitelist}, opts.Ignore...) {
		re, err := compile("ignore", src)
		if err != nil {
			return nil, err
		}
		rs.whitelist = append(rs.whitelist, PatternRule(re))
	}
	return rs, nil
}

// calleeSource anchors a callee pattern to the trailing member segment, so
// "t" matches "t" and "utils.t" but not "myTFunc".
func calleeSource(src string) string {
	if strings.HasSuffix(src, "$") {
		return `(^|\.)` + src
	}
	return `(^|\.)` + src + `$`
}

func compile(option, src string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid pattern %q", src)),
			errors.CtxOption, option)
	}
	return re, nil
}

// CalleeAllowed reports whether calls through the callee source text are
// exempt.
func (s *AllowRuleSet) CalleeAllowed(callee string) bool { return s.callees.match(callee) }

// AttributeAllowed applies the attribute list. With an onlyAttribute
// restriction the list inverts: everything outside it is allowed.
func (s *AllowRuleSet) AttributeAllowed(name string) bool {
	if len(s.onlyAttribute) > 0 {
		return !s.onlyAttribute.match(name)
	}
	return s.attributes.match(name)
}

func (s *AllowRuleSet) ComponentAllowed(tag string) bool { return s.components.match(tag) }
func (s *AllowRuleSet) ConstructorAllowed(name string) bool { return s.constructors.match(name) }
func (s *AllowRuleSet) PropertyAllowed(name string) bool { return s.properties.match(name) }
func (s *AllowRuleSet) ClassFieldAllowed(name string) bool { return s.classFields.match(name) }
func (s *AllowRuleSet) Whitelisted(trimmed string) bool { return s.whitelist.match(trimmed) }

// MarkupAttributeAllowed covers attributes on plain markup and vector
// graphics tags. SVG attributes are never text; HTML attributes are exempt
// unless they hold readable content.
func MarkupAttributeAllowed(tag, attr string) bool {
	if svgTags[tag] {
		return true
	}
	if htmlTags[tag] {
		return !textAttributes[attr]
	}
	return false
}
