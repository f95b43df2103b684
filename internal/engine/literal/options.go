// Package literal finds user-facing string literals that should go through a
// translate function, and builds the source rewrites that route them there.
package literal

import "strings"

const (
	DefaultCallee = "lang.t"
	DefaultOpen   = "{"
	DefaultClose  = "}"
)

// Options configure one Rule. The zero value is usable but reports without
// fixes; DefaultOptions turns autofix on.
type Options struct {
	// Ignore holds whitelist patterns matched against trimmed literal text.
	Ignore             []string
	IgnoreAttribute    []string
	IgnoreCallee       []string
	IgnoreProperty     []string
	IgnoreComponent    []string
	IgnoreConstructors []string
	// OnlyAttribute restricts attribute checks to the listed names and
	// implies MarkupOnly.
	OnlyAttribute    []string
	MarkupOnly       bool
	ValidateTemplate bool
	TemplateTags     [2]string
	UseCallee        string
	AutoFix          bool
}

func DefaultOptions() Options {
	return Options{
		IgnoreConstructors: []string{"Error"},
		TemplateTags:       [2]string{DefaultOpen, DefaultClose},
		UseCallee:          DefaultCallee,
		AutoFix:            true,
	}
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.UseCallee) == "" {
		o.UseCallee = DefaultCallee
	}
	o.UseCallee = strings.TrimSpace(o.UseCallee)
	if o.TemplateTags[0] == "" && o.TemplateTags[1] == "" {
		o.TemplateTags = [2]string{DefaultOpen, DefaultClose}
	}
	if o.IgnoreConstructors == nil {
		o.IgnoreConstructors = []string{"Error"}
	}
	if len(o.OnlyAttribute) > 0 {
		o.MarkupOnly = true
	}
	return o
}
