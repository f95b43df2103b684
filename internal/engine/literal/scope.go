package literal

import (
	"litscan/internal/core/errors"
	"litscan/internal/engine/syntax"
)

type frameFunc func(rs *AllowRuleSet, n *syntax.Node) bool

func always(*AllowRuleSet, *syntax.Node) bool { return true }

// frames decides the value pushed for every instrumented kind. Kinds missing
// from the table push nothing.
var frames = map[syntax.Kind]frameFunc{
	syntax.KindImport: always,
	syntax.KindElement: func(rs *AllowRuleSet, n *syntax.Node) bool {
		return rs.ComponentAllowed(n.Name)
	},
	syntax.KindAttribute: func(rs *AllowRuleSet, n *syntax.Node) bool {
		if rs.AttributeAllowed(n.Name) {
			return true
		}
		owner := n.Ancestor(syntax.KindElement)
		return owner != nil && MarkupAttributeAllowed(owner.Name, n.Name)
	},
	syntax.KindModuleDecl:  always,
	syntax.KindLiteralType: always,
	syntax.KindEnumMember:  always,
	syntax.KindClassField: func(rs *AllowRuleSet, n *syntax.Node) bool {
		return rs.ClassFieldAllowed(n.Name)
	},
	syntax.KindProperty: func(rs *AllowRuleSet, n *syntax.Node) bool {
		return rs.PropertyAllowed(n.Name)
	},
	// name === 'Android' is a comparison, 'a' + b builds text.
	syntax.KindBinary: func(_ *AllowRuleSet, n *syntax.Node) bool {
		return n.Name != "+"
	},
	syntax.KindDefaultValue: always,
	syntax.KindCall: func(rs *AllowRuleSet, n *syntax.Node) bool {
		return rs.CalleeAllowed(n.Name)
	},
	syntax.KindCaseTest:       always,
	syntax.KindComputedMember: always,
	syntax.KindNew: func(rs *AllowRuleSet, n *syntax.Node) bool {
		return rs.ConstructorAllowed(n.Name)
	},
}

// ScopeStack tracks exemption along the live ancestor chain. A literal is
// exempt when any frame on the stack is true, however deep.
type ScopeStack struct {
	rules  *AllowRuleSet
	frames []bool
	// exempt counts true frames so IsExempt does not rescan the stack.
	exempt int
}

func NewScopeStack(rules *AllowRuleSet) *ScopeStack {
	return &ScopeStack{rules: rules}
}

// Instrumented reports whether entering a node of kind k pushes a frame.
func Instrumented(k syntax.Kind) bool {
	_, ok := frames[k]
	return ok
}

// Enter pushes the frame for n, if its kind is instrumented.
func (s *ScopeStack) Enter(n *syntax.Node) {
	fn, ok := frames[n.Kind]
	if !ok {
		return
	}
	v := fn(s.rules, n)
	s.frames = append(s.frames, v)
	if v {
		s.exempt++
	}
}

// Exit pops the frame pushed by the matching Enter.
func (s *ScopeStack) Exit(n *syntax.Node) error {
	if _, ok := frames[n.Kind]; !ok {
		return nil
	}
	if len(s.frames) == 0 {
		return errors.AddContext(
			errors.Newf(errors.CodeInternal, "scope stack underflow leaving %s", n.Kind),
			errors.CtxOperation, "scope.exit")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	if top {
		s.exempt--
	}
	return nil
}

func (s *ScopeStack) IsExempt() bool { return s.exempt > 0 }

func (s *ScopeStack) Depth() int { return len(s.frames) }

// Reset empties the stack for reuse on the next file.
func (s *ScopeStack) Reset() {
	s.frames = s.frames[:0]
	s.exempt = 0
}
