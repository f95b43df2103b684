// Package syntax holds the language-neutral tree the literal rule runs on.
//
// Grammar-specific parse trees are lowered into Node values by the builder in
// this package; everything downstream only sees Kind tags, byte ranges, and a
// handful of pre-extracted names.
package syntax

import "sort"

// Kind tags the syntactic role of a node.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindComment
	// KindImport covers import declarations, dynamic import() and
	// export declarations that carry a source module.
	KindImport
	KindElement
	KindAttribute
	KindExpressionContainer
	KindMarkupText
	KindModuleDecl
	KindLiteralType
	KindEnumMember
	KindClassField
	KindProperty
	KindBinary
	KindDefaultValue
	KindCall
	KindCaseTest
	KindComputedMember
	KindNew
	KindString
	KindTemplate
	KindSubstitution
	KindIdentifier
)

var kindNames = [...]string{
	KindOther:               "other",
	KindProgram:             "program",
	KindComment:             "comment",
	KindImport:              "import",
	KindElement:             "element",
	KindAttribute:           "attribute",
	KindExpressionContainer: "expression_container",
	KindMarkupText:          "markup_text",
	KindModuleDecl:          "module_decl",
	KindLiteralType:         "literal_type",
	KindEnumMember:          "enum_member",
	KindClassField:          "class_field",
	KindProperty:            "property",
	KindBinary:              "binary",
	KindDefaultValue:        "default_value",
	KindCall:                "call",
	KindCaseTest:            "case_test",
	KindComputedMember:      "computed_member",
	KindNew:                 "new",
	KindString:              "string",
	KindTemplate:            "template",
	KindSubstitution:        "substitution",
	KindIdentifier:          "identifier",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one vertex of the lowered tree. Parent is a non-owning back
// reference; the tree is read-only once built.
type Node struct {
	Kind Kind
	// Type is the grammar's own node type, kept for diagnostics.
	Type  string
	Start int
	End   int
	// Field is the grammar field name this node occupies in its parent.
	Field string
	// Name depends on Kind: tag name for elements, attribute name, key name
	// for properties and class fields, operator for binaries, callee source
	// text for calls and constructors, identifier text.
	Name string
	// Value is the cooked value of string literals and the raw text of
	// markup text.
	Value    string
	Parent   *Node
	Children []*Node
}

// Text returns the node's source text.
func (n *Node) Text(src []byte) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start >= n.End {
		return ""
	}
	return string(src[n.Start:n.End])
}

// ChildByField returns the first child occupying field.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, ch := range n.Children {
		if ch.Field == field {
			return ch
		}
	}
	return nil
}

// Ancestor returns the nearest strict ancestor of the given kind.
func (n *Node) Ancestor(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// ParentKind returns the kind of n's parent, or KindOther for the root.
func (n *Node) ParentKind() Kind {
	if n == nil || n.Parent == nil {
		return KindOther
	}
	return n.Parent.Kind
}

// Delims is a pair of expression-container delimiters for markup text.
type Delims struct {
	Open  string
	Close string
}

var (
	JSXDelims = Delims{Open: "{", Close: "}"}
	VueDelims = Delims{Open: "{{ ", Close: " }}"}
)

// File is a parsed source file.
type File struct {
	Path     string
	Language string
	Source   []byte
	Root     *Node
	// Markup is the container syntax used when markup text is rewritten.
	Markup Delims

	lineStarts []int
}

// Position converts a byte offset into a 1-based line and column.
func (f *File) Position(offset int) (line, col int) {
	if f.lineStarts == nil {
		f.lineStarts = []int{0}
		for i, b := range f.Source {
			if b == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	}
	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - f.lineStarts[idx] + 1
}
