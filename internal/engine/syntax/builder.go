package syntax

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// builder lowers one tree-sitter tree. Only named grammar nodes are kept;
// anonymous tokens survive as Name values (operators) or not at all.
type builder struct {
	src    []byte
	offset int
	html   bool
	embed  func(grammar string, src []byte, start, end int) (*Node, error)
}

// wrappedFields lists grammar parents whose field child is lowered behind a
// synthetic node, so the exemption covers the child and not its siblings.
var wrappedFields = map[string]struct {
	field string
	kind  Kind
}{
	"switch_case":        {field: "value", kind: KindCaseTest},
	"required_parameter": {field: "value", kind: KindDefaultValue},
	"optional_parameter": {field: "value", kind: KindDefaultValue},
}

func (b *builder) build(tn *sitter.Node, field string, parent *Node) *Node {
	n := &Node{
		Type:   tn.Kind(),
		Start:  int(tn.StartByte()) + b.offset,
		End:    int(tn.EndByte()) + b.offset,
		Field:  field,
		Parent: parent,
	}
	if b.html {
		if !b.lowerHTML(tn, n) {
			return n
		}
	} else {
		b.lowerScript(tn, n)
	}
	b.buildChildren(tn, n)
	return n
}

func (b *builder) buildChildren(tn *sitter.Node, n *Node) {
	wrap, hasWrap := wrappedFields[tn.Kind()]
	count := tn.ChildCount()
	for i := uint(0); i < count; i++ {
		ch := tn.Child(i)
		if ch == nil || !ch.IsNamed() {
			continue
		}
		field := tn.FieldNameForChild(uint32(i))

		if b.html && ch.Kind() == "text" {
			n.Children = append(n.Children, b.splitMustache(ch, n)...)
			continue
		}

		if hasWrap && field == wrap.field {
			w := &Node{
				Kind:   wrap.kind,
				Type:   wrap.kind.String(),
				Start:  int(ch.StartByte()) + b.offset,
				End:    int(ch.EndByte()) + b.offset,
				Field:  field,
				Parent: n,
			}
			w.Children = []*Node{b.build(ch, field, w)}
			n.Children = append(n.Children, w)
			continue
		}

		n.Children = append(n.Children, b.build(ch, field, n))
	}
}

func (b *builder) lowerScript(tn *sitter.Node, n *Node) {
	switch tn.Kind() {
	case "program":
		n.Kind = KindProgram
	case "comment", "html_comment":
		n.Kind = KindComment
	case "import_statement":
		n.Kind = KindImport
	case "export_statement":
		if tn.ChildByFieldName("source") != nil {
			n.Kind = KindImport
		}
	case "call_expression":
		fn := tn.ChildByFieldName("function")
		if fn != nil && fn.Kind() == "import" {
			n.Kind = KindImport
			return
		}
		n.Kind = KindCall
		n.Name = b.text(fn)
	case "new_expression":
		n.Kind = KindNew
		n.Name = b.text(tn.ChildByFieldName("constructor"))
	case "jsx_element":
		n.Kind = KindElement
		if open := tn.ChildByFieldName("open_tag"); open != nil {
			n.Name = b.text(open.ChildByFieldName("name"))
		}
	case "jsx_self_closing_element":
		n.Kind = KindElement
		n.Name = b.text(tn.ChildByFieldName("name"))
	case "jsx_attribute":
		n.Kind = KindAttribute
		if tn.NamedChildCount() > 0 {
			n.Name = b.text(tn.NamedChild(0))
		}
	case "jsx_expression":
		n.Kind = KindExpressionContainer
	case "jsx_text":
		n.Kind = KindMarkupText
		n.Value = b.text(tn)
	case "internal_module", "module":
		n.Kind = KindModuleDecl
	case "literal_type":
		n.Kind = KindLiteralType
	case "enum_body":
		// Every member, initializers included.
		n.Kind = KindEnumMember
	case "field_definition":
		n.Kind = KindClassField
		n.Name = b.keyName(tn.ChildByFieldName("property"))
	case "public_field_definition":
		n.Kind = KindClassField
		n.Name = b.keyName(tn.ChildByFieldName("name"))
	case "pair", "pair_pattern":
		n.Kind = KindProperty
		n.Name = b.keyName(tn.ChildByFieldName("key"))
	case "binary_expression":
		n.Kind = KindBinary
		if op := tn.ChildByFieldName("operator"); op != nil {
			n.Name = op.Kind()
		}
	case "assignment_pattern", "object_assignment_pattern":
		n.Kind = KindDefaultValue
	case "subscript_expression":
		n.Kind = KindComputedMember
	case "string":
		n.Kind = KindString
		n.Value = b.cookString(tn)
	case "template_string":
		n.Kind = KindTemplate
	case "template_substitution":
		n.Kind = KindSubstitution
	case "identifier":
		n.Kind = KindIdentifier
		n.Name = b.text(tn)
	}
}

// lowerHTML handles Vue single-file components. It reports whether the
// node's children should be lowered generically.
func (b *builder) lowerHTML(tn *sitter.Node, n *Node) bool {
	switch tn.Kind() {
	case "document", "fragment":
		n.Kind = KindProgram
	case "comment":
		n.Kind = KindComment
	case "element":
		n.Kind = KindElement
		n.Name = b.htmlTagName(tn)
	case "script_element":
		b.lowerVueScript(tn, n)
		return false
	case "attribute":
		b.lowerVueAttribute(tn, n)
		return false
	case "style_element", "end_tag":
		return false
	}
	return true
}

// vueDirective reports whether an attribute value is a script expression and,
// for bindings, the name of the bound attribute.
func vueDirective(name string) (bound string, expr bool) {
	switch {
	case strings.HasPrefix(name, ":"):
		bound = name[1:]
	case strings.HasPrefix(name, "v-bind:"):
		bound = strings.TrimPrefix(name, "v-bind:")
	case strings.HasPrefix(name, "@"), strings.HasPrefix(name, "v-on:"):
		return "", true
	default:
		switch name {
		case "v-if", "v-else-if", "v-show", "v-html", "v-text":
			return "", true
		}
		return "", false
	}
	// :title.sync binds title.
	bound, _, _ = strings.Cut(bound, ".")
	return bound, true
}

// lowerVueAttribute lowers the expression of a directive attribute. Bindings
// become attributes so the attribute exemptions apply to them; plain
// attributes stay opaque.
func (b *builder) lowerVueAttribute(tn *sitter.Node, n *Node) {
	var name string
	var value *sitter.Node
	for i := uint(0); i < tn.NamedChildCount(); i++ {
		ch := tn.NamedChild(i)
		switch ch.Kind() {
		case "attribute_name":
			name = b.text(ch)
		case "attribute_value":
			value = ch
		case "quoted_attribute_value":
			if ch.NamedChildCount() > 0 {
				value = ch.NamedChild(0)
			}
		}
	}
	bound, isExpr := vueDirective(name)
	if !isExpr || value == nil {
		return
	}
	if bound != "" {
		n.Kind = KindAttribute
		n.Name = bound
	}
	start := int(value.StartByte()) + b.offset
	end := int(value.EndByte()) + b.offset
	if expr := b.embedExpression(n, start, end); expr != nil {
		n.Children = append(n.Children, expr)
	}
}

// embedExpression parses src[start:end] as a script expression. It returns
// nil for blank ranges or when no embedder is set.
func (b *builder) embedExpression(parent *Node, start, end int) *Node {
	if b.embed == nil || start >= end || strings.TrimSpace(string(b.src[start:end])) == "" {
		return nil
	}
	program, err := b.embed(LangJavaScript, b.src, start, end)
	if err != nil || program == nil {
		return nil
	}
	program.Parent = parent
	return program
}

func (b *builder) lowerVueScript(tn *sitter.Node, n *Node) {
	var raw *sitter.Node
	lang := ""
	for i := uint(0); i < tn.NamedChildCount(); i++ {
		ch := tn.NamedChild(i)
		switch ch.Kind() {
		case "raw_text":
			raw = ch
		case "start_tag":
			lang = b.htmlAttr(ch, "lang")
		}
	}
	if raw == nil || b.embed == nil {
		return
	}

	grammar := LangJavaScript
	switch strings.ToLower(lang) {
	case "ts":
		grammar = LangTypeScript
	case "tsx":
		grammar = LangTSX
	}
	start := int(raw.StartByte()) + b.offset
	end := int(raw.EndByte()) + b.offset
	program, err := b.embed(grammar, b.src, start, end)
	if err != nil || program == nil {
		return
	}
	program.Parent = n
	n.Children = append(n.Children, program)
}

func (b *builder) htmlTagName(tn *sitter.Node) string {
	for i := uint(0); i < tn.NamedChildCount(); i++ {
		ch := tn.NamedChild(i)
		if ch.Kind() != "start_tag" && ch.Kind() != "self_closing_tag" {
			continue
		}
		for j := uint(0); j < ch.NamedChildCount(); j++ {
			if name := ch.NamedChild(j); name.Kind() == "tag_name" {
				return b.text(name)
			}
		}
	}
	return ""
}

func (b *builder) htmlAttr(tag *sitter.Node, name string) string {
	for i := uint(0); i < tag.NamedChildCount(); i++ {
		attr := tag.NamedChild(i)
		if attr.Kind() != "attribute" {
			continue
		}
		var key, value string
		for j := uint(0); j < attr.NamedChildCount(); j++ {
			part := attr.NamedChild(j)
			switch part.Kind() {
			case "attribute_name":
				key = b.text(part)
			case "attribute_value":
				value = b.text(part)
			case "quoted_attribute_value":
				value = strings.Trim(b.text(part), `"'`)
			}
		}
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// splitMustache lowers an HTML text node into markup-text pieces. The body of
// each `{{ ... }}` interpolation is lowered as a script expression in place.
func (b *builder) splitMustache(tn *sitter.Node, parent *Node) []*Node {
	start := int(tn.StartByte()) + b.offset
	end := int(tn.EndByte()) + b.offset
	text := string(b.src[start:end])

	var out []*Node
	emit := func(from, to int) {
		if from >= to {
			return
		}
		out = append(out, &Node{
			Kind:   KindMarkupText,
			Type:   "text",
			Start:  start + from,
			End:    start + to,
			Value:  text[from:to],
			Parent: parent,
		})
	}

	pos := 0
	for {
		open := strings.Index(text[pos:], "{{")
		if open < 0 {
			break
		}
		open += pos
		closing := strings.Index(text[open+2:], "}}")
		if closing < 0 {
			break
		}
		emit(pos, open)
		body := open + 2
		if expr := b.embedExpression(parent, start+body, start+body+closing); expr != nil {
			out = append(out, expr)
		}
		pos = body + closing + 2
	}
	emit(pos, len(text))
	return out
}

func (b *builder) text(tn *sitter.Node) string {
	if tn == nil {
		return ""
	}
	start := int(tn.StartByte()) + b.offset
	end := int(tn.EndByte()) + b.offset
	if start < 0 || end > len(b.src) || start >= end {
		return ""
	}
	return string(b.src[start:end])
}

func (b *builder) keyName(tn *sitter.Node) string {
	if tn == nil {
		return ""
	}
	switch tn.Kind() {
	case "property_identifier", "identifier", "private_property_identifier":
		return b.text(tn)
	case "string":
		return b.cookString(tn)
	}
	return ""
}

// cookString returns the runtime value of a string literal. JSX attribute
// strings carry no escapes and are returned raw.
func (b *builder) cookString(tn *sitter.Node) string {
	raw := b.text(tn)
	if len(raw) < 2 {
		return ""
	}
	raw = raw[1 : len(raw)-1]
	if p := tn.Parent(); p != nil && p.Kind() == "jsx_attribute" {
		return raw
	}
	return Unescape(raw)
}
