package syntax

import (
	"testing"

	"litscan/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect returns the nodes of kind under root in pre-order.
func collect(root *Node, kind Kind) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	if root.Kind == kind {
		out = append(out, root)
	}
	for _, ch := range root.Children {
		out = append(out, collect(ch, kind)...)
	}
	return out
}

func TestParse_UnsupportedExtension(t *testing.T) {
	p := NewParser()
	_, err := p.Parse("messages.json", []byte(`{"a": "b"}`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestParse_LanguageByExtension(t *testing.T) {
	p := NewParser()
	cases := map[string]string{
		"a.js":  LangJavaScript,
		"a.JSX": LangJavaScript,
		"a.mjs": LangJavaScript,
		"a.ts":  LangTypeScript,
		"a.tsx": LangTSX,
		"a.vue": LangVue,
		"a.css": "",
	}
	for path, want := range cases {
		assert.Equal(t, want, p.Language(path), path)
	}
	assert.Contains(t, p.SupportedExtensions(), ".tsx")
}

func TestParse_JSXShapes(t *testing.T) {
	p := NewParser()
	src := `import React from 'react';
export const A = () => <div className="box">Hello <b title="t">x</b></div>;
`
	f, err := p.Parse("a.jsx", []byte(src))
	require.NoError(t, err)
	require.Equal(t, KindProgram, f.Root.Kind)

	imports := collect(f.Root, KindImport)
	require.Len(t, imports, 1)

	elems := collect(f.Root, KindElement)
	require.Len(t, elems, 2)
	assert.Equal(t, "div", elems[0].Name)
	assert.Equal(t, "b", elems[1].Name)

	attrs := collect(f.Root, KindAttribute)
	require.Len(t, attrs, 2)
	assert.Equal(t, "className", attrs[0].Name)
	strs := collect(attrs[0], KindString)
	require.Len(t, strs, 1)
	assert.Equal(t, "box", strs[0].Value)
	assert.Equal(t, KindAttribute, strs[0].ParentKind())

	texts := collect(f.Root, KindMarkupText)
	require.NotEmpty(t, texts)
	assert.Equal(t, "Hello ", texts[0].Value)
	assert.Equal(t, "Hello ", texts[0].Text(f.Source))
}

func TestParse_CallsAndMembers(t *testing.T) {
	p := NewParser()
	src := `utils.t("a"); new Error("b"); obj["c"]; if (x === "d") {}`
	f, err := p.Parse("a.js", []byte(src))
	require.NoError(t, err)

	calls := collect(f.Root, KindCall)
	require.Len(t, calls, 1)
	assert.Equal(t, "utils.t", calls[0].Name)

	news := collect(f.Root, KindNew)
	require.Len(t, news, 1)
	assert.Equal(t, "Error", news[0].Name)

	require.Len(t, collect(f.Root, KindComputedMember), 1)

	bins := collect(f.Root, KindBinary)
	require.Len(t, bins, 1)
	assert.Equal(t, "===", bins[0].Name)
}

func TestParse_WrappedCaseAndDefaults(t *testing.T) {
	p := NewParser()
	src := `switch (a) { case "x": f("y"); }
function g(p = "d") {}
`
	f, err := p.Parse("a.js", []byte(src))
	require.NoError(t, err)

	cases := collect(f.Root, KindCaseTest)
	require.Len(t, cases, 1)
	inCase := collect(cases[0], KindString)
	require.Len(t, inCase, 1)
	assert.Equal(t, "x", inCase[0].Value)

	defaults := collect(f.Root, KindDefaultValue)
	require.Len(t, defaults, 1)
}

func TestParse_TypeScriptConstructs(t *testing.T) {
	p := NewParser()
	src := `type T = "a" | "b";
enum E { A = "x" }
class C { label = "y"; }
declare module "m" {}
`
	f, err := p.Parse("a.ts", []byte(src))
	require.NoError(t, err)

	assert.Len(t, collect(f.Root, KindLiteralType), 2)
	assert.Len(t, collect(f.Root, KindEnumMember), 1)
	fields := collect(f.Root, KindClassField)
	require.Len(t, fields, 1)
	assert.Equal(t, "label", fields[0].Name)
	assert.Len(t, collect(f.Root, KindModuleDecl), 1)
}

func TestParse_StringCooking(t *testing.T) {
	p := NewParser()
	src := `const a = "line\nnext 你\x41";`
	f, err := p.Parse("a.js", []byte(src))
	require.NoError(t, err)

	strs := collect(f.Root, KindString)
	require.Len(t, strs, 1)
	assert.Equal(t, "line\nnext 你A", strs[0].Value)
}

func TestParse_TemplateSubstitutions(t *testing.T) {
	p := NewParser()
	src := "const s = `hi ${name}!`;"
	f, err := p.Parse("a.js", []byte(src))
	require.NoError(t, err)

	tpls := collect(f.Root, KindTemplate)
	require.Len(t, tpls, 1)
	subs := collect(tpls[0], KindSubstitution)
	require.Len(t, subs, 1)
	assert.Equal(t, "${name}", subs[0].Text(f.Source))
}

func TestParse_VueTemplateAndScript(t *testing.T) {
	p := NewParser()
	src := `<template>
  <div>你好 {{ count }} 世界</div>
</template>
<script lang="ts">
export default { name: "Hello" }
</script>
<style>.a { color: red; }</style>
`
	f, err := p.Parse("a.vue", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, VueDelims, f.Markup)

	var values []string
	for _, n := range collect(f.Root, KindMarkupText) {
		values = append(values, n.Value)
		assert.Equal(t, n.Value, n.Text(f.Source))
	}
	assert.Contains(t, values, "你好 ")
	assert.Contains(t, values, " 世界")

	programs := collect(f.Root, KindProgram)
	require.Len(t, programs, 3, "document, interpolation and script")

	idents := collect(programs[1], KindIdentifier)
	require.Len(t, idents, 1)
	assert.Equal(t, "count", idents[0].Name)
	assert.Equal(t, "count", idents[0].Text(f.Source))

	strs := collect(programs[2], KindString)
	require.Len(t, strs, 1)
	assert.Equal(t, "Hello", strs[0].Value)
	assert.Equal(t, `"Hello"`, strs[0].Text(f.Source))
}

func TestParse_VueDirectives(t *testing.T) {
	p := NewParser()
	src := `<template><Foo :title="'标题'" v-bind:label.sync="x" @click="go('走')" v-if="ok" class="plain"/></template>`
	f, err := p.Parse("a.vue", []byte(src))
	require.NoError(t, err)

	attrs := collect(f.Root, KindAttribute)
	require.Len(t, attrs, 2, "only bindings are attributes")
	assert.Equal(t, "title", attrs[0].Name)
	assert.Equal(t, "label", attrs[1].Name)
	assert.Equal(t, "Foo", attrs[0].Ancestor(KindElement).Name)

	strs := collect(f.Root, KindString)
	require.Len(t, strs, 2)
	assert.Equal(t, "标题", strs[0].Value)
	assert.Equal(t, `'标题'`, strs[0].Text(f.Source))
	assert.Equal(t, `'走'`, strs[1].Text(f.Source))

	calls := collect(f.Root, KindCall)
	require.Len(t, calls, 1)
	assert.Equal(t, "go", calls[0].Name)
	assert.Len(t, collect(f.Root, KindProgram), 5, "document plus one per expression")
}

func TestFile_Position(t *testing.T) {
	f := &File{Source: []byte("ab\ncd\n\nef")}
	line, col := f.Position(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
	line, col = f.Position(4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	line, col = f.Position(7)
	assert.Equal(t, 4, line)
	assert.Equal(t, 1, col)
}
