package literal

import (
	"strings"
	"testing"

	"litscan/internal/core/errors"
	"litscan/internal/engine/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parser = syntax.NewParser()

func check(t *testing.T, opts Options, path, src string) []Violation {
	t.Helper()
	rule, err := NewRule(opts)
	require.NoError(t, err)
	f, err := parser.Parse(path, []byte(src))
	require.NoError(t, err)
	vs, err := rule.Check(f)
	require.NoError(t, err)
	return vs
}

func texts(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Text)
	}
	return out
}

func TestCheck_PunctuationNeverFlagged(t *testing.T) {
	vs := check(t, DefaultOptions(), "a.js", `const a = "123-456"; const b = "你好";`)
	assert.Equal(t, []string{`"你好"`}, texts(vs))
}

func TestCheck_CalleeTrailingSegment(t *testing.T) {
	vs := check(t, DefaultOptions(), "a.js", `utils.t("foo"); myTFunc("bar"); i18n("baz"); i18next("qux");`)
	assert.Equal(t, []string{`"bar"`}, texts(vs))
}

func TestCheck_ConfiguredCallee(t *testing.T) {
	opts := DefaultOptions()
	opts.IgnoreCallee = []string{"log"}
	vs := check(t, opts, "a.js", `console.log("调试"); catalog("目录");`)
	assert.Equal(t, []string{`"目录"`}, texts(vs))
}

func TestCheck_ScriptExemptions(t *testing.T) {
	src := `import x from "模块";
export * from "模块";
const p = import("模块");
throw new Error("出错了");
new Widget("部件");
if (a === "等于") {}
const s = "拼" + b;
obj["键"];
switch (k) { case "甲": f("乙"); }
function g(p = "默认") {}
`
	vs := check(t, DefaultOptions(), "a.js", src)
	assert.Equal(t, []string{`"部件"`, `"拼"`, `"乙"`}, texts(vs))
}

func TestCheck_ObjectKeys(t *testing.T) {
	src := `const o = { "键": 1, ["计算"]: 2, a: "值", b: "另一个" };`
	vs := check(t, DefaultOptions(), "a.js", src)
	assert.Equal(t, []string{`"计算"`, `"值"`, `"另一个"`}, texts(vs))

	opts := DefaultOptions()
	opts.IgnoreProperty = []string{"a"}
	vs = check(t, opts, "a.js", src)
	assert.Equal(t, []string{`"计算"`, `"另一个"`}, texts(vs))
}

func TestCheck_DestructuringKeys(t *testing.T) {
	src := `const { "键": v, w = "默认", "名": x = "值", ["计算"]: y } = o;`
	vs := check(t, DefaultOptions(), "a.js", src)
	assert.Equal(t, []string{`"计算"`}, texts(vs))

	nested := `const { a: { ["里"]: c } } = o;`
	assert.Len(t, check(t, DefaultOptions(), "a.js", nested), 1)
	opts := DefaultOptions()
	opts.IgnoreProperty = []string{"a"}
	assert.Empty(t, check(t, opts, "a.js", nested))
}

func TestCheck_TypeScriptExemptions(t *testing.T) {
	src := `type T = "甲" | "乙";
enum E { A = "丙" }
interface I { "名字": string }
class C {
  static displayName = "组件";
  label = "标签";
}
declare module "模块" {}
namespace N { export const v = "值"; }
`
	vs := check(t, DefaultOptions(), "a.ts", src)
	assert.Equal(t, []string{`"标签"`}, texts(vs))
}

func TestCheck_JSXAttributes(t *testing.T) {
	src := `const A = () => (
  <div className="盒子" title="标题">
    <input placeholder="请输入" />
    <Foo label="标签" />
    <svg><text aria-label="图"></text></svg>
    <Trans>文本</Trans>
  </div>
);
`
	vs := check(t, DefaultOptions(), "a.jsx", src)
	require.Equal(t, []string{`"请输入"`, `"标签"`}, texts(vs))
	for _, v := range vs {
		assert.Equal(t, RouteAttribute, v.Route)
	}
	assert.Equal(t, "{lang.t('请输入')}", vs[0].Fix.Replacement())
}

func TestCheck_ExpressionContainerLiteral(t *testing.T) {
	vs := check(t, DefaultOptions(), "a.jsx", `const A = () => <Foo label={"标签"}>{"文字"}</Foo>;`)
	require.Len(t, vs, 2)
	for _, v := range vs {
		assert.Equal(t, RouteContainer, v.Route)
	}
	assert.Equal(t, "lang.t('标签')", vs[0].Fix.Replacement())
}

func TestCheck_MarkupText(t *testing.T) {
	src := "const A = () => <div>\n  你好\n</div>;"
	vs := check(t, DefaultOptions(), "a.jsx", src)
	require.Len(t, vs, 1)
	v := vs[0]
	assert.Equal(t, RouteMarkupText, v.Route)
	assert.Equal(t, "你好", v.Text)
	assert.Equal(t, "你好", src[v.Fix.Start:v.Fix.End])
	assert.Equal(t, "{lang.t('你好')}", v.Fix.Replacement())
	assert.Equal(t, 2, v.Line)
	assert.Equal(t, 3, v.Column)
}

func TestCheck_MarkupOnly(t *testing.T) {
	src := `const a = "你好"; const B = () => <p>再见</p>;`
	opts := DefaultOptions()
	opts.MarkupOnly = true
	vs := check(t, opts, "a.jsx", src)
	assert.Equal(t, []string{"再见"}, texts(vs))
}

func TestCheck_OnlyAttribute(t *testing.T) {
	src := `const a = "你好"; const B = () => <Foo title="标题" label="标签" />;`
	opts := DefaultOptions()
	opts.OnlyAttribute = []string{"title"}
	vs := check(t, opts, "a.jsx", src)
	assert.Equal(t, []string{`"标题"`}, texts(vs))
}

func TestCheck_Templates(t *testing.T) {
	opts := DefaultOptions()
	opts.ValidateTemplate = true
	opts.UseCallee = "translate"

	vs := check(t, opts, "a.js", "const s = `Hello ${name}`;")
	require.Len(t, vs, 1)
	assert.Equal(t, RouteTemplate, vs[0].Route)
	assert.Equal(t, "translate('Hello {name}', { name: name })", vs[0].Fix.Replacement())
	assert.Equal(t, "Hello {name}", vs[0].Fix.Key)

	vs = check(t, opts, "a.js", "const s = `共 ${count} 项, ${items.length}`;")
	require.Len(t, vs, 1)
	assert.Equal(t, "translate('共 {count} 项, {value1}', { count: count, value1: items.length })", vs[0].Fix.Replacement())

	vs = check(t, opts, "a.js", "const s = `${a}-${b}`;")
	assert.Empty(t, vs)

	vs = check(t, opts, "a.js", "const s = `你好 ${a} 世界`; t(`里面 ${a}`);")
	assert.Len(t, vs, 1, "one report per template, none inside allowed calls")

	vs = check(t, DefaultOptions(), "a.js", "const s = `Hello ${name}`;")
	assert.Empty(t, vs, "templates are only checked on request")
}

func TestCheck_TemplateCustomTags(t *testing.T) {
	opts := DefaultOptions()
	opts.ValidateTemplate = true
	opts.TemplateTags = [2]string{"{{", "}}"}
	vs := check(t, opts, "a.js", "const s = `Hi ${user.name}!`;")
	require.Len(t, vs, 1)
	assert.Equal(t, "lang.t('Hi {{value}}!', { value: user.name })", vs[0].Fix.Replacement())
}

func TestCheck_Namespace(t *testing.T) {
	src := "/* i18n-ns: orders */\nconst a = \"你好\";"
	vs := check(t, DefaultOptions(), "a.js", src)
	require.Len(t, vs, 1)
	assert.Equal(t, "orders", vs[0].Fix.Namespace)
	assert.Equal(t, "lang.t('你好', { ns: 'orders' })", vs[0].Fix.Replacement())
}

func TestCheck_AutoFixOff(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoFix = false
	vs := check(t, opts, "a.js", `const a = "你好";`)
	require.Len(t, vs, 1)
	assert.Nil(t, vs[0].Fix)
	assert.Equal(t, `disallow literal string: "你好"`, vs[0].Message)
}

func TestCheck_EscapesInReplacement(t *testing.T) {
	vs := check(t, DefaultOptions(), "a.js", `const a = "it's\na \\ test";`)
	require.Len(t, vs, 1)
	assert.Equal(t, "it'sa \\ test", vs[0].Fix.Key)
	assert.Equal(t, `lang.t('it\'sa \\ test')`, vs[0].Fix.Replacement())
}

func TestCheck_Vue(t *testing.T) {
	src := `<template>
  <div>你好</div>
</template>
<script>
export default { data() { return { msg: "消息" } } }
</script>
`
	vs := check(t, DefaultOptions(), "a.vue", src)
	require.Len(t, vs, 2)
	assert.Equal(t, "{{ lang.t('你好') }}", vs[0].Fix.Replacement())
	assert.Equal(t, "lang.t('消息')", vs[1].Fix.Replacement())
}

func TestCheck_VueExpressions(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		texts []string
	}{
		{"mustache literal", `<template><p>{{ '你好' }}</p></template>`, []string{`'你好'`}},
		{"mustache around text", `<template><p>共 {{ n }} 项</p></template>`, []string{"共", "项"}},
		{"mustache callee exempt", `<template><p>{{ lang.t('已翻译') }}</p></template>`, nil},
		{"mustache comparison", `<template><p>{{ s === '完成' ? a : b }}</p></template>`, nil},
		{"component binding", `<template><Foo :title="'标题'"/></template>`, []string{`'标题'`}},
		{"long binding form", `<template><Foo v-bind:label="'标签'"></Foo></template>`, []string{`'标签'`}},
		{"markup binding exempt", `<template><div :title="'标题'"></div></template>`, nil},
		{"markup text binding", `<template><input :placeholder="'请输入'"></template>`, []string{`'请输入'`}},
		{"ignored attribute binding", `<template><Foo :style="'红色'"/></template>`, nil},
		{"event handler", `<template><button @click="alert('点击')">ok</button></template>`, []string{`'点击'`}},
		{"condition", `<template><p v-if="state === '完成'">ok</p></template>`, nil},
		{"static attribute", `<template><Foo title="标题"/></template>`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vs := check(t, DefaultOptions(), "a.vue", tc.src)
			if len(tc.texts) == 0 {
				assert.Empty(t, vs)
				return
			}
			assert.Equal(t, tc.texts, texts(vs))
			for _, v := range vs {
				assert.True(t, strings.Contains(tc.src[v.Start:v.End], v.Text), "offsets point at %q", v.Text)
			}
		})
	}
}

func TestCheck_VueExpressionFix(t *testing.T) {
	src := `<template>
  <Foo :title="'标题'">{{ '你好' }}</Foo>
</template>`
	vs := check(t, DefaultOptions(), "a.vue", src)
	require.Len(t, vs, 2)
	assert.Equal(t, 2, vs[0].Line)
	assert.Equal(t, 16, vs[0].Column)

	edits := make([]string, 0, len(vs))
	out := src
	for i := len(vs) - 1; i >= 0; i-- {
		v := vs[i]
		edits = append(edits, v.Fix.Replacement())
		out = out[:v.Fix.Start] + v.Fix.Replacement() + out[v.Fix.End:]
	}
	assert.Equal(t, []string{"lang.t('你好')", "lang.t('标题')"}, edits)
	assert.Contains(t, out, `<Foo :title="lang.t('标题')">{{ lang.t('你好') }}</Foo>`)
}

func TestCheck_Idempotent(t *testing.T) {
	src := `const A = () => <div title="x" placeholder="请输入">你好 {"世界"}</div>; const b = "再见";`
	rule, err := NewRule(DefaultOptions())
	require.NoError(t, err)
	f, err := parser.Parse("a.jsx", []byte(src))
	require.NoError(t, err)

	first, err := rule.Check(f)
	require.NoError(t, err)
	second, err := rule.Check(f)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Start, second[i].Start)
		assert.Equal(t, first[i].End, second[i].End)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Fix.Replacement(), second[i].Fix.Replacement())
	}
}

func TestCheck_RefusesDataFormats(t *testing.T) {
	rule, err := NewRule(DefaultOptions())
	require.NoError(t, err)
	_, err = rule.Check(&syntax.File{Path: "locales/en.json", Root: &syntax.Node{}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestNewRule_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Ignore = []string{"("}
	_, err := NewRule(opts)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}
