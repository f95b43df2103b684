package syntax

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"litscan/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangVue        = "vue"

	grammarHTML = "html"
)

type languageSpec struct {
	extensions []string
	markup     Delims
}

var languageSpecs = map[string]languageSpec{
	LangJavaScript: {extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, markup: JSXDelims},
	LangTypeScript: {extensions: []string{".ts", ".mts", ".cts"}, markup: JSXDelims},
	LangTSX:        {extensions: []string{".tsx"}, markup: JSXDelims},
	LangVue:        {extensions: []string{".vue"}, markup: VueDelims},
}

// Parser lowers source files into File trees. It is safe for concurrent use.
type Parser struct {
	pools      map[string]*ParserPool
	extensions map[string]string
}

func NewParser() *Parser {
	p := &Parser{
		pools: map[string]*ParserPool{
			LangJavaScript: NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language())),
			LangTypeScript: NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())),
			LangTSX:        NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())),
			grammarHTML:    NewParserPool(sitter.NewLanguage(tree_sitter_html.Language())),
		},
		extensions: make(map[string]string),
	}
	for lang, spec := range languageSpecs {
		for _, ext := range spec.extensions {
			p.extensions[ext] = lang
		}
	}
	return p
}

// Language returns the language id for path, or "" when unsupported.
func (p *Parser) Language(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.Language(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	out := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Parse lowers content into a File. Syntax errors inside the source do not
// fail the parse; tree-sitter recovers and the recovered tree is used.
func (p *Parser) Parse(path string, content []byte) (*File, error) {
	lang := p.Language(path)
	if lang == "" {
		return nil, errors.AddContext(
			errors.Newf(errors.CodeNotSupported, "unsupported source file %q", filepath.Ext(path)),
			errors.CtxPath, path)
	}

	grammar := lang
	if lang == LangVue {
		grammar = grammarHTML
	}
	root, err := p.parseRange(grammar, content, 0, len(content))
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &File{
		Path:     path,
		Language: lang,
		Source:   content,
		Root:     root,
		Markup:   languageSpecs[lang].markup,
	}, nil
}

// parseRange parses src[start:end] with grammar and lowers it with byte
// offsets relative to the whole of src.
func (p *Parser) parseRange(grammar string, src []byte, start, end int) (*Node, error) {
	pool, ok := p.pools[grammar]
	if !ok {
		return nil, errors.Newf(errors.CodeNotSupported, "no grammar registered for %s", grammar)
	}
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(src[start:end], nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("%s parse failed", grammar))
	}
	defer tree.Close()

	b := &builder{
		src:    src,
		offset: start,
		html:   grammar == grammarHTML,
		embed:  p.parseRange,
	}
	return b.build(tree.RootNode(), "", nil), nil
}
