package syntax

import (
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func TestParserPool_ConcurrentLeases(t *testing.T) {
	pool := NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sp := pool.Get()
			defer pool.Put(sp)
			tree := sp.Parse([]byte(`const a = "x";`), nil)
			if tree == nil {
				t.Error("parse returned nil tree")
				return
			}
			defer tree.Close()
			if tree.RootNode().Kind() != "program" {
				t.Errorf("root kind = %s", tree.RootNode().Kind())
			}
		}()
	}
	wg.Wait()

	if n := pool.Leased(); n != 0 {
		t.Fatalf("leased = %d after all puts", n)
	}
}
