package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/core/errors"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	loader, err := NewGrammarLoader(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewParser(loader)
}

func TestParse_Python(t *testing.T) {
	p := newTestParser(t)

	code := "def my_func(a):\n    print(a)\n"
	unit, err := p.Parse("pkg/mod.py", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	defer unit.Close()

	if unit.Language != LanguagePython {
		t.Errorf("expected language python, got %s", unit.Language)
	}
	root := unit.Root()
	if root == nil || root.Kind() != "module" {
		t.Fatalf("expected module root, got %v", root)
	}
	fn := root.NamedChild(0)
	if fn.Kind() != "function_definition" {
		t.Fatalf("expected function_definition, got %s", fn.Kind())
	}
	if got := unit.Text(fn.ChildByFieldName("name")); got != "my_func" {
		t.Errorf("expected name my_func, got %q", got)
	}
	loc := NodeLocation(unit.Path, fn.ChildByFieldName("parameters"))
	if loc.Line != 1 || loc.Column != 11 {
		t.Errorf("expected parameters at 1:11, got %d:%d", loc.Line, loc.Column)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse("broken.py", []byte("def broken(:\n    pass\n"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !errors.IsCode(err, errors.CodeSyntaxError) {
		t.Errorf("expected SYNTAX_ERROR, got %v", err)
	}
}

// syntaxErrorNear parses src and returns the snippet quoted in the error
// message together with the reported line.
func syntaxErrorNear(t *testing.T, p *Parser, src string) (string, any) {
	t.Helper()
	_, err := p.Parse("broken.py", []byte(src))
	de, ok := err.(*errors.DomainError)
	if !ok {
		t.Errorf("expected *DomainError, got %T (%v)", err, err)
		return "", nil
	}
	const prefix = "invalid syntax near "
	if !strings.HasPrefix(de.Message, prefix) {
		t.Errorf("unexpected message %q", de.Message)
		return "", nil
	}
	var near string
	if _, err := fmt.Sscanf(strings.TrimPrefix(de.Message, prefix), "%q", &near); err != nil {
		t.Errorf("message %q does not quote a snippet: %v", de.Message, err)
	}
	return near, de.Context[errors.CtxLine]
}

func TestParse_SyntaxErrorMessage(t *testing.T) {
	p := newTestParser(t)

	near, line := syntaxErrorNear(t, p, "x = 1\ndef f(:\n    pass\n")
	if near == "" || !strings.Contains("def f(:", near) || !strings.Contains(near, ":") {
		t.Errorf("expected a snippet of the broken signature, got %q", near)
	}
	if line != 2 {
		t.Errorf("expected the error on line 2, got %v", line)
	}
}

func TestParse_SyntaxErrorConcurrent(t *testing.T) {
	p := newTestParser(t)
	want, _ := syntaxErrorNear(t, p, "x = 0\ndef f(:\n    pass\n")

	const goroutines = 8
	const iters = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				src := fmt.Sprintf("x = %d\ndef f(:\n    pass\n", g*iters+i)
				if got, _ := syntaxErrorNear(t, p, src); got != want {
					t.Errorf("goroutine %d iteration %d: snippet %q, want %q", g, i, got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse("main.go", []byte("package main\n"))
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Errorf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestParser_SupportedPaths(t *testing.T) {
	p := newTestParser(t)

	for path, want := range map[string]bool{
		"a.py":        true,
		"stubs/b.pyi": true,
		"C.PY":        true,
		"main.go":     false,
		"README":      false,
	} {
		if got := p.IsSupportedPath(path); got != want {
			t.Errorf("IsSupportedPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestNewGrammarLoader_RejectsUnknownLanguage(t *testing.T) {
	_, err := NewGrammarLoader(map[string]LanguageSpec{"cobol": {Name: "cobol"}})
	if err == nil {
		t.Fatal("expected an error for an unsupported language")
	}
}

func TestWalker_PreOrder(t *testing.T) {
	p := newTestParser(t)
	unit, err := p.Parse("w.py", []byte("def a():\n    def b(): pass\ndef c(): pass\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer unit.Close()

	var names []string
	NewWalker(map[string]NodeHandler{
		"function_definition": func(node *sitter.Node) bool {
			names = append(names, unit.Text(node.ChildByFieldName("name")))
			return false
		},
	}).Walk(unit.Root())

	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("expected [a b c], got %v", names)
	}
}

func TestWalker_SkipsAnonymousTokens(t *testing.T) {
	p := newTestParser(t)
	unit, err := p.Parse("w.py", []byte("f = lambda x: x\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer unit.Close()

	var seen int
	NewWalker(map[string]NodeHandler{
		"lambda": func(node *sitter.Node) bool {
			if !node.IsNamed() {
				t.Errorf("handler called for anonymous %q token", node.Kind())
			}
			seen++
			return false
		},
	}).Walk(unit.Root())

	if seen != 1 {
		t.Errorf("expected one lambda node, got %d", seen)
	}
}
