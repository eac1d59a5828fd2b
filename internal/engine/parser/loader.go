package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const LanguagePython = "python"

// LanguageSpec describes which files route to a grammar.
type LanguageSpec struct {
	Name       string
	Extensions []string
}

// GrammarLoader owns the tree-sitter grammars the linter can parse.
type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LanguagePython: {Name: LanguagePython, Extensions: []string{".py", ".pyi"}},
	}
}

func NewGrammarLoader(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if registry == nil {
		registry = DefaultLanguageRegistry()
	}

	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry:  make(map[string]LanguageSpec, len(registry)),
	}
	for langID, spec := range registry {
		switch langID {
		case LanguagePython:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_python.Language())
		default:
			return nil, fmt.Errorf("language %q is not supported by the unused-argument rule", langID)
		}
		exts := make([]string, 0, len(spec.Extensions))
		for _, ext := range spec.Extensions {
			exts = append(exts, strings.ToLower(strings.TrimSpace(ext)))
		}
		spec.Extensions = exts
		gl.registry[langID] = spec
	}
	return gl, nil
}

func (gl *GrammarLoader) Language(langID string) *sitter.Language {
	return gl.languages[langID]
}
