package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"unusedargs/internal/core/errors"
	"unusedargs/internal/shared/observability"
)

// Parser turns source files into syntax trees using pooled tree-sitter parsers.
type Parser struct {
	loader     *GrammarLoader
	pools      map[string]*ParserPool
	extensions map[string]string
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		pools:      make(map[string]*ParserPool),
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.registry {
		p.pools[lang] = NewParserPool(lang, loader.Language(lang))
		for _, ext := range spec.Extensions {
			p.extensions[ext] = lang
		}
	}
	return p
}

// Parse parses content as the language detected from path. A tree with
// syntax errors is released and reported as SYNTAX_ERROR; the rule only ever
// sees well-formed trees.
func (p *Parser) Parse(path string, content []byte) (*Unit, error) {
	lang := p.GetLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported language"), errors.CtxPath, path)
	}
	pool := p.pools[lang]

	start := time.Now()
	sp := pool.Get()
	tree := sp.Parse(content, nil)
	pool.Put(sp)
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())

	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}

	unit := &Unit{
		Path:     path,
		Language: lang,
		Source:   content,
		Tree:     tree,
		ParsedAt: time.Now(),
	}
	if bad := FirstError(unit.Root()); bad != nil {
		// Nodes borrow the tree's memory; read them before Close.
		loc := NodeLocation(path, bad)
		near := snippet(content, bad.StartByte(), bad.EndByte())
		unit.Close()
		de := &errors.DomainError{
			Code:    errors.CodeSyntaxError,
			Message: fmt.Sprintf("invalid syntax near %q", near),
		}
		de.WithContext(errors.CtxPath, path).
			WithContext(errors.CtxLine, loc.Line).
			WithContext(errors.CtxColumn, loc.Column)
		return nil, de
	}
	return unit, nil
}

func (p *Parser) GetLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.GetLanguage(path) != ""
}

func snippet(content []byte, start, end uint) string {
	const maxLen = 24
	if start > uint(len(content)) {
		return ""
	}
	if end > uint(len(content)) {
		end = uint(len(content))
	}
	if end-start > maxLen {
		end = start + maxLen
	}
	text := strings.TrimSpace(string(content[start:end]))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}
