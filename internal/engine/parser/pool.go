package parser

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/shared/observability"
)

// ParserPool hands out tree-sitter parsers bound to one grammar so that
// concurrent lint workers do not allocate a parser per file. It is safe for
// concurrent use.
type ParserPool struct {
	lang    *sitter.Language
	pool    sync.Pool
	leased  prometheus.Gauge
	created prometheus.Counter
}

// NewParserPool creates a pool for lang, which must outlive the pool. Leases
// and allocations are reported under the language label name.
func NewParserPool(name string, lang *sitter.Language) *ParserPool {
	p := &ParserPool{
		lang:    lang,
		leased:  observability.ParsersLeased.WithLabelValues(name),
		created: observability.ParsersCreatedTotal.WithLabelValues(name),
	}
	p.pool.New = func() any {
		p.created.Inc()
		return sitter.NewParser()
	}
	return p
}

// Get leases a parser. The language is set on every lease because Reset on
// a returned parser may have cleared it.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	_ = sp.SetLanguage(p.lang)
	p.leased.Inc()
	return sp
}

// Put returns sp to the pool. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	p.leased.Dec()
	sp.Reset()
	p.pool.Put(sp)
}
