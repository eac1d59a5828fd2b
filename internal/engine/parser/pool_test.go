package parser

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"unusedargs/internal/shared/observability"
)

// pythonLanguage returns the tree-sitter Python grammar for test use.
func pythonLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_python.Language())
}

// metricValue reads the current value of a gauge or counter.
func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatal(err)
	}
	if out.Gauge != nil {
		return out.Gauge.GetValue()
	}
	return out.Counter.GetValue()
}

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool("pool-getput", pythonLanguage())
	leased := observability.ParsersLeased.WithLabelValues("pool-getput")
	created := observability.ParsersCreatedTotal.WithLabelValues("pool-getput")

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if got := metricValue(t, leased); got != 1 {
		t.Errorf("expected 1 leased parser, got %v", got)
	}

	pool.Put(sp)
	if got := metricValue(t, leased); got != 0 {
		t.Errorf("expected 0 leased parsers after Put, got %v", got)
	}
	if got := metricValue(t, created); got < 1 {
		t.Errorf("expected at least one allocated parser, got %v", got)
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool("pool-putnil", pythonLanguage())

	pool.Put(nil)
	if got := metricValue(t, observability.ParsersLeased.WithLabelValues("pool-putnil")); got != 0 {
		t.Errorf("Put(nil) changed the lease count to %v", got)
	}
}

func TestParserPool_ParsesValidPython(t *testing.T) {
	pool := NewParserPool(LanguagePython, pythonLanguage())

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte("def main(argv):\n    return argv\n"), nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree for valid Python source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		t.Fatalf("expected error-free root node, got hasError=%v", root.HasError())
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(LanguagePython, pythonLanguage())

	const goroutines = 20
	const iters = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	src := []byte("def run(x):\n    pass\n")

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}

	wg.Wait()
	if got := metricValue(t, observability.ParsersLeased.WithLabelValues(LanguagePython)); got != 0 {
		t.Errorf("expected every lease returned, got %v leased", got)
	}
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(LanguagePython, pythonLanguage())

	sp := pool.Get()
	sp.Reset()
	pool.Put(sp)

	sp2 := pool.Get()
	defer pool.Put(sp2)

	tree := sp2.Parse([]byte("def ok(): pass\n"), nil)
	if tree == nil {
		t.Fatal("parser with reset language should still parse correctly after Get")
	}
	defer tree.Close()
}
