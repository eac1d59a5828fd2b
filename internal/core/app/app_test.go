package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unusedargs/internal/core/config"
	"unusedargs/internal/engine/unusedargs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestApp(t *testing.T, root string, mutate func(*config.Config)) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Color = config.ColorNever
	if mutate != nil {
		mutate(cfg)
	}
	var out bytes.Buffer
	a, err := New(cfg, unusedargs.Options(cfg.Rules), root, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, &out
}

func TestLintOnceWritesTextReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "mod.py"), "def f(a, b):\n    return a\n")

	a, out := newTestApp(t, root, nil)
	outcome, err := a.LintOnce(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Equal(t, Outcome{Reported: 1, Files: 1}, outcome)
	assert.Equal(t,
		"pkg/mod.py:1:10: U100 Unused argument 'b'\n"+
			"1 unused argument in 1 file\n",
		out.String())
}

func TestRulesConvertToOptions(t *testing.T) {
	rules := config.Rules{IgnoreAbstract: true, IgnoreDunder: true}
	opts := unusedargs.Options(rules)
	assert.True(t, opts.IgnoreAbstract)
	assert.True(t, opts.IgnoreDunder)
	assert.False(t, opts.IgnoreStubs)
}

func TestLintOnceWritesOutputFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "mod.py"), "def f(a):\n    pass\n")

	a, out := newTestApp(t, root, func(cfg *config.Config) {
		cfg.Output.Format = config.FormatSARIF
		cfg.Output.Path = filepath.Join("reports", "unusedargs.sarif")
	})
	_, err := a.LintOnce(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Empty(t, out.String())
	data, err := os.ReadFile(filepath.Join(root, "reports", "unusedargs.sarif"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ruleId": "U100"`)
}

func TestBaselineHidesKnownFindings(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "mod.py")
	writeFile(t, module, "def f(a, b):\n    return a\n")

	enable := func(cfg *config.Config) { cfg.Baseline.Enabled = true }

	writer, _ := newTestApp(t, root, enable)
	_, id, err := writer.WriteBaseline(context.Background(), []string{root})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, writer.Close())
	assert.FileExists(t, filepath.Join(root, ".unusedargs", "baseline.db"))

	// shift the known finding down and add a new one
	writeFile(t, module, "\n\ndef f(a, b):\n    return a\n\ndef g(c):\n    pass\n")

	a, out := newTestApp(t, root, enable)
	outcome, err := a.LintOnce(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Reported)
	assert.Equal(t, 1, outcome.Suppressed)
	assert.Contains(t, out.String(), "mod.py:6:7: U100 Unused argument 'c'")
	assert.NotContains(t, out.String(), "'b'")
	assert.Contains(t, out.String(), "1 hidden by baseline")
}

func TestHandleChangesUpdatesState(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.py")
	second := filepath.Join(root, "b.py")
	writeFile(t, first, "def f(a):\n    pass\n")
	writeFile(t, second, "def g(b):\n    return b\n")

	a, out := newTestApp(t, root, nil)
	outcome, err := a.LintOnce(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Reported)

	writeFile(t, second, "def g(b, c):\n    return b\n")
	out.Reset()
	outcome, err = a.HandleChanges(context.Background(), []string{second})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Reported: 2, Files: 2}, outcome)
	assert.Contains(t, out.String(), "a.py:1:7: U100 Unused argument 'a'")
	assert.Contains(t, out.String(), "b.py:1:10: U100 Unused argument 'c'")

	require.NoError(t, os.Remove(first))
	writeFile(t, second, "def g(b, c:\n")
	out.Reset()
	outcome, err = a.HandleChanges(context.Background(), []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Skipped: 1, Files: 1}, outcome)
	assert.Contains(t, out.String(), "b.py: skipped (syntax_error)")
}
