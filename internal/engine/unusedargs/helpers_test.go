package unusedargs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"unusedargs/internal/engine/parser"
)

func parseSource(t *testing.T, code string) *parser.Unit {
	t.Helper()
	loader, err := parser.NewGrammarLoader(nil)
	require.NoError(t, err)

	unit, err := parser.NewParser(loader).Parse("test.py", []byte(dedent(code)))
	require.NoError(t, err)
	t.Cleanup(unit.Close)
	return unit
}

func firstDefinition(t *testing.T, code string) *Definition {
	t.Helper()
	unit := parseSource(t, code)
	defs := CollectDefinitions(unit.Root(), unit.Source, false)
	require.NotEmpty(t, defs, "no definition in %q", code)
	return defs[0]
}

func parameterNames(params []Parameter) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names
}

// dedent removes the whitespace prefix shared by every non-blank line.
func dedent(code string) string {
	lines := strings.Split(code, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
