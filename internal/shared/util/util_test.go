package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./pkg/mod.py  ", expected: "pkg/mod.py"},
		{name: "Relative", input: "pkg/../tests/test_mod.py", expected: "tests/test_mod.py"},
		{name: "Backslashes", input: `pkg\sub\mod.py`, expected: "pkg/sub/mod.py"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "nested", "unusedargs.sarif")
	content := []byte(`{"version":"2.1.0"}`)

	if err := WriteFileWithDirs(path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}
