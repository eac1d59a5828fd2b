// Package formats renders lint reports as text, JSON or SARIF.
package formats

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"unusedargs/internal/engine/lint"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Input is everything a reporter renders for one run.
type Input struct {
	// Root anchors relative paths in the output. Empty keeps paths as found.
	Root               string
	Findings           []lint.Finding
	Skipped            []lint.Skipped
	FilesChecked       int
	BaselineSuppressed int
}

type Reporter interface {
	Write(w io.Writer, in Input) error
}

// New returns the reporter for format. color is one of auto, always, never
// and only affects the text reporter.
func New(format, color string) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{Color: color}, nil
	case FormatJSON:
		return JSONReporter{}, nil
	case FormatSARIF:
		return SARIFReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// relativeURI converts a file path to a forward-slash path relative to root.
// Paths outside root, or any path when root is empty, are kept as given.
func relativeURI(root, filePath string) string {
	if root != "" {
		if abs, err := filepath.Abs(filePath); err == nil {
			if rel, err := filepath.Rel(root, abs); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				filePath = rel
			}
		}
	}
	return filepath.ToSlash(filePath)
}
