package formats

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"unusedargs/internal/engine/unusedargs"
)

// TextReporter prints one flake8-style line per finding:
//
//	path:line:col: U100 Unused argument 'name'
//
// The printed column is 1-based.
type TextReporter struct {
	Color string
}

type textStyles struct {
	path    lipgloss.Style
	pos     lipgloss.Style
	unused  lipgloss.Style
	marked  lipgloss.Style
	skipped lipgloss.Style
	summary lipgloss.Style
}

func (t *TextReporter) styles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	switch t.Color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		path:    r.NewStyle().Bold(true),
		pos:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		unused:  r.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true),
		marked:  r.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
		skipped: r.NewStyle().Foreground(lipgloss.Color("#F87171")),
		summary: r.NewStyle().Italic(true),
	}
}

func (t *TextReporter) Write(w io.Writer, in Input) error {
	st := t.styles(w)

	for _, f := range in.Findings {
		code := st.unused
		if f.Code == unusedargs.CodeUnusedMarked {
			code = st.marked
		}
		if _, err := fmt.Fprintf(w, "%s%s %s %s\n",
			st.path.Render(relativeURI(in.Root, f.Path)),
			st.pos.Render(fmt.Sprintf(":%d:%d:", f.Line, f.Column+1)),
			code.Render(string(f.Code)),
			fmt.Sprintf("Unused argument '%s'", f.Argument),
		); err != nil {
			return err
		}
	}

	for _, s := range in.Skipped {
		if _, err := fmt.Fprintf(w, "%s %s\n",
			st.path.Render(relativeURI(in.Root, s.Path)+":"),
			st.skipped.Render(fmt.Sprintf("skipped (%s)", s.Reason)),
		); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d unused %s in %d %s",
		len(in.Findings), plural(len(in.Findings), "argument", "arguments"),
		in.FilesChecked, plural(in.FilesChecked, "file", "files"))
	if len(in.Skipped) > 0 {
		summary += fmt.Sprintf(", %d skipped", len(in.Skipped))
	}
	if in.BaselineSuppressed > 0 {
		summary += fmt.Sprintf(", %d hidden by baseline", in.BaselineSuppressed)
	}
	_, err := fmt.Fprintln(w, st.summary.Render(summary))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
