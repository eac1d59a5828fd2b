package formats

import (
	"encoding/json"
	"io"

	"unusedargs/internal/engine/unusedargs"
	"unusedargs/internal/shared/version"
)

type jsonReport struct {
	Tool               string        `json:"tool"`
	Version            string        `json:"version"`
	FilesChecked       int           `json:"files_checked"`
	BaselineSuppressed int           `json:"baseline_suppressed"`
	Findings           []jsonFinding `json:"findings"`
	Skipped            []jsonSkipped `json:"skipped"`
}

// jsonFinding keeps the rule's 0-based column.
type jsonFinding struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Check    string `json:"check"`
	Argument string `json:"argument"`
	Function string `json:"function"`
}

type jsonSkipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

type JSONReporter struct{}

func (JSONReporter) Write(w io.Writer, in Input) error {
	report := jsonReport{
		Tool:               unusedargs.Name,
		Version:            version.Version,
		FilesChecked:       in.FilesChecked,
		BaselineSuppressed: in.BaselineSuppressed,
		Findings:           make([]jsonFinding, 0, len(in.Findings)),
		Skipped:            make([]jsonSkipped, 0, len(in.Skipped)),
	}
	for _, f := range in.Findings {
		report.Findings = append(report.Findings, jsonFinding{
			Path:     relativeURI(in.Root, f.Path),
			Line:     f.Line,
			Column:   f.Column,
			Code:     string(f.Code),
			Message:  f.Text,
			Check:    f.Check,
			Argument: f.Argument,
			Function: f.Function,
		})
	}
	for _, s := range in.Skipped {
		entry := jsonSkipped{Path: relativeURI(in.Root, s.Path), Reason: s.Reason}
		if s.Err != nil {
			entry.Error = s.Err.Error()
		}
		report.Skipped = append(report.Skipped, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
