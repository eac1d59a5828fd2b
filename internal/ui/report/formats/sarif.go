package formats

import (
	"encoding/json"
	"fmt"
	"io"

	"unusedargs/internal/engine/unusedargs"
	"unusedargs/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	Notifications       []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

// sarifRegion columns are 1-based.
type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

var sarifRules = []sarifRule{
	{
		ID:               string(unusedargs.CodeUnused),
		Name:             "UnusedArgument",
		ShortDescription: sarifMessage{Text: "A function, method or lambda parameter is never read."},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
	},
	{
		ID:               string(unusedargs.CodeUnusedMarked),
		Name:             "UnusedMarkedArgument",
		ShortDescription: sarifMessage{Text: "An underscore-prefixed parameter is never read."},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
	},
}

// SARIFReporter writes a SARIF v2.1.0 document. File URIs are relative to
// Input.Root when the file lies inside it.
type SARIFReporter struct{}

func (SARIFReporter) Write(w io.Writer, in Input) error {
	results := make([]sarifResult, 0, len(in.Findings))
	for _, f := range in.Findings {
		results = append(results, sarifResult{
			RuleID:  string(f.Code),
			Level:   levelFor(f.Code),
			Message: sarifMessage{Text: fmt.Sprintf("Unused argument '%s' in %s", f.Argument, f.Function)},
			Locations: []sarifLocation{
				fileLocation(in.Root, f.Path, &sarifRegion{StartLine: f.Line, StartColumn: f.Column + 1}),
			},
		})
	}

	invocation := sarifInvocation{ExecutionSuccessful: true}
	for _, s := range in.Skipped {
		msg := fmt.Sprintf("File skipped: %s", s.Reason)
		if s.Err != nil {
			msg = fmt.Sprintf("File skipped: %s: %v", s.Reason, s.Err)
		}
		invocation.Notifications = append(invocation.Notifications, sarifNotification{
			Level:     "error",
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLocation{fileLocation(in.Root, s.Path, nil)},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    unusedargs.Name,
						Version: version.Version,
						Rules:   sarifRules,
					},
				},
				Invocations: []sarifInvocation{invocation},
				Results:     results,
			},
		},
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func levelFor(code unusedargs.Code) string {
	if code == unusedargs.CodeUnusedMarked {
		return "note"
	}
	return "warning"
}

func fileLocation(root, path string, region *sarifRegion) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativeURI(root, path),
				URIBaseID: "%SRCROOT%",
			},
			Region: region,
		},
	}
}
