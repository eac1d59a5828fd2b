// Package unusedargs implements the unused-argument rule for Python syntax
// trees: it finds functions, async functions and lambdas, works out which of
// their parameters are never read, and filters the candidates through the
// configured suppression rules.
package unusedargs

import (
	"fmt"
	"iter"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/shared/version"
)

const (
	// Name identifies the rule to host drivers.
	Name = "unused-arguments"
	// CheckName is the short check name attached to every result.
	CheckName = "unused argument"
)

// Code classifies a result.
type Code string

const (
	// CodeUnused is reported for ordinary parameter names.
	CodeUnused Code = "U100"
	// CodeUnusedMarked is reported for names starting with an underscore,
	// which authors use to mark a parameter as intentionally unused.
	CodeUnusedMarked Code = "U101"
)

// CodeFor returns the code a parameter with the given name is reported under.
func CodeFor(name string) Code {
	if strings.HasPrefix(name, "_") {
		return CodeUnusedMarked
	}
	return CodeUnused
}

// Result is one unused-argument diagnostic positioned at the parameter.
type Result struct {
	Line     int
	Column   int
	Text     string
	Check    string
	Code     Code
	Argument string
	Function string
}

// Tuple returns the (line, column, message, check) form host linters consume.
func (r Result) Tuple() (int, int, string, string) {
	return r.Line, r.Column, r.Text, r.Check
}

// Version returns the rule version reported to host drivers.
func Version() string {
	return version.Version
}

// Plugin runs the rule over one source unit.
type Plugin struct {
	root   *sitter.Node
	source []byte
	opts   Options
}

func New(root *sitter.Node, source []byte, opts Options) *Plugin {
	return &Plugin{root: root, source: source, opts: opts}
}

// Run yields results lazily, definitions in collection order and parameters
// in declaration order. Stopping the iteration early is safe.
func (p *Plugin) Run() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for _, def := range CollectDefinitions(p.root, p.source, p.opts.IgnoreNested) {
			if !p.check(def, yield) {
				return
			}
		}
	}
}

func (p *Plugin) check(def *Definition, yield func(Result) bool) bool {
	decorators := DecoratorNames(def)
	if p.opts.skipDefinition(def, decorators) {
		return true
	}

	for _, param := range UnusedParameters(def) {
		if p.opts.dropParameter(param, decorators) {
			continue
		}
		code := CodeFor(param.Name)
		res := Result{
			Line:     param.Position.Line,
			Column:   param.Position.Column,
			Text:     fmt.Sprintf("%s Unused argument '%s'", code, param.Name),
			Check:    CheckName,
			Code:     code,
			Argument: param.Name,
			Function: def.DisplayName(),
		}
		if !yield(res) {
			return false
		}
	}
	return true
}
