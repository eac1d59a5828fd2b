package unusedargs

import (
	"fmt"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/core/errors"
	"unusedargs/internal/engine/parser"
)

const (
	overloadDecorator    = "overload"
	overrideDecorator    = "override"
	abstractDecorator    = "abstractmethod"
	classmethodDecorator = "classmethod"

	selfName = "self"
)

// DecoratorNames resolves each decorator of def to its simplest name: the
// bare name, the trailing attribute, or the trailing name of the callee.
//
// Any other decorator shape panics with a MALFORMED_INPUT DomainError; there
// is no meaningful result for a definition that cannot be classified.
func DecoratorNames(def *Definition) []string {
	names := make([]string, 0, len(def.Decorators))
	for _, expr := range def.Decorators {
		names = append(names, decoratorName(expr, def.source))
	}
	return names
}

func decoratorName(expr *sitter.Node, source []byte) string {
	target := expr
	if expr.Kind() == "call" {
		target = expr.ChildByFieldName("function")
	}
	if name, ok := trailingName(target, source); ok {
		return name
	}

	loc := parser.NodeLocation("", expr)
	de := &errors.DomainError{
		Code:    errors.CodeMalformedInput,
		Message: fmt.Sprintf("unsupported decorator expression %q", parser.Text(source, expr)),
	}
	panic(de.WithContext(errors.CtxNodeKind, expr.Kind()).
		WithContext(errors.CtxLine, loc.Line).
		WithContext(errors.CtxColumn, loc.Column))
}

func trailingName(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "identifier", "keyword_identifier":
		return parser.Text(source, node), true
	case "attribute":
		attr := node.ChildByFieldName("attribute")
		if attr == nil {
			return "", false
		}
		return parser.Text(source, attr), true
	}
	return "", false
}

// IsStub reports whether def is a placeholder: a lone pass, ellipsis or
// raise NotImplementedError, optionally after a docstring, or a docstring on
// its own. A lambda is a stub when its body is an ellipsis.
func IsStub(def *Definition) bool {
	body := def.Body()
	if body == nil {
		return false
	}
	if def.Kind == KindLambda {
		return body.Kind() == "ellipsis"
	}

	statements := parser.NamedChildren(body)
	if len(statements) > 0 && isDocstring(statements[0], def.source) {
		statements = statements[1:]
		if len(statements) == 0 {
			return true
		}
	}
	if len(statements) != 1 {
		return false
	}
	return isStubStatement(statements[0], def.source)
}

func isStubStatement(stmt *sitter.Node, source []byte) bool {
	switch stmt.Kind() {
	case "pass_statement":
		return true
	case "expression_statement":
		exprs := parser.NamedChildren(stmt)
		return len(exprs) == 1 && exprs[0].Kind() == "ellipsis"
	case "raise_statement":
		exprs := parser.NamedChildren(stmt)
		if len(exprs) != 1 {
			return false
		}
		exc := exprs[0]
		if exc.Kind() == "call" {
			exc = exc.ChildByFieldName("function")
		}
		return exc != nil && exc.Kind() == "identifier" && parser.Text(source, exc) == "NotImplementedError"
	}
	return false
}

func isDocstring(stmt *sitter.Node, source []byte) bool {
	if stmt.Kind() != "expression_statement" {
		return false
	}
	exprs := parser.NamedChildren(stmt)
	if len(exprs) != 1 {
		return false
	}
	switch exprs[0].Kind() {
	case "string":
		return !isFormatString(exprs[0], source)
	case "concatenated_string":
		for _, part := range parser.NamedChildren(exprs[0]) {
			if part.Kind() == "string" && isFormatString(part, source) {
				return false
			}
		}
		return true
	}
	return false
}

func isFormatString(str *sitter.Node, source []byte) bool {
	prefix := parser.Text(source, str.Child(0))
	return strings.ContainsAny(prefix, "fF")
}

// IsDunder reports whether name is a double-underscore name such as
// __init__. The bare "____" does not count.
func IsDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// skipDefinition applies the definition-level rules.
func (o Options) skipDefinition(def *Definition, decorators []string) bool {
	for _, name := range decorators {
		switch {
		case o.IgnoreOverload && name == overloadDecorator:
			return true
		case o.IgnoreOverride && name == overrideDecorator:
			return true
		case o.IgnoreAbstract && name == abstractDecorator:
			return true
		}
	}
	if o.IgnoreStubs && IsStub(def) {
		return true
	}
	if o.IgnoreLambdas && def.Kind == KindLambda {
		return true
	}
	if o.IgnoreDunder && def.Kind != KindLambda && IsDunder(def.Name) {
		return true
	}
	return false
}

// dropParameter applies the per-parameter rules. The first parameter of an
// instance method (self) or classmethod is always exempt.
func (o Options) dropParameter(param Parameter, decorators []string) bool {
	if o.IgnoreVariadicNames && param.Kind.IsVariadic() {
		return true
	}
	if param.Index == 0 && (param.Name == selfName || slices.Contains(decorators, classmethodDecorator)) {
		return true
	}
	return false
}
