package unusedargs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/engine/parser"
)

// Kind is the closed set of function-like definitions the rule inspects.
type Kind int

const (
	KindFunction Kind = iota
	KindAsyncFunction
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindAsyncFunction:
		return "async function"
	case KindLambda:
		return "lambda"
	}
	return "unknown"
}

type ParamKind int

const (
	ParamPositional ParamKind = iota
	ParamVarPositional
	ParamKeywordOnly
	ParamVarKeyword
)

func (k ParamKind) IsVariadic() bool {
	return k == ParamVarPositional || k == ParamVarKeyword
}

// Position is a 1-based line and a 0-based byte column.
type Position struct {
	Line   int
	Column int
}

type Parameter struct {
	Name     string
	Kind     ParamKind
	Index    int // position in the extracted parameter list
	Position Position
}

// Definition is a function, async function or lambda borrowed from a syntax
// tree. It is only valid while that tree is open.
type Definition struct {
	Kind       Kind
	Name       string // empty for lambdas
	Position   Position
	Parameters []Parameter
	Decorators []*sitter.Node // decorator expressions, as written

	node   *sitter.Node
	source []byte
}

func newDefinition(node *sitter.Node, source []byte) *Definition {
	def := &Definition{
		Kind:     KindFunction,
		Position: positionOf(node),
		node:     node,
		source:   source,
	}
	def.Parameters = extractParameters(node.ChildByFieldName("parameters"), source)

	if node.Kind() == "lambda" {
		def.Kind = KindLambda
		return def
	}
	if first := node.Child(0); first != nil && first.Kind() == "async" {
		def.Kind = KindAsyncFunction
	}
	def.Name = parser.Text(source, node.ChildByFieldName("name"))
	def.Decorators = decoratorExpressions(node)
	return def
}

// Body is the statement block of a function or the expression of a lambda.
func (d *Definition) Body() *sitter.Node {
	return d.node.ChildByFieldName("body")
}

// DisplayName is the definition name, or <lambda>.
func (d *Definition) DisplayName() string {
	if d.Kind == KindLambda {
		return "<lambda>"
	}
	return d.Name
}

func decoratorExpressions(node *sitter.Node) []*sitter.Node {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}

	var out []*sitter.Node
	for i := uint(0); i < parent.NamedChildCount(); i++ {
		child := parent.NamedChild(i)
		if child.Kind() != "decorator" {
			continue
		}
		if exprs := parser.NamedChildren(child); len(exprs) > 0 {
			out = append(out, exprs[0])
		}
	}
	return out
}

func positionOf(node *sitter.Node) Position {
	loc := parser.NodeLocation("", node)
	return Position{Line: loc.Line, Column: loc.Column}
}
