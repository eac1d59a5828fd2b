package unusedargs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/engine/parser"
)

// CollectDefinitions returns every function, async function and lambda under
// root in pre-order, outer definitions before the ones nested in them.
//
// With topLevel set, a recorded definition is never descended into, so only
// definitions outside any function scope are returned. Class bodies are not
// function scopes: methods of a top-level class are still top level.
func CollectDefinitions(root *sitter.Node, source []byte, topLevel bool) []*Definition {
	var defs []*Definition
	record := func(node *sitter.Node) bool {
		defs = append(defs, newDefinition(node, source))
		return topLevel
	}

	parser.NewWalker(map[string]parser.NodeHandler{
		"function_definition": record,
		"lambda":              record,
	}).Walk(root)

	return defs
}
