package unusedargs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/engine/parser"
)

// extractParameters reads a parameters or lambda_parameters node. The result
// is ordered positional, *args, keyword-only, **kwargs, and each parameter's
// position is that of its name rather than any star marker.
func extractParameters(list *sitter.Node, source []byte) []Parameter {
	if list == nil {
		return nil
	}

	var (
		positional    []Parameter
		keywordOnly   []Parameter
		varPositional []Parameter
		varKeyword    []Parameter
		afterStar     bool
	)
	plain := func(name *sitter.Node) {
		if name == nil || !isIdentifier(name) {
			return
		}
		if afterStar {
			keywordOnly = append(keywordOnly, newParameter(name, ParamKeywordOnly, source))
			return
		}
		positional = append(positional, newParameter(name, ParamPositional, source))
	}
	splat := func(node *sitter.Node) {
		name := firstIdentifier(node)
		if name == nil {
			return
		}
		if node.Kind() == "dictionary_splat_pattern" {
			varKeyword = append(varKeyword, newParameter(name, ParamVarKeyword, source))
			return
		}
		varPositional = append(varPositional, newParameter(name, ParamVarPositional, source))
		afterStar = true
	}

	for _, child := range parser.NamedChildren(list) {
		switch child.Kind() {
		case "identifier", "keyword_identifier":
			plain(child)
		case "default_parameter", "typed_default_parameter":
			plain(child.ChildByFieldName("name"))
		case "typed_parameter":
			inner := parser.NamedChildren(child)
			if len(inner) == 0 {
				continue
			}
			switch inner[0].Kind() {
			case "list_splat_pattern", "dictionary_splat_pattern":
				splat(inner[0])
			default:
				plain(inner[0])
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			splat(child)
		case "keyword_separator":
			afterStar = true
		}
	}

	out := make([]Parameter, 0, len(positional)+len(varPositional)+len(keywordOnly)+len(varKeyword))
	out = append(out, positional...)
	out = append(out, varPositional...)
	out = append(out, keywordOnly...)
	out = append(out, varKeyword...)
	for i := range out {
		out[i].Index = i
	}
	return out
}

func newParameter(name *sitter.Node, kind ParamKind, source []byte) Parameter {
	return Parameter{
		Name:     parser.Text(source, name),
		Kind:     kind,
		Position: positionOf(name),
	}
}

func isIdentifier(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "identifier" || kind == "keyword_identifier"
}

func firstIdentifier(node *sitter.Node) *sitter.Node {
	for _, child := range parser.NamedChildren(node) {
		if isIdentifier(child) {
			return child
		}
	}
	return nil
}
