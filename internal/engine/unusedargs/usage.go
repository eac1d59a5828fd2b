package unusedargs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"unusedargs/internal/engine/parser"
)

type refContext int

const (
	contextLoad refContext = iota
	contextStore
)

// ReferencedNames returns the names read as values anywhere in the body of
// def, including inside nested functions, lambdas and classes. Assignment
// targets are not reads. Scoping is not modelled: a read of an inner
// parameter that shadows an outer one is reported like any other read.
func ReferencedNames(def *Definition) map[string]struct{} {
	w := &referenceWalker{source: def.source, loads: make(map[string]struct{})}
	w.visit(def.Body(), contextLoad)
	return w.loads
}

// UnusedParameters returns the parameters of def that are never read, in
// declaration order.
func UnusedParameters(def *Definition) []Parameter {
	loads := ReferencedNames(def)
	var unused []Parameter
	for _, param := range def.Parameters {
		if _, ok := loads[param.Name]; !ok {
			unused = append(unused, param)
		}
	}
	return unused
}

type referenceWalker struct {
	source []byte
	loads  map[string]struct{}
}

func (w *referenceWalker) visit(node *sitter.Node, ctx refContext) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "identifier", "keyword_identifier":
		if ctx == contextLoad {
			w.loads[parser.Text(w.source, node)] = struct{}{}
		}

	case "comment", "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		// no value references

	case "assignment":
		w.visit(node.ChildByFieldName("left"), contextStore)
		w.visit(node.ChildByFieldName("type"), contextLoad)
		w.visit(node.ChildByFieldName("right"), contextLoad)

	case "augmented_assignment":
		w.visit(node.ChildByFieldName("left"), contextStore)
		w.visit(node.ChildByFieldName("right"), contextLoad)

	case "named_expression":
		w.visit(node.ChildByFieldName("name"), contextStore)
		w.visit(node.ChildByFieldName("value"), contextLoad)

	case "type_alias_statement":
		w.visit(node.ChildByFieldName("right"), contextLoad)

	case "for_statement", "for_in_clause":
		w.visitLoop(node)

	case "attribute":
		w.visit(node.ChildByFieldName("object"), contextLoad)

	case "subscript":
		w.visitChildren(node, contextLoad)

	case "keyword_argument":
		w.visit(node.ChildByFieldName("value"), contextLoad)

	case "function_definition":
		w.visitParameterDefaults(node.ChildByFieldName("parameters"))
		w.visit(node.ChildByFieldName("return_type"), contextLoad)
		w.visit(node.ChildByFieldName("body"), contextLoad)

	case "lambda":
		w.visitParameterDefaults(node.ChildByFieldName("parameters"))
		w.visit(node.ChildByFieldName("body"), contextLoad)

	case "class_definition":
		w.visit(node.ChildByFieldName("superclasses"), contextLoad)
		w.visit(node.ChildByFieldName("body"), contextLoad)

	case "as_pattern":
		for _, child := range parser.NamedChildren(node) {
			if child.Kind() == "as_pattern_target" {
				w.visit(child, contextStore)
				continue
			}
			w.visit(child, contextLoad)
		}

	case "except_clause", "except_group_clause":
		w.visitExcept(node)

	case "case_clause":
		for _, child := range parser.NamedChildren(node) {
			if child.Kind() == "case_pattern" {
				w.visitPattern(child)
				continue
			}
			w.visit(child, contextLoad)
		}

	default:
		w.visitChildren(node, ctx)
	}
}

func (w *referenceWalker) visitChildren(node *sitter.Node, ctx refContext) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.visit(node.NamedChild(i), ctx)
	}
}

// visitLoop handles `for <targets> in <iterables>` in statements and
// comprehensions: everything between the for and in keywords is a target.
func (w *referenceWalker) visitLoop(node *sitter.Node) {
	inTargets := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			switch child.Kind() {
			case "for":
				inTargets = true
			case "in":
				inTargets = false
			}
			continue
		}
		if inTargets {
			w.visit(child, contextStore)
			continue
		}
		w.visit(child, contextLoad)
	}
}

// visitExcept treats the name after `as` in an except clause as a target.
func (w *referenceWalker) visitExcept(node *sitter.Node) {
	alias := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() {
			if kind := child.Kind(); kind == "as" || kind == "," {
				alias = true
			}
			continue
		}
		if alias {
			w.visit(child, contextStore)
			alias = false
			continue
		}
		w.visit(child, contextLoad)
	}
}

// visitParameterDefaults reads the defaults and annotations of a nested
// definition's parameters; the parameter names themselves are declarations.
func (w *referenceWalker) visitParameterDefaults(list *sitter.Node) {
	for _, child := range parser.NamedChildren(list) {
		switch child.Kind() {
		case "default_parameter":
			w.visit(child.ChildByFieldName("value"), contextLoad)
		case "typed_parameter":
			w.visit(child.ChildByFieldName("type"), contextLoad)
		case "typed_default_parameter":
			w.visit(child.ChildByFieldName("type"), contextLoad)
			w.visit(child.ChildByFieldName("value"), contextLoad)
		}
	}
}

// visitPattern walks a match-statement pattern. Bare names are captures;
// dotted names and class patterns read their leading name.
func (w *referenceWalker) visitPattern(node *sitter.Node) {
	switch node.Kind() {
	case "identifier", "keyword_identifier", "splat_pattern", "as_pattern_target":
		return

	case "dotted_name":
		parts := parser.NamedChildren(node)
		if len(parts) > 1 {
			w.visit(parts[0], contextLoad)
		}

	case "class_pattern":
		for i, child := range parser.NamedChildren(node) {
			if i == 0 && child.Kind() == "dotted_name" {
				if parts := parser.NamedChildren(child); len(parts) > 0 {
					w.visit(parts[0], contextLoad)
				}
				continue
			}
			w.visitPattern(child)
		}

	case "keyword_pattern":
		for i, child := range parser.NamedChildren(node) {
			if i == 0 && isIdentifier(child) {
				continue
			}
			w.visitPattern(child)
		}

	default:
		for _, child := range parser.NamedChildren(node) {
			w.visitPattern(child)
		}
	}
}
