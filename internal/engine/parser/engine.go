package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node of a registered kind.
// Returns true if the walker should not descend into the node's children.
type NodeHandler func(node *sitter.Node) bool

// Walker visits a syntax tree in pre-order, left to right, and dispatches
// handlers by node kind. Only named nodes are dispatched: anonymous tokens
// such as the `lambda` keyword share a kind string with named nodes.
type Walker struct {
	handlers map[string]NodeHandler
}

func NewWalker(handlers map[string]NodeHandler) *Walker {
	return &Walker{handlers: handlers}
}

func (w *Walker) Walk(node *sitter.Node) {
	if node == nil {
		return
	}

	stop := false
	if node.IsNamed() {
		if handler, ok := w.handlers[node.Kind()]; ok {
			stop = handler(node)
		}
	}
	if stop {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.Walk(node.Child(i))
	}
}

// NamedChildren returns the named children of node, skipping comments.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// FirstError returns the first ERROR or MISSING node under root, or nil.
func FirstError(root *sitter.Node) *sitter.Node {
	if root == nil || !root.HasError() {
		return nil
	}
	if root.IsError() || root.IsMissing() {
		return root
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		if found := FirstError(root.Child(i)); found != nil {
			return found
		}
	}
	return root
}
