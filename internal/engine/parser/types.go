package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Unit is one parsed source file. The tree is owned by the unit and must be
// released with Close once every consumer is done with it.
type Unit struct {
	Path     string
	Language string
	Source   []byte
	Tree     *sitter.Tree
	ParsedAt time.Time
}

func (u *Unit) Root() *sitter.Node {
	if u == nil || u.Tree == nil {
		return nil
	}
	return u.Tree.RootNode()
}

func (u *Unit) Close() {
	if u == nil || u.Tree == nil {
		return
	}
	u.Tree.Close()
	u.Tree = nil
}

func (u *Unit) Text(node *sitter.Node) string {
	return Text(u.Source, node)
}

// Location is a 1-based line and 0-based byte column, matching what Python's
// own ast module reports.
type Location struct {
	File   string
	Line   int
	Column int
}

func Text(source []byte, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func NodeLocation(path string, node *sitter.Node) Location {
	if node == nil {
		return Location{File: path, Line: 1}
	}
	pos := node.StartPosition()
	return Location{
		File:   path,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column),
	}
}
