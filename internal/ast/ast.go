// Package ast defines the syntax tree produced by the swiftparse parser.
//
// The tree is a strictly owned forest: every node owns its children through
// pointers or interface values and no node is reachable from two parents.
// Declarations and statements are mutually recursive; a declaration body is
// a sequence of statements and a statement may wrap a declaration (DeclStmt).
// All nodes carry source spans for diagnostics. Nodes are built once by the
// parser and are treated as read-only afterwards.
package ast

import (
	"strings"

	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// Node is the base interface for all syntax tree nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns a canonical source rendering of the node
	String() string
}

// Decl represents all declaration nodes
type Decl interface {
	Node
	declNode()
	// Kind reports which declaration form the node is
	Kind() DeclKind
	// Modifiers returns the modifier set attached to the declaration
	Modifiers() *ModifierSet
}

// Stmt represents all statement nodes
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents all expression nodes
type Expr interface {
	Node
	exprNode()
}

// Pattern represents all pattern nodes
type Pattern interface {
	Node
	patternNode()
}

// Type represents all type syntax nodes
type Type interface {
	Node
	typeNode()
}

// Condition is one element of an if/while/guard condition list
type Condition interface {
	Node
	conditionNode()
}

// Ident is a name occurrence. Name has escaping backticks removed.
type Ident struct {
	Span position.Span
	Name string
}

func (i *Ident) GetSpan() position.Span { return i.Span }
func (i *Ident) String() string {
	if i == nil {
		return ""
	}
	return i.Name
}
func (i *Ident) exprNode() {}

// File is the root of a parsed source unit.
type File struct {
	Name  string        // label supplied by the caller
	Span  position.Span // covers every token of the unit
	Items []Stmt        // top-level declarations and statements in source order

	// Tokens is the token stream the tree was parsed from, end-of-input
	// marker excluded. Round-trip serialization works from this slice.
	Tokens []lexer.Token
}

func (f *File) GetSpan() position.Span { return f.Span }
func (f *File) String() string {
	parts := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, "\n")
}

// Decls returns the top-level declarations of the file in source order.
func (f *File) Decls() []Decl {
	var decls []Decl
	for _, item := range f.Items {
		if ds, ok := item.(*DeclStmt); ok {
			decls = append(decls, ds.Decl)
		}
	}
	return decls
}

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func stringOrEmpty(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
