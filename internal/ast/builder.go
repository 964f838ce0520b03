package ast

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// Builder assembles a File from parsed top-level items.
type Builder struct {
	name   string
	items  []Stmt
	tokens []lexer.Token
}

// NewBuilder starts a file named name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Add appends a top-level item. nil items are ignored.
func (b *Builder) Add(item Stmt) {
	if item == nil {
		return
	}
	b.items = append(b.items, item)
}

// AddDecl appends a declaration wrapped in a DeclStmt.
func (b *Builder) AddDecl(d Decl) {
	if d == nil {
		return
	}
	b.items = append(b.items, &DeclStmt{Decl: d})
}

// SetTokens records the token stream the items were parsed from. A
// trailing end-of-input token is dropped.
func (b *Builder) SetTokens(toks []lexer.Token) {
	if n := len(toks); n > 0 && toks[n-1].Type == lexer.TokenEOF {
		toks = toks[:n-1]
	}
	b.tokens = toks
}

// Len returns the number of items added so far.
func (b *Builder) Len() int { return len(b.items) }

// File returns the assembled file. Its span covers the first to the last
// token, or is zero at file start when the unit has no tokens.
func (b *Builder) File() *File {
	f := &File{Name: b.name, Items: b.items, Tokens: b.tokens}
	if len(b.tokens) > 0 {
		f.Span = position.SpanBetween(b.tokens[0].Span, b.tokens[len(b.tokens)-1].Span)
	} else {
		start := position.Position{Filename: b.name, Line: 1, Column: 1}
		f.Span = position.Span{Start: start, End: start}
	}
	return f
}

// CheckOwnership verifies that no node is reachable through two parents
// and that every child span lies inside its parent's span.
func CheckOwnership(root Node) error {
	seen := make(map[Node]bool)
	var err error
	var check func(parent, n Node)
	check = func(parent, n Node) {
		if err != nil {
			return
		}
		if seen[n] {
			err = fmt.Errorf("node %T at %s is shared", n, n.GetSpan())
			return
		}
		seen[n] = true
		if parent != nil && !parent.GetSpan().Covers(n.GetSpan()) {
			err = fmt.Errorf("%T span %s escapes parent %T span %s", n, n.GetSpan(), parent, parent.GetSpan())
			return
		}
		for _, c := range Children(n) {
			check(n, c)
		}
	}
	check(nil, root)
	return err
}
