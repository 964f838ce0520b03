package ast

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// LiteralKind classifies literal expressions
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralBool
	LiteralNil
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInteger:
		return "integer"
	case LiteralFloat:
		return "float"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	case LiteralNil:
		return "nil"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// BasicLit is a literal; Value is the raw source spelling.
type BasicLit struct {
	Span  position.Span
	Kind  LiteralKind
	Value string
}

func (e *BasicLit) GetSpan() position.Span { return e.Span }
func (e *BasicLit) exprNode()              {}
func (e *BasicLit) String() string         { return e.Value }

// MemberExpr: X.Name, or .Name when X is nil (implicit member).
type MemberExpr struct {
	Span position.Span
	X    Expr
	Name *Ident
}

func (e *MemberExpr) GetSpan() position.Span { return e.Span }
func (e *MemberExpr) exprNode()              {}
func (e *MemberExpr) String() string         { return stringOrEmpty(e.X) + "." + e.Name.Name }

// Argument is a possibly labelled call, subscript or tuple element.
type Argument struct {
	Span  position.Span
	Label *Ident
	Value Expr
}

func (a *Argument) GetSpan() position.Span { return a.Span }
func (a *Argument) String() string {
	if a.Label != nil {
		return a.Label.Name + ": " + a.Value.String()
	}
	return a.Value.String()
}

// ParenExpr is a single unlabelled parenthesized expression.
type ParenExpr struct {
	Span position.Span
	X    Expr
}

func (e *ParenExpr) GetSpan() position.Span { return e.Span }
func (e *ParenExpr) exprNode()              {}
func (e *ParenExpr) String() string         { return "(" + e.X.String() + ")" }

// TupleExpr is (), or a parenthesized list with a comma or a label.
type TupleExpr struct {
	Span     position.Span
	Elements []*Argument
}

func (e *TupleExpr) GetSpan() position.Span { return e.Span }
func (e *TupleExpr) exprNode()              {}
func (e *TupleExpr) String() string         { return "(" + joinNodes(e.Elements, ", ") + ")" }

// CallExpr: Fun(args) with an optional trailing closure.
type CallExpr struct {
	Span     position.Span
	Fun      Expr
	Args     []*Argument
	Trailing *ClosureExpr
}

func (e *CallExpr) GetSpan() position.Span { return e.Span }
func (e *CallExpr) exprNode()              {}
func (e *CallExpr) String() string {
	s := e.Fun.String()
	if e.Args != nil || e.Trailing == nil {
		s += "(" + joinNodes(e.Args, ", ") + ")"
	}
	if e.Trailing != nil {
		s += " " + e.Trailing.String()
	}
	return s
}

// SubscriptExpr: X[args]
type SubscriptExpr struct {
	Span position.Span
	X    Expr
	Args []*Argument
}

func (e *SubscriptExpr) GetSpan() position.Span { return e.Span }
func (e *SubscriptExpr) exprNode()              {}
func (e *SubscriptExpr) String() string         { return e.X.String() + "[" + joinNodes(e.Args, ", ") + "]" }

// ArrayExpr: [a, b]
type ArrayExpr struct {
	Span     position.Span
	Elements []Expr
}

func (e *ArrayExpr) GetSpan() position.Span { return e.Span }
func (e *ArrayExpr) exprNode()              {}
func (e *ArrayExpr) String() string         { return "[" + joinNodes(e.Elements, ", ") + "]" }

// DictEntry is key: value inside a dictionary literal.
type DictEntry struct {
	Span  position.Span
	Key   Expr
	Value Expr
}

func (d *DictEntry) GetSpan() position.Span { return d.Span }
func (d *DictEntry) String() string         { return d.Key.String() + ": " + d.Value.String() }

// DictExpr: [k: v] or [:]
type DictExpr struct {
	Span    position.Span
	Entries []*DictEntry
}

func (e *DictExpr) GetSpan() position.Span { return e.Span }
func (e *DictExpr) exprNode()              {}
func (e *DictExpr) String() string {
	if len(e.Entries) == 0 {
		return "[:]"
	}
	return "[" + joinNodes(e.Entries, ", ") + "]"
}

// ClosureExpr is a closure literal kept as verbatim text, braces included.
type ClosureExpr struct {
	Span position.Span
	Text string
}

func (e *ClosureExpr) GetSpan() position.Span { return e.Span }
func (e *ClosureExpr) exprNode()              {}
func (e *ClosureExpr) String() string         { return e.Text }

// BinaryExpr: X Op Y
type BinaryExpr struct {
	Span position.Span
	X    Expr
	Op   string
	Y    Expr
}

func (e *BinaryExpr) GetSpan() position.Span { return e.Span }
func (e *BinaryExpr) exprNode()              {}
func (e *BinaryExpr) String() string         { return e.X.String() + " " + e.Op + " " + e.Y.String() }

// PrefixExpr: Op X
type PrefixExpr struct {
	Span position.Span
	Op   string
	X    Expr
}

func (e *PrefixExpr) GetSpan() position.Span { return e.Span }
func (e *PrefixExpr) exprNode()              {}
func (e *PrefixExpr) String() string         { return e.Op + e.X.String() }

// PostfixExpr: X Op, including optional chaining ? and force unwrap !
type PostfixExpr struct {
	Span position.Span
	X    Expr
	Op   string
}

func (e *PostfixExpr) GetSpan() position.Span { return e.Span }
func (e *PostfixExpr) exprNode()              {}
func (e *PostfixExpr) String() string         { return e.X.String() + e.Op }

// TernaryExpr: Cond ? Then : Else
type TernaryExpr struct {
	Span position.Span
	Cond Expr
	Then Expr
	Else Expr
}

func (e *TernaryExpr) GetSpan() position.Span { return e.Span }
func (e *TernaryExpr) exprNode()              {}
func (e *TernaryExpr) String() string {
	return e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String()
}

// CastExpr: X is T, X as T, X as? T, X as! T
type CastExpr struct {
	Span position.Span
	X    Expr
	Op   string
	Type Type
}

func (e *CastExpr) GetSpan() position.Span { return e.Span }
func (e *CastExpr) exprNode()              {}
func (e *CastExpr) String() string         { return e.X.String() + " " + e.Op + " " + e.Type.String() }

// TryExpr: try X, try? X, try! X
type TryExpr struct {
	Span position.Span
	Kind string
	X    Expr
}

func (e *TryExpr) GetSpan() position.Span { return e.Span }
func (e *TryExpr) exprNode()              {}
func (e *TryExpr) String() string         { return e.Kind + " " + e.X.String() }

// AwaitExpr: await X
type AwaitExpr struct {
	Span position.Span
	X    Expr
}

func (e *AwaitExpr) GetSpan() position.Span { return e.Span }
func (e *AwaitExpr) exprNode()              {}
func (e *AwaitExpr) String() string         { return "await " + e.X.String() }

// AssignExpr: Target = Value, or a compound assignment. Only produced at
// statement level.
type AssignExpr struct {
	Span   position.Span
	Target Expr
	Op     string
	Value  Expr
}

func (e *AssignExpr) GetSpan() position.Span { return e.Span }
func (e *AssignExpr) exprNode()              {}
func (e *AssignExpr) String() string         { return e.Target.String() + " " + e.Op + " " + e.Value.String() }

// PoundExpr: #name, such as #file or #selector. A call wraps it when
// arguments follow.
type PoundExpr struct {
	Span position.Span
	Name string
}

func (e *PoundExpr) GetSpan() position.Span { return e.Span }
func (e *PoundExpr) exprNode()              {}
func (e *PoundExpr) String() string         { return "#" + e.Name }

// KeyPathExpr: \Root.a.b or \.a.b
type KeyPathExpr struct {
	Span       position.Span
	Root       *Ident // nil for an inferred root
	Components []*Ident
}

func (e *KeyPathExpr) GetSpan() position.Span { return e.Span }
func (e *KeyPathExpr) exprNode()              {}
func (e *KeyPathExpr) String() string {
	var sb strings.Builder
	sb.WriteString(`\`)
	if e.Root != nil {
		sb.WriteString(e.Root.Name)
	}
	for _, c := range e.Components {
		sb.WriteString("." + c.Name)
	}
	return sb.String()
}
