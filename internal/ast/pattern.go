package ast

import "github.com/orizon-lang/swiftparse/internal/position"

// IdentPattern binds a name.
type IdentPattern struct {
	Name *Ident
}

func (p *IdentPattern) GetSpan() position.Span { return p.Name.Span }
func (p *IdentPattern) patternNode()           {}
func (p *IdentPattern) String() string         { return p.Name.Name }

// WildcardPattern is _.
type WildcardPattern struct {
	Span position.Span
}

func (p *WildcardPattern) GetSpan() position.Span { return p.Span }
func (p *WildcardPattern) patternNode()           {}
func (p *WildcardPattern) String() string         { return "_" }

// TuplePattern is a parenthesized list of one or more patterns.
type TuplePattern struct {
	Span     position.Span
	Elements []Pattern
}

func (p *TuplePattern) GetSpan() position.Span { return p.Span }
func (p *TuplePattern) patternNode()           {}
func (p *TuplePattern) String() string         { return "(" + joinNodes(p.Elements, ", ") + ")" }

// ValueBindingPattern: let pattern or var pattern
type ValueBindingPattern struct {
	Span       position.Span
	Introducer string // "let" or "var"
	Pattern    Pattern
}

func (p *ValueBindingPattern) GetSpan() position.Span { return p.Span }
func (p *ValueBindingPattern) patternNode()           {}
func (p *ValueBindingPattern) String() string         { return p.Introducer + " " + p.Pattern.String() }

// ExprPattern matches against the value of an expression.
type ExprPattern struct {
	X Expr
}

func (p *ExprPattern) GetSpan() position.Span { return p.X.GetSpan() }
func (p *ExprPattern) patternNode()           {}
func (p *ExprPattern) String() string         { return p.X.String() }

// EnumCasePattern: [Type].name(sub-patterns) or .name(sub-patterns)
type EnumCasePattern struct {
	Span       position.Span
	LeadingDot bool
	Path       []*Ident // qualified case name, last element is the case
	Args       []Pattern
}

func (p *EnumCasePattern) GetSpan() position.Span { return p.Span }
func (p *EnumCasePattern) patternNode()           {}
func (p *EnumCasePattern) String() string {
	s := joinNodes(p.Path, ".")
	if p.LeadingDot {
		s = "." + s
	}
	return s + "(" + joinNodes(p.Args, ", ") + ")"
}

// CaseName returns the final component of the qualified name.
func (p *EnumCasePattern) CaseName() string {
	return p.Path[len(p.Path)-1].Name
}

// IsPattern: is Type
type IsPattern struct {
	Span position.Span
	Type Type
}

func (p *IsPattern) GetSpan() position.Span { return p.Span }
func (p *IsPattern) patternNode()           {}
func (p *IsPattern) String() string         { return "is " + p.Type.String() }

// TypedPattern: pattern: Type, used for tuple elements.
type TypedPattern struct {
	Span    position.Span
	Pattern Pattern
	Type    Type
}

func (p *TypedPattern) GetSpan() position.Span { return p.Span }
func (p *TypedPattern) patternNode()           {}
func (p *TypedPattern) String() string         { return p.Pattern.String() + ": " + p.Type.String() }

// CastPattern: pattern as Type, which matches when the value casts to Type.
type CastPattern struct {
	Span    position.Span
	Pattern Pattern
	Type    Type
}

func (p *CastPattern) GetSpan() position.Span { return p.Span }
func (p *CastPattern) patternNode()           {}
func (p *CastPattern) String() string         { return p.Pattern.String() + " as " + p.Type.String() }
