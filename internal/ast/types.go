package ast

import "github.com/orizon-lang/swiftparse/internal/position"

// NamedType is a possibly qualified, possibly generic type name such as
// Int, Swift.Array<Int> or Self.
type NamedType struct {
	Span position.Span
	Base *NamedType // qualifier, nil for an unqualified name
	Name *Ident
	Args []Type // generic arguments, nil when none were written
}

func (t *NamedType) GetSpan() position.Span { return t.Span }
func (t *NamedType) typeNode()              {}
func (t *NamedType) String() string {
	s := t.Name.Name
	if t.Base != nil {
		s = t.Base.String() + "." + s
	}
	if t.Args != nil {
		s += "<" + joinNodes(t.Args, ", ") + ">"
	}
	return s
}

// OptionalType: T? or, when Implicit, T!
type OptionalType struct {
	Span     position.Span
	Elem     Type
	Implicit bool
}

func (t *OptionalType) GetSpan() position.Span { return t.Span }
func (t *OptionalType) typeNode()              {}
func (t *OptionalType) String() string {
	if t.Implicit {
		return t.Elem.String() + "!"
	}
	return t.Elem.String() + "?"
}

// ArrayType: [Elem]
type ArrayType struct {
	Span position.Span
	Elem Type
}

func (t *ArrayType) GetSpan() position.Span { return t.Span }
func (t *ArrayType) typeNode()              {}
func (t *ArrayType) String() string         { return "[" + t.Elem.String() + "]" }

// DictType: [Key: Value]
type DictType struct {
	Span  position.Span
	Key   Type
	Value Type
}

func (t *DictType) GetSpan() position.Span { return t.Span }
func (t *DictType) typeNode()              {}
func (t *DictType) String() string         { return "[" + t.Key.String() + ": " + t.Value.String() + "]" }

// TupleTypeElement is one [label:] Type entry of a tuple or function type.
type TupleTypeElement struct {
	Span     position.Span
	Label    *Ident
	Type     Type
	Variadic bool
}

func (e *TupleTypeElement) GetSpan() position.Span { return e.Span }
func (e *TupleTypeElement) String() string {
	s := e.Type.String()
	if e.Label != nil {
		s = e.Label.Name + ": " + s
	}
	if e.Variadic {
		s += "..."
	}
	return s
}

// TupleType: (A, b: B); () is the empty tuple.
type TupleType struct {
	Span     position.Span
	Elements []*TupleTypeElement
}

func (t *TupleType) GetSpan() position.Span { return t.Span }
func (t *TupleType) typeNode()              {}
func (t *TupleType) String() string         { return "(" + joinNodes(t.Elements, ", ") + ")" }

// FuncType: (Params) async throws -> Result
type FuncType struct {
	Span    position.Span
	Params  []*TupleTypeElement
	Effects Effects
	Result  Type
}

func (t *FuncType) GetSpan() position.Span { return t.Span }
func (t *FuncType) typeNode()              {}
func (t *FuncType) String() string {
	s := "(" + joinNodes(t.Params, ", ") + ")"
	if e := t.Effects.String(); e != "" {
		s += " " + e
	}
	return s + " -> " + t.Result.String()
}

// SpecifierType: inout T, some T, any T
type SpecifierType struct {
	Span      position.Span
	Specifier string
	Elem      Type
}

func (t *SpecifierType) GetSpan() position.Span { return t.Span }
func (t *SpecifierType) typeNode()              {}
func (t *SpecifierType) String() string         { return t.Specifier + " " + t.Elem.String() }

// CompositionType: A & B
type CompositionType struct {
	Span  position.Span
	Types []Type
}

func (t *CompositionType) GetSpan() position.Span { return t.Span }
func (t *CompositionType) typeNode()              {}
func (t *CompositionType) String() string         { return joinNodes(t.Types, " & ") }
