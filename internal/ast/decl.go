package ast

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// DeclKind identifies a declaration form.
type DeclKind int

const (
	DeclNone DeclKind = iota
	DeclImport
	DeclConstant
	DeclVariable
	DeclTypealias
	DeclFunction
	DeclInit
	DeclDeinit
	DeclSubscript
	DeclClass
	DeclStruct
	DeclEnum
	DeclProtocol
	DeclExtension
	DeclEnumCase
	DeclAssociatedType
	DeclOperator
)

var declKindNames = map[DeclKind]string{
	DeclNone:           "none",
	DeclImport:         "import",
	DeclConstant:       "constant",
	DeclVariable:       "variable",
	DeclTypealias:      "typealias",
	DeclFunction:       "function",
	DeclInit:           "initializer",
	DeclDeinit:         "deinitializer",
	DeclSubscript:      "subscript",
	DeclClass:          "class",
	DeclStruct:         "struct",
	DeclEnum:           "enum",
	DeclProtocol:       "protocol",
	DeclExtension:      "extension",
	DeclEnumCase:       "enum case",
	DeclAssociatedType: "associatedtype",
	DeclOperator:       "operator",
}

func (k DeclKind) String() string {
	if name, ok := declKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

// DeclBase holds what every declaration carries.
type DeclBase struct {
	Span position.Span
	Mods ModifierSet
}

func (d *DeclBase) GetSpan() position.Span  { return d.Span }
func (d *DeclBase) Modifiers() *ModifierSet { return &d.Mods }
func (d *DeclBase) declNode()               {}

func (d *DeclBase) prefix() string {
	if d.Mods.IsEmpty() {
		return ""
	}
	return d.Mods.String() + " "
}

// ImportDecl: import [kind] a.b.c
type ImportDecl struct {
	DeclBase
	ImportKind string // struct, class, enum, protocol, typealias, let, var, func or empty
	Path       []*Ident
}

func (d *ImportDecl) Kind() DeclKind { return DeclImport }
func (d *ImportDecl) String() string {
	kind := ""
	if d.ImportKind != "" {
		kind = d.ImportKind + " "
	}
	return d.prefix() + "import " + kind + joinNodes(d.Path, ".")
}

// Binding is one pattern [: type] [= initializer] clause of let/var.
type Binding struct {
	Span    position.Span
	Pattern Pattern
	Type    Type // nil when absent
	Init    Expr // nil when absent
}

func (b *Binding) GetSpan() position.Span { return b.Span }
func (b *Binding) String() string {
	var sb strings.Builder
	sb.WriteString(b.Pattern.String())
	if b.Type != nil {
		sb.WriteString(": " + b.Type.String())
	}
	if b.Init != nil {
		sb.WriteString(" = " + b.Init.String())
	}
	return sb.String()
}

// ConstantDecl: let bindings
type ConstantDecl struct {
	DeclBase
	Bindings []*Binding
}

func (d *ConstantDecl) Kind() DeclKind { return DeclConstant }
func (d *ConstantDecl) String() string {
	return d.prefix() + "let " + joinNodes(d.Bindings, ", ")
}

// VariableDecl: var bindings, optionally followed by a body block or an
// accessor block. At most one of Body and Accessors is set.
type VariableDecl struct {
	DeclBase
	Bindings  []*Binding
	Body      *BlockStmt
	Accessors []*Accessor
}

func (d *VariableDecl) Kind() DeclKind { return DeclVariable }
func (d *VariableDecl) String() string {
	s := d.prefix() + "var " + joinNodes(d.Bindings, ", ")
	switch {
	case d.Body != nil:
		s += " " + d.Body.String()
	case len(d.Accessors) > 0:
		s += " { " + joinNodes(d.Accessors, " ") + " }"
	}
	return s
}

// Accessor is a get, set, willSet or didSet clause. Body is nil for
// protocol requirements such as { get set }.
type Accessor struct {
	Span  position.Span
	Mods  ModifierSet
	Name  string
	Param *Ident // set(newValue)
	Body  *BlockStmt
}

func (a *Accessor) GetSpan() position.Span { return a.Span }
func (a *Accessor) String() string {
	s := a.Name
	if !a.Mods.IsEmpty() {
		s = a.Mods.String() + " " + s
	}
	if a.Param != nil {
		s += "(" + a.Param.Name + ")"
	}
	if a.Body != nil {
		s += " " + a.Body.String()
	}
	return s
}

// GenericParam is one entry of a <...> parameter list.
type GenericParam struct {
	Span       position.Span
	Name       *Ident
	Constraint Type // nil when unconstrained
}

func (g *GenericParam) GetSpan() position.Span { return g.Span }
func (g *GenericParam) String() string {
	if g.Constraint != nil {
		return g.Name.String() + ": " + g.Constraint.String()
	}
	return g.Name.String()
}

// Requirement is one where-clause entry: T: P or T == U.
type Requirement struct {
	Span     position.Span
	Left     Type
	Relation string // ":" or "=="
	Right    Type
}

func (r *Requirement) GetSpan() position.Span { return r.Span }
func (r *Requirement) String() string {
	if r.Relation == ":" {
		return r.Left.String() + ": " + r.Right.String()
	}
	return r.Left.String() + " " + r.Relation + " " + r.Right.String()
}

func genericsString(params []*GenericParam) string {
	if params == nil {
		return ""
	}
	return "<" + joinNodes(params, ", ") + ">"
}

func whereString(reqs []*Requirement) string {
	if len(reqs) == 0 {
		return ""
	}
	return " where " + joinNodes(reqs, ", ")
}

func inheritString(types []Type) string {
	if len(types) == 0 {
		return ""
	}
	return ": " + joinNodes(types, ", ")
}

// TypeAliasDecl: typealias Name<params> = Type
type TypeAliasDecl struct {
	DeclBase
	Name     *Ident
	Generics []*GenericParam
	Aliased  Type
}

func (d *TypeAliasDecl) Kind() DeclKind { return DeclTypealias }
func (d *TypeAliasDecl) String() string {
	return d.prefix() + "typealias " + d.Name.String() + genericsString(d.Generics) + " = " + d.Aliased.String()
}

// Param is a function, initializer or subscript parameter.
//
//	x: Int       Name x
//	_: Int       NoLabel, no Name
//	_ x: Int     NoLabel, Name x
//	x y: Int     Label x, Name y
type Param struct {
	Span     position.Span
	Label    *Ident // external label when distinct from Name
	NoLabel  bool   // written with a leading _
	Name     *Ident
	Type     Type
	Variadic bool
	Default  Expr
}

func (p *Param) GetSpan() position.Span { return p.Span }
func (p *Param) String() string {
	var names []string
	if p.NoLabel {
		names = append(names, "_")
	}
	if p.Label != nil {
		names = append(names, p.Label.Name)
	}
	if p.Name != nil {
		names = append(names, p.Name.Name)
	}
	s := strings.Join(names, " ") + ": " + p.Type.String()
	if p.Variadic {
		s += "..."
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// Effects are the async/throws/rethrows markers of a signature.
type Effects struct {
	Async    bool
	Throws   bool
	Rethrows bool
}

func (e Effects) String() string {
	var parts []string
	if e.Async {
		parts = append(parts, "async")
	}
	if e.Throws {
		parts = append(parts, "throws")
	}
	if e.Rethrows {
		parts = append(parts, "rethrows")
	}
	return strings.Join(parts, " ")
}

func signatureString(params []*Param, eff Effects, result Type) string {
	s := "(" + joinNodes(params, ", ") + ")"
	if e := eff.String(); e != "" {
		s += " " + e
	}
	if result != nil {
		s += " -> " + result.String()
	}
	return s
}

func bodyString(b *BlockStmt) string {
	if b == nil {
		return ""
	}
	return " " + b.String()
}

// FuncDecl: func name<params>(params) effects -> Result where ... { body }
type FuncDecl struct {
	DeclBase
	Name     *Ident // an operator spelling for operator implementations
	Generics []*GenericParam
	Params   []*Param
	Effects  Effects
	Result   Type // nil when omitted
	Where    []*Requirement
	Body     *BlockStmt // nil for requirements
}

func (d *FuncDecl) Kind() DeclKind { return DeclFunction }
func (d *FuncDecl) String() string {
	return d.prefix() + "func " + d.Name.String() + genericsString(d.Generics) +
		signatureString(d.Params, d.Effects, d.Result) + whereString(d.Where) + bodyString(d.Body)
}

// InitDecl: init[?|!]<params>(params) effects { body }
type InitDecl struct {
	DeclBase
	Failable string // "?", "!" or empty
	Generics []*GenericParam
	Params   []*Param
	Effects  Effects
	Where    []*Requirement
	Body     *BlockStmt
}

func (d *InitDecl) Kind() DeclKind { return DeclInit }
func (d *InitDecl) String() string {
	return d.prefix() + "init" + d.Failable + genericsString(d.Generics) +
		signatureString(d.Params, d.Effects, nil) + whereString(d.Where) + bodyString(d.Body)
}

// DeinitDecl: deinit { body }
type DeinitDecl struct {
	DeclBase
	Body *BlockStmt
}

func (d *DeinitDecl) Kind() DeclKind { return DeclDeinit }
func (d *DeinitDecl) String() string {
	return d.prefix() + "deinit" + bodyString(d.Body)
}

// SubscriptDecl: subscript(params) -> Result { accessors or body }
type SubscriptDecl struct {
	DeclBase
	Generics  []*GenericParam
	Params    []*Param
	Result    Type
	Where     []*Requirement
	Body      *BlockStmt
	Accessors []*Accessor
}

func (d *SubscriptDecl) Kind() DeclKind { return DeclSubscript }
func (d *SubscriptDecl) String() string {
	s := d.prefix() + "subscript" + genericsString(d.Generics) +
		signatureString(d.Params, Effects{}, d.Result) + whereString(d.Where)
	switch {
	case d.Body != nil:
		s += bodyString(d.Body)
	case len(d.Accessors) > 0:
		s += " { " + joinNodes(d.Accessors, " ") + " }"
	}
	return s
}

// NominalKind distinguishes the nominal type declarations.
type NominalKind int

const (
	NominalClass NominalKind = iota
	NominalStruct
	NominalEnum
	NominalProtocol
)

func (k NominalKind) String() string {
	switch k {
	case NominalClass:
		return "class"
	case NominalStruct:
		return "struct"
	case NominalEnum:
		return "enum"
	case NominalProtocol:
		return "protocol"
	}
	return fmt.Sprintf("NominalKind(%d)", int(k))
}

// NominalTypeDecl is a class, struct, enum or protocol declaration.
type NominalTypeDecl struct {
	DeclBase
	TypeKind NominalKind
	Name     *Ident
	Generics []*GenericParam
	Inherits []Type
	Where    []*Requirement
	Members  []Decl
}

func (d *NominalTypeDecl) Kind() DeclKind {
	switch d.TypeKind {
	case NominalStruct:
		return DeclStruct
	case NominalEnum:
		return DeclEnum
	case NominalProtocol:
		return DeclProtocol
	}
	return DeclClass
}

func (d *NominalTypeDecl) String() string {
	return d.prefix() + d.TypeKind.String() + " " + d.Name.String() + genericsString(d.Generics) +
		inheritString(d.Inherits) + whereString(d.Where) + membersString(d.Members)
}

func membersString(members []Decl) string {
	if len(members) == 0 {
		return " { }"
	}
	return " { " + joinNodes(members, "; ") + " }"
}

// ExtensionDecl: extension Type: Protocols where ... { members }
type ExtensionDecl struct {
	DeclBase
	Extended Type
	Inherits []Type
	Where    []*Requirement
	Members  []Decl
}

func (d *ExtensionDecl) Kind() DeclKind { return DeclExtension }
func (d *ExtensionDecl) String() string {
	return d.prefix() + "extension " + d.Extended.String() + inheritString(d.Inherits) +
		whereString(d.Where) + membersString(d.Members)
}

// EnumCaseDecl: case a, b(Int), c = 1
type EnumCaseDecl struct {
	DeclBase
	Elements []*EnumCaseElement
}

func (d *EnumCaseDecl) Kind() DeclKind { return DeclEnumCase }
func (d *EnumCaseDecl) String() string {
	return d.prefix() + "case " + joinNodes(d.Elements, ", ")
}

// EnumCaseElement is one case name with its associated values or raw value.
type EnumCaseElement struct {
	Span     position.Span
	Name     *Ident
	Params   []*CaseParam // nil when no parenthesized list was written
	RawValue Expr
}

func (e *EnumCaseElement) GetSpan() position.Span { return e.Span }
func (e *EnumCaseElement) String() string {
	s := e.Name.String()
	if e.Params != nil {
		s += "(" + joinNodes(e.Params, ", ") + ")"
	}
	if e.RawValue != nil {
		s += " = " + e.RawValue.String()
	}
	return s
}

// CaseParam is an associated value: [label:] Type [= default]
type CaseParam struct {
	Span    position.Span
	Label   *Ident
	Type    Type
	Default Expr
}

func (p *CaseParam) GetSpan() position.Span { return p.Span }
func (p *CaseParam) String() string {
	s := p.Type.String()
	if p.Label != nil {
		s = p.Label.Name + ": " + s
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// AssociatedTypeDecl: associatedtype Name: Constraints = Default
type AssociatedTypeDecl struct {
	DeclBase
	Name     *Ident
	Inherits []Type
	Default  Type
}

func (d *AssociatedTypeDecl) Kind() DeclKind { return DeclAssociatedType }
func (d *AssociatedTypeDecl) String() string {
	s := d.prefix() + "associatedtype " + d.Name.String() + inheritString(d.Inherits)
	if d.Default != nil {
		s += " = " + d.Default.String()
	}
	return s
}

// Fixity of an operator declaration.
type Fixity int

const (
	FixityInfix Fixity = iota
	FixityPrefix
	FixityPostfix
)

func (f Fixity) String() string {
	switch f {
	case FixityPrefix:
		return "prefix"
	case FixityPostfix:
		return "postfix"
	}
	return "infix"
}

// OperatorDecl: prefix|infix|postfix operator symbol [: group]
// The fixity modifier is moved out of Mods into Fixity.
type OperatorDecl struct {
	DeclBase
	Fixity          Fixity
	Symbol          string
	PrecedenceGroup *Ident
}

func (d *OperatorDecl) Kind() DeclKind { return DeclOperator }
func (d *OperatorDecl) String() string {
	s := d.prefix() + d.Fixity.String() + " operator " + d.Symbol
	if d.PrecedenceGroup != nil {
		s += ": " + d.PrecedenceGroup.Name
	}
	return s
}
