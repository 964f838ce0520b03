package ast

import "fmt"

// Visitor is invoked for each node encountered by Walk. If the returned
// visitor w is not nil, Walk visits each child of node with w, followed by
// a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree calling f for every node; returning false
// skips the node's children. f is called with nil after the children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct children of node in source order. Absent
// optional children are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if !isNil(n) {
				out = append(out, n)
			}
		}
	}

	switch n := node.(type) {
	case *File:
		for _, item := range n.Items {
			add(item)
		}

	// declarations
	case *ImportDecl:
		addMods(add, &n.Mods)
		for _, p := range n.Path {
			add(p)
		}
	case *ConstantDecl:
		addMods(add, &n.Mods)
		for _, b := range n.Bindings {
			add(b)
		}
	case *VariableDecl:
		addMods(add, &n.Mods)
		for _, b := range n.Bindings {
			add(b)
		}
		add(n.Body)
		for _, a := range n.Accessors {
			add(a)
		}
	case *Binding:
		add(n.Pattern, n.Type, n.Init)
	case *Accessor:
		addMods(add, &n.Mods)
		add(n.Param, n.Body)
	case *TypeAliasDecl:
		addMods(add, &n.Mods)
		add(n.Name)
		addGenerics(add, n.Generics)
		add(n.Aliased)
	case *GenericParam:
		add(n.Name, n.Constraint)
	case *Requirement:
		add(n.Left, n.Right)
	case *FuncDecl:
		addMods(add, &n.Mods)
		add(n.Name)
		addGenerics(add, n.Generics)
		addParams(add, n.Params)
		add(n.Result)
		addWhere(add, n.Where)
		add(n.Body)
	case *InitDecl:
		addMods(add, &n.Mods)
		addGenerics(add, n.Generics)
		addParams(add, n.Params)
		addWhere(add, n.Where)
		add(n.Body)
	case *DeinitDecl:
		addMods(add, &n.Mods)
		add(n.Body)
	case *SubscriptDecl:
		addMods(add, &n.Mods)
		addGenerics(add, n.Generics)
		addParams(add, n.Params)
		add(n.Result)
		addWhere(add, n.Where)
		add(n.Body)
		for _, a := range n.Accessors {
			add(a)
		}
	case *Param:
		add(n.Label, n.Name, n.Type, n.Default)
	case *NominalTypeDecl:
		addMods(add, &n.Mods)
		add(n.Name)
		addGenerics(add, n.Generics)
		for _, t := range n.Inherits {
			add(t)
		}
		addWhere(add, n.Where)
		for _, m := range n.Members {
			add(m)
		}
	case *ExtensionDecl:
		addMods(add, &n.Mods)
		add(n.Extended)
		for _, t := range n.Inherits {
			add(t)
		}
		addWhere(add, n.Where)
		for _, m := range n.Members {
			add(m)
		}
	case *EnumCaseDecl:
		addMods(add, &n.Mods)
		for _, e := range n.Elements {
			add(e)
		}
	case *EnumCaseElement:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.RawValue)
	case *CaseParam:
		add(n.Label, n.Type, n.Default)
	case *AssociatedTypeDecl:
		addMods(add, &n.Mods)
		add(n.Name)
		for _, t := range n.Inherits {
			add(t)
		}
		add(n.Default)
	case *OperatorDecl:
		addMods(add, &n.Mods)
		add(n.PrecedenceGroup)
	case *Attribute:

	// statements
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *DeclStmt:
		add(n.Decl)
	case *ExprStmt:
		add(n.X)
	case *ForInStmt:
		add(n.Pattern, n.Sequence, n.Where, n.Body)
	case *WhileStmt:
		for _, c := range n.Conditions {
			add(c)
		}
		add(n.Body)
	case *RepeatWhileStmt:
		add(n.Body, n.Condition)
	case *DoCatchStmt:
		add(n.Body)
		for _, c := range n.Catches {
			add(c)
		}
	case *CatchClause:
		add(n.Pattern, n.Where, n.Body)
	case *IfStmt:
		for _, c := range n.Conditions {
			add(c)
		}
		add(n.Then, n.Else)
	case *GuardStmt:
		for _, c := range n.Conditions {
			add(c)
		}
		add(n.Else)
	case *SwitchStmt:
		add(n.Subject)
		for _, c := range n.Cases {
			add(c)
		}
	case *CaseClause:
		for _, it := range n.Items {
			add(it)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *CaseItem:
		add(n.Pattern, n.Where)
	case *LabeledStmt:
		add(n.Label, n.Stmt)
	case *ThrowStmt:
		add(n.Value)
	case *ReturnStmt:
		add(n.Value)
	case *BranchStmt:
		add(n.Label)
	case *DeferStmt:
		add(n.Body)
	case *ExprCondition:
		add(n.X)
	case *CaseCondition:
		add(n.Pattern, n.Value)
	case *BindingCondition:
		add(n.Pattern, n.Type, n.Value)

	// patterns
	case *IdentPattern:
		add(n.Name)
	case *WildcardPattern:
	case *TuplePattern:
		for _, e := range n.Elements {
			add(e)
		}
	case *ValueBindingPattern:
		add(n.Pattern)
	case *ExprPattern:
		add(n.X)
	case *EnumCasePattern:
		for _, p := range n.Path {
			add(p)
		}
		for _, a := range n.Args {
			add(a)
		}
	case *IsPattern:
		add(n.Type)
	case *TypedPattern:
		add(n.Pattern, n.Type)
	case *CastPattern:
		add(n.Pattern, n.Type)

	// expressions
	case *Ident, *BasicLit, *ClosureExpr, *PoundExpr:
	case *MemberExpr:
		add(n.X, n.Name)
	case *Argument:
		add(n.Label, n.Value)
	case *ParenExpr:
		add(n.X)
	case *TupleExpr:
		for _, a := range n.Elements {
			add(a)
		}
	case *CallExpr:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
		add(n.Trailing)
	case *SubscriptExpr:
		add(n.X)
		for _, a := range n.Args {
			add(a)
		}
	case *ArrayExpr:
		for _, e := range n.Elements {
			add(e)
		}
	case *DictEntry:
		add(n.Key, n.Value)
	case *DictExpr:
		for _, e := range n.Entries {
			add(e)
		}
	case *BinaryExpr:
		add(n.X, n.Y)
	case *PrefixExpr:
		add(n.X)
	case *PostfixExpr:
		add(n.X)
	case *TernaryExpr:
		add(n.Cond, n.Then, n.Else)
	case *CastExpr:
		add(n.X, n.Type)
	case *TryExpr:
		add(n.X)
	case *AwaitExpr:
		add(n.X)
	case *AssignExpr:
		add(n.Target, n.Value)
	case *KeyPathExpr:
		add(n.Root)
		for _, c := range n.Components {
			add(c)
		}

	// types
	case *NamedType:
		add(n.Base, n.Name)
		for _, a := range n.Args {
			add(a)
		}
	case *OptionalType:
		add(n.Elem)
	case *ArrayType:
		add(n.Elem)
	case *DictType:
		add(n.Key, n.Value)
	case *TupleTypeElement:
		add(n.Label, n.Type)
	case *TupleType:
		for _, e := range n.Elements {
			add(e)
		}
	case *FuncType:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Result)
	case *SpecifierType:
		add(n.Elem)
	case *CompositionType:
		for _, t := range n.Types {
			add(t)
		}

	default:
		panic(fmt.Sprintf("ast.Children: unexpected node type %T", n))
	}
	return out
}

func addMods(add func(...Node), mods *ModifierSet) {
	for _, a := range mods.Attributes {
		add(a)
	}
}

func addGenerics(add func(...Node), params []*GenericParam) {
	for _, g := range params {
		add(g)
	}
}

func addParams(add func(...Node), params []*Param) {
	for _, p := range params {
		add(p)
	}
}

func addWhere(add func(...Node), reqs []*Requirement) {
	for _, r := range reqs {
		add(r)
	}
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Ident:
		return v == nil
	case *BlockStmt:
		return v == nil
	case *NamedType:
		return v == nil
	case *ClosureExpr:
		return v == nil
	}
	return false
}
