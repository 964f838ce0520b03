package ast

import (
	"strings"
	"testing"

	"github.com/orizon-lang/swiftparse/internal/position"
)

func span(start, end int) position.Span {
	return position.Span{
		Start: position.Position{Line: 1, Column: start + 1, Offset: start},
		End:   position.Position{Line: 1, Column: end + 1, Offset: end},
	}
}

func ident(name string, start int) *Ident {
	return &Ident{Span: span(start, start+len(name)), Name: name}
}

func TestModifierSetIsIdempotent(t *testing.T) {
	var a, b ModifierSet
	for _, m := range []Modifier{ModPublic, ModStatic, ModPublic, ModFinal} {
		a.Add(m)
	}
	for _, m := range []Modifier{ModFinal, ModStatic, ModPublic} {
		b.Add(m)
	}
	if a.Tags != b.Tags {
		t.Fatalf("order or repetition changed the set: %s vs %s", a.Tags, b.Tags)
	}
	if a.Tags.Len() != 3 {
		t.Fatalf("expected 3 distinct tags, got %d", a.Tags.Len())
	}
	if a.Add(ModStatic) {
		t.Fatalf("Add reported a repeated tag as new")
	}
	if !a.AddSetter(ModPrivate) || a.AddSetter(ModPrivate) {
		t.Fatalf("AddSetter did not merge duplicates")
	}
	if got := a.String(); got != "private(set) public static final" {
		t.Fatalf("String() = %q", got)
	}
}

func TestModifierVocabulary(t *testing.T) {
	words := []string{"infix", "postfix", "prefix", "mutating", "nonmutating", "private",
		"fileprivate", "internal", "public", "open", "indirect", "static", "class", "final",
		"override", "required", "convenience", "dynamic", "lazy", "optional", "weak",
		"unowned", "nonisolated"}
	for _, w := range words {
		m, ok := LookupModifier(w)
		if !ok {
			t.Fatalf("%q is not a modifier", w)
		}
		if m.String() != w {
			t.Fatalf("round trip of %q gave %q", w, m.String())
		}
	}
	if _, ok := LookupModifier("func"); ok {
		t.Fatalf("func must not be a modifier")
	}
	for _, w := range []string{"private", "fileprivate", "internal", "public", "open"} {
		m, _ := LookupModifier(w)
		if !m.IsVisibility() {
			t.Fatalf("%s should be a visibility level", w)
		}
	}
}

func TestAttributesMergeIdentical(t *testing.T) {
	var s ModifierSet
	s.AddAttribute(&Attribute{Name: "attr"})
	s.AddAttribute(&Attribute{Name: "attr"})
	s.AddAttribute(&Attribute{Name: "available", Args: "iOS 13", HasArgs: true})
	s.AddAttribute(&Attribute{Name: "available", Args: "macOS 10", HasArgs: true})
	if len(s.Attributes) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(s.Attributes))
	}
	if s.Attribute("available").Args != "iOS 13" {
		t.Fatalf("Attribute lookup returned the wrong entry")
	}
}

func TestNodeStrings(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "constant",
			node: &ConstantDecl{Bindings: []*Binding{
				{Pattern: &IdentPattern{Name: ident("foo", 4)}, Type: &NamedType{Name: ident("Int", 9)}, Init: &BasicLit{Value: "1"}},
				{Pattern: &IdentPattern{Name: ident("bar", 18)}, Init: &BasicLit{Value: "2"}},
			}},
			want: "let foo: Int = 1, bar = 2",
		},
		{
			name: "enum case",
			node: &EnumCaseDecl{Elements: []*EnumCaseElement{{
				Name:   ident("a", 5),
				Params: []*CaseParam{{Label: ident("x", 7), Type: &NamedType{Name: ident("Int", 10)}}, {Type: &NamedType{Name: ident("String", 15)}}},
			}}},
			want: "case a(x: Int, String)",
		},
		{
			name: "optional generic type",
			node: &OptionalType{Elem: &NamedType{Name: ident("Array", 0), Args: []Type{&NamedType{Name: ident("T", 6)}}}},
			want: "Array<T>?",
		},
		{
			name: "enum case pattern",
			node: &EnumCasePattern{LeadingDot: true, Path: []*Ident{ident("some", 1)},
				Args: []Pattern{&ValueBindingPattern{Introducer: "let", Pattern: &IdentPattern{Name: ident("x", 10)}}}},
			want: ".some(let x)",
		},
		{
			name: "empty switch",
			node: &SwitchStmt{Subject: ident("foo", 7)},
			want: "switch foo { }",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInspectVisitsInSourceOrder(t *testing.T) {
	fn := &FuncDecl{
		DeclBase: DeclBase{Span: span(0, 30)},
		Name:     ident("foo", 5),
		Params: []*Param{{
			Span: span(9, 15),
			Name: ident("x", 9),
			Type: &NamedType{Span: span(12, 15), Name: ident("Int", 12)},
		}},
		Body: &BlockStmt{Span: span(17, 30)},
	}
	var names []string
	Inspect(fn, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if got := strings.Join(names, ","); got != "foo,x,Int" {
		t.Fatalf("visited %s", got)
	}
}

func TestCheckOwnership(t *testing.T) {
	shared := ident("x", 4)
	bad := &TuplePattern{Span: span(0, 10), Elements: []Pattern{
		&IdentPattern{Name: shared},
		&IdentPattern{Name: shared},
	}}
	if err := CheckOwnership(bad); err == nil {
		t.Fatalf("expected shared node to be reported")
	}

	escaping := &TuplePattern{Span: span(0, 3), Elements: []Pattern{&IdentPattern{Name: ident("long", 1)}}}
	if err := CheckOwnership(escaping); err == nil {
		t.Fatalf("expected escaping span to be reported")
	}

	good := &TuplePattern{Span: span(0, 8), Elements: []Pattern{
		&IdentPattern{Name: ident("a", 1)},
		&IdentPattern{Name: ident("b", 4)},
	}}
	if err := CheckOwnership(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileDecls(t *testing.T) {
	b := NewBuilder("main.swift")
	b.AddDecl(&ImportDecl{Path: []*Ident{ident("foo", 7)}})
	b.Add(&ThrowStmt{Value: ident("err", 6)})
	b.AddDecl(nil)
	f := b.File()
	if len(f.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(f.Items))
	}
	decls := f.Decls()
	if len(decls) != 1 || decls[0].Kind() != DeclImport {
		t.Fatalf("unexpected decls %v", decls)
	}
	if f.Span.Start.Line != 1 {
		t.Fatalf("empty token stream should give a file-start span, got %v", f.Span)
	}
}
