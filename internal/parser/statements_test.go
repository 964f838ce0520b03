package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/ast"
)

func TestCasePatternDisambiguation(t *testing.T) {
	src := `switch v {
case x:
  break
case let x:
  break
case _:
  break
case 1, 2:
  break
case .some(let y):
  break
case Foo.bar(_, 3):
  break
case is Int:
  break
}`
	sw, ok := firstStmt(t, src).(*ast.SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Cases, 7)

	x, ok := sw.Cases[0].Items[0].Pattern.(*ast.ExprPattern)
	require.True(t, ok, "case x is %T", sw.Cases[0].Items[0].Pattern)
	require.Equal(t, "x", x.X.(*ast.Ident).Name)

	bind, ok := sw.Cases[1].Items[0].Pattern.(*ast.ValueBindingPattern)
	require.True(t, ok)
	require.Equal(t, "let", bind.Introducer)
	require.IsType(t, &ast.IdentPattern{}, bind.Pattern)

	require.IsType(t, &ast.WildcardPattern{}, sw.Cases[2].Items[0].Pattern)

	arms := sw.Cases[3].Items
	require.Len(t, arms, 2)
	for i, want := range []string{"1", "2"} {
		lit, ok := arms[i].Pattern.(*ast.ExprPattern)
		require.True(t, ok)
		require.Equal(t, want, lit.X.(*ast.BasicLit).Value)
	}
	require.Len(t, sw.Cases[3].Body, 1)

	some, ok := sw.Cases[4].Items[0].Pattern.(*ast.EnumCasePattern)
	require.True(t, ok)
	require.True(t, some.LeadingDot)
	require.Equal(t, ".some(let y)", some.String())

	qualified, ok := sw.Cases[5].Items[0].Pattern.(*ast.EnumCasePattern)
	require.True(t, ok)
	require.Equal(t, "Foo.bar(_, 3)", qualified.String())

	require.IsType(t, &ast.IsPattern{}, sw.Cases[6].Items[0].Pattern)
}

func TestBindingPositionPatterns(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"for x in xs { }", "x"},
		{"for _ in xs { }", "_"},
		{"for (a, b) in pairs { }", "(a, b)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f := firstStmt(t, tt.src).(*ast.ForInStmt)
			require.Equal(t, tt.want, f.Pattern.String())
		})
	}
}

func TestEmptyCaseBodies(t *testing.T) {
	sw := firstStmt(t, "switch foo {\ncase _:\ndefault:\n}").(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	require.Empty(t, sw.Cases[0].Body)
	require.Empty(t, sw.Cases[1].Body)
	require.True(t, sw.Cases[1].Default)
	require.Same(t, sw.Cases[1], sw.DefaultClause())

	empty := firstStmt(t, "switch foo {\n}").(*ast.SwitchStmt)
	require.Empty(t, empty.Cases)
}

func TestCaseWhereGuards(t *testing.T) {
	sw := firstStmt(t, "switch foo {\ncase true where true, false:\n  return 2\n}").(*ast.SwitchStmt)
	items := sw.Cases[0].Items
	require.Len(t, items, 2)
	require.Equal(t, "true", items[0].Where.String())
	require.Nil(t, items[1].Where)
}

func TestCastPatterns(t *testing.T) {
	sw := firstStmt(t, "switch foo {\ncase let x as Int:\n  break\ncase _ as String, is Bool:\n  break\n}").(*ast.SwitchStmt)
	binding, ok := sw.Cases[0].Items[0].Pattern.(*ast.ValueBindingPattern)
	require.True(t, ok)
	cast, ok := binding.Pattern.(*ast.CastPattern)
	require.True(t, ok)
	require.IsType(t, &ast.IdentPattern{}, cast.Pattern)
	require.Equal(t, "Int", cast.Type.String())
	require.Equal(t, "let x as Int", binding.String())

	wild, ok := sw.Cases[1].Items[0].Pattern.(*ast.CastPattern)
	require.True(t, ok)
	require.IsType(t, &ast.WildcardPattern{}, wild.Pattern)
	require.IsType(t, &ast.IsPattern{}, sw.Cases[1].Items[1].Pattern)

	dc := firstStmt(t, "do {} catch let e as MyError {}").(*ast.DoCatchStmt)
	require.Len(t, dc.Catches, 1)
	require.Equal(t, "let e as MyError", dc.Catches[0].Pattern.String())

	cond := firstStmt(t, "if case let (a, b) as (Int, Int) = pair {}").(*ast.IfStmt)
	cc, ok := cond.Conditions[0].(*ast.CaseCondition)
	require.True(t, ok)
	require.Equal(t, "pair", cc.Value.String())
	inner := cc.Pattern.(*ast.ValueBindingPattern).Pattern.(*ast.CastPattern)
	require.IsType(t, &ast.TuplePattern{}, inner.Pattern)
}

func TestStatementsBeforeFirstCase(t *testing.T) {
	_, err := ParseFile(context.Background(), "sw.swift", "switch foo {\n  x = 1\n}")
	require.Error(t, err)
	require.Equal(t, []ErrorKind{UnexpectedToken}, err.(ErrorList).Kinds())
}

func TestLabeledStatements(t *testing.T) {
	tests := []struct {
		src   string
		label string
		inner ast.Stmt
	}{
		{"outer: for x in collection { }", "outer", &ast.ForInStmt{}},
		{"foo: if 1 < 150 {\n}", "foo", &ast.IfStmt{}},
		{"baz: while async let x = true {}", "baz", &ast.WhileStmt{}},
		{"qux: do { var x = 2 } catch {}", "qux", &ast.DoCatchStmt{}},
		{"corn: switch foo {}", "corn", &ast.SwitchStmt{}},
		{"learn: repeat {} while true", "learn", &ast.RepeatWhileStmt{}},
		{"odd: x = 1", "odd", &ast.ExprStmt{}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			l, ok := firstStmt(t, tt.src).(*ast.LabeledStmt)
			require.True(t, ok)
			require.Equal(t, tt.label, l.Label.Name)
			require.IsType(t, tt.inner, l.Stmt)
		})
	}
}

func TestForInForms(t *testing.T) {
	tests := []struct {
		src   string
		try   string
		await bool
		where bool
	}{
		{"for x in collection {\n}", "", false, false},
		{"for await x in collection {\n}", "", true, false},
		{"for try await x in collection {\n}", "try", true, false},
		{"for try? await x in collection {\n}", "try?", true, false},
		{"for try! await x in collection {\n}", "try!", true, false},
		{"try await for x in collection {\n}", "try", true, false},
		{"for x in collection where true == true {\n}", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, ok := firstStmt(t, tt.src).(*ast.ForInStmt)
			require.True(t, ok)
			require.Equal(t, tt.try, f.Try)
			require.Equal(t, tt.await, f.Await)
			require.Equal(t, tt.where, f.Where != nil)
			require.Equal(t, "collection", f.Sequence.String())
		})
	}
}

func TestConditions(t *testing.T) {
	w := firstStmt(t, "while async var x : true = true {}").(*ast.WhileStmt)
	require.Len(t, w.Conditions, 1)
	b, ok := w.Conditions[0].(*ast.BindingCondition)
	require.True(t, ok)
	require.True(t, b.Async)
	require.Equal(t, "var", b.Introducer)
	require.Equal(t, "true", b.Type.String())
	require.Equal(t, "true", b.Value.String())

	c := firstStmt(t, "while case x = true {}").(*ast.WhileStmt)
	cc, ok := c.Conditions[0].(*ast.CaseCondition)
	require.True(t, ok)
	require.IsType(t, &ast.ExprPattern{}, cc.Pattern)

	multi := firstStmt(t, "if let a = b, a > 1, case .some(let c) = d {}").(*ast.IfStmt)
	require.Len(t, multi.Conditions, 3)
	require.IsType(t, &ast.BindingCondition{}, multi.Conditions[0])
	require.IsType(t, &ast.ExprCondition{}, multi.Conditions[1])
	require.IsType(t, &ast.CaseCondition{}, multi.Conditions[2])

	r := firstStmt(t, "repeat {} while async let x = 1").(*ast.RepeatWhileStmt)
	require.IsType(t, &ast.BindingCondition{}, r.Condition)
}

func TestMalformedCondition(t *testing.T) {
	for _, src := range []string{"if {}", "while case x {}"} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseFile(context.Background(), "cond.swift", src)
			require.Error(t, err)
			require.Equal(t, []ErrorKind{MalformedCondition}, err.(ErrorList).Kinds())
		})
	}
}

func TestIfElseChain(t *testing.T) {
	s := firstStmt(t, "if case x = true {} else if case x = false {} else {}").(*ast.IfStmt)
	elif, ok := s.Else.(*ast.IfStmt)
	require.True(t, ok)
	require.IsType(t, &ast.BlockStmt{}, elif.Else)
}

func TestDoCatch(t *testing.T) {
	src := "do {\n  var x = 2\n} catch foo {\n} catch bar where true == true {\n} catch {\n}"
	d := firstStmt(t, src).(*ast.DoCatchStmt)
	require.Len(t, d.Body.Stmts, 1)
	require.Len(t, d.Catches, 3)
	require.Equal(t, "foo", d.Catches[0].Pattern.String())
	require.Nil(t, d.Catches[0].Where)
	require.Equal(t, "true == true", d.Catches[1].Where.String())
	require.True(t, d.Catches[2].IsCatchAll())

	only := firstStmt(t, "do {\n} catch {}").(*ast.DoCatchStmt)
	require.Len(t, only.Catches, 1)
	require.True(t, only.Catches[0].IsCatchAll())
}

func TestSimpleStatements(t *testing.T) {
	file := mustParse(t, "throw badthing\nthrow badthingagain;\nreturn\nbreak outer\ncontinue\nfallthrough\ndefer { x() }\nguard let y = z else { return }")
	require.Len(t, file.Items, 8)
	require.Equal(t, "badthing", file.Items[0].(*ast.ThrowStmt).Value.String())
	require.Nil(t, file.Items[2].(*ast.ReturnStmt).Value)
	require.Equal(t, "outer", file.Items[3].(*ast.BranchStmt).Label.Name)
	require.Nil(t, file.Items[4].(*ast.BranchStmt).Label)
	require.Equal(t, "fallthrough", file.Items[5].(*ast.BranchStmt).Keyword)
	require.Len(t, file.Items[6].(*ast.DeferStmt).Body.Stmts, 1)
	require.IsType(t, &ast.GuardStmt{}, file.Items[7])
}

func TestSameLineStatementsNeedSemicolon(t *testing.T) {
	_, err := ParseFile(context.Background(), "semi.swift", "let a = 1 let b = 2")
	require.Error(t, err)
	require.Equal(t, []ErrorKind{UnexpectedToken}, err.(ErrorList).Kinds())

	mustParse(t, "let a = 1; let b = 2")
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "a + b * c"},
		{"x = a ?? b ?? c", "x = a ?? b ?? c"},
		{"a ? b : c", "a ? b : c"},
		{"foo(x: 1, 2)", "foo(x: 1, 2)"},
		{"a.b.c()", "a.b.c()"},
		{"opt?.value!", "opt?.value!"},
		{"x as? Int", "x as? Int"},
		{"-x", "-x"},
		{"[1, 2]", "[1, 2]"},
		{"[:]", "[:]"},
		{"arr[0] += 1", "arr[0] += 1"},
		{"try? foo()", "try? foo()"},
		{"await bar()", "await bar()"},
		{"xs.map { $0 + 1 }", "xs.map { $0 + 1 }"},
		{"#file", "#file"},
		{"\\Foo.bar", "\\Foo.bar"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s, ok := firstStmt(t, tt.src).(*ast.ExprStmt)
			require.True(t, ok)
			require.Equal(t, tt.want, s.String())
		})
	}
}
