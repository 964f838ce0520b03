package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/ast"
)

func mustParse(t *testing.T, src string, opts ...Option) *ast.File {
	t.Helper()
	file, err := ParseFile(context.Background(), "test.swift", src, opts...)
	require.NoError(t, err, "source:\n%s", src)
	require.NotNil(t, file)
	return file
}

func firstDecl(t *testing.T, src string, opts ...Option) ast.Decl {
	t.Helper()
	decls := mustParse(t, src, opts...).Decls()
	require.NotEmpty(t, decls)
	return decls[0]
}

func firstStmt(t *testing.T, src string) ast.Stmt {
	t.Helper()
	file := mustParse(t, src)
	require.NotEmpty(t, file.Items)
	return file.Items[0]
}

func permutations(words []string) [][]string {
	if len(words) <= 1 {
		return [][]string{append([]string(nil), words...)}
	}
	var out [][]string
	for i := range words {
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		for _, perm := range permutations(rest) {
			out = append(out, append([]string{words[i]}, perm...))
		}
	}
	return out
}

func TestModifierPermutations(t *testing.T) {
	words := []string{"public", "static", "final", "private(set)"}
	want := ast.Tags(ast.ModPublic, ast.ModStatic, ast.ModFinal)

	for _, perm := range permutations(words) {
		src := strings.Join(perm, " ") + " func foo() { }"
		t.Run(src, func(t *testing.T) {
			fn, ok := firstDecl(t, src).(*ast.FuncDecl)
			require.True(t, ok)
			require.Equal(t, want, fn.Mods.Tags)
			require.Equal(t, ast.Tags(ast.ModPrivate), fn.Mods.SetterAccess)
		})
	}
}

func TestModifierSets(t *testing.T) {
	tests := []struct {
		mods  string
		tags  ast.ModifierTags
		attrs []string
	}{
		{"", 0, nil},
		{"public public", ast.Tags(ast.ModPublic), nil},
		{"static public static", ast.Tags(ast.ModPublic, ast.ModStatic), nil},
		{"class override", ast.Tags(ast.ModClass, ast.ModOverride), nil},
		{"open mutating nonmutating", ast.Tags(ast.ModOpen, ast.ModMutating, ast.ModNonmutating), nil},
		{"infix postfix prefix", ast.Tags(ast.ModInfix, ast.ModPostfix, ast.ModPrefix), nil},
		{"@attr @attr dynamic", ast.Tags(ast.ModDynamic), []string{"attr"}},
		{"@available(iOS 13, *) nonisolated", ast.Tags(ast.ModNonisolated), []string{"available"}},
		{"@a\n@b\nfileprivate", ast.Tags(ast.ModFileprivate), []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.mods, func(t *testing.T) {
			fn, ok := firstDecl(t, tt.mods+" func foo() { }").(*ast.FuncDecl)
			require.True(t, ok)
			require.Equal(t, tt.tags, fn.Mods.Tags)
			var names []string
			for _, a := range fn.Mods.Attributes {
				names = append(names, a.Name)
			}
			require.Equal(t, tt.attrs, names)
		})
	}
}

func TestAttributeArguments(t *testing.T) {
	fn := firstDecl(t, "@available(iOS 13, *) func foo() { }").(*ast.FuncDecl)
	attr := fn.Mods.Attribute("available")
	require.NotNil(t, attr)
	require.True(t, attr.HasArgs)
	require.Equal(t, "iOS 13, *", attr.Args)
}

func TestStrictModifiers(t *testing.T) {
	_, err := ParseFile(context.Background(), "dup.swift", "public public func foo() { }", WithStrictModifiers())
	require.Error(t, err)
	list, ok := err.(ErrorList)
	require.True(t, ok)
	require.Equal(t, []ErrorKind{DuplicateModifier}, list.Kinds())

	mustParse(t, "public public func foo() { }")
}

func TestUnexpectedDeclarationIntroducer(t *testing.T) {
	for _, src := range []string{"public 5", "@attr x = 1", "private(set) foo()"} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseFile(context.Background(), "bad.swift", src)
			require.Error(t, err)
			require.Equal(t, []ErrorKind{UnexpectedDeclarationIntroducer}, err.(ErrorList).Kinds())
		})
	}
}

func TestConstantBindings(t *testing.T) {
	type binding struct{ pattern, typ, init string }
	tests := []struct {
		src  string
		want []binding
	}{
		{"let foo = 3;", []binding{{"foo", "", "3"}}},
		{"let (foo) = 3;", []binding{{"(foo)", "", "3"}}},
		{"let foo: Int = 4;", []binding{{"foo", "Int", "4"}}},
		{"let (foo, bar) = (1, 2);", []binding{{"(foo, bar)", "", "(1, 2)"}}},
		{"let foo: Int = 1, bar = 2;", []binding{{"foo", "Int", "1"}, {"bar", "", "2"}}},
		{"let (foo: baz, bar) = (1, 2);", []binding{{"(foo: baz, bar)", "", "(1, 2)"}}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, ok := firstDecl(t, tt.src).(*ast.ConstantDecl)
			require.True(t, ok)
			require.Len(t, c.Bindings, len(tt.want))
			for i, b := range c.Bindings {
				got := binding{pattern: b.Pattern.String()}
				if b.Type != nil {
					got.typ = b.Type.String()
				}
				if b.Init != nil {
					got.init = b.Init.String()
				}
				require.Equal(t, tt.want[i], got)
			}
		})
	}
}

func TestIdempotentParse(t *testing.T) {
	src := readCorpus(t)
	a := mustParse(t, src)
	b := mustParse(t, src)
	require.Equal(t, a, b)
	require.Equal(t, a.String(), b.String())
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file, err := ParseFile(ctx, "c.swift", "let x = 1\nlet y = 2")
	require.Nil(t, file)
	require.Equal(t, []ErrorKind{Cancelled}, err.(ErrorList).Kinds())

	file, err = ParseFile(ctx, "c.swift", "let x = 1", WithRecovery())
	require.NotNil(t, file)
	require.Empty(t, file.Items)
	require.Equal(t, []ErrorKind{Cancelled}, err.(ErrorList).Kinds())
}

func TestOwnership(t *testing.T) {
	file := mustParse(t, readCorpus(t))
	require.NoError(t, ast.CheckOwnership(file))
}

func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "// only a comment\n", ";;;"} {
		file := mustParse(t, src)
		require.Empty(t, file.Items)
	}
}
