package format

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/parser"
)

func TestTokens_SpacesAndLineBreaks(t *testing.T) {
	got, err := Source("t.swift", "let  x=1 // one\n\n  foo( x )\n", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "let x=1\nfoo( x )\n", got)
}

func TestTokens_EmptyInput(t *testing.T) {
	got, err := Source("t.swift", "  // nothing\n", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestTokens_Layout(t *testing.T) {
	src := "struct S {\nfunc f() {\nreturn [\n1,\n]\n}\n}\n"
	got, err := Source("t.swift", src, Options{Layout: true, IndentSize: 2})
	require.NoError(t, err)
	want := "struct S {\n  func f() {\n    return [\n      1,\n    ]\n  }\n}\n"
	require.Equal(t, want, got)
}

func TestTokens_TabsAndCRLF(t *testing.T) {
	got, err := Source("t.swift", "if a {\nb()\n}", Options{Layout: true, PreferTabs: true, CRLF: true})
	require.NoError(t, err)
	require.Equal(t, "if a {\r\n\tb()\r\n}\r\n", got)
}

func TestSource_LexErrors(t *testing.T) {
	_, err := Source("t.swift", "let s = \"open\n", DefaultOptions())
	require.Error(t, err)
}

func TestCompareTokens(t *testing.T) {
	lex := func(src string) []lexer.Token {
		toks, errs := lexer.All("t.swift", src)
		require.Empty(t, errs)
		return toks
	}

	tests := []struct {
		name  string
		a, b  string
		kinds []ChangeType
	}{
		{"equal", "a + b", "a  +  b", nil},
		{"spacing", "a + b", "a +b", []ChangeType{ChangeTypeLayout}},
		{"insert", "a b", "a x b", []ChangeType{ChangeTypeInsert}},
		{"delete", "a x b", "a b", []ChangeType{ChangeTypeDelete}},
		{"replace", "a x b", "a y b", []ChangeType{ChangeTypeDelete, ChangeTypeInsert}},
		{"layout", "a\nb", "a b", []ChangeType{ChangeTypeLayout}},
		{"trailing", "a", "a b c", []ChangeType{ChangeTypeInsert, ChangeTypeInsert}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompareTokens(lex(tt.a), lex(tt.b))
			var kinds []ChangeType
			for _, c := range result.Changes {
				kinds = append(kinds, c.Type)
			}
			require.Equal(t, tt.kinds, kinds)
			require.Equal(t, len(tt.kinds) > 0, result.HasChanges())
		})
	}
}

func TestFormatDiff(t *testing.T) {
	a, _ := lexer.All("t.swift", "a x b")
	b, _ := lexer.All("t.swift", "a b")
	out := FormatDiff("t.swift", CompareTokens(a, b))
	require.Contains(t, out, "--- t.swift")
	require.Contains(t, out, `-t.swift:1:3: IDENTIFIER "x"`)
	require.Contains(t, out, "1 changes in 3 tokens")
	require.Empty(t, FormatDiff("t.swift", CompareTokens(a, a)))
}

func TestRoundTripCorpus(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "parser", "testdata", "statements.swift"))
	require.NoError(t, err)

	for _, opts := range []Options{DefaultOptions(), {Layout: true, IndentSize: 4}, {Layout: true, PreferTabs: true, CRLF: true}} {
		out, result, err := RoundTrip("statements.swift", string(data), opts)
		require.NoError(t, err)
		require.False(t, result.HasChanges(), FormatDiff("statements.swift", result))

		// The serialized text must parse to a tree of the same shape.
		before, err := parser.ParseFile(context.Background(), "statements.swift", string(data))
		require.NoError(t, err)
		after, err := parser.ParseFile(context.Background(), "statements.swift", out)
		require.NoError(t, err)
		require.Equal(t, shape(before), shape(after))
	}
}

// shape lists the dynamic type of every node in walk order. Verbatim text
// such as closure bodies changes spacing in a round trip, so it is left out.
func shape(f *ast.File) []string {
	var out []string
	ast.Inspect(f, func(n ast.Node) bool {
		out = append(out, fmt.Sprintf("%T", n))
		return true
	})
	return out
}

func TestFileAndNode(t *testing.T) {
	src := "import Foo\nfunc f(a: Int) -> Int {\n  return a\n}\n"
	f, err := parser.ParseFile(context.Background(), "t.swift", src)
	require.NoError(t, err)
	require.Equal(t, "import Foo\nfunc f(a: Int) -> Int {\nreturn a\n}\n", File(f, DefaultOptions()))

	var ret ast.Node
	ast.Inspect(f, func(n ast.Node) bool {
		if _, ok := n.(*ast.ReturnStmt); ok {
			ret = n
		}
		return true
	})
	require.NotNil(t, ret)
	require.Equal(t, "return a\n", Node(f, ret, DefaultOptions()))
	require.Equal(t, "", File(nil, DefaultOptions()))
	require.True(t, strings.HasSuffix(Node(f, f.Items[1], DefaultOptions()), "}\n"))
}
