package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/parser"
)

const sample = `import struct Foo.Bar
public static func f(a: Int) throws -> Int {
  return a
}
`

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestEncode(t *testing.T) {
	f, err := parser.ParseFile(context.Background(), "sample.swift", sample)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f, nil, Options{}))
	doc := decode(t, buf.Bytes())

	require.Equal(t, SchemaVersion, doc["schema_version"])
	require.Equal(t, "sample.swift", doc["file"])
	require.NotContains(t, doc, "tokens")
	require.NotContains(t, doc, "errors")

	tree := doc["tree"].(map[string]any)
	require.Equal(t, "File", tree["node"])
	items := tree["items"].([]any)
	require.Len(t, items, 2)

	imp := items[0].(map[string]any)["decl"].(map[string]any)
	require.Equal(t, "ImportDecl", imp["node"])
	require.Equal(t, "import", imp["decl_kind"])
	require.Equal(t, "struct", imp["import_kind"])
	require.Len(t, imp["path"], 2)

	fn := items[1].(map[string]any)["decl"].(map[string]any)
	require.Equal(t, "FuncDecl", fn["node"])
	mods := fn["mods"].(map[string]any)
	require.Equal(t, []any{"public", "static"}, mods["tags"])
	require.Equal(t, map[string]any{"throws": true}, fn["effects"])

	span := fn["span"].(map[string]any)
	require.Equal(t, map[string]any{"line": float64(2), "column": float64(1)}, span["start"])
}

func TestEncodeSortedKeys(t *testing.T) {
	f, err := parser.ParseFile(context.Background(), "sample.swift", sample)
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, f, nil, Options{Indent: true}))
	require.NoError(t, Encode(&b, f, nil, Options{Indent: true}))
	require.Equal(t, a.String(), b.String())

	out := a.String()
	require.Less(t, strings.Index(out, `"file"`), strings.Index(out, `"schema_version"`))
	require.Less(t, strings.Index(out, `"schema_version"`), strings.Index(out, `"tree"`))

	short, err := parser.ParseFile(context.Background(), "a.swift", "let x = 1")
	require.NoError(t, err)
	var c bytes.Buffer
	require.NoError(t, Encode(&c, short, []error{errors.New("late")}, Options{Tokens: true}))
	compact := c.String()
	require.True(t, strings.HasPrefix(compact, `{"errors":["late"],"file":"a.swift","schema_version":"`+SchemaVersion+`","tokens":[`), compact)
	require.Less(t, strings.Index(compact, `"tokens"`), strings.Index(compact, `"tree"`))
}

func TestEncodeTokensAndErrors(t *testing.T) {
	f, err := parser.ParseFile(context.Background(), "t.swift", "let x = 1\nfunc (", parser.WithRecovery())
	require.Error(t, err)
	var list parser.ErrorList
	require.True(t, errors.As(err, &list))

	var errs []error
	for _, e := range list {
		errs = append(errs, e)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f, errs, Options{Tokens: true, Offsets: true}))
	doc := decode(t, buf.Bytes())

	toks := doc["tokens"].([]any)
	first := toks[0].(map[string]any)
	require.Equal(t, "LET", first["type"])
	require.Equal(t, "keyword", first["kind"])
	require.Equal(t, true, first["newline_before"])
	start := first["span"].(map[string]any)["start"].(map[string]any)
	require.Equal(t, float64(0), start["offset"])

	require.Len(t, doc["errors"], len(list))
}

func TestEncodeNilFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, []error{errors.New("boom")}, Options{}))
	doc := decode(t, buf.Bytes())
	require.Equal(t, map[string]any{}, doc["tree"])
	require.Equal(t, []any{"boom"}, doc["errors"])
}

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		constraint string
		ok         bool
	}{
		{"", true},
		{"^1.0", true},
		{">= 1.1, < 2", true},
		{"~1.1", true},
		{"^2", false},
		{"< 1.1", false},
	}
	for _, tt := range tests {
		err := CheckSchema(tt.constraint)
		if tt.ok {
			require.NoError(t, err, tt.constraint)
		} else {
			require.Error(t, err, tt.constraint)
		}
	}

	require.ErrorContains(t, CheckSchema("not a version"), "invalid schema constraint")
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"Name":         "name",
		"SetterAccess": "setter_access",
		"ImportKind":   "import_kind",
		"HasArgs":      "has_args",
		"URLPath":      "url_path",
	} {
		require.Equal(t, want, snakeCase(in))
	}
}

func TestDump(t *testing.T) {
	f, err := parser.ParseFile(context.Background(), "sample.swift", "let x = 1\n")
	require.NoError(t, err)
	out := DumpString(f)
	require.Contains(t, out, "ast.File")
	require.Contains(t, out, "ConstantDecl")
}

func TestEncodeZeroEnumerations(t *testing.T) {
	f, err := parser.ParseFile(context.Background(), "op.swift", "infix operator <+>\n")
	require.NoError(t, err)
	tree := Value(f, Options{})
	decl := tree["items"].([]any)[0].(map[string]any)["decl"].(map[string]any)
	require.Equal(t, "OperatorDecl", decl["node"])
	require.Equal(t, "infix", decl["fixity"])
	require.Equal(t, "<+>", decl["symbol"])
}
