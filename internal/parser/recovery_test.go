package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/ast"
)

func parseRecover(t *testing.T, src string) (*ast.File, ErrorList) {
	t.Helper()
	file, err := ParseFile(context.Background(), "recover.swift", src, WithRecovery())
	require.NotNil(t, file)
	if err == nil {
		return file, nil
	}
	list, ok := err.(ErrorList)
	require.True(t, ok)
	return file, list
}

func declNames(file *ast.File) []string {
	var names []string
	for _, d := range file.Decls() {
		switch d := d.(type) {
		case *ast.FuncDecl:
			names = append(names, d.Name.Name)
		case *ast.NominalTypeDecl:
			names = append(names, d.Name.Name)
		case *ast.ConstantDecl:
			names = append(names, d.Bindings[0].Pattern.String())
		}
	}
	return names
}

func TestRecoverMalformedParameterList(t *testing.T) {
	src := "func foo( { }\nfunc bar() { }"

	file, errs := parseRecover(t, src)
	require.Len(t, errs, 1)
	require.Equal(t, MalformedDeclaration, errs[0].Kind)
	require.Equal(t, ast.DeclFunction, errs[0].Decl)
	require.Equal(t, 1, errs[0].Pos.Line)
	require.NotEmpty(t, errs[0].Hint)
	require.Equal(t, []string{"bar"}, declNames(file))

	strict, err := ParseFile(context.Background(), "strict.swift", src)
	require.Nil(t, strict)
	require.Len(t, err.(ErrorList), 1)
}

func TestRecoverSeveralRegions(t *testing.T) {
	src := "let = 1\nfunc ok() { }\nclass { }\nlet y = 2"
	file, errs := parseRecover(t, src)
	require.Equal(t, []ErrorKind{MalformedDeclaration, MalformedDeclaration}, errs.Kinds())
	require.Equal(t, ast.DeclConstant, errs[0].Decl)
	require.Equal(t, ast.DeclClass, errs[1].Decl)
	require.Less(t, errs[0].Pos.Offset, errs[1].Pos.Offset)
	require.Equal(t, []string{"ok", "y"}, declNames(file))
}

func TestRecoverInsideBlock(t *testing.T) {
	src := "func f() {\n  let = 1\n  let ok = 2\n}\nfunc g() { }"
	file, errs := parseRecover(t, src)
	require.Len(t, errs, 1)
	require.Equal(t, []string{"f", "g"}, declNames(file))
	f := file.Decls()[0].(*ast.FuncDecl)
	require.Len(t, f.Body.Stmts, 1)
}

func TestRecoverInsideMembers(t *testing.T) {
	src := "class C {\n  5\n  func f() { }\n}\nlet z = 3"
	file, errs := parseRecover(t, src)
	require.Equal(t, []ErrorKind{UnexpectedToken}, errs.Kinds())
	require.Equal(t, []string{"C", "z"}, declNames(file))
	c := file.Decls()[0].(*ast.NominalTypeDecl)
	require.Len(t, c.Members, 1)
}

func TestRecoverSwitchClauses(t *testing.T) {
	src := "switch v {\ncase let :\n  break\ncase 2:\n  break\n}"
	file, errs := parseRecover(t, src)
	require.Len(t, errs, 1)
	sw := file.Items[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 1)
	require.Equal(t, "2", sw.Cases[0].Items[0].Pattern.String())
}

func TestUnterminatedBlock(t *testing.T) {
	src := "func f() {\n  let x = 1\n"
	_, errs := parseRecover(t, src)
	require.Equal(t, []ErrorKind{UnterminatedBlock}, errs.Kinds())
	require.Contains(t, errs[0].Message, "1:10")

	_, err := ParseFile(context.Background(), "u.swift", "class C {\n  func f() { }\n")
	require.Equal(t, []ErrorKind{UnterminatedBlock}, err.(ErrorList).Kinds())
}

func TestLexErrorsAreReported(t *testing.T) {
	src := "let s = \"abc\nlet y = 2"
	file, errs := parseRecover(t, src)
	require.Equal(t, []ErrorKind{LexError, MalformedDeclaration}, errs.Kinds())
	require.Equal(t, 8, errs[0].Pos.Offset)
	require.Equal(t, []string{"y"}, declNames(file))
}

func TestErrorMessages(t *testing.T) {
	_, err := ParseFile(context.Background(), "msg.swift", "func foo( { }")
	require.Error(t, err)
	msg := err.Error()
	require.True(t, strings.HasPrefix(msg, "msg.swift:1:11: malformed function declaration: expected parameter name"), msg)
	require.Contains(t, msg, "(expected identifier, _)")
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"func f() {", true},
		{"struct S {\n  var x: Int", true},
		{"let x = 1 +", true},
		{"func f(", true},
		{"/* open", true},
		{"let = 1", false},
		{"let x = 1", false},
		{"func f(a b) {", false},
	}
	for _, tt := range tests {
		_, err := ParseFile(context.Background(), "repl", tt.src, WithRecovery())
		if got := IsIncomplete(err, tt.src); got != tt.want {
			t.Errorf("IsIncomplete(%q) = %v, want %v (err: %v)", tt.src, got, tt.want, err)
		}
	}
}
