package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/cli"
	"github.com/orizon-lang/swiftparse/internal/config"
	"github.com/orizon-lang/swiftparse/internal/parser"
)

// scripted feeds fixed lines to the REPL.
type scripted struct {
	lines   []string
	prompts []string
	history []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scripted) AppendHistory(item string) { s.history = append(s.history, item) }

func testEnv() (*env, *bytes.Buffer, *bytes.Buffer) {
	var out, logs bytes.Buffer
	return &env{
		cfg: config.Default(),
		log: cli.NewLogger(&logs, cli.LevelWarning, false),
		out: &out,
		in:  strings.NewReader(""),
	}, &out, &logs
}

func TestReadEntryContinues(t *testing.T) {
	s := &scripted{lines: []string{"func f() {", "  return 1", "}", "let x = 1"}}
	src, ok := readEntry(s, parser.Options{})
	require.True(t, ok)
	require.Equal(t, "func f() {\n  return 1\n}", src)
	require.Equal(t, []string{promptMain, promptCont, promptCont}, s.prompts)

	src, ok = readEntry(s, parser.Options{})
	require.True(t, ok)
	require.Equal(t, "let x = 1", src)

	_, ok = readEntry(s, parser.Options{})
	require.False(t, ok)
}

func TestReadEntryBlankLineEndsEntry(t *testing.T) {
	s := &scripted{lines: []string{"struct S {", ""}}
	src, ok := readEntry(s, parser.Options{})
	require.True(t, ok)
	require.Equal(t, "struct S {\n", src)
}

func TestRepl(t *testing.T) {
	e, out, logs := testEnv()
	s := &scripted{lines: []string{"import Foo", "let = 1", ":json", "let y = 2", ":quit", "let z = 3"}}
	e.repl(s)

	require.Contains(t, out.String(), "*ast.DeclStmt import Foo")
	require.Contains(t, out.String(), "output: json")
	require.Contains(t, out.String(), `"schema_version"`)
	require.Contains(t, logs.String(), "Error")
	require.Equal(t, []string{"import Foo", "let = 1", "let y = 2"}, s.history)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReplReportsWriteErrors(t *testing.T) {
	e, _, logs := testEnv()
	e.out = failingWriter{}
	e.repl(&scripted{lines: []string{":json", "let y = 2", ":dump", "let z = 3"}})

	require.Equal(t, 2, e.log.ErrorCount())
	require.Contains(t, logs.String(), "failed to write json output: disk full")
	require.Contains(t, logs.String(), "failed to write dump output: disk full")
}

func TestWriteTokens(t *testing.T) {
	var out, logs bytes.Buffer
	log := cli.NewLogger(&logs, cli.LevelWarning, false)
	require.True(t, writeTokens(&out, log, "t.swift", "let x = 1"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "keyword")
	require.Contains(t, lines[0], `"let"`)
	require.Contains(t, lines[3], "INTEGER")

	out.Reset()
	require.False(t, writeTokens(&out, log, "t.swift", "let s = \"open\n"))
	require.Equal(t, 1, log.ErrorCount())
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.swift"), []byte("let a = 1\n"), 0o644))

	e, out, _ := testEnv()
	require.True(t, e.check(context.Background(), []string{dir}))
	require.Contains(t, out.String(), "1 files, 0 failed, 0 errors")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.swift"), []byte("func (\n"), 0o644))
	out.Reset()
	require.False(t, e.check(context.Background(), []string{dir}))
	require.Contains(t, out.String(), "2 files, 1 failed")
}

func TestReadSourceStdin(t *testing.T) {
	e, _, _ := testEnv()
	e.in = strings.NewReader("let a = 1")
	name, src, err := e.readSource("-")
	require.NoError(t, err)
	require.Equal(t, "<stdin>", name)
	require.Equal(t, "let a = 1", src)

	_, _, err = e.readSource(filepath.Join(t.TempDir(), "missing.swift"))
	require.ErrorContains(t, err, "failed to read")
}
