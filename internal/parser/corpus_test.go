package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/ast"
)

const corpusFile = "statements.swift"

func readCorpus(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", corpusFile))
	require.NoError(t, err)
	return string(data)
}

// TestCorpus parses the whole statement corpus in both modes and checks
// the shape of the top level.
func TestCorpus(t *testing.T) {
	src := readCorpus(t)
	for _, opts := range [][]Option{nil, {WithRecovery()}, {WithOpaqueBodies()}} {
		file, err := ParseFile(context.Background(), corpusFile, src, opts...)
		require.NoError(t, err)

		counts := map[string]int{}
		for _, item := range file.Items {
			switch s := item.(type) {
			case *ast.DeclStmt:
				counts[s.Decl.Kind().String()]++
			case *ast.LabeledStmt:
				counts["label"]++
			case *ast.ThrowStmt:
				counts["throw"]++
			case *ast.SwitchStmt:
				counts["switch"]++
			case *ast.ForInStmt:
				counts["for"]++
			}
		}
		require.Equal(t, 10, counts["import"])
		require.Equal(t, 5, counts["constant"])
		require.Equal(t, 4, counts["operator"])
		require.Equal(t, 6, counts["label"])
		require.Equal(t, 2, counts["throw"])
		require.Equal(t, 3, counts["switch"])
		require.Equal(t, 6, counts["for"])
		require.Equal(t, 3, counts["typealias"])
	}
}

func TestCorpusLabels(t *testing.T) {
	file := mustParse(t, readCorpus(t))
	var labels []string
	for _, item := range file.Items {
		if l, ok := item.(*ast.LabeledStmt); ok {
			labels = append(labels, l.Label.Name)
		}
	}
	require.Equal(t, []string{"foo", "bar", "baz", "qux", "corn", "learn"}, labels)
}

func TestCorpusModifierChains(t *testing.T) {
	file := mustParse(t, readCorpus(t))
	chains := 0
	for _, d := range file.Decls() {
		mods := d.Modifiers()
		if mods.SetterAccess.Len() == 5 {
			chains++
			require.NotNil(t, mods.Attribute("attr"), "%s", d.Kind())
		}
	}
	// func, class, extension and enum
	require.Equal(t, 4, chains)
}
