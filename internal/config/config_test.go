package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/swiftparse/internal/parser"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, "strict", c.Parser.Recovery)
	require.Equal(t, "auto", c.Parser.AccessorPolicy)
	require.Equal(t, FormatText, c.Output.Format)
	require.Equal(t, "warning", c.Log.Level)
	require.Equal(t, runtime.NumCPU(), c.Workspace.Jobs)
	require.Equal(t, []string{".swift"}, c.Workspace.Extensions)

	opts, err := c.ParserOptions()
	require.NoError(t, err)
	require.Equal(t, parser.Options{}, opts)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
[parser]
recovery = "recover"
strict_modifiers = true
accessor_policy = "body"
opaque_bodies = true

[output]
format = "json"
schema_constraint = "^1"

[log]
level = "verbose"

[workspace]
jobs = 2
extensions = ["swift", ".swiftinterface"]
exclude = ["Pods"]
`))
	require.NoError(t, err)
	require.Equal(t, FormatJSON, c.Output.Format)
	require.Equal(t, "^1", c.Output.SchemaConstraint)
	require.Equal(t, "verbose", c.Log.Level)
	require.Equal(t, 2, c.Workspace.Jobs)
	require.Equal(t, []string{".swift", ".swiftinterface"}, c.Workspace.Extensions)
	require.Equal(t, []string{"Pods"}, c.Workspace.Exclude)

	opts, err := c.ParserOptions()
	require.NoError(t, err)
	require.Equal(t, parser.Options{
		Recovery:        parser.Recover,
		StrictModifiers: true,
		Accessors:       parser.AccessorsBody,
		OpaqueBodies:    true,
	}, opts)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[parser\n"},
		{"recovery", "[parser]\nrecovery = \"maybe\"\n"},
		{"accessors", "[parser]\naccessor_policy = \"never\"\n"},
		{"format", "[output]\nformat = \"xml\"\n"},
		{"level", "[log]\nlevel = \"loud\"\n"},
		{"color", "[log]\ncolor = \"sometimes\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	require.Empty(t, c.Path)
}

func TestSaveLoadFind(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)

	c := Default()
	c.Parser.Recovery = "recover"
	c.Workspace.Jobs = 3
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.Equal(t, "recover", loaded.Parser.Recovery)
	require.Equal(t, 3, loaded.Workspace.Jobs)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.Equal(t, path, Find(nested))
}
