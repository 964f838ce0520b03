// Package config loads swiftparse.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/orizon-lang/swiftparse/internal/parser"
)

// FileName is the project file looked up by Find.
const FileName = "swiftparse.toml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDump = "dump"
)

// Config is the decoded project file.
type Config struct {
	Parser    ParserConfig    `toml:"parser"`
	Output    OutputConfig    `toml:"output"`
	Log       LogConfig       `toml:"log"`
	Workspace WorkspaceConfig `toml:"workspace"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// ParserConfig maps onto parser.Options.
type ParserConfig struct {
	Recovery        string `toml:"recovery"` // strict or recover
	StrictModifiers bool   `toml:"strict_modifiers"`
	AccessorPolicy  string `toml:"accessor_policy"` // auto or body
	OpaqueBodies    bool   `toml:"opaque_bodies"`
}

type OutputConfig struct {
	Format           string `toml:"format"` // text, json or dump
	Indent           bool   `toml:"indent"`
	Tokens           bool   `toml:"tokens"`
	SchemaConstraint string `toml:"schema_constraint"`
}

type LogConfig struct {
	Level string `toml:"level"` // silent, error, warning or verbose
	Color string `toml:"color"` // auto, always or never
}

type WorkspaceConfig struct {
	Jobs       int      `toml:"jobs"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	c := &Config{}
	c.normalize()
	return c
}

// normalize fills unset fields with their defaults.
func (c *Config) normalize() {
	if c.Parser.Recovery == "" {
		c.Parser.Recovery = parser.Strict.String()
	}
	if c.Parser.AccessorPolicy == "" {
		c.Parser.AccessorPolicy = parser.AccessorsAuto.String()
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Log.Level == "" {
		c.Log.Level = "warning"
	}
	if c.Log.Color == "" {
		c.Log.Color = "auto"
	}
	if c.Workspace.Jobs <= 0 {
		c.Workspace.Jobs = runtime.NumCPU()
	}
	if len(c.Workspace.Extensions) == 0 {
		c.Workspace.Extensions = []string{".swift"}
	}
	for i, ext := range c.Workspace.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Workspace.Extensions[i] = "." + ext
		}
	}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if _, err := c.ParserOptions(); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatDump:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Log.Level {
	case "silent", "error", "warning", "verbose":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q", c.Log.Color)
	}
	return nil
}

// ParserOptions converts the [parser] table.
func (c *Config) ParserOptions() (parser.Options, error) {
	var opts parser.Options
	mode, err := parser.ParseRecoveryMode(c.Parser.Recovery)
	if err != nil {
		return opts, err
	}
	policy, err := parser.ParseAccessorPolicy(c.Parser.AccessorPolicy)
	if err != nil {
		return opts, err
	}
	opts.Recovery = mode
	opts.Accessors = policy
	opts.StrictModifiers = c.Parser.StrictModifiers
	opts.OpaqueBodies = c.Parser.OpaqueBodies
	return opts, nil
}

// Parse decodes and validates a project file body.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the project file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Find looks for FileName in dir and its parents and returns its path, or
// the empty string when there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes c to path in TOML form.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(*c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
