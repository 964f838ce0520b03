package parser

import "fmt"

// RecoveryMode selects what the parser does on the first error.
type RecoveryMode int

const (
	// Strict aborts on the first error and returns no tree
	Strict RecoveryMode = iota
	// Recover skips to the next statement or declaration boundary, records
	// one error per skipped region and returns the partial tree
	Recover
)

func (m RecoveryMode) String() string {
	if m == Recover {
		return "recover"
	}
	return "strict"
}

// AccessorPolicy decides how a brace block after a variable binding is read.
type AccessorPolicy int

const (
	// AccessorsAuto reads the block as accessors when it opens with get,
	// set, willSet or didSet, and as a statement body otherwise
	AccessorsAuto AccessorPolicy = iota
	// AccessorsBody always reads the block as a statement body
	AccessorsBody
)

func (a AccessorPolicy) String() string {
	if a == AccessorsBody {
		return "body"
	}
	return "auto"
}

// ParseAccessorPolicy maps "auto" and "body" to a policy.
func ParseAccessorPolicy(s string) (AccessorPolicy, error) {
	switch s {
	case "", "auto":
		return AccessorsAuto, nil
	case "body":
		return AccessorsBody, nil
	}
	return AccessorsAuto, fmt.Errorf("unknown accessor policy %q", s)
}

// ParseRecoveryMode maps "strict" and "recover" to a mode.
func ParseRecoveryMode(s string) (RecoveryMode, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "recover", "recovery":
		return Recover, nil
	}
	return Strict, fmt.Errorf("unknown recovery mode %q", s)
}

// Options control a parse.
type Options struct {
	Recovery RecoveryMode
	// StrictModifiers turns a repeated modifier into a DuplicateModifier
	// error instead of merging it
	StrictModifiers bool
	Accessors       AccessorPolicy
	// OpaqueBodies stores declaration bodies verbatim instead of parsing
	// their statements
	OpaqueBodies bool
}

// Option configures a parse.
type Option func(*Options)

// WithRecovery enables recovery mode.
func WithRecovery() Option {
	return func(o *Options) { o.Recovery = Recover }
}

// WithStrictModifiers rejects repeated modifiers.
func WithStrictModifiers() Option {
	return func(o *Options) { o.StrictModifiers = true }
}

// WithAccessorPolicy sets the variable block policy.
func WithAccessorPolicy(policy AccessorPolicy) Option {
	return func(o *Options) { o.Accessors = policy }
}

// WithOpaqueBodies keeps declaration bodies as verbatim text.
func WithOpaqueBodies() Option {
	return func(o *Options) { o.OpaqueBodies = true }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}
