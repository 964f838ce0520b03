// Package format re-serializes token streams back to source text.
//
// The output is not a pretty printer: it guarantees only that re-tokenizing
// it yields the same token types and literals as the input, with the
// spacing flags the parser relies on left intact.
package format

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// Options controls serialization style.
type Options struct {
	// Layout indents each line by brace, bracket and paren depth.
	Layout bool
	// IndentSize is the number of spaces per level when Layout is set.
	IndentSize int
	// PreferTabs indents with tabs instead of spaces.
	PreferTabs bool
	// CRLF ends lines with \r\n.
	CRLF bool
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{IndentSize: 4}
}

// Tokens serializes toks. Whitespace and comments between two tokens become
// a line break when they contained one, a single space otherwise, and
// nothing when the tokens were adjacent. The end-of-input marker and illegal
// tokens are skipped.
func Tokens(toks []lexer.Token, opts Options) string {
	w := newWriter(opts)
	for _, tok := range toks {
		switch tok.Type {
		case lexer.TokenEOF, lexer.TokenIllegal:
			continue
		}
		w.token(tok)
	}
	return w.finish()
}

// File serializes the token stream a syntax tree was parsed from.
func File(f *ast.File, opts Options) string {
	if f == nil {
		return Tokens(nil, opts)
	}
	return Tokens(f.Tokens, opts)
}

// Node serializes the tokens of f that lie inside the span of n.
func Node(f *ast.File, n ast.Node, opts Options) string {
	return Tokens(NodeTokens(f, n), opts)
}

// NodeTokens returns the tokens of f covered by the span of n.
func NodeTokens(f *ast.File, n ast.Node) []lexer.Token {
	if f == nil || n == nil {
		return nil
	}
	span := n.GetSpan()
	var out []lexer.Token
	for _, tok := range f.Tokens {
		if span.Covers(tok.Span) {
			out = append(out, tok)
		}
	}
	return out
}

// Source tokenizes src and serializes the result. Lexical errors are
// returned with the first one first; the output is not produced in that case.
func Source(filename, src string, opts Options) (string, error) {
	toks, errs := lexer.All(filename, src)
	if len(errs) > 0 {
		if len(errs) == 1 {
			return "", errs[0]
		}
		return "", fmt.Errorf("%w (and %d more lexical errors)", errs[0], len(errs)-1)
	}
	return Tokens(toks, opts), nil
}

// writer accumulates serialized tokens line by line.
type writer struct {
	opts  Options
	sb    strings.Builder
	depth int
	empty bool
}

func newWriter(opts Options) *writer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultOptions().IndentSize
	}
	return &writer{opts: opts, empty: true}
}

func (w *writer) token(tok lexer.Token) {
	closer := isCloser(tok.Type)
	if closer && w.depth > 0 {
		w.depth--
	}
	switch {
	case w.empty:
		w.indent()
	case tok.NewlineBefore:
		w.newline()
		w.indent()
	case tok.SpaceBefore:
		w.sb.WriteByte(' ')
	}
	w.sb.WriteString(tok.Literal)
	w.empty = false
	if isOpener(tok.Type) {
		w.depth++
	}
}

func (w *writer) newline() {
	if w.opts.CRLF {
		w.sb.WriteString("\r\n")
		return
	}
	w.sb.WriteByte('\n')
}

func (w *writer) indent() {
	if !w.opts.Layout || w.depth == 0 {
		return
	}
	if w.opts.PreferTabs {
		w.sb.WriteString(strings.Repeat("\t", w.depth))
		return
	}
	w.sb.WriteString(strings.Repeat(" ", w.depth*w.opts.IndentSize))
}

// finish ensures exactly one trailing line break.
func (w *writer) finish() string {
	if !w.empty {
		w.newline()
	}
	return w.sb.String()
}

func isOpener(tt lexer.TokenType) bool {
	return tt == lexer.TokenLBrace || tt == lexer.TokenLParen || tt == lexer.TokenLBracket
}

func isCloser(tt lexer.TokenType) bool {
	return tt == lexer.TokenRBrace || tt == lexer.TokenRParen || tt == lexer.TokenRBracket
}
