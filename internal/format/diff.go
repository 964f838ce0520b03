package format

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// ChangeType represents the type of a token change.
type ChangeType int

const (
	ChangeTypeDelete ChangeType = iota // token present only in the original
	ChangeTypeInsert                   // token present only in the re-tokenized output
	ChangeTypeLayout                   // same token, different spacing flags
)

// Change is a single difference between two token streams.
type Change struct {
	Type     ChangeType
	Original int // index into the original stream, -1 if none
	Modified int // index into the modified stream, -1 if none
	Token    lexer.Token
}

// DiffResult is the result of comparing two token streams.
type DiffResult struct {
	Changes []Change
	// Compared counts the tokens of the original stream.
	Compared int
}

// HasChanges reports whether the streams differ.
func (r *DiffResult) HasChanges() bool { return len(r.Changes) > 0 }

// tokenKey is the part of a token that must survive a round trip.
type tokenKey struct {
	tt  lexer.TokenType
	lit string
}

func keyOf(tok lexer.Token) tokenKey { return tokenKey{tok.Type, tok.Literal} }

// CompareTokens compares original against modified by type and literal,
// and by spacing flags so same-line and operator-binding rules keep their
// meaning. End-of-input markers are ignored.
func CompareTokens(original, modified []lexer.Token) *DiffResult {
	original, modified = trimEOF(original), trimEOF(modified)
	result := &DiffResult{Compared: len(original)}

	i, j := 0, 0
	for i < len(original) && j < len(modified) {
		a, b := original[i], modified[j]
		switch {
		case keyOf(a) == keyOf(b):
			// The first token of either stream always starts a line.
			if i > 0 && j > 0 && (a.NewlineBefore != b.NewlineBefore || a.SpaceBefore != b.SpaceBefore) {
				result.Changes = append(result.Changes, Change{Type: ChangeTypeLayout, Original: i, Modified: j, Token: a})
			}
			i++
			j++
		case j+1 < len(modified) && keyOf(a) == keyOf(modified[j+1]):
			result.Changes = append(result.Changes, Change{Type: ChangeTypeInsert, Original: -1, Modified: j, Token: b})
			j++
		case i+1 < len(original) && keyOf(original[i+1]) == keyOf(b):
			result.Changes = append(result.Changes, Change{Type: ChangeTypeDelete, Original: i, Modified: -1, Token: a})
			i++
		default:
			result.Changes = append(result.Changes,
				Change{Type: ChangeTypeDelete, Original: i, Modified: -1, Token: a},
				Change{Type: ChangeTypeInsert, Original: -1, Modified: j, Token: b})
			i++
			j++
		}
	}
	for ; i < len(original); i++ {
		result.Changes = append(result.Changes, Change{Type: ChangeTypeDelete, Original: i, Modified: -1, Token: original[i]})
	}
	for ; j < len(modified); j++ {
		result.Changes = append(result.Changes, Change{Type: ChangeTypeInsert, Original: -1, Modified: j, Token: modified[j]})
	}
	return result
}

func trimEOF(toks []lexer.Token) []lexer.Token {
	if n := len(toks); n > 0 && toks[n-1].Type == lexer.TokenEOF {
		return toks[:n-1]
	}
	return toks
}

// RoundTrip serializes the tokens of src, re-tokenizes the output and
// compares the two streams. It returns the serialized text alongside the
// comparison.
func RoundTrip(filename, src string, opts Options) (string, *DiffResult, error) {
	original, errs := lexer.All(filename, src)
	if len(errs) > 0 {
		return "", nil, errs[0]
	}
	out := Tokens(original, opts)
	reparsed, errs := lexer.All(filename, out)
	if len(errs) > 0 {
		return out, nil, fmt.Errorf("re-tokenizing output: %w", errs[0])
	}
	return out, CompareTokens(original, reparsed), nil
}

// FormatDiff renders the changes one per line, prefixed the way a unified
// diff marks removed and added lines.
func FormatDiff(filename string, result *DiffResult) string {
	if result == nil || !result.HasChanges() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (round trip)\n", filename, filename)
	for _, c := range result.Changes {
		var prefix string
		switch c.Type {
		case ChangeTypeDelete:
			prefix = "-"
		case ChangeTypeInsert:
			prefix = "+"
		case ChangeTypeLayout:
			prefix = "~"
		}
		fmt.Fprintf(&sb, "%s%s: %s %q\n", prefix, c.Token.Span.Start, c.Token.Type, c.Token.Literal)
	}
	fmt.Fprintf(&sb, "%d changes in %d tokens\n", len(result.Changes), result.Compared)
	return sb.String()
}
