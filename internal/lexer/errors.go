package lexer

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// ErrorCategory classifies lexical errors
type ErrorCategory int

const (
	CategoryInvalidCharacter    ErrorCategory = iota // Characters that cannot start any token
	CategoryUnterminatedString                       // Unclosed string literals
	CategoryUnterminatedComment                      // Unclosed block comments
	CategoryMalformedNumber                          // Invalid number formats
)

var categoryNames = map[ErrorCategory]string{
	CategoryInvalidCharacter:    "invalid character",
	CategoryUnterminatedString:  "unterminated string",
	CategoryUnterminatedComment: "unterminated comment",
	CategoryMalformedNumber:     "malformed number",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCategory(%d)", int(c))
}

// LexError reports a malformed token. Pos.Offset is the byte offset of the
// first offending byte.
type LexError struct {
	Pos      position.Position
	Category ErrorCategory
	Message  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Offset returns the byte offset of the error.
func (e *LexError) Offset() int { return e.Pos.Offset }
