package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// ErrorKind classifies parse errors
type ErrorKind int

const (
	// LexError reports a malformed token
	LexError ErrorKind = iota
	// UnexpectedToken reports a token not allowed at a grammar position
	UnexpectedToken
	// UnexpectedDeclarationIntroducer reports modifiers not followed by a
	// declaration keyword
	UnexpectedDeclarationIntroducer
	// MalformedDeclaration reports a declaration missing a required part;
	// Error.Decl names the declaration kind
	MalformedDeclaration
	// MalformedPattern reports an ill-formed pattern
	MalformedPattern
	// MalformedCondition reports an ill-formed if/while/guard condition
	MalformedCondition
	// UnterminatedBlock reports end of input before a closing brace
	UnterminatedBlock
	// Cancelled reports that the caller's context ended the parse
	Cancelled
	// DuplicateModifier reports a repeated modifier under strict modifiers
	DuplicateModifier
)

var errorKindNames = map[ErrorKind]string{
	LexError:                        "lex error",
	UnexpectedToken:                 "unexpected token",
	UnexpectedDeclarationIntroducer: "unexpected declaration introducer",
	MalformedDeclaration:            "malformed declaration",
	MalformedPattern:                "malformed pattern",
	MalformedCondition:              "malformed condition",
	UnterminatedBlock:               "unterminated block",
	Cancelled:                       "cancelled",
	DuplicateModifier:               "duplicate modifier",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a single parse error record.
type Error struct {
	Pos      position.Position
	Kind     ErrorKind
	Decl     ast.DeclKind // declaration kind for MalformedDeclaration
	Message  string
	Expected []string // expected-token hint, may be empty
	Hint     string   // recovery note filled in by recovery mode

	at int // index of the offending token
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.String())
		sb.WriteString(": ")
	}
	if e.Kind == MalformedDeclaration && e.Decl != ast.DeclNone {
		fmt.Fprintf(&sb, "malformed %s declaration: ", e.Decl)
	}
	sb.WriteString(e.Message)
	if len(e.Expected) > 0 {
		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(e.Expected, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// ErrorList is an ordered list of parse errors. It implements error.
type ErrorList []*Error

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	return a.Offset < b.Offset
}

// Sort orders the list by position. Errors at the same position keep the
// order they were reported in.
func (l ErrorList) Sort() {
	sort.Stable(l)
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns an error equivalent to this list, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Kinds returns the kind of every error in order, for diagnostics and tests.
func (l ErrorList) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, len(l))
	for i, e := range l {
		kinds[i] = e.Kind
	}
	return kinds
}

// IsIncomplete reports whether err only says that src ended too early: an
// unclosed block, string or comment, or an error at the end of input. An
// interactive reader uses it to ask for another line.
func IsIncomplete(err error, src string) bool {
	var list ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return false
	}
	for _, e := range list {
		switch {
		case e.Kind == UnterminatedBlock:
		case e.Kind == LexError && strings.HasPrefix(e.Message, "unterminated"):
		case e.Pos.Offset >= len(src):
		default:
			return false
		}
	}
	return true
}
