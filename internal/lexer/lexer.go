// Package lexer implements the swiftparse tokenizer. It turns a source
// buffer into tokens carrying spans and leading-trivia flags; whitespace and
// comments are not emitted as tokens.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// Lexer represents the lexical analyzer for one source unit.
type Lexer struct {
	input     string
	filename  string
	offset    int // offset of the byte under examination
	line      int // current 1-based line number
	lineStart int // offset of the first byte of the current line

	emitted bool // whether a token has been returned yet
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	return &Lexer{
		input:    input,
		filename: filename,
		line:     1,
	}
}

// Filename returns the label spans are attributed to.
func (l *Lexer) Filename() string { return l.filename }

// peek returns the byte n positions ahead of the cursor, or 0 past the end
func (l *Lexer) peek(n int) byte {
	if i := l.offset + n; i < len(l.input) {
		return l.input[i]
	}
	return 0
}

func (l *Lexer) atEOF() bool { return l.offset >= len(l.input) }

// advance moves the cursor one byte forward and keeps line bookkeeping
func (l *Lexer) advance() {
	if l.offset >= len(l.input) {
		return
	}
	if l.input[l.offset] == '\n' {
		l.line++
		l.lineStart = l.offset + 1
	}
	l.offset++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// currentPosition returns the position of the cursor
func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.offset - l.lineStart + 1,
		Offset:   l.offset,
	}
}

// skipTrivia skips whitespace and comments, reporting what it saw.
func (l *Lexer) skipTrivia() (space, newline bool, err *LexError) {
	for !l.atEOF() {
		switch ch := l.peek(0); {
		case ch == '\n':
			space, newline = true, true
			l.advance()
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			space = true
			l.advance()
		case ch == '/' && l.peek(1) == '/':
			space = true
			for !l.atEOF() && l.peek(0) != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek(1) == '*':
			space = true
			start := l.currentPosition()
			if !l.skipBlockComment() {
				return space, newline, &LexError{Pos: start, Category: CategoryUnterminatedComment, Message: "unterminated block comment"}
			}
		default:
			return space, newline, nil
		}
	}
	return space, newline, nil
}

// skipBlockComment consumes a possibly nested /* */ comment.
func (l *Lexer) skipBlockComment() bool {
	depth := 0
	for !l.atEOF() {
		switch {
		case l.peek(0) == '/' && l.peek(1) == '*':
			depth++
			l.advanceN(2)
		case l.peek(0) == '*' && l.peek(1) == '/':
			depth--
			l.advanceN(2)
			if depth == 0 {
				return true
			}
		default:
			l.advance()
		}
	}
	return false
}

// NextToken scans the input and returns the next token. When the input is
// malformed it returns a TokenIllegal covering the offending text together
// with a *LexError; the lexer has already moved past that text, so calling
// NextToken again resumes scanning.
func (l *Lexer) NextToken() (Token, error) {
	space, newline, lexErr := l.skipTrivia()
	if !l.emitted {
		newline = true
		l.emitted = true
	}
	if lexErr != nil {
		tok := l.makeToken(TokenIllegal, lexErr.Pos, space, newline)
		return tok, lexErr
	}

	start := l.currentPosition()
	if l.atEOF() {
		return l.makeToken(TokenEOF, start, space, newline), nil
	}

	tt, lexErr := l.scan()
	tok := l.makeToken(tt, start, space, newline)
	if lexErr != nil {
		lexErr.Pos = start
		return tok, lexErr
	}
	return tok, nil
}

func (l *Lexer) makeToken(tt TokenType, start position.Position, space, newline bool) Token {
	end := l.currentPosition()
	return Token{
		Type:          tt,
		Literal:       l.input[start.Offset:end.Offset],
		Span:          position.Span{Start: start, End: end},
		SpaceBefore:   space,
		NewlineBefore: newline,
	}
}

// scan consumes one token starting at the cursor.
func (l *Lexer) scan() (TokenType, *LexError) {
	ch := l.peek(0)
	switch ch {
	case '(':
		l.advance()
		return TokenLParen, nil
	case ')':
		l.advance()
		return TokenRParen, nil
	case '{':
		l.advance()
		return TokenLBrace, nil
	case '}':
		l.advance()
		return TokenRBrace, nil
	case '[':
		l.advance()
		return TokenLBracket, nil
	case ']':
		l.advance()
		return TokenRBracket, nil
	case ',':
		l.advance()
		return TokenComma, nil
	case ':':
		l.advance()
		return TokenColon, nil
	case ';':
		l.advance()
		return TokenSemicolon, nil
	case '@':
		l.advance()
		return TokenAt, nil
	case '#':
		l.advance()
		return TokenHash, nil
	case '\\':
		l.advance()
		return TokenBackslash, nil
	case '"':
		return l.readString()
	case '`':
		return l.readEscapedIdentifier()
	case '.':
		if l.peek(1) == '.' {
			return l.readOperator(true), nil
		}
		l.advance()
		return TokenDot, nil
	}

	switch {
	case isOperatorChar(ch):
		return l.readOperator(false), nil
	case isDigit(ch):
		return l.readNumber()
	case isIdentStart(ch):
		return LookupIdent(l.readIdentifier()), nil
	case ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRuneInString(l.input[l.offset:])
		if r != utf8.RuneError && isUnicodeIdentStart(r) {
			return LookupIdent(l.readIdentifier()), nil
		}
		l.advanceN(size)
		return TokenIllegal, &LexError{Category: CategoryInvalidCharacter, Message: "invalid character in source"}
	default:
		l.advance()
		return TokenIllegal, &LexError{Category: CategoryInvalidCharacter, Message: "invalid character " + quoteByte(ch)}
	}
}

// readIdentifier reads an ASCII or Unicode identifier
func (l *Lexer) readIdentifier() string {
	start := l.offset
	for !l.atEOF() {
		ch := l.peek(0)
		if isIdentStart(ch) || isDigit(ch) {
			l.advance()
			continue
		}
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.input[l.offset:])
			if r != utf8.RuneError && (isUnicodeIdentStart(r) || unicode.IsDigit(r) || unicode.IsMark(r)) {
				l.advanceN(size)
				continue
			}
		}
		break
	}
	return l.input[start:l.offset]
}

// readEscapedIdentifier reads a `backtick` identifier
func (l *Lexer) readEscapedIdentifier() (TokenType, *LexError) {
	l.advance() // opening backtick
	nameStart := l.offset
	l.readIdentifier()
	if l.offset == nameStart || l.peek(0) != '`' {
		return TokenIllegal, &LexError{Category: CategoryInvalidCharacter, Message: "malformed escaped identifier"}
	}
	l.advance()
	return TokenIdentifier, nil
}

// readNumber reads integer and floating point literals. A literal running
// into letters (12abc) is malformed and consumed whole.
func (l *Lexer) readNumber() (TokenType, *LexError) {
	tt := TokenInteger
	if l.peek(0) == '0' && (l.peek(1) == 'x' || l.peek(1) == 'o' || l.peek(1) == 'b') {
		base := l.peek(1)
		l.advanceN(2)
		digits := 0
		for isBaseDigit(l.peek(0), base) || (digits > 0 && l.peek(0) == '_') {
			l.advance()
			digits++
		}
		if digits == 0 {
			return l.malformedNumber()
		}
	} else {
		l.readDecimalDigits()
		if l.peek(0) == '.' && isDigit(l.peek(1)) {
			tt = TokenFloat
			l.advance()
			l.readDecimalDigits()
		}
		if e := l.peek(0); e == 'e' || e == 'E' {
			next := l.peek(1)
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek(2))) {
				tt = TokenFloat
				l.advanceN(2)
				l.readDecimalDigits()
			}
		}
	}
	if isIdentStart(l.peek(0)) || isDigit(l.peek(0)) {
		return l.malformedNumber()
	}
	return tt, nil
}

func (l *Lexer) readDecimalDigits() {
	for isDigit(l.peek(0)) || l.peek(0) == '_' {
		l.advance()
	}
}

func (l *Lexer) malformedNumber() (TokenType, *LexError) {
	for isIdentStart(l.peek(0)) || isDigit(l.peek(0)) {
		l.advance()
	}
	return TokenIllegal, &LexError{Category: CategoryMalformedNumber, Message: "malformed number literal"}
}

// readString reads a single-line or """ multi-line string literal,
// including escapes and \( ) interpolations.
func (l *Lexer) readString() (TokenType, *LexError) {
	multiline := l.peek(1) == '"' && l.peek(2) == '"'
	if multiline {
		l.advanceN(3)
	} else {
		l.advance()
	}
	if l.readStringBody(multiline) {
		return TokenString, nil
	}
	return TokenIllegal, &LexError{Category: CategoryUnterminatedString, Message: "unterminated string literal"}
}

// readStringBody consumes up to and including the closing quote(s).
func (l *Lexer) readStringBody(multiline bool) bool {
	for !l.atEOF() {
		ch := l.peek(0)
		switch {
		case ch == '"' && !multiline:
			l.advance()
			return true
		case ch == '"' && l.peek(1) == '"' && l.peek(2) == '"':
			l.advanceN(3)
			return true
		case ch == '\n' && !multiline:
			return false
		case ch == '\\' && l.peek(1) == '(':
			l.advanceN(2)
			if !l.readInterpolation() {
				return false
			}
		case ch == '\\':
			l.advanceN(2)
		default:
			l.advance()
		}
	}
	return false
}

// readInterpolation consumes the expression of a \( ) segment.
func (l *Lexer) readInterpolation() bool {
	depth := 1
	for !l.atEOF() {
		switch l.peek(0) {
		case '(':
			depth++
			l.advance()
		case ')':
			depth--
			l.advance()
			if depth == 0 {
				return true
			}
		case '"':
			if _, err := l.readString(); err != nil {
				return false
			}
		case '\n':
			return false
		default:
			l.advance()
		}
	}
	return false
}

// readOperator reads a maximal run of operator characters. Dots only take
// part when the operator itself starts with a dot.
func (l *Lexer) readOperator(dotted bool) TokenType {
	start := l.offset
	for !l.atEOF() {
		ch := l.peek(0)
		if ch == '/' && (l.peek(1) == '/' || l.peek(1) == '*') && l.offset > start {
			break
		}
		if isOperatorChar(ch) || (dotted && ch == '.') {
			l.advance()
			continue
		}
		break
	}
	switch l.input[start:l.offset] {
	case "=":
		return TokenAssign
	case "->":
		return TokenArrow
	}
	return TokenOperator
}

func isOperatorChar(ch byte) bool {
	switch ch {
	case '/', '=', '-', '+', '!', '*', '%', '<', '>', '&', '|', '^', '~', '?':
		return true
	}
	return false
}

// isIdentStart checks if character can start an ASCII identifier
func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isUnicodeIdentStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsSymbol(r)
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isBaseDigit(ch, base byte) bool {
	switch base {
	case 'b':
		return ch == '0' || ch == '1'
	case 'o':
		return '0' <= ch && ch <= '7'
	default:
		return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
	}
}

func quoteByte(ch byte) string {
	if ch >= 0x20 && ch < 0x7f {
		return "'" + string(rune(ch)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string(hex[ch>>4]) + string(hex[ch&0xf])
}
