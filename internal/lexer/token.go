package lexer

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/swiftparse/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Names and literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenOperator

	// Reserved words. Contextual words such as get, set, open, mutating,
	// infix, async and await are identifiers; the parser matches them by text.
	keywordStart
	TokenAs
	TokenAssociatedtype
	TokenBreak
	TokenCase
	TokenCatch
	TokenClass
	TokenContinue
	TokenDefault
	TokenDefer
	TokenDeinit
	TokenDo
	TokenElse
	TokenEnum
	TokenExtension
	TokenFallthrough
	TokenFalse
	TokenFileprivate
	TokenFor
	TokenFunc
	TokenGuard
	TokenIf
	TokenImport
	TokenIn
	TokenInit
	TokenInout
	TokenInternal
	TokenIs
	TokenLet
	TokenNil
	TokenOperatorKw
	TokenPrivate
	TokenProtocol
	TokenPublic
	TokenRepeat
	TokenRethrows
	TokenReturn
	TokenSelf
	TokenSelfType
	TokenStatic
	TokenStruct
	TokenSubscript
	TokenSuper
	TokenSwitch
	TokenThrow
	TokenThrows
	TokenTrue
	TokenTry
	TokenTypealias
	TokenUnderscore
	TokenVar
	TokenWhere
	TokenWhile
	keywordEnd

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenColon
	TokenSemicolon
	TokenDot
	TokenAssign
	TokenArrow
	TokenAt
	TokenHash
	TokenBackslash
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenIllegal: "ILLEGAL",

	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenOperator:   "OPERATOR",

	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenComma:     ",",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenDot:       ".",
	TokenAssign:    "=",
	TokenArrow:     "->",
	TokenAt:        "@",
	TokenHash:      "#",
	TokenBackslash: "\\",
}

// keywords maps reserved words to their token types
var keywords = map[string]TokenType{
	"as":             TokenAs,
	"associatedtype": TokenAssociatedtype,
	"break":          TokenBreak,
	"case":           TokenCase,
	"catch":          TokenCatch,
	"class":          TokenClass,
	"continue":       TokenContinue,
	"default":        TokenDefault,
	"defer":          TokenDefer,
	"deinit":         TokenDeinit,
	"do":             TokenDo,
	"else":           TokenElse,
	"enum":           TokenEnum,
	"extension":      TokenExtension,
	"fallthrough":    TokenFallthrough,
	"false":          TokenFalse,
	"fileprivate":    TokenFileprivate,
	"for":            TokenFor,
	"func":           TokenFunc,
	"guard":          TokenGuard,
	"if":             TokenIf,
	"import":         TokenImport,
	"in":             TokenIn,
	"init":           TokenInit,
	"inout":          TokenInout,
	"internal":       TokenInternal,
	"is":             TokenIs,
	"let":            TokenLet,
	"nil":            TokenNil,
	"operator":       TokenOperatorKw,
	"private":        TokenPrivate,
	"protocol":       TokenProtocol,
	"public":         TokenPublic,
	"repeat":         TokenRepeat,
	"rethrows":       TokenRethrows,
	"return":         TokenReturn,
	"self":           TokenSelf,
	"Self":           TokenSelfType,
	"static":         TokenStatic,
	"struct":         TokenStruct,
	"subscript":      TokenSubscript,
	"super":          TokenSuper,
	"switch":         TokenSwitch,
	"throw":          TokenThrow,
	"throws":         TokenThrows,
	"true":           TokenTrue,
	"try":            TokenTry,
	"typealias":      TokenTypealias,
	"_":              TokenUnderscore,
	"var":            TokenVar,
	"where":          TokenWhere,
	"while":          TokenWhile,
}

func init() {
	for word, tt := range keywords {
		tokenNames[tt] = strings.ToUpper(word)
	}
	tokenNames[TokenSelfType] = "SELF_TYPE"
	tokenNames[TokenOperatorKw] = "OPERATOR_KW"
	tokenNames[TokenUnderscore] = "_"
}

// LookupIdent returns the keyword token type for ident, or TokenIdentifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt > keywordStart && tt < keywordEnd
}

// Kind is the coarse classification of a token.
type Kind int

const (
	KindEOF Kind = iota
	KindIdentifier
	KindKeyword
	KindLiteral
	KindOperator
	KindPunctuation
	KindAttributeMarker
	KindIllegal
)

var kindNames = [...]string{
	KindEOF:             "end-of-input",
	KindIdentifier:      "identifier",
	KindKeyword:         "keyword",
	KindLiteral:         "literal",
	KindOperator:        "operator",
	KindPunctuation:     "punctuation",
	KindAttributeMarker: "attribute-marker",
	KindIllegal:         "illegal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token represents a lexical token with position information.
// Tokens are values and are never mutated after the lexer returns them.
type Token struct {
	Type    TokenType
	Literal string        // raw source text, quotes and backticks included
	Span    position.Span // source span for this token

	// SpaceBefore is set when whitespace or a comment precedes the token.
	// NewlineBefore is set when that trivia contains a line break or the
	// token is the first one in the file.
	SpaceBefore   bool
	NewlineBefore bool
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}", t.Type, t.Literal, t.Span.Start)
}

// Kind classifies the token.
func (t Token) Kind() Kind {
	switch {
	case t.Type == TokenEOF:
		return KindEOF
	case t.Type == TokenIllegal:
		return KindIllegal
	case t.Type == TokenIdentifier:
		return KindIdentifier
	case t.Type == TokenInteger, t.Type == TokenFloat, t.Type == TokenString,
		t.Type == TokenTrue, t.Type == TokenFalse, t.Type == TokenNil:
		return KindLiteral
	case t.Type.IsKeyword():
		return KindKeyword
	case t.Type == TokenOperator:
		return KindOperator
	case t.Type == TokenAt:
		return KindAttributeMarker
	default:
		return KindPunctuation
	}
}

// Text returns the identifier spelling with escaping backticks removed.
func (t Token) Text() string {
	if len(t.Literal) >= 2 && t.Literal[0] == '`' && t.Literal[len(t.Literal)-1] == '`' {
		return t.Literal[1 : len(t.Literal)-1]
	}
	return t.Literal
}

// Is reports whether the token is an identifier or keyword spelled word.
// Backtick-escaped identifiers never match so `open` can still name things.
func (t Token) Is(word string) bool {
	return (t.Type == TokenIdentifier || t.Type.IsKeyword()) && t.Literal == word
}

// IsOperator reports whether the token is the operator op.
func (t Token) IsOperator(op string) bool {
	return t.Type == TokenOperator && t.Literal == op
}

// IsWord reports whether the token is an identifier or keyword.
func (t Token) IsWord() bool {
	return t.Type == TokenIdentifier || t.Type.IsKeyword()
}
