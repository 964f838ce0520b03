package lexer

import (
	"errors"
	"testing"
)

func TestBasicTokens(t *testing.T) {
	input := `func foo(x: Int = 5) -> Int {
	return x;
}`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenFunc, "func"},
		{TokenIdentifier, "foo"},
		{TokenLParen, "("},
		{TokenIdentifier, "x"},
		{TokenColon, ":"},
		{TokenIdentifier, "Int"},
		{TokenAssign, "="},
		{TokenInteger, "5"},
		{TokenRParen, ")"},
		{TokenArrow, "->"},
		{TokenIdentifier, "Int"},
		{TokenLBrace, "{"},
		{TokenReturn, "return"},
		{TokenIdentifier, "x"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestContextualWordsAreIdentifiers(t *testing.T) {
	input := `open mutating get set infix async await public private`

	tests := []struct {
		expectedType TokenType
		kind         Kind
	}{
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenIdentifier, KindIdentifier},
		{TokenPublic, KindKeyword},
		{TokenPrivate, KindKeyword},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType || tok.Kind() != tt.kind {
			t.Fatalf("tests[%d] - got %s/%s, want %s/%s", i, tok.Type, tok.Kind(), tt.expectedType, tt.kind)
		}
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	input := `a == b !!! c?.d x! ...  ..< -> = @attr #file try? Int?`
	want := []struct {
		tt  TokenType
		lit string
	}{
		{TokenIdentifier, "a"},
		{TokenOperator, "=="},
		{TokenIdentifier, "b"},
		{TokenOperator, "!!!"},
		{TokenIdentifier, "c"},
		{TokenOperator, "?"},
		{TokenDot, "."},
		{TokenIdentifier, "d"},
		{TokenIdentifier, "x"},
		{TokenOperator, "!"},
		{TokenOperator, "..."},
		{TokenOperator, "..<"},
		{TokenArrow, "->"},
		{TokenAssign, "="},
		{TokenAt, "@"},
		{TokenIdentifier, "attr"},
		{TokenHash, "#"},
		{TokenIdentifier, "file"},
		{TokenTry, "try"},
		{TokenOperator, "?"},
		{TokenIdentifier, "Int"},
		{TokenOperator, "?"},
		{TokenEOF, ""},
	}
	toks, errs := All("", input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.tt || toks[i].Literal != w.lit {
			t.Fatalf("token %d = %s %q, want %s %q", i, toks[i].Type, toks[i].Literal, w.tt, w.lit)
		}
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		tt    TokenType
	}{
		{`42`, TokenInteger},
		{`1_000`, TokenInteger},
		{`0x1F`, TokenInteger},
		{`0b1010`, TokenInteger},
		{`0o17`, TokenInteger},
		{`0.0`, TokenFloat},
		{`1e10`, TokenFloat},
		{`2.5E-3`, TokenFloat},
		{`"hi"`, TokenString},
		{`"a \"quoted\" word"`, TokenString},
		{`"sum \(a + (b * 2)) done"`, TokenString},
		{`"outer \("inner") x"`, TokenString},
		{"\"\"\"\nline one\nline \"two\"\n\"\"\"", TokenString},
		{"`class`", TokenIdentifier},
		{`true`, TokenTrue},
		{`nil`, TokenNil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			tok, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != tt.tt {
				t.Fatalf("type = %s, want %s", tok.Type, tt.tt)
			}
			if tok.Literal != tt.input {
				t.Fatalf("literal = %q, want %q", tok.Literal, tt.input)
			}
			if tok.Kind() != KindLiteral && tok.Type != TokenIdentifier {
				t.Fatalf("kind = %s, want literal", tok.Kind())
			}
			eof, _ := l.NextToken()
			if eof.Type != TokenEOF {
				t.Fatalf("expected EOF after literal, got %s", eof)
			}
		})
	}
}

func TestEscapedIdentifierText(t *testing.T) {
	tok, err := New("`open`").NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Text() != "open" {
		t.Fatalf("Text() = %q", tok.Text())
	}
	if tok.Is("open") {
		t.Fatalf("escaped identifier must not match the contextual keyword")
	}
}

func TestTriviaFlags(t *testing.T) {
	input := "a b\n  c/* note */d // tail\ne"
	toks, errs := All("", input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []struct {
		lit            string
		space, newline bool
	}{
		{"a", false, true},
		{"b", true, false},
		{"c", true, true},
		{"d", true, false},
		{"e", true, true},
		{"", false, false},
	}
	for i, w := range want {
		tok := toks[i]
		if tok.Literal != w.lit || tok.SpaceBefore != w.space || tok.NewlineBefore != w.newline {
			t.Fatalf("token %d = %q space=%v newline=%v, want %q %v %v", i, tok.Literal, tok.SpaceBefore, tok.NewlineBefore, w.lit, w.space, w.newline)
		}
	}
}

func TestNestedBlockComment(t *testing.T) {
	toks, errs := All("", "/* a /* b */ c */ x")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Literal != "x" {
		t.Fatalf("expected x after nested comment, got %q", toks[0].Literal)
	}
}

func TestPositions(t *testing.T) {
	toks, _ := All("f.swift", "let a\n  var b")
	vb := toks[2]
	if vb.Literal != "var" {
		t.Fatalf("unexpected token %v", vb)
	}
	if vb.Span.Start.Line != 2 || vb.Span.Start.Column != 3 || vb.Span.Start.Offset != 8 {
		t.Fatalf("unexpected start %+v", vb.Span.Start)
	}
	if vb.Span.End.Offset != 11 || vb.Span.End.Column != 6 {
		t.Fatalf("unexpected end %+v", vb.Span.End)
	}
	if vb.Span.Start.Filename != "f.swift" {
		t.Fatalf("filename not attached: %+v", vb.Span.Start)
	}
}

func TestLexErrorsAndResume(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category ErrorCategory
		offset   int
		next     string
	}{
		{"unterminated string", "\"abc\nlet", CategoryUnterminatedString, 0, "let"},
		{"invalid character", "a ' b", CategoryInvalidCharacter, 2, "b"},
		{"malformed number", "x 12abc y", CategoryMalformedNumber, 2, "y"},
		{"unterminated comment", "a /* never", CategoryUnterminatedComment, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			var lexErr *LexError
			for {
				tok, err := l.NextToken()
				if err != nil {
					if !errors.As(err, &lexErr) {
						t.Fatalf("expected *LexError, got %T", err)
					}
					if tok.Type != TokenIllegal {
						t.Fatalf("expected illegal token with error, got %s", tok.Type)
					}
					break
				}
				if tok.Type == TokenEOF {
					t.Fatalf("expected a lexical error")
				}
			}
			if lexErr.Category != tt.category {
				t.Fatalf("category = %s, want %s", lexErr.Category, tt.category)
			}
			if lexErr.Offset() != tt.offset {
				t.Fatalf("offset = %d, want %d", lexErr.Offset(), tt.offset)
			}
			next, err := l.NextToken()
			if err != nil {
				t.Fatalf("lexer did not resume: %v", err)
			}
			if next.Literal != tt.next {
				t.Fatalf("resumed at %q, want %q", next.Literal, tt.next)
			}
		})
	}
}

func TestTokensIsRestartable(t *testing.T) {
	seq := Tokens("", "let x = 1")
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	first, second := count(), count()
	if first != 5 || second != first {
		t.Fatalf("counts = %d, %d; want 5, 5", first, second)
	}

	n := 0
	for tok := range seq {
		n++
		if tok.Literal == "x" {
			break
		}
	}
	if n != 2 {
		t.Fatalf("early break consumed %d tokens", n)
	}
}
