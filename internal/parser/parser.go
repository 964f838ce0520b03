// Package parser implements the swiftparse recursive descent parser.
//
// A parse is a single synchronous pass over one source unit. All state lives
// in the Parser value created for that pass, so independent parses may run
// in parallel without coordination. Tokens are pulled from the lexer on
// demand into a buffer that supports bounded lookahead and backtracking at
// the grammar's ambiguous points.
package parser

import (
	"context"
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
	"github.com/orizon-lang/swiftparse/internal/position"
)

// Parser holds the state of one parse
type Parser struct {
	ctx  context.Context
	lx   *lexer.Lexer
	name string
	src  string
	opts Options

	toks []lexer.Token // tokens as the grammar sees them; operators may be split
	raw  []lexer.Token // lexer output without illegal tokens and end of input
	pos  int           // index of the current token in toks
	eof  bool          // end-of-input token has been buffered

	errors ErrorList
}

func newParser(ctx context.Context, name, src string, opts Options) *Parser {
	return &Parser{
		ctx:  ctx,
		lx:   lexer.NewWithFilename(src, name),
		name: name,
		src:  src,
		opts: opts,
	}
}

// ParseFile parses one source unit.
//
// In Strict mode (the default) the first error aborts the parse and the
// result is a nil tree with an ErrorList holding that error. With
// WithRecovery the parser resumes after each malformed region and returns
// the partial tree together with every error it recorded. The returned
// error is always nil or an ErrorList ordered by position.
func ParseFile(ctx context.Context, name, src string, opts ...Option) (*ast.File, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	p := newParser(ctx, name, src, o)
	file := p.parseFile()

	p.errors.Sort()
	if len(p.errors) > 0 && o.Recovery == Strict {
		return nil, ErrorList{p.errors[0]}
	}
	return file, p.errors.Err()
}

// parseFile parses top-level items until end of input
func (p *Parser) parseFile() *ast.File {
	b := ast.NewBuilder(p.name)
	for {
		for p.accept(lexer.TokenSemicolon) {
		}
		if p.at(lexer.TokenEOF) {
			break
		}
		if err := p.checkCancelled(); err != nil {
			p.errors = append(p.errors, err)
			break
		}
		if p.opts.Recovery == Strict && len(p.errors) > 0 {
			break
		}

		start := p.pos
		stmt, err := p.parseStatement()
		if err == nil {
			b.Add(stmt)
			err = p.expectStatementEnd(false)
		}
		if err != nil {
			if rerr := p.recover(err, listTopLevel, start); rerr != nil {
				break
			}
		}
	}
	b.SetTokens(p.raw)
	return b.File()
}

func (p *Parser) checkCancelled() *Error {
	if p.ctx == nil {
		return nil
	}
	if err := p.ctx.Err(); err != nil {
		e := p.errorAt(p.cur(), Cancelled, "parse cancelled: "+err.Error())
		return e
	}
	return nil
}

// ===== Token buffer =====

// fill makes sure the token n positions ahead is buffered, unless end of
// input comes first. Lexical errors are recorded here, once per bad token,
// and the illegal token is dropped from the stream.
func (p *Parser) fill(n int) {
	for len(p.toks) <= p.pos+n && !p.eof {
		tok, err := p.lx.NextToken()
		if err != nil {
			if lexErr, ok := err.(*lexer.LexError); ok {
				p.errors = append(p.errors, &Error{
					Pos:     lexErr.Pos,
					Kind:    LexError,
					Message: lexErr.Message,
					at:      len(p.toks),
				})
				continue
			}
			p.errors = append(p.errors, &Error{Pos: tok.Span.Start, Kind: LexError, Message: err.Error(), at: len(p.toks)})
			continue
		}
		if tok.Type == lexer.TokenEOF {
			p.eof = true
		} else {
			p.raw = append(p.raw, tok)
		}
		p.toks = append(p.toks, tok)
	}
}

// peek returns the token n positions after the current one; past the end
// it returns the end-of-input token.
func (p *Parser) peek(n int) lexer.Token {
	p.fill(n)
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) cur() lexer.Token { return p.peek(0) }

// next consumes and returns the current token. End of input is never
// consumed.
func (p *Parser) next() lexer.Token {
	tok := p.cur()
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

// prev returns the most recently consumed token.
func (p *Parser) prev() lexer.Token {
	if p.pos == 0 {
		return lexer.Token{Span: p.cur().Span}
	}
	return p.toks[p.pos-1]
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }
func (p *Parser) atWord(word string) bool    { return p.cur().Is(word) }
func (p *Parser) atOp(op string) bool        { return p.cur().IsOperator(op) }

func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) acceptWord(word string) bool {
	if p.atWord(word) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of type tt or reports UnexpectedToken.
func (p *Parser) expect(tt lexer.TokenType, context string) (lexer.Token, error) {
	if p.at(tt) {
		return p.next(), nil
	}
	return lexer.Token{}, p.unexpected(context, tt.String())
}

// splitOperator consumes prefix from the current operator token. When the
// token is longer than prefix, the remainder stays current as a new token.
// This lets >> close two generic argument lists and T?= read as T? =.
func (p *Parser) splitOperator(prefix string) bool {
	tok := p.cur()
	if tok.Type != lexer.TokenOperator || len(tok.Literal) < len(prefix) || tok.Literal[:len(prefix)] != prefix {
		return false
	}
	if len(tok.Literal) == len(prefix) {
		p.next()
		return true
	}
	mid := tok.Span.Start
	mid.Offset += len(prefix)
	mid.Column += len(prefix)

	head := tok
	head.Literal = prefix
	head.Span.End = mid

	rest := lexer.Token{
		Type:    lexer.TokenOperator,
		Literal: tok.Literal[len(prefix):],
		Span:    position.Span{Start: mid, End: tok.Span.End},
	}
	switch rest.Literal {
	case "=":
		rest.Type = lexer.TokenAssign
	case "->":
		rest.Type = lexer.TokenArrow
	}

	p.toks = append(p.toks, lexer.Token{})
	copy(p.toks[p.pos+2:], p.toks[p.pos+1:])
	p.toks[p.pos] = head
	p.toks[p.pos+1] = rest
	p.pos++
	return true
}

// sameLine reports whether tok starts on the line of the previous token.
func sameLine(tok lexer.Token) bool { return !tok.NewlineBefore }

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start position.Position) position.Span {
	end := p.prev().Span.End
	if end.Offset < start.Offset {
		end = start
	}
	return position.Span{Start: start, End: end}
}

func (p *Parser) ident(tok lexer.Token) *ast.Ident {
	return &ast.Ident{Span: tok.Span, Name: tok.Text()}
}

// text returns the source between two offsets.
func (p *Parser) text(span position.Span) string {
	if span.Start.Offset < 0 || span.End.Offset > len(p.src) || span.Start.Offset > span.End.Offset {
		return ""
	}
	return p.src[span.Start.Offset:span.End.Offset]
}

// ===== Error construction =====

func (p *Parser) errorAt(tok lexer.Token, kind ErrorKind, msg string, expected ...string) *Error {
	return &Error{
		Pos:      tok.Span.Start,
		Kind:     kind,
		Message:  msg,
		Expected: expected,
		at:       p.indexOf(tok),
	}
}

// indexOf returns the buffer index of tok, searching from the current
// position, which is where error tokens almost always are.
func (p *Parser) indexOf(tok lexer.Token) int {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].Span.Start.Offset == tok.Span.Start.Offset {
			return i
		}
	}
	for i := p.pos - 1; i >= 0; i-- {
		if p.toks[i].Span.Start.Offset == tok.Span.Start.Offset {
			return i
		}
	}
	return p.pos
}

// unexpected reports the current token as not allowed in context.
func (p *Parser) unexpected(context string, expected ...string) *Error {
	tok := p.cur()
	if tok.Type == lexer.TokenEOF {
		return p.errorAt(tok, UnexpectedToken, fmt.Sprintf("unexpected end of input in %s", context), expected...)
	}
	return p.errorAt(tok, UnexpectedToken, fmt.Sprintf("unexpected %s in %s", describe(tok), context), expected...)
}

// malformed reports a missing or ill-formed part of a declaration.
func (p *Parser) malformed(kind ast.DeclKind, msg string, expected ...string) *Error {
	tok := p.cur()
	e := p.errorAt(tok, MalformedDeclaration, fmt.Sprintf("%s, got %s", msg, describe(tok)), expected...)
	e.Decl = kind
	return e
}

// asMalformed turns an error from a declaration's sub-part into a
// MalformedDeclaration of that declaration. Errors that carry their own
// meaning pass through unchanged.
func asMalformed(err error, kind ast.DeclKind) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	switch e.Kind {
	case UnexpectedToken, MalformedPattern:
		e.Kind = MalformedDeclaration
		e.Decl = kind
	}
	return e
}

func describe(tok lexer.Token) string {
	switch {
	case tok.Type == lexer.TokenEOF:
		return "end of input"
	case tok.Type.IsKeyword():
		return fmt.Sprintf("keyword %q", tok.Literal)
	case tok.Type == lexer.TokenIdentifier:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case tok.Kind() == lexer.KindLiteral:
		return fmt.Sprintf("literal %s", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}
