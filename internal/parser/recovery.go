package parser

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// listContext identifies the kind of item list an error was raised in.
type listContext int

const (
	listTopLevel listContext = iota
	listBlock                // statements inside braces, switch clause bodies included
	listMembers              // declarations inside a type or extension body
	listClauses              // case and default clauses of a switch
)

// recover handles an error raised while parsing one item of a list that
// started at token index start. It returns nil when parsing may continue
// with the next item, or the error when it must propagate. Errors are
// recorded only once: nested lists hand unrecoverable errors upwards and
// the top level records them.
func (p *Parser) recover(err error, ctx listContext, start int) error {
	e, ok := err.(*Error)
	if !ok {
		e = p.errorAt(p.cur(), UnexpectedToken, err.Error())
	}

	fatal := p.opts.Recovery == Strict || e.Kind == Cancelled ||
		(e.Kind == UnterminatedBlock && ctx != listTopLevel)
	if fatal {
		if ctx == listTopLevel {
			p.errors = append(p.errors, e)
		}
		return e
	}

	p.synchronize(ctx, start, e.at)
	e.Hint = fmt.Sprintf("skipped to %s", p.cur().Span.Start)
	p.errors = append(p.errors, e)
	return nil
}

// synchronize skips tokens from the error position to the next statement
// or declaration boundary: a line that begins with a declaration or
// statement keyword, the token after a ';', or the '}' closing the
// enclosing list. It always moves past the item's first token so the list
// loop makes progress.
func (p *Parser) synchronize(ctx listContext, start, from int) {
	if from > p.pos && from < len(p.toks) {
		p.pos = from
	}
	depth := 0
	for {
		tok := p.cur()
		if tok.Type == lexer.TokenEOF {
			return
		}
		if depth == 0 && p.pos > start {
			if tok.Type == lexer.TokenRBrace && ctx != listTopLevel {
				return
			}
			if p.prev().Type == lexer.TokenSemicolon {
				return
			}
			if tok.NewlineBefore && p.startsBoundary(ctx) {
				return
			}
		}
		switch tok.Type {
		case lexer.TokenLParen, lexer.TokenLBrace, lexer.TokenLBracket:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket:
			if depth > 0 {
				depth--
			}
		case lexer.TokenRBrace:
			if depth > 0 {
				depth--
			} else if ctx != listTopLevel {
				// closes the enclosing list
				return
			}
		}
		p.next()
	}
}

// startsBoundary reports whether the current token can begin a new item.
func (p *Parser) startsBoundary(ctx listContext) bool {
	tok := p.cur()
	if ctx == listClauses {
		return tok.Type == lexer.TokenCase || tok.Type == lexer.TokenDefault
	}
	switch tok.Type {
	case lexer.TokenFor, lexer.TokenWhile, lexer.TokenRepeat, lexer.TokenDo,
		lexer.TokenIf, lexer.TokenGuard, lexer.TokenSwitch, lexer.TokenThrow,
		lexer.TokenReturn, lexer.TokenBreak, lexer.TokenContinue,
		lexer.TokenFallthrough, lexer.TokenDefer:
		return ctx != listMembers
	case lexer.TokenCase, lexer.TokenDefault:
		return ctx != listTopLevel
	}
	return p.startsDeclaration()
}

// expectStatementEnd checks what follows a complete statement. Statements
// sharing a line must be separated by ';'. Inside switch clauses a case or
// default label also ends a statement.
func (p *Parser) expectStatementEnd(inSwitch bool) error {
	tok := p.cur()
	switch {
	case tok.Type == lexer.TokenSemicolon, tok.Type == lexer.TokenRBrace, tok.Type == lexer.TokenEOF:
		return nil
	case tok.NewlineBefore:
		return nil
	case inSwitch && (tok.Type == lexer.TokenCase || tok.Type == lexer.TokenDefault):
		return nil
	}
	return p.errorAt(tok, UnexpectedToken,
		fmt.Sprintf("unexpected %s; statements on the same line must be separated by ';'", describe(tok)),
		";", "newline")
}
