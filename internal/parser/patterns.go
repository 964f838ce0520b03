package parser

import (
	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// patternContext tells the pattern parser where the pattern appears.
type patternContext struct {
	binding bool // binding position: bare names bind instead of match
	noBrace bool // a '{' ends the pattern (catch clauses)
}

var (
	matchPosition   = patternContext{}
	bindingPosition = patternContext{binding: true}
)

// parsePattern parses one pattern. Alternatives are tried in a fixed
// order because the grammar is not LL(1) here:
//
//  1. '(' starts a tuple pattern
//  2. let or var starts a value-binding pattern
//  3. a qualified name directly followed by '(' is an enum case pattern
//  4. '_' is the wildcard
//  5. anything else is an expression pattern in match position and an
//     identifier pattern in binding position
//
// In match position any of these except an expression pattern may be
// followed by as Type.
func (p *Parser) parsePattern(pc patternContext) (ast.Pattern, error) {
	pat, err := p.parsePatternTerm(pc)
	if err != nil || pc.binding {
		return pat, err
	}
	if _, isExpr := pat.(*ast.ExprPattern); isExpr {
		return pat, nil
	}
	return p.parseCastSuffix(pat)
}

// parseCastSuffix wraps pat in a CastPattern when as Type follows.
func (p *Parser) parseCastSuffix(pat ast.Pattern) (ast.Pattern, error) {
	if !p.at(lexer.TokenAs) {
		return pat, nil
	}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, p.patternError(err)
	}
	return &ast.CastPattern{Span: p.spanFrom(pat.GetSpan().Start), Pattern: pat, Type: t}, nil
}

func (p *Parser) parsePatternTerm(pc patternContext) (ast.Pattern, error) {
	tok := p.cur()

	if tok.Type == lexer.TokenLParen {
		m := p.mark()
		tuple, err := p.parseTuplePattern(pc)
		if err != nil {
			return nil, err
		}
		if pc.binding || !p.continuesExpression() {
			return tuple, nil
		}
		// (a + b) * 2 in match position is an expression
		p.reset(m)
		return p.parseExprPattern(pc)
	}

	if tok.Type == lexer.TokenLet || tok.Type == lexer.TokenVar {
		p.next()
		inner, err := p.parsePattern(patternContext{binding: true, noBrace: pc.noBrace})
		if err != nil {
			return nil, err
		}
		if !pc.binding {
			// let x as T casts the bound pattern
			if inner, err = p.parseCastSuffix(inner); err != nil {
				return nil, err
			}
		}
		return &ast.ValueBindingPattern{Span: p.spanFrom(tok.Span.Start), Introducer: tok.Literal, Pattern: inner}, nil
	}

	if n := p.qualifiedNameLength(); n > 0 && p.peek(n).Type == lexer.TokenLParen && sameLine(p.peek(n)) {
		return p.parseEnumCasePattern(pc)
	}

	if tok.Type == lexer.TokenUnderscore && !p.continuesExpressionAt(1) {
		p.next()
		return &ast.WildcardPattern{Span: tok.Span}, nil
	}

	if tok.Type == lexer.TokenIs && !pc.binding {
		p.next()
		t, err := p.parseType()
		if err != nil {
			return nil, p.patternError(err)
		}
		return &ast.IsPattern{Span: p.spanFrom(tok.Span.Start), Type: t}, nil
	}

	if pc.binding {
		if tok.Type != lexer.TokenIdentifier {
			return nil, p.errorAt(tok, MalformedPattern, "expected a name to bind, got "+describe(tok), "identifier", "(", "_")
		}
		p.next()
		return &ast.IdentPattern{Name: p.ident(tok)}, nil
	}
	return p.parseExprPattern(pc)
}

func (p *Parser) parseExprPattern(pc patternContext) (ast.Pattern, error) {
	x, err := p.parseExpr(exprFlags{noBrace: pc.noBrace})
	if err != nil {
		return nil, p.patternError(err)
	}
	return &ast.ExprPattern{X: x}, nil
}

// patternError reclassifies a failure inside a pattern.
func (p *Parser) patternError(err error) error {
	if e, ok := err.(*Error); ok && e.Kind == UnexpectedToken {
		e.Kind = MalformedPattern
	}
	return err
}

// parseTuplePattern parses a parenthesized list of one or more patterns.
// An element may carry a type annotation.
func (p *Parser) parseTuplePattern(pc patternContext) (*ast.TuplePattern, error) {
	open := p.next()
	tuple := &ast.TuplePattern{}
	for {
		if p.at(lexer.TokenRParen) {
			if len(tuple.Elements) == 0 {
				return nil, p.errorAt(p.cur(), MalformedPattern, "tuple pattern needs at least one element", "pattern")
			}
			p.next()
			tuple.Span = p.spanFrom(open.Span.Start)
			return tuple, nil
		}
		if len(tuple.Elements) > 0 {
			if !p.accept(lexer.TokenComma) {
				return nil, p.errorAt(p.cur(), MalformedPattern, "expected ',' or ')' in tuple pattern, got "+describe(p.cur()), ",", ")")
			}
		}
		elem, err := p.parsePattern(patternContext{binding: pc.binding})
		if err != nil {
			return nil, err
		}
		if p.at(lexer.TokenColon) {
			p.next()
			t, err := p.parseType()
			if err != nil {
				return nil, p.patternError(err)
			}
			elem = &ast.TypedPattern{Span: p.spanFrom(elem.GetSpan().Start), Pattern: elem, Type: t}
		}
		tuple.Elements = append(tuple.Elements, elem)
	}
}

// qualifiedNameLength returns the number of tokens of a name such as a,
// a.b.c or .c starting at the current token, or 0 when none starts here.
func (p *Parser) qualifiedNameLength() int {
	n := 0
	if p.at(lexer.TokenDot) {
		n = 1
	}
	for {
		tok := p.peek(n)
		if tok.Type != lexer.TokenIdentifier && tok.Type != lexer.TokenSelfType && !(n > 0 && tok.IsWord()) {
			if n > 0 && p.peek(n-1).Type == lexer.TokenDot {
				return 0
			}
			return n
		}
		n++
		if p.peek(n).Type != lexer.TokenDot {
			return n
		}
		n++
	}
}

func (p *Parser) parseEnumCasePattern(pc patternContext) (ast.Pattern, error) {
	start := p.cur().Span.Start
	pat := &ast.EnumCasePattern{}
	if p.accept(lexer.TokenDot) {
		pat.LeadingDot = true
	}
	for {
		pat.Path = append(pat.Path, p.ident(p.next()))
		if !p.accept(lexer.TokenDot) {
			break
		}
	}
	p.next() // (
	pat.Args = []ast.Pattern{}
	for !p.at(lexer.TokenRParen) {
		if len(pat.Args) > 0 {
			if !p.accept(lexer.TokenComma) {
				return nil, p.errorAt(p.cur(), MalformedPattern, "expected ',' or ')' in associated values, got "+describe(p.cur()), ",", ")")
			}
		}
		sub, err := p.parsePattern(patternContext{binding: pc.binding})
		if err != nil {
			return nil, err
		}
		pat.Args = append(pat.Args, sub)
	}
	p.next()
	pat.Span = p.spanFrom(start)
	return pat, nil
}

// continuesExpression reports whether the current token would extend an
// expression that ended just before it.
func (p *Parser) continuesExpression() bool { return p.continuesExpressionAt(0) }

func (p *Parser) continuesExpressionAt(n int) bool {
	tok := p.peek(n)
	switch tok.Type {
	case lexer.TokenDot:
		return true
	case lexer.TokenOperator:
		_, ok := binaryPrecedence(tok.Literal)
		return ok && tok.SpaceBefore == p.peek(n+1).SpaceBefore
	}
	return false
}
