package parser

import (
	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// parseType parses type syntax: names with generic arguments and
// qualification, optionals, arrays, dictionaries, tuples, function types,
// compositions and the inout/some/any specifiers.
func (p *Parser) parseType() (ast.Type, error) {
	first, err := p.parseTypeOperand()
	if err != nil {
		return nil, err
	}
	if !p.atOp("&") {
		return first, nil
	}
	comp := &ast.CompositionType{Types: []ast.Type{first}}
	for p.atOp("&") {
		p.next()
		t, err := p.parseTypeOperand()
		if err != nil {
			return nil, err
		}
		comp.Types = append(comp.Types, t)
	}
	comp.Span = p.spanFrom(first.GetSpan().Start)
	return comp, nil
}

func (p *Parser) parseTypeOperand() (ast.Type, error) {
	tok := p.cur()
	start := tok.Span.Start

	switch {
	case tok.Type == lexer.TokenInout,
		(tok.Is("some") || tok.Is("any")) && p.peek(1).IsWord() && sameLine(p.peek(1)):
		p.next()
		elem, err := p.parseTypeOperand()
		if err != nil {
			return nil, err
		}
		return &ast.SpecifierType{Span: p.spanFrom(start), Specifier: tok.Literal, Elem: elem}, nil

	case tok.Type == lexer.TokenAt:
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		elem, err := p.parseTypeOperand()
		if err != nil {
			return nil, err
		}
		return &ast.SpecifierType{Span: p.spanFrom(start), Specifier: attr.String(), Elem: elem}, nil
	}

	var t ast.Type
	var err error
	switch {
	case tok.Type == lexer.TokenLBracket:
		t, err = p.parseCollectionType()
	case tok.Type == lexer.TokenLParen:
		t, err = p.parseTupleOrFuncType()
	case isTypeNameToken(tok):
		t, err = p.parseNamedType()
	default:
		return nil, p.unexpected("type", "type")
	}
	if err != nil {
		return nil, err
	}
	return p.parseTypeSuffix(t)
}

// isTypeNameToken accepts identifiers, Self and the literal keywords true
// and false, which appear as types in binding conditions.
func isTypeNameToken(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenSelfType, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNil:
		return true
	}
	return false
}

// parseTypeSuffix applies ? and ! written directly after a type.
func (p *Parser) parseTypeSuffix(t ast.Type) (ast.Type, error) {
	for {
		tok := p.cur()
		if tok.Type != lexer.TokenOperator || tok.SpaceBefore {
			return t, nil
		}
		switch tok.Literal[0] {
		case '?':
			p.splitOperator("?")
			t = &ast.OptionalType{Span: p.spanFrom(t.GetSpan().Start), Elem: t}
		case '!':
			p.splitOperator("!")
			t = &ast.OptionalType{Span: p.spanFrom(t.GetSpan().Start), Elem: t, Implicit: true}
		default:
			return t, nil
		}
	}
}

func (p *Parser) parseNamedType() (ast.Type, error) {
	var t *ast.NamedType
	for {
		tok := p.next()
		named := &ast.NamedType{Base: t, Name: p.ident(tok)}
		if p.cur().Type == lexer.TokenOperator && !p.cur().SpaceBefore && p.cur().Literal[0] == '<' {
			args, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}
			named.Args = args
		}
		start := tok.Span.Start
		if t != nil {
			start = t.Span.Start
		}
		named.Span = p.spanFrom(start)
		t = named

		if !p.at(lexer.TokenDot) || !p.peek(1).IsWord() {
			return t, nil
		}
		p.next()
	}
}

// parseGenericArgs parses <T, U> after a type name.
func (p *Parser) parseGenericArgs() ([]ast.Type, error) {
	p.splitOperator("<")
	args := []ast.Type{}
	for {
		if p.splitOperator(">") {
			return args, nil
		}
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokenComma, "generic argument list"); err != nil {
				return nil, err
			}
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
}

// parseCollectionType parses [T] and [K: V].
func (p *Parser) parseCollectionType() (ast.Type, error) {
	open := p.next()
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenColon) {
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBracket, "dictionary type"); err != nil {
			return nil, err
		}
		return &ast.DictType{Span: p.spanFrom(open.Span.Start), Key: elem, Value: value}, nil
	}
	if _, err := p.expect(lexer.TokenRBracket, "array type"); err != nil {
		return nil, err
	}
	return &ast.ArrayType{Span: p.spanFrom(open.Span.Start), Elem: elem}, nil
}

// parseTupleOrFuncType parses (A, b: B) and, when effects or an arrow
// follow the parentheses, a function type.
func (p *Parser) parseTupleOrFuncType() (ast.Type, error) {
	open := p.next()
	var elems []*ast.TupleTypeElement
	for !p.at(lexer.TokenRParen) {
		if len(elems) > 0 {
			if _, err := p.expect(lexer.TokenComma, "tuple type"); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseTupleTypeElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	p.next()

	effects := p.parseEffects()
	if p.at(lexer.TokenArrow) {
		p.next()
		result, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.FuncType{Span: p.spanFrom(open.Span.Start), Params: elems, Effects: effects, Result: result}, nil
	}
	if effects != (ast.Effects{}) {
		return nil, p.unexpected("function type", "->")
	}
	return &ast.TupleType{Span: p.spanFrom(open.Span.Start), Elements: elems}, nil
}

func (p *Parser) parseTupleTypeElement() (*ast.TupleTypeElement, error) {
	start := p.cur().Span.Start
	elem := &ast.TupleTypeElement{}
	if (p.cur().IsWord() || p.at(lexer.TokenUnderscore)) && p.peek(1).Type == lexer.TokenColon {
		elem.Label = p.ident(p.next())
		p.next()
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	elem.Type = t
	if p.atOp("...") {
		p.next()
		elem.Variadic = true
	}
	elem.Span = p.spanFrom(start)
	return elem, nil
}

// parseEffects consumes async, throws and rethrows in signature position.
func (p *Parser) parseEffects() ast.Effects {
	var e ast.Effects
	for {
		switch {
		case p.atWord("async"):
			e.Async = true
		case p.at(lexer.TokenThrows):
			e.Throws = true
		case p.at(lexer.TokenRethrows):
			e.Rethrows = true
		default:
			return e
		}
		p.next()
	}
}
