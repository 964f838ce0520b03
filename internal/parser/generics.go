package parser

import (
	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// atGenericOpen reports whether a generic parameter list starts here. The
// '<' must follow the declared name without whitespace.
func (p *Parser) atGenericOpen() bool {
	tok := p.cur()
	return tok.Type == lexer.TokenOperator && !tok.SpaceBefore && tok.Literal[0] == '<'
}

// parseGenericParams parses <T, U: Constraint>. It returns nil when no
// list is present.
func (p *Parser) parseGenericParams(kind ast.DeclKind) ([]*ast.GenericParam, error) {
	if !p.atGenericOpen() {
		return nil, nil
	}
	p.splitOperator("<")
	var params []*ast.GenericParam
	for {
		if p.splitOperator(">") {
			if len(params) == 0 {
				return nil, p.malformed(kind, "empty generic parameter list", "generic parameter")
			}
			return params, nil
		}
		if len(params) > 0 {
			if !p.accept(lexer.TokenComma) {
				return nil, p.malformed(kind, "expected ',' or '>' in generic parameter list", ",", ">")
			}
		}
		tok := p.cur()
		if tok.Type != lexer.TokenIdentifier {
			return nil, p.malformed(kind, "expected generic parameter name", "identifier")
		}
		p.next()
		param := &ast.GenericParam{Name: p.ident(tok)}
		if p.accept(lexer.TokenColon) {
			c, err := p.parseType()
			if err != nil {
				return nil, asMalformed(err, kind)
			}
			param.Constraint = c
		}
		param.Span = p.spanFrom(tok.Span.Start)
		params = append(params, param)
	}
}

// parseInheritance parses an optional ': A, B' list.
func (p *Parser) parseInheritance(kind ast.DeclKind) ([]ast.Type, error) {
	if !p.accept(lexer.TokenColon) {
		return nil, nil
	}
	var types []ast.Type
	for {
		if p.at(lexer.TokenClass) {
			// class-only protocol constraint
			tok := p.next()
			types = append(types, &ast.NamedType{Span: tok.Span, Name: p.ident(tok)})
		} else {
			t, err := p.parseType()
			if err != nil {
				return nil, asMalformed(err, kind)
			}
			types = append(types, t)
		}
		if !p.accept(lexer.TokenComma) {
			return types, nil
		}
	}
}

// parseWhereClause parses an optional 'where T: P, U == V' clause.
func (p *Parser) parseWhereClause(kind ast.DeclKind) ([]*ast.Requirement, error) {
	if !p.at(lexer.TokenWhere) {
		return nil, nil
	}
	p.next()
	var reqs []*ast.Requirement
	for {
		left, err := p.parseType()
		if err != nil {
			return nil, asMalformed(err, kind)
		}
		req := &ast.Requirement{Left: left}
		switch {
		case p.accept(lexer.TokenColon):
			req.Relation = ":"
		case p.atOp("=="):
			p.next()
			req.Relation = "=="
		default:
			return nil, p.malformed(kind, "expected ':' or '==' in where clause", ":", "==")
		}
		right, err := p.parseType()
		if err != nil {
			return nil, asMalformed(err, kind)
		}
		req.Right = right
		req.Span = p.spanFrom(left.GetSpan().Start)
		reqs = append(reqs, req)
		if !p.accept(lexer.TokenComma) {
			return reqs, nil
		}
	}
}
