package parser

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// parseDeclaration parses modifiers and attributes followed by one
// declaration. ctx is the list the declaration appears in; enum cases are
// only accepted in member lists.
func (p *Parser) parseDeclaration(ctx listContext) (ast.Decl, error) {
	start := p.cur()
	mods, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	if !isDeclIntroducer(tok) || (tok.Type == lexer.TokenCase && ctx != listMembers) {
		return nil, p.errorAt(tok, UnexpectedDeclarationIntroducer,
			fmt.Sprintf("expected a declaration keyword after modifiers, got %s", describe(tok)), introducerNames...)
	}

	base := ast.DeclBase{Mods: mods}
	base.Span.Start = start.Span.Start

	switch tok.Type {
	case lexer.TokenImport:
		return p.parseImport(base)
	case lexer.TokenLet, lexer.TokenVar:
		return p.parseBindingDecl(base)
	case lexer.TokenTypealias:
		return p.parseTypealias(base)
	case lexer.TokenFunc:
		return p.parseFunc(base)
	case lexer.TokenInit:
		return p.parseInit(base)
	case lexer.TokenDeinit:
		return p.parseDeinit(base)
	case lexer.TokenSubscript:
		return p.parseSubscript(base)
	case lexer.TokenClass:
		return p.parseNominal(base, ast.NominalClass)
	case lexer.TokenStruct:
		return p.parseNominal(base, ast.NominalStruct)
	case lexer.TokenEnum:
		return p.parseNominal(base, ast.NominalEnum)
	case lexer.TokenProtocol:
		return p.parseNominal(base, ast.NominalProtocol)
	case lexer.TokenExtension:
		return p.parseExtension(base)
	case lexer.TokenCase:
		return p.parseEnumCase(base)
	case lexer.TokenAssociatedtype:
		return p.parseAssociatedType(base)
	default:
		return p.parseOperatorDecl(base)
	}
}

// finish closes the span of a declaration at the last consumed token.
func (p *Parser) finish(b *ast.DeclBase) {
	b.Span = p.spanFrom(b.Span.Start)
}

var importKinds = map[lexer.TokenType]bool{
	lexer.TokenStruct:    true,
	lexer.TokenClass:     true,
	lexer.TokenEnum:      true,
	lexer.TokenProtocol:  true,
	lexer.TokenTypealias: true,
	lexer.TokenLet:       true,
	lexer.TokenVar:       true,
	lexer.TokenFunc:      true,
}

func (p *Parser) parseImport(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.ImportDecl{DeclBase: base}
	if importKinds[p.cur().Type] {
		d.ImportKind = p.next().Literal
	}
	for {
		tok := p.cur()
		if !tok.IsWord() {
			return nil, p.malformed(ast.DeclImport, "expected module path", "identifier")
		}
		p.next()
		d.Path = append(d.Path, p.ident(tok))
		if !p.at(lexer.TokenDot) {
			break
		}
		p.next()
	}
	p.finish(&d.DeclBase)
	return d, nil
}

// parseBindingDecl parses let and var declarations.
func (p *Parser) parseBindingDecl(base ast.DeclBase) (ast.Decl, error) {
	intro := p.next()
	kind := ast.DeclConstant
	if intro.Type == lexer.TokenVar {
		kind = ast.DeclVariable
	}

	var bindings []*ast.Binding
	for {
		b, err := p.parseBinding(kind)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	if kind == ast.DeclConstant {
		d := &ast.ConstantDecl{DeclBase: base, Bindings: bindings}
		p.finish(&d.DeclBase)
		return d, nil
	}

	d := &ast.VariableDecl{DeclBase: base, Bindings: bindings}
	if p.at(lexer.TokenLBrace) && len(bindings) == 1 {
		last := bindings[0]
		switch {
		case p.opts.Accessors == AccessorsAuto && p.atAccessorBlock():
			accessors, err := p.parseAccessorBlock(ast.DeclVariable)
			if err != nil {
				return nil, err
			}
			d.Accessors = accessors
		case last.Init == nil:
			body, err := p.parseBody(ast.DeclVariable)
			if err != nil {
				return nil, err
			}
			d.Body = body
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseBinding(kind ast.DeclKind) (*ast.Binding, error) {
	start := p.cur().Span.Start
	pat, err := p.parsePattern(bindingPosition)
	if err != nil {
		return nil, asMalformed(err, kind)
	}
	b := &ast.Binding{Pattern: pat}
	if p.accept(lexer.TokenColon) {
		if b.Type, err = p.parseType(); err != nil {
			return nil, asMalformed(err, kind)
		}
	}
	if p.accept(lexer.TokenAssign) {
		if b.Init, err = p.parseExpr(exprFlags{}); err != nil {
			return nil, asMalformed(err, kind)
		}
	}
	b.Span = p.spanFrom(start)
	return b, nil
}

var accessorNames = map[string]bool{"get": true, "set": true, "willSet": true, "didSet": true}

// atAccessorBlock reports whether the '{' at the current token opens an
// accessor block: its first entry, after any modifiers, is get, set,
// willSet or didSet.
func (p *Parser) atAccessorBlock() bool {
	n := 1
	for {
		tok := p.peek(n)
		if tok.Type == lexer.TokenAt {
			// @attr get
			n += 2
			continue
		}
		if _, ok := modifierOf(tok); ok && !accessorNames[tok.Literal] {
			n++
			continue
		}
		return tok.Type == lexer.TokenIdentifier && accessorNames[tok.Literal]
	}
}

// parseAccessorBlock parses { get set } requirements and computed
// property accessors such as { get { ... } set(v) { ... } }.
func (p *Parser) parseAccessorBlock(kind ast.DeclKind) ([]*ast.Accessor, error) {
	open := p.next()
	var accessors []*ast.Accessor
	for {
		for p.accept(lexer.TokenSemicolon) {
		}
		if p.accept(lexer.TokenRBrace) {
			return accessors, nil
		}
		if p.at(lexer.TokenEOF) {
			return nil, p.errorAt(p.cur(), UnterminatedBlock,
				fmt.Sprintf("missing } to close accessor block opened at %s", open.Span.Start), "}")
		}

		start := p.cur().Span.Start
		mods, err := p.parseModifiers()
		if err != nil {
			return nil, err
		}
		name := p.cur()
		if name.Type != lexer.TokenIdentifier || !accessorNames[name.Literal] {
			return nil, p.malformed(kind, "expected get, set, willSet or didSet", "get", "set", "willSet", "didSet")
		}
		p.next()
		acc := &ast.Accessor{Mods: mods, Name: name.Literal}
		if p.at(lexer.TokenLParen) && name.Literal != "get" {
			p.next()
			param := p.cur()
			if param.Type != lexer.TokenIdentifier {
				return nil, p.malformed(kind, "expected accessor parameter name", "identifier")
			}
			p.next()
			acc.Param = p.ident(param)
			if _, err := p.expect(lexer.TokenRParen, "accessor parameter"); err != nil {
				return nil, asMalformed(err, kind)
			}
		}
		p.parseEffects()
		if p.at(lexer.TokenLBrace) {
			if acc.Body, err = p.parseBody(kind); err != nil {
				return nil, err
			}
		}
		acc.Span = p.spanFrom(start)
		accessors = append(accessors, acc)
	}
}

// parseBody parses the body of a function-like declaration. With opaque
// bodies the block is stored verbatim.
func (p *Parser) parseBody(kind ast.DeclKind) (*ast.BlockStmt, error) {
	if !p.at(lexer.TokenLBrace) {
		return nil, p.malformed(kind, "expected '{' to start body", "{")
	}
	if !p.opts.OpaqueBodies {
		return p.parseBlock()
	}
	open := p.next()
	if _, err := p.skipBalanced(open, lexer.TokenLBrace, lexer.TokenRBrace); err != nil {
		return nil, err
	}
	span := p.spanFrom(open.Span.Start)
	return &ast.BlockStmt{Span: span, Verbatim: p.text(span)}, nil
}

func (p *Parser) parseTypealias(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.TypeAliasDecl{DeclBase: base}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil, p.malformed(ast.DeclTypealias, "expected alias name", "identifier")
	}
	p.next()
	d.Name = p.ident(name)

	var err error
	if d.Generics, err = p.parseGenericParams(ast.DeclTypealias); err != nil {
		return nil, err
	}
	if !p.accept(lexer.TokenAssign) {
		return nil, p.malformed(ast.DeclTypealias, "expected '=' and aliased type", "=")
	}
	if d.Aliased, err = p.parseType(); err != nil {
		return nil, asMalformed(err, ast.DeclTypealias)
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseFunc(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.FuncDecl{DeclBase: base}
	name := p.cur()
	switch {
	case name.Type == lexer.TokenIdentifier, name.Type == lexer.TokenOperator:
		p.next()
		d.Name = p.ident(name)
	case name.IsWord() && name.Literal != name.Text():
		p.next()
		d.Name = p.ident(name)
	default:
		return nil, p.malformed(ast.DeclFunction, "expected function name", "identifier", "operator")
	}

	var err error
	if name.Type != lexer.TokenOperator {
		if d.Generics, err = p.parseGenericParams(ast.DeclFunction); err != nil {
			return nil, err
		}
	}
	if d.Params, err = p.parseParams(ast.DeclFunction); err != nil {
		return nil, err
	}
	d.Effects = p.parseEffects()
	if p.accept(lexer.TokenArrow) {
		if d.Result, err = p.parseType(); err != nil {
			return nil, asMalformed(err, ast.DeclFunction)
		}
	}
	if d.Where, err = p.parseWhereClause(ast.DeclFunction); err != nil {
		return nil, err
	}
	if p.at(lexer.TokenLBrace) {
		if d.Body, err = p.parseBody(ast.DeclFunction); err != nil {
			return nil, err
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

// parseParams parses a parenthesized parameter list:
//
//	(x: Int, _ y: Int, label name: Int = 1, rest: Int...)
func (p *Parser) parseParams(kind ast.DeclKind) ([]*ast.Param, error) {
	if !p.at(lexer.TokenLParen) {
		return nil, p.malformed(kind, "expected '(' to start parameter list", "(")
	}
	p.next()
	params := []*ast.Param{}
	for !p.accept(lexer.TokenRParen) {
		if len(params) > 0 && !p.accept(lexer.TokenComma) {
			return nil, p.malformed(kind, "expected ',' or ')' in parameter list", ",", ")")
		}
		param, err := p.parseParam(kind)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

func (p *Parser) parseParam(kind ast.DeclKind) (*ast.Param, error) {
	start := p.cur().Span.Start
	param := &ast.Param{}
	switch tok := p.cur(); {
	case tok.Type == lexer.TokenUnderscore:
		p.next()
		param.NoLabel = true
		if p.cur().IsWord() {
			param.Name = p.ident(p.next())
		}
	case tok.IsWord():
		p.next()
		if second := p.cur(); second.IsWord() || second.Type == lexer.TokenUnderscore {
			p.next()
			param.Label = p.ident(tok)
			param.Name = p.ident(second)
		} else {
			param.Name = p.ident(tok)
		}
	default:
		return nil, p.malformed(kind, "expected parameter name", "identifier", "_")
	}

	if !p.accept(lexer.TokenColon) {
		return nil, p.malformed(kind, "expected ':' and parameter type", ":")
	}
	t, err := p.parseType()
	if err != nil {
		return nil, asMalformed(err, kind)
	}
	param.Type = t
	if p.atOp("...") {
		p.next()
		param.Variadic = true
	}
	if p.accept(lexer.TokenAssign) {
		if param.Default, err = p.parseExpr(exprFlags{}); err != nil {
			return nil, asMalformed(err, kind)
		}
	}
	param.Span = p.spanFrom(start)
	return param, nil
}

func (p *Parser) parseInit(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.InitDecl{DeclBase: base}
	if !p.cur().SpaceBefore {
		if p.splitOperator("?") {
			d.Failable = "?"
		} else if p.splitOperator("!") {
			d.Failable = "!"
		}
	}
	var err error
	if d.Generics, err = p.parseGenericParams(ast.DeclInit); err != nil {
		return nil, err
	}
	if d.Params, err = p.parseParams(ast.DeclInit); err != nil {
		return nil, err
	}
	d.Effects = p.parseEffects()
	if d.Where, err = p.parseWhereClause(ast.DeclInit); err != nil {
		return nil, err
	}
	if p.at(lexer.TokenLBrace) {
		if d.Body, err = p.parseBody(ast.DeclInit); err != nil {
			return nil, err
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseDeinit(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.DeinitDecl{DeclBase: base}
	if p.at(lexer.TokenLBrace) {
		body, err := p.parseBody(ast.DeclDeinit)
		if err != nil {
			return nil, err
		}
		d.Body = body
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseSubscript(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.SubscriptDecl{DeclBase: base}
	var err error
	if d.Generics, err = p.parseGenericParams(ast.DeclSubscript); err != nil {
		return nil, err
	}
	if d.Params, err = p.parseParams(ast.DeclSubscript); err != nil {
		return nil, err
	}
	if !p.accept(lexer.TokenArrow) {
		return nil, p.malformed(ast.DeclSubscript, "expected '->' and element type", "->")
	}
	if d.Result, err = p.parseType(); err != nil {
		return nil, asMalformed(err, ast.DeclSubscript)
	}
	if d.Where, err = p.parseWhereClause(ast.DeclSubscript); err != nil {
		return nil, err
	}
	if p.at(lexer.TokenLBrace) {
		if p.opts.Accessors == AccessorsAuto && p.atAccessorBlock() {
			d.Accessors, err = p.parseAccessorBlock(ast.DeclSubscript)
		} else {
			d.Body, err = p.parseBody(ast.DeclSubscript)
		}
		if err != nil {
			return nil, err
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseNominal(base ast.DeclBase, nk ast.NominalKind) (ast.Decl, error) {
	p.next()
	d := &ast.NominalTypeDecl{DeclBase: base, TypeKind: nk}
	kind := d.Kind()

	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil, p.malformed(kind, fmt.Sprintf("expected %s name", nk), "identifier")
	}
	p.next()
	d.Name = p.ident(name)

	var err error
	if d.Generics, err = p.parseGenericParams(kind); err != nil {
		return nil, err
	}
	if d.Inherits, err = p.parseInheritance(kind); err != nil {
		return nil, err
	}
	if d.Where, err = p.parseWhereClause(kind); err != nil {
		return nil, err
	}
	if d.Members, err = p.parseMembers(kind, nk == ast.NominalEnum); err != nil {
		return nil, err
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseExtension(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.ExtensionDecl{DeclBase: base}
	if !isTypeNameToken(p.cur()) {
		return nil, p.malformed(ast.DeclExtension, "expected extended type name", "identifier")
	}
	var err error
	if d.Extended, err = p.parseType(); err != nil {
		return nil, asMalformed(err, ast.DeclExtension)
	}
	if d.Inherits, err = p.parseInheritance(ast.DeclExtension); err != nil {
		return nil, err
	}
	if d.Where, err = p.parseWhereClause(ast.DeclExtension); err != nil {
		return nil, err
	}
	if d.Members, err = p.parseMembers(ast.DeclExtension, false); err != nil {
		return nil, err
	}
	p.finish(&d.DeclBase)
	return d, nil
}

// parseMembers parses a brace-delimited member list. Every member is a
// declaration; enum cases are accepted when allowCase is set.
func (p *Parser) parseMembers(kind ast.DeclKind, allowCase bool) ([]ast.Decl, error) {
	if !p.at(lexer.TokenLBrace) {
		return nil, p.malformed(kind, "expected '{' to start member list", "{")
	}
	open := p.next()
	members := []ast.Decl{}
	for {
		for p.accept(lexer.TokenSemicolon) {
		}
		if p.accept(lexer.TokenRBrace) {
			return members, nil
		}
		if p.at(lexer.TokenEOF) {
			return nil, p.errorAt(p.cur(), UnterminatedBlock,
				fmt.Sprintf("missing } to close %s body opened at %s", kind, open.Span.Start), "}")
		}
		if err := p.checkCancelled(); err != nil {
			return nil, err
		}

		start := p.pos
		var err error
		if p.startsDeclaration() || (allowCase && p.at(lexer.TokenCase)) {
			var d ast.Decl
			if d, err = p.parseDeclaration(listMembers); err == nil {
				if _, isCase := d.(*ast.EnumCaseDecl); isCase && !allowCase {
					err = p.errorAt(p.toks[start], UnexpectedToken, fmt.Sprintf("enum case outside an enum in %s body", kind), introducerNames...)
				} else {
					members = append(members, d)
					err = p.expectStatementEnd(false)
				}
			}
		} else {
			err = p.errorAt(p.cur(), UnexpectedToken,
				fmt.Sprintf("expected a member declaration in %s body, got %s", kind, describe(p.cur())), introducerNames...)
		}
		if err != nil {
			if rerr := p.recover(err, listMembers, start); rerr != nil {
				return nil, rerr
			}
		}
	}
}

func (p *Parser) parseEnumCase(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.EnumCaseDecl{DeclBase: base}
	for {
		elem, err := p.parseEnumCaseElement()
		if err != nil {
			return nil, err
		}
		d.Elements = append(d.Elements, elem)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

func (p *Parser) parseEnumCaseElement() (*ast.EnumCaseElement, error) {
	name := p.cur()
	if name.Type != lexer.TokenIdentifier && !(name.IsWord() && name.Literal != name.Text()) {
		return nil, p.malformed(ast.DeclEnumCase, "expected case name", "identifier")
	}
	p.next()
	elem := &ast.EnumCaseElement{Name: p.ident(name)}

	if p.at(lexer.TokenLParen) && sameLine(p.cur()) {
		p.next()
		elem.Params = []*ast.CaseParam{}
		for !p.accept(lexer.TokenRParen) {
			if len(elem.Params) > 0 && !p.accept(lexer.TokenComma) {
				return nil, p.malformed(ast.DeclEnumCase, "expected ',' or ')' in associated values", ",", ")")
			}
			param, err := p.parseCaseParam()
			if err != nil {
				return nil, err
			}
			elem.Params = append(elem.Params, param)
		}
	}
	if p.accept(lexer.TokenAssign) {
		raw, err := p.parseExpr(exprFlags{})
		if err != nil {
			return nil, asMalformed(err, ast.DeclEnumCase)
		}
		elem.RawValue = raw
	}
	elem.Span = p.spanFrom(name.Span.Start)
	return elem, nil
}

func (p *Parser) parseCaseParam() (*ast.CaseParam, error) {
	start := p.cur().Span.Start
	param := &ast.CaseParam{}
	if (p.cur().IsWord() || p.at(lexer.TokenUnderscore)) && p.peek(1).Type == lexer.TokenColon {
		param.Label = p.ident(p.next())
		p.next()
	}
	t, err := p.parseType()
	if err != nil {
		return nil, asMalformed(err, ast.DeclEnumCase)
	}
	param.Type = t
	if p.accept(lexer.TokenAssign) {
		if param.Default, err = p.parseExpr(exprFlags{}); err != nil {
			return nil, asMalformed(err, ast.DeclEnumCase)
		}
	}
	param.Span = p.spanFrom(start)
	return param, nil
}

func (p *Parser) parseAssociatedType(base ast.DeclBase) (ast.Decl, error) {
	p.next()
	d := &ast.AssociatedTypeDecl{DeclBase: base}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil, p.malformed(ast.DeclAssociatedType, "expected associated type name", "identifier")
	}
	p.next()
	d.Name = p.ident(name)
	var err error
	if d.Inherits, err = p.parseInheritance(ast.DeclAssociatedType); err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenAssign) {
		if d.Default, err = p.parseType(); err != nil {
			return nil, asMalformed(err, ast.DeclAssociatedType)
		}
	}
	p.finish(&d.DeclBase)
	return d, nil
}

var fixities = map[ast.Modifier]ast.Fixity{
	ast.ModPrefix:  ast.FixityPrefix,
	ast.ModInfix:   ast.FixityInfix,
	ast.ModPostfix: ast.FixityPostfix,
}

// parseOperatorDecl parses 'prefix operator !!!: Group'. The fixity
// modifier moves from the modifier set into the declaration.
func (p *Parser) parseOperatorDecl(base ast.DeclBase) (ast.Decl, error) {
	kw := p.cur()
	d := &ast.OperatorDecl{DeclBase: base}
	found := 0
	for m, f := range fixities {
		if d.Mods.Has(m) {
			d.Fixity = f
			d.Mods.Tags = d.Mods.Tags.Without(m)
			found++
		}
	}
	if found != 1 {
		e := p.errorAt(kw, MalformedDeclaration, "operator declaration needs exactly one of prefix, infix or postfix", "prefix", "infix", "postfix")
		e.Decl = ast.DeclOperator
		return nil, e
	}
	p.next()

	sym := p.cur()
	if sym.Type != lexer.TokenOperator || !sameLine(sym) {
		return nil, p.malformed(ast.DeclOperator, "expected operator symbol", "operator")
	}
	p.next()
	d.Symbol = sym.Literal

	if p.accept(lexer.TokenColon) {
		group := p.cur()
		if group.Type != lexer.TokenIdentifier {
			return nil, p.malformed(ast.DeclOperator, "expected precedence group name", "identifier")
		}
		p.next()
		d.PrecedenceGroup = p.ident(group)
	}
	p.finish(&d.DeclBase)
	return d, nil
}
