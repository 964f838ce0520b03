package parser

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// declIntroducers are the keywords that begin a declaration once modifiers
// have been consumed.
var declIntroducers = map[lexer.TokenType]bool{
	lexer.TokenImport:         true,
	lexer.TokenLet:            true,
	lexer.TokenVar:            true,
	lexer.TokenTypealias:      true,
	lexer.TokenFunc:           true,
	lexer.TokenInit:           true,
	lexer.TokenDeinit:         true,
	lexer.TokenSubscript:      true,
	lexer.TokenClass:          true,
	lexer.TokenStruct:         true,
	lexer.TokenEnum:           true,
	lexer.TokenProtocol:       true,
	lexer.TokenExtension:      true,
	lexer.TokenCase:           true,
	lexer.TokenAssociatedtype: true,
	lexer.TokenOperatorKw:     true,
}

var introducerNames = []string{
	"import", "let", "var", "typealias", "func", "init", "deinit", "subscript",
	"class", "struct", "enum", "protocol", "extension", "case", "associatedtype", "operator",
}

func isDeclIntroducer(tok lexer.Token) bool { return declIntroducers[tok.Type] }

// modifierOf returns the modifier spelled by tok. Escaped identifiers are
// never modifiers.
func modifierOf(tok lexer.Token) (ast.Modifier, bool) {
	if !tok.IsWord() || tok.Literal != tok.Text() {
		return 0, false
	}
	return ast.LookupModifier(tok.Literal)
}

// isClassModifier reports whether the class keyword at offset n acts as a
// modifier (class func, class var) rather than introducing a class.
func (p *Parser) isClassModifier(n int) bool {
	next := p.peek(n + 1)
	switch next.Type {
	case lexer.TokenFunc, lexer.TokenVar, lexer.TokenLet, lexer.TokenSubscript, lexer.TokenTypealias, lexer.TokenAt:
		return true
	}
	if m, ok := modifierOf(next); ok && m != ast.ModClass {
		return true
	}
	return false
}

// startsDeclaration reports, without consuming anything, whether the
// current token begins a declaration. Contextual modifier words such as
// open or mutating only count when another modifier, an attribute or a
// declaration keyword follows; otherwise they are ordinary identifiers.
func (p *Parser) startsDeclaration() bool {
	tok := p.cur()
	if tok.Type == lexer.TokenAt || isDeclIntroducer(tok) {
		return tok.Type != lexer.TokenCase
	}
	m, ok := modifierOf(tok)
	if !ok {
		return false
	}
	if tok.Type.IsKeyword() {
		// private, public, static and friends cannot start an expression
		return true
	}
	next := p.peek(1)
	if next.Type == lexer.TokenAt || isDeclIntroducer(next) {
		return next.Type != lexer.TokenCase || m == ast.ModIndirect
	}
	if _, ok := modifierOf(next); ok {
		return true
	}
	if m.IsVisibility() && next.Type == lexer.TokenLParen && p.peek(2).Is("set") && p.peek(3).Type == lexer.TokenRParen {
		return true
	}
	return false
}

// parseModifiers consumes modifiers and attributes in any order and any
// quantity. Repeats are merged unless StrictModifiers is set.
func (p *Parser) parseModifiers() (ast.ModifierSet, error) {
	var set ast.ModifierSet
	for {
		tok := p.cur()
		if tok.Type == lexer.TokenAt {
			attr, err := p.parseAttribute()
			if err != nil {
				return set, err
			}
			set.Extend(attr.Span)
			if !set.AddAttribute(attr) && p.opts.StrictModifiers {
				return set, p.errorAt(tok, DuplicateModifier, fmt.Sprintf("duplicate attribute %s", attr))
			}
			continue
		}

		m, ok := modifierOf(tok)
		if !ok {
			return set, nil
		}
		if m == ast.ModClass && !p.isClassModifier(0) {
			return set, nil
		}
		p.next()

		if m.IsVisibility() && p.at(lexer.TokenLParen) {
			if !p.peek(1).Is("set") || p.peek(2).Type != lexer.TokenRParen {
				p.next()
				return set, p.unexpected(fmt.Sprintf("%s(...) setter visibility", m), "set")
			}
			p.next()
			p.next()
			p.next()
			set.Extend(p.spanFrom(tok.Span.Start))
			if !set.AddSetter(m) && p.opts.StrictModifiers {
				return set, p.errorAt(tok, DuplicateModifier, fmt.Sprintf("duplicate modifier %s(set)", m))
			}
			continue
		}

		set.Extend(tok.Span)
		if !set.Add(m) && p.opts.StrictModifiers {
			return set, p.errorAt(tok, DuplicateModifier, fmt.Sprintf("duplicate modifier %s", m))
		}
	}
}

// parseAttribute parses @name with an optional argument list that must
// follow the name without whitespace. The argument text is kept verbatim.
func (p *Parser) parseAttribute() (*ast.Attribute, error) {
	at := p.next()
	nameTok := p.cur()
	if !nameTok.IsWord() {
		return nil, p.unexpected("attribute", "attribute name")
	}
	p.next()
	attr := &ast.Attribute{Name: nameTok.Text()}
	if p.at(lexer.TokenLParen) && !p.cur().SpaceBefore {
		open := p.next()
		inner, err := p.skipBalanced(open, lexer.TokenLParen, lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
		attr.HasArgs = true
		attr.Args = inner
	}
	attr.Span = p.spanFrom(at.Span.Start)
	return attr, nil
}

// skipBalanced consumes tokens up to and including the closer matching an
// opener that has already been consumed, and returns the source text
// between them.
func (p *Parser) skipBalanced(open lexer.Token, opener, closer lexer.TokenType) (string, error) {
	depth := 1
	for {
		tok := p.cur()
		switch tok.Type {
		case lexer.TokenEOF:
			return "", p.errorAt(tok, UnterminatedBlock,
				fmt.Sprintf("missing %s to close %s opened at %s", closer, opener, open.Span.Start), closer.String())
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.next()
				inner := open.Span
				inner.Start = open.Span.End
				inner.End = tok.Span.Start
				return p.text(inner), nil
			}
		}
		p.next()
	}
}
