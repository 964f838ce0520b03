package parser

import (
	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// parseConditionList parses one or more comma-separated conditions of an
// if, while or guard statement.
func (p *Parser) parseConditionList(context string) ([]ast.Condition, error) {
	var conds []ast.Condition
	for {
		cond, err := p.parseCondition(context)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
		if !p.accept(lexer.TokenComma) {
			return conds, nil
		}
	}
}

// parseCondition parses a boolean expression, case p = e, or an
// optional binding with let, var, async let or async var.
func (p *Parser) parseCondition(context string) (ast.Condition, error) {
	tok := p.cur()
	switch {
	case tok.Type == lexer.TokenCase:
		p.next()
		pat, err := p.parsePattern(patternContext{noBrace: true})
		if err != nil {
			return nil, err
		}
		if !p.accept(lexer.TokenAssign) {
			return nil, p.conditionError(context, "'=' after case pattern", "=")
		}
		value, err := p.parseExpr(exprFlags{noBrace: true})
		if err != nil {
			return nil, err
		}
		return &ast.CaseCondition{Span: p.spanFrom(tok.Span.Start), Pattern: pat, Value: value}, nil

	case tok.Type == lexer.TokenLet, tok.Type == lexer.TokenVar,
		tok.Is("async") && (p.peek(1).Type == lexer.TokenLet || p.peek(1).Type == lexer.TokenVar):
		return p.parseBindingCondition(context)
	}

	if !p.startsOperand(tok) {
		return nil, p.conditionError(context, "a condition", "expression", "let", "var", "case")
	}
	x, err := p.parseExpr(exprFlags{noBrace: true})
	if err != nil {
		return nil, err
	}
	return &ast.ExprCondition{X: x}, nil
}

func (p *Parser) parseBindingCondition(context string) (ast.Condition, error) {
	start := p.cur().Span.Start
	cond := &ast.BindingCondition{}
	if p.acceptWord("async") {
		cond.Async = true
	}
	cond.Introducer = p.next().Literal

	pat, err := p.parsePattern(patternContext{binding: true, noBrace: true})
	if err != nil {
		return nil, err
	}
	cond.Pattern = pat
	if p.accept(lexer.TokenColon) {
		if cond.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.accept(lexer.TokenAssign) {
		if cond.Value, err = p.parseExpr(exprFlags{noBrace: true}); err != nil {
			return nil, err
		}
	}
	cond.Span = p.spanFrom(start)
	return cond, nil
}

func (p *Parser) conditionError(context, want string, expected ...string) *Error {
	tok := p.cur()
	return p.errorAt(tok, MalformedCondition, "expected "+want+" in "+context+", got "+describe(tok), expected...)
}
