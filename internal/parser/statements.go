package parser

import (
	"fmt"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// parseStatement dispatches on the leading keyword. Without one it tries a
// declaration, then a label, then an expression statement.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok := p.cur()
	if p.startsDeclaration() {
		d, err := p.parseDeclaration(listBlock)
		if err != nil {
			return nil, err
		}
		return &ast.DeclStmt{Decl: d}, nil
	}

	switch tok.Type {
	case lexer.TokenFor:
		return p.parseForIn()
	case lexer.TokenTry:
		if p.tryPrecedesFor() {
			return p.parseForIn()
		}
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenRepeat:
		return p.parseRepeatWhile()
	case lexer.TokenDo:
		return p.parseDoCatch()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenGuard:
		return p.parseGuard()
	case lexer.TokenSwitch:
		return p.parseSwitch()
	case lexer.TokenThrow:
		return p.parseThrow()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenBreak, lexer.TokenContinue, lexer.TokenFallthrough:
		return p.parseBranch()
	case lexer.TokenDefer:
		return p.parseDefer()
	case lexer.TokenCase, lexer.TokenDefault:
		return nil, p.errorAt(tok, UnexpectedToken, fmt.Sprintf("%s label outside a switch", tok.Literal))
	case lexer.TokenIdentifier:
		if tok.Is("await") && p.peek(1).Type == lexer.TokenFor {
			return p.parseForIn()
		}
		if p.peek(1).Type == lexer.TokenColon {
			return p.parseLabeled()
		}
	}

	x, err := p.parseExprOrAssign(exprFlags{})
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x}, nil
}

// tryPrecedesFor reports whether a try at the current token belongs to a
// for-in loop: try [?|!] [await] for.
func (p *Parser) tryPrecedesFor() bool {
	n := 1
	if next := p.peek(n); (next.IsOperator("?") || next.IsOperator("!")) && !next.SpaceBefore {
		n++
	}
	if p.peek(n).Is("await") {
		n++
	}
	return p.peek(n).Type == lexer.TokenFor
}

// parseBlock parses { statements }.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	open, err := p.expect(lexer.TokenLBrace, "block")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList(open, false)
	if err != nil {
		return nil, err
	}
	p.next() // }
	return &ast.BlockStmt{Span: p.spanFrom(open.Span.Start), Stmts: stmts}, nil
}

// parseStatementList parses statements up to the '}' closing the block
// opened by open, leaving the '}' current. In a switch clause a case or
// default label also ends the list.
func (p *Parser) parseStatementList(open lexer.Token, inSwitch bool) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		for p.accept(lexer.TokenSemicolon) {
		}
		tok := p.cur()
		switch {
		case tok.Type == lexer.TokenRBrace:
			return stmts, nil
		case inSwitch && (tok.Type == lexer.TokenCase || tok.Type == lexer.TokenDefault):
			return stmts, nil
		case tok.Type == lexer.TokenEOF:
			return nil, p.errorAt(tok, UnterminatedBlock,
				fmt.Sprintf("missing } to close block opened at %s", open.Span.Start), "}")
		}

		start := p.pos
		stmt, err := p.parseStatement()
		if err == nil {
			stmts = append(stmts, stmt)
			err = p.expectStatementEnd(inSwitch)
		}
		if err != nil {
			if rerr := p.recover(err, listBlock, start); rerr != nil {
				return nil, rerr
			}
		}
	}
}

// parseTryAwait consumes the try and await markers of a for-in loop.
func (p *Parser) parseTryAwait(s *ast.ForInStmt) {
	if p.accept(lexer.TokenTry) {
		s.Try = "try"
		if !p.cur().SpaceBefore {
			if p.splitOperator("?") {
				s.Try = "try?"
			} else if p.splitOperator("!") {
				s.Try = "try!"
			}
		}
	}
	if p.acceptWord("await") {
		s.Await = true
	}
}

// parseForIn parses [try] [await] for [try] [await] pattern in seq [where
// cond] body. The markers are accepted on either side of for.
func (p *Parser) parseForIn() (ast.Stmt, error) {
	start := p.cur().Span.Start
	s := &ast.ForInStmt{}
	p.parseTryAwait(s)
	if _, err := p.expect(lexer.TokenFor, "for-in loop"); err != nil {
		return nil, err
	}
	if s.Try == "" && !s.Await {
		p.parseTryAwait(s)
	}

	pat, err := p.parsePattern(bindingPosition)
	if err != nil {
		return nil, err
	}
	s.Pattern = pat
	if _, err := p.expect(lexer.TokenIn, "for-in loop"); err != nil {
		return nil, err
	}
	if s.Sequence, err = p.parseExpr(exprFlags{noBrace: true}); err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenWhere) {
		if s.Where, err = p.parseExpr(exprFlags{noBrace: true}); err != nil {
			return nil, err
		}
	}
	if s.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	s.Span = p.spanFrom(start)
	return s, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.next()
	conds, err := p.parseConditionList("while condition")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Span: p.spanFrom(start.Span.Start), Conditions: conds, Body: body}, nil
}

func (p *Parser) parseRepeatWhile() (ast.Stmt, error) {
	start := p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenWhile, "repeat-while loop"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition("repeat-while condition")
	if err != nil {
		return nil, err
	}
	return &ast.RepeatWhileStmt{Span: p.spanFrom(start.Span.Start), Body: body, Condition: cond}, nil
}

func (p *Parser) parseDoCatch() (ast.Stmt, error) {
	start := p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	s := &ast.DoCatchStmt{Body: body}
	for p.at(lexer.TokenCatch) {
		clause, err := p.parseCatch()
		if err != nil {
			return nil, err
		}
		s.Catches = append(s.Catches, clause)
	}
	s.Span = p.spanFrom(start.Span.Start)
	return s, nil
}

// parseCatch parses catch [pattern] [where guard] body. Neither part is
// required, so catch {} is the catch-all.
func (p *Parser) parseCatch() (*ast.CatchClause, error) {
	start := p.next()
	c := &ast.CatchClause{}
	var err error
	if !p.at(lexer.TokenLBrace) && !p.at(lexer.TokenWhere) {
		if c.Pattern, err = p.parsePattern(patternContext{noBrace: true}); err != nil {
			return nil, err
		}
	}
	if p.accept(lexer.TokenWhere) {
		if c.Where, err = p.parseExpr(exprFlags{noBrace: true}); err != nil {
			return nil, err
		}
	}
	if c.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	c.Span = p.spanFrom(start.Span.Start)
	return c, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.next()
	conds, err := p.parseConditionList("if condition")
	if err != nil {
		return nil, err
	}
	s := &ast.IfStmt{Conditions: conds}
	if s.Then, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			s.Else, err = p.parseIf()
		} else {
			s.Else, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	s.Span = p.spanFrom(start.Span.Start)
	return s, nil
}

func (p *Parser) parseGuard() (ast.Stmt, error) {
	start := p.next()
	conds, err := p.parseConditionList("guard condition")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenElse, "guard statement"); err != nil {
		return nil, err
	}
	els, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.GuardStmt{Span: p.spanFrom(start.Span.Start), Conditions: conds, Else: els}, nil
}

// parseSwitch parses switch subject { clauses }. Each clause runs to the
// next case or default label or the closing brace and may be empty.
func (p *Parser) parseSwitch() (ast.Stmt, error) {
	start := p.next()
	subject, err := p.parseExpr(exprFlags{noBrace: true})
	if err != nil {
		return nil, err
	}
	open, err := p.expect(lexer.TokenLBrace, "switch statement")
	if err != nil {
		return nil, err
	}

	s := &ast.SwitchStmt{Subject: subject}
	for {
		for p.accept(lexer.TokenSemicolon) {
		}
		tok := p.cur()
		if tok.Type == lexer.TokenRBrace {
			p.next()
			break
		}
		if tok.Type == lexer.TokenEOF {
			return nil, p.errorAt(tok, UnterminatedBlock,
				fmt.Sprintf("missing } to close switch opened at %s", open.Span.Start), "}")
		}

		begin := p.pos
		var clause *ast.CaseClause
		if tok.Type == lexer.TokenCase || tok.Type == lexer.TokenDefault {
			clause, err = p.parseCaseClause(open)
		} else {
			err = p.errorAt(tok, UnexpectedToken,
				fmt.Sprintf("expected case or default in switch body, got %s", describe(tok)), "case", "default")
		}
		if err == nil {
			s.Cases = append(s.Cases, clause)
			continue
		}
		if rerr := p.recover(err, listClauses, begin); rerr != nil {
			return nil, rerr
		}
	}
	s.Span = p.spanFrom(start.Span.Start)
	return s, nil
}

func (p *Parser) parseCaseClause(open lexer.Token) (*ast.CaseClause, error) {
	head := p.next()
	c := &ast.CaseClause{Default: head.Type == lexer.TokenDefault}
	if !c.Default {
		for {
			item, err := p.parseCaseItem()
			if err != nil {
				return nil, err
			}
			c.Items = append(c.Items, item)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokenColon, head.Literal+" label"); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList(open, true)
	if err != nil {
		return nil, err
	}
	c.Body = body
	c.Span = p.spanFrom(head.Span.Start)
	return c, nil
}

func (p *Parser) parseCaseItem() (*ast.CaseItem, error) {
	start := p.cur().Span.Start
	pat, err := p.parsePattern(matchPosition)
	if err != nil {
		return nil, err
	}
	item := &ast.CaseItem{Pattern: pat}
	if p.accept(lexer.TokenWhere) {
		if item.Where, err = p.parseExpr(exprFlags{}); err != nil {
			return nil, err
		}
	}
	item.Span = p.spanFrom(start)
	return item, nil
}

// parseLabeled parses label: statement. Any statement may carry a label.
func (p *Parser) parseLabeled() (ast.Stmt, error) {
	label := p.next()
	p.next() // :
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.LabeledStmt{Span: p.spanFrom(label.Span.Start), Label: p.ident(label), Stmt: stmt}, nil
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	start := p.next()
	value, err := p.parseExpr(exprFlags{})
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{Span: p.spanFrom(start.Span.Start), Value: value}, nil
}

// parseReturn parses return with an optional value on the same line.
func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.next()
	s := &ast.ReturnStmt{}
	if next := p.cur(); sameLine(next) && p.startsOperand(next) {
		value, err := p.parseExpr(exprFlags{})
		if err != nil {
			return nil, err
		}
		s.Value = value
	}
	s.Span = p.spanFrom(start.Span.Start)
	return s, nil
}

func (p *Parser) parseBranch() (ast.Stmt, error) {
	kw := p.next()
	s := &ast.BranchStmt{Keyword: kw.Literal}
	if kw.Type != lexer.TokenFallthrough {
		if next := p.cur(); next.Type == lexer.TokenIdentifier && sameLine(next) {
			p.next()
			s.Label = p.ident(next)
		}
	}
	s.Span = p.spanFrom(kw.Span.Start)
	return s, nil
}

func (p *Parser) parseDefer() (ast.Stmt, error) {
	start := p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.DeferStmt{Span: p.spanFrom(start.Span.Start), Body: body}, nil
}
