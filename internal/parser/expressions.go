package parser

import (
	"strings"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/lexer"
)

// exprFlags carry the syntactic context of an expression.
type exprFlags struct {
	// noBrace suppresses trailing closures and closure literals, as in
	// if x { ... } or switch y { ... }, where '{' opens the body
	noBrace bool
}

// Precedence levels, lowest first
const (
	precLowest = iota
	precDisjunction
	precConjunction
	precComparison
	precNilCoalescing
	precCasting
	precRange
	precAddition
	precMultiplication
	precShift
)

var precedences = map[string]int{
	"||":  precDisjunction,
	"&&":  precConjunction,
	"==":  precComparison,
	"!=":  precComparison,
	"===": precComparison,
	"!==": precComparison,
	"<":   precComparison,
	"<=":  precComparison,
	">":   precComparison,
	">=":  precComparison,
	"~=":  precComparison,
	"??":  precNilCoalescing,
	"...": precRange,
	"..<": precRange,
	"+":   precAddition,
	"-":   precAddition,
	"&+":  precAddition,
	"&-":  precAddition,
	"|":   precAddition,
	"^":   precAddition,
	"*":   precMultiplication,
	"/":   precMultiplication,
	"%":   precMultiplication,
	"&*":  precMultiplication,
	"&":   precMultiplication,
	"<<":  precShift,
	">>":  precShift,
}

// binaryPrecedence returns the precedence of an infix operator. Custom
// operators share the comparison level. Assignment operators and the
// single ? and ! are not binary operators.
func binaryPrecedence(op string) (int, bool) {
	if prec, ok := precedences[op]; ok {
		return prec, true
	}
	if op == "?" || op == "!" || isAssignmentOperator(op) {
		return 0, false
	}
	return precComparison, true
}

// isAssignmentOperator matches compound assignments such as += and ??=.
func isAssignmentOperator(op string) bool {
	if !strings.HasSuffix(op, "=") || len(op) < 2 {
		return false
	}
	_, isComparison := precedences[op]
	return !isComparison
}

// closesExpression reports whether tok counts as whitespace for operator
// role decisions.
func closesExpression(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenComma,
		lexer.TokenSemicolon, lexer.TokenColon, lexer.TokenEOF:
		return true
	}
	return false
}

// operator roles, decided by the whitespace around the operator token
func (p *Parser) leftBound() bool { return !p.cur().SpaceBefore }
func (p *Parser) rightBound() bool {
	next := p.peek(1)
	return !next.SpaceBefore && !closesExpression(next)
}

func (p *Parser) infixRole() bool { return p.leftBound() == p.rightBound() }

func (p *Parser) postfixRole() bool {
	tok := p.cur()
	if tok.Literal == "?" || tok.Literal == "!" {
		return p.leftBound()
	}
	return p.leftBound() && !p.rightBound()
}

// parseExpr parses an expression without assignment.
func (p *Parser) parseExpr(f exprFlags) (ast.Expr, error) {
	cond, err := p.parseBinary(f, precDisjunction)
	if err != nil {
		return nil, err
	}
	if !p.atOp("?") || !p.infixRole() {
		return cond, nil
	}
	p.next()
	then, err := p.parseExpr(f)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "ternary expression"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr(f)
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{Span: p.spanFrom(cond.GetSpan().Start), Cond: cond, Then: then, Else: els}, nil
}

// parseExprOrAssign parses a statement-level expression, which may be an
// assignment.
func (p *Parser) parseExprOrAssign(f exprFlags) (ast.Expr, error) {
	target, err := p.parseExpr(f)
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	isAssign := tok.Type == lexer.TokenAssign ||
		(tok.Type == lexer.TokenOperator && isAssignmentOperator(tok.Literal) && p.infixRole())
	if !isAssign {
		return target, nil
	}
	p.next()
	value, err := p.parseExprOrAssign(f)
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{Span: p.spanFrom(target.GetSpan().Start), Target: target, Op: tok.Literal, Value: value}, nil
}

// parseBinary is precedence climbing over infix operators and casts.
func (p *Parser) parseBinary(f exprFlags, minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary(f)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		if (tok.Type == lexer.TokenIs || tok.Type == lexer.TokenAs) && precCasting >= minPrec {
			p.next()
			op := tok.Literal
			if tok.Type == lexer.TokenAs && !p.cur().SpaceBefore {
				if p.splitOperator("?") {
					op = "as?"
				} else if p.splitOperator("!") {
					op = "as!"
				}
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			left = &ast.CastExpr{Span: p.spanFrom(left.GetSpan().Start), X: left, Op: op, Type: t}
			continue
		}
		if tok.Type != lexer.TokenOperator {
			return left, nil
		}
		prec, ok := binaryPrecedence(tok.Literal)
		if !ok || prec < minPrec || !p.infixRole() {
			return left, nil
		}
		p.next()
		next := prec + 1
		if prec == precNilCoalescing {
			next = prec
		}
		right, err := p.parseBinary(f, next)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: p.spanFrom(left.GetSpan().Start), X: left, Op: tok.Literal, Y: right}
	}
}

// parseUnary parses prefix operators, try and await, then a postfix
// expression.
func (p *Parser) parseUnary(f exprFlags) (ast.Expr, error) {
	tok := p.cur()
	switch {
	case tok.Type == lexer.TokenTry:
		p.next()
		kind := "try"
		if !p.cur().SpaceBefore {
			if p.splitOperator("?") {
				kind = "try?"
			} else if p.splitOperator("!") {
				kind = "try!"
			}
		}
		x, err := p.parseBinary(f, precDisjunction)
		if err != nil {
			return nil, err
		}
		return &ast.TryExpr{Span: p.spanFrom(tok.Span.Start), Kind: kind, X: x}, nil

	case tok.Is("await") && p.startsOperand(p.peek(1)) && sameLine(p.peek(1)):
		p.next()
		x, err := p.parseUnary(f)
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpr{Span: p.spanFrom(tok.Span.Start), X: x}, nil

	case tok.Type == lexer.TokenOperator && !closesExpression(p.peek(1)):
		p.next()
		x, err := p.parseUnary(f)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpr{Span: p.spanFrom(tok.Span.Start), Op: tok.Literal, X: x}, nil
	}

	x, err := p.parsePrimary(f)
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(x, f)
}

// startsOperand reports whether tok can begin a primary expression.
func (p *Parser) startsOperand(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNil, lexer.TokenSelf, lexer.TokenSelfType,
		lexer.TokenSuper, lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenDot,
		lexer.TokenHash, lexer.TokenBackslash, lexer.TokenTry, lexer.TokenUnderscore, lexer.TokenOperator:
		return true
	}
	return false
}

func (p *Parser) parsePrimary(f exprFlags) (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenSelf, lexer.TokenSelfType, lexer.TokenSuper, lexer.TokenUnderscore:
		p.next()
		return p.ident(tok), nil
	case lexer.TokenInteger:
		p.next()
		return &ast.BasicLit{Span: tok.Span, Kind: ast.LiteralInteger, Value: tok.Literal}, nil
	case lexer.TokenFloat:
		p.next()
		return &ast.BasicLit{Span: tok.Span, Kind: ast.LiteralFloat, Value: tok.Literal}, nil
	case lexer.TokenString:
		p.next()
		return &ast.BasicLit{Span: tok.Span, Kind: ast.LiteralString, Value: tok.Literal}, nil
	case lexer.TokenTrue, lexer.TokenFalse:
		p.next()
		return &ast.BasicLit{Span: tok.Span, Kind: ast.LiteralBool, Value: tok.Literal}, nil
	case lexer.TokenNil:
		p.next()
		return &ast.BasicLit{Span: tok.Span, Kind: ast.LiteralNil, Value: tok.Literal}, nil
	case lexer.TokenLParen:
		return p.parseParenExpr()
	case lexer.TokenLBracket:
		return p.parseCollectionLiteral()
	case lexer.TokenLBrace:
		if f.noBrace {
			return nil, p.unexpected("expression", "expression")
		}
		return p.parseClosure()
	case lexer.TokenDot:
		p.next()
		name := p.cur()
		if !name.IsWord() {
			return nil, p.unexpected("implicit member expression", "member name")
		}
		p.next()
		return &ast.MemberExpr{Span: p.spanFrom(tok.Span.Start), Name: p.ident(name)}, nil
	case lexer.TokenHash:
		p.next()
		name := p.cur()
		if !name.IsWord() || name.SpaceBefore {
			return nil, p.unexpected("directive", "directive name")
		}
		p.next()
		return &ast.PoundExpr{Span: p.spanFrom(tok.Span.Start), Name: name.Literal}, nil
	case lexer.TokenBackslash:
		return p.parseKeyPath()
	case lexer.TokenOperator:
		// operator reference such as reduce(0, +)
		if closesExpression(p.peek(1)) {
			p.next()
			return p.ident(tok), nil
		}
	}
	return nil, p.unexpected("expression", "expression")
}

// parsePostfix applies member access, calls, subscripts, trailing
// closures and postfix operators.
func (p *Parser) parsePostfix(x ast.Expr, f exprFlags) (ast.Expr, error) {
	start := x.GetSpan().Start
	for {
		tok := p.cur()
		switch {
		case tok.Type == lexer.TokenDot:
			name := p.peek(1)
			if !name.IsWord() && name.Type != lexer.TokenInteger {
				return x, nil
			}
			p.next()
			p.next()
			x = &ast.MemberExpr{Span: p.spanFrom(start), X: x, Name: p.ident(name)}

		case tok.Type == lexer.TokenLParen && sameLine(tok):
			p.next()
			args, err := p.parseArguments(lexer.TokenRParen)
			if err != nil {
				return nil, err
			}
			x = &ast.CallExpr{Span: p.spanFrom(start), Fun: x, Args: args}

		case tok.Type == lexer.TokenLBracket && sameLine(tok):
			p.next()
			args, err := p.parseArguments(lexer.TokenRBracket)
			if err != nil {
				return nil, err
			}
			x = &ast.SubscriptExpr{Span: p.spanFrom(start), X: x, Args: args}

		case tok.Type == lexer.TokenLBrace && sameLine(tok) && !f.noBrace && !p.atObserverBlock():
			closure, err := p.parseClosure()
			if err != nil {
				return nil, err
			}
			if call, ok := x.(*ast.CallExpr); ok && call.Trailing == nil {
				call.Trailing = closure
				call.Span = p.spanFrom(start)
			} else {
				x = &ast.CallExpr{Span: p.spanFrom(start), Fun: x, Trailing: closure}
			}

		case tok.Type == lexer.TokenOperator && p.postfixRole():
			if tok.Literal[0] == '?' || tok.Literal[0] == '!' {
				p.splitOperator(tok.Literal[:1])
				x = &ast.PostfixExpr{Span: p.spanFrom(start), X: x, Op: tok.Literal[:1]}
				continue
			}
			p.next()
			x = &ast.PostfixExpr{Span: p.spanFrom(start), X: x, Op: tok.Literal}

		default:
			return x, nil
		}
	}
}

// parseArguments parses a labelled argument list after its opener up to
// and including closer.
func (p *Parser) parseArguments(closer lexer.TokenType) ([]*ast.Argument, error) {
	args := []*ast.Argument{}
	for !p.accept(closer) {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokenComma, "argument list"); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (p *Parser) parseArgument() (*ast.Argument, error) {
	start := p.cur().Span.Start
	arg := &ast.Argument{}
	if (p.cur().IsWord() || p.at(lexer.TokenUnderscore)) && p.peek(1).Type == lexer.TokenColon {
		arg.Label = p.ident(p.next())
		p.next()
	}
	value, err := p.parseExpr(exprFlags{})
	if err != nil {
		return nil, err
	}
	arg.Value = value
	arg.Span = p.spanFrom(start)
	return arg, nil
}

// parseParenExpr parses (), (x) and tuples.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	open := p.next()
	args, err := p.parseArguments(lexer.TokenRParen)
	if err != nil {
		return nil, err
	}
	span := p.spanFrom(open.Span.Start)
	if len(args) == 1 && args[0].Label == nil {
		return &ast.ParenExpr{Span: span, X: args[0].Value}, nil
	}
	return &ast.TupleExpr{Span: span, Elements: args}, nil
}

// parseCollectionLiteral parses [], [:], [a, b] and [k: v].
func (p *Parser) parseCollectionLiteral() (ast.Expr, error) {
	open := p.next()
	if p.at(lexer.TokenColon) && p.peek(1).Type == lexer.TokenRBracket {
		p.next()
		p.next()
		return &ast.DictExpr{Span: p.spanFrom(open.Span.Start)}, nil
	}
	if p.accept(lexer.TokenRBracket) {
		return &ast.ArrayExpr{Span: p.spanFrom(open.Span.Start)}, nil
	}

	first, err := p.parseExpr(exprFlags{})
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.TokenColon) {
		arr := &ast.ArrayExpr{Elements: []ast.Expr{first}}
		for !p.accept(lexer.TokenRBracket) {
			if _, err := p.expect(lexer.TokenComma, "array literal"); err != nil {
				return nil, err
			}
			if p.accept(lexer.TokenRBracket) {
				break
			}
			e, err := p.parseExpr(exprFlags{})
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, e)
		}
		arr.Span = p.spanFrom(open.Span.Start)
		return arr, nil
	}

	dict := &ast.DictExpr{}
	key := first
	for {
		p.next() // :
		value, err := p.parseExpr(exprFlags{})
		if err != nil {
			return nil, err
		}
		dict.Entries = append(dict.Entries, &ast.DictEntry{Span: p.spanFrom(key.GetSpan().Start), Key: key, Value: value})
		if p.accept(lexer.TokenRBracket) {
			break
		}
		if _, err := p.expect(lexer.TokenComma, "dictionary literal"); err != nil {
			return nil, err
		}
		if p.accept(lexer.TokenRBracket) {
			break
		}
		if key, err = p.parseExpr(exprFlags{}); err != nil {
			return nil, err
		}
		if !p.at(lexer.TokenColon) {
			return nil, p.unexpected("dictionary literal", ":")
		}
	}
	dict.Span = p.spanFrom(open.Span.Start)
	return dict, nil
}

// parseClosure consumes a closure literal as a verbatim balanced block.
func (p *Parser) parseClosure() (*ast.ClosureExpr, error) {
	open := p.next()
	if _, err := p.skipBalanced(open, lexer.TokenLBrace, lexer.TokenRBrace); err != nil {
		return nil, err
	}
	span := p.spanFrom(open.Span.Start)
	return &ast.ClosureExpr{Span: span, Text: p.text(span)}, nil
}

// parseKeyPath parses \Root.a.b and \.a.b.
func (p *Parser) parseKeyPath() (ast.Expr, error) {
	start := p.next()
	kp := &ast.KeyPathExpr{}
	if tok := p.cur(); tok.Type == lexer.TokenIdentifier || tok.Type == lexer.TokenSelfType {
		p.next()
		kp.Root = p.ident(tok)
	}
	for p.at(lexer.TokenDot) && p.peek(1).IsWord() {
		p.next()
		kp.Components = append(kp.Components, p.ident(p.next()))
	}
	if kp.Root == nil && len(kp.Components) == 0 {
		return nil, p.unexpected("key path", "key path component")
	}
	kp.Span = p.spanFrom(start.Span.Start)
	return kp, nil
}

// atObserverBlock reports whether a '{' opens willSet/didSet observers
// rather than a trailing closure.
func (p *Parser) atObserverBlock() bool {
	next := p.peek(1)
	return p.at(lexer.TokenLBrace) && (next.Is("willSet") || next.Is("didSet"))
}
