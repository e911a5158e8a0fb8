package parser

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// parseExpression is the Pratt-parser core. precedence is the minimum
// binding power the caller requires of the parsed expression: a prefix
// operator passes its own precedence so that looser operators stop the
// recursive descent and bubble back up to be combined by the caller.
//
// Comparison operators (< <= =) are non-associative per spec.md §4.2: a
// chained comparison such as `a < b < c` is rejected rather than parsed
// either left- or right-associatively.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.addError(p.curToken.Pos, "unexpected token %s (%q) in expression", p.curToken.Type, p.curToken.Literal)
		tok := p.curToken
		p.nextToken()
		return &ast.Id{Token: tok, Name: ""}
	}
	left := prefix()

	// Every prefix and infix handler leaves curToken positioned on the
	// token right after what it consumed, so the operator a loop
	// iteration considers is always curToken, not peekToken.
	lastWasCompare := false
	for {
		opType := p.curToken.Type
		prec, ok := precedences[opType]
		if !ok || precedence >= prec {
			break
		}
		if lastWasCompare && compareOps[opType] {
			p.addError(p.curToken.Pos, "chained comparison is not allowed: %s", "a < b < c")
			break
		}
		infix := p.infixFns[opType]
		if infix == nil {
			break
		}
		left = infix(left)
		lastWasCompare = compareOps[opType]
	}
	return left
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parseDispatchTail(tok lexer.Token, receiver ast.Expr, override string) ast.Expr {
	if !p.curIs(lexer.OBJECTID) {
		p.addError(p.curToken.Pos, "expected a method name after '.'")
		return receiver
	}
	method := p.curToken.Literal
	p.nextToken()
	if !p.expect(lexer.LPAREN) {
		return &ast.Dispatch{Token: tok, Receiver: receiver, Override: override, Method: method}
	}
	args := p.parseArgs()
	return &ast.Dispatch{Token: tok, Receiver: receiver, Override: override, Method: method, Args: args}
}

// parseIdentOrDispatch handles a leading object identifier: either a
// plain variable reference, or an implicit self-dispatch `f(args)`.
func (p *Parser) parseIdentOrDispatch() ast.Expr {
	tok := p.curToken
	name := tok.Literal
	p.nextToken()
	if p.curIs(lexer.LPAREN) {
		p.nextToken()
		args := p.parseArgs()
		return &ast.Dispatch{Token: tok, Method: name, Args: args}
	}
	return &ast.Id{Token: tok, Name: name}
}

func (p *Parser) parseDispatch(left ast.Expr) ast.Expr {
	tok := p.curToken // '.'
	p.nextToken()
	return p.parseDispatchTail(tok, left, "")
}

func (p *Parser) parseStaticDispatch(left ast.Expr) ast.Expr {
	tok := p.curToken // '@'
	p.nextToken()
	if !p.curIs(lexer.TYPEID) {
		p.addError(p.curToken.Pos, "expected a type name after '@'")
		return left
	}
	override := p.curToken.Literal
	p.nextToken()
	if !p.expect(lexer.DOT) {
		return left
	}
	return p.parseDispatchTail(tok, left, override)
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	tok := p.curToken // '<-'
	id, ok := left.(*ast.Id)
	name := ""
	if ok {
		name = id.Name
	} else {
		p.addError(tok.Pos, "left-hand side of '<-' must be an identifier")
	}
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1) // right-associative
	return &ast.Assign{Token: tok, Name: name, Value: value}
}

var binOpKinds = map[lexer.TokenType]ast.BinOpKind{
	lexer.PLUS:  ast.OpAdd,
	lexer.MINUS: ast.OpSub,
	lexer.STAR:  ast.OpMul,
	lexer.SLASH: ast.OpDiv,
	lexer.LT:    ast.OpLt,
	lexer.LE:    ast.OpLe,
	lexer.EQ:    ast.OpEq,
}

func (p *Parser) parseBinOp(left ast.Expr) ast.Expr {
	tok := p.curToken
	kind := binOpKinds[tok.Type]
	prec := precedences[tok.Type]
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinOp{Token: tok, Op: kind, Left: left, Right: right}
}

func (p *Parser) parseParen() ast.Expr {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.Paren{Token: tok, Inner: inner}
}

func (p *Parser) parseBlock() ast.Expr {
	tok := p.curToken
	p.nextToken()
	b := &ast.Block{Token: tok}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		b.Exprs = append(b.Exprs, p.parseExpression(LOWEST))
		p.expect(lexer.SEMI)
	}
	if len(b.Exprs) == 0 {
		p.addError(tok.Pos, "a block must contain at least one expression")
	}
	p.expect(lexer.RBRACE)
	return b
}

func (p *Parser) parseIf() ast.Expr {
	tok := p.curToken
	p.nextToken()
	pred := p.parseExpression(LOWEST)
	p.expect(lexer.THEN)
	then := p.parseExpression(LOWEST)
	p.expect(lexer.ELSE)
	els := p.parseExpression(LOWEST)
	p.expect(lexer.FI)
	return &ast.If{Token: tok, Pred: pred, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Expr {
	tok := p.curToken
	p.nextToken()
	pred := p.parseExpression(LOWEST)
	p.expect(lexer.LOOP)
	body := p.parseExpression(LOWEST)
	p.expect(lexer.POOL)
	return &ast.While{Token: tok, Pred: pred, Body: body}
}

func (p *Parser) parseLetBinding() ast.LetBinding {
	var b ast.LetBinding
	if !p.curIs(lexer.OBJECTID) {
		p.addError(p.curToken.Pos, "expected a binding name in 'let'")
		return b
	}
	b.Name = p.curToken.Literal
	p.nextToken()
	p.expect(lexer.COLON)
	if p.curIs(lexer.TYPEID) {
		b.Type = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(p.curToken.Pos, "expected a type in 'let' binding")
	}
	if p.curIs(lexer.ASSIGN) {
		p.nextToken()
		b.Init = p.parseExpression(LOWEST)
	}
	return b
}

// parseLet desugars a multi-binding `let` into nested single-binding Let
// nodes (spec.md §4.2), innermost binding closest to the body.
func (p *Parser) parseLet() ast.Expr {
	tok := p.curToken
	p.nextToken()

	var bindings []ast.LetBinding
	for {
		bindings = append(bindings, p.parseLetBinding())
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.IN)
	body := p.parseExpression(LOWEST)

	result := body
	for i := len(bindings) - 1; i >= 0; i-- {
		result = &ast.Let{Token: tok, Binding: bindings[i], Body: result}
	}
	return result
}

func (p *Parser) parseCaseBranch() ast.CaseBranch {
	var br ast.CaseBranch
	br.Name = p.curToken.Literal
	p.nextToken()
	p.expect(lexer.COLON)
	if p.curIs(lexer.TYPEID) {
		br.Type = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(p.curToken.Pos, "expected a type in case branch")
	}
	p.expect(lexer.DARROW)
	br.Body = p.parseExpression(LOWEST)
	p.expect(lexer.SEMI)
	return br
}

func (p *Parser) parseCase() ast.Expr {
	tok := p.curToken
	p.nextToken()
	scrutinee := p.parseExpression(LOWEST)
	p.expect(lexer.OF)

	c := &ast.Case{Token: tok, Scrutinee: scrutinee}
	for p.curIs(lexer.OBJECTID) {
		c.Branches = append(c.Branches, p.parseCaseBranch())
	}
	if len(c.Branches) == 0 {
		p.addError(tok.Pos, "case must have at least one branch")
	}
	p.expect(lexer.ESAC)
	return c
}

func (p *Parser) parseNew() ast.Expr {
	tok := p.curToken
	p.nextToken()
	if !p.curIs(lexer.TYPEID) {
		p.addError(p.curToken.Pos, "expected a type name after 'new'")
		return &ast.New{Token: tok}
	}
	name := p.curToken.Literal
	p.nextToken()
	return &ast.New{Token: tok, TypeName: name}
}

func (p *Parser) parseIsVoid() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.IsVoid{Token: tok, Expr: p.parseExpression(ISVOIDPREC)}
}

func (p *Parser) parseComplement() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.UnOp{Token: tok, Op: ast.OpComplement, Expr: p.parseExpression(COMPLEMENT)}
}

func (p *Parser) parseNot() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.UnOp{Token: tok, Op: ast.OpNot, Expr: p.parseExpression(NOTPREC)}
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.IntLit{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.StringLit{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.BoolLit{Token: tok, Value: tok.Literal == "true"}
}
