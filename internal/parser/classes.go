package parser

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// parseClass parses `class TYPE [inherits TYPE] { feature; ... }`.
func (p *Parser) parseClass() *ast.Class {
	if !p.curIs(lexer.CLASS) {
		p.addError(p.curToken.Pos, "expected 'class', got %s", p.curToken.Type)
		p.synchronizeToClassBoundary()
		return nil
	}
	class := &ast.Class{Token: p.curToken}
	p.nextToken()

	if !p.curIs(lexer.TYPEID) {
		p.addError(p.curToken.Pos, "expected a type identifier after 'class'")
		p.synchronizeToClassBoundary()
		return nil
	}
	class.Name = p.curToken.Literal
	p.nextToken()

	if p.curIs(lexer.INHERITS) {
		p.nextToken()
		if !p.curIs(lexer.TYPEID) {
			p.addError(p.curToken.Pos, "expected a type identifier after 'inherits'")
			p.synchronizeToClassBoundary()
			return class
		}
		class.Parent = p.curToken.Literal
		p.nextToken()
	}

	if !p.expect(lexer.LBRACE) {
		p.synchronizeToClassBoundary()
		return class
	}

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		feature := p.parseFeature()
		if feature != nil {
			class.Features = append(class.Features, feature)
		}
		if !p.expect(lexer.SEMI) {
			p.synchronizeToFeatureBoundary()
		}
	}
	p.expect(lexer.RBRACE)
	return class
}

// synchronizeToClassBoundary skips to the `;` that ends the malformed
// class declaration, so the next class can still be parsed.
func (p *Parser) synchronizeToClassBoundary() {
	depth := 0
	for !p.curIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth == 0 {
				p.nextToken()
				return
			}
			depth--
		case lexer.SEMI:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// synchronizeToFeatureBoundary skips to the next `;` or the class's
// closing `}`, whichever comes first, bounding recovery to one feature.
func (p *Parser) synchronizeToFeatureBoundary() {
	for !p.curIs(lexer.SEMI) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		p.nextToken()
	}
	if p.curIs(lexer.SEMI) {
		p.nextToken()
	}
}

// parseFeature parses either an attribute (`id : T [<- expr]`) or a
// method (`id(formals): T { expr }`).
func (p *Parser) parseFeature() ast.Feature {
	if !p.curIs(lexer.OBJECTID) {
		p.addError(p.curToken.Pos, "expected a feature name, got %s", p.curToken.Type)
		return nil
	}
	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken()

	if p.curIs(lexer.LPAREN) {
		return p.parseMethod(tok, name)
	}
	return p.parseAttribute(tok, name)
}

func (p *Parser) parseMethod(tok lexer.Token, name string) *ast.Method {
	m := &ast.Method{Token: tok, Name: name}
	p.nextToken() // consume (

	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		m.Formals = append(m.Formals, p.parseFormal())
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.COLON)
	if p.curIs(lexer.TYPEID) || p.curIs(lexer.OBJECTID) {
		m.ReturnType = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(p.curToken.Pos, "expected a return type")
	}
	if !p.expect(lexer.LBRACE) {
		return m
	}
	m.Body = p.parseExpression(LOWEST)
	p.expect(lexer.RBRACE)
	return m
}

func (p *Parser) parseFormal() *ast.Formal {
	f := &ast.Formal{Token: p.curToken}
	if !p.curIs(lexer.OBJECTID) {
		p.addError(p.curToken.Pos, "expected a formal parameter name")
		return f
	}
	f.Name = p.curToken.Literal
	p.nextToken()
	p.expect(lexer.COLON)
	if p.curIs(lexer.TYPEID) || p.curIs(lexer.OBJECTID) {
		f.Type = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(p.curToken.Pos, "expected a formal's type")
	}
	return f
}

func (p *Parser) parseAttribute(tok lexer.Token, name string) *ast.Attribute {
	a := &ast.Attribute{Token: tok, Name: name}
	p.expect(lexer.COLON)
	if p.curIs(lexer.TYPEID) || p.curIs(lexer.OBJECTID) {
		a.Type = p.curToken.Literal
		p.nextToken()
	} else {
		p.addError(p.curToken.Pos, "expected an attribute's type")
	}
	if p.curIs(lexer.ASSIGN) {
		p.nextToken()
		a.Init = p.parseExpression(LOWEST)
	}
	return a
}
