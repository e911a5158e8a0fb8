// Package parser implements a Pratt parser that turns a COOL token
// stream into an ast.Program, following spec.md §4.2's precedence table.
package parser

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// Precedence levels, lowest to highest, per spec.md §4.2.
const (
	_ int = iota
	LOWEST
	ASSIGN   // <- (right-assoc)
	NOTPREC  // not (right-assoc prefix)
	COMPARE  // < <= = (non-associative)
	SUM      // + - (left)
	PRODUCT  // * / (left)
	ISVOIDPREC
	COMPLEMENT // ~ (prefix)
	STATICDISP // @ (left)
	DISPATCH   // . (left)
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGN,
	lexer.LT:     COMPARE,
	lexer.LE:     COMPARE,
	lexer.EQ:     COMPARE,
	lexer.PLUS:   SUM,
	lexer.MINUS:  SUM,
	lexer.STAR:   PRODUCT,
	lexer.SLASH:  PRODUCT,
	lexer.AT:     STATICDISP,
	lexer.DOT:    DISPATCH,
}

// compareOps is used to detect and reject a chained comparison such as
// `a < b < c`, which spec.md §4.2 calls out as a syntax error because
// COMPARE is non-associative.
var compareOps = map[lexer.TokenType]bool{lexer.LT: true, lexer.LE: true, lexer.EQ: true}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// ParseError is a single recoverable syntax diagnostic.
type ParseError struct {
	Msg string
	Pos lexer.Position
}

func (e ParseError) Error() string { return e.Msg }

// Parser is a recursive-descent / Pratt parser over a token stream
// produced by internal/lexer. It performs panic-mode recovery at
// semicolons bounded by the enclosing class or feature (spec.md §4.2)
// so a single run can surface multiple diagnostics.
type Parser struct {
	l      *lexer.Lexer
	errors []ParseError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New builds a Parser over l and primes the two-token lookahead buffer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.OBJECTID:   p.parseIdentOrDispatch,
		lexer.INT_CONST:  p.parseIntLit,
		lexer.STR_CONST:  p.parseStringLit,
		lexer.BOOL_CONST: p.parseBoolLit,
		lexer.LPAREN:     p.parseParen,
		lexer.LBRACE:     p.parseBlock,
		lexer.IF:         p.parseIf,
		lexer.WHILE:      p.parseWhile,
		lexer.LET:        p.parseLet,
		lexer.CASE:       p.parseCase,
		lexer.NEW:        p.parseNew,
		lexer.ISVOID:     p.parseIsVoid,
		lexer.TILDE:      p.parseComplement,
		lexer.NOT:        p.parseNot,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.ASSIGN: p.parseAssign,
		lexer.LT:     p.parseBinOp,
		lexer.LE:     p.parseBinOp,
		lexer.EQ:     p.parseBinOp,
		lexer.PLUS:   p.parseBinOp,
		lexer.MINUS:  p.parseBinOp,
		lexer.STAR:   p.parseBinOp,
		lexer.SLASH:  p.parseBinOp,
		lexer.DOT:    p.parseDispatch,
		lexer.AT:     p.parseStaticDispatch,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) addError(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.curToken.Type == t }

// expect advances past t, or records an error and leaves the cursor in
// place when the current token doesn't match.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.curToken.Pos, "expected %s, got %s (%q)", t, p.curToken.Type, p.curToken.Literal)
	return false
}

// ParseProgram parses the whole token stream as a sequence of class
// declarations (spec.md §3: "A program is an ordered sequence of class
// declarations").
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		class := p.parseClass()
		if class != nil {
			prog.Classes = append(prog.Classes, class)
		}
		if !p.expect(lexer.SEMI) {
			p.synchronize()
		}
	}
	return prog
}

// synchronize implements panic-mode recovery: skip tokens until the next
// `;` or EOF, bounded so a malformed class/feature doesn't swallow the
// rest of the program (spec.md §4.2).
func (p *Parser) synchronize() {
	for !p.curIs(lexer.SEMI) && !p.curIs(lexer.EOF) {
		p.nextToken()
	}
	if p.curIs(lexer.SEMI) {
		p.nextToken()
	}
}
