// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the semantic analyser.
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/coolc/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// Pos returns the node's source position, for diagnostics.
	Pos() lexer.Position
	// String renders the node back to COOL source, used by pkg/printer
	// and by the --ast dump.
	String() string
}

// Expr is any node that evaluates to a value. After semantic analysis,
// StaticType holds its resolved type ("Object" on a best-effort repair
// after a type error, per spec.md §4.3).
type Expr interface {
	Node
	exprNode()
	// Type returns the expression's resolved static type. Empty before
	// semantic analysis has run.
	Type() string
	// SetType annotates the expression with its resolved static type.
	SetType(t string)
}

// exprBase factors the StaticType field and its accessors into every
// concrete expression type.
type exprBase struct {
	StaticType string
}

func (e *exprBase) Type() string     { return e.StaticType }
func (e *exprBase) SetType(t string) { e.StaticType = t }

// Program is the root node: an ordered sequence of class declarations.
type Program struct {
	Classes []*Class
}

func (p *Program) Pos() lexer.Position {
	if len(p.Classes) > 0 {
		return p.Classes[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, c := range p.Classes {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Class is a class declaration: a name, an optional parent (Object if
// omitted from source), and its ordered features.
type Class struct {
	Token    lexer.Token // the `class` keyword
	Name     string
	Parent   string // resolved default is "Object"; ast.go itself never defaults this
	Features []Feature
}

func (c *Class) Pos() lexer.Position { return c.Token.Pos }
func (c *Class) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	out.WriteString(c.Name)
	if c.Parent != "" {
		out.WriteString(" inherits ")
		out.WriteString(c.Parent)
	}
	out.WriteString(" {\n")
	for _, f := range c.Features {
		out.WriteString("  ")
		out.WriteString(f.String())
		out.WriteString(";\n")
	}
	out.WriteString("};")
	return out.String()
}

// Feature is either an Attribute or a Method.
type Feature interface {
	Node
	featureNode()
}

// Formal is a single method parameter: a name and its declared type.
type Formal struct {
	Token lexer.Token
	Name  string
	Type  string
}

func (f *Formal) Pos() lexer.Position { return f.Token.Pos }
func (f *Formal) String() string      { return f.Name + ": " + f.Type }

// Attribute is a feature declaring an object field, with an optional
// initializer expression.
type Attribute struct {
	Token lexer.Token
	Name  string
	Type  string
	Init  Expr // nil if there is no initializer
}

func (a *Attribute) featureNode()        {}
func (a *Attribute) Pos() lexer.Position { return a.Token.Pos }
func (a *Attribute) String() string {
	s := a.Name + ": " + a.Type
	if a.Init != nil {
		s += " <- " + a.Init.String()
	}
	return s
}

// Method is a feature declaring a dispatchable operation: ordered
// formals, a declared return type (which may be "SELF_TYPE"), and a body.
type Method struct {
	Token      lexer.Token
	Name       string
	Formals    []*Formal
	ReturnType string
	Body       Expr
}

func (m *Method) featureNode()        {}
func (m *Method) Pos() lexer.Position { return m.Token.Pos }
func (m *Method) String() string {
	var out bytes.Buffer
	out.WriteString(m.Name)
	out.WriteString("(")
	parts := make([]string, len(m.Formals))
	for i, f := range m.Formals {
		parts[i] = f.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("): ")
	out.WriteString(m.ReturnType)
	out.WriteString(" { ")
	out.WriteString(m.Body.String())
	out.WriteString(" }")
	return out.String()
}
