// Package printer renders an internal/ast tree back to COOL source text,
// supplying spec.md §8's "parse idempotence" property:
// parse(pretty(parse(s))) = parse(s). Every ast.Node already implements
// String() for exactly this purpose (see internal/ast.Node's doc
// comment); this package adds the Options/Style surface and a proper
// indented layout for Style.Multiline, which String() alone doesn't do.
package printer

import (
	"bytes"
	"strings"

	"github.com/cwbudde/coolc/internal/ast"
)

// Style selects how much whitespace the printer introduces beyond what
// a node's own String() produces.
type Style int

const (
	// StyleCompact reproduces each node's own String() verbatim: a
	// class puts each feature on its own line, indented two spaces, and
	// method bodies get no further layout.
	StyleCompact Style = iota
	// StyleMultiline lays classes, features, and block statements out
	// one per line, indented by Options.IndentWidth per nesting level.
	StyleMultiline
)

func (s Style) String() string {
	switch s {
	case StyleCompact:
		return "compact"
	case StyleMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// Options configures a Printer.
type Options struct {
	Style       Style
	IndentWidth int
	UseSpaces   bool
}

// CompactOptions renders source exactly as the nodes' own String()
// methods do, with no layout of its own.
func CompactOptions() Options {
	return Options{Style: StyleCompact, IndentWidth: 0, UseSpaces: true}
}

// MultilineOptions renders source with one feature/statement per line,
// two-space indentation.
func MultilineOptions() Options {
	return Options{Style: StyleMultiline, IndentWidth: 2, UseSpaces: true}
}

// Printer renders ast.Node values to COOL source text per its Options.
type Printer struct {
	opts Options
}

// New builds a Printer from opts.
func New(opts Options) *Printer { return &Printer{opts: opts} }

// CompactPrinter is a Printer using CompactOptions.
func CompactPrinter() *Printer { return New(CompactOptions()) }

// MultilinePrinter is a Printer using MultilineOptions.
func MultilinePrinter() *Printer { return New(MultilineOptions()) }

func (p *Printer) indent(depth int) string {
	unit := " "
	if !p.opts.UseSpaces {
		unit = "\t"
	}
	return strings.Repeat(unit, p.opts.IndentWidth*depth)
}

// Print renders node back to COOL source.
func (p *Printer) Print(node ast.Node) string {
	if p.opts.Style == StyleCompact {
		return node.String()
	}
	switch n := node.(type) {
	case *ast.Program:
		return p.printProgram(n)
	case *ast.Class:
		return p.printClass(n, 0)
	default:
		return node.String()
	}
}

func (p *Printer) printProgram(prog *ast.Program) string {
	var out bytes.Buffer
	for i, c := range prog.Classes {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(p.printClass(c, 0))
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Printer) printClass(c *ast.Class, depth int) string {
	var out bytes.Buffer
	out.WriteString(p.indent(depth))
	out.WriteString("class ")
	out.WriteString(c.Name)
	if c.Parent != "" {
		out.WriteString(" inherits ")
		out.WriteString(c.Parent)
	}
	out.WriteString(" {\n")
	for _, f := range c.Features {
		out.WriteString(p.indent(depth + 1))
		out.WriteString(p.printFeature(f, depth+1))
		out.WriteString(";\n")
	}
	out.WriteString(p.indent(depth))
	out.WriteString("};")
	return out.String()
}

func (p *Printer) printFeature(f ast.Feature, depth int) string {
	if m, ok := f.(*ast.Method); ok {
		return p.printMethod(m, depth)
	}
	// Attribute: no nested block to lay out, its own String() suffices.
	return f.String()
}

// printMethod's own "{" "}" belong to the feature syntax ID(formals):
// TYPE { expr }, always present regardless of what expr is. A
// multi-statement body is itself a brace-delimited ast.Block expr
// nested inside those (i.e. doubled braces in source); printExpr gives
// that inner Block its own indented layout.
func (p *Printer) printMethod(m *ast.Method, depth int) string {
	var out bytes.Buffer
	out.WriteString(m.Name)
	out.WriteString("(")
	parts := make([]string, len(m.Formals))
	for i, fm := range m.Formals {
		parts[i] = fm.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("): ")
	out.WriteString(m.ReturnType)
	out.WriteString(" { ")
	out.WriteString(p.printExpr(m.Body, depth))
	out.WriteString(" }")
	return out.String()
}

// printExpr lays a Block expression's statements out one per line; any
// other expression is unaffected by Style.Multiline and renders exactly
// as its own String() would.
func (p *Printer) printExpr(e ast.Expr, depth int) string {
	blk, ok := e.(*ast.Block)
	if !ok {
		return e.String()
	}
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range blk.Exprs {
		out.WriteString(p.indent(depth + 1))
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	out.WriteString(p.indent(depth))
	out.WriteString("}")
	return out.String()
}
