package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/semantic"
	"github.com/cwbudde/coolc/pkg/coolc"
	"github.com/spf13/cobra"
)

var semanticsCmd = &cobra.Command{
	Use:   "semantics [files...]",
	Short: "Dump the type-annotated AST for one or more COOL sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sources, err := loadSources(args)
		if err != nil {
			return err
		}
		return dumpAnnotatedAST(sources)
	},
}

func init() {
	rootCmd.AddCommand(semanticsCmd)
}

// dumpAnnotatedAST prints every node's resolved static type alongside
// its source form (SPEC_FULL.md §11: a strict superset of re-printing
// the class hierarchy table, surfacing internal/semantic's annotation
// pass).
func dumpAnnotatedAST(sources []coolc.Source) error {
	prog, err := analyzeOnly(sources)
	if err != nil {
		return err
	}
	for _, c := range prog.Classes {
		dumpClass(c, 0)
	}
	return nil
}

// analyzeOnly runs lex, parse, and semantic analysis (but never
// codegen) and returns the combined, type-annotated program. It
// duplicates pkg/coolc.Compile's first two stages rather than calling
// Compile, because Compile always runs the full pipeline through
// codegen and never exposes the intermediate annotated AST — both
// --no-codegen and --semantics need to stop short of that.
func analyzeOnly(sources []coolc.Source) (*ast.Program, error) {
	var classes []*ast.Class
	hadErrors := false
	for _, src := range sources {
		l := lexer.New(src.Text)
		p := parser.New(l)
		prog := p.ParseProgram()
		for _, lerr := range l.Errors() {
			fmt.Fprintf(os.Stderr, "%s:%s: %s\n", src.Name, lerr.Pos, lerr.Msg)
			hadErrors = true
		}
		for _, perr := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s:%s: %s\n", src.Name, perr.Pos, perr.Msg)
			hadErrors = true
		}
		classes = append(classes, prog.Classes...)
	}
	if hadErrors {
		return nil, newExitError(1, "lex/parse error(s)")
	}

	combined := &ast.Program{Classes: classes}
	sink := errors.NewSink()
	fileLabel, sourceText := sources[0].Name, sources[0].Text
	if len(sources) > 1 {
		names := make([]string, len(sources))
		for i, src := range sources {
			names[i] = src.Name
		}
		fileLabel, sourceText = strings.Join(names, ", "), ""
	}
	semantic.New(sink, fileLabel, sourceText).Run(combined)
	if sink.HasErrors() {
		for _, d := range sink.All() {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return nil, newExitError(2, "%d semantic error(s)", len(sink.All()))
	}
	return combined, nil
}

func dumpClass(c *ast.Class, depth int) {
	fmt.Printf("%sclass %s inherits %s\n", pad(depth), c.Name, c.Parent)
	for _, f := range c.Features {
		switch feat := f.(type) {
		case *ast.Attribute:
			fmt.Printf("%sattribute %s : %s\n", pad(depth+1), feat.Name, feat.Type)
			if feat.Init != nil {
				dumpExpr(feat.Init, depth+2)
			}
		case *ast.Method:
			formals := make([]string, len(feat.Formals))
			for i, fm := range feat.Formals {
				formals[i] = fm.String()
			}
			fmt.Printf("%smethod %s(%s) : %s\n", pad(depth+1), feat.Name, strings.Join(formals, ", "), feat.ReturnType)
			dumpExpr(feat.Body, depth+2)
		}
	}
}

func pad(depth int) string { return strings.Repeat("  ", depth) }

// dumpExpr prints one line per node, "Kind : StaticType", then
// recurses into every child expression in evaluation order.
func dumpExpr(e ast.Expr, depth int) {
	p := pad(depth)
	switch n := e.(type) {
	case *ast.Assign:
		fmt.Printf("%sAssign %s : %s\n", p, n.Name, n.Type())
		dumpExpr(n.Value, depth+1)
	case *ast.Dispatch:
		label := n.Method
		if n.Override != "" {
			label = n.Override + "." + label
		}
		fmt.Printf("%sDispatch %s : %s\n", p, label, n.Type())
		if n.Receiver != nil {
			dumpExpr(n.Receiver, depth+1)
		}
		for _, a := range n.Args {
			dumpExpr(a, depth+1)
		}
	case *ast.If:
		fmt.Printf("%sIf : %s\n", p, n.Type())
		dumpExpr(n.Pred, depth+1)
		dumpExpr(n.Then, depth+1)
		dumpExpr(n.Else, depth+1)
	case *ast.While:
		fmt.Printf("%sWhile : %s\n", p, n.Type())
		dumpExpr(n.Pred, depth+1)
		dumpExpr(n.Body, depth+1)
	case *ast.Block:
		fmt.Printf("%sBlock : %s\n", p, n.Type())
		for _, s := range n.Exprs {
			dumpExpr(s, depth+1)
		}
	case *ast.Let:
		fmt.Printf("%sLet %s : %s : %s\n", p, n.Binding.Name, n.Binding.Type, n.Type())
		if n.Binding.Init != nil {
			dumpExpr(n.Binding.Init, depth+1)
		}
		dumpExpr(n.Body, depth+1)
	case *ast.Case:
		fmt.Printf("%sCase : %s\n", p, n.Type())
		dumpExpr(n.Scrutinee, depth+1)
		for _, br := range n.Branches {
			fmt.Printf("%s  branch %s : %s\n", p, br.Name, br.Type)
			dumpExpr(br.Body, depth+2)
		}
	case *ast.New:
		fmt.Printf("%sNew %s : %s\n", p, n.TypeName, n.Type())
	case *ast.IsVoid:
		fmt.Printf("%sIsVoid : %s\n", p, n.Type())
		dumpExpr(n.Expr, depth+1)
	case *ast.BinOp:
		fmt.Printf("%sBinOp %s : %s\n", p, n.Op, n.Type())
		dumpExpr(n.Left, depth+1)
		dumpExpr(n.Right, depth+1)
	case *ast.UnOp:
		fmt.Printf("%sUnOp : %s\n", p, n.Type())
		dumpExpr(n.Expr, depth+1)
	case *ast.Paren:
		dumpExpr(n.Inner, depth)
	case *ast.Id:
		fmt.Printf("%sId %s : %s\n", p, n.Name, n.Type())
	case *ast.IntLit:
		fmt.Printf("%sIntLit %s : %s\n", p, n.Value, n.Type())
	case *ast.StringLit:
		fmt.Printf("%sStringLit %q : %s\n", p, n.Value, n.Type())
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v : %s\n", p, n.Value, n.Type())
	default:
		fmt.Printf("%s%T : %s\n", p, e, e.Type())
	}
}
