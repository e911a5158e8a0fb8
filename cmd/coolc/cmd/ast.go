package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/pkg/coolc"
	"github.com/cwbudde/coolc/pkg/printer"
	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast [files...]",
	Short: "Dump the parsed AST for one or more COOL sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sources, err := loadSources(args)
		if err != nil {
			return err
		}
		return dumpParsedAST(sources)
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
}

// dumpParsedAST parses every source (independently, the way --tokens
// lexes independently) and pretty-prints the resulting classes with
// pkg/printer.MultilinePrinter rather than a bespoke type-switch
// dumper: every ast.Node already renders itself back to COOL source
// (see internal/ast.Node's doc comment), and the printer's indented
// layout is a more useful dump than a second, parallel tree-shaped one.
func dumpParsedAST(sources []coolc.Source) error {
	var classes []*ast.Class
	hadErrors := false
	for _, src := range sources {
		l := lexer.New(src.Text)
		p := parser.New(l)
		prog := p.ParseProgram()
		for _, perr := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s:%s: %s\n", src.Name, perr.Pos, perr.Msg)
			hadErrors = true
		}
		classes = append(classes, prog.Classes...)
	}
	if hadErrors {
		return newExitError(1, "parse error(s)")
	}
	out := printer.MultilinePrinter().Print(&ast.Program{Classes: classes})
	fmt.Print(out)
	return nil
}
