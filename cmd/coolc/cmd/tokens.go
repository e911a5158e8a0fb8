package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/pkg/coolc"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [files...]",
	Short: "Dump the token stream for one or more COOL sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sources, err := loadSources(args)
		if err != nil {
			return err
		}
		return dumpTokenStream(sources)
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

// dumpTokenStream lexes every source and prints each token with its
// kind, position, and literal (lexer.Token.String() already renders
// this form). Any lex error aborts with exit code 1 after every token
// up to EOF has still been lexed and printed, per spec.md §7's
// "reports as many problems as possible".
func dumpTokenStream(sources []coolc.Source) error {
	hadErrors := false
	for _, src := range sources {
		if len(sources) > 1 {
			fmt.Printf("-- %s --\n", src.Name)
		}
		l := lexer.New(src.Text)
		for {
			tok := l.NextToken()
			fmt.Println(tok.String())
			if tok.Type == lexer.EOF {
				break
			}
		}
		for _, lerr := range l.Errors() {
			fmt.Fprintf(os.Stderr, "%s:%s: %s\n", src.Name, lerr.Pos, lerr.Msg)
			hadErrors = true
		}
	}
	if hadErrors {
		return newExitError(1, "lex error(s)")
	}
	return nil
}
