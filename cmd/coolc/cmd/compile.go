package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/pkg/coolc"
	"github.com/spf13/cobra"
)

var (
	outFile    string
	dumpTokens bool
	dumpAST    bool
	dumpSem    bool
	noCodegen  bool
)

// compileCmd is an explicit alias for the root command's default
// behaviour (SPEC_FULL.md §10: "compile (default)... subcommand"),
// useful in scripts that want to name the action rather than rely on
// the no-subcommand default.
var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile COOL sources to SPIM MIPS32 assembly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		sources, err := loadSources(args)
		if err != nil {
			return err
		}
		return compileAndWrite(sources, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outFile, "outfile", "o", "", "output assembly path (default: first source's basename + .s)")
	rootCmd.PersistentFlags().BoolVar(&noCodegen, "no-codegen", false, "run lexing, parsing and semantic analysis only")
	rootCmd.Flags().BoolVar(&dumpTokens, "tokens", false, "dump the token stream and exit")
	rootCmd.Flags().BoolVar(&dumpAST, "ast", false, "dump the parsed AST and exit")
	rootCmd.Flags().BoolVar(&dumpSem, "semantics", false, "dump the type-annotated AST and exit")

	rootCmd.AddCommand(compileCmd)
}

// loadSources reads every file in order, wrapping a read failure as the
// I/O exit code (spec.md §6: exit 3).
func loadSources(files []string) ([]coolc.Source, error) {
	sources := make([]coolc.Source, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, newExitError(3, "failed to read %s: %v", f, err)
		}
		sources = append(sources, coolc.Source{Name: f, Text: string(content)})
	}
	return sources, nil
}

func runCompile(_ *cobra.Command, args []string) error {
	sources, err := loadSources(args)
	if err != nil {
		return err
	}

	switch {
	case dumpTokens:
		return dumpTokenStream(sources)
	case dumpAST:
		return dumpParsedAST(sources)
	case dumpSem:
		return dumpAnnotatedAST(sources)
	}

	return compileAndWrite(sources, args[0])
}

// compileAndWrite runs the full pipeline (or stops after semantic
// analysis under --no-codegen) and writes the emitted assembly to
// outFile (or its default, derived from firstArg).
func compileAndWrite(sources []coolc.Source, firstArg string) error {
	verbosef("compiling %d source(s)\n", len(sources))

	if noCodegen {
		if _, err := analyzeOnly(sources); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "no errors")
		return nil
	}

	asm, diags, err := coolc.Compile(sources)
	if err != nil {
		return newExitError(3, "%v", err)
	}
	if len(diags) > 0 {
		return reportDiagnostics(diags)
	}

	out := outFile
	if out == "" {
		out = defaultOutfile(firstArg)
	}
	if err := os.WriteFile(out, []byte(asm), 0644); err != nil {
		return newExitError(3, "failed to write %s: %v", out, err)
	}
	verbosef("wrote %s\n", out)
	return nil
}

// defaultOutfile replaces the first source's extension with .s, per
// spec.md §6.
func defaultOutfile(first string) string {
	ext := filepath.Ext(first)
	if ext == "" {
		return first + ".s"
	}
	return strings.TrimSuffix(first, ext) + ".s"
}

// reportDiagnostics writes every diagnostic to stderr, one per line, in
// source order, and returns an exitError whose code is the sink's
// worst stage.
func reportDiagnostics(diags []errors.Diagnostic) error {
	sink := errors.NewSink()
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
		sink.Add(d)
	}
	return &exitError{code: sink.ExitCode(), err: fmt.Errorf("%d error(s)", len(diags))}
}
