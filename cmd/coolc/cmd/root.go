package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "coolc [files...]",
	Short: "COOL to SPIM MIPS32 compiler",
	Long: `coolc compiles Classroom Object Oriented Language (COOL) source files
to MIPS32 assembly for the SPIM simulator.

One or more .cl files are given as positional arguments and compiled
together as a single program. With no dump flag, coolc emits assembly to
the output file. --tokens, --ast, and --semantics each dump one pipeline
stage's output instead and exit without emitting assembly.`,
	Version:      Version,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCompile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// exitError carries the process exit code spec.md §6 assigns to a
// failure: 1 lex/parse, 2 semantic, 3 I/O, 4 internal. A plain error
// (e.g. cobra's own flag/usage errors) exits 3.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newExitError(code int, format string, args ...any) *exitError {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

// ExitCode extracts the process exit code a RunE error carries, or 3
// (I/O/usage) for any error that isn't one coolc itself classified.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	return 3
}

func verbosef(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
