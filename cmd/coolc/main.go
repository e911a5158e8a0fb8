// Command coolc compiles COOL source files to SPIM MIPS32 assembly.
package main

import (
	"os"

	"github.com/cwbudde/coolc/cmd/coolc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
