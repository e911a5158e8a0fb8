package codegen

import (
	"fmt"
	"io"
)

// emitter is a thin io.Writer wrapper providing the handful of line
// shapes MIPS assembly text needs, mirroring the Disassembler's
// fmt.Fprintf-per-line style in internal/bytecode/disasm.go.
type emitter struct {
	w io.Writer
}

func newEmitter(w io.Writer) *emitter { return &emitter{w: w} }

func (e *emitter) section(name string) {
	fmt.Fprintf(e.w, "%s\n", name)
}

func (e *emitter) label(name string) {
	fmt.Fprintf(e.w, "%s:\n", name)
}

// directive writes an assembler directive line such as ".word 5" or
// ".asciiz \"hi\"", indented like every instruction line.
func (e *emitter) directive(format string, args ...any) {
	fmt.Fprintf(e.w, "\t%s\n", fmt.Sprintf(format, args...))
}

// instr writes one instruction with its operands comma-joined, e.g.
// e.instr("addiu", "$sp", "$sp", "-12").
func (e *emitter) instr(op string, operands ...string) {
	if len(operands) == 0 {
		fmt.Fprintf(e.w, "\t%s\n", op)
		return
	}
	line := op
	for i, o := range operands {
		if i == 0 {
			line += " " + o
		} else {
			line += ", " + o
		}
	}
	fmt.Fprintf(e.w, "\t%s\n", line)
}

func (e *emitter) comment(format string, args ...any) {
	fmt.Fprintf(e.w, "\t# %s\n", fmt.Sprintf(format, args...))
}

func (e *emitter) blank() {
	fmt.Fprintln(e.w)
}
