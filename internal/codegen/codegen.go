package codegen

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/coolc/internal/ir"
)

// scratchBufSize bounds the scratch buffer concat copies into (substr
// copies straight from the receiver's bytes instead): twice the lexer's own string-literal cap, since no COOL string
// literal (and so no value built from a bounded number of them) needs
// more room than that in a classroom compiler with no dynamic string
// growth.
const scratchBufSize = 2048

// Generate lowers an ir.Program, as built by ir.Lower, into MIPS32
// assembly text for the SPIM simulator: emit(ir_program) -> MipsText,
// spec.md §4.5. It does not run ir.Optimize, and pkg/coolc hands it the
// unoptimised program.
func Generate(prog *ir.Program) string {
	g := newGenerator(prog)
	g.emitData()
	g.emitText()
	return g.buf.String()
}

type generator struct {
	prog *ir.Program
	buf  bytes.Buffer
	e    *emitter

	ints     []int64
	intIndex map[int64]int
	strs     []string // non-empty distinct literals, first-encounter order
	strIndex map[string]int

	abortMsgs     []string
	abortMsgIndex map[string]int

	labelSeq int

	intTag, boolTag, stringTag int
}

func newGenerator(prog *ir.Program) *generator {
	g := &generator{
		prog:          prog,
		intIndex:      make(map[int64]int),
		strIndex:      make(map[string]int),
		abortMsgIndex: make(map[string]int),
	}
	g.e = newEmitter(&g.buf)
	if c, ok := prog.ByClass["Int"]; ok {
		g.intTag = c.Tag
	}
	if c, ok := prog.ByClass["Bool"]; ok {
		g.boolTag = c.Tag
	}
	if c, ok := prog.ByClass["String"]; ok {
		g.stringTag = c.Tag
	}
	g.collectConstants()
	return g
}

func (g *generator) newLabel(prefix string) string {
	g.labelSeq++
	return fmt.Sprintf("_%s_%d", prefix, g.labelSeq)
}
