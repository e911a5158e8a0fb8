package codegen

import "github.com/cwbudde/coolc/internal/ir"

// collectConstants walks every function's instructions and terminators,
// in function/block/instruction order, to build the program's constant
// tables before any text is emitted. Scanning the IR directly (rather
// than trusting ir.Program.Strings) catches constants synthesised after
// lowering's own interning, such as an uninitialised String attribute's
// default "" (see internal/ir.lowerInit).
func (g *generator) collectConstants() {
	for _, fn := range g.prog.Functions {
		for _, blk := range fn.Blocks {
			for _, in := range blk.Instrs {
				for _, v := range in.Args {
					g.noteConst(v)
				}
				if in.Op == ir.OpAbort {
					g.noteAbortMessage(in.Message)
				}
			}
			g.noteConst(blk.Term.Cond)
			g.noteConst(blk.Term.Value)
			g.noteConst(blk.Term.Scrut)
		}
	}
}

func (g *generator) noteConst(v ir.Value) {
	switch v.Kind {
	case ir.ValConstInt:
		if _, ok := g.intIndex[v.Int]; !ok {
			g.intIndex[v.Int] = len(g.ints)
			g.ints = append(g.ints, v.Int)
		}
	case ir.ValConstString:
		if v.Str == "" {
			return // always available as _str_const_empty
		}
		if _, ok := g.strIndex[v.Str]; !ok {
			g.strIndex[v.Str] = len(g.strs)
			g.strs = append(g.strs, v.Str)
		}
	}
}

func (g *generator) noteAbortMessage(msg string) {
	if _, ok := g.abortMsgIndex[msg]; ok {
		return
	}
	g.abortMsgIndex[msg] = len(g.abortMsgs)
	g.abortMsgs = append(g.abortMsgs, msg)
}
