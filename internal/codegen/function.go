package codegen

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ir"
)

// blockLabel gives a block a program-wide unique label: every function
// has its own "entry" block, so the function name must be folded in.
func blockLabel(fn *ir.Function, b *ir.Block) string {
	return "_blk_" + fn.Name + "_" + b.Label
}

// emitFunction emits one method body or class initialiser: prologue,
// formal copy-in, every reachable block in fn.Reachable()'s depth-first
// discovery order, epilogue. The frame
// layout follows spec.md §4.5's calling convention: self/$ra/$fp saved
// in a fixed 12-byte area, locals and temporaries packed below that.
func (g *generator) emitFunction(fn *ir.Function) {
	g.e.label(fn.Name)
	g.e.instr("addiu", "$sp", "$sp", "-12")
	g.e.instr("sw", "$fp", "8($sp)")
	g.e.instr("sw", "$ra", "4($sp)")
	g.e.instr("sw", "$a0", "0($sp)")
	g.e.instr("move", "$fp", "$sp")

	frameBytes := wordSize * (fn.NumLocals + numTemps(fn))
	if frameBytes > 0 {
		g.e.instr("addiu", "$sp", "$sp", fmt.Sprintf("-%d", frameBytes))
	}

	for i := 0; i < fn.NumFormals; i++ {
		g.e.instr("lw", "$t0", fmt.Sprintf("%d($fp)", formalCallerOffset(i)))
		g.e.instr("sw", "$t0", fmt.Sprintf("%d($fp)", localOffset(i)))
	}

	for _, b := range fn.Reachable() {
		g.e.label(blockLabel(fn, b))
		for _, in := range b.Instrs {
			g.emitInstr(fn, in)
		}
		g.emitTerminator(fn, b.Term)
	}

	g.e.blank()
}

func (g *generator) emitEpilogue() {
	g.e.instr("lw", "$ra", "4($fp)")
	g.e.instr("lw", "$t9", "8($fp)")
	g.e.instr("addiu", "$sp", "$fp", "12")
	g.e.instr("move", "$fp", "$t9")
	g.e.instr("jr", "$ra")
}

// emitInstr lowers one three-address instruction into MIPS, leaving its
// result (if any) in $a0, then stores it to its destination slot.
func (g *generator) emitInstr(fn *ir.Function, in ir.Instr) {
	switch in.Op {
	case ir.OpMove:
		g.loadOperand(fn, in.Args[0], "$a0")

	case ir.OpUnbox:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("lw", "$a0", fmt.Sprintf("%d($a0)", offAttrBase))

	case ir.OpBox:
		g.loadOperand(fn, in.Args[0], "$t0")
		g.e.instr("la", "$a0", protObjLabel(in.BoxClass))
		g.e.instr("jal", rtObjectCopy)
		g.e.instr("sw", "$t0", fmt.Sprintf("%d($a0)", offAttrBase))

	case ir.OpBinArith:
		g.loadOperand(fn, in.Args[0], "$t0")
		g.loadOperand(fn, in.Args[1], "$t1")
		g.emitArith(in.Arith)

	case ir.OpCompare:
		g.loadOperand(fn, in.Args[0], "$t0")
		g.loadOperand(fn, in.Args[1], "$t1")
		if in.Cmp == ir.CmpLe {
			g.e.instr("sle", "$a0", "$t0", "$t1")
		} else {
			g.e.instr("slt", "$a0", "$t0", "$t1")
		}

	case ir.OpNeg:
		g.loadOperand(fn, in.Args[0], "$t0")
		g.e.instr("subu", "$a0", "$zero", "$t0")

	case ir.OpNot:
		g.loadOperand(fn, in.Args[0], "$t0")
		g.e.instr("xori", "$a0", "$t0", "1")

	case ir.OpNewObject:
		g.e.instr("la", "$a0", protObjLabel(in.StaticCls))
		g.e.instr("jal", rtObjectCopy)
		g.e.instr("jal", "_init_"+in.StaticCls)

	case ir.OpLoadSelf:
		g.e.instr("lw", "$a0", "0($fp)")

	case ir.OpLoadAttr:
		off := attrOffset(g.prog.ByClass[fn.Class], in.AttrName)
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("lw", "$a0", fmt.Sprintf("%d($a0)", off))

	case ir.OpStoreAttr:
		off := attrOffset(g.prog.ByClass[fn.Class], in.AttrName)
		g.loadOperand(fn, in.Args[1], "$t0")
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("sw", "$t0", fmt.Sprintf("%d($a0)", off))

	case ir.OpLoadLocal:
		g.e.instr("lw", "$a0", fmt.Sprintf("%d($fp)", localOffset(in.Slot)))

	case ir.OpStoreLocal:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("sw", "$a0", fmt.Sprintf("%d($fp)", localOffset(in.Slot)))

	case ir.OpCall:
		g.emitDynamicCall(fn, in)

	case ir.OpStaticCall:
		g.emitStaticCall(fn, in)

	case ir.OpVoidCheck:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("beqz", "$a0", rtAbortDispatchVoid)

	case ir.OpEqualityTest:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.loadOperand(fn, in.Args[1], "$a1")
		g.e.instr("jal", rtEqualityTest)

	case ir.OpValueEq:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.loadOperand(fn, in.Args[1], "$a1")
		g.e.instr("jal", rtValueEq)

	case ir.OpIsVoid:
		g.loadOperand(fn, in.Args[0], "$a0")
		g.e.instr("sltu", "$a0", "$zero", "$a0")
		g.e.instr("xori", "$a0", "$a0", "1")

	case ir.OpAbort:
		idx := g.abortMsgIndex[in.Message]
		g.e.instr("la", "$a0", abortMsgLabel(idx))
		g.e.instr("j", rtPrintMsgAndExit)

	case ir.OpCallInit:
		g.e.instr("jal", "_init_"+in.StaticCls)

	default:
		panic(fmt.Sprintf("codegen: unhandled op %d", in.Op))
	}

	g.storeDst(fn, in)
}

func (g *generator) emitArith(kind ir.ArithKind) {
	switch kind {
	case ir.ArithAdd:
		g.e.instr("addu", "$a0", "$t0", "$t1")
	case ir.ArithSub:
		g.e.instr("subu", "$a0", "$t0", "$t1")
	case ir.ArithMul:
		g.e.instr("mul", "$a0", "$t0", "$t1")
	case ir.ArithDiv:
		g.e.instr("beqz", "$t1", rtAbortDivZero)
		g.e.instr("div", "$a0", "$t0", "$t1")
	}
}

// pushArgs pushes args[1:] (the real formals; args[0] is the receiver)
// in reverse order, per spec.md §4.5's calling convention, and returns
// how many bytes the caller must pop after the call returns.
func (g *generator) pushArgs(fn *ir.Function, args []ir.Value) int {
	for i := len(args) - 1; i >= 1; i-- {
		g.loadOperand(fn, args[i], "$a0")
		g.e.instr("addiu", "$sp", "$sp", "-4")
		g.e.instr("sw", "$a0", "0($sp)")
	}
	return wordSize * (len(args) - 1)
}

// emitDynamicCall resolves the call-site slot index at compile time from
// the receiver's static type, then indirects through the runtime
// object's own dispatch-table pointer so an override in a more derived
// class than RecvClass is still reached.
func (g *generator) emitDynamicCall(fn *ir.Function, in ir.Instr) {
	popBytes := g.pushArgs(fn, in.Args)
	g.loadOperand(fn, in.Args[0], "$a0")
	idx, _ := dispatchSlot(g.prog.ByClass[in.RecvClass], in.Method)
	g.e.instr("lw", "$t0", fmt.Sprintf("%d($a0)", offDispatch))
	g.e.instr("lw", "$t1", fmt.Sprintf("%d($t0)", wordSize*idx))
	g.e.instr("jalr", "$t1")
	if popBytes > 0 {
		g.e.instr("addiu", "$sp", "$sp", fmt.Sprintf("%d", popBytes))
	}
}

// emitStaticCall jumps straight to the resolved label, skipping the
// dispatch-table indirection entirely (spec.md §4.4's `super`/override
// dispatch).
func (g *generator) emitStaticCall(fn *ir.Function, in ir.Instr) {
	popBytes := g.pushArgs(fn, in.Args)
	g.loadOperand(fn, in.Args[0], "$a0")
	_, label := dispatchSlot(g.prog.ByClass[in.StaticCls], in.Method)
	g.e.instr("jal", label)
	if popBytes > 0 {
		g.e.instr("addiu", "$sp", "$sp", fmt.Sprintf("%d", popBytes))
	}
}

// emitTerminator lowers a block's control transfer. TermCase delegates
// to case.go; TermUnreachable emits nothing since it is, by
// construction, never reached at runtime.
func (g *generator) emitTerminator(fn *ir.Function, t ir.Terminator) {
	switch t.Kind {
	case ir.TermJump:
		g.e.instr("j", blockLabel(fn, t.True))

	case ir.TermCondJump:
		g.loadOperand(fn, t.Cond, "$a0")
		g.e.instr("bnez", "$a0", blockLabel(fn, t.True))
		g.e.instr("j", blockLabel(fn, t.False))

	case ir.TermReturn:
		g.loadOperand(fn, t.Value, "$a0")
		g.emitEpilogue()

	case ir.TermCase:
		g.emitCase(fn, t)

	case ir.TermUnreachable:
		// no code: control never reaches here.
	}
}
