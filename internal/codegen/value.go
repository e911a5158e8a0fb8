package codegen

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ir"
)

// numTemps returns one past the highest virtual temporary fn's
// instructions define, i.e. how many temp slots the frame needs.
// ir.Function doesn't track this itself (TempPool is build-time-only),
// so it's recovered here by scanning Defines() results.
func numTemps(fn *ir.Function) int {
	max := 0
	for _, b := range fn.Blocks {
		for _, in := range b.Instrs {
			if v, ok := in.Defines(); ok && v.Temp+1 > max {
				max = v.Temp + 1
			}
		}
	}
	return max
}

// localOffset is the $fp-relative byte offset of local slot, including
// the formal slots 0..NumFormals-1.
func localOffset(slot int) int {
	return -wordSize - wordSize*slot
}

// tempOffset is the $fp-relative byte offset of temporary index t,
// placed right below the function's local slots.
func tempOffset(fn *ir.Function, t int) int {
	return -wordSize - wordSize*fn.NumLocals - wordSize*t
}

// formalCallerOffset is the $fp-relative offset of formal i as the
// caller left it on the stack before the call, per spec.md §4.5's
// calling convention (pushed in reverse order ahead of the 12-byte
// self/$ra/$fp save area).
func formalCallerOffset(i int) int {
	return offAttrBase + wordSize*i
}

// loadOperand emits code loading v into reg.
func (g *generator) loadOperand(fn *ir.Function, v ir.Value, reg string) {
	switch v.Kind {
	case ir.ValTemp:
		g.e.instr("lw", reg, fmt.Sprintf("%d($fp)", tempOffset(fn, v.Temp)))
	case ir.ValConstInt:
		g.e.instr("la", reg, intConstLabel(g.intIndex[v.Int]))
	case ir.ValConstBool:
		if v.Bool {
			g.e.instr("la", reg, "_bool_const_true")
		} else {
			g.e.instr("la", reg, "_bool_const_false")
		}
	case ir.ValConstString:
		if v.Str == "" {
			g.e.instr("la", reg, "_str_const_empty")
		} else {
			g.e.instr("la", reg, strConstLabel(g.strIndex[v.Str]))
		}
	case ir.ValVoid:
		g.e.instr("li", reg, "0")
	}
}

// storeTemp emits code storing reg into the frame slot for temp t.
func (g *generator) storeTemp(fn *ir.Function, t int, reg string) {
	g.e.instr("sw", reg, fmt.Sprintf("%d($fp)", tempOffset(fn, t)))
}

// storeDst stores $a0 into in's destination slot, if it defines one.
func (g *generator) storeDst(fn *ir.Function, in ir.Instr) {
	if dst, ok := in.Defines(); ok {
		g.storeTemp(fn, dst.Temp, "$a0")
	}
}
