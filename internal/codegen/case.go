package codegen

import (
	"fmt"
	"sort"

	"github.com/cwbudde/coolc/internal/ir"
)

// emitCase lowers a TermCase terminator: void-check the scrutinee, then
// for each arm (ordered by decreasing declared-class depth, so the most
// specific match wins) walk the runtime object's tag up through
// _parent_tag_table looking for the arm's class tag. The first arm
// whose walk succeeds is taken; if none matches, the program aborts.
func (g *generator) emitCase(fn *ir.Function, t ir.Terminator) {
	g.loadOperand(fn, t.Scrut, "$a0")
	g.e.instr("beqz", "$a0", rtAbortCaseVoid)

	arms := append([]ir.CaseArm(nil), t.Arms...)
	sort.SliceStable(arms, func(i, j int) bool {
		return g.classDepth(arms[i].ClassName) > g.classDepth(arms[j].ClassName)
	})

	g.e.instr("lw", "$t0", fmt.Sprintf("%d($a0)", offTag)) // runtime tag, walked per arm

	for _, arm := range arms {
		tryLabel := g.newLabel("case_try")
		nextLabel := g.newLabel("case_next")
		tag := g.prog.ByClass[arm.ClassName].Tag

		g.e.instr("move", "$t1", "$t0")
		g.e.label(tryLabel)
		g.e.instr("li", "$t2", fmt.Sprintf("%d", tag))
		g.e.instr("beq", "$t1", "$t2", blockLabel(fn, arm.Body))
		g.e.instr("li", "$t2", fmt.Sprintf("%d", g.prog.ByClass["Object"].Tag))
		g.e.instr("beq", "$t1", "$t2", nextLabel)
		g.e.instr("la", "$t3", "_parent_tag_table")
		g.e.instr("sll", "$t4", "$t1", "2")
		g.e.instr("add", "$t3", "$t3", "$t4")
		g.e.instr("lw", "$t1", "0($t3)")
		g.e.instr("j", tryLabel)
		g.e.label(nextLabel)
	}

	g.e.instr("j", rtAbortCaseNoMatch)
}

func (g *generator) classDepth(name string) int {
	if c, ok := g.prog.ByClass[name]; ok {
		return c.Depth
	}
	return 0
}
