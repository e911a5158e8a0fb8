package codegen

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ir"
)

// emitData emits the .data section, in the fixed order spec.md §4.5
// requires so output is reproducible: class-name strings, the class
// name table, dispatch tables, prototypes, then interned constants.
func (g *generator) emitData() {
	g.e.section(".data")
	g.emitClassNameObjects()
	g.emitClassNameTable()
	g.emitParentTagTable()
	g.emitDispatchTables()
	g.emitPrototypes()
	g.emitIntConstants()
	g.emitBoolConstants()
	g.emitStringConstants()
	g.emitAbortMessages()
	g.emitRuntimeMessages()
}

func classNameLabel(class string) string { return "_class_name_" + class }

func (g *generator) emitClassNameObjects() {
	for _, c := range g.prog.Classes {
		g.emitStringObject(classNameLabel(c.Name), c.Name)
	}
	g.e.blank()
}

func (g *generator) emitClassNameTable() {
	g.e.label("_class_name_table")
	labels := make([]string, len(g.prog.Classes))
	for i, c := range g.prog.Classes {
		labels[i] = classNameLabel(c.Name)
	}
	g.e.directive(".word %s", joinWords(labels))
	g.e.blank()
}

// emitParentTagTable emits one word per class tag holding that class's
// parent's tag (a class's own tag for Object, which has none), used by
// case-statement codegen to walk a runtime class up to its ancestors.
func (g *generator) emitParentTagTable() {
	g.e.label("_parent_tag_table")
	words := make([]string, len(g.prog.Classes))
	for i, c := range g.prog.Classes {
		parentTag := c.Tag
		if p, ok := g.prog.ByClass[c.Parent]; ok {
			parentTag = p.Tag
		}
		words[i] = fmt.Sprintf("%d", parentTag)
	}
	g.e.directive(".word %s", joinWords(words))
	g.e.blank()
}

func dispTabLabel(class string) string { return "_dispTab_" + class }

func (g *generator) emitDispatchTables() {
	for _, c := range g.prog.Classes {
		g.e.label(dispTabLabel(c.Name))
		if len(c.DispTable) == 0 {
			g.e.directive(".word 0")
			continue
		}
		labels := make([]string, len(c.DispTable))
		for i, slot := range c.DispTable {
			labels[i] = slot.Label
		}
		g.e.directive(".word %s", joinWords(labels))
	}
	g.e.blank()
}

func protObjLabel(class string) string { return "_protObj_" + class }

func (g *generator) emitPrototypes() {
	for _, c := range g.prog.Classes {
		g.e.label(protObjLabel(c.Name))
		g.e.directive(".word %d", c.Tag)
		g.e.directive(".word %d", g.protoSize(c))
		g.e.directive(".word %s", dispTabLabel(c.Name))
		switch c.Name {
		case "Int", "Bool":
			g.e.directive(".word 0")
		case "String":
			g.e.directive(".word 0") // length
			g.e.directive(".asciiz \"\"")
			g.e.directive(".align 2")
		default:
			for range c.Attrs {
				g.e.directive(".word 0")
			}
		}
	}
	g.e.blank()
}

// protoSize computes a class's prototype object size in bytes,
// including the 12-byte header, matching spec.md §3's object layout.
func (g *generator) protoSize(c *ir.ClassLayout) int {
	switch c.Name {
	case "Int", "Bool":
		return offAttrBase + wordSize
	case "String":
		return offAttrBase + wordSize + roundUp4(1) // length word + "" + NUL
	default:
		return offAttrBase + wordSize*len(c.Attrs)
	}
}

func intConstLabel(i int) string    { return fmt.Sprintf("_int_const_%d", i) }
func strConstLabel(i int) string    { return fmt.Sprintf("_str_const_%d", i) }
func abortMsgLabel(i int) string    { return fmt.Sprintf("_abort_msg_%d", i) }

func (g *generator) emitIntConstants() {
	for i, n := range g.ints {
		g.e.label(intConstLabel(i))
		g.e.directive(".word %d", g.intTag)
		g.e.directive(".word %d", offAttrBase+wordSize)
		g.e.directive(".word %s", dispTabLabel("Int"))
		g.e.directive(".word %d", n)
	}
	g.e.blank()
}

func (g *generator) emitBoolConstants() {
	g.e.label("_bool_const_false")
	g.e.directive(".word %d", g.boolTag)
	g.e.directive(".word %d", offAttrBase+wordSize)
	g.e.directive(".word %s", dispTabLabel("Bool"))
	g.e.directive(".word 0")
	g.e.label("_bool_const_true")
	g.e.directive(".word %d", g.boolTag)
	g.e.directive(".word %d", offAttrBase+wordSize)
	g.e.directive(".word %s", dispTabLabel("Bool"))
	g.e.directive(".word 1")
	g.e.blank()
}

func (g *generator) emitStringConstants() {
	g.emitStringObject("_str_const_empty", "")
	for i, s := range g.strs {
		g.emitStringObject(strConstLabel(i), s)
	}
	g.e.blank()
}

// emitStringObject emits one complete String object: header, length,
// inline NUL-terminated bytes, alignment padding (spec.md §4.5's data
// section bullet for class-name objects generalises to every interned
// string, including the empty one used as _protObj_String's body).
func (g *generator) emitStringObject(label, s string) {
	size := offAttrBase + wordSize + roundUp4(len(s)+1)
	g.e.label(label)
	g.e.directive(".word %d", g.stringTag)
	g.e.directive(".word %d", size)
	g.e.directive(".word %s", dispTabLabel("String"))
	g.e.directive(".word %d", len(s))
	g.e.directive(".asciiz \"%s\"", mipsEscape(s))
	g.e.directive(".align 2")
}

func (g *generator) emitAbortMessages() {
	for i, msg := range g.abortMsgs {
		g.e.label(abortMsgLabel(i))
		g.e.directive(".asciiz \"%s\"", mipsEscape(msg))
	}
	g.e.blank()
}

// emitRuntimeMessages emits the fixed diagnostic strings the runtime
// helpers in text.go print before aborting, plus the shared scratch
// buffers string built-ins copy into.
func (g *generator) emitRuntimeMessages() {
	g.e.label(msgDispatchVoid)
	g.e.directive(".asciiz \"Error: Dispatch on void\\n\"")
	g.e.label(msgCaseVoid)
	g.e.directive(".asciiz \"Error: case on void\\n\"")
	g.e.label(msgCaseNoMatch)
	g.e.directive(".asciiz \"Error: no matching branch in case statement\\n\"")
	g.e.label(msgDivZero)
	g.e.directive(".asciiz \"Error: division by zero\\n\"")
	g.e.label(msgSubstrRange)
	g.e.directive(".asciiz \"Error: String.substr index out of range\\n\"")
	g.e.label(msgAbortPrefix)
	g.e.directive(".asciiz \"Abort called from class \"")
	g.e.label(msgNewline)
	g.e.directive(".asciiz \"\\n\"")
	g.e.blank()

	g.e.label(inputBuf)
	g.e.directive(".space 1025")
	g.e.label(scratchBuf)
	g.e.directive(".space %d", scratchBufSize)
	g.e.blank()
}

func joinWords(labels []string) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += ", "
		}
		out += l
	}
	return out
}
