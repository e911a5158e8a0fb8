// Package codegen lowers an optimized internal/ir.Program into MIPS32
// assembly text for the SPIM simulator, per spec.md §4.5. It is fresh
// code: the teacher's only lowering target is a stack-based bytecode VM
// (internal/bytecode) with no native-code backend at all. The emission
// idiom (an io.Writer-backed type with fmt.Fprintf helpers) is grounded
// on internal/bytecode/disasm.go's Disassembler.
package codegen

import "github.com/cwbudde/coolc/internal/ir"

// Object header offsets, word = 4 bytes, per spec.md §3's object layout
// table.
const (
	offTag      = 0
	offSize     = 4
	offDispatch = 8
	offAttrBase = 12
)

// Int and Bool objects add a single raw-value slot right after the
// header. String adds a length word followed by inline NUL-terminated
// bytes, aligned to 4.
const (
	offIntValue    = offAttrBase
	offBoolValue   = offAttrBase
	offStringLen   = offAttrBase
	offStringBytes = offAttrBase + 4
)

// wordSize is MIPS32's natural word size; every slot, header field, and
// stack adjustment below is expressed in words of this size.
const wordSize = 4

// attrOffset returns the $a0-relative byte offset of attribute name
// within class c's object layout. c.Attrs is inherited-then-own order
// (internal/semantic.resolveClass), so this is stable across every
// subclass that inherits the slot unchanged.
func attrOffset(c *ir.ClassLayout, name string) int {
	for i, a := range c.Attrs {
		if a == name {
			return offAttrBase + wordSize*i
		}
	}
	panic("codegen: unknown attribute " + name + " on class " + c.Name)
}

// dispatchSlot returns the index and target label of method within
// class c's dispatch table. c.DispTable already carries the most
// derived override reachable from c, so the same lookup serves both
// static dispatch (jal the label directly) and dynamic dispatch (use
// the index against the runtime object's table).
func dispatchSlot(c *ir.ClassLayout, method string) (int, string) {
	for i, s := range c.DispTable {
		if s.Method == method {
			return i, s.Label
		}
	}
	panic("codegen: unknown method " + method + " on class " + c.Name)
}

// methodLabel mirrors internal/ir's unexported label format exactly,
// since DispSlot.Label values were built with it: both must agree for
// a dispatch-table word to resolve to the label actually emitted here.
func methodLabel(class, method string) string {
	return "_method_" + class + "_" + method
}
