package codegen

import "fmt"

// emitText emits the .text section: the entry point, the fixed runtime
// helpers every program needs regardless of its own classes, the ten
// built-in methods spec.md §4.5 names, then one emitted function per
// user-defined _init_<C>/_method_<C>_<m>.
func (g *generator) emitText() {
	g.e.section(".text")
	g.e.directive(".globl main")
	g.e.blank()
	g.emitMain()
	g.emitAlloc()
	g.emitObjectCopy()
	g.emitEqualityTest()
	g.emitValueEq()
	g.emitMakeString()
	g.emitAbortRoutines()
	g.emitBuiltinMethods()
	for _, fn := range g.prog.Functions {
		g.emitFunction(fn)
	}
}

// emitMain clones Main's prototype, runs its initialiser, then calls
// main(): Object, per spec.md §7's "Hello, World." example.
func (g *generator) emitMain() {
	g.e.label("main")
	g.e.instr("la", "$a0", protObjLabel("Main"))
	g.e.instr("jal", rtObjectCopy)
	g.e.instr("jal", "_init_Main")
	g.e.instr("jal", methodLabel("Main", "main"))
	g.e.instr("li", "$v0", "10")
	g.e.instr("syscall")
	g.e.blank()
}

// emitAlloc rounds a requested byte count up to a word and grows the
// heap via syscall 9, per spec.md §4.5's "Object allocation ... must
// round the requested size up to a multiple of 4" and its note that
// heap growth goes through the simulator's sbrk syscall.
func (g *generator) emitAlloc() {
	g.e.label(rtAlloc)
	g.e.instr("addiu", "$a0", "$a0", "3")
	g.e.instr("srl", "$a0", "$a0", "2")
	g.e.instr("sll", "$a0", "$a0", "2")
	g.e.instr("li", "$v0", "9")
	g.e.instr("syscall")
	g.e.instr("move", "$a0", "$v0")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

// emitObjectCopy clones the object at $a0 (a prototype or an existing
// instance) into freshly allocated heap space, word by word, using the
// header's own size field so it works uniformly for every class shape
// (plain attrs, Int/Bool's raw slot, String's inline bytes). It leaves
// $t0 untouched, since boxing sites hold the raw payload there across
// the call.
func (g *generator) emitObjectCopy() {
	g.e.label(rtObjectCopy)
	g.e.instr("addiu", "$sp", "$sp", "-4")
	g.e.instr("sw", "$ra", "0($sp)")
	g.e.instr("move", "$t6", "$a0")
	g.e.instr("lw", "$t2", fmt.Sprintf("%d($t6)", offSize))
	g.e.instr("move", "$a0", "$t2")
	g.e.instr("jal", rtAlloc)
	g.e.instr("move", "$t5", "$a0")
	g.e.instr("move", "$t1", "$a0")
	g.e.instr("li", "$t3", "0")
	g.e.label("_Object_copy_loop")
	g.e.instr("bge", "$t3", "$t2", "_Object_copy_done")
	g.e.instr("lw", "$t4", "0($t6)")
	g.e.instr("sw", "$t4", "0($t1)")
	g.e.instr("addiu", "$t6", "$t6", "4")
	g.e.instr("addiu", "$t1", "$t1", "4")
	g.e.instr("addiu", "$t3", "$t3", "4")
	g.e.instr("j", "_Object_copy_loop")
	g.e.label("_Object_copy_done")
	g.e.instr("move", "$a0", "$t5")
	g.e.instr("lw", "$ra", "0($sp)")
	g.e.instr("addiu", "$sp", "$sp", "4")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

// emitEqualityTest implements `=` for non-basic types: pointer identity
// (which also covers both operands being void, since void is the zero
// pointer).
func (g *generator) emitEqualityTest() {
	g.e.label(rtEqualityTest)
	g.e.instr("beq", "$a0", "$a1", "_eq_true")
	g.e.instr("li", "$a0", "0")
	g.e.instr("jr", "$ra")
	g.e.label("_eq_true")
	g.e.instr("li", "$a0", "1")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

// emitValueEq implements `=` for Int/Bool/String: same pointer (also
// covers both void) short-circuits true; otherwise, if the runtime tag
// is String, compare length and bytes, else compare the raw payload
// word. This dispatches on the runtime tag rather than trusting a
// static type, so it serves every Int/Bool/String comparison uniformly.
func (g *generator) emitValueEq() {
	g.e.label(rtValueEq)
	g.e.instr("beq", "$a0", "$a1", "_value_eq_true")
	g.e.instr("beqz", "$a0", "_value_eq_false")
	g.e.instr("beqz", "$a1", "_value_eq_false")
	g.e.instr("lw", "$t0", fmt.Sprintf("%d($a0)", offTag))
	g.e.instr("li", "$t1", fmt.Sprintf("%d", g.stringTag))
	g.e.instr("beq", "$t0", "$t1", "_value_eq_string")
	g.e.instr("lw", "$t2", fmt.Sprintf("%d($a0)", offAttrBase))
	g.e.instr("lw", "$t3", fmt.Sprintf("%d($a1)", offAttrBase))
	g.e.instr("beq", "$t2", "$t3", "_value_eq_true")
	g.e.instr("j", "_value_eq_false")
	g.e.label("_value_eq_string")
	g.e.instr("lw", "$t2", fmt.Sprintf("%d($a0)", offStringLen))
	g.e.instr("lw", "$t3", fmt.Sprintf("%d($a1)", offStringLen))
	g.e.instr("bne", "$t2", "$t3", "_value_eq_false")
	g.e.instr("addiu", "$t4", "$a0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("addiu", "$t5", "$a1", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("move", "$t6", "$t2")
	g.e.label("_value_eq_str_loop")
	g.e.instr("beqz", "$t6", "_value_eq_true")
	g.e.instr("lb", "$t7", "0($t4)")
	g.e.instr("lb", "$t8", "0($t5)")
	g.e.instr("bne", "$t7", "$t8", "_value_eq_false")
	g.e.instr("addiu", "$t4", "$t4", "1")
	g.e.instr("addiu", "$t5", "$t5", "1")
	g.e.instr("addiu", "$t6", "$t6", "-1")
	g.e.instr("j", "_value_eq_str_loop")
	g.e.label("_value_eq_true")
	g.e.instr("li", "$a0", "1")
	g.e.instr("jr", "$ra")
	g.e.label("_value_eq_false")
	g.e.instr("li", "$a0", "0")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

// emitMakeString builds a new String object of the given length ($a0)
// holding a copy of the length bytes at ($a1), used by every String
// built-in that produces a new string (concat, substr, in_string).
func (g *generator) emitMakeString() {
	g.e.label(rtMakeString)
	g.e.instr("addiu", "$sp", "$sp", "-12")
	g.e.instr("sw", "$ra", "8($sp)")
	g.e.instr("sw", "$a0", "4($sp)")
	g.e.instr("sw", "$a1", "0($sp)")
	g.e.instr("addiu", "$t0", "$a0", "1")
	g.e.instr("addiu", "$t0", "$t0", "3")
	g.e.instr("srl", "$t0", "$t0", "2")
	g.e.instr("sll", "$t0", "$t0", "2")
	g.e.instr("addiu", "$a0", "$t0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("jal", rtAlloc)
	g.e.instr("lw", "$t1", "4($sp)")
	g.e.instr("lw", "$t2", "0($sp)")
	g.e.instr("li", "$t3", fmt.Sprintf("%d", g.stringTag))
	g.e.instr("sw", "$t3", fmt.Sprintf("%d($a0)", offTag))
	g.e.instr("addiu", "$t4", "$t0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("sw", "$t4", fmt.Sprintf("%d($a0)", offSize))
	g.e.instr("la", "$t5", dispTabLabel("String"))
	g.e.instr("sw", "$t5", fmt.Sprintf("%d($a0)", offDispatch))
	g.e.instr("sw", "$t1", fmt.Sprintf("%d($a0)", offStringLen))
	g.e.instr("addiu", "$t6", "$a0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("move", "$t7", "$zero")
	g.e.label("_make_string_copy")
	g.e.instr("beq", "$t7", "$t1", "_make_string_nul")
	g.e.instr("add", "$t8", "$t2", "$t7")
	g.e.instr("lb", "$t9", "0($t8)")
	g.e.instr("add", "$t8", "$t6", "$t7")
	g.e.instr("sb", "$t9", "0($t8)")
	g.e.instr("addiu", "$t7", "$t7", "1")
	g.e.instr("j", "_make_string_copy")
	g.e.label("_make_string_nul")
	g.e.instr("add", "$t8", "$t6", "$t7")
	g.e.instr("sb", "$zero", "0($t8)")
	g.e.instr("lw", "$ra", "8($sp)")
	g.e.instr("addiu", "$sp", "$sp", "12")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

// emitAbortRoutines emits one tiny trampoline per abort site loading
// its fixed message, falling into the shared print-and-exit tail.
func (g *generator) emitAbortRoutines() {
	routines := []struct{ label, msg string }{
		{rtAbortDispatchVoid, msgDispatchVoid},
		{rtAbortDivZero, msgDivZero},
		{rtAbortCaseVoid, msgCaseVoid},
		{rtAbortCaseNoMatch, msgCaseNoMatch},
		{rtAbortSubstrRange, msgSubstrRange},
	}
	for _, r := range routines {
		g.e.label(r.label)
		g.e.instr("la", "$a0", r.msg)
		g.e.instr("j", rtPrintMsgAndExit)
	}
	g.e.label(rtPrintMsgAndExit)
	g.e.instr("li", "$v0", "4")
	g.e.instr("syscall")
	g.e.instr("li", "$v0", "10")
	g.e.instr("syscall")
	g.e.blank()
}

// loadClassNameByTag emits code loading the class-name String object for
// the runtime tag currently in reg into $a0.
func (g *generator) loadClassNameByTag(reg string) {
	g.e.instr("sll", "$t0", reg, "2")
	g.e.instr("la", "$t1", "_class_name_table")
	g.e.instr("add", "$t1", "$t1", "$t0")
	g.e.instr("lw", "$a0", "0($t1)")
}

func (g *generator) emitBuiltinMethods() {
	g.emitBuiltinInits()
	g.emitObjectAbort()
	g.emitObjectTypeName()
	g.emitObjectCopyMethod()
	g.emitIOOutString()
	g.emitIOOutInt()
	g.emitIOInString()
	g.emitIOInInt()
	g.emitStringLength()
	g.emitStringConcat()
	g.emitStringSubstr()
}

// emitBuiltinInits emits _init_<C> for the five built-in classes. None
// of them declare attributes, so each just forwards to its parent's
// init with a tail jump, bottoming out at _init_Object's bare return;
// this keeps every user _init_<C>'s "jal _init_<parent>" resolvable
// even when the parent is a built-in class.
func (g *generator) emitBuiltinInits() {
	g.e.label("_init_Object")
	g.e.instr("jr", "$ra")
	g.e.blank()
	for _, c := range []string{"IO", "Int", "Bool", "String"} {
		g.e.label("_init_" + c)
		g.e.instr("j", "_init_Object")
		g.e.blank()
	}
}

func (g *generator) emitObjectAbort() {
	g.e.label(methodLabel("Object", "abort"))
	g.e.instr("lw", "$t2", "0($a0)")
	g.loadClassNameByTag("$t2")
	g.e.instr("addiu", "$t3", "$a0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("la", "$a0", msgAbortPrefix)
	g.e.instr("li", "$v0", "4")
	g.e.instr("syscall")
	g.e.instr("move", "$a0", "$t3")
	g.e.instr("li", "$v0", "4")
	g.e.instr("syscall")
	g.e.instr("la", "$a0", msgNewline)
	g.e.instr("li", "$v0", "4")
	g.e.instr("syscall")
	g.e.instr("li", "$v0", "10")
	g.e.instr("syscall")
	g.e.blank()
}

func (g *generator) emitObjectTypeName() {
	g.e.label(methodLabel("Object", "type_name"))
	g.e.instr("lw", "$t0", "0($a0)")
	g.loadClassNameByTag("$t0")
	g.e.instr("jr", "$ra")
	g.e.blank()
}

func (g *generator) emitObjectCopyMethod() {
	g.e.label(methodLabel("Object", "copy"))
	g.e.instr("j", rtObjectCopy)
	g.e.blank()
}

func (g *generator) emitIOOutString() {
	g.e.label(methodLabel("IO", "out_string"))
	g.emitLeafPrologue()
	g.e.instr("lw", "$t0", fmt.Sprintf("%d($fp)", formalCallerOffset(0)))
	g.e.instr("addiu", "$a0", "$t0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("li", "$v0", "4")
	g.e.instr("syscall")
	g.e.instr("lw", "$a0", "0($fp)") // out_string returns self
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitIOOutInt() {
	g.e.label(methodLabel("IO", "out_int"))
	g.emitLeafPrologue()
	g.e.instr("lw", "$t0", fmt.Sprintf("%d($fp)", formalCallerOffset(0)))
	g.e.instr("lw", "$a0", fmt.Sprintf("%d($t0)", offIntValue))
	g.e.instr("li", "$v0", "1")
	g.e.instr("syscall")
	g.e.instr("lw", "$a0", "0($fp)") // out_int returns self
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitIOInString() {
	g.e.label(methodLabel("IO", "in_string"))
	g.e.instr("addiu", "$sp", "$sp", "-12")
	g.e.instr("sw", "$fp", "8($sp)")
	g.e.instr("sw", "$ra", "4($sp)")
	g.e.instr("sw", "$a0", "0($sp)")
	g.e.instr("move", "$fp", "$sp")
	g.e.instr("la", "$a0", inputBuf)
	g.e.instr("li", "$a1", "1025")
	g.e.instr("li", "$v0", "8")
	g.e.instr("syscall")
	g.e.instr("la", "$t0", inputBuf)
	g.e.instr("move", "$t1", "$t0")
	g.e.label("_in_string_scan")
	g.e.instr("lb", "$t2", "0($t1)")
	g.e.instr("beqz", "$t2", "_in_string_scanned")
	g.e.instr("li", "$t3", "10")
	g.e.instr("beq", "$t2", "$t3", "_in_string_found_nl")
	g.e.instr("addiu", "$t1", "$t1", "1")
	g.e.instr("j", "_in_string_scan")
	g.e.label("_in_string_found_nl")
	g.e.instr("sb", "$zero", "0($t1)")
	g.e.label("_in_string_scanned")
	g.e.instr("sub", "$a0", "$t1", "$t0")
	g.e.instr("la", "$a1", inputBuf)
	g.e.instr("jal", rtMakeString)
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitIOInInt() {
	g.e.label(methodLabel("IO", "in_int"))
	g.emitLeafPrologue()
	g.e.instr("li", "$v0", "5")
	g.e.instr("syscall")
	g.e.instr("move", "$t0", "$v0")
	g.e.instr("la", "$a0", protObjLabel("Int"))
	g.e.instr("jal", rtObjectCopy)
	g.e.instr("sw", "$t0", fmt.Sprintf("%d($a0)", offIntValue))
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitStringLength() {
	g.e.label(methodLabel("String", "length"))
	g.emitLeafPrologue()
	g.e.instr("lw", "$t0", "0($fp)")
	g.e.instr("lw", "$t0", fmt.Sprintf("%d($t0)", offStringLen))
	g.e.instr("la", "$a0", protObjLabel("Int"))
	g.e.instr("jal", rtObjectCopy)
	g.e.instr("sw", "$t0", fmt.Sprintf("%d($a0)", offIntValue))
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitStringConcat() {
	g.e.label(methodLabel("String", "concat"))
	g.emitLeafPrologue()
	g.e.instr("lw", "$t0", "0($fp)")
	g.e.instr("lw", "$t5", fmt.Sprintf("%d($fp)", formalCallerOffset(0)))
	g.e.instr("lw", "$t1", fmt.Sprintf("%d($t0)", offStringLen))
	g.e.instr("lw", "$t2", fmt.Sprintf("%d($t5)", offStringLen))
	g.e.instr("la", "$t3", scratchBuf)
	g.e.instr("addiu", "$t4", "$t0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("move", "$t6", "$zero")
	g.e.label("_concat_copy1")
	g.e.instr("beq", "$t6", "$t1", "_concat_copy1_done")
	g.e.instr("add", "$t7", "$t4", "$t6")
	g.e.instr("lb", "$t8", "0($t7)")
	g.e.instr("add", "$t9", "$t3", "$t6")
	g.e.instr("sb", "$t8", "0($t9)")
	g.e.instr("addiu", "$t6", "$t6", "1")
	g.e.instr("j", "_concat_copy1")
	g.e.label("_concat_copy1_done")
	g.e.instr("addiu", "$t4", "$t5", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("move", "$t6", "$zero")
	g.e.label("_concat_copy2")
	g.e.instr("beq", "$t6", "$t2", "_concat_copy2_done")
	g.e.instr("add", "$t7", "$t4", "$t6")
	g.e.instr("lb", "$t8", "0($t7)")
	g.e.instr("add", "$t9", "$t1", "$t6")
	g.e.instr("add", "$t9", "$t3", "$t9")
	g.e.instr("sb", "$t8", "0($t9)")
	g.e.instr("addiu", "$t6", "$t6", "1")
	g.e.instr("j", "_concat_copy2")
	g.e.label("_concat_copy2_done")
	g.e.instr("add", "$a0", "$t1", "$t2")
	g.e.instr("la", "$a1", scratchBuf)
	g.e.instr("jal", rtMakeString)
	g.emitLeafEpilogue()
	g.e.blank()
}

func (g *generator) emitStringSubstr() {
	g.e.label(methodLabel("String", "substr"))
	g.emitLeafPrologue()
	g.e.instr("lw", "$t0", "0($fp)")
	g.e.instr("lw", "$t5", fmt.Sprintf("%d($fp)", formalCallerOffset(0)))
	g.e.instr("lw", "$t6", fmt.Sprintf("%d($fp)", formalCallerOffset(1)))
	g.e.instr("lw", "$t1", fmt.Sprintf("%d($t5)", offIntValue))
	g.e.instr("lw", "$t2", fmt.Sprintf("%d($t6)", offIntValue))
	g.e.instr("lw", "$t3", fmt.Sprintf("%d($t0)", offStringLen))
	g.e.instr("bltz", "$t1", rtAbortSubstrRange)
	g.e.instr("bltz", "$t2", rtAbortSubstrRange)
	g.e.instr("add", "$t4", "$t1", "$t2")
	g.e.instr("bgt", "$t4", "$t3", rtAbortSubstrRange)
	g.e.instr("addiu", "$t7", "$t0", fmt.Sprintf("%d", offStringBytes))
	g.e.instr("add", "$a1", "$t7", "$t1")
	g.e.instr("move", "$a0", "$t2")
	g.e.instr("jal", rtMakeString)
	g.emitLeafEpilogue()
	g.e.blank()
}

// emitLeafPrologue/emitLeafEpilogue are the same fixed save/restore
// sequence as emitFunction's, for hand-written built-ins that need
// $fp-relative formal access but never spill to locals or temporaries.
func (g *generator) emitLeafPrologue() {
	g.e.instr("addiu", "$sp", "$sp", "-12")
	g.e.instr("sw", "$fp", "8($sp)")
	g.e.instr("sw", "$ra", "4($sp)")
	g.e.instr("sw", "$a0", "0($sp)")
	g.e.instr("move", "$fp", "$sp")
}

func (g *generator) emitLeafEpilogue() {
	g.e.instr("lw", "$ra", "4($fp)")
	g.e.instr("lw", "$t9", "8($fp)")
	g.e.instr("addiu", "$sp", "$fp", "12")
	g.e.instr("move", "$fp", "$t9")
	g.e.instr("jr", "$ra")
}
