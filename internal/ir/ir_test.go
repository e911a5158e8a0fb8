package ir

import (
	"testing"

	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/semantic"
)

func lowerSource(t *testing.T, src string) *Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	sink := errors.NewSink()
	res := semantic.New(sink, "t.cl", src).Run(prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", sink.All())
	}
	return Lower(prog, res)
}

func findFunc(p *Program, name string) *Function {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestLowerHelloWorldHasMainAndInit(t *testing.T) {
	src := `class Main inherits IO {
  main(): Object { out_string("Hello, World.\n") };
};`
	p := lowerSource(t, src)
	if findFunc(p, "_method_Main_main") == nil {
		t.Fatalf("expected a _method_Main_main function, got %+v", p.Functions)
	}
	if findFunc(p, "_init_Main") == nil {
		t.Fatalf("expected an _init_Main function, got %+v", p.Functions)
	}
	if len(p.Strings) != 1 || p.Strings[0].Value != "Hello, World.\n" {
		t.Fatalf("expected one interned string literal, got %+v", p.Strings)
	}
}

func TestLowerDispatchEmitsVoidCheckThenCall(t *testing.T) {
	src := `class Main inherits IO {
  main(): Object { out_string("hi") };
};`
	p := lowerSource(t, src)
	fn := findFunc(p, "_method_Main_main")
	entry := fn.Entry
	var sawVoidCheck, sawCall bool
	for _, in := range entry.Instrs {
		if in.Op == OpVoidCheck {
			sawVoidCheck = true
		}
		if in.Op == OpCall && in.Method == "out_string" {
			if !sawVoidCheck {
				t.Fatalf("OpCall seen before OpVoidCheck")
			}
			sawCall = true
		}
	}
	if !sawVoidCheck || !sawCall {
		t.Fatalf("expected a void check followed by a call, got %+v", entry.Instrs)
	}
}

func TestLowerArithmeticBoxesAndUnboxes(t *testing.T) {
	src := `class Main {
  main(): Int { 3 + 4 };
};`
	p := lowerSource(t, src)
	fn := findFunc(p, "_method_Main_main")
	var sawUnbox, sawArith, sawBox bool
	for _, in := range fn.Entry.Instrs {
		if in.Op == OpUnbox {
			sawUnbox = true
		}
		if in.Op == OpBinArith {
			sawArith = true
		}
		if in.Op == OpBox && in.BoxClass == "Int" {
			sawBox = true
		}
	}
	if !sawUnbox {
		t.Fatalf("expected the operands to be unboxed into raw temps, got %+v", fn.Entry.Instrs)
	}
	if !sawArith || !sawBox {
		t.Fatalf("expected a raw arithmetic op boxed into an Int, got %+v", fn.Entry.Instrs)
	}
}

func TestLowerIfProducesCondJumpAndJoin(t *testing.T) {
	src := `class Main {
  main(): Int { if true then 1 else 2 fi };
};`
	p := lowerSource(t, src)
	fn := findFunc(p, "_method_Main_main")
	if fn.Entry.Term.Kind != TermCondJump {
		t.Fatalf("expected entry block to end in a conditional jump, got %v", fn.Entry.Term.Kind)
	}
	if len(fn.Blocks) < 4 {
		t.Fatalf("expected at least entry+then+else+join blocks, got %d", len(fn.Blocks))
	}
}

func TestLowerCaseProducesTermCaseWithOrderedArms(t *testing.T) {
	src := `class Main {
  main(): Int {
    case 1 of
      x: Int => 1;
      y: Object => 2;
    esac
  };
};`
	p := lowerSource(t, src)
	fn := findFunc(p, "_method_Main_main")
	if fn.Entry.Term.Kind != TermCase {
		t.Fatalf("expected entry block to end in a case terminator, got %v", fn.Entry.Term.Kind)
	}
	if len(fn.Entry.Term.Arms) != 2 {
		t.Fatalf("expected two case arms, got %d", len(fn.Entry.Term.Arms))
	}
	// The IR keeps source order; codegen re-sorts by depth.
	if arms := fn.Entry.Term.Arms; arms[0].ClassName != "Int" || arms[1].ClassName != "Object" {
		t.Fatalf("expected arms in source order Int, Object, got %s, %s", arms[0].ClassName, arms[1].ClassName)
	}
}

func TestConstantFoldsArithmetic(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	blk := newBlock("entry")
	fn.Entry = blk
	fn.addBlock(blk)
	dst := Temp(0)
	blk.emit(Instr{Op: OpBinArith, Dst: dst, Args: []Value{ConstInt(3), ConstInt(4)}, Arith: ArithAdd})
	blk.Term = Terminator{Kind: TermReturn, Value: dst}

	if !constantFold(fn) {
		t.Fatalf("expected constantFold to report a change")
	}
	in := fn.Entry.Instrs[0]
	if in.Op != OpMove || in.Args[0].Kind != ValConstInt || in.Args[0].Int != 7 {
		t.Fatalf("expected OpMove of constant 7, got %+v", in)
	}
}

func TestConstantFoldCollapsesConstantBranch(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	entry := newBlock("entry")
	thenBlk := newBlock("then")
	elseBlk := newBlock("else")
	fn.Entry = entry
	fn.addBlock(entry)
	fn.addBlock(thenBlk)
	fn.addBlock(elseBlk)
	thenBlk.Term = Terminator{Kind: TermReturn, Value: ConstInt(1)}
	elseBlk.Term = Terminator{Kind: TermReturn, Value: ConstInt(2)}
	entry.Term = Terminator{Kind: TermCondJump, Cond: ConstBool(true), True: thenBlk, False: elseBlk}

	if !constantFold(fn) {
		t.Fatalf("expected constantFold to report a change")
	}
	if entry.Term.Kind != TermJump || entry.Term.True != thenBlk {
		t.Fatalf("expected entry to unconditionally jump to the then block, got %+v", entry.Term)
	}
}

func TestDeadCodeRemovesUnusedPureTemp(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	blk := newBlock("entry")
	fn.Entry = blk
	fn.addBlock(blk)
	dead := Temp(0)
	blk.emit(Instr{Op: OpUnbox, Dst: dead, Args: []Value{ConstInt(1)}})
	blk.Term = Terminator{Kind: TermReturn, Value: ConstInt(5)}

	live := computeLiveness(fn)
	if !eliminateDeadCode(fn, live) {
		t.Fatalf("expected eliminateDeadCode to report a change")
	}
	if len(fn.Entry.Instrs) != 0 {
		t.Fatalf("expected the unused instruction to be removed, got %+v", fn.Entry.Instrs)
	}
}

func TestDeadCodeKeepsLiveTemp(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	blk := newBlock("entry")
	fn.Entry = blk
	fn.addBlock(blk)
	live := Temp(0)
	blk.emit(Instr{Op: OpUnbox, Dst: live, Args: []Value{ConstInt(1)}})
	blk.Term = Terminator{Kind: TermReturn, Value: live}

	res := computeLiveness(fn)
	if eliminateDeadCode(fn, res) {
		t.Fatalf("expected no instructions removed, the temp is returned")
	}
	if len(fn.Entry.Instrs) != 1 {
		t.Fatalf("expected the instruction to survive, got %+v", fn.Entry.Instrs)
	}
}

func TestJumpThreadingCollapsesEmptyForwardingBlock(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	entry := newBlock("entry")
	empty := newBlock("empty")
	target := newBlock("target")
	fn.Entry = entry
	fn.addBlock(entry)
	fn.addBlock(empty)
	fn.addBlock(target)
	target.Term = Terminator{Kind: TermReturn, Value: ConstInt(1)}
	empty.Term = Terminator{Kind: TermJump, True: target}
	entry.Term = Terminator{Kind: TermJump, True: empty}

	if !threadJumps(fn) {
		t.Fatalf("expected threadJumps to report a change")
	}
	if entry.Term.True != target {
		t.Fatalf("expected entry to jump straight to target, got %+v", entry.Term.True)
	}
}

func TestUnreachableBlockIsRemoved(t *testing.T) {
	fn := newFunction("_method_T_f", "T")
	entry := newBlock("entry")
	orphan := newBlock("orphan")
	fn.Entry = entry
	fn.addBlock(entry)
	fn.addBlock(orphan)
	entry.Term = Terminator{Kind: TermReturn, Value: ConstInt(1)}
	orphan.Term = Terminator{Kind: TermReturn, Value: ConstInt(2)}

	if !removeUnreachableBlocks(fn) {
		t.Fatalf("expected removeUnreachableBlocks to report a change")
	}
	if len(fn.Blocks) != 1 || fn.Blocks[0] != entry {
		t.Fatalf("expected only entry to remain, got %+v", fn.Blocks)
	}
}
