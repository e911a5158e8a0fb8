package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/ir"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/semantic"
)

// compile runs the full front end and lowers src to an ir.Program,
// failing the test on any parse or semantic error. Mirrors
// internal/ir.lowerSource's fixture-building helper.
func compile(t *testing.T, src string) *ir.Program {
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
	return ir.Lower(prog, res)
}

const helloWorld = `class Main inherits IO {
  main(): Object { out_string("Hello, World.\n") };
};`

func TestGenerateEmitsDataAndTextSections(t *testing.T) {
	out := Generate(compile(t, helloWorld))
	dataIdx := strings.Index(out, ".data")
	textIdx := strings.Index(out, ".text")
	if dataIdx < 0 || textIdx < 0 {
		t.Fatalf("expected both .data and .text sections, got:\n%s", out)
	}
	if dataIdx > textIdx {
		t.Fatalf(".data must precede .text, got:\n%s", out)
	}
}

func TestGenerateEmitsEveryClassPrototypeAndDispatchTable(t *testing.T) {
	out := Generate(compile(t, helloWorld))
	for _, class := range []string{"Object", "IO", "Int", "Bool", "String", "Main"} {
		if !strings.Contains(out, protObjLabel(class)+":") {
			t.Errorf("missing prototype label for %s", class)
		}
		if !strings.Contains(out, dispTabLabel(class)+":") {
			t.Errorf("missing dispatch table label for %s", class)
		}
	}
}

func TestGenerateInternsStringLiteralOnce(t *testing.T) {
	out := Generate(compile(t, helloWorld))
	if !strings.Contains(out, `.asciiz "Hello, World.\n"`) {
		t.Fatalf("expected the literal's escaped bytes in .data, got:\n%s", out)
	}
	if strings.Count(out, `.asciiz "Hello, World.\n"`) != 1 {
		t.Fatalf("expected the literal to be interned exactly once")
	}
}

func TestGenerateEmitsMainAndUserFunctions(t *testing.T) {
	out := Generate(compile(t, helloWorld))
	for _, label := range []string{"main:", "_init_Main:", "_method_Main_main:"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing label %s", label)
		}
	}
}

func TestGenerateEmitsEveryBuiltinMethod(t *testing.T) {
	out := Generate(compile(t, helloWorld))
	builtins := []string{
		"abort", "type_name", "copy",
		"out_string", "out_int", "in_string", "in_int",
		"length", "concat", "substr",
	}
	classes := map[string]string{
		"abort": "Object", "type_name": "Object", "copy": "Object",
		"out_string": "IO", "out_int": "IO", "in_string": "IO", "in_int": "IO",
		"length": "String", "concat": "String", "substr": "String",
	}
	for _, m := range builtins {
		label := methodLabel(classes[m], m) + ":"
		if !strings.Contains(out, label) {
			t.Errorf("missing builtin method label %s", label)
		}
	}
}

func TestGenerateDynamicDispatchIndirectsThroughTable(t *testing.T) {
	src := `class A inherits IO {
  greet(): Object { out_string("A") };
};
class B inherits A {
  greet(): Object { out_string("B") };
};
class Main inherits IO {
  main(): Object {
    (new B).greet()
  };
};`
	out := Generate(compile(t, src))
	// dynamic dispatch must load the runtime object's own table pointer
	// rather than jal-ing a fixed label.
	if !strings.Contains(out, "lw $t0, "+"8($a0)") {
		t.Fatalf("expected a dispatch-pointer load at offset 8, got:\n%s", out)
	}
}

func TestGenerateStaticCallJumpsDirectlyToLabel(t *testing.T) {
	src := `class A inherits IO {
  greet(): Object { out_string("A") };
};
class B inherits A {
  greet(): Object { self@A.greet() };
};
class Main inherits IO {
  main(): Object { (new B).greet() };
};`
	out := Generate(compile(t, src))
	if !strings.Contains(out, "jal "+methodLabel("A", "greet")) {
		t.Fatalf("expected a direct jal to A's greet, got:\n%s", out)
	}
}

func TestGenerateCaseOrdersArmsByDecreasingDepth(t *testing.T) {
	src := `class A inherits IO {};
class B inherits A {};
class Main inherits IO {
  main(): Object {
    case (new B) of
      x: A => out_string("A");
      y: B => out_string("B");
    esac
  };
};`
	out := Generate(compile(t, src))
	bIdx := strings.Index(out, "case_arm_B")
	aIdx := strings.Index(out, "case_arm_A")
	if bIdx < 0 || aIdx < 0 {
		t.Fatalf("expected both case-arm blocks, got:\n%s", out)
	}
	if bIdx > aIdx {
		t.Fatalf("expected the more specific arm (B) to be tried before the less specific one (A)")
	}
}

// TestGenerateIsDeterministic snapshots the full output of a small
// multi-class program; a stray map iteration anywhere in the pipeline
// would make this flap across runs.
func TestGenerateIsDeterministic(t *testing.T) {
	src := `class Shape inherits IO {
  area(): Int { 0 };
  describe(): Object { out_string("a shape with area ".concat(self.area().type_name())) };
};
class Circle inherits Shape {
  radius: Int <- 2;
  area(): Int { radius * radius };
};
class Main inherits IO {
  main(): Object {
    (new Circle).describe()
  };
};`
	out := Generate(compile(t, src))
	snaps.MatchSnapshot(t, out)
}
