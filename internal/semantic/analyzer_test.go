package semantic

import (
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
	cerrors "github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
)

func analyze(t *testing.T, src string) (*cerrors.Sink, *Result) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	sink := cerrors.NewSink()
	a := New(sink, "test.cl", src)
	res := a.Run(prog)
	return sink, res
}

func requireNoSemErrors(t *testing.T, sink *cerrors.Sink) {
	t.Helper()
	if sink.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", sink.All())
	}
}

func TestHelloWorldTypechecks(t *testing.T) {
	src := `class Main inherits IO {
  main(): Object { out_string("Hello, World.\n") };
};`
	sink, _ := analyze(t, src)
	requireNoSemErrors(t, sink)
}

func TestMissingMainIsReported(t *testing.T) {
	src := `class A { f(): Int { 1 }; };`
	sink, _ := analyze(t, src)
	if !sink.HasErrors() {
		t.Fatalf("expected a missing-Main error")
	}
}

func TestRedefiningBuiltinIsRejected(t *testing.T) {
	src := `class Int { };
class Main { main(): Object { 1 }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemRedefinedClass {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemRedefinedClass, got %v", sink.All())
	}
}

func TestInheritanceCycleIsRejected(t *testing.T) {
	src := `class A inherits B { };
class B inherits A { };
class Main { main(): Object { 1 }; };`
	sink, _ := analyze(t, src)
	if !sink.HasErrors() {
		t.Fatalf("expected an inheritance cycle error")
	}
}

func TestInheritFromIntIsRejected(t *testing.T) {
	src := `class A inherits Int { };
class Main { main(): Object { 1 }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemInheritBuiltin {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemInheritBuiltin, got %v", sink.All())
	}
}

func TestAttributeTypeMismatchIsReported(t *testing.T) {
	src := `class A { x: Int <- "not an int"; };
class Main { main(): Object { 1 }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a type mismatch, got %v", sink.All())
	}
}

func TestMethodOverrideMustMatchSignature(t *testing.T) {
	src := `class A { f(x: Int): Int { x }; };
class B inherits A { f(x: String): Int { 1 }; };
class Main { main(): Object { 1 }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemBadOverride {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemBadOverride, got %v", sink.All())
	}
}

func TestIfBranchesJoinAtLeastUpperBound(t *testing.T) {
	src := `class A { };
class B inherits A { };
class C inherits A { };
class Main {
  f(): A { if true then new B else new C fi };
  main(): Object { 1 };
};`
	sink, _ := analyze(t, src)
	requireNoSemErrors(t, sink)
}

func TestUndeclaredIdentifierIsReported(t *testing.T) {
	src := `class Main { main(): Object { y }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemUndefinedID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemUndefinedID, got %v", sink.All())
	}
}

func TestDispatchArgCountMismatch(t *testing.T) {
	src := `class Main inherits IO { main(): Object { out_string("a", "b") }; };`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemArgCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemArgCount, got %v", sink.All())
	}
}

func TestStaticDispatchRequiresAncestor(t *testing.T) {
	src := `class A { };
class B { };
class Main {
  main(): Object {
    let a: A <- new A in a@B.copy()
  };
};`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemBadStaticDispatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemBadStaticDispatch, got %v", sink.All())
	}
}

func TestSelfTypePreservedThroughDispatch(t *testing.T) {
	src := `class Main {
  main(): Object { self.copy() };
};`
	sink, res := analyze(t, src)
	requireNoSemErrors(t, sink)
	_ = res
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	sink2 := cerrors.NewSink()
	New(sink2, "t.cl", src).Run(prog)
	m := prog.Classes[0].Features[0].(*ast.Method)
	if m.Body.Type() != "SELF_TYPE" {
		t.Fatalf("expected self.copy() to preserve SELF_TYPE, got %s", m.Body.Type())
	}
}

func TestCaseDuplicateBranchType(t *testing.T) {
	src := `class Main {
  main(): Object {
    case 1 of
      i: Int => 1;
      j: Int => 2;
    esac
  };
};`
	sink, _ := analyze(t, src)
	found := false
	for _, d := range sink.All() {
		if d.Code == cerrors.CodeSemDuplicateBranch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeSemDuplicateBranch, got %v", sink.All())
	}
}
