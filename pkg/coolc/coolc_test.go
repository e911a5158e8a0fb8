package coolc_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/pkg/coolc"
)

const helloWorld = `class Main inherits IO {
  main(): Object { out_string("Hello, World.\n") };
};`

func TestCompileEmitsAssembly(t *testing.T) {
	asm, diags, err := coolc.Compile([]coolc.Source{{Name: "hello.cl", Text: helloWorld}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if !strings.Contains(asm, ".data") || !strings.Contains(asm, ".text") {
		t.Fatalf("expected assembly with both sections, got:\n%s", asm)
	}
}

func TestCompileWithNoSourcesIsAnError(t *testing.T) {
	_, _, err := coolc.Compile(nil)
	if err == nil {
		t.Fatal("expected an error for no input sources")
	}
}

func TestCompileReportsParseErrors(t *testing.T) {
	_, diags, err := coolc.Compile([]coolc.Source{{Name: "bad.cl", Text: `class Main { main(): Object { 1 + }; };`}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatal("expected parse diagnostics")
	}
	for _, d := range diags {
		if d.Stage != errors.StageParse {
			t.Errorf("expected a parse-stage diagnostic, got %v", d.Stage)
		}
		if d.File != "bad.cl" {
			t.Errorf("expected diagnostic attributed to bad.cl, got %q", d.File)
		}
	}
}

func TestCompileReportsSemanticErrors(t *testing.T) {
	src := `class Main { main(): Object { undeclared_id }; };`
	_, diags, err := coolc.Compile([]coolc.Source{{Name: "sem.cl", Text: src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatal("expected a semantic diagnostic")
	}
	if diags[0].Stage != errors.StageSemantic {
		t.Errorf("expected a semantic-stage diagnostic, got %v", diags[0].Stage)
	}
	if diags[0].Code != errors.CodeSemUndefinedID {
		t.Errorf("expected CodeSemUndefinedID, got %v", diags[0].Code)
	}
}

func TestCompileMergesMultipleSourcesIntoOneProgram(t *testing.T) {
	helper := `class Helper inherits IO {
  greet(): Object { out_string("hi") };
};`
	main := `class Main inherits Helper {
  main(): Object { self.greet() };
};`
	asm, diags, err := coolc.Compile([]coolc.Source{
		{Name: "helper.cl", Text: helper},
		{Name: "main.cl", Text: main},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if !strings.Contains(asm, "_method_Helper_greet:") {
		t.Fatalf("expected Helper's greet method emitted, got:\n%s", asm)
	}
}

func TestCompileMultiFileSemanticErrorSkipsCaret(t *testing.T) {
	a := `class A { };`
	b := `class Main inherits A {
  main(): Object { undeclared_id };
};`
	_, diags, err := coolc.Compile([]coolc.Source{{Name: "a.cl", Text: a}, {Name: "b.cl", Text: b}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatal("expected a semantic diagnostic")
	}
	if strings.Contains(diags[0].Format(), "\n") {
		t.Errorf("expected no caret line for a multi-file program, got:\n%s", diags[0].Format())
	}
}
