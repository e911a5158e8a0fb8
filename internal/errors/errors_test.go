package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/lexer"
)

func TestDiagnosticErrorFormat(t *testing.T) {
	d := Diagnostic{
		Stage:   StageSemantic,
		Code:    CodeSemUndefinedID,
		Pos:     lexer.Position{Line: 3, Column: 5},
		File:    "prog.cl",
		Message: "undeclared identifier x",
	}
	want := "prog.cl:3:5: SEM008: undeclared identifier x"
	if got := d.Error(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDiagnosticFormatIncludesCaret(t *testing.T) {
	d := Diagnostic{
		Stage:   StageLex,
		Code:    CodeLexIllegalChar,
		Pos:     lexer.Position{Line: 1, Column: 5},
		Source:  "var x := 5",
		Message: "invalid character",
	}
	out := d.Format()
	if !strings.Contains(out, "var x := 5") || !strings.Contains(out, "^") {
		t.Fatalf("expected source line and caret, got:\n%s", out)
	}
}

func TestSinkPreservesOrder(t *testing.T) {
	s := NewSink()
	s.Add(Diagnostic{Pos: lexer.Position{Line: 1}, Message: "first"})
	s.Add(Diagnostic{Pos: lexer.Position{Line: 2}, Message: "second"})
	all := s.All()
	if len(all) != 2 || all[0].Message != "first" || all[1].Message != "second" {
		t.Fatalf("sink did not preserve insertion order: %+v", all)
	}
}

func TestSinkExitCode(t *testing.T) {
	s := NewSink()
	if s.ExitCode() != 0 {
		t.Fatalf("empty sink should exit 0")
	}
	s.Add(Diagnostic{Stage: StageSemantic})
	if s.ExitCode() != 2 {
		t.Fatalf("semantic error should exit 2, got %d", s.ExitCode())
	}
}
