package printer_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/pkg/printer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

const threeClassSource = `class A inherits IO {
  x: Int <- 1;
  greet(): Object { out_string("hi") };
};
class B inherits A {
  greet(): Object { out_string("bye") };
};
class Main inherits IO {
  main(): Object {
    (new B).greet()
  };
};
`

func TestCompactPrinterRoundTripsParse(t *testing.T) {
	prog := parseSource(t, threeClassSource)
	out := printer.CompactPrinter().Print(prog)
	reparsed := parseSource(t, out)
	if reparsed.String() != prog.String() {
		t.Fatalf("parse(pretty(parse(s))) != parse(s):\nfirst:  %s\nsecond: %s", prog.String(), reparsed.String())
	}
}

func TestMultilinePrinterRoundTripsParse(t *testing.T) {
	prog := parseSource(t, threeClassSource)
	out := printer.MultilinePrinter().Print(prog)
	reparsed := parseSource(t, out)
	if reparsed.String() != prog.String() {
		t.Fatalf("parse(pretty(parse(s))) != parse(s):\nfirst:  %s\nsecond: %s", prog.String(), reparsed.String())
	}
}

func TestMultilinePrinterIndentsFeatures(t *testing.T) {
	prog := parseSource(t, threeClassSource)
	out := printer.MultilinePrinter().Print(prog)
	found := false
	for _, line := range strings.Split(out, "\n") {
		if line == "  x: Int <- 1;" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an indented attribute line, got:\n%s", out)
	}
}

const multiStatementSource = `class Main inherits IO {
  main(): Object {
    {
      out_string("a");
      out_string("b");
    }
  };
};
`

func TestMultilinePrinterRoundTripsMultiStatementBody(t *testing.T) {
	prog := parseSource(t, multiStatementSource)
	out := printer.MultilinePrinter().Print(prog)
	reparsed := parseSource(t, out)
	if reparsed.String() != prog.String() {
		t.Fatalf("parse(pretty(parse(s))) != parse(s):\nfirst:  %s\nsecond: %s", prog.String(), reparsed.String())
	}
}

func TestStyleString(t *testing.T) {
	tests := []struct {
		style printer.Style
		want  string
	}{
		{printer.StyleCompact, "compact"},
		{printer.StyleMultiline, "multiline"},
		{printer.Style(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.style.String(); got != tt.want {
			t.Errorf("Style(%d).String() = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestMultilineOptionsDefaults(t *testing.T) {
	opts := printer.MultilineOptions()
	if opts.IndentWidth != 2 {
		t.Errorf("IndentWidth = %d, want 2", opts.IndentWidth)
	}
	if !opts.UseSpaces {
		t.Error("UseSpaces = false, want true")
	}
	if opts.Style != printer.StyleMultiline {
		t.Errorf("Style = %v, want StyleMultiline", opts.Style)
	}
}
