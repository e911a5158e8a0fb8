// Package coolc is the public, embeddable one-call API wrapping the
// compiler pipeline: lex, parse, typecheck, lower to IR, emit MIPS32.
// It is fresh code grounded on the teacher's pkg/dwscript public-API
// package shape (Compile-one-call plus a Diagnostic-carrying result,
// re-derived from its test suite since no pkg/dwscript source file was
// retrieved into the example pack; see DESIGN.md).
package coolc

import (
	"fmt"
	"strings"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/codegen"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/ir"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/semantic"
)

// Source is one input file: Name labels its diagnostics (spec.md §6's
// "<path>:<line>:<col>" form), Text is its full UTF-8 content.
type Source struct {
	Name string
	Text string
}

// Compile runs every pipeline stage over sources, which are compiled
// together as one program (spec.md §6: "one or more .cl source files,
// compiled together as one program" — COOL has no separate-compilation
// or unit/import system, so every class from every source shares one
// hierarchy and one Main.main).
//
// asm is non-empty only on a clean compile. diags holds every
// diagnostic recorded before the pipeline aborted; spec.md §7 aborts
// before the next stage runs once any stage records an error, but every
// source is still lexed and parsed (each stage reports as many problems
// as it safely can). err is a plain Go error only for inputs Compile
// itself can't process (no sources given); a failed compile is
// signalled by a non-empty diags, not err.
func Compile(sources []Source) (asm string, diags []errors.Diagnostic, err error) {
	if len(sources) == 0 {
		return "", nil, fmt.Errorf("coolc: no source files given")
	}

	var classes []*ast.Class
	for _, src := range sources {
		l := lexer.New(src.Text)
		p := parser.New(l)
		prog := p.ParseProgram()

		// lexer.LexError/parser.ParseError carry a message and a
		// position but no per-kind code of their own, so every lex
		// diagnostic is promoted under the same family code and
		// likewise for parse; Message still distinguishes the actual
		// problem for a human or a log.
		for _, lerr := range l.Errors() {
			diags = append(diags, errors.Diagnostic{
				Stage: errors.StageLex, Code: errors.CodeLexIllegalChar,
				Pos: lerr.Pos, File: src.Name, Message: lerr.Msg, Source: src.Text,
			})
		}
		for _, perr := range p.Errors() {
			diags = append(diags, errors.Diagnostic{
				Stage: errors.StageParse, Code: errors.CodeParseUnexpectedToken,
				Pos: perr.Pos, File: src.Name, Message: perr.Msg, Source: src.Text,
			})
		}
		classes = append(classes, prog.Classes...)
	}
	if len(diags) > 0 {
		return "", diags, nil
	}

	combined := &ast.Program{Classes: classes}
	sink := errors.NewSink()
	// A multi-file program has no single coherent text to point a caret
	// into (diagnostics' Pos values are each relative to their own
	// source); passing "" makes Diagnostic.Format skip the caret rather
	// than show the wrong file's line. A single source keeps its exact
	// text, so the common (and every existing test's) case still gets
	// the full caret display.
	fileLabel, sourceText := sources[0].Name, sources[0].Text
	if len(sources) > 1 {
		names := make([]string, len(sources))
		for i, src := range sources {
			names[i] = src.Name
		}
		fileLabel, sourceText = strings.Join(names, ", "), ""
	}
	res := semantic.New(sink, fileLabel, sourceText).Run(combined)
	if sink.HasErrors() {
		return "", sink.All(), nil
	}

	asm, genErr := generate(combined, res)
	if genErr != nil {
		return "", []errors.Diagnostic{{
			Stage: errors.StageCodegen, Code: errors.CodeCodegenInternal,
			Message: genErr.Error(),
		}}, nil
	}
	return asm, nil, nil
}

// generate lowers and emits, converting an internal panic (an invariant
// codegen trusts the semantic pass to have already enforced, such as an
// unresolvable attribute or dispatch slot) into a plain error rather
// than crashing the caller.
func generate(prog *ast.Program, res *semantic.Result) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal compiler error: %v", r)
		}
	}()
	irProg := ir.Lower(prog, res)
	return codegen.Generate(irProg), nil
}
