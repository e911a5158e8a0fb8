// Package errors is the shared diagnostic package for every compiler
// stage. It formats diagnostics with source context, line/column
// information, and a stable code, in the style of the teacher's
// internal/errors.CompilerError (see DESIGN.md).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/coolc/internal/lexer"
)

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageSemantic Stage = "semantic"
	StageCodegen  Stage = "codegen"
)

// Code is a stable, greppable diagnostic code. Families are namespaced by
// stage so a code alone tells you which pass to look at.
type Code string

const (
	CodeLexIllegalChar     Code = "LEX001"
	CodeLexUnterminated    Code = "LEX002"
	CodeLexStringTooLong   Code = "LEX003"
	CodeLexNullInString    Code = "LEX004"
	CodeLexUnterminatedCmt Code = "LEX005"

	CodeParseUnexpectedToken Code = "PARSE001"
	CodeParseChainedCompare  Code = "PARSE002"

	CodeSemRedefinedClass    Code = "SEM001"
	CodeSemUndefinedClass    Code = "SEM002"
	CodeSemInheritCycle      Code = "SEM003"
	CodeSemInheritBuiltin    Code = "SEM004"
	CodeSemMissingMain       Code = "SEM005"
	CodeSemRedefinedAttr     Code = "SEM006"
	CodeSemBadOverride       Code = "SEM007"
	CodeSemUndefinedID       Code = "SEM008"
	CodeSemTypeMismatch      Code = "SEM009"
	CodeSemUndefinedMethod   Code = "SEM010"
	CodeSemArgCount          Code = "SEM011"
	CodeSemArgType           Code = "SEM012"
	CodeSemBadStaticDispatch Code = "SEM013"
	CodeSemDuplicateBranch   Code = "SEM014"
	CodeSemIncomparableEq    Code = "SEM015"
	CodeSemSelfAssignment    Code = "SEM016"

	CodeCodegenIntOverflow Code = "CODEGEN001"
	CodeCodegenInternal    Code = "CODEGEN002"
)

// Diagnostic is one compiler error: where it happened, what stage raised
// it, a stable code, and a human message.
type Diagnostic struct {
	Stage   Stage
	Code    Code
	Pos     lexer.Position
	File    string
	Message string
	Source  string // the source file's full text, for the long-form caret display
}

// Error satisfies the error interface with the short, single-line form
// required by spec.md §7: "<path>:<line>:<col>: <code>: <message>".
func (d Diagnostic) Error() string {
	path := d.File
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, d.Pos.Line, d.Pos.Column, d.Code, d.Message)
}

// Format renders the long form with a source line and a caret pointing
// at the offending column, matching the teacher's CompilerError.Format.
func (d Diagnostic) Format() string {
	var sb strings.Builder
	sb.WriteString(d.Error())

	line := sourceLine(d.Source, d.Pos.Line)
	if line != "" {
		sb.WriteString("\n")
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(d.Pos.Column-1)))
		sb.WriteString("^")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Sink is an append-only diagnostic collector shared by a compilation
// run. spec.md §5 requires insertion order to be preserved across a
// single-threaded pipeline; Sink never reorders or deduplicates.
type Sink struct {
	diags []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Add appends a diagnostic.
func (s *Sink) Add(d Diagnostic) { s.diags = append(s.diags, d) }

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool { return len(s.diags) > 0 }

// All returns every recorded diagnostic, in the order they were added.
func (s *Sink) All() []Diagnostic { return s.diags }

// ExitCode maps the highest-priority diagnostic stage present in the
// sink to the process exit code from spec.md §6: 1 lex/parse, 2
// semantic, 4 internal (codegen). Returns 0 if the sink is empty.
func (s *Sink) ExitCode() int {
	if len(s.diags) == 0 {
		return 0
	}
	worst := 0
	for _, d := range s.diags {
		var code int
		switch d.Stage {
		case StageLex, StageParse:
			code = 1
		case StageSemantic:
			code = 2
		case StageCodegen:
			code = 4
		}
		if code > worst {
			worst = code
		}
	}
	return worst
}
