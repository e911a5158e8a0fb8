// Package semantic implements the five-pass analyser of spec.md §4.3:
// class collection, hierarchy validation, feature-table construction,
// a Main.main entry-point check, and expression type-checking that
// annotates the AST in place via ast.Expr.SetType.
package semantic

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ast"
	cerrors "github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/types"
)

var builtinClassNames = map[string]bool{"Object": true, "IO": true, "Int": true, "Bool": true, "String": true}

// uninheritableBuiltins are the builtins a user class may never extend,
// per spec.md §3: Int, String, and Bool have no meaningful subclasses
// under the stack-of-primitives object layout.
var uninheritableBuiltins = map[string]bool{"Int": true, "String": true, "Bool": true, "SELF_TYPE": true}

// Result is everything later pipeline stages (internal/ir) need from a
// successful analysis.
type Result struct {
	Hierarchy *types.Hierarchy
	Classes   *ClassTable
}

// Analyzer runs the five passes over one program and collects every
// diagnostic into a shared sink so a single run reports as many
// problems as it safely can (spec.md §7).
type Analyzer struct {
	sink   *cerrors.Sink
	file   string
	source string

	hierarchy *types.Hierarchy
	classTab  *ClassTable
	classDefs map[string]*ast.Class
}

// New returns an Analyzer that reports into sink. file and source are
// carried on every Diagnostic for caret-formatted output.
func New(sink *cerrors.Sink, file, source string) *Analyzer {
	return &Analyzer{
		sink:      sink,
		file:      file,
		source:    source,
		hierarchy: types.NewHierarchy(),
		classTab:  NewClassTable(),
		classDefs: make(map[string]*ast.Class),
	}
}

func (a *Analyzer) errorf(code cerrors.Code, pos lexer.Position, format string, args ...any) {
	a.sink.Add(cerrors.Diagnostic{
		Stage:   cerrors.StageSemantic,
		Code:    code,
		Pos:     pos,
		File:    a.file,
		Source:  a.source,
		Message: fmt.Sprintf(format, args...),
	})
}

// Run executes all five passes. It always returns a Result (even a
// partial one after errors) so callers can still inspect what was
// collected; check sink.HasErrors() before proceeding to codegen.
func (a *Analyzer) Run(prog *ast.Program) *Result {
	a.collectClasses(prog)
	if err := a.hierarchy.Validate(); err != nil {
		a.errorf(cerrors.CodeSemInheritCycle, lexer.Position{Line: 1, Column: 1}, "%s", err.Error())
	} else {
		a.buildFeatureTables(prog)
	}
	a.checkMain()
	if !a.sink.HasErrors() {
		a.typecheckProgram(prog)
	}
	return &Result{Hierarchy: a.hierarchy, Classes: a.classTab}
}

// collectClasses is pass 1: register every class declaration (rejecting
// redefinitions of a builtin or of another user class) and pass 2's
// precondition of declaring every parent link, even unresolved ones.
func (a *Analyzer) collectClasses(prog *ast.Program) {
	for _, c := range prog.Classes {
		if builtinClassNames[c.Name] {
			a.errorf(cerrors.CodeSemRedefinedClass, c.Token.Pos, "cannot redefine built-in class %s", c.Name)
			continue
		}
		if _, exists := a.classDefs[c.Name]; exists {
			a.errorf(cerrors.CodeSemRedefinedClass, c.Token.Pos, "class %s is already defined", c.Name)
			continue
		}
		parent := c.Parent
		if parent == "" {
			parent = "Object"
		}
		if uninheritableBuiltins[parent] {
			a.errorf(cerrors.CodeSemInheritBuiltin, c.Token.Pos, "class %s cannot inherit from %s", c.Name, parent)
			continue
		}
		if err := a.hierarchy.Declare(c.Name, parent); err != nil {
			a.errorf(cerrors.CodeSemRedefinedClass, c.Token.Pos, "%s", err.Error())
			continue
		}
		a.classDefs[c.Name] = c
	}
}

// checkMain enforces spec.md §4.3's entry-point requirement: a class
// Main exists and declares a zero-argument method main.
func (a *Analyzer) checkMain() {
	main, ok := a.classDefs["Main"]
	if !ok {
		a.errorf(cerrors.CodeSemMissingMain, lexer.Position{Line: 1, Column: 1}, "class Main is not defined")
		return
	}
	cf, ok := a.classTab.Get("Main")
	if !ok {
		return
	}
	sig, ok := cf.Methods["main"]
	if !ok {
		a.errorf(cerrors.CodeSemMissingMain, main.Token.Pos, "class Main must define method main")
		return
	}
	if len(sig.Params) != 0 {
		a.errorf(cerrors.CodeSemMissingMain, main.Token.Pos, "Main.main must take no arguments")
	}
}
