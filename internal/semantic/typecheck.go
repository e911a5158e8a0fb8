package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	cerrors "github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/types"
)

// typecheckProgram is pass 5: type-check every method body and
// attribute initializer, annotating each ast.Expr with its resolved
// static type via SetType. Only runs once passes 1-4 reported no
// errors, since an invalid hierarchy or feature table makes typing
// meaningless (spec.md §4.3).
func (a *Analyzer) typecheckProgram(prog *ast.Program) {
	for _, c := range prog.Classes {
		cf, ok := a.classTab.Get(c.Name)
		if !ok {
			continue
		}
		for _, feat := range c.Features {
			switch f := feat.(type) {
			case *ast.Attribute:
				if f.Init == nil {
					continue
				}
				env := NewEnv()
				env.Define("self", types.SelfTypeOf(c.Name))
				t := a.typeOf(f.Init, c.Name, cf, env)
				declared := resolveDeclared(f.Type, c.Name)
				if !a.hierarchy.Conforms(t, declared, c.Name) {
					a.errorf(cerrors.CodeSemTypeMismatch, f.Init.Pos(),
						"initializer for attribute %s has type %s, expected %s", f.Name, a.display(t, c.Name), f.Type)
				}
			case *ast.Method:
				env := NewEnv()
				env.Define("self", types.SelfTypeOf(c.Name))
				for _, formal := range f.Formals {
					env.Define(formal.Name, formal.Type)
				}
				if f.Body == nil {
					continue
				}
				t := a.typeOf(f.Body, c.Name, cf, env)
				declared := resolveDeclared(f.ReturnType, c.Name)
				if !a.hierarchy.Conforms(t, declared, c.Name) {
					a.errorf(cerrors.CodeSemTypeMismatch, f.Body.Pos(),
						"method %s returns %s, expected %s", f.Name, a.display(t, c.Name), f.ReturnType)
				}
			}
		}
	}
}

func resolveDeclared(t, class string) string {
	if t == types.SelfType {
		return types.SelfTypeOf(class)
	}
	return t
}

func (a *Analyzer) display(t, class string) string {
	if t == types.SelfTypeOf(class) {
		return types.SelfType
	}
	if cn, isSelf := types.ClassOf(t); isSelf {
		return cn
	}
	return t
}

// typeOf type-checks e in the context of class (the enclosing class, for
// SELF_TYPE resolution), cf (class's flattened feature table), and env
// (the current local-variable scope). It returns the resolved static
// type in internal contextual form (a concrete class name, or
// SELF_TYPE_<class>) and annotates e via SetType in display form.
func (a *Analyzer) typeOf(e ast.Expr, class string, cf *ClassFeatures, env *Env) string {
	t := a.computeType(e, class, cf, env)
	e.SetType(a.display(t, class))
	return t
}

func (a *Analyzer) computeType(e ast.Expr, class string, cf *ClassFeatures, env *Env) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return "Int"
	case *ast.StringLit:
		return "String"
	case *ast.BoolLit:
		return "Bool"
	case *ast.Id:
		return a.typeOfId(n, class, cf, env)
	case *ast.New:
		if n.TypeName == types.SelfType {
			return types.SelfTypeOf(class)
		}
		if a.hierarchy.Lookup(n.TypeName) == nil {
			a.errorf(cerrors.CodeSemUndefinedClass, n.Pos(), "new applied to undefined class %s", n.TypeName)
			return "Object"
		}
		return n.TypeName
	case *ast.IsVoid:
		a.typeOf(n.Expr, class, cf, env)
		return "Bool"
	case *ast.Assign:
		return a.typeOfAssign(n, class, cf, env)
	case *ast.Dispatch:
		return a.typeOfDispatch(n, class, cf, env)
	case *ast.If:
		a.checkConforms(n.Pred, class, cf, env, "Bool", "if condition")
		tThen := a.typeOf(n.Then, class, cf, env)
		tElse := a.typeOf(n.Else, class, cf, env)
		return a.hierarchy.LeastUpperBound(tThen, tElse, class)
	case *ast.While:
		a.checkConforms(n.Pred, class, cf, env, "Bool", "while condition")
		a.typeOf(n.Body, class, cf, env)
		return "Object"
	case *ast.Block:
		last := "Object"
		for _, sub := range n.Exprs {
			last = a.typeOf(sub, class, cf, env)
		}
		return last
	case *ast.Let:
		return a.typeOfLet(n, class, cf, env)
	case *ast.Case:
		return a.typeOfCase(n, class, cf, env)
	case *ast.BinOp:
		return a.typeOfBinOp(n, class, cf, env)
	case *ast.UnOp:
		return a.typeOfUnOp(n, class, cf, env)
	case *ast.Paren:
		return a.typeOf(n.Inner, class, cf, env)
	default:
		return "Object"
	}
}

func (a *Analyzer) typeOfId(n *ast.Id, class string, cf *ClassFeatures, env *Env) string {
	if n.Name == "self" {
		return types.SelfTypeOf(class)
	}
	if t, ok := env.Resolve(n.Name); ok {
		return resolveDeclared(t, class)
	}
	if t, ok := cf.Attrs[n.Name]; ok {
		return resolveDeclared(t, class)
	}
	a.errorf(cerrors.CodeSemUndefinedID, n.Pos(), "undeclared identifier %s", n.Name)
	return "Object"
}

func (a *Analyzer) typeOfAssign(n *ast.Assign, class string, cf *ClassFeatures, env *Env) string {
	valueT := a.typeOf(n.Value, class, cf, env)
	if n.Name == "self" {
		a.errorf(cerrors.CodeSemSelfAssignment, n.Pos(), "cannot assign to self")
		return valueT
	}
	var declared string
	if t, ok := env.Resolve(n.Name); ok {
		declared = resolveDeclared(t, class)
	} else if t, ok := cf.Attrs[n.Name]; ok {
		declared = resolveDeclared(t, class)
	} else {
		a.errorf(cerrors.CodeSemUndefinedID, n.Pos(), "undeclared identifier %s", n.Name)
		return valueT
	}
	if !a.hierarchy.Conforms(valueT, declared, class) {
		a.errorf(cerrors.CodeSemTypeMismatch, n.Pos(),
			"cannot assign %s to %s", a.display(valueT, class), n.Name)
	}
	return valueT
}

func (a *Analyzer) checkConforms(e ast.Expr, class string, cf *ClassFeatures, env *Env, want, what string) {
	t := a.typeOf(e, class, cf, env)
	if !a.hierarchy.Conforms(t, want, class) {
		a.errorf(cerrors.CodeSemTypeMismatch, e.Pos(), "%s must be %s, got %s", what, want, a.display(t, class))
	}
}

func (a *Analyzer) typeOfBinOp(n *ast.BinOp, class string, cf *ClassFeatures, env *Env) string {
	left := a.typeOf(n.Left, class, cf, env)
	right := a.typeOf(n.Right, class, cf, env)
	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if left != "Int" || right != "Int" {
			a.errorf(cerrors.CodeSemTypeMismatch, n.Pos(), "arithmetic operator %s requires Int operands", n.Op.String())
		}
		return "Int"
	case ast.OpLt, ast.OpLe:
		if left != "Int" || right != "Int" {
			a.errorf(cerrors.CodeSemTypeMismatch, n.Pos(), "comparison %s requires Int operands", n.Op.String())
		}
		return "Bool"
	case ast.OpEq:
		basic := map[string]bool{"Int": true, "String": true, "Bool": true}
		if basic[left] || basic[right] {
			if left != right {
				a.errorf(cerrors.CodeSemIncomparableEq, n.Pos(),
					"cannot compare %s with %s using '='", a.display(left, class), a.display(right, class))
			}
		}
		return "Bool"
	}
	return "Object"
}

func (a *Analyzer) typeOfUnOp(n *ast.UnOp, class string, cf *ClassFeatures, env *Env) string {
	t := a.typeOf(n.Expr, class, cf, env)
	if n.Op == ast.OpComplement {
		if t != "Int" {
			a.errorf(cerrors.CodeSemTypeMismatch, n.Pos(), "~ requires an Int operand, got %s", a.display(t, class))
		}
		return "Int"
	}
	if t != "Bool" {
		a.errorf(cerrors.CodeSemTypeMismatch, n.Pos(), "not requires a Bool operand, got %s", a.display(t, class))
	}
	return "Bool"
}

func (a *Analyzer) typeOfLet(n *ast.Let, class string, cf *ClassFeatures, env *Env) string {
	declared := resolveDeclared(n.Binding.Type, class)
	if n.Binding.Type != types.SelfType && a.hierarchy.Lookup(n.Binding.Type) == nil {
		a.errorf(cerrors.CodeSemUndefinedClass, n.Pos(), "undefined type %s for let binding %s", n.Binding.Type, n.Binding.Name)
	}
	if n.Binding.Init != nil {
		// The initializer is evaluated in the enclosing scope: the new
		// binding is not yet visible to its own initializer.
		initT := a.typeOf(n.Binding.Init, class, cf, env)
		if !a.hierarchy.Conforms(initT, declared, class) {
			a.errorf(cerrors.CodeSemTypeMismatch, n.Binding.Init.Pos(),
				"initializer for %s has type %s, expected %s", n.Binding.Name, a.display(initT, class), n.Binding.Type)
		}
	}
	inner := NewEnclosedEnv(env)
	inner.Define(n.Binding.Name, n.Binding.Type)
	return a.typeOf(n.Body, class, cf, inner)
}

func (a *Analyzer) typeOfCase(n *ast.Case, class string, cf *ClassFeatures, env *Env) string {
	a.typeOf(n.Scrutinee, class, cf, env)

	seen := map[string]bool{}
	var result string
	for i, br := range n.Branches {
		if br.Type == types.SelfType {
			a.errorf(cerrors.CodeSemUndefinedClass, n.Pos(), "case branch %s cannot be declared SELF_TYPE", br.Name)
		} else if a.hierarchy.Lookup(br.Type) == nil {
			a.errorf(cerrors.CodeSemUndefinedClass, n.Pos(), "undefined type %s in case branch", br.Type)
		}
		if seen[br.Type] {
			a.errorf(cerrors.CodeSemDuplicateBranch, n.Pos(), "duplicate case branch type %s", br.Type)
		}
		seen[br.Type] = true

		branchEnv := NewEnclosedEnv(env)
		branchEnv.Define(br.Name, br.Type)
		t := a.typeOf(br.Body, class, cf, branchEnv)
		if i == 0 {
			result = t
		} else {
			result = a.hierarchy.LeastUpperBound(result, t, class)
		}
	}
	if result == "" {
		return "Object"
	}
	return result
}

func (a *Analyzer) typeOfDispatch(n *ast.Dispatch, class string, cf *ClassFeatures, env *Env) string {
	var receiverT string
	var targetTable *ClassFeatures

	if n.Receiver == nil {
		receiverT = types.SelfTypeOf(class)
		targetTable = cf
	} else {
		receiverT = a.typeOf(n.Receiver, class, cf, env)
		if n.Override != "" {
			if n.Override == types.SelfType {
				a.errorf(cerrors.CodeSemBadStaticDispatch, n.Pos(), "static dispatch cannot target SELF_TYPE")
				return "Object"
			}
			if a.hierarchy.Lookup(n.Override) == nil {
				a.errorf(cerrors.CodeSemUndefinedClass, n.Pos(), "undefined static-dispatch type %s", n.Override)
				return "Object"
			}
			if !a.hierarchy.Conforms(receiverT, n.Override, class) {
				a.errorf(cerrors.CodeSemBadStaticDispatch, n.Pos(),
					"%s is not an ancestor of %s", n.Override, a.display(receiverT, class))
			}
			targetTable = a.mustGet(n.Override)
		} else {
			recvClass, _ := types.ClassOf(receiverT)
			targetTable = a.mustGet(recvClass)
		}
	}
	if targetTable == nil {
		return "Object"
	}

	sig, ok := targetTable.Methods[n.Method]
	if !ok {
		a.errorf(cerrors.CodeSemUndefinedMethod, n.Pos(), "undefined method %s", n.Method)
		for _, arg := range n.Args {
			a.typeOf(arg, class, cf, env)
		}
		return "Object"
	}
	if len(n.Args) != len(sig.Params) {
		a.errorf(cerrors.CodeSemArgCount, n.Pos(),
			"method %s expects %d argument(s), got %d", n.Method, len(sig.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		argT := a.typeOf(arg, class, cf, env)
		if i >= len(sig.Params) {
			continue
		}
		want := resolveDeclared(sig.Params[i], class)
		if !a.hierarchy.Conforms(argT, want, class) {
			a.errorf(cerrors.CodeSemArgType, arg.Pos(),
				"argument %d to %s has type %s, expected %s", i+1, n.Method, a.display(argT, class), sig.Params[i])
		}
	}

	if sig.ReturnType == types.SelfType {
		return receiverT
	}
	return sig.ReturnType
}
