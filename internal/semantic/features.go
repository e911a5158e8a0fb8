package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	cerrors "github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/types"
)

// buildFeatureTables is pass 3: flatten each class's inherited and own
// attributes/methods into a ClassFeatures, enforcing spec.md §4.3's
// override rule (identical signature required) and the no-redefined-
// attribute rule. It is a no-op for classes pass 1/2 already rejected.
func (a *Analyzer) buildFeatureTables(prog *ast.Program) {
	builtins := builtinSignatures()
	a.resolveBuiltin("Object", builtins, nil)
	a.resolveBuiltin("IO", builtins, a.mustGet("Object"))
	a.resolveBuiltin("Int", builtins, a.mustGet("Object"))
	a.resolveBuiltin("Bool", builtins, a.mustGet("Object"))
	a.resolveBuiltin("String", builtins, a.mustGet("Object"))

	for _, c := range prog.Classes {
		if _, ok := a.classDefs[c.Name]; !ok {
			continue // rejected in pass 1 (redefinition / bad inheritance)
		}
		a.resolveClass(c.Name)
	}
}

func (a *Analyzer) mustGet(name string) *ClassFeatures {
	cf, _ := a.classTab.Get(name)
	return cf
}

func (a *Analyzer) resolveBuiltin(name string, sigs map[string][]builtinMethod, parent *ClassFeatures) {
	cf := emptyClassFeatures()
	if parent != nil {
		cf.MethodOrder = append(cf.MethodOrder, parent.MethodOrder...)
		for n, sig := range parent.Methods {
			cf.Methods[n] = sig
		}
	}
	for _, bm := range sigs[name] {
		if _, inherited := cf.Methods[bm.Name]; !inherited {
			cf.MethodOrder = append(cf.MethodOrder, bm.Name)
		}
		cf.Methods[bm.Name] = bm.Sig
	}
	a.classTab.set(name, cf)
}

// resolveClass returns the flattened feature table for name, building it
// (and, recursively, its ancestors') on first use. The hierarchy has
// already been validated acyclic by the time this runs.
func (a *Analyzer) resolveClass(name string) *ClassFeatures {
	if cf, ok := a.classTab.Get(name); ok {
		return cf
	}
	ci := a.hierarchy.Lookup(name)
	if ci == nil {
		return emptyClassFeatures()
	}
	parentCF := a.resolveClass(ci.Parent)

	cf := emptyClassFeatures()
	for n, t := range parentCF.Attrs {
		cf.Attrs[n] = t
	}
	cf.AttrOrder = append(cf.AttrOrder, parentCF.AttrOrder...)
	for n, sig := range parentCF.Methods {
		cf.Methods[n] = sig
	}
	cf.MethodOrder = append(cf.MethodOrder, parentCF.MethodOrder...)

	class := a.classDefs[name]
	seenOwn := map[string]bool{}
	for _, feat := range class.Features {
		switch f := feat.(type) {
		case *ast.Attribute:
			a.addAttribute(cf, name, seenOwn, f)
		case *ast.Method:
			a.addMethod(cf, name, seenOwn, f)
		}
	}

	a.classTab.set(name, cf)
	return cf
}

func (a *Analyzer) addAttribute(cf *ClassFeatures, class string, seenOwn map[string]bool, attr *ast.Attribute) {
	if attr.Name == "self" {
		a.errorf(cerrors.CodeSemRedefinedAttr, attr.Token.Pos, "'self' cannot be used as an attribute name")
		return
	}
	if seenOwn[attr.Name] {
		a.errorf(cerrors.CodeSemRedefinedAttr, attr.Token.Pos, "attribute %s is already defined in class %s", attr.Name, class)
		return
	}
	if _, inherited := cf.Attrs[attr.Name]; inherited {
		a.errorf(cerrors.CodeSemRedefinedAttr, attr.Token.Pos, "attribute %s redefines an inherited attribute", attr.Name)
		return
	}
	if attr.Type != types.SelfType && a.hierarchy.Lookup(attr.Type) == nil {
		a.errorf(cerrors.CodeSemUndefinedClass, attr.Token.Pos, "undefined type %s for attribute %s", attr.Type, attr.Name)
	}
	seenOwn[attr.Name] = true
	cf.Attrs[attr.Name] = attr.Type
	cf.AttrOrder = append(cf.AttrOrder, attr.Name)
	cf.OwnAttrs[attr.Name] = attr
}

func (a *Analyzer) addMethod(cf *ClassFeatures, class string, seenOwn map[string]bool, m *ast.Method) {
	if seenOwn[m.Name] {
		a.errorf(cerrors.CodeSemBadOverride, m.Token.Pos, "method %s is already defined in class %s", m.Name, class)
		return
	}
	seenOwn[m.Name] = true

	params := make([]string, len(m.Formals))
	seenFormal := map[string]bool{}
	for i, f := range m.Formals {
		if f.Type == types.SelfType {
			a.errorf(cerrors.CodeSemBadOverride, f.Token.Pos, "formal parameter %s cannot be declared SELF_TYPE", f.Name)
		} else if a.hierarchy.Lookup(f.Type) == nil {
			a.errorf(cerrors.CodeSemUndefinedClass, f.Token.Pos, "undefined type %s for formal %s", f.Type, f.Name)
		}
		if f.Name == "self" {
			a.errorf(cerrors.CodeSemBadOverride, f.Token.Pos, "'self' cannot be used as a formal parameter name")
		}
		if seenFormal[f.Name] {
			a.errorf(cerrors.CodeSemBadOverride, f.Token.Pos, "duplicate formal parameter name %s", f.Name)
		}
		seenFormal[f.Name] = true
		params[i] = f.Type
	}
	if m.ReturnType != types.SelfType && a.hierarchy.Lookup(m.ReturnType) == nil {
		a.errorf(cerrors.CodeSemUndefinedClass, m.Token.Pos, "undefined return type %s for method %s", m.ReturnType, m.Name)
	}

	existing, inherited := cf.Methods[m.Name]
	if inherited {
		if !sameSignature(existing, params, m.ReturnType) {
			a.errorf(cerrors.CodeSemBadOverride, m.Token.Pos,
				"method %s overrides %s.%s with a different signature", m.Name, existing.DeclClass, m.Name)
		}
	} else {
		cf.MethodOrder = append(cf.MethodOrder, m.Name)
	}
	cf.Methods[m.Name] = MethodSig{Params: params, ReturnType: m.ReturnType, DeclClass: class}
	cf.OwnMethods[m.Name] = m
}

func sameSignature(existing MethodSig, params []string, ret string) bool {
	if existing.ReturnType != ret || len(existing.Params) != len(params) {
		return false
	}
	for i, p := range params {
		if existing.Params[i] != p {
			return false
		}
	}
	return true
}
