package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
)

// MethodSig is a method's formal parameter types and return type, as
// declared (SELF_TYPE kept literally, not resolved to a class).
type MethodSig struct {
	Params     []string
	ReturnType string
	DeclClass  string // class that introduced or last overrode this signature
}

// ClassFeatures is the flattened (inheritance-resolved) feature table for
// one class: every attribute and method visible on it, including
// inherited ones, plus the ones it declares directly.
type ClassFeatures struct {
	Attrs       map[string]string    // attribute name -> declared type
	AttrOrder   []string             // inherited-then-own declaration order, matching object-layout slot order
	Methods     map[string]MethodSig // method name -> signature
	MethodOrder []string             // inherited-then-own order, each name once at its first declaration; codegen needs this to stay deterministic rather than ranging over Methods
	OwnAttrs    map[string]*ast.Attribute
	OwnMethods  map[string]*ast.Method
}

// ClassTable holds the flattened feature table for every class in the
// program, plus the five built-in classes.
type ClassTable struct {
	classes map[string]*ClassFeatures
}

func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassFeatures)}
}

func (ct *ClassTable) Get(name string) (*ClassFeatures, bool) {
	cf, ok := ct.classes[name]
	return cf, ok
}

func (ct *ClassTable) set(name string, cf *ClassFeatures) {
	ct.classes[name] = cf
}

// builtinMethod is one named entry of an ordered builtin signature list;
// order here becomes MethodOrder, so codegen emits dispatch-table slots
// and builtin bodies in a fixed, reproducible order rather than ranging
// over a map.
type builtinMethod struct {
	Name string
	Sig  MethodSig
}

// builtinSignatures returns the hard-coded method signatures of the five
// runtime classes, in declaration order, per the COOL reference manual
// (spec.md §3/§5).
func builtinSignatures() map[string][]builtinMethod {
	return map[string][]builtinMethod{
		"Object": {
			{"abort", MethodSig{Params: nil, ReturnType: "Object", DeclClass: "Object"}},
			{"type_name", MethodSig{Params: nil, ReturnType: "String", DeclClass: "Object"}},
			{"copy", MethodSig{Params: nil, ReturnType: "SELF_TYPE", DeclClass: "Object"}},
		},
		"IO": {
			{"out_string", MethodSig{Params: []string{"String"}, ReturnType: "SELF_TYPE", DeclClass: "IO"}},
			{"out_int", MethodSig{Params: []string{"Int"}, ReturnType: "SELF_TYPE", DeclClass: "IO"}},
			{"in_string", MethodSig{Params: nil, ReturnType: "String", DeclClass: "IO"}},
			{"in_int", MethodSig{Params: nil, ReturnType: "Int", DeclClass: "IO"}},
		},
		"Int":  {},
		"Bool": {},
		"String": {
			{"length", MethodSig{Params: nil, ReturnType: "Int", DeclClass: "String"}},
			{"concat", MethodSig{Params: []string{"String"}, ReturnType: "String", DeclClass: "String"}},
			{"substr", MethodSig{Params: []string{"Int", "Int"}, ReturnType: "String", DeclClass: "String"}},
		},
	}
}

func emptyClassFeatures() *ClassFeatures {
	return &ClassFeatures{
		Attrs:      make(map[string]string),
		Methods:    make(map[string]MethodSig),
		OwnAttrs:   make(map[string]*ast.Attribute),
		OwnMethods: make(map[string]*ast.Method),
	}
}
