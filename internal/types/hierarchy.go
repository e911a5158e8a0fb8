// Package types implements COOL's nominal type system: the class
// hierarchy, conformance (subtyping), and least-upper-bound resolution,
// including SELF_TYPE. It has no source-file counterpart in the teacher
// repo (see DESIGN.md) and is written fresh in the surrounding packages'
// idiom: small structs, explicit maps keyed by name, no generics.
package types

import "fmt"

// SelfType is the sentinel spelling of SELF_TYPE as it appears in the
// AST and in diagnostics. A resolved SELF_TYPE is always written
// contextually as SelfTypeOf(C).
const SelfType = "SELF_TYPE"

// Builtin class tags, fixed by spec.md §6.
const (
	TagObject = iota
	TagIO
	TagInt
	TagBool
	TagString
	firstUserTag
)

// ClassInfo is one node of the class hierarchy: a resolved parent link,
// a dense tag, and depth from Object (used by lub and by case-branch
// ordering in codegen).
type ClassInfo struct {
	Name   string
	Parent string // "" only for Object
	Tag    int
	Depth  int // 0 for Object
}

// Hierarchy is the class table built by the semantic analyser's
// collection and validation passes (spec.md §4.3 passes 1-2). It is
// immutable once Validate has succeeded.
type Hierarchy struct {
	classes map[string]*ClassInfo
	order   []string // declaration order, builtins first
}

// NewHierarchy seeds the table with the five builtin classes in their
// fixed tag order, per spec.md §6.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{classes: make(map[string]*ClassInfo)}
	h.addBuiltin("Object", "", TagObject)
	h.addBuiltin("IO", "Object", TagIO)
	h.addBuiltin("Int", "Object", TagInt)
	h.addBuiltin("Bool", "Object", TagBool)
	h.addBuiltin("String", "Object", TagString)
	return h
}

func (h *Hierarchy) addBuiltin(name, parent string, tag int) {
	h.classes[name] = &ClassInfo{Name: name, Parent: parent, Tag: tag}
	h.order = append(h.order, name)
}

// Declare registers a user class with an unresolved parent link (the
// parent's existence and the absence of cycles is checked by Validate).
// Declaring a name that already exists returns an error.
func (h *Hierarchy) Declare(name, parent string) error {
	if _, exists := h.classes[name]; exists {
		return fmt.Errorf("class %s already defined", name)
	}
	h.classes[name] = &ClassInfo{Name: name, Parent: parent, Tag: len(h.order)}
	h.order = append(h.order, name)
	return nil
}

// Lookup returns the ClassInfo for name, or nil if undeclared.
func (h *Hierarchy) Lookup(name string) *ClassInfo {
	return h.classes[name]
}

// Classes returns every declared class in declaration order (builtins
// first), the order codegen relies on for the class-name table.
func (h *Hierarchy) Classes() []*ClassInfo {
	out := make([]*ClassInfo, len(h.order))
	for i, n := range h.order {
		out[i] = h.classes[n]
	}
	return out
}

// Validate resolves every parent pointer, assigns depths, and rejects a
// cyclic hierarchy via DFS colouring (spec.md §4.3 pass 2). It must be
// called once, after every class has been Declare()'d.
func (h *Hierarchy) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(h.classes))
	for name := range h.classes {
		color[name] = white
	}

	var visit func(name string) error
	visit = func(name string) error {
		ci, ok := h.classes[name]
		if !ok {
			return fmt.Errorf("class %s inherits from undeclared class %s", name, name)
		}
		if color[name] == black {
			return nil
		}
		if color[name] == gray {
			return fmt.Errorf("inheritance cycle detected at class %s", name)
		}
		color[name] = gray
		if ci.Parent != "" {
			parent, ok := h.classes[ci.Parent]
			if !ok {
				return fmt.Errorf("class %s inherits from undeclared class %s", name, ci.Parent)
			}
			if err := visit(ci.Parent); err != nil {
				return err
			}
			ci.Depth = parent.Depth + 1
		} else {
			ci.Depth = 0
		}
		color[name] = black
		return nil
	}

	for _, name := range h.order {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// AncestorPath returns name and every ancestor up to and including
// Object, nearest first.
func (h *Hierarchy) AncestorPath(name string) []string {
	var path []string
	for cur := name; cur != ""; {
		path = append(path, cur)
		ci := h.classes[cur]
		if ci == nil {
			break
		}
		cur = ci.Parent
	}
	return path
}

// IsAncestor reports whether ancestor is name or a (transitive) parent
// of name.
func (h *Hierarchy) IsAncestor(ancestor, name string) bool {
	for _, n := range h.AncestorPath(name) {
		if n == ancestor {
			return true
		}
	}
	return false
}
