package types

// SelfTypeOf renders the (always contextual) SELF_TYPE as it should be
// compared: SELF_TYPE only ever conforms to or joins with other types in
// the context of the class C it was written in.
func SelfTypeOf(class string) string { return SelfType + "_" + class }

// resolve turns a possibly-contextual type spelling (either a literal
// class name, or the bare "SELF_TYPE") into the self-type-of-C form used
// internally, so conformance and lub never have to special-case the bare
// spelling.
func resolve(t, class string) string {
	if t == SelfType {
		return SelfTypeOf(class)
	}
	return t
}

func classOf(selfOrClass string) (class string, isSelf bool) {
	if len(selfOrClass) > len(SelfType)+1 && selfOrClass[:len(SelfType)+1] == SelfType+"_" {
		return selfOrClass[len(SelfType)+1:], true
	}
	return selfOrClass, false
}

// ClassOf exposes classOf to other packages: it strips a contextual
// SELF_TYPE_C down to C, reporting whether selfOrClass was in that form.
func ClassOf(selfOrClass string) (class string, isSelf bool) { return classOf(selfOrClass) }

// Conforms implements T <= T' under spec.md §3's nominal subtyping
// rules, evaluated in the context of the enclosing class `class`:
//
//	T <= T
//	T <= parent(T) transitively
//	SELF_TYPE_C <= SELF_TYPE_C
//	SELF_TYPE_C <= T iff C <= T
//	T <= SELF_TYPE_* only if T = SELF_TYPE_*
func (h *Hierarchy) Conforms(sub, super, class string) bool {
	sub = resolve(sub, class)
	super = resolve(super, class)

	if sub == super {
		return true
	}

	superClass, superIsSelf := classOf(super)
	if superIsSelf {
		// T <= SELF_TYPE_* only when T IS that exact self type, already
		// handled by the equality check above.
		_ = superClass
		return false
	}

	subClass, _ := classOf(sub)
	return h.IsAncestor(superClass, subClass)
}

// LeastUpperBound computes lub_C(a, b): SELF_TYPE resolves to class
// before the walk (spec.md §3), so the result is always a concrete class
// name, never SELF_TYPE, even when a and b are both SELF_TYPE.
func (h *Hierarchy) LeastUpperBound(a, b, class string) string {
	aClass, _ := classOf(resolve(a, class))
	bClass, _ := classOf(resolve(b, class))

	pathA := h.AncestorPath(aClass)
	setA := make(map[string]bool, len(pathA))
	for _, n := range pathA {
		setA[n] = true
	}
	for _, n := range h.AncestorPath(bClass) {
		if setA[n] {
			return n
		}
	}
	return "Object"
}
