package types

import "testing"

func buildCons(t *testing.T) *Hierarchy {
	t.Helper()
	h := NewHierarchy()
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(h.Declare("A", "Object"))
	must(h.Declare("B", "A"))
	must(h.Declare("C", "A"))
	if err := h.Validate(); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestConformsTransitive(t *testing.T) {
	h := buildCons(t)
	if !h.Conforms("B", "Object", "B") {
		t.Fatalf("B should conform to Object transitively")
	}
	if h.Conforms("B", "C", "B") {
		t.Fatalf("B should not conform to sibling C")
	}
	if !h.Conforms("B", "B", "B") {
		t.Fatalf("B should conform to itself")
	}
}

func TestConformsSelfType(t *testing.T) {
	h := buildCons(t)
	if !h.Conforms(SelfType, "A", "B") {
		t.Fatalf("SELF_TYPE_B should conform to A since B <= A")
	}
	if h.Conforms("A", SelfType, "B") {
		t.Fatalf("A should not conform to SELF_TYPE_B")
	}
	if !h.Conforms(SelfType, SelfType, "B") {
		t.Fatalf("SELF_TYPE_B should conform to SELF_TYPE_B")
	}
}

func TestLeastUpperBound(t *testing.T) {
	h := buildCons(t)
	if got := h.LeastUpperBound("B", "C", "B"); got != "A" {
		t.Fatalf("lub(B,C) = %s, want A", got)
	}
	if got := h.LeastUpperBound(SelfType, SelfType, "B"); got != "B" {
		t.Fatalf("lub_B(SELF_TYPE, SELF_TYPE) = %s, want B", got)
	}
}

func TestCycleDetected(t *testing.T) {
	h := NewHierarchy()
	if err := h.Declare("X", "Y"); err != nil {
		t.Fatal(err)
	}
	if err := h.Declare("Y", "X"); err != nil {
		t.Fatal(err)
	}
	if err := h.Validate(); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestBuiltinTagsFixed(t *testing.T) {
	h := NewHierarchy()
	want := map[string]int{"Object": TagObject, "IO": TagIO, "Int": TagInt, "Bool": TagBool, "String": TagString}
	for name, tag := range want {
		if ci := h.Lookup(name); ci == nil || ci.Tag != tag {
			t.Fatalf("%s: expected tag %d, got %+v", name, tag, ci)
		}
	}
}
