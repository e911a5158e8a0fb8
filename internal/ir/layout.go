package ir

import (
	"sort"

	"github.com/cwbudde/coolc/internal/semantic"
	"github.com/cwbudde/coolc/internal/types"
)

// methodLabel returns the codegen label for a method declared on class,
// the same "_method_<C>_<m>" spelling spec.md §4.5 uses for both builtin
// and user-defined methods.
func methodLabel(class, method string) string {
	return "_method_" + class + "_" + method
}

// BuildLayouts computes one ClassLayout per declared class (builtins
// included) from the validated hierarchy and flattened feature tables.
// Order follows hierarchy.Classes(), which is declaration order with
// builtins first and fixed tags 0-4, matching the _class_name_table and
// dispatch-table-monotonicity requirements of spec.md §4.5/§8.
func BuildLayouts(h *types.Hierarchy, classes *semantic.ClassTable) []*ClassLayout {
	infos := h.Classes()
	layouts := make([]*ClassLayout, 0, len(infos))
	byName := make(map[string]*ClassLayout, len(infos))

	for _, ci := range infos {
		cf, _ := classes.Get(ci.Name)
		lay := &ClassLayout{
			Name:      ci.Name,
			Parent:    ci.Parent,
			Tag:       ci.Tag,
			Depth:     ci.Depth,
			AttrTypes: make(map[string]string),
		}
		if cf != nil {
			lay.Attrs = append(lay.Attrs, cf.AttrOrder...)
			for n, t := range cf.Attrs {
				lay.AttrTypes[n] = t
			}
		}
		layouts = append(layouts, lay)
		byName[ci.Name] = lay
	}

	// Dispatch tables: inherited slots first (parent's table, overrides
	// replacing the label in place), own new methods appended, matching
	// spec.md §4.5's "inherited order followed by own methods". COOL
	// allows a class to inherit from one declared later in the file, so
	// this must walk parents before children by depth, not by
	// declaration order, or a forward-referenced parent's table would
	// still be empty when its child is processed. Ties broken by
	// declaration order to keep the walk itself deterministic.
	byDepth := append([]*types.ClassInfo(nil), infos...)
	sort.SliceStable(byDepth, func(i, j int) bool { return byDepth[i].Depth < byDepth[j].Depth })
	for _, ci := range byDepth {
		lay := byName[ci.Name]
		cf, _ := classes.Get(ci.Name)
		if cf == nil {
			continue
		}
		var parentSlots []DispSlot
		if p, ok := byName[ci.Parent]; ok {
			parentSlots = p.DispTable
		}
		seen := make(map[string]int, len(parentSlots))
		for i, s := range parentSlots {
			lay.DispTable = append(lay.DispTable, s)
			seen[s.Method] = i
		}
		// Own/overriding methods in MethodOrder (declaration order), not
		// Methods map order, so the emitted dispatch table is
		// reproducible (spec.md §8's codegen-determinism property).
		for _, name := range cf.MethodOrder {
			sig := cf.Methods[name]
			label := methodLabel(sig.DeclClass, name)
			if idx, ok := seen[name]; ok {
				lay.DispTable[idx].Label = label
				continue
			}
			seen[name] = len(lay.DispTable)
			lay.DispTable = append(lay.DispTable, DispSlot{Method: name, Label: label})
		}
	}

	return layouts
}
