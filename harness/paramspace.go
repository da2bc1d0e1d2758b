// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package harness

import (
	"reflect"
	"strings"
)

// =============================================================================
// Declarations
// =============================================================================

// Declaration binds one writable suite member to its legal value set.
//
// A declaration is computed once at harness construction from a scratch
// instance; its values are treated as immutable constants for the harness's
// lifetime. Values never depend on setup hooks: resolution completes
// strictly before any hook is invoked, so the ordering cycle between
// parameterization and setup cannot occur by construction.
type Declaration struct {
	field FieldHandle

	// values holds the resolved legal values, in declaration order.
	// Empty only when noop is set.
	values []paramValue

	// noop marks an explicitly empty fixed list. The declaration then
	// contributes a single implicit no-op assignment instead of failing.
	noop bool

	// source names the declaration source ("tag", "all", "supplier") for
	// error messages.
	source string
}

// paramValue is one resolved legal value of a declaration, already converted
// to the member's type at resolution time so Apply never converts.
type paramValue struct {
	rv reflect.Value
}

// Member returns the declared member name.
func (d *Declaration) Member() string {
	return d.field.Name()
}

// width returns the number of counter positions this declaration occupies in
// the mixed-radix counter: the value count, or 1 for a no-op declaration.
func (d *Declaration) width() int {
	if d.noop {
		return 1
	}
	return len(d.values)
}

// binding materializes the assignment of the i-th value.
func (d *Declaration) binding(i int) binding {
	if d.noop {
		return binding{field: d.field, noop: true}
	}
	return binding{field: d.field, rv: d.values[i].rv}
}

// =============================================================================
// Parameter Space
// =============================================================================

// Space owns the ordered parameter declarations of one suite type and
// produces the lazy cross product of value assignments.
//
// Enumeration treats each declaration's value list as a digit of a
// mixed-radix counter with the first declaration as the fastest-incrementing
// digit, so the permutation order is the standard odometer order. The
// sequence is finite, restartable, and side-effect-free: every call to
// Assignments starts over from all-zero indices.
type Space struct {
	decls []*Declaration
}

// newSpace wraps the resolved declarations. Declarations with invalid
// members have already been rejected by discovery.
func newSpace(decls []*Declaration) *Space {
	return &Space{decls: decls}
}

// Size returns the total number of assignments: the product of each
// declaration's width. A space with no declarations has size 1 (the single
// empty assignment).
func (s *Space) Size() int {
	n := 1
	for _, d := range s.decls {
		n *= d.width()
	}
	return n
}

// Declarations returns the declaration count.
func (s *Space) Declarations() int {
	return len(s.decls)
}

// Assignments returns a fresh iterator over every combination of declaration
// values, each combination exactly once.
func (s *Space) Assignments() *AssignmentIterator {
	return &AssignmentIterator{
		space: s,
		idx:   make([]int, len(s.decls)),
	}
}

// =============================================================================
// Assignments
// =============================================================================

// binding is one (member, value) pair of an assignment.
type binding struct {
	field FieldHandle
	rv    reflect.Value
	noop  bool
}

// Assignment is one concrete combination of declaration values, ordered by
// declaration. The empty assignment (no declarations) applies nothing.
type Assignment struct {
	bindings []binding
}

// Apply stores every bound value into the given suite instance. No-op
// bindings leave the member at its default value.
func (a Assignment) Apply(instance reflect.Value) error {
	for _, b := range a.bindings {
		if b.noop {
			continue
		}
		if err := b.field.Set(instance, b.rv); err != nil {
			return err
		}
	}
	return nil
}

// Bindings returns the assignment as reportable (member, value) pairs.
func (a Assignment) Bindings() []ParamBinding {
	out := make([]ParamBinding, len(a.bindings))
	for i, b := range a.bindings {
		pb := ParamBinding{Member: b.field.Name(), Unassigned: b.noop}
		if !b.noop {
			pb.Value = b.rv.Interface()
		}
		out[i] = pb
	}
	return out
}

// String renders the assignment as a member=value list, or "<none>" for the
// empty assignment.
func (a Assignment) String() string {
	if len(a.bindings) == 0 {
		return "<none>"
	}
	parts := make([]string, len(a.bindings))
	for i, b := range a.Bindings() {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// AssignmentIterator walks the mixed-radix counter over a Space. It is not
// safe for concurrent use; create one iterator per enumeration.
type AssignmentIterator struct {
	space *Space
	idx   []int
	done  bool
}

// Next returns the next assignment, or ok == false when the counter has
// overflowed its final digit.
//
// Each emission reads the current index vector, then increments index 0,
// carrying into index 1 on overflow, and so on. A space with zero
// declarations yields exactly one empty assignment.
func (it *AssignmentIterator) Next() (Assignment, bool) {
	if it.done {
		return Assignment{}, false
	}

	bindings := make([]binding, len(it.space.decls))
	for i, d := range it.space.decls {
		bindings[i] = d.binding(it.idx[i])
	}

	// Advance the counter: first declaration is the fastest digit.
	carry := true
	for i := 0; carry && i < len(it.idx); i++ {
		it.idx[i]++
		if it.idx[i] < it.space.decls[i].width() {
			carry = false
		} else {
			it.idx[i] = 0
		}
	}
	if carry {
		// The final digit overflowed; this emission is the last one.
		// Zero declarations overflow immediately after the single
		// empty assignment.
		it.done = true
	}

	return Assignment{bindings: bindings}, true
}
