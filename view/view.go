// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package view defines the restricted window types that benchmark and assert
// methods may exchange without copying.
//
// A window is a non-owning view over contiguous memory. Windows are cheap to
// pass by value, but they must not be rebuilt between the benchmark call and
// the assert call: an assert method that checks backing-buffer identity would
// observe two unrelated windows and fail spuriously. The harness therefore
// refuses to route window values through its ordinary reflective call path
// and instead synthesizes a bridge (see the harness package) that converts a
// heap-storable surrogate into a window exactly once at the call boundary:
//
//   - Chars is surrogated by its backing string.
//   - Elems is surrogated by its backing byte buffer.
//
// Any other implementation of View is rejected at harness construction.
package view

// View marks a restricted window type. The harness selects its bridging
// invocation strategy for any benchmark or assert method whose parameter or
// return types implement this interface.
type View interface {
	// RestrictedView is a marker method; it performs no work.
	RestrictedView()
}

// =============================================================================
// Chars: read-only character window
// =============================================================================

// Chars is a read-only window over a backing string.
//
// The zero value is an empty window. Two windows over the same string share
// its backing storage; Chars never copies.
type Chars struct {
	s string
}

// CharsOf returns a window over the whole of s.
func CharsOf(s string) Chars {
	return Chars{s: s}
}

// RestrictedView marks Chars as a restricted window type.
func (c Chars) RestrictedView() {}

// Len returns the number of bytes in the window.
func (c Chars) Len() int {
	return len(c.s)
}

// At returns the byte at index i. It panics if i is out of range, matching
// string indexing semantics.
func (c Chars) At(i int) byte {
	return c.s[i]
}

// Slice returns a sub-window covering [lo, hi). The sub-window shares the
// backing string. It panics if the bounds are invalid.
func (c Chars) Slice(lo, hi int) Chars {
	return Chars{s: c.s[lo:hi]}
}

// String returns the backing string. Because Go strings are immutable this
// is the window's surrogate form, not a copy.
func (c Chars) String() string {
	return c.s
}

// EqualString reports whether the window's contents equal s.
func (c Chars) EqualString(s string) bool {
	return c.s == s
}

// =============================================================================
// Elems: mutable element window
// =============================================================================

// Elems is a mutable window over a backing byte buffer.
//
// Mutations through the window are visible to every other window sharing the
// same backing array, and to the buffer itself. The zero value is an empty
// window.
type Elems struct {
	p []byte
}

// ElemsOf returns a window over the whole of p. The window aliases p; it
// does not copy.
func ElemsOf(p []byte) Elems {
	return Elems{p: p}
}

// RestrictedView marks Elems as a restricted window type.
func (e Elems) RestrictedView() {}

// Len returns the number of elements in the window.
func (e Elems) Len() int {
	return len(e.p)
}

// At returns the element at index i. It panics if i is out of range.
func (e Elems) At(i int) byte {
	return e.p[i]
}

// Set stores v at index i. It panics if i is out of range.
func (e Elems) Set(i int, v byte) {
	e.p[i] = v
}

// Slice returns a sub-window covering [lo, hi). The sub-window aliases the
// same backing array.
func (e Elems) Slice(lo, hi int) Elems {
	return Elems{p: e.p[lo:hi]}
}

// Bytes returns the backing buffer itself, not a copy. This is the window's
// surrogate form.
func (e Elems) Bytes() []byte {
	return e.p
}

// Equal reports whether both windows have identical contents.
func (e Elems) Equal(o Elems) bool {
	if len(e.p) != len(o.p) {
		return false
	}
	for i := range e.p {
		if e.p[i] != o.p[i] {
			return false
		}
	}
	return true
}

// EqualBytes reports whether the window's contents equal b.
func (e Elems) EqualBytes(b []byte) bool {
	return e.Equal(Elems{p: b})
}

// SharesBacking reports whether both windows alias the same backing array
// at the same starting element. Empty windows never share backing.
func (e Elems) SharesBacking(o Elems) bool {
	if len(e.p) == 0 || len(o.p) == 0 {
		return false
	}
	return &e.p[0] == &o.p[0]
}
