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
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeField satisfies FieldHandle without a backing struct, so the counter
// logic can be tested in isolation from discovery.
type fakeField struct {
	name string
}

func (f *fakeField) Name() string { return f.name }

func (f *fakeField) Type() reflect.Type { return reflect.TypeOf(0) }

func (f *fakeField) Set(instance reflect.Value, value reflect.Value) error { return nil }

// intDecl builds a Declaration over the given int values.
func intDecl(name string, values ...int) *Declaration {
	d := &Declaration{field: &fakeField{name: name}, source: "tag"}
	for _, v := range values {
		d.values = append(d.values, paramValue{rv: reflect.ValueOf(v)})
	}
	return d
}

// collect drains an iterator into assignment strings.
func collect(t *testing.T, s *Space) []string {
	t.Helper()
	var out []string
	it := s.Assignments()
	for {
		a, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, a.String())
	}
}

func TestSpaceOdometerOrder(t *testing.T) {
	// First declaration is the fastest-incrementing digit.
	s := newSpace([]*Declaration{
		intDecl("A", 1, 2),
		intDecl("B", 10, 20, 30),
	})

	want := []string{
		"A=1, B=10",
		"A=2, B=10",
		"A=1, B=20",
		"A=2, B=20",
		"A=1, B=30",
		"A=2, B=30",
	}
	assert.Equal(t, want, collect(t, s))
	assert.Equal(t, 6, s.Size())
}

func TestSpaceProductCountAndDistinctness(t *testing.T) {
	widths := [][]int{
		{1},
		{3},
		{2, 3},
		{2, 3, 4},
		{5, 1, 2},
	}

	for _, ws := range widths {
		t.Run(fmt.Sprintf("widths=%v", ws), func(t *testing.T) {
			var decls []*Declaration
			wantSize := 1
			for i, w := range ws {
				vals := make([]int, w)
				for j := range vals {
					vals[j] = j
				}
				decls = append(decls, intDecl(fmt.Sprintf("F%d", i), vals...))
				wantSize *= w
			}

			got := collect(t, newSpace(decls))
			require.Len(t, got, wantSize)

			seen := make(map[string]bool, len(got))
			for _, a := range got {
				assert.False(t, seen[a], "duplicate assignment %s", a)
				seen[a] = true
			}
		})
	}
}

func TestSpaceZeroDeclarations(t *testing.T) {
	s := newSpace(nil)

	assert.Equal(t, 1, s.Size())
	got := collect(t, s)
	require.Len(t, got, 1, "zero declarations must yield exactly one empty assignment")
	assert.Equal(t, "<none>", got[0])
}

func TestSpaceRestartable(t *testing.T) {
	s := newSpace([]*Declaration{
		intDecl("A", 1, 2, 3),
		intDecl("B", 4, 5),
	})

	first := collect(t, s)
	second := collect(t, s)
	assert.Equal(t, first, second, "each Assignments call must start over")
}

func TestSpaceNoopDeclaration(t *testing.T) {
	noop := &Declaration{field: &fakeField{name: "Empty"}, noop: true, source: "tag"}
	s := newSpace([]*Declaration{
		intDecl("A", 1, 2),
		noop,
	})

	// The no-op declaration contributes exactly one counter position.
	assert.Equal(t, 2, s.Size())
	got := collect(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, "A=1, Empty=<unassigned>", got[0])
	assert.Equal(t, "A=2, Empty=<unassigned>", got[1])
}

func TestAssignmentApply(t *testing.T) {
	type target struct {
		N int
		S string
	}
	tt := reflect.TypeOf(target{})

	a := Assignment{bindings: []binding{
		{field: &reflectField{name: "N", typ: tt.Field(0).Type, index: []int{0}}, rv: reflect.ValueOf(42)},
		{field: &reflectField{name: "S", typ: tt.Field(1).Type, index: []int{1}}, rv: reflect.ValueOf("x")},
	}}

	instance := reflect.New(tt)
	require.NoError(t, a.Apply(instance))

	got := instance.Elem().Interface().(target)
	assert.Equal(t, target{N: 42, S: "x"}, got)
}
