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
)

// =============================================================================
// Invocation Capability Abstraction
// =============================================================================

// FieldHandle is a writable data member of a suite type. The permutation
// engine assigns declaration values through this handle without knowing how
// the member was discovered.
type FieldHandle interface {
	// Name returns the member name.
	Name() string

	// Type returns the member's declared type.
	Type() reflect.Type

	// Set stores value into the member of the given suite instance.
	// instance is a pointer value as produced by newInstance.
	Set(instance reflect.Value, value reflect.Value) error
}

// MethodHandle invokes one suite method generically. Parameter and result
// indices exclude the receiver.
type MethodHandle interface {
	// Name returns the method name.
	Name() string

	// NumIn returns the number of parameters.
	NumIn() int

	// In returns the type of the i-th parameter.
	In(i int) reflect.Type

	// NumOut returns the number of results.
	NumOut() int

	// Out returns the type of the i-th result.
	Out(i int) reflect.Type

	// Call invokes the method on the given suite instance. args must be
	// assignable to the parameter types; the caller guarantees this by
	// construction-time validation.
	Call(instance reflect.Value, args []reflect.Value) []reflect.Value
}

// =============================================================================
// Reflection-Backed Implementations
// =============================================================================

// reflectField implements FieldHandle over a struct field.
type reflectField struct {
	name  string
	typ   reflect.Type
	index []int
}

func (f *reflectField) Name() string { return f.name }

func (f *reflectField) Type() reflect.Type { return f.typ }

func (f *reflectField) Set(instance reflect.Value, value reflect.Value) error {
	fv := instance.Elem().FieldByIndex(f.index)
	if !fv.CanSet() {
		return fmt.Errorf("field %s is not writable", f.name)
	}
	fv.Set(value)
	return nil
}

// reflectMethod implements MethodHandle over a method of the suite's pointer
// type. The receiver slot of the underlying func is hidden from callers.
type reflectMethod struct {
	name string
	fn   reflect.Value
	mt   reflect.Type
}

// methodByName resolves an exported method on the suite's pointer type.
// The pointer method set includes value-receiver methods.
func methodByName(ptrType reflect.Type, name string) (MethodHandle, bool) {
	m, ok := ptrType.MethodByName(name)
	if !ok {
		return nil, false
	}
	return &reflectMethod{name: name, fn: m.Func, mt: m.Type}, true
}

func (m *reflectMethod) Name() string { return m.name }

func (m *reflectMethod) NumIn() int { return m.mt.NumIn() - 1 }

func (m *reflectMethod) In(i int) reflect.Type { return m.mt.In(i + 1) }

func (m *reflectMethod) NumOut() int { return m.mt.NumOut() }

func (m *reflectMethod) Out(i int) reflect.Type { return m.mt.Out(i) }

func (m *reflectMethod) Call(instance reflect.Value, args []reflect.Value) []reflect.Value {
	call := make([]reflect.Value, 0, len(args)+1)
	call = append(call, instance)
	call = append(call, args...)
	return m.fn.Call(call)
}

// =============================================================================
// Type Model
// =============================================================================

// typeModel is the structured result of scanning one suite type for
// declarative markers. It is computed once at harness construction from a
// scratch (unparameterized) instance and is read-only afterwards.
type typeModel struct {
	suiteType reflect.Type
	suiteName string
	decls     []*Declaration
	methods   []*benchmarkMethod
	hooks     hookSet
}

// benchmarkMethod groups one benchmark method with its paired assert method
// and its optional argument markers, all resolved by naming convention.
type benchmarkMethod struct {
	// name is the shared suffix, e.g. "Sort" for BenchmarkSort/AssertSort.
	name string

	method      MethodHandle
	assert      MethodHandle
	argsLiteral MethodHandle // Args<name>, nil if absent
	argsSource  MethodHandle // ArgsSource<name>, nil if absent
}

// errorType is the reflect.Type of the error interface, used to validate
// hook signatures.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// boolType is the reflect.Type of the builtin bool, the only legal assert
// method return type.
var boolType = reflect.TypeOf(false)
