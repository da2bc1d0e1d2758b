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

	"github.com/AleutianAI/benchvet/pkg/validation"
)

// =============================================================================
// Argument Tuples
// =============================================================================

// Tuple is one ordered, fixed-arity argument list for a benchmark method. A
// zero-length tuple represents a zero-argument call.
//
// Tuples are resolved once per benchmark method at harness construction and
// cached; they are read-only afterwards. Values are kept in surface form:
// restricted view parameters hold their heap-storable surrogates, converted
// by the adapter at the call boundary.
type Tuple struct {
	values []reflect.Value
	report []any
}

// Len returns the argument count.
func (t Tuple) Len() int {
	return len(t.values)
}

// Interfaces returns the reportable argument values.
func (t Tuple) Interfaces() []any {
	out := make([]any, len(t.report))
	copy(out, t.report)
	return out
}

// String renders the tuple as "(a, b)" or "()" for a zero-argument call.
func (t Tuple) String() string {
	return formatArgs(t.report)
}

// =============================================================================
// Resolution
// =============================================================================

// resolveArguments decides the argument tuples of one benchmark method.
//
// Rules:
//   - Zero parameters: any argument marker present is ignored and the single
//     empty tuple is yielded. This is a documented compatibility choice, not
//     a bug; preserve it.
//   - One or more parameters: every literal list from Args<Name> becomes one
//     tuple (arity must match), then the ArgsSource<Name> sequence is
//     appended, decomposed per arity. Resolving zero tuples overall is a
//     configuration error, never an empty run.
//
// Resolution runs once, against the scratch instance, before any
// parameterization is applied; argument markers may not depend on parameter
// values or setup hooks.
func resolveArguments(model *typeModel, bm *benchmarkMethod, surface []reflect.Type, scratch reflect.Value) ([]Tuple, error) {
	paramCount := bm.method.NumIn()
	if paramCount == 0 {
		return []Tuple{{}}, nil
	}

	var tuples []Tuple

	if bm.argsLiteral != nil {
		lists := bm.argsLiteral.Call(scratch, nil)[0].Interface().([][]any)
		for i, list := range lists {
			if len(list) != paramCount {
				return nil, newConfigError(model.suiteName, bm.argsLiteral.Name(),
					"tuple %d has %d values, %s takes %d parameters", i, len(list), bm.method.Name(), paramCount)
			}
			tp, err := makeTuple(model.suiteName, bm.argsLiteral.Name(), list, surface)
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, tp)
		}
	}

	if bm.argsSource != nil {
		supplied, err := resolveSourceTuples(model, bm, surface, scratch)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, supplied...)
	}

	if len(tuples) == 0 {
		return nil, newConfigError(model.suiteName, bm.method.Name(),
			"takes %d parameters but resolved no argument tuples; declare %s%s or %s%s",
			paramCount, argsPrefix, bm.name, argsSourcePrefix, bm.name)
	}
	return tuples, nil
}

// resolveSourceTuples invokes the named argument-source member once and
// decomposes its sequence into tuples.
//
// With exactly one parameter each sequence element becomes a one-element
// tuple; the element is never decomposed further, even if it is itself a
// sequence. With more than one parameter each element must be a slice or
// array (not a string) whose length equals the parameter count.
func resolveSourceTuples(model *typeModel, bm *benchmarkMethod, surface []reflect.Type, scratch reflect.Value) ([]Tuple, error) {
	paramCount := bm.method.NumIn()

	rawName := bm.argsSource.Call(scratch, nil)[0].String()
	name, err := validation.SanitizeIdentifier(rawName)
	if err != nil {
		return nil, newConfigError(model.suiteName, bm.argsSource.Name(),
			"bad argument source name: %v", err)
	}

	src, ok := methodByName(reflect.PointerTo(model.suiteType), name)
	if !ok {
		return nil, newConfigError(model.suiteName, bm.argsSource.Name(),
			"argument source %s does not resolve to a method on %s", name, model.suiteName)
	}
	if src.NumIn() != 0 || src.NumOut() != 1 ||
		(src.Out(0).Kind() != reflect.Slice && src.Out(0).Kind() != reflect.Array) {
		return nil, newConfigError(model.suiteName, name,
			"argument source must take no arguments and return a sequence")
	}

	seq := src.Call(scratch, nil)[0]
	tuples := make([]Tuple, 0, seq.Len())
	for j := 0; j < seq.Len(); j++ {
		elem := seq.Index(j)
		if elem.Kind() == reflect.Interface && !elem.IsNil() {
			elem = elem.Elem()
		}

		if paramCount == 1 {
			var raw any
			if elem.IsValid() && elem.Kind() != reflect.Interface {
				raw = elem.Interface()
			}
			tp, err := makeTuple(model.suiteName, name, []any{raw}, surface)
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, tp)
			continue
		}

		if elem.Kind() == reflect.String {
			return nil, newConfigError(model.suiteName, name,
				"element %d is a string; %s takes %d parameters and needs a sequence per element",
				j, bm.method.Name(), paramCount)
		}
		if elem.Kind() != reflect.Slice && elem.Kind() != reflect.Array {
			return nil, newConfigError(model.suiteName, name,
				"element %d is %s, not a sequence of %d values", j, elem.Kind(), paramCount)
		}
		if elem.Len() != paramCount {
			return nil, newConfigError(model.suiteName, name,
				"element %d has %d values, %s takes %d parameters", j, elem.Len(), bm.method.Name(), paramCount)
		}

		raw := make([]any, paramCount)
		for k := 0; k < paramCount; k++ {
			inner := elem.Index(k)
			if inner.Kind() == reflect.Interface && !inner.IsNil() {
				inner = inner.Elem()
			}
			if inner.IsValid() && inner.Kind() != reflect.Interface {
				raw[k] = inner.Interface()
			}
		}
		tp, err := makeTuple(model.suiteName, name, raw, surface)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tp)
	}
	return tuples, nil
}

// makeTuple validates raw values against the surface parameter types and
// freezes them into an invocable tuple.
func makeTuple(suiteName, marker string, raw []any, surface []reflect.Type) (Tuple, error) {
	values := make([]reflect.Value, len(raw))
	report := make([]any, len(raw))
	for i, r := range raw {
		rv, err := coerceArgument(r, surface[i])
		if err != nil {
			return Tuple{}, newConfigError(suiteName, marker, "argument %d: %v", i, err)
		}
		values[i] = rv
		report[i] = r
	}
	return Tuple{values: values, report: report}, nil
}

// coerceArgument converts one raw argument to the surface parameter type.
// Only assignability is accepted; silent numeric conversion would mask
// declaration mistakes.
func coerceArgument(raw any, want reflect.Type) (reflect.Value, error) {
	if raw == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", typeName(want))
		}
	}
	rv := reflect.ValueOf(raw)
	if !rv.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", typeName(rv.Type()), typeName(want))
	}
	return rv, nil
}
