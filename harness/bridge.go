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

	"github.com/AleutianAI/benchvet/view"
)

// buildBridgeRunner synthesizes the bridging-strategy callable once per
// benchmark method.
//
// The generated closure performs a fixed five-step sequence:
//
//  1. Accept the instance and the tuple in surrogate form (a character
//     window arrives as its backing string, an element window as its
//     backing buffer).
//  2. Convert each surrogate into the real view type, exactly once, at the
//     call boundary.
//  3. Call the benchmark method, retaining the produced view — not a copy —
//     if it returns one.
//  4. Call the assert method passing through the same retained view values.
//  5. Return the assert method's verdict.
//
// Two independent reflective invocations would rebuild the views on each
// side and break any backing-identity assumption the assert method makes;
// the bridge exists to guarantee the exact same view reaches both calls.
// Windows over the same backing memory stay aliased across the boundary, so
// mutations the benchmark makes through an element window are visible to the
// assert method.
func buildBridgeRunner(bm, am MethodHandle) func(reflect.Value, Tuple) bool {
	converters := make([]func(reflect.Value) reflect.Value, bm.NumIn())
	for i := range converters {
		converters[i] = surrogateConverter(bm.In(i))
	}
	returnsValue := bm.NumOut() == 1

	return func(instance reflect.Value, t Tuple) bool {
		real := make([]reflect.Value, len(t.values))
		for i, v := range t.values {
			real[i] = converters[i](v)
		}

		results := bm.Call(instance, real)

		args := real
		if returnsValue {
			args = make([]reflect.Value, 0, len(real)+1)
			args = append(args, real...)
			args = append(args, results[0])
		}
		return am.Call(instance, args)[0].Bool()
	}
}

// surrogateConverter returns the boundary conversion for one parameter
// position. Non-view positions pass through untouched.
func surrogateConverter(param reflect.Type) func(reflect.Value) reflect.Value {
	switch param {
	case charsType:
		return func(v reflect.Value) reflect.Value {
			return reflect.ValueOf(view.CharsOf(v.String()))
		}
	case elemsType:
		return func(v reflect.Value) reflect.Value {
			// Bytes returns the backing buffer, so the window aliases the
			// caller's memory rather than a copy of it.
			return reflect.ValueOf(view.ElemsOf(v.Bytes()))
		}
	default:
		return func(v reflect.Value) reflect.Value {
			return v
		}
	}
}
