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

// =============================================================================
// Invocation Strategies
// =============================================================================

// strategy selects how an adapter invokes the benchmark/assert pair. The
// choice is made once per benchmark method at construction.
type strategy int

const (
	// strategyDirect invokes both methods reflectively with the tuple
	// values as-is. Used when no restricted view types are involved.
	strategyDirect strategy = iota

	// strategyBridging converts heap-storable surrogates into restricted
	// view types at the call boundary and passes the identical view values
	// to both methods. Used whenever a parameter or return type implements
	// view.View.
	strategyBridging
)

// String returns "direct" or "bridging".
func (s strategy) String() string {
	if s == strategyBridging {
		return "bridging"
	}
	return "direct"
}

var (
	viewType   = reflect.TypeOf((*view.View)(nil)).Elem()
	charsType  = reflect.TypeOf(view.Chars{})
	elemsType  = reflect.TypeOf(view.Elems{})
	stringType = reflect.TypeOf("")
	bytesType  = reflect.TypeOf([]byte(nil))
)

// =============================================================================
// Call Adapter
// =============================================================================

// Adapter is the single callable unit for one benchmark method: it invokes
// the benchmark, then the paired assert method with the same inputs plus the
// benchmark's result, and reports the assert verdict.
//
// Adapters are synthesized once at harness construction and reused across
// every test case of their method; they hold no per-case state.
type Adapter struct {
	strategy strategy

	// surface holds the heap-storable tuple element types: the benchmark's
	// parameter types with each restricted view replaced by its surrogate.
	surface []reflect.Type

	run func(instance reflect.Value, t Tuple) bool
}

// newAdapter chooses the invocation strategy for the benchmark/assert pair
// and synthesizes the callable. Signature compatibility has already been
// verified by checkSignature.
func newAdapter(suiteName string, bm, am MethodHandle) (*Adapter, error) {
	bridged, err := requiresBridge(suiteName, bm, am)
	if err != nil {
		return nil, err
	}

	surface := make([]reflect.Type, bm.NumIn())
	for i := range surface {
		surface[i] = surrogateType(bm.In(i))
	}

	a := &Adapter{surface: surface}
	if bridged {
		a.strategy = strategyBridging
		a.run = buildBridgeRunner(bm, am)
	} else {
		a.strategy = strategyDirect
		a.run = buildDirectRunner(bm, am)
	}
	return a, nil
}

// Run invokes the benchmark method and the assert method back-to-back on the
// given instance and returns the assert method's verdict.
func (a *Adapter) Run(instance reflect.Value, t Tuple) bool {
	return a.run(instance, t)
}

// surfaceParams returns the tuple element types argument resolution
// validates against.
func (a *Adapter) surfaceParams() []reflect.Type {
	return a.surface
}

// requiresBridge reports whether any parameter or return type of either
// method is a restricted view. A view type that is not one of the two
// supported window kinds fails construction; a lossy conversion would be
// worse than no conversion.
func requiresBridge(suiteName string, bm, am MethodHandle) (bool, error) {
	bridged := false

	examine := func(owner string, t reflect.Type) error {
		if !t.Implements(viewType) {
			return nil
		}
		if t != charsType && t != elemsType {
			return newConfigError(suiteName, owner,
				"unsupported restricted type %s (supported: %s, %s)",
				typeName(t), typeName(charsType), typeName(elemsType))
		}
		bridged = true
		return nil
	}

	for i := 0; i < bm.NumIn(); i++ {
		if err := examine(bm.Name(), bm.In(i)); err != nil {
			return false, err
		}
	}
	if bm.NumOut() == 1 {
		if err := examine(bm.Name(), bm.Out(0)); err != nil {
			return false, err
		}
	}
	for i := 0; i < am.NumIn(); i++ {
		if err := examine(am.Name(), am.In(i)); err != nil {
			return false, err
		}
	}
	return bridged, nil
}

// surrogateType maps a restricted view parameter type to its heap-storable
// surrogate; every other type is its own surface type.
func surrogateType(t reflect.Type) reflect.Type {
	switch t {
	case charsType:
		return stringType
	case elemsType:
		return bytesType
	default:
		return t
	}
}

// buildDirectRunner synthesizes the direct-strategy callable: benchmark and
// assert are invoked reflectively, with the benchmark's result (if any)
// appended to the assert arguments.
func buildDirectRunner(bm, am MethodHandle) func(reflect.Value, Tuple) bool {
	returnsValue := bm.NumOut() == 1

	return func(instance reflect.Value, t Tuple) bool {
		results := bm.Call(instance, t.values)

		args := t.values
		if returnsValue {
			args = make([]reflect.Value, 0, len(t.values)+1)
			args = append(args, t.values...)
			args = append(args, results[0])
		}
		return am.Call(instance, args)[0].Bool()
	}
}
