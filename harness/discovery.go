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
	"strconv"
	"strings"
)

// Marker conventions. Parameter declarations live on exported struct fields;
// benchmark methods, assert methods, argument markers, and lifecycle hooks
// are resolved by method name on the suite's pointer type.
const (
	benchTagKey = "bench"

	benchmarkPrefix  = "Benchmark"
	assertPrefix     = "Assert"
	argsPrefix       = "Args"
	argsSourcePrefix = "ArgsSource"
	paramsPrefix     = "Params"

	hookGlobalSetup      = "GlobalSetup"
	hookIterationSetup   = "IterationSetup"
	hookIterationCleanup = "IterationCleanup"
	hookGlobalCleanup    = "GlobalCleanup"
)

// buildModel scans one suite type for declarative markers and returns its
// structured model: parameter declarations, benchmark methods with their
// assert pairings and argument markers, and lifecycle hooks.
//
// Resolution runs against the provided scratch instance, strictly before any
// hook is ever invoked. Every defect found here is a *ConfigError naming the
// implicated member.
func buildModel(suiteType reflect.Type, scratch reflect.Value) (*typeModel, error) {
	model := &typeModel{
		suiteType: suiteType,
		suiteName: suiteType.Name(),
	}
	ptrType := reflect.PointerTo(suiteType)

	if err := scanFields(model, ptrType, scratch); err != nil {
		return nil, err
	}
	if err := scanMethods(model, ptrType); err != nil {
		return nil, err
	}
	if err := scanHooks(model, ptrType); err != nil {
		return nil, err
	}
	return model, nil
}

// =============================================================================
// Field Scan: Parameter Declarations
// =============================================================================

// scanFields resolves one Declaration per marked field, in field order.
//
// A field may carry at most one declaration source: a `bench:"params=..."`
// tag, a `bench:"all"` tag, or a Params<Field> supplier method. More than
// one source on the same field is a configuration error, never silently
// resolved.
func scanFields(model *typeModel, ptrType reflect.Type, scratch reflect.Value) error {
	suiteType := model.suiteType

	for i := 0; i < suiteType.NumField(); i++ {
		f := suiteType.Field(i)

		tagVal, hasTag := f.Tag.Lookup(benchTagKey)
		supplier, hasSupplier := methodByName(ptrType, paramsPrefix+f.Name)

		if !hasTag && !hasSupplier {
			continue
		}
		if f.PkgPath != "" {
			return newConfigError(model.suiteName, f.Name, "parameterized member is not writable (unexported field)")
		}
		if hasTag && hasSupplier {
			return newConfigError(model.suiteName, f.Name,
				"duplicate declaration sources: bench tag and %s%s supplier", paramsPrefix, f.Name)
		}

		var decl *Declaration
		var err error
		switch {
		case hasSupplier:
			decl, err = resolveSupplierValues(model.suiteName, f, supplier, scratch)
		case tagVal == "all":
			decl, err = resolveAllValues(model.suiteName, f)
		case strings.HasPrefix(tagVal, "params="):
			decl, err = resolveLiteralValues(model.suiteName, f, strings.TrimPrefix(tagVal, "params="))
		default:
			return newConfigError(model.suiteName, f.Name,
				"unrecognized bench tag %q (want \"params=v1;v2\" or \"all\")", tagVal)
		}
		if err != nil {
			return err
		}
		model.decls = append(model.decls, decl)
	}
	return nil
}

// resolveLiteralValues parses a fixed value list from a bench tag.
//
// An explicitly empty list ("params=") is legal and becomes a single no-op
// assignment; it is the only way a fixed list may resolve to zero values.
func resolveLiteralValues(suiteName string, f reflect.StructField, raw string) (*Declaration, error) {
	handle := &reflectField{name: f.Name, typ: f.Type, index: f.Index}
	if raw == "" {
		return &Declaration{field: handle, noop: true, source: "tag"}, nil
	}

	parts := strings.Split(raw, ";")
	values := make([]paramValue, 0, len(parts))
	for _, part := range parts {
		rv, err := parseScalar(strings.TrimSpace(part), f.Type)
		if err != nil {
			return nil, newConfigError(suiteName, f.Name, "bad literal value %q: %v", part, err)
		}
		values = append(values, paramValue{rv: rv})
	}
	return &Declaration{field: handle, values: values, source: "tag"}, nil
}

// parseScalar converts one tag token to a value of the field's type.
// Only scalar kinds have a textual literal form.
func parseScalar(token string, typ reflect.Type) (reflect.Value, error) {
	switch typ.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(typ), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(token, 0, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(typ), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(token, 0, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(typ), nil
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(token, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(x).Convert(typ), nil
	case reflect.String:
		return reflect.ValueOf(token).Convert(typ), nil
	default:
		return reflect.Value{}, fmt.Errorf("field kind %s has no literal form; use a %s supplier", typ.Kind(), paramsPrefix)
	}
}

// resolveAllValues resolves a `bench:"all"` tag: every value of a restricted
// value domain. Bool fields enumerate {false, true}; any other field type
// must expose a Values() method returning the complete value slice.
func resolveAllValues(suiteName string, f reflect.StructField) (*Declaration, error) {
	handle := &reflectField{name: f.Name, typ: f.Type, index: f.Index}

	if f.Type.Kind() == reflect.Bool {
		return &Declaration{
			field: handle,
			values: []paramValue{
				{rv: reflect.ValueOf(false).Convert(f.Type)},
				{rv: reflect.ValueOf(true).Convert(f.Type)},
			},
			source: "all",
		}, nil
	}

	enum := reflect.Zero(f.Type).MethodByName("Values")
	if !enum.IsValid() {
		return nil, newConfigError(suiteName, f.Name,
			"bench:\"all\" requires a bool field or a field type with a Values() method")
	}
	et := enum.Type()
	if et.NumIn() != 0 || et.NumOut() != 1 || et.Out(0).Kind() != reflect.Slice ||
		!et.Out(0).Elem().AssignableTo(f.Type) {
		return nil, newConfigError(suiteName, f.Name,
			"%s.Values must take no arguments and return a slice assignable to %s", f.Type, f.Type)
	}

	seq := enum.Call(nil)[0]
	if seq.Len() == 0 {
		return nil, newConfigError(suiteName, f.Name, "%s.Values resolved zero values", f.Type)
	}
	values := make([]paramValue, seq.Len())
	for i := range values {
		values[i] = paramValue{rv: seq.Index(i)}
	}
	return &Declaration{field: handle, values: values, source: "all"}, nil
}

// resolveSupplierValues invokes a Params<Field> supplier once on the scratch
// instance. The supplier must take no arguments and return a non-empty slice
// whose element type is assignable to the field type.
func resolveSupplierValues(suiteName string, f reflect.StructField, supplier MethodHandle, scratch reflect.Value) (*Declaration, error) {
	handle := &reflectField{name: f.Name, typ: f.Type, index: f.Index}

	if supplier.NumIn() != 0 || supplier.NumOut() != 1 ||
		supplier.Out(0).Kind() != reflect.Slice ||
		!supplier.Out(0).Elem().AssignableTo(f.Type) {
		return nil, newConfigError(suiteName, supplier.Name(),
			"parameter supplier must take no arguments and return a slice assignable to %s", f.Type)
	}

	seq := supplier.Call(scratch, nil)[0]
	if seq.Len() == 0 {
		return nil, newConfigError(suiteName, supplier.Name(), "parameter supplier resolved zero values")
	}
	values := make([]paramValue, seq.Len())
	for i := range values {
		values[i] = paramValue{rv: seq.Index(i)}
	}
	return &Declaration{field: handle, values: values, source: "supplier"}, nil
}

// =============================================================================
// Method Scan: Benchmarks, Asserts, Argument Markers
// =============================================================================

// scanMethods pairs every Benchmark<Name> method with its Assert<Name>
// method and picks up the optional Args<Name> / ArgsSource<Name> markers.
//
// reflect reports methods in sorted name order, so the benchmark list is
// deterministic across runs.
func scanMethods(model *typeModel, ptrType reflect.Type) error {
	for i := 0; i < ptrType.NumMethod(); i++ {
		m := ptrType.Method(i)
		if !strings.HasPrefix(m.Name, benchmarkPrefix) || len(m.Name) == len(benchmarkPrefix) {
			continue
		}
		suffix := strings.TrimPrefix(m.Name, benchmarkPrefix)

		bm := &benchmarkMethod{
			name:   suffix,
			method: &reflectMethod{name: m.Name, fn: m.Func, mt: m.Type},
		}

		assert, ok := methodByName(ptrType, assertPrefix+suffix)
		if !ok {
			return newConfigError(model.suiteName, m.Name,
				"assert method %s%s not found", assertPrefix, suffix)
		}
		bm.assert = assert

		if lit, ok := methodByName(ptrType, argsPrefix+suffix); ok {
			if lit.NumIn() != 0 || lit.NumOut() != 1 || lit.Out(0) != reflect.TypeOf([][]any{}) {
				return newConfigError(model.suiteName, lit.Name(),
					"literal argument marker must take no arguments and return [][]any")
			}
			bm.argsLiteral = lit
		}
		if src, ok := methodByName(ptrType, argsSourcePrefix+suffix); ok {
			if src.NumIn() != 0 || src.NumOut() != 1 || src.Out(0).Kind() != reflect.String {
				return newConfigError(model.suiteName, src.Name(),
					"argument source marker must take no arguments and return the source member name as a string")
			}
			bm.argsSource = src
		}

		model.methods = append(model.methods, bm)
	}
	return nil
}

// =============================================================================
// Hook Scan
// =============================================================================

// scanHooks resolves the optional lifecycle hooks. Method names are unique
// per type, so "at most one of each" holds by construction.
func scanHooks(model *typeModel, ptrType reflect.Type) error {
	slots := []struct {
		name string
		dst  *MethodHandle
	}{
		{hookGlobalSetup, &model.hooks.globalSetup},
		{hookIterationSetup, &model.hooks.iterSetup},
		{hookIterationCleanup, &model.hooks.iterCleanup},
		{hookGlobalCleanup, &model.hooks.globalCleanup},
	}

	for _, slot := range slots {
		h, ok := methodByName(ptrType, slot.name)
		if !ok {
			continue
		}
		if h.NumIn() != 0 {
			return newConfigError(model.suiteName, slot.name, "lifecycle hook must take no arguments")
		}
		if h.NumOut() > 1 || (h.NumOut() == 1 && h.Out(0) != errorType) {
			return newConfigError(model.suiteName, slot.name, "lifecycle hook may return nothing or a single error")
		}
		*slot.dst = h
	}
	return nil
}
