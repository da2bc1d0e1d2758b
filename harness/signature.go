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

// checkSignature decides structural compatibility between a benchmark method
// and its paired assert method, once at discovery.
//
// Let B be the benchmark's parameter types, R its return type (possibly
// absent), and A the assert method's parameter types:
//
//   - R absent:  len(A) == len(B) and each B[i] is assignable to A[i].
//   - R present: len(A) == len(B)+1, each B[i] is assignable to A[i], and R
//     is assignable to A[len(B)].
//
// The assert method must return exactly bool. The check is purely
// structural, never executed against real values; it exists to fail fast at
// construction instead of surfacing a confusing call-site mismatch later.
func checkSignature(suiteName string, bm MethodHandle, am MethodHandle) error {
	if bm.NumOut() > 1 {
		return newConfigError(suiteName, bm.Name(),
			"benchmark method must return at most one value, got %d", bm.NumOut())
	}
	if am.NumOut() != 1 || am.Out(0) != boolType {
		return newConfigError(suiteName, am.Name(),
			"assert method must return exactly bool")
	}

	wantParams := bm.NumIn()
	hasResult := bm.NumOut() == 1
	if hasResult {
		wantParams++
	}
	if am.NumIn() != wantParams {
		return signatureMismatch(suiteName, bm, am)
	}

	for i := 0; i < bm.NumIn(); i++ {
		if !bm.In(i).AssignableTo(am.In(i)) {
			return signatureMismatch(suiteName, bm, am)
		}
	}
	if hasResult && !bm.Out(0).AssignableTo(am.In(am.NumIn()-1)) {
		return signatureMismatch(suiteName, bm, am)
	}
	return nil
}

// signatureMismatch builds the configuration error naming the parameter list
// the assert method was expected to have.
func signatureMismatch(suiteName string, bm MethodHandle, am MethodHandle) error {
	return newConfigError(suiteName, am.Name(),
		"assert method signature does not cover %s; expected func(%s) bool",
		bm.Name(), expectedAssertParams(bm))
}

// expectedAssertParams renders the benchmark's parameter types followed by
// its return type, the exact parameter list a compatible assert method takes.
func expectedAssertParams(bm MethodHandle) string {
	var parts []string
	for i := 0; i < bm.NumIn(); i++ {
		parts = append(parts, typeName(bm.In(i)))
	}
	if bm.NumOut() == 1 {
		parts = append(parts, typeName(bm.Out(0)))
	}
	return strings.Join(parts, ", ")
}

// typeName renders a type for error messages, preferring the package-
// qualified form reflect provides.
func typeName(t reflect.Type) string {
	if s := t.String(); s != "" {
		return s
	}
	return t.Kind().String()
}
