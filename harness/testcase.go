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
// Lifecycle Hooks
// =============================================================================

// hookSet holds the optional lifecycle hooks of one suite type, at most one
// of each.
type hookSet struct {
	globalSetup   MethodHandle
	iterSetup     MethodHandle
	iterCleanup   MethodHandle
	globalCleanup MethodHandle
}

// runSetups invokes the global setup hook, then the iteration setup hook.
// The first error stops the sequence.
func (h hookSet) runSetups(instance reflect.Value) error {
	if err := callHook(h.globalSetup, instance); err != nil {
		return err
	}
	return callHook(h.iterSetup, instance)
}

// runCleanups invokes the iteration cleanup hook, then the global cleanup
// hook. Both are attempted even if the first fails, mirroring scoped-
// resource release; the first error wins.
func (h hookSet) runCleanups(instance reflect.Value) error {
	err := callHook(h.iterCleanup, instance)
	if gerr := callHook(h.globalCleanup, instance); err == nil {
		err = gerr
	}
	return err
}

// callHook invokes one hook if declared. Hook signatures were validated at
// discovery: zero parameters, and either no result or a single error.
func callHook(m MethodHandle, instance reflect.Value) error {
	if m == nil {
		return nil
	}
	out := m.Call(instance, nil)
	if len(out) == 1 && !out[0].IsNil() {
		return fmt.Errorf("%s hook: %w", m.Name(), out[0].Interface().(error))
	}
	return nil
}

// =============================================================================
// Test Case
// =============================================================================

// caseState tracks a test case through its fixed execution sequence. The
// transitions are strictly sequential and unconditional except the terminal
// branch.
type caseState int

const (
	caseCreated caseState = iota
	caseInstanceBuilt
	caseSetupRun
	caseAssertInvoked
	caseCleanupRun
	casePassed
	caseFailed
)

// String returns the state name for logs and tests.
func (s caseState) String() string {
	switch s {
	case caseCreated:
		return "Created"
	case caseInstanceBuilt:
		return "InstanceBuilt"
	case caseSetupRun:
		return "SetupRun"
	case caseAssertInvoked:
		return "AssertInvoked"
	case caseCleanupRun:
		return "CleanupRun"
	case casePassed:
		return "Passed"
	case caseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// TestCase is one concrete (parameter assignment × benchmark method ×
// argument tuple) execution unit.
//
// A TestCase is ephemeral: constructed lazily during enumeration, consumed
// once by run, never reused or mutated afterward. Its suite instance is
// exclusive to it for the duration of the run and is discarded once the
// cleanup hooks have executed.
type TestCase struct {
	harness    *TypeHarness
	assignment Assignment
	unit       *benchmarkUnit
	tuple      Tuple
	state      caseState
}

// run drives the case through its sequence:
//
//  1. Create one fresh, default-constructed instance of the suite type.
//  2. Apply every (member, value) pair of the parameter assignment.
//  3. Invoke the global setup hook, then the iteration setup hook.
//  4. Invoke the call adapter with the instance and the argument tuple.
//  5. Invoke iteration cleanup, then global cleanup — unconditionally, even
//     when step 4 reports failure or a setup hook errored mid-case.
//  6. A false adapter verdict is terminal Failed and returns a
//     *CorrectnessError carrying the full reproduction context.
//
// Hook panics propagate unmodified; the deferred cleanup step still runs for
// the case in flight.
func (tc *TestCase) run() (err error) {
	model := tc.harness.model

	instance := reflect.New(model.suiteType)
	tc.state = caseInstanceBuilt

	if aerr := tc.assignment.Apply(instance); aerr != nil {
		tc.state = caseFailed
		return fmt.Errorf("applying parameter assignment to %s: %w", model.suiteName, aerr)
	}

	defer func() {
		cerr := model.hooks.runCleanups(instance)
		tc.state = caseCleanupRun
		if err == nil && cerr != nil {
			err = cerr
		}
		if err == nil {
			tc.state = casePassed
		} else {
			tc.state = caseFailed
		}
	}()

	if herr := model.hooks.runSetups(instance); herr != nil {
		return herr
	}
	tc.state = caseSetupRun

	ok := tc.unit.adapter.Run(instance, tc.tuple)
	tc.state = caseAssertInvoked
	if !ok {
		return &CorrectnessError{
			Suite:  model.suiteName,
			Method: tc.unit.method.Name(),
			Params: tc.assignment.Bindings(),
			Args:   tc.tuple.Interfaces(),
			RunID:  tc.harness.runID,
		}
	}
	return nil
}
