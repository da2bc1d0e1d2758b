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
	"log/slog"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// Type Harness
// =============================================================================

// TypeHarness owns one suite type: its parameter space, its benchmark units,
// and its lifecycle hooks.
//
// Construction resolves everything that is invariant across runs — parameter
// declarations, argument tuples, signature checks, call adapters — from a
// scratch instance, strictly before any hook is ever invoked. The resolved
// state is read-only afterwards, so a harness may be run any number of times
// without re-resolution and always produces the same enumeration.
//
// Execution is single-threaded and strictly sequential: one test case at a
// time, stopping at the first failure. There is no timeout semantic; a hang
// in user setup, benchmark, or assert code hangs the run. The harness is an
// in-process correctness pre-check, not a sandbox.
type TypeHarness struct {
	model  *typeModel
	space  *Space
	units  []*benchmarkUnit
	logger *slog.Logger
	runID  string
	filter string
}

// benchmarkUnit groups one benchmark method with its resolved argument
// tuples and its synthesized call adapter. Built once per declared benchmark
// method at harness construction.
type benchmarkUnit struct {
	name    string
	method  MethodHandle
	adapter *Adapter
	tuples  []Tuple
}

// Report summarizes a fully successful run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string

	// Suite is the checked suite type name.
	Suite string

	// Cases is the total number of test cases executed.
	Cases int

	// PerMethod maps each benchmark method name to its case count.
	PerMethod map[string]int
}

// =============================================================================
// Options
// =============================================================================

// Option configures a TypeHarness.
type Option func(*TypeHarness)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *TypeHarness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRunID fixes the run identifier instead of generating one. Useful for
// correlating harness logs with an outer system's trace IDs.
func WithRunID(id string) Option {
	return func(h *TypeHarness) {
		h.runID = id
	}
}

// WithMethodFilter restricts execution to benchmark methods whose name
// (without the Benchmark prefix) contains substr. Filtering happens at
// enumeration and never changes hook cadence for the cases that do run.
func WithMethodFilter(substr string) Option {
	return func(h *TypeHarness) {
		h.filter = substr
	}
}

// =============================================================================
// Construction
// =============================================================================

// New builds a TypeHarness for the suite prototype.
//
// prototype carries only the type; every test case runs against its own
// fresh, default-constructed instance. Pass a pointer to a zero value:
//
//	h, err := harness.New(&SortSuite{})
//
// All configuration errors surface here, before any test case runs, as
// *ConfigError values naming the implicated member or method.
func New(prototype any, opts ...Option) (*TypeHarness, error) {
	suiteType, err := suiteTypeOf(prototype)
	if err != nil {
		configErrorsTotal.Inc()
		return nil, err
	}

	// Scratch instance for resolution. Declarations and argument tuples are
	// computed from it before any hook runs, which is what breaks the
	// ordering cycle between parameterization and setup.
	scratch := reflect.New(suiteType)

	model, err := buildModel(suiteType, scratch)
	if err != nil {
		configErrorsTotal.Inc()
		return nil, err
	}

	h := &TypeHarness{
		model:  model,
		space:  newSpace(model.decls),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.runID == "" {
		h.runID = uuid.NewString()
	}

	for _, bm := range model.methods {
		if err := checkSignature(model.suiteName, bm.method, bm.assert); err != nil {
			configErrorsTotal.Inc()
			return nil, err
		}
		adapter, err := newAdapter(model.suiteName, bm.method, bm.assert)
		if err != nil {
			configErrorsTotal.Inc()
			return nil, err
		}
		tuples, err := resolveArguments(model, bm, adapter.surfaceParams(), scratch)
		if err != nil {
			configErrorsTotal.Inc()
			return nil, err
		}
		h.units = append(h.units, &benchmarkUnit{
			name:    bm.name,
			method:  bm.method,
			adapter: adapter,
			tuples:  tuples,
		})
	}

	return h, nil
}

// suiteTypeOf derives the struct type from a prototype value or pointer.
func suiteTypeOf(prototype any) (reflect.Type, error) {
	if prototype == nil {
		return nil, newConfigError("<nil>", "", "suite prototype is nil")
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, newConfigError(t.String(), "", "suite prototype must be a struct or pointer to struct")
	}
	return t, nil
}

// =============================================================================
// Execution
// =============================================================================

// Run executes all correctness checks for the suite type, sequentially, and
// stops at the first failure.
//
// Enumeration nests parameter assignments outermost, then benchmark units,
// then each unit's argument tuples, so lifecycle hooks run once per test
// case — a deliberate divergence from a timing harness's amortized hook
// cadence, because correctness checks must be hermetic per scenario.
//
// On full success Run returns a Report. On the first assert rejection it
// returns a *CorrectnessError with the exact failing combination; hook
// errors propagate as-is. No test case executes after a failure.
func (h *TypeHarness) Run() (*Report, error) {
	report := &Report{
		RunID:     h.runID,
		Suite:     h.model.suiteName,
		PerMethod: make(map[string]int),
	}
	logger := h.logger.With(
		slog.String("run_id", h.runID),
		slog.String("suite", h.model.suiteName),
	)
	logger.Debug("starting correctness checks",
		slog.Int("assignments", h.space.Size()),
		slog.Int("benchmarks", len(h.units)),
	)

	it := h.space.Assignments()
	for {
		assignment, ok := it.Next()
		if !ok {
			break
		}
		for _, unit := range h.units {
			if h.filter != "" && !strings.Contains(unit.name, h.filter) {
				continue
			}
			for _, tuple := range unit.tuples {
				tc := &TestCase{
					harness:    h,
					assignment: assignment,
					unit:       unit,
					tuple:      tuple,
				}
				if err := tc.run(); err != nil {
					testCasesTotal.WithLabelValues("fail").Inc()
					harnessRunsTotal.WithLabelValues("failed").Inc()
					logger.Error("correctness check failed",
						slog.String("benchmark", unit.method.Name()),
						slog.String("params", assignment.String()),
						slog.String("args", tuple.String()),
						slog.String("error", err.Error()),
					)
					return nil, err
				}
				testCasesTotal.WithLabelValues("pass").Inc()
				report.Cases++
				report.PerMethod[unit.method.Name()]++
			}
		}
	}

	harnessRunsTotal.WithLabelValues("ok").Inc()
	logger.Info("correctness checks passed", slog.Int("cases", report.Cases))
	return report, nil
}

// Check is the single entry point for external callers: build the harness
// for prototype and run all correctness checks for its type. It returns
// normally on full success and a distinguishable error otherwise.
func Check(prototype any, opts ...Option) (*Report, error) {
	h, err := New(prototype, opts...)
	if err != nil {
		return nil, err
	}
	return h.Run()
}
