// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package harness verifies that benchmark methods compute the result their
// author believes they compute, before those methods are ever timed.
//
// A suite is an ordinary struct. Its benchmark methods are declared by
// naming convention, and every benchmark method is paired with an assert
// method that receives the same inputs plus the benchmark's return value and
// reports a verdict:
//
//	type SortSuite struct {
//	    Size int `bench:"params=16;256;4096"`
//	}
//
//	func (s *SortSuite) ArgsSort() [][]any {
//	    return [][]any{{[]int{3, 1, 2}}, {[]int{9, 8}}}
//	}
//
//	func (s *SortSuite) BenchmarkSort(in []int) []int  { ... }
//	func (s *SortSuite) AssertSort(in, out []int) bool { ... }
//
//	report, err := harness.Check(&SortSuite{})
//
// # Architecture
//
// Construction resolves everything invariant across runs; execution only
// walks the product of what construction resolved:
//
//	┌──────────────────────── TypeHarness ────────────────────────┐
//	│  Space (parameter cross product)                             │
//	│  benchmarkUnit × N:                                          │
//	│    argument tuples  (Args / ArgsSource markers, cached)      │
//	│    Adapter          (direct or bridging, synthesized once)   │
//	└──────────────────────────────────────────────────────────────┘
//	          │ enumerate assignments × units × tuples
//	          ▼
//	TestCase: fresh instance → apply assignment → setup hooks →
//	          adapter (benchmark + assert) → cleanup hooks → verdict
//
// # Declarative markers
//
// Parameter declarations live on exported struct fields, one source per
// field: a `bench:"params=v1;v2"` fixed list, a `bench:"all"` value-domain
// enumeration, or a Params<Field> supplier method. The parameter space is
// the full cross product, enumerated in mixed-radix counter order with the
// first declaration varying fastest.
//
// Benchmark methods are Benchmark<Name>; each requires an Assert<Name>
// method returning bool whose parameter list structurally covers the
// benchmark's parameters plus its return value. Argument tuples come from
// Args<Name> (literal lists) and ArgsSource<Name> (a named sequence member).
// Lifecycle hooks are GlobalSetup, IterationSetup, IterationCleanup, and
// GlobalCleanup; they run once per test case.
//
// # Restricted view types
//
// Methods whose parameters or return values are restricted window types
// (view.Chars, view.Elems) cannot be driven through two independent
// reflective invocations without rebuilding the windows on each side. For
// such methods the harness synthesizes a bridging closure that converts
// heap-storable surrogates at the call boundary and passes the identical
// window values to both the benchmark and the assert method.
//
// # Failure semantics
//
// Configuration defects (duplicate declaration sources, arity mismatches,
// missing or ill-typed assert methods, unsupported restricted types) are
// *ConfigError values raised at construction, before any test case runs.
// The first assert rejection aborts the run with a *CorrectnessError
// carrying the benchmark method, suite name, parameter assignment, and
// argument tuple. Nothing is retried, averaged away, or continued past a
// failure.
//
// This package never measures duration. It proves functional correctness of
// the code that would be timed, in-process, with no persisted state.
package harness
