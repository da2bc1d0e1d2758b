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
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hookLog records lifecycle hook invocations across test cases. Suite
// instances are fresh per case, so observation has to live outside the suite.
// Tests in this package run sequentially; each test resets the log it uses.
type hookLog struct {
	globalSetup int
	iterSetup   int
	iterCleanup int
	globalClean int
	benchCalls  int
	order       []string
}

func (l *hookLog) reset() { *l = hookLog{} }

var scaleLog hookLog

type scaleSuite struct {
	Factor int `bench:"params=1;2;3"`
}

func (s *scaleSuite) GlobalSetup() { scaleLog.globalSetup++ }

func (s *scaleSuite) IterationSetup() { scaleLog.iterSetup++ }

func (s *scaleSuite) IterationCleanup() { scaleLog.iterCleanup++ }

func (s *scaleSuite) GlobalCleanup() { scaleLog.globalClean++ }

func (s *scaleSuite) ArgsMul() [][]any { return [][]any{{5}, {11}} }

func (s *scaleSuite) BenchmarkMul(n int) int {
	scaleLog.benchCalls++
	return n * s.Factor
}

func (s *scaleSuite) AssertMul(n, out int) bool { return out == n*s.Factor }

func TestHarnessRunCountsAndHookCadence(t *testing.T) {
	scaleLog.reset()

	report, err := Check(&scaleSuite{})
	require.NoError(t, err)

	// 3 parameter values × 1 benchmark × 2 tuples.
	assert.Equal(t, 6, report.Cases)
	assert.Equal(t, map[string]int{"BenchmarkMul": 6}, report.PerMethod)
	assert.Equal(t, "scaleSuite", report.Suite)
	assert.NoError(t, uuid.Validate(report.RunID))

	// Every hook runs once per test case, global hooks included.
	assert.Equal(t, 6, scaleLog.globalSetup)
	assert.Equal(t, 6, scaleLog.iterSetup)
	assert.Equal(t, 6, scaleLog.iterCleanup)
	assert.Equal(t, 6, scaleLog.globalClean)
	assert.Equal(t, 6, scaleLog.benchCalls)
}

func TestHarnessRunIsIdempotent(t *testing.T) {
	scaleLog.reset()

	h, err := New(&scaleSuite{}, WithRunID("fixed-run"))
	require.NoError(t, err)

	first, err := h.Run()
	require.NoError(t, err)
	second, err := h.Run()
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-running resolves nothing new")
	assert.Equal(t, "fixed-run", second.RunID)
	assert.Equal(t, 12, scaleLog.benchCalls, "both runs executed every case")
}

// -----------------------------------------------------------------------------
// Failure semantics
// -----------------------------------------------------------------------------

var faultyLog hookLog

type faultySuite struct {
	Level int `bench:"params=1;2;3"`
}

func (s *faultySuite) IterationCleanup() { faultyLog.iterCleanup++ }

func (s *faultySuite) ArgsProd() [][]any { return [][]any{{2}, {5}} }

func (s *faultySuite) BenchmarkProd(n int) int {
	faultyLog.benchCalls++
	return n * s.Level
}

// AssertProd rejects exactly one combination so the abort point is known.
func (s *faultySuite) AssertProd(n, out int) bool {
	return !(s.Level == 2 && n == 5)
}

func TestHarnessAbortsAtFirstFailure(t *testing.T) {
	faultyLog.reset()

	report, err := Check(&faultySuite{}, WithRunID("abort-run"))
	require.Error(t, err)
	assert.Nil(t, report)

	var ce *CorrectnessError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "faultySuite", ce.Suite)
	assert.Equal(t, "BenchmarkProd", ce.Method)
	assert.Equal(t, []ParamBinding{{Member: "Level", Value: 2}}, ce.Params)
	assert.Equal(t, []any{5}, ce.Args)
	assert.Equal(t, "abort-run", ce.RunID)

	// Enumeration order: Level=1 passes both tuples, Level=2 passes (2) and
	// fails (5). Nothing runs after the failure.
	assert.Equal(t, 4, faultyLog.benchCalls)
	assert.Equal(t, 4, faultyLog.iterCleanup, "cleanup runs for the failing case too")

	assert.Contains(t, err.Error(), "Level=2")
	assert.Contains(t, err.Error(), "(5)")
}

var sickHookLog hookLog

type sickHookSuite struct{}

func (s *sickHookSuite) IterationSetup() error { return errors.New("disk full") }

func (s *sickHookSuite) GlobalCleanup() { sickHookLog.globalClean++ }

func (s *sickHookSuite) BenchmarkNop() int { sickHookLog.benchCalls++; return 0 }

func (s *sickHookSuite) AssertNop(v int) bool { return true }

func TestHarnessSetupHookErrorPropagates(t *testing.T) {
	sickHookLog.reset()

	_, err := Check(&sickHookSuite{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IterationSetup hook: disk full")

	assert.Equal(t, 0, sickHookLog.benchCalls, "benchmark never runs after a setup failure")
	assert.Equal(t, 1, sickHookLog.globalClean, "cleanup still runs for the case in flight")
}

var cleanupOrderLog hookLog

type cleanupOrderSuite struct{}

func (s *cleanupOrderSuite) IterationCleanup() {
	cleanupOrderLog.order = append(cleanupOrderLog.order, "iteration")
}

func (s *cleanupOrderSuite) GlobalCleanup() {
	cleanupOrderLog.order = append(cleanupOrderLog.order, "global")
}

func (s *cleanupOrderSuite) BenchmarkNop() int { return 0 }

func (s *cleanupOrderSuite) AssertNop(v int) bool { return true }

func TestHarnessCleanupOrder(t *testing.T) {
	cleanupOrderLog.reset()

	_, err := Check(&cleanupOrderSuite{})
	require.NoError(t, err)

	assert.Equal(t, []string{"iteration", "global"}, cleanupOrderLog.order)
}

// -----------------------------------------------------------------------------
// Construction failures
// -----------------------------------------------------------------------------

func TestNewRejectsBadPrototypes(t *testing.T) {
	var ce *ConfigError

	_, err := New(nil)
	require.ErrorAs(t, err, &ce)

	_, err = New(42)
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Reason, "must be a struct")
}

func TestNewSurfacesDiscoveryErrors(t *testing.T) {
	_, err := New(&orphanSuite{})
	requireConfigError(t, err, "BenchmarkLonely", "AssertLonely not found")
}

func TestNewSurfacesSignatureErrors(t *testing.T) {
	_, err := New(&lopsidedSuite{})
	requireConfigError(t, err, "AssertGrow", "expected func(int, int) bool")
}

type lopsidedSuite struct{}

func (s *lopsidedSuite) BenchmarkGrow(n int) int { return n + 1 }

func (s *lopsidedSuite) AssertGrow(n int) bool { return true }

// -----------------------------------------------------------------------------
// Method filtering
// -----------------------------------------------------------------------------

type twoBenchSuite struct{}

func (s *twoBenchSuite) BenchmarkAlpha() int { return 1 }

func (s *twoBenchSuite) AssertAlpha(v int) bool { return v == 1 }

func (s *twoBenchSuite) BenchmarkBeta() int { return 2 }

func (s *twoBenchSuite) AssertBeta(v int) bool { return v == 2 }

func TestHarnessMethodFilter(t *testing.T) {
	report, err := Check(&twoBenchSuite{}, WithMethodFilter("Alpha"))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Cases)
	assert.Equal(t, map[string]int{"BenchmarkAlpha": 1}, report.PerMethod)
}

func TestHarnessNoFilterRunsAll(t *testing.T) {
	report, err := Check(&twoBenchSuite{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Cases)
	assert.Contains(t, report.PerMethod, "BenchmarkAlpha")
	assert.Contains(t, report.PerMethod, "BenchmarkBeta")
}

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

func TestHarnessMetricsDeltas(t *testing.T) {
	passBefore := testutil.ToFloat64(testCasesTotal.WithLabelValues("pass"))
	okBefore := testutil.ToFloat64(harnessRunsTotal.WithLabelValues("ok"))

	report, err := Check(&twoBenchSuite{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Cases)

	assert.Equal(t, float64(2), testutil.ToFloat64(testCasesTotal.WithLabelValues("pass"))-passBefore)
	assert.Equal(t, float64(1), testutil.ToFloat64(harnessRunsTotal.WithLabelValues("ok"))-okBefore)
}

func TestHarnessConfigErrorMetric(t *testing.T) {
	before := testutil.ToFloat64(configErrorsTotal)

	_, err := New(&orphanSuite{})
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(configErrorsTotal)-before)
}
