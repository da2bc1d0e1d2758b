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
	"strings"
)

// =============================================================================
// Configuration Errors
// =============================================================================

// ConfigError reports a defect in a suite's declarations, detected at harness
// construction before any test case runs.
//
// Configuration errors are fatal: they indicate a suite that cannot be
// meaningfully run at all (duplicate parameter sources, arity mismatches,
// missing assert methods, unsupported restricted types). None are recovered
// or retried.
type ConfigError struct {
	// Suite is the name of the suite type under check.
	Suite string

	// Member is the implicated field or method name. Empty when the defect
	// concerns the suite type as a whole.
	Member string

	// Reason describes the defect.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("benchvet: invalid suite %s: %s", e.Suite, e.Reason)
	}
	return fmt.Sprintf("benchvet: invalid suite %s: %s: %s", e.Suite, e.Member, e.Reason)
}

// newConfigError builds a ConfigError for the given suite member.
func newConfigError(suite, member, format string, args ...any) *ConfigError {
	return &ConfigError{
		Suite:  suite,
		Member: member,
		Reason: fmt.Sprintf(format, args...),
	}
}

// =============================================================================
// Correctness Failures
// =============================================================================

// ParamBinding is one (member, value) pair of a parameter assignment, kept in
// declaration order for failure reporting.
type ParamBinding struct {
	// Member is the parameterized field name.
	Member string

	// Value is the assigned value. Nil with Unassigned set means the
	// declaration was an explicitly empty fixed list (no-op assignment).
	Value any

	// Unassigned marks the implicit no-op assignment of an explicitly
	// empty fixed list.
	Unassigned bool
}

// String returns "Member=value" or "Member=<unassigned>".
func (b ParamBinding) String() string {
	if b.Unassigned {
		return b.Member + "=<unassigned>"
	}
	return fmt.Sprintf("%s=%v", b.Member, b.Value)
}

// CorrectnessError reports the first assert method that returned false. It
// carries the full reproduction context: the benchmark method, the owning
// suite type, the parameter assignment, and the argument tuple.
//
// A correctness failure aborts the run for its suite; no further test cases
// execute after it.
type CorrectnessError struct {
	// Suite is the name of the suite type under check.
	Suite string

	// Method is the failing benchmark method name (e.g. "BenchmarkSort").
	Method string

	// Params is the parameter assignment in declaration order.
	Params []ParamBinding

	// Args is the argument tuple the benchmark was invoked with, empty for
	// a zero-argument call. Restricted view parameters appear in their
	// surrogate form.
	Args []any

	// RunID identifies the harness run that produced the failure.
	RunID string
}

// Error implements the error interface. The message names the benchmark
// method, the owning suite, and the exact combination that failed.
func (e *CorrectnessError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "benchvet: correctness check failed: %s.%s returned a value its assert method rejected", e.Suite, e.Method)
	sb.WriteString(" [params: ")
	sb.WriteString(formatParams(e.Params))
	sb.WriteString("; args: ")
	sb.WriteString(formatArgs(e.Args))
	if e.RunID != "" {
		sb.WriteString("; run_id: ")
		sb.WriteString(e.RunID)
	}
	sb.WriteString("]")
	return sb.String()
}

// formatParams renders a member=value list, or "<none>" for the empty
// assignment.
func formatParams(params []ParamBinding) string {
	if len(params) == 0 {
		return "<none>"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// formatArgs renders an argument tuple as "(a, b)" or "()" for a
// zero-argument call.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return "()"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
