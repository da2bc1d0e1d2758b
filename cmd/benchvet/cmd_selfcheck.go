// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/benchvet/harness"
)

// =============================================================================
// OPTIONS
// =============================================================================

// selfcheckOptions bundles the selfcheck flags for validation before any
// suite runs.
type selfcheckOptions struct {
	// Filter restricts execution to benchmark methods whose name contains
	// the substring.
	Filter string `validate:"omitempty,max=128"`

	// RunID correlates harness logs with an outer system's trace IDs.
	RunID string `validate:"omitempty,max=128,excludesall= "`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================
// SELFCHECK COMMAND
// =============================================================================

// runSelfcheck is the CLI handler for the "benchvet selfcheck" command.
//
// It runs the harness against the built-in suites, one per invocation
// strategy, and prints one report per suite. The first failing suite aborts
// the command.
//
// # Exit Codes
//
//   - 0: all suites passed
//   - 1: a correctness check failed, a suite was misconfigured, or the
//     flags were invalid
func runSelfcheck(cmd *cobra.Command, args []string) error {
	opts := selfcheckOptions{Filter: filterSubstr, RunID: runID}
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid selfcheck flags: %w", err)
	}

	harnessOpts := []harness.Option{harness.WithLogger(logger.Slog())}
	if opts.Filter != "" {
		harnessOpts = append(harnessOpts, harness.WithMethodFilter(opts.Filter))
	}
	if opts.RunID != "" {
		harnessOpts = append(harnessOpts, harness.WithRunID(opts.RunID))
	}

	suites := []any{
		&checksumSuite{},
		&windowSuite{},
	}

	for _, suite := range suites {
		report, err := harness.Check(suite, harnessOpts...)
		if err != nil {
			return err
		}
		if err := printReport(report); err != nil {
			return err
		}
	}
	return nil
}

// printReport writes one suite report to stdout.
func printReport(report *harness.Report) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("suite %s: %d cases passed (run %s)\n", report.Suite, report.Cases, report.RunID)
	for method, cases := range report.PerMethod {
		fmt.Printf("  %-24s %d\n", method, cases)
	}
	return nil
}
