// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command benchvet runs benchmark correctness pre-checks.
//
// The selfcheck command drives the harness against built-in suites covering
// both invocation strategies, which doubles as a smoke test of a benchvet
// installation:
//
//	benchvet selfcheck
//	benchvet selfcheck --filter Hash --json
//	benchvet selfcheck --log-level debug --log-dir ~/.benchvet/logs
//
// Exit codes:
//
//   - 0: all correctness checks passed
//   - 1: a correctness check failed or a suite was misconfigured
package main

import (
	"os"
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments and
	// printing command errors.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(CLIExitError)
	}
}
