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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/benchvet/pkg/logging"
)

// CLI exit codes.
const (
	CLIExitSuccess = 0
	CLIExitError   = 1
)

// --- Global Command Variables ---
var (
	logLevel string
	logJSON  bool
	logDir   string
	quiet    bool

	filterSubstr string
	runID        string
	jsonOutput   bool

	// logger is the process-wide logger, built in PersistentPreRunE.
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "benchvet",
		Short: "Correctness pre-checks for benchmark suites",
		Long: `benchvet verifies that benchmark methods compute the result their
author believes they compute, before those methods are ever timed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(logging.Config{
				Level:   level,
				LogDir:  logDir,
				Service: "benchvet",
				JSON:    logJSON,
				Quiet:   quiet,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				if err := logger.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
				}
			}
		},
	}

	selfcheckCmd = &cobra.Command{
		Use:   "selfcheck",
		Short: "Run the built-in correctness suites",
		Long: `Runs the harness against built-in suites covering both invocation
strategies (direct and bridging). A passing selfcheck means the
installation can enumerate parameter spaces, synthesize call adapters,
and report correctness failures.`,
		RunE: runSelfcheck, // Defined in cmd_selfcheck.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit stderr logs as JSON")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Also write JSON logs to this directory")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress stderr logging")

	selfcheckCmd.Flags().StringVar(&filterSubstr, "filter", "", "Only run benchmark methods whose name contains this substring")
	selfcheckCmd.Flags().StringVar(&runID, "run-id", "", "Fix the run identifier instead of generating one")
	selfcheckCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(selfcheckCmd)
}
