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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// testCasesTotal counts executed test cases by result.
	testCasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "benchvet_testcases_total",
		Help: "Test cases executed by the harness, labeled by result (pass/fail).",
	}, []string{"result"})

	// harnessRunsTotal counts completed harness runs by outcome.
	harnessRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "benchvet_harness_runs_total",
		Help: "Harness runs, labeled by outcome (ok/failed).",
	}, []string{"outcome"})

	// configErrorsTotal counts suites rejected at construction.
	configErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "benchvet_config_errors_total",
		Help: "Suite configurations rejected at harness construction.",
	})
)
