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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brokenCleanupLog hookLog

type brokenCleanupSuite struct{}

func (s *brokenCleanupSuite) IterationCleanup() error { return errors.New("unmount failed") }

func (s *brokenCleanupSuite) GlobalCleanup() { brokenCleanupLog.globalClean++ }

func (s *brokenCleanupSuite) BenchmarkNop() int { return 0 }

func (s *brokenCleanupSuite) AssertNop(v int) bool { return true }

func TestCleanupErrorFailsPassingCase(t *testing.T) {
	brokenCleanupLog.reset()

	_, err := Check(&brokenCleanupSuite{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IterationCleanup hook: unmount failed")

	// The global cleanup is still attempted after the iteration cleanup
	// fails; the iteration error wins.
	assert.Equal(t, 1, brokenCleanupLog.globalClean)
}

func TestCaseStateString(t *testing.T) {
	states := map[caseState]string{
		caseCreated:       "Created",
		caseInstanceBuilt: "InstanceBuilt",
		caseSetupRun:      "SetupRun",
		caseAssertInvoked: "AssertInvoked",
		caseCleanupRun:    "CleanupRun",
		casePassed:        "Passed",
		caseFailed:        "Failed",
		caseState(99):     "Unknown",
	}
	for state, want := range states {
		assert.Equal(t, want, state.String())
	}
}
