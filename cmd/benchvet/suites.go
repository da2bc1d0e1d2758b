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
	"strings"

	"github.com/AleutianAI/benchvet/view"
)

// =============================================================================
// BUILT-IN SUITES
// =============================================================================

// checksumSuite exercises the direct invocation strategy: plain parameter
// and return types, a parameterized seed, and literal argument tuples.
type checksumSuite struct {
	// Seed parameterizes the hash basis: the conventional FNV offset basis
	// and a degenerate one.
	Seed uint32 `bench:"params=2166136261;1"`
}

func (s *checksumSuite) ArgsHash() [][]any {
	return [][]any{
		{[]byte(nil)},
		{[]byte("a")},
		{[]byte("benchvet")},
	}
}

// BenchmarkHash is the loop a timing benchmark would measure: FNV-1a over
// data, starting from the configured basis.
func (s *checksumSuite) BenchmarkHash(data []byte) uint32 {
	h := s.Seed
	for _, b := range data {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}

// AssertHash recomputes the checksum byte-for-byte and compares.
func (s *checksumSuite) AssertHash(data []byte, sum uint32) bool {
	want := s.Seed
	for _, b := range data {
		want = (want ^ uint32(b)) * 16777619
	}
	return sum == want
}

// windowSuite exercises the bridging invocation strategy: restricted window
// types on both parameter and return positions.
type windowSuite struct{}

func (s *windowSuite) ArgsUpper() [][]any {
	return [][]any{{"benchvet"}, {""}, {"MiXeD case"}}
}

func (s *windowSuite) BenchmarkUpper(in view.Chars) view.Chars {
	return view.CharsOf(strings.ToUpper(in.String()))
}

func (s *windowSuite) AssertUpper(in view.Chars, out view.Chars) bool {
	return out.Len() == in.Len() && out.EqualString(strings.ToUpper(in.String()))
}

func (s *windowSuite) ArgsBlank() [][]any {
	return [][]any{{[]byte("xxxx")}, {[]byte("1")}}
}

// BenchmarkBlank zeroes the window in place and returns it.
func (s *windowSuite) BenchmarkBlank(buf view.Elems) view.Elems {
	for i := 0; i < buf.Len(); i++ {
		buf.Set(i, 0)
	}
	return buf
}

// AssertBlank requires backing identity: the returned window must alias the
// input window, and the mutation must be visible through the assert's own
// parameter. A harness that rebuilt the windows between calls would fail
// here.
func (s *windowSuite) AssertBlank(buf view.Elems, out view.Elems) bool {
	if !out.SharesBacking(buf) {
		return false
	}
	for i := 0; i < buf.Len(); i++ {
		if buf.At(i) != 0 {
			return false
		}
	}
	return true
}
