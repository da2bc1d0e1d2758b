// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for names that are
// resolved reflectively.
//
// This package contains validators for user-provided identifiers that are
// later looked up on a type (argument-source method names, member names).
// Validating them up front turns a confusing reflective lookup miss into a
// precise configuration error naming the bad input.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// identifierPattern matches valid exported Go identifiers in ASCII form.
// The harness only resolves exported methods and fields, so the first rune
// must be an uppercase letter.
var identifierPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// ValidateExportedIdentifier validates a name that will be resolved as an
// exported method or field on a suite type.
//
// Valid names:
//   - Start with an uppercase ASCII letter
//   - Continue with ASCII letters, digits, or underscores
//
// Returns an error if the name is empty or not an exported identifier.
//
// Example:
//
//	if err := validation.ValidateExportedIdentifier(source); err != nil {
//	    return fmt.Errorf("bad argument source: %w", err)
//	}
//	// Safe to resolve with reflection
func ValidateExportedIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (must be an exported Go identifier: uppercase letter followed by letters, digits, or underscores)", name)
	}

	return nil
}

// ValidateExportedIdentifiers validates multiple names.
// Returns an error listing all invalid names if any fail validation.
func ValidateExportedIdentifiers(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateExportedIdentifier(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %v", invalid)
	}
	return nil
}

// IsExported reports whether name begins with an uppercase letter, matching
// Go's export rule. Unlike ValidateExportedIdentifier it does not check the
// remainder of the name; use it for names already known to be identifiers.
func IsExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

// SanitizeIdentifier trims surrounding whitespace and validates the result.
// Returns the trimmed name if valid, or an error if invalid.
//
// Use this for names read from struct tags, where stray spaces are common:
//
//	source, err := validation.SanitizeIdentifier(tagValue)
//	if err != nil {
//	    return err
//	}
func SanitizeIdentifier(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateExportedIdentifier(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
