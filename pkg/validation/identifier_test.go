// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"testing"
)

func TestValidateExportedIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		ident   string
		wantErr bool
	}{
		// Valid identifiers
		{"simple", "Sizes", false},
		{"single char", "A", false},
		{"with digit", "Case2", false},
		{"with underscore", "Arg_Sets", false},
		{"long", "SortedInputCollection", false},

		// Invalid identifiers
		{"empty", "", true},
		{"lowercase", "sizes", true},
		{"leading underscore", "_Sizes", true},
		{"leading digit", "2Sizes", true},
		{"dotted", "Suite.Sizes", true},
		{"spaces", "Si zes", true},
		{"call syntax", "Sizes()", true},
		{"injection attempt", "Sizes;os.Exit(1)", true},
		{"unicode", "Größe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExportedIdentifier(tt.ident)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExportedIdentifier(%q) error = %v, wantErr %v", tt.ident, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExportedIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		idents  []string
		wantErr bool
	}{
		{"all valid", []string{"Sizes", "Inputs", "Cases"}, false},
		{"one invalid", []string{"Sizes", "bad!", "Cases"}, true},
		{"all invalid", []string{"sizes", "inputs"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExportedIdentifiers(tt.idents)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExportedIdentifiers(%v) error = %v, wantErr %v", tt.idents, err, tt.wantErr)
			}
		})
	}
}

func TestIsExported(t *testing.T) {
	tests := []struct {
		name  string
		ident string
		want  bool
	}{
		{"exported", "Sizes", true},
		{"unexported", "sizes", false},
		{"empty", "", false},
		{"underscore", "_sizes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExported(tt.ident); got != tt.want {
				t.Errorf("IsExported(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		ident   string
		want    string
		wantErr bool
	}{
		{"passthrough", "Sizes", "Sizes", false},
		{"trimmed", "  Sizes  ", "Sizes", false},
		{"invalid rejected", "sizes", "", true},
		{"only spaces", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeIdentifier(tt.ident)
			if (err != nil) != tt.wantErr {
				t.Errorf("SanitizeIdentifier(%q) error = %v, wantErr %v", tt.ident, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.ident, got, tt.want)
			}
		})
	}
}
