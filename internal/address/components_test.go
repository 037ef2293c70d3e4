package address

import (
	"strings"
	"testing"
)

func TestRebuildStreetAddress(t *testing.T) {
	tests := []struct {
		name   string
		number string
		street string
		unit   string
		want   string
	}{
		{"all parts", "123", "Main Street", "Apt 2B", "123 Main Street Apt 2B"},
		{"no unit", "123", "Main Street", "", "123 Main Street"},
		{"no number", "", "Main Street", "Apt 2B", "Main Street Apt 2B"},
		{"name only", "", "Main Street", "", "Main Street"},
		{"all absent", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RebuildStreetAddress(tt.number, tt.street, tt.unit)
			if got != tt.want {
				t.Errorf("RebuildStreetAddress() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "  ") {
				t.Errorf("RebuildStreetAddress() produced double spaces: %q", got)
			}
		})
	}
}

func TestFormatFullAddress(t *testing.T) {
	tests := []struct {
		name  string
		city  string
		state string
		want  string
	}{
		{"city and state", "Los Angeles", "CA", "123 Main Street, Los Angeles, CA"},
		{"missing city", "", "CA", "123 Main Street"},
		{"missing state", "Los Angeles", "", "123 Main Street"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFullAddress("123", "Main Street", "", tt.city, tt.state)
			if got != tt.want {
				t.Errorf("FormatFullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateComponents(t *testing.T) {
	valid := Components{
		StreetNumber: " 123 ",
		StreetName:   " Main Street ",
		City:         " Los Angeles ",
		StateCode:    "ca",
	}

	got, err := ValidateComponents(valid)
	if err != nil {
		t.Fatalf("ValidateComponents() error = %v", err)
	}
	if got.StreetName != "Main Street" {
		t.Errorf("StreetName = %q, want trimmed %q", got.StreetName, "Main Street")
	}
	if got.StateCode != "CA" {
		t.Errorf("StateCode = %q, want uppercased %q", got.StateCode, "CA")
	}
	if got.StreetAddress != "123 Main Street" {
		t.Errorf("StreetAddress = %q, want %q", got.StreetAddress, "123 Main Street")
	}
	if got.FullAddress != "123 Main Street, Los Angeles, CA" {
		t.Errorf("FullAddress = %q, want %q", got.FullAddress, "123 Main Street, Los Angeles, CA")
	}
}

func TestValidateComponentsFailures(t *testing.T) {
	tests := []struct {
		name    string
		in      Components
		wantErr string
	}{
		{
			name:    "missing street name",
			in:      Components{City: "Austin", StateCode: "TX"},
			wantErr: "street name is required",
		},
		{
			name:    "missing city",
			in:      Components{StreetName: "Main Street", StateCode: "TX"},
			wantErr: "city is required",
		},
		{
			name:    "missing state code",
			in:      Components{StreetName: "Main Street", City: "Austin"},
			wantErr: "state code is required",
		},
		{
			name:    "state code wrong length",
			in:      Components{StreetName: "Main Street", City: "Austin", StateCode: "Tex"},
			wantErr: "state code must be exactly 2 characters",
		},
		{
			name:    "whitespace-only city",
			in:      Components{StreetName: "Main Street", City: "   ", StateCode: "TX"},
			wantErr: "city is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateComponents(tt.in)
			if err == nil {
				t.Fatal("ValidateComponents() expected error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	c := Components{StreetName: "Main Street", City: "Austin", StateCode: "TX"}
	if !c.IsValid() {
		t.Error("expected components to be valid")
	}
	if (Components{StreetName: "Main Street"}).IsValid() {
		t.Error("expected components without city/state to be invalid")
	}
}

// Round-trip: parsing then formatting reproduces a canonicalized form of the
// original input.
func TestParseFormatRoundTrip(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"123 Main St", "123 Main Street, Los Angeles, CA"},
		{"456A Oak Ave Apt 2B", "456A Oak Avenue Apt 2B, Los Angeles, CA"},
		{"1000 Broadway #205", "1000 Broadway # 205, Los Angeles, CA"},
	}

	for _, tt := range tests {
		c := ParseStreetAddress(tt.raw)
		got := FormatFullAddress(c.StreetNumber, c.StreetName, c.Unit, "Los Angeles", "CA")
		if got != tt.want {
			t.Errorf("round trip of %q = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
