package address

import (
	"errors"
	"fmt"
	"strings"
)

// Components is the single transient representation of a parsed or
// user-supplied address. Empty strings mark absent fields. Values are built
// fresh per call and never mutated after construction.
type Components struct {
	StreetNumber  string
	StreetName    string
	Unit          string
	StreetAddress string
	City          string
	StateCode     string
	FullAddress   string
}

// IsValid reports whether the components carry the minimum fields required
// for persistence: street name, city, and state code.
func (c Components) IsValid() bool {
	return c.StreetName != "" && c.City != "" && c.StateCode != ""
}

// RebuildStreetAddress joins the present parts in number, name, unit order
// with single spaces. Absent parts are omitted; all-absent input yields "".
func RebuildStreetAddress(number, name, unit string) string {
	parts := make([]string, 0, 3)
	if number != "" {
		parts = append(parts, number)
	}
	if name != "" {
		parts = append(parts, name)
	}
	if unit != "" {
		parts = append(parts, unit)
	}
	return strings.Join(parts, " ")
}

// FormatFullAddress composes the canonical "street line, city, state"
// representation. City and state are appended only when both are present;
// otherwise the street line is returned alone.
func FormatFullAddress(number, name, unit, city, stateCode string) string {
	streetLine := RebuildStreetAddress(number, name, unit)
	if city != "" && stateCode != "" {
		return fmt.Sprintf("%s, %s, %s", streetLine, city, stateCode)
	}
	return streetLine
}

// NormalizeStreetName trims a street name, failing when it is empty.
func NormalizeStreetName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("street name is required")
	}
	return trimmed, nil
}

// NormalizeCity trims a city name, failing when it is empty.
func NormalizeCity(city string) (string, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return "", errors.New("city is required")
	}
	return trimmed, nil
}

// NormalizeStateCode trims and uppercases a state code, failing when it is
// empty or not exactly two characters.
func NormalizeStateCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", errors.New("state code is required")
	}
	if len(normalized) != 2 {
		return "", errors.New("state code must be exactly 2 characters")
	}
	return normalized, nil
}

// ValidateComponents checks the minimum-field invariants and returns a
// normalized copy: all fields trimmed, state code uppercased, derived
// street_address and full_address rebuilt. It fails on the first missing or
// malformed required field. Street number and unit are optional and never
// cause a failure.
func ValidateComponents(c Components) (Components, error) {
	out := Components{
		StreetNumber: strings.TrimSpace(c.StreetNumber),
		Unit:         strings.TrimSpace(c.Unit),
	}

	name, err := NormalizeStreetName(c.StreetName)
	if err != nil {
		return Components{}, err
	}
	out.StreetName = name

	city, err := NormalizeCity(c.City)
	if err != nil {
		return Components{}, err
	}
	out.City = city

	state, err := NormalizeStateCode(c.StateCode)
	if err != nil {
		return Components{}, err
	}
	out.StateCode = state

	out.StreetAddress = RebuildStreetAddress(out.StreetNumber, out.StreetName, out.Unit)
	out.FullAddress = FormatFullAddress(out.StreetNumber, out.StreetName, out.Unit, out.City, out.StateCode)
	return out, nil
}
