package address

import (
	"regexp"
	"strings"
)

// Unit designators appear after whitespace, optionally followed by a period,
// and greedily capture the remainder of the string as the unit value. A
// street named "Unit Drive" will therefore misparse; this matches the
// long-standing production behavior and is kept intentionally.
var unitPattern = regexp.MustCompile(`(?i)\s+(apt|apartment|suite|unit|#|ste|bldg|building)\s*\.?\s*(.+)$`)

// House numbers are one or more digits with an optional single letter suffix
// ("456A"), and must be followed by whitespace and further text. A bare
// number with nothing after it is treated as a street name, not a number.
var numberPattern = regexp.MustCompile(`^(\d+[A-Za-z]?)\s+(.+)$`)

// ParseStreetAddress splits a raw street address into street number, street
// name, and unit, standardizing the street-type suffix of the name.
//
//	"123 Main St"          -> {Number: "123", Name: "Main Street"}
//	"456A Oak Ave Apt 2B"  -> {Number: "456A", Name: "Oak Avenue", Unit: "Apt 2B"}
//	"1000 Broadway #205"   -> {Number: "1000", Name: "Broadway", Unit: "# 205"}
//
// Parsing never fails; unrecognized input degrades to the whole string as
// the street name.
func ParseStreetAddress(raw string) Components {
	if raw == "" {
		return Components{StreetName: raw}
	}

	base := raw
	var unit string
	if m := unitPattern.FindStringSubmatchIndex(raw); m != nil {
		keyword := raw[m[2]:m[3]]
		value := raw[m[4]:m[5]]
		unit = titleLabel(keyword) + " " + value
		base = strings.TrimSpace(raw[:m[0]])
	}
	base = strings.TrimSpace(base)

	var number, name string
	if m := numberPattern.FindStringSubmatch(base); m != nil {
		number = m[1]
		name = strings.TrimSpace(m[2])
	} else {
		name = base
	}

	if name != "" {
		name = StandardizeStreetType(name)
	}

	return Components{
		StreetNumber: number,
		StreetName:   name,
		Unit:         unit,
	}
}

// titleLabel normalizes a unit keyword to Title Case ("apt" -> "Apt"). The
// "#" designator has no letters and passes through as-is.
func titleLabel(s string) string {
	if s == "" || s == "#" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
