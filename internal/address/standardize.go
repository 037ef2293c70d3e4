package address

import (
	"strings"
)

// streetTypes maps lowercased street-type suffix variants to their canonical
// form. Canonical forms follow USPS publication 28 and common usage. Loaded
// once at init, never mutated.
var streetTypes = map[string]string{
	// Street
	"st":      "Street",
	"str":     "Street",
	"street":  "Street",
	"streets": "Street",

	// Avenue
	"ave":    "Avenue",
	"av":     "Avenue",
	"avenue": "Avenue",
	"avenu":  "Avenue",
	"avnue":  "Avenue",
	"avn":    "Avenue",

	// Road
	"rd":    "Road",
	"road":  "Road",
	"roads": "Road",

	// Boulevard
	"blvd":      "Boulevard",
	"blv":       "Boulevard",
	"boulevard": "Boulevard",
	"boulevrd":  "Boulevard",
	"boul":      "Boulevard",
	"boulv":     "Boulevard",

	// Drive
	"dr":     "Drive",
	"drv":    "Drive",
	"drive":  "Drive",
	"drives": "Drive",

	// Lane
	"ln":    "Lane",
	"lane":  "Lane",
	"lanes": "Lane",

	// Place
	"pl":     "Place",
	"place":  "Place",
	"places": "Place",

	// Court
	"ct":     "Court",
	"court":  "Court",
	"courts": "Court",
	"crt":    "Court",

	// Parkway ("park" maps here only as a trailing suffix)
	"pkwy":    "Parkway",
	"pky":     "Parkway",
	"parkway": "Parkway",
	"park":    "Parkway",
	"pkway":   "Parkway",

	// Highway
	"hwy":      "Highway",
	"highway":  "Highway",
	"highways": "Highway",
	"hiway":    "Highway",
	"hiwy":     "Highway",

	// Additional common suffixes
	"circle":  "Circle",
	"cir":     "Circle",
	"terrace": "Terrace",
	"ter":     "Terrace",
	"way":     "Way",
	"trail":   "Trail",
	"trl":     "Trail",
	"path":    "Path",
	"walk":    "Walk",
	"alley":   "Alley",
	"aly":     "Alley",
	"plaza":   "Plaza",
	"plz":     "Plaza",
	"square":  "Square",
	"sq":      "Square",
	"loop":    "Loop",
	"ridge":   "Ridge",
	"run":     "Run",
	"creek":   "Creek",
	"crk":     "Creek",
}

// StandardizeStreetType rewrites the trailing street-type token of a street
// name to its canonical form: "Main St" -> "Main Street", "Oak Ave" -> "Oak
// Avenue". Only whole-token, case-insensitive matches on the last
// whitespace-delimited token are considered; anything else, including empty
// or whitespace-only input, is returned unchanged.
func StandardizeStreetType(streetName string) string {
	if strings.TrimSpace(streetName) == "" {
		return streetName
	}

	parts := strings.Fields(streetName)
	last := parts[len(parts)-1]

	canonical, ok := streetTypes[strings.ToLower(last)]
	if !ok {
		return streetName
	}

	parts[len(parts)-1] = canonical
	return strings.Join(parts, " ")
}

// StreetTypeStatistics counts canonical street types across the given street
// names. Names without a recognized suffix are counted under their raw last
// token.
func StreetTypeStatistics(streetNames []string) map[string]int {
	counts := make(map[string]int)
	for _, name := range streetNames {
		parts := strings.Fields(StandardizeStreetType(name))
		if len(parts) == 0 {
			continue
		}
		counts[parts[len(parts)-1]]++
	}
	return counts
}
