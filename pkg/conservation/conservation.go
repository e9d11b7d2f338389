// Package conservation models IUCN Red List vocabulary and the
// append-only assessment history attached to species. Categories and
// population trends are closed enumerations; any other encoding is
// rejected at the boundary.
package conservation

import (
	"fmt"
)

// Category is an IUCN Red List conservation category.
type Category int

const (
	// NotEvaluated - species has not been evaluated against the criteria.
	NotEvaluated Category = iota
	// DataDeficient - inadequate information to make an assessment.
	DataDeficient
	// LeastConcern - species is widespread and abundant.
	LeastConcern
	// NearThreatened - close to qualifying for a threatened category.
	NearThreatened
	// Vulnerable - high risk of extinction in the wild.
	Vulnerable
	// Endangered - very high risk of extinction in the wild.
	Endangered
	// CriticallyEndangered - extremely high risk of extinction.
	CriticallyEndangered
	// ExtinctInWild - survives only in cultivation or captivity.
	ExtinctInWild
	// Extinct - no reasonable doubt that the last individual has died.
	Extinct
)

var categoryCodes = map[Category]string{
	NotEvaluated:         "NE",
	DataDeficient:        "DD",
	LeastConcern:         "LC",
	NearThreatened:       "NT",
	Vulnerable:           "VU",
	Endangered:           "EN",
	CriticallyEndangered: "CR",
	ExtinctInWild:        "EW",
	Extinct:              "EX",
}

// String returns the two-letter IUCN code used verbatim in both
// internal and exported representations.
func (c Category) String() string {
	if code, ok := categoryCodes[c]; ok {
		return code
	}
	return "NE"
}

// ParseCategory converts a two-letter IUCN code into a Category.
// Only the nine standard codes are accepted.
func ParseCategory(code string) (Category, error) {
	for cat, c := range categoryCodes {
		if c == code {
			return cat, nil
		}
	}
	return NotEvaluated, fmt.Errorf("unknown IUCN category: %q", code)
}

// Threatened reports whether the category indicates a threatened or
// extinct taxon (VU, EN, CR, EW, EX).
func (c Category) Threatened() bool {
	switch c {
	case Vulnerable, Endangered, CriticallyEndangered, ExtinctInWild,
		Extinct:
		return true
	}
	return false
}

// Priority returns a conservation priority score, 0-10, higher means
// more urgent.
func (c Category) Priority() int {
	switch c {
	case Extinct:
		return 10
	case ExtinctInWild:
		return 9
	case CriticallyEndangered:
		return 8
	case Endangered:
		return 7
	case Vulnerable:
		return 6
	case NearThreatened:
		return 4
	case DataDeficient:
		return 3
	case LeastConcern:
		return 1
	}
	return 0
}

// Trend is the population trend recorded with an assessment.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendIncreasing
	TrendStable
	TrendDecreasing
)

var trendNames = map[Trend]string{
	TrendUnknown:    "Unknown",
	TrendIncreasing: "Increasing",
	TrendStable:     "Stable",
	TrendDecreasing: "Decreasing",
}

func (t Trend) String() string {
	if name, ok := trendNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseTrend converts a trend name into a Trend. Only the four
// standard values are accepted.
func ParseTrend(name string) (Trend, error) {
	for t, n := range trendNames {
		if n == name {
			return t, nil
		}
	}
	return TrendUnknown, fmt.Errorf("unknown population trend: %q", name)
}
