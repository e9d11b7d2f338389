package conservation

import (
	"time"
)

// DateLayout is the storage and exchange form of assessment dates.
// Lexical order of this layout equals chronological order, which the
// max-by-date current-status query relies on.
const DateLayout = "2006-01-02"

// Assessment is one IUCN Red List assessment for a species.
// Assessments are append-only: they are never updated or deleted, and
// the species' current status is always the assessment with the
// maximum date.
type Assessment struct {
	// ID is an opaque globally-unique identifier (UUID string).
	ID string `db:"id"`

	// SpeciesID references the assessed Species. Mandatory.
	SpeciesID string `db:"species_id"`

	// Category is the IUCN Red List category.
	Category Category `db:"category"`

	// Date is the assessment date in YYYY-MM-DD form. At most one
	// assessment per species may exist for a given date.
	Date string `db:"assessment_date"`

	// Trend is the population trend at assessment time.
	Trend Trend `db:"population_trend"`

	// Threats are the major threats, in the order given by the
	// assessor.
	Threats []string `db:"threats"`

	// Actions are the conservation actions in place, ordered.
	Actions []string `db:"actions"`

	// Criteria is the assessment criteria string, e.g. "A2acd".
	Criteria string `db:"criteria"`

	// Assessor names the assessing body or person.
	Assessor string `db:"assessor"`

	// Reviewer names the reviewing body or person.
	Reviewer string `db:"reviewer"`
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// LookupResult is the outcome of a conservation-status lookup against
// an external registry.
type LookupResult int

const (
	// LookupFound means an assessment was retrieved.
	LookupFound LookupResult = iota
	// LookupNotFound means the registry has no record for the name.
	LookupNotFound
	// LookupUnavailable means the registry could not be reached.
	LookupUnavailable
)

// StatusLookup is the contract a conservation-status registry
// collaborator fulfills. The core never performs the lookup itself;
// it only defines the shape of the result it accepts.
type StatusLookup interface {
	// Lookup resolves a scientific name to its latest published
	// assessment. The Assessment is meaningful only when the result
	// is LookupFound.
	Lookup(scientificName string) (Assessment, LookupResult, error)
}
