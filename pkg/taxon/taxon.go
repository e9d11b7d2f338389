// Package taxon provides the canonical botanical hierarchy entities.
// The hierarchy is strict: every Species belongs to exactly one Genus,
// every Genus to exactly one Family. Identifiers are opaque UUID
// strings and never change after creation.
package taxon

import (
	"database/sql"
	"strings"
)

// Family is the root of the taxonomic hierarchy.
type Family struct {
	// ID is an opaque globally-unique identifier (UUID string).
	ID string `db:"id"`

	// Name is the family name, e.g. "Rosaceae".
	Name string `db:"name"`

	// Authority is the publisher citation string, e.g. "Juss.".
	Authority string `db:"authority"`
}

// Genus belongs to exactly one Family.
type Genus struct {
	// ID is an opaque globally-unique identifier (UUID string).
	ID string `db:"id"`

	// FamilyID references the owning Family. Mandatory.
	FamilyID string `db:"family_id"`

	// Name is the genus name, e.g. "Rosa".
	Name string `db:"name"`

	// Authority is the publisher citation string, e.g. "L.".
	Authority string `db:"authority"`
}

// Species belongs to exactly one Genus. Its conservation status is
// never stored on the record itself; it is always derived from the
// append-only assessment log.
type Species struct {
	// ID is an opaque globally-unique identifier (UUID string).
	ID string `db:"id"`

	// GenusID references the owning Genus. Mandatory.
	GenusID string `db:"genus_id"`

	// Epithet is the specific epithet, e.g. "rubiginosa".
	Epithet string `db:"epithet"`

	// Authority is the publisher citation string, e.g. "L.".
	Authority string `db:"authority"`

	// PublicationYear is the year the name was published, if known.
	PublicationYear sql.NullInt16 `db:"publication_year"`
}

// Specimen is a collection record attached to a Species. Specimens
// are the internal counterpart of Darwin Core occurrence records.
type Specimen struct {
	// ID is an opaque globally-unique identifier (UUID string).
	ID string `db:"id"`

	// SpeciesID references the identified Species. Mandatory.
	SpeciesID string `db:"species_id"`

	// CatalogNumber is the collection catalog identifier.
	CatalogNumber string `db:"catalog_number"`

	// Collector is the name of the person who recorded the specimen.
	Collector string `db:"collector"`

	// EventDate is the collection date in YYYY-MM-DD form.
	EventDate string `db:"event_date"`

	// Latitude is the decimal latitude, if georeferenced.
	Latitude sql.NullFloat64 `db:"latitude"`

	// Longitude is the decimal longitude, if georeferenced.
	Longitude sql.NullFloat64 `db:"longitude"`

	// Country of the collection locality.
	Country string `db:"country"`

	// StateProvince of the collection locality.
	StateProvince string `db:"state_province"`

	// Locality is the free-text locality description.
	Locality string `db:"locality"`

	// InstitutionCode identifies the holding institution.
	InstitutionCode string `db:"institution_code"`

	// CollectionCode identifies the collection within the institution.
	CollectionCode string `db:"collection_code"`
}

// NameMatch is the result of a scientific-name lookup: the matched
// Species together with its owning Genus and Family.
type NameMatch struct {
	Family  Family
	Genus   Genus
	Species Species
}

// ScientificName composes the full scientific name of a species from
// its genus name, specific epithet and authority:
// "Rosa" + "rubiginosa" + "L." → "Rosa rubiginosa L.".
// The authority is omitted when empty.
func ScientificName(genusName, epithet, authority string) string {
	name := strings.TrimSpace(genusName) + " " + strings.TrimSpace(epithet)
	authority = strings.TrimSpace(authority)
	if authority != "" {
		name += " " + authority
	}
	return name
}

// ScientificName composes the species' scientific name given its
// genus name.
func (s Species) ScientificName(genusName string) string {
	return ScientificName(genusName, s.Epithet, s.Authority)
}
