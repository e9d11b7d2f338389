// Package botdb defines the lifecycle contracts of the botanical
// data store: the taxonomy store, the migration runner, the
// conservation tracker, and the Darwin Core archive codec. The
// implementations live in internal/io packages; everything here is
// pure interface.
package botdb

import (
	"context"

	"github.com/gnames/botdb/pkg/conservation"
	"github.com/gnames/botdb/pkg/dwc"
	"github.com/gnames/botdb/pkg/migration"
	"github.com/gnames/botdb/pkg/taxon"
)

// TaxonomyStore owns the Family/Genus/Species hierarchy and enforces
// its referential integrity. All multi-row operations (cascading
// delete, re-parent) run inside one transaction: fully applied or
// fully rolled back.
type TaxonomyStore interface {
	// CreateFamily inserts a new Family. The ID must be unique;
	// empty name or malformed authority is a validation error.
	CreateFamily(ctx context.Context, f taxon.Family) error

	// GetFamily returns the Family with the given id.
	GetFamily(ctx context.Context, id string) (taxon.Family, error)

	// UpdateFamily changes name/authority. The id never changes.
	UpdateFamily(ctx context.Context, f taxon.Family) error

	// DeleteFamily removes a Family. Without cascade it fails when
	// the Family still owns Genera; with cascade the whole subtree
	// (genera, species, assessments, specimens) goes in one
	// transaction.
	DeleteFamily(ctx context.Context, id string, cascade bool) error

	// CreateGenus inserts a new Genus. The referenced Family must
	// exist.
	CreateGenus(ctx context.Context, g taxon.Genus) error

	// GetGenus returns the Genus with the given id.
	GetGenus(ctx context.Context, id string) (taxon.Genus, error)

	// UpdateGenus changes name/authority. Neither the id nor the
	// family reference changes; use ReParentGenus for the latter.
	UpdateGenus(ctx context.Context, g taxon.Genus) error

	// DeleteGenus removes a Genus, restricting or cascading over its
	// Species like DeleteFamily.
	DeleteGenus(ctx context.Context, id string, cascade bool) error

	// ReParentGenus moves a Genus under a different existing Family
	// in one transaction.
	ReParentGenus(ctx context.Context, genusID, newFamilyID string) error

	// CreateSpecies inserts a new Species. The referenced Genus must
	// exist.
	CreateSpecies(ctx context.Context, s taxon.Species) error

	// GetSpecies returns the Species with the given id.
	GetSpecies(ctx context.Context, id string) (taxon.Species, error)

	// UpdateSpecies changes epithet/authority/publication year.
	// Neither the id nor the genus reference changes; use
	// ReParentSpecies for the latter.
	UpdateSpecies(ctx context.Context, s taxon.Species) error

	// DeleteSpecies removes a Species together with its assessments
	// and specimens when cascade is set; otherwise it restricts.
	DeleteSpecies(ctx context.Context, id string, cascade bool) error

	// ReParentSpecies moves a Species under a different existing
	// Genus in one transaction.
	ReParentSpecies(ctx context.Context, speciesID, newGenusID string) error

	// ListGenera returns the Genera of a Family.
	ListGenera(ctx context.Context, familyID string) ([]taxon.Genus, error)

	// ListSpecies returns the Species of a Genus.
	ListSpecies(ctx context.Context, genusID string) ([]taxon.Species, error)

	// ListFamilies returns every Family.
	ListFamilies(ctx context.Context) ([]taxon.Family, error)

	// LookupScientificName matches a name string against the
	// hierarchy. The name is parsed to its canonical form; matches
	// are case-insensitive on genus + epithet, and filtered by
	// authority only when the input carries one.
	LookupScientificName(
		ctx context.Context, name string,
	) ([]taxon.NameMatch, error)

	// SearchSpecies returns matches whose canonical name contains
	// the pattern, case-insensitively.
	SearchSpecies(
		ctx context.Context, pattern string,
	) ([]taxon.NameMatch, error)

	// FindFamilyByName returns the Family with the given name,
	// case-insensitively.
	FindFamilyByName(ctx context.Context, name string) (taxon.Family, error)

	// FindGenusByName returns the Genus with the given name inside a
	// Family, case-insensitively.
	FindGenusByName(
		ctx context.Context, familyID, name string,
	) (taxon.Genus, error)

	// FindSpeciesByEpithet returns the Species with the given
	// epithet inside a Genus, case-insensitively.
	FindSpeciesByEpithet(
		ctx context.Context, genusID, epithet string,
	) (taxon.Species, error)

	// AddSpecimen attaches a collection record to an existing
	// Species.
	AddSpecimen(ctx context.Context, sp taxon.Specimen) error

	// ListSpecimens returns the specimens of a Species.
	ListSpecimens(
		ctx context.Context, speciesID string,
	) ([]taxon.Specimen, error)

	// SpecimensByCollector returns specimens whose collector matches
	// the pattern, case-insensitively.
	SpecimensByCollector(
		ctx context.Context, pattern string,
	) ([]taxon.Specimen, error)
}

// MigrationRunner evolves the persisted schema. It runs once at
// startup, before the store is usable, and requires exclusive access
// to the whole store for the duration of the run.
type MigrationRunner interface {
	// Run verifies the ledger against the known migration sequence
	// and applies every unapplied migration in ascending order, each
	// in its own transaction. A checksum mismatch is fatal
	// SchemaDrift; a failed application is fatal MigrationFailed.
	// Running with everything applied is a no-op.
	Run(ctx context.Context) error

	// Status reports the state of every known migration.
	Status(ctx context.Context) ([]migration.Status, error)
}

// ConservationTracker appends and queries the IUCN assessment history
// of species. The history is append-only; current status is always
// derived from it, never stored separately.
type ConservationTracker interface {
	// RecordAssessment appends an assessment. A second assessment
	// for the same species and date is a conflict.
	RecordAssessment(ctx context.Context, a conservation.Assessment) error

	// CurrentStatus returns the assessment with the maximum date for
	// the species, or a NoAssessment error when none exist.
	CurrentStatus(
		ctx context.Context, speciesID string,
	) (conservation.Assessment, error)

	// History returns all assessments of a species ordered by date
	// ascending. The returned slice is fresh on every call.
	History(
		ctx context.Context, speciesID string,
	) ([]conservation.Assessment, error)
}

// ImportSummary reports what an archive import touched.
type ImportSummary struct {
	FamiliesCreated int
	GeneraCreated   int
	SpeciesCreated  int
	SpeciesUpdated  int
	Specimens       int
	Assessments     int
}

// ExportSummary reports what an archive export wrote.
type ExportSummary struct {
	Taxa        int
	Occurrences int
	Path        string
}

// ArchiveCodec translates between the internal model and Darwin Core
// records and archives. It reads TaxonomyStore and ConservationTracker
// state and never owns data of its own.
type ArchiveCodec interface {
	// ToTaxon builds the Darwin Core taxon projection of a Species,
	// composing the scientific name from genus, epithet and
	// authority. Deterministic for the same store state.
	ToTaxon(ctx context.Context, speciesID string) (dwc.Taxon, error)

	// ToOccurrence maps a collection event for a Species into an
	// occurrence record, validating coordinates.
	ToOccurrence(
		ctx context.Context, speciesID string, ev dwc.CollectionEvent,
	) (dwc.Occurrence, error)

	// FromTaxon reconstructs or updates internal entities from a
	// taxon record, resolving its rank and parent links.
	FromTaxon(ctx context.Context, t dwc.Taxon) error

	// FromOccurrence persists a specimen from an occurrence record.
	// The referenced taxon must already be resolvable.
	FromOccurrence(ctx context.Context, o dwc.Occurrence) error

	// Export packages the whole store into a Darwin Core Archive at
	// path: taxon core, occurrence extension, meta.xml and eml.xml.
	// Cross-references are verified before anything is written.
	Export(ctx context.Context, path string) (ExportSummary, error)

	// Import reads a Darwin Core Archive and applies its records.
	// Referential inconsistencies abort before any write.
	Import(ctx context.Context, path string) (ImportSummary, error)
}
