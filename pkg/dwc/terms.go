// Package dwc models Darwin Core taxon and occurrence records and the
// Darwin Core Archive descriptor. Records here are derived,
// export/import views over the internal hierarchy, never the system of
// record. Vocabulary values (basis of record, taxonomic status, ranks)
// are closed enumerations backed by the published term lists.
package dwc

import (
	"fmt"
)

// BasisOfRecord states how an occurrence was documented.
type BasisOfRecord string

const (
	PreservedSpecimen  BasisOfRecord = "PreservedSpecimen"
	FossilSpecimen     BasisOfRecord = "FossilSpecimen"
	LivingSpecimen     BasisOfRecord = "LivingSpecimen"
	HumanObservation   BasisOfRecord = "HumanObservation"
	MachineObservation BasisOfRecord = "MachineObservation"
	MaterialSample     BasisOfRecord = "MaterialSample"
)

var basisValues = []BasisOfRecord{
	PreservedSpecimen, FossilSpecimen, LivingSpecimen,
	HumanObservation, MachineObservation, MaterialSample,
}

// ParseBasisOfRecord validates s against the closed vocabulary.
func ParseBasisOfRecord(s string) (BasisOfRecord, error) {
	for _, b := range basisValues {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown basisOfRecord: %q", s)
}

// OccurrenceStatus states whether the organism was present or absent.
type OccurrenceStatus string

const (
	Present OccurrenceStatus = "present"
	Absent  OccurrenceStatus = "absent"
)

// ParseOccurrenceStatus validates s against the closed vocabulary.
func ParseOccurrenceStatus(s string) (OccurrenceStatus, error) {
	switch OccurrenceStatus(s) {
	case Present, Absent:
		return OccurrenceStatus(s), nil
	}
	return "", fmt.Errorf("unknown occurrenceStatus: %q", s)
}

// EstablishmentMeans states how the organism came to be at the
// location. Empty means not recorded.
type EstablishmentMeans string

const (
	Native      EstablishmentMeans = "native"
	Introduced  EstablishmentMeans = "introduced"
	Naturalised EstablishmentMeans = "naturalised"
	Invasive    EstablishmentMeans = "invasive"
	Managed     EstablishmentMeans = "managed"
	Cultivated  EstablishmentMeans = "cultivated"
)

var establishmentValues = []EstablishmentMeans{
	Native, Introduced, Naturalised, Invasive, Managed, Cultivated,
}

// ParseEstablishmentMeans validates s against the closed vocabulary.
// Empty input is accepted and means the field was not recorded.
func ParseEstablishmentMeans(s string) (EstablishmentMeans, error) {
	if s == "" {
		return "", nil
	}
	for _, e := range establishmentValues {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown establishmentMeans: %q", s)
}

// TaxonomicStatus follows the Darwin Core recommended vocabulary.
type TaxonomicStatus string

const (
	Accepted              TaxonomicStatus = "accepted"
	Synonym               TaxonomicStatus = "synonym"
	DoubtfulSynonym       TaxonomicStatus = "doubtful"
	Misapplied            TaxonomicStatus = "misapplied"
	ProvisionallyAccepted TaxonomicStatus = "provisionally accepted"
)

// ParseTaxonomicStatus validates s against the closed vocabulary.
// Empty input defaults to accepted.
func ParseTaxonomicStatus(s string) (TaxonomicStatus, error) {
	if s == "" {
		return Accepted, nil
	}
	switch TaxonomicStatus(s) {
	case Accepted, Synonym, DoubtfulSynonym, Misapplied,
		ProvisionallyAccepted:
		return TaxonomicStatus(s), nil
	}
	return "", fmt.Errorf("unknown taxonomicStatus: %q", s)
}

// TaxonRank is the rank of a taxon record. Only the three ranks of
// the internal hierarchy are produced on export; import accepts the
// same three.
type TaxonRank string

const (
	RankFamily  TaxonRank = "family"
	RankGenus   TaxonRank = "genus"
	RankSpecies TaxonRank = "species"
)

// ParseTaxonRank validates s against the supported ranks.
func ParseTaxonRank(s string) (TaxonRank, error) {
	switch TaxonRank(s) {
	case RankFamily, RankGenus, RankSpecies:
		return TaxonRank(s), nil
	}
	return "", fmt.Errorf("unsupported taxonRank: %q", s)
}

// NomenclaturalCode identifies the code governing a scientific name.
// Botanical data always carries ICN.
type NomenclaturalCode string

const (
	ICN  NomenclaturalCode = "ICN"
	ICZN NomenclaturalCode = "ICZN"
	ICNP NomenclaturalCode = "ICNP"
)

// ParseNomenclaturalCode validates s. Empty input defaults to ICN.
func ParseNomenclaturalCode(s string) (NomenclaturalCode, error) {
	if s == "" {
		return ICN, nil
	}
	switch NomenclaturalCode(s) {
	case ICN, ICZN, ICNP:
		return NomenclaturalCode(s), nil
	}
	return "", fmt.Errorf("unknown nomenclaturalCode: %q", s)
}
