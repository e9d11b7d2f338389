// Package ioarchive implements the Darwin Core archive codec. It
// projects the internal hierarchy into taxon and occurrence records,
// packages them into archives, and reconstructs internal entities
// from archives. It owns no data: everything goes through the
// taxonomy store and the conservation tracker.
package ioarchive

import (
	"context"
	"strings"

	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/conservation"
	"github.com/gnames/botdb/pkg/dwc"
	"github.com/gnames/botdb/pkg/taxon"
	"github.com/gnames/gnuuid"
)

type codecio struct {
	store   botdb.TaxonomyStore
	tracker botdb.ConservationTracker
	gate    *capability.Gate
	jobsNum int
}

// New creates an ArchiveCodec. The tracker may be nil when the
// conservation capability is disabled; threat status columns are then
// left empty on export and ignored on import.
func New(
	store botdb.TaxonomyStore,
	tracker botdb.ConservationTracker,
	gate *capability.Gate,
	jobsNum int,
) botdb.ArchiveCodec {
	if jobsNum < 1 {
		jobsNum = 1
	}
	return &codecio{
		store:   store,
		tracker: tracker,
		gate:    gate,
		jobsNum: jobsNum,
	}
}

// ToTaxon builds the taxon projection of one species. The scientific
// name is composed from the genus name, epithet and authority, so the
// projection is deterministic for the same store state.
func (c *codecio) ToTaxon(
	ctx context.Context, speciesID string,
) (dwc.Taxon, error) {
	var t dwc.Taxon
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return t, err
	}

	sp, err := c.store.GetSpecies(ctx, speciesID)
	if err != nil {
		return t, err
	}
	g, err := c.store.GetGenus(ctx, sp.GenusID)
	if err != nil {
		return t, err
	}
	f, err := c.store.GetFamily(ctx, g.FamilyID)
	if err != nil {
		return t, err
	}

	t = c.speciesTaxon(ctx, f, g, sp)
	return t, nil
}

// speciesTaxon composes the taxon record from already-loaded
// entities. The threat status is attached only when the conservation
// capability is on and the species has a history.
func (c *codecio) speciesTaxon(
	ctx context.Context,
	f taxon.Family,
	g taxon.Genus,
	sp taxon.Species,
) dwc.Taxon {
	t := dwc.Taxon{
		TaxonID:                  sp.ID,
		ScientificName:           sp.ScientificName(g.Name),
		ScientificNameAuthorship: sp.Authority,
		TaxonRank:                dwc.RankSpecies,
		TaxonomicStatus:          dwc.Accepted,
		NomenclaturalCode:        dwc.ICN,
		ParentNameUsageID:        g.ID,
		Family:                   f.Name,
		Genus:                    g.Name,
		SpecificEpithet:          sp.Epithet,
		NamePublishedInYear:      sp.PublicationYear,
	}

	if c.tracker != nil && c.gate.Enabled(capability.Conservation) {
		a, err := c.tracker.CurrentStatus(ctx, sp.ID)
		if err == nil {
			t.ThreatStatus = a.Category.String()
		}
	}
	return t
}

func genusTaxon(f taxon.Family, g taxon.Genus) dwc.Taxon {
	return dwc.Taxon{
		TaxonID:                  g.ID,
		ScientificName:           g.Name,
		ScientificNameAuthorship: g.Authority,
		TaxonRank:                dwc.RankGenus,
		TaxonomicStatus:          dwc.Accepted,
		NomenclaturalCode:        dwc.ICN,
		ParentNameUsageID:        f.ID,
		Family:                   f.Name,
		Genus:                    g.Name,
	}
}

func familyTaxon(f taxon.Family) dwc.Taxon {
	return dwc.Taxon{
		TaxonID:                  f.ID,
		ScientificName:           f.Name,
		ScientificNameAuthorship: f.Authority,
		TaxonRank:                dwc.RankFamily,
		TaxonomicStatus:          dwc.Accepted,
		NomenclaturalCode:        dwc.ICN,
		Family:                   f.Name,
	}
}

// ToOccurrence maps a collection event for a species into an
// occurrence record. Coordinates outside the valid range reject the
// record.
func (c *codecio) ToOccurrence(
	ctx context.Context, speciesID string, ev dwc.CollectionEvent,
) (dwc.Occurrence, error) {
	var o dwc.Occurrence
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return o, err
	}

	err := dwc.CheckCoordinates(ev.DecimalLatitude, ev.DecimalLongitude)
	if err != nil {
		return o, CoordinateError(err)
	}

	sp, err := c.store.GetSpecies(ctx, speciesID)
	if err != nil {
		return o, err
	}
	g, err := c.store.GetGenus(ctx, sp.GenusID)
	if err != nil {
		return o, err
	}

	basis := ev.BasisOfRecord
	if basis == "" {
		basis = dwc.PreservedSpecimen
	}

	// gnuuid makes the id a deterministic function of the specimen's
	// identifying fields, so re-export never mints new ids.
	seed := sp.ID + "|" + ev.CatalogNumber + "|" + ev.EventDate
	o = dwc.Occurrence{
		OccurrenceID:                  gnuuid.New(seed).String(),
		TaxonID:                       sp.ID,
		ScientificName:                sp.ScientificName(g.Name),
		BasisOfRecord:                 basis,
		OccurrenceStatus:              dwc.Present,
		CatalogNumber:                 ev.CatalogNumber,
		CollectionCode:                ev.CollectionCode,
		InstitutionCode:               ev.InstitutionCode,
		RecordedBy:                    ev.RecordedBy,
		EventDate:                     ev.EventDate,
		DecimalLatitude:               ev.DecimalLatitude,
		DecimalLongitude:              ev.DecimalLongitude,
		CoordinateUncertaintyInMeters: ev.CoordinateUncertaintyInMeters,
		Country:                       ev.Country,
		StateProvince:                 ev.StateProvince,
		Locality:                      ev.Locality,
		IndividualCount:               ev.IndividualCount,
		LifeStage:                     ev.LifeStage,
		EstablishmentMeans:            ev.EstablishmentMeans,
		Preparations:                  ev.Preparations,
	}
	return o, nil
}

// FromTaxon reconstructs or updates an internal entity from a taxon
// record, resolving rank and parent links.
func (c *codecio) FromTaxon(ctx context.Context, t dwc.Taxon) error {
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return err
	}
	_, err := c.applyTaxon(ctx, t)
	return err
}

// applyTaxon upserts one taxon record and reports whether a new
// entity was created.
func (c *codecio) applyTaxon(
	ctx context.Context, t dwc.Taxon,
) (bool, error) {
	switch t.TaxonRank {
	case dwc.RankFamily:
		return c.applyFamily(ctx, t)
	case dwc.RankGenus:
		return c.applyGenus(ctx, t)
	case dwc.RankSpecies:
		return c.applySpecies(ctx, t)
	}
	return false, MalformedRecordError(t.TaxonID,
		"unsupported taxonRank "+string(t.TaxonRank))
}

func (c *codecio) applyFamily(
	ctx context.Context, t dwc.Taxon,
) (bool, error) {
	f := taxon.Family{
		ID:        taxonID(t),
		Name:      t.ScientificName,
		Authority: t.ScientificNameAuthorship,
	}
	if _, err := c.store.GetFamily(ctx, f.ID); err == nil {
		return false, c.store.UpdateFamily(ctx, f)
	}
	return true, c.store.CreateFamily(ctx, f)
}

func (c *codecio) applyGenus(
	ctx context.Context, t dwc.Taxon,
) (bool, error) {
	familyID, err := c.resolveParentFamily(ctx, t)
	if err != nil {
		return false, err
	}
	g := taxon.Genus{
		ID:        taxonID(t),
		FamilyID:  familyID,
		Name:      t.ScientificName,
		Authority: t.ScientificNameAuthorship,
	}
	if _, err := c.store.GetGenus(ctx, g.ID); err == nil {
		return false, c.store.UpdateGenus(ctx, g)
	}
	return true, c.store.CreateGenus(ctx, g)
}

func (c *codecio) applySpecies(
	ctx context.Context, t dwc.Taxon,
) (bool, error) {
	genusID, err := c.resolveParentGenus(ctx, t)
	if err != nil {
		return false, err
	}

	epithet := t.SpecificEpithet
	if epithet == "" {
		// Fall back to the second word of the binomial.
		words := strings.Fields(t.ScientificName)
		if len(words) < 2 {
			return false, MalformedRecordError(t.TaxonID,
				"species record without an epithet")
		}
		epithet = words[1]
	}

	sp := taxon.Species{
		ID:              taxonID(t),
		GenusID:         genusID,
		Epithet:         epithet,
		Authority:       t.ScientificNameAuthorship,
		PublicationYear: t.NamePublishedInYear,
	}
	if _, err := c.store.GetSpecies(ctx, sp.ID); err == nil {
		return false, c.store.UpdateSpecies(ctx, sp)
	}
	return true, c.store.CreateSpecies(ctx, sp)
}

// resolveParentFamily finds the family a genus record belongs to,
// preferring the explicit parent link over the family name column.
func (c *codecio) resolveParentFamily(
	ctx context.Context, t dwc.Taxon,
) (string, error) {
	if t.ParentNameUsageID != "" {
		if _, err := c.store.GetFamily(ctx, t.ParentNameUsageID); err != nil {
			return "", ReferentialError(t.TaxonID, t.ParentNameUsageID)
		}
		return t.ParentNameUsageID, nil
	}
	if t.Family == "" {
		return "", ReferentialError(t.TaxonID, "")
	}
	f, err := c.store.FindFamilyByName(ctx, t.Family)
	if err != nil {
		return "", ReferentialError(t.TaxonID, t.Family)
	}
	return f.ID, nil
}

func (c *codecio) resolveParentGenus(
	ctx context.Context, t dwc.Taxon,
) (string, error) {
	if t.ParentNameUsageID != "" {
		if _, err := c.store.GetGenus(ctx, t.ParentNameUsageID); err != nil {
			return "", ReferentialError(t.TaxonID, t.ParentNameUsageID)
		}
		return t.ParentNameUsageID, nil
	}
	if t.Genus == "" || t.Family == "" {
		return "", ReferentialError(t.TaxonID, "")
	}
	f, err := c.store.FindFamilyByName(ctx, t.Family)
	if err != nil {
		return "", ReferentialError(t.TaxonID, t.Family)
	}
	g, err := c.store.FindGenusByName(ctx, f.ID, t.Genus)
	if err != nil {
		return "", ReferentialError(t.TaxonID, t.Genus)
	}
	return g.ID, nil
}

// FromOccurrence persists a specimen from an occurrence record. The
// referenced taxon must resolve to an existing species.
func (c *codecio) FromOccurrence(
	ctx context.Context, o dwc.Occurrence,
) error {
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return err
	}
	err := dwc.CheckCoordinates(o.DecimalLatitude, o.DecimalLongitude)
	if err != nil {
		return CoordinateError(err)
	}

	sp, err := c.store.GetSpecies(ctx, o.TaxonID)
	if err != nil {
		return ReferentialError(o.OccurrenceID, o.TaxonID)
	}

	return c.store.AddSpecimen(ctx, taxon.Specimen{
		ID:              o.OccurrenceID,
		SpeciesID:       sp.ID,
		CatalogNumber:   o.CatalogNumber,
		Collector:       o.RecordedBy,
		EventDate:       o.EventDate,
		Latitude:        o.DecimalLatitude,
		Longitude:       o.DecimalLongitude,
		Country:         o.Country,
		StateProvince:   o.StateProvince,
		Locality:        o.Locality,
		InstitutionCode: o.InstitutionCode,
		CollectionCode:  o.CollectionCode,
	})
}

// taxonID keeps incoming ids as-is and derives a stable gnuuid for
// records that arrive without one.
func taxonID(t dwc.Taxon) string {
	if t.TaxonID != "" {
		return t.TaxonID
	}
	return gnuuid.New(
		string(t.TaxonRank) + "|" + t.ScientificName,
	).String()
}

// importedAssessment converts a threatStatus column into an
// assessment record. Used by Import when the conservation capability
// is on.
func importedAssessment(
	speciesID, code, date string,
) (conservation.Assessment, error) {
	cat, err := conservation.ParseCategory(code)
	if err != nil {
		return conservation.Assessment{},
			MalformedRecordError(speciesID, err.Error())
	}
	return conservation.Assessment{
		ID:        gnuuid.New(speciesID + "|" + date + "|" + code).String(),
		SpeciesID: speciesID,
		Category:  cat,
		Date:      date,
		Trend:     conservation.TrendUnknown,
		Assessor:  "imported",
	}, nil
}
