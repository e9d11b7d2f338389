package dwc

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Taxon is a Darwin Core Taxon record: a projection of one node of
// the internal hierarchy. Export produces one row per Family, Genus
// and Species; parentNameUsageID links the ranks together.
type Taxon struct {
	TaxonID                  string
	ScientificName           string
	ScientificNameAuthorship string
	TaxonRank                TaxonRank
	TaxonomicStatus          TaxonomicStatus
	NomenclaturalCode        NomenclaturalCode
	ParentNameUsageID        string
	Family                   string
	Genus                    string
	SpecificEpithet          string
	NamePublishedInYear      sql.NullInt16
	// ThreatStatus is the current IUCN category code, attached only
	// when conservation data is included in the export.
	ThreatStatus string
}

// Occurrence is a Darwin Core Occurrence record: a projection of a
// specimen together with its identification.
type Occurrence struct {
	OccurrenceID     string
	TaxonID          string
	ScientificName   string
	BasisOfRecord    BasisOfRecord
	OccurrenceStatus OccurrenceStatus

	CatalogNumber   string
	CollectionCode  string
	InstitutionCode string

	RecordedBy string
	EventDate  string

	DecimalLatitude               sql.NullFloat64
	DecimalLongitude              sql.NullFloat64
	CoordinateUncertaintyInMeters sql.NullFloat64
	Country                       string
	StateProvince                 string
	Locality                      string

	IndividualCount    sql.NullInt32
	LifeStage          string
	EstablishmentMeans EstablishmentMeans
	Preparations       string
}

// CollectionEvent carries the collection metadata mapped into an
// occurrence record on export.
type CollectionEvent struct {
	RecordedBy                    string
	EventDate                     string
	DecimalLatitude               sql.NullFloat64
	DecimalLongitude              sql.NullFloat64
	CoordinateUncertaintyInMeters sql.NullFloat64
	Country                       string
	StateProvince                 string
	Locality                      string
	CatalogNumber                 string
	CollectionCode                string
	InstitutionCode               string
	IndividualCount               sql.NullInt32
	LifeStage                     string
	Preparations                  string
	BasisOfRecord                 BasisOfRecord
	EstablishmentMeans            EstablishmentMeans
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is within [-180, 180].
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// CheckCoordinates validates the optional coordinate pair of an
// occurrence. Null coordinates are fine; present coordinates must be
// within range.
func CheckCoordinates(lat, lon sql.NullFloat64) error {
	if lat.Valid && !ValidLatitude(lat.Float64) {
		return fmt.Errorf("decimalLatitude out of range: %v", lat.Float64)
	}
	if lon.Valid && !ValidLongitude(lon.Float64) {
		return fmt.Errorf("decimalLongitude out of range: %v", lon.Float64)
	}
	return nil
}

// ValidateOccurrence returns completeness warnings for a record.
// Warnings do not make a record invalid; they flag missing data a
// publisher would want to fill in.
func ValidateOccurrence(occ Occurrence) []string {
	var warnings []string
	if !occ.DecimalLatitude.Valid || !occ.DecimalLongitude.Valid {
		warnings = append(warnings, "missing geographic coordinates")
	}
	if occ.EventDate == "" {
		warnings = append(warnings, "missing collection date")
	}
	if occ.RecordedBy == "" {
		warnings = append(warnings, "missing collector information")
	}
	return warnings
}

// TaxonColumns is the fixed column order of taxon rows in an archive.
var TaxonColumns = []string{
	"taxonID", "scientificName", "scientificNameAuthorship",
	"taxonRank", "taxonomicStatus", "nomenclaturalCode",
	"parentNameUsageID", "family", "genus", "specificEpithet",
	"namePublishedInYear", "threatStatus",
}

// OccurrenceColumns is the fixed column order of occurrence rows.
var OccurrenceColumns = []string{
	"occurrenceID", "taxonID", "scientificName", "basisOfRecord",
	"occurrenceStatus", "catalogNumber", "collectionCode",
	"institutionCode", "recordedBy", "eventDate", "decimalLatitude",
	"decimalLongitude", "coordinateUncertaintyInMeters", "country",
	"stateProvince", "locality", "individualCount", "lifeStage",
	"establishmentMeans", "preparations",
}

// Row serializes the taxon into TaxonColumns order.
func (t Taxon) Row() []string {
	var year string
	if t.NamePublishedInYear.Valid {
		year = strconv.Itoa(int(t.NamePublishedInYear.Int16))
	}
	return []string{
		t.TaxonID, t.ScientificName, t.ScientificNameAuthorship,
		string(t.TaxonRank), string(t.TaxonomicStatus),
		string(t.NomenclaturalCode), t.ParentNameUsageID, t.Family,
		t.Genus, t.SpecificEpithet, year, t.ThreatStatus,
	}
}

// ParseTaxonRow converts a row in TaxonColumns order back into a
// Taxon, validating every vocabulary field.
func ParseTaxonRow(row []string) (Taxon, error) {
	var t Taxon
	if len(row) != len(TaxonColumns) {
		return t, fmt.Errorf(
			"taxon row has %d columns, want %d", len(row), len(TaxonColumns))
	}
	rank, err := ParseTaxonRank(row[3])
	if err != nil {
		return t, err
	}
	status, err := ParseTaxonomicStatus(row[4])
	if err != nil {
		return t, err
	}
	code, err := ParseNomenclaturalCode(row[5])
	if err != nil {
		return t, err
	}
	var year sql.NullInt16
	if row[10] != "" {
		y, err := strconv.Atoi(row[10])
		if err != nil {
			return t, fmt.Errorf("bad namePublishedInYear: %q", row[10])
		}
		year = sql.NullInt16{Int16: int16(y), Valid: true}
	}
	t = Taxon{
		TaxonID:                  row[0],
		ScientificName:           strings.TrimSpace(row[1]),
		ScientificNameAuthorship: row[2],
		TaxonRank:                rank,
		TaxonomicStatus:          status,
		NomenclaturalCode:        code,
		ParentNameUsageID:        row[6],
		Family:                   row[7],
		Genus:                    row[8],
		SpecificEpithet:          row[9],
		NamePublishedInYear:      year,
		ThreatStatus:             row[11],
	}
	if t.TaxonID == "" || t.ScientificName == "" {
		return t, fmt.Errorf("taxon row missing taxonID or scientificName")
	}
	return t, nil
}

// Row serializes the occurrence into OccurrenceColumns order.
func (o Occurrence) Row() []string {
	return []string{
		o.OccurrenceID, o.TaxonID, o.ScientificName,
		string(o.BasisOfRecord), string(o.OccurrenceStatus),
		o.CatalogNumber, o.CollectionCode, o.InstitutionCode,
		o.RecordedBy, o.EventDate,
		fmtNullFloat(o.DecimalLatitude),
		fmtNullFloat(o.DecimalLongitude),
		fmtNullFloat(o.CoordinateUncertaintyInMeters),
		o.Country, o.StateProvince, o.Locality,
		fmtNullInt(o.IndividualCount), o.LifeStage,
		string(o.EstablishmentMeans), o.Preparations,
	}
}

// ParseOccurrenceRow converts a row in OccurrenceColumns order back
// into an Occurrence, validating vocabulary and coordinates.
func ParseOccurrenceRow(row []string) (Occurrence, error) {
	var o Occurrence
	if len(row) != len(OccurrenceColumns) {
		return o, fmt.Errorf(
			"occurrence row has %d columns, want %d",
			len(row), len(OccurrenceColumns))
	}
	basis, err := ParseBasisOfRecord(row[3])
	if err != nil {
		return o, err
	}
	status, err := ParseOccurrenceStatus(row[4])
	if err != nil {
		return o, err
	}
	lat, err := parseNullFloat(row[10], "decimalLatitude")
	if err != nil {
		return o, err
	}
	lon, err := parseNullFloat(row[11], "decimalLongitude")
	if err != nil {
		return o, err
	}
	uncert, err := parseNullFloat(row[12], "coordinateUncertaintyInMeters")
	if err != nil {
		return o, err
	}
	count, err := parseNullInt(row[16], "individualCount")
	if err != nil {
		return o, err
	}
	means, err := ParseEstablishmentMeans(row[18])
	if err != nil {
		return o, err
	}
	o = Occurrence{
		OccurrenceID:                  row[0],
		TaxonID:                       row[1],
		ScientificName:                strings.TrimSpace(row[2]),
		BasisOfRecord:                 basis,
		OccurrenceStatus:              status,
		CatalogNumber:                 row[5],
		CollectionCode:                row[6],
		InstitutionCode:               row[7],
		RecordedBy:                    row[8],
		EventDate:                     row[9],
		DecimalLatitude:               lat,
		DecimalLongitude:              lon,
		CoordinateUncertaintyInMeters: uncert,
		Country:                       row[13],
		StateProvince:                 row[14],
		Locality:                      row[15],
		IndividualCount:               count,
		LifeStage:                     row[17],
		EstablishmentMeans:            means,
		Preparations:                  row[19],
	}
	if o.OccurrenceID == "" || o.TaxonID == "" {
		return o, fmt.Errorf(
			"occurrence row missing occurrenceID or taxonID")
	}
	return o, nil
}

func fmtNullFloat(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

func fmtNullInt(i sql.NullInt32) string {
	if !i.Valid {
		return ""
	}
	return strconv.Itoa(int(i.Int32))
}

func parseNullFloat(s, field string) (sql.NullFloat64, error) {
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("bad %s: %q", field, s)
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func parseNullInt(s, field string) (sql.NullInt32, error) {
	if s == "" {
		return sql.NullInt32{}, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return sql.NullInt32{}, fmt.Errorf("bad %s: %q", field, s)
	}
	return sql.NullInt32{Int32: int32(i), Valid: true}, nil
}
