package dwc_test

import (
	"database/sql"
	"encoding/xml"
	"testing"

	"github.com/gnames/botdb/pkg/dwc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCoordinates(t *testing.T) {
	valid := func(f float64) sql.NullFloat64 {
		return sql.NullFloat64{Float64: f, Valid: true}
	}

	tests := []struct {
		msg      string
		lat, lon sql.NullFloat64
		ok       bool
	}{
		{msg: "both null", ok: true},
		{msg: "valid pair", lat: valid(51.5), lon: valid(-0.12), ok: true},
		{msg: "boundary values", lat: valid(-90), lon: valid(180), ok: true},
		{msg: "latitude too big", lat: valid(90.01), lon: valid(0), ok: false},
		{msg: "longitude too small", lat: valid(0), lon: valid(-180.5), ok: false},
	}

	for _, v := range tests {
		err := dwc.CheckCoordinates(v.lat, v.lon)
		if v.ok {
			assert.NoError(t, err, v.msg)
		} else {
			assert.Error(t, err, v.msg)
		}
	}
}

func TestTaxonRowCycle(t *testing.T) {
	in := dwc.Taxon{
		TaxonID:                  "sp-1",
		ScientificName:           "Rosa rubiginosa L.",
		ScientificNameAuthorship: "L.",
		TaxonRank:                dwc.RankSpecies,
		TaxonomicStatus:          dwc.Accepted,
		NomenclaturalCode:        dwc.ICN,
		ParentNameUsageID:        "gen-1",
		Family:                   "Rosaceae",
		Genus:                    "Rosa",
		SpecificEpithet:          "rubiginosa",
		NamePublishedInYear:      sql.NullInt16{Int16: 1753, Valid: true},
		ThreatStatus:             "EN",
	}

	row := in.Row()
	require.Len(t, row, len(dwc.TaxonColumns))

	out, err := dwc.ParseTaxonRow(row)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseTaxonRowErrors(t *testing.T) {
	good := dwc.Taxon{
		TaxonID:        "sp-1",
		ScientificName: "Rosa rubiginosa",
		TaxonRank:      dwc.RankSpecies,
	}.Row()

	tests := []struct {
		msg    string
		mutate func(row []string)
	}{
		{
			msg:    "missing taxonID",
			mutate: func(row []string) { row[0] = "" },
		},
		{
			msg:    "unknown rank",
			mutate: func(row []string) { row[3] = "kingdom" },
		},
		{
			msg:    "unknown status",
			mutate: func(row []string) { row[4] = "bogus" },
		},
		{
			msg:    "bad publication year",
			mutate: func(row []string) { row[10] = "MDCCLIII" },
		},
	}

	for _, v := range tests {
		row := make([]string, len(good))
		copy(row, good)
		v.mutate(row)
		_, err := dwc.ParseTaxonRow(row)
		assert.Error(t, err, v.msg)
	}

	_, err := dwc.ParseTaxonRow(good[:5])
	assert.Error(t, err, "short row")
}

func TestParseOccurrenceRowDefaults(t *testing.T) {
	row := make([]string, len(dwc.OccurrenceColumns))
	row[0] = "occ-1"
	row[1] = "sp-1"
	row[2] = "Rosa rubiginosa L."
	row[3] = string(dwc.PreservedSpecimen)
	row[4] = string(dwc.Present)

	occ, err := dwc.ParseOccurrenceRow(row)
	require.NoError(t, err)
	assert.Equal(t, "occ-1", occ.OccurrenceID)
	assert.False(t, occ.DecimalLatitude.Valid)
	assert.False(t, occ.IndividualCount.Valid)
	assert.Empty(t, occ.EstablishmentMeans)
}

func TestValidateOccurrence(t *testing.T) {
	var occ dwc.Occurrence
	warnings := dwc.ValidateOccurrence(occ)
	assert.Len(t, warnings, 3)

	occ.DecimalLatitude = sql.NullFloat64{Float64: 1, Valid: true}
	occ.DecimalLongitude = sql.NullFloat64{Float64: 1, Valid: true}
	occ.EventDate = "1987-05-12"
	occ.RecordedBy = "E. Kowalski"
	assert.Empty(t, dwc.ValidateOccurrence(occ))
}

func TestNewMeta(t *testing.T) {
	meta := dwc.NewMeta(true)

	assert.Equal(t, dwc.TaxonRowType, meta.Core.RowType)
	assert.Equal(t, "taxon.txt", meta.Core.Files.Location)
	assert.Equal(t, 0, meta.Core.ID.Index)
	assert.Len(t, meta.Core.Fields, len(dwc.TaxonColumns))

	require.Len(t, meta.Extensions, 1)
	ext := meta.Extensions[0]
	assert.Equal(t, dwc.OccurrenceRowType, ext.RowType)
	assert.Equal(t, "occurrence.txt", ext.Files.Location)
	// Column 1 of an occurrence row is taxonID.
	assert.Equal(t, 1, ext.CoreID.Index)

	// threatStatus maps to the GBIF vocabulary.
	last := meta.Core.Fields[len(meta.Core.Fields)-1]
	assert.Equal(t,
		"http://rs.gbif.org/terms/1.0/threatStatus", last.Term)

	// The descriptor must serialize cleanly.
	data, err := xml.Marshal(meta)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<archive xmlns=`)

	noOcc := dwc.NewMeta(false)
	assert.Empty(t, noOcc.Extensions)
}
