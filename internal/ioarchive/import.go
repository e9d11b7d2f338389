package ioarchive

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"log/slog"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/conservation"
	"github.com/gnames/botdb/pkg/dwc"
	"github.com/gnames/botdb/pkg/errcode"
)

// rankOrder applies taxon records parents-first.
var rankOrder = map[dwc.TaxonRank]int{
	dwc.RankFamily:  0,
	dwc.RankGenus:   1,
	dwc.RankSpecies: 2,
}

// Import reads a Darwin Core Archive and applies its records. The
// whole archive is decoded and cross-checked first; a referential
// inconsistency aborts before any write reaches the store.
func (c *codecio) Import(
	ctx context.Context, path string,
) (botdb.ImportSummary, error) {
	var sum botdb.ImportSummary
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return sum, err
	}

	taxa, occurrences, err := readArchive(path)
	if err != nil {
		return sum, err
	}

	if err := verifyReferences(taxa, occurrences); err != nil {
		return sum, err
	}

	sort.SliceStable(taxa, func(i, j int) bool {
		return rankOrder[taxa[i].TaxonRank] < rankOrder[taxa[j].TaxonRank]
	})

	bar := pb.Full.Start(len(taxa))
	bar.Set("prefix", "Applying taxa: ")
	bar.Set(pb.CleanOnFinish, true)

	for _, t := range taxa {
		created, err := c.applyTaxon(ctx, t)
		if err != nil {
			return sum, err
		}
		switch {
		case t.TaxonRank == dwc.RankFamily && created:
			sum.FamiliesCreated++
		case t.TaxonRank == dwc.RankGenus && created:
			sum.GeneraCreated++
		case t.TaxonRank == dwc.RankSpecies && created:
			sum.SpeciesCreated++
		case t.TaxonRank == dwc.RankSpecies:
			sum.SpeciesUpdated++
		}

		if t.TaxonRank == dwc.RankSpecies && t.ThreatStatus != "" {
			n, err := c.importThreatStatus(ctx, t)
			if err != nil {
				return sum, err
			}
			sum.Assessments += n
		}
		bar.Add(1)
	}
	bar.Finish()

	bar = pb.Full.Start(len(occurrences))
	bar.Set("prefix", "Applying occurrences: ")
	bar.Set(pb.CleanOnFinish, true)

	for _, o := range occurrences {
		if err := c.FromOccurrence(ctx, o); err != nil {
			// Re-imports meet their own specimens again.
			if errcode.HasCode(err, errcode.DuplicateKeyError) {
				continue
			}
			return sum, err
		}
		sum.Specimens++
		bar.Add(1)
	}
	bar.Finish()

	slog.Info("Imported archive",
		"path", path,
		"families", sum.FamiliesCreated,
		"genera", sum.GeneraCreated,
		"species", sum.SpeciesCreated+sum.SpeciesUpdated,
		"specimens", sum.Specimens,
		"assessments", sum.Assessments,
	)
	return sum, nil
}

// importThreatStatus records the threatStatus column as an imported
// assessment dated today. Skipped silently when the conservation
// capability is off or the date already carries an assessment.
func (c *codecio) importThreatStatus(
	ctx context.Context, t dwc.Taxon,
) (int, error) {
	if c.tracker == nil || !c.gate.Enabled(capability.Conservation) {
		return 0, nil
	}
	date := time.Now().UTC().Format(conservation.DateLayout)
	a, err := importedAssessment(taxonID(t), t.ThreatStatus, date)
	if err != nil {
		return 0, err
	}
	err = c.tracker.RecordAssessment(ctx, a)
	if err != nil {
		if errcode.HasCode(err, errcode.ConflictError) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}

// readArchive decodes the taxon core and the optional occurrence
// extension of the archive at path.
func readArchive(
	path string,
) ([]dwc.Taxon, []dwc.Occurrence, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, ReadError(path, err)
	}
	defer func() { _ = zr.Close() }()

	var taxa []dwc.Taxon
	var occurrences []dwc.Occurrence
	var haveCore bool

	for _, zf := range zr.File {
		switch zf.Name {
		case "taxon.txt":
			haveCore = true
			rows, err := readTabFile(path, zf)
			if err != nil {
				return nil, nil, err
			}
			for _, row := range rows {
				t, err := dwc.ParseTaxonRow(row)
				if err != nil {
					return nil, nil, MalformedRecordError(
						firstColumn(row), err.Error())
				}
				taxa = append(taxa, t)
			}
		case "occurrence.txt":
			rows, err := readTabFile(path, zf)
			if err != nil {
				return nil, nil, err
			}
			for _, row := range rows {
				o, err := dwc.ParseOccurrenceRow(row)
				if err != nil {
					return nil, nil, MalformedRecordError(
						firstColumn(row), err.Error())
				}
				err = dwc.CheckCoordinates(
					o.DecimalLatitude, o.DecimalLongitude)
				if err != nil {
					return nil, nil, CoordinateError(err)
				}
				occurrences = append(occurrences, o)
			}
		}
	}

	if !haveCore {
		return nil, nil, MissingCoreError(path)
	}
	return taxa, occurrences, nil
}

// readTabFile decodes one tab-delimited archive member, dropping the
// header line.
func readTabFile(path string, zf *zip.File) ([][]string, error) {
	r, err := zf.Open()
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer func() { _ = r.Close() }()

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, ReadError(path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func firstColumn(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
