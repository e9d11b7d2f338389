package ioarchive

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/dwc"
	"github.com/gnames/botdb/pkg/taxon"
	"golang.org/x/sync/errgroup"
)

// speciesJob carries one species and its ancestors to the export
// workers.
type speciesJob struct {
	family  taxon.Family
	genus   taxon.Genus
	species taxon.Species
}

// speciesResult is what one worker produces for one species.
type speciesResult struct {
	taxon       dwc.Taxon
	occurrences []dwc.Occurrence
}

// Export packages the whole store into a Darwin Core Archive. All
// records are built and cross-checked in memory first; the archive
// file appears only after the verification passes.
func (c *codecio) Export(
	ctx context.Context, path string,
) (botdb.ExportSummary, error) {
	var sum botdb.ExportSummary
	if err := c.gate.Require(capability.DarwinCore); err != nil {
		return sum, err
	}

	taxa, jobs, err := c.loadHierarchy(ctx)
	if err != nil {
		return sum, err
	}

	speciesTaxa, occurrences, err := c.buildSpeciesRecords(ctx, jobs)
	if err != nil {
		return sum, err
	}
	taxa = append(taxa, speciesTaxa...)

	if err := verifyReferences(taxa, occurrences); err != nil {
		return sum, err
	}

	if err := writeArchive(path, taxa, occurrences); err != nil {
		return sum, err
	}

	sum = botdb.ExportSummary{
		Taxa:        len(taxa),
		Occurrences: len(occurrences),
		Path:        path,
	}
	slog.Info("Exported archive",
		"path", path, "taxa", sum.Taxa, "occurrences", sum.Occurrences)
	return sum, nil
}

// loadHierarchy walks families and genera, emitting their taxon
// records and the species jobs for the workers.
func (c *codecio) loadHierarchy(
	ctx context.Context,
) ([]dwc.Taxon, []speciesJob, error) {
	families, err := c.store.ListFamilies(ctx)
	if err != nil {
		return nil, nil, err
	}

	var taxa []dwc.Taxon
	var jobs []speciesJob
	for _, f := range families {
		taxa = append(taxa, familyTaxon(f))
		genera, err := c.store.ListGenera(ctx, f.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, g := range genera {
			taxa = append(taxa, genusTaxon(f, g))
			species, err := c.store.ListSpecies(ctx, g.ID)
			if err != nil {
				return nil, nil, err
			}
			for _, sp := range species {
				jobs = append(jobs, speciesJob{
					family: f, genus: g, species: sp,
				})
			}
		}
	}
	return taxa, jobs, nil
}

// buildSpeciesRecords converts species into taxon and occurrence
// records with a worker pool. The status lookups and specimen reads
// dominate export time, so they run concurrently.
func (c *codecio) buildSpeciesRecords(
	ctx context.Context, jobs []speciesJob,
) ([]dwc.Taxon, []dwc.Occurrence, error) {
	chIn := make(chan speciesJob)
	chOut := make(chan speciesResult)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, job := range jobs {
			select {
			case chIn <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers errgroup.Group
	for i := 0; i < c.jobsNum; i++ {
		workers.Go(func() error {
			for job := range chIn {
				res, err := c.buildOne(ctx, job)
				if err != nil {
					return err
				}
				select {
				case chOut <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(chOut)
		return workers.Wait()
	})

	var taxa []dwc.Taxon
	var occurrences []dwc.Occurrence
	g.Go(func() error {
		for res := range chOut {
			taxa = append(taxa, res.taxon)
			occurrences = append(occurrences, res.occurrences...)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Workers finish in arbitrary order; exports must be stable.
	sort.Slice(taxa, func(i, j int) bool {
		return taxa[i].ScientificName < taxa[j].ScientificName
	})
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].OccurrenceID < occurrences[j].OccurrenceID
	})
	return taxa, occurrences, nil
}

// buildOne produces the taxon record and occurrence rows of one
// species.
func (c *codecio) buildOne(
	ctx context.Context, job speciesJob,
) (speciesResult, error) {
	res := speciesResult{
		taxon: c.speciesTaxon(ctx, job.family, job.genus, job.species),
	}

	specimens, err := c.store.ListSpecimens(ctx, job.species.ID)
	if err != nil {
		return res, err
	}
	name := job.species.ScientificName(job.genus.Name)
	for _, sp := range specimens {
		err := dwc.CheckCoordinates(sp.Latitude, sp.Longitude)
		if err != nil {
			return res, CoordinateError(err)
		}
		res.occurrences = append(res.occurrences, dwc.Occurrence{
			OccurrenceID:     sp.ID,
			TaxonID:          sp.SpeciesID,
			ScientificName:   name,
			BasisOfRecord:    dwc.PreservedSpecimen,
			OccurrenceStatus: dwc.Present,
			CatalogNumber:    sp.CatalogNumber,
			CollectionCode:   sp.CollectionCode,
			InstitutionCode:  sp.InstitutionCode,
			RecordedBy:       sp.Collector,
			EventDate:        sp.EventDate,
			DecimalLatitude:  sp.Latitude,
			DecimalLongitude: sp.Longitude,
			Country:          sp.Country,
			StateProvince:    sp.StateProvince,
			Locality:         sp.Locality,
		})
	}
	return res, nil
}

// verifyReferences checks every cross-reference of the prepared
// records: parent links between ranks and taxon links of
// occurrences. Any dangling reference rejects the whole export.
func verifyReferences(taxa []dwc.Taxon, occurrences []dwc.Occurrence) error {
	ids := make(map[string]struct{}, len(taxa))
	for _, t := range taxa {
		ids[t.TaxonID] = struct{}{}
	}
	for _, t := range taxa {
		if t.ParentNameUsageID == "" {
			continue
		}
		if _, ok := ids[t.ParentNameUsageID]; !ok {
			return ReferentialError(t.TaxonID, t.ParentNameUsageID)
		}
	}
	for _, o := range occurrences {
		if _, ok := ids[o.TaxonID]; !ok {
			return ReferentialError(o.OccurrenceID, o.TaxonID)
		}
	}
	return nil
}

// writeArchive creates the zip with the core, the optional
// extension, the descriptor and the dataset metadata.
func writeArchive(
	path string,
	taxa []dwc.Taxon,
	occurrences []dwc.Occurrence,
) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}

	zw := zip.NewWriter(f)
	err = writeArchiveEntries(zw, taxa, occurrences)
	if err == nil {
		err = zw.Close()
	}
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return WriteError(path, err)
	}
	return nil
}

func writeArchiveEntries(
	zw *zip.Writer,
	taxa []dwc.Taxon,
	occurrences []dwc.Occurrence,
) error {
	taxonRows := make([][]string, 0, len(taxa)+1)
	taxonRows = append(taxonRows, dwc.TaxonColumns)
	for _, t := range taxa {
		taxonRows = append(taxonRows, t.Row())
	}
	if err := writeTabFile(zw, "taxon.txt", taxonRows); err != nil {
		return err
	}

	withOccurrences := len(occurrences) > 0
	if withOccurrences {
		occRows := make([][]string, 0, len(occurrences)+1)
		occRows = append(occRows, dwc.OccurrenceColumns)
		for _, o := range occurrences {
			occRows = append(occRows, o.Row())
		}
		if err := writeTabFile(zw, "occurrence.txt", occRows); err != nil {
			return err
		}
	}

	err := writeXMLFile(zw, "meta.xml", dwc.NewMeta(withOccurrences))
	if err != nil {
		return err
	}
	eml := dwc.EML{Dataset: dwc.EMLDataset{
		Title:    "Botanical taxonomy export",
		Abstract: "Taxon hierarchy and specimen occurrences.",
	}}
	return writeXMLFile(zw, "eml.xml", eml)
}

func writeTabFile(zw *zip.Writer, name string, rows [][]string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeXMLFile(zw *zip.Writer, name string, doc any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}
