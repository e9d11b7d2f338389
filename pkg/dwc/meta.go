package dwc

import "encoding/xml"

// Row type and term URIs used in the archive descriptor.
const (
	Namespace         = "http://rs.tdwg.org/dwc/text/"
	TaxonRowType      = "http://rs.tdwg.org/dwc/terms/Taxon"
	OccurrenceRowType = "http://rs.tdwg.org/dwc/terms/Occurrence"
	dwcTermPrefix     = "http://rs.tdwg.org/dwc/terms/"
	gbifTermPrefix    = "http://rs.gbif.org/terms/1.0/"
)

// termURI maps archive column names to their full term URIs.
// threatStatus comes from the GBIF extension vocabulary; everything
// else is a Darwin Core simple term.
func termURI(column string) string {
	if column == "threatStatus" {
		return gbifTermPrefix + column
	}
	return dwcTermPrefix + column
}

// Meta is the meta.xml archive descriptor: one core file, zero or
// more extension files, and the field-to-term mappings for each.
type Meta struct {
	XMLName    xml.Name        `xml:"archive"`
	Namespace  string          `xml:"xmlns,attr"`
	Core       MetaFile        `xml:"core"`
	Extensions []ExtensionFile `xml:"extension"`
}

// MetaFile describes the core data file of an archive.
type MetaFile struct {
	RowType            string     `xml:"rowType,attr"`
	FieldsTerminatedBy string     `xml:"fieldsTerminatedBy,attr"`
	LinesTerminatedBy  string     `xml:"linesTerminatedBy,attr"`
	IgnoreHeaderLines  int        `xml:"ignoreHeaderLines,attr"`
	Encoding           string     `xml:"encoding,attr"`
	Files              MetaFiles  `xml:"files"`
	ID                 MetaIndex  `xml:"id"`
	Fields             []MetaTerm `xml:"field"`
}

// ExtensionFile describes an extension data file; coreid points at
// the column holding the reference into the core file.
type ExtensionFile struct {
	RowType            string     `xml:"rowType,attr"`
	FieldsTerminatedBy string     `xml:"fieldsTerminatedBy,attr"`
	LinesTerminatedBy  string     `xml:"linesTerminatedBy,attr"`
	IgnoreHeaderLines  int        `xml:"ignoreHeaderLines,attr"`
	Encoding           string     `xml:"encoding,attr"`
	Files              MetaFiles  `xml:"files"`
	CoreID             MetaIndex  `xml:"coreid"`
	Fields             []MetaTerm `xml:"field"`
}

// MetaFiles holds the data file location inside the archive.
type MetaFiles struct {
	Location string `xml:"location"`
}

// MetaIndex points at a column by zero-based index.
type MetaIndex struct {
	Index int `xml:"index,attr"`
}

// MetaTerm maps a column index to a term URI.
type MetaTerm struct {
	Index int    `xml:"index,attr"`
	Term  string `xml:"term,attr"`
}

// NewMeta builds the descriptor for an archive with a taxon core and
// an optional occurrence extension. coreIDIndex is always 0: both row
// layouts put their identifier first.
func NewMeta(withOccurrences bool) Meta {
	meta := Meta{
		Namespace: Namespace,
		Core:      newMetaFile(TaxonRowType, "taxon.txt", TaxonColumns),
	}
	if withOccurrences {
		occ := newMetaFile(
			OccurrenceRowType, "occurrence.txt", OccurrenceColumns)
		ext := ExtensionFile{
			RowType:            occ.RowType,
			FieldsTerminatedBy: occ.FieldsTerminatedBy,
			LinesTerminatedBy:  occ.LinesTerminatedBy,
			IgnoreHeaderLines:  occ.IgnoreHeaderLines,
			Encoding:           occ.Encoding,
			Files:              occ.Files,
			// Column 1 of an occurrence row is taxonID, the
			// reference into the taxon core.
			CoreID: MetaIndex{Index: 1},
			Fields: occ.Fields,
		}
		meta.Extensions = append(meta.Extensions, ext)
	}
	return meta
}

func newMetaFile(rowType, location string, columns []string) MetaFile {
	fields := make([]MetaTerm, len(columns))
	for i, col := range columns {
		fields[i] = MetaTerm{Index: i, Term: termURI(col)}
	}
	return MetaFile{
		RowType:            rowType,
		FieldsTerminatedBy: "\\t",
		LinesTerminatedBy:  "\\n",
		IgnoreHeaderLines:  1,
		Encoding:           "UTF-8",
		Files:              MetaFiles{Location: location},
		ID:                 MetaIndex{Index: 0},
		Fields:             fields,
	}
}

// EML is a minimal eml.xml dataset metadata document.
type EML struct {
	XMLName xml.Name   `xml:"eml"`
	Dataset EMLDataset `xml:"dataset"`
}

// EMLDataset names the dataset an archive carries.
type EMLDataset struct {
	Title    string `xml:"title"`
	Abstract string `xml:"abstract>para,omitempty"`
}
