package migration

// All returns the full ordered migration sequence. The SQL sticks to
// portable types (TEXT, INTEGER, REAL) so the same checksummed
// definition runs on both the sqlite and postgres backends. Dates are
// TEXT in YYYY-MM-DD form; lexical order equals chronological order.
//
// Released migrations are immutable. Schema changes get a new
// version appended here, never an edit to an existing one.
func All() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "taxonomy_hierarchy",
			Statements: []string{
				`CREATE TABLE families (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    authority TEXT NOT NULL DEFAULT ''
)`,
				`CREATE TABLE genera (
    id TEXT PRIMARY KEY,
    family_id TEXT NOT NULL REFERENCES families (id),
    name TEXT NOT NULL,
    authority TEXT NOT NULL DEFAULT ''
)`,
				`CREATE TABLE species (
    id TEXT PRIMARY KEY,
    genus_id TEXT NOT NULL REFERENCES genera (id),
    epithet TEXT NOT NULL,
    authority TEXT NOT NULL DEFAULT '',
    publication_year INTEGER
)`,
				`CREATE INDEX idx_genera_family ON genera (family_id)`,
				`CREATE INDEX idx_species_genus ON species (genus_id)`,
				`CREATE INDEX idx_genera_name ON genera (lower(name))`,
				`CREATE INDEX idx_species_epithet ON species (lower(epithet))`,
			},
		},
		{
			Version: 2,
			Name:    "conservation_assessments",
			Statements: []string{
				`CREATE TABLE conservation_assessments (
    id TEXT PRIMARY KEY,
    species_id TEXT NOT NULL REFERENCES species (id),
    category TEXT NOT NULL,
    assessment_date TEXT NOT NULL,
    population_trend TEXT NOT NULL,
    threats TEXT NOT NULL DEFAULT '[]',
    actions TEXT NOT NULL DEFAULT '[]',
    criteria TEXT NOT NULL DEFAULT '',
    assessor TEXT NOT NULL DEFAULT '',
    reviewer TEXT NOT NULL DEFAULT ''
)`,
				`CREATE UNIQUE INDEX idx_assessments_species_date
    ON conservation_assessments (species_id, assessment_date)`,
			},
		},
		{
			Version: 3,
			Name:    "specimens",
			Statements: []string{
				`CREATE TABLE specimens (
    id TEXT PRIMARY KEY,
    species_id TEXT NOT NULL REFERENCES species (id),
    catalog_number TEXT NOT NULL DEFAULT '',
    collector TEXT NOT NULL DEFAULT '',
    event_date TEXT NOT NULL DEFAULT '',
    latitude REAL,
    longitude REAL,
    country TEXT NOT NULL DEFAULT '',
    state_province TEXT NOT NULL DEFAULT '',
    locality TEXT NOT NULL DEFAULT '',
    institution_code TEXT NOT NULL DEFAULT '',
    collection_code TEXT NOT NULL DEFAULT ''
)`,
				`CREATE INDEX idx_specimens_species ON specimens (species_id)`,
				`CREATE INDEX idx_specimens_collector
    ON specimens (lower(collector))`,
			},
		},
	}
}
