package iostore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gnames/botdb/internal/iodb"
	"github.com/gnames/botdb/internal/iomigrate"
	"github.com/gnames/botdb/internal/iostore"
	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/config"
	"github.com/gnames/botdb/pkg/db"
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/botdb/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (botdb.TaxonomyStore, db.Operator) {
	t.Helper()
	ctx := context.Background()

	op, err := iodb.New("sqlite")
	require.NoError(t, err)
	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.sqlite")
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { _ = op.Close() })

	gate, err := capability.New(
		[]string{"taxonomy", "migrations", "conservation"})
	require.NoError(t, err)
	require.NoError(t, iomigrate.New(op, gate).Run(ctx))

	return iostore.New(op, gate, 1), op
}

// seedRosa creates Rosaceae Juss. > Rosa L. > rubiginosa L.
func seedRosa(
	t *testing.T, ctx context.Context, store botdb.TaxonomyStore,
) (taxon.Family, taxon.Genus, taxon.Species) {
	t.Helper()

	f := taxon.Family{ID: "fam-1", Name: "Rosaceae", Authority: "Juss."}
	require.NoError(t, store.CreateFamily(ctx, f))

	g := taxon.Genus{
		ID: "gen-1", FamilyID: f.ID, Name: "Rosa", Authority: "L.",
	}
	require.NoError(t, store.CreateGenus(ctx, g))

	sp := taxon.Species{
		ID: "sp-1", GenusID: g.ID, Epithet: "rubiginosa",
		Authority:       "L.",
		PublicationYear: sql.NullInt16{Int16: 1753, Valid: true},
	}
	require.NoError(t, store.CreateSpecies(ctx, sp))
	return f, g, sp
}

func TestFamilyCRUD(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	f := taxon.Family{ID: "fam-1", Name: "Rosaceae", Authority: "Juss."}
	require.NoError(t, store.CreateFamily(ctx, f))

	got, err := store.GetFamily(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	err = store.CreateFamily(ctx, f)
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.DuplicateKeyError))

	f.Name = "Fabaceae"
	f.Authority = "Lindl."
	require.NoError(t, store.UpdateFamily(ctx, f))
	got, err = store.GetFamily(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fabaceae", got.Name)

	_, err = store.GetFamily(ctx, "nope")
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))

	require.NoError(t, store.DeleteFamily(ctx, f.ID, false))
	_, err = store.GetFamily(ctx, f.ID)
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	tests := []struct {
		msg string
		fn  func() error
	}{
		{
			msg: "family without name",
			fn: func() error {
				return store.CreateFamily(ctx,
					taxon.Family{ID: "f", Name: "  "})
			},
		},
		{
			msg: "family without id",
			fn: func() error {
				return store.CreateFamily(ctx,
					taxon.Family{Name: "Rosaceae"})
			},
		},
		{
			msg: "species with bad epithet",
			fn: func() error {
				return store.CreateSpecies(ctx, taxon.Species{
					ID: "s", GenusID: "g", Epithet: "rub iginosa",
				})
			},
		},
	}

	for _, v := range tests {
		err := v.fn()
		require.Error(t, err, v.msg)
		assert.True(t,
			errcode.HasCode(err, errcode.ValidationError), v.msg)
	}
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	err := store.CreateGenus(ctx, taxon.Genus{
		ID: "gen-1", FamilyID: "missing", Name: "Rosa",
	})
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.ForeignKeyError))

	err = store.CreateSpecies(ctx, taxon.Species{
		ID: "sp-1", GenusID: "missing", Epithet: "rubiginosa",
	})
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.ForeignKeyError))
}

func TestDeleteRestrict(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	f, g, _ := seedRosa(t, ctx, store)

	err := store.DeleteFamily(ctx, f.ID, false)
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.HasDependentsError))

	err = store.DeleteGenus(ctx, g.ID, false)
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.HasDependentsError))

	// Nothing was deleted.
	_, err = store.GetFamily(ctx, f.ID)
	assert.NoError(t, err)
	_, err = store.GetGenus(ctx, g.ID)
	assert.NoError(t, err)
}

func TestDeleteCascade(t *testing.T) {
	ctx := context.Background()
	store, op := testStore(t)
	f, g, sp := seedRosa(t, ctx, store)

	require.NoError(t, store.AddSpecimen(ctx, taxon.Specimen{
		ID: "spec-1", SpeciesID: sp.ID, Collector: "E. Kowalski",
	}))
	_, err := op.DB().ExecContext(ctx, `
		INSERT INTO conservation_assessments
		(id, species_id, category, assessment_date, population_trend)
		VALUES ('a-1', 'sp-1', 'EN', '2023-06-01', 'Decreasing')`)
	require.NoError(t, err)

	require.NoError(t, store.DeleteFamily(ctx, f.ID, true))

	// The whole subtree is gone.
	for _, table := range []string{
		"families", "genera", "species",
		"specimens", "conservation_assessments",
	} {
		var n int
		err := op.DB().QueryRowContext(ctx,
			"SELECT count(*) FROM "+table).Scan(&n)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}

	_, err = store.GetGenus(ctx, g.ID)
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))
}

func TestDeleteSpeciesCascade(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	_, _, sp := seedRosa(t, ctx, store)

	require.NoError(t, store.AddSpecimen(ctx, taxon.Specimen{
		ID: "spec-1", SpeciesID: sp.ID,
	}))

	err := store.DeleteSpecies(ctx, sp.ID, false)
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.HasDependentsError))

	require.NoError(t, store.DeleteSpecies(ctx, sp.ID, true))
	_, err = store.GetSpecies(ctx, sp.ID)
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))
}

func TestReParent(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	_, g, sp := seedRosa(t, ctx, store)

	f2 := taxon.Family{ID: "fam-2", Name: "Fabaceae", Authority: "Lindl."}
	require.NoError(t, store.CreateFamily(ctx, f2))

	require.NoError(t, store.ReParentGenus(ctx, g.ID, f2.ID))
	got, err := store.GetGenus(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, f2.ID, got.FamilyID)

	err = store.ReParentGenus(ctx, g.ID, "missing")
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))

	g2 := taxon.Genus{ID: "gen-2", FamilyID: f2.ID, Name: "Rubus"}
	require.NoError(t, store.CreateGenus(ctx, g2))
	require.NoError(t, store.ReParentSpecies(ctx, sp.ID, g2.ID))
	gotSp, err := store.GetSpecies(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, g2.ID, gotSp.GenusID)
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	f, g, _ := seedRosa(t, ctx, store)

	require.NoError(t, store.CreateGenus(ctx, taxon.Genus{
		ID: "gen-2", FamilyID: f.ID, Name: "Alchemilla",
	}))

	families, err := store.ListFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, families, 1)

	genera, err := store.ListGenera(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, genera, 2)
	assert.Equal(t, "Alchemilla", genera[0].Name, "sorted by name")

	species, err := store.ListSpecies(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, species, 1)
}

func TestFinders(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	f, g, sp := seedRosa(t, ctx, store)

	got, err := store.FindFamilyByName(ctx, "rosaceae")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	gotG, err := store.FindGenusByName(ctx, f.ID, "ROSA")
	require.NoError(t, err)
	assert.Equal(t, g.ID, gotG.ID)

	gotSp, err := store.FindSpeciesByEpithet(ctx, g.ID, "Rubiginosa")
	require.NoError(t, err)
	assert.Equal(t, sp.ID, gotSp.ID)

	_, err = store.FindGenusByName(ctx, f.ID, "Quercus")
	assert.True(t, errcode.HasCode(err, errcode.NotFoundError))
}

func TestLookupScientificName(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	f, g, sp := seedRosa(t, ctx, store)

	tests := []struct {
		msg, name string
		hits      int
	}{
		{msg: "canonical binomial", name: "Rosa rubiginosa", hits: 1},
		{msg: "with matching authority", name: "Rosa rubiginosa L.", hits: 1},
		{msg: "case-insensitive", name: "rosa RUBIGINOSA", hits: 1},
		{msg: "lowercase with authority", name: "rosa rubiginosa L.", hits: 1},
		{msg: "wrong authority", name: "Rosa rubiginosa Mill.", hits: 0},
		{msg: "unknown species", name: "Rosa canina", hits: 0},
		{msg: "uninomial", name: "Rosa", hits: 0},
	}

	for _, v := range tests {
		matches, err := store.LookupScientificName(ctx, v.name)
		require.NoError(t, err, v.msg)
		require.Len(t, matches, v.hits, v.msg)
		if v.hits == 1 {
			m := matches[0]
			assert.Equal(t, f.ID, m.Family.ID, v.msg)
			assert.Equal(t, g.ID, m.Genus.ID, v.msg)
			assert.Equal(t, sp.ID, m.Species.ID, v.msg)
			assert.Equal(t, "Rosa rubiginosa L.",
				m.Species.ScientificName(m.Genus.Name), v.msg)
		}
	}
}

func TestLookupUnparsableName(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	seedRosa(t, ctx, store)

	_, err := store.LookupScientificName(ctx, "###")
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.ValidationError))
}

func TestSearchSpecies(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	_, g, _ := seedRosa(t, ctx, store)

	require.NoError(t, store.CreateSpecies(ctx, taxon.Species{
		ID: "sp-2", GenusID: g.ID, Epithet: "canina", Authority: "L.",
	}))

	matches, err := store.SearchSpecies(ctx, "rosa")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = store.SearchSpecies(ctx, "rubig")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "rubiginosa", matches[0].Species.Epithet)

	matches, err = store.SearchSpecies(ctx, "quercus")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSpecimens(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	_, _, sp := seedRosa(t, ctx, store)

	err := store.AddSpecimen(ctx, taxon.Specimen{
		ID: "spec-1", SpeciesID: "missing",
	})
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.ForeignKeyError))

	require.NoError(t, store.AddSpecimen(ctx, taxon.Specimen{
		ID: "spec-1", SpeciesID: sp.ID, Collector: "E. Kowalski",
		EventDate:     "1987-05-12",
		CatalogNumber: "K-001",
		Latitude:      sql.NullFloat64{Float64: 51.5, Valid: true},
		Longitude:     sql.NullFloat64{Float64: -0.12, Valid: true},
	}))
	require.NoError(t, store.AddSpecimen(ctx, taxon.Specimen{
		ID: "spec-2", SpeciesID: sp.ID, Collector: "B. Osei",
		EventDate: "1990-01-02",
	}))

	specimens, err := store.ListSpecimens(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, specimens, 2)
	assert.Equal(t, "spec-1", specimens[0].ID, "sorted by event date")

	byCollector, err := store.SpecimensByCollector(ctx, "kowalski")
	require.NoError(t, err)
	require.Len(t, byCollector, 1)
	assert.Equal(t, "spec-1", byCollector[0].ID)
}

func TestCapabilityGate(t *testing.T) {
	ctx := context.Background()

	op, err := iodb.New("sqlite")
	require.NoError(t, err)
	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.sqlite")
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { _ = op.Close() })
	require.NoError(t,
		iomigrate.New(op, capability.Default()).Run(ctx))

	gate, err := capability.New([]string{"migrations"})
	require.NoError(t, err)
	store := iostore.New(op, gate, 1)

	// Writes and reads are both gated.
	tests := []struct {
		msg string
		fn  func() error
	}{
		{
			msg: "create family",
			fn: func() error {
				return store.CreateFamily(ctx,
					taxon.Family{ID: "fam-1", Name: "Rosaceae"})
			},
		},
		{
			msg: "get family",
			fn: func() error {
				_, err := store.GetFamily(ctx, "fam-1")
				return err
			},
		},
		{
			msg: "list families",
			fn: func() error {
				_, err := store.ListFamilies(ctx)
				return err
			},
		},
		{
			msg: "lookup scientific name",
			fn: func() error {
				_, err := store.LookupScientificName(
					ctx, "Rosa rubiginosa")
				return err
			},
		},
		{
			msg: "search species",
			fn: func() error {
				_, err := store.SearchSpecies(ctx, "rosa")
				return err
			},
		},
		{
			msg: "list specimens",
			fn: func() error {
				_, err := store.ListSpecimens(ctx, "sp-1")
				return err
			},
		},
		{
			msg: "specimens by collector",
			fn: func() error {
				_, err := store.SpecimensByCollector(ctx, "kowalski")
				return err
			},
		},
		{
			msg: "find genus by name",
			fn: func() error {
				_, err := store.FindGenusByName(ctx, "fam-1", "Rosa")
				return err
			},
		},
	}

	for _, v := range tests {
		err := v.fn()
		require.Error(t, err, v.msg)
		assert.True(t,
			errcode.HasCode(err, errcode.CapabilityDisabledError), v.msg)
	}
}
