package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/conservation"
	"github.com/gnames/botdb/pkg/taxon"
)

func (s *storeio) AddSpecimen(ctx context.Context, sp taxon.Specimen) error {
	if sp.ID == "" {
		return ValidationError("specimen", "id", sp.ID)
	}
	if sp.EventDate != "" && !conservation.ValidDate(sp.EventDate) {
		return ValidationError("specimen", "event date", sp.EventDate)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "specimens", sp.ID)
	if err != nil {
		return err
	}
	if exists {
		return DuplicateError("specimen", sp.ID)
	}

	parentOK, err := s.rowExists(ctx, tx, "species", sp.SpeciesID)
	if err != nil {
		return err
	}
	if !parentOK {
		return ForeignKeyError("specimen", "species", sp.SpeciesID)
	}

	_, err = tx.ExecContext(ctx, s.operator.Rebind(`
		INSERT INTO specimens
		(id, species_id, catalog_number, collector, event_date,
		 latitude, longitude, country, state_province, locality,
		 institution_code, collection_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		sp.ID, sp.SpeciesID, sp.CatalogNumber, sp.Collector,
		sp.EventDate, sp.Latitude, sp.Longitude, sp.Country,
		sp.StateProvince, sp.Locality, sp.InstitutionCode,
		sp.CollectionCode)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) ListSpecimens(
	ctx context.Context, speciesID string,
) ([]taxon.Specimen, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(
		selectSpecimens+` WHERE species_id = ? ORDER BY event_date`),
		speciesID)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanSpecimens(rows)
}

func (s *storeio) SpecimensByCollector(
	ctx context.Context, pattern string,
) ([]taxon.Specimen, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(
		selectSpecimens+`
		WHERE lower(collector) LIKE lower(?)
		ORDER BY event_date`),
		"%"+pattern+"%")
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanSpecimens(rows)
}

const selectSpecimens = `
	SELECT id, species_id, catalog_number, collector, event_date,
	       latitude, longitude, country, state_province, locality,
	       institution_code, collection_code
	FROM specimens`

func scanSpecimens(rows *sql.Rows) ([]taxon.Specimen, error) {
	var res []taxon.Specimen
	for rows.Next() {
		var sp taxon.Specimen
		err := rows.Scan(&sp.ID, &sp.SpeciesID, &sp.CatalogNumber,
			&sp.Collector, &sp.EventDate, &sp.Latitude, &sp.Longitude,
			&sp.Country, &sp.StateProvince, &sp.Locality,
			&sp.InstitutionCode, &sp.CollectionCode)
		if err != nil {
			return nil, QueryError(err)
		}
		res = append(res, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}
