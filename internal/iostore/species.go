package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/taxon"
)

func (s *storeio) CreateSpecies(ctx context.Context, sp taxon.Species) error {
	if sp.ID == "" {
		return ValidationError("species", "id", sp.ID)
	}
	if !taxon.ValidEpithet(sp.Epithet) {
		return ValidationError("species", "epithet", sp.Epithet)
	}
	if !taxon.ValidAuthority(sp.Authority) {
		return ValidationError("species", "authority", sp.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "species", sp.ID)
	if err != nil {
		return err
	}
	if exists {
		return DuplicateError("species", sp.ID)
	}

	parentOK, err := s.rowExists(ctx, tx, "genera", sp.GenusID)
	if err != nil {
		return err
	}
	if !parentOK {
		return ForeignKeyError("species", "genus", sp.GenusID)
	}

	_, err = tx.ExecContext(ctx, s.operator.Rebind(`
		INSERT INTO species
		(id, genus_id, epithet, authority, publication_year)
		VALUES (?, ?, ?, ?, ?)`),
		sp.ID, sp.GenusID, sp.Epithet, sp.Authority, sp.PublicationYear)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) GetSpecies(
	ctx context.Context, id string,
) (taxon.Species, error) {
	var sp taxon.Species
	sqlDB, err := s.conn()
	if err != nil {
		return sp, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, genus_id, epithet, authority, publication_year
		FROM species WHERE id = ?`),
		id,
	).Scan(&sp.ID, &sp.GenusID, &sp.Epithet, &sp.Authority,
		&sp.PublicationYear)
	if err == sql.ErrNoRows {
		return sp, NotFoundError("species", id)
	}
	if err != nil {
		return sp, QueryError(err)
	}
	return sp, nil
}

func (s *storeio) UpdateSpecies(ctx context.Context, sp taxon.Species) error {
	if !taxon.ValidEpithet(sp.Epithet) {
		return ValidationError("species", "epithet", sp.Epithet)
	}
	if !taxon.ValidAuthority(sp.Authority) {
		return ValidationError("species", "authority", sp.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.operator.Rebind(`
		UPDATE species
		SET epithet = ?, authority = ?, publication_year = ?
		WHERE id = ?`),
		sp.Epithet, sp.Authority, sp.PublicationYear, sp.ID)
	if err != nil {
		return QueryError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError("species", sp.ID)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

// DeleteSpecies restricts on existing assessments and specimens
// unless cascade is set; with cascade they go in the same
// transaction as the species row.
func (s *storeio) DeleteSpecies(
	ctx context.Context, id string, cascade bool,
) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "species", id)
	if err != nil {
		return err
	}
	if !exists {
		return NotFoundError("species", id)
	}

	assessments, err := s.childCount(
		ctx, tx, "conservation_assessments", "species_id", id)
	if err != nil {
		return err
	}
	specimens, err := s.childCount(ctx, tx, "specimens", "species_id", id)
	if err != nil {
		return err
	}
	if !cascade {
		if assessments > 0 {
			return HasDependentsError("species", id, assessments,
				"assessments")
		}
		if specimens > 0 {
			return HasDependentsError("species", id, specimens,
				"specimens")
		}
	}

	stmts := []string{
		`DELETE FROM conservation_assessments WHERE species_id = ?`,
		`DELETE FROM specimens WHERE species_id = ?`,
		`DELETE FROM species WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, s.operator.Rebind(stmt), id); err != nil {
			return QueryError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

// ReParentSpecies moves a species under another existing genus.
// Assessments and specimens reference the species id and are
// untouched.
func (s *storeio) ReParentSpecies(
	ctx context.Context, speciesID, newGenusID string,
) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	parentOK, err := s.rowExists(ctx, tx, "genera", newGenusID)
	if err != nil {
		return err
	}
	if !parentOK {
		return NotFoundError("genus", newGenusID)
	}

	res, err := tx.ExecContext(ctx, s.operator.Rebind(`
		UPDATE species SET genus_id = ? WHERE id = ?`),
		newGenusID, speciesID)
	if err != nil {
		return QueryError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError("species", speciesID)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) ListSpecies(
	ctx context.Context, genusID string,
) ([]taxon.Species, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(`
		SELECT id, genus_id, epithet, authority, publication_year
		FROM species WHERE genus_id = ? ORDER BY epithet`),
		genusID)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanSpecies(rows)
}

func (s *storeio) FindSpeciesByEpithet(
	ctx context.Context, genusID, epithet string,
) (taxon.Species, error) {
	var sp taxon.Species
	sqlDB, err := s.conn()
	if err != nil {
		return sp, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, genus_id, epithet, authority, publication_year
		FROM species
		WHERE genus_id = ? AND lower(epithet) = lower(?)`),
		genusID, epithet,
	).Scan(&sp.ID, &sp.GenusID, &sp.Epithet, &sp.Authority,
		&sp.PublicationYear)
	if err == sql.ErrNoRows {
		return sp, NotFoundError("species", epithet)
	}
	if err != nil {
		return sp, QueryError(err)
	}
	return sp, nil
}

func scanSpecies(rows *sql.Rows) ([]taxon.Species, error) {
	var res []taxon.Species
	for rows.Next() {
		var sp taxon.Species
		err := rows.Scan(&sp.ID, &sp.GenusID, &sp.Epithet,
			&sp.Authority, &sp.PublicationYear)
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
