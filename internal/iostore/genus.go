package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/taxon"
)

func (s *storeio) CreateGenus(ctx context.Context, g taxon.Genus) error {
	if g.ID == "" {
		return ValidationError("genus", "id", g.ID)
	}
	if !taxon.ValidName(g.Name) {
		return ValidationError("genus", "name", g.Name)
	}
	if !taxon.ValidAuthority(g.Authority) {
		return ValidationError("genus", "authority", g.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "genera", g.ID)
	if err != nil {
		return err
	}
	if exists {
		return DuplicateError("genus", g.ID)
	}

	parentOK, err := s.rowExists(ctx, tx, "families", g.FamilyID)
	if err != nil {
		return err
	}
	if !parentOK {
		return ForeignKeyError("genus", "family", g.FamilyID)
	}

	_, err = tx.ExecContext(ctx, s.operator.Rebind(`
		INSERT INTO genera (id, family_id, name, authority)
		VALUES (?, ?, ?, ?)`),
		g.ID, g.FamilyID, g.Name, g.Authority)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) GetGenus(
	ctx context.Context, id string,
) (taxon.Genus, error) {
	var g taxon.Genus
	sqlDB, err := s.conn()
	if err != nil {
		return g, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, family_id, name, authority
		FROM genera WHERE id = ?`),
		id,
	).Scan(&g.ID, &g.FamilyID, &g.Name, &g.Authority)
	if err == sql.ErrNoRows {
		return g, NotFoundError("genus", id)
	}
	if err != nil {
		return g, QueryError(err)
	}
	return g, nil
}

// UpdateGenus changes name and authority only. The family reference
// is not touched here; ReParentGenus owns that transition.
func (s *storeio) UpdateGenus(ctx context.Context, g taxon.Genus) error {
	if !taxon.ValidName(g.Name) {
		return ValidationError("genus", "name", g.Name)
	}
	if !taxon.ValidAuthority(g.Authority) {
		return ValidationError("genus", "authority", g.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.operator.Rebind(`
		UPDATE genera SET name = ?, authority = ? WHERE id = ?`),
		g.Name, g.Authority, g.ID)
	if err != nil {
		return QueryError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError("genus", g.ID)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) DeleteGenus(
	ctx context.Context, id string, cascade bool,
) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "genera", id)
	if err != nil {
		return err
	}
	if !exists {
		return NotFoundError("genus", id)
	}

	n, err := s.childCount(ctx, tx, "species", "genus_id", id)
	if err != nil {
		return err
	}
	if n > 0 && !cascade {
		return HasDependentsError("genus", id, n, "species")
	}

	if cascade {
		if err := s.deleteGenusSubtree(ctx, tx, id); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		s.operator.Rebind("DELETE FROM genera WHERE id = ?"), id)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) deleteGenusSubtree(
	ctx context.Context, tx *sql.Tx, genusID string,
) error {
	stmts := []string{
		`DELETE FROM conservation_assessments WHERE species_id IN (
			SELECT id FROM species WHERE genus_id = ?)`,
		`DELETE FROM specimens WHERE species_id IN (
			SELECT id FROM species WHERE genus_id = ?)`,
		`DELETE FROM species WHERE genus_id = ?`,
	}
	for _, stmt := range stmts {
		_, err := tx.ExecContext(ctx, s.operator.Rebind(stmt), genusID)
		if err != nil {
			return QueryError(err)
		}
	}
	return nil
}

// ReParentGenus moves a genus under another existing family. Its
// species keep pointing at the genus, so only one row changes.
func (s *storeio) ReParentGenus(
	ctx context.Context, genusID, newFamilyID string,
) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	parentOK, err := s.rowExists(ctx, tx, "families", newFamilyID)
	if err != nil {
		return err
	}
	if !parentOK {
		return NotFoundError("family", newFamilyID)
	}

	res, err := tx.ExecContext(ctx, s.operator.Rebind(`
		UPDATE genera SET family_id = ? WHERE id = ?`),
		newFamilyID, genusID)
	if err != nil {
		return QueryError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError("genus", genusID)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) ListGenera(
	ctx context.Context, familyID string,
) ([]taxon.Genus, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, s.operator.Rebind(`
		SELECT id, family_id, name, authority
		FROM genera WHERE family_id = ? ORDER BY name`),
		familyID)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	var res []taxon.Genus
	for rows.Next() {
		var g taxon.Genus
		err = rows.Scan(&g.ID, &g.FamilyID, &g.Name, &g.Authority)
		if err != nil {
			return nil, QueryError(err)
		}
		res = append(res, g)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

func (s *storeio) FindGenusByName(
	ctx context.Context, familyID, name string,
) (taxon.Genus, error) {
	var g taxon.Genus
	sqlDB, err := s.conn()
	if err != nil {
		return g, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, family_id, name, authority FROM genera
		WHERE family_id = ? AND lower(name) = lower(?)`),
		familyID, name,
	).Scan(&g.ID, &g.FamilyID, &g.Name, &g.Authority)
	if err == sql.ErrNoRows {
		return g, NotFoundError("genus", name)
	}
	if err != nil {
		return g, QueryError(err)
	}
	return g, nil
}
