package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/taxon"
)

func (s *storeio) CreateFamily(ctx context.Context, f taxon.Family) error {
	if f.ID == "" {
		return ValidationError("family", "id", f.ID)
	}
	if !taxon.ValidName(f.Name) {
		return ValidationError("family", "name", f.Name)
	}
	if !taxon.ValidAuthority(f.Authority) {
		return ValidationError("family", "authority", f.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "families", f.ID)
	if err != nil {
		return err
	}
	if exists {
		return DuplicateError("family", f.ID)
	}

	_, err = tx.ExecContext(ctx, s.operator.Rebind(`
		INSERT INTO families (id, name, authority)
		VALUES (?, ?, ?)`),
		f.ID, f.Name, f.Authority)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

func (s *storeio) GetFamily(
	ctx context.Context, id string,
) (taxon.Family, error) {
	var f taxon.Family
	sqlDB, err := s.conn()
	if err != nil {
		return f, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, name, authority FROM families WHERE id = ?`),
		id,
	).Scan(&f.ID, &f.Name, &f.Authority)
	if err == sql.ErrNoRows {
		return f, NotFoundError("family", id)
	}
	if err != nil {
		return f, QueryError(err)
	}
	return f, nil
}

func (s *storeio) UpdateFamily(ctx context.Context, f taxon.Family) error {
	if !taxon.ValidName(f.Name) {
		return ValidationError("family", "name", f.Name)
	}
	if !taxon.ValidAuthority(f.Authority) {
		return ValidationError("family", "authority", f.Authority)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.operator.Rebind(`
		UPDATE families SET name = ?, authority = ? WHERE id = ?`),
		f.Name, f.Authority, f.ID)
	if err != nil {
		return QueryError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError("family", f.ID)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

// DeleteFamily removes a family. Without cascade it restricts on
// existing genera; with cascade the whole subtree (genera, species,
// assessments, specimens) goes in the same transaction.
func (s *storeio) DeleteFamily(
	ctx context.Context, id string, cascade bool,
) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := s.rowExists(ctx, tx, "families", id)
	if err != nil {
		return err
	}
	if !exists {
		return NotFoundError("family", id)
	}

	n, err := s.childCount(ctx, tx, "genera", "family_id", id)
	if err != nil {
		return err
	}
	if n > 0 && !cascade {
		return HasDependentsError("family", id, n, "genera")
	}

	if cascade {
		if err := s.deleteFamilySubtree(ctx, tx, id); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		s.operator.Rebind("DELETE FROM families WHERE id = ?"), id)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

// deleteFamilySubtree removes everything below a family, deepest
// rows first so the foreign keys never dangle mid-transaction.
func (s *storeio) deleteFamilySubtree(
	ctx context.Context, tx *sql.Tx, familyID string,
) error {
	stmts := []string{
		`DELETE FROM conservation_assessments WHERE species_id IN (
			SELECT s.id FROM species s
			JOIN genera g ON g.id = s.genus_id
			WHERE g.family_id = ?)`,
		`DELETE FROM specimens WHERE species_id IN (
			SELECT s.id FROM species s
			JOIN genera g ON g.id = s.genus_id
			WHERE g.family_id = ?)`,
		`DELETE FROM species WHERE genus_id IN (
			SELECT id FROM genera WHERE family_id = ?)`,
		`DELETE FROM genera WHERE family_id = ?`,
	}
	for _, stmt := range stmts {
		_, err := tx.ExecContext(ctx, s.operator.Rebind(stmt), familyID)
		if err != nil {
			return QueryError(err)
		}
	}
	return nil
}

func (s *storeio) ListFamilies(ctx context.Context) ([]taxon.Family, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, `
		SELECT id, name, authority FROM families ORDER BY name`)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	var res []taxon.Family
	for rows.Next() {
		var f taxon.Family
		if err := rows.Scan(&f.ID, &f.Name, &f.Authority); err != nil {
			return nil, QueryError(err)
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

func (s *storeio) FindFamilyByName(
	ctx context.Context, name string,
) (taxon.Family, error) {
	var f taxon.Family
	sqlDB, err := s.conn()
	if err != nil {
		return f, err
	}

	err = sqlDB.QueryRowContext(ctx, s.operator.Rebind(`
		SELECT id, name, authority FROM families
		WHERE lower(name) = lower(?)`),
		name,
	).Scan(&f.ID, &f.Name, &f.Authority)
	if err == sql.ErrNoRows {
		return f, NotFoundError("family", name)
	}
	if err != nil {
		return f, QueryError(err)
	}
	return f, nil
}
