// Package iomigrate implements the MigrationRunner contract. It
// keeps an append-only schema_migrations ledger, verifies recorded
// checksums against the released definitions before touching
// anything, and applies each pending migration inside its own
// transaction while holding the store-wide lock.
package iomigrate

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/db"
	"github.com/gnames/botdb/pkg/migration"
)

const ledgerTable = "schema_migrations"

const createLedgerSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    checksum TEXT NOT NULL,
    applied_at TEXT NOT NULL,
    state TEXT NOT NULL
)`

// runner implements botdb.MigrationRunner.
type runner struct {
	operator   db.Operator
	gate       *capability.Gate
	migrations []migration.Migration
}

// New creates a MigrationRunner over the released migration
// sequence.
func New(op db.Operator, gate *capability.Gate) botdb.MigrationRunner {
	return NewWithMigrations(op, gate, migration.All())
}

// NewWithMigrations creates a MigrationRunner over an explicit
// sequence. Used by tests and by tools that replay partial
// sequences.
func NewWithMigrations(
	op db.Operator,
	gate *capability.Gate,
	migrations []migration.Migration,
) botdb.MigrationRunner {
	return &runner{operator: op, gate: gate, migrations: migrations}
}

// Run applies all pending migrations in ascending order. It is
// idempotent: a run with nothing pending changes nothing.
func (r *runner) Run(ctx context.Context) error {
	if err := r.gate.Require(capability.Migrations); err != nil {
		return err
	}

	sqlDB := r.operator.DB()
	if sqlDB == nil {
		return NotConnectedError()
	}

	if err := migration.ValidateSequence(r.migrations); err != nil {
		return SequenceError(err)
	}

	// Exclusive access for the whole run: no store or tracker
	// operation may interleave with an in-progress migration.
	if err := r.operator.Lock(ctx); err != nil {
		return err
	}
	defer func() { _ = r.operator.Unlock(ctx) }()

	if _, err := sqlDB.ExecContext(ctx, createLedgerSQL); err != nil {
		return LedgerError(err)
	}

	records, err := r.readLedger(ctx)
	if err != nil {
		return err
	}

	current, err := r.verifyLedger(records)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return err
		}
		pending++
	}

	if pending == 0 {
		slog.Debug("Schema is current", "version", current)
		return nil
	}

	slog.Info("Schema migrated",
		"from_version", current,
		"to_version", current+pending,
	)
	return nil
}

// Status reports the state of every known migration against the
// ledger.
func (r *runner) Status(ctx context.Context) ([]migration.Status, error) {
	if err := r.gate.Require(capability.Migrations); err != nil {
		return nil, err
	}
	sqlDB := r.operator.DB()
	if sqlDB == nil {
		return nil, NotConnectedError()
	}

	byVersion := map[int]migration.Record{}
	exists, err := r.operator.TableExists(ctx, ledgerTable)
	if err != nil {
		return nil, err
	}
	if exists {
		records, err := r.readLedger(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			byVersion[rec.Version] = rec
		}
	}

	res := make([]migration.Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		st := migration.Status{Migration: m, State: migration.Unapplied}
		if rec, ok := byVersion[m.Version]; ok {
			st.AppliedAt = rec.AppliedAt
			switch rec.State {
			case migration.Applied.String():
				st.State = migration.Applied
			case migration.Failed.String():
				st.State = migration.Failed
			}
		}
		res = append(res, st)
	}
	return res, nil
}

// readLedger loads the schema_migrations rows ordered by version.
func (r *runner) readLedger(
	ctx context.Context,
) ([]migration.Record, error) {
	sqlDB := r.operator.DB()
	rows, err := sqlDB.QueryContext(ctx, r.operator.Rebind(`
		SELECT version, name, checksum, applied_at, state
		FROM schema_migrations
		ORDER BY version`))
	if err != nil {
		return nil, LedgerError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []migration.Record
	for rows.Next() {
		var rec migration.Record
		err = rows.Scan(&rec.Version, &rec.Name, &rec.Checksum,
			&rec.AppliedAt, &rec.State)
		if err != nil {
			return nil, LedgerError(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, LedgerError(err)
	}
	return records, nil
}

// verifyLedger checks every recorded migration against the released
// definitions and returns the store's current version. Any mismatch
// is fatal SchemaDrift; a recorded failure is fatal MigrationFailed.
// Nothing is modified.
func (r *runner) verifyLedger(records []migration.Record) (int, error) {
	byVersion := map[int]migration.Migration{}
	for _, m := range r.migrations {
		byVersion[m.Version] = m
	}

	current := 0
	for i, rec := range records {
		if rec.State == migration.Failed.String() {
			return 0, RecordedFailureError(rec.Version, rec.Name)
		}

		def, ok := byVersion[rec.Version]
		if !ok {
			return 0, DriftError(rec.Version,
				"ledger records a version unknown to this release")
		}

		// Contiguity: applied versions must be 1..n with no gaps.
		if rec.Version != i+1 {
			return 0, DriftError(rec.Version,
				"applied versions are not contiguous")
		}

		if rec.Checksum != def.Checksum() {
			return 0, DriftError(rec.Version,
				"recorded checksum does not match the definition")
		}

		current = rec.Version
	}
	return current, nil
}

// apply runs one migration inside a single transaction. On failure
// the transaction rolls back, the migration is marked failed in the
// ledger, and the error is fatal: no automatic retry.
func (r *runner) apply(ctx context.Context, m migration.Migration) error {
	sqlDB := r.operator.DB()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := sqlDB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return ApplyError(m.Version, m.Name, err)
	}

	slog.Info("Applying migration",
		"version", m.Version, "name", m.Name)

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			r.markFailed(ctx, m, now)
			return ApplyError(m.Version, m.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, r.operator.Rebind(`
		INSERT INTO schema_migrations
		(version, name, checksum, applied_at, state)
		VALUES (?, ?, ?, ?, ?)`),
		m.Version, m.Name, m.Checksum(), now,
		migration.Applied.String())
	if err != nil {
		_ = tx.Rollback()
		r.markFailed(ctx, m, now)
		return ApplyError(m.Version, m.Name, err)
	}

	if err := tx.Commit(); err != nil {
		r.markFailed(ctx, m, now)
		return ApplyError(m.Version, m.Name, err)
	}
	return nil
}

// markFailed records the terminal failed state in the ledger,
// best-effort: the apply error is what surfaces to the operator.
func (r *runner) markFailed(
	ctx context.Context,
	m migration.Migration,
	now string,
) {
	sqlDB := r.operator.DB()
	_, err := sqlDB.ExecContext(ctx, r.operator.Rebind(`
		INSERT INTO schema_migrations
		(version, name, checksum, applied_at, state)
		VALUES (?, ?, ?, ?, ?)`),
		m.Version, m.Name, m.Checksum(), now,
		migration.Failed.String())
	if err != nil {
		slog.Error("Cannot record failed migration",
			"version", m.Version, "error", err)
	}
}
