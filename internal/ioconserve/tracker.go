// Package ioconserve implements the ConservationTracker contract.
// The assessment log is append-only; there is no update or delete
// path, and the current status is always derived from the maximum
// assessment date.
package ioconserve

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/conservation"
	"github.com/gnames/botdb/pkg/db"
)

type trackerio struct {
	operator db.Operator
	gate     *capability.Gate
}

// New creates a ConservationTracker over a connected operator.
func New(op db.Operator, gate *capability.Gate) botdb.ConservationTracker {
	return &trackerio{operator: op, gate: gate}
}

// RecordAssessment appends one assessment. A second assessment for
// the same species and date is a conflict; the log is never
// rewritten.
func (t *trackerio) RecordAssessment(
	ctx context.Context, a conservation.Assessment,
) error {
	if err := t.gate.Require(capability.Conservation); err != nil {
		return err
	}
	if a.ID == "" {
		return ValidationError("id", a.ID)
	}
	if !conservation.ValidDate(a.Date) {
		return ValidationError("date", a.Date)
	}
	if a.Category < conservation.NotEvaluated ||
		a.Category > conservation.Extinct {
		return ValidationError("category", a.Category.String())
	}
	if a.Trend < conservation.TrendUnknown ||
		a.Trend > conservation.TrendDecreasing {
		return ValidationError("trend", a.Trend.String())
	}

	sqlDB := t.operator.DB()
	if sqlDB == nil {
		return NotConnectedError()
	}

	threats, err := json.Marshal(emptyToSlice(a.Threats))
	if err != nil {
		return EncodeError(err)
	}
	actions, err := json.Marshal(emptyToSlice(a.Actions))
	if err != nil {
		return EncodeError(err)
	}

	tx, err := sqlDB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return TxError(err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		t.operator.Rebind("SELECT 1 FROM species WHERE id = ?"),
		a.SpeciesID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return SpeciesNotFoundError(a.SpeciesID)
	}
	if err != nil {
		return QueryError(err)
	}

	err = tx.QueryRowContext(ctx, t.operator.Rebind(`
		SELECT 1 FROM conservation_assessments
		WHERE species_id = ? AND assessment_date = ?`),
		a.SpeciesID, a.Date,
	).Scan(&one)
	if err == nil {
		return ConflictError(a.SpeciesID, a.Date)
	}
	if err != sql.ErrNoRows {
		return QueryError(err)
	}

	_, err = tx.ExecContext(ctx, t.operator.Rebind(`
		INSERT INTO conservation_assessments
		(id, species_id, category, assessment_date, population_trend,
		 threats, actions, criteria, assessor, reviewer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.SpeciesID, a.Category.String(), a.Date,
		a.Trend.String(), string(threats), string(actions),
		a.Criteria, a.Assessor, a.Reviewer)
	if err != nil {
		return QueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TxError(err)
	}
	return nil
}

// CurrentStatus returns the assessment with the maximum date. The
// per-species-per-date uniqueness makes the maximum unambiguous.
func (t *trackerio) CurrentStatus(
	ctx context.Context, speciesID string,
) (conservation.Assessment, error) {
	var a conservation.Assessment
	if err := t.gate.Require(capability.Conservation); err != nil {
		return a, err
	}
	sqlDB := t.operator.DB()
	if sqlDB == nil {
		return a, NotConnectedError()
	}

	row := sqlDB.QueryRowContext(ctx, t.operator.Rebind(
		selectAssessments+`
		WHERE species_id = ?
		ORDER BY assessment_date DESC
		LIMIT 1`),
		speciesID)

	a, err := scanAssessment(row)
	if err == sql.ErrNoRows {
		return a, NoAssessmentError(speciesID)
	}
	if err != nil {
		return a, err
	}
	return a, nil
}

// History returns all assessments ordered by date ascending. The
// slice is freshly built on every call.
func (t *trackerio) History(
	ctx context.Context, speciesID string,
) ([]conservation.Assessment, error) {
	if err := t.gate.Require(capability.Conservation); err != nil {
		return nil, err
	}
	sqlDB := t.operator.DB()
	if sqlDB == nil {
		return nil, NotConnectedError()
	}

	rows, err := sqlDB.QueryContext(ctx, t.operator.Rebind(
		selectAssessments+`
		WHERE species_id = ?
		ORDER BY assessment_date`),
		speciesID)
	if err != nil {
		return nil, QueryError(err)
	}
	defer func() { _ = rows.Close() }()

	var res []conservation.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

const selectAssessments = `
	SELECT id, species_id, category, assessment_date,
	       population_trend, threats, actions, criteria,
	       assessor, reviewer
	FROM conservation_assessments`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (conservation.Assessment, error) {
	var a conservation.Assessment
	var category, trend, threats, actions string

	err := row.Scan(&a.ID, &a.SpeciesID, &category, &a.Date,
		&trend, &threats, &actions, &a.Criteria, &a.Assessor,
		&a.Reviewer)
	if err == sql.ErrNoRows {
		return a, err
	}
	if err != nil {
		return a, QueryError(err)
	}

	a.Category, err = conservation.ParseCategory(category)
	if err != nil {
		return a, DecodeError(err)
	}
	a.Trend, err = conservation.ParseTrend(trend)
	if err != nil {
		return a, DecodeError(err)
	}
	if err := json.Unmarshal([]byte(threats), &a.Threats); err != nil {
		return a, DecodeError(err)
	}
	if err := json.Unmarshal([]byte(actions), &a.Actions); err != nil {
		return a, DecodeError(err)
	}
	return a, nil
}

// emptyToSlice keeps nil slices as '[]' in storage so reads never
// depend on how the assessment was built.
func emptyToSlice(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
