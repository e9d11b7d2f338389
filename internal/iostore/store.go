// Package iostore implements the TaxonomyStore contract over the
// db.Operator handle. Every multi-row mutation (cascade delete,
// re-parent) runs in one transaction. Referential checks happen
// inside the same transaction that mutates, so the schema
// constraints are a backstop, not the primary mechanism.
package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/db"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

type storeio struct {
	operator db.Operator
	gate     *capability.Gate

	// gnparser instances are not safe for concurrent use; a pool
	// channel hands one out per lookup.
	parsers chan gnparser.GNparser
}

// New creates a TaxonomyStore over a connected operator. jobsNum
// sizes the name-parser pool; 0 falls back to one parser.
func New(
	op db.Operator,
	gate *capability.Gate,
	jobsNum int,
) botdb.TaxonomyStore {
	if jobsNum < 1 {
		jobsNum = 1
	}
	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	return &storeio{
		operator: op,
		gate:     gate,
		parsers:  gnparser.NewPool(cfg, jobsNum),
	}
}

// conn returns the shared handle after the taxonomy capability and
// the connection are verified. Read operations go through it; gating
// applies to reads the same as to writes.
func (s *storeio) conn() (*sql.DB, error) {
	if err := s.gate.Require(capability.Taxonomy); err != nil {
		return nil, err
	}
	sqlDB := s.operator.DB()
	if sqlDB == nil {
		return nil, NotConnectedError()
	}
	return sqlDB, nil
}

// begin opens a transaction after the taxonomy capability and the
// connection are verified.
func (s *storeio) begin(ctx context.Context) (*sql.Tx, error) {
	sqlDB, err := s.conn()
	if err != nil {
		return nil, err
	}
	tx, err := sqlDB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, TxError(err)
	}
	return tx, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(
		ctx context.Context, query string, args ...any,
	) (*sql.Rows, error)
	ExecContext(
		ctx context.Context, query string, args ...any,
	) (sql.Result, error)
}

// rowExists reports whether a row with the id exists in the table.
// The table name is always a compile-time constant here.
func (s *storeio) rowExists(
	ctx context.Context, q querier, table, id string,
) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		s.operator.Rebind("SELECT 1 FROM "+table+" WHERE id = ?"),
		id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, QueryError(err)
	}
	return true, nil
}

// childCount counts rows in table referencing the parent id through
// fkColumn.
func (s *storeio) childCount(
	ctx context.Context, q querier, table, fkColumn, id string,
) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		s.operator.Rebind(
			"SELECT count(*) FROM "+table+" WHERE "+fkColumn+" = ?"),
		id,
	).Scan(&n)
	if err != nil {
		return 0, QueryError(err)
	}
	return n, nil
}
