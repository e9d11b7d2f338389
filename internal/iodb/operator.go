// Package iodb implements the db.Operator contract for both storage
// backends: embedded SQLite (modernc, pure Go) and PostgreSQL (pgx
// through its database/sql adapter). This is an impure I/O package.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/gnames/botdb/pkg/config"
	"github.com/gnames/botdb/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// advisoryLockKey identifies the store-wide postgres advisory lock
// used by the migration runner.
const advisoryLockKey = 0x626f7464 // "botd"

// New creates an Operator for the configured driver (without
// connecting).
func New(driver string) (db.Operator, error) {
	switch driver {
	case "sqlite":
		return &sqliteOperator{}, nil
	case "postgres":
		return &pgxOperator{}, nil
	}
	return nil, fmt.Errorf("unknown database driver: %q", driver)
}

// sqliteOperator implements db.Operator on the embedded backend.
type sqliteOperator struct {
	sqlDB *sql.DB
	// SQLite write transactions already serialize at the file level;
	// the mutex gives the migration runner in-process exclusivity on
	// top of that.
	mu sync.Mutex
}

func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	if path == "" {
		path = "botdb.sqlite"
	}

	// foreign_keys is a backstop: every constraint is also checked
	// explicitly inside store transactions so both backends report
	// identical errors.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		path,
	)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return ConnectionError(path, err)
	}

	// A single connection keeps transactions strictly serialized and
	// avoids table-lock contention in the embedded backend.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return ConnectionError(path, err)
	}

	s.sqlDB = sqlDB
	return nil
}

func (s *sqliteOperator) Close() error {
	if s.sqlDB != nil {
		return s.sqlDB.Close()
	}
	return nil
}

func (s *sqliteOperator) DB() *sql.DB {
	return s.sqlDB
}

func (s *sqliteOperator) Dialect() string {
	return "sqlite"
}

func (s *sqliteOperator) Rebind(query string) string {
	return query
}

func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.sqlDB == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name = ?
		)
	`

	var exists bool
	err := s.sqlDB.QueryRowContext(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableCheckError(tableName, err)
	}

	return exists, nil
}

func (s *sqliteOperator) Lock(ctx context.Context) error {
	if s.sqlDB == nil {
		return NotConnectedError()
	}
	s.mu.Lock()
	return nil
}

func (s *sqliteOperator) Unlock(ctx context.Context) error {
	s.mu.Unlock()
	return nil
}

// pgxOperator implements db.Operator on PostgreSQL via pgxpool,
// exposed through the pgx stdlib adapter so components see the same
// database/sql handle as the embedded backend.
type pgxOperator struct {
	pool *pgxpool.Pool
	// sqlDB wraps the pool via stdlib.OpenDBFromPool.
	sqlDB *sql.DB
	// lockConn pins the advisory lock to one connection.
	lockConn *sql.Conn
}

func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return PgConnectionError(cfg.Host, cfg.Port, cfg.Database,
			cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return PgConnectionError(cfg.Host, cfg.Port, cfg.Database,
			cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return PgConnectionError(cfg.Host, cfg.Port, cfg.Database,
			cfg.User, err)
	}

	p.pool = pool
	p.sqlDB = stdlib.OpenDBFromPool(pool)
	return nil
}

func (p *pgxOperator) Close() error {
	if p.sqlDB != nil {
		_ = p.sqlDB.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *pgxOperator) DB() *sql.DB {
	return p.sqlDB
}

func (p *pgxOperator) Dialect() string {
	return "postgres"
}

// Rebind converts '?' placeholders into '$N' form. Literal question
// marks do not occur in the store's SQL.
func (p *pgxOperator) Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.sqlDB == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.sqlDB.QueryRowContext(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableCheckError(tableName, err)
	}

	return exists, nil
}

func (p *pgxOperator) Lock(ctx context.Context) error {
	if p.sqlDB == nil {
		return NotConnectedError()
	}

	conn, err := p.sqlDB.Conn(ctx)
	if err != nil {
		return LockError(err)
	}

	_, err = conn.ExecContext(
		ctx, "SELECT pg_advisory_lock($1)", advisoryLockKey)
	if err != nil {
		_ = conn.Close()
		return LockError(err)
	}

	p.lockConn = conn
	return nil
}

func (p *pgxOperator) Unlock(ctx context.Context) error {
	if p.lockConn == nil {
		return nil
	}
	_, err := p.lockConn.ExecContext(
		ctx, "SELECT pg_advisory_unlock($1)", advisoryLockKey)
	_ = p.lockConn.Close()
	p.lockConn = nil
	if err != nil {
		return LockError(err)
	}
	return nil
}
