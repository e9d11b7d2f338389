// Package db defines the storage operator contract. Both backends
// (embedded SQLite, PostgreSQL via pgx) expose the same database/sql
// handle and a placeholder rebinder so every higher component runs
// one SQL dialect.
package db

import (
	"context"
	"database/sql"

	"github.com/gnames/botdb/pkg/config"
)

// Operator manages the connection to the persistent store and
// exposes the *sql.DB for lifecycle components to run their own SQL.
//
// Design rationale:
// - Interface stays minimal; components own their SQL.
// - DB() over database/sql keeps both backends behind one handle
//   (pgx is plugged in through its stdlib adapter).
// - Lock/Unlock give the migration runner store-wide exclusivity.
type Operator interface {
	// Connect opens the connection to the configured backend and
	// verifies it with a ping.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close releases the connection.
	Close() error

	// DB returns the underlying handle for components to execute
	// queries and transactions. Nil before Connect.
	DB() *sql.DB

	// Dialect returns "sqlite" or "postgres".
	Dialect() string

	// Rebind converts '?' placeholders into the backend's native
	// form ('$N' for postgres; unchanged for sqlite).
	Rebind(query string) string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// Lock acquires store-wide exclusive access for schema
	// evolution. No other store operation may run until Unlock.
	Lock(ctx context.Context) error

	// Unlock releases the exclusive access taken by Lock.
	Unlock(ctx context.Context) error
}
