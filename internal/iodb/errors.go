package iodb

import (
	"fmt"

	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for when a database operation
// is attempted without a connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// ConnectionError creates an error for SQLite connection failures.
func ConnectionError(path string, err error) error {
	msg := `Cannot open SQLite database

<em>Path:</em> %s

<em>Possible causes:</em>
  - Directory does not exist or is not writable
  - File is not a SQLite database

<em>How to fix:</em>
  1. Check the database.path setting
  2. Ensure the directory exists and is writable`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("failed to open sqlite db %s: %w", path, err),
	}
}

// PgConnectionError creates an error for PostgreSQL connection
// failures.
func PgConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL

<em>Host:</em> %s:%d
<em>Database:</em> %s
<em>User:</em> %s

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Wrong credentials or database name
  - Network or firewall issue

<em>How to fix:</em>
  1. Verify PostgreSQL is running and reachable
  2. Check credentials in botdb.yaml or BOTDB_* variables`

	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// TableCheckError creates an error for table existence check
// failures.
func TableCheckError(tableName string, err error) error {
	msg := `Cannot check if table <em>%s</em> exists`

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: []any{tableName},
		Err: fmt.Errorf("failed to check table %s: %w",
			tableName, err),
	}
}

// LockError creates an error for store-wide lock failures.
func LockError(err error) error {
	msg := `Cannot acquire exclusive store lock

<em>Possible causes:</em>
  - Another migration run is in progress
  - Connection was lost

<em>How to fix:</em>
  1. Wait for the other run to finish
  2. Check database connectivity`

	return &gn.Error{
		Code: errcode.DBLockError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to acquire store lock: %w", err),
	}
}
