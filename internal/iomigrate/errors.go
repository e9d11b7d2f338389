package iomigrate

import (
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError happens when the runner is used before the
// database connection is established.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected, run <em>Connect</em> first",
	}
}

// LedgerError happens when the schema_migrations table cannot be
// created or read.
func LedgerError(err error) error {
	return &gn.Error{
		Code: errcode.MigrationFailedError,
		Msg:  "Cannot access the <em>schema_migrations</em> ledger",
		Err:  err,
	}
}

// SequenceError happens when the compiled-in migration sequence is
// itself malformed.
func SequenceError(err error) error {
	return &gn.Error{
		Code: errcode.MigrationSequenceError,
		Msg:  "Migration sequence is invalid",
		Err:  err,
	}
}

// DriftError happens when the ledger disagrees with the released
// migration definitions. The store was modified outside the runner
// and needs operator intervention.
func DriftError(version int, reason string) error {
	return &gn.Error{
		Code: errcode.SchemaDriftError,
		Msg: "Schema drift at version <em>%d</em>: %s. " +
			"The database was modified outside the migration runner",
		Vars: []any{version, reason},
	}
}

// RecordedFailureError happens when the ledger carries a failed
// migration from an earlier run. The failed state is terminal.
func RecordedFailureError(version int, name string) error {
	return &gn.Error{
		Code: errcode.MigrationFailedError,
		Msg: "Migration <em>%d (%s)</em> failed in an earlier run " +
			"and needs operator intervention",
		Vars: []any{version, name},
	}
}

// ApplyError happens when a migration's statements cannot be
// applied. The transaction is rolled back and the failure recorded.
func ApplyError(version int, name string, err error) error {
	return &gn.Error{
		Code: errcode.MigrationFailedError,
		Msg:  "Migration <em>%d (%s)</em> failed and was rolled back",
		Vars: []any{version, name},
		Err:  err,
	}
}
