package iostore

import (
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError happens when the store is used before the
// database connection is established.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected, run <em>Connect</em> first",
	}
}

// TxError happens when a transaction cannot be started or committed.
func TxError(err error) error {
	return &gn.Error{
		Code: errcode.DBTxError,
		Msg:  "Database transaction failed",
		Err:  err,
	}
}

// QueryError happens when a query fails for backend reasons.
func QueryError(err error) error {
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  "Database query failed",
		Err:  err,
	}
}

// ValidationError happens when an entity fails its field checks.
func ValidationError(entity, field, value string) error {
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  "Invalid %s: %s <em>%q</em> is not acceptable",
		Vars: []any{entity, field, value},
	}
}

// DuplicateError happens when an insert collides with an existing
// primary key.
func DuplicateError(entity, id string) error {
	return &gn.Error{
		Code: errcode.DuplicateKeyError,
		Msg:  "A %s with id <em>%s</em> already exists",
		Vars: []any{entity, id},
	}
}

// NotFoundError happens when a referenced entity does not exist.
func NotFoundError(entity, id string) error {
	return &gn.Error{
		Code: errcode.NotFoundError,
		Msg:  "Cannot find %s <em>%s</em>",
		Vars: []any{entity, id},
	}
}

// ForeignKeyError happens when a created entity references a missing
// parent.
func ForeignKeyError(entity, parent, parentID string) error {
	return &gn.Error{
		Code: errcode.ForeignKeyError,
		Msg:  "Cannot create %s: %s <em>%s</em> does not exist",
		Vars: []any{entity, parent, parentID},
	}
}

// HasDependentsError happens when a non-cascading delete meets
// dependent rows.
func HasDependentsError(entity, id string, count int, child string) error {
	return &gn.Error{
		Code: errcode.HasDependentsError,
		Msg: "Cannot delete %s <em>%s</em>: it still owns %d %s. " +
			"Use cascade to remove the whole subtree",
		Vars: []any{entity, id, count, child},
	}
}

// ParseError happens when a looked-up name cannot be parsed into a
// canonical form.
func ParseError(name string) error {
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  "Cannot parse scientific name <em>%q</em>",
		Vars: []any{name},
	}
}
