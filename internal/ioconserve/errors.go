package ioconserve

import (
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError happens when the tracker is used before the
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

// ValidationError happens when an assessment fails its field checks.
func ValidationError(field, value string) error {
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  "Invalid assessment: %s <em>%q</em> is not acceptable",
		Vars: []any{field, value},
	}
}

// SpeciesNotFoundError happens when an assessment references a
// missing species.
func SpeciesNotFoundError(speciesID string) error {
	return &gn.Error{
		Code: errcode.ForeignKeyError,
		Msg:  "Cannot record assessment: species <em>%s</em> does not exist",
		Vars: []any{speciesID},
	}
}

// ConflictError happens when a species already has an assessment for
// the date. The log is append-only, so the existing record wins.
func ConflictError(speciesID, date string) error {
	return &gn.Error{
		Code: errcode.ConflictError,
		Msg: "Species <em>%s</em> already has an assessment for " +
			"<em>%s</em>",
		Vars: []any{speciesID, date},
	}
}

// NoAssessmentError happens when a current-status query finds an
// empty history.
func NoAssessmentError(speciesID string) error {
	return &gn.Error{
		Code: errcode.NoAssessmentError,
		Msg:  "Species <em>%s</em> has no recorded assessments",
		Vars: []any{speciesID},
	}
}

// EncodeError happens when threats or actions cannot be serialized.
func EncodeError(err error) error {
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  "Cannot encode assessment lists",
		Err:  err,
	}
}

// DecodeError happens when a stored assessment row cannot be decoded
// back into the model.
func DecodeError(err error) error {
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  "Cannot decode stored assessment",
		Err:  err,
	}
}
