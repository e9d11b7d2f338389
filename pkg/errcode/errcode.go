// Package errcode enumerates error codes for all BotDB failure kinds.
// Codes travel inside *gn.Error values and let callers distinguish
// failure kinds without string matching.
package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Configuration errors
	ConfigLoadError
	CapabilityUnknownError
	CapabilityDisabledError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBLockError
	DBTxError

	// Taxonomy errors
	NotFoundError
	DuplicateKeyError
	ForeignKeyError
	ValidationError
	HasDependentsError

	// Migration errors
	SchemaDriftError
	MigrationFailedError
	MigrationSequenceError

	// Conservation errors
	ConflictError
	NoAssessmentError

	// Darwin Core errors
	CoordinateError
	ReferentialError
	MalformedRecordError
	ArchiveWriteError
	ArchiveReadError
)

// HasCode reports whether err is (or wraps) a *gn.Error carrying
// the given code.
func HasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}
