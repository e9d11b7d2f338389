package ioarchive

import (
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// CoordinateError happens when an occurrence carries out-of-range
// coordinates.
func CoordinateError(err error) error {
	return &gn.Error{
		Code: errcode.CoordinateError,
		Msg:  "Occurrence coordinates are out of range",
		Err:  err,
	}
}

// ReferentialError happens when an archive record references an
// entity that cannot be resolved. The archive is rejected before any
// write.
func ReferentialError(recordID, ref string) error {
	return &gn.Error{
		Code: errcode.ReferentialError,
		Msg: "Record <em>%s</em> references <em>%s</em>, which " +
			"cannot be resolved",
		Vars: []any{recordID, ref},
	}
}

// MalformedRecordError happens when a row cannot be decoded into a
// valid record.
func MalformedRecordError(recordID, reason string) error {
	return &gn.Error{
		Code: errcode.MalformedRecordError,
		Msg:  "Malformed record <em>%s</em>: %s",
		Vars: []any{recordID, reason},
	}
}

// WriteError happens when the archive file cannot be produced.
func WriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ArchiveWriteError,
		Msg:  "Cannot write archive <em>%s</em>",
		Vars: []any{path},
		Err:  err,
	}
}

// MissingCoreError happens when the archive has no taxon.txt core
// file.
func MissingCoreError(path string) error {
	return &gn.Error{
		Code: errcode.ArchiveReadError,
		Msg:  "Archive <em>%s</em> has no <em>taxon.txt</em> core file",
		Vars: []any{path},
	}
}

// ReadError happens when the archive file cannot be opened or read.
func ReadError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ArchiveReadError,
		Msg:  "Cannot read archive <em>%s</em>",
		Vars: []any{path},
		Err:  err,
	}
}
