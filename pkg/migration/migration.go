// Package migration defines the ordered, checksummed schema
// migrations and the rules that govern their application. Migrations
// are pure data here; internal/iomigrate applies them.
package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// State of one migration with respect to the ledger.
type State int

const (
	// Unapplied - the migration has not been run yet.
	Unapplied State = iota
	// Applying - the migration transaction is in flight. Never
	// persisted: the transaction commits together with its applied
	// ledger row or rolls back, so ledger rows carry only the
	// terminal states.
	Applying
	// Applied - the migration finished and is recorded in the ledger.
	Applied
	// Failed - the migration rolled back; terminal, requires operator
	// intervention.
	Failed
)

func (s State) String() string {
	switch s {
	case Applying:
		return "applying"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	}
	return "unapplied"
}

// Migration is one schema change: a contiguous version number, a
// short name, and the statements that realize it. The definition is
// immutable once released; the checksum guards against edits.
type Migration struct {
	// Version is a monotonic number; the sequence starts at 1 and has
	// no gaps.
	Version int

	// Name is a short human-readable label.
	Name string

	// Statements are executed in order inside one transaction.
	Statements []string
}

// Checksum returns the hex sha256 of the migration definition.
// Any change to the statements produces a different checksum, which
// the runner detects as schema drift.
func (m Migration) Checksum() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n%s\n", m.Version, m.Name)
	h.Write([]byte(strings.Join(m.Statements, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

// Record is one row of the schema_migrations ledger.
type Record struct {
	Version   int    `db:"version"`
	Name      string `db:"name"`
	Checksum  string `db:"checksum"`
	AppliedAt string `db:"applied_at"`
	State     string `db:"state"`
}

// Status pairs a known migration with its ledger state.
type Status struct {
	Migration Migration
	State     State
	AppliedAt string
}

// ValidateSequence checks that migrations are contiguous from 1 and
// strictly ascending. The runner refuses to start on a broken
// sequence.
func ValidateSequence(migrations []Migration) error {
	for i, m := range migrations {
		if m.Version != i+1 {
			return fmt.Errorf(
				"migration sequence broken at index %d: version %d, want %d",
				i, m.Version, i+1)
		}
		if len(m.Statements) == 0 {
			return fmt.Errorf(
				"migration %d (%s) has no statements", m.Version, m.Name)
		}
	}
	return nil
}
