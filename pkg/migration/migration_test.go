package migration_test

import (
	"testing"

	"github.com/gnames/botdb/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	m := migration.Migration{
		Version:    1,
		Name:       "first",
		Statements: []string{"CREATE TABLE a (id TEXT)"},
	}

	sum := m.Checksum()
	assert.Len(t, sum, 64, "hex sha256")
	assert.Equal(t, sum, m.Checksum(), "checksum is stable")

	edited := m
	edited.Statements = []string{"CREATE TABLE a (id TEXT, x TEXT)"}
	assert.NotEqual(t, sum, edited.Checksum(),
		"editing statements changes the checksum")

	renamed := m
	renamed.Name = "renamed"
	assert.NotEqual(t, sum, renamed.Checksum(),
		"renaming changes the checksum")
}

func TestValidateSequence(t *testing.T) {
	mk := func(versions ...int) []migration.Migration {
		res := make([]migration.Migration, len(versions))
		for i, v := range versions {
			res[i] = migration.Migration{
				Version:    v,
				Name:       "m",
				Statements: []string{"SELECT 1"},
			}
		}
		return res
	}

	tests := []struct {
		msg      string
		versions []int
		ok       bool
	}{
		{msg: "empty sequence", versions: nil, ok: true},
		{msg: "contiguous from one", versions: []int{1, 2, 3}, ok: true},
		{msg: "starts at two", versions: []int{2, 3}, ok: false},
		{msg: "gap in the middle", versions: []int{1, 3}, ok: false},
		{msg: "duplicate version", versions: []int{1, 1}, ok: false},
	}

	for _, v := range tests {
		err := migration.ValidateSequence(mk(v.versions...))
		if v.ok {
			assert.NoError(t, err, v.msg)
		} else {
			assert.Error(t, err, v.msg)
		}
	}

	noStmts := []migration.Migration{{Version: 1, Name: "empty"}}
	assert.Error(t, migration.ValidateSequence(noStmts))
}

func TestAll(t *testing.T) {
	all := migration.All()
	require.NotEmpty(t, all)
	require.NoError(t, migration.ValidateSequence(all))

	// Released checksums never collide.
	seen := map[string]int{}
	for _, m := range all {
		prev, ok := seen[m.Checksum()]
		assert.False(t, ok, "checksum of %d collides with %d",
			m.Version, prev)
		seen[m.Checksum()] = m.Version
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unapplied", migration.Unapplied.String())
	assert.Equal(t, "applying", migration.Applying.String())
	assert.Equal(t, "applied", migration.Applied.String())
	assert.Equal(t, "failed", migration.Failed.String())
}
