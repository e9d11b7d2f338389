package capability_test

import (
	"testing"

	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	gate := capability.Default()

	assert.True(t, gate.Enabled(capability.Taxonomy))
	assert.True(t, gate.Enabled(capability.Migrations))
	assert.False(t, gate.Enabled(capability.Conservation))
	assert.False(t, gate.Enabled(capability.DarwinCore))
}

func TestNew(t *testing.T) {
	tests := []struct {
		msg  string
		caps []string
		ok   bool
	}{
		{msg: "empty set", caps: nil, ok: true},
		{
			msg:  "all capabilities",
			caps: []string{"taxonomy", "migrations", "conservation", "darwin-core"},
			ok:   true,
		},
		{
			msg:  "case and spacing are normalized",
			caps: []string{" Taxonomy ", "MIGRATIONS"},
			ok:   true,
		},
		{msg: "unknown name", caps: []string{"phylogeny"}, ok: false},
	}

	for _, v := range tests {
		gate, err := capability.New(v.caps)
		if v.ok {
			require.NoError(t, err, v.msg)
			require.NotNil(t, gate, v.msg)
		} else {
			assert.Error(t, err, v.msg)
			assert.True(t,
				errcode.HasCode(err, errcode.CapabilityUnknownError), v.msg)
		}
	}
}

func TestRequire(t *testing.T) {
	gate, err := capability.New([]string{"taxonomy", "conservation"})
	require.NoError(t, err)

	assert.NoError(t, gate.Require(capability.Conservation))

	err = gate.Require(capability.DarwinCore)
	require.Error(t, err)
	assert.True(t, errcode.HasCode(err, errcode.CapabilityDisabledError))
}

func TestList(t *testing.T) {
	gate, err := capability.New(
		[]string{"darwin-core", "taxonomy", "migrations"})
	require.NoError(t, err)

	// Stable order regardless of config order.
	assert.Equal(t, []capability.Capability{
		capability.Taxonomy,
		capability.Migrations,
		capability.DarwinCore,
	}, gate.List())
}
