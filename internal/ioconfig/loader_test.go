package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/botdb/internal/ioconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Keep the default location out of reach so the test never picks
	// up a real user config.
	t.Setenv("HOME", t.TempDir())

	res, err := ioconfig.Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults", res.Source)
	assert.Empty(t, res.SourcePath)

	cfg := res.Config
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "botdb.sqlite", cfg.Database.Path)
	assert.Equal(t, []string{"taxonomy", "migrations"}, cfg.Capabilities)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "botdb.yaml")
	yml := `database:
  driver: postgres
  host: db.example.org
  port: 5433
capabilities:
  - taxonomy
  - migrations
  - conservation
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", res.Source)
	assert.Equal(t, path, res.SourcePath)

	cfg := res.Config
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t,
		[]string{"taxonomy", "migrations", "conservation"},
		cfg.Capabilities)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "untouched fields keep defaults")
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "botdb.yaml")
	yml := `database:
  driver: oracle
log:
  level: loud
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	res, err := ioconfig.Load(path)
	require.NoError(t, err)

	// Invalid values are dropped with a warning; defaults survive.
	assert.Equal(t, "sqlite", res.Config.Database.Driver)
	assert.Equal(t, "info", res.Config.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOTDB_DATABASE_DRIVER", "postgres")
	t.Setenv("BOTDB_DATABASE_HOST", "env.example.org")
	t.Setenv("BOTDB_LOG_LEVEL", "warn")

	res, err := ioconfig.Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "postgres", res.Config.Database.Driver)
	assert.Equal(t, "env.example.org", res.Config.Database.Host)
	assert.Equal(t, "warn", res.Config.Log.Level)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := ioconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGenerateConfigAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "botdb.yaml")

	got, err := ioconfig.GenerateConfigAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "driver:")

	// A second call never overwrites.
	require.NoError(t, os.WriteFile(path, []byte("edited: true\n"), 0644))
	_, err = ioconfig.GenerateConfigAt(path)
	require.NoError(t, err)
	body, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited: true\n", string(body))
}
