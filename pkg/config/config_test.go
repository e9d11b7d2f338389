package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/botdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "botdb"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "botdb"),
		},
		{
			msg: "config file path",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "botdb", "botdb.yaml"),
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.fn(tempHome), v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "botdb.sqlite", cfg.Database.Path)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Destination)

	assert.Equal(t, []string{"taxonomy", "migrations"}, cfg.Capabilities)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptionsRejectInvalid(t *testing.T) {
	tests := []struct {
		name  string
		opt   config.Option
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "unknown driver keeps default",
			opt:  config.OptDatabaseDriver("oracle"),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "sqlite", cfg.Database.Driver)
			},
		},
		{
			name: "valid driver applies",
			opt:  config.OptDatabaseDriver("Postgres"),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "postgres", cfg.Database.Driver)
			},
		},
		{
			name: "negative port ignored",
			opt:  config.OptDatabasePort(-1),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 5432, cfg.Database.Port)
			},
		},
		{
			name: "unknown capability keeps previous set",
			opt:  config.OptCapabilities([]string{"taxonomy", "phylogeny"}),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t,
					[]string{"taxonomy", "migrations"}, cfg.Capabilities)
			},
		},
		{
			name: "capabilities normalize case",
			opt: config.OptCapabilities(
				[]string{"Taxonomy", " MIGRATIONS ", "darwin-core"}),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t,
					[]string{"taxonomy", "migrations", "darwin-core"},
					cfg.Capabilities)
			},
		},
		{
			name: "bad log level ignored",
			opt:  config.OptLogLevel("verbose"),
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{v.opt})
			v.check(t, cfg)
		})
	}
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptCapabilities(
			[]string{"taxonomy", "migrations", "conservation"}),
		config.OptLogFormat("text"),
		config.OptJobsNumber(4),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())

	assert.Equal(t, cfg, clone)
}

func TestHomeDirNotPersisted(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/u")})

	clone := config.New()
	clone.Update(cfg.ToOptions())
	assert.Empty(t, clone.HomeDir)
}
