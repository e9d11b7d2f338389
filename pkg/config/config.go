// Package config provides configuration management for BotDB.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > botdb.yaml >
// defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in botdb.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use BOTDB_ prefix with underscores for nesting:
//
//	BOTDB_DATABASE_DRIVER=sqlite
//	BOTDB_DATABASE_PATH=/var/lib/botdb/botdb.sqlite
//	BOTDB_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete BotDB configuration.
type Config struct {
	// Database contains storage backend connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Capabilities lists the enabled feature capabilities.
	// Valid values: taxonomy, migrations, conservation, darwin-core.
	// The default minimal set is {taxonomy, migrations}.
	Capabilities []string `mapstructure:"capabilities" yaml:"capabilities"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations such as archive row encoding.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains storage backend connection parameters.
// The embedded SQLite backend needs only Driver and Path; the
// PostgreSQL backend uses the connection fields.
type DatabaseConfig struct {
	// Driver selects the storage backend: "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file location. Ignored by the
	// postgres driver.
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
	// Destination can be STDERR or STDOUT.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "botdb.sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "botdb",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "stderr",
		},
		Capabilities: []string{"taxonomy", "migrations"},
		JobsNumber:   runtime.NumCPU(),
	}

	return res
}
