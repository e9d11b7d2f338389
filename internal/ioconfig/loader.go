// Package ioconfig loads configuration from botdb.yaml, environment
// variables and flags. This is an impure package; the config model
// itself lives in pkg/config.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/gnames/botdb/pkg/config"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about
// its source.
type LoadResult struct {
	Config *config.Config
	// SourcePath is the config file used, empty when running on
	// defaults.
	SourcePath string
	// Source is "file", "defaults" or "defaults+env".
	Source string
}

// Load reads configuration with the precedence
// flags > BOTDB_* env vars > botdb.yaml > defaults.
// Flags are applied by the CLI layer after Load returns.
// When configPath is empty the default location
// ~/.config/botdb/botdb.yaml is tried; a missing file there is not
// an error.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOTDB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults registered before reading make AutomaticEnv aware of
	// every key even when no config file exists.
	defaults := config.New()
	v.SetDefault("database.driver", defaults.Database.Driver)
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("capabilities", defaults.Capabilities)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.destination", defaults.Log.Destination)
	v.SetDefault("jobs_number", defaults.JobsNumber)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		defaultPath := config.ConfigFilePath(homeDir)
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			v.SetConfigFile(defaultPath)
		}
	}

	configFileRead := false
	usedConfigPath := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf(
					"config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	var fileCfg config.Config
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	// Options re-validate every field; bad values are dropped with a
	// warning and the default stays in place.
	cfg := config.New()
	cfg.Update(fileCfg.ToOptions())

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// hasEnvVars checks if any BOTDB_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "BOTDB_") {
			return true
		}
	}
	return false
}
