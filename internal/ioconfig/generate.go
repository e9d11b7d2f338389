package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnames/botdb/pkg/config"
	"github.com/gnames/botdb/pkg/templates"
)

// GenerateDefaultConfig creates a documented botdb.yaml at
// ~/.config/botdb/ when none exists yet. It never overwrites an
// existing file; the existing path is returned unchanged.
func GenerateDefaultConfig() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get user home directory: %w", err)
	}
	return GenerateConfigAt(config.ConfigFilePath(homeDir))
}

// GenerateConfigAt writes the default config template to an explicit
// path unless the file already exists.
func GenerateConfigAt(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}

	err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644)
	if err != nil {
		return "", fmt.Errorf("cannot write config file: %w", err)
	}
	return configPath, nil
}

// ConfigFileExists checks if a config file exists at the default
// location.
func ConfigFileExists() (bool, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(config.ConfigFilePath(homeDir))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
