package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "botdb"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/botdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for the default SQLite database.
// Returns ~/.local/share/botdb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// ConfigFilePath returns the full path to the botdb.yaml file.
// Returns ~/.config/botdb/botdb.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "botdb.yaml")
}
