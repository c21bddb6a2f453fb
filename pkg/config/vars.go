package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
const AppName = "amdb"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/amdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// ConfigFilePath returns the full path of the YAML config file.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), AppName+".yaml")
}

// CacheDir returns the directory path for durable enrichment caches.
// Returns ~/.cache/amdb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// DefaultDataDir returns the default snapshot/report directory, used
// when Config.DataDir is empty.
func DefaultDataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "data")
}

// ResolveDataDir returns DataDir or the default derived from HomeDir.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir(c.HomeDir)
}
