// Package config loads reconciler settings and matching rules.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration and data directories.
const AppName = "reconcile"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}

// DefaultConfigDir is where config.yaml is searched for.
func DefaultConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DefaultDatabasePath is used when database.path is not configured.
func DefaultDatabasePath() string {
	return ExpandPath(filepath.Join("~", ".local", "share", AppName, AppName+".db"))
}
