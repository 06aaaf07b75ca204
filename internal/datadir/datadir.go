// Package datadir provides constants and utilities for the taskboard data directory.
package datadir

import "path/filepath"

const (
	// Dir is the name of the user-level taskboard directory.
	Dir = ".taskboard"

	// DefaultConfigFile is the config file name (inside Dir).
	DefaultConfigFile = "taskboard.toml"

	// SlotsDir holds one file per key for the file storage backend.
	SlotsDir = "slots"

	// LogsDir holds per-session log files.
	LogsDir = "logs"

	// DatabaseFile is the SQLite database used by the sqlite storage backend.
	DatabaseFile = "taskboard.db"
)

// ConfigPath returns the full path to the config file under a home directory.
func ConfigPath(home string) string {
	return filepath.Join(DirPath(home), DefaultConfigFile)
}

// DirPath returns the full path to the taskboard directory under a home directory.
func DirPath(home string) string {
	if home == "." || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// SlotsPath returns the slot directory inside dataDir.
func SlotsPath(dataDir string) string {
	return joinPath(dataDir, SlotsDir)
}

// LogsPath returns the session log directory inside dataDir.
func LogsPath(dataDir string) string {
	return joinPath(dataDir, LogsDir)
}

// DatabasePath returns the SQLite database path inside dataDir.
func DatabasePath(dataDir string) string {
	return joinPath(dataDir, DatabaseFile)
}

func joinPath(dataDir, name string) string {
	if dataDir == "." || dataDir == "" {
		return name
	}
	return filepath.Join(dataDir, name)
}
