package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/taskboard/internal/datadir"
)

// findProjectConfigFile returns the file named by TASKBOARD_CONFIG, or a
// config file in the current directory. An explicit file that does not
// exist is an error; a missing project file is not.
func findProjectConfigFile() (string, error) {
	if explicit := os.Getenv("TASKBOARD_CONFIG"); explicit != "" {
		explicit = expandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file from TASKBOARD_CONFIG: %w", err)
		}
		return explicit, nil
	}

	names := []string{"taskboard.toml", ".taskboard.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskboard/taskboard.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := datadir.ConfigPath(home)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "taskboard", datadir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// GetConfigFile returns the highest-priority config file that was applied,
// or "" when only defaults, environment and flags were used.
func (cws *ConfigWithSources) GetConfigFile() string {
	if cws == nil || cws.Config == nil || len(cws.Config.Files) == 0 {
		return ""
	}
	return cws.Config.Files[len(cws.Config.Files)-1]
}

// Source returns where field got its value.
func (cws *ConfigWithSources) Source(field string) ConfigSource {
	if cws == nil {
		return SourceDefault
	}
	if s, ok := cws.Sources[field]; ok {
		return s
	}
	return SourceDefault
}
