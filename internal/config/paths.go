package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath resolves a configured path: $VAR and ${VAR} references are
// substituted first, then a leading "~" becomes the user's home directory.
// Paths that cannot be expanded are returned unchanged.
func expandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
