package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable that overrides discovery.
const EnvVar = "MOVIECLUB_CONFIG"

// DefaultPath returns $XDG_CONFIG_HOME/movieclub/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "movieclub", "config.toml")
}

// SearchPaths lists the locations Discover tries, in order, when EnvVar is
// unset.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), "/etc/movieclub/config.toml"}
}

// Discover returns the config file named by EnvVar, or the first of
// SearchPaths that exists. A path named by EnvVar must exist.
func Discover() (string, error) {
	if p := os.Getenv(EnvVar); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvVar, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
