// Package config wires the three configuration surfaces together at
// startup: the state file, the declarative autoconfig.yml store, and the
// scriptable config.lua loader, all feeding one typed settings store.
package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the directory holding config.lua and
// autoconfig.yml.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "stormsurf"), nil
}

// DefaultDataDir returns the directory holding the state file.
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "stormsurf"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "stormsurf"), nil
}
