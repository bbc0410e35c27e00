package config

import (
	"os"
	"path/filepath"
)

// AppName names the config and data directories.
const AppName = "pinchat"

// configDirOverride and dataDirOverride are set by tests to redirect
// ConfigDir and DataDir.
var (
	configDirOverride string
	dataDirOverride   string
)

// ConfigDir returns the config directory for pinchat.
func ConfigDir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// DataDir returns ~/.local/share/pinchat, creating it if needed.
func DataDir() (string, error) {
	dir := dataDirOverride
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "share", AppName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabasePath returns the path of the credential database.
func DatabasePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".db"), nil
}
