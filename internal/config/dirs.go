package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName names the per-user configuration and state directories.
	AppName = "ssh-docker"
	// ConfigFileName is the settings file looked up in ConfigDir.
	ConfigFileName = "config.yaml"
)

// ConfigDir returns $XDG_CONFIG_HOME/ssh-docker, falling back to ~/.config/ssh-docker.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/ssh-docker, falling back to ~/.local/state/ssh-docker.
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// LogsDir returns the directory holding the rotated log file.
func LogsDir() (string, error) {
	state, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(state, "logs"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
