package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the platform configuration directory.
//   - Windows: %APPDATA%\BingWall
//   - Unix: ~/.config/bingwall
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
			}
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
		return filepath.Join(appData, "BingWall"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bingwall"), nil
}

// DefaultConfigPath returns the default path for the client.conf file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "client.conf"), nil
}

// DefaultStateFilePath returns the default path for the daemon state file.
func DefaultStateFilePath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ".bingwall-state.json"
	}
	return filepath.Join(dir, "state.json")
}
