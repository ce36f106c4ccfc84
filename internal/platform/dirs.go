package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the OS-standard configuration directory, falling back to
// a home-relative directory when the environment does not name one.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// DataDir returns the directory holding appName's snapshot and journal,
// creating it if needed.
func DataDir(appName string) (string, error) {
	name := dirName(appName)
	if name == "" {
		return "", fmt.Errorf("data dir: app name is empty")
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("data dir: %w", err)
	}

	dir := filepath.Join(configDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("data dir: create %s: %w", dir, err)
	}
	return dir, nil
}

func dirName(appName string) string {
	name := strings.TrimSpace(appName)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
