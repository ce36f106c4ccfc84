package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"stopwatch/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Resolution     string `yaml:"resolution"`
	PollIntervalMS int    `yaml:"poll_interval_ms"`
	StorageBackend string `yaml:"storage_backend"`
	JournalEnabled *bool  `yaml:"journal_enabled"`
	LogLevel       string `yaml:"log_level"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from the YAML file at path.
func LoadSettingsFile(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to the YAML file at path.
func SaveSettingsFile(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	journalEnabled := settings.JournalEnabled
	fileData := yamlSettings{
		Resolution:     string(settings.Resolution),
		PollIntervalMS: int(settings.PollInterval / time.Millisecond),
		StorageBackend: string(settings.StorageBackend),
		JournalEnabled: &journalEnabled,
		LogLevel:       settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	return resolveConfigPath(appName)
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if resolution, err := model.ParseResolution(fileData.Resolution); err == nil {
		settings.Resolution = resolution
	}

	interval := time.Duration(fileData.PollIntervalMS) * time.Millisecond
	if model.ValidPollInterval(interval) {
		settings.PollInterval = interval
	}

	if backend, err := model.ParseStorageBackend(fileData.StorageBackend); err == nil {
		settings.StorageBackend = backend
	}

	if fileData.JournalEnabled != nil {
		settings.JournalEnabled = *fileData.JournalEnabled
	}

	if model.ValidLogLevel(fileData.LogLevel) {
		settings.LogLevel = fileData.LogLevel
	}
}
