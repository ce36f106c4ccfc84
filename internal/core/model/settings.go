package model

import (
	"log/slog"
	"time"
)

// Settings defines editable user preferences.
type Settings struct {
	Resolution   Resolution
	PollInterval time.Duration

	StorageBackend StorageBackend
	JournalEnabled bool
	LogLevel       string
}

// DefaultSettings returns default settings for the stopwatch.
func DefaultSettings() Settings {
	return Settings{
		Resolution:     ResolutionHundredths,
		PollInterval:   DefaultPollInterval,
		StorageBackend: BackendFile,
		JournalEnabled: true,
		LogLevel:       "info",
	}
}

// DisplayConfig converts settings to a DisplayConfig.
func (settings Settings) DisplayConfig() DisplayConfig {
	return DisplayConfig{
		Resolution:   settings.Resolution,
		PollInterval: settings.PollInterval,
	}
}

// StorageConfig converts settings to a StorageConfig rooted at dir.
func (settings Settings) StorageConfig(dir string) StorageConfig {
	return StorageConfig{
		Backend: settings.StorageBackend,
		Dir:     dir,
	}
}

// ValidPollInterval reports whether interval is within the supported range.
func ValidPollInterval(interval time.Duration) bool {
	return interval >= MinPollInterval && interval <= MaxPollInterval
}

// ValidLogLevel reports whether level names a supported log level.
func ValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (settings Settings) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
