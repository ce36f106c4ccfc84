package model

import (
	"fmt"
	"strings"
	"time"
)

// Resolution selects the sub-second digit group shown next to mm:ss.
type Resolution string

const (
	ResolutionNone       Resolution = "none"
	ResolutionTenths     Resolution = "tenths"
	ResolutionHundredths Resolution = "hundredths"
)

// Resolutions lists the supported resolutions in display order.
var Resolutions = []Resolution{ResolutionNone, ResolutionTenths, ResolutionHundredths}

// ParseResolution parses a resolution name, case-insensitively.
func ParseResolution(value string) (Resolution, error) {
	candidate := Resolution(strings.ToLower(strings.TrimSpace(value)))
	for _, resolution := range Resolutions {
		if resolution == candidate {
			return resolution, nil
		}
	}
	return "", fmt.Errorf("unknown resolution %q", value)
}

// StorageBackend names a key/value backend for the snapshot.
type StorageBackend string

const (
	BackendFile   StorageBackend = "file"
	BackendSQLite StorageBackend = "sqlite"
)

// ParseStorageBackend parses a backend name, case-insensitively.
func ParseStorageBackend(value string) (StorageBackend, error) {
	switch StorageBackend(strings.ToLower(strings.TrimSpace(value))) {
	case BackendFile:
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	}
	return "", fmt.Errorf("unknown storage backend %q", value)
}

// Poll interval bounds for the display refresh.
const (
	MinPollInterval     = 10 * time.Millisecond
	MaxPollInterval     = time.Second
	DefaultPollInterval = 10 * time.Millisecond
)

// DisplayConfig contains runtime settings for the elapsed-time display.
type DisplayConfig struct {
	Resolution   Resolution
	PollInterval time.Duration
}

// StorageConfig contains runtime settings for snapshot persistence.
type StorageConfig struct {
	Backend StorageBackend
	Dir     string
}
