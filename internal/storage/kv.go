package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"stopwatch/internal/core/model"
)

// ErrKeyNotFound indicates the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidKey indicates a key that cannot be stored.
var ErrInvalidKey = errors.New("invalid key")

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// KV is a small durable key/value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// OpenKV opens the configured backend rooted at config.Dir.
func OpenKV(config model.StorageConfig) (KV, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("open storage: data directory is empty")
	}
	switch config.Backend {
	case model.BackendSQLite:
		return OpenSQLiteKV(filepath.Join(config.Dir, sqliteFileName))
	case model.BackendFile, "":
		return NewFileKV(config.Dir)
	default:
		return nil, fmt.Errorf("open storage: unknown backend %q", config.Backend)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
