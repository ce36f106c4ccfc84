package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileKVExtension = ".cbor"

// FileKV stores each key as a file in a directory.
type FileKV struct {
	mu  sync.Mutex
	dir string
}

// NewFileKV creates a file store rooted at dir, creating it if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Get reads the value stored under key.
func (store *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the value under key. The write goes to a temporary file that
// is renamed into place, so readers never observe a partial value.
func (store *FileKV) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	tmp, err := os.CreateTemp(store.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, store.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (store *FileKV) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (store *FileKV) Close() error {
	return nil
}

func (store *FileKV) path(key string) string {
	return filepath.Join(store.dir, key+fileKVExtension)
}

var _ KV = (*FileKV)(nil)
