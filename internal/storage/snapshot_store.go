package storage

import (
	"context"
	"errors"
	"fmt"

	"stopwatch/internal/core/model"
)

// SnapshotKey is the well-known key the timer snapshot is stored under.
const SnapshotKey = "timer"

// SnapshotStore persists the timer snapshot in a KV backend.
type SnapshotStore struct {
	kv  KV
	key string
}

// NewSnapshotStore creates a store writing under SnapshotKey.
func NewSnapshotStore(kv KV) *SnapshotStore {
	return &SnapshotStore{kv: kv, key: SnapshotKey}
}

// Load reads the snapshot. Returns nil, nil when nothing was ever saved.
func (store *SnapshotStore) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := store.kv.Get(ctx, store.key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save writes the snapshot.
func (store *SnapshotStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("save snapshot: nil snapshot")
	}
	data, err := EncodeSnapshot(*snapshot)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := store.kv.Put(ctx, store.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
