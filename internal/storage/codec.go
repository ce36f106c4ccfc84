package storage

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"stopwatch/internal/core/model"
)

// ErrSnapshotCorrupt indicates a stored snapshot that cannot be decoded or
// fails validation.
var ErrSnapshotCorrupt = errors.New("snapshot corrupt")

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.CanonicalEncOptions()
	snapshotEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	snapshotDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// EncodeSnapshot validates and encodes a snapshot.
func EncodeSnapshot(snapshot model.Snapshot) ([]byte, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	data, err := snapshotEncMode.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot decodes and validates a snapshot. Any failure wraps
// ErrSnapshotCorrupt.
func DecodeSnapshot(data []byte) (model.Snapshot, error) {
	if len(data) == 0 {
		return model.Snapshot{}, fmt.Errorf("%w: empty record", ErrSnapshotCorrupt)
	}
	var snapshot model.Snapshot
	if err := snapshotDecMode.Unmarshal(data, &snapshot); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if err := snapshot.Validate(); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return snapshot, nil
}
