package model

import (
	"errors"
	"fmt"
	"time"
)

// SnapshotVersion is the current version of the persisted timer record.
const SnapshotVersion = 1

// ErrInvalidSnapshot indicates a snapshot that cannot be trusted.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the persisted state of the stopwatch, written once at
// teardown and read once at startup.
type Snapshot struct {
	Version          uint8     `cbor:"1,keyasint"`
	Paused           bool      `cbor:"2,keyasint"`
	ElapsedMS        uint64    `cbor:"3,keyasint"`
	ElapsedAtPauseMS uint64    `cbor:"4,keyasint"`
	LastResumed      Timestamp `cbor:"5,keyasint"`
	LastSuspended    Timestamp `cbor:"6,keyasint"`
}

// FreshSnapshot returns the first-run state: paused with zero elapsed time.
func FreshSnapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Paused: true}
}

// Elapsed returns the recorded elapsed time.
func (snapshot Snapshot) Elapsed() time.Duration {
	return time.Duration(snapshot.ElapsedMS) * time.Millisecond
}

// Validate checks the version and timestamp ranges.
func (snapshot Snapshot) Validate() error {
	if snapshot.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snapshot.Version)
	}
	if !snapshot.LastResumed.Valid() {
		return fmt.Errorf("%w: last resumed millis %d out of range", ErrInvalidSnapshot, snapshot.LastResumed.Millis)
	}
	if !snapshot.LastSuspended.Valid() {
		return fmt.Errorf("%w: last suspended millis %d out of range", ErrInvalidSnapshot, snapshot.LastSuspended.Millis)
	}
	return nil
}
