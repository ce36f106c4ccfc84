package stopwatch

import (
	"errors"
	"fmt"
	"time"

	"stopwatch/internal/core/model"
)

// Timer tracks elapsed running time across pause/resume cycles and across
// the process being closed, using only timestamp snapshots. No background
// ticking is needed for correctness.
//
// Timer is not safe for concurrent use; it has a single owner.
type Timer struct {
	clock Clock
	state model.Snapshot
}

// New creates a timer in the first-run state: paused with nothing elapsed.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{
		clock: clock,
		state: model.FreshSnapshot(),
	}
}

// Paused reports whether the timer is frozen.
func (timer *Timer) Paused() bool {
	return timer.state.Paused
}

// State returns a copy of the current state without refreshing it.
func (timer *Timer) State() model.Snapshot {
	return timer.state
}

// Elapsed returns the total running time. While running it reads the clock
// and refreshes the cached value; while paused it never touches the clock.
// A failed clock read returns zero, never the stale cached value.
func (timer *Timer) Elapsed() (time.Duration, error) {
	if timer.state.Paused {
		return timer.state.Elapsed(), nil
	}
	now, err := timer.now()
	if err != nil {
		return 0, err
	}
	return timer.ElapsedAt(now), nil
}

// ElapsedAt refreshes the cached elapsed time as of now and returns it.
func (timer *Timer) ElapsedAt(now model.Timestamp) time.Duration {
	if !timer.state.Paused {
		running := now.Sub(timer.state.LastResumed)
		timer.state.ElapsedMS = timer.state.ElapsedAtPauseMS + uint64(running.Milliseconds())
	}
	return timer.state.Elapsed()
}

// TogglePause flips between running and paused and returns the new paused
// state. When pausing, the running interval is flushed before the flag
// flips so the final interval is not lost.
func (timer *Timer) TogglePause() (bool, error) {
	now, err := timer.now()
	if err != nil {
		return timer.state.Paused, err
	}

	if timer.state.Paused {
		timer.state.Paused = false
		timer.state.LastResumed = now
		timer.state.ElapsedAtPauseMS = timer.state.ElapsedMS
		return false, nil
	}

	timer.ElapsedAt(now)
	timer.state.Paused = true
	timer.state.ElapsedAtPauseMS = timer.state.ElapsedMS
	return true, nil
}

// Reset zeroes the accumulated time and restarts the running interval from
// now. The paused flag is left as it is.
func (timer *Timer) Reset() error {
	now, err := timer.now()
	if err != nil {
		return err
	}
	timer.ResetAt(now)
	return nil
}

// ResetAt is Reset with an explicit clock reading.
func (timer *Timer) ResetAt(now model.Timestamp) {
	timer.state.ElapsedMS = 0
	timer.state.ElapsedAtPauseMS = 0
	timer.state.LastResumed = now
}

// Restore loads a persisted snapshot using the current clock reading.
// A nil snapshot restores the first-run state and never reads the clock.
func (timer *Timer) Restore(snapshot *model.Snapshot) (time.Duration, error) {
	if snapshot == nil || snapshot.Paused {
		return timer.RestoreAt(snapshot, model.Timestamp{}), nil
	}
	now, err := timer.now()
	if err != nil {
		return 0, err
	}
	return timer.RestoreAt(snapshot, now), nil
}

// RestoreAt loads a persisted snapshot as of now and returns the closed-time
// credit applied. If the snapshot was taken while running, the time spent
// closed counts as running time and the running interval is rebased to now.
func (timer *Timer) RestoreAt(snapshot *model.Snapshot, now model.Timestamp) time.Duration {
	if snapshot == nil {
		timer.state = model.FreshSnapshot()
		return 0
	}

	timer.state = *snapshot
	timer.state.Version = model.SnapshotVersion
	if timer.state.Paused {
		return 0
	}

	credit := now.Sub(timer.state.LastSuspended)
	timer.state.ElapsedMS += uint64(credit.Milliseconds())
	timer.state.ElapsedAtPauseMS = timer.state.ElapsedMS
	timer.state.LastResumed = now
	return credit
}

// Snapshot flushes the elapsed time and returns the record to persist,
// stamped with the current clock reading as the suspend time.
func (timer *Timer) Snapshot() (model.Snapshot, error) {
	now, err := timer.now()
	if err != nil {
		return model.Snapshot{}, err
	}
	return timer.SnapshotAt(now), nil
}

// SnapshotAt is Snapshot with an explicit clock reading.
func (timer *Timer) SnapshotAt(now model.Timestamp) model.Snapshot {
	timer.ElapsedAt(now)
	timer.state.LastSuspended = now
	timer.state.Version = model.SnapshotVersion
	return timer.state
}

func (timer *Timer) now() (model.Timestamp, error) {
	now, err := timer.clock.Now()
	if err != nil {
		if errors.Is(err, ErrClockUnavailable) {
			return model.Timestamp{}, fmt.Errorf("read clock: %w", err)
		}
		return model.Timestamp{}, fmt.Errorf("read clock: %w", errors.Join(ErrClockUnavailable, err))
	}
	if !now.Valid() {
		return model.Timestamp{}, fmt.Errorf("read clock: %w: millis %d out of range", ErrClockUnavailable, now.Millis)
	}
	return now, nil
}
