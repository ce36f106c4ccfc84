// Package session owns the stopwatch for one process run: it restores the
// persisted snapshot on open, routes input commands to the timer, and writes
// the snapshot back on close.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stopwatch/internal/core/model"
	"stopwatch/internal/core/stopwatch"
	"stopwatch/internal/journal"
	"stopwatch/internal/outbox"
)

var (
	// ErrPersistenceWrite indicates the snapshot could not be written on close.
	ErrPersistenceWrite = errors.New("persistence write failed")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")
)

// Store loads and saves the timer snapshot. Load returns nil, nil when no
// snapshot has been written yet.
type Store interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
}

// Config wires a session to its collaborators. Only Store is required.
type Config struct {
	Store   Store
	Clock   stopwatch.Clock
	Journal journal.Logger
	Outbox  outbox.Outbox
	Logger  *slog.Logger
}

// Session is the single owner of a stopwatch timer. It is safe for
// concurrent use.
type Session struct {
	mu      sync.Mutex
	id      uuid.UUID
	timer   *stopwatch.Timer
	store   Store
	journal journal.Logger
	outbox  outbox.Outbox
	logger  *slog.Logger
	events  []chan Event
	closed  bool
}

// Open creates a session and restores the persisted snapshot. A missing
// snapshot yields the first-run state; an unreadable one is discarded in
// favour of the first-run state. Only a clock failure is returned.
func Open(ctx context.Context, config Config) (*Session, error) {
	if config.Store == nil {
		return nil, errors.New("session: store is required")
	}
	if config.Journal == nil {
		config.Journal = journal.NoopLogger{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	session := &Session{
		id:      uuid.New(),
		timer:   stopwatch.New(config.Clock),
		store:   config.Store,
		journal: config.Journal,
		outbox:  config.Outbox,
		logger:  config.Logger,
	}
	session.logger = session.logger.With("session", session.id.String())

	snapshot, err := config.Store.Load(ctx)
	if err != nil {
		session.logger.Warn("discarding stored snapshot", "error", err)
		session.record(journal.KindRestoreFallback, 0, "", err)
		return session, nil
	}

	credit, err := session.timer.Restore(snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	if credit > 0 {
		session.logger.Debug("credited closed time", "credit", credit)
	}
	session.record(journal.KindRestored, credit, "", nil)
	return session, nil
}

// ID returns the session identifier used in journal entries.
func (session *Session) ID() uuid.UUID {
	return session.id
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (session *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	if session.closed {
		close(ch)
	} else {
		session.events = append(session.events, ch)
	}
	session.mu.Unlock()
	return ch
}

// Elapsed returns the current elapsed time.
func (session *Session) Elapsed() (time.Duration, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return 0, ErrClosed
	}
	return session.timer.Elapsed()
}

// Paused reports whether the timer is paused.
func (session *Session) Paused() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.timer.Paused()
}

// Dispatch routes a command to the matching operation.
func (session *Session) Dispatch(ctx context.Context, command Command) error {
	switch command {
	case CommandTogglePause:
		_, err := session.TogglePause()
		return err
	case CommandReset:
		return session.Reset()
	case CommandExportElapsed:
		_, err := session.Export(ctx)
		return err
	default:
		return fmt.Errorf("unknown command %d", command)
	}
}

// TogglePause flips between running and paused and returns the new state.
func (session *Session) TogglePause() (bool, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return false, ErrClosed
	}

	paused, err := session.timer.TogglePause()
	if err != nil {
		session.failLocked("toggle pause", err)
		return session.timer.Paused(), fmt.Errorf("toggle pause: %w", err)
	}

	kind := journal.KindResumed
	if paused {
		kind = journal.KindPaused
	}
	elapsed := session.timer.State().Elapsed()
	session.logger.Debug("toggled", "paused", paused, "elapsed", elapsed)
	session.record(kind, 0, "", nil)
	session.emitLocked(Event{
		Type:    EventStateChange,
		Paused:  paused,
		Elapsed: elapsed,
		At:      time.Now(),
	})
	return paused, nil
}

// Reset zeroes the elapsed time without changing the paused state.
func (session *Session) Reset() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return ErrClosed
	}

	if err := session.timer.Reset(); err != nil {
		session.failLocked("reset", err)
		return fmt.Errorf("reset: %w", err)
	}

	session.logger.Debug("reset", "paused", session.timer.Paused())
	session.record(journal.KindReset, 0, "", nil)
	session.emitLocked(Event{
		Type:   EventReset,
		Paused: session.timer.Paused(),
		At:     time.Now(),
	})
	return nil
}

// Export hands the current elapsed time to the outbox.
func (session *Session) Export(ctx context.Context) (outbox.Message, error) {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return outbox.Message{}, ErrClosed
	}
	elapsed, err := session.timer.Elapsed()
	if err != nil {
		session.failLocked("export", err)
		session.mu.Unlock()
		return outbox.Message{}, fmt.Errorf("export elapsed: %w", err)
	}
	sink := session.outbox
	session.mu.Unlock()

	message := outbox.NewMessage(elapsed, time.Now())
	if sink == nil {
		return message, errors.New("export elapsed: no outbox configured")
	}
	if err := sink.Send(ctx, message); err != nil {
		session.mu.Lock()
		session.failLocked("export", err)
		session.mu.Unlock()
		return message, fmt.Errorf("export elapsed: %w", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.logger.Debug("exported", "message_id", message.ID.String(), "elapsed_ms", message.ElapsedMS)
	session.record(journal.KindExported, 0, message.ID.String(), nil)
	session.emitLocked(Event{
		Type:      EventExported,
		Paused:    session.timer.Paused(),
		Elapsed:   elapsed,
		MessageID: message.ID,
		At:        message.At,
	})
	return message, nil
}

// Close snapshots the timer and writes it to the store, then closes all
// observers. A failed write is reported once and not retried. Calling Close
// again is a no-op.
func (session *Session) Close(ctx context.Context) error {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return nil
	}
	session.closed = true
	events := session.events
	session.events = nil
	err := session.persistLocked(ctx)
	session.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	return err
}

func (session *Session) persistLocked(ctx context.Context) error {
	snapshot, err := session.timer.Snapshot()
	if err == nil {
		err = session.store.Save(ctx, &snapshot)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistenceWrite, err)
		session.logger.Error("persist snapshot", "error", err)
		session.record(journal.KindPersistFailed, 0, "", err)
		return err
	}
	session.logger.Debug("persisted", "elapsed", snapshot.Elapsed(), "paused", snapshot.Paused)
	session.record(journal.KindPersisted, 0, "", nil)
	return nil
}

func (session *Session) failLocked(operation string, err error) {
	session.logger.Warn(operation+" failed", "error", err)
	session.emitLocked(Event{
		Type:    EventError,
		Paused:  session.timer.Paused(),
		Message: err.Error(),
		At:      time.Now(),
	})
}

func (session *Session) record(kind journal.Kind, credit time.Duration, messageID string, err error) {
	state := session.timer.State()
	event := journal.Event{
		Timestamp: time.Now().UTC(),
		SessionID: session.id.String(),
		Kind:      kind,
		Paused:    state.Paused,
		ElapsedMS: state.ElapsedMS,
		CreditMS:  uint64(credit.Milliseconds()),
		MessageID: messageID,
	}
	if err != nil {
		event.Error = err.Error()
	}
	session.journal.Log(event)
}

func (session *Session) emitLocked(event Event) {
	for _, ch := range session.events {
		select {
		case ch <- event:
		default:
		}
	}
}
