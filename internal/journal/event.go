package journal

import "time"

// Event is a single journal entry.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp is when the event was recorded.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the process run that produced the event.
	SessionID string `cbor:"2,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"3,keyasint"`

	// Paused is the timer state after the event.
	Paused bool `cbor:"4,keyasint"`

	// ElapsedMS is the elapsed time after the event.
	ElapsedMS uint64 `cbor:"5,keyasint"`

	// CreditMS is the closed-time credit applied on restore.
	CreditMS uint64 `cbor:"6,keyasint,omitempty"`

	// MessageID is the outbox message id for exports.
	MessageID string `cbor:"7,keyasint,omitempty"`

	// Error describes a failure, if any.
	Error string `cbor:"8,keyasint,omitempty"`
}

// Elapsed returns ElapsedMS as a duration.
func (event Event) Elapsed() time.Duration {
	return time.Duration(event.ElapsedMS) * time.Millisecond
}

// Kind classifies journal events.
type Kind uint8

const (
	KindRestored Kind = iota + 1
	KindRestoreFallback
	KindResumed
	KindPaused
	KindReset
	KindExported
	KindPersisted
	KindPersistFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRestored:
		return "restored"
	case KindRestoreFallback:
		return "restore_fallback"
	case KindResumed:
		return "resumed"
	case KindPaused:
		return "paused"
	case KindReset:
		return "reset"
	case KindExported:
		return "exported"
	case KindPersisted:
		return "persisted"
	case KindPersistFailed:
		return "persist_failed"
	default:
		return "unknown"
	}
}
