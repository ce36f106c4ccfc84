package session

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of session event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventReset       EventType = "reset"
	EventExported    EventType = "exported"
	EventError       EventType = "error"
)

// Event represents a session update for observers.
type Event struct {
	Type      EventType
	Paused    bool
	Elapsed   time.Duration
	MessageID uuid.UUID
	Message   string
	At        time.Time
}

// Command is an input the session reacts to.
type Command int

const (
	CommandTogglePause Command = iota + 1
	CommandReset
	CommandExportElapsed
)

func (command Command) String() string {
	switch command {
	case CommandTogglePause:
		return "toggle_pause"
	case CommandReset:
		return "reset"
	case CommandExportElapsed:
		return "export_elapsed"
	default:
		return "unknown"
	}
}
