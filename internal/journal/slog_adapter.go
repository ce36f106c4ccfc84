package journal

import (
	"context"
	"log/slog"
)

// SlogAdapter writes journal events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter. A nil logger uses slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("kind", event.Kind.String()),
		slog.Bool("paused", event.Paused),
		slog.Duration("elapsed", event.Elapsed()),
	}
	if event.CreditMS > 0 {
		attrs = append(attrs, slog.Uint64("credit_ms", event.CreditMS))
	}
	if event.MessageID != "" {
		attrs = append(attrs, slog.String("message_id", event.MessageID))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "journal", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
