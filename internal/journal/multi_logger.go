package journal

// MultiLogger sends events to several loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(loggers))
	for _, logger := range loggers {
		if logger != nil {
			kept = append(kept, logger)
		}
	}
	return &MultiLogger{loggers: kept}
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, logger := range m.loggers {
		logger.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
