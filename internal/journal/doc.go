// Package journal records stopwatch state changes as structured events.
//
// The journal is separate from operational logging (slog): it captures a
// machine-readable trace of what happened to the timer (restores, pauses,
// resets, exports, persistence) so a session can be reconstructed later.
//
// # Basic Usage
//
//	// Development: mirror events into slog
//	logger := journal.NewSlogAdapter(slog.Default())
//
//	// Durable: append CBOR events to a file
//	fileLogger, _ := journal.NewFileLogger(filepath.Join(dir, "journal.cbor"))
//
//	// Both
//	logger := journal.NewMultiLogger(journal.NewSlogAdapter(slog.Default()), fileLogger)
//
// # File Format
//
// Journal files are a stream of CBOR-encoded Event values with integer keys.
// Reader iterates them with an optional Filter.
package journal
