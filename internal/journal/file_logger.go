package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a file as a CBOR stream.
// It is safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileLogger opens path for appending, creating it and its parent
// directory when missing.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &FileLogger{
		file:    file,
		encoder: NewEncoder(file),
	}, nil
}

// Log appends the event. Encoding errors are dropped; the journal must not
// disrupt the stopwatch.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
}

// Close closes the file. Later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
