// Package app wires the stopwatch session to its storage, journal and outbox
// for the command binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"stopwatch/internal/core/model"
	"stopwatch/internal/core/session"
	"stopwatch/internal/core/stopwatch"
	"stopwatch/internal/journal"
	"stopwatch/internal/outbox"
	"stopwatch/internal/platform"
	"stopwatch/internal/storage"
)

const (
	journalFileName       = "journal.cbor"
	defaultOutboxCapacity = 16
)

// Options configures Start.
type Options struct {
	AppName  string
	DataDir  string
	Settings model.Settings
	Logger   *slog.Logger
	Clock    stopwatch.Clock

	OutboxCapacity int
}

// Runtime holds an open session and the resources behind it.
type Runtime struct {
	Session     *session.Session
	Outbox      *outbox.Queue
	DataDir     string
	JournalPath string

	kv      storage.KV
	fileLog *journal.FileLogger
	logger  *slog.Logger
}

// NewLogger returns a text slog logger writing to w at the settings' level.
func NewLogger(w io.Writer, settings model.Settings) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: settings.SlogLevel()}))
}

// Start opens storage and the journal and restores the session.
func Start(ctx context.Context, options Options) (*Runtime, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir := options.DataDir
	if dataDir == "" {
		dir, err := platform.DataDir(options.AppName)
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	kv, err := storage.OpenKV(options.Settings.StorageConfig(dataDir))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	runtime := &Runtime{
		DataDir: dataDir,
		kv:      kv,
		logger:  logger,
	}

	var journalLogger journal.Logger = journal.NewSlogAdapter(logger)
	if options.Settings.JournalEnabled {
		runtime.JournalPath = filepath.Join(dataDir, journalFileName)
		fileLog, err := journal.NewFileLogger(runtime.JournalPath)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		runtime.fileLog = fileLog
		journalLogger = journal.NewMultiLogger(fileLog, journalLogger)
	}

	capacity := options.OutboxCapacity
	if capacity <= 0 {
		capacity = defaultOutboxCapacity
	}
	runtime.Outbox = outbox.NewQueue(capacity)

	runtime.Session, err = session.Open(ctx, session.Config{
		Store:   storage.NewSnapshotStore(kv),
		Clock:   options.Clock,
		Journal: journalLogger,
		Outbox:  runtime.Outbox,
		Logger:  logger,
	})
	if err != nil {
		runtime.closeResources()
		return nil, err
	}

	logger.Info("stopwatch ready",
		"data_dir", dataDir,
		"storage", options.Settings.StorageBackend,
		"journal", runtime.JournalPath != "")
	return runtime, nil
}

// DrainOutbox consumes exported messages until ctx is done. Delivery is
// outside this program; each message is encoded, checked against its own
// payload and logged.
func (runtime *Runtime) DrainOutbox(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-runtime.Outbox.Messages():
			payload, err := message.Payload()
			if err != nil {
				runtime.logger.Warn("encode export", "message_id", message.ID.String(), "error", err)
				continue
			}
			decoded, err := outbox.DecodePayload(payload)
			if err != nil || decoded != message.ElapsedMS {
				runtime.logger.Warn("export payload mismatch",
					"message_id", message.ID.String(),
					"elapsed_ms", message.ElapsedMS,
					"decoded_ms", decoded,
					"error", err)
				continue
			}
			runtime.logger.Info("export ready",
				"message_id", message.ID.String(),
				"elapsed_ms", decoded,
				"payload_bytes", len(payload),
				"pending", runtime.Outbox.Len())
		}
	}
}

// Shutdown persists the session and releases storage and the journal.
func (runtime *Runtime) Shutdown(ctx context.Context) error {
	err := runtime.Session.Close(ctx)
	return errors.Join(err, runtime.closeResources())
}

func (runtime *Runtime) closeResources() error {
	var errs []error
	if runtime.fileLog != nil {
		errs = append(errs, runtime.fileLog.Close())
	}
	if runtime.kv != nil {
		errs = append(errs, runtime.kv.Close())
	}
	return errors.Join(errs...)
}
