package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopwatch/internal/core/model"
	"stopwatch/internal/journal"
)

type fakeClock struct {
	mu  sync.Mutex
	now model.Timestamp
}

func (clock *fakeClock) Now() (model.Timestamp, error) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now, nil
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuntimeRestoresAcrossRuns(t *testing.T) {
	for _, backend := range []model.StorageBackend{model.BackendFile, model.BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			clock := &fakeClock{now: model.Timestamp{Seconds: 1_700_000_000}}
			settings := model.DefaultSettings()
			settings.StorageBackend = backend

			options := Options{DataDir: dir, Settings: settings, Logger: quietLogger(), Clock: clock}

			first, err := Start(ctx, options)
			require.NoError(t, err)
			_, err = first.Session.TogglePause()
			require.NoError(t, err)
			clock.Advance(5 * time.Second)
			require.NoError(t, first.Shutdown(ctx))

			clock.Advance(3 * time.Second)

			second, err := Start(ctx, options)
			require.NoError(t, err)
			elapsed, err := second.Session.Elapsed()
			require.NoError(t, err)
			assert.Equal(t, 8*time.Second, elapsed)
			require.NoError(t, second.Shutdown(ctx))

			events, err := journal.Tail(second.JournalPath, journal.Filter{}, 0)
			require.NoError(t, err)
			kinds := make([]journal.Kind, 0, len(events))
			for _, event := range events {
				kinds = append(kinds, event.Kind)
			}
			assert.Equal(t, []journal.Kind{
				journal.KindRestored,
				journal.KindResumed,
				journal.KindPersisted,
				journal.KindRestored,
				journal.KindPersisted,
			}, kinds)
			assert.Equal(t, uint64(3000), events[3].CreditMS)
		})
	}
}

func TestRuntimeWithoutJournal(t *testing.T) {
	ctx := context.Background()
	settings := model.DefaultSettings()
	settings.JournalEnabled = false

	runtime, err := Start(ctx, Options{DataDir: t.TempDir(), Settings: settings, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, "", runtime.JournalPath)
	require.NoError(t, runtime.Shutdown(ctx))
}

func TestDrainOutboxLogsExports(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runtime, err := Start(ctx, Options{DataDir: t.TempDir(), Settings: model.DefaultSettings(), Logger: logger})
	require.NoError(t, err)
	defer func() { _ = runtime.Shutdown(context.Background()) }()

	done := make(chan struct{})
	go func() {
		runtime.DrainOutbox(ctx)
		close(done)
	}()

	message, err := runtime.Session.Export(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bytes.Contains(buf.Bytes(), []byte(message.ID.String()))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	output := buf.String()
	assert.Contains(t, output, "export ready")
	assert.Contains(t, output, "pending=0")
	assert.NotContains(t, output, "export payload mismatch")
}

func TestNewLoggerUsesSettingsLevel(t *testing.T) {
	var buf bytes.Buffer
	settings := model.DefaultSettings()
	settings.LogLevel = "warn"

	logger := NewLogger(&buf, settings)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
