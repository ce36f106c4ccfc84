package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopwatch/internal/core/model"
)

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Version:          model.SnapshotVersion,
		Paused:           false,
		ElapsedMS:        5000,
		ElapsedAtPauseMS: 4000,
		LastResumed:      model.Timestamp{Seconds: 1_700_000_000, Millis: 999},
		LastSuspended:    model.Timestamp{Seconds: 1_700_000_001, Millis: 1},
	}
}

func TestSnapshotCodecRoundTrip(t *testing.T) {
	snapshot := sampleSnapshot()

	data, err := EncodeSnapshot(snapshot)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot, decoded)
}

func TestSnapshotCodecRejectsCorruptData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte{0xff, 0x00, 0x13}},
		{name: "wrong shape", data: []byte{0x63, 'a', 'b', 'c'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.data)
			assert.ErrorIs(t, err, ErrSnapshotCorrupt)
		})
	}
}

func TestSnapshotCodecRejectsUnknownVersion(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Version = 7
	data, err := snapshotEncMode.Marshal(snapshot)
	require.NoError(t, err)

	_, err = DecodeSnapshot(data)
	assert.ErrorIs(t, err, ErrSnapshotCorrupt)

	_, err = EncodeSnapshot(snapshot)
	assert.ErrorIs(t, err, model.ErrInvalidSnapshot)
}

func kvBackends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)

	sqliteKV, err := OpenSQLiteKV(filepath.Join(t.TempDir(), "sqlite", "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteKV.Close() })

	return map[string]KV{"file": fileKV, "sqlite": sqliteKV}
}

func TestKVBackends(t *testing.T) {
	ctx := context.Background()

	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "timer")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, kv.Put(ctx, "timer", []byte{1, 2, 3}))
			require.NoError(t, kv.Put(ctx, "timer", []byte{4, 5}))

			value, err := kv.Get(ctx, "timer")
			require.NoError(t, err)
			assert.Equal(t, []byte{4, 5}, value)

			require.NoError(t, kv.Delete(ctx, "timer"))
			require.NoError(t, kv.Delete(ctx, "timer"))
			_, err = kv.Get(ctx, "timer")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			assert.ErrorIs(t, kv.Put(ctx, "../escape", nil), ErrInvalidKey)
		})
	}
}

func TestFileKVLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Put(context.Background(), "timer", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "timer.cbor", entries[0].Name())
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewSnapshotStore(kv)

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded, "first run has no snapshot")

			snapshot := sampleSnapshot()
			require.NoError(t, store.Save(ctx, &snapshot))

			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, snapshot, *loaded)

			require.NoError(t, kv.Put(ctx, SnapshotKey, []byte("not cbor at all")))
			_, err = store.Load(ctx)
			assert.ErrorIs(t, err, ErrSnapshotCorrupt)

			require.NoError(t, kv.Delete(ctx, SnapshotKey))
			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestOpenKV(t *testing.T) {
	dir := t.TempDir()

	fileKV, err := OpenKV(model.StorageConfig{Backend: model.BackendFile, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, fileKV)

	sqliteKV, err := OpenKV(model.StorageConfig{Backend: model.BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, sqliteKV)
	require.NoError(t, sqliteKV.Close())
	assert.FileExists(t, filepath.Join(dir, sqliteFileName))

	_, err = OpenKV(model.StorageConfig{Backend: "etcd", Dir: dir})
	assert.Error(t, err)

	_, err = OpenKV(model.StorageConfig{Backend: model.BackendFile})
	assert.Error(t, err)
}

func TestSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, model.ResolutionHundredths, settings.Resolution)
	assert.Equal(t, model.DefaultPollInterval, settings.PollInterval)
	assert.Equal(t, model.BackendFile, settings.StorageBackend)
	assert.True(t, settings.JournalEnabled)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app", "settings.yaml")
	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)

	settings.Resolution = model.ResolutionTenths
	settings.PollInterval = 100 * time.Millisecond
	settings.StorageBackend = model.BackendSQLite
	settings.JournalEnabled = false
	settings.LogLevel = "debug"
	require.NoError(t, SaveSettingsFile(path, settings))

	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsIgnoreInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := "resolution: microseconds\npoll_interval_ms: 2\nstorage_backend: tape\nlog_level: loud\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)

	assert.Equal(t, model.ResolutionHundredths, settings.Resolution)
	assert.Equal(t, model.DefaultPollInterval, settings.PollInterval)
	assert.Equal(t, model.BackendFile, settings.StorageBackend)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestSettingsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: [unterminated"), 0o644))

	_, err := LoadSettingsFile(path)
	assert.Error(t, err)
}

func TestSettingsByAppName(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	settings, err := LoadSettings("stopwatch-test")
	require.NoError(t, err)
	settings.Resolution = model.ResolutionNone
	require.NoError(t, SaveSettings("stopwatch-test", settings))

	path, err := SettingsPath("stopwatch-test")
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadSettings("stopwatch-test")
	require.NoError(t, err)
	assert.Equal(t, model.ResolutionNone, loaded.Resolution)
}
