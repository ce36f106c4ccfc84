package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueAppName(t *testing.T) string {
	return fmt.Sprintf("stopwatch-test-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestSingleInstance(t *testing.T) {
	appName := uniqueAppName(t)

	activated := make(chan struct{}, 1)
	guard, err := AcquireSingleInstance(appName, func() { activated <- struct{}{} })
	require.NoError(t, err)
	assert.Equal(t, instanceAddress(appName), guard.Address())

	_, err = AcquireSingleInstance(appName, nil)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, ActivateRunningInstance(appName))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}

	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(appName, nil)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestReleaseNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Equal(t, "", guard.Address())
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("stopwatch")
	assert.Equal(t, port, portFromName("stopwatch"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestDataDir(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("HOME", root)
	t.Setenv("AppData", root)

	dir, err := DataDir("My Stopwatch")
	require.NoError(t, err)
	assert.Equal(t, "my-stopwatch", filepath.Base(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = DataDir("  ")
	assert.Error(t, err)
}

func TestFallbackConfigDirIsUnderHome(t *testing.T) {
	dir := fallbackConfigDir("/home/someone")
	rel, err := filepath.Rel("/home/someone", dir)
	require.NoError(t, err)
	assert.NotContains(t, rel, "..")
}
