package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	require.Failf(t, "menu item not found", "label %q", label)
	return nil
}

func TestMenuItemsInvokeCallbacks(t *testing.T) {
	called := map[string]int{}
	manager := New(nil, "Stopwatch", Callbacks{
		OnShow:        func() { called["show"]++ },
		OnPreferences: func() { called["preferences"]++ },
		OnTogglePause: func() { called["toggle"]++ },
		OnReset:       func() { called["reset"]++ },
		OnExport:      func() { called["export"]++ },
		OnQuit:        func() { called["quit"]++ },
	})

	menu := manager.Menu()
	assert.Equal(t, "Stopwatch", menu.Label)
	for _, label := range []string{"Show", "Preferences", "Start", "Reset", "Export", "Quit"} {
		menuItem(t, menu, label).Action()
	}

	assert.Equal(t, map[string]int{
		"show": 1, "preferences": 1, "toggle": 1, "reset": 1, "export": 1, "quit": 1,
	}, called)
}

func TestPauseLabelAndStatus(t *testing.T) {
	manager := New(nil, "Stopwatch", Callbacks{})

	manager.SetStatus("00:05")
	assert.Equal(t, "Status: 00:05 (paused)", manager.statusItem.Label)
	assert.Equal(t, "Start", manager.pauseItem.Label)

	manager.SetPaused(false)
	assert.Equal(t, "Status: 00:05", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.pauseItem.Label)
	assert.True(t, manager.statusItem.Disabled)

	assert.NotPanics(t, func() {
		menuItem(t, manager.Menu(), "Quit").Action()
	})
}
