package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnTogglePause func()
	OnReset       func()
	OnExport      func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	title       string
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks. app may be nil,
// in which case state is tracked but no menu is installed.
func New(app desktop.App, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
		paused:    true,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.pauseItem = fyne.NewMenuItem("Start", func() {
		call(manager.callbacks.OnTogglePause)
	})

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Start"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshStatus()
}

// Menu builds the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", func() {
			call(manager.callbacks.OnShow)
		}),
		fyne.NewMenuItem("Preferences", func() {
			call(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		fyne.NewMenuItem("Reset", func() {
			call(manager.callbacks.OnReset)
		}),
		fyne.NewMenuItem("Export", func() {
			call(manager.callbacks.OnExport)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			call(manager.callbacks.OnQuit)
		}),
	)
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
