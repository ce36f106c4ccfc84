package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"stopwatch/internal/app"
	"stopwatch/internal/core/display"
	"stopwatch/internal/core/model"
	"stopwatch/internal/core/session"
	"stopwatch/internal/platform"
	"stopwatch/internal/storage"
	"stopwatch/internal/ui/preferences"
	"stopwatch/internal/ui/tray"
	"stopwatch/internal/ui/window"
)

const appName = "stopwatch"

func main() {
	settings, settingsErr := storage.LoadSettings(appName)
	logger := app.NewLogger(os.Stderr, settings)
	slog.SetDefault(logger)
	if settingsErr != nil {
		path, _ := storage.SettingsPath(appName)
		logger.Warn("using default settings", "path", path, "error", settingsErr)
	}

	var showWindow func()
	guard, err := platform.AcquireSingleInstance(appName, func() {
		if showWindow != nil {
			fyne.Do(showWindow)
		}
	})
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunningInstance(appName); activateErr != nil {
				logger.Error("single instance", "error", activateErr)
			}
			return
		}
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()
	logger.Debug("single instance lock held", "address", guard.Address())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runtime, err := app.Start(ctx, app.Options{
		AppName:  appName,
		Settings: settings,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("start stopwatch", "error", err)
		return
	}
	go runtime.DrainOutbox(ctx)
	events := runtime.Session.Subscribe(16)

	fyneApp := fyneapp.NewWithID("com.stopwatch.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	var face *window.Window
	var trayManager *tray.Manager

	// Failures inside the session arrive as EventError; the rest are
	// lifecycle errors such as dispatching after close.
	dispatch := func(command session.Command) func() {
		return func() {
			if err := runtime.Session.Dispatch(ctx, command); err != nil {
				logger.Debug("dispatch", "command", command.String(), "error", err)
			}
		}
	}
	togglePause := dispatch(session.CommandTogglePause)
	reset := dispatch(session.CommandReset)
	export := dispatch(session.CommandExportElapsed)

	face = window.New(fyneApp, "Stopwatch", settings.Resolution, window.Callbacks{
		OnTogglePause: togglePause,
		OnReset:       reset,
		OnExport:      export,
	})
	showWindow = face.Show

	poller := display.NewPoller(runtime.Session, func(reading display.Reading, err error) {
		fyne.Do(func() {
			face.SetReading(reading)
			if err != nil {
				face.SetStatus(err.Error())
			}
			if trayManager != nil {
				trayManager.SetStatus(reading.Clock)
			}
		})
	}, settings.DisplayConfig())

	prefsWindow := preferences.New(fyneApp, settings, func(updated model.Settings) {
		if updated.StorageBackend != settings.StorageBackend || updated.JournalEnabled != settings.JournalEnabled {
			face.SetStatus("Storage changes apply after restart")
		}
		settings.Resolution = updated.Resolution
		settings.PollInterval = updated.PollInterval
		settings.LogLevel = updated.LogLevel
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings failed", "error", err)
			face.SetStatus(fmt.Sprintf("save settings failed: %v", err))
		}
		poller.UpdateConfig(settings.DisplayConfig())
	})

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			poller.Stop()
			if err := runtime.Shutdown(context.Background()); err != nil {
				logger.Error("save stopwatch", "error", err)
			}
			cancel()
		})
	}
	quit := func() {
		shutdown()
		fyneApp.Quit()
	}
	face.FyneWindow().SetCloseIntercept(func() {
		if trayManager == nil {
			quit()
			return
		}
		face.Hide()
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, "Stopwatch", tray.Callbacks{
			OnShow:        face.Show,
			OnPreferences: prefsWindow.Show,
			OnTogglePause: togglePause,
			OnReset:       reset,
			OnExport:      export,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	applyEvent := func(event session.Event) {
		face.HandleEvent(event)
		if trayManager != nil {
			trayManager.SetPaused(event.Paused)
		}
	}
	applyEvent(session.Event{Type: session.EventStateChange, Paused: runtime.Session.Paused()})
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() { applyEvent(event) })
		}
	}()

	poller.Start()
	face.Show()
	fyneApp.Run()
	shutdown()
}
