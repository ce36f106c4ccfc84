package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"stopwatch/internal/core/model"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings)
	resolution *widget.Select
	pollMS     *widget.Entry
	backend    *widget.Select
	journal    *widget.Check
	logLevel   *widget.Select
	hint       *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Stopwatch Settings")

	resolutionOptions := make([]string, 0, len(model.Resolutions))
	for _, resolution := range model.Resolutions {
		resolutionOptions = append(resolutionOptions, string(resolution))
	}
	resolution := widget.NewSelect(resolutionOptions, nil)

	pollMS := widget.NewEntry()

	backend := widget.NewSelect([]string{string(model.BackendFile), string(model.BackendSQLite)}, nil)

	journal := widget.NewCheck("Write event journal", nil)

	logLevel := widget.NewSelect(logLevels, nil)

	hint := widget.NewLabel("Storage changes apply after restart.")
	hint.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Fraction"), resolution),
		container.NewHBox(widget.NewLabel("Refresh every"), pollMS, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("Storage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Backend"), backend),
		journal,
		container.NewHBox(widget.NewLabel("Log level"), logLevel),
		hint,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 340))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		resolution: resolution,
		pollMS:     pollMS,
		backend:    backend,
		journal:    journal,
		logLevel:   logLevel,
		hint:       hint,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() model.Settings {
	return prefs.settings
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.resolution.SetSelected(string(settings.Resolution))
	prefs.pollMS.SetText(fmt.Sprintf("%d", settings.PollInterval.Milliseconds()))
	prefs.backend.SetSelected(string(settings.StorageBackend))
	prefs.journal.SetChecked(settings.JournalEnabled)
	prefs.logLevel.SetSelected(settings.LogLevel)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if resolution, err := model.ParseResolution(prefs.resolution.Selected); err == nil {
		settings.Resolution = resolution
	}
	if ms, ok := parsePositiveInt(prefs.pollMS.Text); ok {
		interval := time.Duration(ms) * time.Millisecond
		if model.ValidPollInterval(interval) {
			settings.PollInterval = interval
		}
	}
	if backend, err := model.ParseStorageBackend(prefs.backend.Selected); err == nil {
		settings.StorageBackend = backend
	}
	settings.JournalEnabled = prefs.journal.Checked
	if model.ValidLogLevel(prefs.logLevel.Selected) {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
