// Package window renders the stopwatch face.
package window

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"stopwatch/internal/core/display"
	"stopwatch/internal/core/model"
	"stopwatch/internal/core/session"
)

// Callbacks defines button handlers.
type Callbacks struct {
	OnTogglePause func()
	OnReset       func()
	OnExport      func()
}

// Window shows the elapsed time with start/pause, reset and export buttons.
// Methods must be called on the fyne goroutine.
type Window struct {
	window       fyne.Window
	clockText    *canvas.Text
	fractionText *canvas.Text
	statusLabel  *widget.Label
	toggleButton *widget.Button
	resetButton  *widget.Button
	exportButton *widget.Button
	callbacks    Callbacks
	paused       bool
}

var (
	runningColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	pausedColor  = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
)

// New creates the stopwatch window. Closing it only hides it.
func New(app fyne.App, title string, resolution model.Resolution, callbacks Callbacks) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	placeholder := display.Placeholder(resolution)

	clockText := canvas.NewText(placeholder.Clock, pausedColor)
	clockText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockText.TextSize = 48

	fractionText := canvas.NewText(placeholder.Fraction, pausedColor)
	fractionText.TextStyle = fyne.TextStyle{Monospace: true}
	fractionText.TextSize = 24

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.Truncation = fyne.TextTruncateEllipsis

	face := &Window{
		window:       window,
		clockText:    clockText,
		fractionText: fractionText,
		statusLabel:  statusLabel,
		callbacks:    callbacks,
		paused:       true,
	}

	face.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if face.callbacks.OnTogglePause != nil {
			face.callbacks.OnTogglePause()
		}
	})
	face.toggleButton.Importance = widget.HighImportance
	face.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if face.callbacks.OnReset != nil {
			face.callbacks.OnReset()
		}
	})
	face.exportButton = widget.NewButtonWithIcon("Export", theme.UploadIcon(), func() {
		if face.callbacks.OnExport != nil {
			face.callbacks.OnExport()
		}
	})

	readout := container.New(&readoutLayout{}, clockText, fractionText)
	buttons := container.NewGridWithColumns(3, face.toggleButton, face.resetButton, face.exportButton)
	window.SetContent(container.NewBorder(nil, container.NewVBox(statusLabel, buttons), nil, nil, container.NewCenter(readout)))
	window.Resize(fyne.NewSize(320, 200))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return face
}

// Show displays the window and brings it to the front.
func (face *Window) Show() {
	face.window.Show()
	face.window.RequestFocus()
}

// Hide hides the window.
func (face *Window) Hide() {
	face.window.Hide()
}

// FyneWindow returns the underlying fyne window.
func (face *Window) FyneWindow() fyne.Window {
	return face.window
}

// SetReading updates the displayed time.
func (face *Window) SetReading(reading display.Reading) {
	if face.clockText.Text == reading.Clock && face.fractionText.Text == reading.Fraction {
		return
	}
	face.clockText.Text = reading.Clock
	face.fractionText.Text = reading.Fraction
	face.clockText.Refresh()
	face.fractionText.Refresh()
}

// SetPaused swaps the toggle button label and the readout color.
func (face *Window) SetPaused(paused bool) {
	face.paused = paused
	textColor := runningColor
	if paused {
		face.toggleButton.SetText("Start")
		face.toggleButton.SetIcon(theme.MediaPlayIcon())
		textColor = pausedColor
	} else {
		face.toggleButton.SetText("Pause")
		face.toggleButton.SetIcon(theme.MediaPauseIcon())
	}
	face.clockText.Color = textColor
	face.fractionText.Color = textColor
	face.clockText.Refresh()
	face.fractionText.Refresh()
}

// SetStatus shows a one-line message under the readout.
func (face *Window) SetStatus(message string) {
	face.statusLabel.SetText(message)
}

// HandleEvent applies a session event to the face.
func (face *Window) HandleEvent(event session.Event) {
	face.SetPaused(event.Paused)
	switch event.Type {
	case session.EventReset:
		face.SetStatus("")
	case session.EventExported:
		face.SetStatus(fmt.Sprintf("Exported %d ms", event.Elapsed.Milliseconds()))
	case session.EventError:
		face.SetStatus(event.Message)
	}
}

// readoutLayout places the fraction right of the clock, sharing its baseline.
type readoutLayout struct{}

func (layout *readoutLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	clock := objects[0]
	fraction := objects[1]

	clockSize := clock.MinSize()
	fractionSize := fraction.MinSize()
	total := clockSize.Width + theme.Padding() + fractionSize.Width

	x := (size.Width - total) / 2
	if x < 0 {
		x = 0
	}
	y := (size.Height - clockSize.Height) / 2
	if y < 0 {
		y = 0
	}
	clock.Move(fyne.NewPos(x, y))
	clock.Resize(clockSize)

	fractionY := y + clockSize.Height - fractionSize.Height - clockSize.Height*0.08
	if fractionY < y {
		fractionY = y
	}
	fraction.Move(fyne.NewPos(x+clockSize.Width+theme.Padding(), fractionY))
	fraction.Resize(fractionSize)
}

func (layout *readoutLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	clockSize := objects[0].MinSize()
	fractionSize := objects[1].MinSize()
	height := clockSize.Height
	if fractionSize.Height > height {
		height = fractionSize.Height
	}
	return fyne.NewSize(clockSize.Width+theme.Padding()+fractionSize.Width, height)
}
