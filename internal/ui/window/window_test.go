package window

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"stopwatch/internal/core/display"
	"stopwatch/internal/core/model"
	"stopwatch/internal/core/session"
)

func TestButtonsInvokeCallbacks(t *testing.T) {
	app := test.NewTempApp(t)

	var toggles, resets, exports int
	face := New(app, "Stopwatch", model.ResolutionHundredths, Callbacks{
		OnTogglePause: func() { toggles++ },
		OnReset:       func() { resets++ },
		OnExport:      func() { exports++ },
	})

	test.Tap(face.toggleButton)
	test.Tap(face.toggleButton)
	test.Tap(face.resetButton)
	test.Tap(face.exportButton)

	assert.Equal(t, 2, toggles)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 1, exports)
}

func TestNilCallbacksAreIgnored(t *testing.T) {
	app := test.NewTempApp(t)
	face := New(app, "Stopwatch", model.ResolutionNone, Callbacks{})

	assert.NotPanics(t, func() {
		test.Tap(face.toggleButton)
		test.Tap(face.resetButton)
		test.Tap(face.exportButton)
	})
}

func TestReadingAndPauseState(t *testing.T) {
	app := test.NewTempApp(t)
	face := New(app, "Stopwatch", model.ResolutionTenths, Callbacks{})

	assert.Equal(t, "00:00", face.clockText.Text)
	assert.Equal(t, "0", face.fractionText.Text)
	assert.Equal(t, "Start", face.toggleButton.Text)

	face.SetReading(display.Reading{Clock: "12:34", Fraction: "5"})
	assert.Equal(t, "12:34", face.clockText.Text)
	assert.Equal(t, "5", face.fractionText.Text)

	face.SetPaused(false)
	assert.Equal(t, "Pause", face.toggleButton.Text)
	assert.Equal(t, runningColor, face.clockText.Color)

	face.SetPaused(true)
	assert.Equal(t, "Start", face.toggleButton.Text)
	assert.Equal(t, pausedColor, face.fractionText.Color)

	face.SetStatus("Exported 1234 ms")
	assert.Equal(t, "Exported 1234 ms", face.statusLabel.Text)
}

func TestReadoutLayoutKeepsFractionRightOfClock(t *testing.T) {
	app := test.NewTempApp(t)
	face := New(app, "Stopwatch", model.ResolutionHundredths, Callbacks{})

	layout := &readoutLayout{}
	objects := []fyne.CanvasObject{face.clockText, face.fractionText}
	min := layout.MinSize(objects)
	layout.Layout(objects, fyne.NewSize(min.Width+100, min.Height+40))

	assert.Greater(t, face.fractionText.Position().X, face.clockText.Position().X+face.clockText.Size().Width-1)
	assert.GreaterOrEqual(t, face.fractionText.Position().Y, face.clockText.Position().Y)
}

func TestHandleEvent(t *testing.T) {
	app := test.NewTempApp(t)
	face := New(app, "Stopwatch", model.ResolutionHundredths, Callbacks{})

	face.HandleEvent(session.Event{Type: session.EventStateChange, Paused: false})
	assert.Equal(t, "Pause", face.toggleButton.Text)
	assert.Equal(t, runningColor, face.clockText.Color)

	face.HandleEvent(session.Event{Type: session.EventExported, Elapsed: 1234 * time.Millisecond})
	assert.Equal(t, "Exported 1234 ms", face.statusLabel.Text)
	assert.Equal(t, "Start", face.toggleButton.Text)

	face.HandleEvent(session.Event{Type: session.EventError, Paused: true, Message: "read clock: rtc offline"})
	assert.Equal(t, "read clock: rtc offline", face.statusLabel.Text)

	face.HandleEvent(session.Event{Type: session.EventReset, Paused: true})
	assert.Equal(t, "", face.statusLabel.Text)
}
