package display

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopwatch/internal/core/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    time.Duration
		resolution model.Resolution
		want       Reading
	}{
		{name: "zero hundredths", elapsed: 0, resolution: model.ResolutionHundredths, want: Reading{"00:00", "00"}},
		{name: "hundredths", elapsed: 83*time.Second + 456*time.Millisecond, resolution: model.ResolutionHundredths, want: Reading{"01:23", "45"}},
		{name: "tenths", elapsed: 83*time.Second + 456*time.Millisecond, resolution: model.ResolutionTenths, want: Reading{"01:23", "4"}},
		{name: "none", elapsed: 59*time.Second + 999*time.Millisecond, resolution: model.ResolutionNone, want: Reading{"00:59", ""}},
		{name: "past an hour", elapsed: 2*time.Hour + 5*time.Second, resolution: model.ResolutionNone, want: Reading{"120:05", ""}},
		{name: "negative clamps", elapsed: -time.Second, resolution: model.ResolutionTenths, want: Reading{"00:00", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.elapsed, tt.resolution))
		})
	}
}

func TestReadingString(t *testing.T) {
	assert.Equal(t, "01:02 03", Reading{"01:02", "03"}.String())
	assert.Equal(t, "01:02", Reading{Clock: "01:02"}.String())
	assert.Equal(t, "00:00 0", Placeholder(model.ResolutionTenths).String())
	assert.Equal(t, "--:-- -", Unavailable(model.ResolutionTenths).String())
	assert.Equal(t, "--:--", Unavailable(model.ResolutionNone).String())
}

type stubSource struct {
	mu      sync.Mutex
	elapsed time.Duration
	err     error
	calls   int
}

func (source *stubSource) Elapsed() (time.Duration, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.calls++
	return source.elapsed, source.err
}

func (source *stubSource) Calls() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.calls
}

func TestPollerRendersUntilStopped(t *testing.T) {
	source := &stubSource{elapsed: 1500 * time.Millisecond}
	readings := make(chan Reading, 64)
	poller := NewPoller(source, func(reading Reading, err error) {
		select {
		case readings <- reading:
		default:
		}
	}, model.DisplayConfig{Resolution: model.ResolutionTenths, PollInterval: 10 * time.Millisecond})

	poller.Start()
	poller.Start()

	select {
	case reading := <-readings:
		assert.Equal(t, Reading{"00:01", "5"}, reading)
	case <-time.After(2 * time.Second):
		t.Fatal("no reading rendered")
	}

	require.Eventually(t, func() bool { return source.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)

	poller.Stop()
	poller.Stop()
	calls := source.Calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, source.Calls(), "no polling after Stop")
}

func TestPollerPassesErrors(t *testing.T) {
	source := &stubSource{err: errors.New("clock unavailable")}
	var got error
	poller := NewPoller(source, func(_ Reading, err error) {
		got = err
	}, model.DisplayConfig{})

	poller.Refresh()

	assert.EqualError(t, got, "clock unavailable")
}

func TestPollerNeverRendersStaleTimeOnClockFailure(t *testing.T) {
	source := &stubSource{elapsed: 7 * time.Second}
	var got Reading
	var gotErr error
	poller := NewPoller(source, func(reading Reading, err error) {
		got, gotErr = reading, err
	}, model.DisplayConfig{Resolution: model.ResolutionHundredths})

	poller.Refresh()
	require.NoError(t, gotErr)
	assert.Equal(t, Reading{"00:07", "00"}, got)

	source.mu.Lock()
	source.err = errors.New("clock unavailable")
	source.mu.Unlock()

	poller.Refresh()
	assert.Error(t, gotErr)
	assert.Equal(t, Unavailable(model.ResolutionHundredths), got)
	assert.Equal(t, "--:-- --", got.String())
}

func TestPollerNormalizesConfig(t *testing.T) {
	poller := NewPoller(&stubSource{}, func(Reading, error) {}, model.DisplayConfig{PollInterval: time.Hour})

	assert.Equal(t, model.DefaultPollInterval, poller.config.PollInterval)
	assert.Equal(t, model.ResolutionHundredths, poller.config.Resolution)
}

func TestPollerUpdateConfigRestarts(t *testing.T) {
	source := &stubSource{elapsed: 2 * time.Second}
	var mu sync.Mutex
	var last Reading
	poller := NewPoller(source, func(reading Reading, _ error) {
		mu.Lock()
		last = reading
		mu.Unlock()
	}, model.DisplayConfig{Resolution: model.ResolutionNone, PollInterval: 10 * time.Millisecond})

	poller.Start()
	defer poller.Stop()

	poller.UpdateConfig(model.DisplayConfig{Resolution: model.ResolutionHundredths, PollInterval: 10 * time.Millisecond})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == Reading{"00:02", "00"}
	}, 2*time.Second, 5*time.Millisecond)
}
