package stopwatch

import (
	"errors"
	"time"

	"stopwatch/internal/core/model"
)

// ErrClockUnavailable indicates the wall clock could not be read.
var ErrClockUnavailable = errors.New("clock unavailable")

// Clock reports the current wall-clock time. It must keep advancing while
// the process is suspended or closed.
type Clock interface {
	Now() (model.Timestamp, error)
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() (model.Timestamp, error) {
	now := time.Now()
	if now.Unix() <= 0 {
		return model.Timestamp{}, ErrClockUnavailable
	}
	return model.TimestampFromTime(now), nil
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() (model.Timestamp, error)

// Now calls fn.
func (fn ClockFunc) Now() (model.Timestamp, error) {
	return fn()
}

var _ Clock = SystemClock{}
