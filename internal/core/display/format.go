package display

import (
	"fmt"
	"time"

	"stopwatch/internal/core/model"
)

// Reading is a formatted elapsed time split into the mm:ss part and the
// sub-second digit group.
type Reading struct {
	Clock    string
	Fraction string
}

// String joins both parts with a space, or returns Clock alone when there is
// no fraction.
func (reading Reading) String() string {
	if reading.Fraction == "" {
		return reading.Clock
	}
	return reading.Clock + " " + reading.Fraction
}

// Format renders elapsed as mm:ss plus the digit group for resolution.
// Minutes are not wrapped at 60.
func Format(elapsed time.Duration, resolution model.Resolution) Reading {
	if elapsed < 0 {
		elapsed = 0
	}
	ms := elapsed.Milliseconds()
	minutes := ms / 60000
	ms -= minutes * 60000
	seconds := ms / 1000
	ms -= seconds * 1000

	reading := Reading{Clock: fmt.Sprintf("%02d:%02d", minutes, seconds)}
	switch resolution {
	case model.ResolutionTenths:
		reading.Fraction = fmt.Sprintf("%d", ms/100)
	case model.ResolutionHundredths:
		reading.Fraction = fmt.Sprintf("%02d", ms/10)
	}
	return reading
}

// Placeholder returns the zero reading for resolution.
func Placeholder(resolution model.Resolution) Reading {
	return Format(0, resolution)
}

// Unavailable returns the reading shown when the elapsed time cannot be
// read. It keeps the shape of a real reading so layouts do not jump.
func Unavailable(resolution model.Resolution) Reading {
	reading := Reading{Clock: "--:--"}
	switch resolution {
	case model.ResolutionTenths:
		reading.Fraction = "-"
	case model.ResolutionHundredths:
		reading.Fraction = "--"
	}
	return reading
}
