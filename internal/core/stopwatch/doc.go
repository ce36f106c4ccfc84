// Package stopwatch implements the elapsed-time model behind the stopwatch.
//
// # States
//
// A Timer is either Running or Paused. While paused the recorded elapsed
// time is authoritative and the clock is never read. While running the true
// elapsed time is the baseline captured at the last resume plus the time
// since that resume; the recorded value is only a cache refreshed on read.
//
// # Suspend and restore
//
// The owner persists a Snapshot exactly once, when the process is torn down,
// and restores it at the next start. A snapshot taken while running is
// credited with the time the process spent closed: the stopwatch keeps
// running conceptually while nothing is executing.
//
// # Timestamps
//
// Clock readings are whole seconds plus sub-second milliseconds. Both fields
// are combined before any subtraction so truncation never makes time go
// backwards.
package stopwatch
