package model

import "time"

// Timestamp is a wall-clock instant split into whole seconds and
// sub-second milliseconds in [0, 1000).
type Timestamp struct {
	Seconds int64  `cbor:"1,keyasint"`
	Millis  uint16 `cbor:"2,keyasint"`
}

// TimestampFromTime converts a time.Time to a Timestamp.
func TimestampFromTime(value time.Time) Timestamp {
	return Timestamp{
		Seconds: value.Unix(),
		Millis:  uint16(value.Nanosecond() / int(time.Millisecond)),
	}
}

// TimestampFromUnixMilli builds a Timestamp from milliseconds since the epoch.
func TimestampFromUnixMilli(ms int64) Timestamp {
	seconds := ms / 1000
	millis := ms % 1000
	if millis < 0 {
		seconds--
		millis += 1000
	}
	return Timestamp{Seconds: seconds, Millis: uint16(millis)}
}

// UnixMilli combines both fields into milliseconds since the epoch.
func (ts Timestamp) UnixMilli() int64 {
	return ts.Seconds*1000 + int64(ts.Millis)
}

// Time returns the instant as a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(ts.UnixMilli()).UTC()
}

// IsZero reports whether the timestamp was never set.
func (ts Timestamp) IsZero() bool {
	return ts.Seconds == 0 && ts.Millis == 0
}

// Valid reports whether the sub-second field is in range.
func (ts Timestamp) Valid() bool {
	return ts.Millis < 1000
}

// Sub returns ts - earlier. The result saturates at zero when earlier is
// after ts, so a wall clock stepping backwards never yields negative time.
func (ts Timestamp) Sub(earlier Timestamp) time.Duration {
	delta := ts.UnixMilli() - earlier.UnixMilli()
	if delta < 0 {
		return 0
	}
	return time.Duration(delta) * time.Millisecond
}

// Add returns the timestamp moved forward by d, truncated to milliseconds.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return TimestampFromUnixMilli(ts.UnixMilli() + d.Milliseconds())
}
