package journal

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects journal events. Zero fields match everything.
type Filter struct {
	SessionID string
	Kinds     []Kind
	TimeStart *time.Time
	TimeEnd   *time.Time
}

func (f *Filter) matches(event Event) bool {
	if f.SessionID != "" && event.SessionID != f.SessionID {
		return false
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, kind := range f.Kinds {
			if kind == event.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams events from a journal file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a journal file for reading all events.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a journal file returning only matching events.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    file,
		decoder: NewDecoder(file),
		filter:  filter,
	}, nil
}

// Next returns the next matching event, or io.EOF at the end.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Tail returns up to n most recent matching events from path, oldest first.
// A missing file yields no events.
func Tail(path string, filter Filter, n int) ([]Event, error) {
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer reader.Close()

	var events []Event
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
		if n > 0 && len(events) > n {
			events = events[1:]
		}
	}
	return events, nil
}
