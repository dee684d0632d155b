package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects log events. The zero value selects everything; each set
// field narrows the selection.
type Filter struct {
	SessionID string
	Model     string

	Direction *Direction
	Layer     *Layer
	Category  *Category

	// Events in [TimeStart, TimeEnd).
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Command as hex, e.g. "06 81". Matches packet and state events.
	Command string

	// AmbientSoundMode matches state events that decoded this mode, e.g.
	// "Transparency". Events without sound modes never match.
	AmbientSoundMode string
}

func (f *Filter) matches(e Event) bool {
	switch {
	case f.SessionID != "" && e.SessionID != f.SessionID,
		f.Model != "" && e.Model != f.Model,
		f.Direction != nil && e.Direction != *f.Direction,
		f.Layer != nil && e.Layer != *f.Layer,
		f.Category != nil && e.Category != *f.Category,
		f.TimeStart != nil && e.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !e.Timestamp.Before(*f.TimeEnd),
		f.Command != "" && e.command() != f.Command:
		return false
	}
	if f.AmbientSoundMode != "" {
		return e.State != nil && e.State.AmbientSoundMode == f.AmbientSoundMode
	}
	return true
}

func (e Event) command() string {
	if e.Packet != nil {
		return e.Packet.Command
	}
	if e.State != nil {
		return e.State.Command
	}
	return ""
}

// Reader streams events from a CBOR log.
type Reader struct {
	src    io.Closer
	dec    *cbor.Decoder
	filter Filter
}

// NewReader opens the log file at path and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the log file at path and reads the events
// selected by filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{src: f, dec: NewDecoder(f), filter: filter}, nil
}

// NewStreamReader reads events selected by filter from r, such as stdin.
// Close does not close r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{src: nopCloser{}, dec: NewDecoder(r), filter: filter}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Next returns the next selected event, or io.EOF at the end of the log.
func (r *Reader) Next() (Event, error) {
	var e Event
	for {
		e = Event{}
		if err := r.dec.Decode(&e); err != nil {
			return Event{}, err
		}
		if r.filter.matches(e) {
			return e, nil
		}
	}
}

// Each calls fn for every remaining selected event. It stops at the end of
// the log, or at the first error from the log or from fn.
func (r *Reader) Each(fn func(Event) error) error {
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

// Close closes the log file.
func (r *Reader) Close() error {
	return r.src.Close()
}
