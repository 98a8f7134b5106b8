package core

import "time"

// EventKind classifies diagnostic events emitted by the window resolver.
type EventKind string

// All diagnostic event kinds.
const (
	// EventWindowExtended fires when the lookback widened beyond the lead time.
	EventWindowExtended EventKind = "window_extended"

	// EventNoData fires when a cell stays empty after full lead-time override.
	EventNoData EventKind = "no_data"
)

// Event is a diagnostic emitted during window resolution. The engine performs
// no I/O itself; an external collaborator decides how to record these.
type Event struct {
	Kind         EventKind
	Candidate    string
	Date         time.Time
	WindowStart  time.Time
	LookbackDays int
}

// EventSink receives diagnostic events. A nil sink discards them.
type EventSink func(Event)

func (s EventSink) emit(e Event) {
	if s != nil {
		s(e)
	}
}
