package core

import (
	"time"

	"github.com/polltrend/polltrend/schema"
)

// ResolvedWindow is the concrete set of raw values selected for one
// (date, candidate) aggregation. Ephemeral, never persisted.
type ResolvedWindow struct {
	Date        time.Time
	Candidate   string
	Values      []float64
	WindowStart time.Time
	WindowEnd   time.Time
	Extended    bool
}

// ResolveWindow determines the raw values eligible for aggregation at a single
// (evaluation date, candidate) pair under the given interpolation mode and
// lead time.
//
// Mode never uses only the exact date and stays empty when that date has no
// data. Mode always pools [date-leadTime, date] unconditionally. Mode
// if_missing uses the exact date when it has data and the pooled window
// otherwise. For the pooling modes, when the selected window is still empty
// the lookback widens one day at a time until data is found or the
// candidate's earliest known date is passed; the widened (or exhausted)
// outcome is flagged Extended and reported on the sink. An empty result is a
// valid no-data outcome, not an error.
func ResolveWindow(idx *schema.PollIndex, candidate string, date time.Time, mode schema.Interpolation, leadTime int, sink EventSink) ResolvedWindow {
	date = schema.Day(date)
	rw := ResolvedWindow{
		Date:        date,
		Candidate:   candidate,
		WindowStart: date,
		WindowEnd:   date,
	}

	exact := idx.ValuesOn(candidate, date)
	switch mode {
	case schema.AlwaysInterp:
		rw.WindowStart = date.AddDate(0, 0, -leadTime)
		rw.Values = idx.ValuesBetween(candidate, rw.WindowStart, date)
	case schema.NeverInterp:
		// Exact date only: a missing day stays null, never pooled.
		rw.Values = append(rw.Values, exact...)
		if len(rw.Values) == 0 {
			sink.emit(Event{Kind: EventNoData, Candidate: candidate, Date: date, WindowStart: rw.WindowStart})
		}
		return rw
	default: // if_missing
		if len(exact) > 0 {
			rw.Values = append(rw.Values, exact...)
		} else {
			rw.WindowStart = date.AddDate(0, 0, -leadTime)
			rw.Values = idx.ValuesBetween(candidate, rw.WindowStart, date)
		}
	}
	if len(rw.Values) > 0 {
		return rw
	}

	// Lead-time override: widen one day at a time, hard stop at the
	// candidate's earliest known date.
	rw.Extended = true
	earliest, ok := idx.EarliestDate(candidate)
	if !ok || earliest.After(date) {
		sink.emit(Event{Kind: EventNoData, Candidate: candidate, Date: date, WindowStart: rw.WindowStart})
		return rw
	}
	for start := rw.WindowStart.AddDate(0, 0, -1); !start.Before(earliest); start = start.AddDate(0, 0, -1) {
		values := idx.ValuesBetween(candidate, start, date)
		if len(values) > 0 {
			rw.WindowStart = start
			rw.Values = values
			sink.emit(Event{
				Kind:         EventWindowExtended,
				Candidate:    candidate,
				Date:         date,
				WindowStart:  start,
				LookbackDays: daysBetween(start, date),
			})
			return rw
		}
	}

	// Not reached while earliest <= date: the loop finds data at the latest
	// when start reaches earliest.
	sink.emit(Event{Kind: EventNoData, Candidate: candidate, Date: date, WindowStart: rw.WindowStart})
	return rw
}

// daysBetween counts whole days from a to b, both Day-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
