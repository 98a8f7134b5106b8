package core

import (
	"time"

	"github.com/polltrend/polltrend/schema"
)

// EvalDates produces the ordered evaluation date sequence
// from, from+increment, from+2*increment, ... stopping at the last value <= to.
// The final point may fall strictly before to; the sequence is never snapped
// to the end of the range.
func EvalDates(from, to time.Time, incrementDays int) ([]time.Time, error) {
	from, to = schema.Day(from), schema.Day(to)
	if incrementDays < 1 || from.After(to) {
		return nil, &InvalidRangeError{From: from, To: to, IncrementDays: incrementDays}
	}

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, incrementDays) {
		dates = append(dates, d)
	}
	return dates, nil
}
