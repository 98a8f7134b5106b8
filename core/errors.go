package core

import (
	"fmt"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// InvalidRangeError reports a malformed date range or non-positive increment.
// It fails the whole run before any row is produced.
type InvalidRangeError struct {
	From          time.Time
	To            time.Time
	IncrementDays int
	LeadTime      int
}

func (e *InvalidRangeError) Error() string {
	if e.LeadTime < 0 {
		return fmt.Sprintf("invalid range: lead time cannot be negative (received %d)", e.LeadTime)
	}
	if e.IncrementDays < 1 {
		return fmt.Sprintf("invalid range: increment must be at least 1 day (received %d)", e.IncrementDays)
	}
	return fmt.Sprintf("invalid range: from date %s is after to date %s",
		e.From.Format(schema.DateFormat), e.To.Format(schema.DateFormat))
}

// UnknownCandidateError reports a requested candidate that is absent from the
// index. It is raised at setup, before any aggregation runs.
type UnknownCandidateError struct {
	Candidate string
}

func (e *UnknownCandidateError) Error() string {
	return fmt.Sprintf("unknown candidate %q: not present in the poll data", e.Candidate)
}
