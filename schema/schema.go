// Package schema has configs, models and shared types for all parts of polltrend.
package schema

import (
	"sort"
	"time"
)

// Observation is a single poll reading for one candidate on one date from one source.
// Missing is set when the raw cell could not be parsed to a number; such
// observations are kept for raw output but excluded from the index.
type Observation struct {
	Date      time.Time `json:"date"`
	Candidate string    `json:"candidate"`
	Pollster  string    `json:"pollster,omitempty"`
	Sample    int       `json:"sample,omitempty"`
	Value     float64   `json:"value"`
	Missing   bool      `json:"missing,omitempty"`
}

// Day normalizes a timestamp to midnight UTC. All dates flowing through the
// index and the engine are Day-normalized, so time.Time values are safe map keys.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// candidateSeries holds one candidate's observations grouped by date.
type candidateSeries struct {
	dates  []time.Time // strictly increasing
	values map[time.Time][]float64
}

// PollIndex is an immutable, query-only view over normalized observations,
// grouped by date and candidate. Querying an unknown candidate or date yields
// an empty result, never an error.
type PollIndex struct {
	candidates []string // source column order, first appearance wins
	series     map[string]*candidateSeries
}

// NewPollIndex builds an index from normalized observations. Observations
// flagged Missing are skipped. The candidate order follows first appearance
// in the input, which for scraped data is the source column order.
func NewPollIndex(observations []Observation) *PollIndex {
	idx := &PollIndex{series: make(map[string]*candidateSeries)}
	for _, obs := range observations {
		if obs.Missing {
			// Track the candidate even if every cell failed to parse.
			idx.ensureCandidate(obs.Candidate)
			continue
		}
		cs := idx.ensureCandidate(obs.Candidate)
		d := Day(obs.Date)
		if _, ok := cs.values[d]; !ok {
			cs.dates = append(cs.dates, d)
		}
		cs.values[d] = append(cs.values[d], obs.Value)
	}
	for _, cs := range idx.series {
		sort.Slice(cs.dates, func(i, j int) bool { return cs.dates[i].Before(cs.dates[j]) })
	}
	return idx
}

func (idx *PollIndex) ensureCandidate(candidate string) *candidateSeries {
	cs, ok := idx.series[candidate]
	if !ok {
		cs = &candidateSeries{values: make(map[time.Time][]float64)}
		idx.series[candidate] = cs
		idx.candidates = append(idx.candidates, candidate)
	}
	return cs
}

// Candidates returns all known candidates in source order.
func (idx *PollIndex) Candidates() []string {
	out := make([]string, len(idx.candidates))
	copy(out, idx.candidates)
	return out
}

// HasCandidate reports whether the candidate exists in the index.
func (idx *PollIndex) HasCandidate(candidate string) bool {
	_, ok := idx.series[candidate]
	return ok
}

// ValuesOn returns the numeric observations for a candidate on a single date.
// The returned slice must not be mutated.
func (idx *PollIndex) ValuesOn(candidate string, date time.Time) []float64 {
	cs, ok := idx.series[candidate]
	if !ok {
		return nil
	}
	return cs.values[Day(date)]
}

// ValuesBetween returns the union of observations for every date in
// [from, to] (inclusive), in chronological order.
func (idx *PollIndex) ValuesBetween(candidate string, from, to time.Time) []float64 {
	cs, ok := idx.series[candidate]
	if !ok {
		return nil
	}
	from, to = Day(from), Day(to)
	lo := sort.Search(len(cs.dates), func(i int) bool { return !cs.dates[i].Before(from) })
	var out []float64
	for i := lo; i < len(cs.dates) && !cs.dates[i].After(to); i++ {
		out = append(out, cs.values[cs.dates[i]]...)
	}
	return out
}

// EarliestDate returns the earliest date with data for a candidate.
// ok is false when the candidate has no numeric observations at all.
func (idx *PollIndex) EarliestDate(candidate string) (time.Time, bool) {
	cs, ok := idx.series[candidate]
	if !ok || len(cs.dates) == 0 {
		return time.Time{}, false
	}
	return cs.dates[0], true
}

// LatestDate returns the latest date with data for a candidate.
func (idx *PollIndex) LatestDate(candidate string) (time.Time, bool) {
	cs, ok := idx.series[candidate]
	if !ok || len(cs.dates) == 0 {
		return time.Time{}, false
	}
	return cs.dates[len(cs.dates)-1], true
}

// Bounds returns the earliest and latest observation dates across all
// candidates. ok is false for an empty index.
func (idx *PollIndex) Bounds() (from, to time.Time, ok bool) {
	for _, c := range idx.candidates {
		cs := idx.series[c]
		if len(cs.dates) == 0 {
			continue
		}
		first, last := cs.dates[0], cs.dates[len(cs.dates)-1]
		if !ok || first.Before(from) {
			from = first
		}
		if !ok || last.After(to) {
			to = last
		}
		ok = true
	}
	return from, to, ok
}

// ObservationCount returns the total number of numeric observations indexed.
func (idx *PollIndex) ObservationCount() int {
	n := 0
	for _, cs := range idx.series {
		for _, vs := range cs.values {
			n += len(vs)
		}
	}
	return n
}

// Aggregate is a single output cell. Valid is false when no eligible
// observation existed under any window extension; Extended is true when the
// lookback had to widen beyond the configured lead time. WindowStart records
// the start of the observation window that produced the value.
type Aggregate struct {
	Value       float64   `json:"value"`
	Valid       bool      `json:"valid"`
	Extended    bool      `json:"extended,omitempty"`
	WindowStart time.Time `json:"window_start"`
}

// AggregateRow holds one aggregate per candidate for a single evaluation date.
type AggregateRow struct {
	Date  time.Time            `json:"date"`
	Cells map[string]Aggregate `json:"cells"`
}

// TrendResult is the full output of one aggregation run.
type TrendResult struct {
	Candidates    []string       `json:"candidates"`
	AggType       AggType        `json:"agg_type"`
	Interpolation Interpolation  `json:"interpolation"`
	LeadTime      int            `json:"lead_time"`
	IncrementDays int            `json:"increment_days"`
	FromDate      time.Time      `json:"from_date"`
	ToDate        time.Time      `json:"to_date"`
	Rows          []AggregateRow `json:"rows"`
}

// PollsResult is the normalized raw output of one retrieval run.
type PollsResult struct {
	Candidates   []string      `json:"candidates"`
	Observations []Observation `json:"observations"`
}
