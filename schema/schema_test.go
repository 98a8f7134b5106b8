package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayNormalizesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	ts := time.Date(2023, 1, 2, 23, 45, 0, 0, loc)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Day(ts))
}

func TestNewPollIndexGroupsByDateAndCandidate(t *testing.T) {
	idx := NewPollIndex([]Observation{
		{Date: date(2023, 1, 3), Candidate: "A", Value: 0.20},
		{Date: date(2023, 1, 1), Candidate: "A", Value: 0.10},
		{Date: date(2023, 1, 3), Candidate: "A", Value: 0.30},
		{Date: date(2023, 1, 2), Candidate: "B", Value: 0.50},
		{Date: date(2023, 1, 4), Candidate: "B", Missing: true},
	})

	assert.Equal(t, []string{"A", "B"}, idx.Candidates())
	assert.True(t, idx.HasCandidate("A"))
	assert.False(t, idx.HasCandidate("Z"))

	assert.Equal(t, []float64{0.10}, idx.ValuesOn("A", date(2023, 1, 1)))
	assert.Equal(t, []float64{0.20, 0.30}, idx.ValuesOn("A", date(2023, 1, 3)))
	assert.Empty(t, idx.ValuesOn("A", date(2023, 1, 2)))
	assert.Empty(t, idx.ValuesOn("Z", date(2023, 1, 1)))

	// Missing observations are excluded from the series.
	assert.Empty(t, idx.ValuesOn("B", date(2023, 1, 4)))
	assert.Equal(t, 4, idx.ObservationCount())
}

func TestPollIndexValuesBetween(t *testing.T) {
	idx := NewPollIndex([]Observation{
		{Date: date(2023, 1, 1), Candidate: "A", Value: 0.10},
		{Date: date(2023, 1, 3), Candidate: "A", Value: 0.20},
		{Date: date(2023, 1, 3), Candidate: "A", Value: 0.30},
		{Date: date(2023, 1, 8), Candidate: "A", Value: 0.40},
	})

	assert.Equal(t, []float64{0.10, 0.20, 0.30}, idx.ValuesBetween("A", date(2023, 1, 1), date(2023, 1, 3)))
	assert.Equal(t, []float64{0.20, 0.30}, idx.ValuesBetween("A", date(2023, 1, 2), date(2023, 1, 7)))
	assert.Empty(t, idx.ValuesBetween("A", date(2023, 1, 4), date(2023, 1, 7)))
	assert.Empty(t, idx.ValuesBetween("Z", date(2023, 1, 1), date(2023, 1, 9)))
}

func TestPollIndexBoundsAndEarliest(t *testing.T) {
	idx := NewPollIndex([]Observation{
		{Date: date(2023, 1, 5), Candidate: "A", Value: 0.10},
		{Date: date(2023, 1, 2), Candidate: "B", Value: 0.20},
		{Date: date(2023, 1, 9), Candidate: "B", Value: 0.30},
	})

	earliest, ok := idx.EarliestDate("B")
	require.True(t, ok)
	assert.Equal(t, date(2023, 1, 2), earliest)

	latest, ok := idx.LatestDate("B")
	require.True(t, ok)
	assert.Equal(t, date(2023, 1, 9), latest)

	_, ok = idx.EarliestDate("Z")
	assert.False(t, ok)

	from, to, ok := idx.Bounds()
	require.True(t, ok)
	assert.Equal(t, date(2023, 1, 2), from)
	assert.Equal(t, date(2023, 1, 9), to)

	_, _, ok = NewPollIndex(nil).Bounds()
	assert.False(t, ok)
}

func TestPollIndexCandidateWithOnlyMissingValues(t *testing.T) {
	idx := NewPollIndex([]Observation{
		{Date: date(2023, 1, 1), Candidate: "A", Missing: true},
	})

	assert.True(t, idx.HasCandidate("A"))
	_, ok := idx.EarliestDate("A")
	assert.False(t, ok)
}
