package core

import (
	"testing"
	"time"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// obs is shorthand for a numeric observation fixture.
func obs(d time.Time, candidate string, value float64) schema.Observation {
	return schema.Observation{Date: d, Candidate: candidate, Value: value}
}

// collectEvents returns a sink that appends into the given slice.
func collectEvents(events *[]Event) EventSink {
	return func(e Event) { *events = append(*events, e) }
}

func TestResolveWindowExactDate(t *testing.T) {
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 23), "Smith", 0.50),
		obs(day(2023, 10, 23), "Smith", 0.54),
		obs(day(2023, 10, 22), "Smith", 0.10),
	})

	for _, mode := range []schema.Interpolation{schema.NeverInterp, schema.IfMissingInterp} {
		t.Run(string(mode), func(t *testing.T) {
			rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), mode, 3, nil)
			assert.ElementsMatch(t, []float64{0.50, 0.54}, rw.Values, "only the exact date should be used")
			assert.False(t, rw.Extended)
			assert.Equal(t, day(2023, 10, 23), rw.WindowStart)
		})
	}
}

func TestResolveWindowNeverStaysNull(t *testing.T) {
	// Older data exists, but never mode must not pool or widen.
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 20), "Smith", 0.50),
	})

	var events []Event
	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.NeverInterp, 3, collectEvents(&events))

	assert.Empty(t, rw.Values)
	assert.False(t, rw.Extended)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoData, events[0].Kind)
}

func TestResolveWindowIfMissingPools(t *testing.T) {
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 21), "Smith", 0.50),
		obs(day(2023, 10, 22), "Smith", 0.52),
	})

	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.IfMissingInterp, 3, nil)

	assert.ElementsMatch(t, []float64{0.50, 0.52}, rw.Values)
	assert.False(t, rw.Extended, "pooling inside the lead time is not an extension")
	assert.Equal(t, day(2023, 10, 20), rw.WindowStart)
}

func TestResolveWindowAlwaysPoolsOverExactData(t *testing.T) {
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 21), "Smith", 0.40),
		obs(day(2023, 10, 23), "Smith", 0.60),
	})

	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.AlwaysInterp, 3, nil)

	assert.ElementsMatch(t, []float64{0.40, 0.60}, rw.Values, "always mode pools even when the exact date has data")
	assert.Equal(t, day(2023, 10, 20), rw.WindowStart)
}

func TestResolveWindowLeadTimeOverride(t *testing.T) {
	// Only data is 5 days back; lead time of 3 must widen day by day.
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 18), "Smith", 0.47),
	})

	var events []Event
	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.IfMissingInterp, 3, collectEvents(&events))

	require.Equal(t, []float64{0.47}, rw.Values)
	assert.True(t, rw.Extended)
	assert.Equal(t, day(2023, 10, 18), rw.WindowStart, "widening stops at the first day with data")

	require.Len(t, events, 1)
	assert.Equal(t, EventWindowExtended, events[0].Kind)
	assert.Equal(t, 5, events[0].LookbackDays)
}

func TestResolveWindowOverrideHardStop(t *testing.T) {
	// Candidate's only data is in the future; the override must not loop past
	// the earliest known date.
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 25), "Smith", 0.47),
	})

	var events []Event
	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.IfMissingInterp, 3, collectEvents(&events))

	assert.Empty(t, rw.Values)
	assert.True(t, rw.Extended)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoData, events[0].Kind)
}

func TestResolveWindowUnknownCandidateIsEmpty(t *testing.T) {
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 23), "Smith", 0.50),
	})

	var events []Event
	rw := ResolveWindow(idx, "Nobody", day(2023, 10, 23), schema.IfMissingInterp, 3, collectEvents(&events))

	assert.Empty(t, rw.Values)
	assert.True(t, rw.Extended)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoData, events[0].Kind)
}

func TestResolveWindowZeroLeadTime(t *testing.T) {
	// Lead time 0 means the pooled window is just the date itself; widening
	// starts from the day before.
	idx := schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 22), "Smith", 0.47),
	})

	rw := ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.IfMissingInterp, 0, nil)

	assert.Equal(t, []float64{0.47}, rw.Values)
	assert.True(t, rw.Extended)
	assert.Equal(t, day(2023, 10, 22), rw.WindowStart)
}

func TestResolveWindowNilSinkIsSafe(t *testing.T) {
	idx := schema.NewPollIndex(nil)
	assert.NotPanics(t, func() {
		ResolveWindow(idx, "Smith", day(2023, 10, 23), schema.AlwaysInterp, 3, nil)
	})
}
