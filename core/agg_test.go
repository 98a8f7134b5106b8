package core

import (
	"context"
	"testing"
	"time"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		aggType schema.AggType
		want    float64
		wantOK  bool
	}{
		{"mean of several", []float64{0.10, 0.20, 0.30}, schema.MeanAgg, 0.20, true},
		{"mean of one", []float64{0.42}, schema.MeanAgg, 0.42, true},
		{"median odd count", []float64{0.30, 0.10, 0.20}, schema.MedianAgg, 0.20, true},
		{"median even count averages middle pair", []float64{0.40, 0.10, 0.20, 0.30}, schema.MedianAgg, 0.25, true},
		{"empty set is not an error", nil, schema.MeanAgg, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Reduce(tt.values, tt.aggType)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	values := []float64{0.30, 0.10, 0.20}
	_, _ = Reduce(values, schema.MedianAgg)
	assert.Equal(t, []float64{0.30, 0.10, 0.20}, values, "median must sort a copy")
}

// sparseIndex has Smith with data on days 1 and 3 and Jones with data only on
// day 1, over the range Oct 21-23.
func sparseIndex() *schema.PollIndex {
	return schema.NewPollIndex([]schema.Observation{
		obs(day(2023, 10, 21), "Smith", 0.10),
		obs(day(2023, 10, 21), "Smith", 0.20),
		obs(day(2023, 10, 21), "Jones", 0.40),
		obs(day(2023, 10, 23), "Smith", 0.25),
	})
}

func baseParams() TrendParams {
	return TrendParams{
		FromDate:      day(2023, 10, 21),
		ToDate:        day(2023, 10, 23),
		IncrementDays: 1,
		LeadTime:      3,
		Interpolation: schema.IfMissingInterp,
		AggType:       schema.MeanAgg,
		Workers:       2,
	}
}

func TestAggregateTrendsIfMissing(t *testing.T) {
	result, err := AggregateTrends(context.Background(), sparseIndex(), baseParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"Smith", "Jones"}, result.Candidates, "source column order is preserved")
	require.Len(t, result.Rows, 3)

	// Day 1: exact data for both.
	smith := result.Rows[0].Cells["Smith"]
	require.True(t, smith.Valid)
	assert.InDelta(t, 0.15, smith.Value, 1e-9)

	// Day 2: no exact data, pooled from day 1 for both.
	smith = result.Rows[1].Cells["Smith"]
	require.True(t, smith.Valid)
	assert.InDelta(t, 0.15, smith.Value, 1e-9)
	assert.False(t, smith.Extended)

	// Day 3: Smith has exact data; Jones pools back to day 1.
	smith = result.Rows[2].Cells["Smith"]
	require.True(t, smith.Valid)
	assert.InDelta(t, 0.25, smith.Value, 1e-9)

	jones := result.Rows[2].Cells["Jones"]
	require.True(t, jones.Valid)
	assert.InDelta(t, 0.40, jones.Value, 1e-9)
}

func TestAggregateTrendsNeverLeavesGapsNull(t *testing.T) {
	params := baseParams()
	params.Interpolation = schema.NeverInterp

	result, err := AggregateTrends(context.Background(), sparseIndex(), params)
	require.NoError(t, err)

	assert.False(t, result.Rows[1].Cells["Smith"].Valid, "missing day stays null in never mode")
	assert.False(t, result.Rows[1].Cells["Jones"].Valid)
	assert.True(t, result.Rows[0].Cells["Smith"].Valid)
	assert.True(t, result.Rows[2].Cells["Smith"].Valid)
}

func TestAggregateTrendsAlwaysPools(t *testing.T) {
	params := baseParams()
	params.Interpolation = schema.AlwaysInterp
	params.LeadTime = 2

	result, err := AggregateTrends(context.Background(), sparseIndex(), params)
	require.NoError(t, err)

	// Day 3 window [Oct 21, Oct 23] pools all three Smith observations.
	smith := result.Rows[2].Cells["Smith"]
	require.True(t, smith.Valid)
	assert.InDelta(t, (0.10+0.20+0.25)/3, smith.Value, 1e-9)
}

func TestAggregateTrendsMedian(t *testing.T) {
	params := baseParams()
	params.AggType = schema.MedianAgg
	params.Candidates = []string{"Smith"}

	result, err := AggregateTrends(context.Background(), sparseIndex(), params)
	require.NoError(t, err)

	assert.Equal(t, []string{"Smith"}, result.Candidates)
	smith := result.Rows[0].Cells["Smith"]
	require.True(t, smith.Valid)
	assert.InDelta(t, 0.15, smith.Value, 1e-9, "even count averages the two middle values")
}

func TestAggregateTrendsIsIdempotent(t *testing.T) {
	first, err := AggregateTrends(context.Background(), sparseIndex(), baseParams())
	require.NoError(t, err)
	second, err := AggregateTrends(context.Background(), sparseIndex(), baseParams())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateTrendsUnknownCandidate(t *testing.T) {
	params := baseParams()
	params.Candidates = []string{"Smith", "Nobody"}

	_, err := AggregateTrends(context.Background(), sparseIndex(), params)
	var unknownErr *UnknownCandidateError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Nobody", unknownErr.Candidate)
}

func TestAggregateTrendsNegativeLeadTime(t *testing.T) {
	params := baseParams()
	params.LeadTime = -1

	_, err := AggregateTrends(context.Background(), sparseIndex(), params)
	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Contains(t, err.Error(), "lead time")
}

func TestAggregateTrendsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AggregateTrends(ctx, sparseIndex(), baseParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregateTrendsDefaultsWorkers(t *testing.T) {
	params := baseParams()
	params.Workers = 0

	result, err := AggregateTrends(context.Background(), sparseIndex(), params)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
}

func TestAggregateTrendsResultMetadata(t *testing.T) {
	from := time.Date(2023, 10, 21, 12, 0, 0, 0, time.UTC)
	params := baseParams()
	params.FromDate = from

	result, err := AggregateTrends(context.Background(), sparseIndex(), params)
	require.NoError(t, err)

	assert.Equal(t, day(2023, 10, 21), result.FromDate, "range endpoints are day-normalized")
	assert.Equal(t, schema.MeanAgg, result.AggType)
	assert.Equal(t, schema.IfMissingInterp, result.Interpolation)
	assert.Equal(t, 3, result.LeadTime)
	assert.Equal(t, 1, result.IncrementDays)
}
