package core

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// TrendParams are the run parameters for one aggregation. FromDate and ToDate
// must be concrete dates; callers resolve defaults against the index bounds
// before invoking the engine.
type TrendParams struct {
	FromDate      time.Time
	ToDate        time.Time
	IncrementDays int
	LeadTime      int
	Interpolation schema.Interpolation
	AggType       schema.AggType
	Candidates    []string // empty means all known candidates
	Workers       int
	Events        EventSink
}

// Reduce collapses a resolved value set to a single statistic. ok is false
// when the set is empty, which downstream records as a null aggregate.
// No rounding is applied; formatting belongs to the output layer.
func Reduce(values []float64, aggType schema.AggType) (value float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	if aggType == schema.MedianAgg {
		return median(values), true
	}
	return mean(values), true
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median sorts a copy ascending; even counts average the two middle values.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// AggregateTrends runs the full engine: it validates the parameters, builds
// the evaluation date sequence, and produces one AggregateRow per date with
// one cell per candidate. Candidates resolve independently; a no-data outcome
// for one never affects another. The computation is pure given (idx, params)
// and re-running it yields identical results.
//
// Rows are resolved by a bounded worker pool. Each worker writes only its own
// row index and reads only the immutable index, so no locking is needed.
// Context cancellation stops scheduling further rows and returns ctx.Err().
func AggregateTrends(ctx context.Context, idx *schema.PollIndex, params TrendParams) (*schema.TrendResult, error) {
	if params.LeadTime < 0 {
		return nil, &InvalidRangeError{From: params.FromDate, To: params.ToDate, IncrementDays: params.IncrementDays, LeadTime: params.LeadTime}
	}

	candidates := params.Candidates
	if len(candidates) == 0 {
		candidates = idx.Candidates()
	} else {
		for _, c := range candidates {
			if !idx.HasCandidate(c) {
				return nil, &UnknownCandidateError{Candidate: c}
			}
		}
	}

	dates, err := EvalDates(params.FromDate, params.ToDate, params.IncrementDays)
	if err != nil {
		return nil, err
	}

	workers := params.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([]schema.AggregateRow, len(dates))
	jobCh := make(chan int, len(dates))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range jobCh {
				// Each goroutine writes to a unique index, which is safe.
				rows[i] = resolveRow(idx, dates[i], candidates, params)
			}
		})
	}

	for i := range dates {
		if ctx.Err() != nil {
			break
		}
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &schema.TrendResult{
		Candidates:    candidates,
		AggType:       params.AggType,
		Interpolation: params.Interpolation,
		LeadTime:      params.LeadTime,
		IncrementDays: params.IncrementDays,
		FromDate:      schema.Day(params.FromDate),
		ToDate:        schema.Day(params.ToDate),
		Rows:          rows,
	}, nil
}

// resolveRow builds one output row by resolving and reducing each candidate
// independently. It always reduces over raw observations resolved fresh for
// the evaluation date, never over previously produced aggregates.
func resolveRow(idx *schema.PollIndex, date time.Time, candidates []string, params TrendParams) schema.AggregateRow {
	row := schema.AggregateRow{
		Date:  date,
		Cells: make(map[string]schema.Aggregate, len(candidates)),
	}
	for _, candidate := range candidates {
		rw := ResolveWindow(idx, candidate, date, params.Interpolation, params.LeadTime, params.Events)
		value, ok := Reduce(rw.Values, params.AggType)
		row.Cells[candidate] = schema.Aggregate{
			Value:       value,
			Valid:       ok,
			Extended:    rw.Extended,
			WindowStart: rw.WindowStart,
		}
	}
	return row
}
