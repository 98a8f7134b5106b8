package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/internal/outwriter"
	"github.com/polltrend/polltrend/internal/pollsource"
	"github.com/polltrend/polltrend/schema"
)

// ErrNoPollData is returned when the source yields no numeric observations,
// so no date range can be resolved.
var ErrNoPollData = errors.New("no numeric poll data in source")

// NewPollSource builds the poll source configured for this run. A local input
// file takes precedence over the network source; the HTTP source reuses the
// page cache when one is configured.
func NewPollSource(cfg *contract.Config, mgr contract.CacheManager) contract.PollSource {
	if cfg.InputFile != "" {
		return pollsource.NewCSVSource(cfg.InputFile)
	}
	var cache contract.CacheStore
	if mgr != nil {
		cache = mgr.GetPageStore()
	}
	return pollsource.NewHTTPSource(cfg.SourceURL, cfg.FetchTimeout, cache, cfg.CacheTTL)
}

// GetTrendResults fetches the polls, resolves the date range, and runs the
// aggregation engine. The run is tracked in the run store when one is
// configured; tracking failures degrade to warnings and never fail the run.
// This is exposed for embedded callers like the MCP server.
func GetTrendResults(ctx context.Context, cfg *contract.Config, src contract.PollSource, mgr contract.CacheManager) (*schema.TrendResult, error) {
	polls, err := src.FetchPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch polls: %w", err)
	}

	idx := schema.NewPollIndex(polls.Observations)
	fromDate, toDate, err := resolveDateRange(cfg, idx)
	if err != nil {
		return nil, err
	}

	if !shouldSuppressHeader(ctx) {
		logTrendHeader(cfg, fromDate, toDate)
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var runStore contract.RunStore
	if mgr != nil {
		runStore = mgr.GetRunStore()
	}
	if runStore != nil {
		configParams := map[string]any{
			"agg_type":       string(cfg.AggType),
			"interpolation":  string(cfg.Interpolation),
			"lead_time":      cfg.LeadTime,
			"increment_days": cfg.IncrementDays,
			"from_date":      fromDate.Format(schema.DateFormat),
			"to_date":        toDate.Format(schema.DateFormat),
			"workers":        cfg.Workers,
		}
		runID, err = runStore.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runStore = nil
		}
	}

	// --- 1. Aggregation ---
	result, err := AggregateTrends(ctx, idx, TrendParams{
		FromDate:      fromDate,
		ToDate:        toDate,
		IncrementDays: cfg.IncrementDays,
		LeadTime:      cfg.LeadTime,
		Interpolation: cfg.Interpolation,
		AggType:       cfg.AggType,
		Candidates:    cfg.Candidates,
		Workers:       cfg.Workers,
		Events:        verboseEventSink(cfg),
	})
	if err != nil {
		return nil, err
	}

	// --- 2. End Run Tracking ---
	if runStore != nil && runID > 0 {
		points := trendPointRecords(result, runID)
		if err := runStore.RecordTrendPoints(runID, points); err != nil {
			contract.LogWarn("Failed to record trend points", err)
		}
		if err := runStore.EndRun(runID, time.Now(), len(points)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return result, nil
}

// ExecuteTrends runs the full aggregation and prints results to stdout.
// It serves as the main entry point for the 'trends' command.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src := NewPollSource(cfg, mgr)
	result, err := GetTrendResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteTrends(result, cfg, duration)
}

// GetPollResults fetches and normalizes the raw polls without aggregating.
// This is exposed for embedded callers like the MCP server.
func GetPollResults(ctx context.Context, cfg *contract.Config, src contract.PollSource) (*schema.PollsResult, error) {
	polls, err := src.FetchPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch polls: %w", err)
	}
	return polls, nil
}

// ExecutePolls retrieves the raw polls and prints them to stdout.
// It serves as the main entry point for the 'polls' command.
func ExecutePolls(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	src := NewPollSource(cfg, mgr)
	polls, err := GetPollResults(ctx, cfg, src)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WritePolls(polls, cfg, duration)
}

// ExecuteCandidates lists the candidates found in the source.
// It serves as the main entry point for the 'candidates' command.
func ExecuteCandidates(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src := NewPollSource(cfg, mgr)
	polls, err := GetPollResults(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCandidates(polls, cfg)
}

// resolveDateRange fills unset range endpoints from the data's own bounds.
func resolveDateRange(cfg *contract.Config, idx *schema.PollIndex) (from, to time.Time, err error) {
	from, to = cfg.FromDate, cfg.ToDate
	if from.IsZero() || to.IsZero() {
		first, last, ok := idx.Bounds()
		if !ok {
			return time.Time{}, time.Time{}, ErrNoPollData
		}
		if from.IsZero() {
			from = first
		}
		if to.IsZero() {
			to = last
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, &InvalidRangeError{From: from, To: to, IncrementDays: cfg.IncrementDays}
	}
	return from, to, nil
}

// logTrendHeader prints a concise, 2-line header for each aggregation run.
func logTrendHeader(cfg *contract.Config, from, to time.Time) {
	source := cfg.SourceURL
	if cfg.InputFile != "" {
		source = cfg.InputFile
	}
	fmt.Printf("🔎 Source: %s (Agg: %s, Interpolation: %s)\n", source, cfg.AggType, cfg.Interpolation)
	fmt.Printf("📅 Range: %s → %s (lead time: %dd, step: %dd)\n",
		from.Format(schema.DateFormat), to.Format(schema.DateFormat), cfg.LeadTime, cfg.IncrementDays)
}

// verboseEventSink logs resolver diagnostics to stderr when verbose mode is
// on. A nil sink keeps the hot path free of formatting work.
func verboseEventSink(cfg *contract.Config) EventSink {
	if !cfg.Verbose {
		return nil
	}
	return func(e Event) {
		switch e.Kind {
		case EventWindowExtended:
			contract.LogInfo(fmt.Sprintf("window extended for %s on %s: lookback widened to %d days",
				e.Candidate, e.Date.Format(schema.DateFormat), e.LookbackDays))
		case EventNoData:
			contract.LogInfo(fmt.Sprintf("no data for %s on %s under any window extension",
				e.Candidate, e.Date.Format(schema.DateFormat)))
		}
	}
}

// trendPointRecords flattens a trend result into per-cell store records.
func trendPointRecords(result *schema.TrendResult, runID int64) []schema.TrendPointRecord {
	records := make([]schema.TrendPointRecord, 0, len(result.Rows)*len(result.Candidates))
	for _, row := range result.Rows {
		for _, candidate := range result.Candidates {
			cell := row.Cells[candidate]
			rec := schema.TrendPointRecord{
				RunID:       runID,
				EvalDate:    row.Date,
				Candidate:   candidate,
				WindowStart: cell.WindowStart,
				Extended:    cell.Extended,
				AggType:     string(result.AggType),
			}
			if cell.Valid {
				value := cell.Value
				rec.Value = &value
			}
			records = append(records, rec)
		}
	}
	return records
}
