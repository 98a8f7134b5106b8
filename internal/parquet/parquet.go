// Package parquet provides data structures and functions for exporting poll
// aggregation history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/polltrend/polltrend/schema"
)

// Run represents a single aggregation run with metadata.
// This struct maps to the polltrend_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of output rows the run produced
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// TrendPoint represents one output cell from an aggregation run.
// This struct maps to the polltrend_trend_points database table.
type TrendPoint struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// EvalDate is the evaluation date of the cell
	EvalDate time.Time `parquet:"eval_date,snappy"`

	// Candidate is the candidate this cell belongs to
	Candidate string `parquet:"candidate,snappy"`

	// Value is the aggregated share as a decimal (nullable when no data resolved)
	Value *float64 `parquet:"value,optional,snappy"`

	// WindowStart is the start of the observation window that produced the value
	WindowStart time.Time `parquet:"window_start,snappy"`

	// Extended marks cells whose lookback was widened beyond the lead time
	Extended bool `parquet:"extended,snappy"`

	// AggType is the statistic used (mean or median)
	AggType string `parquet:"agg_type,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteTrendPointsParquet writes a slice of TrendPoint structs to a Parquet file.
func WriteTrendPointsParquet(data []TrendPoint, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the TrendPoint struct tags
	writer := parquet.NewGenericWriter[TrendPoint](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertTrendPointRecords converts schema.TrendPointRecord to TrendPoint for Parquet export.
func ConvertTrendPointRecords(records []schema.TrendPointRecord) []TrendPoint {
	result := make([]TrendPoint, len(records))
	for i, record := range records {
		result[i] = TrendPoint{
			RunID:       record.RunID,
			EvalDate:    record.EvalDate,
			Candidate:   record.Candidate,
			Value:       record.Value,
			WindowStart: record.WindowStart,
			Extended:    record.Extended,
			AggType:     record.AggType,
		}
	}
	return result
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 58*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"agg_type":"mean","interpolation":"if_missing","lead_time":3}`

	startTime2 := now.Add(-10 * time.Minute)
	// endTime2, durationMs2, configParams2 stay nil to demonstrate nullable fields

	return []Run{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			TotalRows:     120,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartTime:     startTime2,
			EndTime:       nil,
			RunDurationMs: nil,
			TotalRows:     0,
			ConfigParams:  nil,
		},
	}
}

// MockFetchTrendPoints generates sample TrendPoint data for demonstration.
func MockFetchTrendPoints() []TrendPoint {
	day := time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC)
	smith := 0.52
	jones := 0.44

	return []TrendPoint{
		{
			RunID:       1,
			EvalDate:    day,
			Candidate:   "Smith",
			Value:       &smith,
			WindowStart: day,
			Extended:    false,
			AggType:     "mean",
		},
		{
			RunID:       1,
			EvalDate:    day,
			Candidate:   "Jones",
			Value:       &jones,
			WindowStart: day.AddDate(0, 0, -3),
			Extended:    false,
			AggType:     "mean",
		},
		{
			RunID:       1,
			EvalDate:    day.AddDate(0, 0, 1),
			Candidate:   "Jones",
			Value:       nil, // no data resolved - nullable field
			WindowStart: day.AddDate(0, 0, -2),
			Extended:    true,
			AggType:     "mean",
		},
	}
}
