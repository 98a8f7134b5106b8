package schema

import "time"

// CacheStatus holds status information about the page cache store.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// RunsStatus holds status information about the run-tracking store.
type RunsStatus struct {
	Backend        string
	Connected      bool
	TotalRuns      int
	LastRunID      int64
	LastRunTime    time.Time
	OldestRunTime  time.Time
	TotalTrendRows int
	TableSizes     map[string]int
}

// RunRecord is one tracked aggregation run, as stored in the runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRows     int32
	ConfigParams  *string // JSON-encoded run parameters
}

// TrendPointRecord is one persisted output cell from a tracked run.
type TrendPointRecord struct {
	RunID       int64
	EvalDate    time.Time
	Candidate   string
	Value       *float64 // nil means the cell was null (no data)
	WindowStart time.Time
	Extended    bool
	AggType     string
}
