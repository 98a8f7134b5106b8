// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// PollSource defines the upstream collaborator that retrieves and normalizes
// raw poll observations. This allows the core logic to be tested against a
// fake source instead of a live page.
type PollSource interface {
	// FetchPolls retrieves the source data and returns normalized
	// observations together with the candidate column order.
	FetchPolls(ctx context.Context) (*schema.PollsResult, error)
}

// CacheManager defines the interface for managing storage backends.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetPageStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for page-payload cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking aggregation runs and the trend
// points they produced.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordTrendPoints stores the output cells produced by a run.
	RecordTrendPoints(runID int64, points []schema.TrendPointRecord) error

	// GetAllRunRecords returns every tracked run.
	GetAllRunRecords() ([]schema.RunRecord, error)

	// GetAllTrendPointRecords returns every persisted trend point.
	GetAllTrendPointRecords() ([]schema.TrendPointRecord, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunsStatus, error)

	// Close closes the underlying connection.
	Close() error
}
