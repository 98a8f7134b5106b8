package iocache

import (
	"errors"
	"fmt"

	"github.com/polltrend/polltrend/internal/parquet"
)

// ExecuteRunsExport performs the actual export of run-tracking data to Parquet files.
func ExecuteRunsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get runs status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total trend points: %d\n", status.TableSizes[trendPointsTable])

	// Retrieve all runs
	runs, err := store.GetAllRunRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all trend points
	points, err := store.GetAllTrendPointRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve trend points: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetPoints := parquet.ConvertTrendPointRecords(points)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write trend points to Parquet
	pointsFile := outputFile + ".trend_points.parquet"
	if err := parquet.WriteTrendPointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write trend points: %w", err)
	}
	fmt.Printf("Exported %d trend points to: %s\n", len(parquetPoints), pointsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
