package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/internal/parquet"
	"github.com/polltrend/polltrend/schema"
)

// PrintTrendResults outputs the trend results, dispatching based on the output format configured.
func PrintTrendResults(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTrends(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTrends(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForTrends(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printTrendsTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing trends table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForTrends handles opening the file and calling the JSON writer.
func printJSONResultsForTrends(result *schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTrends(w, result)
	}, "Wrote JSON trend results")
}

// printCSVResultsForTrends handles opening the file and calling the CSV writer.
func printCSVResultsForTrends(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTrends(csvWriter, result, fmtFloat)
	}, "Wrote CSV trend results")
}

// printParquetResultsForTrends writes the trend cells to a Parquet file.
// Parquet is a binary format, so an output file is required.
func printParquetResultsForTrends(result *schema.TrendResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	points := TrendResultToPoints(result, 0)
	if err := parquet.WriteTrendPointsParquet(points, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet trend results to %s\n", cfg.OutputFile)
	return nil
}

// printTrendsTable prints the trend rows as a table with one column per candidate.
func printTrendsTable(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	// --- 1. Define Headers ---
	headers := make([]string, 0, len(result.Candidates)+1)
	headers = append(headers, "Date")
	maxWidth := GetMaxTableCandidateWidth(cfg, len(result.Candidates))
	for _, candidate := range result.Candidates {
		if len(candidate) > maxWidth {
			candidate = candidate[:maxWidth]
		}
		headers = append(headers, candidate)
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, r := range result.Rows {
		row := make([]string, 0, len(result.Candidates)+1)
		row = append(row, r.Date.Format(schema.DateFormat))
		for _, candidate := range result.Candidates {
			cell := r.Cells[candidate]
			switch {
			case !cell.Valid:
				row = append(row, contract.ColorNullCell(cfg.UseColors))
			case cell.Extended:
				row = append(row, contract.ColorExtendedCell(fmtFloat(cell.Value), cfg.UseColors))
			default:
				row = append(row, fmtFloat(cell.Value))
			}
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("%s = no data, %s = %s. Aggregated %d dates in %v with %d workers. Cache backend: %s\n",
		contract.NullCellValue, contract.ExtendedCellMark, contract.ExtendedCellLabel,
		len(result.Rows), duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// TrendResultToPoints flattens a trend result into per-cell records suitable
// for Parquet export or run tracking.
func TrendResultToPoints(result *schema.TrendResult, runID int64) []parquet.TrendPoint {
	points := make([]parquet.TrendPoint, 0, len(result.Rows)*len(result.Candidates))
	for _, row := range result.Rows {
		for _, candidate := range result.Candidates {
			cell := row.Cells[candidate]
			point := parquet.TrendPoint{
				RunID:       runID,
				EvalDate:    row.Date,
				Candidate:   candidate,
				WindowStart: cell.WindowStart,
				Extended:    cell.Extended,
				AggType:     string(result.AggType),
			}
			if cell.Valid {
				value := cell.Value
				point.Value = &value
			}
			points = append(points, point)
		}
	}
	return points
}
