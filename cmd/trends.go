package cmd

import (
	"github.com/polltrend/polltrend/core"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/spf13/cobra"
)

// trendsCmd performs the poll aggregation.
var trendsCmd = &cobra.Command{
	Use:   "trends [source-url]",
	Short: "Aggregate raw polls into a regular smoothed time series.",
	Long: `Fetch raw poll observations and aggregate them into one value per
candidate per evaluation date.

Raw polls arrive on irregular dates with several pollsters reporting on the
same day and none on others. Trends produces an evenly spaced series by:
- Evaluating one date every --increment-days across the requested range
- Pooling up to --lead-time days of history according to --interpolation
- Reducing each pooled window with --agg-type (mean or median)
- Widening the lookback automatically when a window would otherwise be empty

Cells that stay empty after the full widening are printed as n/a; values that
needed a wider lookback are marked with *.

Examples:
  # Aggregate the default source with daily mean values
  polltrend trends --source-url https://example.com/polls

  # Weekly medians for two candidates
  polltrend trends --agg-type median --increment-days 7 -c "Smith,Jones"

  # Strict mode: only dates with actual polls get a value
  polltrend trends --interpolation never

  # Re-run from a local CSV and export for notebooks
  polltrend trends --input polls.csv --output parquet --output-file trends.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrends(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot aggregate trends", err)
		}
	},
}
