package cmd

import (
	"github.com/polltrend/polltrend/core"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/spf13/cobra"
)

// pollsCmd retrieves and prints the raw polls without aggregating.
var pollsCmd = &cobra.Command{
	Use:   "polls [source-url]",
	Short: "Show the normalized raw polls without aggregating.",
	Long: `Fetch the poll source and print the normalized observations as they
enter the aggregation pipeline: one row per poll with a share per candidate.

Useful for:
- Inspecting what the scraper actually extracted from the page
- Spotting unparseable cells (shown as empty)
- Producing a local CSV snapshot that --input can read back later

Examples:
  # Inspect the raw polls as a table
  polltrend polls --source-url https://example.com/polls

  # Snapshot the source for offline re-runs
  polltrend polls --output csv --output-file polls.csv
  polltrend trends --input polls.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePolls(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot retrieve polls", err)
		}
	},
}
