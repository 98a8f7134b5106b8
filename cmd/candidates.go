package cmd

import (
	"github.com/polltrend/polltrend/core"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/spf13/cobra"
)

// candidatesCmd lists the candidates found in the poll source.
var candidatesCmd = &cobra.Command{
	Use:   "candidates [source-url]",
	Short: "List the candidates found in the poll source.",
	Long: `Print the candidate names discovered in the source, in the order the
source columns declare them.

The printed names are the exact values accepted by the --candidates filter.

Examples:
  # See who can be filtered on
  polltrend candidates --source-url https://example.com/polls

  # Machine-readable list
  polltrend candidates --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCandidates(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list candidates", err)
		}
	},
}
