// Package cmd defines the command-line interface for polltrend.
package cmd

import (
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(pollsCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source-url", "", "URL of the poll table to scrape")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to a local raw polls CSV (takes precedence over --source-url)")
	rootCmd.PersistentFlags().String("from", "", "Start date in YYYY-MM-DD (default: earliest date in the data)")
	rootCmd.PersistentFlags().String("to", "", "End date in YYYY-MM-DD (default: latest date in the data)")
	rootCmd.PersistentFlags().String("agg-type", string(schema.MeanAgg), "Statistic per window: mean or median")
	rootCmd.PersistentFlags().String("interpolation", string(schema.IfMissingInterp), "Lookback pooling policy: never, if_missing or always")
	rootCmd.PersistentFlags().Int("lead-time", contract.DefaultLeadTime, "Lookback window length in days")
	rootCmd.PersistentFlags().Int("increment-days", contract.DefaultIncrementDays, "Days between evaluation dates")
	rootCmd.PersistentFlags().StringP("candidates", "c", "", "Comma-separated candidate filter (default: all candidates)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored cells in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log window resolution diagnostics to stderr")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "HTTP timeout for fetching the poll page")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "Maximum age before a cached poll page is refetched")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
