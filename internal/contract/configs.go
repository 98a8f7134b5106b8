package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// Default values for configuration.
const (
	DefaultLeadTime      = 3
	DefaultIncrementDays = 1
	DefaultPrecision     = 3
	MaxPrecision         = 6
	DefaultFetchTimeout  = 30 * time.Second
	DefaultCacheTTL      = 6 * time.Hour
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for a polltrend run.
// This struct remains the "final, validated" config.
type Config struct {
	SourceURL string
	InputFile string // local raw polls CSV; skips the network fetch

	FromDate time.Time // zero means "earliest date in the data"
	ToDate   time.Time // zero means "latest date in the data"

	AggType       schema.AggType
	Interpolation schema.Interpolation
	LeadTime      int
	IncrementDays int
	Candidates    []string // empty means all candidates in the source

	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	FetchTimeout time.Duration
	CacheTTL     time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	SourceURL      string `mapstructure:"source-url"`
	InputFile      string `mapstructure:"input"`
	From           string `mapstructure:"from"`
	To             string `mapstructure:"to"`
	AggType        string `mapstructure:"agg-type"`
	Interpolation  string `mapstructure:"interpolation"`
	LeadTime       int    `mapstructure:"lead-time"`
	IncrementDays  int    `mapstructure:"increment-days"`
	Candidates     string `mapstructure:"candidates"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Verbose        bool   `mapstructure:"verbose"`
	FetchTimeout   string `mapstructure:"fetch-timeout"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Candidates != nil {
		clone.Candidates = make([]string, len(c.Candidates))
		copy(clone.Candidates, c.Candidates)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-date fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceURL = strings.TrimSpace(input.SourceURL)
	cfg.InputFile = strings.TrimSpace(input.InputFile)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Candidates = SplitList(input.Candidates)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.AggType = schema.AggType(strings.ToLower(input.AggType))
	if _, ok := schema.ValidAggTypes[cfg.AggType]; !ok {
		return fmt.Errorf("invalid agg type '%s'. must be mean or median", input.AggType)
	}

	cfg.Interpolation = schema.Interpolation(strings.ToLower(input.Interpolation))
	if _, ok := schema.ValidInterpolations[cfg.Interpolation]; !ok {
		return fmt.Errorf("invalid interpolation '%s'. must be never, if_missing or always", input.Interpolation)
	}

	if input.LeadTime < 0 {
		return fmt.Errorf("lead time cannot be negative (received %d)", input.LeadTime)
	}
	cfg.LeadTime = input.LeadTime

	if input.IncrementDays < 1 {
		return fmt.Errorf("increment days must be at least 1 (received %d)", input.IncrementDays)
	}
	cfg.IncrementDays = input.IncrementDays

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if cfg.SourceURL == "" && cfg.InputFile == "" {
		return fmt.Errorf("no poll source configured: set --source-url (or POLLTREND_SOURCE_URL) or --input")
	}

	return nil
}

// processDateRange parses the optional from/to dates and checks their order.
// Zero values stay zero and are later resolved against the data's own bounds.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	if input.From != "" {
		t, err := ParseDate(input.From)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		cfg.FromDate = t
	}
	if input.To != "" {
		t, err := ParseDate(input.To)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		cfg.ToDate = t
	}
	if !cfg.FromDate.IsZero() && !cfg.ToDate.IsZero() && cfg.FromDate.After(cfg.ToDate) {
		return fmt.Errorf("from date (%s) cannot be after to date (%s)",
			cfg.FromDate.Format(schema.DateFormat), cfg.ToDate.Format(schema.DateFormat))
	}
	return nil
}

// processDurations parses the fetch timeout and cache TTL.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --fetch-timeout '%s': expected a positive duration like 30s", input.FetchTimeout)
		}
		cfg.FetchTimeout = d
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		d, err := time.ParseDuration(input.CacheTTL)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid --cache-ttl '%s': expected a duration like 6h", input.CacheTTL)
		}
		cfg.CacheTTL = d
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the page cache and run store backends.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
			return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
		}
		cfg.RunsDBConnect = input.RunsDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			return err
		}

		// Page cache and run tracking must not share a SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			runsDBPath := cfg.RunsDBConnect
			if runsDBPath == "" {
				runsDBPath = GetRunsDBFilePath()
			}
			if cacheDBPath == runsDBPath {
				return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}
