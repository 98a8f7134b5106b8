package contract

import (
	"testing"
	"time"

	"github.com/polltrend/polltrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns a baseline input that passes validation. Each test
// case mutates the fields under test.
func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		SourceURL:     "https://example.com/polls",
		AggType:       string(schema.MeanAgg),
		Interpolation: string(schema.IfMissingInterp),
		LeadTime:      DefaultLeadTime,
		IncrementDays: DefaultIncrementDays,
		Workers:       4,
		Precision:     DefaultPrecision,
		Output:        string(schema.TextOut),
		Color:         "no",
		CacheBackend:  string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid minimal config",
			mutate:      func(in *ConfigRawInput) {},
			expectError: false,
		},
		{
			name: "local input file instead of URL",
			mutate: func(in *ConfigRawInput) {
				in.SourceURL = ""
				in.InputFile = "polls.csv"
			},
			expectError: false,
		},
		{
			name: "no source at all",
			mutate: func(in *ConfigRawInput) {
				in.SourceURL = ""
				in.InputFile = ""
			},
			expectError: true,
		},
		{
			name:        "invalid agg type",
			mutate:      func(in *ConfigRawInput) { in.AggType = "mode" },
			expectError: true,
		},
		{
			name:        "uppercase agg type is accepted",
			mutate:      func(in *ConfigRawInput) { in.AggType = "MEDIAN" },
			expectError: false,
		},
		{
			name:        "invalid interpolation",
			mutate:      func(in *ConfigRawInput) { in.Interpolation = "sometimes" },
			expectError: true,
		},
		{
			name:        "negative lead time",
			mutate:      func(in *ConfigRawInput) { in.LeadTime = -1 },
			expectError: true,
		},
		{
			name:        "zero lead time is allowed",
			mutate:      func(in *ConfigRawInput) { in.LeadTime = 0 },
			expectError: false,
		},
		{
			name:        "zero increment days",
			mutate:      func(in *ConfigRawInput) { in.IncrementDays = 0 },
			expectError: true,
		},
		{
			name:        "invalid workers (zero)",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid workers (negative)",
			mutate:      func(in *ConfigRawInput) { in.Workers = -1 },
			expectError: true,
		},
		{
			name:        "invalid precision (zero)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: true,
		},
		{
			name:        "invalid precision (too high)",
			mutate:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: true,
		},
		{
			name:        "invalid color value",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name: "valid date range",
			mutate: func(in *ConfigRawInput) {
				in.From = "2024-01-01"
				in.To = "2024-03-01"
			},
			expectError: false,
		},
		{
			name: "from after to",
			mutate: func(in *ConfigRawInput) {
				in.From = "2024-03-01"
				in.To = "2024-01-01"
			},
			expectError: true,
		},
		{
			name:        "malformed from date",
			mutate:      func(in *ConfigRawInput) { in.From = "01/02/2024" },
			expectError: true,
		},
		{
			name:        "invalid fetch timeout",
			mutate:      func(in *ConfigRawInput) { in.FetchTimeout = "fast" },
			expectError: true,
		},
		{
			name:        "negative fetch timeout",
			mutate:      func(in *ConfigRawInput) { in.FetchTimeout = "-5s" },
			expectError: true,
		},
		{
			name:        "valid cache ttl",
			mutate:      func(in *ConfigRawInput) { in.CacheTTL = "12h" },
			expectError: false,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
			},
			expectError: true,
		},
		{
			name: "mysql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/polltrend"
			},
			expectError: false,
		},
		{
			name: "postgresql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.PostgreSQLBackend)
			},
			expectError: true,
		},
		{
			name: "postgresql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.PostgreSQLBackend)
				in.CacheDBConnect = "host=localhost port=5432 user=polltrend dbname=polltrend"
			},
			expectError: false,
		},
		{
			name: "none backend",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.NoneBackend)
			},
			expectError: false,
		},
		{
			name: "runs backend on separate sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.RunsBackend = string(schema.SQLiteBackend)
			},
			expectError: false,
		},
		{
			name: "cache and runs share the same sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheDBConnect = "/tmp/same.db"
				in.RunsBackend = string(schema.SQLiteBackend)
				in.RunsDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
			}
		})
	}
}

func TestProcessAndValidatePopulatesConfig(t *testing.T) {
	input := validRawInput()
	input.AggType = string(schema.MedianAgg)
	input.Interpolation = string(schema.AlwaysInterp)
	input.LeadTime = 5
	input.IncrementDays = 7
	input.Candidates = "Smith, Jones"
	input.From = "2024-01-15"
	input.FetchTimeout = "45s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.MedianAgg, cfg.AggType)
	assert.Equal(t, schema.AlwaysInterp, cfg.Interpolation)
	assert.Equal(t, 5, cfg.LeadTime)
	assert.Equal(t, 7, cfg.IncrementDays)
	assert.Equal(t, []string{"Smith", "Jones"}, cfg.Candidates)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cfg.FromDate)
	assert.True(t, cfg.ToDate.IsZero(), "unset to date should stay zero for later resolution")
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		AggType:    schema.MeanAgg,
		Candidates: []string{"Smith", "Jones"},
	}
	clone := cfg.Clone()

	clone.Candidates[0] = "Lee"
	assert.Equal(t, "Smith", cfg.Candidates[0], "clone must not share candidate slice")
	assert.Equal(t, cfg.AggType, clone.AggType)
}
