package schema

// Custom string types for type safety.
type (
	// AggType represents the statistic used to reduce a resolved window.
	AggType string

	// Interpolation represents the policy for pooling historical lookback days.
	Interpolation string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string
)

// All aggregation types supported.
const (
	MeanAgg   AggType = "mean" // default
	MedianAgg AggType = "median"
)

// All interpolation modes supported.
const (
	NeverInterp     Interpolation = "never"
	IfMissingInterp Interpolation = "if_missing" // default
	AlwaysInterp    Interpolation = "always"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// DateFormat is the calendar date representation used for CLI flags and output.
const DateFormat = "2006-01-02"

// SourceDateFormat is the date representation used by the upstream poll table.
const SourceDateFormat = "1/2/06"

// ValidAggTypes lists all valid aggregation types.
var ValidAggTypes = map[AggType]struct{}{
	MeanAgg:   {},
	MedianAgg: {},
}

// ValidInterpolations lists all valid interpolation modes.
var ValidInterpolations = map[Interpolation]struct{}{
	NeverInterp:     {},
	IfMissingInterp: {},
	AlwaysInterp:    {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
