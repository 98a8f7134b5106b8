package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/polltrend/polltrend/schema"
)

// Cell markers for table output.
const (
	NullCellValue     = "n/a" // no data under any window extension
	ExtendedCellMark  = "*"   // lookback widened beyond lead time
	ExtendedCellLabel = "extended lookback"
)

// Color variables for console output.
var (
	// NullColor marks cells with no data at all.
	NullColor = color.New(color.FgCyan)

	// ExtendedColor marks cells pooled from beyond the lead time.
	ExtendedColor = color.New(color.FgYellow)

	// HeaderColor is used for run summaries.
	HeaderColor = color.New(color.FgWhite, color.Bold)
)

// ColorNullCell returns the null marker, colored when enabled.
func ColorNullCell(useColors bool) string {
	if useColors {
		return NullColor.Sprint(NullCellValue)
	}
	return NullCellValue
}

// ColorExtendedCell decorates a formatted value whose window was extended.
func ColorExtendedCell(text string, useColors bool) string {
	marked := text + ExtendedCellMark
	if useColors {
		return ExtendedColor.Sprint(marked)
	}
	return marked
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "Info %s\n", msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for page cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".polltrend_cache.db"
	}
	return filepath.Join(homeDir, ".polltrend_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".polltrend_runs.db"
	}
	return filepath.Join(homeDir, ".polltrend_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseDate parses a calendar date in YYYY-MM-DD form, normalized to
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return schema.Day(t), nil
}

// SplitList splits a comma-separated flag value into trimmed, non-empty parts.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
