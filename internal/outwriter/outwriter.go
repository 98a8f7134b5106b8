// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTrends prints aggregated trend results using the configured output format.
func (ow *OutWriter) WriteTrends(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendResults(result, cfg, duration)
}

// WritePolls prints raw poll observations using the configured output format.
func (ow *OutWriter) WritePolls(result *schema.PollsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPollResults(result, cfg, duration)
}

// WriteCandidates prints the candidate list using the configured output format.
func (ow *OutWriter) WriteCandidates(result *schema.PollsResult, cfg *contract.Config) error {
	return PrintCandidateList(result, cfg)
}

// GetMaxTableCandidateWidth calculates the maximum width for candidate value
// columns in table output based on terminal width and candidate count.
func GetMaxTableCandidateWidth(cfg *contract.Config, candidateCount int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the date column plus borders, separators and padding
	baseWidth := 14
	baseWidth += 3 * (candidateCount + 1)

	if candidateCount < 1 {
		candidateCount = 1
	}
	available := (termWidth - baseWidth) / candidateCount
	if available < 8 {
		// Minimum reasonable column width for a share plus extension marker
		return 8
	}
	if available > 30 {
		// Candidate names rarely need more
		return 30
	}
	return available
}
