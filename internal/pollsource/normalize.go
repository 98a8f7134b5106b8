package pollsource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// Base columns in the published poll table. Every other column is a
// candidate.
const (
	dateColumn     = "Date"
	pollsterColumn = "Pollster"
	sampleColumn   = "Sample"
)

// Normalize converts a parsed table into observations. The date column uses
// the source's M/D/YY format, sample sizes are cleaned to digits, and
// candidate percentages become decimal shares. An empty candidate cell is
// kept as a Missing observation so the candidate itself stays known.
func Normalize(header []string, rows [][]string) (*schema.PollsResult, error) {
	type candidateColumn struct {
		index int
		name  string
	}

	dateIdx, pollsterIdx, sampleIdx := -1, -1, -1
	var candidates []string
	var candidateCols []candidateColumn

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case dateColumn:
			dateIdx = i
		case pollsterColumn:
			pollsterIdx = i
		case sampleColumn:
			sampleIdx = i
		default:
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				continue
			}
			candidates = append(candidates, trimmed)
			candidateCols = append(candidateCols, candidateColumn{index: i, name: trimmed})
		}
	}

	if dateIdx < 0 {
		return nil, fmt.Errorf("poll table has no %q column (header: %v)", dateColumn, header)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("poll table has no candidate columns (header: %v)", header)
	}

	var observations []schema.Observation
	for rowNum, row := range rows {
		if dateIdx >= len(row) {
			continue
		}
		date, err := parseSourceDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+1, err)
		}

		pollster := ""
		if pollsterIdx >= 0 && pollsterIdx < len(row) {
			pollster = strings.TrimSpace(row[pollsterIdx])
		}
		sample := 0
		if sampleIdx >= 0 && sampleIdx < len(row) {
			sample = parseSampleSize(row[sampleIdx])
		}

		for _, col := range candidateCols {
			obs := schema.Observation{
				Date:      date,
				Candidate: col.name,
				Pollster:  pollster,
				Sample:    sample,
			}
			cell := ""
			if col.index < len(row) {
				cell = row[col.index]
			}
			value, ok, err := parseShare(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, candidate %s: %w", rowNum+1, col.name, err)
			}
			if ok {
				obs.Value = value
			} else {
				obs.Missing = true
			}
			observations = append(observations, obs)
		}
	}

	return &schema.PollsResult{
		Candidates:   candidates,
		Observations: observations,
	}, nil
}

// parseSourceDate parses the published M/D/YY date format, normalized to
// midnight UTC.
func parseSourceDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.SourceDateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid poll date %q: %w", s, err)
	}
	return schema.Day(t), nil
}

// parseSampleSize strips everything but digits, so "1,500 LV" becomes 1500.
// A cell with no digits yields zero.
func parseSampleSize(s string) int {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(sb.String())
	if err != nil {
		return 0
	}
	return n
}

// parseShare cleans a candidate percentage cell and converts it to a decimal
// share. ok is false when the cell has no numeric content at all.
func parseShare(s string) (value float64, ok bool, err error) {
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()
	if cleaned == "" {
		return 0, false, nil
	}
	pct, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return pct / 100, true, nil
}
