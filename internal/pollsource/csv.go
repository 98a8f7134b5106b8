package pollsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polltrend/polltrend/schema"
)

// CSVSource loads observations from a polls CSV previously exported by the
// polls command. The layout is date,pollster,n followed by one column per
// candidate holding decimal shares, with empty cells for missing data.
type CSVSource struct {
	Path string
}

// NewCSVSource builds a source over a local polls CSV file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// FetchPolls reads and parses the CSV file.
func (s *CSVSource) FetchPolls(ctx context.Context) (*schema.PollsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open polls file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read polls file %s: %w", s.Path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("polls file %s is empty", s.Path)
	}

	header := records[0]
	if len(header) < 4 || header[0] != "date" || header[1] != "pollster" || header[2] != "n" {
		return nil, fmt.Errorf("polls file %s has unexpected header %v", s.Path, header)
	}
	candidates := header[3:]

	var observations []schema.Observation
	for rowNum, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("polls file %s row %d: expected %d columns, got %d", s.Path, rowNum+1, len(header), len(record))
		}

		date, err := time.Parse(schema.DateFormat, record[0])
		if err != nil {
			return nil, fmt.Errorf("polls file %s row %d: invalid date %q: %w", s.Path, rowNum+1, record[0], err)
		}
		date = schema.Day(date)

		sample := 0
		if record[2] != "" {
			sample, err = strconv.Atoi(record[2])
			if err != nil {
				return nil, fmt.Errorf("polls file %s row %d: invalid sample size %q: %w", s.Path, rowNum+1, record[2], err)
			}
		}

		for i, candidate := range candidates {
			obs := schema.Observation{
				Date:      date,
				Candidate: candidate,
				Pollster:  record[1],
				Sample:    sample,
			}
			cell := strings.TrimSpace(record[3+i])
			if cell == "" {
				obs.Missing = true
			} else {
				value, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("polls file %s row %d: invalid value %q for %s: %w", s.Path, rowNum+1, cell, candidate, err)
				}
				obs.Value = value
			}
			observations = append(observations, obs)
		}
	}

	return &schema.PollsResult{
		Candidates:   candidates,
		Observations: observations,
	}, nil
}
