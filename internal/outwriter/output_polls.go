package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/schema"
)

// pollRow is one source table row regrouped from the flat observation list.
type pollRow struct {
	Date     time.Time
	Pollster string
	Sample   int
	Cells    map[string]*float64 // nil pointer means the cell was missing
}

// groupPollRows regroups the flat observation list into source rows. The
// normalizer emits observations row by row, so consecutive observations with
// the same (date, pollster, sample) key belong to one poll until a candidate
// repeats.
func groupPollRows(result *schema.PollsResult) []pollRow {
	var rows []pollRow
	var current *pollRow

	for _, obs := range result.Observations {
		sameRow := current != nil &&
			current.Date.Equal(obs.Date) &&
			current.Pollster == obs.Pollster &&
			current.Sample == obs.Sample
		if sameRow {
			if _, seen := current.Cells[obs.Candidate]; seen {
				sameRow = false
			}
		}
		if !sameRow {
			rows = append(rows, pollRow{
				Date:     obs.Date,
				Pollster: obs.Pollster,
				Sample:   obs.Sample,
				Cells:    make(map[string]*float64, len(result.Candidates)),
			})
			current = &rows[len(rows)-1]
		}
		if obs.Missing {
			current.Cells[obs.Candidate] = nil
		} else {
			value := obs.Value
			current.Cells[obs.Candidate] = &value
		}
	}

	return rows
}

// PrintPollResults outputs the raw polls, dispatching based on the output format configured.
func PrintPollResults(result *schema.PollsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForPolls(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForPolls(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printPollsTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing polls table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForPolls handles opening the file and calling the JSON writer.
func printJSONResultsForPolls(result *schema.PollsResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON poll results")
}

// printCSVResultsForPolls handles opening the file and calling the CSV writer.
func printCSVResultsForPolls(result *schema.PollsResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForPolls(csvWriter, result, fmtFloat)
	}, "Wrote CSV poll results")
}

// printPollsTable prints the raw polls as a table.
func printPollsTable(result *schema.PollsResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)

	headers := make([]string, 0, len(result.Candidates)+3)
	headers = append(headers, "Date", "Pollster", "Sample")
	maxWidth := GetMaxTableCandidateWidth(cfg, len(result.Candidates))
	for _, candidate := range result.Candidates {
		if len(candidate) > maxWidth {
			candidate = candidate[:maxWidth]
		}
		headers = append(headers, candidate)
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := groupPollRows(result)
	var data [][]string
	for _, r := range rows {
		row := make([]string, 0, len(result.Candidates)+3)
		row = append(row, r.Date.Format(schema.DateFormat), r.Pollster, strconv.Itoa(r.Sample))
		for _, candidate := range result.Candidates {
			value, ok := r.Cells[candidate]
			if !ok || value == nil {
				row = append(row, contract.ColorNullCell(cfg.UseColors))
			} else {
				row = append(row, fmtFloat(*value))
			}
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Retrieved %d polls for %d candidates in %v. Cache backend: %s\n",
		len(rows), len(result.Candidates), duration, cfg.CacheBackend)
	return nil
}

// PrintCandidateList outputs the known candidates, one per line or as JSON.
func PrintCandidateList(result *schema.PollsResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Candidates)
		}, "Wrote candidate list")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		for _, candidate := range result.Candidates {
			if _, err := fmt.Fprintln(w, candidate); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote candidate list")
}
