package outwriter

import (
	"encoding/csv"
	"strconv"

	"github.com/polltrend/polltrend/schema"
)

// writeCSVResultsForPolls writes the raw polls to a CSV writer. The layout is
// date,pollster,n followed by one column per candidate; missing cells stay
// empty. This is the same layout the CSV poll source reads back.
func writeCSVResultsForPolls(w *csv.Writer, result *schema.PollsResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := make([]string, 0, len(result.Candidates)+3)
	header = append(header, "date", "pollster", "n")
	header = append(header, result.Candidates...)
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, r := range groupPollRows(result) {
		row := make([]string, 0, len(result.Candidates)+3)
		row = append(row, r.Date.Format(schema.DateFormat), r.Pollster, strconv.Itoa(r.Sample))
		for _, candidate := range result.Candidates {
			value, ok := r.Cells[candidate]
			if !ok || value == nil {
				row = append(row, "")
			} else {
				row = append(row, fmtFloat(*value))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
