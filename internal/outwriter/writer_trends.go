package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/polltrend/polltrend/schema"
)

// writeJSONResultsForTrends marshals the schema.TrendResult to JSON and writes it.
func writeJSONResultsForTrends(w io.Writer, result *schema.TrendResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForTrends writes the schema.TrendResult data to a CSV writer.
// The layout mirrors the trends file consumers expect: one row per evaluation
// date with one column per candidate. Null cells stay empty.
func writeCSVResultsForTrends(w *csv.Writer, result *schema.TrendResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := make([]string, 0, len(result.Candidates)+1)
	header = append(header, "date")
	header = append(header, result.Candidates...)
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, r := range result.Rows {
		row := make([]string, 0, len(result.Candidates)+1)
		row = append(row, r.Date.Format(schema.DateFormat))
		for _, candidate := range result.Candidates {
			cell := r.Cells[candidate]
			if cell.Valid {
				row = append(row, fmtFloat(cell.Value))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
