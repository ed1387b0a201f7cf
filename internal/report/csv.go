package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Date", "Description", "Category", "Amount"}

// WriteCSV writes a header, one row per expense and a trailing total row.
// Dates and categories are written raw; fields containing commas, quotes or
// newlines are quoted.
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range rep.Rows {
		rec := []string{e.Date.String(), e.Description, e.Category.String(), e.Amount.String()}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	if err := cw.Write([]string{"", "", "Total", rep.Total.String()}); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
