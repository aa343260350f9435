// Package export renders aggregated usage data into downloadable
// artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mirelio/api-console/internal/models"
)

var csvHeader = []string{"Date", "Requests", "Errors", "Error Rate", "Avg Latency"}

// Filename returns the download name for a window label, e.g.
// "usage-data-7d.csv".
func Filename(label string) string {
	return "usage-data-" + label + ".csv"
}

// WriteCSV renders the usage table rows as CSV. Error rate is formatted
// to two decimals with a percent sign (0.00% for a zero-request day)
// and latency carries a ms suffix.
func WriteCSV(w io.Writer, rows []models.UsageRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		rate := 0.0
		if row.Requests > 0 {
			rate = float64(row.Errors) / float64(row.Requests) * 100
		}
		record := []string{
			row.Date,
			strconv.FormatInt(row.Requests, 10),
			strconv.FormatInt(row.Errors, 10),
			fmt.Sprintf("%.2f%%", rate),
			strconv.FormatInt(row.Latency, 10) + "ms",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
