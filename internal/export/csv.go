// Package export serializes scan results into delimited text. It consumes
// finished ScanResult slices only; the pipeline has no dependency on it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

var csvHeader = []string{
	"ticker", "company", "sector", "price", "change_pct", "volume",
	"market_cap", "float", "momentum_grade", "sentiment", "risk",
	"explosive_potential", "tags", "catalyst_summary",
}

// WriteCSV streams results as CSV with a header row.
func WriteCSV(w io.Writer, results []models.ScanResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Ticker,
			r.CompanyName,
			r.Sector,
			fmt.Sprintf("%.2f", r.Price),
			fmt.Sprintf("%.2f", r.ChangePercent),
			fmt.Sprintf("%d", r.Volume),
			fmt.Sprintf("%.0f", r.MarketCap),
			fmt.Sprintf("%.0f", r.Float),
			string(r.MomentumGrade),
			string(r.Sentiment),
			string(r.RiskLevel),
			fmt.Sprintf("%d", r.ExplosivePotential),
			strings.Join(r.Tags, "|"),
			r.CatalystSummary,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
