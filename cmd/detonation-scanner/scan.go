package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinchivii/detonation-scanner/internal/config"
	"github.com/vinchivii/detonation-scanner/internal/export"
	"github.com/vinchivii/detonation-scanner/internal/models"
)

func scanCmd(cfg *config.Config) *cobra.Command {
	var (
		mode      string
		marketCap string
		sectors   []string
		minPrice  float64
		maxPrice  float64
		minVolume int64
		csvOut    bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the ranked results",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildScanner(cfg, nil)
			if err != nil {
				return err
			}

			filters := models.ScanFilters{
				MarketCap: models.CapBucket(marketCap),
				Sectors:   sectors,
			}
			if cmd.Flags().Changed("min-price") {
				filters.MinPrice = models.Float64(minPrice)
			}
			if cmd.Flags().Changed("max-price") {
				filters.MaxPrice = models.Float64(maxPrice)
			}
			if cmd.Flags().Changed("min-volume") {
				filters.MinVolume = models.Int64(minVolume)
			}

			req := models.ScanRequest{Mode: models.ScanMode(mode), Filters: filters}
			results, summary, err := s.pipeline.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			if csvOut {
				return export.WriteCSV(os.Stdout, results)
			}

			printResults(results, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "scan mode: momentum|squeeze|catalyst")
	cmd.Flags().StringVar(&marketCap, "market-cap", "any", "cap bucket: any|micro|small|mid|large")
	cmd.Flags().StringSliceVar(&sectors, "sectors", nil, "sector allowlist (empty = all)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().Int64Var(&minVolume, "min-volume", 0, "minimum volume")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "write CSV to stdout instead of a table")
	cmd.Flags().IntVar(&limit, "limit", 0, "max rows to print (0 = all)")
	return cmd
}

func printResults(results []models.ScanResult, summary models.ScanSummary) {
	if len(results) == 0 {
		fmt.Println("No candidates matched. Try widening your filters.")
		return
	}

	fmt.Printf("%-6s %-8s %8s %8s %12s %5s %4s %-7s %s\n",
		"TICKER", "EP", "PRICE", "CHG%", "VOLUME", "GRADE", "RISK", "BIAS", "CATALYSTS")
	for _, r := range results {
		fmt.Printf("%-6s %-8d %8.2f %+7.2f%% %12d %5s %4s %-7s %s\n",
			r.Ticker, r.ExplosivePotential, r.Price, r.ChangePercent, r.Volume,
			r.MomentumGrade, r.RiskLevel, r.Sentiment, strings.Join(r.Tags, ", "))
	}
	fmt.Printf("\n%d results from %d candidates in %s (scan %s)\n",
		summary.Results, summary.UniverseSize, summary.Duration.Round(time.Millisecond), summary.ScanID)
}
