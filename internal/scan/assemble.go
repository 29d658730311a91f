package scan

import (
	"sort"

	"github.com/vinchivii/detonation-scanner/internal/catalyst"
	"github.com/vinchivii/detonation-scanner/internal/models"
	"github.com/vinchivii/detonation-scanner/internal/score"
)

// Placeholder fundamentals for tickers with no snapshot. The record stays
// filterable instead of carrying an unknown sentinel; see DESIGN.md.
const (
	placeholderMarketCap = 500_000_000
	placeholderFloat     = 50_000_000
)

// modeTags are merged into each result's tag set for the active mode.
var modeTags = map[models.ScanMode][]string{
	models.ModeMomentum: {"Momentum"},
	models.ModeSqueeze:  {"Squeeze Watch"},
	models.ModeCatalyst: {"Catalyst Hunt"},
}

// Assemble joins merged quotes, fundamentals, and news into filtered,
// ranked scan results. Tickers without a usable quote (missing, incomplete,
// or prevClose == 0) are skipped silently. Ranking is descending by
// explosive potential with a stable sort, so ties keep universe order.
func Assemble(
	univ []models.TickerMeta,
	quotes map[string]*models.RawQuote,
	fundamentals map[string]*models.FundamentalSnapshot,
	news map[string][]models.RawNewsItem,
	filters models.ScanFilters,
	mode models.ScanMode,
) []models.ScanResult {
	results := make([]models.ScanResult, 0, len(univ))

	for _, meta := range univ {
		quote := quotes[meta.Symbol]
		if quote == nil || !quote.Complete() || *quote.PrevClose == 0 {
			continue
		}

		price := *quote.Price
		prevClose := *quote.PrevClose
		changePercent := (price - prevClose) / prevClose * 100

		var volume int64
		if quote.Volume != nil {
			volume = *quote.Volume
		}

		marketCap := float64(placeholderMarketCap)
		floatShares := float64(placeholderFloat)
		sector := meta.Sector
		if snap := fundamentals[meta.Symbol]; snap != nil {
			if snap.MarketCap != nil {
				marketCap = *snap.MarketCap
			}
			if snap.Float != nil {
				floatShares = *snap.Float
			}
			if sector == "" && snap.Sector != nil {
				sector = *snap.Sector
			}
		}

		breakdown := score.Breakdown(changePercent, volume, mode)
		extraction := catalyst.Extract(news[meta.Symbol])

		result := models.ScanResult{
			Ticker:             meta.Symbol,
			CompanyName:        meta.CompanyName,
			Sector:             sector,
			Price:              price,
			ChangePercent:      changePercent,
			Volume:             volume,
			MarketCap:          marketCap,
			Float:              floatShares,
			MomentumGrade:      score.Grade(changePercent),
			Sentiment:          score.Sentiment(changePercent),
			RiskLevel:          score.Risk(changePercent, mode),
			ExplosivePotential: score.ExplosivePotential(breakdown, mode),
			ScoreBreakdown:     breakdown,
			CatalystSummary:    extraction.CatalystSummary,
			Tags:               mergeTags(modeTags[mode], extraction.Tags),
		}
		if extraction.Primary != nil {
			result.NewsHeadline = extraction.Primary.Headline
			result.NewsURL = extraction.Primary.URL
			result.NewsDatetime = extraction.Primary.Datetime
		}

		if !passesFilters(result, filters) {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExplosivePotential > results[j].ExplosivePotential
	})
	return results
}

// passesFilters applies the user filters in their conventional order:
// cap bucket, price range, volume, sector. Price bounds are inclusive.
func passesFilters(r models.ScanResult, f models.ScanFilters) bool {
	if f.MarketCap != models.CapAny && models.BucketForMarketCap(r.MarketCap) != f.MarketCap {
		return false
	}
	if f.MinPrice != nil && r.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	if f.MinVolume != nil && r.Volume < *f.MinVolume {
		return false
	}
	if !f.MatchesSector(r.Sector) {
		return false
	}
	return true
}

// mergeTags unions two tag lists, preserving first-seen order.
func mergeTags(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, tag := range list {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
