// Package scan orchestrates the full pipeline: universe selection,
// provider fan-out, merging, scoring, catalyst enrichment, filtering, and
// ranking. One Run call is one scan; no state is shared across scans.
package scan

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/cache"
	"github.com/vinchivii/detonation-scanner/internal/merge"
	"github.com/vinchivii/detonation-scanner/internal/metrics"
	"github.com/vinchivii/detonation-scanner/internal/models"
	"github.com/vinchivii/detonation-scanner/internal/providers"
	"github.com/vinchivii/detonation-scanner/internal/universe"
)

// ErrNoQuoteProviders is returned when a scan is requested with no price
// source registered at all. This is the only pipeline-fatal condition;
// every other gap degrades to absent data.
var ErrNoQuoteProviders = errors.New("no quote providers configured")

// DefaultMoversLimit bounds how many top movers get a news lookup. News is
// the most rate-limited category, so this is a cost-control policy, not an
// optimization knob.
const DefaultMoversLimit = 10

// Options tunes a pipeline.
type Options struct {
	MoversLimit int
	QuoteCache  *cache.QuoteCache
	Metrics     *metrics.Registry
}

// Pipeline wires the selector and provider registry into the scan flow.
type Pipeline struct {
	selector    *universe.Selector
	registry    *providers.Registry
	moversLimit int
	quoteCache  *cache.QuoteCache
	metrics     *metrics.Registry
}

// NewPipeline builds a pipeline. Cache and metrics are optional; a zero
// MoversLimit selects the default.
func NewPipeline(selector *universe.Selector, registry *providers.Registry, opts Options) *Pipeline {
	limit := opts.MoversLimit
	if limit <= 0 {
		limit = DefaultMoversLimit
	}
	return &Pipeline{
		selector:    selector,
		registry:    registry,
		moversLimit: limit,
		quoteCache:  opts.QuoteCache,
		metrics:     opts.Metrics,
	}
}

// Run executes one scan. Stages run strictly in sequence; provider calls
// within a stage fan out in parallel. An empty universe or zero usable
// quotes yields an empty result, not an error.
func (p *Pipeline) Run(ctx context.Context, req models.ScanRequest) ([]models.ScanResult, models.ScanSummary, error) {
	started := time.Now()
	summary := models.ScanSummary{
		ScanID:           uuid.NewString(),
		Mode:             req.Mode,
		ProviderFailures: make(map[string]int),
		StartedAt:        started,
	}

	req.Filters = req.Filters.Normalize()

	if len(p.registry.QuoteProviders()) == 0 {
		return nil, summary, ErrNoQuoteProviders
	}

	univ := p.selector.Select(req.Filters, req.Mode)
	summary.UniverseSize = len(univ)
	if len(univ) == 0 {
		log.Info().Str("scan_id", summary.ScanID).Msg("Universe empty after filtering")
		summary.Duration = time.Since(started)
		return []models.ScanResult{}, summary, nil
	}

	tickers := make([]string, len(univ))
	for i, meta := range univ {
		tickers[i] = meta.Symbol
	}

	log.Info().
		Str("scan_id", summary.ScanID).
		Str("mode", string(req.Mode)).
		Int("candidates", len(tickers)).
		Msg("Starting scan")

	mergedQuotes := p.fetchQuotes(ctx, tickers, req, &summary)
	summary.QuotesMerged = len(mergedQuotes)
	if len(mergedQuotes) == 0 {
		log.Warn().Str("scan_id", summary.ScanID).Msg("No usable quotes across universe")
		summary.Duration = time.Since(started)
		return []models.ScanResult{}, summary, nil
	}

	mergedFundamentals := p.fetchFundamentals(ctx, tickers, req, &summary)

	movers := topMovers(mergedQuotes, p.moversLimit)
	summary.Movers = movers

	newsByTicker := map[string][]models.RawNewsItem{}
	if len(movers) > 0 {
		newsByTicker = p.fetchNews(ctx, movers, req, &summary)
	}

	results := Assemble(univ, mergedQuotes, mergedFundamentals, newsByTicker, req.Filters, req.Mode)

	summary.Results = len(results)
	summary.Duration = time.Since(started)
	p.metrics.ObserveScan(summary.Duration, len(results))

	log.Info().
		Str("scan_id", summary.ScanID).
		Int("quotes_merged", summary.QuotesMerged).
		Int("movers", len(movers)).
		Int("results", len(results)).
		Dur("duration", summary.Duration).
		Msg("Scan completed")

	return results, summary, nil
}

// fetchQuotes fans out quote providers, consults the cache first, and
// merges per ticker. Only tickers with a merged quote appear in the map.
func (p *Pipeline) fetchQuotes(ctx context.Context, tickers []string, req models.ScanRequest, summary *models.ScanSummary) map[string]*models.RawQuote {
	merged := make(map[string]*models.RawQuote, len(tickers))

	remaining := tickers
	if p.quoteCache != nil {
		remaining = make([]string, 0, len(tickers))
		for _, ticker := range tickers {
			if quote, ok := p.quoteCache.Get(ctx, ticker); ok {
				p.metrics.RecordCache(true)
				merged[ticker] = quote
				continue
			}
			p.metrics.RecordCache(false)
			remaining = append(remaining, ticker)
		}
	}
	if len(remaining) == 0 {
		return merged
	}

	raw := fanOut(p.registry.QuoteProviders(), "quotes", summary, p.metrics,
		func(prov providers.QuoteProvider) ([]models.RawQuote, error) {
			return prov.FetchQuotes(ctx, remaining, req)
		})

	byTicker := make(map[string][]models.RawQuote, len(remaining))
	for _, q := range raw {
		byTicker[q.Ticker] = append(byTicker[q.Ticker], q)
	}

	for ticker, quotes := range byTicker {
		if m := merge.Quotes(quotes); m != nil {
			merged[ticker] = m
			if p.quoteCache != nil && m.Complete() {
				p.quoteCache.Set(ctx, *m)
			}
		}
	}
	return merged
}

// fetchFundamentals fans out fundamentals providers and merges per ticker.
func (p *Pipeline) fetchFundamentals(ctx context.Context, tickers []string, req models.ScanRequest, summary *models.ScanSummary) map[string]*models.FundamentalSnapshot {
	raw := fanOut(p.registry.FundamentalsProviders(), "fundamentals", summary, p.metrics,
		func(prov providers.FundamentalsProvider) ([]models.FundamentalSnapshot, error) {
			return prov.FetchFundamentals(ctx, tickers, req)
		})

	byTicker := make(map[string][]models.FundamentalSnapshot, len(tickers))
	for _, s := range raw {
		byTicker[s.Ticker] = append(byTicker[s.Ticker], s)
	}

	merged := make(map[string]*models.FundamentalSnapshot, len(byTicker))
	for ticker, snaps := range byTicker {
		if m := merge.Fundamentals(snaps); m != nil {
			merged[ticker] = m
		}
	}
	return merged
}

// fetchNews fans out news providers for the movers and groups by ticker.
func (p *Pipeline) fetchNews(ctx context.Context, movers []string, req models.ScanRequest, summary *models.ScanSummary) map[string][]models.RawNewsItem {
	raw := fanOut(p.registry.NewsProviders(), "news", summary, p.metrics,
		func(prov providers.NewsProvider) ([]models.RawNewsItem, error) {
			return prov.FetchNews(ctx, movers, req)
		})

	byTicker := make(map[string][]models.RawNewsItem, len(movers))
	for _, item := range raw {
		byTicker[item.Ticker] = append(byTicker[item.Ticker], item)
	}
	return byTicker
}

// named is the minimal provider surface fanOut needs.
type named interface {
	Name() string
}

// fanOut launches one goroutine per provider and joins all of them. A
// provider that errors contributes zero records and a failure count;
// nothing a single provider does can fail the stage.
func fanOut[P named, T any](
	provs []P,
	category string,
	summary *models.ScanSummary,
	reg *metrics.Registry,
	fetch func(P) ([]T, error),
) []T {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []T
	)

	for _, prov := range provs {
		wg.Add(1)
		go func(prov P) {
			defer wg.Done()

			records, err := fetch(prov)
			reg.RecordProviderCall(prov.Name(), category, err != nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.ProviderFailures[prov.Name()+"/"+category]++
				log.Warn().
					Err(err).
					Str("provider", prov.Name()).
					Str("category", category).
					Msg("Provider call degraded to empty result")
				return
			}
			results = append(results, records...)
		}(prov)
	}
	wg.Wait()

	return results
}

// topMovers ranks merged quotes by absolute change percent and returns up
// to limit tickers. Quotes that cannot produce a change are ignored.
func topMovers(quotes map[string]*models.RawQuote, limit int) []string {
	type mover struct {
		ticker    string
		absChange float64
	}

	movers := make([]mover, 0, len(quotes))
	for ticker, q := range quotes {
		if q == nil || !q.Complete() || *q.PrevClose == 0 {
			continue
		}
		change := (*q.Price - *q.PrevClose) / *q.PrevClose * 100
		movers = append(movers, mover{ticker: ticker, absChange: math.Abs(change)})
	}

	sort.Slice(movers, func(i, j int) bool {
		if movers[i].absChange != movers[j].absChange {
			return movers[i].absChange > movers[j].absChange
		}
		return movers[i].ticker < movers[j].ticker
	})

	if len(movers) > limit {
		movers = movers[:limit]
	}
	out := make([]string, len(movers))
	for i, m := range movers {
		out[i] = m.ticker
	}
	return out
}
