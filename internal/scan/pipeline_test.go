package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinchivii/detonation-scanner/internal/models"
	"github.com/vinchivii/detonation-scanner/internal/providers"
	"github.com/vinchivii/detonation-scanner/internal/universe"
)

// stubQuotes serves a fixed quote map for whatever tickers are requested.
type stubQuotes struct {
	name   string
	quotes map[string]models.RawQuote
	err    error
}

func (s *stubQuotes) Name() string { return s.name }

func (s *stubQuotes) FetchQuotes(_ context.Context, tickers []string, _ models.ScanRequest) ([]models.RawQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.RawQuote, 0, len(tickers))
	for _, t := range tickers {
		if q, ok := s.quotes[t]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// stubNews records which tickers it was asked for.
type stubNews struct {
	name      string
	items     map[string][]models.RawNewsItem
	requested []string
}

func (s *stubNews) Name() string { return s.name }

func (s *stubNews) FetchNews(_ context.Context, tickers []string, _ models.ScanRequest) ([]models.RawNewsItem, error) {
	s.requested = append([]string{}, tickers...)
	var out []models.RawNewsItem
	for _, t := range tickers {
		out = append(out, s.items[t]...)
	}
	return out, nil
}

func testRegistry() []models.TickerMeta {
	return []models.TickerMeta{
		{Symbol: "AAA", CompanyName: "Alpha Corp", Sector: "Technology", CapBucket: models.CapSmall},
		{Symbol: "BBB", CompanyName: "Beta Bio", Sector: "Healthcare", CapBucket: models.CapMicro},
		{Symbol: "CCC", CompanyName: "Gamma Tech", Sector: "Technology", CapBucket: models.CapLarge},
	}
}

func TestPipeline_NoQuoteProvidersIsFatal(t *testing.T) {
	p := NewPipeline(universe.NewSelector(testRegistry()), providers.NewRegistry(), Options{})

	_, _, err := p.Run(context.Background(), models.ScanRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoQuoteProviders))
}

func TestPipeline_EmptyUniverseIsNotAnError(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterQuotes(&stubQuotes{name: "stub"})
	p := NewPipeline(universe.NewSelector(testRegistry()), reg, Options{})

	req := models.ScanRequest{Filters: models.ScanFilters{Sectors: []string{"Utilities"}}}
	results, summary, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, summary.UniverseSize)
}

func TestPipeline_ZeroUsableQuotesIsNotAnError(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterQuotes(&stubQuotes{name: "stub"}) // knows no tickers
	p := NewPipeline(universe.NewSelector(testRegistry()), reg, Options{})

	results, summary, err := p.Run(context.Background(), models.ScanRequest{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 3, summary.UniverseSize)
	assert.Equal(t, 0, summary.QuotesMerged)
}

func TestPipeline_EndToEndSectorScenario(t *testing.T) {
	// Quotes exist for A and B only; sector filter keeps Technology.
	// Expected: A survives, B is excluded by sector, C by missing data.
	reg := providers.NewRegistry()
	reg.RegisterQuotes(&stubQuotes{name: "stub", quotes: map[string]models.RawQuote{
		"AAA": {Source: "stub", Ticker: "AAA", Price: models.Float64(10), PrevClose: models.Float64(9), Volume: models.Int64(2_000_000)},
		"BBB": {Source: "stub", Ticker: "BBB", Price: models.Float64(3), PrevClose: models.Float64(2.8), Volume: models.Int64(4_000_000)},
	}})

	p := NewPipeline(universe.NewSelector(testRegistry()), reg, Options{})

	req := models.ScanRequest{Filters: models.ScanFilters{MarketCap: models.CapAny, Sectors: []string{"Technology"}}}
	results, summary, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AAA", results[0].Ticker)
	assert.Equal(t, 2, summary.QuotesMerged)
	assert.Equal(t, 1, summary.Results)
}

func TestPipeline_FailingProviderDegrades(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterQuotes(&stubQuotes{name: "down", err: errors.New("vendor offline")})
	reg.RegisterQuotes(&stubQuotes{name: "up", quotes: map[string]models.RawQuote{
		"AAA": {Source: "up", Ticker: "AAA", Price: models.Float64(10), PrevClose: models.Float64(9)},
	}})

	p := NewPipeline(universe.NewSelector(testRegistry()), reg, Options{})

	results, summary, err := p.Run(context.Background(), models.ScanRequest{})
	require.NoError(t, err, "one failing provider must not fail the scan")
	require.Len(t, results, 1)
	assert.Equal(t, 1, summary.ProviderFailures["down/quotes"])
}

func TestPipeline_NewsScopedToMovers(t *testing.T) {
	quotes := map[string]models.RawQuote{
		"AAA": {Source: "stub", Ticker: "AAA", Price: models.Float64(11.8), PrevClose: models.Float64(10)}, // +18%
		"BBB": {Source: "stub", Ticker: "BBB", Price: models.Float64(3.03), PrevClose: models.Float64(3)},  // +1%
		"CCC": {Source: "stub", Ticker: "CCC", Price: models.Float64(55), PrevClose: models.Float64(50)},   // +10%
	}
	reg := providers.NewRegistry()
	reg.RegisterQuotes(&stubQuotes{name: "stub", quotes: quotes})
	news := &stubNews{name: "newsstub"}
	reg.RegisterNews(news)

	p := NewPipeline(universe.NewSelector(testRegistry()), reg, Options{MoversLimit: 2})

	_, summary, err := p.Run(context.Background(), models.ScanRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "CCC"}, summary.Movers, "movers ranked by |change| and capped")
	assert.Equal(t, []string{"AAA", "CCC"}, news.requested, "news fetch must only cover the movers")
}

func TestPipeline_MockProviderEndToEnd(t *testing.T) {
	reg := providers.NewRegistry()
	mock := providers.NewMockProvider()
	reg.RegisterQuotes(mock)
	reg.RegisterNews(mock)
	reg.RegisterFundamentals(mock)

	p := NewPipeline(universe.NewSelector(nil), reg, Options{})

	results, summary, err := p.Run(context.Background(), models.ScanRequest{Mode: models.ModeSqueeze})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.NotEmpty(t, summary.ScanID)
	assert.LessOrEqual(t, len(summary.Movers), DefaultMoversLimit)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].ExplosivePotential, results[i].ExplosivePotential,
			"results must be ranked descending")
	}
	for _, r := range results {
		assert.Contains(t, r.Tags, "Squeeze Watch")
	}
}
