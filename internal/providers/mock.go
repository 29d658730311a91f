package providers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// MockProvider generates deterministic market data for mock mode and
// tests. Each ticker seeds its own RNG from the symbol bytes, so repeated
// scans of the same universe produce identical numbers.
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider builds the mock adapter.
func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

func (p *MockProvider) Name() string { return "mock" }

func symbolRNG(symbol string) *rand.Rand {
	seed := int64(0)
	for _, ch := range symbol {
		seed = seed*31 + int64(ch)
	}
	return rand.New(rand.NewSource(seed))
}

// FetchQuotes returns one synthetic complete quote per ticker.
func (p *MockProvider) FetchQuotes(_ context.Context, tickers []string, _ models.ScanRequest) ([]models.RawQuote, error) {
	now := p.now().Unix()

	quotes := make([]models.RawQuote, 0, len(tickers))
	for _, ticker := range tickers {
		rng := symbolRNG(ticker)

		prevClose := 2 + rng.Float64()*148                 // $2-$150
		change := (rng.Float64() - 0.35) * 0.4             // -14%..+26%, skewed long
		price := prevClose * (1 + change)
		volume := int64(200_000 + rng.Intn(19_800_000))

		quotes = append(quotes, models.RawQuote{
			Source:    p.Name(),
			Ticker:    ticker,
			Price:     models.Float64(price),
			PrevClose: models.Float64(prevClose),
			Volume:    models.Int64(volume),
			Timestamp: models.Int64(now),
		})
	}
	return quotes, nil
}

var mockHeadlines = []string{
	"%s beats earnings expectations for the quarter",
	"%s announces new supply contract",
	"Analyst upgrade lifts %s ahead of guidance update",
	"%s explores merger options with strategic partner",
	"%s phase 2 trial data due next month",
	"%s schedules product announcement",
}

// FetchNews returns one to three synthetic items per ticker.
func (p *MockProvider) FetchNews(_ context.Context, tickers []string, _ models.ScanRequest) ([]models.RawNewsItem, error) {
	now := p.now().UTC()

	items := make([]models.RawNewsItem, 0, len(tickers)*2)
	for _, ticker := range tickers {
		rng := symbolRNG(ticker)
		count := 1 + rng.Intn(3)
		for i := 0; i < count; i++ {
			headline := fmt.Sprintf(mockHeadlines[rng.Intn(len(mockHeadlines))], ticker)
			published := now.Add(-time.Duration(rng.Intn(72)) * time.Hour)
			items = append(items, models.RawNewsItem{
				Source:   p.Name(),
				Ticker:   ticker,
				Headline: headline,
				Summary:  "Simulated coverage for " + ticker,
				URL:      fmt.Sprintf("https://news.example.com/%s/%d", ticker, i),
				Datetime: published.Format(time.RFC3339),
			})
		}
	}
	return items, nil
}

// FetchFundamentals returns synthetic cap/float/sector data per ticker.
func (p *MockProvider) FetchFundamentals(_ context.Context, tickers []string, _ models.ScanRequest) ([]models.FundamentalSnapshot, error) {
	sectors := []string{"Technology", "Healthcare", "Industrials", "Financial Services", "Consumer Cyclical"}

	snaps := make([]models.FundamentalSnapshot, 0, len(tickers))
	for _, ticker := range tickers {
		rng := symbolRNG(ticker)
		marketCap := 50_000_000 + rng.Float64()*30_000_000_000
		float := marketCap / (5 + rng.Float64()*45)

		snaps = append(snaps, models.FundamentalSnapshot{
			Ticker:    ticker,
			MarketCap: models.Float64(marketCap),
			Float:     models.Float64(float),
			Sector:    models.String(sectors[rng.Intn(len(sectors))]),
		})
	}
	return snaps, nil
}

var (
	_ QuoteProvider        = (*MockProvider)(nil)
	_ NewsProvider         = (*MockProvider)(nil)
	_ FundamentalsProvider = (*MockProvider)(nil)
)
