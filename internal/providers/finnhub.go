package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider serves quotes, news, and fundamentals from the Finnhub
// REST API. One instance backs all three capabilities.
type FinnhubProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFinnhubProvider builds a Finnhub adapter. Returns ErrNotConfigured
// when the API key is empty; the caller decides whether that is fatal.
func NewFinnhubProvider(apiKey string) (*FinnhubProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}
	return &FinnhubProvider{
		apiKey:  apiKey,
		baseURL: finnhubBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

// finnhubQuote is the wire shape of GET /quote. Unknown tickers come back
// as all-zero bodies; those are dropped rather than decoded into fake data.
type finnhubQuote struct {
	Current   float64 `json:"c"`
	PrevClose float64 `json:"pc"`
	Timestamp int64   `json:"t"`
}

// FetchQuotes fetches per-ticker quotes. Tickers that fail or decode to an
// empty body are skipped; the call only errors when nothing was attempted
// successfully and the context is dead.
func (p *FinnhubProvider) FetchQuotes(ctx context.Context, tickers []string, _ models.ScanRequest) ([]models.RawQuote, error) {
	quotes := make([]models.RawQuote, 0, len(tickers))
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return quotes, ctx.Err()
		}

		var wire finnhubQuote
		if err := p.getJSON(ctx, "/quote", url.Values{"symbol": {ticker}}, &wire); err != nil {
			log.Debug().Err(err).Str("ticker", ticker).Msg("Finnhub quote fetch failed")
			continue
		}
		if wire.Current == 0 && wire.PrevClose == 0 {
			// All-zero body: ticker unknown to the vendor.
			continue
		}

		q := models.RawQuote{Source: p.Name(), Ticker: ticker}
		if wire.Current != 0 {
			q.Price = models.Float64(wire.Current)
		}
		if wire.PrevClose != 0 {
			q.PrevClose = models.Float64(wire.PrevClose)
		}
		if wire.Timestamp != 0 {
			q.Timestamp = models.Int64(wire.Timestamp)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// finnhubNews is the wire shape of GET /company-news entries.
type finnhubNews struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

// FetchNews fetches the last week of company news per ticker.
func (p *FinnhubProvider) FetchNews(ctx context.Context, tickers []string, _ models.ScanRequest) ([]models.RawNewsItem, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7).Format("2006-01-02")
	to := now.Format("2006-01-02")

	items := make([]models.RawNewsItem, 0, len(tickers)*4)
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return items, ctx.Err()
		}

		var wire []finnhubNews
		params := url.Values{"symbol": {ticker}, "from": {from}, "to": {to}}
		if err := p.getJSON(ctx, "/company-news", params, &wire); err != nil {
			log.Debug().Err(err).Str("ticker", ticker).Msg("Finnhub news fetch failed")
			continue
		}

		for _, n := range wire {
			if n.Headline == "" {
				continue
			}
			items = append(items, models.RawNewsItem{
				Source:   p.Name(),
				Ticker:   ticker,
				Headline: n.Headline,
				Summary:  n.Summary,
				URL:      n.URL,
				Datetime: time.Unix(n.Datetime, 0).UTC().Format(time.RFC3339),
				Category: n.Category,
			})
		}
	}
	return items, nil
}

// finnhubProfile is the wire shape of GET /stock/profile2. Market cap and
// shares outstanding arrive in millions.
type finnhubProfile struct {
	MarketCapitalization float64 `json:"marketCapitalization"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Industry             string  `json:"finnhubIndustry"`
}

// FetchFundamentals fetches per-ticker company profiles.
func (p *FinnhubProvider) FetchFundamentals(ctx context.Context, tickers []string, _ models.ScanRequest) ([]models.FundamentalSnapshot, error) {
	snaps := make([]models.FundamentalSnapshot, 0, len(tickers))
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return snaps, ctx.Err()
		}

		var wire finnhubProfile
		if err := p.getJSON(ctx, "/stock/profile2", url.Values{"symbol": {ticker}}, &wire); err != nil {
			log.Debug().Err(err).Str("ticker", ticker).Msg("Finnhub profile fetch failed")
			continue
		}

		snap := models.FundamentalSnapshot{Ticker: ticker}
		if wire.MarketCapitalization > 0 {
			snap.MarketCap = models.Float64(wire.MarketCapitalization * 1_000_000)
		}
		if wire.ShareOutstanding > 0 {
			snap.Float = models.Float64(wire.ShareOutstanding * 1_000_000)
		}
		if wire.Industry != "" {
			snap.Sector = models.String(wire.Industry)
		}
		if snap.MarketCap == nil && snap.Float == nil && snap.Sector == nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// getJSON performs a GET against the vendor and decodes the body into out.
// Any transport, status, or decode problem is an error; callers treat it as
// a soft failure for that ticker.
func (p *FinnhubProvider) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("token", p.apiKey)
	endpoint := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed vendor payload: %w", err)
	}
	return nil
}

var (
	_ QuoteProvider        = (*FinnhubProvider)(nil)
	_ NewsProvider         = (*FinnhubProvider)(nil)
	_ FundamentalsProvider = (*FinnhubProvider)(nil)
)
