package providers

import (
	"context"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// YahooProvider serves quotes and fundamentals from Yahoo Finance via the
// finance-go client. No credentials required, so it is always registered
// and acts as the fallback price source.
type YahooProvider struct{}

// NewYahooProvider builds a Yahoo Finance adapter.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// FetchQuotes streams a batch quote request. Tickers missing from the
// response are simply absent from the result.
func (p *YahooProvider) FetchQuotes(ctx context.Context, tickers []string, _ models.ScanRequest) ([]models.RawQuote, error) {
	quotes := make([]models.RawQuote, 0, len(tickers))

	iter := quote.List(tickers)
	for iter.Next() {
		if ctx.Err() != nil {
			return quotes, ctx.Err()
		}
		q := iter.Quote()
		if q == nil {
			continue
		}
		quotes = append(quotes, fromYahooQuote(q))
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Int("fetched", len(quotes)).Msg("Yahoo quote batch ended with error")
		if len(quotes) == 0 {
			return nil, err
		}
	}
	return quotes, nil
}

// FetchFundamentals derives fundamentals from the same quote payload;
// Yahoo folds market cap and share counts into its quote response.
func (p *YahooProvider) FetchFundamentals(ctx context.Context, tickers []string, _ models.ScanRequest) ([]models.FundamentalSnapshot, error) {
	snaps := make([]models.FundamentalSnapshot, 0, len(tickers))

	iter := equity.List(tickers)
	for iter.Next() {
		if ctx.Err() != nil {
			return snaps, ctx.Err()
		}
		q := iter.Equity()
		if q == nil {
			continue
		}

		snap := models.FundamentalSnapshot{Ticker: q.Symbol}
		if q.MarketCap > 0 {
			snap.MarketCap = models.Float64(float64(q.MarketCap))
		}
		if q.SharesOutstanding > 0 {
			snap.Float = models.Float64(float64(q.SharesOutstanding))
		}
		if snap.MarketCap == nil && snap.Float == nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Int("fetched", len(snaps)).Msg("Yahoo fundamentals batch ended with error")
		if len(snaps) == 0 {
			return nil, err
		}
	}
	return snaps, nil
}

// fromYahooQuote converts a finance-go quote into the internal shape.
func fromYahooQuote(q *finance.Quote) models.RawQuote {
	out := models.RawQuote{Source: "yahoo", Ticker: q.Symbol}
	if q.RegularMarketPrice != 0 {
		out.Price = models.Float64(q.RegularMarketPrice)
	}
	if q.RegularMarketPreviousClose != 0 {
		out.PrevClose = models.Float64(q.RegularMarketPreviousClose)
	}
	if q.RegularMarketVolume != 0 {
		out.Volume = models.Int64(int64(q.RegularMarketVolume))
	}
	if q.RegularMarketTime != 0 {
		out.Timestamp = models.Int64(int64(q.RegularMarketTime))
	}
	return out
}

var (
	_ QuoteProvider        = (*YahooProvider)(nil)
	_ FundamentalsProvider = (*YahooProvider)(nil)
)
