// Package cache provides an optional Redis read-through cache for merged
// quotes. Every failure path degrades to a miss: the scan never depends on
// Redis being up.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// DefaultTTL bounds quote staleness. Quotes are intraday data; a minute is
// already generous.
const DefaultTTL = 60 * time.Second

// QuoteCache stores merged quotes keyed by ticker.
type QuoteCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewQuoteCache wraps a Redis client. A zero ttl selects DefaultTTL.
func NewQuoteCache(client redis.Cmdable, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QuoteCache{client: client, ttl: ttl}
}

func quoteKey(ticker string) string {
	return fmt.Sprintf("detsc:quote:%s", ticker)
}

// Get returns the cached merged quote for a ticker, or (nil, false) on any
// miss, decode failure, or Redis error.
func (c *QuoteCache) Get(ctx context.Context, ticker string) (*models.RawQuote, bool) {
	payload, err := c.client.Get(ctx, quoteKey(ticker)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("Quote cache read failed")
		return nil, false
	}

	var quote models.RawQuote
	if err := json.Unmarshal([]byte(payload), &quote); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("Quote cache entry corrupt")
		return nil, false
	}
	return &quote, true
}

// Set stores a merged quote. Errors are logged and swallowed.
func (c *QuoteCache) Set(ctx context.Context, quote models.RawQuote) {
	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, quoteKey(quote.Ticker), payload, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("ticker", quote.Ticker).Msg("Quote cache write failed")
	}
}
