package providers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// GuardConfig tunes the rate limiter and circuit breaker wrapped around a
// provider.
type GuardConfig struct {
	RPS              float64
	Burst            int
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultGuardConfig returns conservative free-tier defaults.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RPS:              2,
		Burst:            4,
		FailureThreshold: 5,
		OpenTimeout:      60 * time.Second,
	}
}

// Guard applies token-bucket rate limiting and circuit breaking to a
// provider's calls. A tripped breaker or a cancelled limiter wait surfaces
// as an error, which the pipeline degrades to an empty result set.
type Guard struct {
	name    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuard builds a guard for the named provider.
func NewGuard(name string, cfg GuardConfig) *Guard {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Provider breaker state change")
		},
	}
	return &Guard{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// State returns the breaker state for health reporting.
func (g *Guard) State() string {
	return g.breaker.State().String()
}

// do runs fn under the limiter and breaker.
func (g *Guard) do(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.breaker.Execute(fn)
}

// GuardedQuotes wraps a quote provider with a guard.
type GuardedQuotes struct {
	inner QuoteProvider
	guard *Guard
}

// GuardQuotes decorates a quote provider.
func GuardQuotes(p QuoteProvider, cfg GuardConfig) *GuardedQuotes {
	return &GuardedQuotes{inner: p, guard: NewGuard(p.Name(), cfg)}
}

func (g *GuardedQuotes) Name() string { return g.inner.Name() }

// Guard exposes the underlying guard for health reporting.
func (g *GuardedQuotes) Guard() *Guard { return g.guard }

func (g *GuardedQuotes) FetchQuotes(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.RawQuote, error) {
	out, err := g.guard.do(ctx, func() (interface{}, error) {
		return g.inner.FetchQuotes(ctx, tickers, req)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.RawQuote), nil
}

// GuardedNews wraps a news provider with a guard.
type GuardedNews struct {
	inner NewsProvider
	guard *Guard
}

// GuardNews decorates a news provider.
func GuardNews(p NewsProvider, cfg GuardConfig) *GuardedNews {
	return &GuardedNews{inner: p, guard: NewGuard(p.Name(), cfg)}
}

func (g *GuardedNews) Name() string { return g.inner.Name() }

func (g *GuardedNews) Guard() *Guard { return g.guard }

func (g *GuardedNews) FetchNews(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.RawNewsItem, error) {
	out, err := g.guard.do(ctx, func() (interface{}, error) {
		return g.inner.FetchNews(ctx, tickers, req)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.RawNewsItem), nil
}

// GuardedFundamentals wraps a fundamentals provider with a guard.
type GuardedFundamentals struct {
	inner FundamentalsProvider
	guard *Guard
}

// GuardFundamentals decorates a fundamentals provider.
func GuardFundamentals(p FundamentalsProvider, cfg GuardConfig) *GuardedFundamentals {
	return &GuardedFundamentals{inner: p, guard: NewGuard(p.Name(), cfg)}
}

func (g *GuardedFundamentals) Name() string { return g.inner.Name() }

func (g *GuardedFundamentals) Guard() *Guard { return g.guard }

func (g *GuardedFundamentals) FetchFundamentals(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.FundamentalSnapshot, error) {
	out, err := g.guard.do(ctx, func() (interface{}, error) {
		return g.inner.FetchFundamentals(ctx, tickers, req)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.FundamentalSnapshot), nil
}

var (
	_ QuoteProvider        = (*GuardedQuotes)(nil)
	_ NewsProvider         = (*GuardedNews)(nil)
	_ FundamentalsProvider = (*GuardedFundamentals)(nil)
)
