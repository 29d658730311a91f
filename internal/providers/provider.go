// Package providers defines the vendor-adapter boundary of the scan
// pipeline. Each data category is a capability interface; concrete vendors
// register behind it and the pipeline fans out over the registered set
// without ever switching on vendor identity.
//
// Adapters follow a soft-failure contract: per-ticker problems are
// absorbed and the adapter returns whatever it successfully obtained. An
// error return marks a category-wide failure for that provider and is
// degraded to an empty result by the caller, never propagated.
package providers

import (
	"context"
	"errors"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// ErrNotConfigured marks a provider whose required configuration (such as
// an API key) is absent. Callers treat it as a soft failure unless no
// quote provider is configured at all.
var ErrNotConfigured = errors.New("provider not configured")

// QuoteProvider fetches price snapshots for a set of tickers.
type QuoteProvider interface {
	Name() string
	FetchQuotes(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.RawQuote, error)
}

// NewsProvider fetches recent news for a set of tickers.
type NewsProvider interface {
	Name() string
	FetchNews(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.RawNewsItem, error)
}

// FundamentalsProvider fetches fundamental snapshots for a set of tickers.
type FundamentalsProvider interface {
	Name() string
	FetchFundamentals(ctx context.Context, tickers []string, req models.ScanRequest) ([]models.FundamentalSnapshot, error)
}

// Registry holds the ordered provider lists per category. Order is the
// registration order; the pipeline fans out over every entry.
type Registry struct {
	quotes       []QuoteProvider
	news         []NewsProvider
	fundamentals []FundamentalsProvider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterQuotes appends a quote provider.
func (r *Registry) RegisterQuotes(p QuoteProvider) {
	r.quotes = append(r.quotes, p)
}

// RegisterNews appends a news provider.
func (r *Registry) RegisterNews(p NewsProvider) {
	r.news = append(r.news, p)
}

// RegisterFundamentals appends a fundamentals provider.
func (r *Registry) RegisterFundamentals(p FundamentalsProvider) {
	r.fundamentals = append(r.fundamentals, p)
}

// QuoteProviders returns the registered quote providers in order.
func (r *Registry) QuoteProviders() []QuoteProvider { return r.quotes }

// NewsProviders returns the registered news providers in order.
func (r *Registry) NewsProviders() []NewsProvider { return r.news }

// FundamentalsProviders returns the registered fundamentals providers in order.
func (r *Registry) FundamentalsProviders() []FundamentalsProvider { return r.fundamentals }
