package main

import (
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/cache"
	"github.com/vinchivii/detonation-scanner/internal/config"
	"github.com/vinchivii/detonation-scanner/internal/metrics"
	"github.com/vinchivii/detonation-scanner/internal/providers"
	"github.com/vinchivii/detonation-scanner/internal/scan"
	"github.com/vinchivii/detonation-scanner/internal/universe"
)

// scanner bundles the wired pipeline with what the surfaces need from it.
type scanner struct {
	pipeline *scan.Pipeline
	guards   map[string]*providers.Guard
}

// guardStates snapshots breaker states for health reporting.
func (s *scanner) guardStates() map[string]string {
	states := make(map[string]string, len(s.guards))
	for name, guard := range s.guards {
		states[name] = guard.State()
	}
	return states
}

// buildScanner wires providers, cache, and metrics per the configuration.
// The mock/live choice is this explicit config value; nothing downstream
// inspects the environment again.
func buildScanner(cfg *config.Config, reg *metrics.Registry) (*scanner, error) {
	registry := providers.NewRegistry()
	guards := make(map[string]*providers.Guard)

	switch cfg.Mode() {
	case config.DataModeMock:
		mock := providers.NewMockProvider()
		registry.RegisterQuotes(mock)
		registry.RegisterNews(mock)
		registry.RegisterFundamentals(mock)
		log.Info().Msg("Using mock market data")

	case config.DataModeLive:
		guardCfg := providers.DefaultGuardConfig()

		if finnhub, err := providers.NewFinnhubProvider(cfg.FinnhubAPIKey); err != nil {
			// Missing key keeps the provider unregistered; the scan only
			// fails when no price source remains at all.
			log.Warn().Err(err).Msg("Finnhub disabled")
		} else {
			gq := providers.GuardQuotes(finnhub, guardCfg)
			gn := providers.GuardNews(finnhub, guardCfg)
			gf := providers.GuardFundamentals(finnhub, guardCfg)
			registry.RegisterQuotes(gq)
			registry.RegisterNews(gn)
			registry.RegisterFundamentals(gf)
			guards["finnhub"] = gq.Guard()
		}

		if cfg.YahooEnabled {
			yahoo := providers.NewYahooProvider()
			gq := providers.GuardQuotes(yahoo, guardCfg)
			gf := providers.GuardFundamentals(yahoo, guardCfg)
			registry.RegisterQuotes(gq)
			registry.RegisterFundamentals(gf)
			guards["yahoo"] = gq.Guard()
		}
	}

	registryTickers := universe.DefaultRegistry()
	if cfg.UniverseFile != "" {
		loaded, err := universe.LoadRegistry(cfg.UniverseFile)
		if err != nil {
			return nil, err
		}
		registryTickers = loaded
		log.Info().Str("file", cfg.UniverseFile).Int("tickers", len(loaded)).Msg("Loaded universe override")
	}

	var quoteCache *cache.QuoteCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		quoteCache = cache.NewQuoteCache(client, cache.DefaultTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Quote cache enabled")
	}

	pipeline := scan.NewPipeline(universe.NewSelector(registryTickers), registry, scan.Options{
		MoversLimit: cfg.MoversLimit,
		QuoteCache:  quoteCache,
		Metrics:     reg,
	})

	return &scanner{pipeline: pipeline, guards: guards}, nil
}
