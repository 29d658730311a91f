package universe

import (
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// MaxCandidates caps the number of tickers a single scan may carry into
// the provider fan-out. This is a hard ceiling protecting vendor rate
// limits, not a sampling size: selection is first-N in registry order.
const MaxCandidates = 40

// modePredicate pre-filters the registry for a scan mode.
type modePredicate func(models.TickerMeta) bool

// modePolicy is the fixed mode -> predicate table. Modes absent from the
// table apply no pre-filter.
var modePolicy = map[models.ScanMode]modePredicate{
	models.ModeSqueeze: func(m models.TickerMeta) bool {
		return m.CapBucket == models.CapMicro || m.CapBucket == models.CapSmall
	},
	models.ModeMomentum: func(m models.TickerMeta) bool {
		switch m.Sector {
		case "Technology", "Consumer Cyclical", "Communication Services":
			return true
		}
		return false
	},
	models.ModeCatalyst: func(m models.TickerMeta) bool {
		// Catalyst scans favor news-driven sectors but exclude nothing by
		// cap tier.
		return true
	},
}

// Selector builds bounded candidate sets from a static registry.
type Selector struct {
	registry []models.TickerMeta
}

// NewSelector creates a selector over the given registry. Passing nil uses
// the built-in registry.
func NewSelector(registry []models.TickerMeta) *Selector {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Selector{registry: registry}
}

// Registry returns the selector's full registry.
func (s *Selector) Registry() []models.TickerMeta {
	return s.registry
}

// Select returns the candidate set for the given normalized filters and
// mode, in registry order, truncated to MaxCandidates. An empty result is
// valid and means no candidates, not an error.
func (s *Selector) Select(filters models.ScanFilters, mode models.ScanMode) []models.TickerMeta {
	pred := modePolicy[mode]

	selected := make([]models.TickerMeta, 0, MaxCandidates)
	for _, meta := range s.registry {
		if pred != nil && !pred(meta) {
			continue
		}
		if filters.MarketCap != models.CapAny && meta.CapBucket != filters.MarketCap {
			continue
		}
		if !filters.MatchesSector(meta.Sector) {
			continue
		}
		selected = append(selected, meta)
		if len(selected) == MaxCandidates {
			break
		}
	}

	log.Debug().
		Str("mode", string(mode)).
		Int("registry_size", len(s.registry)).
		Int("candidates", len(selected)).
		Msg("Universe selected")

	return selected
}
