package models

// ScanFilters is the user-supplied filter set for a scan. Call Normalize
// before use; the pipeline assumes normalized filters.
type ScanFilters struct {
	MarketCap CapBucket `json:"market_cap"`
	MinPrice  *float64  `json:"min_price,omitempty"`
	MaxPrice  *float64  `json:"max_price,omitempty"`
	MinVolume *int64    `json:"min_volume,omitempty"`
	Sectors   []string  `json:"sectors"`
}

// Normalize fills defaults and repairs inverted bounds. After Normalize,
// MinPrice <= MaxPrice whenever both are set, and MarketCap is never empty.
func (f ScanFilters) Normalize() ScanFilters {
	out := f
	if out.MarketCap == "" {
		out.MarketCap = CapAny
	}
	if out.MinPrice != nil && out.MaxPrice != nil && *out.MinPrice > *out.MaxPrice {
		out.MinPrice, out.MaxPrice = out.MaxPrice, out.MinPrice
	}
	if out.Sectors == nil {
		out.Sectors = []string{}
	}
	return out
}

// MatchesSector reports whether sector passes the sector filter. An empty
// filter list means no constraint.
func (f ScanFilters) MatchesSector(sector string) bool {
	if len(f.Sectors) == 0 {
		return true
	}
	for _, s := range f.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}
