// Package merge collapses multi-provider records for one ticker into a
// single best-effort view. Merging never fails: gaps degrade to partial
// data that downstream stages treat as "skip this ticker".
package merge

import (
	"sort"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// Quotes collapses all raw quotes for one ticker into a single quote.
// Complete quotes (price and prevClose both present) win; among them the
// most recent timestamp is primary, with nil timestamps ordered oldest.
// When the primary lacks volume, the first non-nil volume among the
// remaining complete quotes is borrowed in recency order. When no quote is
// complete the first raw quote is returned as-is so callers can see the
// partial data and skip the ticker. Returns nil only on empty input.
func Quotes(quotes []models.RawQuote) *models.RawQuote {
	if len(quotes) == 0 {
		return nil
	}

	complete := make([]models.RawQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Complete() {
			complete = append(complete, q)
		}
	}
	if len(complete) == 0 {
		partial := quotes[0]
		return &partial
	}

	sort.SliceStable(complete, func(i, j int) bool {
		return quoteTime(complete[i]) > quoteTime(complete[j])
	})

	primary := complete[0]
	if primary.Volume == nil {
		for _, q := range complete[1:] {
			if q.Volume != nil {
				primary.Volume = q.Volume
				break
			}
		}
	}
	return &primary
}

// quoteTime orders quotes by recency; nil timestamps sort as epoch.
func quoteTime(q models.RawQuote) int64 {
	if q.Timestamp == nil {
		return 0
	}
	return *q.Timestamp
}
