package merge

import "github.com/vinchivii/detonation-scanner/internal/models"

// Fundamentals collapses all snapshots for one ticker into one. The first
// snapshot seeds the result; each later snapshot fills still-nil fields
// only. Populated fields are never overwritten. Returns nil on empty input.
func Fundamentals(snapshots []models.FundamentalSnapshot) *models.FundamentalSnapshot {
	if len(snapshots) == 0 {
		return nil
	}

	merged := snapshots[0]
	for _, snap := range snapshots[1:] {
		if merged.MarketCap == nil && snap.MarketCap != nil {
			merged.MarketCap = snap.MarketCap
		}
		if merged.Float == nil && snap.Float != nil {
			merged.Float = snap.Float
		}
		if merged.Sector == nil && snap.Sector != nil {
			merged.Sector = snap.Sector
		}
	}
	return &merged
}
