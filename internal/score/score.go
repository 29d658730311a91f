// Package score derives the explosive-potential composite and its
// sub-scores from merged market data. Scoring is a deterministic pure
// function of (changePercent, volume, mode); it is an illustrative
// heuristic, not a validated trading signal.
package score

import (
	"math"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// Composite weights. Canonical weighting: momentum 0.40, structure 0.30,
// catalysts 0.20, sentiment 0.10 (see DESIGN.md for the choice).
const (
	weightMomentum  = 0.40
	weightStructure = 0.30
	weightCatalysts = 0.20
	weightSentiment = 0.10
)

// highVolumeThreshold separates the full volume factor from the dampened
// one.
const highVolumeThreshold = 1_000_000

// Mode bonuses applied to individual sub-scores and the composite.
const (
	momentumModeStructureBonus = 5
	squeezeModeStructureBonus  = 10
	catalystModeCatalystBonus  = 15
	squeezeModeCompositeBonus  = 10
)

// Breakdown computes the four sub-scores for a ticker. Each sub-score is
// rounded to the nearest integer independently and clamped to its band.
func Breakdown(changePercent float64, volume int64, mode models.ScanMode) models.ScoreBreakdown {
	absChange := math.Abs(changePercent)

	volumeFactor := 0.7
	if volume > highVolumeThreshold {
		volumeFactor = 1.0
	}

	momentum := clamp(absChange*5*volumeFactor, 0, 100)

	structureBonus := 0.0
	switch mode {
	case models.ModeMomentum:
		structureBonus = momentumModeStructureBonus
	case models.ModeSqueeze:
		structureBonus = squeezeModeStructureBonus
	}
	structure := clamp(momentum+structureBonus, 30, 95)

	catalystBonus := 0.0
	if mode == models.ModeCatalyst {
		catalystBonus = catalystModeCatalystBonus
	}
	catalysts := clamp(momentum-5+catalystBonus, 10, 90)

	sentiment := 60 + absChange
	if changePercent < 0 {
		sentiment = 40 - absChange
	}
	sentiment = clamp(sentiment, 0, 100)

	return models.ScoreBreakdown{
		Catalysts: round(catalysts),
		Momentum:  round(momentum),
		Structure: round(structure),
		Sentiment: round(sentiment),
	}
}

// ExplosivePotential combines a breakdown into the 0-100 composite.
// Squeeze scans carry a flat composite bonus on top of the weighted sum.
func ExplosivePotential(b models.ScoreBreakdown, mode models.ScanMode) int {
	composite := float64(b.Momentum)*weightMomentum +
		float64(b.Structure)*weightStructure +
		float64(b.Catalysts)*weightCatalysts +
		float64(b.Sentiment)*weightSentiment
	if mode == models.ModeSqueeze {
		composite += squeezeModeCompositeBonus
	}
	return round(clamp(composite, 0, 100))
}

// Momentum grade thresholds on |changePercent|.
const (
	gradeACutoff = 10.0
	gradeBCutoff = 5.0
	gradeCCutoff = 2.0
)

// Grade maps |changePercent| onto the A-D momentum grade.
func Grade(changePercent float64) models.MomentumGrade {
	absChange := math.Abs(changePercent)
	switch {
	case absChange >= gradeACutoff:
		return models.GradeA
	case absChange >= gradeBCutoff:
		return models.GradeB
	case absChange >= gradeCCutoff:
		return models.GradeC
	default:
		return models.GradeD
	}
}

// Sentiment labels direction by the sign of the change. A flat ticker is
// Neutral.
func Sentiment(changePercent float64) models.SentimentLabel {
	switch {
	case changePercent > 0:
		return models.SentimentLong
	case changePercent < 0:
		return models.SentimentShort
	default:
		return models.SentimentNeutral
	}
}

// Risk level thresholds on |changePercent|.
const (
	riskHighCutoff   = 12.0
	riskMediumCutoff = 5.0
)

// Risk maps |changePercent| onto a risk label. Squeeze scans never report
// below Medium: thin floats move violently regardless of today's tape.
func Risk(changePercent float64, mode models.ScanMode) models.RiskLevel {
	absChange := math.Abs(changePercent)

	level := models.RiskLow
	switch {
	case absChange >= riskHighCutoff:
		level = models.RiskHigh
	case absChange >= riskMediumCutoff:
		level = models.RiskMedium
	}

	if mode == models.ModeSqueeze && level == models.RiskLow {
		level = models.RiskMedium
	}
	return level
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
