package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

func TestBreakdown_FlatTickerSentimentBaseline(t *testing.T) {
	b := Breakdown(0, 2_000_000, models.ModeDefault)
	assert.Equal(t, 60, b.Sentiment)
	assert.Equal(t, 0, b.Momentum)
}

func TestBreakdown_MomentumMonotonicUntilClamp(t *testing.T) {
	prev := -1
	for _, change := range []float64{0, 1, 2.5, 5, 8, 12, 15, 19} {
		b := Breakdown(change, 2_000_000, models.ModeDefault)
		assert.GreaterOrEqual(t, b.Momentum, prev,
			"momentum must not decrease as |change| grows (change=%.1f)", change)
		prev = b.Momentum
	}
	// Past the clamp the score pins at 100.
	assert.Equal(t, 100, Breakdown(25, 2_000_000, models.ModeDefault).Momentum)
	assert.Equal(t, 100, Breakdown(50, 2_000_000, models.ModeDefault).Momentum)
}

func TestBreakdown_LowVolumeDampensMomentum(t *testing.T) {
	thin := Breakdown(10, 500_000, models.ModeDefault)
	deep := Breakdown(10, 2_000_000, models.ModeDefault)
	assert.Less(t, thin.Momentum, deep.Momentum)
	assert.Equal(t, 35, thin.Momentum) // 10 * 5 * 0.7
	assert.Equal(t, 50, deep.Momentum) // 10 * 5 * 1.0
}

func TestBreakdown_NegativeChangeSentiment(t *testing.T) {
	b := Breakdown(-8, 2_000_000, models.ModeDefault)
	assert.Equal(t, 32, b.Sentiment) // 40 - 8
	assert.Equal(t, 40, b.Momentum)  // sign-independent
}

func TestBreakdown_ModeBonuses(t *testing.T) {
	base := Breakdown(6, 2_000_000, models.ModeDefault)
	momentum := Breakdown(6, 2_000_000, models.ModeMomentum)
	squeeze := Breakdown(6, 2_000_000, models.ModeSqueeze)
	catalyst := Breakdown(6, 2_000_000, models.ModeCatalyst)

	assert.Equal(t, base.Structure+5, momentum.Structure)
	assert.Equal(t, base.Structure+10, squeeze.Structure)
	assert.Equal(t, base.Catalysts+15, catalyst.Catalysts)
}

func TestBreakdown_BandsHold(t *testing.T) {
	for _, change := range []float64{-60, -12, -0.5, 0, 0.5, 12, 60} {
		for _, volume := range []int64{0, 999_999, 50_000_000} {
			for _, mode := range []models.ScanMode{models.ModeDefault, models.ModeMomentum, models.ModeSqueeze, models.ModeCatalyst} {
				b := Breakdown(change, volume, mode)
				assert.GreaterOrEqual(t, b.Momentum, 0)
				assert.LessOrEqual(t, b.Momentum, 100)
				assert.GreaterOrEqual(t, b.Structure, 30)
				assert.LessOrEqual(t, b.Structure, 95)
				assert.GreaterOrEqual(t, b.Catalysts, 10)
				assert.LessOrEqual(t, b.Catalysts, 90)
				assert.GreaterOrEqual(t, b.Sentiment, 0)
				assert.LessOrEqual(t, b.Sentiment, 100)
			}
		}
	}
}

func TestExplosivePotential_AlwaysInRange(t *testing.T) {
	for _, change := range []float64{-100, -15, 0, 3, 15, 100} {
		for _, mode := range []models.ScanMode{models.ModeDefault, models.ModeSqueeze} {
			b := Breakdown(change, 5_000_000, mode)
			ep := ExplosivePotential(b, mode)
			assert.GreaterOrEqual(t, ep, 0)
			assert.LessOrEqual(t, ep, 100)
		}
	}
}

func TestExplosivePotential_SqueezeBonus(t *testing.T) {
	b := Breakdown(6, 2_000_000, models.ModeDefault)
	assert.Equal(t, ExplosivePotential(b, models.ModeDefault)+10, ExplosivePotential(b, models.ModeSqueeze))
}

func TestGrade(t *testing.T) {
	cases := []struct {
		change float64
		want   models.MomentumGrade
	}{
		{14, models.GradeA},
		{-11, models.GradeA},
		{7, models.GradeB},
		{3, models.GradeC},
		{1, models.GradeD},
		{0, models.GradeD},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Grade(tc.change), "change=%.1f", tc.change)
	}
}

func TestSentimentLabel(t *testing.T) {
	assert.Equal(t, models.SentimentLong, Sentiment(0.1))
	assert.Equal(t, models.SentimentShort, Sentiment(-0.1))
	assert.Equal(t, models.SentimentNeutral, Sentiment(0))
}

func TestRisk_SqueezeFloor(t *testing.T) {
	assert.Equal(t, models.RiskLow, Risk(1, models.ModeDefault))
	assert.Equal(t, models.RiskMedium, Risk(1, models.ModeSqueeze))
	assert.Equal(t, models.RiskMedium, Risk(7, models.ModeDefault))
	assert.Equal(t, models.RiskHigh, Risk(-13, models.ModeDefault))
	assert.Equal(t, models.RiskHigh, Risk(13, models.ModeSqueeze))
}
