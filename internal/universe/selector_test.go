package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

func TestSelector_CapBound(t *testing.T) {
	// A registry larger than the cap must be truncated to exactly the cap.
	registry := make([]models.TickerMeta, 0, 100)
	for i := 0; i < 100; i++ {
		registry = append(registry, models.TickerMeta{
			Symbol:    string(rune('A'+i%26)) + string(rune('A'+i/26)),
			Sector:    "Technology",
			CapBucket: models.CapSmall,
		})
	}
	s := NewSelector(registry)

	out := s.Select(models.ScanFilters{}.Normalize(), models.ModeDefault)
	assert.Len(t, out, MaxCandidates)
	// First-N in registry order, no shuffling.
	assert.Equal(t, registry[0].Symbol, out[0].Symbol)
	assert.Equal(t, registry[MaxCandidates-1].Symbol, out[MaxCandidates-1].Symbol)
}

func TestSelector_SubsetOfRegistry(t *testing.T) {
	s := NewSelector(nil)
	out := s.Select(models.ScanFilters{}.Normalize(), models.ModeDefault)

	require.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), MaxCandidates)
	for _, meta := range out {
		_, found := Lookup(s.Registry(), meta.Symbol)
		assert.True(t, found, "selected %s not in registry", meta.Symbol)
	}
}

func TestSelector_SectorFilter(t *testing.T) {
	s := NewSelector(nil)
	filters := models.ScanFilters{Sectors: []string{"Healthcare"}}.Normalize()

	out := s.Select(filters, models.ModeDefault)
	require.NotEmpty(t, out)
	for _, meta := range out {
		assert.Equal(t, "Healthcare", meta.Sector)
	}
}

func TestSelector_MarketCapFilter(t *testing.T) {
	s := NewSelector(nil)
	filters := models.ScanFilters{MarketCap: models.CapMicro}.Normalize()

	out := s.Select(filters, models.ModeDefault)
	require.NotEmpty(t, out)
	for _, meta := range out {
		assert.Equal(t, models.CapMicro, meta.CapBucket)
	}
}

func TestSelector_SqueezeModeRestrictsCapTier(t *testing.T) {
	s := NewSelector(nil)
	out := s.Select(models.ScanFilters{}.Normalize(), models.ModeSqueeze)

	require.NotEmpty(t, out)
	for _, meta := range out {
		assert.Contains(t, []models.CapBucket{models.CapMicro, models.CapSmall}, meta.CapBucket,
			"squeeze mode must restrict to micro/small caps, got %s for %s", meta.CapBucket, meta.Symbol)
	}
}

func TestSelector_EmptyResultIsValid(t *testing.T) {
	s := NewSelector(nil)
	filters := models.ScanFilters{Sectors: []string{"Utilities"}}.Normalize()

	out := s.Select(filters, models.ModeDefault)
	assert.Empty(t, out)
}
