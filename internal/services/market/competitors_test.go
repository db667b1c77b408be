package market

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

func TestDensityTierBoundaries(t *testing.T) {
	assert.Equal(t, models.DensityLow, densityTier(0))
	assert.Equal(t, models.DensityLow, densityTier(3))
	assert.Equal(t, models.DensityMedium, densityTier(4))
	assert.Equal(t, models.DensityMedium, densityTier(8))
	assert.Equal(t, models.DensityHigh, densityTier(9))
}

func TestMarketScoreZeroCompetitors(t *testing.T) {
	// 50 + 30 (Low) + 20 (zero count), no distance adjustment
	assert.Equal(t, 100.0, marketScore(0, models.DensityLow, 0, 5000))
}

func TestMarketScoreTwoCompetitorsFarOut(t *testing.T) {
	// 50 + 30 (Low) + 10 (<=2) + 15 (ratio 0.9) = 105, clamped to 100
	assert.Equal(t, 100.0, marketScore(2, models.DensityLow, 4500, 5000))
}

func TestMarketScoreMediumClose(t *testing.T) {
	// 50 + 10 (Medium) - 10 (ratio 0.2) = 50
	assert.Equal(t, 50.0, marketScore(5, models.DensityMedium, 1000, 5000))
}

func TestMarketScoreSaturated(t *testing.T) {
	// 50 - 20 (High) - 15 (>8), ratio 0.5 neutral = 15
	assert.Equal(t, 15.0, marketScore(12, models.DensityHigh, 2500, 5000))
}

func TestMarketScoreClampFloor(t *testing.T) {
	// 50 - 20 - 15 - 10 = 5; never below 0 even with harsher inputs
	score := marketScore(20, models.DensityHigh, 100, 5000)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.Equal(t, 5.0, score)
}

func TestFallbackAnalysisShape(t *testing.T) {
	a := fallbackAnalysis("coffee shop", "Austin, US", 5000, "geocode failed: no match")

	assert.Equal(t, 2, a.Count)
	assert.Equal(t, models.DensityMedium, a.Density)
	assert.Equal(t, 65.0, a.MarketScore)
	assert.True(t, a.Origin.Synthetic)
	assert.NotEmpty(t, a.Recommendations)
	assert.NotEmpty(t, a.Threats)
}

func TestCompetitorTextsVaryByDensity(t *testing.T) {
	lowRecs, lowOpps, _ := competitorTexts(models.DensityLow, 0)
	_, _, highThreats := competitorTexts(models.DensityHigh, 12)

	assert.Contains(t, lowOpps, "No direct competitors detected in the area")
	assert.NotEmpty(t, lowRecs)
	assert.Contains(t, highThreats, "Saturated market with entrenched competitors")
}

func TestAverageDistance(t *testing.T) {
	comps := []models.CompetitorRecord{
		{DistanceMeters: 1000},
		{DistanceMeters: 3000},
	}
	assert.Equal(t, 2000.0, averageDistance(comps))
	assert.Equal(t, 0.0, averageDistance(nil))
}
