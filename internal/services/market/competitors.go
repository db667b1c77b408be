package market

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/service/geocode"
	"github.com/mikey22333/startup-sub001/internal/service/places"
	"github.com/mikey22333/startup-sub001/internal/services/classify"
	"github.com/mikey22333/startup-sub001/internal/services/geo"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/util"
)

// CompetitorAdapter locates nearby competitors for a business type and scores
// the local market.
type CompetitorAdapter struct {
	geocoder *geocode.Client
	places   *places.Client
	metrics  repository.Metrics
	log      *logger.Logger
}

func NewCompetitorAdapter(geocoder *geocode.Client, placesClient *places.Client, metrics repository.Metrics, log *logger.Logger) *CompetitorAdapter {
	return &CompetitorAdapter{geocoder: geocoder, places: placesClient, metrics: metrics, log: log}
}

// CompetitorAnalysis never fails with an error. Unconfigured providers yield
// nil; a geocode or POI failure yields the synthetic fallback analysis.
func (a *CompetitorAdapter) CompetitorAnalysis(ctx context.Context, businessType, location string, radiusMeters int) *models.CompetitorAnalysis {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("competitors", time.Since(start).Seconds())
	}()

	if !a.geocoder.Available() || !a.places.Available() {
		a.log.Debug("competitor adapter unconfigured, skipping",
			logger.String("businessType", businessType))
		a.metrics.RecordAdapterCall("competitors", "unavailable")
		return nil
	}

	lat, lon, err := a.geocoder.Forward(ctx, location)
	if err != nil {
		a.log.Warn("geocode failed, using fallback analysis",
			logger.String("location", location), logger.Error(err))
		a.metrics.RecordAdapterCall("competitors", "synthetic")
		return fallbackAnalysis(businessType, location, radiusMeters,
			fmt.Sprintf("geocode failed: %v", err))
	}

	category := classify.Classify(businessType)
	pois, err := a.places.Nearby(ctx, lat, lon, radiusMeters, classify.PlaceCategories(category))
	if err != nil {
		a.log.Warn("poi query failed, using fallback analysis",
			logger.String("location", location), logger.Error(err))
		a.metrics.RecordAdapterCall("competitors", "synthetic")
		return fallbackAnalysis(businessType, location, radiusMeters,
			fmt.Sprintf("poi provider failed: %v", err))
	}

	competitors := make([]models.CompetitorRecord, 0, len(pois))
	for _, p := range pois {
		competitors = append(competitors, models.CompetitorRecord{
			Name:           p.Name,
			Address:        p.Address,
			DistanceMeters: geo.Haversine(lat, lon, p.Lat, p.Lon),
			Lat:            p.Lat,
			Lon:            p.Lon,
		})
	}
	sort.Slice(competitors, func(i, j int) bool {
		return competitors[i].DistanceMeters < competitors[j].DistanceMeters
	})

	count := len(competitors)
	density := densityTier(count)
	avgDist := averageDistance(competitors)
	score := marketScore(count, density, avgDist, radiusMeters)
	recs, opps, threats := competitorTexts(density, count)

	a.metrics.RecordAdapterCall("competitors", "success")

	return &models.CompetitorAnalysis{
		BusinessType:    businessType,
		Location:        location,
		RadiusMeters:    radiusMeters,
		Competitors:     competitors,
		Count:           count,
		Density:         density,
		MarketScore:     score,
		AverageDistance: util.Round2(avgDist),
		Recommendations: recs,
		Opportunities:   opps,
		Threats:         threats,
		Origin:          models.RealOrigin(),
	}
}

// densityTier boundaries are inclusive: 3 is still Low, 8 still Medium.
func densityTier(count int) string {
	switch {
	case count <= 3:
		return models.DensityLow
	case count <= 8:
		return models.DensityMedium
	default:
		return models.DensityHigh
	}
}

func marketScore(count int, density string, avgDistance float64, radiusMeters int) float64 {
	score := 50.0

	switch density {
	case models.DensityLow:
		score += 30
	case models.DensityMedium:
		score += 10
	case models.DensityHigh:
		score -= 20
	}

	if count == 0 {
		score += 20
	} else if count <= 2 {
		score += 10
	}
	if count > 8 {
		score -= 15
	}

	if count > 0 && radiusMeters > 0 {
		ratio := avgDistance / float64(radiusMeters)
		if ratio > 0.8 {
			score += 15
		} else if ratio < 0.3 {
			score -= 10
		}
	}

	return util.Clamp(score, 0, 100)
}

func averageDistance(competitors []models.CompetitorRecord) float64 {
	if len(competitors) == 0 {
		return 0
	}
	var sum float64
	for _, c := range competitors {
		sum += c.DistanceMeters
	}
	return sum / float64(len(competitors))
}

// fallbackAnalysis is the assumed-market analysis used when the spatial
// providers cannot answer: two competitors, medium density, score 65.
func fallbackAnalysis(businessType, location string, radiusMeters int, reason string) *models.CompetitorAnalysis {
	recs, opps, threats := competitorTexts(models.DensityMedium, 2)
	return &models.CompetitorAnalysis{
		BusinessType:    businessType,
		Location:        location,
		RadiusMeters:    radiusMeters,
		Count:           2,
		Density:         models.DensityMedium,
		MarketScore:     65,
		Recommendations: recs,
		Opportunities:   opps,
		Threats:         threats,
		Origin:          models.SyntheticOrigin(reason),
	}
}

// competitorTexts selects advisory text from fixed banks keyed by density
// tier and competitor count.
func competitorTexts(density string, count int) (recommendations, opportunities, threats []string) {
	switch density {
	case models.DensityLow:
		recommendations = []string{
			"Move quickly to establish brand recognition before competitors arrive",
			"Invest in customer acquisition while costs are low",
		}
		opportunities = []string{
			"Underserved market with room for a category leader",
			"First-mover pricing power",
		}
		threats = []string{
			"Low competition may signal weak local demand",
		}
		if count == 0 {
			opportunities = append(opportunities, "No direct competitors detected in the area")
			threats = append(threats, "Unproven market: validate demand before committing capital")
		}
	case models.DensityMedium:
		recommendations = []string{
			"Differentiate on service quality or a niche segment",
			"Study the established players' pricing before setting your own",
		}
		opportunities = []string{
			"Proven demand with space for a differentiated entrant",
			"Partnership potential with adjacent businesses",
		}
		threats = []string{
			"Established players hold existing customer relationships",
			"Price pressure from comparable offerings",
		}
	default: // High
		recommendations = []string{
			"Enter only with a clearly differentiated offering",
			"Consider an adjacent location with lower saturation",
			"Compete on a dimension incumbents ignore rather than on price",
		}
		opportunities = []string{
			"High foot traffic validated by incumbent density",
			"Acquisition of a struggling incumbent may beat organic entry",
		}
		threats = []string{
			"Saturated market with entrenched competitors",
			"Thin margins from sustained price competition",
			"High customer acquisition costs",
		}
	}
	return recommendations, opportunities, threats
}
