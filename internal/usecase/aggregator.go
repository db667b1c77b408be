package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/domain/service"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/util"
)

const (
	maxKeyFindings     = 6
	maxRiskFactors     = 5
	maxRecommendations = 8
)

// Aggregator fans out to the three source adapters and synthesizes one
// composite market assessment. Every adapter call is independent: a slow or
// empty adapter never blocks or cancels the others.
type Aggregator struct {
	trends      service.TrendsSource
	competitors service.CompetitorSource
	sentiment   service.SentimentSource
	metrics     repository.Metrics
	log         *logger.Logger
}

func NewAggregator(trends service.TrendsSource, competitors service.CompetitorSource, sentiment service.SentimentSource, metrics repository.Metrics, log *logger.Logger) *Aggregator {
	return &Aggregator{
		trends:      trends,
		competitors: competitors,
		sentiment:   sentiment,
		metrics:     metrics,
		log:         log,
	}
}

// ComprehensiveMarketData runs the enabled adapters concurrently and builds
// the composite assessment. It never fails: with every adapter dark the
// result is still produced at base score with LOW reliability.
func (a *Aggregator) ComprehensiveMarketData(ctx context.Context, industry, location string, opts models.MarketDataOptions) *models.ComprehensiveMarketData {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("aggregate", time.Since(start).Seconds())
	}()

	var (
		trends      *models.MarketTrends
		competitors *models.CompetitorAnalysis
		sentiment   *models.SentimentAnalysis
	)

	// Zero-value errgroup: no shared cancellation, tasks only isolate.
	var g errgroup.Group
	if opts.IncludeTrends {
		g.Go(func() error {
			trends = a.trends.MarketTrends(ctx, industry, location)
			return nil
		})
	}
	if opts.IncludeCompetitors {
		g.Go(func() error {
			competitors = a.competitors.CompetitorAnalysis(ctx, industry, location, opts.CompetitorRadius)
			return nil
		})
	}
	if opts.IncludeSentiment {
		g.Go(func() error {
			sentiment = a.sentiment.ConsumerSentiment(ctx, industry, location, "month")
			return nil
		})
	}
	_ = g.Wait()

	quality := models.DataQuality{
		TrendsAvailable:      trends != nil,
		CompetitorsAvailable: competitors != nil,
		SentimentAvailable:   sentiment != nil,
	}
	quality.OverallReliability = reliabilityFor(quality.Sources())

	score := compositeScore(trends, competitors, sentiment)

	result := &models.ComprehensiveMarketData{
		Industry:         industry,
		Location:         location,
		Trends:           trends,
		Competitors:      competitors,
		Sentiment:        sentiment,
		MarketScore:      util.Round2(score),
		OpportunityLevel: opportunityLevel(score),
		KeyFindings:      keyFindings(trends, competitors, sentiment),
		RiskFactors:      riskFactors(trends, competitors, sentiment),
		Recommendations:  recommendations(trends, competitors, sentiment),
		DataQuality:      quality,
		GeneratedAt:      time.Now().UTC(),
	}

	a.log.Info("market data aggregated",
		logger.String("industry", industry),
		logger.String("location", location),
		logger.Float64("score", result.MarketScore),
		logger.String("reliability", quality.OverallReliability),
		logger.Int("sources", quality.Sources()))

	return result
}

func reliabilityFor(sources int) string {
	switch sources {
	case 3:
		return models.ReliabilityHigh
	case 2:
		return models.ReliabilityMedium
	default:
		return models.ReliabilityLow
	}
}

func opportunityLevel(score float64) string {
	switch {
	case score >= 70:
		return models.OpportunityHigh
	case score >= 50:
		return models.OpportunityMedium
	default:
		return models.OpportunityLow
	}
}

func compositeScore(trends *models.MarketTrends, competitors *models.CompetitorAnalysis, sentiment *models.SentimentAnalysis) float64 {
	score := 50.0

	if trends != nil {
		growth := trends.Metrics.GrowthRate
		if growth > 5 {
			score += 15
		} else if growth >= 2 {
			score += 10
		} else if growth < 0 {
			score -= 15
		}
		if g := trends.Economy.GDPGrowth; g != nil {
			if *g > 2 {
				score += 10
			} else if *g < 0 {
				score -= 10
			}
		}
	}

	if competitors != nil {
		score += 0.3 * competitors.MarketScore
		switch competitors.Density {
		case models.DensityLow:
			score += 15
		case models.DensityMedium:
			score += 5
		case models.DensityHigh:
			score -= 15
		}
	}

	if sentiment != nil {
		score += 15 * sentiment.Overall.Score
		if sentiment.Overall.Volume > 50 {
			score += 10
		} else if sentiment.Overall.Volume < 10 {
			score -= 5
		}
	}

	return util.Clamp(score, 0, 100)
}

// keyFindings applies the extraction rules in fixed order so truncation at
// the cap is deterministic.
func keyFindings(trends *models.MarketTrends, competitors *models.CompetitorAnalysis, sentiment *models.SentimentAnalysis) []string {
	var out []string

	if trends != nil {
		if trends.Metrics.GrowthRate > 5 {
			out = append(out, fmt.Sprintf("Industry growing at %.1f%% per year, above the broad-market norm", trends.Metrics.GrowthRate))
		}
		if g := trends.Economy.GDPGrowth; g != nil && *g > 2 {
			out = append(out, fmt.Sprintf("Healthy macro backdrop: GDP growth %.1f%%", *g))
		}
		if trends.Metrics.MarketSize != "" {
			out = append(out, "Market size assessment: "+trends.Metrics.MarketSize)
		}
	}

	if competitors != nil {
		if competitors.Count == 0 {
			out = append(out, "No direct competitors found within the search radius")
		} else {
			out = append(out, fmt.Sprintf("%d competitors within %dm (%s density)", competitors.Count, competitors.RadiusMeters, competitors.Density))
		}
		if competitors.Density == models.DensityLow && competitors.Count > 0 {
			out = append(out, "Low competitive density leaves room for a new entrant")
		}
	}

	if sentiment != nil {
		if sentiment.Overall.Label == models.SentimentPositive {
			out = append(out, "Consumer sentiment is net positive")
		}
		if sentiment.Overall.Volume > 50 {
			out = append(out, fmt.Sprintf("Active public discussion: %d recent mentions", sentiment.Overall.Volume))
		}
		if len(sentiment.TrendingTopics) > 0 {
			out = append(out, "Trending topics: "+util.JoinMax(sentiment.TrendingTopics, 3))
		}
	}

	return util.CapStrings(out, maxKeyFindings)
}

func riskFactors(trends *models.MarketTrends, competitors *models.CompetitorAnalysis, sentiment *models.SentimentAnalysis) []string {
	var out []string

	if trends != nil {
		if trends.Metrics.GrowthRate < 0 {
			out = append(out, fmt.Sprintf("Industry is contracting at %.1f%% per year", -trends.Metrics.GrowthRate))
		}
		if g := trends.Economy.GDPGrowth; g != nil && *g < 0 {
			out = append(out, "Macro economy in contraction")
		}
		if inf := trends.Economy.Inflation; inf != nil && *inf > 5 {
			out = append(out, fmt.Sprintf("Elevated inflation (%.1f%%) pressures margins and demand", *inf))
		}
	}

	if competitors != nil {
		if competitors.Density == models.DensityHigh {
			out = append(out, "High competitive density in the target area")
		}
		if competitors.Count > 8 {
			out = append(out, fmt.Sprintf("%d established competitors already serve this market", competitors.Count))
		}
	}

	if sentiment != nil {
		if sentiment.Overall.Label == models.SentimentNegative {
			out = append(out, "Consumer sentiment toward this market is net negative")
		}
		if sentiment.Overall.Volume < 10 {
			out = append(out, "Thin public signal: sentiment conclusions are low-confidence")
		}
	}

	return util.CapStrings(out, maxRiskFactors)
}

// recommendations merges per-source advice in source order, deduplicated by
// exact string, capped at eight.
func recommendations(trends *models.MarketTrends, competitors *models.CompetitorAnalysis, sentiment *models.SentimentAnalysis) []string {
	var out []string

	if trends != nil && trends.Metrics.GrowthRate > 5 {
		out = append(out, "Time market entry to ride the current industry growth phase")
	}
	if competitors != nil {
		out = append(out, competitors.Recommendations...)
	}
	if sentiment != nil {
		out = append(out, sentiment.Recommendations...)
	}

	return util.CapStrings(util.DedupStrings(out), maxRecommendations)
}
