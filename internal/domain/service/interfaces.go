package service

import (
	"context"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

// The three source adapters are best-effort by contract: under ordinary
// failure (missing config, provider error, empty result) they log and return
// nil or a synthetic result tagged via models.Origin, never an error.

// TrendsSource produces market trends for an (industry, location) pair.
type TrendsSource interface {
	MarketTrends(ctx context.Context, industry, location string) *models.MarketTrends
}

// CompetitorSource produces a competitor analysis around a location.
type CompetitorSource interface {
	CompetitorAnalysis(ctx context.Context, businessType, location string, radiusMeters int) *models.CompetitorAnalysis
}

// SentimentSource produces consumer-sentiment analysis for an industry.
type SentimentSource interface {
	ConsumerSentiment(ctx context.Context, industry, location, timeframe string) *models.SentimentAnalysis
}

// MentionSource is one social/news provider the sentiment adapter fans out
// to. Implementations return their own errors; the adapter isolates them.
type MentionSource interface {
	Name() string
	Mentions(ctx context.Context, query, timeframe string) ([]models.RawMention, error)
}
