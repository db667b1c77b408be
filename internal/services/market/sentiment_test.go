package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/service"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordAdapterCall(string, string) {}
func (nopMetrics) RecordCacheEvent(string, string)  {}
func (nopMetrics) RecordRefreshJob(string)          {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

type stubSource struct {
	name     string
	mentions []models.RawMention
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Mentions(context.Context, string, string) ([]models.RawMention, error) {
	return s.mentions, s.err
}

func newSentiment(sources ...service.MentionSource) *SentimentAdapter {
	return NewSentimentAdapter(sources, nil, nopMetrics{}, logger.Nop())
}

func TestConsumerSentimentNoSources(t *testing.T) {
	a := newSentiment()
	assert.Nil(t, a.ConsumerSentiment(context.Background(), "coffee", "Austin", "month"))
}

func TestConsumerSentimentNoDataFallback(t *testing.T) {
	a := newSentiment(
		&stubSource{name: "news"},
		&stubSource{name: "reddit", err: errors.New("rate limited")},
	)

	got := a.ConsumerSentiment(context.Background(), "coffee", "Austin", "month")
	require.NotNil(t, got)
	assert.Equal(t, models.SentimentNeutral, got.Overall.Label)
	assert.Equal(t, 0.1, got.Overall.Score)
	assert.Equal(t, 0.5, got.Overall.Confidence)
	assert.Equal(t, noDataRecommendations, got.Recommendations)
	assert.True(t, got.Origin.Synthetic)
}

func TestConsumerSentimentFailingSourceIsolated(t *testing.T) {
	now := time.Now()
	a := newSentiment(
		&stubSource{name: "reddit", err: errors.New("boom")},
		&stubSource{name: "news", mentions: []models.RawMention{
			{Platform: "news", Text: "great coffee, excellent growth", Timestamp: now},
		}},
	)

	got := a.ConsumerSentiment(context.Background(), "coffee", "Austin", "month")
	require.NotNil(t, got)
	assert.False(t, got.Origin.Synthetic)
	require.Len(t, got.Signals, 1)
	assert.Equal(t, "news", got.Signals[0].Platform)
	assert.Equal(t, models.SentimentPositive, got.Overall.Label)
}

func TestConsumerSentimentAggregation(t *testing.T) {
	now := time.Now()
	a := newSentiment(
		&stubSource{name: "news", mentions: []models.RawMention{
			{Platform: "news", Text: "great coffee excellent service", Timestamp: now}, // score 1.0
			{Platform: "news", Text: "terrible overpriced coffee", Timestamp: now},     // score -1.0
		}},
		&stubSource{name: "reddit", mentions: []models.RawMention{
			{Platform: "reddit", Text: "good coffee downtown", Timestamp: now}, // score 1.0
		}},
	)

	got := a.ConsumerSentiment(context.Background(), "coffee", "Austin", "month")
	require.NotNil(t, got)

	// overall: (1 - 1 + 1) / 3
	assert.InDelta(t, 0.33, got.Overall.Score, 0.01)
	assert.Equal(t, models.SentimentPositive, got.Overall.Label)
	assert.Equal(t, 3, got.Overall.Volume)

	require.Contains(t, got.Platforms, "news")
	require.Contains(t, got.Platforms, "reddit")
	assert.Equal(t, 0.0, got.Platforms["news"].Score)
	assert.Equal(t, models.SentimentNeutral, got.Platforms["news"].Label)
	assert.Equal(t, 1.0, got.Platforms["reddit"].Score)

	assert.Contains(t, got.TrendingTopics, "coffee")
	assert.LessOrEqual(t, len(got.TrendingTopics), 5)
}

func TestRecommendationsVaryByLabel(t *testing.T) {
	pos := recommendationsForLabel(models.SentimentPositive)
	neg := recommendationsForLabel(models.SentimentNegative)
	neu := recommendationsForLabel(models.SentimentNeutral)

	assert.NotEqual(t, pos, neg)
	assert.NotEqual(t, pos, neu)
	assert.NotEmpty(t, neu)
}
