package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	domrepo "github.com/mikey22333/startup-sub001/internal/domain/repository"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func pf(v float64) *float64 { return &v }

func sampleSnapshot(industry, location string, at time.Time) *models.MarketSnapshot {
	return &models.MarketSnapshot{
		Industry: industry,
		Location: location,
		Economy:  models.EconomicIndicators{GDPGrowth: pf(2.5), Inflation: pf(3.0)},
		IndustryMetrics: models.IndustryMetrics{
			MarketSize: "Large", GrowthRate: 5, KeyDrivers: []string{"Delivery platforms"},
		},
		Competitors: []models.CompetitorRecord{
			{Name: "Alpha Cafe", Address: "12 Main St", DistanceMeters: 420},
		},
		Sentiment:      models.SentimentSummary{Label: models.SentimentPositive, Score: 0.4, Confidence: 0.6, Volume: 31},
		Trends:         []string{"delivery", "specialty beans"},
		Opportunities:  []string{"Proven demand"},
		Risks:          []string{"Price pressure"},
		CompositeScore: 71.5,
		Reliability:    models.ReliabilityHigh,
		LastUpdated:    at,
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.Upsert(ctx, sampleSnapshot("coffee shop", "Austin, US", at)))

	got, err := s.Get(ctx, "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Equal(t, 71.5, got.CompositeScore)
	assert.Equal(t, models.ReliabilityHigh, got.Reliability)
	require.NotNil(t, got.Economy.GDPGrowth)
	assert.Equal(t, 2.5, *got.Economy.GDPGrowth)
	assert.Nil(t, got.Economy.Unemployment)
	require.Len(t, got.Competitors, 1)
	assert.Equal(t, "Alpha Cafe", got.Competitors[0].Name)
	assert.Equal(t, at, got.LastUpdated)
}

func TestGetNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "coffee shop", "Nowhere")
	assert.ErrorIs(t, err, domrepo.ErrNotFound)
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := sampleSnapshot("coffee shop", "Austin, US", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, s.Upsert(ctx, first))

	second := sampleSnapshot("coffee shop", "Austin, US", time.Now().UTC())
	second.CompositeScore = 44
	second.Risks = nil
	require.NoError(t, s.Upsert(ctx, second))

	got, err := s.Get(ctx, "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Equal(t, 44.0, got.CompositeScore)
	assert.Empty(t, got.Risks)

	all, err := s.ListOldestFirst(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must replace, not duplicate")
}

func TestKeyNormalization(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, sampleSnapshot("Coffee Shop", " Austin, US ", time.Now().UTC())))

	got, err := s.Get(ctx, "coffee shop", "austin, us")
	require.NoError(t, err)
	assert.Equal(t, 71.5, got.CompositeScore)
}

func TestListOldestFirstOrderAndLimit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.Upsert(ctx, sampleSnapshot("gym", "A", base.Add(-1*time.Hour))))
	require.NoError(t, s.Upsert(ctx, sampleSnapshot("gym", "B", base.Add(-3*time.Hour))))
	require.NoError(t, s.Upsert(ctx, sampleSnapshot("gym", "C", base.Add(-2*time.Hour))))

	all, err := s.ListOldestFirst(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].Location)
	assert.Equal(t, "c", all[1].Location)
	assert.Equal(t, "a", all[2].Location)

	capped, err := s.ListOldestFirst(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestAuditAppendAndRecent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &models.RefreshAudit{
			ID:        uuid.NewString(),
			Industry:  "coffee shop",
			Location:  "Austin, US",
			Status:    models.RefreshSuccess,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.Append(ctx, entry))
	}
	require.NoError(t, s.Append(ctx, &models.RefreshAudit{
		ID: uuid.NewString(), Industry: "gym", Location: "Austin, US",
		Status: models.RefreshFailed, RetryCount: 2, Error: "geocode down",
		Timestamp: time.Now().UTC().Add(time.Minute),
	}))

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.RefreshFailed, recent[0].Status)
	assert.Equal(t, 2, recent[0].RetryCount)
	assert.Equal(t, "geocode down", recent[0].Error)
}
