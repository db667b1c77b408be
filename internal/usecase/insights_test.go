package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

type memStore struct {
	mu      sync.Mutex
	snaps   map[string]*models.MarketSnapshot
	upserts int
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{snaps: make(map[string]*models.MarketSnapshot)}
}

func storeKey(industry, location string) string { return industry + "|" + location }

func (s *memStore) Upsert(_ context.Context, snap *models.MarketSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.failPut {
		return errors.New("disk full")
	}
	s.snaps[storeKey(snap.Industry, snap.Location)] = snap
	return nil
}

func (s *memStore) Get(_ context.Context, industry, location string) (*models.MarketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[storeKey(industry, location)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return snap, nil
}

func (s *memStore) ListOldestFirst(_ context.Context, limit int) ([]*models.MarketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.MarketSnapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newManager(t *testing.T, store *memStore) *InsightsManager {
	t.Helper()
	trends := &models.MarketTrends{
		Metrics: models.IndustryMetrics{GrowthRate: 6, KeyDrivers: []string{"Delivery platforms"}},
		Economy: models.EconomicIndicators{GDPGrowth: pf(2.5)},
	}
	agg := newAggregator(trends, &models.CompetitorAnalysis{
		Competitors: []models.CompetitorRecord{
			{Name: "Alpha"}, {Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"},
			{Name: "Delta"}, {Name: "Epsilon"}, {Name: "Zeta"},
		},
		Count: 7, Density: models.DensityMedium, MarketScore: 60,
		Opportunities: []string{"Proven demand"},
	}, &models.SentimentAnalysis{
		Overall:        models.SentimentSummary{Label: models.SentimentPositive, Score: 0.4, Volume: 30},
		TrendingTopics: []string{"coffee", "delivery"},
	})
	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(100))
	t.Cleanup(func() { _ = mc.Close() })
	return NewInsightsManager(agg, mc, store, nopMetrics{}, logger.Nop(),
		24*time.Hour, 7*24*time.Hour, 5000)
}

func TestGetSnapshotPopulatesCacheAndStore(t *testing.T) {
	store := newMemStore()
	m := newManager(t, store)

	snap, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Equal(t, 1, store.upserts)

	// competitors deduped by name, capped at 5
	assert.Len(t, snap.Competitors, 5)
	names := map[string]bool{}
	for _, c := range snap.Competitors {
		assert.False(t, names[c.Name], "duplicate competitor %s", c.Name)
		names[c.Name] = true
	}

	// second read is a cache hit: no new aggregation, no new upsert
	again, err := m.GetSnapshot(context.Background(), "Coffee Shop", "austin, us")
	require.NoError(t, err)
	assert.Equal(t, 1, store.upserts)
	assert.Equal(t, snap.CompositeScore, again.CompositeScore)
}

func TestGetSnapshotServedFromFreshDurable(t *testing.T) {
	store := newMemStore()
	fresh := &models.MarketSnapshot{
		Industry: "coffee shop", Location: "Austin, US",
		CompositeScore: 77, Reliability: models.ReliabilityHigh,
		LastUpdated: time.Now().UTC().Add(-time.Hour),
	}
	store.snaps[storeKey(fresh.Industry, fresh.Location)] = fresh

	m := newManager(t, store)
	snap, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Equal(t, 77.0, snap.CompositeScore)
	assert.Equal(t, 0, store.upserts, "fresh durable snapshot must not trigger aggregation")
}

func TestGetSnapshotDurableFreshAtSixDays(t *testing.T) {
	store := newMemStore()
	aging := &models.MarketSnapshot{
		Industry: "coffee shop", Location: "Austin, US",
		CompositeScore: 64, Reliability: models.ReliabilityMedium,
		LastUpdated: time.Now().UTC().Add(-6 * 24 * time.Hour),
	}
	store.snaps[storeKey(aging.Industry, aging.Location)] = aging

	m := newManager(t, store)
	snap, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Equal(t, 64.0, snap.CompositeScore)
	assert.Equal(t, 0, store.upserts, "a 6-day-old durable snapshot is still inside the 7-day window")
}

func TestGetSnapshotStaleDurableTriggersRefetch(t *testing.T) {
	store := newMemStore()
	stale := &models.MarketSnapshot{
		Industry: "coffee shop", Location: "Austin, US",
		CompositeScore: 12,
		LastUpdated:    time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	store.snaps[storeKey(stale.Industry, stale.Location)] = stale

	m := newManager(t, store)
	snap, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.NotEqual(t, 12.0, snap.CompositeScore)
	assert.Equal(t, 1, store.upserts)
}

func TestPersistenceFailureDoesNotBlockResult(t *testing.T) {
	store := newMemStore()
	store.failPut = true

	m := newManager(t, store)
	snap, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Greater(t, snap.CompositeScore, 0.0)
}

type slowTrends struct{ out *models.MarketTrends }

func (s slowTrends) MarketTrends(context.Context, string, string) *models.MarketTrends {
	time.Sleep(100 * time.Millisecond)
	return s.out
}

func TestConcurrentFetchesCoalesced(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(
		slowTrends{&models.MarketTrends{Metrics: models.IndustryMetrics{GrowthRate: 6}}},
		stubCompetitors{nil}, stubSentiment{nil}, nopMetrics{}, logger.Nop())
	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(100))
	t.Cleanup(func() { _ = mc.Close() })
	m := NewInsightsManager(agg, mc, store, nopMetrics{}, logger.Nop(),
		24*time.Hour, 7*24*time.Hour, 5000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.GetSnapshot(context.Background(), "coffee shop", "Austin, US")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.upserts, "concurrent fetches for one key must coalesce")
}

func TestPromptDigestOmitsMissingFields(t *testing.T) {
	digest := formatPromptDigest(&models.MarketSnapshot{
		Industry:       "coffee shop",
		Location:       "Austin, US",
		CompositeScore: 68,
		Reliability:    models.ReliabilityMedium,
	})

	assert.Contains(t, digest, "coffee shop")
	assert.Contains(t, digest, "68/100")
	assert.NotContains(t, digest, "N/A")
	assert.NotContains(t, digest, "GDP")
	assert.NotContains(t, digest, "competitors")
	assert.NotContains(t, digest, "\n")
}

func TestPromptDigestFullSnapshot(t *testing.T) {
	store := newMemStore()
	m := newManager(t, store)

	digest, err := m.GetMarketInsightsForPrompt(context.Background(), "coffee shop", "Austin, US")
	require.NoError(t, err)
	assert.Contains(t, digest, "GDP growth 2.5%")
	assert.Contains(t, digest, "nearby competitors")
	assert.Contains(t, digest, "sentiment positive")
	assert.NotContains(t, digest, "\n")
}
