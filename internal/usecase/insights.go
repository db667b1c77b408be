package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/util"
)

const (
	snapshotKeyPrefix = "snapshot"
	maxMergedComps    = 5
	fetchTimeout      = 90 * time.Second
)

// InsightsManager is the read-through cache and persistence layer in front of
// the aggregator. Lookup order: memory cache (24h TTL), durable store (fresh
// within 7 days), live aggregation. Concurrent fetches for the same key are
// coalesced, and a fetch runs to completion even when its caller gives up, so
// the result still lands in the cache.
type InsightsManager struct {
	aggregator *Aggregator
	cache      cache.Service
	store      repository.SnapshotStore
	metrics    repository.Metrics
	log        *logger.Logger

	cacheTTL  time.Duration
	freshness time.Duration
	radius    int

	group singleflight.Group
	now   func() time.Time
}

func NewInsightsManager(aggregator *Aggregator, cacheSvc cache.Service, store repository.SnapshotStore, metrics repository.Metrics, log *logger.Logger, cacheTTL, freshness time.Duration, competitorRadius int) *InsightsManager {
	return &InsightsManager{
		aggregator: aggregator,
		cache:      cacheSvc,
		store:      store,
		metrics:    metrics,
		log:        log,
		cacheTTL:   cacheTTL,
		freshness:  freshness,
		radius:     competitorRadius,
		now:        time.Now,
	}
}

// snapshotKey normalizes the pair so "Coffee / Austin" and "coffee/austin"
// share one entry.
func snapshotKey(industry, location string) string {
	return cache.Key(snapshotKeyPrefix,
		strings.ToLower(strings.TrimSpace(industry)),
		strings.ToLower(strings.TrimSpace(location)))
}

// GetSnapshot returns the market snapshot for a pair, fetching through the
// cache hierarchy as needed.
func (m *InsightsManager) GetSnapshot(ctx context.Context, industry, location string) (*models.MarketSnapshot, error) {
	key := snapshotKey(industry, location)

	var cached models.MarketSnapshot
	if err := m.cache.Get(ctx, key, &cached); err == nil {
		m.metrics.RecordCacheEvent("memory", "hit")
		return &cached, nil
	}
	m.metrics.RecordCacheEvent("memory", "miss")

	if snap, err := m.store.Get(ctx, industry, location); err == nil {
		if m.now().Sub(snap.LastUpdated) <= m.freshness {
			m.metrics.RecordCacheEvent("durable", "hit")
			m.populateCache(key, snap)
			return snap, nil
		}
		m.metrics.RecordCacheEvent("durable", "stale")
	} else if err != repository.ErrNotFound {
		m.log.Warn("durable store read failed", logger.Error(err))
		m.metrics.RecordError("store_read")
	}

	return m.fetch(ctx, industry, location)
}

// Refresh bypasses both cache layers and rebuilds the snapshot from live
// adapters. Used by the scheduler and the explicit refresh endpoints.
func (m *InsightsManager) Refresh(ctx context.Context, industry, location string) (*models.MarketSnapshot, error) {
	return m.fetch(ctx, industry, location)
}

// fetch coalesces concurrent aggregations per key. The inner fetch detaches
// from the caller's context: an abandoned request must still finish and
// populate the cache for the next caller.
func (m *InsightsManager) fetch(ctx context.Context, industry, location string) (*models.MarketSnapshot, error) {
	key := snapshotKey(industry, location)

	ch := m.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		opts := models.DefaultMarketDataOptions()
		opts.CompetitorRadius = m.radius

		data := m.aggregator.ComprehensiveMarketData(fetchCtx, industry, location, opts)
		snap := buildSnapshot(data, m.now().UTC())

		if err := m.store.Upsert(fetchCtx, snap); err != nil {
			// persistence is best-effort: the caller still gets the data
			m.log.Error("snapshot upsert failed",
				logger.String("industry", industry),
				logger.String("location", location),
				logger.Error(err))
			m.metrics.RecordError("store_write")
		}
		m.populateCache(key, snap)
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.MarketSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *InsightsManager) populateCache(key string, snap *models.MarketSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.cache.Set(ctx, key, snap, m.cacheTTL); err != nil {
		m.log.Warn("cache populate failed", logger.String("key", key), logger.Error(err))
	}
}

// buildSnapshot merges the aggregator's per-source payloads into the durable
// record: competitors deduplicated by exact name keeping the first five,
// trend strings deduplicated, economic indicators already merged fill-missing
// by the trends adapter chain.
func buildSnapshot(data *models.ComprehensiveMarketData, at time.Time) *models.MarketSnapshot {
	snap := &models.MarketSnapshot{
		Industry:       data.Industry,
		Location:       data.Location,
		Risks:          data.RiskFactors,
		CompositeScore: data.MarketScore,
		Reliability:    data.DataQuality.OverallReliability,
		LastUpdated:    at,
	}

	var trends []string
	if data.Trends != nil {
		snap.Economy = data.Trends.Economy
		snap.IndustryMetrics = data.Trends.Metrics
		trends = append(trends, data.Trends.Metrics.KeyDrivers...)
	}

	if data.Competitors != nil {
		snap.Competitors = dedupCompetitors(data.Competitors.Competitors, maxMergedComps)
		snap.Opportunities = util.DedupStrings(data.Competitors.Opportunities)
	}

	if data.Sentiment != nil {
		snap.Sentiment = data.Sentiment.Overall
		trends = append(trends, data.Sentiment.TrendingTopics...)
	}

	snap.Trends = util.DedupStrings(trends)
	return snap
}

func dedupCompetitors(comps []models.CompetitorRecord, limit int) []models.CompetitorRecord {
	seen := make(map[string]struct{}, len(comps))
	out := make([]models.CompetitorRecord, 0, limit)
	for _, c := range comps {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// GetMarketInsightsForPrompt renders the snapshot as one compact line for the
// downstream text-generation consumer. Unavailable fields are omitted rather
// than rendered as "N/A".
func (m *InsightsManager) GetMarketInsightsForPrompt(ctx context.Context, industry, location string) (string, error) {
	snap, err := m.GetSnapshot(ctx, industry, location)
	if err != nil {
		return "", err
	}
	return formatPromptDigest(snap), nil
}

func formatPromptDigest(snap *models.MarketSnapshot) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Market: %s in %s", snap.Industry, snap.Location))
	parts = append(parts, fmt.Sprintf("score %.0f/100 (%s reliability)", snap.CompositeScore, strings.ToLower(snap.Reliability)))

	if g := snap.Economy.GDPGrowth; g != nil {
		parts = append(parts, fmt.Sprintf("GDP growth %.1f%%", *g))
	}
	if inf := snap.Economy.Inflation; inf != nil {
		parts = append(parts, fmt.Sprintf("inflation %.1f%%", *inf))
	}
	if snap.IndustryMetrics.GrowthRate != 0 {
		parts = append(parts, fmt.Sprintf("industry growth %.1f%%/yr", snap.IndustryMetrics.GrowthRate))
	}
	if n := len(snap.Competitors); n > 0 {
		names := make([]string, 0, n)
		for _, c := range snap.Competitors {
			names = append(names, c.Name)
		}
		parts = append(parts, fmt.Sprintf("%d nearby competitors (%s)", n, util.JoinMax(names, 3)))
	}
	if snap.Sentiment.Volume > 0 {
		parts = append(parts, fmt.Sprintf("consumer sentiment %s (%.2f, %d mentions)",
			strings.ToLower(string(snap.Sentiment.Label)), snap.Sentiment.Score, snap.Sentiment.Volume))
	}
	if len(snap.Trends) > 0 {
		parts = append(parts, "trends: "+util.JoinMax(snap.Trends, 4))
	}
	if len(snap.Risks) > 0 {
		parts = append(parts, "risks: "+util.JoinMax(snap.Risks, 3))
	}

	return strings.Join(parts, "; ")
}
