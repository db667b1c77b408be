package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/services/classify"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const (
	runLockKey = "scheduler:run"
	runLockTTL = 30 * time.Minute
)

// stalenessWindows maps a refresh priority tier to how old a snapshot may get
// before the scheduler refreshes it.
var stalenessWindows = map[classify.Priority]time.Duration{
	classify.PriorityHigh:   6 * time.Hour,
	classify.PriorityMedium: 24 * time.Hour,
	classify.PriorityLow:    7 * 24 * time.Hour,
}

// SchedulerConfig carries the batching knobs.
type SchedulerConfig struct {
	ScanInterval   time.Duration
	MaxPerRun      int
	BatchSize      int
	BatchPause     time.Duration
	ForceBatchSize int
	ForcePause     time.Duration
}

// Scheduler keeps persisted snapshots fresh. The work queue is implicit:
// every tracked snapshot older than its priority's staleness window is a
// candidate, oldest first. Runs are serialized through a cache lock so two
// instances (or an overlapping tick) never refresh concurrently.
type Scheduler struct {
	manager *InsightsManager
	store   repository.SnapshotStore
	audit   repository.AuditLog
	events  repository.EventPublisher
	cache   cache.Service
	metrics repository.Metrics
	log     *logger.Logger
	cfg     SchedulerConfig

	mu      sync.Mutex
	retries map[string]int

	now func() time.Time
}

func NewScheduler(manager *InsightsManager, store repository.SnapshotStore, audit repository.AuditLog, events repository.EventPublisher, cacheSvc cache.Service, metrics repository.Metrics, log *logger.Logger, cfg SchedulerConfig) *Scheduler {
	return &Scheduler{
		manager: manager,
		store:   store,
		audit:   audit,
		events:  events,
		cache:   cacheSvc,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
		retries: make(map[string]int),
		now:     time.Now,
	}
}

// Run ticks until ctx is done. Intended as a background goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.Error("scheduled refresh run failed", logger.Error(err))
			}
		}
	}
}

// RunOnce scans for stale snapshots and refreshes them in batches. Returns
// nil without work when another run holds the lock.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ok, err := s.cache.TryLock(ctx, runLockKey, runLockTTL)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("refresh run already in progress, skipping")
		return nil
	}
	defer func() {
		_ = s.cache.Unlock(context.Background(), runLockKey)
	}()

	stale, err := s.staleSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	s.log.Info("refreshing stale snapshots", logger.Int("count", len(stale)))
	s.processBatches(ctx, stale, s.cfg.BatchSize, s.cfg.BatchPause)
	return nil
}

// staleSnapshots returns refresh candidates oldest-first, capped at
// MaxPerRun.
func (s *Scheduler) staleSnapshots(ctx context.Context) ([]*models.MarketSnapshot, error) {
	snaps, err := s.store.ListOldestFirst(ctx, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var stale []*models.MarketSnapshot
	for _, snap := range snaps {
		window := stalenessWindows[classify.RefreshPriority(classify.Classify(snap.Industry))]
		if now.Sub(snap.LastUpdated) > window {
			stale = append(stale, snap)
			if len(stale) == s.cfg.MaxPerRun {
				break
			}
		}
	}
	return stale, nil
}

// processBatches refreshes snapshots batchSize at a time, pausing between
// batches out of courtesy to the upstream providers. Jobs inside a batch run
// concurrently and fail independently.
func (s *Scheduler) processBatches(ctx context.Context, snaps []*models.MarketSnapshot, batchSize int, pause time.Duration) {
	for start := 0; start < len(snaps); start += batchSize {
		end := start + batchSize
		if end > len(snaps) {
			end = len(snaps)
		}

		var g errgroup.Group
		for _, snap := range snaps[start:end] {
			snap := snap
			g.Go(func() error {
				s.refreshOne(ctx, snap.Industry, snap.Location)
				return nil
			})
		}
		_ = g.Wait()

		if end < len(snaps) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
		}
	}
}

// refreshOne refreshes a single pair and records the outcome in the audit
// log, the retry counter, the metrics and the optional event stream.
func (s *Scheduler) refreshOne(ctx context.Context, industry, location string) {
	key := snapshotKey(industry, location)
	snap, err := s.manager.Refresh(ctx, industry, location)

	entry := &models.RefreshAudit{
		ID:        uuid.NewString(),
		Industry:  industry,
		Location:  location,
		Timestamp: s.now().UTC(),
	}
	event := models.RefreshEvent{
		Industry:  industry,
		Location:  location,
		Timestamp: entry.Timestamp,
	}

	if err != nil {
		s.mu.Lock()
		s.retries[key]++
		entry.RetryCount = s.retries[key]
		s.mu.Unlock()

		entry.Status = models.RefreshFailed
		entry.Error = err.Error()
		event.Status = models.RefreshFailed
		s.metrics.RecordRefreshJob("failed")
		s.log.Warn("snapshot refresh failed",
			logger.String("industry", industry),
			logger.String("location", location),
			logger.Int("retries", entry.RetryCount),
			logger.Error(err))
	} else {
		s.mu.Lock()
		delete(s.retries, key)
		s.mu.Unlock()

		entry.Status = models.RefreshSuccess
		event.Status = models.RefreshSuccess
		event.Reliability = snap.Reliability
		event.Score = snap.CompositeScore
		s.metrics.RecordRefreshJob("success")
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn("audit append failed", logger.Error(err))
		s.metrics.RecordError("audit_write")
	}
	s.publish(ctx, event)
}

func (s *Scheduler) publish(ctx context.Context, event models.RefreshEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRefresh(ctx, event); err != nil {
		s.log.Warn("refresh event publish failed", logger.Error(err))
		s.metrics.RecordError("event_publish")
	}
}

// UpdateHighPriorityIndustry refreshes one pair immediately, bypassing
// staleness. Called when a request needs data that is not yet tracked.
func (s *Scheduler) UpdateHighPriorityIndustry(ctx context.Context, industry, location string) {
	s.refreshOne(ctx, industry, location)
}

// ForceRefreshAllData clears the cached snapshots and re-runs every tracked
// pair in smaller batches with a longer pause. It takes the same run lock as
// RunOnce and skips when another run is in progress.
func (s *Scheduler) ForceRefreshAllData(ctx context.Context) error {
	ok, err := s.cache.TryLock(ctx, runLockKey, runLockTTL)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("refresh run already in progress, skipping force refresh")
		return nil
	}
	defer func() {
		_ = s.cache.Unlock(context.Background(), runLockKey)
	}()

	snaps, err := s.store.ListOldestFirst(ctx, 0)
	if err != nil {
		return err
	}

	// Drop only snapshot entries. The run lock lives in the same cache and
	// must survive the clear.
	keys := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		keys = append(keys, snapshotKey(snap.Industry, snap.Location))
	}
	if len(keys) > 0 {
		if err := s.cache.Delete(ctx, keys...); err != nil {
			s.log.Warn("snapshot cache clear failed", logger.Error(err))
		}
	}

	s.log.Info("force refreshing all tracked pairs", logger.Int("count", len(snaps)))
	s.processBatches(ctx, snaps, s.cfg.ForceBatchSize, s.cfg.ForcePause)
	return nil
}
