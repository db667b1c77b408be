package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/cache"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

type memAudit struct {
	mu      sync.Mutex
	entries []*models.RefreshAudit
}

func (a *memAudit) Append(_ context.Context, entry *models.RefreshAudit) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *memAudit) Recent(_ context.Context, limit int) ([]*models.RefreshAudit, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.entries
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []models.RefreshEvent
}

func (e *memEvents) PublishRefresh(_ context.Context, ev models.RefreshEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return nil
}

func newScheduler(t *testing.T, store *memStore) (*Scheduler, *memAudit, *memEvents, cache.Service) {
	t.Helper()
	audit := &memAudit{}
	events := &memEvents{}
	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(100))
	t.Cleanup(func() { _ = mc.Close() })

	m := newManager(t, store)
	s := NewScheduler(m, store, audit, events, mc, nopMetrics{}, logger.Nop(), SchedulerConfig{
		ScanInterval:   time.Hour,
		MaxPerRun:      50,
		BatchSize:      5,
		BatchPause:     10 * time.Millisecond,
		ForceBatchSize: 3,
		ForcePause:     10 * time.Millisecond,
	})
	return s, audit, events, mc
}

func track(store *memStore, industry, location string, age time.Duration) {
	snap := &models.MarketSnapshot{
		Industry:    industry,
		Location:    location,
		LastUpdated: time.Now().UTC().Add(-age),
	}
	store.snaps[storeKey(industry, location)] = snap
}

func TestRunOnceRefreshesOnlyStale(t *testing.T) {
	store := newMemStore()
	// food is HIGH priority (6h window); 8h old → stale
	track(store, "coffee shop", "Austin, US", 8*time.Hour)
	// 1h old → fresh
	track(store, "coffee shop", "Portland, US", time.Hour)
	// consulting is LOW (7d); 2d old → fresh
	track(store, "consulting firm", "Austin, US", 48*time.Hour)

	s, audit, events, _ := newScheduler(t, store)
	require.NoError(t, s.RunOnce(context.Background()))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "coffee shop", audit.entries[0].Industry)
	assert.Equal(t, "Austin, US", audit.entries[0].Location)
	assert.Equal(t, models.RefreshSuccess, audit.entries[0].Status)
	assert.Equal(t, 0, audit.entries[0].RetryCount)
	assert.NotEmpty(t, audit.entries[0].ID)

	require.Len(t, events.events, 1)
	assert.Equal(t, models.RefreshSuccess, events.events[0].Status)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	store := newMemStore()
	track(store, "coffee shop", "Austin, US", 8*time.Hour)

	s, audit, _, mc := newScheduler(t, store)
	ok, err := mc.TryLock(context.Background(), runLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Empty(t, audit.entries)
}

func TestStaleSnapshotsOldestFirstCapped(t *testing.T) {
	store := newMemStore()
	s, _, _, _ := newScheduler(t, store)
	s.cfg.MaxPerRun = 2

	track(store, "coffee shop", "A", 10*time.Hour)
	track(store, "coffee shop", "B", 20*time.Hour)
	track(store, "coffee shop", "C", 30*time.Hour)

	stale, err := s.staleSnapshots(context.Background())
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}

func TestRetryCounterTracksConsecutiveFailures(t *testing.T) {
	store := newMemStore()
	s, audit, _, _ := newScheduler(t, store)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	s.refreshOne(canceled, "coffee shop", "Austin, US")
	s.refreshOne(canceled, "coffee shop", "Austin, US")

	require.Len(t, audit.entries, 2)
	assert.Equal(t, models.RefreshFailed, audit.entries[0].Status)
	assert.Equal(t, 1, audit.entries[0].RetryCount)
	assert.Equal(t, 2, audit.entries[1].RetryCount)
	assert.NotEmpty(t, audit.entries[1].Error)

	// success resets the counter
	s.refreshOne(context.Background(), "coffee shop", "Austin, US")
	require.Len(t, audit.entries, 3)
	assert.Equal(t, models.RefreshSuccess, audit.entries[2].Status)
	assert.Equal(t, 0, audit.entries[2].RetryCount)

	s.refreshOne(canceled, "coffee shop", "Austin, US")
	assert.Equal(t, 1, audit.entries[3].RetryCount)
}

func TestUpdateHighPriorityIndustryBypassesStaleness(t *testing.T) {
	store := newMemStore()
	// fresh snapshot: a scan would skip it
	track(store, "coffee shop", "Austin, US", time.Minute)

	s, audit, _, _ := newScheduler(t, store)
	s.UpdateHighPriorityIndustry(context.Background(), "coffee shop", "Austin, US")

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.RefreshSuccess, audit.entries[0].Status)
	assert.Equal(t, 1, store.upserts)
}

func TestForceRefreshAllData(t *testing.T) {
	store := newMemStore()
	track(store, "coffee shop", "Austin, US", time.Minute)
	track(store, "coffee shop", "Portland, US", time.Minute)
	track(store, "consulting firm", "Austin, US", time.Minute)
	track(store, "gym", "Austin, US", time.Minute)

	s, audit, _, mc := newScheduler(t, store)

	// the clear drops snapshot keys only; unrelated entries survive
	require.NoError(t, mc.Set(context.Background(), "sentinel", "v", time.Hour))

	require.NoError(t, s.ForceRefreshAllData(context.Background()))

	var v string
	assert.NoError(t, mc.Get(context.Background(), "sentinel", &v))
	assert.Len(t, audit.entries, 4)
	assert.Equal(t, 4, store.upserts)

	// the run lock is released once the run completes
	ok, err := mc.TryLock(context.Background(), runLockKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForceRefreshRespectsRunLock(t *testing.T) {
	store := newMemStore()
	track(store, "coffee shop", "Austin, US", time.Minute)

	s, audit, _, mc := newScheduler(t, store)

	ok, err := mc.TryLock(context.Background(), runLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.ForceRefreshAllData(context.Background()))
	assert.Empty(t, audit.entries)
	assert.Equal(t, 0, store.upserts)

	// the lock held by the in-flight run must survive the force refresh
	ok, err = mc.TryLock(context.Background(), runLockKey, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
