package repository

import (
	"context"
	"errors"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore is the durable store for market snapshots. Upsert is keyed by
// (industry, geographic scope) and that uniqueness is the last line of
// defense against concurrent duplicate writes.
type SnapshotStore interface {
	Upsert(ctx context.Context, snap *models.MarketSnapshot) error
	Get(ctx context.Context, industry, location string) (*models.MarketSnapshot, error)
	// ListOldestFirst returns tracked snapshots ordered by last_updated
	// ascending, at most limit rows (limit <= 0 means no cap).
	ListOldestFirst(ctx context.Context, limit int) ([]*models.MarketSnapshot, error)
}

// AuditLog records every scheduler refresh job outcome.
type AuditLog interface {
	Append(ctx context.Context, entry *models.RefreshAudit) error
	Recent(ctx context.Context, limit int) ([]*models.RefreshAudit, error)
}

// SignalArchive optionally persists scored market signals for offline
// analysis. Archive failures must never fail the caller.
type SignalArchive interface {
	Archive(ctx context.Context, signals []models.MarketSignal) error
}

// EventPublisher publishes refresh outcomes to downstream consumers.
type EventPublisher interface {
	PublishRefresh(ctx context.Context, ev models.RefreshEvent) error
}

// Metrics abstracts the Prometheus recorder for the domain layer.
type Metrics interface {
	RecordAdapterCall(adapter, outcome string)
	RecordCacheEvent(layer, event string)
	RecordRefreshJob(status string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
