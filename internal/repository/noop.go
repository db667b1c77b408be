package repository

import (
	"context"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

// NoopSignalArchive satisfies the archive interface when ClickHouse is
// disabled.
type NoopSignalArchive struct{}

func (NoopSignalArchive) Archive(context.Context, []models.MarketSignal) error { return nil }

// NoopEventPublisher satisfies the publisher interface when Kafka is
// disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishRefresh(context.Context, models.RefreshEvent) error { return nil }
