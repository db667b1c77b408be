package repository

import (
	"context"
	"fmt"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	pkgch "github.com/mikey22333/startup-sub001/pkg/clickhouse"
)

// SignalArchive appends scored market signals to ClickHouse for offline
// analysis. The table is append-only; signals are immutable once written.
type SignalArchive struct {
	client *pkgch.Client
}

var signalSchema = []string{
	`CREATE TABLE IF NOT EXISTS market_signals (
		keyword     String,
		platform    LowCardinality(String),
		label       LowCardinality(String),
		score       Float64,
		confidence  Float64,
		volume      Int32,
		text        String,
		engagement  Int32,
		ts          DateTime64(3)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (keyword, ts)`,
}

func NewSignalArchive(ctx context.Context, client *pkgch.Client) (*SignalArchive, error) {
	if err := client.InitSchema(ctx, signalSchema); err != nil {
		return nil, err
	}
	return &SignalArchive{client: client}, nil
}

func (a *SignalArchive) Archive(ctx context.Context, signals []models.MarketSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO market_signals
			(keyword, platform, label, score, confidence, volume, text, engagement, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive prepare: %w", err)
	}
	defer stmt.Close()

	for _, s := range signals {
		if _, err := stmt.ExecContext(ctx, s.Keyword, s.Platform, string(s.Label),
			s.Score, s.Confidence, s.Volume, s.Text, s.Engagement, s.Timestamp); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive commit: %w", err)
	}
	return nil
}
