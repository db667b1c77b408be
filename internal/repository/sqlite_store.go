// Package repository holds the storage implementations behind the domain
// repository interfaces: a SQLite snapshot store with an audit log, an
// optional ClickHouse signal archive and an optional Kafka event publisher.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	domrepo "github.com/mikey22333/startup-sub001/internal/domain/repository"
)

// SQLiteStore persists market snapshots and the refresh audit log. Snapshot
// rows are keyed UNIQUE(industry, geographic_scope); the upsert replaces the
// whole row so a snapshot is never partially updated.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path. ":memory:" is
// accepted for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS market_snapshots (
			industry         TEXT NOT NULL,
			geographic_scope TEXT NOT NULL,
			economy          TEXT NOT NULL DEFAULT '{}',
			industry_metrics TEXT NOT NULL DEFAULT '{}',
			competitors      TEXT NOT NULL DEFAULT '[]',
			sentiment        TEXT NOT NULL DEFAULT '{}',
			trends           TEXT NOT NULL DEFAULT '[]',
			opportunities    TEXT NOT NULL DEFAULT '[]',
			risks            TEXT NOT NULL DEFAULT '[]',
			composite_score  REAL NOT NULL DEFAULT 0,
			reliability      TEXT NOT NULL DEFAULT '',
			last_updated     INTEGER NOT NULL,
			UNIQUE(industry, geographic_scope)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_last_updated ON market_snapshots(last_updated)`,
		`CREATE TABLE IF NOT EXISTS refresh_audit (
			id          TEXT PRIMARY KEY,
			industry    TEXT NOT NULL,
			location    TEXT NOT NULL,
			status      TEXT NOT NULL,
			retry_count INTEGER NOT NULL DEFAULT 0,
			error       TEXT NOT NULL DEFAULT '',
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_created_at ON refresh_audit(created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// normalizeKey lowercases and trims so "Coffee / Austin" and "coffee/austin"
// land on the same row. Snapshots are stored under the normalized form.
func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func (s *SQLiteStore) Upsert(ctx context.Context, snap *models.MarketSnapshot) error {
	economy, err := json.Marshal(snap.Economy)
	if err != nil {
		return fmt.Errorf("marshal economy: %w", err)
	}
	metrics, err := json.Marshal(snap.IndustryMetrics)
	if err != nil {
		return fmt.Errorf("marshal industry metrics: %w", err)
	}
	competitors, err := json.Marshal(snap.Competitors)
	if err != nil {
		return fmt.Errorf("marshal competitors: %w", err)
	}
	sentiment, err := json.Marshal(snap.Sentiment)
	if err != nil {
		return fmt.Errorf("marshal sentiment: %w", err)
	}
	trends, _ := json.Marshal(snap.Trends)
	opportunities, _ := json.Marshal(snap.Opportunities)
	risks, _ := json.Marshal(snap.Risks)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO market_snapshots
			(industry, geographic_scope, economy, industry_metrics, competitors,
			 sentiment, trends, opportunities, risks, composite_score, reliability, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(industry, geographic_scope) DO UPDATE SET
			economy          = excluded.economy,
			industry_metrics = excluded.industry_metrics,
			competitors      = excluded.competitors,
			sentiment        = excluded.sentiment,
			trends           = excluded.trends,
			opportunities    = excluded.opportunities,
			risks            = excluded.risks,
			composite_score  = excluded.composite_score,
			reliability      = excluded.reliability,
			last_updated     = excluded.last_updated`,
		normalizeKey(snap.Industry), normalizeKey(snap.Location),
		string(economy), string(metrics), string(competitors), string(sentiment),
		string(trends), string(opportunities), string(risks),
		snap.CompositeScore, snap.Reliability, snap.LastUpdated.UTC().Unix())
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

const snapshotColumns = `industry, geographic_scope, economy, industry_metrics, competitors,
	sentiment, trends, opportunities, risks, composite_score, reliability, last_updated`

func (s *SQLiteStore) Get(ctx context.Context, industry, location string) (*models.MarketSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM market_snapshots
		WHERE industry = ? AND geographic_scope = ?`,
		normalizeKey(industry), normalizeKey(location))

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) ListOldestFirst(ctx context.Context, limit int) ([]*models.MarketSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM market_snapshots ORDER BY last_updated ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*models.MarketSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*models.MarketSnapshot, error) {
	var (
		snap                           models.MarketSnapshot
		economy, metrics, competitors  string
		sentiment, trends, opps, risks string
		lastUpdated                    int64
	)
	if err := row.Scan(&snap.Industry, &snap.Location, &economy, &metrics, &competitors,
		&sentiment, &trends, &opps, &risks, &snap.CompositeScore, &snap.Reliability,
		&lastUpdated); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(economy), &snap.Economy); err != nil {
		return nil, fmt.Errorf("decode economy: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &snap.IndustryMetrics); err != nil {
		return nil, fmt.Errorf("decode industry metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(competitors), &snap.Competitors); err != nil {
		return nil, fmt.Errorf("decode competitors: %w", err)
	}
	if err := json.Unmarshal([]byte(sentiment), &snap.Sentiment); err != nil {
		return nil, fmt.Errorf("decode sentiment: %w", err)
	}
	_ = json.Unmarshal([]byte(trends), &snap.Trends)
	_ = json.Unmarshal([]byte(opps), &snap.Opportunities)
	_ = json.Unmarshal([]byte(risks), &snap.Risks)

	snap.LastUpdated = time.Unix(lastUpdated, 0).UTC()
	return &snap, nil
}

// Append writes one audit row.
func (s *SQLiteStore) Append(ctx context.Context, entry *models.RefreshAudit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_audit (id, industry, location, status, retry_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Industry, entry.Location, entry.Status,
		entry.RetryCount, entry.Error, entry.Timestamp.UTC().Unix())
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// Recent returns the newest audit rows.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*models.RefreshAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, industry, location, status, retry_count, error, created_at
		FROM refresh_audit ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var out []*models.RefreshAudit
	for rows.Next() {
		var entry models.RefreshAudit
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.Industry, &entry.Location, &entry.Status,
			&entry.RetryCount, &entry.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		entry.Timestamp = time.Unix(createdAt, 0).UTC()
		out = append(out, &entry)
	}
	return out, rows.Err()
}
