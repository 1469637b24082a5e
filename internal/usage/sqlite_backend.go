package usage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/tokenwatch/tokenwatch/internal/logging"
	_ "modernc.org/sqlite"
)

// SQLiteBackend implements Backend on a local SQLite file via modernc.org/sqlite.
type SQLiteBackend struct {
	db            *sql.DB
	cleanupTicker *time.Ticker
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	retentionDays int
}

const sqliteDefaultRetentionDays = 30

// NewSQLiteBackend opens (or creates) the database at path and ensures the
// schema exists. The backend must be started with Start() before the
// retention loop runs.
func NewSQLiteBackend(path string, cfg BackendConfig) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	retentionDays := cfg.RetentionDays
	if retentionDays <= 0 {
		retentionDays = sqliteDefaultRetentionDays
	}

	return &SQLiteBackend{
		db:            db,
		cleanupTicker: time.NewTicker(24 * time.Hour),
		stopChan:      make(chan struct{}),
		retentionDays: retentionDays,
	}, nil
}

// ensureSQLiteSchema creates the usage_events table and index if absent.
// Timestamps are stored as unix milliseconds for lossless range queries.
func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		ts_ms INTEGER NOT NULL,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		model TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_usage_events_ts ON usage_events(ts_ms);
	CREATE INDEX IF NOT EXISTS idx_usage_events_user ON usage_events(user_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Start begins the retention cleanup loop.
func (b *SQLiteBackend) Start() error {
	b.wg.Add(1)
	go b.cleanupLoop()
	return nil
}

// Stop shuts down the backend and closes the database.
func (b *SQLiteBackend) Stop() error {
	if b == nil {
		return nil
	}
	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.cleanupTicker.Stop()
		b.wg.Wait()
		if b.db != nil {
			_ = b.db.Close()
		}
	})
	return nil
}

// Insert appends one event.
func (b *SQLiteBackend) Insert(ctx context.Context, event Event) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO usage_events (
			id, user_id, ts_ms, prompt_tokens, completion_tokens,
			total_tokens, model, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.UserID,
		event.Timestamp.UnixMilli(),
		event.PromptTokens,
		event.CompletionTokens,
		event.TotalTokens,
		event.Model,
		event.Duration,
		boolToInt(event.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}
	return nil
}

// QueryEvents returns events within the inclusive range, newest first.
func (b *SQLiteBackend) QueryEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	fromMs, toMs := rangeMillis(from, to)
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, user_id, ts_ms, prompt_tokens, completion_tokens,
		       total_tokens, model, duration_ms, error
		FROM usage_events
		WHERE ts_ms >= ? AND ts_ms <= ?
		ORDER BY ts_ms DESC
	`, fromMs, toMs)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			tsMillis int64
			errFlag  int
		)
		if err := rows.Scan(&e.ID, &e.UserID, &tsMillis, &e.PromptTokens,
			&e.CompletionTokens, &e.TotalTokens, &e.Model, &e.Duration, &errFlag); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(tsMillis).UTC()
		e.Error = errFlag != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

// Cleanup removes events older than the given time.
func (b *SQLiteBackend) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	result, err := b.db.ExecContext(ctx,
		`DELETE FROM usage_events WHERE ts_ms < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// cleanupLoop periodically removes old events based on the retention policy.
func (b *SQLiteBackend) cleanupLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.cleanupTicker.C:
			cutoff := time.Now().AddDate(0, 0, -b.retentionDays)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			deleted, err := b.Cleanup(ctx, cutoff)
			cancel()
			if err != nil {
				log.Errorf("Failed to cleanup old usage events: %v", err)
			} else if deleted > 0 {
				log.Infof("Cleaned up %d usage events older than %d days", deleted, b.retentionDays)
			}
		case <-b.stopChan:
			return
		}
	}
}

// rangeMillis converts the inclusive [from, to] bounds to unix millisecond
// arguments, substituting open bounds for zero times.
func rangeMillis(from, to time.Time) (int64, int64) {
	fromMs := int64(0)
	if !from.IsZero() {
		fromMs = from.UnixMilli()
	}
	toMs := int64(1<<63 - 1)
	if !to.IsZero() {
		toMs = to.UnixMilli()
	}
	return fromMs, toMs
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
