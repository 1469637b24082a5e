package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
)

// PostgresBackend implements Backend using PostgreSQL with pgx.
type PostgresBackend struct {
	pool          *pgxpool.Pool
	cleanupTicker *time.Ticker
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	retentionDays int
}

const pgDefaultRetentionDays = 30

// NewPostgresBackend creates a PostgreSQL-backed persistence layer.
// The backend must be started with Start() before the retention loop runs.
func NewPostgresBackend(dsn string, cfg BackendConfig) (*PostgresBackend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := ensurePostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	retentionDays := cfg.RetentionDays
	if retentionDays <= 0 {
		retentionDays = pgDefaultRetentionDays
	}

	return &PostgresBackend{
		pool:          pool,
		cleanupTicker: time.NewTicker(24 * time.Hour),
		stopChan:      make(chan struct{}),
		retentionDays: retentionDays,
	}, nil
}

// ensurePostgresSchema creates the usage_events table and indexes if they
// don't exist.
func ensurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL,
		prompt_tokens BIGINT NOT NULL DEFAULT 0,
		completion_tokens BIGINT NOT NULL DEFAULT 0,
		total_tokens BIGINT NOT NULL DEFAULT 0,
		model TEXT NOT NULL,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		error BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_usage_events_ts ON usage_events(ts);
	CREATE INDEX IF NOT EXISTS idx_usage_events_user ON usage_events(user_id);
	`
	_, err := pool.Exec(ctx, schema)
	return err
}

// Start begins the retention cleanup loop.
func (b *PostgresBackend) Start() error {
	b.wg.Add(1)
	go b.cleanupLoop()
	return nil
}

// Stop gracefully shuts down the backend and closes the pool.
func (b *PostgresBackend) Stop() error {
	if b == nil {
		return nil
	}
	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.cleanupTicker.Stop()
		b.wg.Wait()
		if b.pool != nil {
			b.pool.Close()
		}
	})
	return nil
}

// Insert appends one event.
func (b *PostgresBackend) Insert(ctx context.Context, event Event) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO usage_events (
			id, user_id, ts, prompt_tokens, completion_tokens,
			total_tokens, model, duration_ms, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.ID,
		event.UserID,
		event.Timestamp,
		event.PromptTokens,
		event.CompletionTokens,
		event.TotalTokens,
		event.Model,
		event.Duration,
		event.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}
	return nil
}

// QueryEvents returns events within the inclusive range, newest first.
func (b *PostgresBackend) QueryEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	if to.IsZero() {
		to = time.Now()
	}
	rows, err := b.pool.Query(ctx, `
		SELECT id, user_id, ts, prompt_tokens, completion_tokens,
		       total_tokens, model, duration_ms, error
		FROM usage_events
		WHERE ts >= $1 AND ts <= $2
		ORDER BY ts DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.PromptTokens,
			&e.CompletionTokens, &e.TotalTokens, &e.Model, &e.Duration, &e.Error); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Cleanup removes events older than the given time.
func (b *PostgresBackend) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	result, err := b.pool.Exec(ctx,
		`DELETE FROM usage_events WHERE ts < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// cleanupLoop periodically removes old events based on the retention policy.
func (b *PostgresBackend) cleanupLoop() {
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
