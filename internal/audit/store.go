package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS barcode_audit (
	id             UUID PRIMARY KEY,
	action         TEXT NOT NULL,
	session_id     TEXT NOT NULL,
	source         TEXT NOT NULL DEFAULT '',
	generation     BIGINT NOT NULL DEFAULT 0,
	records        INTEGER NOT NULL DEFAULT 0,
	images_placed  INTEGER NOT NULL DEFAULT 0,
	images_omitted INTEGER NOT NULL DEFAULT 0,
	pages          INTEGER NOT NULL DEFAULT 0,
	ip_address     TEXT NOT NULL DEFAULT '',
	user_agent     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS barcode_audit_created_at_idx ON barcode_audit (created_at DESC);
`

// Store writes audit entries to PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pool and verifies it with a ping.
func Open(ctx context.Context, url string, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewStore wraps an open pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the audit table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Record inserts e, assigning an ID and timestamp when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO barcode_audit (
			id, action, session_id, source, generation, records,
			images_placed, images_omitted, pages, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, string(e.Action), e.SessionID, e.Source, int64(e.Generation), e.Records,
		e.ImagesPlaced, e.ImagesOmitted, e.Pages, e.IPAddress, e.UserAgent, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, action, session_id, source, generation, records,
			images_placed, images_omitted, pages, ip_address, user_agent, created_at
		FROM barcode_audit
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var (
			e          Entry
			action     string
			generation int64
		)
		err := row.Scan(&e.ID, &action, &e.SessionID, &e.Source, &generation, &e.Records,
			&e.ImagesPlaced, &e.ImagesOmitted, &e.Pages, &e.IPAddress, &e.UserAgent, &e.CreatedAt)
		e.Action = Action(action)
		e.Generation = uint64(generation)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan audit entries: %w", err)
	}
	return entries, nil
}
