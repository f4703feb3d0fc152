package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/csv2sendy/internal/config"
)

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS working_tables (
	id         uuid PRIMARY KEY,
	payload    jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	expires_at timestamptz NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS working_tables_expires_at_idx ON working_tables (expires_at)`,
}

const (
	upsertSQL = `
INSERT INTO working_tables (id, payload, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at`

	selectSQL = `SELECT payload FROM working_tables WHERE id = $1 AND expires_at > now()`
	deleteSQL = `DELETE FROM working_tables WHERE id = $1`
	sweepSQL  = `DELETE FROM working_tables WHERE expires_at <= now()`
)

// PostgresStore keeps entries in the working_tables table. Expired rows are
// hidden from Get immediately and removed by Sweep.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore wraps an existing pool. Call EnsureSchema before use.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// ConnectPostgres opens a pool from cfg and verifies it with a ping.
func ConnectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, retryPermanent(fmt.Errorf("parse database URL: %w", err))
	}

	// Apply pool configuration from config
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = "csv2sendy"
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create working_tables: %w", err)
		}
	}
	return nil
}

// pgID converts a handle to a uuid parameter. Malformed handles cannot
// exist in the table.
func pgID(id string) (pgtype.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: u, Valid: true}, true
}

func (s *PostgresStore) Put(ctx context.Context, id string, e *Entry) error {
	key, ok := pgID(id)
	if !ok {
		return fmt.Errorf("put session: invalid id %q", id)
	}
	data, err := encode(e)
	if err != nil {
		return err
	}
	expires := pgtype.Timestamptz{Time: time.Now().Add(s.ttl), Valid: true}
	if _, err := s.pool.Exec(ctx, upsertSQL, key, data, expires); err != nil {
		return fmt.Errorf("insert working table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Entry, error) {
	key, ok := pgID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var data []byte
	err := s.pool.QueryRow(ctx, selectSQL, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select working table: %w", err)
	}
	return decode(data)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	key, ok := pgID(id)
	if !ok {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, deleteSQL, key)
	if err != nil {
		return fmt.Errorf("delete working table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Sweep deletes expired rows and returns how many were removed.
func (s *PostgresStore) Sweep(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, sweepSQL)
	if err != nil {
		return 0, fmt.Errorf("sweep working tables: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
