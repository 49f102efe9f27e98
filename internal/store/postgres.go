package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Schema creates the single table used by PostgresRepository.
const Schema = `
	CREATE TABLE IF NOT EXISTS collections (
		key        TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// NewDB opens a postgres connection and verifies it.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// PostgresRepository stores each collection snapshot as one JSONB row.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the collections table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

// Get retrieves a collection snapshot by key
func (r *PostgresRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM collections WHERE key = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", key, err)
	}

	return data, nil
}

const upsertQuery = `
	INSERT INTO collections (key, data, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at
`

// Put inserts or replaces a collection snapshot
func (r *PostgresRepository) Put(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertQuery, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", key, err)
	}
	return nil
}

// PutAll replaces several snapshots in one transaction
func (r *PostgresRepository) PutAll(ctx context.Context, values map[string][]byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Deterministic order keeps lock acquisition stable across writers.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now()
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, upsertQuery, k, values[k], now); err != nil {
			return fmt.Errorf("failed to save collection %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes collection snapshots
func (r *PostgresRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM collections WHERE key = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to delete collections: %w", err)
	}
	return nil
}

// Inventory returns every stored key with its last write time
func (r *PostgresRepository) Inventory(ctx context.Context) ([]KeyInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, updated_at FROM collections ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var out []KeyInfo
	for rows.Next() {
		var info KeyInfo
		if err := rows.Scan(&info.Key, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		out = append(out, info)
	}

	return out, rows.Err()
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
