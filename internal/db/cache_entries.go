package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CacheEntryRepository handles the cache_entries table. It satisfies the
// result cache's durable Store interface: reads never return rows past their
// deadline, and Sweep removes them for good.
type CacheEntryRepository struct {
	pool *pgxpool.Pool
}

// EnsureSchema creates the cache_entries table when it does not exist.
func (r *CacheEntryRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key        text PRIMARY KEY,
			value      jsonb NOT NULL,
			expires_at timestamptz NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("creating cache_entries table: %w", err)
	}
	return nil
}

// Get retrieves an unexpired entry by key.
func (r *CacheEntryRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM cache_entries
		WHERE key = $1 AND expires_at > now()
	`
	var value []byte
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying cache entry: %w", err)
	}
	return value, true, nil
}

// GetMany retrieves every unexpired entry among keys.
func (r *CacheEntryRepository) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	query := `
		SELECT key, value
		FROM cache_entries
		WHERE key = ANY($1) AND expires_at > now()
	`
	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("querying cache entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte, len(keys))
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Set upserts an entry, replacing value and deadline together.
func (r *CacheEntryRepository) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	query := `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := r.pool.Exec(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}
	return nil
}

// SetMany upserts multiple entries with a shared deadline efficiently.
func (r *CacheEntryRepository) SetMany(ctx context.Context, entries map[string][]byte, expiresAt time.Time) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO cache_entries (key, value, expires_at)
		SELECT k, v, $3 FROM unnest($1::text[], $2::jsonb[]) AS t(k, v)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`

	keys := make([]string, 0, len(entries))
	values := make([][]byte, 0, len(entries))
	for key, value := range entries {
		keys = append(keys, key)
		values = append(values, value)
	}

	if _, err := r.pool.Exec(ctx, query, keys, values, expiresAt); err != nil {
		return fmt.Errorf("batch upserting cache entries: %w", err)
	}
	return nil
}

// Delete removes an entry by key.
func (r *CacheEntryRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cache_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (r *CacheEntryRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("clearing cache entries: %w", err)
	}
	return nil
}

// Keys lists every unexpired key.
func (r *CacheEntryRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT key FROM cache_entries WHERE expires_at > now()`)
	if err != nil {
		return nil, fmt.Errorf("querying cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning cache key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Sweep deletes expired entries and reports how many were removed.
func (r *CacheEntryRepository) Sweep(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("sweeping cache entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
