// README: KV backed by a single PostgreSQL table; batches run in one transaction.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxibook/internal/types"
)

const createKVTable = `
    CREATE TABLE IF NOT EXISTS kv_records (
        key        TEXT PRIMARY KEY,
        value      TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`

type PostgresKV struct {
	db *pgxpool.Pool
}

func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

// Migrate creates the record table if it does not exist.
func (s *PostgresKV) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("%w: create kv_records: %v", types.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_records WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: postgres get %s: %v", types.ErrPersistenceUnavailable, key, err)
	}
	return v, true, nil
}

func (s *PostgresKV) Write(ctx context.Context, b Batch) error {
	if b.Empty() {
		return nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: postgres begin: %v", types.ErrPersistenceUnavailable, err)
	}
	defer tx.Rollback(ctx)

	for k, v := range b.Set {
		_, err := tx.Exec(ctx, `
            INSERT INTO kv_records (key, value, updated_at)
            VALUES ($1, $2, NOW())
            ON CONFLICT (key) DO UPDATE
            SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, k, v)
		if err != nil {
			return fmt.Errorf("%w: postgres set %s: %v", types.ErrPersistenceUnavailable, k, err)
		}
	}
	if len(b.Delete) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM kv_records WHERE key = ANY($1)`, b.Delete); err != nil {
			return fmt.Errorf("%w: postgres delete: %v", types.ErrPersistenceUnavailable, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: postgres commit: %v", types.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *PostgresKV) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: postgres ping: %v", types.ErrPersistenceUnavailable, err)
	}
	return nil
}
