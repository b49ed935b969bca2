package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anongap/anongap/internal/common"
	"github.com/anongap/anongap/internal/dbx"
)

// PostgresStore implements Store over a dbx.DBTX (*sql.DB or *sql.Tx).
// Expired rows are filtered on read; the kv_records migration adds an index
// on expires_at so a periodic sweep can prune them cheaply.
type PostgresStore struct {
	db dbx.DBTX
}

// NewPostgresStore constructs a store bound to the given DBTX.
func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, namespace, id string) ([]byte, error) {
	query := `
		SELECT value FROM kv_records
		WHERE namespace = $1 AND id = $2
		  AND (expires_at IS NULL OR expires_at > now())
	`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, namespace, id).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, namespace, id string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO kv_records (namespace, id, value, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, id)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, query, namespace, id, value, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, namespace, id string) error {
	query := `DELETE FROM kv_records WHERE namespace = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, namespace, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListIDs(ctx context.Context, namespace, prefix string) ([]string, error) {
	query := `
		SELECT id FROM kv_records
		WHERE namespace = $1 AND id LIKE $2 || '%'
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, namespace, prefix)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
