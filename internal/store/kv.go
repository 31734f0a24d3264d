package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetKV returns the value stored under key, or "" and false when unset.
func (db *DB) GetKV(ctx context.Context, key string) (string, bool, error) {
	var v sql.NullString
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return v.String, true, nil
}

// SetKV upserts a key-value pair.
func (db *DB) SetKV(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}
