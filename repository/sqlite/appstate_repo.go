package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/taskhub/backend/domain"
)

// GetAppState reads one key from the app_state table. A missing key is an
// empty value, not an error.
func (r *Repository) GetAppState(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ? LIMIT 1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", domain.StoreError("read app state", err)
	}
	return value, nil
}

// SetAppState upserts one key.
func (r *Repository) SetAppState(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.NewError(domain.ErrCodeValidation, "app state key must not be empty")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, strings.TrimSpace(value))
	if err != nil {
		return domain.StoreError("write app state", err)
	}
	return nil
}
