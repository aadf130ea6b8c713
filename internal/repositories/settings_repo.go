package repositories

import (
	"context"
	"fmt"

	"loginaudit/internal/database"
)

// SettingsRepository handles the persisted key/value configuration entries
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value for a key, or models.ErrNotFound if unset
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var value string
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		return "", database.MapPostgresError(err)
	}

	return value, nil
}

// Set unconditionally overwrites a key. Last writer wins.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := r.db.Pool.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}

	return nil
}
