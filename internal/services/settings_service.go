package services

import (
	"context"
	"errors"
	"fmt"

	"loginaudit/internal/models"
)

// SettingUnknownLogins is the persisted flag controlling whether failed
// attempts for unknown usernames are recorded. Stored as "0"/"1".
const SettingUnknownLogins = "dvp_unknown_logins"

// SettingsStore defines the persistence contract for configuration entries
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SettingsService exposes the recording policy flag
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// LogUnknownLogins reports whether attempts for unknown usernames should
// be recorded. Defaults to true when the flag has never been set.
func (s *SettingsService) LogUnknownLogins(ctx context.Context) (bool, error) {
	value, err := s.store.Get(ctx, SettingUnknownLogins)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", SettingUnknownLogins, err)
	}

	return value == "1", nil
}

// SetLogUnknownLogins unconditionally overwrites the flag
func (s *SettingsService) SetLogUnknownLogins(ctx context.Context, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}

	return s.store.Set(ctx, SettingUnknownLogins, value)
}
