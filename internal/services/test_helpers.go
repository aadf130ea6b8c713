package services

import (
	"context"

	"loginaudit/internal/models"
)

// MockAttemptStore is a func-field mock for AttemptStore
type MockAttemptStore struct {
	InsertFunc     func(ctx context.Context, attempt *models.LoginAttempt) (int64, error)
	ListAllFunc    func(ctx context.Context) ([]*models.LoginAttempt, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*models.LoginAttempt, error)
	DeleteByIDFunc func(ctx context.Context, id int64) (bool, error)
}

func (m *MockAttemptStore) Insert(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
	return m.InsertFunc(ctx, attempt)
}

func (m *MockAttemptStore) ListAll(ctx context.Context) ([]*models.LoginAttempt, error) {
	return m.ListAllFunc(ctx)
}

func (m *MockAttemptStore) GetByID(ctx context.Context, id int64) (*models.LoginAttempt, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAttemptStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return m.DeleteByIDFunc(ctx, id)
}

// MockUserLookup is a func-field mock for UserLookup / UserDirectory
type MockUserLookup struct {
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
}

func (m *MockUserLookup) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserLookup) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

// NoUsers returns a lookup where no account exists
func NoUsers() *MockUserLookup {
	return &MockUserLookup{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
}

// MemorySettings is an in-memory SettingsStore
type MemorySettings struct {
	values map[string]string
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]string)}
}

func (m *MemorySettings) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", models.ErrNotFound
	}
	return value, nil
}

func (m *MemorySettings) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

// fixedPolicy implements RecordingPolicy with a constant answer
type fixedPolicy bool

func (p fixedPolicy) LogUnknownLogins(ctx context.Context) (bool, error) {
	return bool(p), nil
}
