package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"loginaudit/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuditService_ShouldLog_AlwaysTrueWhenPolicyOn(t *testing.T) {
	svc := NewAuditService(&MockAttemptStore{}, NoUsers(), fixedPolicy(true), slog.Default())

	for _, login := range []string{"alice", "nobody", "ghost@example.com", ""} {
		ok, err := svc.ShouldLog(context.Background(), login)
		assert.NoError(t, err)
		assert.True(t, ok, "policy on must log %q regardless of account existence", login)
	}
}

func TestAuditService_ShouldLog_UnknownUserSkippedWhenPolicyOff(t *testing.T) {
	svc := NewAuditService(&MockAttemptStore{}, NoUsers(), fixedPolicy(false), slog.Default())

	ok, err := svc.ShouldLog(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ShouldLog(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAuditService_ShouldLog_ClassifiesEmailVsUsername(t *testing.T) {
	var emailLookups, usernameLookups []string
	users := &MockUserLookup{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			emailLookups = append(emailLookups, email)
			return &models.User{Username: "alice"}, nil
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			usernameLookups = append(usernameLookups, username)
			return &models.User{Username: username}, nil
		},
	}

	svc := NewAuditService(&MockAttemptStore{}, users, fixedPolicy(false), slog.Default())

	_, err := svc.ShouldLog(context.Background(), "alice@example.com")
	assert.NoError(t, err)
	_, err = svc.ShouldLog(context.Background(), "alice")
	assert.NoError(t, err)

	assert.Equal(t, []string{"alice@example.com"}, emailLookups)
	assert.Equal(t, []string{"alice"}, usernameLookups)
}

func TestAuditService_RecordFailedLogin_InsertsRecord(t *testing.T) {
	var inserted *models.LoginAttempt
	store := &MockAttemptStore{
		InsertFunc: func(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
			inserted = attempt
			return 1, nil
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return fixed })

	err := svc.RecordFailedLogin(context.Background(), "mallory", "203.0.113.5")

	assert.NoError(t, err)
	assert.NotNil(t, inserted)
	assert.Equal(t, "mallory", inserted.Login)
	assert.Equal(t, "203.0.113.5", inserted.IP)
	assert.Equal(t, fixed, inserted.Time)
}

func TestAuditService_RecordFailedLogin_InvalidIPBecomesSentinel(t *testing.T) {
	var inserted *models.LoginAttempt
	store := &MockAttemptStore{
		InsertFunc: func(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
			inserted = attempt
			return 1, nil
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())

	err := svc.RecordFailedLogin(context.Background(), "mallory", "not-an-ip")

	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0", inserted.IP)
}

func TestAuditService_RecordFailedLogin_TruncatesLongLogin(t *testing.T) {
	var inserted *models.LoginAttempt
	store := &MockAttemptStore{
		InsertFunc: func(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
			inserted = attempt
			return 1, nil
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())

	long := strings.Repeat("a", models.MaxLoginLength+50)
	err := svc.RecordFailedLogin(context.Background(), long, "203.0.113.5")

	assert.NoError(t, err)
	assert.Len(t, inserted.Login, models.MaxLoginLength)
}

func TestAuditService_RecordFailedLogin_KnownUsersOnlyScenario(t *testing.T) {
	// Policy off, only "alice" exists: her attempt is stored, bob's is not
	var inserted []*models.LoginAttempt
	store := &MockAttemptStore{
		InsertFunc: func(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
			inserted = append(inserted, attempt)
			return int64(len(inserted)), nil
		},
	}
	users := &MockUserLookup{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return &models.User{Username: "alice"}, nil
			}
			return nil, models.ErrNotFound
		},
	}

	svc := NewAuditService(store, users, fixedPolicy(false), slog.Default())
	ctx := context.Background()

	assert.NoError(t, svc.RecordFailedLogin(ctx, "alice", "203.0.113.5"))
	assert.NoError(t, svc.RecordFailedLogin(ctx, "bob", "198.51.100.9"))

	assert.Len(t, inserted, 1)
	assert.Equal(t, "alice", inserted[0].Login)
	assert.Equal(t, "203.0.113.5", inserted[0].IP)
}

func TestAuditService_RecordFailedLogin_PropagatesStorageError(t *testing.T) {
	store := &MockAttemptStore{
		InsertFunc: func(ctx context.Context, attempt *models.LoginAttempt) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())

	err := svc.RecordFailedLogin(context.Background(), "mallory", "203.0.113.5")

	assert.Error(t, err)
}

func TestAuditService_DeleteAttempt_ReportsExistence(t *testing.T) {
	deleted := map[int64]bool{7: true}
	store := &MockAttemptStore{
		DeleteByIDFunc: func(ctx context.Context, id int64) (bool, error) {
			existed := deleted[id]
			delete(deleted, id)
			return existed, nil
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())
	ctx := context.Background()

	existed, err := svc.DeleteAttempt(ctx, 7)
	assert.NoError(t, err)
	assert.True(t, existed)

	// Second delete of the same id is a no-op
	existed, err = svc.DeleteAttempt(ctx, 7)
	assert.NoError(t, err)
	assert.False(t, existed)
}

func TestAuditService_GetAttempt_NotFound(t *testing.T) {
	store := &MockAttemptStore{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.LoginAttempt, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := NewAuditService(store, NoUsers(), fixedPolicy(true), slog.Default())

	_, err := svc.GetAttempt(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
