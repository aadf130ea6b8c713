package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginaudit/internal/models"
	"loginaudit/internal/repositories"
	"loginaudit/internal/services"
)

func setupDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testDB.Teardown(context.Background())
	})

	return testDB
}

func TestLoginAttemptRepository_InsertAndGet(t *testing.T) {
	testDB := setupDB(t)
	repo := repositories.NewLoginAttemptRepository(testDB.DB)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	id, err := repo.Insert(ctx, &models.LoginAttempt{
		Login: "mallory",
		IP:    "203.0.113.5",
		Time:  at,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "mallory", got.Login)
	assert.Equal(t, "203.0.113.5", got.IP)
	assert.True(t, got.Time.Equal(at))
}

func TestLoginAttemptRepository_ListAll(t *testing.T) {
	testDB := setupDB(t)
	repo := repositories.NewLoginAttemptRepository(testDB.DB)
	ctx := context.Background()

	attempts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	for _, login := range []string{"alice", "bob", "mallory"} {
		_, err := repo.Insert(ctx, &models.LoginAttempt{
			Login: login,
			IP:    "203.0.113.5",
			Time:  time.Now().UTC().Truncate(time.Second),
		})
		require.NoError(t, err)
	}

	attempts, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	logins := []string{attempts[0].Login, attempts[1].Login, attempts[2].Login}
	assert.ElementsMatch(t, []string{"alice", "bob", "mallory"}, logins)
}

func TestLoginAttemptRepository_DeleteByID(t *testing.T) {
	testDB := setupDB(t)
	repo := repositories.NewLoginAttemptRepository(testDB.DB)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &models.LoginAttempt{
		Login: "mallory",
		IP:    "203.0.113.5",
		Time:  time.Now().UTC().Truncate(time.Second),
	})
	require.NoError(t, err)

	existed, err := repo.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Deleting the same id again is a no-op
	existed, err = repo.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestSettingsRepository_Upsert(t *testing.T) {
	testDB := setupDB(t)
	repo := repositories.NewSettingsRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Get(ctx, services.SettingUnknownLogins)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Set(ctx, services.SettingUnknownLogins, "0"))

	value, err := repo.Get(ctx, services.SettingUnknownLogins)
	require.NoError(t, err)
	assert.Equal(t, "0", value)

	require.NoError(t, repo.Set(ctx, services.SettingUnknownLogins, "1"))

	value, err = repo.Get(ctx, services.SettingUnknownLogins)
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := setupDB(t)
	repo := repositories.NewUserRepository(testDB.DB)
	ctx := context.Background()

	seeded, err := SeedUser(ctx, testDB.Pool, "alice", "alice@example.com", "s3cret-Passw0rd!", models.RoleAdmin)
	require.NoError(t, err)

	byUsername, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byEmail.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecordingPipeline_PolicyControlsUnknownLogins(t *testing.T) {
	testDB := setupDB(t)
	ctx := context.Background()

	attemptRepo := repositories.NewLoginAttemptRepository(testDB.DB)
	userRepo := repositories.NewUserRepository(testDB.DB)
	settingsRepo := repositories.NewSettingsRepository(testDB.DB)

	settingsService := services.NewSettingsService(settingsRepo)
	auditService := services.NewAuditService(attemptRepo, userRepo, settingsService, slog.Default())

	_, err := SeedUser(ctx, testDB.Pool, "alice", "alice@example.com", "s3cret-Passw0rd!", models.RoleAdmin)
	require.NoError(t, err)

	// Default policy logs everything
	require.NoError(t, auditService.RecordFailedLogin(ctx, "nobody", "203.0.113.5"))

	attempts, err := attemptRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "nobody", attempts[0].Login)

	// Known-users-only drops the unknown name but keeps alice
	require.NoError(t, settingsService.SetLogUnknownLogins(ctx, false))
	require.NoError(t, auditService.RecordFailedLogin(ctx, "nobody", "203.0.113.5"))
	require.NoError(t, auditService.RecordFailedLogin(ctx, "alice", "198.51.100.9"))

	attempts, err = attemptRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "alice", attempts[1].Login)
}
