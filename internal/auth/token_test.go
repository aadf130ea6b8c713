package auth

import (
	"testing"
	"time"

	"loginaudit/internal/models"

	"github.com/stretchr/testify/assert"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleAdmin,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-at-least-16", 1*time.Hour)

	token, err := tm.GenerateSessionToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateSessionToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-at-least-16", 1*time.Hour)
	other := NewTokenManager("different-secret-xxxx", 1*time.Hour)

	token, err := tm.GenerateSessionToken(testUser())
	assert.NoError(t, err)

	_, err = other.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-at-least-16", -1*time.Minute)

	token, err := tm.GenerateSessionToken(testUser())
	assert.NoError(t, err)

	_, err = tm.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-at-least-16", 1*time.Hour)

	_, err := tm.ValidateSessionToken("not.a.token")
	assert.Error(t, err)
}
