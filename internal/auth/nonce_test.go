package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNonceManager_GenerateAndVerify(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	token, err := m.Generate("user123", "settings")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.True(t, m.Verify(token, "user123", "settings"))
}

func TestNonceManager_RejectsWrongAction(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	token, err := m.Generate("user123", "delete-log-7")
	assert.NoError(t, err)

	assert.False(t, m.Verify(token, "user123", "delete-log-8"))
	assert.False(t, m.Verify(token, "user123", "settings"))
}

func TestNonceManager_RejectsWrongUser(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	token, err := m.Generate("user123", "settings")
	assert.NoError(t, err)

	assert.False(t, m.Verify(token, "someone-else", "settings"))
}

func TestNonceManager_RejectsUnknownToken(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	assert.False(t, m.Verify("deadbeef", "user123", "settings"))
	assert.False(t, m.Verify("", "user123", "settings"))
}

func TestNonceManager_RejectsExpiredToken(t *testing.T) {
	m := NewNonceManager(-1 * time.Second)

	token, err := m.Generate("user123", "settings")
	assert.NoError(t, err)

	assert.False(t, m.Verify(token, "user123", "settings"))
}

func TestNonceManager_RevokedTokenCannotBeReplayed(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	token, err := m.Generate("user123", "delete-log-7")
	assert.NoError(t, err)
	assert.True(t, m.Verify(token, "user123", "delete-log-7"))

	m.Revoke(token)

	assert.False(t, m.Verify(token, "user123", "delete-log-7"))
}

func TestNonceManager_TokensAreUnique(t *testing.T) {
	m := NewNonceManager(15 * time.Minute)

	first, err := m.Generate("user123", "settings")
	assert.NoError(t, err)
	second, err := m.Generate("user123", "settings")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
