package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// nonceEntry stores token metadata
type nonceEntry struct {
	userID string
	action string
	expiry time.Time
}

// NonceManager issues and verifies one-shot anti-forgery tokens. Every
// token is scoped to a user and a specific action ("settings",
// "delete-log-42"), so a token minted for one form cannot authorize a
// different mutation.
type NonceManager struct {
	validTokens map[string]*nonceEntry
	mu          sync.RWMutex
	tokenTTL    time.Duration
}

// NewNonceManager creates a new NonceManager
func NewNonceManager(ttl time.Duration) *NonceManager {
	manager := &NonceManager{
		validTokens: make(map[string]*nonceEntry),
		tokenTTL:    ttl,
	}

	go manager.cleanupExpiredTokens()

	return manager
}

// Generate creates a new nonce token scoped to a user and action
func (m *NonceManager) Generate(userID, action string) (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	token := hex.EncodeToString(randomBytes)

	m.mu.Lock()
	m.validTokens[token] = &nonceEntry{
		userID: userID,
		action: action,
		expiry: time.Now().Add(m.tokenTTL),
	}
	m.mu.Unlock()

	return token, nil
}

// Verify checks that a token exists, belongs to the user, matches the
// action scope, and has not expired.
func (m *NonceManager) Verify(token, userID, action string) bool {
	m.mu.RLock()
	entry, exists := m.validTokens[token]
	m.mu.RUnlock()

	if !exists {
		return false
	}

	if entry.userID != userID || entry.action != action {
		return false
	}

	if time.Now().After(entry.expiry) {
		m.mu.Lock()
		delete(m.validTokens, token)
		m.mu.Unlock()
		return false
	}

	return true
}

// Revoke invalidates a token after a state-changing request consumed it
func (m *NonceManager) Revoke(token string) {
	m.mu.Lock()
	delete(m.validTokens, token)
	m.mu.Unlock()
}

// cleanupExpiredTokens periodically removes expired tokens
func (m *NonceManager) cleanupExpiredTokens() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for token, entry := range m.validTokens {
			if now.After(entry.expiry) {
				delete(m.validTokens, token)
			}
		}
		m.mu.Unlock()
	}
}
