package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedLogin(t *testing.T) {
	tests := []struct {
		name  string
		login string
		want  string
	}{
		{"email", "alice@example.com", "a****@*******.com"},
		{"short username", "al", "a*"},
		{"single char", "a", "a"},
		{"empty", "", ""},
		{"plain username", "mallory", "m******"},
		{"subdomain email", "bob@mail.example.com", "b**@****.*******.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizedLogin(tt.login))
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, SanitizeQueryString("password=hunter2"))
	assert.True(t, SanitizeQueryString("_NONCE=abc123"))
	assert.True(t, SanitizeQueryString("access_token=xyz"))
	assert.False(t, SanitizeQueryString("msg=delete"))
	assert.False(t, SanitizeQueryString("id=7"))
	assert.False(t, SanitizeQueryString(""))
}
