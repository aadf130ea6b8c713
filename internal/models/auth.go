package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are carried in the operator session token.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
