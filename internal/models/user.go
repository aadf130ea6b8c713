package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string // "user" or "admin"
	CreatedAt    time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
