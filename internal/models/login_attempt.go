package models

import "time"

// MaxLoginLength bounds the login column; longer identifiers are truncated
// before insert.
const MaxLoginLength = 200

// LoginAttempt is a single recorded failed login. Records are append-only:
// they are created once and never mutated, only deleted by id.
type LoginAttempt struct {
	ID    int64     `db:"id"`
	Login string    `db:"login"`
	IP    string    `db:"ip"`
	Time  time.Time `db:"time"`
}
