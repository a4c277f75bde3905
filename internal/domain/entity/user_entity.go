package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds an argon2id PHC string and must never be serialized
// into API responses.
//
// Username and email are globally unique and immutable after registration.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
