package models

import "time"

// User represents a registered account. Passwords are stored as bcrypt hashes only.
// Users are created on registration and never mutated or deleted afterwards.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
