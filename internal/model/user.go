// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is the login identity and is UNIQUE at the store level.
// PasswordHash is a bcrypt hash — the plaintext password is never stored.
//
// IsAdmin marks the designated administrator. The first account ever
// registered gets the flag; only admins may create, edit, or delete posts.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"` // never serialized
	Name         string    `json:"name"      db:"name"`
	IsAdmin      bool      `json:"isAdmin"   db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
