package domain

import "time"

// User is the domain entity for a user account.
// IDs are opaque strings issued at registration, never reused.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
