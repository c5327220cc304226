package auth

import "time"

// User represents an authenticated user account. Each user belongs to one
// business; the session carries the scope after login.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	BusinessID   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
