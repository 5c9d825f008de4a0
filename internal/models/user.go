package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the request-scoped view of an authenticated user,
// attached by the identity middleware. Handlers make their own
// authorization decisions against it.
type Identity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	IsAdmin   bool
}
