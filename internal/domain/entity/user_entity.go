package entity

import (
	"time"
)

// Role determines a user's authorization scope. Only two roles exist;
// the global date-range query is restricted to RoleAdmin.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt hash; the plaintext secret is never stored.
//
// Username, Email, and NationalID are unique across all users, enforced
// by storage-level constraints.
type User struct {
	ID           string
	Username     string
	Name         string
	NationalID   string
	PostalCode   string
	Address      string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
