package domain

import "time"

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RoleAllowed reports whether role is contained in the allowed set.
// An empty allowed set denies everything.
func RoleAllowed(role Role, allowed ...Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

// Account mirrors the persisted representation in the accounts table.
// PasswordHash is empty for accounts created through social auth.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	AvatarURL    *string
	Bio          string
	Interests    []string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy of the account with credential material stripped.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}

// PendingRegistration carries a registration awaiting activation. It is never
// persisted; its only storage is the signed activation token round-tripped
// through the client.
type PendingRegistration struct {
	Username     string
	Email        string
	PasswordHash string
}
