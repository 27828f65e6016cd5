package domain

import "time"

// Role is the closed set of roles a user can hold. Role checks always go
// through this type; raw strings are only accepted at the JSON/BSON boundary
// and must pass ParseRole.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAnimador Role = "animador"
	RoleFamilia  Role = "familia"
)

// ParseRole maps a raw string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleAnimador, RoleFamilia:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User models an authenticated actor in the system.
//
// PasswordHash is the stored credential: either the versioned
// "scrypt$<salt>$<key>" encoding or, for accounts created before the
// migration, a bare legacy value. It is only ever interpreted by the
// password hasher.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
