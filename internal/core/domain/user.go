package domain

import (
	"fmt"
	"time"
)

// Role is a flat, totally ordered privilege level: Guest < User < Admin.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// roleRank encodes the total order used for privilege comparisons.
var roleRank = map[Role]int{
	RoleGuest: 0,
	RoleUser:  1,
	RoleAdmin: 2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of other.
// Unknown roles rank below Guest.
func (r Role) AtLeast(other Role) bool {
	ra, ok := roleRank[r]
	if !ok {
		return false
	}
	rb, ok := roleRank[other]
	if !ok {
		return false
	}
	return ra >= rb
}

// ParseRole converts a string to a Role, failing on unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User models an authenticated actor in the system.
// PasswordHash is never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims is the decoded, transport-agnostic payload of a session token.
type Claims struct {
	UserID    string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
