package core

import (
	"strings"
	"time"
)

// Role distinguishes regular attendee sessions from admin sessions.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a token claim value back into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidToken
	}
}

// Session represents an authenticated wallet session. A session is valid
// only while it exists in the authoritative store and has not expired;
// possession of a signed token alone is not sufficient. Sessions are
// immutable once created.
type Session struct {
	ID        string    `json:"id"`
	Wallet    string    `json:"wallet"` // lowercase hex address
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session's lifetime has passed at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionClaims is the decoded view of a session token. Token validity
// (signature + embedded expiry) is necessary but not sufficient: the
// session referenced by SessionID must still exist server-side.
type SessionClaims struct {
	Wallet    string
	Role      Role
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionStats is a read-only diagnostic snapshot of the session store.
type SessionStats struct {
	Total   int          `json:"total"`
	Active  int          `json:"active"`
	Expired int          `json:"expired"`
	ByRole  map[Role]int `json:"byRole"`
}

// NormalizeWallet lowercases a hex address so that one wallet maps to one
// principal regardless of checksum casing.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(wallet)
}
