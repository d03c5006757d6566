package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a principal's authorization role.
type Role string

const (
	// RoleUser is a regular dashboard user.
	RoleUser Role = "user"
	// RoleAdmin is an administrator.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the authenticated identity carried inside signed tokens.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Claims is a decoded token: the principal plus its validity window.
type Claims struct {
	Principal
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CredentialPair is an access token issued together with its refresh token.
type CredentialPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the outcome of a successful request authentication.
type AuthResult struct {
	Principal Principal
	// RenewedAccessToken is set when the access token was reissued from the
	// refresh token and must be sent back to the client.
	RenewedAccessToken string
}
