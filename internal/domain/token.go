package domain

import (
	"time"
)

// TokenKind distinguishes access from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Valid reports whether k is a known token kind.
func (k TokenKind) Valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// Token is the stored record of an issued token, keyed by its JTI. Records
// are created at mint time and only ever mutated by flipping Revoked to true;
// they are never deleted by the service (a maintenance job may purge expired
// rows, since a missing record is treated as revoked anyway).
type Token struct {
	JTI          string    `json:"jti"`
	Kind         TokenKind `json:"kind"`
	UserPublicID string    `json:"user_public_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	Revoked      bool      `json:"revoked"`
	CreatedAt    time.Time `json:"created_at"`
}

