package domain

import (
	"time"
)

// User is a registered account. ID is the internal storage key; PublicID is
// the opaque identifier embedded in tokens so internal ids never leak. It is
// assigned once at creation and never changes or gets reused.
type User struct {
	ID           int64     `json:"-"`
	PublicID     string    `json:"public_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"-"`
	RoleName     string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the result of a successful token check: the resolved user plus
// the claims of the token that proved it.
type Identity struct {
	User      *User
	TokenID   string
	TokenKind TokenKind
}

// TokenPair holds the access and refresh tokens returned by login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
