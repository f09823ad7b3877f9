package repository

import (
	"context"

	"github.com/sahalaww/sc-auth/internal/domain"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in its generated internal ID.
	// A username or email collision yields a conflict error.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by exact, case-sensitive username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByPublicID retrieves a user by their public identifier.
	GetByPublicID(ctx context.Context, publicID string) (*domain.User, error)

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)

	// Delete removes a user by their public identifier.
	Delete(ctx context.Context, publicID string) error
}

// RoleRepository resolves role names against the store.
type RoleRepository interface {
	// GetByName retrieves a role by its unique name.
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// TokenRepository is the revocation registry: it records every minted token
// and answers revocation queries.
type TokenRepository interface {
	// Create inserts a new token record with revoked=false. A duplicate JTI
	// is rejected by the store's primary key.
	Create(ctx context.Context, token *domain.Token) error

	// IsRevoked reports the revocation status for the given token identifier.
	// A missing record is reported as revoked: an unknown token is never
	// trusted.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Revoke flips the revoked flag for the record matching both the token
	// identifier and the claimed owner. If no record matches, a not-found
	// error is returned; callers must treat that as a failure, not a silent
	// success.
	Revoke(ctx context.Context, jti, ownerPublicID string) error

	// DeleteExpired removes records whose expiry has passed and returns the
	// number of rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
