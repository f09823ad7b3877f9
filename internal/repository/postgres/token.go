package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

// TokenRepository implements repository.TokenRepository using PostgreSQL.
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new PostgreSQL-backed token repository.
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create records a freshly minted token.
func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (jti, kind, user_public_id, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		t.JTI,
		t.Kind,
		t.UserPublicID,
		t.ExpiresAt,
		t.Revoked,
		t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("token", "jti", t.JTI)
		}
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token identified by jti is revoked.
// A token with no record is treated as revoked.
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT revoked FROM tokens WHERE jti = $1`

	var revoked bool
	err := r.db.QueryRow(ctx, query, jti).Scan(&revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("query token revocation: %w", err)
	}

	return revoked, nil
}

// Revoke marks the token as revoked, but only when it belongs to the
// given user. Revoking a token that is already revoked is a no-op that
// still succeeds.
func (r *TokenRepository) Revoke(ctx context.Context, jti, userPublicID string) error {
	query := `UPDATE tokens SET revoked = TRUE WHERE jti = $1 AND user_public_id = $2`

	ct, err := r.db.Exec(ctx, query, jti, userPublicID)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteExpired removes token records whose expiry is in the past.
// Intended for periodic cleanup.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM tokens WHERE expires_at < NOW()`

	ct, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}
