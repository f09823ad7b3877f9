// Package token mints and parses the signed JWTs issued on login and
// refresh. Every minted token is persisted to the revocation registry
// before it is handed out, so an unrecorded token can never validate.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sahalaww/sc-auth/internal/domain"
	"github.com/sahalaww/sc-auth/internal/repository"
)

var (
	// ErrMalformed indicates a token that failed signature or structural
	// validation.
	ErrMalformed = errors.New("token is malformed or has an invalid signature")

	// ErrExpired indicates a token past its expiry.
	ErrExpired = errors.New("token has expired")
)

// Claims is the payload carried by every issued token.
type Claims struct {
	Kind domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// Issuer mints and validates signed tokens backed by the token store.
type Issuer struct {
	secret []byte
	tokens repository.TokenRepository
	now    func() time.Time
}

// NewIssuer creates a token issuer signing with the given secret.
func NewIssuer(secret string, tokens repository.TokenRepository) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		tokens: tokens,
		now:    time.Now,
	}
}

// Mint signs a new token of the given kind for the subject and records it
// in the token store. The signed string is only returned once the record
// is persisted; a token the store has never seen is treated as revoked.
func (i *Issuer) Mint(ctx context.Context, kind domain.TokenKind, subject string, ttl time.Duration) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("mint token: unknown kind %q", kind)
	}

	now := i.now().UTC()
	jti := uuid.NewString()

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	record := &domain.Token{
		JTI:          jti,
		Kind:         kind,
		UserPublicID: subject,
		ExpiresAt:    now.Add(ttl),
		Revoked:      false,
		CreatedAt:    now,
	}
	if err := i.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("record token: %w", err)
	}

	return signed, nil
}

// Parse validates the signature and expiry of a signed token and returns
// its claims. Expiry is reported as ErrExpired; every other validation
// failure is reported as ErrMalformed.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	if !claims.Kind.Valid() || claims.ID == "" || claims.Subject == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}
