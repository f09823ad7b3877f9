package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
	"github.com/sahalaww/sc-auth/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator checks a presented token and resolves the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string, wantKind domain.TokenKind) (*domain.Identity, error)
}

// identityFromContext returns the authenticated identity stored by Auth.
func identityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// Auth authenticates the request with a token of the given kind and stores
// the resolved identity in the request context. Every request hits the
// revocation registry; nothing is cached between requests.
func Auth(auth Authenticator, kind domain.TokenKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeError(w, r, apperrors.Unauthorized("missing or malformed authorization header"))
				return
			}

			identity, err := auth.Authenticate(r.Context(), tokenString, kind)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			ctx = logger.WithUserID(ctx, identity.User.PublicID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole admits only callers whose role name matches exactly. There is
// no role hierarchy; an Admin-gated route does not admit any other role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromContext(r.Context())
			if !ok {
				writeError(w, r, apperrors.Unauthorized("authentication required"))
				return
			}

			if identity.User.RoleName != role {
				writeError(w, r, apperrors.Forbidden("insufficient role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
