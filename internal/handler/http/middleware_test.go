package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sahalaww/sc-auth/internal/domain"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

// stubAuthenticator admits a single token string.
type stubAuthenticator struct {
	accept   string
	identity *domain.Identity
}

func (s *stubAuthenticator) Authenticate(_ context.Context, tokenString string, kind domain.TokenKind) (*domain.Identity, error) {
	if tokenString == s.accept && kind == s.identity.TokenKind {
		return s.identity, nil
	}
	return nil, apperrors.Unauthorized("The token has revoked")
}

func testIdentity(role string) *domain.Identity {
	return &domain.Identity{
		User: &domain.User{
			PublicID: "0f8fad5bd9cb469fa1656e8eacf2b1a4",
			Username: "alice",
			RoleName: role,
		},
		TokenID:   "jti-1",
		TokenKind: domain.TokenKindAccess,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"well-formed", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"no token", "Bearer ", "", false},
		{"scheme only", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, ok := bearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuthenticator{accept: "good-token", identity: testIdentity(domain.RoleUser)}

	var gotIdentity *domain.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = identityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(auth, domain.TokenKindAccess)(inner)

	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, gotIdentity)
		assert.Equal(t, "alice", gotIdentity.User.Username)
	})

	t.Run("rejected token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		wantCode int
	}{
		{"matching role", testIdentity(domain.RoleAdmin), http.StatusOK},
		{"wrong role", testIdentity(domain.RoleUser), http.StatusForbidden},
		{"no identity", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(domain.RoleAdmin)(okHandler())

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, tt.identity))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
