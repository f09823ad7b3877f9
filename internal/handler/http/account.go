package http

import (
	"net/http"

	"github.com/sahalaww/sc-auth/internal/service"
	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
)

// AccountHandler serves the public account endpoints.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a handler over the account service.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /api/v1/accounts/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/accounts/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	_, pair, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, pair)
}

// Me handles GET /api/v1/accounts/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	writeOK(w, http.StatusOK, identity.User)
}

// Logout handles DELETE /api/v1/accounts/logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	if err := h.accounts.Logout(r.Context(), identity); err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, "The token has been revoked")
}

// Refresh handles POST /api/v1/accounts/refresh.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	access, err := h.accounts.Refresh(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]string{"access_token": access})
}
