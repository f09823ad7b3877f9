package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahalaww/sc-auth/internal/service"
)

// AdminHandler serves the Admin-gated user administration endpoints.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler creates a handler over the account service.
func NewAdminHandler(accounts *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// ListUsers handles GET /api/v1/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"users": users})
}

// CreateUser handles POST /api/v1/users. Unlike public registration it
// accepts an explicit role_name.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/v1/users/{public_id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "public_id")

	if err := h.accounts.DeleteUser(r.Context(), publicID); err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]string{"public_id": publicID})
}
