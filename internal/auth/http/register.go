package http

import (
	"net/http"
	"strings"

	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// RegisterHandler creates local accounts.
type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles POST /v1/auth/register
//
//	@Summary		Register a new account
//	@Description	Creates a local account with an email, display name and password.
//	@Description	The password must pass the strength policy.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"New account details"
//	@Success		201		{object}	RegisterResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failure or email already registered"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email is required.")
		return
	}

	user, err := h.UserService.Register(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	})
}
