package http

import (
	"net/http"

	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// RefreshHandler exchanges refresh tokens for new access tokens.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/refresh
//
//	@Summary		Refresh an access token
//	@Description	Validates the refresh token, re-checks the account is still
//	@Description	active, and mints a new access token. The refresh token is
//	@Description	not rotated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest	true	"Refresh token"
//	@Success		200		{object}	AccessTokenResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid, expired, or revoked refresh token"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Refresh token is required.")
		return
	}

	access, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AccessTokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.TokenService.AccessTTL.Seconds()),
	})
}
