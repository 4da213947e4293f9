package http

import (
	"errors"
	"net/http"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// LoginHandler authenticates email/password credentials.
type LoginHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Issues an access/refresh token pair. Accounts with an active
//	@Description	TOTP factor get an MFA challenge instead; complete it via the
//	@Description	MFA verify endpoint.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	TokenPairResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid credentials"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	pair, err := h.UserService.Login(ctx, req.Email, req.Password)
	if err != nil {
		var mfaErr *service.MFARequiredError
		if errors.As(err, &mfaErr) {
			httpx.WriteJSON(w, http.StatusOK, MFAChallengeResponse{
				MFARequired: true,
				MFAToken:    mfaErr.MFAToken,
			})
			return
		}
		writeServiceError(ctx, w, err)
		return
	}

	writeTokenPair(w, pair)
}

func writeTokenPair(w http.ResponseWriter, pair domain.TokenPair) {
	httpx.WriteJSON(w, http.StatusOK, TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	})
}
