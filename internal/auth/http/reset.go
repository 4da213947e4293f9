package http

import (
	"net/http"
	"strings"

	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// ResetHandler runs the two-step password reset.
type ResetHandler struct {
	ResetService *service.ResetService
}

// HandleRequest handles POST /v1/auth/password-reset
//
//	@Summary		Request a password reset
//	@Description	Mints a single-use reset token for the account and delivers
//	@Description	it out of band. Rate limited per client IP.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetRequestRequest	true	"Account email"
//	@Success		200		{object}	ResetRequestResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Missing email"
//	@Failure		404		{object}	httpx.ErrorResponse	"No account for this email"
//	@Failure		429		{object}	httpx.ErrorResponse	"Too many requests"
//	@Router			/v1/auth/password-reset [post].
func (h *ResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetRequestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email is required.")
		return
	}

	token, err := h.ResetService.Request(ctx, req.Email)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ResetRequestResponse{Token: token})
}

// HandleConfirm handles POST /v1/auth/password-reset/confirm
//
//	@Summary		Confirm a password reset
//	@Description	Consumes the reset token and sets the new password. The new
//	@Description	password must pass the strength policy.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetConfirmRequest	true	"Reset token and new password"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Weak password"
//	@Failure		404		{object}	httpx.ErrorResponse	"Token not found or expired"
//	@Router			/v1/auth/password-reset/confirm [post].
func (h *ResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetConfirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Token is required.")
		return
	}

	if err := h.ResetService.Confirm(ctx, req.Token, req.NewPassword); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully."})
}
