package http

import (
	"net/http"

	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// MFAHandler manages the TOTP second factor and completes MFA logins.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleVerify handles POST /v1/auth/mfa/verify
//
//	@Summary		Complete an MFA login
//	@Description	Finishes a pending login session opened by the login
//	@Description	endpoint. The session token is single use.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaVerifyRequest	true	"MFA session token and TOTP code"
//	@Success		200		{object}	TokenPairResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid TOTP code"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or expired MFA session"
//	@Router			/v1/auth/mfa/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mfaVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	pair, err := h.MFAService.VerifyLogin(ctx, req.MFAToken, req.Code)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeTokenPair(w, pair)
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP
//	@Description	Generates a TOTP secret for the authenticated user. The
//	@Description	factor starts gating logins only after activation.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	MFAEnrollResponse
//	@Failure		400	{object}	httpx.ErrorResponse	"MFA already enabled"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	enroll, err := h.MFAService.EnrollTOTP(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MFAEnrollResponse{
		Secret:     enroll.Secret,
		OTPAuthURL: enroll.OTPAuthURL,
	})
}

// HandleActivate handles POST /v1/mfa/totp/activate
//
//	@Summary		Activate TOTP
//	@Description	Verifies a first code against the enrolled secret and turns
//	@Description	the factor on.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaCodeRequest	true	"TOTP code"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid code or not enrolled"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/mfa/totp/activate [post].
func (h *MFAHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	var req mfaCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if err := h.MFAService.ActivateTOTP(ctx, userID, req.Code); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "MFA enabled."})
}

// HandleDisable handles DELETE /v1/mfa/totp
//
//	@Summary		Disable TOTP
//	@Description	Turns the factor off after a final code check.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaCodeRequest	true	"TOTP code"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid code or not enabled"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	var req mfaCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if err := h.MFAService.DisableTOTP(ctx, userID, req.Code); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "MFA disabled."})
}
