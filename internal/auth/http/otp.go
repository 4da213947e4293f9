package http

import (
	"net/http"
	"strings"

	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/pkg/httpx"
)

// OTPHandler runs passwordless login with one-time codes.
type OTPHandler struct {
	OTPService *service.OTPService
}

// HandleRequest handles POST /v1/auth/otp
//
//	@Summary		Request a one-time login code
//	@Description	Generates a 6-digit code for the account and delivers it out
//	@Description	of band. The code is never included in the response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		otpRequestRequest	true	"Account email"
//	@Success		200		{object}	MessageResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"No account for this email"
//	@Router			/v1/auth/otp [post].
func (h *OTPHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req otpRequestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email is required.")
		return
	}

	if err := h.OTPService.Request(ctx, req.Email); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Code sent."})
}

// HandleVerify handles POST /v1/auth/otp/verify
//
//	@Summary		Log in with a one-time code
//	@Description	Verifies the pending code for the email and issues a token
//	@Description	pair. Codes are single use.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		otpVerifyRequest	true	"Email and code"
//	@Success		200		{object}	TokenPairResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or expired code"
//	@Router			/v1/auth/otp/verify [post].
func (h *OTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req otpVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	pair, err := h.OTPService.Verify(ctx, req.Email, req.Code)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeTokenPair(w, pair)
}
