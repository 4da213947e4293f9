package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/suinership/auth/internal/auth/federated"
	"github.com/suinership/auth/internal/auth/service"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/httpx"
	"github.com/suinership/auth/pkg/passpolicy"
	"github.com/suinership/auth/pkg/slogx"
)

// User-facing error messages. Every domain failure maps to exactly one of
// these; token failures deliberately never say whether a token was expired,
// tampered with, or of the wrong kind.
const (
	msgEmailTaken         = "This email is already registered."
	msgPasswordTooShort   = "This password is too short. It must contain at least 8 characters."
	msgPasswordNumeric    = "This password is entirely numeric."
	msgPasswordCommon     = "This password is too common."
	msgPasswordSimilar    = "The password is too similar to your personal information."
	msgInvalidCredentials = "Invalid credentials."
	msgInvalidToken       = "Invalid token."
	msgUserNotFound       = "User not found."
	msgResetInvalid       = "Reset token not found or expired."
	msgInvalidOTP         = "Invalid or expired code."
	msgAlreadyRegistered  = "This account is already registered."
	msgNotRegistered      = "No account is registered for this identity."
	msgFederatedFailed    = "Federated login failed."
	msgInvalidMFASession  = "Invalid or expired MFA session."
	msgInvalidTOTPCode    = "Invalid TOTP code."
	msgMFANotEnrolled     = "MFA is not enabled for this account."
	msgMFAAlreadyEnabled  = "MFA is already enabled for this account."
	msgServerError        = "Internal server error."
)

// writeServiceError maps a domain error onto the transport. Only the first,
// most relevant failure is surfaced, always as {"message": <string>}.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusBadRequest, msgEmailTaken)
	case errors.Is(err, passpolicy.ErrTooShort):
		httpx.WriteError(w, http.StatusBadRequest, msgPasswordTooShort)
	case errors.Is(err, passpolicy.ErrNumericOnly):
		httpx.WriteError(w, http.StatusBadRequest, msgPasswordNumeric)
	case errors.Is(err, passpolicy.ErrTooCommon):
		httpx.WriteError(w, http.StatusBadRequest, msgPasswordCommon)
	case errors.Is(err, passpolicy.ErrTooSimilar):
		httpx.WriteError(w, http.StatusBadRequest, msgPasswordSimilar)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, service.ErrResetInvalid):
		httpx.WriteError(w, http.StatusNotFound, msgResetInvalid)
	case errors.Is(err, service.ErrInvalidOTP):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidOTP)
	case errors.Is(err, service.ErrAlreadyRegistered):
		httpx.WriteError(w, http.StatusBadRequest, msgAlreadyRegistered)
	case errors.Is(err, service.ErrNotRegistered):
		httpx.WriteError(w, http.StatusNotFound, msgNotRegistered)
	case errors.Is(err, federated.ErrExchangeFailed),
		errors.Is(err, federated.ErrInvalidIDToken),
		errors.Is(err, federated.ErrNoIDToken):
		httpx.WriteError(w, http.StatusBadRequest, msgFederatedFailed)
	case errors.Is(err, service.ErrInvalidMFASession):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidMFASession)
	case errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidTOTPCode)
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusBadRequest, msgMFANotEnrolled)
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.WriteError(w, http.StatusBadRequest, msgMFAAlreadyEnabled)
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, msgUserNotFound)
	default:
		slogx.FromContext(ctx).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgServerError)
	}
}
