package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/slogx"
)

var (
	ErrInvalidTOTPCode   = errors.New("invalid_totp_code")
	ErrMFANotEnrolled    = errors.New("mfa_not_enrolled")
	ErrMFAAlreadyEnabled = errors.New("mfa_already_enabled")
	ErrInvalidMFASession = errors.New("invalid_mfa_session")
)

// MFAEnrollment is what the client needs to provision an authenticator app.
type MFAEnrollment struct {
	Secret     string
	OTPAuthURL string
}

// MFAService manages the optional TOTP second factor. Enrollment stores a
// secret without enabling it; the user proves possession with a first code
// before the factor starts gating logins.
type MFAService struct {
	Store   store.Store
	Secrets secrets.Store
	Tokens  *TokenService

	// Issuer is the account label shown in authenticator apps.
	Issuer string
}

// EnrollTOTP generates and stores a TOTP secret for the user. The factor is
// not active until ActivateTOTP succeeds.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return MFAEnrollment{}, err
	}
	if user.MFARequired() {
		return MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return MFAEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return MFAEnrollment{}, err
	}

	return MFAEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// ActivateTOTP verifies a first code against the enrolled secret and turns
// the factor on.
func (s *MFAService) ActivateTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil || *user.TOTPSecret == "" {
		return ErrMFANotEnrolled
	}
	if user.MFARequired() {
		return ErrMFAAlreadyEnabled
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableTOTP(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("totp enabled", slog.String("user_id", userID))
	return nil
}

// DisableTOTP turns the factor off after a final code check.
func (s *MFAService) DisableTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFARequired() {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().DisableTOTP(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("totp disabled", slog.String("user_id", userID))
	return nil
}

// VerifyLogin completes a pending MFA login session. Only a successful
// verification consumes the session token; failed attempts leave it to
// expire with its TTL.
func (s *MFAService) VerifyLogin(ctx context.Context, sessionToken, code string) (domain.TokenPair, error) {
	userID, err := s.Secrets.Get(ctx, secrets.MFASessionKey(sessionToken))
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidMFASession
		}
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidMFASession
		}
		return domain.TokenPair{}, err
	}
	if !user.MFARequired() || !user.IsActive {
		return domain.TokenPair{}, ErrInvalidMFASession
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		return domain.TokenPair{}, ErrInvalidTOTPCode
	}

	if err := s.Secrets.Delete(ctx, secrets.MFASessionKey(sessionToken)); err != nil {
		return domain.TokenPair{}, fmt.Errorf("consume mfa session: %w", err)
	}

	slogx.FromContext(ctx).Info("mfa login", slog.String("user_id", user.ID))
	return s.Tokens.IssuePair(ctx, user)
}
