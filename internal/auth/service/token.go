package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/jwtx"
	"github.com/suinership/auth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrAccountDisabled    = errors.New("account_disabled")
)

// MFARequiredError signals that password verification succeeded but a TOTP
// code is still needed. The MFAToken references a pending login session the
// client must complete via the MFA verify operation.
type MFARequiredError struct {
	MFAToken string
}

func (e *MFARequiredError) Error() string { return "mfa_required" }

// TokenService mints and validates the signed access/refresh token pairs.
// Both tokens are stateless JWTs; refresh validity is re-checked against the
// current identity record so a ban takes effect at the next refresh.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Store    store.Store

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func roleFor(u domain.User) string {
	if u.IsAdmin() {
		return jwtx.RoleAdmin
	}
	return jwtx.RoleUser
}

// IssuePair mints a fresh access/refresh pair for the user. The role claim is
// derived here, at issuance, and is not re-derived on later validations.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	now := time.Now()
	role := roleFor(user)

	accessClaims := jwtx.NewClaims(user.ID, jwtx.TokenTypeAccess, role, user.Email, user.FullName, s.AccessTTL, s.Issuer, now)
	access, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshClaims := jwtx.NewClaims(user.ID, jwtx.TokenTypeRefresh, role, user.Email, user.FullName, s.RefreshTTL, s.Issuer, now)
	refresh, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Validate checks signature, expiry and the token_type claim. All failure
// modes collapse into ErrInvalidToken so callers never learn whether a token
// was expired, tampered with, or of the wrong kind.
func (s *TokenService) Validate(tokenStr, expectedType string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(tokenStr)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := claims.ValidateType(expectedType); err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// identity is re-read so deleted or deactivated accounts are cut off here
// even though their refresh token still verifies. The refresh token itself
// is not rotated.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Validate(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh for unknown subject", slog.String("sub", claims.Subject))
			return "", ErrInvalidRefresh
		}
		return "", err
	}
	if !user.IsActive {
		l.Info("refresh for inactive user", slog.String("user_id", user.ID))
		return "", ErrInvalidRefresh
	}

	accessClaims := jwtx.NewClaims(user.ID, jwtx.TokenTypeAccess, roleFor(user), user.Email, user.FullName, s.AccessTTL, s.Issuer, time.Now())
	access, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}
