package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/notify"
	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/slogx"
)

// ErrInvalidOTP is returned on any failed code verification, whether the
// code was wrong, expired, or never requested.
var ErrInvalidOTP = errors.New("invalid_otp")

const (
	// DefaultOTPTTL is how long a one-time login code stays valid.
	DefaultOTPTTL = 5 * time.Minute

	otpDigits = 6
)

// OTPService implements passwordless login with short numeric codes sent out
// of band. A fresh request overwrites any code still pending for the email.
type OTPService struct {
	Store    store.Store
	Secrets  secrets.Store
	Notifier notify.Sender
	Tokens   *TokenService

	CodeTTL time.Duration
}

func (s *OTPService) ttl() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultOTPTTL
}

// Request generates a 6-digit code for the account behind email and sends it
// via the notifier. The code is never returned to the caller. Returns
// store.ErrNotFound when no account exists.
func (s *OTPService) Request(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return store.ErrNotFound
	}

	code, err := cryptox.GenerateNumericCode(otpDigits)
	if err != nil {
		return fmt.Errorf("generate otp code: %w", err)
	}
	if err := s.Secrets.Put(ctx, secrets.OTPKey(email), code, s.ttl()); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.Send(ctx, user.Email, "Your login code", "Your one-time login code: "+code); err != nil {
			slogx.FromContext(ctx).Warn("otp notification failed", slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}

	slogx.FromContext(ctx).Info("otp requested", slog.String("user_id", user.ID))
	return nil
}

// Verify consumes the pending code for email and issues a token pair. The
// comparison is constant time and the code is deleted on success so it can
// be used at most once.
func (s *OTPService) Verify(ctx context.Context, email, code string) (domain.TokenPair, error) {
	email = NormalizeEmail(email)

	stored, err := s.Secrets.Get(ctx, secrets.OTPKey(email))
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidOTP
		}
		return domain.TokenPair{}, err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return domain.TokenPair{}, ErrInvalidOTP
	}

	if err := s.Secrets.Delete(ctx, secrets.OTPKey(email)); err != nil {
		return domain.TokenPair{}, fmt.Errorf("consume otp code: %w", err)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidOTP
		}
		return domain.TokenPair{}, err
	}
	if !user.IsActive {
		return domain.TokenPair{}, ErrInvalidOTP
	}

	slogx.FromContext(ctx).Info("otp login", slog.String("user_id", user.ID))
	return s.Tokens.IssuePair(ctx, user)
}
