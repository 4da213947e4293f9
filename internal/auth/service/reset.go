package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/suinership/auth/internal/auth/notify"
	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/passpolicy"
	"github.com/suinership/auth/pkg/slogx"
)

// ErrResetInvalid covers every bad-token outcome of a reset confirmation.
// An expired token, a consumed token, and a token that never existed all
// read the same.
var ErrResetInvalid = errors.New("invalid_reset_token")

// DefaultResetTTL is how long a password reset token stays valid.
const DefaultResetTTL = 10 * time.Minute

// ResetService runs the two-step password reset: request mints a single-use
// token delivered out of band; confirm consumes it and replaces the password.
type ResetService struct {
	Store    store.Store
	Secrets  secrets.Store
	Notifier notify.Sender
	Policy   passpolicy.Policy

	TokenTTL time.Duration
}

func (s *ResetService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return DefaultResetTTL
}

// Request mints a reset token for the account behind email and hands it to
// the notifier for delivery. Returns store.ErrNotFound when no account
// exists; the transport layer surfaces that as-is.
func (s *ResetService) Request(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.Secrets.Put(ctx, secrets.ResetKey(token), user.ID, s.ttl()); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.Send(ctx, user.Email, "Password reset", "Your password reset token: "+token); err != nil {
			// Token stays valid; the caller still gets it in the response.
			slogx.FromContext(ctx).Warn("reset notification failed", slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}

	slogx.FromContext(ctx).Info("password reset requested", slog.String("user_id", user.ID))
	return token, nil
}

// Confirm consumes a reset token and sets the new password. The token is
// deleted right after the password write so it cannot authorize a second
// change.
func (s *ResetService) Confirm(ctx context.Context, token, newPassword string) error {
	userID, err := s.Secrets.Get(ctx, secrets.ResetKey(token))
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return ErrResetInvalid
		}
		return err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetInvalid
		}
		return err
	}

	if err := s.Policy.Check(newPassword, user.Email, user.FullName); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	if err := s.Secrets.Delete(ctx, secrets.ResetKey(token)); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	slogx.FromContext(ctx).Info("password reset confirmed", slog.String("user_id", user.ID))
	return nil
}
