package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/secrets"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/idx"
	"github.com/suinership/auth/pkg/passpolicy"
	"github.com/suinership/auth/pkg/slogx"
)

var ErrEmailTaken = errors.New("email_taken")

// DefaultMFASessionTTL bounds how long a half-finished MFA login stays open.
const DefaultMFASessionTTL = 5 * time.Minute

type UserService struct {
	Store   store.Store
	Secrets secrets.Store
	Tokens  *TokenService
	Policy  passpolicy.Policy

	MFASessionTTL time.Duration
}

// NormalizeEmail is the canonical email form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local account with a usable password. The password must
// pass the strength policy checked against the user's own attributes.
func (s *UserService) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if err := s.Policy.Check(password, email, fullName); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return domain.User{}, fmt.Errorf("generate salt: %w", err)
	}

	now := time.Now()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Salt:         salt,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies email/password credentials and issues a token pair. Unknown
// emails and wrong passwords are indistinguishable to the caller. When the
// account has an active TOTP factor a pending login session is opened instead
// and an MFARequiredError carries its token back to the client.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so unknown emails don't respond faster.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if !user.HasUsablePassword() {
		_ = cryptox.VerifyPassword(password, dummyHash)
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", user.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if user.MFARequired() {
		sessionToken, err := s.openMFASession(ctx, user.ID)
		if err != nil {
			return domain.TokenPair{}, err
		}
		return domain.TokenPair{}, &MFARequiredError{MFAToken: sessionToken}
	}

	return s.Tokens.IssuePair(ctx, user)
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) openMFASession(ctx context.Context, userID string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("generate mfa session token: %w", err)
	}

	ttl := s.MFASessionTTL
	if ttl <= 0 {
		ttl = DefaultMFASessionTTL
	}
	if err := s.Secrets.Put(ctx, secrets.MFASessionKey(token), userID, ttl); err != nil {
		return "", fmt.Errorf("store mfa session: %w", err)
	}
	return token, nil
}

// dummyHash is verified against when no real hash exists, keeping the
// login latency profile flat. It matches no password.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
