package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/federated"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/pkg/cryptox"
	"github.com/suinership/auth/pkg/idx"
	"github.com/suinership/auth/pkg/slogx"
)

var (
	// ErrAlreadyRegistered is returned on the signup path when the provider
	// identity or its email is already bound to a local account.
	ErrAlreadyRegistered = errors.New("already_registered")

	// ErrNotRegistered is returned on the login path when the provider
	// identity has no local account.
	ErrNotRegistered = errors.New("not_registered")
)

// Provider is the slice of the federated client the service needs.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (federated.Token, error)
	VerifyIDToken(ctx context.Context, idToken string) (federated.Identity, error)
}

// FederatedService completes provider-delegated logins. The signup path
// creates a password-less local account bound to the provider subject; the
// login path requires one to already exist.
type FederatedService struct {
	Store    store.Store
	Tokens   *TokenService
	Provider Provider
}

// AuthURL builds the provider redirect URL for the given anti-forgery state.
func (s *FederatedService) AuthURL(state string) string {
	return s.Provider.AuthCodeURL(state)
}

// SignUp exchanges the authorization code, verifies the ID token, and creates
// a local account for the asserted identity.
func (s *FederatedService) SignUp(ctx context.Context, code string) (domain.TokenPair, domain.User, error) {
	id, err := s.identityFromCode(ctx, code)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}

	if _, err := s.Store.Users().GetUserByFederatedID(ctx, id.Subject); err == nil {
		return domain.TokenPair{}, domain.User{}, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, domain.User{}, err
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return domain.TokenPair{}, domain.User{}, fmt.Errorf("generate salt: %w", err)
	}

	now := time.Now()
	fedID := id.Subject
	user := domain.User{
		ID:          idx.New().String(),
		Email:       NormalizeEmail(id.Email),
		FullName:    id.Name,
		FederatedID: &fedID,
		Salt:        salt,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.TokenPair{}, domain.User{}, ErrAlreadyRegistered
		}
		return domain.TokenPair{}, domain.User{}, err
	}

	slogx.FromContext(ctx).Info("federated signup",
		slog.String("user_id", user.ID),
		slog.String("provider", s.Provider.Name()),
	)

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}
	return pair, user, nil
}

// Login exchanges the authorization code and signs in the existing local
// account bound to the provider subject. Accounts created before federated
// linking are matched by email as a fallback.
func (s *FederatedService) Login(ctx context.Context, code string) (domain.TokenPair, domain.User, error) {
	id, err := s.identityFromCode(ctx, code)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByFederatedID(ctx, id.Subject)
	if errors.Is(err, store.ErrNotFound) && id.Email != "" {
		user, err = s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(id.Email))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.User{}, ErrNotRegistered
		}
		return domain.TokenPair{}, domain.User{}, err
	}
	if !user.IsActive {
		return domain.TokenPair{}, domain.User{}, ErrInvalidCredentials
	}

	slogx.FromContext(ctx).Info("federated login",
		slog.String("user_id", user.ID),
		slog.String("provider", s.Provider.Name()),
	)

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}
	return pair, user, nil
}

func (s *FederatedService) identityFromCode(ctx context.Context, code string) (federated.Identity, error) {
	tok, err := s.Provider.Exchange(ctx, code)
	if err != nil {
		return federated.Identity{}, err
	}
	return s.Provider.VerifyIDToken(ctx, tok.IDToken)
}
