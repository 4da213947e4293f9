package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/internal/auth/federated"
	"github.com/suinership/auth/internal/auth/service"
)

// stubProvider maps authorization codes straight to identities, skipping the
// network round trips of the real client.
type stubProvider struct {
	identities map[string]federated.Identity
}

func (p *stubProvider) Name() string                  { return "stub" }
func (p *stubProvider) AuthCodeURL(state string) string { return "https://provider.test/authorize?state=" + state }

func (p *stubProvider) Exchange(_ context.Context, code string) (federated.Token, error) {
	if _, ok := p.identities[code]; !ok {
		return federated.Token{}, federated.ErrExchangeFailed
	}
	return federated.Token{AccessToken: "provider-access", IDToken: code}, nil
}

func (p *stubProvider) VerifyIDToken(_ context.Context, idToken string) (federated.Identity, error) {
	id, ok := p.identities[idToken]
	if !ok {
		return federated.Identity{}, federated.ErrInvalidIDToken
	}
	return id, nil
}

func newFederatedEnv(t *testing.T) (*env, *service.FederatedService, *stubProvider) {
	t.Helper()
	e := newEnv(t)
	provider := &stubProvider{identities: map[string]federated.Identity{
		"code-1": {Subject: "prov-sub-1", Email: "fed@x.com", Name: "Fed User", EmailVerified: true},
	}}
	svc := &service.FederatedService{Store: e.st, Tokens: e.tokens, Provider: provider}
	return e, svc, provider
}

func TestFederatedSignUp(t *testing.T) {
	ctx := context.Background()
	e, svc, _ := newFederatedEnv(t)

	pair, user, err := svc.SignUp(ctx, "code-1")
	require.NoError(t, err)
	require.Equal(t, "fed@x.com", user.Email)
	require.Equal(t, "Fed User", user.FullName)
	require.NotNil(t, user.FederatedID)
	require.Equal(t, "prov-sub-1", *user.FederatedID)
	require.False(t, user.HasUsablePassword(), "federated accounts start password-less")
	requireValidPair(t, e, pair, user.ID)

	stored, err := e.st.Users().GetUserByFederatedID(ctx, "prov-sub-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestFederatedSignUpTwice(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newFederatedEnv(t)

	_, _, err := svc.SignUp(ctx, "code-1")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "code-1")
	require.ErrorIs(t, err, service.ErrAlreadyRegistered)
}

func TestFederatedSignUpEmailTaken(t *testing.T) {
	ctx := context.Background()
	e, svc, _ := newFederatedEnv(t)

	e.register(t, "fed@x.com", "Local Fed", "Pw12345!")

	_, _, err := svc.SignUp(ctx, "code-1")
	require.ErrorIs(t, err, service.ErrAlreadyRegistered)
}

func TestFederatedLogin(t *testing.T) {
	ctx := context.Background()
	e, svc, _ := newFederatedEnv(t)

	_, created, err := svc.SignUp(ctx, "code-1")
	require.NoError(t, err)

	pair, user, err := svc.Login(ctx, "code-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	requireValidPair(t, e, pair, user.ID)
}

func TestFederatedLoginUnregistered(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newFederatedEnv(t)

	_, _, err := svc.Login(ctx, "code-1")
	require.ErrorIs(t, err, service.ErrNotRegistered)
}

func TestFederatedLoginMatchesLocalAccountByEmail(t *testing.T) {
	ctx := context.Background()
	e, svc, _ := newFederatedEnv(t)

	local := e.register(t, "fed@x.com", "Local Fed", "Pw12345!")

	pair, user, err := svc.Login(ctx, "code-1")
	require.NoError(t, err)
	require.Equal(t, local.ID, user.ID)
	requireValidPair(t, e, pair, user.ID)
}

func TestFederatedBadCode(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newFederatedEnv(t)

	_, _, err := svc.SignUp(ctx, "bogus")
	require.ErrorIs(t, err, federated.ErrExchangeFailed)

	_, _, err = svc.Login(ctx, "bogus")
	require.ErrorIs(t, err, federated.ErrExchangeFailed)
}
