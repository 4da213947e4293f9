package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	authhttp "github.com/suinership/auth/internal/auth/http"
	"github.com/suinership/auth/pkg/jwtx"
)

// TestLivezEndpoint verifies the liveness check responds as soon as the
// service is up.
func TestLivezEndpoint(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	resp := stack.do(t, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decodeBody[authhttp.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
}

// TestReadyzEndpoint verifies the readiness check reports every dependency
// healthy when the database, Redis and the signing keys are all up.
func TestReadyzEndpoint(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	resp := stack.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decodeBody[authhttp.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Secrets)
	require.Equal(t, "ok", health.Checks.Signer)
}

// TestJWKSEndpoint verifies signing keys are published for token consumers.
func TestJWKSEndpoint(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	resp := stack.do(t, http.MethodGet, "/.well-known/jwks.json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	jwks := decodeBody[jwtx.JWKS](t, resp)
	require.NotEmpty(t, jwks.Keys, "JWKS should contain at least one key")

	for _, key := range jwks.Keys {
		t.Logf("Key ID: %s, Kty: %s, Alg: %s", key.Kid, key.Kty, key.Alg)
		require.Equal(t, "OKP", key.Kty)
		require.Equal(t, "sig", key.Use)
		require.NotEmpty(t, key.Kid)
	}
}
