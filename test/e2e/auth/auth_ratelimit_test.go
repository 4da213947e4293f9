package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRateLimitPasswordReset verifies the reset request endpoint throttles a
// single client after 5 attempts while leaving other clients untouched.
func TestRateLimitPasswordReset(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	const attackerIP = "203.0.113.50"

	body := map[string]string{"email": "nobody@example.com"}

	for i := range 5 {
		resp := stack.do(t, http.MethodPost, "/v1/auth/password-reset", body, fromIP(attackerIP))
		require.Equal(t, http.StatusNotFound, resp.StatusCode,
			"request %d should reach the handler, not the limiter", i+1)
		resp.Body.Close()
	}

	limited := stack.do(t, http.MethodPost, "/v1/auth/password-reset", body, fromIP(attackerIP))
	require.Equal(t, http.StatusTooManyRequests, limited.StatusCode,
		"request 6 should be rate limited")
	require.NotEmpty(t, limited.Header.Get("Retry-After"))
	limited.Body.Close()

	// A different client address is unaffected.
	other := stack.do(t, http.MethodPost, "/v1/auth/password-reset", body, fromIP("203.0.113.51"))
	require.Equal(t, http.StatusNotFound, other.StatusCode)
	other.Body.Close()
}

// TestRateLimitLoginEndpoint verifies login attempts are capped per client
// to slow down credential stuffing.
func TestRateLimitLoginEndpoint(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	const attackerIP = "203.0.113.60"

	body := map[string]string{"email": "victim@example.com", "password": "wrong"}

	for i := range 10 {
		resp := stack.do(t, http.MethodPost, "/v1/auth/login", body, fromIP(attackerIP))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			"request %d should fail authentication, not rate limiting", i+1)
		resp.Body.Close()
	}

	limited := stack.do(t, http.MethodPost, "/v1/auth/login", body, fromIP(attackerIP))
	require.Equal(t, http.StatusTooManyRequests, limited.StatusCode,
		"request 11 should be rate limited")
	limited.Body.Close()
}

// TestRateLimitJWKSAllowsPolling verifies the public JWKS endpoint tolerates
// frequent polling from a single consumer.
func TestRateLimitJWKSAllowsPolling(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	const consumerIP = "203.0.113.70"

	for i := range 50 {
		resp := stack.do(t, http.MethodGet, "/.well-known/jwks.json", nil, fromIP(consumerIP))
		require.Equal(t, http.StatusOK, resp.StatusCode, "poll %d should succeed", i+1)
		resp.Body.Close()
	}
}
