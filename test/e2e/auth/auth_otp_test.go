package auth_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	authhttp "github.com/suinership/auth/internal/auth/http"
	"github.com/suinership/auth/internal/auth/secrets"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// TestOTPLoginFlow requests a one-time code, pulls it out of Redis the way a
// mail sender would receive it, and exchanges it for a token pair.
func TestOTPLoginFlow(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	register(t, stack, testEmail, testFullName, testPassword)

	resp := stack.do(t, http.MethodPost, "/v1/auth/otp", map[string]string{
		"email": testEmail,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	code := stack.otpCode(t, testEmail)
	require.Regexp(t, sixDigits, code)

	verify := stack.do(t, http.MethodPost, "/v1/auth/otp/verify", map[string]string{
		"email": testEmail,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, verify.StatusCode)
	assertTokenPair(t, decodeBody[authhttp.TokenPairResponse](t, verify))

	// The code is single use and gone from the store.
	_, err := stack.redis.Get(t.Context(), redisKeyPrefix+secrets.OTPKey(testEmail)).Result()
	require.ErrorIs(t, err, redis.Nil)

	reuse := stack.do(t, http.MethodPost, "/v1/auth/otp/verify", map[string]string{
		"email": testEmail,
		"code":  code,
	})
	require.Equal(t, http.StatusUnauthorized, reuse.StatusCode)
	reuse.Body.Close()
}

// TestOTPWrongCode verifies a wrong guess is rejected without burning the
// pending code.
func TestOTPWrongCode(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	register(t, stack, testEmail, testFullName, testPassword)

	resp := stack.do(t, http.MethodPost, "/v1/auth/otp", map[string]string{
		"email": testEmail,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	code := stack.otpCode(t, testEmail)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	guess := stack.do(t, http.MethodPost, "/v1/auth/otp/verify", map[string]string{
		"email": testEmail,
		"code":  wrong,
	})
	require.Equal(t, http.StatusUnauthorized, guess.StatusCode)
	guess.Body.Close()

	verify := stack.do(t, http.MethodPost, "/v1/auth/otp/verify", map[string]string{
		"email": testEmail,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, verify.StatusCode)
	verify.Body.Close()
}

// TestOTPUnknownEmail verifies requesting a code for an unknown account
// reports not found.
func TestOTPUnknownEmail(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	resp := stack.do(t, http.MethodPost, "/v1/auth/otp", map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
