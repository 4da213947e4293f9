package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRegisterAndLogin walks the happy path: create an account, then exchange
// the credentials for a token pair.
func TestRegisterAndLogin(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	user := register(t, stack, testEmail, testFullName, testPassword)
	require.NotEmpty(t, user.ID)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, testFullName, user.FullName)

	login(t, stack, testEmail, testPassword)
}

// TestRegisterDuplicateEmail verifies a second registration with the same
// email is rejected with the exact client-facing message.
func TestRegisterDuplicateEmail(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	register(t, stack, testEmail, testFullName, testPassword)

	resp := stack.do(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     testEmail,
		"full_name": "Someone Else",
		"password":  "another-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "This email is already registered.", errorMessage(t, resp))
}

// TestRegisterWeakPassword verifies the password policy is enforced at the
// HTTP boundary.
func TestRegisterWeakPassword(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	resp := stack.do(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     "short@example.com",
		"full_name": "Short Password",
		"password":  "abc",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t,
		"This password is too short. It must contain at least 8 characters.",
		errorMessage(t, resp))
}

// TestLoginRejectsBadCredentials verifies a wrong password and an unknown
// email fail with the same status and message, leaking nothing about which
// accounts exist.
func TestLoginRejectsBadCredentials(t *testing.T) {
	stack, cleanup := setupAuthServer(t)
	defer cleanup()

	register(t, stack, testEmail, testFullName, testPassword)

	wrongPassword := stack.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    testEmail,
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	wrongPasswordMsg := errorMessage(t, wrongPassword)

	unknownEmail := stack.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
	require.Equal(t, wrongPasswordMsg, errorMessage(t, unknownEmail))
}
