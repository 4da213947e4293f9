package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/suinership/auth/internal/auth/app"
	authhttp "github.com/suinership/auth/internal/auth/http"
	"github.com/suinership/auth/internal/auth/secrets"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * Each test boots a real Redis container and runs the fully wired application
 * in-process on top of it, served through httptest.
 */

const (
	redisImage = "redis:7-alpine"

	// Key namespace the redis-backed secret store writes under. Tests read
	// OTP codes straight out of Redis since they are only ever delivered
	// out of band.
	redisKeyPrefix = "auth:"

	testEmail    = "alice@example.com"
	testFullName = "Alice Example"
	testPassword = "correct-horse-battery"
)

// testStack is a running application instance plus its backing Redis container.
type testStack struct {
	baseURL string
	redis   *redis.Client

	ipSeq atomic.Int64
}

// setupAuthServer starts Redis in a container and the auth service in-process
// wired to it. The returned cleanup tears down both.
func setupAuthServer(t *testing.T) (*testStack, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	redisAddr := fmt.Sprintf("%s:%s", host, mappedPort.Port())

	dir := t.TempDir()
	application, err := app.New(app.Config{
		Issuer:              "auth-e2e",
		AccessTTL:           15 * time.Minute,
		RefreshTTL:          168 * time.Hour,
		DatabaseFile:        filepath.Join(dir, "auth.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		RedisAddr:           redisAddr,
		ResetTokenTTL:       10 * time.Minute,
		OTPCodeTTL:          5 * time.Minute,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                8080,
		ShutdownGracePeriod: 5 * time.Second,
	})
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())

	stack := &testStack{
		baseURL: server.URL,
		redis:   redis.NewClient(&redis.Options{Addr: redisAddr}),
	}

	cleanup := func() {
		server.Close()
		_ = stack.redis.Close()
		if err := application.Shutdown(); err != nil {
			t.Logf("failed to shut down application: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return stack, cleanup
}

// nextIP hands each request its own client address so the per-IP rate limits
// never interfere with multi-step scenarios. Rate limit tests pin an address
// with fromIP instead.
func (s *testStack) nextIP() string {
	n := s.ipSeq.Add(1)
	return fmt.Sprintf("10.90.%d.%d", n/250, n%250)
}

type requestOption func(*http.Request)

// fromIP pins the forwarded client address for the request.
func fromIP(ip string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", ip)
	}
}

// withBearer attaches an access token to the request.
func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// do issues a JSON request against the running service. The caller owns the
// response body.
func (s *testStack) do(t *testing.T, method, path string, body any, opts ...requestOption) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, s.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", s.nextIP())
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeBody decodes and closes a JSON response body.
func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// errorMessage extracts the message field of an error response.
func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decodeBody[struct {
		Message string `json:"message"`
	}](t, resp)
	return body.Message
}

// register creates a user and fails the test on anything but 201.
func register(t *testing.T, s *testStack, email, fullName, password string) authhttp.RegisterResponse {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":     email,
		"full_name": fullName,
		"password":  password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[authhttp.RegisterResponse](t, resp)
}

// login exchanges credentials for a token pair and fails the test on anything
// but 200.
func login(t *testing.T, s *testStack, email, password string) authhttp.TokenPairResponse {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pair := decodeBody[authhttp.TokenPairResponse](t, resp)
	assertTokenPair(t, pair)
	return pair
}

// otpCode reads the pending login code for an email straight out of Redis.
func (s *testStack) otpCode(t *testing.T, email string) string {
	t.Helper()

	code, err := s.redis.Get(t.Context(), redisKeyPrefix+secrets.OTPKey(email)).Result()
	require.NoError(t, err, "no pending code for %s", email)
	return code
}

// assertTokenPair verifies a token pair response has all required fields.
func assertTokenPair(t *testing.T, pair authhttp.TokenPairResponse) {
	t.Helper()
	require.NotEmpty(t, pair.AccessToken, "Access token should not be empty")
	require.NotEmpty(t, pair.RefreshToken, "Refresh token should not be empty")
	require.Equal(t, "Bearer", pair.TokenType, "Token type should be Bearer")
	require.Positive(t, pair.ExpiresIn, "Access token lifetime should be positive")
}
